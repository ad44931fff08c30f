package cliutil

import (
	"bytes"
	"errors"
	"testing"
)

func TestWritef(t *testing.T) {
	var buf bytes.Buffer
	Writef(&buf, "%d overlay(s) from %s", 2, "prod.yaml")
	if got, want := buf.String(), "2 overlay(s) from prod.yaml"; got != want {
		t.Errorf("Writef() = %q, want %q", got, want)
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("broken pipe")
}

func TestWritef_WriteError(t *testing.T) {
	// Must not panic.
	Writef(failingWriter{}, "lost")
}

func TestBanner(t *testing.T) {
	var buf bytes.Buffer
	Banner(&buf, "Document Merge")
	if got, want := buf.String(), "Document Merge\n==============\n\n"; got != want {
		t.Errorf("Banner() = %q, want %q", got, want)
	}

	buf.Reset()
	Banner(&buf, "Überblick")
	if got, want := buf.String(), "Überblick\n=========\n\n"; got != want {
		t.Errorf("Banner() with multibyte title = %q, want %q", got, want)
	}
}
