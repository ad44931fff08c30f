package textdiff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLines(t *testing.T) {
	got := Lines("a\nb\nc\n", "a\nB\nc\nd\n")
	want := []Line{
		{OpEqual, "a"},
		{OpDelete, "b"},
		{OpInsert, "B"},
		{OpEqual, "c"},
		{OpInsert, "d"},
	}
	assert.Equal(t, want, got)
}

func TestUnifiedEqual(t *testing.T) {
	assert.Empty(t, Unified("a", "b", "x\ny\n", "x\ny\n", DefaultContext))
}

func TestUnified(t *testing.T) {
	a := "1\n2\n3\n4\n5\n6\n7\n8\n9\n10\n"
	b := "1\n2\n3\n4\nfive\n6\n7\n8\n9\n10\n"
	got := Unified("base.yaml", "merged", a, b, 2)
	want := "--- base.yaml\n+++ merged\n" +
		"@@ -3,5 +3,5 @@\n" +
		" 3\n 4\n-5\n+five\n 6\n 7\n"
	assert.Equal(t, want, got)
}

func TestUnifiedSeparateHunks(t *testing.T) {
	a := "a\nb\nc\nd\ne\nf\ng\nh\n"
	b := "A\nb\nc\nd\ne\nf\ng\nH\n"
	got := Unified("x", "y", a, b, 1)
	want := "--- x\n+++ y\n" +
		"@@ -1,2 +1,2 @@\n-a\n+A\n b\n" +
		"@@ -7,2 +7,2 @@\n g\n-h\n+H\n"
	assert.Equal(t, want, got)
}

func TestUnifiedInsertIntoEmpty(t *testing.T) {
	got := Unified("empty", "new", "", "a\nb\n", DefaultContext)
	require.NotEmpty(t, got)
	assert.Contains(t, got, "@@ -0,0 +1,2 @@\n+a\n+b\n")
}
