package codec

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/erraggy/docmerge/docerrors"
	"golang.org/x/text/cases"
	"golang.org/x/text/width"
)

// Format identifies a document serialization format.
type Format string

const (
	// FormatUnknown means the format has not been determined.
	FormatUnknown Format = ""
	// FormatYAML is YAML 1.2 (also accepts JSON input).
	FormatYAML Format = "yaml"
	// FormatJSON is JSON.
	FormatJSON Format = "json"
	// FormatTOML is TOML v1.0.
	FormatTOML Format = "toml"
)

// String returns the format name, or "unknown".
func (f Format) String() string {
	if f == FormatUnknown {
		return "unknown"
	}
	return string(f)
}

// ValidFormats returns the names accepted by ParseFormat.
func ValidFormats() []string {
	return []string{string(FormatYAML), string(FormatJSON), string(FormatTOML)}
}

var fold = cases.Fold()

// ParseFormat converts a user-supplied format name such as "YAML", "yml" or
// ".json" into a Format. Full-width forms typed through an IME, like "ＪＳＯＮ",
// are narrowed first and letter case is folded.
func ParseFormat(name string) (Format, error) {
	s := width.Narrow.String(name)
	s = fold.String(strings.TrimPrefix(strings.TrimSpace(s), "."))
	switch s {
	case "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	case "toml":
		return FormatTOML, nil
	default:
		return FormatUnknown, &docerrors.ConfigError{
			Option:  "format",
			Value:   name,
			Message: fmt.Sprintf("valid formats: %s", strings.Join(ValidFormats(), ", ")),
		}
	}
}

// FormatFromPath detects the format from a file extension.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	default:
		return FormatUnknown
	}
}

// FormatFromContent attempts to detect the format from the content bytes.
// JSON starts with '{' or '['; everything else non-empty is treated as YAML.
func FormatFromContent(data []byte) Format {
	trimmed := bytes.TrimLeft(data, " \t\n\r")
	if len(trimmed) == 0 {
		return FormatUnknown
	}
	if trimmed[0] == '{' || trimmed[0] == '[' {
		return FormatJSON
	}
	return FormatYAML
}

// DetectFormat returns the format for a document, preferring the path
// extension and falling back to content sniffing, then YAML.
func DetectFormat(path string, data []byte) Format {
	if f := FormatFromPath(path); f != FormatUnknown {
		return f
	}
	if f := FormatFromContent(data); f != FormatUnknown {
		return f
	}
	return FormatYAML
}
