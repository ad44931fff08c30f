package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"regexp"
	"strconv"

	"github.com/erraggy/docmerge/docerrors"
	"github.com/erraggy/docmerge/tree"
	"github.com/pelletier/go-toml/v2"
	"go.yaml.in/yaml/v4"
)

// Document is a parsed document together with where it came from.
type Document struct {
	// Root is the document tree. It is never nil.
	Root *tree.Node
	// Format is the format the document was parsed as.
	Format Format
	// SourcePath is the file path or display name of the input.
	SourcePath string
	// SourceSize is the size of the input in bytes.
	SourceSize int64
}

// Loader reads and parses documents.
// The zero value is ready to use and detects formats automatically.
type Loader struct {
	// Format forces the input format. FormatUnknown enables detection.
	Format Format

	// MaxSize limits the number of bytes read per document.
	// Zero means no limit.
	MaxSize int64
}

// ParseFile parses the document at path with a default Loader.
func ParseFile(path string) (*Document, error) {
	return (&Loader{}).ParseFile(path)
}

// ParseReader parses a document from r with a default Loader.
// The name is used in error messages only.
func ParseReader(r io.Reader, name string) (*Document, error) {
	return (&Loader{}).ParseReader(r, name)
}

// ParseBytes parses a document held in memory with a default Loader.
func ParseBytes(data []byte, name string) (*Document, error) {
	return (&Loader{}).ParseBytes(data, name)
}

// StdinPath is the file path that selects standard input.
const StdinPath = "-"

// ParseFile reads and parses the document at path. StdinPath reads
// standard input, detecting the format from content.
func (l *Loader) ParseFile(path string) (*Document, error) {
	if path == StdinPath {
		return l.ParseReader(os.Stdin, StdinPath)
	}
	f, err := os.Open(path) //nolint:gosec // G304 - path is the user-selected input document
	if err != nil {
		return nil, &docerrors.ResourceError{Path: path, Cause: err}
	}
	defer func() { _ = f.Close() }()
	return l.ParseReader(f, path)
}

// ParseReader reads all of r and parses it.
func (l *Loader) ParseReader(r io.Reader, name string) (*Document, error) {
	if l.MaxSize > 0 {
		r = io.LimitReader(r, l.MaxSize+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &docerrors.ResourceError{Path: name, Cause: err}
	}
	return l.ParseBytes(data, name)
}

// ParseBytes parses data. The name is used for format detection and in
// error messages.
func (l *Loader) ParseBytes(data []byte, name string) (*Document, error) {
	if l.MaxSize > 0 && int64(len(data)) > l.MaxSize {
		return nil, &docerrors.ResourceLimitError{
			ResourceType: "input_size",
			Limit:        l.MaxSize,
			Actual:       int64(len(data)),
			Message:      name,
		}
	}
	format := l.Format
	if format == FormatUnknown {
		format = DetectFormat(name, data)
	}
	root, err := Decode(data, format)
	if err != nil {
		var pe *docerrors.ParseError
		if errors.As(err, &pe) {
			pe.Path = name
		}
		return nil, err
	}
	return &Document{
		Root:       root,
		Format:     format,
		SourcePath: name,
		SourceSize: int64(len(data)),
	}, nil
}

// Decode parses data in the given format into a tree. An empty document
// decodes as an empty mapping.
func Decode(data []byte, format Format) (*tree.Node, error) {
	var (
		root *tree.Node
		err  error
	)
	switch format {
	case FormatJSON:
		root, err = decodeJSON(data)
	case FormatTOML:
		root, err = decodeTOML(data)
	case FormatYAML, FormatUnknown:
		format = FormatYAML
		root, err = decodeYAML(data)
	default:
		return nil, &docerrors.ConfigError{Option: "format", Value: string(format), Message: "unsupported format"}
	}
	if err != nil {
		return nil, err
	}
	if root.IsNull() {
		return tree.NewMapping(), nil
	}
	return root, nil
}

var yamlLinePattern = regexp.MustCompile(`line (\d+)`)

func decodeYAML(data []byte) (*tree.Node, error) {
	var root tree.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		pe := &docerrors.ParseError{Format: string(FormatYAML), Cause: err}
		if m := yamlLinePattern.FindStringSubmatch(err.Error()); m != nil {
			pe.Line, _ = strconv.Atoi(m[1])
		}
		return nil, pe
	}
	return &root, nil
}

func decodeJSON(data []byte) (*tree.Node, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return tree.Null(), nil
	}
	// encoding/json reports byte offsets for syntax errors; the tree
	// decoder does not.
	if err := json.Unmarshal(data, new(json.RawMessage)); err != nil {
		pe := &docerrors.ParseError{Format: string(FormatJSON), Cause: err}
		var se *json.SyntaxError
		if errors.As(err, &se) {
			pe.Line, pe.Column = lineColumn(data, se.Offset)
		}
		return nil, pe
	}
	var root tree.Node
	if err := root.UnmarshalJSON(data); err != nil {
		return nil, &docerrors.ParseError{Format: string(FormatJSON), Cause: err}
	}
	return &root, nil
}

func decodeTOML(data []byte) (*tree.Node, error) {
	var m map[string]any
	if err := toml.Unmarshal(data, &m); err != nil {
		pe := &docerrors.ParseError{Format: string(FormatTOML), Cause: err}
		var de *toml.DecodeError
		if errors.As(err, &de) {
			pe.Line, pe.Column = de.Position()
		}
		return nil, pe
	}
	return tree.FromAny(m), nil
}

// lineColumn converts a byte offset into a 1-based line and column.
func lineColumn(data []byte, offset int64) (int, int) {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	line, col := 1, 1
	for _, b := range data[:offset] {
		if b == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return line, col
}
