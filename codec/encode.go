package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/erraggy/docmerge/docerrors"
	"github.com/erraggy/docmerge/internal/fileutil"
	"github.com/erraggy/docmerge/tree"
	"github.com/pelletier/go-toml/v2"
	"go.yaml.in/yaml/v4"
)

// Encode serializes root in the given format. JSON and YAML output are
// indented by two spaces. Every format ends with a newline.
func Encode(root *tree.Node, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(root, "", "  ")
		if err != nil {
			return nil, &docerrors.WriteError{Message: "encoding JSON", Cause: err}
		}
		return append(data, '\n'), nil
	case FormatTOML:
		return encodeTOML(root)
	case FormatYAML, FormatUnknown:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(root); err != nil {
			return nil, &docerrors.WriteError{Message: "encoding YAML", Cause: err}
		}
		if err := enc.Close(); err != nil {
			return nil, &docerrors.WriteError{Message: "encoding YAML", Cause: err}
		}
		return buf.Bytes(), nil
	default:
		return nil, &docerrors.ConfigError{Option: "format", Value: string(format), Message: "unsupported format"}
	}
}

// encodeTOML writes root as a TOML document. TOML has no null, so null
// mapping entries are dropped; a null inside an array is an error, as is a
// root that is not a mapping.
func encodeTOML(root *tree.Node) ([]byte, error) {
	if !root.IsMapping() {
		return nil, &docerrors.WriteError{Message: fmt.Sprintf("TOML documents must be tables, got %s", root.Kind())}
	}
	v, err := tomlValue(root, nil)
	if err != nil {
		return nil, &docerrors.WriteError{Message: "encoding TOML", Cause: err}
	}
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(v); err != nil {
		return nil, &docerrors.WriteError{Message: "encoding TOML", Cause: err}
	}
	return buf.Bytes(), nil
}

func tomlValue(n *tree.Node, path tree.Path) (any, error) {
	switch n.Kind() {
	case tree.KindMapping:
		out := make(map[string]any, n.Len())
		for _, k := range n.Keys() {
			child, _ := n.Get(k)
			if child.IsNull() {
				continue
			}
			v, err := tomlValue(child, path.Child(k))
			if err != nil {
				return nil, err
			}
			out[k] = v
		}
		return out, nil
	case tree.KindSequence:
		items := n.Items()
		out := make([]any, len(items))
		for i, item := range items {
			if item.IsNull() {
				return nil, fmt.Errorf("null array element at %s[%d]", path, i)
			}
			v, err := tomlValue(item, path)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case tree.KindScalar:
		return n.Value(), nil
	default:
		return nil, fmt.Errorf("null value at %s", path)
	}
}

// WriteFile writes data to path with owner-only permissions.
// The path is cleaned and symlinks are refused so output cannot be
// redirected to an unintended location.
func WriteFile(path string, data []byte) error {
	cleaned := filepath.Clean(path)
	if err := RejectSymlink(cleaned); err != nil {
		return err
	}
	if err := os.WriteFile(cleaned, data, fileutil.OwnerReadWrite); err != nil {
		return &docerrors.WriteError{Path: cleaned, Cause: err}
	}
	return nil
}

// RejectSymlink returns an error if path exists and is a symlink.
func RejectSymlink(path string) error {
	info, err := os.Lstat(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return &docerrors.WriteError{Path: path, Message: "checking output path", Cause: err}
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return &docerrors.WriteError{Path: path, Message: "refusing to write to symlink"}
	}
	return nil
}

// CheckOutputPath returns an error if outputPath names one of inputPaths.
// Empty inputs and StdinPath are skipped. Paths are compared after making
// them absolute and, when both files exist, with os.SameFile so a hard link
// or a differently spelled name for the same file is caught too.
func CheckOutputPath(outputPath string, inputPaths []string) error {
	absOutput, err := filepath.Abs(outputPath)
	if err != nil {
		return &docerrors.ConfigError{Option: "output", Value: outputPath, Message: "invalid output path", Cause: err}
	}
	outputInfo, statErr := os.Stat(absOutput)

	for _, input := range inputPaths {
		if input == "" || input == StdinPath {
			continue
		}
		absInput, err := filepath.Abs(input)
		if err != nil {
			return &docerrors.ConfigError{Option: "input", Value: input, Message: "invalid input path", Cause: err}
		}
		same := absInput == absOutput
		if !same && statErr == nil {
			if inputInfo, err := os.Stat(absInput); err == nil {
				same = os.SameFile(outputInfo, inputInfo)
			}
		}
		if same {
			return &docerrors.ConfigError{
				Option:  "output",
				Value:   outputPath,
				Message: fmt.Sprintf("output file would overwrite input file %s", input),
			}
		}
	}
	return nil
}
