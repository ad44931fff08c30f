// Package docmerge deep-merges structured configuration documents.
//
// A base document is combined with one or more overlay documents, applied
// in order. Every leaf of an overlay (a scalar or a whole sequence) is
// written into the base at the same key path, creating intermediate
// mappings as needed. Keys the overlay does not mention are kept, and a
// later overlay wins over an earlier one.
//
// Documents may be YAML, JSON or TOML, and the formats may be mixed.
//
// # Packages
//
//   - tree: the ordered document tree shared by every other package
//   - codec: format detection, decoding and encoding
//   - merger: flattening, path writing and overlay orchestration
//   - docerrors: structured error types for errors.Is and errors.As
//
// # Quick Start
//
//	result, err := merger.MergeWithOptions(
//	    merger.WithBaseFilePath("config.yaml"),
//	    merger.WithOverlayFilePaths("prod.yaml", "local.yaml"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	out, err := codec.Encode(result.Document, result.SourceFormat)
//
// # Command Line
//
// The docmerge command wraps the library:
//
//	docmerge merge config.yaml prod.yaml > merged.yaml
//	docmerge merge --dry-run config.yaml prod.yaml
//	docmerge flatten config.yaml
//	docmerge mcp
//
// See the merger package for the exact merge rules.
package docmerge
