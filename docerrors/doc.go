// Package docerrors provides structured error types for docmerge.
//
// Import path: github.com/erraggy/docmerge/docerrors
//
// Every failure docmerge can report comes from the I/O collaborators around
// the merge: reading a document, parsing it, writing the result, or
// rejecting invalid options. The merge itself never fails. The types here
// let callers tell these apart with [errors.Is] and [errors.As].
//
// # Error Types
//
//   - [ResourceError]: a document could not be read
//   - [ParseError]: a document is not valid YAML, JSON or TOML
//   - [WriteError]: the merged document could not be written
//   - [ResourceLimitError]: an input exceeded a configured limit
//   - [ConfigError]: invalid configuration or input options
//
// # Sentinel Errors
//
// Each error type has a corresponding sentinel error for use with errors.Is():
//
//   - [ErrUnreadable]: Matches any [ResourceError]
//   - [ErrParse]: Matches any [ParseError]
//   - [ErrWrite]: Matches any [WriteError]
//   - [ErrResourceLimit]: Matches any [ResourceLimitError]
//   - [ErrConfig]: Matches any [ConfigError]
//
// # Usage
//
//	result, err := merger.MergeWithOptions(
//	    merger.WithBaseFilePath("base.yaml"),
//	    merger.WithOverlayFilePaths("prod.yaml"),
//	)
//	if errors.Is(err, docerrors.ErrParse) {
//	    var pe *docerrors.ParseError
//	    if errors.As(err, &pe) && pe.Line > 0 {
//	        fmt.Printf("syntax error in %s on line %d\n", pe.Path, pe.Line)
//	    }
//	}
package docerrors
