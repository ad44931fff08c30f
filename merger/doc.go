// Package merger deep-merges overlay documents into a base document.
//
// Each overlay is flattened into its leaves, and every leaf is written into
// the base at the same path. Overlays are applied in order, so when two
// overlays set the same leaf the later one wins.
//
// # Quick Start
//
// Merge files using functional options:
//
//	result, err := merger.MergeWithOptions(
//	    merger.WithBaseFilePath("config.yaml"),
//	    merger.WithOverlayFilePaths("prod.yaml", "local.yaml"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("Wrote %d leaves\n", result.LeavesWritten)
//
// Or use a reusable Merger instance:
//
//	m := merger.New()
//	m.Coercion = merger.CoerceAbsent
//	result, err := m.Merge("config.yaml", "prod.yaml")
//
// # Leaves
//
// A leaf is any value that is not a mapping: a scalar, or a sequence taken
// as a whole. Sequences are never merged element by element; an overlay
// sequence replaces the base value outright. Null values in an overlay are
// skipped, so an overlay cannot delete a key or set it to null. An empty
// mapping in an overlay has no leaves and contributes nothing.
//
// # Intermediate Values
//
// Writing a.b.c requires a and a.b to be mappings. Missing or null
// intermediates are replaced by new mappings. What happens to other
// non-mapping intermediates depends on the [CoercionMode]:
//
//   - [CoerceFalsy] (default) replaces them too and records a
//     coerced_intermediate warning. A false, 0 or "" placeholder is logged
//     at debug level; a truthy scalar or sequence is logged as a warning
//     since real data is lost. [WriteStats.Clobbered] lists the latter.
//   - [CoerceAbsent] leaves them alone and records a blocked_write warning
//     for the leaf instead.
//
// # Document Roots
//
// An overlay whose root is a scalar or sequence has no addressable leaves
// and is skipped with a root_leaf warning. A base whose root is not a
// mapping is replaced by an empty mapping before the first write.
//
// # Mutation
//
// [Merger.MergeParsed] mutates the base document's tree in place. Use
// [Merger.DryRun] or [WithDryRun] to merge into a copy instead. Overlay
// documents are never modified, and written values are copied out of them.
package merger
