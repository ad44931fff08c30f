package merger

import (
	"fmt"

	"github.com/erraggy/docmerge/codec"
	"github.com/erraggy/docmerge/tree"
)

// MergeResult contains the result of merging overlays into a base document.
type MergeResult struct {
	// Document is the merged tree. Unless the merge was a dry run this is
	// the base document's own tree, mutated in place.
	Document *tree.Node

	// SourceFormat is the base document's format.
	SourceFormat codec.Format

	// SourcePath is the base document's path or display name.
	SourcePath string

	// OverlaysApplied is the number of overlays applied, in order.
	OverlaysApplied int

	// LeavesWritten is the total number of leaf values written.
	LeavesWritten int

	// LeavesBlocked is the number of leaves not written because their path
	// crossed a non-mapping value under CoerceAbsent.
	LeavesBlocked int

	// RootLeavesSkipped counts overlays whose root was itself a leaf and
	// therefore had nothing addressable to write.
	RootLeavesSkipped int

	// MappingsCreated is the number of intermediate mappings created.
	MappingsCreated int

	// Overlays records per-overlay statistics in application order.
	Overlays []OverlayRecord

	// Warnings records data-loss and no-op conditions met while merging.
	Warnings MergeWarnings
}

// OverlayRecord describes the application of one overlay.
type OverlayRecord struct {
	// Index is the zero-based position of the overlay.
	Index int

	// Source is the overlay's path or display name.
	Source string

	// LeavesWritten is the number of leaves written from this overlay.
	LeavesWritten int

	// LeavesBlocked is the number of leaves from this overlay not written.
	LeavesBlocked int

	// MappingsCreated is the number of intermediate mappings this overlay created.
	MappingsCreated int
}

// HasWarnings returns true if any warnings were generated.
func (r *MergeResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// WarningStrings returns the warnings as formatted messages.
func (r *MergeResult) WarningStrings() []string {
	return r.Warnings.Strings()
}

// addWarning appends w to the result.
func (r *MergeResult) addWarning(w *MergeWarning) {
	r.Warnings = append(r.Warnings, w)
}

// WarningCategory identifies the type of merge warning.
type WarningCategory string

const (
	// WarnCoercedIntermediate indicates a non-null value was replaced by a
	// mapping so that a deeper leaf could be written.
	WarnCoercedIntermediate WarningCategory = "coerced_intermediate"
	// WarnBlockedWrite indicates a leaf was not written under CoerceAbsent.
	WarnBlockedWrite WarningCategory = "blocked_write"
	// WarnRootReplaced indicates the base root was not a mapping and was
	// replaced by one.
	WarnRootReplaced WarningCategory = "root_replaced"
	// WarnRootLeaf indicates an overlay root was a leaf and was ignored.
	WarnRootLeaf WarningCategory = "root_leaf"
)

// MergeWarning represents a non-fatal condition met during a merge.
type MergeWarning struct {
	// Category identifies the type of warning.
	Category WarningCategory
	// OverlayIndex is the zero-based index of the overlay being applied.
	OverlayIndex int
	// Source is the overlay's path or display name.
	Source string
	// Path is the location in the base document, if any.
	Path tree.Path
	// Message describes the warning.
	Message string
}

// String returns a formatted warning message.
func (w *MergeWarning) String() string {
	loc := fmt.Sprintf("overlay[%d]", w.OverlayIndex)
	if w.Source != "" {
		loc += " " + w.Source
	}
	msg := w.Message
	if msg == "" {
		msg = string(w.Category)
	}
	if w.Path != nil {
		return fmt.Sprintf("%s: %s: %s", loc, w.Path, msg)
	}
	return fmt.Sprintf("%s: %s", loc, msg)
}

// MergeWarnings is a collection of MergeWarning.
type MergeWarnings []*MergeWarning

// Strings returns the formatted warning messages.
func (ws MergeWarnings) Strings() []string {
	result := make([]string, len(ws))
	for i, w := range ws {
		if w == nil {
			continue
		}
		result[i] = w.String()
	}
	return result
}

// ByCategory filters warnings by category.
func (ws MergeWarnings) ByCategory(cat WarningCategory) MergeWarnings {
	var result MergeWarnings
	for _, w := range ws {
		if w != nil && w.Category == cat {
			result = append(result, w)
		}
	}
	return result
}
