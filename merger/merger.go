package merger

import (
	"fmt"
	"slices"

	"github.com/erraggy/docmerge/codec"
	"github.com/erraggy/docmerge/docerrors"
	"github.com/erraggy/docmerge/tree"
)

// Merger applies overlay documents to a base document.
type Merger struct {
	// Coercion controls how non-mapping intermediate values are handled.
	Coercion CoercionMode

	// Logger receives debug and warning events. Nil disables logging.
	Logger Logger

	// Loader reads documents for Merge. Nil uses a zero Loader.
	Loader *codec.Loader
}

// New creates a new Merger with default settings.
func New() *Merger {
	return &Merger{
		Coercion: CoerceFalsy,
	}
}

func (m *Merger) logger() Logger {
	if m.Logger == nil {
		return NopLogger{}
	}
	return m.Logger
}

func (m *Merger) loader() *codec.Loader {
	if m.Loader == nil {
		return &codec.Loader{}
	}
	return m.Loader
}

// Merge reads the base document and every overlay from disk and applies the
// overlays in order. Later overlays win on conflicting leaves.
//
// A path of "-" reads from standard input.
func (m *Merger) Merge(basePath string, overlayPaths ...string) (*MergeResult, error) {
	base, overlays, err := m.load(basePath, overlayPaths)
	if err != nil {
		return nil, err
	}
	return m.MergeParsed(base, overlays...)
}

func (m *Merger) load(basePath string, overlayPaths []string) (*codec.Document, []*codec.Document, error) {
	loader := m.loader()
	base, err := loader.ParseFile(basePath)
	if err != nil {
		return nil, nil, fmt.Errorf("merger: failed to parse base document: %w", err)
	}
	overlays := make([]*codec.Document, 0, len(overlayPaths))
	for i, p := range overlayPaths {
		doc, err := loader.ParseFile(p)
		if err != nil {
			return nil, nil, fmt.Errorf("merger: failed to parse overlay[%d]: %w", i, err)
		}
		overlays = append(overlays, doc)
	}
	return base, overlays, nil
}

// MergeParsed applies already-parsed overlays to base.
//
// base.Root is mutated in place and returned as the result's Document; it is
// not copied. Overlays are only read. If base.Root is not a mapping it is
// replaced by an empty mapping as soon as an overlay has something to write.
func (m *Merger) MergeParsed(base *codec.Document, overlays ...*codec.Document) (*MergeResult, error) {
	if base == nil || base.Root == nil {
		return nil, &docerrors.ConfigError{Option: "base", Message: "base document cannot be nil"}
	}
	for i, o := range overlays {
		if o == nil || o.Root == nil {
			return nil, &docerrors.ConfigError{Option: "overlay", Value: i, Message: "overlay document cannot be nil"}
		}
	}

	result := &MergeResult{
		Document:     base.Root,
		SourceFormat: base.Format,
		SourcePath:   base.SourcePath,
		Overlays:     make([]OverlayRecord, 0, len(overlays)),
	}

	log := m.logger()
	log.Debug("merging documents", "base", base.SourcePath, "overlays", len(overlays), "coerce", m.Coercion.String())

	for i, o := range overlays {
		rec := m.applyOverlay(base, o, i, result)
		result.Overlays = append(result.Overlays, rec)
		result.OverlaysApplied++
		result.LeavesWritten += rec.LeavesWritten
		result.LeavesBlocked += rec.LeavesBlocked
		result.MappingsCreated += rec.MappingsCreated
	}
	result.Document = base.Root

	log.Debug("merge complete",
		"overlays", result.OverlaysApplied,
		"leaves", result.LeavesWritten,
		"blocked", result.LeavesBlocked,
		"created", result.MappingsCreated,
		"warnings", len(result.Warnings))
	return result, nil
}

// DryRun merges the overlays into a copy of base.Root and leaves base
// untouched. The result's Document is the merged copy.
func (m *Merger) DryRun(base *codec.Document, overlays ...*codec.Document) (*MergeResult, error) {
	if base == nil || base.Root == nil {
		return nil, &docerrors.ConfigError{Option: "base", Message: "base document cannot be nil"}
	}
	scratch := *base
	scratch.Root = base.Root.Clone()
	return m.MergeParsed(&scratch, overlays...)
}

// applyOverlay writes every leaf of overlay into base.Root.
func (m *Merger) applyOverlay(base, overlay *codec.Document, index int, result *MergeResult) OverlayRecord {
	rec := OverlayRecord{Index: index, Source: overlay.SourcePath}
	log := m.logger().With("overlay", index, "source", overlay.SourcePath)

	for path, value := range Flatten(overlay.Root) {
		if path.IsRoot() {
			result.RootLeavesSkipped++
			result.addWarning(&MergeWarning{
				Category:     WarnRootLeaf,
				OverlayIndex: index,
				Source:       overlay.SourcePath,
				Message:      fmt.Sprintf("overlay root is a %s, nothing to merge", value.Kind()),
			})
			log.Warn("overlay root is not a mapping", "kind", value.Kind().String())
			continue
		}

		if !base.Root.IsMapping() {
			result.addWarning(&MergeWarning{
				Category:     WarnRootReplaced,
				OverlayIndex: index,
				Source:       overlay.SourcePath,
				Message:      fmt.Sprintf("base root %s replaced by a mapping", base.Root.Kind()),
			})
			log.Warn("replacing non-mapping base root", "kind", base.Root.Kind().String())
			base.Root = tree.NewMapping()
		}

		stats := Write(base.Root, path, value.Clone(), m.Coercion)
		rec.MappingsCreated += stats.Created
		for _, c := range stats.Coerced {
			clobbered := slices.ContainsFunc(stats.Clobbered, func(p tree.Path) bool { return slices.Equal(p, c) })
			msg := fmt.Sprintf("falsy value replaced by a mapping to write %s", path)
			if clobbered {
				msg = fmt.Sprintf("non-empty value replaced by a mapping to write %s", path)
			}
			result.addWarning(&MergeWarning{
				Category:     WarnCoercedIntermediate,
				OverlayIndex: index,
				Source:       overlay.SourcePath,
				Path:         c,
				Message:      msg,
			})
			if clobbered {
				log.Warn("replaced intermediate value", "at", c.String(), "leaf", path.String())
			} else {
				log.Debug("replaced falsy intermediate value", "at", c.String(), "leaf", path.String())
			}
		}
		if stats.BlockedAt != nil {
			rec.LeavesBlocked++
			result.addWarning(&MergeWarning{
				Category:     WarnBlockedWrite,
				OverlayIndex: index,
				Source:       overlay.SourcePath,
				Path:         path,
				Message:      fmt.Sprintf("not written, %s is not a mapping", stats.BlockedAt),
			})
			log.Warn("leaf not written", "leaf", path.String(), "blocked_at", stats.BlockedAt.String())
			continue
		}
		if stats.Written {
			rec.LeavesWritten++
		}
	}

	log.Debug("applied overlay", "leaves", rec.LeavesWritten, "blocked", rec.LeavesBlocked, "created", rec.MappingsCreated)
	return rec
}
