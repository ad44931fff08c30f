package merger

import (
	"fmt"

	"github.com/erraggy/docmerge/codec"
	"github.com/erraggy/docmerge/docerrors"
)

// Option is a function that configures a merge operation.
type Option func(*mergeConfig) error

// mergeConfig holds configuration for a merge operation.
type mergeConfig struct {
	// Input source for the base document (exactly one must be set)
	baseFilePath *string
	baseParsed   *codec.Document

	// Input source for overlays (exactly one must be set)
	overlayFilePaths []string
	overlaysParsed   []*codec.Document

	coercion CoercionMode
	logger   Logger
	loader   *codec.Loader
	dryRun   bool
}

// WithBaseFilePath specifies a file path as the base document source.
func WithBaseFilePath(path string) Option {
	return func(cfg *mergeConfig) error {
		if path == "" {
			return fmt.Errorf("base path cannot be empty")
		}
		cfg.baseFilePath = &path
		return nil
	}
}

// WithBaseParsed specifies an already-parsed base document.
// The document's tree is mutated unless WithDryRun is also given.
func WithBaseParsed(doc *codec.Document) Option {
	return func(cfg *mergeConfig) error {
		if doc == nil || doc.Root == nil {
			return fmt.Errorf("base document cannot be nil")
		}
		cfg.baseParsed = doc
		return nil
	}
}

// WithOverlayFilePaths specifies overlay files, applied in the given order.
// It may be repeated; paths accumulate.
func WithOverlayFilePaths(paths ...string) Option {
	return func(cfg *mergeConfig) error {
		for i, p := range paths {
			if p == "" {
				return fmt.Errorf("overlay path %d cannot be empty", i)
			}
		}
		cfg.overlayFilePaths = append(cfg.overlayFilePaths, paths...)
		return nil
	}
}

// WithOverlaysParsed specifies already-parsed overlays, applied in the given
// order. It may be repeated; documents accumulate.
func WithOverlaysParsed(docs ...*codec.Document) Option {
	return func(cfg *mergeConfig) error {
		for i, d := range docs {
			if d == nil || d.Root == nil {
				return fmt.Errorf("overlay %d cannot be nil", i)
			}
		}
		cfg.overlaysParsed = append(cfg.overlaysParsed, docs...)
		return nil
	}
}

// WithCoercion sets how non-mapping intermediate values are handled.
// The default is CoerceFalsy.
func WithCoercion(mode CoercionMode) Option {
	return func(cfg *mergeConfig) error {
		if mode != CoerceFalsy && mode != CoerceAbsent {
			return fmt.Errorf("unknown coercion mode %s", mode)
		}
		cfg.coercion = mode
		return nil
	}
}

// WithLogger sets the logger for the merge.
func WithLogger(l Logger) Option {
	return func(cfg *mergeConfig) error {
		cfg.logger = l
		return nil
	}
}

// WithLoader sets the loader used to read file inputs.
func WithLoader(l *codec.Loader) Option {
	return func(cfg *mergeConfig) error {
		cfg.loader = l
		return nil
	}
}

// WithDryRun merges into a copy of the base document.
func WithDryRun(enabled bool) Option {
	return func(cfg *mergeConfig) error {
		cfg.dryRun = enabled
		return nil
	}
}

// applyOptions applies all options and returns the configuration.
func applyOptions(opts ...Option) (*mergeConfig, error) {
	cfg := &mergeConfig{
		coercion: CoerceFalsy,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	// Validate exactly one base source
	baseSourceCount := 0
	if cfg.baseFilePath != nil {
		baseSourceCount++
	}
	if cfg.baseParsed != nil {
		baseSourceCount++
	}

	if baseSourceCount == 0 {
		return nil, fmt.Errorf("must specify a base source (use WithBaseFilePath or WithBaseParsed)")
	}
	if baseSourceCount > 1 {
		return nil, fmt.Errorf("must specify exactly one base source")
	}

	// Validate exactly one kind of overlay source
	if len(cfg.overlayFilePaths) > 0 && len(cfg.overlaysParsed) > 0 {
		return nil, fmt.Errorf("must specify overlays with either WithOverlayFilePaths or WithOverlaysParsed, not both")
	}
	if len(cfg.overlayFilePaths) == 0 && len(cfg.overlaysParsed) == 0 {
		return nil, fmt.Errorf("must specify at least one overlay (use WithOverlayFilePaths or WithOverlaysParsed)")
	}

	return cfg, nil
}

// MergeWithOptions merges overlays into a base document using functional options.
//
// Example:
//
//	result, err := merger.MergeWithOptions(
//	    merger.WithBaseFilePath("config.yaml"),
//	    merger.WithOverlayFilePaths("prod.yaml", "local.yaml"),
//	    merger.WithCoercion(merger.CoerceAbsent),
//	)
func MergeWithOptions(opts ...Option) (*MergeResult, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("merger: %w", &docerrors.ConfigError{Message: "invalid options", Cause: err})
	}

	m := &Merger{Coercion: cfg.coercion, Logger: cfg.logger, Loader: cfg.loader}

	base := cfg.baseParsed
	overlays := cfg.overlaysParsed
	if cfg.baseFilePath != nil || len(cfg.overlayFilePaths) > 0 {
		loader := m.loader()
		if cfg.baseFilePath != nil {
			base, err = loader.ParseFile(*cfg.baseFilePath)
			if err != nil {
				return nil, fmt.Errorf("merger: failed to parse base document: %w", err)
			}
		}
		for i, p := range cfg.overlayFilePaths {
			doc, err := loader.ParseFile(p)
			if err != nil {
				return nil, fmt.Errorf("merger: failed to parse overlay[%d]: %w", i, err)
			}
			overlays = append(overlays, doc)
		}
	}

	if cfg.dryRun {
		return m.DryRun(base, overlays...)
	}
	return m.MergeParsed(base, overlays...)
}
