package merger

import (
	"bytes"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/erraggy/docmerge/codec"
	"github.com/erraggy/docmerge/docerrors"
	"github.com/erraggy/docmerge/tree"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doc(t *testing.T, name, src string) *codec.Document {
	t.Helper()
	d, err := codec.ParseBytes([]byte(src), name)
	require.NoError(t, err)
	return d
}

func mergeYAML(t *testing.T, base string, overlays ...string) *MergeResult {
	t.Helper()
	docs := make([]*codec.Document, len(overlays))
	for i, o := range overlays {
		docs[i] = doc(t, "overlay.yaml", o)
	}
	result, err := New().MergeParsed(doc(t, "base.yaml", base), docs...)
	require.NoError(t, err)
	return result
}

func TestMergeParsed(t *testing.T) {
	result := mergeYAML(t, `
server:
  host: localhost
  port: 8080
features: [a, b]
`, `
server:
  port: 9090
  tls:
    enabled: true
features: [c]
`)

	want := map[string]any{
		"server": map[string]any{
			"host": "localhost",
			"port": int64(9090),
			"tls":  map[string]any{"enabled": true},
		},
		"features": []any{"c"},
	}
	if diff := cmp.Diff(want, result.Document.ToAny()); diff != "" {
		t.Errorf("merged document mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 1, result.OverlaysApplied)
	assert.Equal(t, 3, result.LeavesWritten)
	assert.Equal(t, 1, result.MappingsCreated)
	assert.False(t, result.HasWarnings())
	assert.Equal(t, codec.FormatYAML, result.SourceFormat)
	require.Len(t, result.Overlays, 1)
	assert.Equal(t, OverlayRecord{Index: 0, Source: "overlay.yaml", LeavesWritten: 3, MappingsCreated: 1}, result.Overlays[0])
}

func TestMergeMutatesBaseInPlace(t *testing.T) {
	base := doc(t, "base.yaml", "a: 1\n")
	root := base.Root
	result, err := New().MergeParsed(base, doc(t, "o.yaml", "b: 2\n"))
	require.NoError(t, err)
	assert.Same(t, root, result.Document)
	_, ok := root.Get("b")
	assert.True(t, ok)
}

func TestMergeDoesNotAliasOverlay(t *testing.T) {
	base := doc(t, "base.yaml", "{}")
	overlay := doc(t, "o.yaml", "list: [1, 2]\n")
	_, err := New().MergeParsed(base, overlay)
	require.NoError(t, err)

	merged, _ := base.Root.Get("list")
	original, _ := overlay.Root.Get("list")
	assert.NotSame(t, original, merged)
	assert.True(t, original.Equal(merged))
}

func TestMergeKeyOrder(t *testing.T) {
	result := mergeYAML(t, "b: 1\na: 2\n", "c: 3\nb: 4\n")
	assert.Equal(t, []string{"b", "a", "c"}, result.Document.Keys())
}

func TestMergeLastWriteWins(t *testing.T) {
	result := mergeYAML(t, "a: base\n", "a: first\n", "a: second\n")
	a, _ := result.Document.Get("a")
	assert.Equal(t, "second", a.Value())
	assert.Equal(t, 2, result.OverlaysApplied)
	assert.Equal(t, 2, result.LeavesWritten)
}

func TestMergeProperties(t *testing.T) {
	const sample = `
server:
  host: localhost
  tls:
    enabled: false
    ciphers: [a, b]
name: svc
`
	t.Run("empty overlay leaves base unchanged", func(t *testing.T) {
		before := mustYAML(t, sample)
		result := mergeYAML(t, sample, "{}")
		assert.True(t, before.Equal(result.Document))
		assert.Zero(t, result.LeavesWritten)
	})

	t.Run("merging into empty base copies the overlay", func(t *testing.T) {
		overlay := mustYAML(t, sample)
		result := mergeYAML(t, "{}", sample)
		assert.True(t, overlay.Equal(result.Document))
	})

	t.Run("merging a document into itself is idempotent", func(t *testing.T) {
		before := mustYAML(t, sample)
		result := mergeYAML(t, sample, sample)
		assert.True(t, before.Equal(result.Document))
	})

	t.Run("same tree as base and overlay", func(t *testing.T) {
		d := doc(t, "self.yaml", sample)
		before := d.Root.Clone()
		_, err := New().MergeParsed(d, d)
		require.NoError(t, err)
		assert.True(t, before.Equal(d.Root))
	})

	t.Run("disjoint overlays commute", func(t *testing.T) {
		x := "a:\n  x: 1\n"
		y := "a:\n  y: 2\nb: 3\n"
		xy := mergeYAML(t, sample, x, y)
		yx := mergeYAML(t, sample, y, x)
		assert.True(t, xy.Document.Equal(yx.Document))
	})

	t.Run("leaf count matches flatten", func(t *testing.T) {
		overlay := "a:\n  b: 1\n  c: [1]\nd: ~\ne: {}\nf: x\n"
		result := mergeYAML(t, "{}", overlay)
		assert.Equal(t, len(FlattenAll(mustYAML(t, overlay))), result.LeavesWritten)
		assert.Equal(t, 3, result.LeavesWritten)
	})

	t.Run("null in overlay does not clear base value", func(t *testing.T) {
		result := mergeYAML(t, "a: 1\nb:\n  c: 2\n", "a: ~\nb: ~\n")
		assert.Equal(t, map[string]any{"a": int64(1), "b": map[string]any{"c": int64(2)}}, result.Document.ToAny())
	})

	t.Run("empty mapping in overlay is a no-op", func(t *testing.T) {
		result := mergeYAML(t, "a: 1\n", "a: {}\n")
		assert.Equal(t, map[string]any{"a": int64(1)}, result.Document.ToAny())
	})

	t.Run("sequences are replaced whole", func(t *testing.T) {
		result := mergeYAML(t, "l: [1, 2, 3]\n", "l: [9]\n")
		assert.Equal(t, map[string]any{"l": []any{int64(9)}}, result.Document.ToAny())
	})
}

func TestMergeCoercion(t *testing.T) {
	base := "a:\n  b: false\n  keep: 1\nc: 7\n"
	overlay := "a:\n  b:\n    deep: true\nc:\n  d: 1\n"

	t.Run("falsy mode replaces and warns", func(t *testing.T) {
		result := mergeYAML(t, base, overlay)
		want := map[string]any{
			"a": map[string]any{"b": map[string]any{"deep": true}, "keep": int64(1)},
			"c": map[string]any{"d": int64(1)},
		}
		assert.Equal(t, want, result.Document.ToAny())
		coerced := result.Warnings.ByCategory(WarnCoercedIntermediate)
		require.Len(t, coerced, 2)
		assert.Equal(t, tree.Path{"a", "b"}, coerced[0].Path)
		assert.Equal(t, tree.Path{"c"}, coerced[1].Path)
		assert.Contains(t, coerced[0].Message, "falsy value replaced")
		assert.Contains(t, coerced[1].Message, "non-empty value replaced")
		assert.Equal(t, 2, result.LeavesWritten)
	})

	t.Run("absent mode blocks", func(t *testing.T) {
		m := New()
		m.Coercion = CoerceAbsent
		result, err := m.MergeParsed(doc(t, "base.yaml", base), doc(t, "o.yaml", overlay+"e: new\n"))
		require.NoError(t, err)

		assert.Equal(t, map[string]any{
			"a": map[string]any{"b": false, "keep": int64(1)},
			"c": int64(7),
			"e": "new",
		}, result.Document.ToAny())
		assert.Equal(t, 2, result.LeavesBlocked)
		assert.Equal(t, 1, result.LeavesWritten)
		blocked := result.Warnings.ByCategory(WarnBlockedWrite)
		require.Len(t, blocked, 2)
		assert.Equal(t, tree.Path{"a", "b", "deep"}, blocked[0].Path)
		assert.Contains(t, blocked[0].String(), "a.b is not a mapping")
	})
}

func TestMergeRoots(t *testing.T) {
	t.Run("scalar overlay root is skipped", func(t *testing.T) {
		result := mergeYAML(t, "a: 1\n", "just a string\n")
		assert.Equal(t, map[string]any{"a": int64(1)}, result.Document.ToAny())
		assert.Equal(t, 1, result.RootLeavesSkipped)
		assert.Len(t, result.Warnings.ByCategory(WarnRootLeaf), 1)
	})

	t.Run("non-mapping base root is replaced", func(t *testing.T) {
		base := doc(t, "base.yaml", "[1, 2]\n")
		result, err := New().MergeParsed(base, doc(t, "o.yaml", "a: 1\n"))
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"a": int64(1)}, result.Document.ToAny())
		assert.Same(t, base.Root, result.Document)
		assert.Len(t, result.Warnings.ByCategory(WarnRootReplaced), 1)
	})

	t.Run("non-mapping base root kept when nothing to write", func(t *testing.T) {
		result := mergeYAML(t, "[1, 2]\n", "{}")
		assert.True(t, result.Document.Kind() == tree.KindSequence)
		assert.False(t, result.HasWarnings())
	})
}

func TestMergeNoOverlays(t *testing.T) {
	result := mergeYAML(t, "a: 1\n")
	assert.Zero(t, result.OverlaysApplied)
	assert.Equal(t, map[string]any{"a": int64(1)}, result.Document.ToAny())
}

func TestMergeParsedNilInputs(t *testing.T) {
	_, err := New().MergeParsed(nil)
	assert.True(t, errors.Is(err, docerrors.ErrConfig))

	_, err = New().MergeParsed(doc(t, "b.yaml", "a: 1"), nil)
	assert.True(t, errors.Is(err, docerrors.ErrConfig))
}

func TestDryRun(t *testing.T) {
	base := doc(t, "base.yaml", "a: 1\n")
	result, err := New().DryRun(base, doc(t, "o.yaml", "a: 2\nb: 3\n"))
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"a": int64(1)}, base.Root.ToAny())
	assert.Equal(t, map[string]any{"a": int64(2), "b": int64(3)}, result.Document.ToAny())
	assert.Equal(t, "base.yaml", result.SourcePath)
}

func TestMergeFiles(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
		return p
	}
	base := write("base.json", `{"server": {"port": 80}}`)
	prod := write("prod.toml", "[server]\nport = 443\nhost = \"prod\"\n")
	local := write("local.yaml", "server:\n  host: localhost\n")

	result, err := New().Merge(base, prod, local)
	require.NoError(t, err)
	assert.Equal(t, codec.FormatJSON, result.SourceFormat)
	assert.Equal(t, map[string]any{"server": map[string]any{"port": int64(443), "host": "localhost"}}, result.Document.ToAny())
	require.Len(t, result.Overlays, 2)
	assert.Equal(t, local, result.Overlays[1].Source)

	_, err = New().Merge(base, filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, docerrors.ErrUnreadable))
	assert.Contains(t, err.Error(), "overlay[0]")
}

func TestMergeWithOptions(t *testing.T) {
	t.Run("parsed inputs", func(t *testing.T) {
		base := doc(t, "base.yaml", "a: 1\n")
		result, err := MergeWithOptions(
			WithBaseParsed(base),
			WithOverlaysParsed(doc(t, "o1.yaml", "b: 2\n")),
			WithOverlaysParsed(doc(t, "o2.yaml", "b: 3\n")),
		)
		require.NoError(t, err)
		assert.Equal(t, 2, result.OverlaysApplied)
		assert.Equal(t, map[string]any{"a": int64(1), "b": int64(3)}, base.Root.ToAny())
	})

	t.Run("dry run", func(t *testing.T) {
		base := doc(t, "base.yaml", "a: 1\n")
		result, err := MergeWithOptions(
			WithBaseParsed(base),
			WithOverlaysParsed(doc(t, "o.yaml", "a: 2\n")),
			WithDryRun(true),
			WithCoercion(CoerceAbsent),
			WithLogger(NopLogger{}),
		)
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"a": int64(1)}, base.Root.ToAny())
		a, _ := result.Document.Get("a")
		assert.Equal(t, int64(2), a.Value())
	})

	t.Run("file inputs", func(t *testing.T) {
		dir := t.TempDir()
		base := filepath.Join(dir, "base.yaml")
		over := filepath.Join(dir, "over.yaml")
		require.NoError(t, os.WriteFile(base, []byte("a: 1\n"), 0o600))
		require.NoError(t, os.WriteFile(over, []byte("a: 2\n"), 0o600))

		result, err := MergeWithOptions(
			WithBaseFilePath(base),
			WithOverlayFilePaths(over),
			WithLoader(&codec.Loader{MaxSize: 1024}),
		)
		require.NoError(t, err)
		assert.Equal(t, base, result.SourcePath)
		assert.Equal(t, 1, result.LeavesWritten)
	})

	invalid := []struct {
		name string
		opts []Option
		msg  string
	}{
		{"no base", []Option{WithOverlayFilePaths("o.yaml")}, "must specify a base source"},
		{"two bases", []Option{WithBaseFilePath("a.yaml"), WithBaseParsed(&codec.Document{Root: tree.NewMapping()}), WithOverlayFilePaths("o.yaml")}, "exactly one base source"},
		{"no overlays", []Option{WithBaseFilePath("a.yaml")}, "at least one overlay"},
		{"mixed overlays", []Option{WithBaseFilePath("a.yaml"), WithOverlayFilePaths("o.yaml"), WithOverlaysParsed(&codec.Document{Root: tree.NewMapping()})}, "not both"},
		{"empty base path", []Option{WithBaseFilePath("")}, "base path cannot be empty"},
		{"empty overlay path", []Option{WithBaseFilePath("a.yaml"), WithOverlayFilePaths("")}, "overlay path 0 cannot be empty"},
		{"nil base", []Option{WithBaseParsed(nil)}, "base document cannot be nil"},
		{"nil overlay", []Option{WithOverlaysParsed(nil)}, "overlay 0 cannot be nil"},
		{"bad coercion", []Option{WithCoercion(CoercionMode(5))}, "unknown coercion mode"},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			_, err := MergeWithOptions(tt.opts...)
			require.Error(t, err)
			assert.True(t, errors.Is(err, docerrors.ErrConfig))
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestMergeLogsWarnings(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSlogAdapter(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	m := New()
	m.Logger = logger
	_, err := m.MergeParsed(doc(t, "base.yaml", "a: 1\n"), doc(t, "prod.yaml", "a:\n  b: 2\n"))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "replaced intermediate value")
	assert.Contains(t, out, "source=prod.yaml")
	assert.Contains(t, out, "merge complete")
}

func TestMergeWarningString(t *testing.T) {
	tests := []struct {
		name    string
		warning *MergeWarning
		want    string
	}{
		{
			name:    "with path",
			warning: &MergeWarning{Category: WarnCoercedIntermediate, OverlayIndex: 1, Source: "prod.yaml", Path: tree.Path{"a", "b"}, Message: "replaced"},
			want:    "overlay[1] prod.yaml: a.b: replaced",
		},
		{
			name:    "without path",
			warning: &MergeWarning{Category: WarnRootLeaf, OverlayIndex: 0, Message: "skipped"},
			want:    "overlay[0]: skipped",
		},
		{
			name:    "category fallback",
			warning: &MergeWarning{Category: WarnRootReplaced, OverlayIndex: 2, Source: "x.json"},
			want:    "overlay[2] x.json: root_replaced",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.warning.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}

	ws := MergeWarnings{tests[0].warning, nil}
	assert.Equal(t, []string{"overlay[1] prod.yaml: a.b: replaced", ""}, ws.Strings())
}
