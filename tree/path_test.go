package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathString(t *testing.T) {
	tests := []struct {
		path Path
		want string
	}{
		{nil, "$"},
		{Path{"a"}, "a"},
		{Path{"a", "b", "c"}, "a.b.c"},
		{Path{"servers", "api.example.com", "port"}, `servers["api.example.com"].port`},
		{Path{"", "x"}, `[""].x`},
		{Path{"with space"}, `["with space"]`},
		{Path{"$"}, `["$"]`},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.path.String())
		})
	}
}

func TestPathChildDoesNotAlias(t *testing.T) {
	base := make(Path, 1, 8)
	base[0] = "root"
	a := base.Child("a")
	b := base.Child("b")
	assert.Equal(t, Path{"root", "a"}, a)
	assert.Equal(t, Path{"root", "b"}, b)
	assert.Equal(t, Path{"root"}, base)
}

func TestPathIsRootAndHasPrefix(t *testing.T) {
	p := Path{"a", "b"}
	assert.True(t, Path(nil).IsRoot())
	assert.False(t, p.IsRoot())

	assert.True(t, p.HasPrefix(nil))
	assert.True(t, p.HasPrefix(Path{"a"}))
	assert.True(t, p.HasPrefix(Path{"a", "b"}))
	assert.False(t, p.HasPrefix(Path{"a", "b", "c"}))
	assert.False(t, p.HasPrefix(Path{"b"}))
	assert.False(t, Path{"ab"}.HasPrefix(Path{"a"}))
}

func TestParsePathRoundTrip(t *testing.T) {
	paths := []Path{
		{"a"},
		{"a", "b", "c"},
		{"servers", "api.example.com", "port"},
		{"", "x"},
		{"with space"},
		{"a", "[weird]", "b"},
		{`say "hi"`, "x.y", "z"},
		{"tab\there"},
		{"$"},
		{"a", "$"},
	}
	for _, p := range paths {
		t.Run(p.String(), func(t *testing.T) {
			got, err := ParsePath(p.String())
			require.NoError(t, err)
			assert.Equal(t, p, got)
		})
	}

	root, err := ParsePath("$")
	require.NoError(t, err)
	assert.True(t, root.IsRoot())
}

func TestParsePathErrors(t *testing.T) {
	for _, s := range []string{"a.", ".a", "a..b", `["open`, `["x"`, `["x"]b`, "a[b]"} {
		t.Run(s, func(t *testing.T) {
			_, err := ParsePath(s)
			assert.Error(t, err)
		})
	}
}

func TestPathCompare(t *testing.T) {
	assert.Negative(t, Path{"a"}.Compare(Path{"a", "b"}))
	assert.Positive(t, Path{"b"}.Compare(Path{"a", "z"}))
	assert.Zero(t, Path{"a", "b"}.Compare(Path{"a", "b"}))
}
