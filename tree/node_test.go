package tree

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindString(t *testing.T) {
	assert.Equal(t, "null", KindNull.String())
	assert.Equal(t, "scalar", KindScalar.String())
	assert.Equal(t, "sequence", KindSequence.String())
	assert.Equal(t, "mapping", KindMapping.String())
	assert.Equal(t, "unknown", Kind(42).String())
}

func TestNilNodeIsNull(t *testing.T) {
	var n *Node
	assert.Equal(t, KindNull, n.Kind())
	assert.True(t, n.IsNull())
	assert.True(t, n.IsFalsy())
	assert.Nil(t, n.Value())
	assert.Nil(t, n.Keys())
	assert.Zero(t, n.Len())
	_, ok := n.Get("x")
	assert.False(t, ok)
	assert.True(t, n.Clone().IsNull())
	assert.True(t, n.Equal(Null()))
}

func TestScalarNormalizesNumbers(t *testing.T) {
	assert.Equal(t, int64(7), Scalar(7).Value())
	assert.Equal(t, int64(7), Scalar(int32(7)).Value())
	assert.Equal(t, int64(7), Scalar(uint8(7)).Value())
	assert.Equal(t, uint64(math.MaxUint64), Scalar(uint64(math.MaxUint64)).Value())
	assert.Equal(t, float64(1.5), Scalar(float32(1.5)).Value())
	assert.True(t, Scalar(nil).IsNull())
}

func TestIsFalsy(t *testing.T) {
	tests := []struct {
		name string
		node *Node
		want bool
	}{
		{"null", Null(), true},
		{"false", Scalar(false), true},
		{"true", Scalar(true), false},
		{"zero int", Scalar(0), true},
		{"non-zero int", Scalar(5), false},
		{"zero float", Scalar(0.0), true},
		{"nan", Scalar(math.NaN()), true},
		{"empty string", Scalar(""), true},
		{"string", Scalar("x"), false},
		{"timestamp", Scalar(time.Unix(0, 0)), false},
		{"empty sequence", Sequence(), false},
		{"empty mapping", NewMapping(), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.node.IsFalsy())
		})
	}
}

func TestMappingPreservesInsertionOrder(t *testing.T) {
	m := NewMapping()
	m.Set("zeta", Scalar(1))
	m.Set("alpha", Scalar(2))
	m.Set("mid", Scalar(3))
	m.Set("zeta", Scalar(4))

	assert.Equal(t, []string{"zeta", "alpha", "mid"}, m.Keys())
	assert.Equal(t, 3, m.Len())

	v, ok := m.Get("zeta")
	require.True(t, ok)
	assert.Equal(t, int64(4), v.Value())

}

func TestSetOnNonMappingIsIgnored(t *testing.T) {
	s := Scalar("x")
	s.Set("a", Scalar(1))
	assert.Zero(t, s.Len())
	_, ok := s.Get("a")
	assert.False(t, ok)
}

func TestSetNilStoresNull(t *testing.T) {
	m := NewMapping()
	m.Set("a", nil)
	v, ok := m.Get("a")
	require.True(t, ok)
	assert.True(t, v.IsNull())
}

func TestKeysReturnsCopy(t *testing.T) {
	m := NewMapping()
	m.Set("a", Scalar(1))
	keys := m.Keys()
	keys[0] = "mutated"
	assert.Equal(t, []string{"a"}, m.Keys())
}

func TestCloneIsDeep(t *testing.T) {
	inner := NewMapping()
	inner.Set("b", Scalar(1))
	root := NewMapping()
	root.Set("a", inner)
	root.Set("list", Sequence(Scalar(1), Scalar(2)))

	c := root.Clone()
	require.True(t, c.Equal(root))

	cInner, _ := c.Get("a")
	cInner.Set("b", Scalar(2))
	cInner.Set("c", Scalar(3))

	orig, _ := root.Get("a")
	b, _ := orig.Get("b")
	assert.Equal(t, int64(1), b.Value())
	assert.Equal(t, 1, orig.Len())
}

func TestEqual(t *testing.T) {
	a := NewMapping()
	a.Set("x", Scalar(1))
	a.Set("y", Sequence(Scalar("p"), Null()))

	b := NewMapping()
	b.Set("y", Sequence(Scalar("p"), Null()))
	b.Set("x", Scalar(1.0))

	assert.True(t, a.Equal(b), "key order and int/float representation must not matter")

	b.Set("x", Scalar(2))
	assert.False(t, a.Equal(b))

	assert.False(t, Sequence(Scalar(1)).Equal(Sequence(Scalar(1), Scalar(2))))
	assert.False(t, Sequence(Scalar(1), Scalar(2)).Equal(Sequence(Scalar(2), Scalar(1))))
	assert.False(t, Scalar("1").Equal(Scalar(1)))
	assert.False(t, NewMapping().Equal(Sequence()))

	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	assert.True(t, Scalar(ts).Equal(Scalar(ts.In(time.FixedZone("x", 3600)))))
}
