package tree

import (
	"math"
	"reflect"
	"slices"
	"time"
)

// Kind identifies which variant a Node holds.
type Kind uint8

const (
	// KindNull is an explicit null or an absent value.
	KindNull Kind = iota
	// KindScalar is a string, number, boolean or timestamp.
	KindScalar
	// KindSequence is an ordered list of nodes.
	KindSequence
	// KindMapping is a string-keyed collection of nodes.
	KindMapping
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindScalar:
		return "scalar"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	default:
		return "unknown"
	}
}

// Node is a single value in a document tree.
//
// The zero value is a Null node. A nil *Node is also treated as Null by
// every method.
type Node struct {
	kind   Kind
	value  any
	items  []*Node
	keys   []string
	fields map[string]*Node
}

// Null returns a new Null node.
func Null() *Node {
	return &Node{kind: KindNull}
}

// Scalar returns a new Scalar node holding v.
//
// Integer types are stored as int64, unsigned integers that fit as int64
// and float32 as float64, so that values decoded by different libraries
// compare equal. A nil v yields a Null node.
func Scalar(v any) *Node {
	if v == nil {
		return Null()
	}
	return &Node{kind: KindScalar, value: normalizeScalar(v)}
}

// Sequence returns a new Sequence node holding items.
// Nil items are stored as Null nodes.
func Sequence(items ...*Node) *Node {
	n := &Node{kind: KindSequence, items: make([]*Node, 0, len(items))}
	for _, item := range items {
		if item == nil {
			item = Null()
		}
		n.items = append(n.items, item)
	}
	return n
}

// NewMapping returns a new, empty Mapping node.
func NewMapping() *Node {
	return &Node{kind: KindMapping, fields: make(map[string]*Node)}
}

// Kind returns the variant held by n.
func (n *Node) Kind() Kind {
	if n == nil {
		return KindNull
	}
	return n.kind
}

// IsNull reports whether n is Null.
func (n *Node) IsNull() bool {
	return n.Kind() == KindNull
}

// IsMapping reports whether n is a Mapping.
func (n *Node) IsMapping() bool {
	return n.Kind() == KindMapping
}

// IsFalsy reports whether n is Null or a scalar false, zero or empty string.
// Sequences and mappings are never falsy, even when empty.
func (n *Node) IsFalsy() bool {
	switch n.Kind() {
	case KindNull:
		return true
	case KindScalar:
		switch v := n.value.(type) {
		case bool:
			return !v
		case string:
			return v == ""
		case int64:
			return v == 0
		case uint64:
			return v == 0
		case float64:
			return v == 0 || math.IsNaN(v)
		}
	}
	return false
}

// Value returns the scalar value of n, or nil for any other kind.
func (n *Node) Value() any {
	if n.Kind() != KindScalar {
		return nil
	}
	return n.value
}

// Items returns the elements of a Sequence. The returned slice is shared
// with n. It returns nil for any other kind.
func (n *Node) Items() []*Node {
	if n.Kind() != KindSequence {
		return nil
	}
	return n.items
}

// Keys returns the keys of a Mapping in insertion order.
// It returns nil for any other kind.
func (n *Node) Keys() []string {
	if n.Kind() != KindMapping {
		return nil
	}
	return slices.Clone(n.keys)
}

// Len returns the number of entries in a Mapping or Sequence, and zero for
// scalars and Null.
func (n *Node) Len() int {
	switch n.Kind() {
	case KindMapping:
		return len(n.keys)
	case KindSequence:
		return len(n.items)
	default:
		return 0
	}
}

// Get returns the child stored at key and whether it exists.
// It always reports false when n is not a Mapping.
func (n *Node) Get(key string) (*Node, bool) {
	if n.Kind() != KindMapping {
		return nil, false
	}
	child, ok := n.fields[key]
	return child, ok
}

// Set stores child at key, replacing any previous value in place and
// appending new keys after existing ones. A nil child is stored as Null.
// Set does nothing when n is not a Mapping.
func (n *Node) Set(key string, child *Node) {
	if n.Kind() != KindMapping {
		return
	}
	if child == nil {
		child = Null()
	}
	if _, exists := n.fields[key]; !exists {
		n.keys = append(n.keys, key)
	}
	n.fields[key] = child
}

// Clone returns a deep copy of n. Scalar values are immutable and shared.
func (n *Node) Clone() *Node {
	switch n.Kind() {
	case KindScalar:
		return &Node{kind: KindScalar, value: n.value}
	case KindSequence:
		c := &Node{kind: KindSequence, items: make([]*Node, len(n.items))}
		for i, item := range n.items {
			c.items[i] = item.Clone()
		}
		return c
	case KindMapping:
		c := &Node{
			kind:   KindMapping,
			keys:   slices.Clone(n.keys),
			fields: make(map[string]*Node, len(n.fields)),
		}
		for k, v := range n.fields {
			c.fields[k] = v.Clone()
		}
		return c
	default:
		return Null()
	}
}

// Equal reports whether n and other are structurally equal.
//
// Mappings are equal when they hold the same keys with equal values,
// regardless of key order. Sequences are compared element by element.
// Numbers compare by value, so int64(1) equals float64(1).
func (n *Node) Equal(other *Node) bool {
	if n.Kind() != other.Kind() {
		return false
	}
	switch n.Kind() {
	case KindNull:
		return true
	case KindScalar:
		return scalarEqual(n.value, other.value)
	case KindSequence:
		if len(n.items) != len(other.items) {
			return false
		}
		for i := range n.items {
			if !n.items[i].Equal(other.items[i]) {
				return false
			}
		}
		return true
	case KindMapping:
		if len(n.fields) != len(other.fields) {
			return false
		}
		for k, v := range n.fields {
			ov, ok := other.fields[k]
			if !ok || !v.Equal(ov) {
				return false
			}
		}
		return true
	}
	return false
}

func normalizeScalar(v any) any {
	switch val := v.(type) {
	case int:
		return int64(val)
	case int8:
		return int64(val)
	case int16:
		return int64(val)
	case int32:
		return int64(val)
	case uint:
		return normalizeUnsigned(uint64(val))
	case uint8:
		return int64(val)
	case uint16:
		return int64(val)
	case uint32:
		return int64(val)
	case uint64:
		return normalizeUnsigned(val)
	case float32:
		return float64(val)
	default:
		return v
	}
}

func normalizeUnsigned(v uint64) any {
	if v <= math.MaxInt64 {
		return int64(v)
	}
	return v
}

func scalarEqual(a, b any) bool {
	if af, ok := asFloat(a); ok {
		if bf, ok := asFloat(b); ok {
			if ai, ok := a.(int64); ok {
				if bi, ok := b.(int64); ok {
					return ai == bi
				}
			}
			return af == bf
		}
		return false
	}
	if at, ok := a.(time.Time); ok {
		bt, ok := b.(time.Time)
		return ok && at.Equal(bt)
	}
	return reflect.DeepEqual(a, b)
}

func asFloat(v any) (float64, bool) {
	switch val := v.(type) {
	case int64:
		return float64(val), true
	case uint64:
		return float64(val), true
	case float64:
		return val, true
	default:
		return 0, false
	}
}
