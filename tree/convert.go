package tree

import (
	"encoding/json"
	"fmt"
	"slices"
)

// FromAny converts a generically decoded value into a tree.
//
// Maps keyed by strings become mappings with their keys inserted in sorted
// order, since Go maps carry no order. Slices become sequences and
// json.Number values become int64 or float64. Anything else is stored as a
// scalar.
func FromAny(v any) *Node {
	switch val := v.(type) {
	case nil:
		return Null()
	case *Node:
		return val
	case map[string]any:
		n := NewMapping()
		for _, k := range sortedKeys(val) {
			n.Set(k, FromAny(val[k]))
		}
		return n
	case map[any]any:
		n := NewMapping()
		byKey := make(map[string]any, len(val))
		for k, child := range val {
			byKey[fmt.Sprint(k)] = child
		}
		for _, k := range sortedKeys(byKey) {
			n.Set(k, FromAny(byKey[k]))
		}
		return n
	case []any:
		items := make([]*Node, len(val))
		for i, item := range val {
			items[i] = FromAny(item)
		}
		return Sequence(items...)
	case []map[string]any:
		items := make([]*Node, len(val))
		for i, item := range val {
			items[i] = FromAny(item)
		}
		return Sequence(items...)
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return Scalar(i)
		}
		if f, err := val.Float64(); err == nil {
			return Scalar(f)
		}
		return Scalar(val.String())
	default:
		return Scalar(val)
	}
}

// ToAny converts n into plain Go values: map[string]any for mappings,
// []any for sequences, the scalar value for scalars and nil for Null.
// Key order is lost.
func (n *Node) ToAny() any {
	switch n.Kind() {
	case KindScalar:
		return n.value
	case KindSequence:
		out := make([]any, len(n.items))
		for i, item := range n.items {
			out[i] = item.ToAny()
		}
		return out
	case KindMapping:
		out := make(map[string]any, len(n.fields))
		for k, v := range n.fields {
			out[k] = v.ToAny()
		}
		return out
	default:
		return nil
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
