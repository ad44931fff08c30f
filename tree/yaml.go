package tree

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"go.yaml.in/yaml/v4"
)

const mergeTag = "!!merge"

// UnmarshalYAML implements yaml.Unmarshaler. Aliases are expanded into
// independent copies and "<<" merge keys are resolved, explicit keys taking
// precedence over merged ones.
func (n *Node) UnmarshalYAML(value *yaml.Node) error {
	decoded, err := fromYAMLNode(value)
	if err != nil {
		return err
	}
	*n = *decoded
	return nil
}

// MarshalYAML implements yaml.Marshaler, emitting mapping keys in insertion
// order.
func (n *Node) MarshalYAML() (any, error) {
	return n.toYAMLNode()
}

func fromYAMLNode(node *yaml.Node) (*Node, error) {
	if node == nil {
		return Null(), nil
	}
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return Null(), nil
		}
		return fromYAMLNode(node.Content[0])
	case yaml.AliasNode:
		return fromYAMLNode(node.Alias)
	case yaml.SequenceNode:
		items := make([]*Node, 0, len(node.Content))
		for _, c := range node.Content {
			item, err := fromYAMLNode(c)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		return Sequence(items...), nil
	case yaml.MappingNode:
		return fromYAMLMapping(node)
	case yaml.ScalarNode:
		return fromYAMLScalar(node)
	default:
		return nil, fmt.Errorf("tree: unsupported yaml node kind %d at line %d", node.Kind, node.Line)
	}
}

func fromYAMLMapping(node *yaml.Node) (*Node, error) {
	if len(node.Content)%2 != 0 {
		return nil, fmt.Errorf("tree: malformed mapping at line %d", node.Line)
	}
	m := NewMapping()
	var merges []*yaml.Node
	for i := 0; i < len(node.Content); i += 2 {
		keyNode, valNode := node.Content[i], node.Content[i+1]
		if keyNode.Kind == yaml.ScalarNode && keyNode.ShortTag() == mergeTag {
			merges = append(merges, valNode)
			continue
		}
		if keyNode.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("tree: non-scalar mapping key at line %d", keyNode.Line)
		}
		child, err := fromYAMLNode(valNode)
		if err != nil {
			return nil, err
		}
		m.Set(keyNode.Value, child)
	}
	for _, src := range merges {
		if err := applyYAMLMerge(m, src); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// applyYAMLMerge copies keys from a merge source that m does not define yet.
// A sequence of sources is applied in order, so earlier sources win.
func applyYAMLMerge(m *Node, src *yaml.Node) error {
	if src.Kind == yaml.AliasNode {
		src = src.Alias
	}
	if src.Kind == yaml.SequenceNode {
		for _, s := range src.Content {
			if err := applyYAMLMerge(m, s); err != nil {
				return err
			}
		}
		return nil
	}
	merged, err := fromYAMLNode(src)
	if err != nil {
		return err
	}
	if !merged.IsMapping() {
		return fmt.Errorf("tree: merge key at line %d must reference a mapping", src.Line)
	}
	for _, k := range merged.keys {
		if _, exists := m.fields[k]; !exists {
			m.Set(k, merged.fields[k])
		}
	}
	return nil
}

func fromYAMLScalar(node *yaml.Node) (*Node, error) {
	if node.ShortTag() == "!!null" {
		return Null(), nil
	}
	var v any
	if err := node.Decode(&v); err != nil {
		return nil, fmt.Errorf("tree: decoding scalar at line %d: %w", node.Line, err)
	}
	return Scalar(v), nil
}

func (n *Node) toYAMLNode() (*yaml.Node, error) {
	switch n.Kind() {
	case KindNull:
		return scalarNode("!!null", "null"), nil
	case KindScalar:
		return scalarToYAML(n.value)
	case KindSequence:
		out := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Content: make([]*yaml.Node, 0, len(n.items))}
		for _, item := range n.items {
			child, err := item.toYAMLNode()
			if err != nil {
				return nil, err
			}
			out.Content = append(out.Content, child)
		}
		return out, nil
	default:
		out := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map", Content: make([]*yaml.Node, 0, 2*len(n.keys))}
		for _, k := range n.keys {
			child, err := n.fields[k].toYAMLNode()
			if err != nil {
				return nil, err
			}
			out.Content = append(out.Content, scalarNode("!!str", k), child)
		}
		return out, nil
	}
}

func scalarNode(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

func scalarToYAML(v any) (*yaml.Node, error) {
	switch val := v.(type) {
	case string:
		return scalarNode("!!str", val), nil
	case bool:
		return scalarNode("!!bool", strconv.FormatBool(val)), nil
	case int64:
		return scalarNode("!!int", strconv.FormatInt(val, 10)), nil
	case uint64:
		return scalarNode("!!int", strconv.FormatUint(val, 10)), nil
	case float64:
		return scalarNode("!!float", formatYAMLFloat(val)), nil
	case time.Time:
		return scalarNode("!!timestamp", val.Format(time.RFC3339Nano)), nil
	default:
		node := &yaml.Node{}
		if err := node.Encode(val); err != nil {
			return nil, fmt.Errorf("tree: cannot encode %T as yaml: %w", v, err)
		}
		return node, nil
	}
}

func formatYAMLFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return ".nan"
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	// Keep whole floats recognizable as floats on the way back in.
	if f == math.Trunc(f) && !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

