// Package tree models structured configuration documents.
//
// A document is a tree of [Node] values. Every node is exactly one of four
// kinds:
//
//   - Null: an explicit null or an absent value
//   - Scalar: a string, number, boolean or timestamp
//   - Sequence: an ordered list of nodes
//   - Mapping: a collection of string-keyed nodes
//
// Mappings remember the order in which keys were inserted, so a document
// decoded from YAML or JSON is written back with its keys in source order.
// Keys added later are appended.
//
// # Decoding and Encoding
//
// Node implements the yaml (go.yaml.in/yaml/v4) and encoding/json
// marshaling interfaces:
//
//	var root tree.Node
//	if err := yaml.Unmarshal(data, &root); err != nil {
//		return err
//	}
//	out, err := json.Marshal(&root)
//
// Values decoded by other libraries (map[string]any, []any and scalars) are
// converted with [FromAny] and back with [Node.ToAny].
//
// # Ownership
//
// Nodes are mutable and not safe for concurrent use. Trees must be acyclic:
// setting a mapping as a descendant of itself produces a structure that
// traversal and encoding will never finish walking.
package tree
