package merger

import (
	"iter"
	"slices"

	"github.com/erraggy/docmerge/tree"
)

// Leaf is a single value addressed by its path from the document root.
type Leaf struct {
	Path  tree.Path
	Value *tree.Node
}

type workItem struct {
	path tree.Path
	node *tree.Node
}

// Flatten returns a lazy sequence of every leaf reachable from root.
//
// Mappings are descended into and never yielded themselves. Null values are
// skipped entirely, so a null in an overlay never reaches the base.
// Scalars and sequences are yielded with their path. If root itself is a
// scalar or sequence it is yielded with the empty path.
//
// Sibling keys are visited in mapping order, depth first. Each yielded path
// is a fresh slice the caller may keep. root must be acyclic.
func Flatten(root *tree.Node) iter.Seq2[tree.Path, *tree.Node] {
	return func(yield func(tree.Path, *tree.Node) bool) {
		stack := []workItem{{node: root}}
		for len(stack) > 0 {
			item := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			switch item.node.Kind() {
			case tree.KindNull:
				continue
			case tree.KindMapping:
				keys := item.node.Keys()
				// Push in reverse so the first key is popped first.
				for i := len(keys) - 1; i >= 0; i-- {
					child, _ := item.node.Get(keys[i])
					stack = append(stack, workItem{path: item.path.Child(keys[i]), node: child})
				}
			default:
				if !yield(item.path, item.node) {
					return
				}
			}
		}
	}
}

// FlattenAll collects every leaf of root, sorted by path.
func FlattenAll(root *tree.Node) []Leaf {
	var leaves []Leaf
	for path, value := range Flatten(root) {
		leaves = append(leaves, Leaf{Path: path, Value: value})
	}
	slices.SortFunc(leaves, func(a, b Leaf) int {
		return a.Path.Compare(b.Path)
	})
	return leaves
}
