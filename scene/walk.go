package scene

import "iter"

// Walk returns a depth-first preorder sequence of n and all of its descendants. Destroyed nodes and
// their subtrees are skipped.
func Walk(n Node) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		if n == nil {
			return
		}
		walk(n, yield)
	}
}

func walk(n Node, yield func(Node) bool) bool {
	if !n.Alive() {
		return true
	}
	if !yield(n) {
		return false
	}
	for _, c := range n.Children() {
		if !walk(c, yield) {
			return false
		}
	}
	return true
}
