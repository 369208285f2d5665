// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package scenegraph

// Walker traverses a subgraph in depth-first pre-order.
// The traversal never leaves the subgraph rooted at the
// node that it started from.
//
// Usage:
//
//	for w := NewWalker(g, n); w.Valid(); w.Next(true) {
//		// Visit w.Node().
//	}
type Walker struct {
	g       *Graph
	current Node
	scope   Node
}

// NewWalker creates a Walker that starts at n and whose
// scope is the subgraph of n.
func NewWalker(g *Graph, n Node) Walker { return NewWalkerAt(g, n, n) }

// NewWalkerAt creates a Walker that starts at n and whose
// scope is the subgraph of scope.
// scope must be n or one of its ancestors.
func NewWalkerAt(g *Graph, n, scope Node) Walker {
	if n != Nil && !g.isAncestor(scope, n) {
		panic(prefix + "walker scope is not an ancestor")
	}
	return Walker{g: g, current: n, scope: scope}
}

// Node returns the current node, or Nil if the traversal
// is complete.
func (w *Walker) Node() Node { return w.current }

// Valid reports whether the traversal is not complete.
func (w *Walker) Valid() bool { return w.current != Nil }

// Next moves to the next node in pre-order.
// If allowDescend is false, the children of the current
// node are skipped.
// It returns the depth change: 1 when moving to a child,
// 0 when moving to a sibling, and a negative value when
// moving to a sibling of an ancestor. When the traversal
// completes, the returned value is minus the depth of the
// last node visited relative to the scope.
func (w *Walker) Next(allowDescend bool) int {
	if w.current == Nil {
		return 0
	}
	d := w.g.get(w.current)
	if allowDescend && d.firstChild != Nil {
		w.current = d.firstChild
		return 1
	}
	depth := 0
	for {
		if w.current == w.scope {
			w.current = Nil
			return depth
		}
		d = w.g.get(w.current)
		if d.nextSibling != Nil {
			w.current = d.nextSibling
			return depth
		}
		w.current = d.parent
		depth--
	}
}

// Up moves to the parent of the current node.
// It returns -1, or 0 if the current node is the scope
// (in which case the traversal completes).
func (w *Walker) Up() int {
	if w.current == Nil {
		return 0
	}
	if w.current == w.scope {
		w.current = Nil
		return 0
	}
	w.current = w.g.get(w.current).parent
	return -1
}
