// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package scenegraph

import (
	"fmt"
	"iter"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/gviegas/scenegraph/linear"
)

// Node identifies a node in a Graph.
// Handles are only meaningful for the Graph that created
// them. A handle becomes stale when its node is destroyed,
// and stale handles are never reused.
type Node uint64

// Nil is the invalid Node.
const Nil Node = 0

func makeNode(index int, gen uint32) Node { return Node(uint64(gen)<<32 | uint64(uint32(index))) }

func (n Node) index() int  { return int(uint32(n)) }
func (n Node) gen() uint32 { return uint32(n >> 32) }

// String implements fmt.Stringer.
func (n Node) String() string {
	if n == Nil {
		return "Nil"
	}
	return fmt.Sprintf("Node(%d:%d)", n.index(), n.gen())
}

// node is the data of a Node.
type node struct {
	name string

	translation mgl64.Vec3
	rotation    mgl64.Quat
	scaling     mgl64.Vec3

	local       mgl64.Mat4
	global      mgl64.Mat4
	globalFloat mgl32.Mat4

	prevLocal       mgl64.Mat4
	prevGlobal      mgl64.Mat4
	prevGlobalFloat mgl32.Mat4

	bbox linear.Box3

	dirty           DirtyFlags
	leafContent     ContentFlags
	subgraphContent ContentFlags
	hasLocal        bool
	live            bool

	parent      Node
	firstChild  Node
	nextSibling Node

	leaf Leaf
}

func newNodeData(name string) node {
	return node{
		name:            name,
		rotation:        mgl64.QuatIdent(),
		scaling:         mgl64.Vec3{1, 1, 1},
		local:           mgl64.Ident4(),
		global:          mgl64.Ident4(),
		globalFloat:     mgl32.Ident4(),
		prevLocal:       mgl64.Ident4(),
		prevGlobal:      mgl64.Ident4(),
		prevGlobalFloat: mgl32.Ident4(),
		bbox:            linear.EmptyBox(),
	}
}

// get returns the data of n.
// It panics if n is not valid.
// The pointer is invalidated by the next NewNode.
func (g *Graph) get(n Node) *node {
	d := g.nodes.Get(n.index(), n.gen())
	if d == nil {
		panic(prefix + "invalid node " + n.String())
	}
	return d
}

// Valid reports whether n refers to a node of g that
// has not been destroyed.
func (g *Graph) Valid(n Node) bool {
	return n != Nil && g.nodes.Valid(n.index(), n.gen())
}

// Len returns the number of nodes in g, including the
// ones that are not attached.
func (g *Graph) Len() int { return g.nodes.Len() }

// NewNode creates a detached node.
// It has no parent, no leaf and an identity transform.
func (g *Graph) NewNode(name string) Node {
	i, gen := g.nodes.Insert(newNodeData(name))
	return makeNode(i, gen)
}

// Name returns the name of n.
func (g *Graph) Name(n Node) string { return g.get(n).name }

// SetName sets the name of n.
func (g *Graph) SetName(n Node, name string) { g.get(n).name = name }

// Parent returns the parent of n, or Nil if n has none.
func (g *Graph) Parent(n Node) Node { return g.get(n).parent }

// FirstChild returns the first child of n, or Nil if n
// has no children.
func (g *Graph) FirstChild(n Node) Node { return g.get(n).firstChild }

// NextSibling returns the node that follows n in its
// parent's child list, or Nil if n is the last one.
func (g *Graph) NextSibling(n Node) Node { return g.get(n).nextSibling }

// Children returns an iterator over the children of n.
// The child list of n must not change during iteration.
func (g *Graph) Children(n Node) iter.Seq[Node] {
	return func(yield func(Node) bool) {
		for c := g.get(n).firstChild; c != Nil; c = g.get(c).nextSibling {
			if !yield(c) {
				return
			}
		}
	}
}

// Leaf returns the leaf owned by n, or nil if n has none.
func (g *Graph) Leaf(n Node) Leaf { return g.get(n).leaf }

// IsLive reports whether n is attached to g's root.
func (g *Graph) IsLive(n Node) bool { return g.get(n).live }

// Translation returns the translation of n.
func (g *Graph) Translation(n Node) mgl64.Vec3 { return g.get(n).translation }

// Rotation returns the rotation of n.
func (g *Graph) Rotation(n Node) mgl64.Quat { return g.get(n).rotation }

// Scaling returns the scaling of n.
func (g *Graph) Scaling(n Node) mgl64.Vec3 { return g.get(n).scaling }

// HasLocalTransform reports whether a transform was ever
// set on n.
func (g *Graph) HasLocalTransform(n Node) bool { return g.get(n).hasLocal }

// LocalToParent returns the local transform of n as of
// the last Refresh.
func (g *Graph) LocalToParent(n Node) mgl64.Mat4 { return g.get(n).local }

// LocalToWorld returns the global transform of n as of
// the last Refresh.
func (g *Graph) LocalToWorld(n Node) mgl64.Mat4 { return g.get(n).global }

// LocalToWorldFloat is the single precision version of
// LocalToWorld.
func (g *Graph) LocalToWorldFloat(n Node) mgl32.Mat4 { return g.get(n).globalFloat }

// PrevLocalToParent returns the local transform of n
// before the last Refresh.
func (g *Graph) PrevLocalToParent(n Node) mgl64.Mat4 { return g.get(n).prevLocal }

// PrevLocalToWorld returns the global transform of n
// before the last Refresh.
func (g *Graph) PrevLocalToWorld(n Node) mgl64.Mat4 { return g.get(n).prevGlobal }

// PrevLocalToWorldFloat is the single precision version
// of PrevLocalToWorld.
func (g *Graph) PrevLocalToWorldFloat(n Node) mgl32.Mat4 { return g.get(n).prevGlobalFloat }

// GlobalBoundingBox returns the world space bounds of
// the leaves in the subgraph of n.
// It is empty if no such leaf has bounds.
func (g *Graph) GlobalBoundingBox(n Node) linear.Box3 { return g.get(n).bbox }

// DirtyFlags returns the dirty flags of n.
func (g *Graph) DirtyFlags(n Node) DirtyFlags { return g.get(n).dirty }

// LeafContentFlags returns the content flags of the leaf
// owned by n.
func (g *Graph) LeafContentFlags(n Node) ContentFlags { return g.get(n).leafContent }

// SubgraphContentFlags returns the union of the content
// flags of every leaf in the subgraph of n.
func (g *Graph) SubgraphContentFlags(n Node) ContentFlags { return g.get(n).subgraphContent }

// propagate sets flags in n and in every ancestor of n.
func (g *Graph) propagate(n Node, flags DirtyFlags) {
	for n != Nil {
		d := g.get(n)
		d.dirty |= flags
		n = d.parent
	}
}

// SetTransform sets any of the translation, rotation and
// scaling of n. Nil arguments are left unchanged.
// The new local transform is computed by the next Refresh.
func (g *Graph) SetTransform(n Node, t *mgl64.Vec3, r *mgl64.Quat, s *mgl64.Vec3) {
	d := g.get(n)
	if t != nil {
		d.translation = *t
	}
	if r != nil {
		d.rotation = *r
	}
	if s != nil {
		d.scaling = *s
	}
	d.hasLocal = true
	d.dirty |= DirtyLocalTransform
	g.propagate(n, DirtySubgraphTransforms)
}

// SetTranslation sets the translation of n.
func (g *Graph) SetTranslation(n Node, t mgl64.Vec3) { g.SetTransform(n, &t, nil, nil) }

// SetRotation sets the rotation of n.
func (g *Graph) SetRotation(n Node, r mgl64.Quat) { g.SetTransform(n, nil, &r, nil) }

// SetScaling sets the scaling of n.
func (g *Graph) SetScaling(n Node, s mgl64.Vec3) { g.SetTransform(n, nil, nil, &s) }

// SetLeaf makes n the owner of leaf, replacing any leaf
// it had before. A nil leaf removes the current one.
// If n is live, the old leaf is unregistered and the new
// one is registered.
// It panics if leaf is owned by another node.
func (g *Graph) SetLeaf(n Node, leaf Leaf) {
	d := g.get(n)
	if leaf != nil {
		b := leaf.base()
		if b.graph != nil {
			if b.graph == g && b.node == n {
				return
			}
			panic(prefix + "leaf already has an owner")
		}
	}
	if old := d.leaf; old != nil {
		if d.live {
			g.unregister(old)
		}
		*old.base() = leafBase{}
	}
	d.leaf = leaf
	if leaf != nil {
		*leaf.base() = leafBase{graph: g, node: n}
		if d.live {
			g.register(leaf)
		}
	}
	d.dirty |= DirtyLeaf
	g.propagate(n, DirtySubgraphStructure)
}

// InvalidateContent requests that the content flags of
// the leaf owned by n be recomputed by the next Refresh.
func (g *Graph) InvalidateContent(n Node) {
	g.propagate(n, DirtySubgraphContentUpdate)
}

// ReverseChildren reverses the order of the children
// of n.
func (g *Graph) ReverseChildren(n Node) {
	d := g.get(n)
	var prev Node
	c := d.firstChild
	for c != Nil {
		cd := g.get(c)
		next := cd.nextSibling
		cd.nextSibling = prev
		prev = c
		c = next
	}
	d.firstChild = prev
}

// Path returns the names of the ancestors of n, up to
// but excluding the topmost one, followed by the name
// of n. Names are separated by '/'.
// For live nodes, g.FindNode(g.Path(n), Nil) yields n.
func (g *Graph) Path(n Node) string {
	var names []string
	for {
		d := g.get(n)
		if d.parent == Nil {
			break
		}
		names = append(names, d.name)
		n = d.parent
	}
	if len(names) == 0 {
		return "/"
	}
	var sb strings.Builder
	for i := len(names) - 1; i >= 0; i-- {
		sb.WriteByte('/')
		sb.WriteString(names[i])
	}
	return sb.String()
}

// link prepends child to the child list of parent.
func (g *Graph) link(parent, child Node) {
	p := g.get(parent)
	c := g.get(child)
	c.parent = parent
	c.nextSibling = p.firstChild
	p.firstChild = child
}

// unlink removes n from the child list of its parent.
func (g *Graph) unlink(n Node) {
	d := g.get(n)
	if d.parent == Nil {
		return
	}
	p := g.get(d.parent)
	if p.firstChild == n {
		p.firstChild = d.nextSibling
	} else {
		s := p.firstChild
		for {
			sd := g.get(s)
			if sd.nextSibling == n {
				sd.nextSibling = d.nextSibling
				break
			}
			s = sd.nextSibling
		}
	}
	d.parent = Nil
	d.nextSibling = Nil
}

// isAncestor reports whether a is n or one of its
// ancestors.
func (g *Graph) isAncestor(a, n Node) bool {
	for ; n != Nil; n = g.get(n).parent {
		if n == a {
			return true
		}
	}
	return false
}
