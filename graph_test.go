// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package scenegraph

import (
	"fmt"
	"slices"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gviegas/scenegraph/anim"
	"github.com/gviegas/scenegraph/linear"
	"github.com/gviegas/scenegraph/material"
	"github.com/gviegas/scenegraph/mesh"
)

// newTestMesh creates a mesh with one unit cube geometry
// per domain, each with its own material.
func newTestMesh(name string, domains ...material.Domain) *mesh.Mesh {
	geoms := make([]*mesh.Geometry, len(domains))
	for i, d := range domains {
		mat := material.New(fmt.Sprintf("%s.%d", name, i))
		mat.Domain = d
		geoms[i] = &mesh.Geometry{
			Material:          mat,
			ObjectSpaceBounds: linear.NewBox(mgl64.Vec3{-1, -1, -1}, mgl64.Vec3{1, 1, 1}),
			NumIndices:        36,
			NumVertices:       24,
		}
	}
	return mesh.New(name, geoms...)
}

func childNames(g *Graph, n Node) (s []string) {
	for c := range g.Children(n) {
		s = append(s, g.Name(c))
	}
	return
}

// checkLinks asserts that every live node other than the
// root has a live parent whose child chain holds it
// exactly once. It returns the number of live nodes.
func checkLinks(t *testing.T, g *Graph) int {
	t.Helper()
	cnt := 0
	for w := NewWalker(g, g.Root()); w.Valid(); w.Next(true) {
		n := w.Node()
		require.LessOrEqual(t, cnt, g.Len(), "cycle through %s", g.Path(n))
		cnt++
		require.True(t, g.IsLive(n), g.Path(n))
		p := g.Parent(n)
		if n == g.Root() {
			require.Equal(t, Nil, p)
			continue
		}
		require.NotEqual(t, Nil, p, g.Path(n))
		require.True(t, g.IsLive(p), g.Path(n))
		k := 0
		for c := range g.Children(p) {
			if c == n {
				k++
			}
		}
		require.Equal(t, 1, k, "%s in the children of its parent", g.Path(n))
	}
	return cnt
}

func TestNew(t *testing.T) {
	g := New(nil)
	root := g.Root()
	require.True(t, g.Valid(root))
	assert.True(t, g.IsLive(root))
	assert.Equal(t, Nil, g.Parent(root))
	assert.Equal(t, DefaultConfig(), g.Config())
	assert.NotEqual(t, New(nil).ID(), g.ID())
	assert.True(t, g.HasPendingStructureChanges())

	g.Refresh(0)
	assert.False(t, g.HasPendingStructureChanges())
	assert.False(t, g.HasPendingTransformChanges())
	assert.Equal(t, mgl64.Ident4(), g.LocalToWorld(root))

	cfg := Config{InitialNodes: 4, ExtrapolateAnimations: false}
	g = New(&cfg)
	assert.False(t, g.Config().ExtrapolateAnimations)
	for range 10 {
		g.NewNode("")
	}
	assert.Equal(t, 11, g.Len())
	assert.False(t, g.Valid(Nil))
}

func TestAttachDetach(t *testing.T) {
	g := New(nil)
	msh := newTestMesh("m", material.Opaque, material.AlphaTested)
	a := g.NewNode("a")
	b := g.NewNode("b")
	g.SetLeaf(b, NewMeshInstance(msh))

	// Both detached: splice only.
	assert.Equal(t, b, g.Attach(a, b))
	assert.Equal(t, a, g.Parent(b))
	assert.False(t, g.IsLive(b))
	assert.Empty(t, g.MeshInstances())

	assert.Equal(t, a, g.Attach(g.Root(), a))
	assert.True(t, g.IsLive(a))
	assert.True(t, g.IsLive(b))
	assert.Len(t, g.MeshInstances(), 1)
	assert.Equal(t, 1, g.MeshRefs(msh))
	assert.Equal(t, 1, g.MeshCount())
	assert.Equal(t, 2, g.MaterialCount())
	assert.Equal(t, 2, g.GeometryCount())
	assert.NotZero(t, g.DirtyFlags(g.Root())&DirtySubgraphStructure)

	g.Refresh(1)
	assert.Equal(t, 2, g.GeometryInstanceCount())

	assert.Equal(t, a, g.Detach(a))
	assert.False(t, g.IsLive(a))
	assert.False(t, g.IsLive(b))
	assert.Equal(t, Nil, g.Parent(a))
	assert.Equal(t, b, g.FirstChild(a), "detached subtree must be kept")
	assert.Empty(t, g.MeshInstances())
	assert.Zero(t, g.MeshCount())
	assert.Zero(t, g.MaterialCount())
	assert.Zero(t, g.GeometryCount())
	assert.True(t, g.HasPendingStructureChanges())
	assert.Equal(t, Nil, g.FirstChild(g.Root()))

	// Round trip.
	g.Attach(g.Root(), a)
	g.Refresh(2)
	assert.Len(t, g.MeshInstances(), 1)
	assert.Equal(t, 1, g.MeshRefs(msh))
	assert.Equal(t, 2, g.MaterialCount())
	assert.Equal(t, 2, g.GeometryInstanceCount())
	assert.Equal(t, "/a/b", g.Path(b))

	assert.Equal(t, 3, checkLinks(t, g))

	// Detaching a node that is already detached only unlinks it.
	g.Detach(a)
	g.Detach(b)
	assert.Equal(t, Nil, g.FirstChild(a))
	assert.Equal(t, Nil, g.Parent(b))
	assert.Equal(t, 1, checkLinks(t, g))

	// Mixed attach, detach and clone.
	c := g.Attach(g.Root(), g.NewNode("c"))
	g.Attach(g.Root(), a)
	g.Attach(a, b)
	g.Attach(c, g.NewNode("d"))
	g.Attach(c, a)
	e := g.Attach(g.Root(), g.NewNode("e"))
	g.Detach(c)
	g.Attach(e, c)
	g.Detach(b)
	g.Attach(g.FindNode("/e/c/d", Nil), b)
	assert.Equal(t, 8, checkLinks(t, g), spew.Sdump(g.Describe(g.Root())))
}

func TestAttachPanics(t *testing.T) {
	g := New(nil)
	a := g.NewNode("a")
	b := g.NewNode("b")
	c := g.NewNode("c")
	g.Attach(a, b)

	assert.Panics(t, func() { g.Attach(c, b) }, "detached child with a parent")
	assert.Panics(t, func() { g.Attach(b, a) }, "cycle")
	assert.Panics(t, func() { g.Attach(a, a) }, "self")

	live := g.Attach(g.Root(), g.NewNode("live"))
	assert.Panics(t, func() { g.Attach(c, live) }, "live child under detached parent")

	stale := g.NewNode("stale")
	g.Destroy(stale)
	assert.Panics(t, func() { g.Attach(g.Root(), stale) }, "stale handle")
	assert.Panics(t, func() { g.Detach(stale) }, "stale handle")
	assert.Panics(t, func() { g.SetTranslation(stale, mgl64.Vec3{}) }, "stale handle")
}

func TestReplaceRoot(t *testing.T) {
	g := New(nil)
	old := g.Root()
	g.AttachLeafNode(old, NewPerspectiveCamera())
	require.Len(t, g.Cameras(), 1)

	n := g.NewNode("scene")
	g.AttachLeafNode(n, NewPointLight())
	assert.Empty(t, g.Lights())

	assert.Equal(t, n, g.Attach(Nil, n))
	assert.Equal(t, n, g.Root())
	assert.True(t, g.IsLive(n))
	assert.True(t, g.Valid(old), "old root must only be detached")
	assert.False(t, g.IsLive(old))
	assert.Empty(t, g.Cameras())
	assert.Len(t, g.Lights(), 1)
	assert.True(t, g.HasPendingStructureChanges())

	// Detaching the root installs a new one.
	g.Detach(n)
	assert.NotEqual(t, n, g.Root())
	assert.True(t, g.IsLive(g.Root()))
	assert.Empty(t, g.Lights())
}

func TestCallbacks(t *testing.T) {
	g := New(nil)
	var added, removed []*mesh.Mesh
	var matAdded, matRemoved int
	g.OnMeshAdded = func(m *mesh.Mesh) { added = append(added, m) }
	g.OnMeshRemoved = func(m *mesh.Mesh) { removed = append(removed, m) }
	g.OnMaterialAdded = func(*material.Material) { matAdded++ }
	g.OnMaterialRemoved = func(*material.Material) { matRemoved++ }

	msh := newTestMesh("shared", material.Opaque)
	n1 := g.AttachLeafNode(g.Root(), NewMeshInstance(msh))
	n2 := g.AttachLeafNode(g.Root(), NewMeshInstance(msh))
	assert.Equal(t, []*mesh.Mesh{msh}, added)
	assert.Equal(t, 1, matAdded)
	assert.Equal(t, 2, g.MeshRefs(msh))
	// One reference per geometry instance.
	assert.Equal(t, 2, g.MaterialRefs(msh.Geometries[0].Material))

	g.Detach(n1)
	assert.Empty(t, removed)
	assert.Zero(t, matRemoved)
	assert.Equal(t, 1, g.MaterialRefs(msh.Geometries[0].Material))
	g.Detach(n2)
	assert.Equal(t, []*mesh.Mesh{msh}, removed)
	assert.Equal(t, 1, matRemoved)
}

func TestSetLeaf(t *testing.T) {
	g := New(nil)
	n := g.Attach(g.Root(), g.NewNode("n"))

	cam := NewPerspectiveCamera()
	g.SetLeaf(n, cam)
	assert.Len(t, g.Cameras(), 1)
	assert.Equal(t, n, cam.Node())
	assert.Equal(t, "n", cam.Name())
	assert.Same(t, g, cam.Graph())
	assert.NotZero(t, g.DirtyFlags(n)&DirtyLeaf)

	light := NewSpotLight()
	g.SetLeaf(n, light)
	assert.Empty(t, g.Cameras())
	assert.Len(t, g.Lights(), 1)
	assert.Equal(t, Nil, cam.Node())
	assert.Nil(t, cam.Graph())
	assert.Equal(t, n, light.Node())

	x := g.NewNode("x")
	assert.Panics(t, func() { g.SetLeaf(x, light) })
	assert.NotPanics(t, func() { g.SetLeaf(n, light) })

	// An owned leaf is cloned.
	m := g.AttachLeafNode(g.Root(), light)
	assert.NotSame(t, light, g.Leaf(m))
	assert.Len(t, g.Lights(), 2)

	g.SetLeaf(n, nil)
	assert.Nil(t, g.Leaf(n))
	assert.Len(t, g.Lights(), 1)
	assert.Equal(t, Nil, light.Node())

	// Leaves of detached nodes are not registered.
	g.SetLeaf(x, NewAnimation())
	assert.Empty(t, g.Animations())
	g.Attach(g.Root(), x)
	assert.Len(t, g.Animations(), 1)
}

func TestClone(t *testing.T) {
	g := New(nil)
	p1 := g.Attach(g.Root(), g.NewNode("p1"))
	p2 := g.Attach(g.Root(), g.NewNode("p2"))

	src := g.NewNode("src")
	child := g.NewNode("child")
	g.Attach(src, child)
	g.SetTranslation(child, mgl64.Vec3{1, 2, 3})
	g.SetLeaf(child, NewPointLight())
	a := NewAnimation()
	s := anim.NewSampler(anim.Linear,
		anim.Keyframe{Time: 0, Value: mgl32.Vec4{0, 0, 0, 0}},
		anim.Keyframe{Time: 1, Value: mgl32.Vec4{1, 1, 1, 0}})
	a.AddChannel(NewChannel(s, child, AttrTranslation))
	a.AddChannel(NewChannel(s, p1, AttrScaling))
	animNode := g.NewNode("anim")
	g.SetLeaf(animNode, a)
	g.Attach(src, animNode)

	assert.Equal(t, src, g.Attach(p1, src))
	c := g.Attach(p2, src)
	require.NotEqual(t, src, c)
	assert.Equal(t, p2, g.Parent(c))
	assert.Equal(t, "src", g.Name(c))
	assert.Equal(t, childNames(g, src), childNames(g, c), "child order must be kept")

	cChild := g.FindNode("child", c)
	require.NotEqual(t, Nil, cChild)
	assert.NotEqual(t, child, cChild)
	assert.Equal(t, mgl64.Vec3{1, 2, 3}, g.Translation(cChild))
	assert.NotSame(t, g.Leaf(child), g.Leaf(cChild))
	assert.Len(t, g.Lights(), 2)
	assert.Len(t, g.Animations(), 2)

	ca, ok := g.Leaf(g.FindNode("anim", c)).(*Animation)
	require.True(t, ok)
	assert.Equal(t, cChild, ca.Channels()[0].TargetNode(), spew.Sdump(ca.Channels()))
	assert.Equal(t, p1, ca.Channels()[1].TargetNode(), "outside targets are kept within a graph")
	assert.Same(t, s, ca.Channels()[0].Sampler())
	assert.Equal(t, child, a.Channels()[0].TargetNode())

	g.SetTranslation(cChild, mgl64.Vec3{4, 5, 6})
	g.Refresh(0)
	assert.Equal(t, mgl64.Vec3{1, 2, 3}, g.Translation(child))
	assert.NotEqual(t, g.LocalToWorld(child), g.LocalToWorld(cChild))
	assert.Equal(t, 9, g.Len())
	assert.Equal(t, 9, checkLinks(t, g))

	// Clone into the clone, then move the original.
	cc := g.Attach(cChild, src)
	g.Detach(src)
	g.Attach(cChild, src)
	g.Detach(p2)
	g.Attach(p1, p2)
	assert.Equal(t, 12, g.Len())
	assert.Equal(t, 12, checkLinks(t, g))
	assert.Equal(t, cChild, g.Parent(cc))
	assert.Equal(t, cChild, g.Parent(src))
}

func TestAttachFrom(t *testing.T) {
	src := New(nil)
	dst := New(nil)

	n := src.Attach(src.Root(), src.NewNode("body"))
	j := src.Attach(n, src.NewNode("joint"))
	outside := src.Attach(src.Root(), src.NewNode("outside"))
	skin := NewSkinnedMeshInstance(newTestMesh("skin", material.Opaque))
	skin.Joints = []SkinnedMeshJoint{{Node: j}, {Node: outside}}
	src.SetLeaf(n, skin)
	src.SetLeaf(j, NewSkinnedMeshReference(n))
	other := src.Attach(src.Root(), src.NewNode("other"))
	src.SetLeaf(other, NewSkinnedMeshReference(n))

	c := dst.AttachFrom(dst.Root(), src, n)
	cs, ok := dst.Leaf(c).(*SkinnedMeshInstance)
	require.True(t, ok)
	cj := dst.FindNode("joint", c)
	require.NotEqual(t, Nil, cj)
	assert.Equal(t, cj, cs.Joints[0].Node)
	assert.Equal(t, Nil, cs.Joints[1].Node, "handles of another graph must not leak")
	ref, ok := dst.Leaf(cj).(*SkinnedMeshReference)
	require.True(t, ok)
	assert.Same(t, cs, ref.Instance())
	assert.Same(t, skin.Prototype(), cs.Prototype())
	assert.NotSame(t, skin.Mesh(), cs.Mesh())

	assert.Len(t, dst.SkinnedMeshInstances(), 1)
	assert.Len(t, dst.MeshInstances(), 1)
	assert.Len(t, src.SkinnedMeshInstances(), 1)
	assert.Equal(t, 2, dst.MeshCount(), "skinned copy and prototype")
	assert.Equal(t, 2, dst.GeometryCount())

	// A reference to an instance outside of the copy is reset.
	co := dst.AttachFrom(dst.Root(), src, other)
	cref := dst.Leaf(co).(*SkinnedMeshReference)
	assert.Equal(t, Nil, cref.InstanceNode())
	assert.Nil(t, cref.Instance())
}

func TestDestroy(t *testing.T) {
	g := New(nil)
	n := g.NewNode("n")
	k := g.NewNode("k")
	g.Attach(n, k)
	leaf := NewDirectionalLight()
	g.SetLeaf(k, leaf)

	a := NewAnimation()
	a.AddChannel(NewChannel(anim.NewSampler(anim.Step, anim.Keyframe{Value: mgl32.Vec4{1, 2, 3, 0}}), k, AttrTranslation))
	g.AttachLeafNode(g.Root(), a)
	g.Attach(g.Root(), n)
	assert.True(t, a.Valid())

	assert.Panics(t, func() { g.Destroy(n) })
	g.Detach(n)
	g.Destroy(n)
	assert.False(t, g.Valid(n))
	assert.False(t, g.Valid(k))
	assert.Equal(t, Nil, leaf.Node())
	assert.False(t, a.Valid())
	assert.False(t, a.Apply(0))

	m := g.NewNode("m")
	assert.NotEqual(t, k, m)
	assert.NotEqual(t, n, m)
	assert.False(t, g.Valid(k))
	assert.Panics(t, func() { g.Name(k) })

	// Destroying an inner node of a detached subtree
	// unlinks it first.
	x := g.NewNode("x")
	y := g.NewNode("y")
	g.Attach(x, y)
	g.Destroy(y)
	assert.Equal(t, Nil, g.FirstChild(x))
}

func TestFindNode(t *testing.T) {
	g := New(nil)
	m := buildTree(g)
	g.Attach(g.Root(), m["a"])

	assert.Equal(t, m["d"], g.FindNode("/a/b/d", Nil))
	assert.Equal(t, m["d"], g.FindNode("/a/b/d", m["f"]), "absolute paths ignore the context")
	assert.Equal(t, m["f"], g.FindNode("../c/f", m["b"]))
	assert.Equal(t, m["b"], g.FindNode("./d/..", m["b"]))
	assert.Equal(t, m["e"], g.FindNode("b//e/", m["a"]))
	assert.Equal(t, g.Root(), g.FindNode("/", Nil))
	assert.Equal(t, Nil, g.FindNode("/a/x", Nil))
	assert.Equal(t, Nil, g.FindNode("b", Nil))
	assert.Equal(t, Nil, g.FindNode("..", g.Root()))

	assert.Equal(t, "/a/b/d", g.Path(m["d"]))
	assert.Equal(t, "/", g.Path(g.Root()))
	for name, n := range m {
		assert.Equal(t, n, g.FindNode(g.Path(n), Nil), name)
	}

	// The first sibling wins.
	dup := g.Attach(m["a"], g.NewNode("c"))
	assert.Equal(t, dup, g.FindNode("/a/c", Nil))
	assert.Equal(t, []string{"c", "b", "c"}, childNames(g, m["a"]))
	assert.True(t, slices.Contains(slices.Collect(g.Children(m["a"])), m["c"]))
}
