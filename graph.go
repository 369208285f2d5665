// Copyright 2023 Gustavo C. Viegas. All rights reserved.

// Package scenegraph implements a hierarchical scene
// graph.
//
// Nodes live in a per-graph arena and are referred to by
// Node handles. Each node has a local transform and may
// own one Leaf (a mesh instance, a camera, a light, an
// animation or a skinning reference). Mutations only
// record dirty flags; Graph.Refresh propagates transforms,
// bounds and content flags in a single pass and assigns
// the indices that renderers consume.
//
// A Graph is not safe for concurrent use.
package scenegraph

import (
	"iter"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/gviegas/scenegraph/internal/slot"
	"github.com/gviegas/scenegraph/material"
	"github.com/gviegas/scenegraph/mesh"
)

const prefix = "scenegraph: "

// Graph is a scene graph.
// Nodes that are reachable from the root are live: their
// leaves are registered in the graph's registries, and
// they take part in Refresh. Other nodes are detached.
type Graph struct {
	id    uuid.UUID
	cfg   Config
	nodes slot.Table[node]
	root  Node

	meshes    ResourceTracker[*mesh.Mesh]
	materials ResourceTracker[*material.Material]

	meshInstances        []*MeshInstance
	skinnedMeshInstances []*SkinnedMeshInstance
	animations           []*Animation
	cameras              []Camera
	lights               []Light

	geometryCount         int
	geometryInstanceCount int

	// Called when a mesh becomes referenced by the
	// graph's live instances, and when it ceases to be.
	OnMeshAdded   func(*mesh.Mesh)
	OnMeshRemoved func(*mesh.Mesh)
	// Same, for the materials of the meshes' geometries.
	OnMaterialAdded   func(*material.Material)
	OnMaterialRemoved func(*material.Material)
}

// New creates a new graph with an empty root node.
// If cfg is nil, DefaultConfig is used.
func New(cfg *Config) *Graph {
	g := &Graph{id: uuid.New()}
	if cfg != nil {
		g.cfg = *cfg
	} else {
		g.cfg = DefaultConfig()
	}
	if g.cfg.InitialNodes > 0 {
		g.nodes.Reserve(g.cfg.InitialNodes)
	}
	g.root = g.newRoot()
	return g
}

func (g *Graph) newRoot() Node {
	n := g.NewNode("")
	d := g.get(n)
	d.live = true
	d.dirty = DirtySubgraphStructure
	return n
}

// ID returns the unique identifier of g.
func (g *Graph) ID() uuid.UUID { return g.id }

// Config returns the configuration of g.
func (g *Graph) Config() Config { return g.cfg }

// Root returns the root node of g.
// The root is always valid and live.
func (g *Graph) Root() Node { return g.root }

// MeshInstances returns the live mesh instances, in
// registration order. Skinned instances are included.
// The slice must not be modified.
func (g *Graph) MeshInstances() []*MeshInstance { return g.meshInstances }

// SkinnedMeshInstances returns the live skinned mesh
// instances. The slice must not be modified.
func (g *Graph) SkinnedMeshInstances() []*SkinnedMeshInstance { return g.skinnedMeshInstances }

// Animations returns the live animations.
// The slice must not be modified.
func (g *Graph) Animations() []*Animation { return g.animations }

// Cameras returns the live cameras.
// The slice must not be modified.
func (g *Graph) Cameras() []Camera { return g.cameras }

// Lights returns the live lights.
// The slice must not be modified.
func (g *Graph) Lights() []Light { return g.lights }

// Meshes returns an iterator over the meshes referenced
// by live instances, in the order they were first
// referenced.
func (g *Graph) Meshes() iter.Seq[*mesh.Mesh] { return g.meshes.All() }

// MeshCount returns the number of meshes referenced by
// live instances.
func (g *Graph) MeshCount() int { return g.meshes.Len() }

// MeshRefs returns the number of live instances of m.
func (g *Graph) MeshRefs(m *mesh.Mesh) int { return g.meshes.Count(m) }

// Materials returns an iterator over the materials
// referenced by live instances.
func (g *Graph) Materials() iter.Seq[*material.Material] { return g.materials.All() }

// MaterialCount returns the number of materials referenced
// by live instances.
func (g *Graph) MaterialCount() int { return g.materials.Len() }

// MaterialRefs returns the number of live geometry
// instances that use mat.
func (g *Graph) MaterialRefs(mat *material.Material) int { return g.materials.Count(mat) }

// GeometryCount returns the number of geometries of the
// distinct meshes referenced by live instances.
func (g *Graph) GeometryCount() int { return g.geometryCount }

// GeometryInstanceCount returns the number of geometries
// of all live instances as of the last Refresh.
func (g *Graph) GeometryInstanceCount() int { return g.geometryInstanceCount }

// HasPendingStructureChanges reports whether the
// structure changed since the last Refresh.
func (g *Graph) HasPendingStructureChanges() bool {
	return g.get(g.root).dirty&DirtySubgraphStructure != 0
}

// HasPendingTransformChanges reports whether a call to
// Refresh would update any transform.
func (g *Graph) HasPendingTransformChanges() bool {
	return g.get(g.root).dirty&(DirtySubgraphTransforms|DirtyPrevTransform|DirtySubgraphPrevTransforms) != 0
}

// ApplyAnimations applies every live animation at time t.
// It returns the number of animations that could not be
// fully applied.
func (g *Graph) ApplyAnimations(t float32) (failed int) {
	// Applying never changes the registry.
	for _, a := range g.animations {
		if !a.Apply(t) {
			failed++
		}
	}
	return
}

// Attach makes child a child of parent.
//
// If child is detached and has no parent, it is moved
// under parent. If parent is live, child and its subgraph
// become live. If parent is Nil, child replaces the root,
// and the old root is detached.
// If child is live, a copy of its subgraph is attached
// instead (see AttachFrom).
//
// It returns the attached node.
// It panics if child is detached but has a parent, if
// parent is detached while child is live, or if parent
// is in the subgraph of child.
func (g *Graph) Attach(parent, child Node) Node {
	c := g.get(child)
	if c.live {
		return g.AttachFrom(parent, g, child)
	}
	if c.parent != Nil {
		panic(prefix + "detached child already has a parent")
	}
	if parent != Nil {
		if g.isAncestor(child, parent) {
			panic(prefix + "attach would create a cycle")
		}
		if !g.get(parent).live {
			g.link(parent, child)
			g.propagate(parent, DirtySubgraphStructure|DirtySubgraphTransforms)
			return child
		}
	}
	flags := c.dirty & DirtySubgraphMask
	g.setLive(child, true)
	if parent == Nil {
		g.replaceRoot(child)
	} else {
		g.link(parent, child)
	}
	g.markAttached(child, flags)
	Logger().Debug("attached node", "graph", g.id.String(), "node", child, "parent", parent)
	return child
}

// AttachFrom copies the subgraph of child, which belongs
// to src, and attaches the copy under parent. If parent is
// Nil, the copy replaces the root of g.
// src may be g itself.
//
// Leaves are copied with Leaf.Clone. Animation targets,
// skin joints and skinned mesh references that point into
// the copied subgraph are redirected to the copies.
// References to nodes outside of it are kept if src is g,
// and reset to Nil otherwise.
//
// It returns the root of the copy.
// It panics if parent is not live.
func (g *Graph) AttachFrom(parent Node, src *Graph, child Node) Node {
	if parent != Nil && !g.get(parent).live {
		panic(prefix + "cannot copy a subgraph under a detached parent")
	}
	flags := src.get(child).dirty & DirtySubgraphMask

	// Collect the source nodes first so that copying
	// into the same graph never visits the copies.
	var order []Node
	var deltas []int
	for w := NewWalker(src, child); w.Valid(); {
		order = append(order, w.Node())
		deltas = append(deltas, w.Next(true))
	}

	nodeMap := make(map[Node]Node, len(order))
	var copyRoot Node
	current := parent
	for i, n := range order {
		s := *src.get(n)
		cp := g.NewNode(s.name)
		nodeMap[n] = cp
		d := g.get(cp)
		d.live = true
		d.dirty = s.dirty &^ DirtySubgraphMask
		d.leafContent = s.leafContent
		d.subgraphContent = s.subgraphContent
		if current == Nil {
			g.replaceRoot(cp)
		} else {
			g.link(current, cp)
		}
		if s.hasLocal {
			g.SetTransform(cp, &s.translation, &s.rotation, &s.scaling)
		}
		if s.leaf != nil {
			g.SetLeaf(cp, s.leaf.Clone())
		}
		if copyRoot == Nil {
			copyRoot = cp
		}
		switch dd := deltas[i]; {
		case dd > 0:
			current = cp
		default:
			for ; dd < 0; dd++ {
				g.ReverseChildren(current)
				current = g.get(current).parent
			}
		}
	}

	remap := func(n Node) Node {
		if m, ok := nodeMap[n]; ok {
			return m
		}
		if src == g {
			return n
		}
		return Nil
	}
	for w := NewWalker(g, copyRoot); w.Valid(); w.Next(true) {
		switch l := g.get(w.Node()).leaf.(type) {
		case *Animation:
			for _, c := range l.channels {
				if c.node != Nil {
					c.node = remap(c.node)
				}
			}
		case *SkinnedMeshInstance:
			for i := range l.Joints {
				l.Joints[i].Node = remap(l.Joints[i].Node)
			}
		case *SkinnedMeshReference:
			if m, ok := nodeMap[l.instance]; ok {
				l.instance = m
			} else {
				l.instance = Nil
			}
		}
	}

	g.markAttached(copyRoot, flags)
	Logger().Debug("attached copy", "graph", g.id.String(), "source", src.id.String(), "node", child, "copy", copyRoot, "parent", parent)
	return copyRoot
}

// AttachLeafNode creates a node that owns leaf and
// attaches it under parent.
// If leaf already has an owner, a clone of it is used.
// It returns the new node.
func (g *Graph) AttachLeafNode(parent Node, leaf Leaf) Node {
	if leaf.base().graph != nil {
		leaf = leaf.Clone()
	}
	n := g.NewNode("")
	g.SetLeaf(n, leaf)
	return g.Attach(parent, n)
}

// markAttached flags n so that the next Refresh recomputes
// its subgraph, and flags its ancestors.
func (g *Graph) markAttached(n Node, flags DirtyFlags) {
	g.get(n).dirty |= DirtyLocalTransform | DirtySubgraphContentUpdate
	g.propagate(n, DirtySubgraphStructure|DirtySubgraphTransforms|flags)
}

// replaceRoot makes n the root, detaching the old one.
func (g *Graph) replaceRoot(n Node) {
	old := g.root
	g.root = n
	if old != Nil && old != n {
		g.setLive(old, false)
		Logger().Debug("replaced root", "graph", g.id.String(), "old", old, "new", n)
	}
}

// Detach removes n from its parent.
// If n is live, it and its subgraph become detached and
// their leaves are unregistered. Detaching the root
// installs a new, empty root.
// The nodes stay valid and can be attached again.
// It returns n.
func (g *Graph) Detach(n Node) Node {
	d := g.get(n)
	live := d.live
	if live {
		g.setLive(n, false)
	}
	if p := g.get(n).parent; p != Nil {
		g.propagate(p, DirtySubgraphStructure)
		g.unlink(n)
	}
	if n == g.root {
		g.root = g.newRoot()
	}
	if live {
		Logger().Debug("detached node", "graph", g.id.String(), "node", n)
	}
	return n
}

// Destroy frees n and every node in its subgraph.
// Handles to them become stale. Leaves are released and
// have no owner afterwards.
// It panics if n is live.
func (g *Graph) Destroy(n Node) {
	d := g.get(n)
	if d.live {
		panic(prefix + "cannot destroy a live node")
	}
	if d.parent != Nil {
		g.unlink(n)
	}
	var doomed []Node
	for w := NewWalker(g, n); w.Valid(); w.Next(true) {
		doomed = append(doomed, w.Node())
	}
	for _, x := range doomed {
		v, _ := g.nodes.Remove(x.index(), x.gen())
		if v.leaf != nil {
			*v.leaf.base() = leafBase{}
		}
	}
}

// setLive marks the subgraph of n as live or detached,
// registering or unregistering leaves accordingly.
func (g *Graph) setLive(n Node, live bool) {
	for w := NewWalker(g, n); w.Valid(); w.Next(true) {
		d := g.get(w.Node())
		if d.live == live {
			continue
		}
		d.live = live
		if d.leaf == nil {
			continue
		}
		if live {
			g.register(d.leaf)
		} else {
			g.unregister(d.leaf)
		}
	}
}

func (g *Graph) register(leaf Leaf) {
	switch l := leaf.(type) {
	case *MeshInstance:
		g.registerMesh(l.mesh)
		g.meshInstances = append(g.meshInstances, l)
	case *SkinnedMeshInstance:
		g.registerMesh(l.mesh)
		g.meshInstances = append(g.meshInstances, &l.MeshInstance)
		g.skinnedMeshInstances = append(g.skinnedMeshInstances, l)
	case *Animation:
		g.animations = append(g.animations, l)
	case Camera:
		g.cameras = append(g.cameras, l)
	case Light:
		g.lights = append(g.lights, l)
	}
}

func (g *Graph) unregister(leaf Leaf) {
	switch l := leaf.(type) {
	case *MeshInstance:
		g.meshInstances = remove(g.meshInstances, l)
		g.unregisterMesh(l.mesh)
	case *SkinnedMeshInstance:
		g.meshInstances = remove(g.meshInstances, &l.MeshInstance)
		g.skinnedMeshInstances = remove(g.skinnedMeshInstances, l)
		g.unregisterMesh(l.mesh)
	case *Animation:
		g.animations = remove(g.animations, l)
	case Camera:
		g.cameras = remove(g.cameras, l)
	case Light:
		g.lights = remove(g.lights, l)
	}
}

func remove[S ~[]E, E comparable](s S, e E) S {
	if i := slices.Index(s, e); i >= 0 {
		return slices.Delete(s, i, i+1)
	}
	return s
}

func (g *Graph) registerMesh(m *mesh.Mesh) {
	if m == nil {
		return
	}
	if g.meshes.AddRef(m) {
		g.geometryCount += len(m.Geometries)
		if g.OnMeshAdded != nil {
			g.OnMeshAdded(m)
		}
	}
	for _, geom := range m.Geometries {
		if geom == nil {
			continue
		}
		if g.materials.AddRef(geom.Material) && g.OnMaterialAdded != nil {
			g.OnMaterialAdded(geom.Material)
		}
	}
	if m.SkinPrototype != nil && g.meshes.AddRef(m.SkinPrototype) {
		g.geometryCount += len(m.SkinPrototype.Geometries)
		if g.OnMeshAdded != nil {
			g.OnMeshAdded(m.SkinPrototype)
		}
	}
}

func (g *Graph) unregisterMesh(m *mesh.Mesh) {
	if m == nil {
		return
	}
	if g.meshes.Release(m) {
		g.geometryCount -= len(m.Geometries)
		if g.OnMeshRemoved != nil {
			g.OnMeshRemoved(m)
		}
	}
	for _, geom := range m.Geometries {
		if geom == nil {
			continue
		}
		if g.materials.Release(geom.Material) && g.OnMaterialRemoved != nil {
			g.OnMaterialRemoved(geom.Material)
		}
	}
	if m.SkinPrototype != nil && g.meshes.Release(m.SkinPrototype) {
		g.geometryCount -= len(m.SkinPrototype.Geometries)
		if g.OnMeshRemoved != nil {
			g.OnMeshRemoved(m.SkinPrototype)
		}
	}
}

// FindNode resolves a '/' separated path.
// Absolute paths start from the root; relative paths
// start from context. The components "." and ".." refer
// to the current node and to its parent.
// It returns Nil if no node matches, or if the path is
// relative and context is Nil.
// When siblings share a name, the first one is used.
func (g *Graph) FindNode(path string, context Node) Node {
	if strings.HasPrefix(path, "/") {
		context = g.root
	}
	if context == Nil {
		return Nil
	}
	cur := context
	for _, name := range strings.Split(path, "/") {
		switch name {
		case "", ".":
			continue
		case "..":
			cur = g.get(cur).parent
		default:
			next := Nil
			for c := range g.Children(cur) {
				if g.get(c).name == name {
					next = c
					break
				}
			}
			cur = next
		}
		if cur == Nil {
			return Nil
		}
	}
	return cur
}
