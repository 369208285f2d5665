// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package scenegraph

import (
	"github.com/gviegas/scenegraph/linear"
)

// refreshContext is the state inherited from ancestors
// during Refresh.
type refreshContext struct {
	transformUpdated bool
	contentUpdated   bool
	// Whether the parent's own local transform changed.
	parentMoved bool
}

// Refresh brings the live nodes of g up to date.
//
// It recomputes the local and global transforms of nodes
// whose transforms changed, saving the previous ones, and
// recomputes the bounding boxes and content flags of the
// affected subgraphs. Subgraphs with nothing pending are
// skipped.
// If the structure changed, the indices of mesh instances,
// geometries, meshes and materials are reassigned.
//
// frameIndex is recorded in the skinned mesh instances
// whose joints moved.
func (g *Graph) Refresh(frameIndex uint32) {
	structureChanged := g.HasPendingStructureChanges()

	var (
		ctx     refreshContext
		stack   []refreshContext
		visited int
	)
	for w := NewWalker(g, g.root); w.Valid(); {
		cur := w.Node()
		d := g.get(cur)
		visited++

		d.prevLocal = d.local
		d.prevGlobal = d.global
		d.prevGlobalFloat = d.globalFloat

		transformUpdated := d.dirty&DirtyLocalTransform != 0
		contentUpdated := d.dirty&DirtySubgraphContentUpdate != 0
		if transformUpdated {
			d.local = linear.Compose(d.translation, d.rotation, d.scaling)
		}
		if d.parent != Nil {
			p := g.get(d.parent)
			if d.hasLocal {
				d.global = p.global.Mul4(d.local)
			} else {
				d.global = p.global
			}
		} else {
			d.global = d.local
		}
		d.globalFloat = linear.Float(&d.global)

		if ctx.transformUpdated || d.dirty&(DirtySubgraphStructure|DirtySubgraphTransforms) != 0 {
			d.bbox = linear.EmptyBox()
			if d.leaf != nil {
				if b := d.leaf.LocalBoundingBox(); !b.IsEmpty() {
					d.bbox = b.Transform(&d.global)
				}
			}
		}

		if ctx.contentUpdated || d.dirty&(DirtySubgraphStructure|DirtySubgraphContentUpdate) != 0 {
			d.leafContent = ContentNone
			if d.leaf != nil {
				d.leafContent = d.leaf.ContentFlags()
			}
			d.subgraphContent = d.leafContent
		}

		// A reference on a node without a transform of its own
		// follows the joint that is its parent.
		if transformUpdated || (ctx.parentMoved && !d.hasLocal) {
			if ref, ok := d.leaf.(*SkinnedMeshReference); ok {
				if inst := ref.Instance(); inst != nil {
					inst.LastUpdateFrameIndex = frameIndex
				}
			}
		}

		descend := ctx.transformUpdated || ctx.contentUpdated ||
			d.dirty&(DirtySubgraphMask|DirtyPrevTransform) != 0
		delta := w.Next(descend)

		if transformUpdated || ctx.transformUpdated {
			d.dirty = DirtyPrevTransform
		} else {
			d.dirty = DirtyNone
		}

		if delta > 0 {
			stack = append(stack, ctx)
			ctx.transformUpdated = ctx.transformUpdated || transformUpdated
			ctx.contentUpdated = ctx.contentUpdated || contentUpdated
			ctx.parentMoved = transformUpdated
			continue
		}

		parent := d.parent
		if parent != Nil {
			fold(g.get(parent), d)
		}
		for ; delta < 0; delta++ {
			if len(stack) == 0 {
				ctx = refreshContext{}
				break
			}
			ctx = stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			d = g.get(parent)
			parent = d.parent
			if parent != Nil {
				fold(g.get(parent), d)
			}
		}
	}

	if structureChanged {
		g.assignIndices()
	}
	Logger().Debug("refreshed graph", "graph", g.id.String(), "frame", frameIndex, "visited", visited, "structureChanged", structureChanged)
}

// fold merges the state of child c into its parent p.
// A child whose previous transform is pending makes the
// parent descend on the next Refresh, unless the parent
// itself will.
func fold(p, c *node) {
	p.bbox = p.bbox.Union(c.bbox)
	if c.dirty&DirtyPrevTransform != 0 && p.dirty&DirtyPrevTransform == 0 {
		p.dirty |= DirtySubgraphPrevTransforms
	}
	p.dirty |= c.dirty & DirtySubgraphMask
	p.subgraphContent |= c.subgraphContent
}

// assignIndices numbers the registered instances, meshes,
// geometries and materials.
func (g *Graph) assignIndices() {
	n := 0
	for i, inst := range g.meshInstances {
		inst.InstanceIndex = i
		inst.GeometryInstanceIndex = n
		if inst.mesh != nil {
			n += len(inst.mesh.Geometries)
		}
	}
	g.geometryInstanceCount = n

	geomIndex := 0
	meshIndex := 0
	for m := range g.meshes.All() {
		m.GlobalMeshIndex = meshIndex
		meshIndex++
		for _, geom := range m.Geometries {
			if geom == nil {
				continue
			}
			geom.GlobalGeometryIndex = geomIndex
			geomIndex++
		}
	}

	matIndex := 0
	for mat := range g.materials.All() {
		mat.MaterialID = matIndex
		matIndex++
	}
}
