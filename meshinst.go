// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package scenegraph

import (
	"slices"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/gviegas/scenegraph/linear"
	"github.com/gviegas/scenegraph/material"
	"github.com/gviegas/scenegraph/mesh"
)

// MeshInstance is a leaf that places a mesh in the graph.
type MeshInstance struct {
	leafBase
	mesh *mesh.Mesh

	// InstanceIndex is the position of the instance in
	// Graph.MeshInstances.
	// It is assigned by Refresh after structure changes.
	InstanceIndex int
	// GeometryInstanceIndex is the index of the first
	// geometry of the instance among all geometries of
	// all instances.
	// It is assigned by Refresh after structure changes.
	GeometryInstanceIndex int
}

// NewMeshInstance creates a new instance of m.
func NewMeshInstance(m *mesh.Mesh) *MeshInstance {
	return &MeshInstance{mesh: m, InstanceIndex: -1, GeometryInstanceIndex: -1}
}

// Mesh returns the instanced mesh.
func (l *MeshInstance) Mesh() *mesh.Mesh { return l.mesh }

// LocalBoundingBox implements Leaf.
func (l *MeshInstance) LocalBoundingBox() linear.Box3 {
	if l.mesh == nil {
		return linear.EmptyBox()
	}
	return l.mesh.ObjectSpaceBounds
}

// ContentFlags implements Leaf.
func (l *MeshInstance) ContentFlags() ContentFlags {
	if l.mesh == nil {
		return ContentNone
	}
	var f ContentFlags
	for _, geom := range l.mesh.Geometries {
		if geom == nil || geom.Material == nil {
			continue
		}
		switch geom.Material.Domain {
		case material.Opaque:
			f |= ContentOpaqueMeshes
		case material.AlphaTested:
			f |= ContentAlphaTestedMeshes
		default:
			f |= ContentBlendedMeshes
		}
	}
	return f
}

// Clone implements Leaf.
func (l *MeshInstance) Clone() Leaf { return NewMeshInstance(l.mesh) }

// SetProperty implements Leaf.
// It forwards to the material of the mesh, provided that
// the mesh has a single geometry.
func (l *MeshInstance) SetProperty(name string, v mgl32.Vec4) bool {
	if l.mesh == nil || len(l.mesh.Geometries) != 1 {
		return false
	}
	mat := l.mesh.Geometries[0].Material
	if mat == nil {
		return false
	}
	return mat.SetProperty(name, v)
}

// SkinnedMeshJoint is a joint of a SkinnedMeshInstance.
type SkinnedMeshJoint struct {
	Node        Node
	InverseBind mgl32.Mat4
}

// SkinnedMeshInstance is a leaf that places a skinned
// mesh in the graph.
// It owns a copy of its prototype mesh that is meant to
// receive the skinned vertices.
type SkinnedMeshInstance struct {
	MeshInstance
	prototype *mesh.Mesh

	Joints []SkinnedMeshJoint
	// LastUpdateFrameIndex is the frame index of the last
	// Refresh that moved a joint of the instance.
	// It is only updated for joints that carry a
	// SkinnedMeshReference leaf.
	LastUpdateFrameIndex uint32
}

// NewSkinnedMeshInstance creates a new skinned instance of
// proto.
func NewSkinnedMeshInstance(proto *mesh.Mesh) *SkinnedMeshInstance {
	return &SkinnedMeshInstance{
		MeshInstance: *NewMeshInstance(mesh.NewSkinned(proto)),
		prototype:    proto,
	}
}

// Prototype returns the mesh that the instance was made
// from.
func (l *SkinnedMeshInstance) Prototype() *mesh.Mesh { return l.prototype }

// Clone implements Leaf.
// The clone has its own skinned mesh. Its joints refer to
// the same nodes.
func (l *SkinnedMeshInstance) Clone() Leaf {
	c := NewSkinnedMeshInstance(l.prototype)
	c.Joints = slices.Clone(l.Joints)
	return c
}

// SkinnedMeshReference is a leaf placed on joint nodes.
// It refers to the node that carries the skinned instance,
// and allows Refresh to tell the instance that a joint
// moved.
type SkinnedMeshReference struct {
	leafBase
	instance Node
}

// NewSkinnedMeshReference creates a reference to the
// SkinnedMeshInstance owned by instance.
func NewSkinnedMeshReference(instance Node) *SkinnedMeshReference {
	return &SkinnedMeshReference{instance: instance}
}

// InstanceNode returns the referenced node.
func (l *SkinnedMeshReference) InstanceNode() Node { return l.instance }

// Instance returns the referenced skinned instance.
// It returns nil if the reference has no owner, if the
// referenced node was destroyed or if it no longer owns
// a skinned instance.
func (l *SkinnedMeshReference) Instance() *SkinnedMeshInstance {
	if l.Node() == Nil || !l.graph.Valid(l.instance) {
		return nil
	}
	inst, _ := l.graph.get(l.instance).leaf.(*SkinnedMeshInstance)
	return inst
}

// Clone implements Leaf.
func (l *SkinnedMeshReference) Clone() Leaf { return NewSkinnedMeshReference(l.instance) }
