// Copyright 2023 Gustavo C. Viegas. All rights reserved.

// Package mesh defines the shared geometry resources
// referenced by mesh instances.
package mesh

import (
	"errors"
	"strconv"

	"github.com/jinzhu/copier"

	"github.com/gviegas/scenegraph/linear"
	"github.com/gviegas/scenegraph/material"
)

const prefix = "mesh: "

func newErr(reason string) error { return errors.New(prefix + reason) }

// Geometry is a range of a mesh's index/vertex data
// drawn with a single material.
type Geometry struct {
	Material           *material.Material
	ObjectSpaceBounds  linear.Box3
	IndexOffsetInMesh  int
	VertexOffsetInMesh int
	NumIndices         int
	NumVertices        int

	// GlobalGeometryIndex is assigned by the scene graph
	// whenever its structure changes.
	GlobalGeometryIndex int
}

// Mesh is a collection of geometries.
// Meshes are shared by any number of instances.
type Mesh struct {
	Name       string
	Geometries []*Geometry
	// ObjectSpaceBounds is the union of the geometries'
	// bounds. Call UpdateBounds after changing them.
	ObjectSpaceBounds linear.Box3
	// SkinPrototype is the mesh that a skinned copy
	// was made from. It is nil for other meshes.
	SkinPrototype *Mesh
	IndexOffset   int
	VertexOffset  int
	TotalIndices  int
	TotalVertices int

	// GlobalMeshIndex is assigned by the scene graph
	// whenever its structure changes.
	GlobalMeshIndex int
}

// New creates a new mesh from the given geometries.
// Offsets and totals are computed from the geometries'
// counts, in order.
func New(name string, geoms ...*Geometry) *Mesh {
	m := &Mesh{Name: name, Geometries: geoms}
	for _, g := range geoms {
		if g == nil {
			continue
		}
		g.IndexOffsetInMesh = m.TotalIndices
		g.VertexOffsetInMesh = m.TotalVertices
		m.TotalIndices += g.NumIndices
		m.TotalVertices += g.NumVertices
	}
	m.UpdateBounds()
	return m
}

// UpdateBounds recomputes m.ObjectSpaceBounds.
func (m *Mesh) UpdateBounds() {
	b := linear.EmptyBox()
	for _, g := range m.Geometries {
		if g == nil {
			continue
		}
		b = b.Union(g.ObjectSpaceBounds)
	}
	m.ObjectSpaceBounds = b
}

// Len returns the number of geometries in m.
func (m *Mesh) Len() int { return len(m.Geometries) }

// Check validates m.
func (m *Mesh) Check() error {
	if len(m.Geometries) == 0 {
		return newErr("no geometries in " + strconv.Quote(m.Name))
	}
	for i, g := range m.Geometries {
		is := strconv.Itoa(i)
		switch {
		case g == nil:
			return newErr("nil geometry at index " + is)
		case g.Material == nil:
			return newErr("nil material in geometry " + is)
		case g.NumIndices < 0 || g.NumVertices < 0:
			return newErr("negative count in geometry " + is)
		}
	}
	return nil
}

// NewSkinned creates a private copy of proto for use by
// a skinned instance.
// Geometries are copied, but materials remain shared.
// Global indices are not carried over.
func NewSkinned(proto *Mesh) *Mesh {
	m := *proto
	m.Geometries = make([]*Geometry, len(proto.Geometries))
	for i, g := range proto.Geometries {
		c := new(Geometry)
		if err := copier.Copy(c, g); err != nil {
			panic(prefix + err.Error())
		}
		// copier allocates a new value behind pointer fields.
		c.Material = g.Material
		c.GlobalGeometryIndex = 0
		m.Geometries[i] = c
	}
	m.SkinPrototype = proto
	m.GlobalMeshIndex = 0
	return &m
}
