// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package mesh

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/gviegas/scenegraph/linear"
	"github.com/gviegas/scenegraph/material"
)

func newGeometry(mat *material.Material, lo, hi float64, ni, nv int) *Geometry {
	return &Geometry{
		Material:          mat,
		ObjectSpaceBounds: linear.NewBox(mgl64.Vec3{lo, lo, lo}, mgl64.Vec3{hi, hi, hi}),
		NumIndices:        ni,
		NumVertices:       nv,
	}
}

func TestNew(t *testing.T) {
	mat := material.New("mat")
	m := New("m", newGeometry(mat, -1, 0, 6, 4), newGeometry(mat, 0, 2, 36, 24))
	if n := m.Len(); n != 2 {
		t.Fatalf("Mesh.Len:\nhave %d\nwant 2", n)
	}
	if m.TotalIndices != 42 || m.TotalVertices != 28 {
		t.Fatalf("Mesh totals:\nhave %d, %d\nwant 42, 28", m.TotalIndices, m.TotalVertices)
	}
	if g := m.Geometries[1]; g.IndexOffsetInMesh != 6 || g.VertexOffsetInMesh != 4 {
		t.Fatalf("Geometry offsets:\nhave %d, %d\nwant 6, 4", g.IndexOffsetInMesh, g.VertexOffsetInMesh)
	}
	want := linear.NewBox(mgl64.Vec3{-1, -1, -1}, mgl64.Vec3{2, 2, 2})
	if m.ObjectSpaceBounds != want {
		t.Fatalf("Mesh.ObjectSpaceBounds:\nhave %v\nwant %v", m.ObjectSpaceBounds, want)
	}
	if err := m.Check(); err != nil {
		t.Fatalf("Mesh.Check:\nhave %v\nwant nil", err)
	}
}

func TestCheck(t *testing.T) {
	for _, m := range [...]*Mesh{
		New("empty"),
		New("nil geometry", nil),
		New("nil material", &Geometry{}),
		{Name: "negative", Geometries: []*Geometry{{Material: material.New(""), NumIndices: -1}}},
	} {
		if err := m.Check(); err == nil {
			t.Fatalf("Mesh.Check(%s):\nhave nil\nwant error", m.Name)
		}
	}
}

func TestNewSkinned(t *testing.T) {
	mat := material.New("mat")
	proto := New("proto", newGeometry(mat, -1, 1, 3, 3))
	proto.GlobalMeshIndex = 7
	proto.Geometries[0].GlobalGeometryIndex = 9

	m := NewSkinned(proto)
	if m == proto || m.SkinPrototype != proto {
		t.Fatal("NewSkinned: mesh not copied")
	}
	if m.Name != proto.Name || m.TotalIndices != 3 || m.ObjectSpaceBounds != proto.ObjectSpaceBounds {
		t.Fatalf("NewSkinned:\nhave %+v\nwant %+v", m, proto)
	}
	if m.GlobalMeshIndex != 0 {
		t.Fatalf("NewSkinned: GlobalMeshIndex\nhave %d\nwant 0", m.GlobalMeshIndex)
	}
	g, pg := m.Geometries[0], proto.Geometries[0]
	if g == pg {
		t.Fatal("NewSkinned: geometry not copied")
	}
	if g.Material != mat {
		t.Fatal("NewSkinned: material not shared")
	}
	if g.NumIndices != pg.NumIndices || g.ObjectSpaceBounds != pg.ObjectSpaceBounds || g.GlobalGeometryIndex != 0 {
		t.Fatalf("NewSkinned: geometry\nhave %+v\nwant %+v", g, pg)
	}
	g.NumIndices = 100
	if pg.NumIndices != 3 {
		t.Fatal("NewSkinned: geometry aliased")
	}
}
