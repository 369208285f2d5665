// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package linear

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

func TestBox(t *testing.T) {
	e := EmptyBox()
	if !e.IsEmpty() {
		t.Fatalf("EmptyBox().IsEmpty\nhave false\nwant true")
	}
	b := NewBox(mgl64.Vec3{1, -1, 0}, mgl64.Vec3{-1, 1, 2})
	if want := (Box3{mgl64.Vec3{-1, -1, 0}, mgl64.Vec3{1, 1, 2}}); b != want {
		t.Fatalf("NewBox\nhave %v\nwant %v", b, want)
	}
	if u := e.Union(b); u != b {
		t.Fatalf("Box3.Union (empty)\nhave %v\nwant %v", u, b)
	}
	if u := b.Union(e); u != b {
		t.Fatalf("Box3.Union (empty)\nhave %v\nwant %v", u, b)
	}
	c := NewBox(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{3, 0.5, 1})
	u := b.Union(c)
	if want := (Box3{mgl64.Vec3{-1, -1, 0}, mgl64.Vec3{3, 1, 2}}); u != want {
		t.Fatalf("Box3.Union\nhave %v\nwant %v", u, want)
	}
	if !u.Contains(b) || !u.Contains(c) || !u.Contains(e) {
		t.Fatalf("Box3.Contains\nhave false\nwant true")
	}
	if b.Contains(c) || e.Contains(b) {
		t.Fatalf("Box3.Contains\nhave true\nwant false")
	}
	if x := u.Center(); x != (mgl64.Vec3{1, 0, 1}) {
		t.Fatalf("Box3.Center\nhave %v\nwant [1 0 1]", x)
	}
	if x := u.Extent(); x != (mgl64.Vec3{4, 2, 2}) {
		t.Fatalf("Box3.Extent\nhave %v\nwant [4 2 2]", x)
	}
	if x := e.Extent(); x != (mgl64.Vec3{}) {
		t.Fatalf("Box3.Extent (empty)\nhave %v\nwant [0 0 0]", x)
	}
}

func TestBoxTransform(t *testing.T) {
	b := NewBox(mgl64.Vec3{-1, -1, -1}, mgl64.Vec3{1, 1, 1})

	m := mgl64.Translate3D(10, 0, -5)
	want := NewBox(mgl64.Vec3{9, -1, -6}, mgl64.Vec3{11, 1, -4})
	if x := b.Transform(&m); x != want {
		t.Fatalf("Box3.Transform (translation)\nhave %v\nwant %v", x, want)
	}

	m = mgl64.Scale3D(2, -3, 1)
	want = NewBox(mgl64.Vec3{-2, -3, -1}, mgl64.Vec3{2, 3, 1})
	if x := b.Transform(&m); x != want {
		t.Fatalf("Box3.Transform (scale)\nhave %v\nwant %v", x, want)
	}

	m = mgl64.HomogRotate3DZ(math.Pi / 4)
	s := math.Sqrt2
	want = NewBox(mgl64.Vec3{-s, -s, -1}, mgl64.Vec3{s, s, 1})
	if x := b.Transform(&m); !x.ApproxEqual(want, 1e-12) {
		t.Fatalf("Box3.Transform (rotation)\nhave %v\nwant %v", x, want)
	}

	e := EmptyBox()
	if x := e.Transform(&m); !x.IsEmpty() {
		t.Fatalf("Box3.Transform (empty)\nhave %v\nwant empty", x)
	}
}

func TestCompose(t *testing.T) {
	tr := mgl64.Vec3{-1, -2, -3}
	r := mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 0, 1})
	s := mgl64.Vec3{5, 5, 5}

	m := Compose(tr, r, s)
	want := mgl64.Translate3D(-1, -2, -3).Mul4(r.Mat4()).Mul4(mgl64.Scale3D(5, 5, 5))
	if !m.ApproxEqualThreshold(want, 1e-12) {
		t.Fatalf("Compose\nhave %v\nwant %v", m, want)
	}
	v := m.Mul4x1(mgl64.Vec4{1, 0, 0, 1})
	if !v.ApproxEqualThreshold(mgl64.Vec4{-1, 3, -3, 1}, 1e-12) {
		t.Fatalf("Compose ⋅ v\nhave %v\nwant [-1 3 -3 1]", v)
	}

	if m := Compose(mgl64.Vec3{}, mgl64.QuatIdent(), mgl64.Vec3{1, 1, 1}); m != mgl64.Ident4() {
		t.Fatalf("Compose (identity)\nhave %v\nwant %v", m, mgl64.Ident4())
	}
}

func TestDecompose(t *testing.T) {
	tr := mgl64.Vec3{4, 5, 6}
	r := mgl64.QuatRotate(1, mgl64.Vec3{1, 1, 0}.Normalize())
	s := mgl64.Vec3{2, 3, 0.5}
	m := Compose(tr, r, s)

	tr1, r1, s1 := Decompose(&m)
	if !tr1.ApproxEqual(tr) {
		t.Fatalf("Decompose: T\nhave %v\nwant %v", tr1, tr)
	}
	if !r1.OrientationEqualThreshold(r, 1e-9) {
		t.Fatalf("Decompose: R\nhave %v\nwant %v", r1, r)
	}
	if !s1.ApproxEqualThreshold(s, 1e-9) {
		t.Fatalf("Decompose: S\nhave %v\nwant %v", s1, s)
	}
}

func TestConversion(t *testing.T) {
	m := Compose(mgl64.Vec3{1, 2, 3}, mgl64.QuatIdent(), mgl64.Vec3{0.5, 0.25, 2})
	f := Float(&m)
	if d := Double(&f); d != m {
		t.Fatalf("Double(Float(m))\nhave %v\nwant %v", d, m)
	}
	q := mgl64.Quat{W: 0.5, V: mgl64.Vec3{0.5, -0.5, 0.5}}
	if x := QuatDouble(mgl32.Quat{W: 0.5, V: mgl32.Vec3{0.5, -0.5, 0.5}}); x != q {
		t.Fatalf("QuatDouble\nhave %v\nwant %v", x, q)
	}
	if v := Vec3Double(mgl32.Vec3{1, 0.25, -2}); v != (mgl64.Vec3{1, 0.25, -2}) {
		t.Fatalf("Vec3Double\nhave %v\nwant [1 0.25 -2]", v)
	}
}
