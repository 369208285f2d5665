// Copyright 2023 Gustavo C. Viegas. All rights reserved.

// Package linear provides bounding volumes and affine
// helpers on top of mathgl.
package linear

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Box3 is an axis-aligned bounding box.
// A box whose Min exceeds its Max in any axis is empty.
type Box3 struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// EmptyBox returns a box that contains nothing.
func EmptyBox() Box3 {
	inf := math.Inf(1)
	return Box3{
		Min: mgl64.Vec3{inf, inf, inf},
		Max: mgl64.Vec3{-inf, -inf, -inf},
	}
}

// NewBox returns the box spanning a and b.
func NewBox(a, b mgl64.Vec3) Box3 {
	return EmptyBox().AddPoint(a).AddPoint(b)
}

// IsEmpty reports whether b contains no points.
func (b Box3) IsEmpty() bool {
	return b.Min[0] > b.Max[0] || b.Min[1] > b.Max[1] || b.Min[2] > b.Max[2]
}

// Union returns the smallest box containing both b and c.
func (b Box3) Union(c Box3) Box3 {
	switch {
	case c.IsEmpty():
		return b
	case b.IsEmpty():
		return c
	}
	for i := range 3 {
		b.Min[i] = min(b.Min[i], c.Min[i])
		b.Max[i] = max(b.Max[i], c.Max[i])
	}
	return b
}

// AddPoint returns b grown to contain p.
func (b Box3) AddPoint(p mgl64.Vec3) Box3 {
	for i := range 3 {
		b.Min[i] = min(b.Min[i], p[i])
		b.Max[i] = max(b.Max[i], p[i])
	}
	return b
}

// Transform returns the box containing b transformed by m.
// m must be affine.
func (b Box3) Transform(m *mgl64.Mat4) Box3 {
	if b.IsEmpty() {
		return b
	}
	var r Box3
	for i := range 3 {
		r.Min[i] = m[12+i]
		r.Max[i] = m[12+i]
		for j := range 3 {
			e := m[j*4+i]
			p := e * b.Min[j]
			q := e * b.Max[j]
			if p > q {
				p, q = q, p
			}
			r.Min[i] += p
			r.Max[i] += q
		}
	}
	return r
}

// Contains reports whether c lies inside b.
// The empty box is contained by any box.
func (b Box3) Contains(c Box3) bool {
	if c.IsEmpty() {
		return true
	}
	if b.IsEmpty() {
		return false
	}
	for i := range 3 {
		if c.Min[i] < b.Min[i] || c.Max[i] > b.Max[i] {
			return false
		}
	}
	return true
}

// Center returns the center of b.
func (b Box3) Center() mgl64.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Extent returns the size of b in each axis.
func (b Box3) Extent() mgl64.Vec3 {
	if b.IsEmpty() {
		return mgl64.Vec3{}
	}
	return b.Max.Sub(b.Min)
}

// ApproxEqual compares b and c component-wise using eps.
// Two empty boxes are always equal.
func (b Box3) ApproxEqual(c Box3, eps float64) bool {
	if b.IsEmpty() || c.IsEmpty() {
		return b.IsEmpty() == c.IsEmpty()
	}
	return b.Min.ApproxEqualThreshold(c.Min, eps) && b.Max.ApproxEqualThreshold(c.Max, eps)
}
