// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package linear

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// Compose returns the matrix T ⋅ R ⋅ S.
func Compose(t mgl64.Vec3, r mgl64.Quat, s mgl64.Vec3) mgl64.Mat4 {
	m := r.Mat4()
	for i := range 3 {
		m[i*4] *= s[i]
		m[i*4+1] *= s[i]
		m[i*4+2] *= s[i]
	}
	m[12] = t[0]
	m[13] = t[1]
	m[14] = t[2]
	return m
}

// Decompose splits m into translation, rotation and scaling.
// m must be affine and free of shear.
func Decompose(m *mgl64.Mat4) (t mgl64.Vec3, r mgl64.Quat, s mgl64.Vec3) {
	t = mgl64.Vec3{m[12], m[13], m[14]}
	var rot mgl64.Mat4
	for i := range 3 {
		c := m.Col(i).Vec3()
		s[i] = c.Len()
		if s[i] != 0 {
			c = c.Mul(1 / s[i])
		}
		rot[i*4] = c[0]
		rot[i*4+1] = c[1]
		rot[i*4+2] = c[2]
	}
	if m.Mat3().Det() < 0 {
		s[0] = -s[0]
		rot[0], rot[1], rot[2] = -rot[0], -rot[1], -rot[2]
	}
	rot[15] = 1
	r = mgl64.Mat4ToQuat(rot).Normalize()
	return
}

// Float converts m to single precision.
func Float(m *mgl64.Mat4) (f mgl32.Mat4) {
	for i := range m {
		f[i] = float32(m[i])
	}
	return
}

// Double converts m to double precision.
func Double(m *mgl32.Mat4) (d mgl64.Mat4) {
	for i := range m {
		d[i] = float64(m[i])
	}
	return
}

// Vec3Double converts v to double precision.
func Vec3Double(v mgl32.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{float64(v[0]), float64(v[1]), float64(v[2])}
}

// QuatDouble converts q to double precision.
func QuatDouble(q mgl32.Quat) mgl64.Quat {
	return mgl64.Quat{W: float64(q.W), V: Vec3Double(q.V)}
}
