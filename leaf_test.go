// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package scenegraph

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gviegas/scenegraph/material"
)

func TestNewLeaf(t *testing.T) {
	for _, x := range [...]struct {
		name string
		want ContentFlags
	}{
		{"DirectionalLight", ContentLights},
		{"PointLight", ContentLights},
		{"SpotLight", ContentLights},
		{"PerspectiveCamera", ContentCameras},
		{"OrthographicCamera", ContentCameras},
	} {
		l := NewLeaf(x.name)
		require.NotNil(t, l, x.name)
		assert.Equal(t, x.want, l.ContentFlags(), x.name)
		assert.Equal(t, Nil, l.Node())
		assert.True(t, l.LocalBoundingBox().IsEmpty())
	}
	assert.Nil(t, NewLeaf("MeshInstance"))
	assert.Nil(t, NewLeaf(""))
}

func TestLightProperties(t *testing.T) {
	v := mgl32.Vec4{0.5, 0.25, 0.125, 1}

	d := NewDirectionalLight()
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, d.Color)
	assert.True(t, d.SetProperty("color", v))
	assert.Equal(t, mgl32.Vec3{0.5, 0.25, 0.125}, d.Color)
	assert.True(t, d.SetProperty("irradiance", v))
	assert.True(t, d.SetProperty("angularSize", v))
	assert.Equal(t, float32(0.5), d.Irradiance)
	assert.Equal(t, float32(0.5), d.AngularSize)
	assert.False(t, d.SetProperty("intensity", v))

	p := NewPointLight()
	for _, s := range []string{"color", "intensity", "radius", "range"} {
		assert.True(t, p.SetProperty(s, v), s)
	}
	assert.Equal(t, float32(0.5), p.Range)
	assert.False(t, p.SetProperty("innerAngle", v))

	s := NewSpotLight()
	for _, name := range []string{"color", "intensity", "radius", "range", "innerAngle", "outerAngle"} {
		assert.True(t, s.SetProperty(name, v), name)
	}
	assert.False(t, s.SetProperty("irradiance", v))
	assert.False(t, NewPerspectiveCamera().SetProperty("zNear", v))
}

func TestSpotLightCone(t *testing.T) {
	s := NewSpotLight()
	inner, outer := s.ConeAngles()
	assert.InDelta(t, math32.Pi/2, inner, 1e-5)
	assert.InDelta(t, math32.Pi/2, outer, 1e-5)
	assert.Less(t, inner, outer)

	s.InnerAngle = 30
	s.OuterAngle = 60
	inner, outer = s.ConeAngles()
	assert.InDelta(t, mgl32.DegToRad(15), inner, 1e-6)
	assert.InDelta(t, mgl32.DegToRad(30), outer, 1e-6)
	scale, offset := s.AngularScaleOffset()
	// The attenuation is 1 at the inner cone and 0 at
	// the outer cone.
	assert.InDelta(t, 1, math32.Cos(inner)*scale+offset, 1e-4)
	assert.InDelta(t, 0, math32.Cos(outer)*scale+offset, 1e-4)

	s.InnerAngle = 90
	s.OuterAngle = 10
	inner, outer = s.ConeAngles()
	assert.Less(t, inner, outer)
}

func TestMeshInstanceProperties(t *testing.T) {
	msh := newTestMesh("single", material.Opaque)
	inst := NewMeshInstance(msh)
	assert.True(t, inst.SetProperty("metalness", mgl32.Vec4{0.75}))
	assert.Equal(t, float32(0.75), msh.Geometries[0].Material.Metalness)
	assert.False(t, inst.SetProperty("noSuchProperty", mgl32.Vec4{}))
	assert.Equal(t, ContentOpaqueMeshes, inst.ContentFlags())
	assert.Equal(t, msh.ObjectSpaceBounds, inst.LocalBoundingBox())

	multi := NewMeshInstance(newTestMesh("multi", material.Opaque, material.AlphaTested, material.AlphaBlended))
	assert.False(t, multi.SetProperty("metalness", mgl32.Vec4{1}))
	assert.Equal(t, ContentOpaqueMeshes|ContentAlphaTestedMeshes|ContentBlendedMeshes, multi.ContentFlags())

	empty := NewMeshInstance(nil)
	assert.Equal(t, ContentNone, empty.ContentFlags())
	assert.True(t, empty.LocalBoundingBox().IsEmpty())
	assert.False(t, empty.SetProperty("metalness", mgl32.Vec4{1}))
}

func TestCameraJSON(t *testing.T) {
	p := NewPerspectiveCamera()
	zfar := float32(100)
	p.ZFar = &zfar
	p.VerticalFOV = 0.8
	data, err := p.Store()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"type":"PerspectiveCamera"`)
	assert.NotContains(t, string(data), "aspectRatio")

	q := NewLeaf("PerspectiveCamera").(*PerspectiveCamera)
	require.NoError(t, q.Load(data))
	assert.Equal(t, p.ZNear, q.ZNear)
	assert.Equal(t, p.VerticalFOV, q.VerticalFOV)
	require.NotNil(t, q.ZFar)
	assert.Equal(t, zfar, *q.ZFar)
	assert.Nil(t, q.AspectRatio)

	err = q.Load([]byte("{"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), prefix)

	o := NewOrthographicCamera()
	require.NoError(t, o.Load([]byte(`{"xMag": 4, "zFar": 50}`)))
	assert.Equal(t, float32(4), o.XMag)
	assert.Equal(t, float32(1), o.YMag, "absent properties must be kept")
	assert.Equal(t, float32(50), o.ZFar)
	data, err = o.Store()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"OrthographicCamera","zNear":0,"zFar":50,"xMag":4,"yMag":1}`, string(data))
}

func TestLightJSON(t *testing.T) {
	s := NewSpotLight()
	s.Color = mgl32.Vec3{1, 0, 0}
	s.Range = 20
	s.InnerAngle = 30
	data, err := s.Store()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"SpotLight","color":[1,0,0],"intensity":1,"radius":0,"range":20,"innerAngle":30,"outerAngle":180}`, string(data))

	c := NewSpotLight()
	require.NoError(t, c.Load(data))
	assert.Equal(t, s.Color, c.Color)
	assert.Equal(t, s.Range, c.Range)
	assert.Equal(t, s.InnerAngle, c.InnerAngle)

	d := NewDirectionalLight()
	require.NoError(t, d.Load([]byte(`{"irradiance": 3}`)))
	assert.Equal(t, float32(3), d.Irradiance)
	assert.Equal(t, mgl32.Vec3{1, 1, 1}, d.Color)

	p := NewPointLight()
	data, err = p.Store()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"type":"PointLight"`)
}

func TestLeafClone(t *testing.T) {
	g := New(nil)
	p := NewPerspectiveCamera()
	aspect := float32(1.5)
	p.AspectRatio = &aspect
	g.AttachLeafNode(g.Root(), p)
	require.NotEqual(t, Nil, p.Node())

	c := p.Clone().(*PerspectiveCamera)
	assert.Equal(t, Nil, c.Node())
	assert.Nil(t, c.Graph())
	require.NotNil(t, c.AspectRatio)
	assert.Equal(t, aspect, *c.AspectRatio)
	assert.NotSame(t, p.AspectRatio, c.AspectRatio)

	l := NewPointLight()
	l.Color = mgl32.Vec3{0, 1, 0}
	l.Intensity = 7
	g.AttachLeafNode(g.Root(), l)
	cl := l.Clone().(*PointLight)
	assert.Equal(t, Nil, cl.Node())
	assert.Equal(t, l.Color, cl.Color)
	assert.Equal(t, l.Intensity, cl.Intensity)
	cl.Intensity = 1
	assert.Equal(t, float32(7), l.Intensity)
}

func TestCameraTransforms(t *testing.T) {
	g := New(nil)
	cam := NewPerspectiveCamera()
	assert.Equal(t, mgl32.Ident4(), cam.ViewToWorld())

	n := g.AttachLeafNode(g.Root(), cam)
	g.SetTranslation(n, mgl64.Vec3{0, 0, 5})
	g.Refresh(0)

	// View space +Z is the owner's -Z.
	p := cam.ViewToWorld().Mul4x1(mgl32.Vec4{0, 0, 1, 1})
	assert.True(t, p.ApproxEqualThreshold(mgl32.Vec4{0, 0, 4, 1}, 1e-5), "%v", p)
	q := cam.WorldToView().Mul4x1(mgl32.Vec4{0, 0, 4, 1})
	assert.True(t, q.ApproxEqualThreshold(mgl32.Vec4{0, 0, 1, 1}, 1e-5), "%v", q)
	id := cam.WorldToView().Mul4(cam.ViewToWorld())
	assert.True(t, id.ApproxEqualThreshold(mgl32.Ident4(), 1e-5))
}

func TestLightTransforms(t *testing.T) {
	g := New(nil)
	parent := g.Attach(g.Root(), g.NewNode("parent"))
	g.SetTranslation(parent, mgl64.Vec3{10, 0, 0})
	l := NewSpotLight()
	n := g.AttachLeafNode(parent, l)
	g.Refresh(0)

	assert.True(t, l.Position().ApproxEqualThreshold(mgl64.Vec3{10, 0, 0}, eps))
	assert.True(t, l.Direction().ApproxEqualThreshold(mgl64.Vec3{0, 0, -1}, eps))

	l.SetPosition(mgl64.Vec3{1, 2, 3})
	assert.True(t, g.Translation(n).ApproxEqualThreshold(mgl64.Vec3{-9, 2, 3}, eps))
	l.SetDirection(mgl64.Vec3{1, 0, 0})
	g.Refresh(1)
	assert.True(t, l.Position().ApproxEqualThreshold(mgl64.Vec3{1, 2, 3}, 1e-6), "%v", l.Position())
	assert.True(t, l.Direction().ApproxEqualThreshold(mgl64.Vec3{1, 0, 0}, 1e-6), "%v", l.Direction())
	assert.True(t, g.Scaling(n).ApproxEqualThreshold(mgl64.Vec3{1, 1, 1}, 1e-6))

	assert.Panics(t, func() { NewPointLight().Position() })
}
