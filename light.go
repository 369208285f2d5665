// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package scenegraph

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/gviegas/scenegraph/linear"
)

// Light is a leaf that emits light.
// Lights shine down the negative Z axis of their owner.
type Light interface {
	Leaf
	// Position returns the world space position of the
	// light as of the last Refresh.
	Position() mgl64.Vec3
	// Direction returns the world space direction of the
	// light as of the last Refresh.
	Direction() mgl64.Vec3
	// SetPosition moves the owner of the light so that
	// it ends up at the given world space position.
	SetPosition(p mgl64.Vec3)
	// SetDirection rotates the owner of the light so that
	// it faces the given world space direction.
	SetDirection(d mgl64.Vec3)

	light()
}

type lightBase struct {
	leafBase
	Color mgl32.Vec3 `json:"color"`
}

func (*lightBase) light() {}

func (*lightBase) ContentFlags() ContentFlags { return ContentLights }

func (l *lightBase) owner() *node {
	if l.Node() == Nil {
		panic(prefix + "light has no owner")
	}
	return l.graph.get(l.node)
}

func (l *lightBase) Position() mgl64.Vec3 { return l.owner().global.Col(3).Vec3() }

func (l *lightBase) Direction() mgl64.Vec3 {
	return l.owner().global.Col(2).Vec3().Normalize().Mul(-1)
}

// parentGlobal returns the global transform of the
// owner's parent.
func (l *lightBase) parentGlobal() mgl64.Mat4 {
	if p := l.owner().parent; p != Nil {
		return l.graph.get(p).global
	}
	return mgl64.Ident4()
}

func (l *lightBase) SetPosition(p mgl64.Vec3) {
	inv := l.parentGlobal().Inv()
	l.graph.SetTranslation(l.node, inv.Mul4x1(p.Vec4(1)).Vec3())
}

func (l *lightBase) SetDirection(d mgl64.Vec3) {
	world := mgl64.QuatBetweenVectors(mgl64.Vec3{0, 0, -1}, d).Mat4()
	local := l.parentGlobal().Inv().Mul4(world)
	_, r, s := linear.Decompose(&local)
	l.graph.SetTransform(l.node, nil, &r, &s)
}

func (l *lightBase) setProperty(name string, v mgl32.Vec4) bool {
	if name == "color" {
		l.Color = v.Vec3()
		return true
	}
	return false
}

// DirectionalLight is a light located infinitely far away.
type DirectionalLight struct {
	lightBase
	// Irradiance in lux.
	Irradiance float32 `json:"irradiance"`
	// AngularSize in degrees.
	AngularSize float32 `json:"angularSize"`
}

// NewDirectionalLight creates a new white directional
// light.
func NewDirectionalLight() *DirectionalLight {
	return &DirectionalLight{lightBase: lightBase{Color: mgl32.Vec3{1, 1, 1}}, Irradiance: 1}
}

// SetProperty implements Leaf.
// Valid names are "color", "irradiance" and "angularSize".
func (l *DirectionalLight) SetProperty(name string, v mgl32.Vec4) bool {
	switch name {
	case "irradiance":
		l.Irradiance = v[0]
	case "angularSize":
		l.AngularSize = v[0]
	default:
		return l.setProperty(name, v)
	}
	return true
}

// Clone implements Leaf.
func (l *DirectionalLight) Clone() Leaf { return cloneLeaf(l) }

// Load sets the properties of l from JSON data.
// Properties absent from data are left unchanged.
func (l *DirectionalLight) Load(data []byte) error { return loadLeaf(l, data) }

// Store encodes the properties of l as JSON.
func (l *DirectionalLight) Store() ([]byte, error) {
	return storeLeaf(struct {
		Type string `json:"type"`
		*DirectionalLight
	}{"DirectionalLight", l})
}

// PointLight is an omnidirectional, positional light.
type PointLight struct {
	lightBase
	// Intensity in candela.
	Intensity float32 `json:"intensity"`
	Radius    float32 `json:"radius"`
	// Range of zero or less means an infinite range.
	Range float32 `json:"range"`
}

// NewPointLight creates a new white point light.
func NewPointLight() *PointLight {
	return &PointLight{lightBase: lightBase{Color: mgl32.Vec3{1, 1, 1}}, Intensity: 1}
}

// SetProperty implements Leaf.
// Valid names are "color", "intensity", "radius" and
// "range".
func (l *PointLight) SetProperty(name string, v mgl32.Vec4) bool {
	switch name {
	case "intensity":
		l.Intensity = v[0]
	case "radius":
		l.Radius = v[0]
	case "range":
		l.Range = v[0]
	default:
		return l.setProperty(name, v)
	}
	return true
}

// Clone implements Leaf.
func (l *PointLight) Clone() Leaf { return cloneLeaf(l) }

// Load sets the properties of l from JSON data.
// Properties absent from data are left unchanged.
func (l *PointLight) Load(data []byte) error { return loadLeaf(l, data) }

// Store encodes the properties of l as JSON.
func (l *PointLight) Store() ([]byte, error) {
	return storeLeaf(struct {
		Type string `json:"type"`
		*PointLight
	}{"PointLight", l})
}

// SpotLight is a positional light emitted in a cone.
type SpotLight struct {
	lightBase
	// Intensity in candela.
	Intensity float32 `json:"intensity"`
	Radius    float32 `json:"radius"`
	// Range of zero or less means an infinite range.
	Range float32 `json:"range"`
	// InnerAngle and OuterAngle are the apparent
	// angles of the cone, in degrees.
	InnerAngle float32 `json:"innerAngle"`
	OuterAngle float32 `json:"outerAngle"`
}

// NewSpotLight creates a new white spot light.
func NewSpotLight() *SpotLight {
	return &SpotLight{
		lightBase:  lightBase{Color: mgl32.Vec3{1, 1, 1}},
		Intensity:  1,
		InnerAngle: 180,
		OuterAngle: 180,
	}
}

// SetProperty implements Leaf.
// Valid names are "color", "intensity", "radius",
// "range", "innerAngle" and "outerAngle".
func (l *SpotLight) SetProperty(name string, v mgl32.Vec4) bool {
	switch name {
	case "intensity":
		l.Intensity = v[0]
	case "radius":
		l.Radius = v[0]
	case "range":
		l.Range = v[0]
	case "innerAngle":
		l.InnerAngle = v[0]
	case "outerAngle":
		l.OuterAngle = v[0]
	default:
		return l.setProperty(name, v)
	}
	return true
}

// ConeAngles returns the half angles of the cone, in
// radians.
// Angles are clamped to [0, π/2] and the inner angle is
// kept less than the outer angle.
func (l *SpotLight) ConeAngles() (inner, outer float32) {
	const eps = 1e-6
	rad := func(deg float32) float32 { return deg * 0.5 * math32.Pi / 180 }
	inner = math32.Max(0, math32.Min(rad(l.InnerAngle), math32.Pi/2-eps))
	outer = math32.Max(inner+eps, math32.Min(rad(l.OuterAngle), math32.Pi/2))
	return
}

// AngularScaleOffset returns the factors that map the
// cosine of the angle to the cone axis into the [0, 1]
// attenuation range.
func (l *SpotLight) AngularScaleOffset() (scale, offset float32) {
	inner, outer := l.ConeAngles()
	cosi := math32.Cos(inner)
	coso := math32.Cos(outer)
	scale = 1 / (cosi - coso)
	offset = scale * -coso
	return
}

// Clone implements Leaf.
func (l *SpotLight) Clone() Leaf { return cloneLeaf(l) }

// Load sets the properties of l from JSON data.
// Properties absent from data are left unchanged.
func (l *SpotLight) Load(data []byte) error { return loadLeaf(l, data) }

// Store encodes the properties of l as JSON.
func (l *SpotLight) Store() ([]byte, error) {
	return storeLeaf(struct {
		Type string `json:"type"`
		*SpotLight
	}{"SpotLight", l})
}
