// Copyright 2023 Gustavo C. Viegas. All rights reserved.

// Package material defines the surface description shared
// by mesh geometries.
package material

import "github.com/go-gl/mathgl/mgl32"

// Domain classifies how a material is composed with
// the background.
type Domain int

// Material domains.
const (
	// No transparency.
	Opaque Domain = iota
	// Either fully opaque or fully transparent,
	// as determined by a cutoff value.
	AlphaTested
	// Composition with background.
	AlphaBlended
	Transmissive
	TransmissiveAlphaTested
	TransmissiveAlphaBlended
)

var domainNames = [...]string{
	Opaque:                   "Opaque",
	AlphaTested:              "AlphaTested",
	AlphaBlended:             "AlphaBlended",
	Transmissive:             "Transmissive",
	TransmissiveAlphaTested:  "TransmissiveAlphaTested",
	TransmissiveAlphaBlended: "TransmissiveAlphaBlended",
}

// String implements fmt.Stringer.
func (d Domain) String() string {
	if d < 0 || int(d) >= len(domainNames) {
		return "Domain(?)"
	}
	return domainNames[d]
}

// Alpha modes as named by glTF.
const (
	AlphaModeOpaque = "OPAQUE"
	AlphaModeMask   = "MASK"
	AlphaModeBlend  = "BLEND"
)

// DomainOf returns the domain of a material given its
// alpha mode and whether it transmits light.
// An unknown alpha mode is treated as opaque.
func DomainOf(alphaMode string, transmissive bool) Domain {
	var d Domain
	switch alphaMode {
	case AlphaModeMask:
		d = AlphaTested
	case AlphaModeBlend:
		d = AlphaBlended
	}
	if transmissive {
		d += Transmissive
	}
	return d
}

// Material defines the material properties to be applied
// to geometry during rendering.
// Textures are referenced by name only.
type Material struct {
	Name   string
	Domain Domain

	BaseOrDiffuseTexture        string
	MetalRoughOrSpecularTexture string
	NormalTexture               string
	EmissiveTexture             string
	OcclusionTexture            string
	TransmissionTexture         string

	BaseOrDiffuseColor        mgl32.Vec3
	SpecularColor             mgl32.Vec3
	EmissiveColor             mgl32.Vec3
	EmissiveIntensity         float32
	Metalness                 float32
	Roughness                 float32
	Opacity                   float32
	AlphaCutoff               float32
	TransmissionFactor        float32
	DiffuseTransmissionFactor float32
	NormalTextureScale        float32
	OcclusionStrength         float32
	IOR                       float32

	UseSpecularGlossModel bool

	EnableBaseOrDiffuseTexture        bool
	EnableMetalRoughOrSpecularTexture bool
	EnableNormalTexture               bool
	EnableEmissiveTexture             bool
	EnableOcclusionTexture            bool
	EnableTransmissionTexture         bool

	DoubleSided bool

	// MaterialID is assigned by the scene graph
	// whenever its structure changes.
	MaterialID int
	// Dirty is set whenever a property changes.
	// Consumers clear it after uploading the
	// material's data.
	Dirty bool
}

// New creates a new material with default properties.
func New(name string) *Material {
	return &Material{
		Name:                              name,
		BaseOrDiffuseColor:                mgl32.Vec3{1, 1, 1},
		EmissiveIntensity:                 1,
		Opacity:                           1,
		AlphaCutoff:                       0.5,
		NormalTextureScale:                1,
		OcclusionStrength:                 1,
		IOR:                               1.5,
		EnableBaseOrDiffuseTexture:        true,
		EnableMetalRoughOrSpecularTexture: true,
		EnableNormalTexture:               true,
		EnableEmissiveTexture:             true,
		EnableOcclusionTexture:            true,
		EnableTransmissionTexture:         true,
		Dirty:                             true,
	}
}

// IsOpaque reports whether m is in the Opaque domain.
func (m *Material) IsOpaque() bool { return m.Domain == Opaque }

// IsAlphaTested reports whether m is in the AlphaTested domain.
func (m *Material) IsAlphaTested() bool { return m.Domain == AlphaTested }

type property struct {
	vec3  func(*Material) *mgl32.Vec3
	float func(*Material) *float32
	bool  func(*Material) *bool
}

var properties = map[string]property{
	"baseOrDiffuseColor": {vec3: func(m *Material) *mgl32.Vec3 { return &m.BaseOrDiffuseColor }},
	"specularColor":      {vec3: func(m *Material) *mgl32.Vec3 { return &m.SpecularColor }},
	"emissiveColor":      {vec3: func(m *Material) *mgl32.Vec3 { return &m.EmissiveColor }},

	"emissiveIntensity":         {float: func(m *Material) *float32 { return &m.EmissiveIntensity }},
	"metalness":                 {float: func(m *Material) *float32 { return &m.Metalness }},
	"roughness":                 {float: func(m *Material) *float32 { return &m.Roughness }},
	"opacity":                   {float: func(m *Material) *float32 { return &m.Opacity }},
	"alphaCutoff":               {float: func(m *Material) *float32 { return &m.AlphaCutoff }},
	"transmissionFactor":        {float: func(m *Material) *float32 { return &m.TransmissionFactor }},
	"diffuseTransmissionFactor": {float: func(m *Material) *float32 { return &m.DiffuseTransmissionFactor }},
	"normalTextureScale":        {float: func(m *Material) *float32 { return &m.NormalTextureScale }},
	"occlusionStrength":         {float: func(m *Material) *float32 { return &m.OcclusionStrength }},
	"ior":                       {float: func(m *Material) *float32 { return &m.IOR }},

	"enableBaseOrDiffuseTexture":        {bool: func(m *Material) *bool { return &m.EnableBaseOrDiffuseTexture }},
	"enableMetalRoughOrSpecularTexture": {bool: func(m *Material) *bool { return &m.EnableMetalRoughOrSpecularTexture }},
	"enableNormalTexture":               {bool: func(m *Material) *bool { return &m.EnableNormalTexture }},
	"enableEmissiveTexture":             {bool: func(m *Material) *bool { return &m.EnableEmissiveTexture }},
	"enableOcclusionTexture":            {bool: func(m *Material) *bool { return &m.EnableOcclusionTexture }},
	"enableTransmissionTexture":         {bool: func(m *Material) *bool { return &m.EnableTransmissionTexture }},
}

// SetProperty sets the named property from v and marks
// m as dirty.
// Color properties take v.Vec3(), scalar properties
// take v.X() and toggles are enabled when v.X() > 0.5.
// It returns false if name is not a known property.
func (m *Material) SetProperty(name string, v mgl32.Vec4) bool {
	p, ok := properties[name]
	if !ok {
		return false
	}
	switch {
	case p.vec3 != nil:
		*p.vec3(m) = v.Vec3()
	case p.float != nil:
		*p.float(m) = v.X()
	default:
		*p.bool(m) = v.X() > 0.5
	}
	m.Dirty = true
	return true
}

// PropertyNames returns the names accepted by SetProperty.
func PropertyNames() []string {
	s := make([]string, 0, len(properties))
	for k := range properties {
		s = append(s, k)
	}
	return s
}
