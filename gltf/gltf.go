// Copyright 2023 Gustavo C. Viegas. All rights reserved.

// Package gltf implements glTF 2.0 serialization.
//
// Only the parts of the format that describe a scene are
// modeled: textures are kept as references and image data
// is never decoded.
package gltf

import (
	"encoding/json"
	"io"

	"github.com/pkg/errors"
)

const prefix = "gltf: "

// GLTF is the root object of a glTF document.
// Indices into the document's arrays are stored as int64,
// and optional indices as *int64.
type GLTF struct {
	ExtensionsUsed     []string     `json:"extensionsUsed,omitempty"`
	ExtensionsRequired []string     `json:"extensionsRequired,omitempty"`
	Accessors          []Accessor   `json:"accessors,omitempty"`
	Animations         []Animation  `json:"animations,omitempty"`
	Asset              Asset        `json:"asset"`
	Buffers            []Buffer     `json:"buffers,omitempty"`
	BufferViews        []BufferView `json:"bufferViews,omitempty"`
	Cameras            []Camera     `json:"cameras,omitempty"`
	Images             []Image      `json:"images,omitempty"`
	Materials          []Material   `json:"materials,omitempty"`
	Meshes             []Mesh       `json:"meshes,omitempty"`
	Nodes              []Node       `json:"nodes,omitempty"`
	Scene              *int64       `json:"scene,omitempty"`
	Scenes             []Scene      `json:"scenes,omitempty"`
	Skins              []Skin       `json:"skins,omitempty"`
	Textures           []Texture    `json:"textures,omitempty"`
	Extensions         *Extensions  `json:"extensions,omitempty"`
	Extras             any          `json:"extras,omitempty"`
}

// Asset is the glTF.asset object.
type Asset struct {
	Copyright  string `json:"copyright,omitempty"`
	Generator  string `json:"generator,omitempty"`
	Version    string `json:"version"`
	MinVersion string `json:"minVersion,omitempty"`
	Extras     any    `json:"extras,omitempty"`
}

// Extensions holds the document-level extensions that
// are understood by the package.
type Extensions struct {
	KHRLightsPunctual *KHRLightsPunctual `json:"KHR_lights_punctual,omitempty"`
}

// Extension names.
const (
	ExtLightsPunctual        = "KHR_lights_punctual"
	ExtMaterialsTransmission = "KHR_materials_transmission"
)

// Accessor is an element of glTF.accessors.
type Accessor struct {
	BufferView    *int64    `json:"bufferView,omitempty"`
	ByteOffset    int64     `json:"byteOffset,omitempty"`
	ComponentType int64     `json:"componentType"`
	Normalized    bool      `json:"normalized,omitempty"`
	Count         int64     `json:"count"`
	Type          string    `json:"type"`
	Max           []float32 `json:"max,omitempty"`
	Min           []float32 `json:"min,omitempty"`
	Sparse        *Sparse   `json:"sparse,omitempty"`
	Name          string    `json:"name,omitempty"`
	Extras        any       `json:"extras,omitempty"`
}

// Sparse is the accessor.sparse object.
type Sparse struct {
	Count   int64 `json:"count"`
	Indices struct {
		BufferView    int64 `json:"bufferView"`
		ByteOffset    int64 `json:"byteOffset,omitempty"`
		ComponentType int64 `json:"componentType"`
	} `json:"indices"`
	Values struct {
		BufferView int64 `json:"bufferView"`
		ByteOffset int64 `json:"byteOffset,omitempty"`
	} `json:"values"`
}

// Accessor component types.
const (
	Byte          = 5120
	UnsignedByte  = 5121
	Short         = 5122
	UnsignedShort = 5123
	UnsignedInt   = 5125
	Float         = 5126
)

// componentSize returns the size in bytes of a component
// type, or 0 if the type is not valid.
func componentSize(typ int64) int64 {
	switch typ {
	case Byte, UnsignedByte:
		return 1
	case Short, UnsignedShort:
		return 2
	case UnsignedInt, Float:
		return 4
	}
	return 0
}

// Accessor types.
const (
	Scalar = "SCALAR"
	Vec2   = "VEC2"
	Vec3   = "VEC3"
	Vec4   = "VEC4"
	Mat2   = "MAT2"
	Mat3   = "MAT3"
	Mat4   = "MAT4"
)

// ComponentCount returns the number of components of an
// accessor type, or 0 if typ is not valid.
func ComponentCount(typ string) int {
	switch typ {
	case Scalar:
		return 1
	case Vec2:
		return 2
	case Vec3:
		return 3
	case Vec4, Mat2:
		return 4
	case Mat3:
		return 9
	case Mat4:
		return 16
	}
	return 0
}

// Animation is an element of glTF.animations.
type Animation struct {
	Channels []Channel `json:"channels"`
	Samplers []Sampler `json:"samplers"`
	Name     string    `json:"name,omitempty"`
	Extras   any       `json:"extras,omitempty"`
}

// Channel is an element of animation.channels.
type Channel struct {
	Sampler int64  `json:"sampler"`
	Target  Target `json:"target"`
}

// Target is the animation.channel.target object.
type Target struct {
	Node *int64 `json:"node,omitempty"`
	Path string `json:"path"`
}

// Animation target paths.
const (
	PathTranslation = "translation"
	PathRotation    = "rotation"
	PathScale       = "scale"
	PathWeights     = "weights"
)

// Sampler is an element of animation.samplers.
type Sampler struct {
	Input         int64  `json:"input"`
	Interpolation string `json:"interpolation,omitempty"` // Default is Linear.
	Output        int64  `json:"output"`
}

// Interpolation modes of animation samplers.
const (
	Linear      = "LINEAR"
	Step        = "STEP"
	CubicSpline = "CUBICSPLINE"
)

// Buffer is an element of glTF.buffers.
// The first buffer of a GLB blob has no URI.
type Buffer struct {
	URI        string `json:"uri,omitempty"`
	ByteLength int64  `json:"byteLength"`
	Name       string `json:"name,omitempty"`
}

// BufferView is an element of glTF.bufferViews.
type BufferView struct {
	Buffer     int64  `json:"buffer"`
	ByteOffset int64  `json:"byteOffset,omitempty"`
	ByteLength int64  `json:"byteLength"`
	ByteStride int64  `json:"byteStride,omitempty"` // 0 for tightly packed.
	Target     int64  `json:"target,omitempty"`
	Name       string `json:"name,omitempty"`
}

// Camera is an element of glTF.cameras.
type Camera struct {
	Orthographic *Orthographic `json:"orthographic,omitempty"`
	Perspective  *Perspective  `json:"perspective,omitempty"`
	Type         string        `json:"type"`
	Name         string        `json:"name,omitempty"`
}

// Orthographic is the camera.orthographic object.
type Orthographic struct {
	XMag  float32 `json:"xmag"`
	YMag  float32 `json:"ymag"`
	ZFar  float32 `json:"zfar"`
	ZNear float32 `json:"znear"`
}

// Perspective is the camera.perspective object.
type Perspective struct {
	AspectRatio float32 `json:"aspectRatio,omitempty"`
	YFov        float32 `json:"yfov"`
	ZFar        float32 `json:"zfar,omitempty"` // 0 for infinite.
	ZNear       float32 `json:"znear"`
}

// Camera types.
const (
	CameraPerspective  = "perspective"
	CameraOrthographic = "orthographic"
)

// Image is an element of glTF.images.
type Image struct {
	URI        string `json:"uri,omitempty"`
	MimeType   string `json:"mimeType,omitempty"`
	BufferView *int64 `json:"bufferView,omitempty"`
	Name       string `json:"name,omitempty"`
}

// Material is an element of glTF.materials.
type Material struct {
	PBRMetallicRoughness *PBRMetallicRoughness `json:"pbrMetallicRoughness,omitempty"`
	NormalTexture        *TextureInfo          `json:"normalTexture,omitempty"`
	OcclusionTexture     *TextureInfo          `json:"occlusionTexture,omitempty"`
	EmissiveTexture      *TextureInfo          `json:"emissiveTexture,omitempty"`
	EmissiveFactor       *[3]float32           `json:"emissiveFactor,omitempty"` // Default is [0, 0, 0].
	AlphaMode            string                `json:"alphaMode,omitempty"`      // Default is AlphaOpaque.
	AlphaCutoff          *float32              `json:"alphaCutoff,omitempty"`    // Default is 0.5.
	DoubleSided          bool                  `json:"doubleSided,omitempty"`
	Name                 string                `json:"name,omitempty"`
	Extensions           *MaterialExtensions   `json:"extensions,omitempty"`
	Extras               any                   `json:"extras,omitempty"`
}

// PBRMetallicRoughness is the material.pbrMetallicRoughness
// object.
type PBRMetallicRoughness struct {
	BaseColorFactor          *[4]float32  `json:"baseColorFactor,omitempty"` // Default is [1, 1, 1, 1].
	BaseColorTexture         *TextureInfo `json:"baseColorTexture,omitempty"`
	MetallicFactor           *float32     `json:"metallicFactor,omitempty"`  // Default is 1.
	RoughnessFactor          *float32     `json:"roughnessFactor,omitempty"` // Default is 1.
	MetallicRoughnessTexture *TextureInfo `json:"metallicRoughnessTexture,omitempty"`
}

// TextureInfo references a texture from a material.
// Scale is only meaningful for normal textures and
// Strength for occlusion textures.
type TextureInfo struct {
	Index    int64    `json:"index"`
	TexCoord int64    `json:"texCoord,omitempty"`
	Scale    *float32 `json:"scale,omitempty"`    // Default is 1.
	Strength *float32 `json:"strength,omitempty"` // Default is 1.
}

// MaterialExtensions holds the material extensions that
// are understood by the package.
type MaterialExtensions struct {
	KHRMaterialsTransmission *Transmission `json:"KHR_materials_transmission,omitempty"`
}

// Transmission is the KHR_materials_transmission object.
type Transmission struct {
	TransmissionFactor  float32      `json:"transmissionFactor,omitempty"`
	TransmissionTexture *TextureInfo `json:"transmissionTexture,omitempty"`
}

// Alpha modes of materials.
const (
	AlphaOpaque = "OPAQUE"
	AlphaMask   = "MASK"
	AlphaBlend  = "BLEND"
)

// Mesh is an element of glTF.meshes.
type Mesh struct {
	Primitives []Primitive `json:"primitives"`
	Weights    []float32   `json:"weights,omitempty"`
	Name       string      `json:"name,omitempty"`
	Extras     any         `json:"extras,omitempty"`
}

// Primitive is an element of mesh.primitives.
type Primitive struct {
	Attributes map[string]int64   `json:"attributes"`
	Indices    *int64             `json:"indices,omitempty"`
	Material   *int64             `json:"material,omitempty"`
	Mode       *int64             `json:"mode,omitempty"` // Default is Triangles.
	Targets    []map[string]int64 `json:"targets,omitempty"`
}

// Primitive attribute names.
const (
	AttrPosition = "POSITION"
	AttrNormal   = "NORMAL"
	AttrJoints0  = "JOINTS_0"
	AttrWeights0 = "WEIGHTS_0"
)

// Primitive topologies.
const (
	Points = iota
	Lines
	LineLoop
	LineStrip
	Triangles
	TriangleStrip
	TriangleFan
)

// Node is an element of glTF.nodes.
type Node struct {
	Camera      *int64          `json:"camera,omitempty"`
	Children    []int64         `json:"children,omitempty"`
	Skin        *int64          `json:"skin,omitempty"`
	Matrix      *[16]float32    `json:"matrix,omitempty"` // Column-major.
	Mesh        *int64          `json:"mesh,omitempty"`
	Rotation    *[4]float32     `json:"rotation,omitempty"` // x, y, z, w.
	Scale       *[3]float32     `json:"scale,omitempty"`
	Translation *[3]float32     `json:"translation,omitempty"`
	Weights     []float32       `json:"weights,omitempty"`
	Name        string          `json:"name,omitempty"`
	Extensions  *NodeExtensions `json:"extensions,omitempty"`
	Extras      any             `json:"extras,omitempty"`
}

// NodeExtensions holds the node extensions that are
// understood by the package.
type NodeExtensions struct {
	KHRLightsPunctual *NodeLight `json:"KHR_lights_punctual,omitempty"`
}

// NodeLight is the node.extensions.KHR_lights_punctual
// object.
type NodeLight struct {
	Light int64 `json:"light"`
}

// Light returns the index of the punctual light of n.
func (n *Node) Light() (int64, bool) {
	if n.Extensions == nil || n.Extensions.KHRLightsPunctual == nil {
		return 0, false
	}
	return n.Extensions.KHRLightsPunctual.Light, true
}

// Scene is an element of glTF.scenes.
type Scene struct {
	Nodes []int64 `json:"nodes,omitempty"`
	Name  string  `json:"name,omitempty"`
}

// Skin is an element of glTF.skins.
type Skin struct {
	InverseBindMatrices *int64  `json:"inverseBindMatrices,omitempty"`
	Skeleton            *int64  `json:"skeleton,omitempty"`
	Joints              []int64 `json:"joints"`
	Name                string  `json:"name,omitempty"`
}

// Texture is an element of glTF.textures.
type Texture struct {
	Sampler *int64 `json:"sampler,omitempty"`
	Source  *int64 `json:"source,omitempty"`
	Name    string `json:"name,omitempty"`
}

// KHRLightsPunctual is the glTF.extensions.KHR_lights_punctual
// object.
type KHRLightsPunctual struct {
	Lights []Light `json:"lights"`
}

// Light is an element of KHR_lights_punctual.lights.
type Light struct {
	Color     *[3]float32 `json:"color,omitempty"`     // Default is [1, 1, 1].
	Intensity *float32    `json:"intensity,omitempty"` // Default is 1.
	Spot      *Spot       `json:"spot,omitempty"`
	Range     float32     `json:"range,omitempty"` // 0 for infinite.
	Type      string      `json:"type"`
	Name      string      `json:"name,omitempty"`
}

// Spot is the KHR_lights_punctual.light.spot object.
// Cone angles are measured from the light's direction,
// in radians.
type Spot struct {
	InnerConeAngle float32  `json:"innerConeAngle,omitempty"` // Default is 0.
	OuterConeAngle *float32 `json:"outerConeAngle,omitempty"` // Default is π/4.
}

// Light types.
const (
	LightDirectional = "directional"
	LightPoint       = "point"
	LightSpot        = "spot"
)

// Lights returns the punctual lights defined by f.
func (f *GLTF) Lights() []Light {
	if f.Extensions == nil || f.Extensions.KHRLightsPunctual == nil {
		return nil
	}
	return f.Extensions.KHRLightsPunctual.Lights
}

// Encode encodes f into w as JSON.
func Encode(w io.Writer, f *GLTF) error {
	if err := json.NewEncoder(w).Encode(f); err != nil {
		return errors.Wrap(err, prefix+"failed to encode")
	}
	return nil
}

// Decode decodes r into a new GLTF.
// It does not validate the result (see GLTF.Check).
func Decode(r io.Reader) (*GLTF, error) {
	var f GLTF
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, errors.Wrap(err, prefix+"failed to decode")
	}
	return &f, nil
}
