// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package importer

import (
	"strconv"
	"strings"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	pkgerrors "github.com/pkg/errors"

	"github.com/gviegas/scenegraph"
	"github.com/gviegas/scenegraph/gltf"
	"github.com/gviegas/scenegraph/linear"
	"github.com/gviegas/scenegraph/material"
	"github.com/gviegas/scenegraph/mesh"
)

// mesh returns the mesh created from doc.Meshes[i].
// Meshes are created once and shared by every node that
// refers to them.
func (imp *importer) mesh(i int64) (*mesh.Mesh, error) {
	if m := imp.meshes[i]; m != nil {
		return m, nil
	}
	src := &imp.doc.Meshes[i]
	geoms := make([]*mesh.Geometry, len(src.Primitives))
	for j := range src.Primitives {
		p := &src.Primitives[j]
		pos := &imp.doc.Accessors[p.Attributes[gltf.AttrPosition]]
		geom := &mesh.Geometry{
			NumVertices: int(pos.Count),
			NumIndices:  int(pos.Count),
		}
		if p.Indices != nil {
			geom.NumIndices = int(imp.doc.Accessors[*p.Indices].Count)
		}
		var err error
		if geom.ObjectSpaceBounds, err = imp.bounds(p.Attributes[gltf.AttrPosition]); err != nil {
			return nil, pkgerrors.Wrapf(err, prefix+"mesh %d", i)
		}
		if p.Material != nil {
			geom.Material = imp.material(*p.Material)
		} else {
			geom.Material = imp.defaultMaterial()
		}
		geoms[j] = geom
	}
	name := src.Name
	if name == "" {
		name = "mesh" + strconv.FormatInt(i, 10)
	}
	m := mesh.New(name, geoms...)
	if err := m.Check(); err != nil {
		return nil, pkgerrors.Wrap(err, prefix+"invalid mesh")
	}
	imp.meshes[i] = m
	imp.stats.meshes++
	return m, nil
}

// bounds returns the bounding box of a POSITION accessor.
// The accessor's min/max are used if present.
func (imp *importer) bounds(acc int64) (linear.Box3, error) {
	a := &imp.doc.Accessors[acc]
	if len(a.Min) == 3 && len(a.Max) == 3 {
		return linear.NewBox(linear.Vec3Double(mgl32.Vec3(a.Min)), linear.Vec3Double(mgl32.Vec3(a.Max))), nil
	}
	v, n, err := imp.doc.ReadFloats(acc, imp.buffers)
	if err != nil {
		return linear.Box3{}, err
	}
	if n != 3 {
		return linear.Box3{}, newErr("POSITION accessor is not VEC3")
	}
	b := linear.EmptyBox()
	for k := 0; k+2 < len(v); k += 3 {
		b = b.AddPoint(linear.Vec3Double(mgl32.Vec3(v[k : k+3])))
	}
	return b, nil
}

func (imp *importer) defaultMaterial() *material.Material {
	if imp.dflMat == nil {
		imp.dflMat = material.New("default")
	}
	return imp.dflMat
}

// material returns the material created from
// doc.Materials[i].
func (imp *importer) material(i int64) *material.Material {
	if m := imp.materials[i]; m != nil {
		return m
	}
	src := &imp.doc.Materials[i]
	name := src.Name
	if name == "" {
		name = "material" + strconv.FormatInt(i, 10)
	}
	m := material.New(name)
	tr := transmission(src)
	m.Domain = material.DomainOf(src.AlphaMode, tr != nil)
	m.DoubleSided = src.DoubleSided
	if src.AlphaCutoff != nil {
		m.AlphaCutoff = *src.AlphaCutoff
	}
	m.Metalness = 1
	m.Roughness = 1
	if p := src.PBRMetallicRoughness; p != nil {
		if c := p.BaseColorFactor; c != nil {
			m.BaseOrDiffuseColor = mgl32.Vec3{c[0], c[1], c[2]}
			m.Opacity = c[3]
		}
		if p.MetallicFactor != nil {
			m.Metalness = *p.MetallicFactor
		}
		if p.RoughnessFactor != nil {
			m.Roughness = *p.RoughnessFactor
		}
		m.BaseOrDiffuseTexture = imp.texture(p.BaseColorTexture)
		m.MetalRoughOrSpecularTexture = imp.texture(p.MetallicRoughnessTexture)
	}
	if c := src.EmissiveFactor; c != nil {
		m.EmissiveColor = mgl32.Vec3{c[0], c[1], c[2]}
	}
	if t := src.NormalTexture; t != nil && t.Scale != nil {
		m.NormalTextureScale = *t.Scale
	}
	if t := src.OcclusionTexture; t != nil && t.Strength != nil {
		m.OcclusionStrength = *t.Strength
	}
	m.NormalTexture = imp.texture(src.NormalTexture)
	m.OcclusionTexture = imp.texture(src.OcclusionTexture)
	m.EmissiveTexture = imp.texture(src.EmissiveTexture)
	if tr != nil {
		m.TransmissionFactor = tr.TransmissionFactor
		m.TransmissionTexture = imp.texture(tr.TransmissionTexture)
	}
	imp.materials[i] = m
	return m
}

func transmission(m *gltf.Material) *gltf.Transmission {
	if m.Extensions == nil {
		return nil
	}
	return m.Extensions.KHRMaterialsTransmission
}

// texture returns the name used to refer to a texture:
// its image's URI, or else the first name that is set.
// Embedded images are never referred to by URI.
func (imp *importer) texture(t *gltf.TextureInfo) string {
	if t == nil {
		return ""
	}
	tex := &imp.doc.Textures[t.Index]
	if tex.Source != nil {
		img := &imp.doc.Images[*tex.Source]
		switch {
		case img.URI != "" && !strings.HasPrefix(img.URI, "data:"):
			return img.URI
		case img.Name != "":
			return img.Name
		}
	}
	if tex.Name != "" {
		return tex.Name
	}
	return "texture" + strconv.FormatInt(t.Index, 10)
}

// camera creates a camera leaf from c.
func camera(c *gltf.Camera) scenegraph.Leaf {
	if p := c.Perspective; p != nil && c.Type == gltf.CameraPerspective {
		cam := scenegraph.NewPerspectiveCamera()
		cam.ZNear = p.ZNear
		cam.VerticalFOV = p.YFov
		if p.ZFar > 0 {
			zfar := p.ZFar
			cam.ZFar = &zfar
		}
		if p.AspectRatio > 0 {
			aspect := p.AspectRatio
			cam.AspectRatio = &aspect
		}
		return cam
	}
	o := c.Orthographic
	cam := scenegraph.NewOrthographicCamera()
	cam.XMag = o.XMag
	cam.YMag = o.YMag
	cam.ZNear = o.ZNear
	cam.ZFar = o.ZFar
	return cam
}

// dflOuterCone is the default outer cone angle of glTF
// spot lights.
const dflOuterCone = math32.Pi / 4

// light creates a light leaf from l.
// glTF cone angles are measured from the axis in radians,
// while SpotLight uses the full aperture in degrees.
func light(l *gltf.Light) scenegraph.Leaf {
	color := mgl32.Vec3{1, 1, 1}
	if l.Color != nil {
		color = mgl32.Vec3(*l.Color)
	}
	intensity := float32(1)
	if l.Intensity != nil {
		intensity = *l.Intensity
	}
	switch l.Type {
	case gltf.LightDirectional:
		d := scenegraph.NewDirectionalLight()
		d.Color = color
		d.Irradiance = intensity
		return d
	case gltf.LightPoint:
		p := scenegraph.NewPointLight()
		p.Color = color
		p.Intensity = intensity
		p.Range = l.Range
		return p
	}
	s := scenegraph.NewSpotLight()
	s.Color = color
	s.Intensity = intensity
	s.Range = l.Range
	outer := float32(dflOuterCone)
	if l.Spot.OuterConeAngle != nil {
		outer = *l.Spot.OuterConeAngle
	}
	s.InnerAngle = mgl32.RadToDeg(2 * l.Spot.InnerConeAngle)
	s.OuterAngle = mgl32.RadToDeg(2 * outer)
	return s
}
