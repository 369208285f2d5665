// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package gltf

import (
	"errors"
	"strconv"
	"strings"
)

func newErr(reason string) error {
	return errors.New(prefix + reason)
}

func badIndex(what string, i int) error {
	return newErr("invalid " + what + " index in element " + strconv.Itoa(i))
}

func inRange[S ~[]E, E any](s S, i int64) bool { return i >= 0 && i < int64(len(s)) }

func optInRange[S ~[]E, E any](s S, i *int64) bool { return i == nil || inRange(s, *i) }

// majorVersion parses a "<major>.<minor>" version.
// It returns -1 if v is malformed.
func majorVersion(v string) int {
	maj, min, ok := strings.Cut(v, ".")
	if !ok {
		return -1
	}
	x, err := strconv.Atoi(maj)
	if err != nil || x < 0 {
		return -1
	}
	if y, err := strconv.Atoi(min); err != nil || y < 0 {
		return -1
	}
	return x
}

// Check checks that f is a valid glTF document.
// It validates indices between elements, the values
// of enumerations and the node hierarchy.
// It does not read buffer data.
func (f *GLTF) Check() error {
	switch v := f.Asset.Version; {
	case v == "":
		return newErr("missing asset version")
	case majorVersion(v) != 2:
		return newErr("unsupported asset version " + strconv.Quote(v))
	}
	if !optInRange(f.Scenes, f.Scene) {
		return newErr("invalid GLTF.Scene index")
	}
	for i, v := range f.BufferViews {
		switch {
		case !inRange(f.Buffers, v.Buffer):
			return badIndex("BufferView.Buffer", i)
		case v.ByteOffset < 0 || v.ByteLength < 1:
			return newErr("invalid BufferView range in element " + strconv.Itoa(i))
		case v.ByteStride != 0 && (v.ByteStride < 4 || v.ByteStride > 252 || v.ByteStride%4 != 0):
			return newErr("invalid BufferView.ByteStride value in element " + strconv.Itoa(i))
		case v.ByteOffset+v.ByteLength > f.Buffers[v.Buffer].ByteLength:
			return newErr("BufferView out of buffer bounds in element " + strconv.Itoa(i))
		}
	}
	for i := range f.Accessors {
		if r := f.Accessors[i].check(f); r != "" {
			return newErr(r + " in accessor " + strconv.Itoa(i))
		}
	}
	for i, c := range f.Cameras {
		switch {
		case c.Type == CameraPerspective && c.Perspective == nil,
			c.Type == CameraOrthographic && c.Orthographic == nil:
			return newErr("missing Camera projection in element " + strconv.Itoa(i))
		case c.Type != CameraPerspective && c.Type != CameraOrthographic:
			return newErr("invalid Camera.Type value in element " + strconv.Itoa(i))
		}
	}
	for i, m := range f.Materials {
		switch m.AlphaMode {
		case "", AlphaOpaque, AlphaMask, AlphaBlend:
		default:
			return newErr("invalid Material.AlphaMode value in element " + strconv.Itoa(i))
		}
		for _, t := range m.textures() {
			if t != nil && !inRange(f.Textures, t.Index) {
				return badIndex("Material texture", i)
			}
		}
	}
	for i, m := range f.Meshes {
		if len(m.Primitives) == 0 {
			return newErr("no Mesh.Primitives in element " + strconv.Itoa(i))
		}
		for _, p := range m.Primitives {
			if _, ok := p.Attributes[AttrPosition]; !ok {
				return newErr("missing POSITION attribute in mesh " + strconv.Itoa(i))
			}
			for _, a := range p.Attributes {
				if !inRange(f.Accessors, a) {
					return badIndex("Primitive.Attributes", i)
				}
			}
			switch {
			case !optInRange(f.Accessors, p.Indices):
				return badIndex("Primitive.Indices", i)
			case !optInRange(f.Materials, p.Material):
				return badIndex("Primitive.Material", i)
			case p.Mode != nil && (*p.Mode < Points || *p.Mode > TriangleFan):
				return newErr("invalid Primitive.Mode value in mesh " + strconv.Itoa(i))
			}
		}
	}
	if err := f.checkNodes(); err != nil {
		return err
	}
	for i, s := range f.Scenes {
		for _, n := range s.Nodes {
			if !inRange(f.Nodes, n) {
				return badIndex("Scene.Nodes", i)
			}
		}
	}
	for i, s := range f.Skins {
		if len(s.Joints) == 0 {
			return newErr("no Skin.Joints in element " + strconv.Itoa(i))
		}
		for _, j := range s.Joints {
			if !inRange(f.Nodes, j) {
				return badIndex("Skin.Joints", i)
			}
		}
		switch {
		case !optInRange(f.Nodes, s.Skeleton):
			return badIndex("Skin.Skeleton", i)
		case !optInRange(f.Accessors, s.InverseBindMatrices):
			return badIndex("Skin.InverseBindMatrices", i)
		}
	}
	for i, t := range f.Textures {
		if !optInRange(f.Images, t.Source) {
			return badIndex("Texture.Source", i)
		}
	}
	for i := range f.Animations {
		if r := f.Animations[i].check(f); r != "" {
			return newErr(r + " in animation " + strconv.Itoa(i))
		}
	}
	for i, l := range f.Lights() {
		switch l.Type {
		case LightDirectional, LightPoint:
		case LightSpot:
			if l.Spot == nil {
				return newErr("missing Light.Spot in element " + strconv.Itoa(i))
			}
		default:
			return newErr("invalid Light.Type value in element " + strconv.Itoa(i))
		}
	}
	return nil
}

// checkNodes checks node references and that the nodes
// form a forest.
func (f *GLTF) checkNodes() error {
	parent := make([]int64, len(f.Nodes))
	for i := range parent {
		parent[i] = -1
	}
	lights := f.Lights()
	for i, n := range f.Nodes {
		switch {
		case !optInRange(f.Cameras, n.Camera):
			return badIndex("Node.Camera", i)
		case !optInRange(f.Meshes, n.Mesh):
			return badIndex("Node.Mesh", i)
		case !optInRange(f.Skins, n.Skin):
			return badIndex("Node.Skin", i)
		case n.Skin != nil && n.Mesh == nil:
			return newErr("Node.Skin without Node.Mesh in element " + strconv.Itoa(i))
		case n.Matrix != nil && (n.Translation != nil || n.Rotation != nil || n.Scale != nil):
			return newErr("Node has both matrix and TRS in element " + strconv.Itoa(i))
		}
		if l, ok := n.Light(); ok && !inRange(lights, l) {
			return badIndex("Node light", i)
		}
		for _, c := range n.Children {
			switch {
			case !inRange(f.Nodes, c) || c == int64(i):
				return badIndex("Node.Children", i)
			case parent[c] != -1:
				return newErr("node " + strconv.FormatInt(c, 10) + " has multiple parents")
			}
			parent[c] = int64(i)
		}
	}
	// With a single parent per node, a cycle is a chain of
	// parents that never reaches a root.
	for i := range f.Nodes {
		n := int64(i)
		for steps := 0; parent[n] != -1; steps++ {
			if steps == len(f.Nodes) {
				return newErr("node hierarchy has a cycle")
			}
			n = parent[n]
		}
	}
	return nil
}

func (m *Material) textures() []*TextureInfo {
	t := []*TextureInfo{m.NormalTexture, m.OcclusionTexture, m.EmissiveTexture}
	if p := m.PBRMetallicRoughness; p != nil {
		t = append(t, p.BaseColorTexture, p.MetallicRoughnessTexture)
	}
	if e := m.Extensions; e != nil && e.KHRMaterialsTransmission != nil {
		t = append(t, e.KHRMaterialsTransmission.TransmissionTexture)
	}
	return t
}

// Check checks that a is a valid element of
// glTF.accessors.
func (a *Accessor) Check(f *GLTF) error {
	if r := a.check(f); r != "" {
		return newErr(r)
	}
	return nil
}

func (a *Accessor) check(f *GLTF) string {
	if !optInRange(f.BufferViews, a.BufferView) {
		return "invalid Accessor.BufferView index"
	}
	if a.ByteOffset < 0 {
		return "invalid Accessor.ByteOffset value"
	}
	size := componentSize(a.ComponentType)
	if size == 0 {
		return "invalid Accessor.ComponentType value"
	}
	if a.Count < 1 {
		return "invalid Accessor.Count value"
	}
	n := ComponentCount(a.Type)
	if n == 0 {
		return "invalid Accessor.Type value"
	}
	if (a.Max != nil && len(a.Max) != n) || (a.Min != nil && len(a.Min) != n) {
		return "invalid Accessor.Max/Min length"
	}
	if a.BufferView != nil {
		v := &f.BufferViews[*a.BufferView]
		stride := v.ByteStride
		if stride == 0 {
			stride = size * int64(n)
		}
		if a.ByteOffset+stride*(a.Count-1)+size*int64(n) > v.ByteLength {
			return "Accessor out of BufferView bounds"
		}
	}

	if s := a.Sparse; s != nil {
		switch {
		case s.Count < 1 || s.Count > a.Count:
			return "invalid Accessor.Sparse.Count value"
		case !inRange(f.BufferViews, s.Indices.BufferView):
			return "invalid Accessor.Sparse.Indices.BufferView index"
		case s.Indices.ByteOffset < 0:
			return "invalid Accessor.Sparse.Indices.ByteOffset value"
		case !inRange(f.BufferViews, s.Values.BufferView):
			return "invalid Accessor.Sparse.Values.BufferView index"
		case s.Values.ByteOffset < 0:
			return "invalid Accessor.Sparse.Values.ByteOffset value"
		}
		switch s.Indices.ComponentType {
		case UnsignedByte, UnsignedShort, UnsignedInt:
		default:
			return "invalid Accessor.Sparse.Indices.ComponentType value"
		}
	}
	return ""
}

// Check checks that a is a valid element of
// glTF.animations.
func (a *Animation) Check(f *GLTF) error {
	if r := a.check(f); r != "" {
		return newErr(r)
	}
	return nil
}

func (a *Animation) check(f *GLTF) string {
	if len(a.Channels) == 0 {
		return "no Animation.Channels"
	}
	for _, s := range a.Samplers {
		if !inRange(f.Accessors, s.Input) || !inRange(f.Accessors, s.Output) {
			return "invalid Animation.Sampler accessor index"
		}
		switch s.Interpolation {
		case "", Linear, Step, CubicSpline:
		default:
			return "invalid Animation.Sampler.Interpolation value"
		}
	}
	for _, c := range a.Channels {
		switch {
		case !inRange(a.Samplers, c.Sampler):
			return "invalid Animation.Channel.Sampler index"
		case !optInRange(f.Nodes, c.Target.Node):
			return "invalid Animation.Channel.Target.Node index"
		}
		switch c.Target.Path {
		case PathTranslation, PathRotation, PathScale, PathWeights:
		default:
			return "invalid Animation.Channel.Target.Path value"
		}
	}
	return ""
}
