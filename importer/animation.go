// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package importer

import (
	"strconv"

	"github.com/go-gl/mathgl/mgl32"
	pkgerrors "github.com/pkg/errors"

	"github.com/gviegas/scenegraph"
	"github.com/gviegas/scenegraph/anim"
	"github.com/gviegas/scenegraph/gltf"
)

// animation creates an animation leaf from a.
// Channels that target nodes outside of the imported scene
// and morph target weights are skipped. It returns nil if
// no channel remains.
func (imp *importer) animation(a *gltf.Animation) (*scenegraph.Animation, error) {
	samplers := make([]*anim.Sampler, len(a.Samplers))
	res := scenegraph.NewAnimation()
	for _, c := range a.Channels {
		if c.Target.Node == nil || imp.nodes[*c.Target.Node] == scenegraph.Nil {
			continue
		}
		var attr scenegraph.Attribute
		switch c.Target.Path {
		case gltf.PathTranslation:
			attr = scenegraph.AttrTranslation
		case gltf.PathRotation:
			attr = scenegraph.AttrRotation
		case gltf.PathScale:
			attr = scenegraph.AttrScaling
		default:
			scenegraph.Logger().Warn("skipped animation channel",
				"graph", imp.g.ID().String(),
				"path", c.Target.Path)
			continue
		}
		s := samplers[c.Sampler]
		if s == nil {
			var err error
			if s, err = imp.sampler(&a.Samplers[c.Sampler], attr); err != nil {
				return nil, pkgerrors.Wrapf(err, prefix+"sampler %d", c.Sampler)
			}
			samplers[c.Sampler] = s
		}
		res.AddChannel(scenegraph.NewChannel(s, imp.nodes[*c.Target.Node], attr))
	}
	if len(res.Channels()) == 0 {
		return nil, nil
	}
	return res, nil
}

// sampler creates a keyframe sampler from s.
// Linear rotations are interpolated with Slerp, and cubic
// splines use Hermite interpolation with the tangents
// stored in the output.
func (imp *importer) sampler(s *gltf.Sampler, attr scenegraph.Attribute) (*anim.Sampler, error) {
	times, n, err := imp.doc.ReadFloats(s.Input, imp.buffers)
	if err != nil {
		return nil, err
	}
	if n != 1 {
		return nil, newErr("sampler input is not SCALAR")
	}
	values, n, err := imp.doc.ReadFloats(s.Output, imp.buffers)
	if err != nil {
		return nil, err
	}
	want := 3
	if attr == scenegraph.AttrRotation {
		want = 4
	}
	if n != want {
		return nil, newErr("sampler output has " + strconv.Itoa(n) + " components, expected " + strconv.Itoa(want))
	}
	value := func(k int) (v mgl32.Vec4) {
		copy(v[:], values[k*n:k*n+n])
		return
	}

	var mode anim.Mode
	stride := 1
	switch s.Interpolation {
	case gltf.Step:
		mode = anim.Step
	case gltf.CubicSpline:
		mode = anim.Hermite
		stride = 3
	default:
		mode = anim.Linear
		if attr == scenegraph.AttrRotation {
			mode = anim.Slerp
		}
	}
	if len(values) != len(times)*stride*n {
		return nil, newErr("sampler input and output counts differ")
	}

	kfs := make([]anim.Keyframe, len(times))
	for k, t := range times {
		kf := &kfs[k]
		kf.Time = t
		if stride == 1 {
			kf.Value = value(k)
			continue
		}
		kf.InTangent = value(3 * k)
		kf.Value = value(3*k + 1)
		kf.OutTangent = value(3*k + 2)
	}
	return anim.NewSampler(mode, kfs...), nil
}
