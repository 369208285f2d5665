// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package scenegraph

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gviegas/scenegraph/anim"
	"github.com/gviegas/scenegraph/linear"
	"github.com/gviegas/scenegraph/material"
)

// Attribute identifies what an animation channel drives.
type Attribute int

// Animation attributes.
const (
	AttrUndefined Attribute = iota
	AttrScaling
	AttrRotation
	AttrTranslation
	AttrLeafProperty
)

var attrNames = [...]string{"Undefined", "Scaling", "Rotation", "Translation", "LeafProperty"}

// String implements fmt.Stringer.
func (a Attribute) String() string {
	if a < 0 || int(a) >= len(attrNames) {
		return "?"
	}
	return attrNames[a]
}

// Channel drives one attribute of a node, or one property
// of a material, with a keyframe sampler.
type Channel struct {
	sampler  *anim.Sampler
	attr     Attribute
	node     Node
	material *material.Material
	property string
}

// NewChannel creates a channel that drives attr of target.
func NewChannel(s *anim.Sampler, target Node, attr Attribute) *Channel {
	return &Channel{sampler: s, attr: attr, node: target}
}

// NewMaterialChannel creates a channel that drives the
// named property of mat.
func NewMaterialChannel(s *anim.Sampler, mat *material.Material, property string) *Channel {
	return &Channel{sampler: s, attr: AttrLeafProperty, material: mat, property: property}
}

// Sampler returns the sampler of c.
func (c *Channel) Sampler() *anim.Sampler { return c.sampler }

// Attribute returns the attribute driven by c.
func (c *Channel) Attribute() Attribute { return c.attr }

// TargetNode returns the node driven by c.
func (c *Channel) TargetNode() Node { return c.node }

// SetTargetNode sets the node driven by c.
func (c *Channel) SetTargetNode(n Node) { c.node = n }

// TargetMaterial returns the material driven by c, or nil.
func (c *Channel) TargetMaterial() *material.Material { return c.material }

// LeafProperty returns the name of the property driven
// by c when its attribute is AttrLeafProperty.
func (c *Channel) LeafProperty() string { return c.property }

// SetLeafProperty sets the name of the property driven
// by c. It does not change the attribute.
func (c *Channel) SetLeafProperty(name string) { c.property = name }

// Valid reports whether the target of c exists in g.
// Material targets must be referenced by some mesh
// instance of g.
func (c *Channel) Valid(g *Graph) bool {
	if c.material != nil {
		return g.materials.Contains(c.material)
	}
	return g.Valid(c.node)
}

// Apply evaluates the sampler of c at time t and writes
// the result to its target in g.
// It returns false if nothing could be written.
func (c *Channel) Apply(g *Graph, t float32) bool {
	if c.sampler == nil {
		return false
	}
	v, ok := c.sampler.Evaluate(t, g.cfg.ExtrapolateAnimations)
	if !ok {
		return false
	}
	log := Logger()
	switch c.attr {
	case AttrScaling, AttrTranslation, AttrRotation:
		if !g.Valid(c.node) {
			return false
		}
		switch c.attr {
		case AttrScaling:
			g.SetScaling(c.node, linear.Vec3Double(v.Vec3()))
		case AttrTranslation:
			g.SetTranslation(c.node, linear.Vec3Double(v.Vec3()))
		default:
			q := linear.QuatDouble(mgl32.Quat{W: v[3], V: v.Vec3()})
			if q.Len() == 0 {
				log.Warn("zero-length rotation", "graph", g.id.String(), "node", c.node, "time", t)
				return false
			}
			g.SetRotation(c.node, q.Normalize())
		}
		return true
	case AttrLeafProperty:
		if c.material != nil {
			if c.material.SetProperty(c.property, v) {
				return true
			}
			log.Warn("unknown material property", "graph", g.id.String(), "material", c.material.Name, "property", c.property)
			return false
		}
		if !g.Valid(c.node) {
			return false
		}
		leaf := g.get(c.node).leaf
		if leaf == nil {
			log.Warn("animated property on node without leaf", "graph", g.id.String(), "node", g.Path(c.node), "property", c.property)
			return false
		}
		if !leaf.SetProperty(c.property, v) {
			log.Warn("unknown leaf property", "graph", g.id.String(), "node", g.Path(c.node), "property", c.property)
			return false
		}
		return true
	default:
		log.Warn("undefined channel attribute", "graph", g.id.String(), "node", c.node)
		return false
	}
}

// Animation is a leaf that groups channels played
// together.
type Animation struct {
	leafBase
	channels []*Channel
	duration float32
}

// NewAnimation creates a new animation with no channels.
func NewAnimation() *Animation { return new(Animation) }

// AddChannel adds c to a.
func (a *Animation) AddChannel(c *Channel) {
	a.channels = append(a.channels, c)
	if c.sampler != nil {
		a.duration = max(a.duration, c.sampler.EndTime())
	}
}

// Channels returns the channels of a.
// The slice must not be modified.
func (a *Animation) Channels() []*Channel { return a.channels }

// Duration returns the largest end time of the channels'
// samplers.
func (a *Animation) Duration() float32 { return a.duration }

// ContentFlags implements Leaf.
func (a *Animation) ContentFlags() ContentFlags { return ContentAnimations }

// Valid reports whether a has an owner and every channel
// is valid in the owner's graph.
func (a *Animation) Valid() bool {
	g := a.Graph()
	if g == nil {
		return false
	}
	for _, c := range a.channels {
		if !c.Valid(g) {
			return false
		}
	}
	return true
}

// Apply applies every channel of a at time t.
// It returns true if every channel could be applied.
// An animation with no owner does nothing and returns
// false.
func (a *Animation) Apply(t float32) bool {
	g := a.Graph()
	if g == nil {
		return false
	}
	ok := true
	for _, c := range a.channels {
		if !c.Apply(g, t) {
			ok = false
		}
	}
	return ok
}

// Clone implements Leaf.
// Channels are copied. Samplers and material targets are
// shared.
func (a *Animation) Clone() Leaf {
	c := &Animation{channels: make([]*Channel, len(a.channels)), duration: a.duration}
	for i, ch := range a.channels {
		cp := *ch
		c.channels[i] = &cp
	}
	return c
}
