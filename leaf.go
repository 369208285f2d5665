// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package scenegraph

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/gviegas/scenegraph/linear"
)

// Leaf is the content attached to a node.
// A leaf is owned by at most one node at a time.
// The implementations are MeshInstance,
// SkinnedMeshInstance, SkinnedMeshReference, Animation,
// PerspectiveCamera, OrthographicCamera,
// DirectionalLight, PointLight and SpotLight.
type Leaf interface {
	// Node returns the node that owns the leaf, or Nil
	// if it has no owner.
	Node() Node
	// Graph returns the graph of the owner, or nil.
	Graph() *Graph
	// Name returns the name of the owner, or the empty
	// string.
	Name() string
	// LocalBoundingBox returns the bounds of the leaf in
	// the space of its owner.
	LocalBoundingBox() linear.Box3
	// ContentFlags classifies the leaf.
	ContentFlags() ContentFlags
	// Clone returns a copy of the leaf with no owner.
	Clone() Leaf
	// SetProperty sets an animatable property.
	// It returns false if the leaf has no such property.
	SetProperty(name string, v mgl32.Vec4) bool

	base() *leafBase
}

// leafBase is embedded in every Leaf implementation.
type leafBase struct {
	graph *Graph
	node  Node
}

func (b *leafBase) base() *leafBase { return b }

func (b *leafBase) Node() Node {
	if b.graph == nil || !b.graph.Valid(b.node) {
		return Nil
	}
	return b.node
}

func (b *leafBase) Graph() *Graph {
	if b.Node() == Nil {
		return nil
	}
	return b.graph
}

func (b *leafBase) Name() string {
	if b.Node() == Nil {
		return ""
	}
	return b.graph.Name(b.node)
}

func (b *leafBase) LocalBoundingBox() linear.Box3 { return linear.EmptyBox() }

func (b *leafBase) ContentFlags() ContentFlags { return ContentNone }

func (b *leafBase) SetProperty(string, mgl32.Vec4) bool { return false }

// NewLeaf creates a leaf from the name of its type.
// Only cameras and lights can be created this way.
// It returns nil if typeName is not one of
// "DirectionalLight", "PointLight", "SpotLight",
// "PerspectiveCamera" or "OrthographicCamera".
func NewLeaf(typeName string) Leaf {
	switch typeName {
	case "DirectionalLight":
		return NewDirectionalLight()
	case "PointLight":
		return NewPointLight()
	case "SpotLight":
		return NewSpotLight()
	case "PerspectiveCamera":
		return NewPerspectiveCamera()
	case "OrthographicCamera":
		return NewOrthographicCamera()
	}
	return nil
}
