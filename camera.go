// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package scenegraph

import (
	"encoding/json"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/jinzhu/copier"
	"github.com/pkg/errors"

	"github.com/gviegas/scenegraph/linear"
)

// Camera is a leaf that defines a view into the graph.
// Cameras look down the negative Z axis of their owner.
type Camera interface {
	Leaf
	// ViewToWorld returns the transform from view space
	// to world space.
	ViewToWorld() mgl32.Mat4
	// WorldToView returns the transform from world space
	// to view space.
	WorldToView() mgl32.Mat4

	camera()
}

type cameraBase struct{ leafBase }

func (*cameraBase) camera() {}

func (*cameraBase) ContentFlags() ContentFlags { return ContentCameras }

var flipZ = mgl64.Scale3D(1, 1, -1)

func (c *cameraBase) ViewToWorld() mgl32.Mat4 {
	if c.Node() == Nil {
		return mgl32.Ident4()
	}
	m := c.graph.get(c.node).global.Mul4(flipZ)
	return linear.Float(&m)
}

func (c *cameraBase) WorldToView() mgl32.Mat4 {
	if c.Node() == Nil {
		return mgl32.Ident4()
	}
	m := flipZ.Mul4(c.graph.get(c.node).global.Inv())
	return linear.Float(&m)
}

// PerspectiveCamera is a camera with a perspective
// projection.
type PerspectiveCamera struct {
	cameraBase
	ZNear float32 `json:"zNear"`
	// ZFar is nil for an infinite projection.
	ZFar        *float32 `json:"zFar,omitempty"`
	VerticalFOV float32  `json:"verticalFov"`
	// AspectRatio is nil when it should follow the
	// viewport.
	AspectRatio *float32 `json:"aspectRatio,omitempty"`
}

// NewPerspectiveCamera creates a new perspective camera
// with default properties.
func NewPerspectiveCamera() *PerspectiveCamera {
	return &PerspectiveCamera{ZNear: 1, VerticalFOV: 1}
}

// Clone implements Leaf.
func (c *PerspectiveCamera) Clone() Leaf { return cloneLeaf(c) }

// Load sets the properties of c from JSON data.
// Properties absent from data are left unchanged.
func (c *PerspectiveCamera) Load(data []byte) error { return loadLeaf(c, data) }

// Store encodes the properties of c as JSON.
func (c *PerspectiveCamera) Store() ([]byte, error) {
	return storeLeaf(struct {
		Type string `json:"type"`
		*PerspectiveCamera
	}{"PerspectiveCamera", c})
}

// OrthographicCamera is a camera with an orthographic
// projection.
type OrthographicCamera struct {
	cameraBase
	ZNear float32 `json:"zNear"`
	ZFar  float32 `json:"zFar"`
	XMag  float32 `json:"xMag"`
	YMag  float32 `json:"yMag"`
}

// NewOrthographicCamera creates a new orthographic camera
// with default properties.
func NewOrthographicCamera() *OrthographicCamera {
	return &OrthographicCamera{ZNear: 0, ZFar: 1, XMag: 1, YMag: 1}
}

// Clone implements Leaf.
func (c *OrthographicCamera) Clone() Leaf { return cloneLeaf(c) }

// Load sets the properties of c from JSON data.
// Properties absent from data are left unchanged.
func (c *OrthographicCamera) Load(data []byte) error { return loadLeaf(c, data) }

// Store encodes the properties of c as JSON.
func (c *OrthographicCamera) Store() ([]byte, error) {
	return storeLeaf(struct {
		Type string `json:"type"`
		*OrthographicCamera
	}{"OrthographicCamera", c})
}

// cloneLeaf copies the exported properties of l into a
// new leaf with no owner.
func cloneLeaf[T any, P interface {
	*T
	Leaf
}](l P) Leaf {
	c := P(new(T))
	if err := copier.CopyWithOption(c, l, copier.Option{DeepCopy: true}); err != nil {
		panic(prefix + "leaf copy failed: " + err.Error())
	}
	*c.base() = leafBase{}
	return c
}

func loadLeaf(l Leaf, data []byte) error {
	if err := json.Unmarshal(data, l); err != nil {
		return errors.Wrap(err, prefix+"failed to load leaf")
	}
	return nil
}

func storeLeaf(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, prefix+"failed to store leaf")
	}
	return data, nil
}
