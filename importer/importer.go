// Copyright 2023 Gustavo C. Viegas. All rights reserved.

// Package importer builds scene graph content from glTF
// documents.
package importer

import (
	"bytes"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
	pkgerrors "github.com/pkg/errors"

	"github.com/gviegas/scenegraph"
	"github.com/gviegas/scenegraph/gltf"
	"github.com/gviegas/scenegraph/linear"
	"github.com/gviegas/scenegraph/material"
	"github.com/gviegas/scenegraph/mesh"
)

const prefix = "importer: "

func newErr(reason string) error { return errors.New(prefix + reason) }

// importer holds the state of a single Import call.
type importer struct {
	g       *scenegraph.Graph
	doc     *gltf.GLTF
	buffers [][]byte

	// Indexed as in doc. Nodes that are not part of the
	// imported scene are Nil.
	nodes     []scenegraph.Node
	meshes    []*mesh.Mesh
	materials []*material.Material
	dflMat    *material.Material

	// Skinned instances and the nodes that own them,
	// in creation order.
	skinned []scenegraph.Node

	stats struct{ nodes, meshes, skins, animations int }
}

// Import adds the default scene of doc to g, under parent.
// buffers holds the contents of doc's buffers (see
// gltf.GLTF.LoadBuffers).
// If doc has no default scene, the first scene is used.
// If doc has no scenes at all, every root node is
// imported.
//
// The scene is placed under a new node, which Import
// returns. If parent is Nil, that node replaces the root
// of g. Animations are placed under it as well.
//
// doc is validated first, and nothing is added to g when
// an error is returned.
func Import(g *scenegraph.Graph, doc *gltf.GLTF, buffers [][]byte, parent scenegraph.Node) (scenegraph.Node, error) {
	if err := doc.Check(); err != nil {
		return scenegraph.Nil, pkgerrors.Wrap(err, prefix+"invalid document")
	}
	imp := &importer{
		g:         g,
		doc:       doc,
		buffers:   buffers,
		nodes:     make([]scenegraph.Node, len(doc.Nodes)),
		meshes:    make([]*mesh.Mesh, len(doc.Meshes)),
		materials: make([]*material.Material, len(doc.Materials)),
	}
	name, roots := imp.scene()
	top := g.NewNode(name)
	if err := imp.build(top, roots); err != nil {
		g.Destroy(top)
		return scenegraph.Nil, err
	}
	g.Attach(parent, top)
	scenegraph.Logger().Debug("imported glTF scene",
		"graph", g.ID().String(),
		"scene", name,
		"nodes", imp.stats.nodes,
		"meshes", imp.stats.meshes,
		"skins", imp.stats.skins,
		"animations", imp.stats.animations)
	return top, nil
}

// ImportFile decodes the glTF or GLB file at path and
// imports it as Import does.
// External buffers are resolved relative to the
// directory of path.
func ImportFile(g *scenegraph.Graph, path string, parent scenegraph.Node) (scenegraph.Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return scenegraph.Nil, pkgerrors.Wrap(err, prefix+"failed to read model")
	}
	var doc *gltf.GLTF
	var bin []byte
	if gltf.IsGLB(bytes.NewReader(data)) {
		doc, bin, err = gltf.DecodeGLB(bytes.NewReader(data))
	} else {
		doc, err = gltf.Decode(bytes.NewReader(data))
	}
	if err != nil {
		return scenegraph.Nil, pkgerrors.Wrapf(err, prefix+"failed to decode %s", path)
	}
	dir := filepath.Dir(path)
	buffers, err := doc.LoadBuffers(bin, func(uri string) ([]byte, error) {
		p, err := url.PathUnescape(uri)
		if err != nil {
			return nil, err
		}
		return os.ReadFile(filepath.Join(dir, filepath.FromSlash(p)))
	})
	if err != nil {
		return scenegraph.Nil, pkgerrors.Wrap(err, prefix+"failed to load buffers")
	}
	return Import(g, doc, buffers, parent)
}

// scene returns the name of the scene to import and its
// root nodes.
func (imp *importer) scene() (string, []int64) {
	doc := imp.doc
	switch {
	case doc.Scene != nil:
		s := &doc.Scenes[*doc.Scene]
		return sceneName(s.Name, *doc.Scene), s.Nodes
	case len(doc.Scenes) > 0:
		return sceneName(doc.Scenes[0].Name, 0), doc.Scenes[0].Nodes
	}
	child := make([]bool, len(doc.Nodes))
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			child[c] = true
		}
	}
	var roots []int64
	for i := range doc.Nodes {
		if !child[i] {
			roots = append(roots, int64(i))
		}
	}
	return "scene", roots
}

func sceneName(name string, i int64) string {
	if name != "" {
		return name
	}
	return "scene" + strconv.FormatInt(i, 10)
}

// build creates the nodes reachable from roots under top,
// which is detached, and then everything that refers to
// them.
func (imp *importer) build(top scenegraph.Node, roots []int64) error {
	for i := len(roots) - 1; i >= 0; i-- {
		imp.g.Attach(top, imp.node(roots[i]))
	}
	for i, n := range imp.nodes {
		if n == scenegraph.Nil {
			continue
		}
		if err := imp.leaves(n, &imp.doc.Nodes[i]); err != nil {
			return err
		}
	}
	for _, owner := range imp.skinned {
		imp.references(owner)
	}
	for i := range imp.doc.Animations {
		a, err := imp.animation(&imp.doc.Animations[i])
		if err != nil {
			return pkgerrors.Wrapf(err, prefix+"animation %d", i)
		}
		if a == nil {
			continue
		}
		name := imp.doc.Animations[i].Name
		if name == "" {
			name = "animation" + strconv.Itoa(i)
		}
		n := imp.g.NewNode(name)
		imp.g.SetLeaf(n, a)
		imp.g.Attach(top, n)
		imp.stats.animations++
	}
	return nil
}

// node creates the subgraph of doc.Nodes[i], detached.
func (imp *importer) node(i int64) scenegraph.Node {
	src := &imp.doc.Nodes[i]
	n := imp.g.NewNode(src.Name)
	imp.nodes[i] = n
	imp.stats.nodes++

	switch {
	case src.Matrix != nil:
		mf := mgl32.Mat4(*src.Matrix)
		m := linear.Double(&mf)
		t, r, s := linear.Decompose(&m)
		imp.g.SetTransform(n, &t, &r, &s)
	case src.Translation != nil || src.Rotation != nil || src.Scale != nil:
		var t *mgl64.Vec3
		var r *mgl64.Quat
		var s *mgl64.Vec3
		if v := src.Translation; v != nil {
			x := linear.Vec3Double(mgl32.Vec3(*v))
			t = &x
		}
		if q := src.Rotation; q != nil {
			x := linear.QuatDouble(mgl32.Quat{W: q[3], V: mgl32.Vec3{q[0], q[1], q[2]}})
			r = &x
		}
		if v := src.Scale; v != nil {
			x := linear.Vec3Double(mgl32.Vec3(*v))
			s = &x
		}
		imp.g.SetTransform(n, t, r, s)
	}

	// Children are prepended.
	for j := len(src.Children) - 1; j >= 0; j-- {
		imp.g.Attach(n, imp.node(src.Children[j]))
	}
	return n
}

// leaves creates the leaves of src and gives them to n.
// A node owns a single leaf, so a glTF node that carries
// more than one gets a child node for each extra leaf.
func (imp *importer) leaves(n scenegraph.Node, src *gltf.Node) error {
	var ls []scenegraph.Leaf
	if src.Mesh != nil {
		m, err := imp.mesh(*src.Mesh)
		if err != nil {
			return err
		}
		if src.Skin != nil {
			inst, err := imp.skin(m, *src.Skin)
			if err != nil {
				return err
			}
			ls = append(ls, inst)
		} else {
			ls = append(ls, scenegraph.NewMeshInstance(m))
		}
	}
	if src.Camera != nil {
		ls = append(ls, camera(&imp.doc.Cameras[*src.Camera]))
	}
	if i, ok := src.Light(); ok {
		ls = append(ls, light(&imp.doc.Lights()[i]))
	}
	for i, l := range ls {
		owner := n
		if i > 0 || imp.g.Leaf(n) != nil {
			owner = imp.g.NewNode("")
			imp.g.Attach(n, owner)
		}
		imp.g.SetLeaf(owner, l)
		if _, ok := l.(*scenegraph.SkinnedMeshInstance); ok {
			imp.skinned = append(imp.skinned, owner)
		}
	}
	return nil
}

// references makes every joint node of the skinned
// instance owned by owner refer to it.
// The reference is the joint's own leaf unless the joint
// already has one, in which case it goes on a child node.
func (imp *importer) references(owner scenegraph.Node) {
	inst := imp.g.Leaf(owner).(*scenegraph.SkinnedMeshInstance)
	for _, j := range inst.Joints {
		switch {
		case j.Node == scenegraph.Nil:
		case imp.g.Leaf(j.Node) == nil:
			imp.g.SetLeaf(j.Node, scenegraph.NewSkinnedMeshReference(owner))
		default:
			imp.g.AttachLeafNode(j.Node, scenegraph.NewSkinnedMeshReference(owner))
		}
	}
}

// skin creates a skinned instance of m whose joints are
// given by doc.Skins[i]. Joints outside of the imported
// scene are Nil.
func (imp *importer) skin(m *mesh.Mesh, i int64) (*scenegraph.SkinnedMeshInstance, error) {
	src := &imp.doc.Skins[i]
	inst := scenegraph.NewSkinnedMeshInstance(m)
	inst.Joints = make([]scenegraph.SkinnedMeshJoint, len(src.Joints))
	var ibm []float32
	if src.InverseBindMatrices != nil {
		var err error
		var n int
		ibm, n, err = imp.doc.ReadFloats(*src.InverseBindMatrices, imp.buffers)
		switch {
		case err != nil:
			return nil, pkgerrors.Wrapf(err, prefix+"skin %d", i)
		case n != 16 || len(ibm) < 16*len(src.Joints):
			return nil, newErr("invalid inverse bind matrices in skin " + strconv.FormatInt(i, 10))
		}
	}
	for k, j := range src.Joints {
		jt := &inst.Joints[k]
		jt.Node = imp.nodes[j]
		jt.InverseBind = mgl32.Ident4()
		if ibm != nil {
			copy(jt.InverseBind[:], ibm[16*k:16*k+16])
		}
	}
	imp.stats.skins++
	return inst, nil
}
