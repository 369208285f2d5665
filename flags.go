// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package scenegraph

import "strings"

// DirtyFlags describes what changed in a node and in
// its subgraph since the last call to Graph.Refresh.
type DirtyFlags uint32

// Dirty flags.
const (
	DirtyLocalTransform DirtyFlags = 1 << iota
	DirtyPrevTransform
	DirtyLeaf
	DirtySubgraphStructure
	DirtySubgraphTransforms
	DirtySubgraphPrevTransforms
	DirtySubgraphContentUpdate

	DirtySubgraphMask = DirtySubgraphStructure | DirtySubgraphTransforms | DirtySubgraphPrevTransforms | DirtySubgraphContentUpdate
	DirtyNone         DirtyFlags = 0
)

var dirtyNames = [...]string{
	"LocalTransform",
	"PrevTransform",
	"Leaf",
	"SubgraphStructure",
	"SubgraphTransforms",
	"SubgraphPrevTransforms",
	"SubgraphContentUpdate",
}

// String implements fmt.Stringer.
func (f DirtyFlags) String() string { return flagString(uint32(f), dirtyNames[:]) }

// ContentFlags classifies the content of a leaf or
// of a whole subgraph.
type ContentFlags uint32

// Content flags.
const (
	ContentOpaqueMeshes ContentFlags = 1 << iota
	ContentAlphaTestedMeshes
	ContentBlendedMeshes
	ContentLights
	ContentCameras
	ContentAnimations

	ContentNone ContentFlags = 0
)

var contentNames = [...]string{
	"OpaqueMeshes",
	"AlphaTestedMeshes",
	"BlendedMeshes",
	"Lights",
	"Cameras",
	"Animations",
}

// String implements fmt.Stringer.
func (f ContentFlags) String() string { return flagString(uint32(f), contentNames[:]) }

func flagString(f uint32, names []string) string {
	if f == 0 {
		return "None"
	}
	var sb strings.Builder
	for i, s := range names {
		if f&(1<<i) == 0 {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte('|')
		}
		sb.WriteString(s)
		f &^= 1 << i
	}
	if f != 0 {
		if sb.Len() > 0 {
			sb.WriteByte('|')
		}
		sb.WriteString("?")
	}
	return sb.String()
}
