// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package scenegraph

import (
	"fmt"
	"reflect"
	"strings"
)

// PrintLine describes one line of a graph dump.
type PrintLine struct {
	Depth int
	// Node is Nil for lines that describe animation
	// channels.
	Node   Node
	Name   string
	Detail string
}

// String implements fmt.Stringer.
func (l PrintLine) String() string {
	indent := strings.Repeat("  ", l.Depth)
	if l.Detail == "" {
		return indent + l.Name
	}
	return indent + l.Name + " " + l.Detail
}

// Describe returns a dump of the subgraph of n, one line
// per node in pre-order, plus one line per channel of
// each animation.
func (g *Graph) Describe(n Node) []PrintLine {
	var lines []PrintLine
	depth := 0
	for w := NewWalker(g, n); w.Valid(); {
		cur := w.Node()
		d := g.get(cur)
		name := d.name
		if name == "" {
			name = "<" + cur.String() + ">"
		}
		var detail []string
		if d.leaf != nil {
			detail = append(detail, "["+reflect.TypeOf(d.leaf).Elem().Name()+"]")
		}
		if d.hasLocal {
			t, s := d.translation, d.scaling
			detail = append(detail, fmt.Sprintf("t=(%g %g %g) s=(%g %g %g)", t[0], t[1], t[2], s[0], s[1], s[2]))
		}
		if !d.bbox.IsEmpty() {
			detail = append(detail, fmt.Sprintf("bbox=(%.3g %.3g %.3g)-(%.3g %.3g %.3g)",
				d.bbox.Min[0], d.bbox.Min[1], d.bbox.Min[2], d.bbox.Max[0], d.bbox.Max[1], d.bbox.Max[2]))
		}
		if d.subgraphContent != ContentNone {
			detail = append(detail, "content="+d.subgraphContent.String())
		}
		lines = append(lines, PrintLine{Depth: depth, Node: cur, Name: name, Detail: strings.Join(detail, " ")})

		if a, ok := d.leaf.(*Animation); ok {
			for _, c := range a.channels {
				lines = append(lines, PrintLine{Depth: depth + 1, Name: "channel", Detail: g.describeChannel(c)})
			}
		}
		depth += w.Next(true)
	}
	return lines
}

func (g *Graph) describeChannel(c *Channel) string {
	var target string
	switch {
	case c.material != nil:
		target = "material " + c.material.Name
	case g.Valid(c.node):
		target = g.Path(c.node)
	default:
		target = "<expired>"
	}
	attr := c.attr.String()
	if c.attr == AttrLeafProperty {
		attr = c.property
	}
	if c.sampler == nil {
		return fmt.Sprintf("%s (%s): no sampler", target, attr)
	}
	return fmt.Sprintf("%s (%s): %d keyframes, %s, %g - %g", target, attr,
		c.sampler.Len(), c.sampler.Mode(), c.sampler.StartTime(), c.sampler.EndTime())
}

// Print logs the dump of the subgraph of n at the info
// level.
func (g *Graph) Print(n Node) {
	log := Logger()
	for _, l := range g.Describe(n) {
		log.Info(l.String(), "graph", g.id.String())
	}
}
