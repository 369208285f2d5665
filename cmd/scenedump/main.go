// Copyright 2023 Gustavo C. Viegas. All rights reserved.

// Scenedump imports a glTF model into a scene graph,
// simulates a number of frames and prints the resulting
// graph.
//
// Usage:
//
//	scenedump [-config file] [-frames n] model.gltf|model.glb
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/muesli/termenv"

	"github.com/gviegas/scenegraph"
	"github.com/gviegas/scenegraph/config"
	"github.com/gviegas/scenegraph/importer"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("scenedump", flag.ContinueOnError)
	fs.SetOutput(stderr)
	cfgPath := fs.String("config", "", "configuration file (.yaml or .toml)")
	frames := fs.Int("frames", -1, "number of frames to simulate")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: scenedump [-config file] [-frames n] model.gltf|model.glb")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintln(stderr, "scenedump:", err)
		return 1
	}
	if *frames >= 0 {
		cfg.Dump.Frames = *frames
	}
	scenegraph.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{
		Level: cfg.Graph.Level(),
	})))
	defer scenegraph.SetLogger(nil)

	g := scenegraph.New(&cfg.Graph)
	if _, err := importer.ImportFile(g, fs.Arg(0), g.Root()); err != nil {
		fmt.Fprintln(stderr, "scenedump:", err)
		return 1
	}
	for i := 0; i < cfg.Dump.Frames; i++ {
		t := float32(i) * cfg.Dump.FrameTime
		if n := g.ApplyAnimations(t); n > 0 {
			scenegraph.Logger().Warn("animations not fully applied",
				"graph", g.ID().String(),
				"frame", i,
				"count", n)
		}
		g.Refresh(uint32(i))
	}
	dump(g, newOutput(stdout, cfg.Dump.Color))
	return 0
}

func newOutput(w io.Writer, color bool) *termenv.Output {
	if !color {
		return termenv.NewOutput(w, termenv.WithProfile(termenv.Ascii))
	}
	return termenv.NewOutput(w)
}

// dump writes the graph one node per line.
// Names are bold, leaf types and content flags are
// colored, and channel lines are faint.
func dump(g *scenegraph.Graph, out *termenv.Output) {
	leafColor := out.Color("6")
	boxColor := out.Color("2")
	for _, l := range g.Describe(g.Root()) {
		var b strings.Builder
		b.WriteString(strings.Repeat("  ", l.Depth))
		if l.Node == scenegraph.Nil {
			b.WriteString(out.String(l.Name + " " + l.Detail).Faint().String())
			fmt.Fprintln(out, b.String())
			continue
		}
		b.WriteString(out.String(l.Name).Bold().String())
		for _, f := range strings.Fields(l.Detail) {
			b.WriteByte(' ')
			switch {
			case strings.HasPrefix(f, "["):
				b.WriteString(out.String(f).Foreground(leafColor).String())
			case strings.HasPrefix(f, "content="):
				b.WriteString(out.String(f).Foreground(boxColor).String())
			default:
				b.WriteString(f)
			}
		}
		fmt.Fprintln(out, b.String())
	}
}
