// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gviegas/scenegraph/config"
)

const model = `{
	"asset": {"version": "2.0"},
	"scene": 0,
	"scenes": [{"name": "room", "nodes": [0]}],
	"nodes": [
		{"name": "rig", "translation": [1, 2, 3], "children": [1]},
		{"name": "eye", "camera": 0}
	],
	"cameras": [{"type": "perspective", "perspective": {"yfov": 1, "znear": 0.1}}]
}`

func writeFile(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func TestRun(t *testing.T) {
	t.Setenv(config.EnvPath, "")
	path := writeFile(t, "room.gltf", model)
	cfg := writeFile(t, "c.yaml", "dump:\n  frames: 3\n  color: false\n")

	var stdout, stderr bytes.Buffer
	require.Equal(t, 0, run([]string{"-config", cfg, path}, &stdout, &stderr), stderr.String())

	lines := strings.Split(strings.TrimSuffix(stdout.String(), "\n"), "\n")
	require.Len(t, lines, 4, stdout.String())
	assert.True(t, strings.HasPrefix(lines[1], "  room"), lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "    rig t=(1 2 3) s=(1 1 1)"), lines[2])
	assert.True(t, strings.HasPrefix(lines[3], "      eye [PerspectiveCamera]"), lines[3])
	assert.NotContains(t, stdout.String(), "\x1b[")
	assert.Empty(t, stderr.String())
}

func TestRunLogLevel(t *testing.T) {
	t.Setenv(config.EnvPath, writeFile(t, "c.toml", "[graph]\nlogLevel = \"debug\"\n"))
	path := writeFile(t, "room.gltf", model)

	var stdout, stderr bytes.Buffer
	require.Equal(t, 0, run([]string{"-frames", "0", path}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "imported glTF scene")
	assert.Contains(t, stdout.String(), "eye")
}

func TestRunErrors(t *testing.T) {
	t.Setenv(config.EnvPath, "")
	path := writeFile(t, "room.gltf", model)
	for _, x := range [...]struct {
		args []string
		code int
		msg  string
	}{
		{nil, 2, "usage"},
		{[]string{"-frames"}, 2, "flag needs an argument"},
		{[]string{path, path}, 2, "usage"},
		{[]string{filepath.Join(t.TempDir(), "missing.glb")}, 1, "failed to read model"},
		{[]string{"-config", "c.ini", path}, 1, "unknown file format"},
		{[]string{writeFile(t, "bad.gltf", `{"asset": {"version": "1.0"}}`)}, 1, "importer: "},
	} {
		var stdout, stderr bytes.Buffer
		assert.Equal(t, x.code, run(x.args, &stdout, &stderr), "args %q", x.args)
		assert.Contains(t, stderr.String(), x.msg, "args %q", x.args)
		assert.Empty(t, stdout.String())
	}
}
