// Copyright 2023 Gustavo C. Viegas. All rights reserved.

// Package config loads the configuration of tools built on
// the scene graph.
//
// Configuration files are YAML (.yaml, .yml) or TOML
// (.toml). Keys that a file omits keep their default
// values.
package config

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	pkgerrors "github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/gviegas/scenegraph"
)

const prefix = "config: "

func newErr(reason string) error { return errors.New(prefix + reason) }

// EnvPath is the environment variable consulted by Load
// when no path is given.
const EnvPath = "SCENEGRAPH_CONFIG"

// Config is the configuration of a tool.
type Config struct {
	Graph scenegraph.Config `yaml:"graph" toml:"graph"`
	Dump  Dump              `yaml:"dump" toml:"dump"`
}

// Dump configures the scene dump tool.
type Dump struct {
	// The number of frames to simulate before printing.
	// Each frame applies animations and refreshes the graph.
	//
	// Default is 1.
	Frames int `yaml:"frames" toml:"frames"`

	// The duration of a frame in seconds.
	//
	// Default is 1/60.
	FrameTime float32 `yaml:"frameTime" toml:"frameTime"`

	// Whether to style the output when writing to
	// a terminal.
	//
	// Default is true.
	Color bool `yaml:"color" toml:"color"`
}

const (
	dflFrames    = 1
	dflFrameTime = 1.0 / 60
)

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Graph: scenegraph.DefaultConfig(),
		Dump: Dump{
			Frames:    dflFrames,
			FrameTime: dflFrameTime,
			Color:     true,
		},
	}
}

type format int

const (
	formatYAML format = iota
	formatTOML
)

func formatOf(path string) (format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return formatYAML, nil
	case ".toml":
		return formatTOML, nil
	}
	return 0, newErr("unknown file format: " + path)
}

// Load loads the configuration file at path.
// If path is empty, the file named by $SCENEGRAPH_CONFIG
// is loaded instead, and if that is not set, the default
// configuration is returned.
func Load(path string) (*Config, error) {
	if path == "" {
		if path = os.Getenv(EnvPath); path == "" {
			return Default(), nil
		}
	}
	f, err := formatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, pkgerrors.Wrap(err, prefix+"failed to read file")
	}
	return decode(data, f)
}

// Parse parses YAML or TOML data, as selected by ext
// (a file name extension such as ".toml").
func Parse(data []byte, ext string) (*Config, error) {
	f, err := formatOf(ext)
	if err != nil {
		return nil, err
	}
	return decode(data, f)
}

func decode(data []byte, f format) (*Config, error) {
	c := Default()
	switch f {
	case formatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
			return nil, pkgerrors.Wrap(err, prefix+"failed to parse YAML")
		}
	case formatTOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(c); err != nil {
			return nil, pkgerrors.Wrap(err, prefix+"failed to parse TOML")
		}
	}
	c.applyDefaults()
	return c, nil
}

// applyDefaults replaces values that are out of range.
func (c *Config) applyDefaults() {
	if c.Graph.InitialNodes <= 0 {
		c.Graph.InitialNodes = scenegraph.DefaultConfig().InitialNodes
	}
	if c.Graph.LogLevel == "" {
		c.Graph.LogLevel = scenegraph.DefaultConfig().LogLevel
	}
	if c.Dump.Frames < 0 {
		c.Dump.Frames = dflFrames
	}
	if c.Dump.FrameTime <= 0 {
		c.Dump.FrameTime = dflFrameTime
	}
}

// Save writes c to path, in the format given by the
// extension of path.
func (c *Config) Save(path string) error {
	f, err := formatOf(path)
	if err != nil {
		return err
	}
	var data []byte
	if f == formatTOML {
		data, err = toml.Marshal(c)
	} else {
		data, err = yaml.Marshal(c)
	}
	if err != nil {
		return pkgerrors.Wrap(err, prefix+"failed to encode")
	}
	if err = os.WriteFile(path, data, 0o644); err != nil {
		return pkgerrors.Wrap(err, prefix+"failed to write file")
	}
	return nil
}
