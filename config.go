// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package scenegraph

import (
	"log/slog"
	"strings"
)

const dflInitialNodes = 256

// Config is used to configure a Graph.
type Config struct {
	// The number of node slots to reserve up front.
	//
	// Default is 256.
	InitialNodes int `yaml:"initialNodes" toml:"initialNodes"`

	// Whether animations hold their last value
	// past their end time.
	//
	// Default is true.
	ExtrapolateAnimations bool `yaml:"extrapolateAnimations" toml:"extrapolateAnimations"`

	// The minimum level of records logged by
	// tools built on the package.
	// One of "debug", "info", "warn" or "error".
	//
	// Default is "warn".
	LogLevel string `yaml:"logLevel" toml:"logLevel"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		InitialNodes:          dflInitialNodes,
		ExtrapolateAnimations: true,
		LogLevel:              "warn",
	}
}

// Level converts c.LogLevel to a slog.Level.
// Unknown names map to slog.LevelWarn.
func (c *Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
