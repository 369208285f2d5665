// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package scenegraph

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler discards every record.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var loggerPtr atomic.Pointer[slog.Logger]

func init() { loggerPtr.Store(slog.New(nopHandler{})) }

// SetLogger sets the logger used by the package.
// By default, nothing is logged.
// Passing nil restores the default.
//
// Levels in use:
//   - [slog.LevelDebug]: attach, detach and refresh statistics
//   - [slog.LevelInfo]: output of Print
//   - [slog.LevelWarn]: animation channels that could not be applied
//
// It is safe to call SetLogger concurrently with logging.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
}

// Logger returns the logger used by the package.
func Logger() *slog.Logger { return loggerPtr.Load() }
