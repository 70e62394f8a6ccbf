// Package logx holds the structured logger shared by the measurement pipeline.
package logx

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler discards every record; Enabled returns false so callers skip formatting.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

var current atomic.Pointer[slog.Logger]

func init() {
	current.Store(slog.New(nopHandler{}))
}

// SetLogger installs the logger used by all packages of this module.
// Passing nil restores the silent default. Safe for concurrent use.
//
// Levels:
//   - Debug: per-entity resolution failures, batch sizes
//   - Info: orchestrator lifecycle, rendered frames, scene reloads
//   - Warn: axis-exclusion warnings, sink failures
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	current.Store(l)
}

// Logger returns the active logger
func Logger() *slog.Logger {
	return current.Load()
}
