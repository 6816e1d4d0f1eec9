package hud

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler is a slog.Handler that discards all records. Enabled returns
// false so callers skip formatting entirely.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger configures the package logger used by managers created without
// WithLogger. By default hud produces no log output. Pass nil to restore the
// silent default.
//
// Log levels used by hud:
//   - [slog.LevelDebug]: per-tick statistics, arena growth
//   - [slog.LevelInfo]: manager start and shutdown
//   - [slog.LevelWarn]: arena overflow, mesh sink failures
//
// SetLogger is safe for concurrent use.
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger returns the package logger. Sub-packages call it to share the same
// configuration.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
