package logger

import (
	"context"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"
)

var packageDir = func() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Dir(file)
}()

type sourceHandler struct {
	handler  slog.Handler
	minLevel slog.Level
}

// NewSourceHandler attaches the caller location to records at or above
// minLevel. The wrapped handler should be built with AddSource off. Frames
// inside log/slog and this package are skipped so the location points at
// the code that called the logger, not at the Interface wrapper.
func NewSourceHandler(handler slog.Handler, minLevel slog.Level) slog.Handler {
	return &sourceHandler{handler: handler, minLevel: minLevel}
}

func (h *sourceHandler) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= h.minLevel {
		if src, ok := callerSource(); ok {
			r.AddAttrs(slog.Any(slog.SourceKey, src))
		}
	}
	return h.handler.Handle(ctx, r)
}

func (h *sourceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &sourceHandler{handler: h.handler.WithAttrs(attrs), minLevel: h.minLevel}
}

func (h *sourceHandler) WithGroup(name string) slog.Handler {
	return &sourceHandler{handler: h.handler.WithGroup(name), minLevel: h.minLevel}
}

func (h *sourceHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

func callerSource() (*slog.Source, bool) {
	var pcs [16]uintptr
	n := runtime.Callers(3, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])
	for {
		f, more := frames.Next()
		if !internalFrame(f) {
			return &slog.Source{Function: f.Function, File: f.File, Line: f.Line}, f.File != ""
		}
		if !more {
			return nil, false
		}
	}
}

func internalFrame(f runtime.Frame) bool {
	if strings.HasPrefix(f.Function, "log/slog.") {
		return true
	}
	return filepath.Dir(f.File) == packageDir && !strings.HasSuffix(f.File, "_test.go")
}
