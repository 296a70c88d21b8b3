package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/lmittmann/tint"
	"golang.org/x/term"

	sharedConfig "github.com/tillgate/tillgate/internal/shared/config"
)

var (
	defaultLogger *slog.Logger
	defaultMu     sync.RWMutex
	output        io.Closer
)

// Init configures the process-wide logger. Warnings and errors carry their
// source location; in debug mode every level does.
func Init(cfg *sharedConfig.LoggerConfig, mode string) error {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return err
	}

	writer, closer, err := openOutput(cfg.OutputPath)
	if err != nil {
		return err
	}

	sourceLevel := slog.LevelWarn
	if mode == "debug" {
		sourceLevel = slog.LevelDebug
	}

	l := slog.New(newHandler(writer, cfg.Format, level, sourceLevel))

	defaultMu.Lock()
	defaultLogger = l
	output = closer
	defaultMu.Unlock()

	slog.SetDefault(l)
	return nil
}

// ParseLevel maps a config level name onto slog. Empty means info.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
}

func openOutput(path string) (io.Writer, io.Closer, error) {
	switch strings.ToLower(path) {
	case "stdout", "":
		return os.Stdout, nil, nil
	case "stderr":
		return os.Stderr, nil, nil
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return file, file, nil
}

// newHandler builds a JSON handler for "json" and a tint console handler
// otherwise. Colors are only used on a terminal.
func newHandler(w io.Writer, format string, level, sourceLevel slog.Level) slog.Handler {
	if format == "json" {
		return NewSourceHandler(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}), sourceLevel)
	}

	return NewSourceHandler(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.DateTime,
		NoColor:    !isTerminal(w),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == "error" && a.Value.Kind() == slog.KindAny {
				if err, ok := a.Value.Any().(error); ok {
					return tint.Err(err)
				}
			}
			return a
		},
	}), sourceLevel)
}

func isTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}

// Get returns the process logger, falling back to an info-level console
// logger on stdout when Init has not run.
func Get() *slog.Logger {
	defaultMu.RLock()
	l := defaultLogger
	defaultMu.RUnlock()
	if l != nil {
		return l
	}

	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultLogger == nil {
		defaultLogger = slog.New(newHandler(os.Stdout, "console", slog.LevelInfo, slog.LevelWarn))
	}
	return defaultLogger
}

func Debug(msg string, args ...any) {
	Get().Debug(msg, args...)
}

func Info(msg string, args ...any) {
	Get().Info(msg, args...)
}

func Warn(msg string, args ...any) {
	Get().Warn(msg, args...)
}

func Error(msg string, args ...any) {
	Get().Error(msg, args...)
}

// Sync closes the log file opened by Init, if any.
func Sync() error {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if output == nil {
		return nil
	}
	err := output.Close()
	output = nil
	return err
}
