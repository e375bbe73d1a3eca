// Package logging provides the structured logger shared by the gate core,
// the chat loop, and the evaluation tooling. It wraps slog with leveled
// json/text handlers and component scoping.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger defines a minimal, printf-style logging contract so packages can
// depend on this package without caring about the backing handler.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Config configures the logger backend.
type Config struct {
	Level  string    // debug, info, warn, error
	Format string    // json, text
	Output io.Writer // defaults to stderr
}

type slogLogger struct {
	logger *slog.Logger
}

// New creates a structured logger from config.
func New(config Config) Logger {
	level := slog.LevelInfo
	switch strings.ToLower(config.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	output := config.Output
	if output == nil {
		output = os.Stderr
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if strings.EqualFold(config.Format, "json") {
		handler = slog.NewJSONHandler(output, opts)
	} else {
		handler = slog.NewTextHandler(output, opts)
	}

	return &slogLogger{logger: slog.New(handler)}
}

func (l *slogLogger) Debug(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l *slogLogger) Info(format string, args ...any) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *slogLogger) Warn(format string, args ...any) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *slogLogger) Error(format string, args ...any) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

type componentLogger struct {
	base      Logger
	component string
}

// WithComponent scopes a logger to a named component. Messages are prefixed
// with the component so mixed output stays attributable.
func WithComponent(base Logger, component string) Logger {
	if IsNil(base) {
		return Nop()
	}
	return &componentLogger{base: base, component: component}
}

func (l *componentLogger) Debug(format string, args ...any) {
	l.base.Debug("["+l.component+"] "+format, args...)
}

func (l *componentLogger) Info(format string, args ...any) {
	l.base.Info("["+l.component+"] "+format, args...)
}

func (l *componentLogger) Warn(format string, args ...any) {
	l.base.Warn("["+l.component+"] "+format, args...)
}

func (l *componentLogger) Error(format string, args ...any) {
	l.base.Error("["+l.component+"] "+format, args...)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// Nop returns a logger that discards all output.
func Nop() Logger {
	return nopLogger{}
}

// IsNil reports whether logger is nil (including a typed nil interface).
func IsNil(logger Logger) bool {
	if logger == nil {
		return true
	}
	if l, ok := logger.(*slogLogger); ok {
		return l == nil
	}
	if l, ok := logger.(*componentLogger); ok {
		return l == nil
	}
	return false
}

// OrNop returns logger when non-nil, otherwise a no-op logger.
func OrNop(logger Logger) Logger {
	if IsNil(logger) {
		return Nop()
	}
	return logger
}
