// Package logging provides the slog-backed logger used throughout the
// value storage subsystem.
package logging

import (
	"log/slog"
	"os"
)

type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type slogLogger struct {
	logger *slog.Logger
}

// New builds the default logger, writing text-formatted records to stderr
// at the given minimum level.
func New(level slog.Level) Logger {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	return &slogLogger{logger: logger}
}

const prefix = "[valuestore] "

func (l *slogLogger) Debug(msg string, args ...any) { l.logger.Debug(prefix+msg, args...) }
func (l *slogLogger) Info(msg string, args ...any)  { l.logger.Info(prefix+msg, args...) }
func (l *slogLogger) Warn(msg string, args ...any)  { l.logger.Warn(prefix+msg, args...) }
func (l *slogLogger) Error(msg string, args ...any) { l.logger.Error(prefix+msg, args...) }

// Nop is a logger that discards everything, used as the default when a
// caller does not supply one.
var Nop Logger = &nopLogger{}

type nopLogger struct{}

func (*nopLogger) Debug(string, ...any) {}
func (*nopLogger) Info(string, ...any)  {}
func (*nopLogger) Warn(string, ...any)  {}
func (*nopLogger) Error(string, ...any) {}
