// Package logging normalizes caller-supplied logging capabilities into a
// uniform four-level interface used by every other package.
//
// MCP hosts hand the server different things to log with: a real structured
// logger, or a bare message callback with no level methods at all. New
// probes the capability once at construction time and returns a Logger
// backed by whichever variant matches. The callback variant mirrors every
// record to stderr because the host's sink may be invisible to operators
// (stdout is reserved for the MCP protocol).
package logging

import (
	"fmt"
	"log"
	"os"

	"go.uber.org/zap"
)

// Logger is the narrow logging contract the core packages depend on.
// No level is ever filtered by implementations in this package.
type Logger interface {
	Debug(msg string)
	Info(msg string)
	Warn(msg string)
	Error(msg string)
}

// stderr is the always-available secondary channel. Stdout carries the MCP
// protocol and must never receive log output.
var stderr = log.New(os.Stderr, "", log.LstdFlags)

// New adapts capability into a Logger. Three variants:
//   - capability already satisfies Logger: used unchanged
//   - capability is a func(string): every level invokes the callback and
//     mirrors the tagged message to stderr
//   - anything else (including nil): stderr-only sink
func New(capability any) Logger {
	switch v := capability.(type) {
	case Logger:
		return v
	case func(string):
		return &callbackLogger{cb: v}
	default:
		return &stderrLogger{}
	}
}

// FromZap wraps a zap logger in the Logger interface.
func FromZap(l *zap.Logger) Logger {
	return &zapLogger{l: l}
}

type zapLogger struct {
	l *zap.Logger
}

func (z *zapLogger) Debug(msg string) { z.l.Debug(msg) }
func (z *zapLogger) Info(msg string)  { z.l.Info(msg) }
func (z *zapLogger) Warn(msg string)  { z.l.Warn(msg) }
func (z *zapLogger) Error(msg string) { z.l.Error(msg) }

// callbackLogger wraps a single free-form log callback. Each level calls
// the original callback with the message and mirrors it to stderr tagged
// with the level name.
type callbackLogger struct {
	cb func(string)
}

func (c *callbackLogger) emit(level, msg string) {
	c.cb(msg)
	stderr.Printf("[%s] %s", level, msg)
}

func (c *callbackLogger) Debug(msg string) { c.emit("DEBUG", msg) }
func (c *callbackLogger) Info(msg string)  { c.emit("INFO", msg) }
func (c *callbackLogger) Warn(msg string)  { c.emit("WARNING", msg) }
func (c *callbackLogger) Error(msg string) { c.emit("ERROR", msg) }

// stderrLogger writes only to the secondary channel.
type stderrLogger struct{}

func (s *stderrLogger) Debug(msg string) { stderr.Printf("[DEBUG] %s", msg) }
func (s *stderrLogger) Info(msg string)  { stderr.Printf("[INFO] %s", msg) }
func (s *stderrLogger) Warn(msg string)  { stderr.Printf("[WARNING] %s", msg) }
func (s *stderrLogger) Error(msg string) { stderr.Printf("[ERROR] %s", msg) }

// Formatting helpers for call sites that build messages.

// Debugf logs a formatted message at debug level.
func Debugf(l Logger, format string, args ...any) {
	l.Debug(fmt.Sprintf(format, args...))
}

// Infof logs a formatted message at info level.
func Infof(l Logger, format string, args ...any) {
	l.Info(fmt.Sprintf(format, args...))
}

// Warnf logs a formatted message at warning level.
func Warnf(l Logger, format string, args ...any) {
	l.Warn(fmt.Sprintf(format, args...))
}

// Errorf logs a formatted message at error level.
func Errorf(l Logger, format string, args ...any) {
	l.Error(fmt.Sprintf(format, args...))
}
