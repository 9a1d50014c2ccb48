// Package applog is a small, dependency-free logging wrapper. No repo in the
// retrieval pack reaches for a structured logging library for its own code
// (see DESIGN.md), so this follows the teacher's `fmt.Fprintf(os.Stderr, ...)`
// convention and ergs's `pkg/log` service-prefix idea rather than introduce
// one.
package applog

import (
	"fmt"
	"log"
	"os"
	"sync/atomic"
)

var debug atomic.Bool

// SetDebug toggles verbose logging, driven by SWEETLINK_DEBUG.
func SetDebug(v bool) {
	debug.Store(v)
}

// Debugging reports whether verbose logging is currently enabled.
func Debugging() bool {
	return debug.Load()
}

// Logger is a component-scoped logger, e.g. applog.For("bridge").
type Logger struct {
	component string
	std       *log.Logger
}

// For returns a logger that prefixes every line with [component].
func For(component string) *Logger {
	return &Logger{
		component: component,
		std:       log.New(os.Stderr, "", log.LstdFlags),
	}
}

func (l *Logger) Infof(format string, args ...any) {
	l.std.Printf("[%s] "+format, append([]any{l.component}, args...)...)
}

func (l *Logger) Warnf(format string, args ...any) {
	l.std.Printf("[%s] WARN "+format, append([]any{l.component}, args...)...)
}

func (l *Logger) Errorf(format string, args ...any) {
	l.std.Printf("[%s] ERROR "+format, append([]any{l.component}, args...)...)
}

func (l *Logger) Debugf(format string, args ...any) {
	if !Debugging() {
		return
	}
	l.std.Printf("[%s] DEBUG "+format, append([]any{l.component}, args...)...)
}

// Fprintf is a convenience for one-off stderr writes in places that don't
// warrant their own Logger (mirrors the teacher's direct os.Stderr usage).
func Fprintf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format, args...)
}
