// Package logger writes yase's diagnostics to stderr. Nothing is printed
// unless verbose mode is enabled with --verbose; regular runs show only
// progress and the final status.
//
// Messages are usually tagged with the pipeline stage they come from:
//
//	log := logger.For(domain.StageTable)
//	defer log.Begin()()
//	log.Info("%d entries", n)
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"yase/internal/domain"
)

type level int

const (
	levelDebug level = iota
	levelInfo
	levelWarn
)

var prefixes = [...]string{
	levelDebug: "[DEBUG] ",
	levelInfo:  "[INFO] ",
	levelWarn:  "[WARN] ",
}

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
	now     = time.Now
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose reports whether verbose mode is enabled. Callers building
// expensive messages check it first.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the writer used for log lines. Defaults to os.Stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

func write(lv level, scope Scope, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if !verbose {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if scope != "" {
		msg = string(scope) + ": " + msg
	}
	fmt.Fprintln(output, prefixes[lv]+msg)
}

// Debug prints a low-severity message.
func Debug(format string, args ...any) { write(levelDebug, "", format, args...) }

// Info prints an informational message.
func Info(format string, args ...any) { write(levelInfo, "", format, args...) }

// Warn prints a warning.
func Warn(format string, args ...any) { write(levelWarn, "", format, args...) }

// Scope prefixes every message with a component or stage name.
type Scope string

// For returns the scope of a pipeline stage.
func For(stage domain.Stage) Scope { return Scope(stage) }

func (s Scope) Debug(format string, args ...any) { write(levelDebug, s, format, args...) }
func (s Scope) Info(format string, args ...any)  { write(levelInfo, s, format, args...) }
func (s Scope) Warn(format string, args ...any)  { write(levelWarn, s, format, args...) }

// Line logs a debug message about one line of the stage's file.
func (s Scope) Line(n int64, format string, args ...any) {
	write(levelDebug, s, "line %d: %s", n, fmt.Sprintf(format, args...))
}

// Begin prints a header for the stage and returns a func that logs how long
// the stage took.
func (s Scope) Begin() func() {
	mu.RLock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", s)
	}
	mu.RUnlock()
	start := now()
	return func() {
		s.Info("done in %s", now().Sub(start).Round(time.Millisecond))
	}
}
