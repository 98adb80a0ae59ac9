// Package logx is the module's structured logger: a log/slog logger whose
// records carry a component attribute for filtering.
package logx

import (
	"io"
	"log/slog"
	"os"
	"sync"
)

// Component identifies a subsystem for log filtering.
type Component string

const (
	ComponentPool     Component = "pool"
	ComponentTransfer Component = "transfer"
	ComponentChip     Component = "chip"
	ComponentBoard    Component = "board"
)

var (
	mu       sync.RWMutex
	level    = new(slog.LevelVar)
	instance *slog.Logger
)

func init() {
	level.Set(slog.LevelWarn)
	instance = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// SetLevel sets the minimum level for the default logger.
func SetLevel(l slog.Level) { level.Set(l) }

// Level returns the current minimum level.
func Level() slog.Level { return level.Level() }

// SetOutput points the default text logger at w, keeping the level.
func SetOutput(w io.Writer) {
	SetLogger(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

// SetLogger replaces the default logger.
func SetLogger(l *slog.Logger) {
	mu.Lock()
	instance = l
	mu.Unlock()
}

func logger() *slog.Logger {
	mu.RLock()
	l := instance
	mu.RUnlock()
	return l
}

func with(c Component, args []any) []any {
	return append([]any{"component", string(c)}, args...)
}

func Debug(c Component, msg string, args ...any) { logger().Debug(msg, with(c, args)...) }
func Info(c Component, msg string, args ...any)  { logger().Info(msg, with(c, args)...) }
func Warn(c Component, msg string, args ...any)  { logger().Warn(msg, with(c, args)...) }
func Error(c Component, msg string, args ...any) { logger().Error(msg, with(c, args)...) }
