// Package notify delivers short user-facing messages (toasts).
package notify

import (
	"context"
	"log/slog"
	"sync"
)

// Level is the severity of a toast
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Toast is a single notification
type Toast struct {
	Level   Level
	Message string
}

// Notifier shows toasts to the user
type Notifier interface {
	Notify(t Toast)
}

// Func adapts a function to Notifier
type Func func(Toast)

// Notify calls f(t)
func (f Func) Notify(t Toast) { f(t) }

// Discard drops every toast
var Discard Notifier = Func(func(Toast) {})

// Error is a shorthand for an error toast
func Error(n Notifier, message string) {
	n.Notify(Toast{Level: LevelError, Message: message})
}

// Success is a shorthand for a success toast
func Success(n Notifier, message string) {
	n.Notify(Toast{Level: LevelSuccess, Message: message})
}

// LogNotifier writes toasts to a structured logger
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a notifier on top of logger. If logger is nil, slog.Default is used.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

// Notify logs the toast at a level matching its severity
func (n *LogNotifier) Notify(t Toast) {
	level := slog.LevelInfo
	switch t.Level {
	case LevelWarning:
		level = slog.LevelWarn
	case LevelError:
		level = slog.LevelError
	}
	n.logger.Log(context.Background(), level, t.Message, "toast", string(t.Level))
}

// Recorder keeps every toast it receives
type Recorder struct {
	mu     sync.Mutex
	toasts []Toast
}

// Notify records t
func (r *Recorder) Notify(t Toast) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toasts = append(r.toasts, t)
}

// Toasts returns a copy of the recorded toasts
func (r *Recorder) Toasts() []Toast {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Toast, len(r.toasts))
	copy(out, r.toasts)
	return out
}
