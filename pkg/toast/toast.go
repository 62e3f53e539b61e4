package toast

import (
	"log/slog"
	"sync"
)

// Type represents the toast notification type.
type Type string

const (
	TypeSuccess Type = "success"
	TypeError   Type = "error"
	TypeWarning Type = "warning"
	TypeInfo    Type = "info"
)

// Notifier receives store notifications. It is purely observational:
// implementations are informed of mutations with a severity and message
// and never veto them. The presentation layer typically renders these
// as toasts or snackbars.
type Notifier interface {
	Notify(level Type, message string)
}

// Success shows a success toast.
//
//	toast.Success(n, "Added to cart")
func Success(n Notifier, message string) {
	notify(n, TypeSuccess, message)
}

// Error shows an error toast.
//
//	toast.Error(n, "Login failed")
func Error(n Notifier, message string) {
	notify(n, TypeError, message)
}

// Warning shows a warning toast.
//
//	toast.Warning(n, "Cart cleared")
func Warning(n Notifier, message string) {
	notify(n, TypeWarning, message)
}

// Info shows an info toast.
//
//	toast.Info(n, "Wishlist updated")
func Info(n Notifier, message string) {
	notify(n, TypeInfo, message)
}

func notify(n Notifier, level Type, message string) {
	if n == nil {
		return
	}
	n.Notify(level, message)
}

// Func adapts a function to the Notifier interface.
type Func func(level Type, message string)

// Notify implements Notifier.
func (f Func) Notify(level Type, message string) {
	f(level, message)
}

// Logger is a Notifier that writes notifications to a slog.Logger.
// It is the default notifier for headless processes.
type Logger struct {
	logger *slog.Logger
}

// NewLogger creates a slog-backed notifier. A nil logger uses
// slog.Default().
func NewLogger(logger *slog.Logger) *Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Logger{logger: logger}
}

// Notify implements Notifier.
func (l *Logger) Notify(level Type, message string) {
	switch level {
	case TypeError:
		l.logger.Error(message, "toast", string(level))
	case TypeWarning:
		l.logger.Warn(message, "toast", string(level))
	default:
		l.logger.Info(message, "toast", string(level))
	}
}

// Recorded is a single captured notification.
type Recorded struct {
	Level   Type
	Message string
}

// Recorder is a Notifier that captures notifications.
// This is for testing/debugging purposes.
type Recorder struct {
	mu       sync.Mutex
	recorded []Recorded
}

// Notify implements Notifier.
func (r *Recorder) Notify(level Type, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recorded = append(r.recorded, Recorded{Level: level, Message: message})
}

// All returns the captured notifications in order.
func (r *Recorder) All() []Recorded {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Recorded, len(r.recorded))
	copy(out, r.recorded)
	return out
}

// Reset discards captured notifications.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recorded = nil
}
