// Package notify delivers user-facing status messages. The retry layer posts
// through a Notifier so UI surfaces (toast stack, status bar, plain logs) can
// be swapped without touching request code.
package notify

import (
	"log/slog"
	"time"
)

// Notifier is the sink for user-facing notifications. Delivery is
// best-effort; implementations must not block request processing.
type Notifier interface {
	Info(title, body string, d time.Duration)
	Warning(title, body string, d time.Duration)
	Error(title, body string, d time.Duration)
}

// Log is a Notifier backed by slog. The duration is recorded but has no
// display meaning outside a UI.
type Log struct{}

func (Log) Info(title, body string, d time.Duration) {
	slog.Info(title, "detail", body, "duration", d)
}

func (Log) Warning(title, body string, d time.Duration) {
	slog.Warn(title, "detail", body, "duration", d)
}

func (Log) Error(title, body string, d time.Duration) {
	slog.Error(title, "detail", body, "duration", d)
}

// Nop discards all notifications.
type Nop struct{}

func (Nop) Info(title, body string, d time.Duration)    {}
func (Nop) Warning(title, body string, d time.Duration) {}
func (Nop) Error(title, body string, d time.Duration)   {}
