package api

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/osamhq/portal/internal/metrics"
)

// LoadingTracker is a reference-counted in-flight request signal. Every
// tracked call increments it on dispatch and decrements it on completion;
// the UI keeps its global spinner visible while the count is above zero.
//
// Safe for concurrent use from any number of sessions. A tracker works with
// no consumer registered, so requests issued before the UI mounts are fine.
type LoadingTracker struct {
	count atomic.Int64

	mu       sync.Mutex
	consumer func(loading bool)
}

// NewLoadingTracker returns an idle tracker.
func NewLoadingTracker() *LoadingTracker {
	return &LoadingTracker{}
}

// Start marks one request in flight.
func (l *LoadingTracker) Start(label string) {
	if l.count.Add(1) == 1 {
		l.signal(true)
	}
	metrics.RequestsInFlight.Inc()
	if label != "" {
		slog.Debug("Request started", "label", label)
	}
}

// Stop marks one request complete. An unmatched Stop is a caller bug; the
// count is clamped at zero rather than crashing.
func (l *LoadingTracker) Stop() {
	for {
		n := l.count.Load()
		if n == 0 {
			slog.Warn("Loading tracker stopped with no request in flight")
			return
		}
		if l.count.CompareAndSwap(n, n-1) {
			metrics.RequestsInFlight.Dec()
			if n == 1 {
				l.signal(false)
			}
			return
		}
	}
}

// Loading reports whether at least one tracked request is outstanding.
func (l *LoadingTracker) Loading() bool {
	return l.count.Load() > 0
}

// Notify registers the consumer invoked when the loading state flips. Only
// one consumer is active at a time; the last registration wins. Pass nil to
// unregister.
func (l *LoadingTracker) Notify(fn func(loading bool)) {
	l.mu.Lock()
	l.consumer = fn
	l.mu.Unlock()
}

func (l *LoadingTracker) signal(loading bool) {
	l.mu.Lock()
	fn := l.consumer
	l.mu.Unlock()
	if fn != nil {
		fn(loading)
	}
}
