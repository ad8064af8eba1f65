package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/osamhq/portal/internal/metrics"
	"github.com/osamhq/portal/internal/notify"
)

const (
	// DefaultMaxAttempts bounds a retry session when the config leaves it unset.
	DefaultMaxAttempts = 3

	infoDuration    = 3 * time.Second
	warningDuration = 5 * time.Second
	errorDuration   = 6 * time.Second
)

// RetryConfig is caller-supplied, immutable for one session.
type RetryConfig struct {
	// MaxAttempts is the total attempt budget, including the first call.
	// Values below 1 fall back to DefaultMaxAttempts.
	MaxAttempts int
	// OnRetry fires once per scheduled retry, before the backoff wait.
	OnRetry func(attempt int, err error)
	// OnFailed fires once when the session ends without success.
	OnFailed func(err error)
	// Delay overrides the backoff policy. Defaults to RetryDelay.
	Delay func(err error, attempt int) time.Duration
}

// Session is a snapshot of one retry invocation's progress.
type Session struct {
	Attempt     int
	Retrying    bool
	LastErr     error
	NextRetryIn time.Duration
	Cancelled   bool
}

// Retrier drives an operation through the classify/backoff/retry loop and
// exposes the session state to observers. One Retrier tracks one invocation
// at a time; independent calls should each own a Retrier.
type Retrier struct {
	cfg      RetryConfig
	notifier notify.Notifier

	mu      sync.Mutex
	session Session
	cancel  chan struct{}
}

// NewRetrier creates a retrier posting through n. A nil notifier is allowed;
// notifications are then dropped.
func NewRetrier(cfg RetryConfig, n notify.Notifier) *Retrier {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.Delay == nil {
		cfg.Delay = RetryDelay
	}
	if n == nil {
		n = notify.Nop{}
	}
	return &Retrier{cfg: cfg, notifier: n, cancel: make(chan struct{})}
}

// Status returns a snapshot of the current session.
func (r *Retrier) Status() Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.session
}

// Cancel clears any pending backoff wait and resets the session. An attempt
// already in flight is not aborted; the next retry boundary is the
// cancellation point. No further attempts are scheduled after Cancel.
func (r *Retrier) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	select {
	case <-r.cancel:
	default:
		close(r.cancel)
	}
	r.session = Session{Cancelled: true}
}

// Do runs op to success or exhaustion under r's config. The second return is
// false when the session ended without a result: a terminal error, an
// exhausted attempt budget, or cancellation. The terminal failure has already
// been reported through the notifier and OnFailed by the time Do returns, so
// callers need no error handling of their own.
func Do[T any](ctx context.Context, r *Retrier, label string, op func(context.Context) (T, error)) (T, bool) {
	var zero T
	cancelled := r.begin()

	for attempt := 1; ; attempt++ {
		r.setAttempt(attempt)

		out, err := op(ctx)
		if err == nil {
			r.finish()
			return out, true
		}
		r.setLastErr(err)

		if !Retryable(err) || attempt >= r.cfg.MaxAttempts {
			r.fail(label, attempt, err)
			return zero, false
		}

		delay := r.cfg.Delay(err, attempt)
		r.setBackoff(delay)
		r.announceRetry(label, attempt, delay, err)
		r.invoke(func() {
			if r.cfg.OnRetry != nil {
				r.cfg.OnRetry(attempt, err)
			}
		})
		metrics.RetriesTotal.WithLabelValues(label).Inc()

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			r.markCancelled()
			return zero, false
		case <-cancelled:
			timer.Stop()
			return zero, false
		case <-timer.C:
		}
	}
}

// begin resets the session for a fresh invocation and returns its
// cancellation channel.
func (r *Retrier) begin() chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancel = make(chan struct{})
	r.session = Session{}
	return r.cancel
}

func (r *Retrier) setAttempt(attempt int) {
	r.mu.Lock()
	r.session.Attempt = attempt
	r.session.Retrying = false
	r.session.NextRetryIn = 0
	r.mu.Unlock()
}

func (r *Retrier) setLastErr(err error) {
	r.mu.Lock()
	r.session.LastErr = err
	r.mu.Unlock()
}

func (r *Retrier) setBackoff(delay time.Duration) {
	r.mu.Lock()
	r.session.Retrying = true
	r.session.NextRetryIn = delay
	r.mu.Unlock()
}

func (r *Retrier) finish() {
	r.mu.Lock()
	r.session.Retrying = false
	r.session.NextRetryIn = 0
	r.mu.Unlock()
}

func (r *Retrier) markCancelled() {
	r.mu.Lock()
	r.session.Retrying = false
	r.session.NextRetryIn = 0
	r.session.Cancelled = true
	r.mu.Unlock()
}

// fail ends the session: one OnFailed invocation, one error notification.
func (r *Retrier) fail(label string, attempt int, err error) {
	r.finish()
	metrics.RetriesExhausted.WithLabelValues(label).Inc()
	slog.Warn("Request failed", "label", label, "attempts", attempt, "error", err)
	r.invoke(func() {
		if r.cfg.OnFailed != nil {
			r.cfg.OnFailed(err)
		}
	})
	r.invoke(func() {
		r.notifier.Error("Request failed", userMessage(err), errorDuration)
	})
}

// announceRetry posts the per-retry notification: a warning naming the wait
// for rate-limit delays, an informational one otherwise.
func (r *Retrier) announceRetry(label string, attempt int, delay time.Duration, err error) {
	slog.Debug("Retry scheduled",
		"label", label, "attempt", attempt, "delay", delay, "error", err)
	r.invoke(func() {
		if RateLimited(err) {
			r.notifier.Warning("Rate limited",
				fmt.Sprintf("Waiting %s before trying again.", delay.Round(time.Second)),
				warningDuration)
			return
		}
		r.notifier.Info("Retrying",
			fmt.Sprintf("Attempt %d of %d failed. Retrying shortly.", attempt, r.cfg.MaxAttempts),
			infoDuration)
	})
}

// invoke runs a callback or notification hook. Hook failures must never mask
// the retry outcome, so panics are contained here.
func (r *Retrier) invoke(fn func()) {
	defer func() {
		if p := recover(); p != nil {
			slog.Warn("Notification hook panicked", "panic", p)
		}
	}()
	fn()
}

func userMessage(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Message
	}
	return genericMessage
}
