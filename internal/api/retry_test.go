package api

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// recorder captures notifications for assertions.
type recorder struct {
	mu       sync.Mutex
	infos    []string
	warnings []string
	errs     []string
}

func (r *recorder) Info(title, body string, d time.Duration) {
	r.mu.Lock()
	r.infos = append(r.infos, body)
	r.mu.Unlock()
}

func (r *recorder) Warning(title, body string, d time.Duration) {
	r.mu.Lock()
	r.warnings = append(r.warnings, body)
	r.mu.Unlock()
}

func (r *recorder) Error(title, body string, d time.Duration) {
	r.mu.Lock()
	r.errs = append(r.errs, body)
	r.mu.Unlock()
}

func (r *recorder) counts() (int, int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.infos), len(r.warnings), len(r.errs)
}

func fastDelay(error, int) time.Duration { return time.Millisecond }

func TestDo_TerminalErrorMakesOneAttempt(t *testing.T) {
	rec := &recorder{}
	attempts := 0
	onRetry := 0
	onFailed := 0

	r := NewRetrier(RetryConfig{
		MaxAttempts: 3,
		OnRetry:     func(int, error) { onRetry++ },
		OnFailed:    func(error) { onFailed++ },
		Delay:       fastDelay,
	}, rec)

	out, ok := Do(context.Background(), r, "places.get", func(ctx context.Context) (string, error) {
		attempts++
		return "", &Error{StatusCode: 404, Message: "The requested resource was not found."}
	})

	if ok || out != "" {
		t.Errorf("got (%q, %v), want zero value and false", out, ok)
	}
	if attempts != 1 {
		t.Errorf("got %d attempts, want 1", attempts)
	}
	if onRetry != 0 || onFailed != 1 {
		t.Errorf("got onRetry=%d onFailed=%d, want 0 and 1", onRetry, onFailed)
	}
	if _, _, e := rec.counts(); e != 1 {
		t.Errorf("got %d error notifications, want exactly 1", e)
	}
}

func TestDo_EventualSuccess(t *testing.T) {
	rec := &recorder{}
	attempts := 0
	onRetry := 0
	onFailed := 0

	r := NewRetrier(RetryConfig{
		MaxAttempts: 3,
		OnRetry:     func(int, error) { onRetry++ },
		OnFailed:    func(error) { onFailed++ },
		Delay:       fastDelay,
	}, rec)

	// Fails twice with a 503, succeeds on the third call.
	out, ok := Do(context.Background(), r, "events.list", func(ctx context.Context) (string, error) {
		attempts++
		if attempts <= 2 {
			return "", &Error{StatusCode: 503, Message: "unavailable"}
		}
		return "payload", nil
	})

	if !ok || out != "payload" {
		t.Fatalf("got (%q, %v), want success value", out, ok)
	}
	if attempts != 3 {
		t.Errorf("got %d attempts, want 3", attempts)
	}
	if onRetry != 2 || onFailed != 0 {
		t.Errorf("got onRetry=%d onFailed=%d, want 2 and 0", onRetry, onFailed)
	}

	s := r.Status()
	if s.Attempt != 3 || s.Retrying {
		t.Errorf("got session %+v, want attempt 3, not retrying", s)
	}
	if i, _, e := rec.counts(); i != 2 || e != 0 {
		t.Errorf("got %d info and %d error notifications, want 2 and 0", i, e)
	}
}

func TestDo_ExhaustsAttemptBudget(t *testing.T) {
	rec := &recorder{}
	attempts := 0
	var failedWith error

	r := NewRetrier(RetryConfig{
		MaxAttempts: 3,
		OnFailed:    func(err error) { failedWith = err },
		Delay:       fastDelay,
	}, rec)

	_, ok := Do(context.Background(), r, "galleries.list", func(ctx context.Context) (int, error) {
		attempts++
		return 0, &Error{StatusCode: 500, Message: "boom"}
	})

	if ok {
		t.Fatal("expected failure after exhaustion")
	}
	if attempts != 3 {
		t.Errorf("got %d attempts, want 3", attempts)
	}
	var ae *Error
	if !errors.As(failedWith, &ae) || ae.StatusCode != 500 {
		t.Errorf("OnFailed got %v, want the last 500", failedWith)
	}
	if _, _, e := rec.counts(); e != 1 {
		t.Errorf("got %d error notifications, want exactly 1", e)
	}
}

func TestDo_DefaultMaxAttempts(t *testing.T) {
	attempts := 0
	r := NewRetrier(RetryConfig{Delay: fastDelay}, nil)

	_, _ = Do(context.Background(), r, "x", func(ctx context.Context) (int, error) {
		attempts++
		return 0, &Error{StatusCode: 502, Message: "x"}
	})

	if attempts != DefaultMaxAttempts {
		t.Errorf("got %d attempts, want %d", attempts, DefaultMaxAttempts)
	}
}

func TestDo_RateLimitUsesServerDelay(t *testing.T) {
	rec := &recorder{}
	attempts := 0

	// Default delay policy; the server-dictated wait is short enough to run.
	r := NewRetrier(RetryConfig{MaxAttempts: 2}, rec)

	start := time.Now()
	_, ok := Do(context.Background(), r, "places.list", func(ctx context.Context) (string, error) {
		attempts++
		if attempts == 1 {
			return "", &Error{
				StatusCode:    429,
				Message:       "rate limited",
				RetryAfter:    10 * time.Millisecond,
				HasRetryAfter: true,
			}
		}
		return "ok", nil
	})

	if !ok {
		t.Fatal("expected success on second attempt")
	}
	if attempts != 2 {
		t.Errorf("got %d attempts, want 2", attempts)
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("waited %v; exponential fallback used instead of Retry-After", elapsed)
	}
	if i, w, _ := rec.counts(); w != 1 || i != 0 {
		t.Errorf("got %d warnings and %d infos, want distinct rate-limit warning", w, i)
	}
}

func TestDo_CancelDuringBackoff(t *testing.T) {
	attempts := 0
	r := NewRetrier(RetryConfig{
		MaxAttempts: 3,
		Delay:       func(error, int) time.Duration { return 5 * time.Second },
	}, nil)

	done := make(chan bool, 1)
	go func() {
		_, ok := Do(context.Background(), r, "x", func(ctx context.Context) (int, error) {
			attempts++
			return 0, &Error{StatusCode: 503, Message: "x"}
		})
		done <- ok
	}()

	// Wait for the session to reach the backoff wait.
	deadline := time.Now().Add(time.Second)
	for !r.Status().Retrying {
		if time.Now().After(deadline) {
			t.Fatal("session never reached AwaitingBackoff")
		}
		time.Sleep(time.Millisecond)
	}

	r.Cancel()

	select {
	case ok := <-done:
		if ok {
			t.Error("cancelled session reported success")
		}
	case <-time.After(time.Second):
		t.Fatal("Do did not return after Cancel")
	}

	s := r.Status()
	if s.Retrying || !s.Cancelled {
		t.Errorf("got session %+v, want cancelled and not retrying", s)
	}

	// No further attempt fires after cancellation.
	time.Sleep(50 * time.Millisecond)
	if attempts != 1 {
		t.Errorf("got %d attempts after cancel, want 1", attempts)
	}
}

func TestDo_ContextCancelDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := NewRetrier(RetryConfig{
		MaxAttempts: 3,
		Delay:       func(error, int) time.Duration { return 5 * time.Second },
	}, nil)

	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	_, ok := Do(ctx, r, "x", func(ctx context.Context) (int, error) {
		return 0, &Error{StatusCode: 503, Message: "x"}
	})

	if ok {
		t.Error("cancelled context reported success")
	}
	if time.Since(start) > time.Second {
		t.Error("Do waited out the backoff despite cancellation")
	}
}

func TestDo_HookPanicsDoNotMaskOutcome(t *testing.T) {
	r := NewRetrier(RetryConfig{
		MaxAttempts: 2,
		OnRetry:     func(int, error) { panic("toast stack exploded") },
		OnFailed:    func(error) { panic("toast stack exploded") },
		Delay:       fastDelay,
	}, panicky{})

	attempts := 0
	out, ok := Do(context.Background(), r, "x", func(ctx context.Context) (string, error) {
		attempts++
		if attempts == 1 {
			return "", &Error{StatusCode: 500, Message: "x"}
		}
		return "ok", nil
	})

	if !ok || out != "ok" {
		t.Errorf("got (%q, %v), want success despite panicking hooks", out, ok)
	}
}

type panicky struct{}

func (panicky) Info(string, string, time.Duration)    { panic("no ui") }
func (panicky) Warning(string, string, time.Duration) { panic("no ui") }
func (panicky) Error(string, string, time.Duration)   { panic("no ui") }
