package api

import (
	"errors"
	"math/rand"
	"time"
)

const (
	backoffBase       = 1 * time.Second
	backoffMax        = 30 * time.Second
	jitterFraction    = 0.1
	rateLimitFallback = 60 * time.Second
)

// Delay returns the wait before retry attempt n (1-based): exponential from
// 1s, capped at 30s, plus up to 10% uniform jitter so concurrent sessions
// don't retry in lockstep.
func Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := backoffMax
	if attempt <= 6 {
		d = backoffBase << uint(attempt-1)
		if d > backoffMax {
			d = backoffMax
		}
	}
	jitter := time.Duration(rand.Float64() * jitterFraction * float64(d))
	return d + jitter
}

// RetryDelay picks the wait before the next attempt. Rate-limited failures
// use the server-dictated Retry-After verbatim, defaulting to 60s when the
// header is missing or unparseable; the server set the pace, so no jitter.
// Everything else gets the jittered exponential delay.
func RetryDelay(err error, attempt int) time.Duration {
	var ae *Error
	if errors.As(err, &ae) && RateLimited(ae) {
		if ae.HasRetryAfter {
			return ae.RetryAfter
		}
		return rateLimitFallback
	}
	return Delay(attempt)
}
