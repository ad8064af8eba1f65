package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Error is the normalized failure every call surfaces. Callers never see the
// raw transport error; it is carried as the cause for errors.Is/As checks.
type Error struct {
	// StatusCode is the HTTP status of the failed response. 0 means no
	// response was received (connection refused, DNS failure, aborted).
	// 408 is synthesized for client-side timeouts.
	StatusCode int

	// Message is a user-presentable description. Never empty.
	Message string

	// Detail is the server-provided detail text, verbatim, if any.
	Detail string

	// Code is a machine error code when the server sent one.
	Code string

	// RetryAfter is the server-dictated wait parsed from the Retry-After
	// header. Valid only when HasRetryAfter is true.
	RetryAfter    time.Duration
	HasRetryAfter bool

	// Err is the underlying cause.
	Err error
}

func (e *Error) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("api: %s", e.Message)
	}
	return fmt.Sprintf("api: %d: %s", e.StatusCode, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Timeout reports whether the failure was a client-side timeout.
func (e *Error) Timeout() bool {
	return e.StatusCode == http.StatusRequestTimeout
}

// Class buckets the error for metrics and logs.
func (e *Error) Class() string {
	switch {
	case e.StatusCode == 0:
		return "network"
	case e.StatusCode == http.StatusRequestTimeout:
		return "timeout"
	case e.StatusCode == http.StatusTooManyRequests:
		return "rate_limit"
	case e.StatusCode >= 500:
		return "server"
	default:
		return "client"
	}
}

const (
	networkMessage = "Unable to reach the server. Check your connection and try again."
	timeoutMessage = "The request timed out. Please try again."
	genericMessage = "Something went wrong. Please try again."
)

// Fixed message table keyed by status code. Server-provided detail takes
// priority over these; raw transport text never does.
var statusMessages = map[int]string{
	http.StatusBadRequest:          "The request was invalid.",
	http.StatusUnauthorized:        "Your session has expired. Please sign in again.",
	http.StatusForbidden:           "You do not have permission to do that.",
	http.StatusNotFound:            "The requested resource was not found.",
	http.StatusConflict:            "The request conflicts with the current state.",
	http.StatusUnprocessableEntity: "Validation failed. Please check your input.",
	http.StatusTooManyRequests:     "Too many requests. Please slow down.",
	http.StatusInternalServerError: "The server ran into a problem. Please try again later.",
	http.StatusBadGateway:          "The service is temporarily unreachable.",
	http.StatusServiceUnavailable:  "The service is temporarily unavailable. Please try again shortly.",
}

func messageForStatus(status int) string {
	if msg, ok := statusMessages[status]; ok {
		return msg
	}
	return genericMessage
}

// errorBody covers the response shapes the portal API produces. FastAPI puts
// either a plain string or a per-field validation list under "detail";
// "message" and "code" appear on a handful of legacy endpoints.
type errorBody struct {
	Detail  json.RawMessage `json:"detail"`
	Message string          `json:"message"`
	Code    string          `json:"code"`
}

// fieldError is one entry of a 422 validation list.
type fieldError struct {
	Loc []any  `json:"loc"`
	Msg string `json:"msg"`
}

// classifyTransport maps a failure of the round trip itself, where no
// response was received.
func classifyTransport(err error) *Error {
	if isTimeout(err) {
		return &Error{
			StatusCode: http.StatusRequestTimeout,
			Message:    timeoutMessage,
			Err:        err,
		}
	}
	return &Error{Message: networkMessage, Err: err}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// classifyResponse builds an Error from a non-2xx response. Message priority:
// validation list, then server-provided message, then the status table.
func classifyResponse(status int, header http.Header, body []byte) *Error {
	e := &Error{StatusCode: status}

	var eb errorBody
	if len(body) > 0 && json.Unmarshal(body, &eb) == nil {
		e.Code = eb.Code
		e.Detail, e.Message = resolveMessage(eb)
	}
	if e.Message == "" {
		e.Message = messageForStatus(status)
	}

	if status == http.StatusTooManyRequests {
		if d, ok := parseRetryAfter(header.Get("Retry-After")); ok {
			e.RetryAfter = d
			e.HasRetryAfter = true
		}
	}
	return e
}

// resolveMessage extracts detail text and the presentable message from a
// decoded error body, trying the known shapes in priority order.
func resolveMessage(eb errorBody) (detail, message string) {
	if len(eb.Detail) > 0 {
		// Validation list: one message per line, "field: msg".
		var fields []fieldError
		if json.Unmarshal(eb.Detail, &fields) == nil && len(fields) > 0 {
			lines := make([]string, 0, len(fields))
			for _, f := range fields {
				if f.Msg == "" {
					continue
				}
				lines = append(lines, fieldLine(f))
			}
			if len(lines) > 0 {
				joined := strings.Join(lines, "\n")
				return joined, joined
			}
		}

		// Plain string detail.
		var s string
		if json.Unmarshal(eb.Detail, &s) == nil && s != "" {
			return s, s
		}
	}

	if eb.Message != "" {
		return eb.Message, eb.Message
	}
	return "", ""
}

func fieldLine(f fieldError) string {
	// Location is ["body", "field", ...]; the last segment names the field.
	if len(f.Loc) > 0 {
		if name, ok := f.Loc[len(f.Loc)-1].(string); ok && name != "" {
			return name + ": " + f.Msg
		}
	}
	return f.Msg
}

// parseRetryAfter understands the delta-seconds form of the Retry-After
// header. The HTTP-date form is treated as unparseable and falls back to the
// rate-limit default.
func parseRetryAfter(v string) (time.Duration, bool) {
	if v == "" {
		return 0, false
	}
	secs, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || secs < 0 {
		return 0, false
	}
	return time.Duration(secs) * time.Second, true
}

// Retryable reports whether err is worth another attempt: network failures,
// timeouts, rate limits, and server errors. Everything else indicates a
// request defect repetition cannot fix. Cancellation is never retryable.
func Retryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	var ae *Error
	if !errors.As(err, &ae) {
		return false
	}
	switch {
	case ae.StatusCode == 0:
		return true
	case ae.StatusCode == http.StatusRequestTimeout:
		return true
	case ae.StatusCode == http.StatusTooManyRequests:
		return true
	case ae.StatusCode >= 500:
		return true
	}
	return false
}

// RateLimited reports whether err is a 429 response.
func RateLimited(err error) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.StatusCode == http.StatusTooManyRequests
}
