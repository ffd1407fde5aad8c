package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

type authError struct {
	message string
}

func (e *authError) Error() string { return "authentication failed: " + e.message }

type rateLimitError struct{}

func (e *rateLimitError) Error() string { return "rate limited" }

type serverError struct {
	statusCode int
	body       string
}

func (e *serverError) Error() string {
	return fmt.Sprintf("server error (status %d): %s", e.statusCode, e.body)
}

// IsAuthError reports whether err is a credential failure. These are
// fatal: retrying with the same key cannot succeed.
func IsAuthError(err error) bool {
	var ae *authError
	return errors.As(err, &ae)
}

// IsRateLimit reports whether err is a quota or rate limit rejection.
func IsRateLimit(err error) bool {
	var rl *rateLimitError
	return errors.As(err, &rl)
}

// IsTimeout reports whether err is a deadline or cancellation.
func IsTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
}

func isRetryable(err error) bool {
	var rl *rateLimitError
	var se *serverError
	return errors.As(err, &rl) || errors.As(err, &se)
}

// statusToErr maps an HTTP status to the shared error taxonomy. A nil
// return means the status is 200 and the body can be decoded.
func statusToErr(status int, body []byte) error {
	switch {
	case status == http.StatusOK:
		return nil
	case status == http.StatusTooManyRequests:
		return &rateLimitError{}
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return &authError{message: string(body)}
	case status >= 500:
		return &serverError{statusCode: status, body: string(body)}
	default:
		return fmt.Errorf("API error (status %d): %s", status, body)
	}
}

// backoffBase is the first retry delay; each attempt doubles it.
var backoffBase = time.Second

// retryWithBackoff runs fn up to maxRetries+1 times, backing off
// exponentially on retryable errors. Auth errors and anything else
// non-transient return immediately.
func retryWithBackoff(ctx context.Context, maxRetries int, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if !isRetryable(lastErr) {
			return lastErr
		}
		if attempt < maxRetries {
			backoff := backoffBase << uint(attempt)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}
	}
	return lastErr
}
