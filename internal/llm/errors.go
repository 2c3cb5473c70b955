package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Kind classifies provider failures for the retry policy.
type Kind int

const (
	// KindUnavailable covers network failures and 5xx replies.
	KindUnavailable Kind = iota
	// KindRateLimit is a 429 reply.
	KindRateLimit
	// KindInvalid is a reply that is not JSON or breaks the schema.
	KindInvalid
	// KindTruncated is structured output cut off at MaxTokens.
	KindTruncated
	// KindRejected is any other 4xx reply, e.g. a bad key or model.
	KindRejected
)

func (k Kind) String() string {
	switch k {
	case KindUnavailable:
		return "provider unavailable"
	case KindRateLimit:
		return "rate limited"
	case KindInvalid:
		return "invalid response"
	case KindTruncated:
		return "response truncated at max tokens"
	case KindRejected:
		return "request rejected"
	default:
		return "unknown"
	}
}

// Error is a classified provider failure.
type Error struct {
	Kind Kind
	// RetryAfter is the server's requested wait for KindRateLimit.
	RetryAfter time.Duration
	// Content is the offending reply for KindInvalid and KindTruncated.
	Content json.RawMessage
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return "llm: " + e.Kind.String()
	}
	return fmt.Sprintf("llm: %s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the kind of a classified error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// classify wraps an SDK error by its HTTP status. status is zero when the
// request never got a reply.
func classify(status int, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	switch {
	case status == http.StatusTooManyRequests:
		return &Error{Kind: KindRateLimit, Err: err}
	case status >= 400 && status < 500:
		return &Error{Kind: KindRejected, Err: err}
	default:
		return &Error{Kind: KindUnavailable, Err: err}
	}
}
