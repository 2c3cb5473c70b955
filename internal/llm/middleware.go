package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/abhisek/ivrit/internal/store"
)

// Middleware decorates a Provider.
type Middleware func(Provider) Provider

// Chain applies middlewares so the first one listed sees each request
// first.
func Chain(p Provider, mws ...Middleware) Provider {
	for i := len(mws) - 1; i >= 0; i-- {
		p = mws[i](p)
	}
	return p
}

type wrapped struct {
	inner    Provider
	generate func(ctx context.Context, req Request) (*Response, error)
}

func (w *wrapped) Generate(ctx context.Context, req Request) (*Response, error) {
	return w.generate(ctx, req)
}

func (w *wrapped) ModelID() string { return w.inner.ModelID() }

// Timeout bounds each Generate call, including everything it wraps. A
// non-positive d leaves the provider unchanged.
func Timeout(d time.Duration) Middleware {
	return func(p Provider) Provider {
		if d <= 0 {
			return p
		}
		return &wrapped{inner: p, generate: func(ctx context.Context, req Request) (*Response, error) {
			ctx, cancel := context.WithTimeout(ctx, d)
			defer cancel()
			return p.Generate(ctx, req)
		}}
	}
}

// RetryPolicy is exponential backoff with ±20% jitter.
type RetryPolicy struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// wait is the pause before attempt+1.
func (r RetryPolicy) wait(attempt int, err error) time.Duration {
	var e *Error
	if errors.As(err, &e) && e.Kind == KindRateLimit && e.RetryAfter > 0 {
		return e.RetryAfter
	}
	w := float64(r.InitialWait)
	for range attempt {
		w *= r.Multiplier
	}
	w = min(w, float64(r.MaxWait))
	w *= 1 + 0.2*(2*rand.Float64()-1)
	return time.Duration(max(w, 0))
}

// retryable reports whether another attempt could succeed. An invalid
// reply is retried once.
func retryable(err error, invalidSeen bool) bool {
	kind, ok := KindOf(err)
	if !ok {
		return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
	}
	switch kind {
	case KindTruncated, KindRejected:
		return false
	case KindInvalid:
		return !invalidSeen
	default:
		return true
	}
}

// Retry re-sends failed requests according to policy.
func Retry(policy RetryPolicy) Middleware {
	return func(p Provider) Provider {
		attempts := max(policy.MaxAttempts, 1)
		return &wrapped{inner: p, generate: func(ctx context.Context, req Request) (*Response, error) {
			invalidSeen := false
			var err error
			for attempt := range attempts {
				var resp *Response
				resp, err = p.Generate(ctx, req)
				if err == nil {
					return resp, nil
				}
				if !retryable(err, invalidSeen) || attempt == attempts-1 {
					return nil, err
				}
				if kind, _ := KindOf(err); kind == KindInvalid {
					invalidSeen = true
				}

				wait := policy.wait(attempt, err)
				slog.Debug("retrying LLM request", "attempt", attempt+1, "wait", wait, "err", err)
				select {
				case <-ctx.Done():
					return nil, ctx.Err()
				case <-time.After(wait):
				}
			}
			return nil, err
		}}
	}
}

// Record appends every request and its outcome to the event log. A failed
// append is logged and does not fail the request.
func Record(repo store.EventRepo, provider string) Middleware {
	return func(p Provider) Provider {
		return &wrapped{inner: p, generate: func(ctx context.Context, req Request) (*Response, error) {
			start := time.Now()
			resp, err := p.Generate(ctx, req)

			data := store.LLMRequestEventData{
				Provider:    provider,
				Model:       p.ModelID(),
				Purpose:     PurposeFrom(ctx),
				LatencyMs:   time.Since(start).Milliseconds(),
				Success:     err == nil,
				RequestBody: transcript(req),
			}
			if resp != nil {
				data.Model = resp.Model
				data.InputTokens = resp.Usage.InputTokens
				data.OutputTokens = resp.Usage.OutputTokens
				data.ResponseBody = string(resp.Content)
			}
			if err != nil {
				data.ErrorMessage = err.Error()
			}
			if aerr := repo.AppendLLMRequest(context.WithoutCancel(ctx), data); aerr != nil {
				slog.Warn("record LLM request", "purpose", data.Purpose, "err", aerr)
			}
			return resp, err
		}}
	}
}

// transcript renders a request the way `ivrit llm view` prints it.
func transcript(req Request) string {
	var b strings.Builder
	if req.System != "" {
		fmt.Fprintf(&b, "[system]\n%s\n\n", req.System)
	}
	for _, m := range req.Messages {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", m.Role, m.Content)
	}
	if req.Schema != nil {
		if def, err := json.Marshal(req.Schema.Definition); err == nil {
			fmt.Fprintf(&b, "[schema: %s]\n%s\n", req.Schema.Name, def)
		}
	}
	return b.String()
}
