// Package llm sends drafting prompts to hosted language models. Each
// provider answers a Request with JSON checked against the request Schema.
package llm

import (
	"context"
	"encoding/json"
)

// Provider generates one completion.
type Provider interface {
	Generate(ctx context.Context, req Request) (*Response, error)
	// ModelID names the model requests are sent to.
	ModelID() string
}

// Request is a single-turn prompt. When Schema is set the provider's native
// structured output is used and the reply is validated before returning.
type Request struct {
	System      string
	Messages    []Message
	Schema      *Schema
	MaxTokens   int
	Temperature float64
}

// Role of a message sender.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one conversation turn.
type Message struct {
	Role    Role
	Content string
}

// Schema is a JSON Schema document with a kebab-case name, e.g.
// "level-draft".
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

// Stop says why generation ended.
type Stop string

const (
	StopEnd       Stop = "end"
	StopMaxTokens Stop = "max_tokens"
)

// Response is a validated completion.
type Response struct {
	Content json.RawMessage
	Usage   Usage
	// Model is the model that actually served the request.
	Model string
	Stop  Stop
}

// Usage counts tokens for one request.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Total is input plus output tokens.
func (u Usage) Total() int {
	return u.InputTokens + u.OutputTokens
}

type purposeKey struct{}

// Purposes label requests in the event log.
const (
	PurposeLevelDraft = "level-draft"
	PurposeProbe      = "probe"
)

// WithPurpose labels requests made with ctx.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom returns the label set by WithPurpose, or "unknown".
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey{}).(string); ok && v != "" {
		return v
	}
	return "unknown"
}

// finish validates content against the request schema and assembles the
// response every provider returns.
func finish(req Request, content []byte, u Usage, model string, stop Stop) (*Response, error) {
	if stop == StopMaxTokens && req.Schema != nil {
		return nil, &Error{Kind: KindTruncated, Content: content}
	}
	if err := schemas.validate(req.Schema, content); err != nil {
		return nil, err
	}
	return &Response{Content: content, Usage: u, Model: model, Stop: stop}, nil
}
