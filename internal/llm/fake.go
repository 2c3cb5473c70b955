package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// Reply is one scripted Fake answer: Content, or Err when set.
type Reply struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
}

// Fake replays scripted replies in order and records every request. Replies
// are not checked against the request schema. It backs the "mock" provider
// and tests.
type Fake struct {
	mu       sync.Mutex
	replies  []Reply
	requests []Request
}

// NewFake scripts a Fake.
func NewFake(replies ...Reply) *Fake {
	return &Fake{replies: replies}
}

func (f *Fake) Generate(_ context.Context, req Request) (*Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)

	if len(f.replies) == 0 {
		return nil, &Error{Kind: KindUnavailable}
	}
	r := f.replies[0]
	f.replies = f.replies[1:]
	if r.Err != nil {
		return nil, r.Err
	}
	return &Response{Content: r.Content, Usage: r.Usage, Model: "mock", Stop: StopEnd}, nil
}

func (f *Fake) ModelID() string { return "mock" }

// Push queues more replies.
func (f *Fake) Push(replies ...Reply) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies = append(f.replies, replies...)
}

// Requests returns a copy of every request seen so far.
func (f *Fake) Requests() []Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Request(nil), f.requests...)
}
