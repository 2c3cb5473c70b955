// Package audio plays sentence recordings and speaks single words.
//
// Backends block until playback ends or the context is cancelled. The
// Narrator layers cancellation policy on top: starting new playback always
// cancels whatever is in flight.
package audio

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrClipNotFound is returned when a recording does not exist.
var ErrClipNotFound = errors.New("audio clip not found")

// Speeds offered for loop playback.
var Speeds = []float64{0.5, 0.75, 1.0}

// Clip identifies a recording, optionally restricted to a segment.
type Clip struct {
	File    string
	Speed   float64
	StartMs int64
	EndMs   int64
}

// Segmented reports whether the clip covers only part of the file.
func (c Clip) Segmented() bool {
	return c.EndMs > c.StartMs
}

func (c Clip) speed() float64 {
	if c.Speed <= 0 {
		return 1
	}
	return c.Speed
}

func (c Clip) String() string {
	if c.Segmented() {
		return fmt.Sprintf("%s[%d-%d]@%.2gx", c.File, c.StartMs, c.EndMs, c.speed())
	}
	return fmt.Sprintf("%s@%.2gx", c.File, c.speed())
}

// Player plays recordings.
type Player interface {
	// Play blocks until the clip finishes or ctx is done.
	Play(ctx context.Context, clip Clip) error
}

// Speaker reads text aloud.
type Speaker interface {
	// Speak blocks until the text has been spoken or ctx is done.
	Speak(ctx context.Context, text string) error
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
