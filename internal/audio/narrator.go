package audio

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// Narrator runs at most one playback session at a time. Every start call
// cancels the running session first and returns once the new one is
// scheduled; Wait blocks until it ends.
type Narrator struct {
	player    Player
	speaker   Speaker
	wordPause time.Duration
	logger    *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
	gen    uint64
}

// NewNarrator combines a player and a speaker. wordPause separates words
// during sequential narration.
func NewNarrator(p Player, s Speaker, wordPause time.Duration) *Narrator {
	return &Narrator{
		player:    p,
		speaker:   s,
		wordPause: wordPause,
		logger:    slog.Default().With("component", "narrator"),
	}
}

// start swaps in a new session, then cancels the previous one and waits
// for it to exit before launching fn.
func (n *Narrator) start(name string, fn func(ctx context.Context) error) (context.CancelFunc, <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	n.mu.Lock()
	prevCancel, prevDone := n.cancel, n.done
	n.gen++
	gen := n.gen
	n.cancel, n.done = cancel, done
	n.mu.Unlock()

	if prevCancel != nil {
		prevCancel()
		<-prevDone
	}

	go func() {
		defer close(done)
		err := fn(ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			n.logger.Warn("playback failed", "session", name, "err", err)
		}
		n.mu.Lock()
		if n.gen == gen {
			n.cancel, n.done = nil, nil
		}
		n.mu.Unlock()
		cancel()
	}()
	return cancel, done
}

// Play plays clip.
func (n *Narrator) Play(clip Clip) {
	n.start("play", func(ctx context.Context) error {
		return n.player.Play(ctx, clip)
	})
}

// Say speaks text.
func (n *Narrator) Say(text string) {
	n.start("say", func(ctx context.Context) error {
		return n.speaker.Speak(ctx, text)
	})
}

// Narrate waits delay and then speaks words one by one, pausing between
// them.
func (n *Narrator) Narrate(words []string, delay time.Duration) {
	n.ReadBack("", words, delay)
}

// ReadBack speaks word, waits delay and then narrates row, all in one
// session. An empty word skips straight to the delay.
func (n *Narrator) ReadBack(word string, row []string, delay time.Duration) {
	n.start("read-back", func(ctx context.Context) error {
		if word != "" {
			if err := n.speaker.Speak(ctx, word); err != nil {
				return err
			}
		}
		if err := sleep(ctx, delay); err != nil {
			return err
		}
		for i, w := range row {
			if i > 0 {
				if err := sleep(ctx, n.wordPause); err != nil {
					return err
				}
			}
			if err := n.speaker.Speak(ctx, w); err != nil {
				return err
			}
		}
		return nil
	})
}

// Loop plays clips cyclically with pause between them until stopped.
// onClip is called with the index of each clip before it plays. A clip that
// fails to play is skipped; the loop ends when every clip has failed in a
// row.
func (n *Narrator) Loop(clips []Clip, pause time.Duration, onClip func(i int)) {
	if len(clips) == 0 {
		return
	}
	n.start("loop", func(ctx context.Context) error {
		failures := 0
		for i := 0; ; i = (i + 1) % len(clips) {
			if onClip != nil {
				onClip(i)
			}
			if err := n.player.Play(ctx, clips[i]); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				n.logger.Warn("loop clip failed", "clip", clips[i].String(), "err", err)
				if failures++; failures == len(clips) {
					return err
				}
				continue
			}
			failures = 0
			if err := sleep(ctx, pause); err != nil {
				return err
			}
		}
	})
}

// PlayAndWait plays clip and blocks until it ends, ctx is done or another
// session replaces it.
func (n *Narrator) PlayAndWait(ctx context.Context, clip Clip) error {
	var result error
	cancel, done := n.start("play-wait", func(sctx context.Context) error {
		result = n.player.Play(sctx, clip)
		return result
	})
	select {
	case <-done:
		return result
	case <-ctx.Done():
		cancel()
		<-done
		return ctx.Err()
	}
}

// Stop cancels the running session and waits for it to exit.
func (n *Narrator) Stop() {
	n.mu.Lock()
	cancel, done := n.cancel, n.done
	n.cancel, n.done = nil, nil
	n.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Busy reports whether a session is running.
func (n *Narrator) Busy() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.cancel != nil
}

// Wait blocks until the running session, if any, ends on its own.
func (n *Narrator) Wait() {
	n.mu.Lock()
	done := n.done
	n.mu.Unlock()
	if done != nil {
		<-done
	}
}
