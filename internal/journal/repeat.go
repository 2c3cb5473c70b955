package journal

import (
	"slices"
	"time"

	"github.com/abhisek/ivrit/internal/audio"
)

// DefaultPause separates clips in a repeat loop.
const DefaultPause = time.Second

// Repeat holds the A-B loop settings of the journal. A and B are page
// indexes; setting one past the other swaps them so A <= B always holds.
type Repeat struct {
	a, b       int
	hasA, hasB bool
	Speed      float64
	Pause      time.Duration
}

// NewRepeat returns settings with no points, normal speed and the default
// pause.
func NewRepeat() Repeat {
	return Repeat{Speed: 1, Pause: DefaultPause}
}

// SetA marks page as the loop start.
func (r *Repeat) SetA(page int) {
	if r.hasB && page > r.b {
		r.a, r.b = r.b, page
	} else {
		r.a = page
	}
	r.hasA = true
}

// SetB marks page as the loop end.
func (r *Repeat) SetB(page int) {
	if r.hasA && page < r.a {
		r.a, r.b = page, r.a
	} else {
		r.b = page
	}
	r.hasB = true
}

// Points returns A and B and whether each is set.
func (r Repeat) Points() (a int, hasA bool, b int, hasB bool) {
	return r.a, r.hasA, r.b, r.hasB
}

// Range returns the loop bounds once both points are set.
func (r Repeat) Range() (start, end int, ok bool) {
	if !r.hasA || !r.hasB {
		return 0, 0, false
	}
	return min(r.a, r.b), max(r.a, r.b), true
}

// Next returns the page after cur inside the range, wrapping to the start.
func (r Repeat) Next(cur int) int {
	start, end, ok := r.Range()
	if !ok {
		return cur
	}
	if cur < start || cur >= end {
		return start
	}
	return cur + 1
}

// CycleSpeed moves to the next offered playback speed.
func (r *Repeat) CycleSpeed() float64 {
	i := slices.Index(audio.Speeds, r.Speed)
	r.Speed = audio.Speeds[(i+1)%len(audio.Speeds)]
	return r.Speed
}

// Clips returns the clips of the loop range, starting at start.
func (r Repeat) Clips(entries []Entry) (clips []audio.Clip, start int, ok bool) {
	start, end, ok := r.Range()
	if !ok || end >= len(entries) {
		return nil, 0, false
	}
	return Clips(entries[start:end+1], r.Speed), start, true
}
