package game

import (
	"sync"
	"time"
)

// EventKind identifies a one-shot notification for the presentation layer.
type EventKind int

const (
	EventHapticSuccess EventKind = iota
	EventHapticFailure
	// EventSpeak asks for the word in Text to be spoken.
	EventSpeak
	// EventReadBack asks for Text to be spoken, then for Words to be
	// narrated in order after Delay.
	EventReadBack
	// EventShowResult asks for the result sheet to be revealed after Delay.
	EventShowResult
	// EventPlayAudio asks for Audio to be played.
	EventPlayAudio
	EventStopAudio
	EventShowRound
	EventShowLevelMap
)

func (k EventKind) String() string {
	switch k {
	case EventHapticSuccess:
		return "haptic-success"
	case EventHapticFailure:
		return "haptic-failure"
	case EventSpeak:
		return "speak"
	case EventReadBack:
		return "read-back"
	case EventShowResult:
		return "show-result"
	case EventPlayAudio:
		return "play-audio"
	case EventStopAudio:
		return "stop-audio"
	case EventShowRound:
		return "show-round"
	case EventShowLevelMap:
		return "show-level-map"
	default:
		return "unknown"
	}
}

// Event is one queued notification. Only the fields relevant to Kind are set.
type Event struct {
	Kind    EventKind
	Text    string
	Words   []string
	Audio   string
	Delay   time.Duration
	LevelID int
	Round   int
}

// Events is a FIFO queue drained by the presentation layer.
type Events struct {
	mu    sync.Mutex
	queue []Event
}

// Push appends an event.
func (q *Events) Push(e Event) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.queue = append(q.queue, e)
}

// Drain returns every queued event in order and empties the queue.
func (q *Events) Drain() []Event {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.queue
	q.queue = nil
	return out
}

// Len returns the number of queued events.
func (q *Events) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.queue)
}
