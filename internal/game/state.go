// Package game drives rounds and levels: card selection, win detection,
// round progression and the level map.
package game

import (
	"slices"

	"github.com/abhisek/ivrit/internal/level"
	"github.com/abhisek/ivrit/internal/task"
)

// Phase is the lifecycle stage of a round.
type Phase int

const (
	PhaseNotStarted Phase = iota
	PhaseInProgress
	PhaseWon
)

func (p Phase) String() string {
	switch p {
	case PhaseNotStarted:
		return "not-started"
	case PhaseInProgress:
		return "in-progress"
	case PhaseWon:
		return "won"
	default:
		return "unknown"
	}
}

// NoSlot means no blank is currently active.
const NoSlot = -1

// RoundState is the complete state of one round. Transition functions never
// modify their input; they return a new value with fresh slices.
type RoundState struct {
	LevelID  int
	Round    int
	Sentence level.SentenceData
	TaskType level.TaskType

	Targets []task.Card
	Pool    []task.AvailableCard
	Slots   []task.Slot

	// ActiveSlot is the blank the player picked explicitly, or NoSlot.
	ActiveSlot  int
	Errors      int
	ErrorCardID string
	Elapsed     int
	Phase       Phase

	// Learning rounds complete by confirmation instead of by filling blanks.
	Learning bool
}

// NewRound returns the in-progress state for a freshly assembled layout.
func NewRound(levelID, round int, s level.SentenceData, l task.Layout) RoundState {
	return RoundState{
		LevelID:    levelID,
		Round:      round,
		Sentence:   s,
		TaskType:   s.TaskType,
		Targets:    slices.Clone(l.Targets),
		Pool:       slices.Clone(l.Pool),
		Slots:      slices.Clone(l.Slots),
		ActiveSlot: NoSlot,
		Phase:      PhaseInProgress,
		Learning:   s.TaskType == level.TaskMatchingPairs,
	}
}

// Playable reports whether the round can be completed at all.
func (st RoundState) Playable() bool {
	if len(st.Slots) == 0 {
		return false
	}
	if st.Learning {
		return true
	}
	return slices.ContainsFunc(st.Slots, func(s task.Slot) bool { return s.Blank })
}

// Complete reports whether every blank slot holds a card.
func (st RoundState) Complete() bool {
	return !slices.ContainsFunc(st.Slots, task.Slot.IsOpen)
}

// firstOpen returns the index of the first unfilled blank, or NoSlot.
func (st RoundState) firstOpen() int {
	return slices.IndexFunc(st.Slots, task.Slot.IsOpen)
}

// CompletedCards returns the cards of every blank in slot order.
func (st RoundState) CompletedCards() []task.Card {
	var out []task.Card
	for _, s := range st.Slots {
		switch {
		case s.Filled != nil:
			out = append(out, *s.Filled)
		case s.Target != nil:
			out = append(out, *s.Target)
		}
	}
	return out
}

// RowTexts returns the texts of a row group in slot order, with blanks
// shown by their target card.
func (st RoundState) RowTexts(row int) []string {
	var out []string
	for _, s := range st.Slots {
		if s.Row != row {
			continue
		}
		if s.Blank && s.Target != nil {
			out = append(out, s.Target.Text)
			continue
		}
		out = append(out, s.Text)
	}
	return out
}

func (st RoundState) clone() RoundState {
	c := st
	c.Targets = slices.Clone(st.Targets)
	c.Pool = slices.Clone(st.Pool)
	c.Slots = slices.Clone(st.Slots)
	return c
}
