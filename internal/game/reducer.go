package game

import (
	"github.com/abhisek/ivrit/internal/level"
	"github.com/abhisek/ivrit/internal/task"
)

// OutcomeKind classifies the effect of a player action.
type OutcomeKind int

const (
	// OutcomeIgnored means the action had no effect.
	OutcomeIgnored OutcomeKind = iota
	OutcomeCorrect
	OutcomeIncorrect
	// OutcomePreview is a pool tap in a learning round: speak only.
	OutcomePreview
	// OutcomeReturned means a filled card went back to the pool.
	OutcomeReturned
	OutcomeActivated
)

// Outcome describes what a transition did.
type Outcome struct {
	Kind OutcomeKind
	Card task.Card
	// Slot is the slot index the action affected, or NoSlot.
	Slot int
	Won  bool
}

// SelectCard applies a tap on pool entry idx.
func SelectCard(st RoundState, idx int) (RoundState, Outcome) {
	none := Outcome{Kind: OutcomeIgnored, Slot: NoSlot}
	if st.Phase != PhaseInProgress || idx < 0 || idx >= len(st.Pool) {
		return st, none
	}
	entry := st.Pool[idx]
	if !entry.Visible {
		return st, none
	}
	if st.Learning {
		return st, Outcome{Kind: OutcomePreview, Card: entry.Card, Slot: NoSlot}
	}

	target := st.ActiveSlot
	if target == NoSlot || target >= len(st.Slots) || !st.Slots[target].IsOpen() {
		target = st.firstOpen()
	}
	if target == NoSlot {
		return st, none
	}

	next := st.clone()
	slot := next.Slots[target]
	if slot.Target == nil || !slot.Target.Matches(entry.Card) {
		next.Errors++
		next.ErrorCardID = entry.Card.ID
		return next, Outcome{Kind: OutcomeIncorrect, Card: entry.Card, Slot: target}
	}

	card := entry.Card
	slot.Filled = &card
	next.Slots[target] = slot
	next.Pool[idx] = task.AvailableCard{Card: entry.Card, Visible: false}
	next.ActiveSlot = NoSlot
	next.ErrorCardID = ""

	won := next.Complete()
	if won {
		next.Phase = PhaseWon
	}
	return next, Outcome{Kind: OutcomeCorrect, Card: card, Slot: target, Won: won}
}

// ActivateSlot applies a tap on slot idx. An open blank becomes the active
// slot. In FILL_IN_BLANK a filled blank gives its card back to the pool.
func ActivateSlot(st RoundState, idx int) (RoundState, Outcome) {
	none := Outcome{Kind: OutcomeIgnored, Slot: NoSlot}
	if st.Phase != PhaseInProgress || st.Learning || idx < 0 || idx >= len(st.Slots) {
		return st, none
	}
	slot := st.Slots[idx]
	switch {
	case slot.IsOpen():
		next := st.clone()
		next.ActiveSlot = idx
		return next, Outcome{Kind: OutcomeActivated, Slot: idx}
	case slot.Blank && st.TaskType == level.TaskFillInBlank:
		return ReturnCard(st, idx)
	}
	return st, none
}

// ReturnCard empties a filled blank and makes its card visible again.
func ReturnCard(st RoundState, idx int) (RoundState, Outcome) {
	none := Outcome{Kind: OutcomeIgnored, Slot: NoSlot}
	if st.Phase != PhaseInProgress || idx < 0 || idx >= len(st.Slots) {
		return st, none
	}
	slot := st.Slots[idx]
	if !slot.Blank || slot.Filled == nil {
		return st, none
	}

	card := *slot.Filled
	next := st.clone()
	slot.Filled = nil
	next.Slots[idx] = slot
	for i, p := range next.Pool {
		if p.Card.ID == card.ID {
			next.Pool[i] = task.AvailableCard{Card: p.Card, Visible: true}
			break
		}
	}
	return next, Outcome{Kind: OutcomeReturned, Card: card, Slot: idx}
}

// Confirm completes a learning round.
func Confirm(st RoundState) (RoundState, bool) {
	if !st.Learning || st.Phase != PhaseInProgress {
		return st, false
	}
	next := st.clone()
	next.Phase = PhaseWon
	return next, true
}

// Tick adds one second to an in-progress round.
func Tick(st RoundState) RoundState {
	if st.Phase != PhaseInProgress {
		return st
	}
	st.Elapsed++
	return st
}
