// Package task turns a sentence record into the cards, card pool and slot
// line of one playable round.
package task

import (
	"slices"
	"strings"

	"github.com/google/uuid"
)

// BlankMarker separates gaps in FILL_IN_BLANK display text and is the text of
// every blank slot.
const BlankMarker = "___"

// NoRow marks a slot that belongs to no row group.
const NoRow = -1

// Card is one playable word. Identity is by ID; two cards match when their
// trimmed texts are equal.
type Card struct {
	ID          string
	Text        string
	Translation string
}

// NewCard returns a card with a fresh id and trimmed text.
func NewCard(text, translation string) Card {
	return Card{
		ID:          uuid.NewString(),
		Text:        strings.TrimSpace(text),
		Translation: translation,
	}
}

// Matches reports whether c and other carry the same trimmed text. The
// comparison is case-sensitive.
func (c Card) Matches(other Card) bool {
	return strings.TrimSpace(c.Text) == strings.TrimSpace(other.Text)
}

// Slot is one position in the assembly line. A literal slot carries text and
// never has a target. A blank slot has a fixed target card and is filled at
// most once during play.
type Slot struct {
	ID     string
	Text   string
	Blank  bool
	Filled *Card
	Target *Card
	Row    int
}

// IsOpen reports whether the slot is a blank still waiting for a card.
func (s Slot) IsOpen() bool {
	return s.Blank && s.Filled == nil
}

func literalSlot(text string, row int) Slot {
	return Slot{ID: uuid.NewString(), Text: text, Row: row}
}

func blankSlot(target Card, row int) Slot {
	t := target
	return Slot{ID: uuid.NewString(), Text: BlankMarker, Blank: true, Target: &t, Row: row}
}

// AvailableCard is a pool entry. Consumed cards turn invisible and keep
// their position so the pool order stays stable through the round.
type AvailableCard struct {
	Card    Card
	Visible bool
}

// Layout is the full starting state of a round's board.
type Layout struct {
	Targets []Card
	Pool    []AvailableCard
	Slots   []Slot
}

// Blanks returns the number of blank slots.
func (l Layout) Blanks() int {
	n := 0
	for _, s := range l.Slots {
		if s.Blank {
			n++
		}
	}
	return n
}

// Clone returns a deep copy whose slices can be modified independently.
func (l Layout) Clone() Layout {
	return Layout{
		Targets: slices.Clone(l.Targets),
		Pool:    slices.Clone(l.Pool),
		Slots:   slices.Clone(l.Slots),
	}
}
