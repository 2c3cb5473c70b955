package task

import (
	"github.com/abhisek/ivrit/internal/hebrew"
)

// binder hands out target cards for blanks. Each card is bound at most once,
// in target-list order.
type binder struct {
	cards []Card
	used  []bool
}

func newBinder(cards []Card) *binder {
	return &binder{cards: cards, used: make([]bool, len(cards))}
}

// bind returns the first unused card whose text equals word.
func (b *binder) bind(word string) (Card, bool) {
	for i, c := range b.cards {
		if !b.used[i] && c.Text == word {
			b.used[i] = true
			return c, true
		}
	}
	return Card{}, false
}

// unused returns the cards that were never bound, in list order.
func (b *binder) unused() []Card {
	var out []Card
	for i, c := range b.cards {
		if !b.used[i] {
			out = append(out, c)
		}
	}
	return out
}

// lineBuilder accumulates slots, merging separator runs into the preceding
// literal slot.
type lineBuilder struct {
	slots []Slot
	row   int
}

func (lb *lineBuilder) literal(text string) {
	lb.slots = append(lb.slots, literalSlot(text, lb.row))
}

// separator appends punctuation or whitespace. It joins the previous slot
// when that slot is a literal other than a line break.
func (lb *lineBuilder) separator(text string) {
	if n := len(lb.slots); n > 0 {
		last := &lb.slots[n-1]
		if !last.Blank && last.Text != "\n" {
			last.Text += text
			return
		}
	}
	lb.literal(text)
}

func (lb *lineBuilder) blank(target Card) {
	lb.slots = append(lb.slots, blankSlot(target, lb.row))
}

// addText tokenizes text and appends it. Word tokens become blanks when b is
// non-nil and has an unused card with the same text; otherwise everything
// becomes literal.
func (lb *lineBuilder) addText(text string, b *binder) {
	for tok := range hebrew.Tokenize(text) {
		switch tok.Kind {
		case hebrew.KindWord:
			if b != nil {
				if card, ok := b.bind(tok.Text); ok {
					lb.blank(card)
					continue
				}
			}
			lb.literal(tok.Text)
		case hebrew.KindNewline:
			lb.literal(tok.Text)
		default:
			lb.separator(tok.Text)
		}
	}
}

// fillBlanks is the shared slot-binding algorithm: every word of source that
// has a matching unused target card becomes a blank bound to that card.
// Words left without a card stay literal.
func fillBlanks(source string, targets []Card) []Slot {
	lb := &lineBuilder{row: NoRow}
	lb.addText(source, newBinder(targets))
	return lb.slots
}
