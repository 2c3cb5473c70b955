package task

import (
	"math/rand/v2"
	"strings"

	"github.com/abhisek/ivrit/internal/level"
)

type options struct {
	glossary map[string]string
}

// Option customizes Assemble.
type Option func(*options)

// WithGlossary supplies translations for target and distractor cards, keyed
// by card text.
func WithGlossary(g map[string]string) Option {
	return func(o *options) { o.glossary = g }
}

// Assemble builds the board of one round. pairs overrides the sentence's own
// pair list order and is used by CONJUGATION and MATCHING_PAIRS; pass nil to
// keep the stored order. rng drives the pool shuffle and the CONJUGATION
// bonus row.
//
// An empty Slots list means the record cannot be played.
func Assemble(s level.SentenceData, t level.TaskType, pairs []level.Pair, rng *rand.Rand, opts ...Option) Layout {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	a := assembler{opts: o, rng: rng}

	switch t {
	case level.TaskAssembleTranslation, level.TaskAudition:
		return a.fromSource(s.Text, s)
	case level.TaskQuiz, level.TaskMakeQuestion, level.TaskMakeAnswer:
		return a.fromSource(strings.Join(s.CorrectOptions, " "), s)
	case level.TaskFillInBlank:
		return a.fillInBlank(s)
	case level.TaskConjugation:
		return a.conjugation(s, pickPairs(s, pairs))
	case level.TaskMatchingPairs:
		return a.matchingPairs(s, pickPairs(s, pairs))
	default:
		return Layout{}
	}
}

// ShufflePairs returns a shuffled copy of the sentence's pairs, or nil when
// it has none.
func ShufflePairs(s level.SentenceData, rng *rand.Rand) []level.Pair {
	if s.Pairs == nil {
		return nil
	}
	out := make([]level.Pair, len(s.Pairs))
	copy(out, s.Pairs)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

func pickPairs(s level.SentenceData, override []level.Pair) []level.Pair {
	if override != nil {
		return override
	}
	return s.Pairs
}

type assembler struct {
	opts options
	rng  *rand.Rand
}

func (a assembler) card(text string) Card {
	t := strings.TrimSpace(text)
	return NewCard(t, a.opts.glossary[t])
}

func (a assembler) cards(texts []string) []Card {
	out := make([]Card, 0, len(texts))
	for _, t := range texts {
		out = append(out, a.card(t))
	}
	return out
}

// pool shuffles cards once into the visible pool.
func (a assembler) pool(cards ...[]Card) []AvailableCard {
	var out []AvailableCard
	for _, group := range cards {
		for _, c := range group {
			out = append(out, AvailableCard{Card: c, Visible: true})
		}
	}
	a.rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

func (a assembler) fromSource(source string, s level.SentenceData) Layout {
	targets := a.cards(s.TargetCards)
	return Layout{
		Targets: targets,
		Pool:    a.pool(targets, a.cards(s.Distractors)),
		Slots:   fillBlanks(source, targets),
	}
}

// fillInBlank splits the display text on blank markers. Segments are literal
// and each gap takes the next correct option in textual order.
func (a assembler) fillInBlank(s level.SentenceData) Layout {
	targets := a.cards(s.CorrectOptions)
	lb := &lineBuilder{row: NoRow}

	parts := strings.Split(s.Text, BlankMarker)
	next := 0
	for i, part := range parts {
		lb.addText(part, nil)
		if i == len(parts)-1 {
			break
		}
		if next < len(targets) {
			lb.blank(targets[next])
			next++
		} else {
			// More gaps than answers: show the marker as plain text.
			lb.literal(BlankMarker)
		}
	}
	return Layout{
		Targets: targets,
		Pool:    a.pool(targets, a.cards(s.Distractors)),
		Slots:   lb.slots,
	}
}

// conjugation lays out one row per pair: the static column as a single
// literal, then the dynamic column with target words as blanks. One random
// row is the bonus row whose blanks start filled and whose cards are kept
// out of the pool.
func (a assembler) conjugation(s level.SentenceData, pairs []level.Pair) Layout {
	if len(pairs) == 0 {
		return Layout{}
	}
	targets := a.cards(s.TargetCards)
	b := newBinder(targets)
	bonus := a.rng.IntN(len(pairs))
	bonusIDs := map[string]bool{}

	lb := &lineBuilder{}
	for i, p := range pairs {
		lb.row = i
		static, dynamic := p.Hebrew, p.Translation
		if s.SwapColumns {
			static, dynamic = dynamic, static
		}
		lb.literal(static)

		start := len(lb.slots)
		lb.addText(dynamic, b)
		if i != bonus {
			continue
		}
		for j := start; j < len(lb.slots); j++ {
			if slot := &lb.slots[j]; slot.Blank {
				filled := *slot.Target
				slot.Filled = &filled
				bonusIDs[filled.ID] = true
			}
		}
	}

	var remaining []Card
	for _, c := range targets {
		if !bonusIDs[c.ID] {
			remaining = append(remaining, c)
		}
	}
	return Layout{
		Targets: targets,
		Pool:    a.pool(remaining, a.cards(s.Distractors)),
		Slots:   lb.slots,
	}
}

// matchingPairs shows every pair as a translation literal next to a
// pre-filled blank. The same cards also appear in the pool for preview.
func (a assembler) matchingPairs(s level.SentenceData, pairs []level.Pair) Layout {
	if len(pairs) == 0 {
		return Layout{}
	}
	var (
		cards []Card
		slots []Slot
	)
	for i, p := range pairs {
		c := NewCard(p.Hebrew, p.Translation)
		cards = append(cards, c)

		slots = append(slots, literalSlot(p.Translation, i))
		blank := blankSlot(c, i)
		filled := c
		blank.Filled = &filled
		slots = append(slots, blank)
	}
	return Layout{
		Targets: cards,
		Pool:    a.pool(cards, a.cards(s.Distractors)),
		Slots:   slots,
	}
}
