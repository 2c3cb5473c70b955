package game

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/ivrit/internal/level"
	"github.com/abhisek/ivrit/internal/task"
)

func newTestRound(t *testing.T, s level.SentenceData) RoundState {
	t.Helper()
	l := task.Assemble(s, s.TaskType, nil, rand.New(rand.NewPCG(1, 2)))
	return NewRound(1, 0, s, l)
}

// poolIndex finds the first visible pool card with text.
func poolIndex(t *testing.T, st RoundState, text string) int {
	t.Helper()
	for i, p := range st.Pool {
		if p.Visible && p.Card.Text == text {
			return i
		}
	}
	t.Fatalf("no visible pool card %q", text)
	return -1
}

func assembleSentence() level.SentenceData {
	return level.SentenceData{
		Text:        "אני גר שם",
		TaskType:    level.TaskAssembleTranslation,
		TargetCards: []string{"אני", "גר"},
		Distractors: []string{"הוא"},
	}
}

func TestSelectCard_CorrectFillsFirstOpenBlank(t *testing.T) {
	st := newTestRound(t, assembleSentence())

	next, out := SelectCard(st, poolIndex(t, st, "אני"))
	assert.Equal(t, OutcomeCorrect, out.Kind)
	assert.Equal(t, 0, out.Slot)
	assert.False(t, out.Won)
	require.NotNil(t, next.Slots[0].Filled)
	assert.Equal(t, "אני", next.Slots[0].Filled.Text)

	// Input state untouched.
	assert.Nil(t, st.Slots[0].Filled)
	assert.True(t, st.Pool[poolIndex(t, st, "אני")].Visible)

	// Consumed card stays in place but hidden.
	assert.Len(t, next.Pool, len(st.Pool))
	hidden := 0
	for _, p := range next.Pool {
		if !p.Visible {
			hidden++
		}
	}
	assert.Equal(t, 1, hidden)
}

func TestSelectCard_IncorrectCountsError(t *testing.T) {
	st := newTestRound(t, assembleSentence())

	idx := poolIndex(t, st, "הוא")
	next, out := SelectCard(st, idx)
	assert.Equal(t, OutcomeIncorrect, out.Kind)
	assert.Equal(t, 1, next.Errors)
	assert.Equal(t, st.Pool[idx].Card.ID, next.ErrorCardID)
	assert.True(t, next.Pool[idx].Visible, "wrong card stays in the pool")

	// Out of order is also wrong.
	next, out = SelectCard(next, poolIndex(t, next, "גר"))
	assert.Equal(t, OutcomeIncorrect, out.Kind)
	assert.Equal(t, 2, next.Errors)
}

func TestSelectCard_WinAfterAllBlanks(t *testing.T) {
	st := newTestRound(t, assembleSentence())

	st, _ = SelectCard(st, poolIndex(t, st, "אני"))
	st, out := SelectCard(st, poolIndex(t, st, "גר"))
	assert.True(t, out.Won)
	assert.Equal(t, PhaseWon, st.Phase)
	assert.True(t, st.Complete())

	// Taps after the win are ignored.
	after, out := SelectCard(st, poolIndex(t, st, "הוא"))
	assert.Equal(t, OutcomeIgnored, out.Kind)
	assert.Equal(t, st.Errors, after.Errors)
}

func TestSelectCard_HiddenCardIgnored(t *testing.T) {
	st := newTestRound(t, assembleSentence())
	idx := poolIndex(t, st, "אני")
	st, _ = SelectCard(st, idx)

	next, out := SelectCard(st, idx)
	assert.Equal(t, OutcomeIgnored, out.Kind)
	assert.Equal(t, 0, next.Errors)

	_, out = SelectCard(st, 99)
	assert.Equal(t, OutcomeIgnored, out.Kind)
}

func TestSelectCard_ActiveSlotPreferred(t *testing.T) {
	st := newTestRound(t, assembleSentence())

	st, out := ActivateSlot(st, 2)
	require.Equal(t, OutcomeActivated, out.Kind)
	assert.Equal(t, 2, st.ActiveSlot)

	st, out = SelectCard(st, poolIndex(t, st, "גר"))
	assert.Equal(t, OutcomeCorrect, out.Kind)
	assert.Equal(t, 2, out.Slot)
	assert.Equal(t, NoSlot, st.ActiveSlot)
	assert.Nil(t, st.Slots[0].Filled)
}

func TestActivateSlot_LiteralIgnored(t *testing.T) {
	st := newTestRound(t, assembleSentence())
	_, out := ActivateSlot(st, 4)
	assert.Equal(t, OutcomeIgnored, out.Kind)
}

func TestFillInBlank_ReturnCard(t *testing.T) {
	s := level.SentenceData{
		Text:           "אני ___ ב___",
		TaskType:       level.TaskFillInBlank,
		CorrectOptions: []string{"גר", "בית"},
	}
	st := newTestRound(t, s)

	idx := poolIndex(t, st, "גר")
	st, out := SelectCard(st, idx)
	require.Equal(t, OutcomeCorrect, out.Kind)
	filledSlot := out.Slot

	st, out = ActivateSlot(st, filledSlot)
	assert.Equal(t, OutcomeReturned, out.Kind)
	assert.Nil(t, st.Slots[filledSlot].Filled)
	assert.True(t, st.Pool[idx].Visible)

	// Not available for other task types.
	other := newTestRound(t, assembleSentence())
	other, _ = SelectCard(other, poolIndex(t, other, "אני"))
	_, out = ActivateSlot(other, 0)
	assert.Equal(t, OutcomeIgnored, out.Kind)
}

func TestLearningRound(t *testing.T) {
	s := level.SentenceData{
		TaskType: level.TaskMatchingPairs,
		Pairs:    []level.Pair{{Hebrew: "שלום", Translation: "hello"}},
	}
	st := newTestRound(t, s)
	require.True(t, st.Learning)
	require.True(t, st.Playable())

	next, out := SelectCard(st, 0)
	assert.Equal(t, OutcomePreview, out.Kind)
	assert.Equal(t, 0, next.Errors)
	assert.True(t, next.Pool[0].Visible)

	won, ok := Confirm(next)
	assert.True(t, ok)
	assert.Equal(t, PhaseWon, won.Phase)

	_, ok = Confirm(won)
	assert.False(t, ok)
}

func TestPlayable(t *testing.T) {
	empty := NewRound(1, 0, level.SentenceData{TaskType: level.TaskConjugation}, task.Layout{})
	assert.False(t, empty.Playable())

	noBlanks := newTestRound(t, level.SentenceData{Text: "שלום", TaskType: level.TaskAudition})
	assert.False(t, noBlanks.Playable())
}

func TestTick(t *testing.T) {
	st := newTestRound(t, assembleSentence())
	st = Tick(Tick(st))
	assert.Equal(t, 2, st.Elapsed)

	st.Phase = PhaseWon
	assert.Equal(t, 2, Tick(st).Elapsed)
}

func TestCompletedCardsAndRowTexts(t *testing.T) {
	s := level.SentenceData{
		TaskType:    level.TaskConjugation,
		TargetCards: []string{"אוכל", "אוכלת"},
		Pairs: []level.Pair{
			{Hebrew: "אני", Translation: "אוכל"},
			{Hebrew: "את", Translation: "אוכלת"},
		},
	}
	st := newTestRound(t, s)
	assert.Len(t, st.CompletedCards(), 2)
	assert.Equal(t, []string{"אני", "אוכל"}, st.RowTexts(0))
	assert.Equal(t, []string{"את", "אוכלת"}, st.RowTexts(1))
}

func TestSelectCard_TargetTextIsTrimmedButNotFolded(t *testing.T) {
	target := task.Card{ID: "t", Text: " שם "}
	st := RoundState{
		TaskType:   level.TaskAssembleTranslation,
		Targets:    []task.Card{target},
		Slots:      []task.Slot{{ID: "s", Blank: true, Target: &target}},
		ActiveSlot: NoSlot,
		Phase:      PhaseInProgress,
		Pool: []task.AvailableCard{
			{Card: task.Card{ID: "a", Text: "שמ"}, Visible: true},
			{Card: task.Card{ID: "b", Text: "שם"}, Visible: true},
		},
	}

	next, out := SelectCard(st, 0)
	assert.Equal(t, OutcomeIncorrect, out.Kind, "final mem is a different letter")
	assert.Equal(t, 1, next.Errors)
	assert.Nil(t, next.Slots[0].Filled)

	next, out = SelectCard(next, 1)
	assert.Equal(t, OutcomeCorrect, out.Kind)
	assert.True(t, out.Won)
	assert.Equal(t, PhaseWon, next.Phase)
	require.NotNil(t, next.Slots[0].Filled)
	assert.Equal(t, "שם", next.Slots[0].Filled.Text)

	assert.True(t, target.Matches(task.Card{Text: "שם"}))
	assert.False(t, target.Matches(task.Card{Text: "שמ"}))
}
