package round

import (
	"context"
	"slices"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/ivrit/internal/game"
	"github.com/abhisek/ivrit/internal/level"
	"github.com/abhisek/ivrit/internal/router"
	"github.com/abhisek/ivrit/internal/screens/result"
	"github.com/abhisek/ivrit/internal/screens/services"
	"github.com/abhisek/ivrit/internal/screens/services/servicestest"
)

var (
	enterKey = tea.KeyPressMsg{Code: tea.KeyEnter}
	spaceKey = tea.KeyPressMsg{Code: tea.KeySpace}
	tabKey   = tea.KeyPressMsg{Code: tea.KeyTab}
)

func letter(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func twoRounds() map[int][]level.SentenceData {
	return map[int][]level.SentenceData{1: {
		servicestest.Sentence("אני גר שם", "I live there", "אני", "גר"),
		servicestest.Sentence("הוא גר פה", "He lives here", "הוא", "פה"),
	}}
}

func newRound(t *testing.T, levels map[int][]level.SentenceData) (*RoundScreen, *services.Services) {
	t.Helper()
	svc := servicestest.New(t, levels)
	s := New(svc, 1)
	s.Init()
	return s, svc
}

// pick moves the pool cursor to the card with text and presses enter.
func pick(t *testing.T, s *RoundScreen, text string) tea.Cmd {
	t.Helper()
	idx := slices.Index(s.pool.Labels, text)
	require.GreaterOrEqual(t, idx, 0, "card %q not in pool", text)
	s.pool.Selected = idx
	_, cmd := s.Update(enterKey)
	return cmd
}

// messages runs cmd and flattens batches. Only use on commands that carry
// no timers.
func messages(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, messages(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func TestRoundScreen_InitLoadsFirstRound(t *testing.T) {
	s, _ := newRound(t, twoRounds())

	assert.Equal(t, 1, s.state.LevelID)
	assert.Equal(t, 0, s.state.Round)
	assert.Equal(t, game.PhaseInProgress, s.state.Phase)
	assert.ElementsMatch(t, []string{"אני", "גר"}, s.pool.Labels)
	assert.Equal(t, "Level 1 · Round 1/2", s.Status())
	assert.Equal(t, 1, s.gen)

	view := s.View(100, 30)
	assert.Contains(t, view, "I live there")
	assert.Contains(t, view, "Assemble the sentence")
}

func TestRoundScreen_WrongCardCountsErrorAndFlashes(t *testing.T) {
	s, _ := newRound(t, twoRounds())

	cmd := pick(t, s, "גר")
	assert.NotNil(t, cmd, "expected the flash timer")
	assert.Equal(t, 1, s.state.Errors)
	assert.Equal(t, 1, s.flash)
	assert.Equal(t, slices.Index(s.pool.Labels, "גר"), s.pool.Error)

	s.Update(flashDoneMsg{gen: s.gen, n: s.flash})
	assert.Equal(t, 0, s.flash)
	assert.Equal(t, -1, s.pool.Error)
}

func TestRoundScreen_StaleFlashIgnored(t *testing.T) {
	s, _ := newRound(t, twoRounds())
	pick(t, s, "גר")
	pick(t, s, "גר")
	require.Equal(t, 2, s.flash)

	s.Update(flashDoneMsg{gen: s.gen, n: 1})
	assert.Equal(t, 2, s.flash)
}

func TestRoundScreen_WinRevealsResultSheet(t *testing.T) {
	s, svc := newRound(t, twoRounds())

	pick(t, s, "אני")
	assert.Equal(t, []bool{true}, hiddenOf(s, "אני"))
	pick(t, s, "גר")
	require.Equal(t, game.PhaseWon, s.state.Phase)

	p, err := svc.Progress.Level(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, p.Completed.Has(0))

	_, cmd := s.Update(resultDueMsg{gen: s.gen})
	var pushed bool
	for _, m := range messages(cmd) {
		if push, ok := m.(router.PushScreenMsg); ok {
			_, pushed = push.Screen.(*result.ResultScreen)
		}
	}
	assert.True(t, pushed, "expected the result sheet to be pushed")

	snap, revealed := svc.Controller.Result()
	require.NotNil(t, snap)
	assert.True(t, revealed)
	assert.True(t, snap.HasMoreRounds)
}

func hiddenOf(s *RoundScreen, text string) []bool {
	var out []bool
	for i, l := range s.pool.Labels {
		if l == text {
			out = append(out, s.pool.Hidden[i])
		}
	}
	return out
}

func TestRoundScreen_StaleResultIgnored(t *testing.T) {
	s, svc := newRound(t, twoRounds())
	pick(t, s, "אני")
	pick(t, s, "גר")

	_, cmd := s.Update(resultDueMsg{gen: s.gen - 1})
	assert.Nil(t, cmd)
	_, revealed := svc.Controller.Result()
	assert.False(t, revealed)
}

func TestRoundScreen_NextChoiceStartsNextRound(t *testing.T) {
	s, _ := newRound(t, twoRounds())
	pick(t, s, "אני")
	pick(t, s, "גר")
	gen := s.gen

	s.Update(result.ChosenMsg{Choice: result.ChoiceNext})
	assert.Equal(t, 1, s.state.Round)
	assert.Equal(t, gen+1, s.gen)
	assert.ElementsMatch(t, []string{"הוא", "פה"}, s.pool.Labels)
}

func TestRoundScreen_MapChoicePops(t *testing.T) {
	s, _ := newRound(t, twoRounds())
	pick(t, s, "אני")
	pick(t, s, "גר")

	_, cmd := s.Update(result.ChosenMsg{Choice: result.ChoiceMap})
	require.NotNil(t, cmd)
	assert.IsType(t, router.PopScreenMsg{}, cmd())
}

func TestRoundScreen_TickAdvancesClockForCurrentRoundOnly(t *testing.T) {
	s, _ := newRound(t, twoRounds())

	_, cmd := s.Update(tickMsg{gen: s.gen})
	assert.NotNil(t, cmd, "tick should reschedule")
	assert.Equal(t, 1, s.state.Elapsed)

	_, cmd = s.Update(tickMsg{gen: s.gen - 1})
	assert.Nil(t, cmd)
	assert.Equal(t, 1, s.state.Elapsed)
	assert.Contains(t, s.View(100, 30), "0:01")
}

func TestRoundScreen_SkipMovesToNextOpenRound(t *testing.T) {
	s, _ := newRound(t, twoRounds())

	s.Update(letter('s'))
	assert.Equal(t, 1, s.state.Round)
	s.Update(letter('s'))
	assert.Equal(t, 0, s.state.Round)
}

func TestRoundScreen_RestartClearsBoard(t *testing.T) {
	s, _ := newRound(t, twoRounds())
	pick(t, s, "גר")
	pick(t, s, "אני")
	require.Equal(t, 1, s.state.Errors)

	s.Update(letter('r'))
	assert.Equal(t, 0, s.state.Errors)
	assert.Equal(t, 0, s.state.Round)
	assert.Equal(t, []bool{false}, hiddenOf(s, "אני"))
}

func TestRoundScreen_TabActivatesBlank(t *testing.T) {
	s, _ := newRound(t, twoRounds())

	s.Update(tabKey)
	first := s.slotCursor
	require.NotEqual(t, game.NoSlot, first)
	assert.Equal(t, first, s.state.ActiveSlot)

	s.Update(tabKey)
	assert.NotEqual(t, first, s.slotCursor)
	assert.Equal(t, s.slotCursor, s.state.ActiveSlot)

	// The second blank takes "גר" directly.
	pick(t, s, "גר")
	assert.Equal(t, 0, s.state.Errors)
}

func TestRoundScreen_FillInBlankTakeBack(t *testing.T) {
	s, _ := newRound(t, map[int][]level.SentenceData{1: {{
		Text:           "אני ___ שם",
		Translation:    "I live there",
		TaskType:       level.TaskFillInBlank,
		CorrectOptions: []string{"גר"},
		Distractors:    []string{"אוכל"},
	}}})

	pick(t, s, "גר")
	// One blank: filling it wins, so take-back has to happen before.
	require.Equal(t, game.PhaseWon, s.state.Phase)

	s2, _ := newRound(t, map[int][]level.SentenceData{1: {{
		Text:           "___ גר ___",
		TaskType:       level.TaskFillInBlank,
		CorrectOptions: []string{"אני", "שם"},
	}}})
	pick(t, s2, "אני")
	assert.Equal(t, []bool{true}, hiddenOf(s2, "אני"))

	s2.Update(tea.KeyPressMsg{Code: tea.KeyBackspace})
	assert.Equal(t, []bool{false}, hiddenOf(s2, "אני"))
	assert.True(t, s2.state.Slots[lastBlank(s2.state, 0)].IsOpen())
}

// lastBlank returns the index of the n-th blank slot.
func lastBlank(st game.RoundState, n int) int {
	for i, sl := range st.Slots {
		if sl.Blank {
			if n == 0 {
				return i
			}
			n--
		}
	}
	return -1
}

func TestRoundScreen_LearningRoundConfirmsWithSpace(t *testing.T) {
	s, _ := newRound(t, map[int][]level.SentenceData{1: {{
		Text:     "מילים",
		TaskType: level.TaskMatchingPairs,
		Pairs:    []level.Pair{{Hebrew: "בית", Translation: "house"}, {Hebrew: "ספר", Translation: "book"}},
	}}})
	require.True(t, s.state.Learning)

	pick(t, s, "בית")
	assert.Equal(t, game.PhaseInProgress, s.state.Phase, "pool taps only preview")

	s.Update(spaceKey)
	assert.Equal(t, game.PhaseWon, s.state.Phase)
	assert.Contains(t, s.View(100, 30), "house")
}

func TestRoundScreen_UnplayableRoundOffersSkip(t *testing.T) {
	s, _ := newRound(t, map[int][]level.SentenceData{1: {
		{Text: "אין כאן כלום", TaskType: level.TaskAssembleTranslation},
		servicestest.Sentence("אני גר שם", "I live there", "אני"),
	}})

	assert.True(t, s.unplayable)
	assert.Contains(t, s.View(100, 30), "nothing to play")

	s.Update(letter('s'))
	assert.False(t, s.unplayable)
	assert.Equal(t, 1, s.state.Round)
}

func TestRoundScreen_CompletedLevel(t *testing.T) {
	svc := servicestest.New(t, twoRounds())
	ctx := context.Background()
	require.NoError(t, svc.Progress.AddCompleted(ctx, 1, 0))
	require.NoError(t, svc.Progress.AddCompleted(ctx, 1, 1))

	s := New(svc, 1)
	s.Init()
	assert.True(t, s.levelDone)
	assert.True(t, strings.Contains(s.View(80, 24), "Level 1 complete"))

	s.Update(letter('x'))
	assert.False(t, s.levelDone)
	assert.Equal(t, 0, s.state.Round)
}

func TestRoundScreen_LastRoundWinReturnsToMap(t *testing.T) {
	svc := servicestest.New(t, twoRounds())
	require.NoError(t, svc.Progress.AddCompleted(context.Background(), 1, 0))

	s := New(svc, 1)
	s.Init()
	require.Equal(t, 1, s.state.Round)
	pick(t, s, "הוא")
	pick(t, s, "פה")

	_, cmd := s.Update(result.ChosenMsg{Choice: result.ChoiceNext})
	require.NotNil(t, cmd)
	assert.Contains(t, messages(cmd), tea.Msg(router.PopScreenMsg{}))
	assert.True(t, s.levelDone)
}
