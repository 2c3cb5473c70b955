package alefbet

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/ivrit/internal/router"
	"github.com/abhisek/ivrit/internal/screens/services/servicestest"
)

func newAlefbet(t *testing.T) *AlefbetScreen {
	t.Helper()
	return New(servicestest.New(t, nil))
}

// indexOf finds the dealt position of the letter at alphabetical offset.
func indexOf(s *AlefbetScreen, offset int) int {
	for i, l := range s.game.Available {
		if l.Offset == offset {
			return i
		}
	}
	return -1
}

func TestAlefbetScreen_DealsAllLetters(t *testing.T) {
	s := newAlefbet(t)
	assert.Len(t, s.cards.Labels, 22)
	assert.Contains(t, s.View(80, 24), "0/22")
}

func TestAlefbetScreen_WrongPickFlashes(t *testing.T) {
	s := newAlefbet(t)
	wrong := indexOf(s, 5)
	cmd := s.pick(wrong)
	require.NotNil(t, cmd)
	assert.Equal(t, wrong, s.cards.Error)
	assert.Equal(t, 1, s.game.Errors)

	s.Update(flashDoneMsg{n: s.flash})
	assert.Equal(t, -1, s.cards.Error)
}

func TestAlefbetScreen_StaleFlashIgnored(t *testing.T) {
	s := newAlefbet(t)
	s.pick(indexOf(s, 3))
	s.pick(indexOf(s, 4))
	s.Update(flashDoneMsg{n: 1})
	assert.NotEqual(t, -1, s.cards.Error)
}

func TestAlefbetScreen_CorrectPickHidesCard(t *testing.T) {
	s := newAlefbet(t)
	idx := indexOf(s, 0)
	assert.Nil(t, s.pick(idx))
	assert.True(t, s.cards.Hidden[idx])
	assert.NotEqual(t, idx, s.cards.Selected)
	assert.Contains(t, s.View(80, 24), "א")
}

func TestAlefbetScreen_WinCountsCompletion(t *testing.T) {
	s := newAlefbet(t)
	for off := range 22 {
		s.pick(indexOf(s, off))
	}
	assert.True(t, s.game.Won)
	assert.Equal(t, 1, s.svc.Progress.AlefbetCompletions(context.Background()))
	assert.Contains(t, s.View(80, 24), "whole alef-bet")

	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.False(t, s.game.Won)
	assert.Empty(t, s.game.Selected)
}

func TestAlefbetScreen_Reshuffle(t *testing.T) {
	s := newAlefbet(t)
	s.pick(indexOf(s, 0))
	s.Update(tea.KeyPressMsg{Code: 'r', Text: "r"})
	assert.Empty(t, s.game.Selected)
	assert.NotContains(t, s.cards.Hidden, true)
}

func TestAlefbetScreen_ToggleFont(t *testing.T) {
	s := newAlefbet(t)
	before := s.style
	s.Update(tea.KeyPressMsg{Code: 't', Text: "t"})
	assert.NotEqual(t, before, s.style)
	assert.Equal(t, s.style, s.svc.Progress.FontStyleFor(context.Background(), 1))
}

func TestAlefbetScreen_QuitPops(t *testing.T) {
	s := newAlefbet(t)
	_, cmd := s.Update(tea.KeyPressMsg{Code: 'q', Text: "q"})
	require.NotNil(t, cmd)
	assert.IsType(t, router.PopScreenMsg{}, cmd())
}
