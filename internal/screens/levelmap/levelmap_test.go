package levelmap

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/ivrit/internal/level"
	"github.com/abhisek/ivrit/internal/router"
	"github.com/abhisek/ivrit/internal/screens/journal"
	"github.com/abhisek/ivrit/internal/screens/round"
	"github.com/abhisek/ivrit/internal/screens/services"
	"github.com/abhisek/ivrit/internal/screens/services/servicestest"
)

func twoLevels(t *testing.T) *services.Services {
	t.Helper()
	s := servicestest.Sentence
	return servicestest.New(t, map[int][]level.SentenceData{
		1: {s("שלום", "hello", "שלום"), s("כן", "yes", "כן")},
		2: {s("לא", "no", "לא")},
	})
}

func key(s string) tea.KeyPressMsg {
	switch s {
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "down":
		return tea.KeyPressMsg{Code: tea.KeyDown}
	case "up":
		return tea.KeyPressMsg{Code: tea.KeyUp}
	}
	r := []rune(s)[0]
	return tea.KeyPressMsg{Code: r, Text: s}
}

func pushed(t *testing.T, cmd tea.Cmd) router.PushScreenMsg {
	t.Helper()
	require.NotNil(t, cmd)
	msg, ok := cmd().(router.PushScreenMsg)
	require.True(t, ok)
	return msg
}

func TestLevelMap_FirstLevelUnlocked(t *testing.T) {
	m := New(twoLevels(t), 0)
	require.Len(t, m.levels, 2)
	assert.True(t, m.levels[0].Unlocked)
	assert.False(t, m.levels[1].Unlocked)
	assert.Equal(t, "Level 1 · 0/2", m.Status())

	view := m.View(80, 24)
	assert.Contains(t, view, "Level 1")
	assert.Contains(t, view, "locked")
}

func TestLevelMap_FocusSelectsLevel(t *testing.T) {
	m := New(twoLevels(t), 2)
	assert.Equal(t, 1, m.cursor)
}

func TestLevelMap_EnterPushesRound(t *testing.T) {
	m := New(twoLevels(t), 0)
	_, cmd := m.Update(key("enter"))
	msg := pushed(t, cmd)
	assert.IsType(t, &round.RoundScreen{}, msg.Screen)
}

func TestLevelMap_LockedLevelIgnored(t *testing.T) {
	m := New(twoLevels(t), 0)
	m.Update(key("down"))
	_, cmd := m.Update(key("enter"))
	assert.Nil(t, cmd)
	_, cmd = m.Update(key("J"))
	assert.Nil(t, cmd)
}

func TestLevelMap_JournalKey(t *testing.T) {
	m := New(twoLevels(t), 0)
	_, cmd := m.Update(key("J"))
	msg := pushed(t, cmd)
	assert.IsType(t, &journal.JournalScreen{}, msg.Screen)
}

func TestLevelMap_ResumeUnlocksNextLevel(t *testing.T) {
	svc := twoLevels(t)
	m := New(svc, 0)
	ctx := context.Background()
	require.NoError(t, svc.Progress.AddCompleted(ctx, 1, 0))
	require.NoError(t, svc.Progress.AddCompleted(ctx, 1, 1))

	m.Resume()
	assert.True(t, m.levels[0].Completed)
	assert.True(t, m.levels[1].Unlocked)
}

func TestLevelMap_ResetConfirm(t *testing.T) {
	svc := twoLevels(t)
	ctx := context.Background()
	require.NoError(t, svc.Progress.AddCompleted(ctx, 1, 0))
	m := New(svc, 1)

	m.Update(key("x"))
	require.True(t, m.confirmReset)
	assert.Contains(t, m.View(80, 24), "Reset all progress on level 1?")

	m.Update(key("n"))
	assert.False(t, m.confirmReset)
	assert.Equal(t, 1, m.levels[0].Done)

	m.Update(key("x"))
	m.Update(key("y"))
	assert.False(t, m.confirmReset)
	assert.Equal(t, 0, m.levels[0].Done)
}

func TestLevelMap_ResetNeedsProgress(t *testing.T) {
	m := New(twoLevels(t), 0)
	m.Update(key("x"))
	assert.False(t, m.confirmReset)
}

func TestLevelMap_QuitPops(t *testing.T) {
	m := New(twoLevels(t), 0)
	_, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, router.PopScreenMsg{}, cmd())
}

func TestLevelMap_Empty(t *testing.T) {
	m := New(servicestest.New(t, nil), 0)
	assert.Contains(t, m.View(80, 24), "No levels found")
	_, cmd := m.Update(key("enter"))
	assert.Nil(t, cmd)
}
