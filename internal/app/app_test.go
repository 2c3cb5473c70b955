package app

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/ivrit/internal/level"
	"github.com/abhisek/ivrit/internal/router"
	"github.com/abhisek/ivrit/internal/screens/home"
	"github.com/abhisek/ivrit/internal/screens/levelmap"
	"github.com/abhisek/ivrit/internal/screens/services/servicestest"
	"github.com/abhisek/ivrit/internal/screens/welcome"
)

func oneLevel(t *testing.T) AppModel {
	t.Helper()
	svc := servicestest.New(t, map[int][]level.SentenceData{
		1: {servicestest.Sentence("שלום", "hello", "שלום")},
	})
	return newAppModel(svc, 0)
}

func TestNewAppModel_StartsAtWelcome(t *testing.T) {
	m := oneLevel(t)
	assert.IsType(t, &welcome.WelcomeScreen{}, m.router.Active())
	assert.Equal(t, 1, m.router.Depth())
	assert.NotNil(t, m.Init())
}

func TestNewAppModel_StartLevelOpensMap(t *testing.T) {
	svc := servicestest.New(t, map[int][]level.SentenceData{
		1: {servicestest.Sentence("שלום", "hello", "שלום")},
	})
	m := newAppModel(svc, 1)
	assert.IsType(t, &levelmap.LevelMapScreen{}, m.router.Active())
	assert.Equal(t, 2, m.router.Depth())

	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	require.NotNil(t, cmd)
	assert.IsType(t, router.PopScreenMsg{}, cmd())
}

func TestUpdate_WindowSize(t *testing.T) {
	m := oneLevel(t)
	next, cmd := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	assert.Nil(t, cmd)
	am := next.(AppModel)
	assert.Equal(t, 100, am.width)
	assert.Equal(t, 30, am.height)
	assert.True(t, am.View().AltScreen)
}

func TestUpdate_CtrlCQuits(t *testing.T) {
	m := oneLevel(t)
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestUpdate_EscAtRootDoesNothing(t *testing.T) {
	m := oneLevel(t)
	_, cmd := m.Update(tea.KeyPressMsg{Code: tea.KeyEscape})
	assert.Nil(t, cmd)
	assert.Equal(t, 1, m.router.Depth())
}

func TestWelcomeKeyReplacesWithHome(t *testing.T) {
	m := oneLevel(t)
	_, cmd := m.Update(tea.KeyPressMsg{Code: ' ', Text: " "})
	require.NotNil(t, cmd)
	msg := cmd()
	require.IsType(t, router.ReplaceScreenMsg{}, msg)

	m.Update(msg)
	assert.IsType(t, &home.HomeScreen{}, m.router.Active())
	assert.Equal(t, 1, m.router.Depth())
}

func TestFooterHints(t *testing.T) {
	m := oneLevel(t)
	root := footerHints(m.router.Active(), 1)
	assert.Equal(t, "Enter", root[1].Key)

	deep := footerHints(m.router.Active(), 2)
	assert.Equal(t, "Esc", deep[0].Key)
	assert.Equal(t, "Ctrl+C", deep[len(deep)-1].Key)
}
