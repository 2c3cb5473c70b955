package placeholder

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/ivrit/internal/router"
)

func TestPlaceholder_View(t *testing.T) {
	p := New("Continue", "Every level is finished.\nReset a level to play again.")
	assert.Equal(t, "Continue", p.Title())
	view := p.View(80, 20)
	assert.Contains(t, view, "Every level is finished.")
	assert.Contains(t, view, "Reset a level to play again.")
}

func TestPlaceholder_Dismiss(t *testing.T) {
	p := New("x", "y")
	for _, key := range []tea.KeyPressMsg{
		{Code: tea.KeyEnter},
		{Code: tea.KeyEscape},
		{Code: 'q', Text: "q"},
	} {
		_, cmd := p.Update(key)
		require.NotNil(t, cmd, key.String())
		assert.IsType(t, router.PopScreenMsg{}, cmd())
	}

	_, cmd := p.Update(tea.KeyPressMsg{Code: 'a', Text: "a"})
	assert.Nil(t, cmd)
}
