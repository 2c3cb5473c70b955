// Package screen defines what the router stacks. A screen renders only its
// content area; the app draws the header and footer around it.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/ivrit/internal/ui/layout"
)

// Screen is one page of the app.
type Screen interface {
	Init() tea.Cmd
	// Update may return a different screen to take this one's place.
	Update(msg tea.Msg) (Screen, tea.Cmd)
	// View renders into a width × height content area.
	View(width, height int) string
	// Title is shown in the middle of the header.
	Title() string
}

// KeyHintProvider replaces the default footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// StatusProvider fills the right side of the header, e.g. "Level 2 · 3/8".
type StatusProvider interface {
	Status() string
}

// Resumer is told when it is back on top after the screen above it pops,
// so it can reload progress.
type Resumer interface {
	Resume() tea.Cmd
}
