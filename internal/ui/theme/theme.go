// Package theme holds the palette and the word-card styles shared by every
// screen.
package theme

import (
	"charm.land/lipgloss/v2"
)

// Palette.
var (
	Primary   = lipgloss.Color("#3B82F6")
	Secondary = lipgloss.Color("#14B8A6")
	Accent    = lipgloss.Color("#F59E0B")
	Success   = lipgloss.Color("#22C55E")
	Error     = lipgloss.Color("#F43F5E")
	Text      = lipgloss.Color("#F8FAFC")
	TextDim   = lipgloss.Color("#94A3B8")
	BgDark    = lipgloss.Color("#0F172A")
	BgCard    = lipgloss.Color("#1E293B")
	Border    = lipgloss.Color("#334155")

	// Gold and Sky mark headings, selection and anything celebratory.
	Gold = lipgloss.Color("#FACC15")
	Sky  = lipgloss.Color("#22D3EE")
)

// Round grades on the level map.
var (
	Perfect = Gold
	Good    = Success
	Passed  = lipgloss.Color("#A3A3A3")
	Locked  = lipgloss.Color("#475569")
)

// Word cards in the pool. A card that has been placed keeps its box in the
// background colour so the row does not reflow.
var (
	WordCard = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Foreground(Text).
			Padding(0, 1)

	WordCardSelected = WordCard.
				BorderForeground(Primary).
				Foreground(Primary).
				Bold(true)

	WordCardError = WordCard.
			BorderForeground(Error).
			Foreground(Error)

	WordCardGone = WordCard.
			BorderForeground(BgCard).
			Foreground(BgCard)
)

// Answer slots.
var (
	Blank = lipgloss.NewStyle().
		Foreground(Accent).
		Underline(true)

	BlankActive = Blank.
			Foreground(Primary).
			Bold(true)

	Placed = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)
)
