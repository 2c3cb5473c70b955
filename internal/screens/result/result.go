// Package result shows the sheet that follows a won round.
package result

import (
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/ivrit/internal/game"
	"github.com/abhisek/ivrit/internal/router"
	"github.com/abhisek/ivrit/internal/screen"
	"github.com/abhisek/ivrit/internal/ui/components"
	"github.com/abhisek/ivrit/internal/ui/layout"
	"github.com/abhisek/ivrit/internal/ui/theme"
)

// Choice is the player's answer to the sheet.
type Choice int

const (
	ChoiceNext Choice = iota
	ChoiceMap
)

// ChosenMsg is delivered to the screen below once the sheet closes.
type ChosenMsg struct {
	Choice Choice
}

// ResultScreen displays a round result snapshot.
type ResultScreen struct {
	snap     game.RoundResultSnapshot
	replay   func()
	selected int
}

var _ screen.Screen = (*ResultScreen)(nil)
var _ screen.KeyHintProvider = (*ResultScreen)(nil)

// New creates a new ResultScreen. replay plays the round's recording and
// may be nil.
func New(snap game.RoundResultSnapshot, replay func()) *ResultScreen {
	return &ResultScreen{snap: snap, replay: replay}
}

func (s *ResultScreen) Init() tea.Cmd {
	return nil
}

func (s *ResultScreen) Title() string {
	return "Round Complete"
}

// Status echoes the finished round in the header.
func (s *ResultScreen) Status() string {
	return fmt.Sprintf("Level %d · Round %d", s.snap.LevelID, s.snap.Round+1)
}

func (s *ResultScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "←→", Description: "Choose"},
		{Key: "Enter", Description: "Select"},
	}
	if s.canReplay() {
		hints = append(hints, layout.KeyHint{Key: "P", Description: "Replay"})
	}
	return hints
}

func (s *ResultScreen) buttons() []Choice {
	if s.snap.HasMoreRounds {
		return []Choice{ChoiceNext, ChoiceMap}
	}
	return []Choice{ChoiceMap}
}

func (s *ResultScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	buttons := s.buttons()
	switch kmsg.String() {
	case "left", "h":
		if s.selected > 0 {
			s.selected--
		}
	case "right", "l":
		if s.selected < len(buttons)-1 {
			s.selected++
		}
	case "enter":
		return s, choose(buttons[s.selected])
	case "p":
		if s.canReplay() {
			s.replay()
		}
	}
	return s, nil
}

// choose closes the sheet, then reports c to the round below.
func choose(c Choice) tea.Cmd {
	return tea.Sequence(
		func() tea.Msg { return router.PopScreenMsg{} },
		func() tea.Msg { return ChosenMsg{Choice: c} },
	)
}

func (s *ResultScreen) canReplay() bool {
	return s.snap.Audio != "" && s.replay != nil
}

func label(c Choice) string {
	if c == ChoiceNext {
		return "NEXT ROUND"
	}
	return "LEVEL MAP"
}

func (s *ResultScreen) View(width, height int) string {
	snap := s.snap
	cw := components.ContentWidth(width)
	center := lipgloss.NewStyle().Width(cw).Align(lipgloss.Center)

	var b strings.Builder
	b.WriteString(center.Foreground(gradeColor(snap.Errors)).Bold(true).
		Render(gradeTitle(snap.Errors)))
	b.WriteString("\n\n")

	var words []string
	for _, c := range snap.Cards {
		words = append(words, c.Text)
	}
	if len(words) > 0 {
		b.WriteString(center.Foreground(theme.Text).Bold(true).Render(strings.Join(words, " ")))
		b.WriteString("\n")
	}
	if snap.Translation != "" {
		b.WriteString(center.Foreground(theme.TextDim).Render(snap.Translation))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	stats := fmt.Sprintf("Mistakes: %d        Time: %d:%02d",
		snap.Errors, snap.ElapsedSeconds/60, snap.ElapsedSeconds%60)
	b.WriteString(center.Foreground(theme.Text).Render(stats))
	b.WriteString("\n\n")

	var buttons []string
	for i, c := range s.buttons() {
		buttons = append(buttons, components.Button(label(c), i == s.selected, 16))
	}
	b.WriteString(center.Render(lipgloss.JoinHorizontal(lipgloss.Center, buttons...)))

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		components.Card(b.String(), cw))
}

func gradeTitle(errors int) string {
	switch game.Grade(errors) {
	case game.StatusPerfect:
		return "★ Perfect!"
	case game.StatusGood:
		return "● Good job!"
	default:
		return "○ Round passed"
	}
}

func gradeColor(errors int) color.Color {
	switch game.Grade(errors) {
	case game.StatusPerfect:
		return theme.Perfect
	case game.StatusGood:
		return theme.Good
	default:
		return theme.Passed
	}
}
