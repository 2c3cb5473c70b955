// Package alefbet is the screen for the alphabet ordering mini-game.
package alefbet

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	ab "github.com/abhisek/ivrit/internal/alefbet"
	"github.com/abhisek/ivrit/internal/audio"
	"github.com/abhisek/ivrit/internal/progress"
	"github.com/abhisek/ivrit/internal/router"
	"github.com/abhisek/ivrit/internal/screen"
	"github.com/abhisek/ivrit/internal/screens/services"
	"github.com/abhisek/ivrit/internal/ui/components"
	"github.com/abhisek/ivrit/internal/ui/layout"
	"github.com/abhisek/ivrit/internal/ui/theme"
)

const flashDuration = 400 * time.Millisecond

type flashDoneMsg struct{ n int }

// AlefbetScreen deals the 22 letters and waits for them in order.
type AlefbetScreen struct {
	svc    *services.Services
	game   *ab.Game
	cards  components.CardRow
	style  progress.FontStyle
	flash  int
	errMsg string
}

var (
	_ screen.Screen          = (*AlefbetScreen)(nil)
	_ screen.KeyHintProvider = (*AlefbetScreen)(nil)
)

// New deals a fresh game.
func New(svc *services.Services) *AlefbetScreen {
	ctx := svc.Context()
	s := &AlefbetScreen{
		svc:   svc,
		game:  ab.New(ctx, svc.Progress, svc.Rand),
		style: svc.Progress.FontStyleFor(ctx, 1),
	}
	s.deal()
	return s
}

func (s *AlefbetScreen) deal() {
	labels := make([]string, len(s.game.Available))
	for i, l := range s.game.Available {
		labels[i] = l.Glyph
	}
	s.cards = components.NewCardRow(labels, make([]bool, len(labels)))
	s.flash = 0
}

func (s *AlefbetScreen) Init() tea.Cmd {
	return nil
}

func (s *AlefbetScreen) Title() string {
	return "Alef-Bet"
}

func (s *AlefbetScreen) KeyHints() []layout.KeyHint {
	if s.game.Won {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Play again"},
			{Key: "q", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "←→", Description: "Move"},
		{Key: "Enter", Description: "Pick"},
		{Key: "r", Description: "Reshuffle"},
		{Key: "t", Description: "Font"},
		{Key: "q", Description: "Back"},
	}
}

func (s *AlefbetScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case flashDoneMsg:
		if msg.n == s.flash {
			s.flash = 0
			s.cards.Error = -1
		}
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q":
			s.svc.Narrator.Stop()
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "r":
			s.game.Shuffle()
			s.deal()
			return s, nil
		case "t":
			style, err := s.svc.Progress.ToggleLevel1FontStyle(s.svc.Context())
			if err != nil {
				s.errMsg = err.Error()
				return s, nil
			}
			s.style = style
			return s, nil
		case "enter":
			if s.game.Won {
				s.game.Shuffle()
				s.deal()
				return s, nil
			}
			return s, s.pick(s.cards.Selected)
		}
		var cmd tea.Cmd
		s.cards, cmd = s.cards.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *AlefbetScreen) pick(idx int) tea.Cmd {
	if idx < 0 {
		return nil
	}
	outcome, err := s.game.Pick(s.svc.Context(), idx)
	if err != nil {
		s.errMsg = err.Error()
	}
	switch outcome {
	case ab.OutcomeCorrect:
		s.svc.Narrator.Play(audio.Clip{File: s.game.Available[idx].Audio})
		hidden := make([]bool, len(s.cards.Labels))
		copy(hidden, s.cards.Hidden)
		hidden[idx] = true
		s.cards.SetHidden(hidden)
		s.cards.Error = -1
		s.flash = 0
	case ab.OutcomeIncorrect:
		s.cards.Error = idx
		s.flash++
		n := s.flash
		return tea.Tick(flashDuration, func(time.Time) tea.Msg { return flashDoneMsg{n: n} })
	}
	return nil
}

func (s *AlefbetScreen) View(width, height int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	letterStyle := lipgloss.NewStyle().Foreground(theme.Gold).Bold(true)
	if s.style == progress.FontCursive {
		letterStyle = letterStyle.Italic(true)
	}

	var b strings.Builder
	b.WriteString("\n")

	info := fmt.Sprintf("%d/22 · ✗ %d · finished %d×", len(s.game.Selected), s.game.Errors, s.game.Completions)
	b.WriteString(center.Foreground(theme.TextDim).Render(info))
	b.WriteString("\n\n")

	first, second := s.game.Lines(s.style)
	if first == "" {
		first = "·"
	}
	b.WriteString(center.Render(letterStyle.Render(first)))
	b.WriteString("\n")
	b.WriteString(center.Render(letterStyle.Render(second)))
	b.WriteString("\n\n")

	if s.game.Won {
		b.WriteString(center.Foreground(theme.Success).Bold(true).Render("★ The whole alef-bet! ★"))
		b.WriteString("\n")
		b.WriteString(center.Foreground(theme.TextDim).Render("Press Enter to play again"))
		return b.String()
	}

	b.WriteString(s.cards.View(width))
	b.WriteString("\n\n")
	if sel := s.cards.Selected; sel >= 0 && sel < len(s.game.Available) {
		name := s.game.Available[sel].Name(s.svc.Locale())
		b.WriteString(center.Foreground(theme.Secondary).Render(name))
		b.WriteString("\n")
	}
	if s.errMsg != "" {
		b.WriteString(center.Foreground(theme.Error).Render(s.errMsg))
		b.WriteString("\n")
	}
	return b.String()
}
