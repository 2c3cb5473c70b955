// Package levelmap lists every level with a marker per round.
package levelmap

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/ivrit/internal/game"
	"github.com/abhisek/ivrit/internal/router"
	"github.com/abhisek/ivrit/internal/screen"
	"github.com/abhisek/ivrit/internal/screens/journal"
	"github.com/abhisek/ivrit/internal/screens/round"
	"github.com/abhisek/ivrit/internal/screens/services"
	"github.com/abhisek/ivrit/internal/ui/layout"
	"github.com/abhisek/ivrit/internal/ui/theme"
)

// LevelMapScreen displays the level map.
type LevelMapScreen struct {
	svc          *services.Services
	levels       []game.LevelStatus
	cursor       int
	scrollOffset int
	confirmReset bool
	errMsg       string
}

var (
	_ screen.Screen          = (*LevelMapScreen)(nil)
	_ screen.KeyHintProvider = (*LevelMapScreen)(nil)
	_ screen.Resumer         = (*LevelMapScreen)(nil)
)

// New creates a level map with the cursor on focus, or on the first level.
func New(svc *services.Services, focus int) *LevelMapScreen {
	s := &LevelMapScreen{svc: svc}
	s.refresh()
	for i, l := range s.levels {
		if l.LevelID == focus {
			s.cursor = i
			break
		}
	}
	return s
}

func (s *LevelMapScreen) refresh() {
	s.levels = s.svc.Controller.Map(s.svc.Context())
	if s.cursor >= len(s.levels) {
		s.cursor = max(len(s.levels)-1, 0)
	}
}

func (s *LevelMapScreen) Init() tea.Cmd {
	return nil
}

// Resume reloads progress after a round screen closes.
func (s *LevelMapScreen) Resume() tea.Cmd {
	s.refresh()
	return nil
}

func (s *LevelMapScreen) Title() string {
	return "Level Map"
}

// Status shows the selected level's progress in the header.
func (s *LevelMapScreen) Status() string {
	l, ok := s.selected()
	if !ok {
		return ""
	}
	return fmt.Sprintf("Level %d · %d/%d", l.LevelID, l.Done, len(l.Rounds))
}

// KeyHints returns the key binding hints for the footer.
func (s *LevelMapScreen) KeyHints() []layout.KeyHint {
	if s.confirmReset {
		return []layout.KeyHint{
			{Key: "Y", Description: "Reset"},
			{Key: "N", Description: "Cancel"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Play"},
		{Key: "J", Description: "Journal"},
		{Key: "X", Description: "Reset"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *LevelMapScreen) selected() (game.LevelStatus, bool) {
	if s.cursor < 0 || s.cursor >= len(s.levels) {
		return game.LevelStatus{}, false
	}
	return s.levels[s.cursor], true
}

func (s *LevelMapScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	if s.confirmReset {
		switch kmsg.String() {
		case "y", "Y":
			s.confirmReset = false
			if l, ok := s.selected(); ok {
				if err := s.svc.Progress.ResetLevel(s.svc.Context(), l.LevelID); err != nil {
					s.errMsg = err.Error()
				}
			}
			s.refresh()
		case "n", "N", "esc":
			s.confirmReset = false
		}
		return s, nil
	}

	s.errMsg = ""
	switch kmsg.String() {
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < len(s.levels)-1 {
			s.cursor++
		}
	case "enter":
		l, ok := s.selected()
		if !ok || !l.Unlocked {
			return s, nil
		}
		next := round.New(s.svc, l.LevelID)
		return s, func() tea.Msg { return router.PushScreenMsg{Screen: next} }
	case "J":
		l, ok := s.selected()
		if !ok || !l.Unlocked {
			return s, nil
		}
		next := journal.New(s.svc, l.LevelID)
		return s, func() tea.Msg { return router.PushScreenMsg{Screen: next} }
	case "x":
		if l, ok := s.selected(); ok && l.Done > 0 {
			s.confirmReset = true
		}
	case "q":
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}
	return s, nil
}

func (s *LevelMapScreen) View(width, height int) string {
	if len(s.levels) == 0 {
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("\n\n  No levels found.")
	}

	footer := s.renderFooterLine(width)
	rows := height - lipgloss.Height(footer) - 1
	s.adjustScroll(rows)

	var lines []string
	for i := s.scrollOffset; i < len(s.levels) && len(lines) < rows; i++ {
		lines = append(lines, renderLevelRow(s.levels[i], i == s.cursor, width))
	}
	return strings.Join(lines, "\n") + "\n\n" + footer
}

// adjustScroll ensures the cursor is visible within the viewport.
func (s *LevelMapScreen) adjustScroll(height int) {
	if height <= 0 {
		return
	}
	if s.cursor < s.scrollOffset {
		s.scrollOffset = s.cursor
	}
	if s.cursor >= s.scrollOffset+height {
		s.scrollOffset = s.cursor - height + 1
	}
}

func (s *LevelMapScreen) renderFooterLine(width int) string {
	style := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	switch {
	case s.errMsg != "":
		return style.Foreground(theme.Error).Render(s.errMsg)
	case s.confirmReset:
		l, _ := s.selected()
		return style.Foreground(theme.Accent).Bold(true).
			Render(fmt.Sprintf("Reset all progress on level %d? (y/n)", l.LevelID))
	}
	return style.Foreground(theme.TextDim).Render(legend())
}

func legend() string {
	parts := []string{
		glyphStyle(game.StatusPerfect).Render("★") + " perfect",
		glyphStyle(game.StatusGood).Render("●") + " good",
		glyphStyle(game.StatusPassed).Render("○") + " passed",
		glyphStyle(game.StatusActive).Render("▸") + " next",
	}
	return strings.Join(parts, "   ")
}

func glyphStyle(st game.RoundStatus) lipgloss.Style {
	switch st {
	case game.StatusPerfect:
		return lipgloss.NewStyle().Foreground(theme.Perfect)
	case game.StatusGood:
		return lipgloss.NewStyle().Foreground(theme.Good)
	case game.StatusPassed:
		return lipgloss.NewStyle().Foreground(theme.Passed)
	case game.StatusActive:
		return lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	default:
		return lipgloss.NewStyle().Foreground(theme.Locked)
	}
}

// renderLevelRow renders one level: name, round markers, count.
func renderLevelRow(l game.LevelStatus, selected bool, width int) string {
	cursor := "  "
	nameStyle := lipgloss.NewStyle().Foreground(theme.Text)
	switch {
	case selected:
		cursor = "▸ "
		nameStyle = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	case !l.Unlocked:
		nameStyle = lipgloss.NewStyle().Foreground(theme.TextDim)
	case l.Completed:
		nameStyle = lipgloss.NewStyle().Foreground(theme.Success)
	}

	name := fmt.Sprintf("Level %-3d", l.LevelID)
	count := fmt.Sprintf("%d/%d", l.Done, len(l.Rounds))

	var glyphs strings.Builder
	markerWidth := width - 4 - 2 - lipgloss.Width(name) - 2 - 8
	for i, r := range l.Rounds {
		if markerWidth > 1 && i >= markerWidth-1 {
			glyphs.WriteString("…")
			break
		}
		glyphs.WriteString(glyphStyle(r).Render(r.Glyph()))
	}

	lock := ""
	if !l.Unlocked {
		lock = lipgloss.NewStyle().Foreground(theme.Locked).Render(" locked")
	}
	return fmt.Sprintf("  %s%s  %s  %s%s",
		cursor,
		nameStyle.Render(name),
		glyphs.String(),
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(count),
		lock,
	)
}
