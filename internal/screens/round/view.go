package round

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/ivrit/internal/game"
	"github.com/abhisek/ivrit/internal/level"
	"github.com/abhisek/ivrit/internal/task"
	"github.com/abhisek/ivrit/internal/ui/theme"
)

func (s *RoundScreen) View(width, height int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	switch {
	case s.levelDone:
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			lipgloss.NewStyle().Foreground(theme.Gold).Bold(true).
				Render(fmt.Sprintf("★ Level %d complete ★", s.levelID))+"\n\n"+
				lipgloss.NewStyle().Foreground(theme.TextDim).
					Render("Enter to go back · X to play it again"))
	case s.state.LevelID == 0 && s.errMsg != "":
		return center.Foreground(theme.Error).Render("\n\n" + s.errMsg)
	case s.state.LevelID == 0:
		return center.Foreground(theme.TextDim).Render("\n\n  Loading level...")
	}

	var b strings.Builder
	b.WriteString(s.renderInfoLine(width))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n\n")

	if prompt := renderPrompt(s.state.Sentence, width); prompt != "" {
		b.WriteString(prompt)
		b.WriteString("\n\n")
	}

	if s.unplayable {
		b.WriteString(center.Foreground(theme.Accent).
			Render("This round has nothing to play. Press S to skip it."))
		return b.String()
	}

	b.WriteString(center.Render(renderSlots(s.state, s.slotCursor)))
	b.WriteString("\n\n")

	if s.state.Phase == game.PhaseWon {
		b.WriteString(center.Foreground(theme.Success).Bold(true).Render("✓ Well done!"))
	} else {
		b.WriteString(center.Render(s.pool.View(max(width-8, 20))))
	}

	if s.errMsg != "" {
		b.WriteString("\n\n")
		b.WriteString(center.Foreground(theme.Error).Render(s.errMsg))
	}
	return b.String()
}

func roundLabel(st game.RoundState, total int) string {
	return fmt.Sprintf("Level %d · Round %d/%d", st.LevelID, st.Round+1, total)
}

func (s *RoundScreen) renderInfoLine(width int) string {
	st := s.state
	left := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render("  " + st.TaskType.DisplayName())

	errStyle := lipgloss.NewStyle().Foreground(theme.TextDim)
	if s.flash > 0 {
		errStyle = lipgloss.NewStyle().Foreground(theme.Error).Bold(true)
	}
	right := fmt.Sprintf("%s  %s %s",
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(roundLabel(st, s.svc.Controller.RoundCount())),
		errStyle.Render(fmt.Sprintf("✗ %d", st.Errors)),
		lipgloss.NewStyle().Foreground(theme.Accent).Render(formatClock(st.Elapsed)),
	)

	line := left
	if pad := width - lipgloss.Width(left) - lipgloss.Width(right) - 4; pad > 0 {
		line += strings.Repeat(" ", pad) + right
	}
	return line
}

func formatClock(secs int) string {
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

// renderPrompt shows what the player works from: the translation, a
// question, or a listening cue.
func renderPrompt(sd level.SentenceData, width int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	var lines []string
	if sd.GamePrompt != "" {
		lines = append(lines, center.Foreground(theme.TextDim).Italic(true).Render(sd.GamePrompt))
	}
	switch sd.TaskType {
	case level.TaskAudition:
		lines = append(lines, center.Foreground(theme.Sky).Render("♪ Listen and build what you hear (P to replay)"))
	case level.TaskQuiz, level.TaskMakeQuestion, level.TaskMakeAnswer:
		if sd.Text != "" {
			lines = append(lines, center.Foreground(theme.Text).Bold(true).Render(sd.Text))
		}
		if sd.Translation != "" {
			lines = append(lines, center.Foreground(theme.TextDim).Render(sd.Translation))
		}
	case level.TaskConjugation, level.TaskMatchingPairs:
		if sd.Translation != "" {
			lines = append(lines, center.Foreground(theme.TextDim).Render(sd.Translation))
		}
	default:
		if sd.Translation != "" {
			lines = append(lines, center.Foreground(theme.Text).Bold(true).Render(sd.Translation))
		}
	}
	return strings.Join(lines, "\n")
}

// renderSlots draws the slot line. Row groups each get their own line with
// the first slot as a fixed column.
func renderSlots(st game.RoundState, cursor int) string {
	var (
		lines []string
		cur   strings.Builder
		row   = task.NoRow
		first = true
	)
	flush := func() {
		lines = append(lines, cur.String())
		cur.Reset()
	}
	colWidth := columnWidth(st.Slots)

	for i, sl := range st.Slots {
		if sl.Row != row && !first {
			flush()
		}
		newRow := sl.Row != row || first
		row, first = sl.Row, false

		if !sl.Blank && sl.Text == "\n" {
			flush()
			continue
		}
		if newRow && sl.Row != task.NoRow && !sl.Blank {
			cur.WriteString(lipgloss.NewStyle().Width(colWidth).Foreground(theme.TextDim).Render(sl.Text))
			cur.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(" │ "))
			continue
		}
		cur.WriteString(renderSlot(st, i, cursor))
	}
	if cur.Len() > 0 || len(lines) == 0 {
		flush()
	}
	return strings.Join(lines, "\n")
}

func columnWidth(slots []task.Slot) int {
	w := 0
	row := task.NoRow - 1
	for _, sl := range slots {
		if sl.Row != row {
			row = sl.Row
			if sl.Row != task.NoRow && !sl.Blank {
				w = max(w, lipgloss.Width(sl.Text))
			}
		}
	}
	return w
}

func renderSlot(st game.RoundState, i, cursor int) string {
	sl := st.Slots[i]
	if !sl.Blank {
		return lipgloss.NewStyle().Foreground(theme.Text).Render(sl.Text)
	}
	if sl.Filled != nil {
		style := theme.Placed
		if i == cursor {
			style = style.Underline(true)
		}
		return style.Render(sl.Filled.Text)
	}
	width := 3
	if sl.Target != nil {
		width = max(lipgloss.Width(sl.Target.Text), width)
	}
	gap := strings.Repeat("_", width)
	if i == st.ActiveSlot || i == cursor {
		return theme.BlankActive.Render(gap)
	}
	return theme.Blank.Render(gap)
}
