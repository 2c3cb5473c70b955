package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/ivrit/internal/ui/theme"
)

// CardRow is a horizontal, wrapping row of word cards with one cursor.
// Hidden cards keep their place so the row never reflows mid-round.
type CardRow struct {
	Labels   []string
	Hidden   []bool
	Selected int
	// Error marks the card to draw in the error style, or -1.
	Error int
}

// NewCardRow creates a card row with the cursor on the first visible card.
func NewCardRow(labels []string, hidden []bool) CardRow {
	r := CardRow{Labels: labels, Hidden: hidden, Error: -1}
	r.Selected = r.nextVisible(-1, 1)
	return r
}

// Update moves the cursor. Enter is left to the owner.
func (r CardRow) Update(msg tea.Msg) (CardRow, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return r, nil
	}
	switch kmsg.String() {
	case "right", "l":
		if n := r.nextVisible(r.Selected, 1); n >= 0 {
			r.Selected = n
		}
	case "left", "h":
		if n := r.nextVisible(r.Selected, -1); n >= 0 {
			r.Selected = n
		}
	case "home":
		if n := r.nextVisible(-1, 1); n >= 0 {
			r.Selected = n
		}
	}
	return r, nil
}

// SetHidden replaces the hidden flags and moves the cursor off a hidden
// card.
func (r *CardRow) SetHidden(hidden []bool) {
	r.Hidden = hidden
	if r.visible(r.Selected) {
		return
	}
	if n := r.nextVisible(r.Selected, 1); n >= 0 {
		r.Selected = n
		return
	}
	r.Selected = r.nextVisible(r.Selected, -1)
}

func (r CardRow) visible(i int) bool {
	return i >= 0 && i < len(r.Labels) && (i >= len(r.Hidden) || !r.Hidden[i])
}

// nextVisible returns the first visible index after from in direction dir,
// or -1.
func (r CardRow) nextVisible(from, dir int) int {
	for i := from + dir; i >= 0 && i < len(r.Labels); i += dir {
		if r.visible(i) {
			return i
		}
	}
	return -1
}

// View renders the cards, wrapping to width.
func (r CardRow) View(width int) string {
	var (
		lines []string
		line  []string
		lineW int
	)
	for i, label := range r.Labels {
		style := theme.WordCard
		switch {
		case !r.visible(i):
			style = theme.WordCardGone
		case i == r.Error:
			style = theme.WordCardError
		case i == r.Selected:
			style = theme.WordCardSelected
		}
		card := style.Render(label)
		w := lipgloss.Width(card) + 1
		if lineW+w > width && len(line) > 0 {
			lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, line...))
			line, lineW = nil, 0
		}
		line = append(line, card, " ")
		lineW += w
	}
	if len(line) > 0 {
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, line...))
	}
	return strings.Join(lines, "\n")
}
