package components

import (
	"fmt"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/ivrit/internal/ui/theme"
)

// SearchBox is a focused single-line query input followed by a match count.
// Count < 0 hides the count.
type SearchBox struct {
	input textinput.Model
	Count int
}

// NewSearchBox returns a focused box accepting at most limit characters.
func NewSearchBox(placeholder string, limit int) SearchBox {
	in := textinput.New()
	in.Prompt = "⌕ "
	in.Placeholder = placeholder
	in.CharLimit = limit
	in.Focus()
	return SearchBox{input: in, Count: -1}
}

func (b SearchBox) Init() tea.Cmd {
	return b.input.Focus()
}

// Update feeds msg to the input. changed reports whether the query moved.
func (b SearchBox) Update(msg tea.Msg) (box SearchBox, cmd tea.Cmd, changed bool) {
	before := b.input.Value()
	b.input, cmd = b.input.Update(msg)
	return b, cmd, b.input.Value() != before
}

// Query is the current text.
func (b SearchBox) Query() string {
	return b.input.Value()
}

func (b SearchBox) View() string {
	if b.Count < 0 {
		return b.input.View()
	}
	return b.input.View() + lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf("  (%d)", b.Count))
}
