package placeholder

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/ivrit/internal/router"
	"github.com/abhisek/ivrit/internal/screen"
	"github.com/abhisek/ivrit/internal/ui/layout"
	"github.com/abhisek/ivrit/internal/ui/theme"
)

// PlaceholderScreen is a one-card notice shown instead of a game screen
// when there is nothing to play. Enter, esc or q dismiss it.
type PlaceholderScreen struct {
	title string
	lines []string
}

var (
	_ screen.Screen          = (*PlaceholderScreen)(nil)
	_ screen.KeyHintProvider = (*PlaceholderScreen)(nil)
)

// New creates a notice; message may span several lines.
func New(title, message string) *PlaceholderScreen {
	return &PlaceholderScreen{title: title, lines: strings.Split(message, "\n")}
}

func (p *PlaceholderScreen) Init() tea.Cmd {
	return nil
}

func (p *PlaceholderScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "enter", "q", "esc":
			return p, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return p, nil
}

func (p *PlaceholderScreen) View(width, height int) string {
	head := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render(p.title)
	body := lipgloss.NewStyle().Foreground(theme.Text).Render(strings.Join(p.lines, "\n"))
	hint := lipgloss.NewStyle().Foreground(theme.TextDim).Render("Enter to go back")

	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Padding(1, 3).
		Align(lipgloss.Center).
		Render(head + "\n\n" + body + "\n\n" + hint)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}

func (p *PlaceholderScreen) Title() string {
	return p.title
}

func (p *PlaceholderScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{{Key: "Enter", Description: "Back"}}
}
