package welcome

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/ivrit/internal/router"
	"github.com/abhisek/ivrit/internal/screen"
	"github.com/abhisek/ivrit/internal/ui/theme"
)

// letters are revealed one per tick, right to left.
const (
	letters      = "אבגדהוזחטיכלמנסעפצקרשת"
	tickInterval = 60 * time.Millisecond
	rowLength    = 11
)

const (
	bannerWide   = "ע  ב  ר  י  ת"
	bannerNarrow = "IVRIT"
	tagline      = "Word by word, sentence by sentence."
)

type revealMsg struct{}

// WelcomeScreen spells out the alef-bet, then waits for a key and replaces
// itself with the screen built by next.
type WelcomeScreen struct {
	next   func() screen.Screen
	shown  int
	letter []rune
	left   bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New creates the splash; next is called once, on the first key press.
func New(next func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{next: next, letter: []rune(letters)}
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return reveal()
}

func reveal() tea.Cmd {
	return tea.Tick(tickInterval, func(time.Time) tea.Msg { return revealMsg{} })
}

// Done reports whether every letter is on screen.
func (w *WelcomeScreen) Done() bool {
	return w.shown >= len(w.letter)
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case revealMsg:
		if w.left || w.Done() {
			return w, nil
		}
		w.shown++
		if w.Done() {
			return w, nil
		}
		return w, reveal()
	case tea.KeyPressMsg:
		if w.left {
			return w, nil
		}
		w.left = true
		s := w.next()
		return w, func() tea.Msg { return router.ReplaceScreenMsg{Screen: s} }
	}
	return w, nil
}

func (w *WelcomeScreen) View(width, height int) string {
	dim := lipgloss.NewStyle().Foreground(theme.Border)
	lit := lipgloss.NewStyle().Foreground(theme.Sky).Bold(true)

	// Rows run right to left; the terminal does not reorder them.
	var rows []string
	for start := 0; start < len(w.letter); start += rowLength {
		end := min(start+rowLength, len(w.letter))
		cells := make([]string, 0, end-start)
		for i := end - 1; i >= start; i-- {
			st := dim
			if i < w.shown {
				st = lit
			}
			cells = append(cells, st.Render(string(w.letter[i])))
		}
		rows = append(rows, strings.Join(cells, " "))
	}

	sections := []string{strings.Join(rows, "\n")}
	if w.Done() {
		banner := bannerWide
		if width < 40 {
			banner = bannerNarrow
		}
		sections = append(sections,
			"",
			lipgloss.NewStyle().Foreground(theme.Gold).Bold(true).Render(banner),
			lipgloss.NewStyle().Foreground(theme.Text).Render(tagline),
			"",
			lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render("press any key"),
		)
	}
	content := lipgloss.NewStyle().Align(lipgloss.Center).Render(strings.Join(sections, "\n"))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
