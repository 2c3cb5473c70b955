// Package dictionary is the searchable word list unlocked by new-word rounds.
package dictionary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	dict "github.com/abhisek/ivrit/internal/dictionary"
	"github.com/abhisek/ivrit/internal/screen"
	"github.com/abhisek/ivrit/internal/screens/services"
	"github.com/abhisek/ivrit/internal/ui/components"
	"github.com/abhisek/ivrit/internal/ui/layout"
	"github.com/abhisek/ivrit/internal/ui/theme"
)

type entriesLoadedMsg struct {
	Entries []dict.Entry
	Err     error
}

// DictionaryScreen filters the global dictionary as the learner types.
type DictionaryScreen struct {
	svc      *services.Services
	input    components.SearchBox
	all      []dict.Entry
	shown    []dict.Entry
	selected int
	offset   int
	loaded   bool
	errMsg   string
}

var (
	_ screen.Screen          = (*DictionaryScreen)(nil)
	_ screen.KeyHintProvider = (*DictionaryScreen)(nil)
)

// New creates a new DictionaryScreen.
func New(svc *services.Services) *DictionaryScreen {
	return &DictionaryScreen{
		svc:   svc,
		input: components.NewSearchBox("Search in Hebrew or translation...", 40),
	}
}

// Init rebuilds the dictionary, since rounds may have been won since the
// last visit.
func (s *DictionaryScreen) Init() tea.Cmd {
	load := func() tea.Msg {
		entries, err := s.svc.Dictionary.Global(s.svc.Context(), true)
		return entriesLoadedMsg{Entries: entries, Err: err}
	}
	return tea.Batch(s.input.Init(), load)
}

func (s *DictionaryScreen) Title() string {
	return "Dictionary"
}

func (s *DictionaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Hear"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *DictionaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case entriesLoadedMsg:
		s.loaded = true
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.all = msg.Entries
		s.filter()
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down":
			if s.selected < len(s.shown)-1 {
				s.selected++
			}
			return s, nil
		case "enter":
			if s.selected < len(s.shown) {
				s.svc.Narrator.Say(s.shown[s.selected].Hebrew)
			}
			return s, nil
		}
	}

	var (
		cmd     tea.Cmd
		changed bool
	)
	s.input, cmd, changed = s.input.Update(msg)
	if changed {
		s.filter()
	}
	return s, cmd
}

func (s *DictionaryScreen) filter() {
	s.shown = dict.Filter(s.all, s.input.Query())
	s.input.Count = len(s.shown)
	s.selected, s.offset = 0, 0
}

func (s *DictionaryScreen) View(width, height int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(center.Render(s.input.View()))
	b.WriteString("\n\n")

	switch {
	case s.errMsg != "":
		b.WriteString(center.Foreground(theme.Error).Render("Error: " + s.errMsg))
		return b.String()
	case !s.loaded:
		b.WriteString(center.Foreground(theme.TextDim).Render("Loading dictionary..."))
		return b.String()
	case len(s.all) == 0:
		b.WriteString(center.Foreground(theme.TextDim).Italic(true).
			Render("No words yet. Finish a new-words round to fill the dictionary."))
		return b.String()
	case len(s.shown) == 0:
		b.WriteString(center.Foreground(theme.TextDim).Italic(true).Render("No matches."))
		return b.String()
	}

	rows := max(height-4, 1)
	if s.selected < s.offset {
		s.offset = s.selected
	}
	if s.selected >= s.offset+rows {
		s.offset = s.selected - rows + 1
	}

	hw := 0
	for _, e := range s.shown {
		hw = max(hw, lipgloss.Width(e.Hebrew))
	}
	for i := s.offset; i < len(s.shown) && i < s.offset+rows; i++ {
		e := s.shown[i]
		style := lipgloss.NewStyle().Foreground(theme.Text)
		prefix := "  "
		if i == s.selected {
			style = style.Foreground(theme.Primary).Bold(true)
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s   %s", prefix,
			lipgloss.NewStyle().Width(hw).Render(e.Hebrew), e.Translation)
		b.WriteString(center.Render(style.Render(line)))
		b.WriteString("\n")
	}
	return b.String()
}
