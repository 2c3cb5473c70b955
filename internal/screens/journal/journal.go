// Package journal pages through the sentences a learner has finished and
// loops their recordings.
package journal

import (
	"fmt"
	"slices"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/ivrit/internal/audio"
	jr "github.com/abhisek/ivrit/internal/journal"
	"github.com/abhisek/ivrit/internal/progress"
	"github.com/abhisek/ivrit/internal/router"
	"github.com/abhisek/ivrit/internal/screen"
	"github.com/abhisek/ivrit/internal/screens/services"
	"github.com/abhisek/ivrit/internal/ui/layout"
	"github.com/abhisek/ivrit/internal/ui/theme"
)

// pageMsg reports the page a running loop moved to.
type pageMsg struct {
	gen  int
	page int
}

type pending int

const (
	pendingNone pending = iota
	pendingForget
	pendingArchive
)

// JournalScreen shows one journal page at a time.
type JournalScreen struct {
	svc     *services.Services
	levelID int
	entries []jr.Entry
	page    int
	repeat  jr.Repeat
	style   progress.FontStyle

	// gen invalidates page reports from a stopped loop.
	gen     int
	looping bool
	confirm pending
	errMsg  string
}

var (
	_ screen.Screen          = (*JournalScreen)(nil)
	_ screen.KeyHintProvider = (*JournalScreen)(nil)
)

// New creates a journal screen for levelID.
func New(svc *services.Services, levelID int) *JournalScreen {
	return &JournalScreen{svc: svc, levelID: levelID, repeat: jr.NewRepeat()}
}

func (s *JournalScreen) Init() tea.Cmd {
	s.style = s.svc.Progress.JournalFontStyle(s.svc.Context())
	s.load()
	return nil
}

func (s *JournalScreen) load() {
	entries, err := s.svc.Journal.Entries(s.svc.Context(), s.levelID)
	if err != nil {
		s.errMsg = err.Error()
		return
	}
	s.entries = entries
	s.page = min(s.page, max(len(entries)-1, 0))
}

func (s *JournalScreen) Title() string {
	return "Journal"
}

// Status shows the level and page in the header.
func (s *JournalScreen) Status() string {
	if len(s.entries) == 0 {
		return fmt.Sprintf("Level %d", s.levelID)
	}
	return fmt.Sprintf("Level %d · %d/%d", s.levelID, s.page+1, len(s.entries))
}

func (s *JournalScreen) KeyHints() []layout.KeyHint {
	if s.confirm != pendingNone {
		return []layout.KeyHint{
			{Key: "Y", Description: "Confirm"},
			{Key: "N", Description: "Cancel"},
		}
	}
	if s.looping {
		return []layout.KeyHint{
			{Key: "Space", Description: "Stop"},
			{Key: "V", Description: "Speed"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "←→", Description: "Page"},
		{Key: "Enter", Description: "Play"},
		{Key: "A/B", Description: "Loop points"},
		{Key: "L", Description: "Loop"},
		{Key: "F", Description: "Forget"},
		{Key: "X", Description: "Archive"},
		{Key: "[ ]", Description: "Level"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *JournalScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case pageMsg:
		if msg.gen == s.gen && s.looping && msg.page < len(s.entries) {
			s.page = msg.page
		}
		return s, nil
	case tea.KeyMsg:
		return s, s.handleKey(msg.String())
	}
	return s, nil
}

func (s *JournalScreen) handleKey(key string) tea.Cmd {
	ctx := s.svc.Context()

	if s.confirm != pendingNone {
		switch key {
		case "y", "Y":
			s.apply(s.confirm)
			s.confirm = pendingNone
		case "n", "N", "esc":
			s.confirm = pendingNone
		}
		return nil
	}

	s.errMsg = ""
	switch key {
	case "q":
		s.stop()
		return func() tea.Msg { return router.PopScreenMsg{} }
	case "left", "h":
		if s.page > 0 && !s.looping {
			s.page--
		}
	case "right", "l":
		if s.page < len(s.entries)-1 && !s.looping {
			s.page++
		}
	case "enter", "p":
		if e, ok := s.current(); ok && e.Sentence.AudioFilename != "" {
			s.svc.Narrator.Play(audio.Clip{File: e.Sentence.AudioFilename, Speed: s.repeat.Speed})
		}
	case "a":
		s.repeat.SetA(s.page)
	case "b":
		s.repeat.SetB(s.page)
	case "L":
		s.startLoop()
	case "space", " ":
		s.stop()
	case "v":
		s.repeat.CycleSpeed()
		if s.looping {
			s.startLoop()
		}
	case "t":
		next := progress.FontCursive
		if s.style == progress.FontCursive {
			next = progress.FontRegular
		}
		if err := s.svc.Progress.SetJournalFontStyle(ctx, next); err != nil {
			s.errMsg = err.Error()
		} else {
			s.style = next
		}
	case "f":
		if _, ok := s.current(); ok {
			s.confirm = pendingForget
		}
	case "x":
		if _, ok := s.current(); ok {
			s.confirm = pendingArchive
		}
	case "[":
		s.switchLevel(-1)
	case "]":
		s.switchLevel(1)
	}
	return nil
}

func (s *JournalScreen) current() (jr.Entry, bool) {
	if s.page < 0 || s.page >= len(s.entries) {
		return jr.Entry{}, false
	}
	return s.entries[s.page], true
}

// startLoop plays the A-B range, or the whole journal without one.
func (s *JournalScreen) startLoop() {
	clips, start, ok := s.repeat.Clips(s.entries)
	if !ok {
		clips, start = jr.Clips(s.entries, s.repeat.Speed), 0
	}
	if len(clips) == 0 {
		return
	}
	s.gen++
	s.looping = true
	gen := s.gen
	s.svc.Narrator.Loop(clips, s.repeat.Pause, func(i int) {
		s.svc.Post(pageMsg{gen: gen, page: start + i})
	})
}

func (s *JournalScreen) stop() {
	if !s.looping {
		return
	}
	s.gen++
	s.looping = false
	s.svc.Narrator.Stop()
}

func (s *JournalScreen) apply(p pending) {
	e, ok := s.current()
	if !ok {
		return
	}
	s.stop()
	ctx := s.svc.Context()
	var err error
	switch p {
	case pendingForget:
		err = s.svc.Journal.Forget(ctx, s.levelID, e.Round)
	case pendingArchive:
		err = s.svc.Journal.Archive(ctx, s.levelID, e.Round)
	}
	if err != nil {
		s.errMsg = err.Error()
		return
	}
	s.repeat = jr.Repeat{Speed: s.repeat.Speed, Pause: s.repeat.Pause}
	s.load()
}

func (s *JournalScreen) switchLevel(dir int) {
	ids, err := s.svc.Levels.LevelIDs()
	if err != nil {
		s.errMsg = err.Error()
		return
	}
	i := slices.Index(ids, s.levelID)
	if i < 0 || i+dir < 0 || i+dir >= len(ids) {
		return
	}
	s.stop()
	s.levelID = ids[i+dir]
	s.page = 0
	s.repeat = jr.NewRepeat()
	s.load()
}

func (s *JournalScreen) View(width, height int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	if len(s.entries) == 0 {
		msg := "\n\n  Nothing here yet. Finished rounds show up in the journal."
		if s.errMsg != "" {
			msg = "\n\nError: " + s.errMsg
		}
		return center.Foreground(theme.TextDim).Italic(true).Render(msg)
	}

	e := s.entries[s.page]
	var b strings.Builder
	b.WriteString("\n")

	textStyle := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	if s.style == progress.FontCursive {
		textStyle = textStyle.Italic(true)
	}
	b.WriteString(center.Render(textStyle.Render(e.Sentence.Text)))
	b.WriteString("\n")
	if e.Sentence.Translation != "" {
		b.WriteString(center.Foreground(theme.TextDim).Render(e.Sentence.Translation))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(center.Render(s.renderPager()))
	b.WriteString("\n\n")
	b.WriteString(center.Foreground(theme.TextDim).Render(s.renderLoopLine()))

	switch {
	case s.confirm == pendingForget:
		b.WriteString("\n\n")
		b.WriteString(center.Foreground(theme.Accent).Bold(true).
			Render(fmt.Sprintf("Forget round %d? It goes back into play. (y/n)", e.Round+1)))
	case s.confirm == pendingArchive:
		b.WriteString("\n\n")
		b.WriteString(center.Foreground(theme.Accent).Bold(true).
			Render(fmt.Sprintf("Archive round %d? It leaves play and the journal. (y/n)", e.Round+1)))
	case s.errMsg != "":
		b.WriteString("\n\n")
		b.WriteString(center.Foreground(theme.Error).Render(s.errMsg))
	}
	return b.String()
}

// renderPager draws one dot per page with loop points marked.
func (s *JournalScreen) renderPager() string {
	a, hasA, bp, hasB := s.repeat.Points()
	var parts []string
	for i := range s.entries {
		mark := "·"
		switch {
		case hasA && i == a:
			mark = "A"
		case hasB && i == bp:
			mark = "B"
		}
		style := lipgloss.NewStyle().Foreground(theme.TextDim)
		if i == s.page {
			style = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
			if mark == "·" {
				mark = "●"
			}
		}
		parts = append(parts, style.Render(mark))
	}
	return strings.Join(parts, " ")
}

func (s *JournalScreen) renderLoopLine() string {
	state := "stopped"
	if s.looping {
		state = "looping"
	}
	rng := "all pages"
	if start, end, ok := s.repeat.Range(); ok {
		rng = fmt.Sprintf("pages %d-%d", start+1, end+1)
	}
	return fmt.Sprintf("♪ %s · %s · %.2gx · %s", state, rng, s.repeat.Speed, strings.ToLower(string(s.style)))
}
