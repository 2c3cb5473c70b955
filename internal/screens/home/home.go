package home

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/ivrit/internal/game"
	"github.com/abhisek/ivrit/internal/router"
	"github.com/abhisek/ivrit/internal/screen"
	"github.com/abhisek/ivrit/internal/screens/alefbet"
	"github.com/abhisek/ivrit/internal/screens/dictionary"
	"github.com/abhisek/ivrit/internal/screens/journal"
	"github.com/abhisek/ivrit/internal/screens/levelmap"
	"github.com/abhisek/ivrit/internal/screens/placeholder"
	"github.com/abhisek/ivrit/internal/screens/round"
	"github.com/abhisek/ivrit/internal/screens/services"
	"github.com/abhisek/ivrit/internal/ui/components"
)

// Stats summarizes the level map for the stats bar.
type Stats struct {
	LevelsDone  int
	Levels      int
	RoundsDone  int
	Rounds      int
	Alefbet     int
	ResumeLevel int
}

// HomeScreen is the main home screen of the application.
type HomeScreen struct {
	svc           *services.Services
	menu          components.Menu
	stats         Stats
	mascotVariant MascotVariant
}

var (
	_ screen.Screen  = (*HomeScreen)(nil)
	_ screen.Resumer = (*HomeScreen)(nil)
)

// New creates a new HomeScreen.
func New(svc *services.Services) *HomeScreen {
	h := &HomeScreen{svc: svc}
	push := func(build func() screen.Screen) func() tea.Cmd {
		return func() tea.Cmd {
			s := build()
			return func() tea.Msg { return router.PushScreenMsg{Screen: s} }
		}
	}

	items := []components.MenuItem{
		{Label: "CONTINUE", Hint: "Pick up at the next open round", Action: push(func() screen.Screen {
			if h.stats.ResumeLevel == 0 {
				return placeholder.New("Continue", "Every level is finished.\nReset a level from the map to play it again.")
			}
			return round.New(svc, h.stats.ResumeLevel)
		})},
		{Label: "LEVEL MAP", Hint: "Browse levels and rounds", Action: push(func() screen.Screen {
			return levelmap.New(svc, h.stats.ResumeLevel)
		})},
		{Label: "JOURNAL", Hint: "Every sentence you have built", Action: push(func() screen.Screen {
			return journal.New(svc, max(h.stats.ResumeLevel, 1))
		})},
		{Label: "DICTIONARY", Hint: "Search the words you have met", Action: push(func() screen.Screen {
			return dictionary.New(svc)
		})},
		{Label: "ALEF-BET", Hint: "Match the letters of the alphabet", Action: push(func() screen.Screen {
			return alefbet.New(svc)
		})},
		{Label: "EXIT", Hint: "See you tomorrow", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}
	h.menu = components.NewMenu(items)
	h.refresh()
	return h
}

// ComputeStats summarizes the level map. ResumeLevel is the first unlocked
// level with open rounds, or 0 when there is none.
func ComputeStats(levels []game.LevelStatus) Stats {
	var st Stats
	st.Levels = len(levels)
	for _, l := range levels {
		st.Rounds += len(l.Rounds)
		st.RoundsDone += l.Done
		if l.Completed {
			st.LevelsDone++
		}
		if st.ResumeLevel == 0 && l.Unlocked && !l.Completed {
			st.ResumeLevel = l.LevelID
		}
	}
	return st
}

func (h *HomeScreen) refresh() {
	ctx := h.svc.Context()
	h.stats = ComputeStats(h.svc.Controller.Map(ctx))
	h.stats.Alefbet = h.svc.Progress.AlefbetCompletions(ctx)

	switch {
	case h.stats.Levels == 0:
		h.mascotVariant = MascotAlert
	case h.stats.LevelsDone == h.stats.Levels:
		h.mascotVariant = MascotCelebrating
	default:
		h.mascotVariant = MascotIdle
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

// Resume reloads the stats after a game screen closes.
func (h *HomeScreen) Resume() tea.Cmd {
	h.refresh()
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	// height excludes the header, footer and frame.
	termHeight := height + 8
	compact := termHeight < 34 || width < 100

	cw := components.ContentWidth(width)

	var sections []string
	sections = append(sections, renderBanner(cw, compact))
	if !compact {
		sections = append(sections, centered(renderMascot(h.mascotVariant), cw))
	}
	sections = append(sections, renderStats(h.stats, cw, compact))
	if h.stats.Levels == 0 {
		sections = append(sections, renderNoLevels(cw))
	}
	sections = append(sections, renderMenu(h.menu, cw, termHeight < 30))

	return components.Cabinet(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}

// Status shows overall progress in the header.
func (h *HomeScreen) Status() string {
	return statusLine(h.stats)
}
