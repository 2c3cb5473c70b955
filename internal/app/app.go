package app

import (
	"context"
	"fmt"
	"os"
	"slices"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/ivrit/internal/router"
	"github.com/abhisek/ivrit/internal/screen"
	"github.com/abhisek/ivrit/internal/screens/home"
	"github.com/abhisek/ivrit/internal/screens/levelmap"
	"github.com/abhisek/ivrit/internal/screens/services"
	"github.com/abhisek/ivrit/internal/screens/welcome"
	"github.com/abhisek/ivrit/internal/ui/layout"
)

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	width  int
	height int
}

// newAppModel creates a new AppModel starting at the welcome screen, or at
// the level map when a start level is given.
func newAppModel(svc *services.Services, startLevel int) AppModel {
	if startLevel > 0 {
		r := router.New(home.New(svc))
		r.Push(levelmap.New(svc, startLevel))
		return AppModel{router: r}
	}
	homeFactory := func() screen.Screen { return home.New(svc) }
	return AppModel{router: router.New(welcome.New(homeFactory))}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	status := ""
	if sp, ok := active.(screen.StatusProvider); ok {
		status = sp.Status()
	}
	header := layout.RenderHeader(active.Title(), status, m.width)
	footer := layout.RenderFooter(footerHints(active, m.router.Depth()), m.width)

	body := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	v.SetContent(layout.RenderFrame(header, m.router.View(m.width, body), footer, m.width, m.height))
	return v
}

// footerHints lists the active screen's own hints when it has any, then
// the global ones.
func footerHints(active screen.Screen, depth int) []layout.KeyHint {
	quit := layout.KeyHint{Key: "Ctrl+C", Description: "Quit"}
	if kp, ok := active.(screen.KeyHintProvider); ok {
		if hints := kp.KeyHints(); hints != nil {
			return append(slices.Clone(hints), quit)
		}
	}
	if depth > 1 {
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}, quit}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		quit,
	}
}

// Run starts the Bubble Tea program and blocks until it exits. A non-zero
// startLevel opens the level map focused on that level.
func Run(ctx context.Context, svc *services.Services, startLevel int) error {
	p := tea.NewProgram(newAppModel(svc, startLevel), tea.WithContext(ctx))
	svc.Send = p.Send

	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
