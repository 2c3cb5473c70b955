package welcome

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/ivrit/internal/router"
	"github.com/abhisek/ivrit/internal/screen"
)

type stubScreen struct{}

func (s *stubScreen) Init() tea.Cmd                           { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return "home" }
func (s *stubScreen) Title() string                           { return "Home" }

func newWelcome() (*WelcomeScreen, *int) {
	calls := 0
	return New(func() screen.Screen {
		calls++
		return &stubScreen{}
	}), &calls
}

func reveals(w *WelcomeScreen, n int) tea.Cmd {
	var cmd tea.Cmd
	for range n {
		_, cmd = w.Update(revealMsg{})
	}
	return cmd
}

func TestRevealStopsAfterLastLetter(t *testing.T) {
	w, _ := newWelcome()
	if strings.Contains(w.View(80, 24), tagline) {
		t.Error("tagline should wait for the last letter")
	}

	if cmd := reveals(w, 21); cmd == nil {
		t.Fatal("expected another reveal tick before the last letter")
	}
	if w.Done() {
		t.Fatal("21 of 22 letters should not be done")
	}
	if cmd := reveals(w, 1); cmd != nil {
		t.Error("ticking should stop once every letter is shown")
	}
	if !w.Done() {
		t.Fatal("expected done after 22 reveals")
	}
	view := w.View(80, 24)
	if !strings.Contains(view, tagline) || !strings.Contains(view, bannerWide) {
		t.Errorf("expected banner and tagline, got:\n%s", view)
	}
	if !strings.Contains(w.View(30, 24), bannerNarrow) {
		t.Error("narrow terminals should get the latin banner")
	}

	if cmd := reveals(w, 1); cmd != nil || w.shown != 22 {
		t.Errorf("extra reveal should be ignored, shown=%d", w.shown)
	}
}

func TestViewShowsEveryLetter(t *testing.T) {
	w, _ := newWelcome()
	view := w.View(80, 24)
	for _, r := range letters {
		if !strings.ContainsRune(view, r) {
			t.Errorf("letter %c missing", r)
		}
	}
}

func TestKeyReplacesWithNextScreen(t *testing.T) {
	w, calls := newWelcome()
	reveals(w, 3)

	_, cmd := w.Update(tea.KeyPressMsg{Code: ' '})
	if cmd == nil {
		t.Fatal("key press should leave the splash")
	}
	msg, ok := cmd().(router.ReplaceScreenMsg)
	if !ok {
		t.Fatalf("expected ReplaceScreenMsg, got %T", cmd())
	}
	if _, ok := msg.Screen.(*stubScreen); !ok {
		t.Errorf("expected the next screen, got %T", msg.Screen)
	}
	if *calls != 1 {
		t.Errorf("next should be called once, got %d", *calls)
	}

	if _, cmd := w.Update(tea.KeyPressMsg{Code: 'b'}); cmd != nil {
		t.Error("second key press should do nothing")
	}
	if cmd := reveals(w, 1); cmd != nil {
		t.Error("reveal after leaving should not tick")
	}
	if *calls != 1 {
		t.Errorf("next should be called once, got %d", *calls)
	}
}

func TestNoAutoTransition(t *testing.T) {
	w, calls := newWelcome()
	reveals(w, 40)
	if *calls != 0 {
		t.Errorf("next should not run without a key press, got %d calls", *calls)
	}
}
