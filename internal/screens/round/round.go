// Package round is the play screen: the slot line, the card pool, the round
// clock and the hand-off to the result sheet.
package round

import (
	"context"
	"errors"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/ivrit/internal/audio"
	"github.com/abhisek/ivrit/internal/game"
	"github.com/abhisek/ivrit/internal/level"
	"github.com/abhisek/ivrit/internal/router"
	"github.com/abhisek/ivrit/internal/screen"
	"github.com/abhisek/ivrit/internal/screens/result"
	"github.com/abhisek/ivrit/internal/screens/services"
	"github.com/abhisek/ivrit/internal/ui/components"
	"github.com/abhisek/ivrit/internal/ui/layout"
)

const flashDuration = 400 * time.Millisecond

// RoundScreen implements screen.Screen for one level's rounds.
type RoundScreen struct {
	svc     *services.Services
	levelID int

	state game.RoundState
	pool  components.CardRow
	// slotCursor is the blank the tab key last moved to, or game.NoSlot.
	slotCursor int

	// gen increments with every round start so stale timers are ignored.
	gen        int
	flash      int
	levelDone  bool
	unplayable bool
	errMsg     string
}

var (
	_ screen.Screen          = (*RoundScreen)(nil)
	_ screen.KeyHintProvider = (*RoundScreen)(nil)
	_ screen.Resumer         = (*RoundScreen)(nil)
)

// New creates a round screen for levelID. The level is loaded in Init.
func New(svc *services.Services, levelID int) *RoundScreen {
	return &RoundScreen{svc: svc, levelID: levelID, slotCursor: game.NoSlot}
}

func (s *RoundScreen) ctx() context.Context {
	return s.svc.Context()
}

func (s *RoundScreen) Init() tea.Cmd {
	done, err := s.svc.Controller.LoadLevel(s.ctx(), s.levelID)
	s.levelDone = done
	return tea.Batch(s.handleErr(err), s.drain())
}

// Resume closes a result sheet left open by Esc.
func (s *RoundScreen) Resume() tea.Cmd {
	s.svc.Controller.HideResult()
	s.sync()
	return nil
}

func (s *RoundScreen) Title() string {
	return "Play"
}

// Status shows the round position in the header.
func (s *RoundScreen) Status() string {
	if s.levelDone || s.state.LevelID == 0 {
		return ""
	}
	return roundLabel(s.state, s.svc.Controller.RoundCount())
}

func (s *RoundScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.levelDone:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Back"},
			{Key: "X", Description: "Play again"},
		}
	case s.unplayable:
		return []layout.KeyHint{
			{Key: "S", Description: "Skip"},
			{Key: "Esc", Description: "Back"},
		}
	case s.state.Phase == game.PhaseWon:
		return []layout.KeyHint{
			{Key: "Enter", Description: "Next round"},
			{Key: "Esc", Description: "Map"},
		}
	case s.state.Learning:
		return []layout.KeyHint{
			{Key: "←→", Description: "Cards"},
			{Key: "Enter", Description: "Hear"},
			{Key: "Space", Description: "Got it"},
			{Key: "Esc", Description: "Back"},
		}
	}
	hints := []layout.KeyHint{
		{Key: "←→", Description: "Cards"},
		{Key: "Enter", Description: "Place"},
		{Key: "Tab", Description: "Blank"},
	}
	if s.state.TaskType == level.TaskFillInBlank {
		hints = append(hints, layout.KeyHint{Key: "⌫", Description: "Take back"})
	}
	return append(hints,
		layout.KeyHint{Key: "S", Description: "Skip"},
		layout.KeyHint{Key: "R", Description: "Restart"},
		layout.KeyHint{Key: "Esc", Description: "Back"},
	)
}

func (s *RoundScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		return s, s.handleTick(msg)
	case resultDueMsg:
		return s, s.handleResultDue(msg)
	case flashDoneMsg:
		if msg.gen == s.gen && msg.n == s.flash {
			s.flash = 0
			s.sync()
		}
		return s, nil
	case result.ChosenMsg:
		return s, s.handleChoice(msg.Choice)
	case tea.KeyMsg:
		return s, s.handleKey(msg)
	}
	return s, nil
}

func (s *RoundScreen) handleKey(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()
	s.errMsg = ""

	if s.levelDone {
		switch key {
		case "enter", "q":
			return pop()
		case "x":
			err := s.svc.Controller.ResetLevel(s.ctx())
			if err == nil {
				s.levelDone = false
			}
			return tea.Batch(s.handleErr(err), s.drain())
		}
		return nil
	}

	switch key {
	case "s":
		_, err := s.svc.Controller.SkipToNextAvailableRound(s.ctx())
		return tea.Batch(s.handleErr(err), s.drain())
	case "r":
		if s.state.Phase == game.PhaseWon {
			return nil
		}
		err := s.svc.Controller.RestartRound(s.ctx())
		return tea.Batch(s.handleErr(err), s.drain())
	case "p":
		if clip := services.Clip(s.state.Sentence); clip.File != "" {
			s.svc.Narrator.Play(clip)
		}
		return nil
	}

	if s.state.Phase == game.PhaseWon {
		if key == "enter" {
			return s.handleChoice(result.ChoiceNext)
		}
		return nil
	}
	if s.unplayable {
		return nil
	}

	switch key {
	case "enter":
		_, err := s.svc.Controller.SelectCard(s.ctx(), s.pool.Selected)
		return tea.Batch(s.handleErr(err), s.drain())
	case "tab":
		s.nextBlank(1)
		return s.drain()
	case "shift+tab":
		s.nextBlank(-1)
		return s.drain()
	case "backspace":
		if s.slotCursor == game.NoSlot {
			s.slotCursor = lastFilled(s.state)
		}
		if s.slotCursor != game.NoSlot {
			s.svc.Controller.ActivateSlot(s.ctx(), s.slotCursor)
		}
		return s.drain()
	case "space", " ":
		err := s.svc.Controller.ConfirmLearning(s.ctx())
		return tea.Batch(s.handleErr(err), s.drain())
	}

	s.pool, _ = s.pool.Update(msg)
	return nil
}

// nextBlank moves the slot cursor to the next blank in direction dir and
// makes it the active blank when it is still open.
func (s *RoundScreen) nextBlank(dir int) {
	n := len(s.state.Slots)
	if n == 0 {
		return
	}
	i := s.slotCursor
	if i == game.NoSlot && dir < 0 {
		i = n
	}
	for range n {
		i = ((i+dir)%n + n) % n
		if s.state.Slots[i].Blank {
			s.slotCursor = i
			if s.state.Slots[i].IsOpen() {
				s.svc.Controller.ActivateSlot(s.ctx(), i)
			}
			return
		}
	}
}

func lastFilled(st game.RoundState) int {
	for i := len(st.Slots) - 1; i >= 0; i-- {
		if sl := st.Slots[i]; sl.Blank && sl.Filled != nil {
			return i
		}
	}
	return game.NoSlot
}

func (s *RoundScreen) handleTick(msg tickMsg) tea.Cmd {
	if msg.gen != s.gen || s.state.Phase != game.PhaseInProgress {
		return nil
	}
	s.svc.Controller.Tick()
	s.state = s.svc.Controller.State()
	return tickCmd(s.gen)
}

func (s *RoundScreen) handleResultDue(msg resultDueMsg) tea.Cmd {
	if msg.gen != s.gen || !s.svc.Controller.RevealResult() {
		return nil
	}
	snap, _ := s.svc.Controller.Result()
	cmd := s.drain()
	if snap == nil {
		return cmd
	}
	clip := audio.Clip{File: snap.Audio}
	sheet := result.New(*snap, func() { s.svc.Narrator.Play(clip) })
	return tea.Batch(cmd, func() tea.Msg { return router.PushScreenMsg{Screen: sheet} })
}

func (s *RoundScreen) handleChoice(c result.Choice) tea.Cmd {
	s.svc.Controller.HideResult()
	if c == result.ChoiceMap {
		s.svc.Narrator.Stop()
		return pop()
	}
	_, err := s.svc.Controller.ProceedToNextRound(s.ctx())
	return tea.Batch(s.handleErr(err), s.drain())
}

// handleErr records err for display. An unplayable round is not an error:
// the board shows a notice and offers to skip.
func (s *RoundScreen) handleErr(err error) tea.Cmd {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, game.ErrRoundUnplayable):
		s.unplayable = true
	default:
		s.errMsg = err.Error()
	}
	return nil
}

// drain pulls the controller's queued events and turns them into narration,
// timers and navigation.
func (s *RoundScreen) drain() tea.Cmd {
	var cmds []tea.Cmd
	for _, ev := range s.svc.Controller.Events().Drain() {
		switch ev.Kind {
		case game.EventShowRound:
			s.gen++
			s.flash = 0
			s.slotCursor = game.NoSlot
			s.sync()
			s.pool = components.NewCardRow(poolLabels(s.state), poolHidden(s.state))
			s.unplayable = !s.state.Playable()
			if !s.unplayable {
				cmds = append(cmds, tickCmd(s.gen))
			}
			if s.state.TaskType == level.TaskAudition {
				if clip := services.Clip(s.state.Sentence); clip.File != "" {
					s.svc.Narrator.Play(clip)
				}
			}
		case game.EventHapticFailure:
			s.flash++
			gen, n := s.gen, s.flash
			cmds = append(cmds, tea.Tick(flashDuration, func(time.Time) tea.Msg {
				return flashDoneMsg{gen: gen, n: n}
			}))
		case game.EventHapticSuccess:
			s.flash = 0
		case game.EventSpeak:
			s.svc.Narrator.Say(ev.Text)
		case game.EventReadBack:
			s.svc.Narrator.ReadBack(ev.Text, ev.Words, ev.Delay)
		case game.EventPlayAudio:
			s.svc.Narrator.Play(audio.Clip{File: ev.Audio})
		case game.EventStopAudio:
			s.svc.Narrator.Stop()
		case game.EventShowResult:
			gen := s.gen
			cmds = append(cmds, tea.Tick(ev.Delay, func(time.Time) tea.Msg {
				return resultDueMsg{gen: gen}
			}))
		case game.EventShowLevelMap:
			s.levelDone = true
			cmds = append(cmds, pop())
		}
	}
	s.sync()
	return tea.Batch(cmds...)
}

// sync copies the controller state into the screen.
func (s *RoundScreen) sync() {
	s.state = s.svc.Controller.State()
	if len(s.pool.Labels) == len(s.state.Pool) {
		s.pool.SetHidden(poolHidden(s.state))
	}
	s.pool.Error = -1
	if s.flash > 0 {
		for i, p := range s.state.Pool {
			if p.Card.ID == s.state.ErrorCardID {
				s.pool.Error = i
				break
			}
		}
	}
	if s.slotCursor >= len(s.state.Slots) {
		s.slotCursor = game.NoSlot
	}
}

func poolLabels(st game.RoundState) []string {
	out := make([]string, len(st.Pool))
	for i, p := range st.Pool {
		out[i] = p.Card.Text
	}
	return out
}

func poolHidden(st game.RoundState) []bool {
	out := make([]bool, len(st.Pool))
	for i, p := range st.Pool {
		out[i] = !p.Visible
	}
	return out
}

func tickCmd(gen int) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{gen: gen}
	})
}

func pop() tea.Cmd {
	return func() tea.Msg { return router.PopScreenMsg{} }
}
