package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/abhisek/ivrit/internal/level"
	"github.com/abhisek/ivrit/internal/progress"
	"github.com/abhisek/ivrit/internal/store"
	"github.com/abhisek/ivrit/internal/task"
)

var (
	// ErrNoLevelLoaded is returned by round operations before LoadLevel.
	ErrNoLevelLoaded = errors.New("no level loaded")
	// ErrRoundUnplayable marks a round whose record produced no playable board.
	ErrRoundUnplayable = errors.New("round is unplayable")
	// ErrRoundOutOfRange is returned for round indices outside the level.
	ErrRoundOutOfRange = errors.New("round out of range")
)

// Levels provides level data.
type Levels interface {
	Sentences(ctx context.Context, levelID int) []level.SentenceData
	Metadata(ctx context.Context) []level.Meta
}

// Progress reads and writes round completion.
type Progress interface {
	Level(ctx context.Context, levelID int) (progress.LevelProgress, error)
	AddCompleted(ctx context.Context, levelID, round int) error
	Archive(ctx context.Context, levelID, round int) error
	RecordErrors(ctx context.Context, levelID, round, errs int) error
	ResetLevel(ctx context.Context, levelID int) error
}

// RoundLog records won rounds.
type RoundLog interface {
	AppendRoundWon(ctx context.Context, data store.RoundEventData) error
}

// Config holds the controller's delays.
type Config struct {
	// SettleDelay is the pause between a win and the result sheet.
	SettleDelay time.Duration
	// ReadBackDelay is the pause before a CONJUGATION row is read back.
	ReadBackDelay time.Duration
}

// DefaultConfig returns the standard delays.
func DefaultConfig() Config {
	return Config{
		SettleDelay:   650 * time.Millisecond,
		ReadBackDelay: 700 * time.Millisecond,
	}
}

// Controller owns the active level and round. All methods are safe to call
// from multiple goroutines; state changes happen under one mutex.
type Controller struct {
	levels   Levels
	progress Progress
	log      RoundLog
	rng      *rand.Rand
	cfg      Config
	events   Events

	mu        sync.Mutex
	levelID   int
	sentences []level.SentenceData
	glossary  map[string]string
	state     RoundState
	levelDone bool
	result    *RoundResultSnapshot
	revealed  bool

	logger *slog.Logger
}

// NewController wires a controller. roundLog may be nil.
func NewController(levels Levels, prog Progress, roundLog RoundLog, rng *rand.Rand, cfg Config) *Controller {
	return &Controller{
		levels:   levels,
		progress: prog,
		log:      roundLog,
		rng:      rng,
		cfg:      cfg,
		logger:   slog.Default().With("component", "game"),
	}
}

// Events returns the controller's outgoing event queue.
func (c *Controller) Events() *Events {
	return &c.events
}

// State returns a copy of the current round state.
func (c *Controller) State() RoundState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// LevelID returns the loaded level, or 0.
func (c *Controller) LevelID() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.levelID
}

// RoundCount returns the number of rounds in the loaded level.
func (c *Controller) RoundCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sentences)
}

// LevelCompleted reports whether every round of the loaded level is done.
func (c *Controller) LevelCompleted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.levelDone
}

// Unplayable reports whether the current round cannot be completed.
func (c *Controller) Unplayable() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Phase == PhaseInProgress && !c.state.Playable()
}

// Result returns the snapshot of the last won round and whether the result
// sheet has been revealed.
func (c *Controller) Result() (*RoundResultSnapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.result, c.revealed
}

// LoadLevel makes levelID current and starts its first open round. It
// reports true when the level has no open rounds left.
func (c *Controller) LoadLevel(ctx context.Context, levelID int) (bool, error) {
	sentences := c.levels.Sentences(ctx, levelID)
	if len(sentences) == 0 {
		return false, fmt.Errorf("level %d: %w", levelID, level.ErrLevelNotFound)
	}
	p := c.levelProgress(ctx, levelID)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.levelID = levelID
	c.sentences = sentences
	c.glossary = buildGlossary(sentences)
	c.state = RoundState{LevelID: levelID, ActiveSlot: NoSlot}
	c.result, c.revealed = nil, false

	active := activeRounds(p, len(sentences))
	c.levelDone = len(active) == 0
	if c.levelDone {
		return true, nil
	}
	return false, c.startRound(ctx, levelID, active[0])
}

// StartRound (re)starts a round of the loaded level.
func (c *Controller) StartRound(ctx context.Context, round int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sentences == nil {
		return ErrNoLevelLoaded
	}
	return c.startRound(ctx, c.levelID, round)
}

// RestartRound starts the current round over.
func (c *Controller) RestartRound(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sentences == nil {
		return ErrNoLevelLoaded
	}
	c.levelDone = false
	return c.startRound(ctx, c.levelID, c.state.Round)
}

// startRound assembles and shows a round. A round whose blanks all start
// filled (a one-row CONJUGATION whose only row is the bonus row) is won
// on the spot.
func (c *Controller) startRound(ctx context.Context, levelID, round int) error {
	if round < 0 || round >= len(c.sentences) {
		return fmt.Errorf("level %d round %d: %w", levelID, round, ErrRoundOutOfRange)
	}
	s := c.sentences[round]

	var pairs []level.Pair
	if s.TaskType == level.TaskConjugation {
		pairs = task.ShufflePairs(s, c.rng)
	}
	layout := task.Assemble(s, s.TaskType, pairs, c.rng, task.WithGlossary(c.glossary))

	c.state = NewRound(levelID, round, s, layout)
	c.result, c.revealed = nil, false
	c.events.Push(Event{Kind: EventShowRound, LevelID: levelID, Round: round})

	if !c.state.Playable() {
		c.logger.Warn("round has no playable layout", "level", levelID, "round", round, "task", s.TaskType)
		return fmt.Errorf("level %d round %d: %w", levelID, round, ErrRoundUnplayable)
	}
	if !c.state.Learning && c.state.Complete() {
		c.state.Phase = PhaseWon
		return c.win(ctx)
	}
	return nil
}

// SelectCard taps pool entry idx.
func (c *Controller) SelectCard(ctx context.Context, idx int) (Outcome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, out := SelectCard(c.state, idx)
	c.state = next

	switch out.Kind {
	case OutcomePreview:
		c.events.Push(Event{Kind: EventSpeak, Text: out.Card.Text})
	case OutcomeIncorrect:
		c.events.Push(Event{Kind: EventHapticFailure})
		c.events.Push(Event{Kind: EventSpeak, Text: out.Card.Text})
	case OutcomeCorrect:
		c.events.Push(Event{Kind: EventHapticSuccess})
		if c.state.TaskType == level.TaskConjugation {
			row := c.state.Slots[out.Slot].Row
			c.events.Push(Event{
				Kind:  EventReadBack,
				Text:  out.Card.Text,
				Words: c.state.RowTexts(row),
				Delay: c.cfg.ReadBackDelay,
			})
		} else {
			c.events.Push(Event{Kind: EventSpeak, Text: out.Card.Text})
		}
		if out.Won {
			return out, c.win(ctx)
		}
	}
	return out, nil
}

// ActivateSlot taps slot idx.
func (c *Controller) ActivateSlot(ctx context.Context, idx int) Outcome {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, out := ActivateSlot(c.state, idx)
	c.state = next
	if out.Kind == OutcomeReturned {
		c.events.Push(Event{Kind: EventSpeak, Text: out.Card.Text})
	}
	return out
}

// ConfirmLearning completes a learning round.
func (c *Controller) ConfirmLearning(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, ok := Confirm(c.state)
	if !ok {
		return nil
	}
	c.state = next
	return c.win(ctx)
}

// Tick advances the round clock by one second.
func (c *Controller) Tick() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = Tick(c.state)
}

// win persists the finished round and schedules the result sheet.
// Persistence failures are logged; the round still counts as won.
func (c *Controller) win(ctx context.Context) error {
	st := c.state
	var err error
	if st.TaskType == level.TaskAudition {
		err = c.progress.Archive(ctx, st.LevelID, st.Round)
	} else {
		err = c.progress.AddCompleted(ctx, st.LevelID, st.Round)
	}
	if err != nil {
		c.logger.Warn("persist round", "level", st.LevelID, "round", st.Round, "err", err)
	}
	if err := c.progress.RecordErrors(ctx, st.LevelID, st.Round, st.Errors); err != nil {
		c.logger.Warn("record errors", "level", st.LevelID, "round", st.Round, "err", err)
	}
	if c.log != nil {
		ev := store.RoundEventData{
			LevelID:        st.LevelID,
			Round:          st.Round,
			TaskType:       string(st.TaskType),
			Errors:         st.Errors,
			ElapsedSeconds: st.Elapsed,
		}
		if err := c.log.AppendRoundWon(ctx, ev); err != nil {
			c.logger.Warn("append round event", "err", err)
		}
	}

	p := c.levelProgress(ctx, st.LevelID)
	hasMore := p.Done().Len() < len(c.sentences)
	snap := newSnapshot(st, hasMore)
	c.result, c.revealed = &snap, false
	c.events.Push(Event{Kind: EventShowResult, Delay: c.cfg.SettleDelay, LevelID: st.LevelID, Round: st.Round})
	return nil
}

// RevealResult shows the result sheet of the last won round and requests
// playback of its audio. It is a no-op without a pending result.
func (c *Controller) RevealResult() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.result == nil || c.revealed {
		return false
	}
	c.revealed = true
	if c.result.Audio != "" {
		c.events.Push(Event{Kind: EventPlayAudio, Audio: c.result.Audio})
	}
	return true
}

// HideResult closes the result sheet.
func (c *Controller) HideResult() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.revealed = false
}

// ProceedToNextRound moves to the nearest open round after the current
// one, wrapping to the first open round. When none is left the level is
// marked completed and the map is requested.
func (c *Controller) ProceedToNextRound(ctx context.Context) (int, error) {
	c.mu.Lock()
	levelID, current, n := c.levelID, c.state.Round, len(c.sentences)
	c.mu.Unlock()
	if n == 0 {
		return 0, ErrNoLevelLoaded
	}

	active := activeRounds(c.levelProgress(ctx, levelID), n)

	c.mu.Lock()
	defer c.mu.Unlock()
	if len(active) == 0 {
		c.levelDone = true
		c.events.Push(Event{Kind: EventShowLevelMap, LevelID: levelID})
		return NoSlot, nil
	}
	next := active[0]
	if i := slices.IndexFunc(active, func(r int) bool { return r > current }); i >= 0 {
		next = active[i]
	}
	return next, c.startRound(ctx, levelID, next)
}

// SkipToNextAvailableRound stops audio and moves to the open round after the
// current one in cyclic order. With no open rounds it does nothing.
func (c *Controller) SkipToNextAvailableRound(ctx context.Context) (int, error) {
	c.mu.Lock()
	levelID, current, n := c.levelID, c.state.Round, len(c.sentences)
	c.events.Push(Event{Kind: EventStopAudio})
	c.mu.Unlock()
	if n == 0 {
		return 0, ErrNoLevelLoaded
	}

	active := activeRounds(c.levelProgress(ctx, levelID), n)
	if len(active) == 0 {
		return NoSlot, nil
	}

	next := active[0]
	if i := slices.Index(active, current); i >= 0 {
		next = active[(i+1)%len(active)]
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return next, c.startRound(ctx, levelID, next)
}

// ResetLevel clears the loaded level's progress and reloads it.
func (c *Controller) ResetLevel(ctx context.Context) error {
	levelID := c.LevelID()
	if levelID == 0 {
		return ErrNoLevelLoaded
	}
	if err := c.progress.ResetLevel(ctx, levelID); err != nil {
		return fmt.Errorf("reset level %d: %w", levelID, err)
	}
	_, err := c.LoadLevel(ctx, levelID)
	return err
}

// Map builds the level map from current progress.
func (c *Controller) Map(ctx context.Context) []LevelStatus {
	return BuildMap(c.levels.Metadata(ctx), func(id int) progress.LevelProgress {
		return c.levelProgress(ctx, id)
	})
}

// levelProgress reads progress, treating failures as no progress.
func (c *Controller) levelProgress(ctx context.Context, levelID int) progress.LevelProgress {
	p, err := c.progress.Level(ctx, levelID)
	if err != nil {
		c.logger.Warn("read progress", "level", levelID, "err", err)
		return progress.LevelProgress{
			Completed:  progress.RoundSet{},
			Archived:   progress.RoundSet{},
			BestErrors: map[int]int{},
		}
	}
	return p
}

// activeRounds lists round indices that are neither completed nor archived.
func activeRounds(p progress.LevelProgress, total int) []int {
	done := p.Done()
	var out []int
	for i := range total {
		if !done.Has(i) {
			out = append(out, i)
		}
	}
	return out
}

// buildGlossary collects single-word translations from the level's pairs.
func buildGlossary(sentences []level.SentenceData) map[string]string {
	g := map[string]string{}
	for _, s := range sentences {
		if s.TaskType != level.TaskMatchingPairs {
			continue
		}
		for _, p := range s.Pairs {
			if _, ok := g[p.Hebrew]; !ok && p.Hebrew != "" {
				g[p.Hebrew] = p.Translation
			}
		}
	}
	return g
}
