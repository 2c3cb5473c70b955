// Package services bundles the dependencies every screen and subcommand
// draws on. Build is the composition root.
package services

import (
	"context"
	"math/rand/v2"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/spf13/afero"

	"github.com/abhisek/ivrit/internal/audio"
	"github.com/abhisek/ivrit/internal/dictionary"
	"github.com/abhisek/ivrit/internal/game"
	"github.com/abhisek/ivrit/internal/journal"
	"github.com/abhisek/ivrit/internal/level"
	"github.com/abhisek/ivrit/internal/progress"
	"github.com/abhisek/ivrit/internal/store"
)

// Options configures Build.
type Options struct {
	Fs        afero.Fs
	LevelsDir string
	AudioDir  string
	// Seed fixes the shuffle order. Zero seeds from the clock.
	Seed uint64
	Game game.Config
	// WordPause separates narrated words.
	WordPause time.Duration
	// ClipLength is how long the silent player holds a clip.
	ClipLength time.Duration
	// RuneDuration paces the silent speaker per character.
	RuneDuration time.Duration
}

// Services is shared by all screens. Fields are safe for concurrent use.
type Services struct {
	Ctx        context.Context
	Store      *store.Store
	Levels     *level.Repository
	Progress   *progress.Store
	Controller *game.Controller
	Dictionary *dictionary.Dictionary
	Journal    *journal.Journal
	Narrator   *audio.Narrator
	Rand       *rand.Rand

	// Send delivers a message to the running program. It is nil outside
	// the TUI.
	Send func(tea.Msg)
}

// Build wires every service on top of an open store.
func Build(ctx context.Context, st *store.Store, o Options) *Services {
	levels := level.NewRepository(o.Fs, o.LevelsDir)
	prog := progress.NewStore(st.KV(), st.SnapshotRepo())
	rng := NewRand(o.Seed)

	player := audio.NewSilentPlayer(o.Fs, o.AudioDir, o.ClipLength)
	speaker := audio.NewSilentSpeaker(o.RuneDuration)

	return &Services{
		Ctx:        ctx,
		Store:      st,
		Levels:     levels,
		Progress:   prog,
		Controller: game.NewController(levels, prog, st.EventRepo(), rng, o.Game),
		Dictionary: dictionary.New(levels, prog),
		Journal:    journal.New(levels, prog),
		Narrator:   audio.NewNarrator(player, speaker, o.WordPause),
		Rand:       rng,
	}
}

// NewRand seeds from the clock unless seed is fixed.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Close stops narration and closes the store.
func (s *Services) Close() error {
	s.Narrator.Stop()
	return s.Store.Close()
}

// Post delivers msg from a background goroutine without blocking the
// caller. Messages posted after the program exits are dropped.
func (s *Services) Post(msg tea.Msg) {
	if s.Send == nil {
		return
	}
	go s.Send(msg)
}

// Context returns the services context, defaulting to Background.
func (s *Services) Context() context.Context {
	if s.Ctx == nil {
		return context.Background()
	}
	return s.Ctx
}

// Locale returns the persisted interface locale.
func (s *Services) Locale() string {
	return s.Progress.Locale(s.Context())
}

// Clip builds the clip for a sentence's recording.
func Clip(s level.SentenceData) audio.Clip {
	return audio.Clip{File: s.AudioFilename}
}
