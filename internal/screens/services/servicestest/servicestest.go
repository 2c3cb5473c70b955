// Package servicestest builds a Services value backed by an in-memory store
// and in-memory level files.
package servicestest

import (
	"context"
	"fmt"
	"path"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/ivrit/internal/game"
	"github.com/abhisek/ivrit/internal/level"
	"github.com/abhisek/ivrit/internal/screens/services"
	"github.com/abhisek/ivrit/internal/store"
)

// LevelsDir is where New writes the level files.
const LevelsDir = "levels"

// New writes one level file per entry of levels, keyed by level id, and
// returns services with a fixed seed and near-zero delays.
func New(t testing.TB, levels map[int][]level.SentenceData) *services.Services {
	t.Helper()

	st, err := store.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	require.NoError(t, err)

	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll(LevelsDir, 0o755))
	for id, sentences := range levels {
		data, err := level.Encode(level.LevelFile{LevelID: strconv.Itoa(id), Sentences: sentences})
		require.NoError(t, err)
		require.NoError(t, afero.WriteFile(fs, path.Join(LevelsDir, level.FileName(id)), data, 0o644))
	}

	svc := services.Build(context.Background(), st, services.Options{
		Fs:        fs,
		LevelsDir: LevelsDir,
		AudioDir:  "audio",
		Seed:      7,
		Game: game.Config{
			SettleDelay:   time.Millisecond,
			ReadBackDelay: time.Millisecond,
		},
		WordPause:    time.Millisecond,
		ClipLength:   time.Millisecond,
		RuneDuration: time.Microsecond,
	})
	t.Cleanup(func() { _ = svc.Close() })
	return svc
}

// Sentence is an ASSEMBLE_TRANSLATION record with the given target words.
func Sentence(text, translation string, targets ...string) level.SentenceData {
	return level.SentenceData{
		Text:        text,
		Translation: translation,
		TaskType:    level.TaskAssembleTranslation,
		TargetCards: targets,
	}
}
