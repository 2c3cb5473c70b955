package journal

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/ivrit/internal/level"
	"github.com/abhisek/ivrit/internal/progress"
	"github.com/abhisek/ivrit/internal/store"
)

type fakeLevels map[int][]level.SentenceData

func (f fakeLevels) Sentences(_ context.Context, id int) []level.SentenceData { return f[id] }

func newJournal(t *testing.T) (*Journal, *progress.Store) {
	t.Helper()
	st, err := store.Open("file:" + t.Name() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	prog := progress.NewStore(st.KV(), st.SnapshotRepo())
	levels := fakeLevels{1: {
		{Text: "א", AudioFilename: "a.mp3"},
		{Text: "ב", AudioFilename: "b.mp3"},
		{Text: "ג", AudioFilename: "c.mp3"},
	}}
	return New(levels, prog), prog
}

func rounds(entries []Entry) []int {
	out := make([]int, len(entries))
	for i, e := range entries {
		out[i] = e.Round
	}
	return out
}

func TestEntries_CompletedMinusArchived(t *testing.T) {
	j, prog := newJournal(t)
	ctx := context.Background()
	for _, r := range []int{2, 0, 1} {
		require.NoError(t, prog.AddCompleted(ctx, 1, r))
	}
	require.NoError(t, prog.Archive(ctx, 1, 1))

	got, err := j.Entries(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2}, rounds(got))
	assert.Equal(t, "ג", got[1].Sentence.Text)
}

func TestForgetAndArchive(t *testing.T) {
	j, prog := newJournal(t)
	ctx := context.Background()
	require.NoError(t, prog.AddCompleted(ctx, 1, 0))
	require.NoError(t, prog.AddCompleted(ctx, 1, 1))

	require.NoError(t, j.Forget(ctx, 1, 0))
	require.NoError(t, j.Archive(ctx, 1, 1))

	got, err := j.Entries(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, got)

	p, err := prog.Level(ctx, 1)
	require.NoError(t, err)
	assert.False(t, p.Completed.Has(0), "forgotten round is playable again")
	assert.True(t, p.Archived.Has(1))
}

func TestEntries_IgnoresRoundsBeyondLevel(t *testing.T) {
	j, prog := newJournal(t)
	ctx := context.Background()
	require.NoError(t, prog.AddCompleted(ctx, 1, 7))
	got, err := j.Entries(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRepeat(t *testing.T) {
	r := NewRepeat()
	_, _, ok := r.Range()
	assert.False(t, ok)
	assert.Equal(t, 3, r.Next(3))

	r.SetA(4)
	r.SetB(2)
	start, end, ok := r.Range()
	require.True(t, ok)
	assert.Equal(t, [2]int{2, 4}, [2]int{start, end})

	r.SetA(5)
	start, end, _ = r.Range()
	assert.Equal(t, [2]int{4, 5}, [2]int{start, end}, "A past B swaps")

	assert.Equal(t, 5, r.Next(4))
	assert.Equal(t, 4, r.Next(5))
	assert.Equal(t, 4, r.Next(0))

	assert.Equal(t, 0.5, r.CycleSpeed())
	assert.Equal(t, 0.75, r.CycleSpeed())
	assert.Equal(t, 1.0, r.CycleSpeed())
	assert.Equal(t, time.Second, r.Pause)
}

func TestRepeatClips(t *testing.T) {
	entries := []Entry{
		{Sentence: level.SentenceData{AudioFilename: "a"}},
		{Sentence: level.SentenceData{AudioFilename: "b"}},
		{Sentence: level.SentenceData{AudioFilename: "c"}},
	}
	r := NewRepeat()
	r.SetA(1)
	r.SetB(2)
	r.Speed = 0.75

	clips, start, ok := r.Clips(entries)
	require.True(t, ok)
	assert.Equal(t, 1, start)
	require.Len(t, clips, 2)
	assert.Equal(t, "b", clips[0].File)
	assert.Equal(t, 0.75, clips[1].Speed)

	r.SetB(9)
	_, _, ok = r.Clips(entries)
	assert.False(t, ok)
}
