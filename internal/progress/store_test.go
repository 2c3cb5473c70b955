package progress

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/ivrit/internal/store"
)

func newTestStore(t *testing.T) (*Store, *store.Store) {
	t.Helper()
	st, err := store.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return NewStore(st.KV(), st.SnapshotRepo()), st
}

func TestAddRemoveCompleted(t *testing.T) {
	ps, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, ps.AddCompleted(ctx, 1, 2))
	require.NoError(t, ps.AddCompleted(ctx, 1, 0))
	require.NoError(t, ps.AddCompleted(ctx, 1, 2))

	got, err := ps.Completed(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2}, got.Sorted())

	require.NoError(t, ps.RemoveCompleted(ctx, 1, 2))
	require.NoError(t, ps.RemoveCompleted(ctx, 1, 7))
	got, err = ps.Completed(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []int{0}, got.Sorted())

	other, err := ps.Completed(ctx, 2)
	require.NoError(t, err)
	assert.Zero(t, other.Len())

	assert.ErrorIs(t, ps.AddCompleted(ctx, 1, -1), ErrInvalidRound)
}

func TestArchiveKeepsSetsDisjoint(t *testing.T) {
	ps, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, ps.AddCompleted(ctx, 3, 1))
	require.NoError(t, ps.AddCompleted(ctx, 3, 4))
	require.NoError(t, ps.Archive(ctx, 3, 1))
	require.NoError(t, ps.Archive(ctx, 3, 5))

	p, err := ps.Level(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{4}, p.Completed.Sorted())
	assert.Equal(t, []int{1, 5}, p.Archived.Sorted())
	assert.Equal(t, []int{1, 4, 5}, p.Done().Sorted())

	// Completing an archived round does not pull it back into completed.
	require.NoError(t, ps.AddCompleted(ctx, 3, 1))
	p, err = ps.Level(ctx, 3)
	require.NoError(t, err)
	for r := range p.Completed {
		assert.False(t, p.Archived.Has(r), "round %d in both sets", r)
	}
}

func TestRecordErrorsKeepsBest(t *testing.T) {
	ps, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, ps.RecordErrors(ctx, 1, 0, 4))
	require.NoError(t, ps.RecordErrors(ctx, 1, 0, 6))
	require.NoError(t, ps.RecordErrors(ctx, 1, 1, 0))
	require.NoError(t, ps.RecordErrors(ctx, 1, 0, 2))

	p, err := ps.Level(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, map[int]int{0: 2, 1: 0}, p.BestErrors)
}

func TestResetRoundAndLevel(t *testing.T) {
	ps, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, ps.AddCompleted(ctx, 1, 0))
	require.NoError(t, ps.AddCompleted(ctx, 1, 1))
	require.NoError(t, ps.Archive(ctx, 1, 2))
	require.NoError(t, ps.RecordErrors(ctx, 1, 0, 3))

	require.NoError(t, ps.ResetRound(ctx, 1, 0))
	p, err := ps.Level(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, p.Completed.Sorted())
	assert.Empty(t, p.BestErrors)

	require.NoError(t, ps.ResetLevel(ctx, 1))
	p, err = ps.Level(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, p.Done().Len())
}

func TestResetAllExceptLocaleAndRestore(t *testing.T) {
	ps, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, ps.SetLocale(ctx, "fr"))
	require.NoError(t, ps.AddCompleted(ctx, 1, 0))
	require.NoError(t, ps.AddCompleted(ctx, 2, 3))
	_, err := ps.IncrementAlefbetCompletions(ctx)
	require.NoError(t, err)

	require.NoError(t, ps.ResetAllExceptLocale(ctx))
	assert.Equal(t, "fr", ps.Locale(ctx))
	assert.Zero(t, ps.AlefbetCompletions(ctx))
	c, err := ps.Completed(ctx, 2)
	require.NoError(t, err)
	assert.Zero(t, c.Len())

	restored, err := ps.RestoreLatest(ctx)
	require.NoError(t, err)
	assert.True(t, restored)
	c, err = ps.Completed(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []int{3}, c.Sorted())
	assert.Equal(t, 1, ps.AlefbetCompletions(ctx))
}

func TestMalformedEntriesDropped(t *testing.T) {
	ps, st := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.KV().Put(ctx, "progress_level_1", "0, x,3,-2,,5"))
	require.NoError(t, st.KV().Put(ctx, "errors_level_1", "0:1,bad,3:x,5:0"))

	p, err := ps.Level(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 3, 5}, p.Completed.Sorted())
	assert.Equal(t, map[int]int{0: 1, 5: 0}, p.BestErrors)
}

func TestConcurrentAdds(t *testing.T) {
	ps, _ := newTestStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, ps.AddCompleted(ctx, 1, i))
		}()
	}
	wg.Wait()

	c, err := ps.Completed(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 20, c.Len())
}

func TestPreferences(t *testing.T) {
	ps, _ := newTestStore(t)
	ctx := context.Background()

	assert.Equal(t, DefaultLocale, ps.Locale(ctx))
	assert.Error(t, ps.SetLocale(ctx, "de"))

	assert.Equal(t, FontCursive, ps.FontStyleFor(ctx, 1))
	assert.Equal(t, FontRegular, ps.FontStyleFor(ctx, 2))
	style, err := ps.ToggleLevel1FontStyle(ctx)
	require.NoError(t, err)
	assert.Equal(t, FontRegular, style)
	assert.Equal(t, FontRegular, ps.FontStyleFor(ctx, 1))

	assert.Equal(t, DefaultJournalFontSize, ps.JournalFontSize(ctx))
	require.NoError(t, ps.SetJournalFontSize(ctx, 28.5))
	assert.Equal(t, 28.5, ps.JournalFontSize(ctx))
	assert.Equal(t, FontRegular, ps.JournalFontStyle(ctx))

	n, err := ps.IncrementAlefbetCompletions(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
