package level

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingFs counts file opens so tests can assert load-once behavior.
type countingFs struct {
	afero.Fs
	opens atomic.Int64
}

func (c *countingFs) Open(name string) (afero.File, error) {
	c.opens.Add(1)
	return c.Fs.Open(name)
}

func (c *countingFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	if flag == os.O_RDONLY {
		c.opens.Add(1)
	}
	return c.Fs.OpenFile(name, flag, perm)
}

func writeLevel(t *testing.T, fsys afero.Fs, id int, body string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fsys, "levels/"+FileName(id), []byte(body), 0o644))
}

func newTestRepo(t *testing.T) (*Repository, *countingFs) {
	t.Helper()
	mem := afero.NewMemMapFs()
	require.NoError(t, mem.MkdirAll("levels", 0o755))
	writeLevel(t, mem, 1, sampleLevel)
	writeLevel(t, mem, 2, `{"levelId": "2", "cards": [
		{"uiDisplayTitle": "משפט ארוך מאוד מאוד", "taskType": "QUIZ"}
	]}`)
	writeLevel(t, mem, 10, `{"levelId": "10", "cards": []}`)
	require.NoError(t, afero.WriteFile(mem, "levels/readme.txt", []byte("x"), 0o644))
	cfs := &countingFs{Fs: mem}
	return NewRepository(cfs, "levels"), cfs
}

func TestRepository_LoadOnce(t *testing.T) {
	repo, cfs := newTestRepo(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, err := repo.Load(ctx, 1)
			assert.NoError(t, err)
			assert.Len(t, s, 2)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), cfs.opens.Load())
}

func TestRepository_Missing(t *testing.T) {
	repo, _ := newTestRepo(t)
	_, err := repo.Load(context.Background(), 3)
	assert.ErrorIs(t, err, ErrLevelNotFound)
	assert.Empty(t, repo.Sentences(context.Background(), 3))

	_, ok := repo.Sentence(context.Background(), 3, 0)
	assert.False(t, ok)
}

func TestRepository_LevelIDsAndMetadata(t *testing.T) {
	repo, _ := newTestRepo(t)

	ids, err := repo.LevelIDs()
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 10}, ids)
	assert.Equal(t, 3, repo.LevelCount())

	meta := repo.Metadata(context.Background())
	assert.Equal(t, []Meta{
		{LevelID: 1, TotalRounds: 2},
		{LevelID: 2, TotalRounds: 1},
		{LevelID: 10, TotalRounds: 0},
	}, meta)
}

func TestRepository_SentenceAndLongest(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	s, ok := repo.Sentence(ctx, 1, 1)
	require.True(t, ok)
	assert.Equal(t, TaskMatchingPairs, s.TaskType)

	_, ok = repo.Sentence(ctx, 1, 2)
	assert.False(t, ok)

	assert.Equal(t, "משפט ארוך מאוד מאוד", repo.Longest(ctx))
}

func TestRepository_Invalidate(t *testing.T) {
	repo, cfs := newTestRepo(t)
	ctx := context.Background()

	_, err := repo.Load(ctx, 2)
	require.NoError(t, err)
	repo.Invalidate(2)
	_, err = repo.Load(ctx, 2)
	require.NoError(t, err)

	assert.Equal(t, int64(2), cfs.opens.Load())
}
