package level

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"regexp"
	"slices"
	"strconv"
	"sync"
	"unicode/utf8"

	"github.com/spf13/afero"
)

// ErrLevelNotFound is returned when no file exists for a level id.
var ErrLevelNotFound = errors.New("level not found")

var fileNamePattern = regexp.MustCompile(`^level_(\d+)\.json$`)

// FileName returns the file name holding the given level.
func FileName(levelID int) string {
	return fmt.Sprintf("level_%d.json", levelID)
}

// Repository loads level files from a directory and caches them per level id.
// Each level is read at most once; concurrent first loads of the same level
// are serialized on a single mutex.
type Repository struct {
	fs  afero.Fs
	dir string

	cache  sync.Map // map[int][]SentenceData
	loadMu sync.Mutex
	log    *slog.Logger
}

// NewRepository returns a Repository reading level_N.json files from dir.
func NewRepository(fsys afero.Fs, dir string) *Repository {
	return &Repository{fs: fsys, dir: dir, log: slog.Default().With("component", "level")}
}

// Load returns the sentences of a level, reading the file on first use.
func (r *Repository) Load(ctx context.Context, levelID int) ([]SentenceData, error) {
	if v, ok := r.cache.Load(levelID); ok {
		return v.([]SentenceData), nil
	}

	r.loadMu.Lock()
	defer r.loadMu.Unlock()

	// Another caller may have finished the load while we waited.
	if v, ok := r.cache.Load(levelID); ok {
		return v.([]SentenceData), nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p := path.Join(r.dir, FileName(levelID))
	data, err := afero.ReadFile(r.fs, p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("level %d: %w", levelID, ErrLevelNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", p, err)
	}

	if err := Validate(data); err != nil {
		r.log.Warn("level file does not match schema", "level", levelID, "err", err)
	}
	lf, warnings, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", p, err)
	}
	for _, w := range warnings {
		r.log.Warn("level field degraded", "level", levelID, "detail", w)
	}

	r.cache.Store(levelID, lf.Sentences)
	return lf.Sentences, nil
}

// Sentences is Load with failures logged and reported as an empty level.
func (r *Repository) Sentences(ctx context.Context, levelID int) []SentenceData {
	s, err := r.Load(ctx, levelID)
	if err != nil {
		r.log.Warn("level unavailable", "level", levelID, "err", err)
		return nil
	}
	return s
}

// Sentence returns one round of a level.
func (r *Repository) Sentence(ctx context.Context, levelID, round int) (SentenceData, bool) {
	s := r.Sentences(ctx, levelID)
	if round < 0 || round >= len(s) {
		return SentenceData{}, false
	}
	return s[round], true
}

// LevelIDs lists the level ids present in the directory in ascending order.
func (r *Repository) LevelIDs() ([]int, error) {
	entries, err := afero.ReadDir(r.fs, r.dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", r.dir, err)
	}
	var ids []int
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := fileNamePattern.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		id, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

// LevelCount returns the number of level files, or 0 if the directory is
// unreadable.
func (r *Repository) LevelCount() int {
	ids, err := r.LevelIDs()
	if err != nil {
		r.log.Warn("cannot list levels", "err", err)
		return 0
	}
	return len(ids)
}

// Metadata returns id and round count for every level, in id order.
func (r *Repository) Metadata(ctx context.Context) []Meta {
	ids, err := r.LevelIDs()
	if err != nil {
		r.log.Warn("cannot list levels", "err", err)
		return nil
	}
	out := make([]Meta, 0, len(ids))
	for _, id := range ids {
		out = append(out, Meta{LevelID: id, TotalRounds: len(r.Sentences(ctx, id))})
	}
	return out
}

// Longest returns the display text with the most characters across all
// levels. The TUI uses it to size the sentence area.
func (r *Repository) Longest(ctx context.Context) string {
	var longest string
	for _, m := range r.Metadata(ctx) {
		for _, s := range r.Sentences(ctx, m.LevelID) {
			if utf8.RuneCountInString(s.Text) > utf8.RuneCountInString(longest) {
				longest = s.Text
			}
		}
	}
	return longest
}

// Invalidate drops a cached level so the next Load rereads it.
func (r *Repository) Invalidate(levelID int) {
	r.cache.Delete(levelID)
}
