// Package dictionary aggregates the word pairs a learner has unlocked by
// completing matching rounds, across every level.
package dictionary

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/abhisek/ivrit/internal/hebrew"
	"github.com/abhisek/ivrit/internal/level"
	"github.com/abhisek/ivrit/internal/progress"
)

// Entry is one Hebrew word with its translation.
type Entry struct {
	Hebrew      string
	Translation string
}

// Levels is the level data the dictionary reads.
type Levels interface {
	LevelIDs() ([]int, error)
	Sentences(ctx context.Context, levelID int) []level.SentenceData
}

// Progress is the completion state the dictionary reads.
type Progress interface {
	Completed(ctx context.Context, levelID int) (progress.RoundSet, error)
}

// Dictionary caches the aggregated entries until a forced refresh.
type Dictionary struct {
	levels   Levels
	progress Progress
	logger   *slog.Logger

	group singleflight.Group
	mu    sync.RWMutex
	cache []Entry
	built bool
}

// New returns an empty dictionary.
func New(levels Levels, prog Progress) *Dictionary {
	return &Dictionary{
		levels:   levels,
		progress: prog,
		logger:   slog.Default().With("component", "dictionary"),
	}
}

// Global returns a copy of every unique pair from completed MATCHING_PAIRS rounds in
// level order, then round order, then pair order. Concurrent builds are
// coalesced.
func (d *Dictionary) Global(ctx context.Context, forceRefresh bool) ([]Entry, error) {
	if !forceRefresh {
		d.mu.RLock()
		cached, ok := d.cache, d.built
		d.mu.RUnlock()
		if ok {
			return slices.Clone(cached), nil
		}
	}

	v, err, _ := d.group.Do("global", func() (any, error) {
		entries, err := d.build(ctx)
		if err != nil {
			return nil, err
		}
		d.mu.Lock()
		d.cache, d.built = entries, true
		d.mu.Unlock()
		return entries, nil
	})
	if err != nil {
		return nil, err
	}
	return slices.Clone(v.([]Entry)), nil
}

func (d *Dictionary) build(ctx context.Context) ([]Entry, error) {
	ids, err := d.levels.LevelIDs()
	if err != nil {
		return nil, fmt.Errorf("list levels: %w", err)
	}

	seen := map[Entry]bool{}
	var out []Entry
	for _, id := range ids {
		completed, err := d.progress.Completed(ctx, id)
		if err != nil {
			d.logger.Warn("read completed rounds", "level", id, "err", err)
			continue
		}
		if completed.Len() == 0 {
			continue
		}
		for round, s := range d.levels.Sentences(ctx, id) {
			if !completed.Has(round) || s.TaskType != level.TaskMatchingPairs {
				continue
			}
			for _, p := range s.Pairs {
				e := Entry{Hebrew: p.Hebrew, Translation: p.Translation}
				if !seen[e] {
					seen[e] = true
					out = append(out, e)
				}
			}
		}
	}
	d.logger.Debug("dictionary built", "entries", len(out))
	return out, nil
}

// Search loads the cached dictionary and filters it by query.
func (d *Dictionary) Search(ctx context.Context, query string) ([]Entry, error) {
	entries, err := d.Global(ctx, false)
	if err != nil {
		return nil, err
	}
	return Filter(entries, query), nil
}

// Filter keeps entries matching query. A query containing Hebrew letters
// matches the Hebrew side with vowel points removed from both; any other
// query matches the translation case-insensitively. A blank query keeps
// everything.
func Filter(entries []Entry, query string) []Entry {
	if strings.TrimSpace(query) == "" {
		return slices.Clone(entries)
	}
	var match func(Entry) bool
	if hebrew.IsHebrew(query) {
		q := hebrew.StripNikud(query)
		match = func(e Entry) bool { return strings.Contains(hebrew.StripNikud(e.Hebrew), q) }
	} else {
		q := strings.ToLower(query)
		match = func(e Entry) bool { return strings.Contains(strings.ToLower(e.Translation), q) }
	}

	var out []Entry
	for _, e := range entries {
		if match(e) {
			out = append(out, e)
		}
	}
	return out
}
