// Package journal lists the sentences a learner has completed but not yet
// archived, and lets them be forgotten (replayed) or archived.
package journal

import (
	"context"
	"fmt"

	"github.com/abhisek/ivrit/internal/audio"
	"github.com/abhisek/ivrit/internal/level"
	"github.com/abhisek/ivrit/internal/progress"
)

// Levels provides sentence data.
type Levels interface {
	Sentences(ctx context.Context, levelID int) []level.SentenceData
}

// Progress is the subset of the progress store the journal drives.
type Progress interface {
	Level(ctx context.Context, levelID int) (progress.LevelProgress, error)
	RemoveCompleted(ctx context.Context, levelID, round int) error
	Archive(ctx context.Context, levelID, round int) error
}

// Entry is one journal page.
type Entry struct {
	Round    int
	Sentence level.SentenceData
}

// Journal reads and edits a level's journal.
type Journal struct {
	levels   Levels
	progress Progress
}

// New returns a Journal.
func New(levels Levels, prog Progress) *Journal {
	return &Journal{levels: levels, progress: prog}
}

// Entries returns completed, non-archived rounds of levelID in round order.
func (j *Journal) Entries(ctx context.Context, levelID int) ([]Entry, error) {
	p, err := j.progress.Level(ctx, levelID)
	if err != nil {
		return nil, fmt.Errorf("journal level %d: %w", levelID, err)
	}
	sentences := j.levels.Sentences(ctx, levelID)

	var out []Entry
	for _, r := range p.Completed.Without(p.Archived).Sorted() {
		if r < 0 || r >= len(sentences) {
			continue
		}
		out = append(out, Entry{Round: r, Sentence: sentences[r]})
	}
	return out, nil
}

// Forget returns a round to play so it leaves the journal.
func (j *Journal) Forget(ctx context.Context, levelID, round int) error {
	return j.progress.RemoveCompleted(ctx, levelID, round)
}

// Archive hides a round from both play and the journal.
func (j *Journal) Archive(ctx context.Context, levelID, round int) error {
	return j.progress.Archive(ctx, levelID, round)
}

// Clips returns the recordings of entries at speed, in page order.
func Clips(entries []Entry, speed float64) []audio.Clip {
	out := make([]audio.Clip, len(entries))
	for i, e := range entries {
		out[i] = audio.Clip{File: e.Sentence.AudioFilename, Speed: speed}
	}
	return out
}
