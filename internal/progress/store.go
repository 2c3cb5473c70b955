// Package progress persists per-level round completion, archived rounds,
// best error counts and user preferences on top of the key-value store.
package progress

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/abhisek/ivrit/internal/store"
)

// ErrInvalidRound is returned for negative round indices or level ids.
var ErrInvalidRound = errors.New("invalid round")

const (
	keyLocale = "locale"

	// snapshotsKept bounds how many pre-reset snapshots are retained.
	snapshotsKept = 5
)

func completedKey(levelID int) string { return "progress_level_" + strconv.Itoa(levelID) }
func archivedKey(levelID int) string  { return "archived_level_" + strconv.Itoa(levelID) }
func errorsKey(levelID int) string    { return "errors_level_" + strconv.Itoa(levelID) }

// LevelProgress is a consistent view of one level's persisted progress.
type LevelProgress struct {
	Completed  RoundSet
	Archived   RoundSet
	BestErrors map[int]int
}

// Done returns the rounds that are completed or archived.
func (p LevelProgress) Done() RoundSet {
	return p.Completed.Union(p.Archived)
}

// Store reads and writes progress. Each mutation rewrites whole per-level
// keys in one KV batch, and a mutex keeps read-modify-write cycles from
// interleaving.
type Store struct {
	kv        store.KVRepo
	snapshots store.SnapshotRepo

	mu  sync.RWMutex
	log *slog.Logger
}

// NewStore returns a progress store. snapshots may be nil, in which case
// global resets cannot be undone.
func NewStore(kv store.KVRepo, snapshots store.SnapshotRepo) *Store {
	return &Store{
		kv:        kv,
		snapshots: snapshots,
		log:       slog.Default().With("component", "progress"),
	}
}

// Level returns completed, archived and best-error state of a level.
func (s *Store) Level(ctx context.Context, levelID int) (LevelProgress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.level(ctx, levelID)
}

func (s *Store) level(ctx context.Context, levelID int) (LevelProgress, error) {
	completed, err := s.readSet(ctx, completedKey(levelID))
	if err != nil {
		return LevelProgress{}, err
	}
	archived, err := s.readSet(ctx, archivedKey(levelID))
	if err != nil {
		return LevelProgress{}, err
	}
	best, err := s.readErrors(ctx, errorsKey(levelID))
	if err != nil {
		return LevelProgress{}, err
	}
	return LevelProgress{Completed: completed, Archived: archived, BestErrors: best}, nil
}

// Completed returns the completed round set of a level.
func (s *Store) Completed(ctx context.Context, levelID int) (RoundSet, error) {
	p, err := s.Level(ctx, levelID)
	return p.Completed, err
}

// Archived returns the archived round set of a level.
func (s *Store) Archived(ctx context.Context, levelID int) (RoundSet, error) {
	p, err := s.Level(ctx, levelID)
	return p.Archived, err
}

// AddCompleted marks a round completed. A round that is already archived
// stays archived.
func (s *Store) AddCompleted(ctx context.Context, levelID, round int) error {
	if levelID < 0 || round < 0 {
		return fmt.Errorf("level %d round %d: %w", levelID, round, ErrInvalidRound)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.level(ctx, levelID)
	if err != nil {
		return err
	}
	if p.Archived.Has(round) || p.Completed.Has(round) {
		return nil
	}
	p.Completed[round] = struct{}{}
	return s.kv.Put(ctx, completedKey(levelID), encodeSet(p.Completed))
}

// RemoveCompleted drops a round from the completed set so it can be played
// again. Archived rounds are unaffected.
func (s *Store) RemoveCompleted(ctx context.Context, levelID, round int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	completed, err := s.readSet(ctx, completedKey(levelID))
	if err != nil {
		return err
	}
	if !completed.Has(round) {
		return nil
	}
	delete(completed, round)
	return s.kv.Put(ctx, completedKey(levelID), encodeSet(completed))
}

// Archive moves a round from the completed set to the archived set in one
// atomic write.
func (s *Store) Archive(ctx context.Context, levelID, round int) error {
	if levelID < 0 || round < 0 {
		return fmt.Errorf("level %d round %d: %w", levelID, round, ErrInvalidRound)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.level(ctx, levelID)
	if err != nil {
		return err
	}
	delete(p.Completed, round)
	p.Archived[round] = struct{}{}
	return s.kv.Apply(ctx,
		store.KVOp{Key: completedKey(levelID), Value: encodeSet(p.Completed)},
		store.KVOp{Key: archivedKey(levelID), Value: encodeSet(p.Archived)},
	)
}

// RecordErrors stores errors as the round's best error count if it improves
// on the previous record.
func (s *Store) RecordErrors(ctx context.Context, levelID, round, errs int) error {
	if levelID < 0 || round < 0 || errs < 0 {
		return fmt.Errorf("level %d round %d: %w", levelID, round, ErrInvalidRound)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	best, err := s.readErrors(ctx, errorsKey(levelID))
	if err != nil {
		return err
	}
	if prev, ok := best[round]; ok && prev <= errs {
		return nil
	}
	best[round] = errs
	return s.kv.Put(ctx, errorsKey(levelID), encodeErrors(best))
}

// ResetRound clears every trace of one round: completion, archive and
// error record.
func (s *Store) ResetRound(ctx context.Context, levelID, round int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.level(ctx, levelID)
	if err != nil {
		return err
	}
	delete(p.Completed, round)
	delete(p.Archived, round)
	delete(p.BestErrors, round)
	return s.kv.Apply(ctx,
		store.KVOp{Key: completedKey(levelID), Value: encodeSet(p.Completed)},
		store.KVOp{Key: archivedKey(levelID), Value: encodeSet(p.Archived)},
		store.KVOp{Key: errorsKey(levelID), Value: encodeErrors(p.BestErrors)},
	)
}

// ResetLevel removes all progress of one level.
func (s *Store) ResetLevel(ctx context.Context, levelID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kv.Apply(ctx,
		store.KVOp{Key: completedKey(levelID), Delete: true},
		store.KVOp{Key: archivedKey(levelID), Delete: true},
		store.KVOp{Key: errorsKey(levelID), Delete: true},
	)
}

// ResetAllExceptLocale wipes every persisted key except the locale. When a
// snapshot repo is configured the previous state is saved first so the
// reset can be undone with RestoreLatest.
func (s *Store) ResetAllExceptLocale(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.snapshots != nil {
		entries, err := s.kv.List(ctx, "")
		if err != nil {
			return fmt.Errorf("read state before reset: %w", err)
		}
		snap := &store.Snapshot{
			Reason: "reset-all",
			Data:   store.SnapshotData{Version: 1, Entries: entries},
		}
		if err := s.snapshots.Save(ctx, snap); err != nil {
			return fmt.Errorf("snapshot before reset: %w", err)
		}
		if err := s.snapshots.Prune(ctx, snapshotsKept); err != nil {
			s.log.Warn("prune snapshots", "err", err)
		}
	}
	if err := s.kv.DeleteAllExcept(ctx, keyLocale); err != nil {
		return fmt.Errorf("reset progress: %w", err)
	}
	return nil
}

// RestoreLatest replaces current progress with the most recent snapshot.
// The current locale is kept. It reports false when no snapshot exists.
func (s *Store) RestoreLatest(ctx context.Context) (bool, error) {
	if s.snapshots == nil {
		return false, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, err := s.snapshots.Latest(ctx)
	if err != nil {
		return false, fmt.Errorf("load snapshot: %w", err)
	}
	if snap == nil {
		return false, nil
	}

	if err := s.kv.DeleteAllExcept(ctx, keyLocale); err != nil {
		return false, fmt.Errorf("clear progress: %w", err)
	}
	ops := make([]store.KVOp, 0, len(snap.Data.Entries))
	for k, v := range snap.Data.Entries {
		if k == keyLocale {
			continue
		}
		ops = append(ops, store.KVOp{Key: k, Value: v})
	}
	if err := s.kv.Apply(ctx, ops...); err != nil {
		return false, fmt.Errorf("restore snapshot: %w", err)
	}
	return true, nil
}

func (s *Store) readSet(ctx context.Context, key string) (RoundSet, error) {
	v, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	if !ok {
		return RoundSet{}, nil
	}
	set, dropped := decodeSet(v)
	if dropped > 0 {
		s.log.Warn("dropped malformed round entries", "key", key, "count", dropped)
	}
	return set, nil
}

func (s *Store) readErrors(ctx context.Context, key string) (map[int]int, error) {
	v, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	if !ok {
		return map[int]int{}, nil
	}
	m, dropped := decodeErrors(v)
	if dropped > 0 {
		s.log.Warn("dropped malformed error entries", "key", key, "count", dropped)
	}
	return m, nil
}
