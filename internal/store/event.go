package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
)

const nextSequenceSQL = `UPDATE global_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`

// sequenceCounter hands out one ordering shared by round events, LLM
// request events and snapshots. The row lives in global_sequence, created
// by migration v1.3.0.
type sequenceCounter struct {
	mu sync.Mutex
	db *sql.DB
}

func newSequenceCounter(db *sql.DB) *sequenceCounter {
	return &sequenceCounter{db: db}
}

// Next returns the current value and advances the counter.
func (sc *sequenceCounter) Next(ctx context.Context) (int64, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	var n int64
	if err := sc.db.QueryRowContext(ctx, nextSequenceSQL).Scan(&n); err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return n, nil
}
