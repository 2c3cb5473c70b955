package store

import (
	"context"
	"time"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int       // max results (0 = unlimited)
	After   int64     // sequence > After
	Before  int64     // sequence < Before
	From    time.Time // timestamp >= From
	To      time.Time // timestamp <= To
	LevelID int       // 0 = all levels (round events only)
}

// KVOp is one write inside an atomic KV batch. Delete removes Key and
// ignores Value.
type KVOp struct {
	Key    string
	Value  string
	Delete bool
}

// KVRepo is a string key-value table. Every write is atomic; Apply commits a
// batch of writes in a single transaction.
type KVRepo interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Put(ctx context.Context, key, value string) error
	Apply(ctx context.Context, ops ...KVOp) error
	// List returns every entry whose key starts with prefix.
	List(ctx context.Context, prefix string) (map[string]string, error)
	// DeleteAllExcept removes every key not listed in keep.
	DeleteAllExcept(ctx context.Context, keep ...string) error
}

// RoundEventData captures one won round.
type RoundEventData struct {
	LevelID        int
	Round          int
	TaskType       string
	Errors         int
	ElapsedSeconds int
}

// RoundEvent is a persisted RoundEventData with its ordering metadata.
type RoundEvent struct {
	ID        string
	Sequence  int64
	Timestamp time.Time
	RoundEventData
}

// LevelStats aggregates round events of one level.
type LevelStats struct {
	LevelID      int
	RoundsWon    int
	TotalErrors  int
	TotalSeconds int
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEvent is a persisted LLM request record.
type LLMRequestEvent struct {
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// EventRepo provides append and query access to domain events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error
	QueryLLMRequests(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)

	// AppendRoundWon records a completed round.
	AppendRoundWon(ctx context.Context, data RoundEventData) error
	QueryRoundEvents(ctx context.Context, opts QueryOpts) ([]RoundEvent, error)
	LevelStats(ctx context.Context) ([]LevelStats, error)
}

// SnapshotData is a full copy of the key-value state.
type SnapshotData struct {
	Version int               `json:"version"`
	Entries map[string]string `json:"entries"`
}

// Snapshot represents a point-in-time capture of learner progress.
type Snapshot struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	Reason    string
	Data      SnapshotData
}

// SnapshotRepo manages progress snapshots.
type SnapshotRepo interface {
	// Save stores a new snapshot.
	Save(ctx context.Context, snap *Snapshot) error

	// Latest returns the most recent snapshot, or nil if none exist.
	Latest(ctx context.Context) (*Snapshot, error)

	// Prune deletes all but the N most recent snapshots.
	Prune(ctx context.Context, keep int) error
}
