package store

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

const roundEventsTable = "round_events"

// eventRepo implements EventRepo backed by the SQL builder and the global
// sequence counter.
type eventRepo struct {
	drv *entsql.Driver
	seq *sequenceCounter
}

func (r *eventRepo) AppendRoundWon(ctx context.Context, data RoundEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(roundEventsTable).
		Columns("id", "sequence", "timestamp", "level_id", "round_index",
			"task_type", "error_count", "elapsed_seconds").
		Values(uuid.NewString(), seqNum, time.Now().UnixMilli(), data.LevelID, data.Round,
			data.TaskType, data.Errors, data.ElapsedSeconds).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save round event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryRoundEvents(ctx context.Context, opts QueryOpts) ([]RoundEvent, error) {
	t := entsql.Table(roundEventsTable)
	sel := entsql.Dialect(dialect.SQLite).
		Select("id", "sequence", "timestamp", "level_id", "round_index",
			"task_type", "error_count", "elapsed_seconds").
		From(t)
	applyQueryOpts(sel, opts)
	if opts.LevelID > 0 {
		sel.Where(entsql.EQ("level_id", opts.LevelID))
	}
	query, args := sel.Query()

	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("query round events: %w", err)
	}
	defer rows.Close()

	var out []RoundEvent
	for rows.Next() {
		var (
			e  RoundEvent
			ts int64
		)
		if err := rows.Scan(&e.ID, &e.Sequence, &ts, &e.LevelID, &e.Round,
			&e.TaskType, &e.Errors, &e.ElapsedSeconds); err != nil {
			return nil, fmt.Errorf("scan round event: %w", err)
		}
		e.Timestamp = time.UnixMilli(ts)
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *eventRepo) LevelStats(ctx context.Context) ([]LevelStats, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select(
			"level_id",
			entsql.Count("*"),
			entsql.Sum("error_count"),
			entsql.Sum("elapsed_seconds"),
		).
		From(entsql.Table(roundEventsTable)).
		GroupBy("level_id").
		OrderBy("level_id").
		Query()

	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("query level stats: %w", err)
	}
	defer rows.Close()

	var out []LevelStats
	for rows.Next() {
		var s LevelStats
		if err := rows.Scan(&s.LevelID, &s.RoundsWon, &s.TotalErrors, &s.TotalSeconds); err != nil {
			return nil, fmt.Errorf("scan level stats: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// applyQueryOpts adds the shared sequence/time filters and ordering.
func applyQueryOpts(sel *entsql.Selector, opts QueryOpts) {
	if opts.After > 0 {
		sel.Where(entsql.GT("sequence", opts.After))
	}
	if opts.Before > 0 {
		sel.Where(entsql.LT("sequence", opts.Before))
	}
	if !opts.From.IsZero() {
		sel.Where(entsql.GTE("timestamp", opts.From.UnixMilli()))
	}
	if !opts.To.IsZero() {
		sel.Where(entsql.LTE("timestamp", opts.To.UnixMilli()))
	}
	sel.OrderBy("sequence")
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}
}
