package store

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

const kvTable = "kv"

// kvRepo implements KVRepo on the kv table.
type kvRepo struct {
	drv *entsql.Driver
}

func (r *kvRepo) Get(ctx context.Context, key string) (string, bool, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select("value").
		From(entsql.Table(kvTable)).
		Where(entsql.EQ("key", key)).
		Query()
	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return "", false, fmt.Errorf("get %q: %w", key, err)
	}
	defer rows.Close()

	if !rows.Next() {
		return "", false, rows.Err()
	}
	var v string
	if err := rows.Scan(&v); err != nil {
		return "", false, fmt.Errorf("scan %q: %w", key, err)
	}
	return v, true, nil
}

func (r *kvRepo) Put(ctx context.Context, key, value string) error {
	return r.Apply(ctx, KVOp{Key: key, Value: value})
}

func (r *kvRepo) Apply(ctx context.Context, ops ...KVOp) error {
	if len(ops) == 0 {
		return nil
	}
	tx, err := r.drv.Tx(ctx)
	if err != nil {
		return fmt.Errorf("begin kv batch: %w", err)
	}
	now := time.Now().UnixMilli()
	for _, op := range ops {
		query, args := opQuery(op, now)
		if err := tx.Exec(ctx, query, args, nil); err != nil {
			tx.Rollback()
			return fmt.Errorf("write %q: %w", op.Key, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit kv batch: %w", err)
	}
	return nil
}

func opQuery(op KVOp, now int64) (string, []any) {
	b := entsql.Dialect(dialect.SQLite)
	if op.Delete {
		return b.Delete(kvTable).Where(entsql.EQ("key", op.Key)).Query()
	}
	return b.Insert(kvTable).
		Columns("key", "value", "updated_at").
		Values(op.Key, op.Value, now).
		OnConflict(
			entsql.ConflictColumns("key"),
			entsql.ResolveWithNewValues(),
		).
		Query()
}

func (r *kvRepo) List(ctx context.Context, prefix string) (map[string]string, error) {
	sel := entsql.Dialect(dialect.SQLite).
		Select("key", "value").
		From(entsql.Table(kvTable)).
		OrderBy("key")
	if prefix != "" {
		sel = sel.Where(entsql.HasPrefix("key", prefix))
	}
	query, args := sel.Query()

	rows := &entsql.Rows{}
	if err := r.drv.Query(ctx, query, args, rows); err != nil {
		return nil, fmt.Errorf("list %q: %w", prefix, err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("scan kv row: %w", err)
		}
		out[k] = v
	}
	return out, rows.Err()
}

func (r *kvRepo) DeleteAllExcept(ctx context.Context, keep ...string) error {
	del := entsql.Dialect(dialect.SQLite).Delete(kvTable)
	if len(keep) > 0 {
		args := make([]any, len(keep))
		for i, k := range keep {
			args[i] = k
		}
		del = del.Where(entsql.NotIn("key", args...))
	}
	query, args := del.Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("clear kv: %w", err)
	}
	return nil
}
