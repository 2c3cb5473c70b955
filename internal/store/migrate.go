package store

import (
	"context"
	"fmt"
	"slices"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"golang.org/x/mod/semver"
)

// migration is a set of DDL statements that bring the schema to Version.
type migration struct {
	Version string
	Stmts   []string
}

// migrations are applied in semver order. Never edit a released entry; add a
// new one instead.
var migrations = []migration{
	{
		Version: "v1.0.0",
		Stmts: []string{
			`CREATE TABLE IF NOT EXISTS kv (
				key TEXT PRIMARY KEY,
				value TEXT NOT NULL,
				updated_at INTEGER NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS round_events (
				id TEXT PRIMARY KEY,
				sequence INTEGER NOT NULL UNIQUE,
				timestamp INTEGER NOT NULL,
				level_id INTEGER NOT NULL,
				round_index INTEGER NOT NULL,
				task_type TEXT NOT NULL,
				error_count INTEGER NOT NULL,
				elapsed_seconds INTEGER NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS round_events_level ON round_events (level_id, round_index)`,
			`CREATE TABLE IF NOT EXISTS llm_request_events (
				sequence INTEGER PRIMARY KEY,
				timestamp INTEGER NOT NULL,
				provider TEXT NOT NULL,
				model TEXT NOT NULL,
				purpose TEXT NOT NULL,
				input_tokens INTEGER NOT NULL,
				output_tokens INTEGER NOT NULL,
				latency_ms INTEGER NOT NULL,
				success INTEGER NOT NULL,
				error_message TEXT NOT NULL DEFAULT ''
			)`,
		},
	},
	{
		Version: "v1.1.0",
		Stmts: []string{
			`CREATE TABLE IF NOT EXISTS snapshots (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				sequence INTEGER NOT NULL,
				timestamp INTEGER NOT NULL,
				reason TEXT NOT NULL DEFAULT '',
				data TEXT NOT NULL
			)`,
		},
	},
	{
		Version: "v1.2.0",
		Stmts: []string{
			`ALTER TABLE llm_request_events ADD COLUMN request_body TEXT NOT NULL DEFAULT ''`,
			`ALTER TABLE llm_request_events ADD COLUMN response_body TEXT NOT NULL DEFAULT ''`,
		},
	},
	{
		Version: "v1.3.0",
		Stmts: []string{
			`CREATE TABLE IF NOT EXISTS global_sequence (
				id INTEGER PRIMARY KEY CHECK (id = 1),
				next_val INTEGER NOT NULL DEFAULT 1
			)`,
			`INSERT OR IGNORE INTO global_sequence (id, next_val) VALUES (1, 1)`,
		},
	},
}

// LatestSchemaVersion is the version Open migrates to.
func LatestSchemaVersion() string {
	return slices.MaxFunc(migrations, func(a, b migration) int {
		return semver.Compare(a.Version, b.Version)
	}).Version
}

// migrate applies every migration newer than the recorded version inside a
// single transaction.
func migrate(ctx context.Context, drv *entsql.Driver) error {
	if err := drv.Exec(ctx, `CREATE TABLE IF NOT EXISTS schema_meta (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		version TEXT NOT NULL
	)`, []any{}, nil); err != nil {
		return fmt.Errorf("create schema_meta: %w", err)
	}

	current, err := currentVersion(ctx, drv)
	if err != nil {
		return err
	}

	pending := slices.Clone(migrations)
	slices.SortFunc(pending, func(a, b migration) int {
		return semver.Compare(a.Version, b.Version)
	})
	pending = slices.DeleteFunc(pending, func(m migration) bool {
		return current != "" && semver.Compare(m.Version, current) <= 0
	})
	if len(pending) == 0 {
		return nil
	}

	tx, err := drv.Tx(ctx)
	if err != nil {
		return fmt.Errorf("begin migration: %w", err)
	}
	for _, m := range pending {
		for _, stmt := range m.Stmts {
			if err := tx.Exec(ctx, stmt, []any{}, nil); err != nil {
				tx.Rollback()
				return fmt.Errorf("migration %s: %w", m.Version, err)
			}
		}
	}

	latest := pending[len(pending)-1].Version
	query, args := entsql.Dialect(dialect.SQLite).
		Insert("schema_meta").
		Columns("id", "version").
		Values(1, latest).
		OnConflict(entsql.ConflictColumns("id"), entsql.ResolveWithNewValues()).
		Query()
	if err := tx.Exec(ctx, query, args, nil); err != nil {
		tx.Rollback()
		return fmt.Errorf("record schema version: %w", err)
	}
	return tx.Commit()
}

// currentVersion returns the recorded schema version, or "" for a fresh
// database.
func currentVersion(ctx context.Context, drv dialect.Driver) (string, error) {
	query, args := entsql.Dialect(dialect.SQLite).
		Select("version").
		From(entsql.Table("schema_meta")).
		Where(entsql.EQ("id", 1)).
		Query()
	rows := &entsql.Rows{}
	if err := drv.Query(ctx, query, args, rows); err != nil {
		return "", fmt.Errorf("read schema version: %w", err)
	}
	defer rows.Close()

	var v string
	if rows.Next() {
		if err := rows.Scan(&v); err != nil {
			return "", fmt.Errorf("scan schema version: %w", err)
		}
	}
	if v != "" && !semver.IsValid(v) {
		return "", fmt.Errorf("invalid schema version %q", v)
	}
	return v, rows.Err()
}
