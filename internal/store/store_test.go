package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	// Each test gets its own named in-memory database shared by the pool.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	s, err := Open(dsn)
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.DB() == nil {
		t.Fatal("expected non-nil database")
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestSchemaVersion(t *testing.T) {
	s := openTestStore(t)
	got, err := s.SchemaVersion(context.Background())
	if err != nil {
		t.Fatalf("schema version: %v", err)
	}
	if want := LatestSchemaVersion(); got != want {
		t.Errorf("SchemaVersion() = %q, want %q", got, want)
	}
	if want := "v1.3.0"; LatestSchemaVersion() != want {
		t.Errorf("LatestSchemaVersion() = %q, want %q", LatestSchemaVersion(), want)
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	if err := s.KV().Put(ctx, "k", "v"); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := migrate(ctx, s.drv); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
	v, ok, err := s.KV().Get(ctx, "k")
	if err != nil || !ok || v != "v" {
		t.Errorf("Get(k) = %q, %v, %v; want v, true, nil", v, ok, err)
	}
}

func TestKVPutGet(t *testing.T) {
	s := openTestStore(t)
	kv := s.KV()
	ctx := context.Background()

	if _, ok, err := kv.Get(ctx, "missing"); err != nil || ok {
		t.Fatalf("Get(missing) ok=%v err=%v, want false, nil", ok, err)
	}

	if err := kv.Put(ctx, "progress_level_1", "0,1"); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := kv.Put(ctx, "progress_level_1", "0,1,2"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	v, ok, err := kv.Get(ctx, "progress_level_1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !ok || v != "0,1,2" {
		t.Errorf("Get = %q, %v, want %q, true", v, ok, "0,1,2")
	}
}

func TestKVApplyAndList(t *testing.T) {
	s := openTestStore(t)
	kv := s.KV()
	ctx := context.Background()

	err := kv.Apply(ctx,
		KVOp{Key: "progress_level_1", Value: "0"},
		KVOp{Key: "progress_level_2", Value: "3"},
		KVOp{Key: "archived_level_1", Value: "1"},
		KVOp{Key: "locale", Value: "ru"},
	)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if err := kv.Apply(ctx, KVOp{Key: "progress_level_2", Delete: true}); err != nil {
		t.Fatalf("apply delete: %v", err)
	}

	got, err := kv.List(ctx, "progress_level_")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got["progress_level_1"] != "0" {
		t.Errorf("List(progress_level_) = %v, want only progress_level_1", got)
	}

	all, err := kv.List(ctx, "")
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("List(\"\") has %d entries, want 3", len(all))
	}
}

func TestKVDeleteAllExcept(t *testing.T) {
	s := openTestStore(t)
	kv := s.KV()
	ctx := context.Background()

	for _, k := range []string{"locale", "progress_level_1", "font_style"} {
		if err := kv.Put(ctx, k, "x"); err != nil {
			t.Fatalf("put %s: %v", k, err)
		}
	}
	if err := kv.DeleteAllExcept(ctx, "locale"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	all, err := kv.List(ctx, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 1 || all["locale"] != "x" {
		t.Errorf("after DeleteAllExcept = %v, want only locale", all)
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var prev int64
	for i := range 5 {
		seq, err := s.seq.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		if seq <= prev {
			t.Errorf("sequence %d = %d, want > %d", i, seq, prev)
		}
		prev = seq
	}
}

func TestRoundEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []RoundEventData{
		{LevelID: 1, Round: 0, TaskType: "ASSEMBLE_TRANSLATION", Errors: 2, ElapsedSeconds: 30},
		{LevelID: 1, Round: 1, TaskType: "QUIZ", Errors: 0, ElapsedSeconds: 10},
		{LevelID: 2, Round: 0, TaskType: "AUDITION", Errors: 5, ElapsedSeconds: 60},
	}
	for _, e := range events {
		if err := repo.AppendRoundWon(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	all, err := repo.QueryRoundEvents(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d events, want 3", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].Sequence <= all[i-1].Sequence {
			t.Errorf("events not in sequence order: %d then %d", all[i-1].Sequence, all[i].Sequence)
		}
	}
	if all[0].ID == "" || all[0].Timestamp.IsZero() {
		t.Errorf("event missing id or timestamp: %+v", all[0])
	}

	lvl2, err := repo.QueryRoundEvents(ctx, QueryOpts{LevelID: 2})
	if err != nil {
		t.Fatalf("query level 2: %v", err)
	}
	if len(lvl2) != 1 || lvl2[0].TaskType != "AUDITION" {
		t.Errorf("level 2 events = %+v, want one AUDITION event", lvl2)
	}

	limited, err := repo.QueryRoundEvents(ctx, QueryOpts{Limit: 1, After: all[0].Sequence})
	if err != nil {
		t.Fatalf("query limited: %v", err)
	}
	if len(limited) != 1 || limited[0].Sequence != all[1].Sequence {
		t.Errorf("limited query = %+v, want the second event", limited)
	}

	stats, err := repo.LevelStats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	want := []LevelStats{
		{LevelID: 1, RoundsWon: 2, TotalErrors: 2, TotalSeconds: 40},
		{LevelID: 2, RoundsWon: 1, TotalErrors: 5, TotalSeconds: 60},
	}
	if len(stats) != len(want) {
		t.Fatalf("stats = %+v, want %+v", stats, want)
	}
	for i := range want {
		if stats[i] != want[i] {
			t.Errorf("stats[%d] = %+v, want %+v", i, stats[i], want[i])
		}
	}
}

func TestLLMRequestEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	err := repo.AppendLLMRequest(ctx, LLMRequestEventData{
		Provider: "anthropic", Model: "m", Purpose: "level-draft",
		InputTokens: 10, OutputTokens: 20, LatencyMs: 300, Success: true,
		RequestBody: "[user]\nwrite", ResponseBody: `{"cards":[]}`,
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	got, err := repo.QueryLLMRequests(ctx, QueryOpts{From: time.Now().Add(-time.Hour)})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d events, want 1", len(got))
	}
	if !got[0].Success || got[0].Purpose != "level-draft" || got[0].OutputTokens != 20 ||
		got[0].ResponseBody != `{"cards":[]}` {
		t.Errorf("event = %+v", got[0])
	}
}

func TestSnapshotSaveAndLatest(t *testing.T) {
	s := openTestStore(t)
	repo := s.SnapshotRepo()
	ctx := context.Background()

	snap, err := repo.Latest(ctx)
	if err != nil {
		t.Fatalf("latest (empty): %v", err)
	}
	if snap != nil {
		t.Fatal("expected nil snapshot when none exist")
	}

	err = repo.Save(ctx, &Snapshot{
		Reason: "reset",
		Data:   SnapshotData{Version: 1, Entries: map[string]string{"progress_level_1": "0,1"}},
	})
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	snap, err = repo.Latest(ctx)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if snap == nil {
		t.Fatal("expected snapshot")
	}
	if snap.Reason != "reset" || snap.Data.Entries["progress_level_1"] != "0,1" {
		t.Errorf("snapshot = %+v", snap)
	}
}

func TestSnapshotPrune(t *testing.T) {
	s := openTestStore(t)
	repo := s.SnapshotRepo()
	ctx := context.Background()

	for i := range 5 {
		err := repo.Save(ctx, &Snapshot{Data: SnapshotData{Version: i}})
		if err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}
	if err := repo.Prune(ctx, 2); err != nil {
		t.Fatalf("prune: %v", err)
	}

	var count int
	if err := s.DB().QueryRow("SELECT COUNT(*) FROM snapshots").Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Errorf("snapshot count = %d, want 2", count)
	}
	latest, err := repo.Latest(ctx)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest.Data.Version != 4 {
		t.Errorf("latest version = %d, want 4", latest.Data.Version)
	}

	// Fewer than keep is a no-op.
	if err := repo.Prune(ctx, 10); err != nil {
		t.Fatalf("prune no-op: %v", err)
	}
}
