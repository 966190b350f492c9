package store

import (
	"context"
	"path/filepath"
	"testing"
	"testing/fstest"
)

var testMigrations = fstest.MapFS{
	"001_kv.sql": &fstest.MapFile{Data: []byte(`CREATE TABLE IF NOT EXISTS kv (
    key TEXT PRIMARY KEY, value TEXT NOT NULL, updated_at TEXT NOT NULL);`)},
}

func openTestSQLite(t *testing.T) Store {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "data", "test.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := db.Ping(); err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	if err := Migrate(db, testMigrations); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	// Second run must be a no-op.
	if err := Migrate(db, testMigrations); err != nil {
		t.Fatalf("re-migrate: %v", err)
	}
	return NewSQLiteStore(db)
}

func exerciseStore(t *testing.T, s Store) {
	ctx := context.Background()

	if _, ok, err := s.Get(ctx, "gameStats"); err != nil || ok {
		t.Fatalf("Get on empty store = ok %v, err %v", ok, err)
	}

	if err := s.Put(ctx, "gameStats", []byte(`{"totalWins":1}`)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Put(ctx, "gameStats", []byte(`{"totalWins":2}`)); err != nil {
		t.Fatalf("Put replace: %v", err)
	}
	if err := s.Put(ctx, "achievements", []byte(`{"firstWin":true}`)); err != nil {
		t.Fatalf("Put: %v", err)
	}

	v, ok, err := s.Get(ctx, "gameStats")
	if err != nil || !ok {
		t.Fatalf("Get = ok %v, err %v", ok, err)
	}
	if string(v) != `{"totalWins":2}` {
		t.Errorf("Get value = %s", v)
	}

	if err := s.Delete(ctx, "gameStats", "achievements", "missing"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	for _, k := range []string{"gameStats", "achievements"} {
		if _, ok, _ := s.Get(ctx, k); ok {
			t.Errorf("%s still present after Delete", k)
		}
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestMemoryStoreCopiesValues(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	buf := []byte("abc")
	_ = s.Put(ctx, "k", buf)
	buf[0] = 'x'
	v, _, _ := s.Get(ctx, "k")
	if string(v) != "abc" {
		t.Fatalf("stored value aliased caller buffer: %s", v)
	}
}

func TestSQLiteStore(t *testing.T) {
	exerciseStore(t, openTestSQLite(t))
}
