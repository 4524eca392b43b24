package repository

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/eslsoft/glostrainer/internal/entity"
)

func newSQLiteStore(t *testing.T) *SQLWordlistStore {
	t.Helper()
	requireSQLite(t)

	dsn := "file:" + filepath.Join(t.TempDir(), "library.db") + "?_fk=1"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	store, err := NewSQLWordlistStore(db, "sqlite3")
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return store
}

func TestSQLWordlistStore_SaveLoad(t *testing.T) {
	ctx := context.Background()
	store := newSQLiteStore(t)

	if err := store.Save(ctx, "week 1", sampleList()); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	got, err := store.Load(ctx, "week 1")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	assertSameEntries(t, sampleList(), got)

	short := entity.NewWordlist(entity.WordEntry{DictionaryForm: "hus", Definition: "house"})
	if err := store.Save(ctx, "week 1", short); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}
	got, err = store.Load(ctx, "week 1")
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	assertSameEntries(t, short, got)
}

func TestSQLWordlistStore_EmptyList(t *testing.T) {
	ctx := context.Background()
	store := newSQLiteStore(t)

	if err := store.Save(ctx, "empty", entity.NewWordlist()); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	got, err := store.Load(ctx, "empty")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if got.Count() != 0 {
		t.Fatalf("expected empty list, got %d entries", got.Count())
	}
}

func TestSQLWordlistStore_NamesAndDelete(t *testing.T) {
	ctx := context.Background()
	store := newSQLiteStore(t)

	for _, name := range []string{"verbs", "adjectives", "nouns"} {
		if err := store.Save(ctx, name, sampleList()); err != nil {
			t.Fatalf("save %s: %v", name, err)
		}
	}
	names, err := store.Names(ctx)
	if err != nil {
		t.Fatalf("names: %v", err)
	}
	if want := []string{"adjectives", "nouns", "verbs"}; !reflect.DeepEqual(names, want) {
		t.Fatalf("expected %v, got %v", want, names)
	}

	if err := store.Delete(ctx, "nouns"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Load(ctx, "nouns"); !errors.Is(err, entity.ErrWordlistNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	if err := store.Delete(ctx, "nouns"); !errors.Is(err, entity.ErrWordlistNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestSQLWordlistStore_Errors(t *testing.T) {
	ctx := context.Background()
	store := newSQLiteStore(t)

	if _, err := store.Load(ctx, "missing"); !errors.Is(err, entity.ErrWordlistNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := store.Save(ctx, "  ", sampleList()); !errors.Is(err, entity.ErrIO) {
		t.Fatalf("expected ErrIO for blank name, got %v", err)
	}
}

func TestDialectForDriver(t *testing.T) {
	for _, driver := range []string{"sqlite3", "postgres", "pgx"} {
		if _, err := DialectForDriver(driver); err != nil {
			t.Fatalf("DialectForDriver(%q): %v", driver, err)
		}
	}
	if _, err := DialectForDriver("mysql"); err == nil {
		t.Fatalf("expected mysql to be rejected")
	}
}

func requireSQLite(t *testing.T) {
	t.Helper()
	db, err := sql.Open("sqlite3", "file::memory:?cache=shared")
	if err != nil {
		t.Skipf("sqlite driver not available: %v", err)
		return
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		t.Skipf("skipping sqlite-dependent tests: %v", err)
	}
}
