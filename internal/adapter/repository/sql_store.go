package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	"github.com/eslsoft/glostrainer/internal/entity"
	"github.com/eslsoft/glostrainer/internal/infrastructure/database/types"
	"github.com/eslsoft/glostrainer/internal/repository"
)

const (
	wordlistsTable = "wordlists"
	entriesTable   = "wordlist_entries"
)

// SQLWordlistStore keeps named word lists in a relational database. It works
// with sqlite3, postgres (lib/pq) and pgx drivers.
type SQLWordlistStore struct {
	db      *sql.DB
	dialect string
	now     func() time.Time
}

var _ repository.WordlistLibrary = (*SQLWordlistStore)(nil)

// DialectForDriver maps a database/sql driver name onto an ent dialect.
func DialectForDriver(driver string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "sqlite3", "sqlite":
		return dialect.SQLite, nil
	case "postgres", "pgx", "postgresql":
		return dialect.Postgres, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", driver)
	}
}

// NewSQLWordlistStore wraps an open database handle.
func NewSQLWordlistStore(db *sql.DB, driver string) (*SQLWordlistStore, error) {
	if db == nil {
		return nil, errors.New("sql store: db is required")
	}
	d, err := DialectForDriver(driver)
	if err != nil {
		return nil, err
	}
	return &SQLWordlistStore{db: db, dialect: d, now: func() time.Time { return time.Now().UTC() }}, nil
}

type execQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *SQLWordlistStore) builder() *entsql.DialectBuilder {
	return entsql.Dialect(s.dialect)
}

// Migrate creates the library tables when they do not exist yet.
func (s *SQLWordlistStore) Migrate(ctx context.Context) error {
	b := s.builder()
	stmts := []interface{ Query() (string, []any) }{
		b.CreateTable(wordlistsTable).IfNotExists().
			Columns(
				entsql.Column("name").Type("VARCHAR(255)").Attr("NOT NULL"),
				entsql.Column("revision").Type("VARCHAR(64)").Attr("NOT NULL"),
				entsql.Column("saved_at").Type("VARCHAR(64)").Attr("NOT NULL"),
			).
			PrimaryKey("name"),
		b.CreateTable(entriesTable).IfNotExists().
			Columns(
				entsql.Column("list_name").Type("VARCHAR(255)").Attr("NOT NULL"),
				entsql.Column("position").Type("INTEGER").Attr("NOT NULL"),
				entsql.Column("word_class").Type("VARCHAR(64)").Attr("NOT NULL"),
				entsql.Column("dictionary_form").Type("TEXT").Attr("NOT NULL"),
				entsql.Column("definition").Type("TEXT").Attr("NOT NULL"),
				entsql.Column("optional_forms").Type("TEXT").Attr("NOT NULL"),
				entsql.Column("notes").Type("TEXT").Attr("NOT NULL"),
			).
			PrimaryKey("list_name", "position"),
	}
	for _, stmt := range stmts {
		query, args := stmt.Query()
		if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
			return entity.NewIOError("migrate", s.dialect, err)
		}
	}
	return nil
}

// Save replaces the list stored under name in one transaction.
func (s *SQLWordlistStore) Save(ctx context.Context, name string, list *entity.Wordlist) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return entity.NewIOError("save", name, errors.New("list name is required"))
	}
	if list == nil {
		return entity.NewIOError("save", name, errors.New("nil wordlist"))
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return entity.NewIOError("save", name, fmt.Errorf("begin transaction: %w", err))
	}
	commit := false
	defer func() {
		if !commit {
			_ = tx.Rollback()
		}
	}()

	if err := s.deleteRows(ctx, tx, name); err != nil {
		return entity.NewIOError("save", name, err)
	}

	b := s.builder()
	query, args := b.Insert(wordlistsTable).
		Columns("name", "revision", "saved_at").
		Values(name, newRevision(), s.now().Format(time.RFC3339Nano)).
		Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return entity.NewIOError("save", name, fmt.Errorf("insert wordlist: %w", err))
	}

	for i, e := range list.All() {
		query, args := b.Insert(entriesTable).
			Columns("list_name", "position", "word_class", "dictionary_form", "definition", "optional_forms", "notes").
			Values(name, i, e.WordClass.Tag(), e.DictionaryForm, e.Definition, types.FormValues(e.OptionalForms.Pairs()), e.Notes).
			Query()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return entity.NewIOError("save", name, fmt.Errorf("insert entry %d: %w", i, err))
		}
	}

	if err := tx.Commit(); err != nil {
		return entity.NewIOError("save", name, fmt.Errorf("commit: %w", err))
	}
	commit = true
	return nil
}

// Load reads the list stored under name.
func (s *SQLWordlistStore) Load(ctx context.Context, name string) (*entity.Wordlist, error) {
	name = strings.TrimSpace(name)
	exists, err := s.exists(ctx, s.db, name)
	if err != nil {
		return nil, entity.NewIOError("load", name, err)
	}
	if !exists {
		return nil, entity.NewIOError("load", name, entity.ErrWordlistNotFound)
	}

	b := s.builder()
	query, args := b.Select("word_class", "dictionary_form", "definition", "optional_forms", "notes").
		From(b.Table(entriesTable)).
		Where(entsql.EQ("list_name", name)).
		OrderBy("position").
		Query()
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, entity.NewIOError("load", name, fmt.Errorf("query entries: %w", err))
	}
	defer rows.Close()

	list := entity.NewWordlist()
	for rows.Next() {
		var (
			rec   EntryRecord
			forms types.FormValues
		)
		if err := rows.Scan(&rec.WordClass, &rec.DictionaryForm, &rec.Definition, &forms, &rec.Notes); err != nil {
			return nil, entity.NewFormatError("load", name, fmt.Errorf("scan entry %d: %w", list.Count(), err))
		}
		rec.OptionalForms = forms
		entry, err := rec.Entry()
		if err != nil {
			return nil, entity.NewFormatError("load", name, fmt.Errorf("entry %d: %w", list.Count(), err))
		}
		list.Add(entry)
	}
	if err := rows.Err(); err != nil {
		return nil, entity.NewIOError("load", name, fmt.Errorf("iterate entries: %w", err))
	}
	return list, nil
}

// Names lists stored list names alphabetically.
func (s *SQLWordlistStore) Names(ctx context.Context) ([]string, error) {
	b := s.builder()
	query, args := b.Select("name").From(b.Table(wordlistsTable)).OrderBy("name").Query()
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, entity.NewIOError("list", wordlistsTable, err)
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, entity.NewIOError("list", wordlistsTable, err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, entity.NewIOError("list", wordlistsTable, err)
	}
	return names, nil
}

// Delete removes the list stored under name.
func (s *SQLWordlistStore) Delete(ctx context.Context, name string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return entity.NewIOError("delete", name, fmt.Errorf("begin transaction: %w", err))
	}
	commit := false
	defer func() {
		if !commit {
			_ = tx.Rollback()
		}
	}()

	exists, err := s.exists(ctx, tx, name)
	if err != nil {
		return entity.NewIOError("delete", name, err)
	}
	if !exists {
		return entity.NewIOError("delete", name, entity.ErrWordlistNotFound)
	}
	if err := s.deleteRows(ctx, tx, name); err != nil {
		return entity.NewIOError("delete", name, err)
	}
	if err := tx.Commit(); err != nil {
		return entity.NewIOError("delete", name, fmt.Errorf("commit: %w", err))
	}
	commit = true
	return nil
}

func (s *SQLWordlistStore) exists(ctx context.Context, q execQuerier, name string) (bool, error) {
	b := s.builder()
	query, args := b.Select("name").
		From(b.Table(wordlistsTable)).
		Where(entsql.EQ("name", name)).
		Query()
	var found string
	err := q.QueryRowContext(ctx, query, args...).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lookup wordlist: %w", err)
	}
	return true, nil
}

func (s *SQLWordlistStore) deleteRows(ctx context.Context, q execQuerier, name string) error {
	b := s.builder()
	query, args := b.Delete(entriesTable).Where(entsql.EQ("list_name", name)).Query()
	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete entries: %w", err)
	}
	query, args = b.Delete(wordlistsTable).Where(entsql.EQ("name", name)).Query()
	if _, err := q.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete wordlist: %w", err)
	}
	return nil
}
