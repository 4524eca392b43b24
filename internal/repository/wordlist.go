package repository

import (
	"context"

	"github.com/eslsoft/glostrainer/internal/entity"
)

// WordlistStore persists whole word lists. Location is store specific: a
// file path for the .gtl store, a list name for the SQL library.
//
// Load returns a fresh list or an error; it never returns a partially filled
// list. Failures wrap entity.ErrIO or entity.ErrFormat.
type WordlistStore interface {
	Save(ctx context.Context, location string, list *entity.Wordlist) error
	Load(ctx context.Context, location string) (*entity.Wordlist, error)
}

// WordlistLibrary is a store that can enumerate and drop what it holds.
type WordlistLibrary interface {
	WordlistStore
	Names(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, name string) error
}
