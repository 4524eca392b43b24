package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/segmentio/ksuid"

	"github.com/eslsoft/glostrainer/internal/entity"
	"github.com/eslsoft/glostrainer/internal/repository"
)

// GTLExtension is appended to save paths that lack it.
const GTLExtension = ".gtl"

// EnsureGTLExtension appends GTLExtension unless path already ends with it.
func EnsureGTLExtension(path string) string {
	if strings.HasSuffix(path, GTLExtension) {
		return path
	}
	return path + GTLExtension
}

// GTLFileStore keeps each word list in its own .gtl file.
type GTLFileStore struct {
	now      func() time.Time
	revision func() string
	fileMode fs.FileMode
}

var _ repository.WordlistStore = (*GTLFileStore)(nil)

// GTLOption customises a GTLFileStore.
type GTLOption func(*GTLFileStore)

// WithClock overrides the save timestamp source.
func WithClock(now func() time.Time) GTLOption {
	return func(s *GTLFileStore) {
		if now != nil {
			s.now = now
		}
	}
}

// WithFileMode sets the permission bits of written files.
func WithFileMode(mode fs.FileMode) GTLOption {
	return func(s *GTLFileStore) {
		if mode != 0 {
			s.fileMode = mode
		}
	}
}

// NewGTLFileStore constructs a file store.
func NewGTLFileStore(opts ...GTLOption) *GTLFileStore {
	s := &GTLFileStore{
		now:      func() time.Time { return time.Now().UTC() },
		revision: newRevision,
		fileMode: 0o644,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save writes list to location (with .gtl appended when missing). The data
// goes to a temporary file in the same directory that is renamed over the
// target, so readers see either the previous file or the complete new one.
func (s *GTLFileStore) Save(ctx context.Context, location string, list *entity.Wordlist) (err error) {
	path := EnsureGTLExtension(location)
	if list == nil {
		return entity.NewIOError("save", path, errors.New("nil wordlist"))
	}
	if err := ctx.Err(); err != nil {
		return entity.NewIOError("save", path, err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return entity.NewIOError("save", path, err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	header := GTLHeader{SavedAt: s.now(), Revision: s.revision()}
	if err := EncodeGTL(tmp, list, header); err != nil {
		return entity.NewIOError("save", path, err)
	}
	if err := tmp.Chmod(s.fileMode); err != nil {
		return entity.NewIOError("save", path, err)
	}
	if err := tmp.Sync(); err != nil {
		return entity.NewIOError("save", path, err)
	}
	if err := tmp.Close(); err != nil {
		return entity.NewIOError("save", path, err)
	}
	if err := ctx.Err(); err != nil {
		return entity.NewIOError("save", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return entity.NewIOError("save", path, err)
	}
	committed = true
	return nil
}

// Load reads the list stored at location.
func (s *GTLFileStore) Load(ctx context.Context, location string) (*entity.Wordlist, error) {
	list, _, err := s.LoadWithHeader(ctx, location)
	return list, err
}

// LoadWithHeader reads the list and the container's meta record.
func (s *GTLFileStore) LoadWithHeader(ctx context.Context, location string) (*entity.Wordlist, *GTLHeader, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, entity.NewIOError("load", location, err)
	}
	f, err := os.Open(filepath.Clean(location))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, entity.NewIOError("load", location, fmt.Errorf("%w: %w", entity.ErrWordlistNotFound, err))
		}
		return nil, nil, entity.NewIOError("load", location, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, nil, entity.NewIOError("load", location, err)
	}
	if info.IsDir() {
		return nil, nil, entity.NewIOError("load", location, errors.New("is a directory"))
	}

	list, header, err := DecodeGTL(f)
	if err != nil {
		if errors.Is(err, errSourceRead) {
			return nil, nil, entity.NewIOError("load", location, err)
		}
		return nil, nil, entity.NewFormatError("load", location, err)
	}
	return list, header, nil
}

func newRevision() string {
	return ksuid.New().String()
}
