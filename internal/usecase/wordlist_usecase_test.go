package usecase

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/eslsoft/glostrainer/internal/entity"
)

// in-memory store keyed by location
type mockStore struct {
	mu      sync.Mutex
	lists   map[string]*entity.Wordlist
	saveErr error
	loadErr error

	// when set, Save and Load block until release is closed
	started chan struct{}
	release chan struct{}
}

func newMockStore() *mockStore {
	return &mockStore{lists: make(map[string]*entity.Wordlist)}
}

func (m *mockStore) wait() {
	if m.release == nil {
		return
	}
	close(m.started)
	<-m.release
}

func (m *mockStore) Save(ctx context.Context, location string, list *entity.Wordlist) error {
	m.wait()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lists[location] = entity.NewWordlist(list.Entries()...)
	return nil
}

func (m *mockStore) Load(ctx context.Context, location string) (*entity.Wordlist, error) {
	m.wait()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	list, ok := m.lists[location]
	if !ok {
		return nil, entity.NewIOError("load", location, entity.ErrWordlistNotFound)
	}
	return entity.NewWordlist(list.Entries()...), nil
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func noun(form, definition string, forms ...entity.FormValue) entity.WordEntry {
	return entity.WordEntry{
		WordClass:      entity.WordClassNoun,
		DictionaryForm: form,
		Definition:     definition,
		OptionalForms:  entity.NewOptionalForms(forms...),
	}
}

func assertQuizInSync(t *testing.T, uc WordlistUsecase) {
	t.Helper()
	rows := uc.Rows()
	entries := uc.Entries()
	if len(rows) != len(entries) {
		t.Fatalf("quiz has %d rows for %d entries", len(rows), len(entries))
	}
	for i, e := range entries {
		if rows[i][0].Value != e.DictionaryForm || rows[i][1].Value != e.Definition {
			t.Fatalf("row %d does not mirror entry %v: %v", i, e, rows[i])
		}
		if len(rows[i]) != 2+len(e.WordClass.FormNames()) {
			t.Fatalf("row %d has %d candidates", i, len(rows[i]))
		}
	}
}

func TestWordlistUsecase_MutationsKeepQuizInSync(t *testing.T) {
	uc := NewWordlistUsecase(newMockStore(), quietLogger())

	if got := uc.NewEntry(); got.WordClass != entity.WordClassNoun || got.DictionaryForm != "" {
		t.Fatalf("unexpected new entry %v", got)
	}

	if idx := uc.Add(noun("bil", "car")); idx != 0 {
		t.Fatalf("expected index 0, got %d", idx)
	}
	uc.Add(noun("hus", "house"))
	uc.Add(entity.WordEntry{WordClass: entity.WordClassVerb, DictionaryForm: "springa", Definition: "run"})
	assertQuizInSync(t, uc)

	if err := uc.SetSelected(1, 0, false); err != nil {
		t.Fatalf("SetSelected: %v", err)
	}
	if err := uc.Replace(1, noun("båt", "boat")); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	assertQuizInSync(t, uc)
	if !uc.Rows()[1][0].Selected {
		t.Fatalf("replace must reset the row selection")
	}

	if err := uc.Remove(0); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	assertQuizInSync(t, uc)
	if got, _ := uc.Get(0); got.DictionaryForm != "båt" {
		t.Fatalf("expected båt at index 0, got %v", got)
	}

	uc.Clear()
	if uc.Count() != 0 || len(uc.Rows()) != 0 {
		t.Fatalf("expected empty list and quiz after Clear")
	}
}

func TestWordlistUsecase_IndexErrors(t *testing.T) {
	uc := NewWordlistUsecase(newMockStore(), quietLogger())
	uc.Add(noun("bil", "car"))

	if _, err := uc.Get(3); !errors.Is(err, entity.ErrIndexOutOfRange) {
		t.Fatalf("Get: expected ErrIndexOutOfRange, got %v", err)
	}
	if err := uc.Replace(-1, noun("x", "y")); !errors.Is(err, entity.ErrIndexOutOfRange) {
		t.Fatalf("Replace: expected ErrIndexOutOfRange, got %v", err)
	}
	if err := uc.Remove(1); !errors.Is(err, entity.ErrIndexOutOfRange) {
		t.Fatalf("Remove: expected ErrIndexOutOfRange, got %v", err)
	}
	assertQuizInSync(t, uc)
}

func TestWordlistUsecase_SaveLoad(t *testing.T) {
	ctx := context.Background()
	store := newMockStore()
	uc := NewWordlistUsecase(store, quietLogger())
	uc.Add(noun("bil", "car", entity.FormValue{Name: "Plural indefinite form", Value: "bilar"}))

	if err := uc.Save(ctx, "a.gtl"); err != nil {
		t.Fatalf("save: %v", err)
	}

	other := NewWordlistUsecase(store, quietLogger())
	report, err := other.Load(ctx, "a.gtl")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if report.Count != 1 || report.Stale.Len() != 0 {
		t.Fatalf("unexpected report %+v", report)
	}
	got, _ := other.Get(0)
	if got.OptionalForms.Value("Plural indefinite form") != "bilar" {
		t.Fatalf("unexpected entry %v", got)
	}
	assertQuizInSync(t, other)
}

func TestWordlistUsecase_FailedLoadKeepsList(t *testing.T) {
	ctx := context.Background()
	store := newMockStore()
	uc := NewWordlistUsecase(store, quietLogger())
	uc.Add(noun("bil", "car"))

	if _, err := uc.Load(ctx, "missing.gtl"); !errors.Is(err, entity.ErrWordlistNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	store.loadErr = entity.NewFormatError("load", "bad.gtl", errors.New("garbage"))
	if _, err := uc.Load(ctx, "bad.gtl"); !errors.Is(err, entity.ErrFormat) {
		t.Fatalf("expected format error, got %v", err)
	}
	if uc.Count() != 1 {
		t.Fatalf("failed loads must leave the list untouched, got %d entries", uc.Count())
	}
	assertQuizInSync(t, uc)
}

func TestWordlistUsecase_LoadReportsStaleForms(t *testing.T) {
	store := newMockStore()
	store.lists["old.gtl"] = entity.NewWordlist(
		noun("bil", "car"),
		noun("hus", "house", entity.FormValue{Name: "Present tense", Value: "husar"}),
	)
	uc := NewWordlistUsecase(store, quietLogger())

	report, err := uc.Load(context.Background(), "old.gtl")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if report.Stale.Len() != 1 {
		t.Fatalf("expected one stale entry, got %+v", report.Stale)
	}
	if got := report.Stale.String(); got != "1 entries keep optional forms their word class no longer declares (#1: Present tense)" {
		t.Fatalf("unexpected notice %q", got)
	}
}

func TestWordlistUsecase_RejectsConcurrentPersistence(t *testing.T) {
	ctx := context.Background()
	store := newMockStore()
	store.started = make(chan struct{})
	store.release = make(chan struct{})
	uc := NewWordlistUsecase(store, quietLogger())
	uc.Add(noun("bil", "car"))

	done := make(chan error, 1)
	go func() { done <- uc.Save(ctx, "a.gtl") }()
	<-store.started

	if err := uc.Save(ctx, "b.gtl"); !errors.Is(err, entity.ErrOperationInProgress) {
		t.Fatalf("expected ErrOperationInProgress for save, got %v", err)
	}
	if _, err := uc.Load(ctx, "a.gtl"); !errors.Is(err, entity.ErrOperationInProgress) {
		t.Fatalf("expected ErrOperationInProgress for load, got %v", err)
	}

	close(store.release)
	if err := <-done; err != nil {
		t.Fatalf("first save failed: %v", err)
	}

	store.release = nil
	if err := uc.Save(ctx, "b.gtl"); err != nil {
		t.Fatalf("save after completion failed: %v", err)
	}
}

func TestWordlistUsecase_AppendAndReplaceAll(t *testing.T) {
	uc := NewWordlistUsecase(newMockStore(), quietLogger())
	uc.Add(noun("bil", "car"))

	imported := entity.NewWordlist(noun("hus", "house"), noun("träd", "tree"))
	if n := uc.Append(imported); n != 3 {
		t.Fatalf("expected 3 entries after append, got %d", n)
	}
	assertQuizInSync(t, uc)

	uc.ReplaceAll(imported)
	if uc.Count() != 2 {
		t.Fatalf("expected 2 entries after replace, got %d", uc.Count())
	}
	assertQuizInSync(t, uc)

	snap := uc.Snapshot()
	snap.Clear()
	if uc.Count() != 2 {
		t.Fatalf("snapshot shares state with the usecase")
	}
}
