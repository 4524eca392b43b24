package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/eslsoft/glostrainer/internal/entity"
	"github.com/eslsoft/glostrainer/internal/repository"
)

// WordlistUsecase owns the word list being edited together with its quiz
// table. All methods are safe for concurrent use.
type WordlistUsecase interface {
	NewEntry() entity.WordEntry
	Add(entry entity.WordEntry) int
	Get(index int) (entity.WordEntry, error)
	Replace(index int, entry entity.WordEntry) error
	Remove(index int) error
	Clear()
	Count() int
	Entries() []entity.WordEntry
	Snapshot() *entity.Wordlist

	Save(ctx context.Context, location string) error
	Load(ctx context.Context, location string) (LoadReport, error)
	SaveTo(ctx context.Context, store repository.WordlistStore, location string) error
	LoadFrom(ctx context.Context, store repository.WordlistStore, location string) (LoadReport, error)
	Append(list *entity.Wordlist) int
	ReplaceAll(list *entity.Wordlist)

	List(ctx context.Context, query *repository.ListEntriesQuery) ([]IndexedEntry, int, error)

	QuizUsecase
}

// LoadReport describes a successful load.
type LoadReport struct {
	Location string
	Count    int
	Stale    *StaleNotice
}

// StaleNotice lists stored optional form names that the entry's word class
// does not declare. They are kept and saved back unchanged.
type StaleNotice struct {
	Entries map[int][]string
}

// Len is the number of affected entries.
func (n *StaleNotice) Len() int {
	if n == nil {
		return 0
	}
	return len(n.Entries)
}

func (n *StaleNotice) String() string {
	if n.Len() == 0 {
		return ""
	}
	indexes := lo.Keys(n.Entries)
	sort.Ints(indexes)
	parts := lo.Map(indexes, func(i int, _ int) string {
		return fmt.Sprintf("#%d: %s", i, strings.Join(n.Entries[i], ", "))
	})
	return fmt.Sprintf("%d entries keep optional forms their word class no longer declares (%s)",
		len(indexes), strings.Join(parts, "; "))
}

type wordlistUsecase struct {
	store  repository.WordlistStore
	logger *logrus.Logger

	mu   sync.Mutex
	list *entity.Wordlist
	quiz []entity.QuizRow

	busy atomic.Bool
}

// NewWordlistUsecase creates a controller over an empty list. The store is
// used by Save and Load.
func NewWordlistUsecase(store repository.WordlistStore, logger *logrus.Logger) WordlistUsecase {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &wordlistUsecase{
		store:  store,
		logger: logger,
		list:   entity.NewWordlist(),
	}
}

func (u *wordlistUsecase) NewEntry() entity.WordEntry {
	return entity.EmptyWordEntry()
}

// Add appends entry and returns its index. Entries are stored as given; use
// entity.NewWordEntry to validate user input first.
func (u *wordlistUsecase) Add(entry entity.WordEntry) int {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.list.Add(entry)
	u.quiz = append(u.quiz, entity.RebuildForEntry(entry))
	return u.list.Count() - 1
}

func (u *wordlistUsecase) Get(index int) (entity.WordEntry, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.list.Get(index)
}

// Replace swaps the entry at index and resets its quiz row.
func (u *wordlistUsecase) Replace(index int, entry entity.WordEntry) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if err := u.list.Replace(index, entry); err != nil {
		return err
	}
	u.quiz[index] = entity.RebuildForEntry(entry)
	return nil
}

func (u *wordlistUsecase) Remove(index int) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if err := u.list.RemoveAt(index); err != nil {
		return err
	}
	u.quiz = append(u.quiz[:index], u.quiz[index+1:]...)
	return nil
}

func (u *wordlistUsecase) Clear() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.list.Clear()
	u.quiz = nil
}

func (u *wordlistUsecase) Count() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.list.Count()
}

func (u *wordlistUsecase) Entries() []entity.WordEntry {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.list.Entries()
}

// Snapshot returns an independent copy of the current list.
func (u *wordlistUsecase) Snapshot() *entity.Wordlist {
	u.mu.Lock()
	defer u.mu.Unlock()
	return entity.NewWordlist(u.list.Entries()...)
}

// Append adds every entry of list and returns the new count.
func (u *wordlistUsecase) Append(list *entity.Wordlist) int {
	u.mu.Lock()
	defer u.mu.Unlock()
	if list != nil {
		for _, e := range list.All() {
			u.list.Add(e)
			u.quiz = append(u.quiz, entity.RebuildForEntry(e))
		}
	}
	return u.list.Count()
}

// ReplaceAll discards the current list in favour of a copy of list.
func (u *wordlistUsecase) ReplaceAll(list *entity.Wordlist) {
	if list == nil {
		list = entity.NewWordlist()
	}
	fresh := entity.NewWordlist(list.Entries()...)
	u.mu.Lock()
	defer u.mu.Unlock()
	u.swap(fresh)
}

func (u *wordlistUsecase) swap(list *entity.Wordlist) {
	u.list = list
	u.quiz = make([]entity.QuizRow, 0, list.Count())
	for _, e := range list.All() {
		u.quiz = append(u.quiz, entity.RebuildForEntry(e))
	}
}

func (u *wordlistUsecase) Save(ctx context.Context, location string) error {
	return u.SaveTo(ctx, u.store, location)
}

func (u *wordlistUsecase) Load(ctx context.Context, location string) (LoadReport, error) {
	return u.LoadFrom(ctx, u.store, location)
}

// SaveTo writes a snapshot of the list to store. Only one save or load runs
// at a time; a concurrent request fails with entity.ErrOperationInProgress.
func (u *wordlistUsecase) SaveTo(ctx context.Context, store repository.WordlistStore, location string) error {
	if store == nil {
		return errors.New("wordlist store required")
	}
	if !u.busy.CompareAndSwap(false, true) {
		return entity.ErrOperationInProgress
	}
	defer u.busy.Store(false)

	snapshot := u.Snapshot()
	log := u.logger.WithFields(logrus.Fields{"location": location, "entries": snapshot.Count()})
	if err := store.Save(ctx, location, snapshot); err != nil {
		log.WithError(err).Error("save wordlist failed")
		return err
	}
	log.Info("wordlist saved")
	return nil
}

// LoadFrom reads a list from store and replaces the current one. On failure
// the current list and quiz table are left untouched.
func (u *wordlistUsecase) LoadFrom(ctx context.Context, store repository.WordlistStore, location string) (LoadReport, error) {
	if store == nil {
		return LoadReport{}, errors.New("wordlist store required")
	}
	if !u.busy.CompareAndSwap(false, true) {
		return LoadReport{}, entity.ErrOperationInProgress
	}
	defer u.busy.Store(false)

	log := u.logger.WithField("location", location)
	list, err := store.Load(ctx, location)
	if err != nil {
		log.WithError(err).Error("load wordlist failed")
		return LoadReport{}, err
	}

	report := LoadReport{Location: location, Count: list.Count()}
	if stale := list.StaleForms(); len(stale) > 0 {
		report.Stale = &StaleNotice{Entries: stale}
		log.WithField("stale_entries", len(stale)).Warn(report.Stale.String())
	}

	u.mu.Lock()
	u.swap(list)
	u.mu.Unlock()

	log.WithField("entries", report.Count).Info("wordlist loaded")
	return report, nil
}
