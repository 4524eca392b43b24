package entity

import "iter"

// Wordlist is an ordered, index addressed collection of word entries. It is
// not safe for concurrent use; the usecase layer serialises access.
type Wordlist struct {
	entries []WordEntry
}

// NewWordlist returns a list holding clones of entries.
func NewWordlist(entries ...WordEntry) *Wordlist {
	l := &Wordlist{entries: make([]WordEntry, 0, len(entries))}
	for _, e := range entries {
		l.Add(e)
	}
	return l
}

// Add appends a clone of entry.
func (l *Wordlist) Add(entry WordEntry) {
	l.entries = append(l.entries, entry.Clone())
}

// Get returns a clone of the entry at index.
func (l *Wordlist) Get(index int) (WordEntry, error) {
	if err := l.checkIndex(index); err != nil {
		return WordEntry{}, err
	}
	return l.entries[index].Clone(), nil
}

// Replace swaps the entry at index for a clone of entry.
func (l *Wordlist) Replace(index int, entry WordEntry) error {
	if err := l.checkIndex(index); err != nil {
		return err
	}
	l.entries[index] = entry.Clone()
	return nil
}

// RemoveAt deletes the entry at index, shifting later entries down by one.
func (l *Wordlist) RemoveAt(index int) error {
	if err := l.checkIndex(index); err != nil {
		return err
	}
	l.entries = append(l.entries[:index], l.entries[index+1:]...)
	return nil
}

// Count is the number of entries.
func (l *Wordlist) Count() int { return len(l.entries) }

// Clear drops every entry.
func (l *Wordlist) Clear() { l.entries = nil }

// All iterates index and entry in current order. Each call starts over; the
// sequence reads the live list, so mutating it while iterating is undefined.
func (l *Wordlist) All() iter.Seq2[int, WordEntry] {
	return func(yield func(int, WordEntry) bool) {
		for i := 0; i < len(l.entries); i++ {
			if !yield(i, l.entries[i].Clone()) {
				return
			}
		}
	}
}

// Entries returns clones of all entries.
func (l *Wordlist) Entries() []WordEntry {
	out := make([]WordEntry, len(l.entries))
	for i, e := range l.entries {
		out[i] = e.Clone()
	}
	return out
}

// StaleForms reports, per entry index, the stored form names its word class
// does not declare.
func (l *Wordlist) StaleForms() map[int][]string {
	stale := make(map[int][]string)
	for i, e := range l.entries {
		if names := e.StaleFormNames(); len(names) > 0 {
			stale[i] = names
		}
	}
	return stale
}

func (l *Wordlist) checkIndex(index int) error {
	if index < 0 || index >= len(l.entries) {
		return &IndexError{Index: index, Count: len(l.entries)}
	}
	return nil
}
