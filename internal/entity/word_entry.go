package entity

import (
	"fmt"
	"strings"
)

// WordEntry is one vocabulary item. Entries are values: the list stores
// clones and editors always build a new entry on save.
type WordEntry struct {
	WordClass      WordClass
	DictionaryForm string
	Definition     string
	OptionalForms  OptionalForms
	Notes          string
}

// EmptyWordEntry is the transient default shown by a "new entry" editor.
func EmptyWordEntry() WordEntry {
	return WordEntry{WordClass: WordClassNoun}
}

// NewWordEntry builds an entry on the save path. All strings are trimmed,
// empty optional forms are dropped, and a blank dictionary form or definition
// is rejected.
func NewWordEntry(class WordClass, dictionaryForm, definition string, forms OptionalForms, notes string) (WordEntry, error) {
	if !class.Valid() {
		return WordEntry{}, &ValidationError{Field: "word_class", Message: fmt.Sprintf("unknown word class %d", int(class))}
	}
	entry := WordEntry{
		WordClass:      class,
		DictionaryForm: strings.TrimSpace(dictionaryForm),
		Definition:     strings.TrimSpace(definition),
		OptionalForms:  forms.normalized(),
		Notes:          strings.TrimSpace(notes),
	}
	if err := entry.Validate(); err != nil {
		return WordEntry{}, err
	}
	return entry, nil
}

// Validate checks the fields required on save.
func (e WordEntry) Validate() error {
	if strings.TrimSpace(e.DictionaryForm) == "" {
		return &ValidationError{Field: "dictionary_form", Message: "the dictionary form can't be empty"}
	}
	if strings.TrimSpace(e.Definition) == "" {
		return &ValidationError{Field: "definition", Message: "the definition can't be empty"}
	}
	return nil
}

// Clone returns a value-equal entry that shares no state with e.
func (e WordEntry) Clone() WordEntry {
	out := e
	out.OptionalForms = e.OptionalForms.Clone()
	return out
}

// Equal compares every field, including optional form order.
func (e WordEntry) Equal(other WordEntry) bool {
	return e.WordClass == other.WordClass &&
		e.DictionaryForm == other.DictionaryForm &&
		e.Definition == other.Definition &&
		e.Notes == other.Notes &&
		e.OptionalForms.Equal(other.OptionalForms)
}

// FormsSummary is the comma separated list of non-empty optional form values.
func (e WordEntry) FormsSummary() string {
	return e.OptionalForms.Summary()
}

// FormSlots returns the value of every slot of the word class in slot order,
// using "" for missing forms.
func (e WordEntry) FormSlots() []FormValue {
	names := e.WordClass.FormNames()
	out := make([]FormValue, len(names))
	for i, name := range names {
		out[i] = FormValue{Name: name, Value: e.OptionalForms.Value(name)}
	}
	return out
}

// StaleFormNames lists stored form names that the current word class does not
// declare, e.g. after a class change or a form rename between versions.
func (e WordEntry) StaleFormNames() []string {
	var stale []string
	for name := range e.OptionalForms.All() {
		if !e.WordClass.HasFormName(name) {
			stale = append(stale, name)
		}
	}
	return stale
}

func (e WordEntry) String() string {
	return fmt.Sprintf("WordEntry{class=%s, dictionary_form=%q, definition=%q, forms=%q, notes=%q}",
		e.WordClass.Tag(), e.DictionaryForm, e.Definition, e.FormsSummary(), e.Notes)
}
