package entity

import (
	"errors"
	"reflect"
	"testing"
)

func TestNewWordEntry_TrimsAndDropsEmptyForms(t *testing.T) {
	forms := NewOptionalForms(
		FormValue{Name: "Plural indefinite form", Value: " bilar "},
		FormValue{Name: "Plural definite form", Value: "   "},
		FormValue{Name: " ", Value: "x"},
	)
	e, err := NewWordEntry(WordClassNoun, "  bil ", " car\t", forms, " common ")
	if err != nil {
		t.Fatalf("NewWordEntry returned error: %v", err)
	}
	if e.DictionaryForm != "bil" || e.Definition != "car" || e.Notes != "common" {
		t.Fatalf("fields not trimmed: %+v", e)
	}
	if e.OptionalForms.Len() != 1 || e.OptionalForms.Value("Plural indefinite form") != "bilar" {
		t.Fatalf("unexpected forms %v", e.OptionalForms.Pairs())
	}
}

func TestNewWordEntry_Validation(t *testing.T) {
	tests := []struct {
		name       string
		dictionary string
		definition string
		field      string
		message    string
	}{
		{"blank dictionary form", "  ", "car", "dictionary_form", "the dictionary form can't be empty"},
		{"blank definition", "bil", "", "definition", "the definition can't be empty"},
		{"both blank reports dictionary form", "", "", "dictionary_form", "the dictionary form can't be empty"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewWordEntry(WordClassNoun, tc.dictionary, tc.definition, OptionalForms{}, "")
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tc.field || verr.Message != tc.message {
				t.Fatalf("unexpected error %+v", verr)
			}
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("expected error to wrap ErrValidation")
			}
		})
	}

	if _, err := NewWordEntry(WordClass(-1), "bil", "car", OptionalForms{}, ""); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for invalid class, got %v", err)
	}
}

func TestWordEntry_FormsSummary(t *testing.T) {
	var forms OptionalForms
	forms.Set("Present tense", "springer")
	forms.Set("Past tense (preteritum)", "")
	forms.Set("Perfect tense (supinum)", "sprungit")
	e := WordEntry{WordClass: WordClassVerb, DictionaryForm: "springa", Definition: "run", OptionalForms: forms}

	if got := e.FormsSummary(); got != "springer, sprungit" {
		t.Fatalf("unexpected summary %q", got)
	}
	if got := (WordEntry{}).FormsSummary(); got != "" {
		t.Fatalf("expected empty summary, got %q", got)
	}
}

func TestWordEntry_CloneDoesNotAlias(t *testing.T) {
	e := WordEntry{DictionaryForm: "bil", Definition: "car", OptionalForms: NewOptionalForms(FormValue{Name: "Plural indefinite form", Value: "bilar"})}
	c := e.Clone()
	c.OptionalForms.Set("Plural indefinite form", "bussar")
	c.OptionalForms.Set("Plural definite form", "bussarna")

	if e.OptionalForms.Value("Plural indefinite form") != "bilar" || e.OptionalForms.Len() != 1 {
		t.Fatalf("clone mutated the original: %v", e.OptionalForms.Pairs())
	}
	if !e.Equal(e.Clone()) {
		t.Fatalf("expected clone to be equal")
	}
}

func TestWordEntry_FormSlotsAndStaleNames(t *testing.T) {
	forms := NewOptionalForms(
		FormValue{Name: "Reflexive", Value: "sig"},
		FormValue{Name: "Ordinal", Value: "första"},
	)
	e := WordEntry{WordClass: WordClassPersonalPronoun, DictionaryForm: "han", Definition: "he", OptionalForms: forms}

	slots := e.FormSlots()
	want := []FormValue{
		{Name: "Possessive common gender (en)"},
		{Name: "Possessive neuter gender (ett)"},
		{Name: "Reflexive", Value: "sig"},
	}
	if !reflect.DeepEqual(slots, want) {
		t.Fatalf("unexpected slots %v", slots)
	}
	if got := e.StaleFormNames(); !reflect.DeepEqual(got, []string{"Ordinal"}) {
		t.Fatalf("unexpected stale names %v", got)
	}
}

func TestOptionalForms_OrderAndDelete(t *testing.T) {
	var f OptionalForms
	f.Set("a", "1")
	f.Set("b", "2")
	f.Set("c", "3")
	f.Set("a", "4")

	if got := f.Names(); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("unexpected order %v", got)
	}
	if !f.Delete("b") || f.Delete("b") {
		t.Fatalf("unexpected Delete results")
	}
	if got := f.Summary(); got != "4, 3" {
		t.Fatalf("unexpected summary %q", got)
	}
	if _, ok := f.Get("b"); ok {
		t.Fatalf("expected b to be gone")
	}
}
