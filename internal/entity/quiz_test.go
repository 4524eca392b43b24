package entity

import (
	"errors"
	"reflect"
	"testing"
)

func TestRebuildForEntry(t *testing.T) {
	e := WordEntry{WordClass: WordClassNoun, DictionaryForm: "bil", Definition: "car"}
	e.OptionalForms.Set("Plural indefinite form", "bilar")

	row := RebuildForEntry(e)
	if len(row) != 2+len(WordClassNoun.FormNames()) {
		t.Fatalf("unexpected row width %d", len(row))
	}
	for i, c := range row {
		if !c.Selected {
			t.Fatalf("candidate %d not selected by default", i)
		}
	}
	if row[0].Value != "bil" || row[1].Value != "car" || row[3].Value != "bilar" {
		t.Fatalf("unexpected row %v", row)
	}
	if row[2].Value != "" {
		t.Fatalf("expected empty slot for missing form, got %q", row[2].Value)
	}

	phrase := RebuildForEntry(WordEntry{WordClass: WordClassAdverb, DictionaryForm: "snart", Definition: "soon"})
	if len(phrase) != 2 {
		t.Fatalf("class without forms should have 2 candidates, got %d", len(phrase))
	}
}

func TestSelectedValues_SkipsEmptyAndDeselected(t *testing.T) {
	e := WordEntry{WordClass: WordClassNoun, DictionaryForm: "bil", Definition: "car"}
	e.OptionalForms.Set("Plural indefinite form", "bilar")
	rows := []QuizRow{RebuildForEntry(e)}

	if got := SelectedValues(rows); !reflect.DeepEqual(got, []string{"bil", "car", "bilar"}) {
		t.Fatalf("unexpected values %v", got)
	}

	rows[0][1].Selected = false
	if got := SelectedValues(rows); !reflect.DeepEqual(got, []string{"bil", "bilar"}) {
		t.Fatalf("unexpected values after deselect %v", got)
	}
	if SelectedCount(rows) != 2 {
		t.Fatalf("expected 2 selected, got %d", SelectedCount(rows))
	}
}

func TestValidateQuizSelection(t *testing.T) {
	four := []string{"a", "b", "c", "d"}
	err := ValidateQuizSelection(four)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError for 4 values, got %v", err)
	}
	if verr.Message != "Please select at least 5 words to include for the quiz." {
		t.Fatalf("unexpected message %q", verr.Message)
	}
	if err := ValidateQuizSelection(append(four, "e")); err != nil {
		t.Fatalf("expected 5 values to pass, got %v", err)
	}
}

func TestQuizRowClone(t *testing.T) {
	row := QuizRow{{Selected: true, Value: "bil"}}
	c := row.Clone()
	c[0].Selected = false
	if !row[0].Selected {
		t.Fatalf("clone shares storage with the original")
	}
}
