package cmd

import (
	"bytes"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/spf13/pflag"

	"github.com/eslsoft/glostrainer/internal/entity"
)

func parseEntryFlags(t *testing.T, args ...string) (*entryFlags, *pflag.FlagSet) {
	t.Helper()
	fs := pflag.NewFlagSet("entry", pflag.ContinueOnError)
	var f entryFlags
	f.register(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("parse %v: %v", args, err)
	}
	return &f, fs
}

func bilEntry(t *testing.T) entity.WordEntry {
	t.Helper()
	forms := entity.NewOptionalForms(
		entity.FormValue{Name: "Singular definite form", Value: "bilen"},
		entity.FormValue{Name: "Plural indefinite form", Value: "bilar"},
	)
	e, err := entity.NewWordEntry(entity.WordClassNoun, "bil", "car", forms, "")
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func Test_entryFlags_apply(t *testing.T) {
	base := bilEntry(t)

	cases := []struct {
		name      string
		args      []string
		class     entity.WordClass
		def       string
		forms     []string
		wantField string
	}{
		{name: "no flags keeps base", class: entity.WordClassNoun, def: "car", forms: []string{"bilen", "bilar"}},
		{name: "definition only", args: []string{"-t", "automobile"}, class: entity.WordClassNoun, def: "automobile", forms: []string{"bilen", "bilar"}},
		{name: "same class keeps forms", args: []string{"--class", "noun"}, class: entity.WordClassNoun, def: "car", forms: []string{"bilen", "bilar"}},
		{name: "class change resets forms", args: []string{"--class", "verb"}, class: entity.WordClassVerb, def: "car"},
		{name: "class change with new form", args: []string{"-c", "verb", "--form", "Present tense=bilar"}, class: entity.WordClassVerb, def: "car", forms: []string{"bilar"}},
		{name: "empty value clears form", args: []string{"--form", "Plural indefinite form="}, class: entity.WordClassNoun, def: "car", forms: []string{"bilen"}},
		{name: "undeclared form", args: []string{"--form", "Present tense=kör"}, wantField: "form"},
		{name: "old class form after change", args: []string{"-c", "verb", "--form", "Plural definite form=bilarna"}, wantField: "form"},
		{name: "missing equals", args: []string{"--form", "Plural definite form"}, wantField: "form"},
		{name: "unknown class", args: []string{"--class", "gerund"}, wantField: "word_class"},
		{name: "blank definition", args: []string{"-t", "  "}, wantField: "definition"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			f, fs := parseEntryFlags(t, c.args...)
			got, err := f.apply(fs, base)
			if c.wantField != "" {
				var verr *entity.ValidationError
				if !errors.As(err, &verr) || verr.Field != c.wantField {
					t.Fatalf("want validation error on %q, got %v", c.wantField, err)
				}
				if !errors.Is(err, entity.ErrValidation) {
					t.Fatalf("want ErrValidation, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			if got.WordClass != c.class || got.DictionaryForm != "bil" || got.Definition != c.def {
				t.Fatalf("unexpected entry %+v", got)
			}
			var values []string
			for _, p := range got.OptionalForms.Pairs() {
				values = append(values, p.Value)
			}
			if !slices.Equal(values, c.forms) {
				t.Fatalf("forms got %v want %v", values, c.forms)
			}
		})
	}

	if base.OptionalForms.Len() != 2 {
		t.Fatalf("base entry was modified: %+v", base)
	}
}

func Test_removalOrder(t *testing.T) {
	cases := []struct{ in, want []int }{
		{[]int{1, 3, 1, 0}, []int{3, 1, 0}},
		{[]int{2}, []int{2}},
		{[]int{0, 0, 0}, []int{0}},
		{[]int{5, 9, 7}, []int{9, 7, 5}},
	}
	for _, c := range cases {
		in := slices.Clone(c.in)
		got := removalOrder(c.in)
		if !slices.Equal(got, c.want) {
			t.Fatalf("%v -> got %v want %v", c.in, got, c.want)
		}
		if !slices.Equal(c.in, in) {
			t.Fatalf("input modified: %v", c.in)
		}
	}
}

func Test_parseCell(t *testing.T) {
	cases := []struct {
		in       string
		row, col int
		ok       bool
	}{
		{"0:1", 0, 1, true},
		{" 12 : 3 ", 12, 3, true},
		{"-1:0", -1, 0, true},
		{"3", 0, 0, false},
		{"a:1", 0, 0, false},
		{"1:", 0, 0, false},
		{"", 0, 0, false},
	}
	for _, c := range cases {
		row, col, err := parseCell(c.in)
		if !c.ok {
			if !errors.Is(err, entity.ErrValidation) {
				t.Fatalf("%q -> want ErrValidation, got %v", c.in, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%q -> %v", c.in, err)
		}
		if row != c.row || col != c.col {
			t.Fatalf("%q -> got (%d,%d) want (%d,%d)", c.in, row, col, c.row, c.col)
		}
	}
}

func Test_changedClasses(t *testing.T) {
	if got := changedClasses(nil); got != nil {
		t.Fatalf("no snapshot should not be compared, got %v", got)
	}

	current := make(map[string][]string)
	for _, c := range entity.AllWordClasses() {
		current[c.Tag()] = c.FormNames()
	}
	if got := changedClasses(current); len(got) != 0 {
		t.Fatalf("current registry reported as changed: %v", got)
	}

	older := make(map[string][]string, len(current))
	for tag, names := range current {
		older[tag] = names
	}
	delete(older, "adverb")
	older["noun"] = []string{"Singular definite form"}
	older["gerund"] = nil
	want := []string{"adverb", "gerund", "noun"}
	if got := changedClasses(older); !slices.Equal(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func Test_rootCmd_reportsErrorOnce(t *testing.T) {
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs([]string{"remove", "x"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	if err == nil {
		t.Fatal("expected an error for a bad index")
	}
	if errOut.Len() != 0 {
		t.Fatalf("cobra printed the error itself: %q", errOut.String())
	}
	printError(rootCmd, err)
	if got := strings.Count(errOut.String(), `invalid index "x"`); got != 1 {
		t.Fatalf("expected the error once, got %q", errOut.String())
	}
}
