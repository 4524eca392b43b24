package entity

import (
	"fmt"
	"strings"
)

// WordClass is the grammatical category of a word entry. The set of classes
// and their optional form slots is fixed; the zero value is WordClassNoun.
type WordClass int

const (
	WordClassNoun WordClass = iota
	WordClassVerb
	WordClassAdjective
	WordClassAdverb
	WordClassPreposition
	WordClassConjunction
	WordClassInterjection
	WordClassPersonalPronoun
	WordClassOtherPronoun
	WordClassNumeral
	WordClassPhrase
	WordClassOther
)

// NoKnownFormsHint is shown for classes that declare no optional forms.
const NoKnownFormsHint = "There are no known optional forms for this word class in general. " +
	"If you want to add other forms, you can do so in the notes field."

type wordClassInfo struct {
	tag   string
	label string
	forms []string
	hint  string
}

var wordClassTable = [...]wordClassInfo{
	WordClassNoun: {
		tag:   "noun",
		label: "Noun",
		forms: []string{
			"Singular definite form",
			"Plural indefinite form",
			"Plural definite form",
			"Singular indefinite genitive case",
			"Singular definite genitive case",
			"Plural indefinite genitive case",
			"Plural definite genitive case",
		},
		hint: "The dictionary form of a noun is the <u>singular indefinite form</u>, e.g. <i>en bil</i>, <i>ett träd</i>.",
	},
	WordClassVerb: {
		tag:   "verb",
		label: "Verb",
		forms: []string{
			"Present tense",
			"Past tense (preteritum)",
			"Perfect tense (supinum)",
			"Imperative mood",
			"Presens particip",
			"Passive infinitive",
			"Passive present tense",
			"Passive past tense (preteritum)",
			"Passive perfect tense (supinum)",
		},
		hint: "The dictionary form of a verb is the <u>infinitive of the active form</u>, e.g. <i>att springa</i>.",
	},
	WordClassAdjective: {
		tag:   "adjective",
		label: "Adjective",
		forms: []string{
			"Positive common gender (en)",
			"Positive neuter gender (ett)",
			"Positive plural/definitive form",
			"Positive definitive masculine",
			"Comparative",
			"Superlative (<i>är ~</i>)",
			"Superlative <i>den/det/de ~ + noun</i>",
			"Superlative <i>den ~ + masculine noun</i>",
		},
		hint: "The dictionary form of an adjective is the <u>positive common gender (<i>en-word</i>) form</u>, e.g. <i>hög</i>.",
	},
	WordClassAdverb:       {tag: "adverb", label: "Adverb", hint: NoKnownFormsHint},
	WordClassPreposition:  {tag: "preposition", label: "Preposition", hint: NoKnownFormsHint},
	WordClassConjunction:  {tag: "conjunction", label: "Conjunction", hint: NoKnownFormsHint},
	WordClassInterjection: {tag: "interjection", label: "Interjection", hint: NoKnownFormsHint},
	WordClassPersonalPronoun: {
		tag:   "personal_pronoun",
		label: "Definite pronoun",
		forms: []string{
			"Possessive common gender (en)",
			"Possessive neuter gender (ett)",
			"Reflexive",
		},
		hint: "The dictionary form of a personal pronoun is the subject form.",
	},
	WordClassOtherPronoun: {tag: "other_pronoun", label: "Other pronoun", hint: NoKnownFormsHint},
	WordClassNumeral: {
		tag:   "numeral",
		label: "Numeral",
		forms: []string{
			"Ordinal",
			"Ordinal genitive",
			"Ordinal masculine",
			"Ordinal masc. genitive",
		},
		hint: "The dictionary form of the numeral is the cardinal number.",
	},
	WordClassPhrase: {
		tag:   "phrase",
		label: "Expression/phrase",
		forms: []string{"Explanation"},
	},
	WordClassOther: {tag: "other", label: "Other", hint: NoKnownFormsHint},
}

// AllWordClasses returns every word class in declaration order.
func AllWordClasses() []WordClass {
	out := make([]WordClass, len(wordClassTable))
	for i := range wordClassTable {
		out[i] = WordClass(i)
	}
	return out
}

// Valid reports whether c is one of the declared classes.
func (c WordClass) Valid() bool {
	return c >= 0 && int(c) < len(wordClassTable)
}

func (c WordClass) info() wordClassInfo {
	if !c.Valid() {
		return wordClassInfo{tag: fmt.Sprintf("word_class(%d)", int(c)), label: "Unknown", hint: NoKnownFormsHint}
	}
	return wordClassTable[c]
}

// Tag is the stable identifier used in files, database rows and filters.
func (c WordClass) Tag() string { return c.info().tag }

// Label is the human readable name.
func (c WordClass) Label() string { return c.info().label }

// String implements fmt.Stringer.
func (c WordClass) String() string { return c.Label() }

// DictionaryFormHint describes what belongs in the dictionary form field.
// It may contain simple HTML markup.
func (c WordClass) DictionaryFormHint() string { return c.info().hint }

// FormNames returns the ordered optional form slots of the class. The result
// is a fresh slice and is never nil.
func (c WordClass) FormNames() []string {
	forms := c.info().forms
	out := make([]string, len(forms))
	copy(out, forms)
	return out
}

// HasFormName reports whether name is one of the class's form slots.
func (c WordClass) HasFormName(name string) bool {
	for _, f := range c.info().forms {
		if f == name {
			return true
		}
	}
	return false
}

// ParseWordClass resolves a tag or label, ignoring case and surrounding space.
func ParseWordClass(s string) (WordClass, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if key == "" {
		return WordClassNoun, fmt.Errorf("%w: empty value", ErrUnknownWordClass)
	}
	normalized := strings.NewReplacer(" ", "_", "-", "_").Replace(key)
	for i, info := range wordClassTable {
		if info.tag == normalized || strings.ToLower(info.label) == key {
			return WordClass(i), nil
		}
	}
	return WordClassNoun, fmt.Errorf("%w: %q", ErrUnknownWordClass, s)
}
