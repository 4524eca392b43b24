package usecase

import (
	"context"
	"slices"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/eslsoft/glostrainer/internal/entity"
	"github.com/eslsoft/glostrainer/internal/repository"
	"github.com/eslsoft/glostrainer/pkg/filterexpr"
)

// IndexedEntry is a query result together with its position in the list.
type IndexedEntry struct {
	Index int
	Entry entity.WordEntry
}

// EntryFilter receives the bound filter and order_by of a list query.
type EntryFilter struct {
	WordClass   *string
	WordClasses []string
	FormPrefix  *string
	Text        *string
	TextPrefix  *string
	MinForms    *int
	MaxForms    *int

	PrimaryKey    string
	PrimaryDesc   bool
	SecondaryKey  string
	SecondaryDesc bool
}

const (
	orderDictionaryForm = "dictionary_form"
	orderDefinition     = "definition"
	orderWordClass      = "word_class"
	orderForms          = "forms"
	orderNotes          = "notes"
	orderPosition       = "position"
)

var entrySchema = filterexpr.Schema{
	Filter: map[string]filterexpr.FilterField{
		"word_class": {
			Kind: filterexpr.KindString,
			Ops:  map[filterexpr.Op]string{filterexpr.OpEQ: "WordClass", filterexpr.OpIN: "WordClasses"},
		},
		"dictionary_form": {
			Kind: filterexpr.KindString,
			Ops:  map[filterexpr.Op]string{filterexpr.OpSW: "FormPrefix"},
		},
		"text": {
			Kind: filterexpr.KindString,
			Ops:  map[filterexpr.Op]string{filterexpr.OpEQ: "Text", filterexpr.OpSW: "TextPrefix"},
		},
		"forms_count": {
			Kind: filterexpr.KindNumber,
			Ops:  map[filterexpr.Op]string{filterexpr.OpGTE: "MinForms", filterexpr.OpLTE: "MaxForms"},
		},
	},
	Order: filterexpr.OrderSchema{
		DefaultPrimary: orderPosition,
		FallbackKey:    orderDictionaryForm,
		Keys: []string{
			orderDictionaryForm, orderDefinition, orderWordClass,
			orderForms, orderNotes, orderPosition,
		},
	},
}

// List filters, orders and pages the current entries. It returns the page
// and the number of matching entries before paging.
func (u *wordlistUsecase) List(ctx context.Context, query *repository.ListEntriesQuery) ([]IndexedEntry, int, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	if query == nil {
		query = &repository.ListEntriesQuery{}
	}
	if query.PageNo < 0 {
		return nil, 0, &entity.ValidationError{Field: "page", Message: "the page number can't be negative"}
	}
	if query.PageSize < 0 {
		return nil, 0, &entity.ValidationError{Field: "page_size", Message: "the page size can't be negative"}
	}

	var f EntryFilter
	if err := filterexpr.Bind(query, &f, entrySchema); err != nil {
		return nil, 0, &entity.ValidationError{Field: "query", Message: err.Error()}
	}
	classes, err := f.classes()
	if err != nil {
		return nil, 0, err
	}

	all := u.Entries()
	matched := make([]IndexedEntry, 0, len(all))
	for i, e := range all {
		if f.matches(e, classes) && matchesSearch(e, query.Search) {
			matched = append(matched, IndexedEntry{Index: i, Entry: e})
		}
	}

	sortEntries(matched, f)

	total := len(matched)
	if query.PageSize > 0 {
		offset := query.Offset()
		if offset >= int64(total) {
			return []IndexedEntry{}, total, nil
		}
		end := min(offset+int64(query.PageSize), int64(total))
		matched = matched[offset:end]
	}
	return matched, total, nil
}

// classes resolves the word_class predicates. A nil result means no class
// constraint; an empty non-nil result means the predicates cannot all hold.
func (f EntryFilter) classes() ([]entity.WordClass, error) {
	var allowed []entity.WordClass
	if f.WordClasses != nil {
		parsed, err := parseClasses(f.WordClasses)
		if err != nil {
			return nil, err
		}
		allowed = parsed
	}
	if f.WordClass != nil {
		eq, err := parseClasses([]string{*f.WordClass})
		if err != nil {
			return nil, err
		}
		if allowed == nil {
			return eq, nil
		}
		return lo.Intersect(allowed, eq), nil
	}
	return allowed, nil
}

func parseClasses(raw []string) ([]entity.WordClass, error) {
	out := make([]entity.WordClass, 0, len(raw))
	for _, s := range raw {
		c, err := entity.ParseWordClass(s)
		if err != nil {
			return nil, &entity.ValidationError{Field: "word_class", Message: err.Error()}
		}
		out = append(out, c)
	}
	return lo.Uniq(out), nil
}

func (f EntryFilter) matches(e entity.WordEntry, classes []entity.WordClass) bool {
	if classes != nil && !lo.Contains(classes, e.WordClass) {
		return false
	}
	if f.FormPrefix != nil && !strings.HasPrefix(strings.ToLower(e.DictionaryForm), strings.ToLower(*f.FormPrefix)) {
		return false
	}
	n := e.OptionalForms.Len()
	if f.MinForms != nil && n < *f.MinForms {
		return false
	}
	if f.MaxForms != nil && n > *f.MaxForms {
		return false
	}
	if f.Text != nil && !lo.ContainsBy(entryTexts(e), func(s string) bool { return strings.EqualFold(s, *f.Text) }) {
		return false
	}
	if f.TextPrefix != nil {
		prefix := strings.ToLower(*f.TextPrefix)
		if !lo.ContainsBy(entryTexts(e), func(s string) bool { return strings.HasPrefix(strings.ToLower(s), prefix) }) {
			return false
		}
	}
	return true
}

func entryTexts(e entity.WordEntry) []string {
	texts := []string{e.DictionaryForm, e.Definition}
	for _, v := range e.OptionalForms.All() {
		texts = append(texts, v)
	}
	return texts
}

// matchesSearch applies the free text box: a case-sensitive substring of the
// dictionary form or definition, or a case-insensitive equality when exact.
// AllForms extends both to the optional forms.
func matchesSearch(e entity.WordEntry, s repository.Search) bool {
	if s.Text == "" {
		return true
	}
	if s.ExactMatch {
		if strings.EqualFold(e.DictionaryForm, s.Text) || strings.EqualFold(e.Definition, s.Text) {
			return true
		}
		if !s.AllForms {
			return false
		}
		for _, v := range e.OptionalForms.All() {
			if strings.EqualFold(v, s.Text) {
				return true
			}
		}
		return false
	}
	if strings.Contains(e.DictionaryForm, s.Text) || strings.Contains(e.Definition, s.Text) {
		return true
	}
	return s.AllForms && strings.Contains(e.FormsSummary(), s.Text)
}

// sortEntries orders results with Swedish collation, so å, ä and ö sort
// after z. Ties keep list order.
func sortEntries(items []IndexedEntry, f EntryFilter) {
	col := collate.New(language.Swedish, collate.IgnoreCase)
	slices.SortStableFunc(items, func(a, b IndexedEntry) int {
		if c := compareBy(col, f.PrimaryKey, a, b); c != 0 {
			if f.PrimaryDesc {
				return -c
			}
			return c
		}
		c := compareBy(col, f.SecondaryKey, a, b)
		if f.SecondaryDesc {
			return -c
		}
		return c
	})
}

func compareBy(col *collate.Collator, key string, a, b IndexedEntry) int {
	switch key {
	case orderDictionaryForm:
		return col.CompareString(a.Entry.DictionaryForm, b.Entry.DictionaryForm)
	case orderDefinition:
		return col.CompareString(a.Entry.Definition, b.Entry.Definition)
	case orderWordClass:
		return col.CompareString(a.Entry.WordClass.Label(), b.Entry.WordClass.Label())
	case orderForms:
		return col.CompareString(a.Entry.FormsSummary(), b.Entry.FormsSummary())
	case orderNotes:
		return col.CompareString(a.Entry.Notes, b.Entry.Notes)
	default:
		return a.Index - b.Index
	}
}
