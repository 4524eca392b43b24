package entity

import (
	"iter"
	"strings"
)

// FormValue is one named optional form.
type FormValue struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// OptionalForms is an insertion-ordered name to value mapping with unique
// names. The zero value is an empty mapping ready for use. A missing name is
// equivalent to an empty value.
type OptionalForms struct {
	pairs []FormValue
}

// NewOptionalForms builds a mapping from pairs. Later duplicates overwrite
// earlier values but keep the first position.
func NewOptionalForms(pairs ...FormValue) OptionalForms {
	var f OptionalForms
	for _, p := range pairs {
		f.Set(p.Name, p.Value)
	}
	return f
}

// Set assigns value to name, appending the name when new.
func (f *OptionalForms) Set(name, value string) {
	for i := range f.pairs {
		if f.pairs[i].Name == name {
			f.pairs[i].Value = value
			return
		}
	}
	f.pairs = append(f.pairs, FormValue{Name: name, Value: value})
}

// Get returns the value for name and whether it is present.
func (f OptionalForms) Get(name string) (string, bool) {
	for _, p := range f.pairs {
		if p.Name == name {
			return p.Value, true
		}
	}
	return "", false
}

// Value returns the value for name or "" when absent.
func (f OptionalForms) Value(name string) string {
	v, _ := f.Get(name)
	return v
}

// Delete removes name, preserving the order of the rest.
func (f *OptionalForms) Delete(name string) bool {
	for i := range f.pairs {
		if f.pairs[i].Name == name {
			f.pairs = append(f.pairs[:i:i], f.pairs[i+1:]...)
			return true
		}
	}
	return false
}

// Len is the number of stored names.
func (f OptionalForms) Len() int { return len(f.pairs) }

// Names returns the stored names in insertion order.
func (f OptionalForms) Names() []string {
	out := make([]string, len(f.pairs))
	for i, p := range f.pairs {
		out[i] = p.Name
	}
	return out
}

// Pairs returns a copy of the stored pairs in insertion order.
func (f OptionalForms) Pairs() []FormValue {
	out := make([]FormValue, len(f.pairs))
	copy(out, f.pairs)
	return out
}

// All iterates names and values in insertion order.
func (f OptionalForms) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, p := range f.pairs {
			if !yield(p.Name, p.Value) {
				return
			}
		}
	}
}

// Clone returns an independent copy.
func (f OptionalForms) Clone() OptionalForms {
	if len(f.pairs) == 0 {
		return OptionalForms{}
	}
	return OptionalForms{pairs: f.Pairs()}
}

// Equal reports whether both mappings hold the same pairs in the same order.
func (f OptionalForms) Equal(other OptionalForms) bool {
	if len(f.pairs) != len(other.pairs) {
		return false
	}
	for i := range f.pairs {
		if f.pairs[i] != other.pairs[i] {
			return false
		}
	}
	return true
}

// Summary joins the non-empty values with ", " in insertion order.
func (f OptionalForms) Summary() string {
	var b strings.Builder
	for _, p := range f.pairs {
		if p.Value == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.Value)
	}
	return b.String()
}

// normalized trims names and values and drops pairs with an empty name or
// value.
func (f OptionalForms) normalized() OptionalForms {
	var out OptionalForms
	for _, p := range f.pairs {
		name := strings.TrimSpace(p.Name)
		value := strings.TrimSpace(p.Value)
		if name == "" || value == "" {
			continue
		}
		out.Set(name, value)
	}
	return out
}
