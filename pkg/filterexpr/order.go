package filterexpr

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// OrderSchema whitelists order keys and names the defaults used when the
// caller gives fewer than two keys.
type OrderSchema struct {
	DefaultPrimary     string
	DefaultPrimaryDesc bool
	FallbackKey        string
	FallbackDesc       bool
	Keys               []string
}

func (s OrderSchema) has(key string) bool {
	for _, k := range s.Keys {
		if k == key {
			return true
		}
	}
	return false
}

// Ordering is a parsed order_by clause.
type Ordering struct {
	PrimaryKey    string
	PrimaryDesc   bool
	SecondaryKey  string
	SecondaryDesc bool
}

// ParseOrderBy parses "key [asc|desc][, key [asc|desc]]". At most two keys
// are accepted; a missing secondary key falls back to the schema fallback.
func ParseOrderBy(raw string, schema OrderSchema) (Ordering, error) { //nolint:gocyclo // one branch per grammar rule
	if schema.DefaultPrimary == "" || schema.FallbackKey == "" {
		return Ordering{}, errors.New("order schema needs a default primary and a fallback key")
	}
	if !schema.has(schema.DefaultPrimary) {
		return Ordering{}, fmt.Errorf("order key %q missing from schema keys", schema.DefaultPrimary)
	}
	if !schema.has(schema.FallbackKey) {
		return Ordering{}, fmt.Errorf("fallback order key %q missing from schema keys", schema.FallbackKey)
	}

	ord := Ordering{PrimaryKey: schema.DefaultPrimary, PrimaryDesc: schema.DefaultPrimaryDesc}
	seen := make(map[string]bool, 2)
	n := 0
	for _, seg := range strings.Split(strings.TrimSpace(raw), ",") {
		parts := strings.Fields(seg)
		if len(parts) == 0 {
			continue
		}
		key := parts[0]
		if !schema.has(key) {
			return Ordering{}, fmt.Errorf("field %q cannot be used for ordering", key)
		}
		desc := false
		switch len(parts) {
		case 1:
		case 2:
			switch strings.ToLower(parts[1]) {
			case "asc":
			case "desc":
				desc = true
			default:
				return Ordering{}, fmt.Errorf("invalid direction %q for field %q", parts[1], key)
			}
		default:
			return Ordering{}, fmt.Errorf("invalid order segment %q", strings.TrimSpace(seg))
		}
		if seen[key] {
			return Ordering{}, fmt.Errorf("duplicate order key %q", key)
		}
		seen[key] = true

		switch n {
		case 0:
			ord.PrimaryKey, ord.PrimaryDesc = key, desc
		case 1:
			ord.SecondaryKey, ord.SecondaryDesc = key, desc
		default:
			return Ordering{}, errors.New("order_by supports at most two keys")
		}
		n++
	}

	if ord.SecondaryKey == "" {
		ord.SecondaryKey, ord.SecondaryDesc = schema.FallbackKey, schema.FallbackDesc
	}
	if ord.SecondaryKey == ord.PrimaryKey {
		ord.SecondaryKey, ord.SecondaryDesc = "", false
		for _, k := range schema.Keys {
			if k != ord.PrimaryKey {
				ord.SecondaryKey = k
				break
			}
		}
		if ord.SecondaryKey == "" {
			return Ordering{}, errors.New("order schema requires at least two distinct keys")
		}
	}
	return ord, nil
}

func setOrderParams(binding any, ord Ordering) error {
	target, err := structTarget(binding)
	if err != nil {
		return err
	}
	for name, value := range map[string]any{
		"PrimaryKey":    ord.PrimaryKey,
		"PrimaryDesc":   ord.PrimaryDesc,
		"SecondaryKey":  ord.SecondaryKey,
		"SecondaryDesc": ord.SecondaryDesc,
	} {
		if err := setAssignable(target, name, reflect.ValueOf(value)); err != nil {
			return err
		}
	}
	return nil
}

func setAssignable(target reflect.Value, name string, value reflect.Value) error {
	field := target.FieldByName(name)
	if !field.IsValid() {
		return fmt.Errorf("params struct %s has no field named %q", target.Type(), name)
	}
	if !field.CanSet() {
		return fmt.Errorf("cannot set field %q on params struct", name)
	}

	switch field.Kind() {
	case reflect.Interface:
		field.Set(value)
	case reflect.Ptr:
		elem := field.Type().Elem()
		if !value.Type().ConvertibleTo(elem) {
			return fmt.Errorf("field %q must be %s-compatible, got %s", name, elem, value.Type())
		}
		if field.IsNil() {
			field.Set(reflect.New(elem))
		}
		field.Elem().Set(value.Convert(elem))
	default:
		if !value.Type().ConvertibleTo(field.Type()) {
			return fmt.Errorf("field %q must be %s-compatible, got %s", name, field.Type(), value.Type())
		}
		field.Set(value.Convert(field.Type()))
	}
	return nil
}
