package types

import (
	"reflect"
	"testing"
)

func TestFormValues_RoundTrip(t *testing.T) {
	in := FormValues{{Name: "Plural indefinite form", Value: "bilar"}, {Name: "Plural definite form", Value: "bilarna"}}
	raw, err := in.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}
	s, ok := raw.(string)
	if !ok {
		t.Fatalf("expected string driver value, got %T", raw)
	}

	var fromString, fromBytes FormValues
	if err := fromString.Scan(s); err != nil {
		t.Fatalf("Scan string: %v", err)
	}
	if err := fromBytes.Scan([]byte(s)); err != nil {
		t.Fatalf("Scan bytes: %v", err)
	}
	if !reflect.DeepEqual(in, fromString) || !reflect.DeepEqual(in, fromBytes) {
		t.Fatalf("round trip mismatch: %v / %v", fromString, fromBytes)
	}
}

func TestFormValues_Empty(t *testing.T) {
	var nilForms FormValues
	raw, err := nilForms.Value()
	if err != nil || raw != "[]" {
		t.Fatalf("expected [] for nil, got %v (%v)", raw, err)
	}

	v := FormValues{{Name: "x", Value: "y"}}
	if err := v.Scan(nil); err != nil || v != nil {
		t.Fatalf("expected nil after scanning NULL, got %v (%v)", v, err)
	}
	if err := v.Scan(42); err == nil {
		t.Fatalf("expected error for unsupported source")
	}
}
