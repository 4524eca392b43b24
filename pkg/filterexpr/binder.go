// Package filterexpr binds small CEL filter expressions and order_by clauses
// onto plain Go query structs.
//
// A filter is a conjunction of comparisons such as
//
//	word_class in ['noun', 'verb'] && dictionary_form.startsWith('bi')
//
// and every field/operator pair names the struct field that receives the
// literal. Ordering is "key [asc|desc][, key [asc|desc]]".
package filterexpr

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/google/cel-go/cel"
)

// Query exposes the raw filter and order_by inputs of a request.
type Query interface {
	GetFilter() string
	GetOrderBy() string
}

// ValueKind is the literal type a filter field accepts.
type ValueKind string

const (
	KindString ValueKind = "string"
	KindNumber ValueKind = "number"
)

func (k ValueKind) celType() (*cel.Type, error) {
	switch k {
	case KindString:
		return cel.StringType, nil
	case KindNumber:
		return cel.DoubleType, nil
	default:
		return nil, fmt.Errorf("unsupported field kind %s", k)
	}
}

// Op is a supported comparison.
type Op string

const (
	OpEQ  Op = "=="
	OpGTE Op = ">="
	OpLTE Op = "<="
	OpSW  Op = "startsWith"
	OpIN  Op = "in"
)

// SetterFunc assigns a literal to a destination field that assignValue
// cannot handle on its own.
type SetterFunc func(field reflect.Value, value any) error

// FilterField maps the operators allowed on one filter field to struct field
// names of the binding.
type FilterField struct {
	Kind   ValueKind
	Ops    map[Op]string
	Setter SetterFunc
}

// Schema lists the filterable fields and orderable keys of a resource.
type Schema struct {
	Filter map[string]FilterField
	Order  OrderSchema
}

// Bind parses q's filter and order_by and stores the results in binding.
// Binding must be a pointer to a struct with the fields named by the filter
// schema plus PrimaryKey, PrimaryDesc, SecondaryKey and SecondaryDesc.
func Bind[Q Query, P any](q Q, binding *P, schema Schema) error {
	if binding == nil {
		return errors.New("binding must not be nil")
	}

	if err := BindFilter(q.GetFilter(), binding, schema.Filter); err != nil {
		return fmt.Errorf("filter: %w", err)
	}

	ord, err := ParseOrderBy(q.GetOrderBy(), schema.Order)
	if err != nil {
		return fmt.Errorf("order_by: %w", err)
	}
	return setOrderParams(binding, ord)
}

// BindFilter assigns the predicates of filter onto binding. An empty filter
// leaves binding untouched.
func BindFilter(filter string, binding any, fields map[string]FilterField) error {
	filter = strings.TrimSpace(filter)
	if filter == "" {
		return nil
	}

	dest, err := structTarget(binding)
	if err != nil {
		return err
	}

	preds, err := Parse(filter, fields)
	if err != nil {
		return err
	}

	for _, pred := range preds {
		rule, ok := fields[pred.Field]
		if !ok {
			return fmt.Errorf("field %q is not allowed", pred.Field)
		}
		target, ok := rule.Ops[pred.Op]
		if !ok {
			return fmt.Errorf("operator %q is not allowed for field %q", string(pred.Op), pred.Field)
		}
		if err := checkLiteral(rule.Kind, pred.Op, pred.Value); err != nil {
			return fmt.Errorf("field %q: %w", pred.Field, err)
		}

		field := dest.FieldByName(target)
		if !field.IsValid() {
			return fmt.Errorf("params struct %s has no field named %q", dest.Type(), target)
		}
		if !field.CanSet() {
			return fmt.Errorf("cannot set field %q on params struct", target)
		}

		if rule.Setter != nil {
			if field.Kind() == reflect.Ptr && field.IsNil() {
				field.Set(reflect.New(field.Type().Elem()))
			}
			if err := rule.Setter(field, pred.Value); err != nil {
				return fmt.Errorf("setter for field %q failed: %w", target, err)
			}
			continue
		}
		if err := assignValue(field, pred.Value); err != nil {
			return fmt.Errorf("assign field %q: %w", target, err)
		}
	}
	return nil
}

func structTarget(binding any) (reflect.Value, error) {
	rv := reflect.ValueOf(binding)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return reflect.Value{}, errors.New("binding must be a non-nil pointer")
	}
	dest := rv.Elem()
	if dest.Kind() != reflect.Struct {
		return reflect.Value{}, errors.New("binding must point to a struct")
	}
	return dest, nil
}

func checkLiteral(kind ValueKind, op Op, value any) error {
	switch kind {
	case KindString:
		if op != OpIN {
			if _, ok := value.(string); !ok {
				return fmt.Errorf("expected %s literal", kind)
			}
			return nil
		}
		list, ok := value.([]string)
		if !ok {
			return fmt.Errorf("expected list of %s literals", kind)
		}
		if len(list) == 0 {
			return errors.New("list literal must not be empty")
		}
		for _, item := range list {
			if item == "" {
				return errors.New("list literal must not contain empty strings")
			}
		}
		return nil
	case KindNumber:
		if _, ok := value.(float64); !ok {
			return fmt.Errorf("expected %s literal", kind)
		}
		return nil
	default:
		return fmt.Errorf("unsupported field kind %s", kind)
	}
}

func assignValue(field reflect.Value, value any) error {
	switch field.Kind() {
	case reflect.Ptr:
		if field.IsNil() {
			field.Set(reflect.New(field.Type().Elem()))
		}
		return assignValue(field.Elem(), value)
	case reflect.Interface:
		field.Set(reflect.ValueOf(value))
		return nil
	}

	switch v := value.(type) {
	case string:
		if field.Kind() != reflect.String {
			return fmt.Errorf("expected string destination, got %s", field.Kind())
		}
		field.SetString(v)
	case []string:
		if field.Kind() != reflect.Slice || field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("expected []string destination, got %s", field.Type())
		}
		field.Set(reflect.ValueOf(append([]string(nil), v...)))
	case float64:
		return assignNumber(field, v)
	default:
		return fmt.Errorf("unsupported literal type %T", value)
	}
	return nil
}

func assignNumber(field reflect.Value, value float64) error {
	switch field.Kind() {
	case reflect.Float32, reflect.Float64:
		field.SetFloat(value)
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if math.Trunc(value) != value {
			return fmt.Errorf("cannot assign non-integer value %v to integer field", value)
		}
		if value >= math.MaxInt64 || value < math.MinInt64 || field.OverflowInt(int64(value)) {
			return fmt.Errorf("value %v overflows integer field", value)
		}
		field.SetInt(int64(value))
		return nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if math.Trunc(value) != value || value < 0 {
			return fmt.Errorf("cannot assign %v to unsigned integer field", value)
		}
		if value >= math.MaxUint64 || field.OverflowUint(uint64(value)) {
			return fmt.Errorf("value %v overflows unsigned integer field", value)
		}
		field.SetUint(uint64(value))
		return nil
	default:
		return fmt.Errorf("numeric assignment requires integer or float field, got %s", field.Kind())
	}
}
