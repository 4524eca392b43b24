package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/eslsoft/glostrainer/internal/entity"
)

// FormValues stores optional forms as a JSON array of {name, value} pairs in
// a text column, keeping their order.
type FormValues []entity.FormValue

// Scan implements sql.Scanner
func (v *FormValues) Scan(src any) error {
	if src == nil {
		*v = nil
		return nil
	}
	switch data := src.(type) {
	case []byte:
		if len(data) == 0 {
			*v = nil
			return nil
		}
		return json.Unmarshal(data, v)
	case string:
		if data == "" {
			*v = nil
			return nil
		}
		return json.Unmarshal([]byte(data), v)
	default:
		return fmt.Errorf("FormValues: unsupported src type %T", src)
	}
}

// Value implements driver.Valuer. It returns a string so text columns get
// JSON rather than a bytea encoding.
func (v FormValues) Value() (driver.Value, error) {
	if v == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]entity.FormValue(v))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}
