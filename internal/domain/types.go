package domain

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// JSONMap is an opaque JSON object stored in a JSONB column.
type JSONMap map[string]interface{}

// Value implements the driver.Valuer interface
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

// Scan implements the sql.Scanner interface
func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = JSONMap{}
		return nil
	}

	b, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("expected []byte, got %T", value)
	}

	cloned := bytes.Clone(b)
	return json.Unmarshal(cloned, m)
}

// String returns the string value for key, or "" when absent.
func (m JSONMap) String(key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

// Float returns the numeric value for key, or 0 when absent. JSON numbers
// decode as float64.
func (m JSONMap) Float(key string) float64 {
	if v, ok := m[key].(float64); ok {
		return v
	}
	return 0
}

// Int returns the numeric value for key truncated to int, or 0 when absent.
func (m JSONMap) Int(key string) int {
	return int(m.Float(key))
}

// StringList is a JSON array of strings stored in a JSONB column.
type StringList []string

// Value implements the driver.Valuer interface
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l)
}

// Scan implements the sql.Scanner interface
func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}

	b, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("expected []byte, got %T", value)
	}

	cloned := bytes.Clone(b)
	return json.Unmarshal(cloned, l)
}

// Contains reports whether the list contains s.
func (l StringList) Contains(s string) bool {
	for _, v := range l {
		if v == s {
			return true
		}
	}
	return false
}

// StringMap is a JSON object of string values stored in a JSONB column
// (external ids, thread headers).
type StringMap map[string]string

// Value implements the driver.Valuer interface
func (m StringMap) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

// Scan implements the sql.Scanner interface
func (m *StringMap) Scan(value interface{}) error {
	if value == nil {
		*m = StringMap{}
		return nil
	}

	b, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("expected []byte, got %T", value)
	}

	cloned := bytes.Clone(b)
	return json.Unmarshal(cloned, m)
}

// TimeRange bounds a stats or freebusy query.
type TimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (r TimeRange) Validate() error {
	if !r.End.After(r.Start) {
		return NewValidationError("time range end must be after start")
	}
	return nil
}
