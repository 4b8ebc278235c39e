package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSON is a schemaless JSON column.
type JSON map[string]interface{}

// Value serializes to a JSON string for storage.
func (j JSON) Value() (driver.Value, error) {
	if j == nil {
		return "{}", nil
	}
	data, err := json.Marshal(j)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan deserializes from a database value.
func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = JSON{}
		return nil
	}
	data, err := toBytes(value)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		*j = JSON{}
		return nil
	}
	return json.Unmarshal(data, j)
}

// StringArray is a JSON-encoded string list column.
type StringArray []string

// Value serializes to a JSON string for storage.
func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	data, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan deserializes from a database value.
func (a *StringArray) Scan(value interface{}) error {
	if value == nil {
		*a = StringArray{}
		return nil
	}
	data, err := toBytes(value)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		*a = StringArray{}
		return nil
	}
	return json.Unmarshal(data, a)
}

// UintArray is a JSON-encoded id list column.
type UintArray []uint

// Value serializes to a JSON string for storage.
func (a UintArray) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	data, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan deserializes from a database value.
func (a *UintArray) Scan(value interface{}) error {
	if value == nil {
		*a = UintArray{}
		return nil
	}
	data, err := toBytes(value)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		*a = UintArray{}
		return nil
	}
	return json.Unmarshal(data, a)
}

// Contains reports whether id is in the list.
func (a UintArray) Contains(id uint) bool {
	for _, v := range a {
		if v == id {
			return true
		}
	}
	return false
}

// IntArray is a JSON-encoded int list column (weekday numbers etc).
type IntArray []int

// Value serializes to a JSON string for storage.
func (a IntArray) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	data, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan deserializes from a database value.
func (a *IntArray) Scan(value interface{}) error {
	if value == nil {
		*a = IntArray{}
		return nil
	}
	data, err := toBytes(value)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		*a = IntArray{}
		return nil
	}
	return json.Unmarshal(data, a)
}

// Contains reports whether n is in the list.
func (a IntArray) Contains(n int) bool {
	for _, v := range a {
		if v == n {
			return true
		}
	}
	return false
}

func toBytes(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("unsupported column type %T", value)
	}
}
