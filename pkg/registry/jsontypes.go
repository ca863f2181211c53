package registry

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringSlice is a custom GORM type for []string stored as JSON text.
type StringSlice []string

// Scan implements the sql.Scanner interface for StringSlice.
func (s *StringSlice) Scan(value any) error {
	if value == nil {
		*s = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case string:
		bytes = []byte(v)
	case []byte:
		bytes = v
	default:
		return fmt.Errorf("unsupported type for StringSlice: %T", value)
	}
	return json.Unmarshal(bytes, s)
}

// Value implements the driver.Valuer interface for StringSlice.
func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Contains reports whether v is a member of the slice.
func (s StringSlice) Contains(v string) bool {
	for _, item := range s {
		if item == v {
			return true
		}
	}
	return false
}

// PolicyRule is one approval rule inside an ApprovalPolicy.
type PolicyRule struct {
	UserGroups    string `json:"userGroups"`
	ExpiresInDays int    `json:"expiresInDays"`
	DefaultAction string `json:"defaultAction"`
}

// PolicyRules is a custom GORM type for []PolicyRule stored as JSON text.
type PolicyRules []PolicyRule

// Scan implements the sql.Scanner interface for PolicyRules.
func (p *PolicyRules) Scan(value any) error {
	if value == nil {
		*p = nil
		return nil
	}
	var bytes []byte
	switch v := value.(type) {
	case string:
		bytes = []byte(v)
	case []byte:
		bytes = v
	default:
		return fmt.Errorf("unsupported type for PolicyRules: %T", value)
	}
	return json.Unmarshal(bytes, p)
}

// Value implements the driver.Valuer interface for PolicyRules.
func (p PolicyRules) Value() (driver.Value, error) {
	if p == nil {
		return nil, nil
	}
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}
