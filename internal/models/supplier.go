package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// StringList is stored as a JSON array in a text column so the same schema
// works on Postgres and on the sqlite used in tests. Malformed or missing
// data scans to an empty list, never to an error - a supplier with a broken
// selected_products value simply monitors nothing.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *StringList) Scan(value interface{}) error {
	*l = StringList{}
	if value == nil {
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return errors.New("StringList: unsupported column type")
	}
	var parsed []string
	if err := json.Unmarshal(raw, &parsed); err != nil {
		// tolerate garbage, treat as empty
		return nil
	}
	*l = parsed
	return nil
}

// Contains reports whether id is in the list.
func (l StringList) Contains(id string) bool {
	for _, v := range l {
		if v == id {
			return true
		}
	}
	return false
}

type Supplier struct {
	ID       string `gorm:"primaryKey;size:36"`
	TenantID string `gorm:"index;size:36;not null"`
	Name     string `gorm:"size:200;not null"`
	Email    string `gorm:"size:100"`
	Phone    string `gorm:"size:30"`
	Notes    string `gorm:"size:500"`
	// AutoEmail opts the supplier in to automatic critical-stock alerts.
	AutoEmail bool `gorm:"not null;default:false"`
	// SelectedProducts holds the product IDs this supplier monitors.
	SelectedProducts StringList `gorm:"type:text"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
