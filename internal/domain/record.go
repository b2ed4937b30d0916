package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/samber/mo"
)

// Record is a settlement request tracked through the document pipeline.
// Only Status changes after creation.
type Record struct {
	ID           int64                `db:"id"`
	Title        string               `db:"title"`
	Person       string               `db:"person"`
	Company      string               `db:"company"`
	Category     string               `db:"category"`
	Amount       float64              `db:"amount"`
	CreatedAt    time.Time            `db:"created_at"`
	UpdatedAt    time.Time            `db:"updated_at"`
	Owner        string               `db:"owner"`
	BillingMonth mo.Option[time.Time] `db:"billing_month"`
	PremiumStart mo.Option[time.Time] `db:"premium_start"`
	PremiumEnd   mo.Option[time.Time] `db:"premium_end"`
	Hours        Hours                `db:"hours"`
	Comment      string               `db:"comment"`
	Status       Status               `db:"status"`
}

// HasPremiumPeriod reports whether at least one premium bound is set
func (r *Record) HasPremiumPeriod() bool {
	return r.PremiumStart.IsPresent() || r.PremiumEnd.IsPresent()
}

// Hours maps a day or category label to a number of hours. Stored as JSONB.
type Hours map[string]float64

// Keys returns the labels in sorted order
func (h Hours) Keys() []string {
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Value implements driver.Valuer
func (h Hours) Value() (driver.Value, error) {
	if h == nil {
		return []byte("{}"), nil
	}
	data, err := json.Marshal(map[string]float64(h))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal hours: %w", err)
	}
	return data, nil
}

// Scan implements sql.Scanner
func (h *Hours) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*h = Hours{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported hours column type %T", src)
	}

	out := Hours{}
	if err := json.Unmarshal(data, &out); err != nil {
		return fmt.Errorf("failed to unmarshal hours: %w", err)
	}
	*h = out
	return nil
}
