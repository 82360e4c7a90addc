package model

import "time"

// WorkShift is a named recurring daily time window tagged with the
// weekdays it applies to. The UI shows "the same shift" as one row per
// weekday, but a weekday belongs to exactly one record sharing the
// (name, window) identity; that invariant is enforced by the catalog.
type WorkShift struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Window         Window     `json:"window"`
	ApplicableDays WeekdaySet `json:"applicable_days"`
	Description    string     `json:"description"`
	IsActive       bool       `json:"is_active"`
	IsDeleted      bool       `json:"is_deleted"`
	CreatedAt      time.Time  `json:"created_at"`
	CreatedBy      string     `json:"created_by,omitempty"`
	UpdatedAt      time.Time  `json:"updated_at"`
	UpdatedBy      string     `json:"updated_by,omitempty"`
}

// SameIdentity reports whether two shifts share the (name, window)
// identity the uniqueness-per-day invariant is keyed on.
func (s WorkShift) SameIdentity(other WorkShift) bool {
	return s.Name == other.Name && s.Window == other.Window
}
