package model

import "time"

// SlotState is the derived bookability of a (date, time) calendar cell.
// It is never stored; every query recomputes it from the clock and the
// currently closed slots.
type SlotState string

const (
	SlotAvailable   SlotState = "available"
	SlotUnavailable SlotState = "unavailable"
	SlotClosed      SlotState = "closed"
)

// ServiceContext describes the booked service as the customer calendar
// sees it. When PetRequired is false the service is a fixed-session
// "café" offering; otherwise it is an open pet-care calendar.
type ServiceContext struct {
	PetRequired     bool      `json:"pet_required"`
	StartDate       time.Time `json:"service_start_date"`
	EndDate         time.Time `json:"service_end_date"`
	StartTime       TimeOfDay `json:"service_start_time"`
	EndTime         TimeOfDay `json:"service_end_time"`
	SessionDuration int       `json:"session_duration_minutes"`
	SessionsPerDay  int       `json:"sessions_per_day,omitempty"`
}

// CafeService reports whether the context is a fixed-session café service.
func (c ServiceContext) CafeService() bool {
	return !c.PetRequired
}

// ClosedSlot is an externally supplied admin closure for a time of day.
type ClosedSlot struct {
	Time   TimeOfDay `json:"time"`
	Status SlotState `json:"status"`
	Reason string    `json:"reason,omitempty"`
}
