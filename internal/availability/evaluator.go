// Package availability computes the bookability of customer calendar
// cells. States are derived on every query from the injected clock,
// the service definition and the externally supplied closures; nothing
// here is persisted.
package availability

import (
	"time"

	"github.com/DThang8583/SEP490-Pet-Cafe-sub003/internal/model"
)

// Temporal business rules for the booking calendar.
const (
	// OperatingStart..OperatingEnd is the fixed window for open
	// pet-care services, half-open.
	OperatingStart model.TimeOfDay = 8 * 60
	OperatingEnd   model.TimeOfDay = 20 * 60

	// MinLeadMinutes is the minimum gap between "now" and a same-day
	// booking.
	MinLeadMinutes = 10

	// GridStepMinutes is the slot grid for open pet-care services.
	GridStepMinutes = 30
)

// CapacityChecker reports whether a slot is already at capacity.
// Full slots render as unavailable rather than closed.
type CapacityChecker interface {
	IsFull(date time.Time, t model.TimeOfDay) bool
}

// FixedFullSlots is a CapacityChecker over a fixed set of times,
// used for ops overrides.
type FixedFullSlots map[model.TimeOfDay]bool

func (f FixedFullSlots) IsFull(_ time.Time, t model.TimeOfDay) bool { return f[t] }

// Evaluator answers point queries about calendar cells.
type Evaluator struct {
	now      func() time.Time
	capacity CapacityChecker
}

// New creates an evaluator. now must not be nil; capacity may be nil
// when no capacity source is wired.
func New(now func() time.Time, capacity CapacityChecker) *Evaluator {
	if now == nil {
		now = time.Now
	}
	return &Evaluator{now: now, capacity: capacity}
}

// Evaluate computes the state of one (date, time) cell. Rules are
// ordered and the first match wins.
func (e *Evaluator) Evaluate(date time.Time, t model.TimeOfDay, svc model.ServiceContext, closed []model.ClosedSlot) model.SlotState {
	now := e.now()
	day := dateOnly(date)
	today := dateOnly(now)

	if svc.CafeService() && outsideServiceDates(day, svc) {
		return model.SlotClosed
	}
	if day.Before(today) {
		return model.SlotClosed
	}
	if day.Equal(today) {
		nowMinutes := model.TimeOfDay(now.Hour()*60 + now.Minute())
		if t < nowMinutes {
			return model.SlotClosed
		}
		if t-nowMinutes < MinLeadMinutes {
			return model.SlotClosed
		}
	}
	if !svc.CafeService() {
		if t < OperatingStart || t >= OperatingEnd {
			return model.SlotClosed
		}
	} else {
		if t < svc.StartTime || t >= svc.EndTime {
			return model.SlotClosed
		}
	}
	for _, c := range closed {
		if c.Time == t && c.Status == model.SlotClosed {
			return model.SlotClosed
		}
	}
	if e.capacity != nil && e.capacity.IsFull(day, t) {
		return model.SlotUnavailable
	}
	return model.SlotAvailable
}

// EnumerateSessions lists the session start times for one day of the
// service. Café services step by the session duration from the
// service start time, stopping once a session would run past the end
// time; SessionsPerDay, when set, caps the count instead. Open
// pet-care services use the fixed half-hour grid inside operating
// hours.
func (e *Evaluator) EnumerateSessions(svc model.ServiceContext) []model.TimeOfDay {
	if !svc.CafeService() {
		var starts []model.TimeOfDay
		for t := OperatingStart; t+GridStepMinutes <= OperatingEnd; t += GridStepMinutes {
			starts = append(starts, t)
		}
		return starts
	}

	if svc.SessionDuration <= 0 {
		return nil
	}
	step := model.TimeOfDay(svc.SessionDuration)
	var starts []model.TimeOfDay
	for t := svc.StartTime; t+step <= svc.EndTime; t += step {
		if svc.SessionsPerDay > 0 && len(starts) >= svc.SessionsPerDay {
			break
		}
		starts = append(starts, t)
	}
	return starts
}

// CanNavigateToWeek reports whether the week starting at weekStart is
// reachable: at least one cell in it must evaluate to something other
// than closed. For café services, weeks entirely outside the service
// date range are blocked outright.
func (e *Evaluator) CanNavigateToWeek(weekStart time.Time, svc model.ServiceContext, closed []model.ClosedSlot) bool {
	weekStart = dateOnly(weekStart)
	weekEnd := weekStart.AddDate(0, 0, 6)

	if svc.CafeService() {
		start := dateOnly(svc.StartDate)
		end := dateOnly(svc.EndDate)
		if weekEnd.Before(start) || weekStart.After(end) {
			return false
		}
	}

	sessions := e.EnumerateSessions(svc)
	for i := 0; i < 7; i++ {
		day := weekStart.AddDate(0, 0, i)
		for _, t := range sessions {
			if e.Evaluate(day, t, svc, closed) != model.SlotClosed {
				return true
			}
		}
	}
	return false
}

func outsideServiceDates(day time.Time, svc model.ServiceContext) bool {
	start := dateOnly(svc.StartDate)
	end := dateOnly(svc.EndDate)
	return day.Before(start) || day.After(end)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
