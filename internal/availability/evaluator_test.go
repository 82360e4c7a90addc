package availability

import (
	"testing"
	"time"

	"github.com/DThang8583/SEP490-Pet-Cafe-sub003/internal/model"

	"github.com/stretchr/testify/assert"
)

// Fixed clock: Wednesday 2026-08-26, 12:00 local.
var now = time.Date(2026, 8, 26, 12, 0, 0, 0, time.Local)

func fixedClock() time.Time { return now }

func day(offset int) time.Time {
	return now.AddDate(0, 0, offset)
}

func petCareService() model.ServiceContext {
	return model.ServiceContext{PetRequired: true}
}

func cafeService() model.ServiceContext {
	return model.ServiceContext{
		PetRequired:     false,
		StartDate:       day(-7),
		EndDate:         day(7),
		StartTime:       600, // 10:00
		EndTime:         1080, // 18:00
		SessionDuration: 120,
	}
}

func TestEvaluatePetCare(t *testing.T) {
	e := New(fixedClock, nil)
	svc := petCareService()

	tests := []struct {
		name string
		date time.Time
		time model.TimeOfDay
		want model.SlotState
	}{
		{"future day inside operating hours", day(1), 600, model.SlotAvailable},
		{"past day", day(-1), 600, model.SlotClosed},
		{"today earlier than now", day(0), 660, model.SlotClosed},
		{"today inside lead time", day(0), 725, model.SlotClosed},
		{"today at exact lead boundary", day(0), 730, model.SlotAvailable},
		{"before opening", day(1), 450, model.SlotClosed},
		{"at closing", day(1), 1200, model.SlotClosed},
		{"last slot of the day", day(1), 1170, model.SlotAvailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Evaluate(tt.date, tt.time, svc, nil))
		})
	}
}

func TestEvaluateCafeDateRange(t *testing.T) {
	e := New(fixedClock, nil)
	svc := cafeService()

	assert.Equal(t, model.SlotAvailable, e.Evaluate(day(3), 600, svc, nil))
	assert.Equal(t, model.SlotClosed, e.Evaluate(day(8), 600, svc, nil), "past service end date")

	// Café slots follow the service's own window, not operating hours.
	assert.Equal(t, model.SlotClosed, e.Evaluate(day(3), 480, svc, nil), "08:00 is before service start")
	assert.Equal(t, model.SlotClosed, e.Evaluate(day(3), 1080, svc, nil), "18:00 is at service end")
}

func TestEvaluateClosedSlots(t *testing.T) {
	e := New(fixedClock, nil)
	closed := []model.ClosedSlot{
		{Time: 600, Status: model.SlotClosed, Reason: "deep clean"},
	}

	assert.Equal(t, model.SlotClosed, e.Evaluate(day(1), 600, petCareService(), closed))
	assert.Equal(t, model.SlotAvailable, e.Evaluate(day(1), 630, petCareService(), closed))
}

func TestEvaluateCapacity(t *testing.T) {
	full := FixedFullSlots{600: true}
	e := New(fixedClock, full)

	assert.Equal(t, model.SlotUnavailable, e.Evaluate(day(1), 600, petCareService(), nil),
		"full slots are unavailable, not closed")
	assert.Equal(t, model.SlotAvailable, e.Evaluate(day(1), 630, petCareService(), nil))
}

func TestEvaluateRuleOrder(t *testing.T) {
	// A past date that is also at capacity reads as closed: the date
	// rule fires before the capacity rule.
	full := FixedFullSlots{600: true}
	e := New(fixedClock, full)

	assert.Equal(t, model.SlotClosed, e.Evaluate(day(-1), 600, petCareService(), nil))
}

func TestEnumerateSessionsPetCare(t *testing.T) {
	e := New(fixedClock, nil)

	starts := e.EnumerateSessions(petCareService())
	assert.Len(t, starts, 24, "08:00..19:30 on the half-hour grid")
	assert.Equal(t, OperatingStart, starts[0])
	assert.Equal(t, model.TimeOfDay(1170), starts[len(starts)-1])
}

func TestEnumerateSessionsCafe(t *testing.T) {
	e := New(fixedClock, nil)

	svc := cafeService() // 10:00-18:00, 120-minute sessions
	assert.Equal(t, []model.TimeOfDay{600, 720, 840, 960}, e.EnumerateSessions(svc))

	svc.SessionsPerDay = 2
	assert.Equal(t, []model.TimeOfDay{600, 720}, e.EnumerateSessions(svc))

	svc.SessionDuration = 0
	assert.Nil(t, e.EnumerateSessions(svc))
}

func TestEnumerateSessionsCafeOddStep(t *testing.T) {
	e := New(fixedClock, nil)

	// 09:00-17:00 with 90-minute sessions: the 16:30 start is excluded
	// because it would run past 17:00.
	svc := cafeService()
	svc.StartTime = 540
	svc.EndTime = 1020
	svc.SessionDuration = 90
	assert.Equal(t, []model.TimeOfDay{540, 630, 720, 810, 900}, e.EnumerateSessions(svc))
}

func TestCanNavigateToWeek(t *testing.T) {
	e := New(fixedClock, nil)
	svc := cafeService()

	weekStart := day(0).AddDate(0, 0, -2) // Monday of the current week

	assert.True(t, e.CanNavigateToWeek(weekStart, svc, nil))
	assert.True(t, e.CanNavigateToWeek(weekStart.AddDate(0, 0, 7), svc, nil))
	assert.False(t, e.CanNavigateToWeek(weekStart.AddDate(0, 0, 21), svc, nil),
		"weeks past the service end date are unreachable")
	assert.False(t, e.CanNavigateToWeek(weekStart.AddDate(0, 0, -14), svc, nil),
		"weeks before the service start date are unreachable")
}

func TestCanNavigateToWeekAllClosed(t *testing.T) {
	e := New(fixedClock, nil)
	svc := petCareService()

	// A fully past week has no reachable cell.
	lastMonday := day(-9)
	assert.False(t, e.CanNavigateToWeek(lastMonday, svc, nil))
	assert.True(t, e.CanNavigateToWeek(day(-2), svc, nil), "current week still has future cells")
}
