package model

import (
	"fmt"
	"strconv"
	"strings"
)

// TimeOfDay is minutes since midnight, in [0, 1440).
// All shift and slot arithmetic uses this unit so time comparisons
// never go through strings.
type TimeOfDay int

// MinutesPerDay is the exclusive upper bound for TimeOfDay.
const MinutesPerDay = 24 * 60

// ParseTimeOfDay parses "HH:MM" into minutes since midnight.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time format: %s", s)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid hour in %q: %w", s, err)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid minute in %q: %w", s, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("time out of range: %s", s)
	}
	return TimeOfDay(hour*60 + minute), nil
}

// Valid reports whether t is inside [0, 1440).
func (t TimeOfDay) Valid() bool {
	return t >= 0 && t < MinutesPerDay
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// Window is a half-open daily time range [Start, End).
type Window struct {
	Start TimeOfDay `json:"start"`
	End   TimeOfDay `json:"end"`
}

// Valid reports whether the window lies inside one day with Start < End.
func (w Window) Valid() bool {
	return w.Start.Valid() && w.End > w.Start && w.End <= MinutesPerDay
}

// Overlaps reports whether two half-open windows share any minute.
// Touching windows (End == Start) do not overlap.
func (w Window) Overlaps(other Window) bool {
	return w.Start < other.End && other.Start < w.End
}

func (w Window) String() string {
	return fmt.Sprintf("%s-%s", w.Start, w.End)
}
