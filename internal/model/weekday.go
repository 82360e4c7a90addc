package model

import (
	"fmt"
	"strings"
	"time"
)

// Weekday is a day of the week, Monday-first.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayNames = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

func (d Weekday) String() string {
	if d < Monday || d > Sunday {
		return fmt.Sprintf("Weekday(%d)", int(d))
	}
	return weekdayNames[d]
}

// Valid reports whether d is one of the seven weekdays.
func (d Weekday) Valid() bool {
	return d >= Monday && d <= Sunday
}

// ParseWeekday parses a short day name ("Mon".."Sun").
func ParseWeekday(s string) (Weekday, error) {
	for i, name := range weekdayNames {
		if strings.EqualFold(s, name) {
			return Weekday(i), nil
		}
	}
	return 0, fmt.Errorf("unknown weekday: %s", s)
}

// WeekdayOf converts a calendar date to its Monday-first weekday.
func WeekdayOf(t time.Time) Weekday {
	wd := int(t.Weekday())
	if wd == 0 {
		wd = 7 // Sunday
	}
	return Weekday(wd - 1)
}

// WeekdaySet is a set of weekdays stored as a 7-bit mask.
type WeekdaySet uint8

// NewWeekdaySet builds a set from the given days. Invalid days are ignored.
func NewWeekdaySet(days ...Weekday) WeekdaySet {
	var s WeekdaySet
	for _, d := range days {
		s = s.Add(d)
	}
	return s
}

// AllWeekdays returns the full seven-day set.
func AllWeekdays() WeekdaySet {
	return WeekdaySet(0x7F)
}

func (s WeekdaySet) Add(d Weekday) WeekdaySet {
	if !d.Valid() {
		return s
	}
	return s | WeekdaySet(1<<uint(d))
}

func (s WeekdaySet) Remove(d Weekday) WeekdaySet {
	if !d.Valid() {
		return s
	}
	return s &^ WeekdaySet(1 << uint(d))
}

func (s WeekdaySet) Has(d Weekday) bool {
	return d.Valid() && s&WeekdaySet(1<<uint(d)) != 0
}

func (s WeekdaySet) Union(other WeekdaySet) WeekdaySet {
	return s | other
}

func (s WeekdaySet) Intersect(other WeekdaySet) WeekdaySet {
	return s & other
}

func (s WeekdaySet) Diff(other WeekdaySet) WeekdaySet {
	return s &^ other
}

func (s WeekdaySet) IsEmpty() bool {
	return s&0x7F == 0
}

// Count returns the number of days in the set.
func (s WeekdaySet) Count() int {
	n := 0
	for d := Monday; d <= Sunday; d++ {
		if s.Has(d) {
			n++
		}
	}
	return n
}

// Days returns the days in the set in Monday-first order.
func (s WeekdaySet) Days() []Weekday {
	var days []Weekday
	for d := Monday; d <= Sunday; d++ {
		if s.Has(d) {
			days = append(days, d)
		}
	}
	return days
}

func (s WeekdaySet) String() string {
	if s.IsEmpty() {
		return "-"
	}
	parts := make([]string, 0, 7)
	for _, d := range s.Days() {
		parts = append(parts, d.String())
	}
	return strings.Join(parts, ",")
}
