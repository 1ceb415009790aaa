package model

import (
	"fmt"
	"strings"
	"time"
)

const calendarLayout = "2006-01-02"

// NoonOn returns 12:00 on t's calendar day in loc.  Recording date-only
// values at noon keeps them on the same calendar day in every timezone
// within twelve hours of loc.
func NoonOn(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 12, 0, 0, 0, loc)
}

// ParseCalendarDate accepts either a bare YYYY-MM-DD date, which is anchored
// at noon in loc, or a full RFC 3339 timestamp, which is kept as given.
func ParseCalendarDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if loc == nil {
		loc = time.Local
	}
	if d, err := time.ParseInLocation(calendarLayout, s, loc); err == nil {
		return NoonOn(d, loc), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	return t, nil
}
