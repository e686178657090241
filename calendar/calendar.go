// Package calendar provides business-day rules used to date pool payments.
package calendar

import (
	"fmt"
	"strings"
	"time"
)

// CalendarID identifies a holiday calendar.
type CalendarID string

const (
	// USD observes US federal holidays, which is what agency pass-through
	// payment dates roll around.
	USD CalendarID = "USD"
	// WeekendsOnly treats every weekday as a business day.
	WeekendsOnly CalendarID = "WEEKENDS"
)

// Parse resolves a calendar name, case-insensitively.
func Parse(name string) (CalendarID, error) {
	switch id := CalendarID(strings.ToUpper(strings.TrimSpace(name))); id {
	case USD, WeekendsOnly:
		return id, nil
	default:
		return "", fmt.Errorf("calendar: unknown calendar %q (want %s or %s)", name, USD, WeekendsOnly)
	}
}

func isHoliday(cal CalendarID, t time.Time) bool {
	switch cal {
	case USD:
		return isUSDHoliday(t)
	default:
		return false
	}
}

// IsBusinessDay checks weekends and holiday sets.
func IsBusinessDay(cal CalendarID, t time.Time) bool {
	if t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		return false
	}
	return !isHoliday(cal, t)
}

// AdjustFollowing applies a simple Following convention (no month preservation).
func AdjustFollowing(cal CalendarID, t time.Time) time.Time {
	for !IsBusinessDay(cal, t) {
		t = t.AddDate(0, 0, 1)
	}
	return t
}

// isUSDHoliday applies the federal rules: fixed-date holidays move to Friday
// when they fall on Saturday and to Monday when they fall on Sunday.
func isUSDHoliday(t time.Time) bool {
	y, m, d := t.Date()
	wd := t.Weekday()

	for _, fixed := range []struct {
		month time.Month
		day   int
	}{
		{time.January, 1},
		{time.June, 19},
		{time.July, 4},
		{time.November, 11},
		{time.December, 25},
	} {
		if fixed.month == time.June && y < 2021 {
			continue
		}
		if observed(time.Date(y, fixed.month, fixed.day, 0, 0, 0, 0, time.UTC)).Equal(time.Date(y, m, d, 0, 0, 0, 0, time.UTC)) {
			return true
		}
	}
	// New Year's Day falling on a Saturday is observed on Dec 31.
	if m == time.December && d == 31 && wd == time.Friday {
		return true
	}

	switch m {
	case time.January:
		return wd == time.Monday && nthWeek(d) == 3 // Martin Luther King Jr. Day
	case time.February:
		return wd == time.Monday && nthWeek(d) == 3 // Washington's Birthday
	case time.May:
		return wd == time.Monday && d+7 > 31 // Memorial Day
	case time.September:
		return wd == time.Monday && nthWeek(d) == 1 // Labor Day
	case time.October:
		return wd == time.Monday && nthWeek(d) == 2 // Columbus Day
	case time.November:
		return wd == time.Thursday && nthWeek(d) == 4 // Thanksgiving
	}
	return false
}

func observed(t time.Time) time.Time {
	switch t.Weekday() {
	case time.Saturday:
		return t.AddDate(0, 0, -1)
	case time.Sunday:
		return t.AddDate(0, 0, 1)
	}
	return t
}

// nthWeek returns which occurrence of its weekday the day-of-month d is.
func nthWeek(d int) int {
	return (d-1)/7 + 1
}
