// Package dateutil provides calendar-day arithmetic shared by the
// calculation engine and the output layer. All roster dates are treated
// as plain calendar days in UTC; clock times are minutes since local
// midnight and never carry a zone.
package dateutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MinutesPerDay is the number of clock minutes in a calendar day.
const MinutesPerDay = 24 * 60

// DayOf truncates a timestamp to its calendar day (midnight UTC).
func DayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// NextDay returns the calendar day after d.
func NextDay(d time.Time) time.Time {
	return DayOf(d).AddDate(0, 0, 1)
}

// PrevDay returns the calendar day before d.
func PrevDay(d time.Time) time.Time {
	return DayOf(d).AddDate(0, 0, -1)
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// DaysBetween returns the number of whole calendar days from a to b.
// Negative if b is before a.
func DaysBetween(a, b time.Time) int {
	return int(DayOf(b).Sub(DayOf(a)).Hours() / 24)
}

// DayKey formats a calendar day as an ISO date string, the canonical
// map key for per-day structures.
func DayKey(d time.Time) string {
	return d.Format("2006-01-02")
}

// FormatDay renders a calendar day in German order (DD.MM.YYYY).
func FormatDay(d time.Time) string {
	return d.Format("02.01.2006")
}

// PriorMonth returns the year and month immediately before the given
// year/month, handling the January rollover.
func PriorMonth(year int, month time.Month) (int, time.Month) {
	if month == time.January {
		return year - 1, time.December
	}
	return year, month - 1
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ParseClock parses a "HH:MM" clock string into minutes since midnight.
// Malformed input yields zero with ok=false; callers surface a
// diagnostic instead of failing the whole calculation.
func ParseClock(s string) (minutes int, ok bool) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	h, errH := strconv.Atoi(parts[0])
	m, errM := strconv.Atoi(parts[1])
	if errH != nil || errM != nil || h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, false
	}
	return h*60 + m, true
}

// FormatClock renders minutes since midnight as "HH:MM".
func FormatClock(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	minutes %= MinutesPerDay
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
