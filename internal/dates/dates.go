// Package dates holds calendar-day helpers. Every function takes the location
// explicitly so a "day" always means a day in the user's timezone.
package dates

import (
	"fmt"
	"time"
)

const (
	DayKeyLayout  = "2006-01-02"
	MonthLayout   = "2006-01"
	displayLayout = "2006/01/02 (Mon)"
)

// DayKey returns the YYYY-MM-DD key of t in loc.
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DayKeyLayout)
}

// ParseDayKey parses a YYYY-MM-DD key as the start of that day in loc.
func ParseDayKey(key string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DayKeyLayout, key, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day %q: %w", key, err)
	}
	return t, nil
}

// ParseMonth parses a YYYY-MM string.
func ParseMonth(s string, loc *time.Location) (int, time.Month, error) {
	t, err := time.ParseInLocation(MonthLayout, s, loc)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month %q: %w", s, err)
	}
	return t.Year(), t.Month(), nil
}

func StartOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// EndOfDay returns the last representable instant of t's day in loc.
func EndOfDay(t time.Time, loc *time.Location) time.Time {
	return AddDays(StartOfDay(t, loc), 1).Add(-time.Nanosecond)
}

// DayRange returns [start of day, start of next day).
func DayRange(t time.Time, loc *time.Location) (time.Time, time.Time) {
	start := StartOfDay(t, loc)
	return start, AddDays(start, 1)
}

// MonthRange returns [first day of month, first day of next month).
func MonthRange(year int, month time.Month, loc *time.Location) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 1, 0)
}

// AddDays moves t by n calendar days, keeping the wall clock across DST changes.
func AddDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// DaysBetween counts calendar days from a to b in loc. It is negative when b
// falls on an earlier day than a.
func DaysBetween(a, b time.Time, loc *time.Location) int {
	ay, am, ad := a.In(loc).Date()
	by, bm, bd := b.In(loc).Date()
	// UTC midnights avoid 23h/25h days.
	ua := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	ub := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}

func SameDay(a, b time.Time, loc *time.Location) bool {
	return DayKey(a, loc) == DayKey(b, loc)
}

// FormatDisplay renders t as "2006/01/02 (Mon)".
func FormatDisplay(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(displayLayout)
}

// RelativeLabel describes t relative to now: "today", "yesterday" or
// "N days ago" within a week, the display format otherwise.
func RelativeLabel(t, now time.Time, loc *time.Location) string {
	days := DaysBetween(t, now, loc)
	switch {
	case days == 0:
		return "today"
	case days == 1:
		return "yesterday"
	case days > 1 && days < 7:
		return fmt.Sprintf("%d days ago", days)
	default:
		return FormatDisplay(t, loc)
	}
}

// UntilEndOfDay is the time left in now's day, used for day-scoped TTLs.
func UntilEndOfDay(now time.Time, loc *time.Location) time.Duration {
	_, next := DayRange(now, loc)
	return next.Sub(now)
}
