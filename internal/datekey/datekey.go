// Package datekey converts timestamps into the calendar-day and week keys
// used to bucket study activity. All keys are computed in UTC.
package datekey

import (
	"fmt"
	"time"
)

// Layout is the on-disk format of a day key.
const Layout = "2006-01-02"

// Key returns the UTC calendar day of t as YYYY-MM-DD.
func Key(t time.Time) string {
	return t.UTC().Format(Layout)
}

// Parse returns UTC midnight of the day named by key.
func Parse(key string) (time.Time, error) {
	t, err := time.ParseInLocation(Layout, key, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date key %q: %w", key, err)
	}
	return t, nil
}

// Day truncates t to UTC midnight.
func Day(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of whole days from one key to another.
// The result is negative when to is earlier than from.
func DaysBetween(from, to string) (int, error) {
	f, err := Parse(from)
	if err != nil {
		return 0, err
	}
	t, err := Parse(to)
	if err != nil {
		return 0, err
	}
	return daysFloor(t.Sub(f)), nil
}

func daysFloor(d time.Duration) int {
	days := int(d / (24 * time.Hour))
	if d < 0 && d%(24*time.Hour) != 0 {
		days--
	}
	return days
}

// isoWeekday maps Sunday to 7 so that weeks begin on Monday.
func isoWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// WeekStart returns Monday 00:00 UTC of the week containing t.
func WeekStart(t time.Time) time.Time {
	day := Day(t)
	return day.AddDate(0, 0, 1-isoWeekday(day))
}

// WeekStartKey returns the day key of the Monday starting t's week.
func WeekStartKey(t time.Time) string {
	return Key(WeekStart(t))
}

// WeekRange returns the inclusive bounds of t's week: Monday 00:00:00.000
// through Sunday 23:59:59.999.
func WeekRange(t time.Time) (start, end time.Time) {
	start = WeekStart(t)
	end = start.AddDate(0, 0, 7).Add(-time.Millisecond)
	return start, end
}

// InWeek reports whether t falls within the week containing ref.
func InWeek(t, ref time.Time) bool {
	start, end := WeekRange(ref)
	u := t.UTC()
	return !u.Before(start) && !u.After(end)
}
