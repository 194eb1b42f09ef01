package services

import "time"

// DayFormat is the wire format for calendar days.
const DayFormat = "2006-01-02"

// DateOnly normalizes a timestamp to its calendar day at UTC midnight.
// Check-in days carry no time component; every comparison in this package
// goes through this normalization first.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDay parses a YYYY-MM-DD string into a normalized day.
func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse(DayFormat, s)
	if err != nil {
		return time.Time{}, err
	}
	return DateOnly(t), nil
}

// TodayIn is the current calendar day as observed in loc.
func TodayIn(now time.Time, loc *time.Location) time.Time {
	return DateOnly(now.In(loc))
}
