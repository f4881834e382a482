package timeutil

import (
	"fmt"
	"time"
)

var defaultLocation = time.UTC

// ResolveLocation returns the configured location with UTC fallback.
func ResolveLocation(timezone string) (*time.Location, bool) {
	if timezone == "" {
		return defaultLocation, true
	}

	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return defaultLocation, true
	}
	return loc, false
}

// SameDay reports whether a and b fall on the same calendar date in a's location.
func SameDay(a, b time.Time) bool {
	b = b.In(a.Location())
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// ParseDateTime combines a YYYY-MM-DD date and HH:MM 24-hour time into an
// instant in the given location.
func ParseDateTime(date, clock string, loc *time.Location) (time.Time, error) {
	if date == "" || clock == "" {
		return time.Time{}, fmt.Errorf("date and time are required")
	}

	t, err := time.ParseInLocation("2006-01-02T15:04", date+"T"+clock, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("unable to parse %s at %s: %w", date, clock, err)
	}
	return t, nil
}
