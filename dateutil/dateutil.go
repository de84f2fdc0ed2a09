// Package dateutil provides timezone translation and composition helpers.
package dateutil

import (
	"fmt"
	"time"
)

// Common layouts.
const (
	DateTimeLayout = "2006-01-02 15:04:05"
	DateLayout     = "2006-01-02"
)

// ToTimezone translates a time into the target zone. The instant is
// unchanged, the wall-clock representation shifts by the zone offset.
func ToTimezone(t time.Time, loc *time.Location) time.Time {
	return t.In(loc)
}

// ToTimezoneName translates a time into the named zone.
func ToTimezoneName(t time.Time, name string) (time.Time, error) {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.Time{}, fmt.Errorf("unknown timezone %q: %w", name, err)
	}
	return t.In(loc), nil
}

// ToUTC translates a time into UTC.
func ToUTC(t time.Time) time.Time {
	return t.UTC()
}

// CombineDateTime merges the date part of date with the clock part of clock
// into a single time in the given location. The wall-clock values are kept,
// only the zone label is applied. A nil location defaults to the date's
// location.
func CombineDateTime(date, clock time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = date.Location()
	}
	return time.Date(
		date.Year(), date.Month(), date.Day(),
		clock.Hour(), clock.Minute(), clock.Second(), clock.Nanosecond(),
		loc,
	)
}

// SetTimezone relabels a time with a zone without shifting its wall-clock
// values: 14:00 stays 14:00, now interpreted in the target zone.
func SetTimezone(t time.Time, loc *time.Location) time.Time {
	return time.Date(
		t.Year(), t.Month(), t.Day(),
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(),
		loc,
	)
}

// SetTimezoneName relabels a time with the named zone.
func SetTimezoneName(t time.Time, name string) (time.Time, error) {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.Time{}, fmt.Errorf("unknown timezone %q: %w", name, err)
	}
	return SetTimezone(t, loc), nil
}
