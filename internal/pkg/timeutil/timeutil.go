// Package timeutil converts between a venue's local wall-clock time and
// absolute instants. All functions are pure; DST transitions are handled by
// resolving wall-clock components through the IANA location rather than by
// applying a fixed offset.
package timeutil

import (
	"fmt"
	"time"
)

// LocationFor resolves an IANA timezone identifier.
func LocationFor(tzID string) (*time.Location, error) {
	loc, err := time.LoadLocation(tzID)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", tzID, err)
	}
	return loc, nil
}

// Normalize returns t in UTC with seconds and sub-second precision zeroed.
// Reservations are always stored in this form.
func Normalize(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), u.Hour(), u.Minute(), 0, 0, time.UTC)
}

// DayStart returns local midnight of the day containing t in loc.
func DayStart(t time.Time, loc *time.Location) time.Time {
	lt := t.In(loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, loc)
}

// AtMinutes returns the absolute instant that is the given number of minutes
// past local midnight on the day containing day (interpreted in loc). Going
// through time.Date keeps the result correct across DST transitions: on a
// spring-forward day, minute 600 still lands on local 10:00.
func AtMinutes(day time.Time, minutes int, loc *time.Location) time.Time {
	lt := day.In(loc)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, minutes, 0, 0, loc)
}

// MinuteOfDay returns how many minutes past local midnight t falls in loc.
func MinuteOfDay(t time.Time, loc *time.Location) int {
	lt := t.In(loc)
	return lt.Hour()*60 + lt.Minute()
}

// Weekday returns the local day of week for t in loc (0 = Sunday).
func Weekday(t time.Time, loc *time.Location) int {
	return int(t.In(loc).Weekday())
}
