package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_StripsSecondsAndConvertsToUTC(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	assert.NoError(t, err)

	in := time.Date(2026, 6, 15, 10, 30, 45, 123456789, loc)
	got := Normalize(in)

	assert.Equal(t, time.UTC, got.Location())
	assert.Equal(t, 0, got.Second())
	assert.Equal(t, 0, got.Nanosecond())
	// 10:30 EDT == 14:30 UTC
	assert.Equal(t, 14, got.Hour())
	assert.Equal(t, 30, got.Minute())
}

func TestAtMinutes_SpringForward(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	assert.NoError(t, err)

	// 2026-03-08: clocks jump from 02:00 to 03:00 EST->EDT.
	day := time.Date(2026, 3, 8, 12, 0, 0, 0, loc)
	got := AtMinutes(day, 600, loc)

	// Minute 600 must still land on local 10:00 even though the day is only
	// 23 hours long.
	assert.Equal(t, 10, got.In(loc).Hour())
	assert.Equal(t, 0, got.In(loc).Minute())

	// Only 9 real hours separate local midnight from local 10:00.
	midnight := DayStart(day, loc)
	assert.Equal(t, 9*time.Hour, got.Sub(midnight))
}

func TestAtMinutes_FallBack(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	assert.NoError(t, err)

	// 2026-11-01: clocks fall back from 02:00 EDT to 01:00 EST.
	day := time.Date(2026, 11, 1, 12, 0, 0, 0, loc)
	got := AtMinutes(day, 600, loc)

	assert.Equal(t, 10, got.In(loc).Hour())

	// The repeated hour makes the elapsed time 11 real hours.
	midnight := DayStart(day, loc)
	assert.Equal(t, 11*time.Hour, got.Sub(midnight))
}

func TestMinuteOfDay(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	assert.NoError(t, err)

	at := time.Date(2026, 1, 10, 23, 59, 0, 0, loc)
	assert.Equal(t, 1439, MinuteOfDay(at, loc))

	// Same instant read in UTC lands on a different minute of day.
	assert.Equal(t, 22*60+59, MinuteOfDay(at, time.UTC))
}

func TestWeekday_RespectsLocation(t *testing.T) {
	loc, err := time.LoadLocation("Pacific/Auckland")
	assert.NoError(t, err)

	// Saturday 23:00 UTC is already Sunday in Auckland.
	at := time.Date(2026, 1, 10, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, 6, Weekday(at, time.UTC))
	assert.Equal(t, 0, Weekday(at, loc))
}

func TestLocationFor_Unknown(t *testing.T) {
	_, err := LocationFor("Not/AZone")
	assert.Error(t, err)
}
