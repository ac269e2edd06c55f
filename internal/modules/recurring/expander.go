package recurring

import (
	"time"

	"venuebook/internal/domain"
)

// DefaultHorizon bounds expansion when a series has no end date.
const DefaultHorizon = 90 * 24 * time.Hour

// NextOccurrences expands a series template into the finite list of
// occurrences whose start falls in [startFrom, horizon]. The horizon is
// endsOn when set, otherwise startFrom plus DefaultHorizon. Each occurrence
// keeps the template's duration.
//
// Steps are computed from the template start (templateStart.AddDate with a
// multiplied offset), not cumulatively, so the day-of-month stays anchored.
// Monthly series on short months follow Go's AddDate normalization and roll
// forward: a Jan 31 template yields Feb 28 + 3 days = Mar 3 for its February
// occurrence. This is deliberate and documented rather than clamped.
func NextOccurrences(templateStart, templateEnd time.Time, freq domain.Frequency, interval int, endsOn *time.Time, startFrom time.Time) []domain.TimeRange {
	if interval < 1 || !domain.ValidFrequency(freq) || !templateStart.Before(templateEnd) {
		return nil
	}

	horizon := startFrom.Add(DefaultHorizon)
	if endsOn != nil {
		horizon = *endsOn
	}

	duration := templateEnd.Sub(templateStart)
	out := []domain.TimeRange{}

	for n := 0; ; n++ {
		var start time.Time
		switch freq {
		case domain.FrequencyDaily:
			start = templateStart.AddDate(0, 0, n*interval)
		case domain.FrequencyWeekly:
			start = templateStart.AddDate(0, 0, n*interval*7)
		case domain.FrequencyMonthly:
			start = templateStart.AddDate(0, n*interval, 0)
		}

		if start.After(horizon) {
			break
		}
		if start.Before(startFrom) {
			continue
		}
		out = append(out, domain.TimeRange{Start: start, End: start.Add(duration)})
	}

	return out
}
