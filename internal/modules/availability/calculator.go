package availability

import (
	"sort"

	"venuebook/internal/domain"
)

// UnavailableBlocks returns the complement of the union of rule windows within
// [0, 1440) as an ordered list of blocks. Zero rules means the day is fully
// closed: the whole day comes back as a single block.
func UnavailableBlocks(rules []domain.AvailabilityRule) []domain.UnavailabilityBlock {
	if len(rules) == 0 {
		return []domain.UnavailabilityBlock{{StartMinute: 0, EndMinute: domain.MinutesPerDay}}
	}

	sorted := make([]domain.AvailabilityRule, len(rules))
	copy(sorted, rules)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].StartMinute < sorted[j].StartMinute })

	blocks := make([]domain.UnavailabilityBlock, 0, len(sorted)+1)

	if first := sorted[0]; first.StartMinute > 0 {
		blocks = append(blocks, domain.UnavailabilityBlock{StartMinute: 0, EndMinute: first.StartMinute})
	}

	// Walk adjacent windows, emitting the gaps. Overlapping windows extend the
	// covered edge instead of producing a negative gap.
	covered := sorted[0].EndMinute
	for _, r := range sorted[1:] {
		if covered < r.StartMinute {
			blocks = append(blocks, domain.UnavailabilityBlock{StartMinute: covered, EndMinute: r.StartMinute})
		}
		if r.EndMinute > covered {
			covered = r.EndMinute
		}
	}

	if covered < domain.MinutesPerDay {
		blocks = append(blocks, domain.UnavailabilityBlock{StartMinute: covered, EndMinute: domain.MinutesPerDay})
	}

	return blocks
}

// rulesForDay filters venue rules down to those covering the given space and
// local weekday (0 = Sunday). Venue-wide rules (nil SpaceID) and every-day
// rules (nil DayOfWeek) always pass their respective filter.
func rulesForDay(rules []domain.AvailabilityRule, spaceID int64, weekday int) []domain.AvailabilityRule {
	out := make([]domain.AvailabilityRule, 0, len(rules))
	for _, r := range rules {
		if r.SpaceID != nil && *r.SpaceID != spaceID {
			continue
		}
		if r.DayOfWeek != nil && *r.DayOfWeek != weekday {
			continue
		}
		out = append(out, r)
	}
	return out
}
