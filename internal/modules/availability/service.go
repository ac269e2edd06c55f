package availability

import (
	"context"
	"errors"
	"time"

	"venuebook/internal/domain"
	"venuebook/internal/pkg/timeutil"

	"gorm.io/gorm"
)

type Service struct {
	spaces SpaceRepository
	rules  AvailabilityRuleRepository
}

func NewService(spaces SpaceRepository, rules AvailabilityRuleRepository) *Service {
	return &Service{spaces: spaces, rules: rules}
}

type DayUnavailability struct {
	SpaceID int64                        `json:"space_id"`
	Date    string                       `json:"date"`
	Blocks  []domain.UnavailabilityBlock `json:"blocks"`
}

// GetDayUnavailability computes the unavailable minute ranges for a space on
// the given date, interpreted in the venue's timezone.
func (s *Service) GetDayUnavailability(ctx context.Context, spaceID int64, dateStr string) (*DayUnavailability, error) {
	day, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return nil, ErrValidation
	}

	space, err := s.spaces.GetSpace(ctx, spaceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	rules, err := s.rules.GetByVenueID(ctx, space.VenueID)
	if err != nil {
		return nil, err
	}

	// dateStr names a calendar day in the venue's own timezone, so the
	// weekday comes straight off the parsed date.
	blocks := UnavailableBlocks(rulesForDay(rules, spaceID, int(day.Weekday())))

	return &DayUnavailability{SpaceID: spaceID, Date: dateStr, Blocks: blocks}, nil
}

// CreateRule stores a new open-hours rule for the venue. The window must lie
// inside a single day and the optional day of week inside 0-6.
func (s *Service) CreateRule(ctx context.Context, rule *domain.AvailabilityRule) error {
	if !rule.Valid() {
		return ErrValidation
	}
	if rule.DayOfWeek != nil && (*rule.DayOfWeek < 0 || *rule.DayOfWeek > 6) {
		return ErrValidation
	}
	return s.rules.Create(ctx, rule)
}

// CoversRange reports whether the candidate range falls entirely inside the
// venue's open windows. Ranges spanning local midnight are checked day by day.
func (s *Service) CoversRange(ctx context.Context, space *domain.Space, start, end time.Time) (bool, error) {
	loc, err := timeutil.LocationFor(space.Venue.TimezoneID)
	if err != nil {
		return false, err
	}
	rules, err := s.rules.GetByVenueID(ctx, space.VenueID)
	if err != nil {
		return false, err
	}

	for cur := start; cur.Before(end); {
		dayEnd := timeutil.DayStart(cur, loc).AddDate(0, 0, 1)
		segEnd := end
		if dayEnd.Before(segEnd) {
			segEnd = dayEnd
		}

		weekday := timeutil.Weekday(cur, loc)
		blocks := UnavailableBlocks(rulesForDay(rules, space.ID, weekday))

		segStartMin := timeutil.MinuteOfDay(cur, loc)
		segEndMin := timeutil.MinuteOfDay(segEnd, loc)
		if segEndMin == 0 && segEnd.After(cur) {
			segEndMin = domain.MinutesPerDay
		}

		for _, b := range blocks {
			if segStartMin < b.EndMinute && b.StartMinute < segEndMin {
				return false, nil
			}
		}

		cur = segEnd
	}
	return true, nil
}
