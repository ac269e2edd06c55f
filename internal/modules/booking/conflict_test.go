package booking

import (
	"context"
	"testing"
	"time"

	"venuebook/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func tr(startHour, endHour int) domain.TimeRange {
	day := time.Date(2026, 6, 8, 0, 0, 0, 0, time.UTC)
	return domain.TimeRange{
		Start: day.Add(time.Duration(startHour) * time.Hour),
		End:   day.Add(time.Duration(endHour) * time.Hour),
	}
}

func TestTimeRangeOverlaps_HalfOpen(t *testing.T) {
	cases := []struct {
		name string
		a, b domain.TimeRange
		want bool
	}{
		{"disjoint", tr(9, 10), tr(11, 12), false},
		{"touching boundary", tr(9, 10), tr(10, 11), false},
		{"partial overlap", tr(9, 11), tr(10, 12), true},
		{"contained", tr(9, 12), tr(10, 11), true},
		{"identical", tr(9, 10), tr(9, 10), true},
		{"one minute overlap", domain.TimeRange{Start: tr(9, 10).Start, End: tr(9, 10).End.Add(time.Minute)}, tr(10, 11), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.a.Overlaps(tc.b))
			assert.Equal(t, tc.want, tc.b.Overlaps(tc.a))
		})
	}
}

func TestChecker_ReturnsOnlyConflictingRanges(t *testing.T) {
	repo := new(MockReservationRepository)
	checker := NewChecker(repo)

	busy := tr(10, 12)
	freeRange := tr(13, 14)

	repo.On("FindOverlapping", mock.Anything, int64(7), busy, int64(0)).
		Return([]domain.Reservation{{ID: 1, SpaceID: 7, StartTime: busy.Start, EndTime: busy.End}}, nil)
	repo.On("FindOverlapping", mock.Anything, int64(7), freeRange, int64(0)).Return(nil, nil)

	got, err := checker.FindConflicts(context.Background(), 7, []domain.TimeRange{busy, freeRange}, 0)
	assert.NoError(t, err)
	assert.Equal(t, []domain.TimeRange{busy}, got)
}

func TestChecker_PassesExcludeID(t *testing.T) {
	repo := new(MockReservationRepository)
	checker := NewChecker(repo)

	rg := tr(10, 12)
	repo.On("FindOverlapping", mock.Anything, int64(7), rg, int64(5)).Return(nil, nil)

	got, err := checker.FindConflicts(context.Background(), 7, []domain.TimeRange{rg}, 5)
	assert.NoError(t, err)
	assert.Empty(t, got)
	repo.AssertExpectations(t)
}
