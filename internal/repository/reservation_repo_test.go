package repository

import (
	"context"
	"testing"
	"time"

	"venuebook/internal/database"
	"venuebook/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// newTestDB opens a throwaway in-memory SQLite database, the same driver the
// local-development path uses, so the overlap re-checks are exercised on the
// backend that has no exclusion constraint.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect("file:" + t.Name() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	return db
}

func confirmedAt(spaceID int64, start time.Time, d time.Duration) domain.Reservation {
	return domain.Reservation{
		SpaceID:     spaceID,
		StartTime:   start,
		EndTime:     start.Add(d),
		Status:      domain.ReservationConfirmed,
		CreatedByID: 1,
		UserID:      1,
	}
}

func countReservations(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var cnt int64
	require.NoError(t, db.Model(&reservationModel{}).Count(&cnt).Error)
	return cnt
}

func TestCreateChecked_RejectsOverlapOnSQLite(t *testing.T) {
	db := newTestDB(t)
	repo := NewReservationRepository(db)
	ctx := context.Background()

	start := time.Date(2026, 6, 8, 10, 0, 0, 0, time.UTC)
	first := confirmedAt(1, start, time.Hour)
	require.NoError(t, repo.CreateChecked(ctx, &first))
	assert.NotZero(t, first.ID)

	second := confirmedAt(1, start.Add(30*time.Minute), time.Hour)
	assert.ErrorIs(t, repo.CreateChecked(ctx, &second), ErrOverlap)

	// Touching boundary is not an overlap.
	third := confirmedAt(1, start.Add(time.Hour), time.Hour)
	assert.NoError(t, repo.CreateChecked(ctx, &third))
	assert.Equal(t, int64(2), countReservations(t, db))
}

func TestBulkInsert_OverlapAbortsWholeBatch(t *testing.T) {
	db := newTestDB(t)
	repo := NewReservationRepository(db)
	ctx := context.Background()

	start := time.Date(2026, 6, 8, 10, 0, 0, 0, time.UTC)
	existing := confirmedAt(1, start, time.Hour)
	require.NoError(t, repo.CreateChecked(ctx, &existing))

	// The free slot comes first in the batch; the conflicting one must still
	// roll the whole insert back.
	batch := []domain.Reservation{
		confirmedAt(1, start.Add(2*time.Hour), time.Hour),
		confirmedAt(1, start.Add(30*time.Minute), time.Hour),
	}
	assert.ErrorIs(t, repo.BulkInsert(ctx, batch), ErrOverlap)
	assert.Equal(t, int64(1), countReservations(t, db))
}

func TestRecurringCreate_ConflictRollsBackSeries(t *testing.T) {
	db := newTestDB(t)
	reservations := NewReservationRepository(db)
	series := NewRecurringReservationRepository(db)
	ctx := context.Background()

	jun8 := time.Date(2026, 6, 8, 10, 0, 0, 0, time.UTC)
	jun15 := jun8.AddDate(0, 0, 7)

	existing := confirmedAt(1, jun15, time.Hour)
	require.NoError(t, reservations.CreateChecked(ctx, &existing))

	rr := &domain.RecurringReservation{
		SpaceID:        1,
		OrganizationID: 1,
		CreatedByID:    1,
		StartTime:      jun8,
		EndTime:        jun8.Add(time.Hour),
		Frequency:      domain.FrequencyWeekly,
		Interval:       1,
		Status:         domain.RecurringActive,
	}
	err := series.Create(ctx, rr, []domain.Reservation{
		confirmedAt(1, jun8, time.Hour),
		confirmedAt(1, jun15, time.Hour),
	})
	assert.ErrorIs(t, err, ErrOverlap)

	// Nothing landed: no series row, no partial occurrence batch.
	var seriesCount int64
	require.NoError(t, db.Model(&recurringModel{}).Count(&seriesCount).Error)
	assert.Equal(t, int64(0), seriesCount)
	assert.Equal(t, int64(1), countReservations(t, db))
}

func TestOccurrenceStartsSince_IncludesCancelledRows(t *testing.T) {
	db := newTestDB(t)
	reservations := NewReservationRepository(db)
	series := NewRecurringReservationRepository(db)
	ctx := context.Background()

	jun8 := time.Date(2026, 6, 8, 10, 0, 0, 0, time.UTC)
	jun15 := jun8.AddDate(0, 0, 7)

	rr := &domain.RecurringReservation{
		SpaceID:        1,
		OrganizationID: 1,
		CreatedByID:    1,
		StartTime:      jun8,
		EndTime:        jun8.Add(time.Hour),
		Frequency:      domain.FrequencyWeekly,
		Interval:       1,
		Status:         domain.RecurringActive,
	}
	require.NoError(t, series.Create(ctx, rr, []domain.Reservation{
		confirmedAt(1, jun8, time.Hour),
		confirmedAt(1, jun15, time.Hour),
	}))
	require.Len(t, rr.Occurrences, 2)

	require.NoError(t, reservations.CancelOccurrence(ctx, rr.Occurrences[1].ID, jun8))

	// The cancelled June 15 slot keeps its row and stays visible, so the
	// extension path can treat it as a hole instead of a free slot.
	starts, err := reservations.OccurrenceStartsSince(ctx, rr.ID, jun8)
	require.NoError(t, err)
	require.Len(t, starts, 2)
	assert.True(t, starts[0].Equal(jun8))
	assert.True(t, starts[1].Equal(jun15))

	latest, err := reservations.LatestOccurrenceStart(ctx, rr.ID)
	require.NoError(t, err)
	assert.True(t, latest.Equal(jun8))
}
