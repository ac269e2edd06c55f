package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"venuebook/internal/domain"
	"venuebook/internal/modules/recurring"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockExtender struct {
	mock.Mock
}

func (m *MockExtender) ActiveSeries(ctx context.Context) ([]domain.RecurringReservation, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RecurringReservation), args.Error(1)
}

func (m *MockExtender) ExtendSeries(ctx context.Context, rr *domain.RecurringReservation) (recurring.ExtendResult, error) {
	args := m.Called(ctx, rr)
	return args.Get(0).(recurring.ExtendResult), args.Error(1)
}

func TestRunOnce_ProcessesEverySeries(t *testing.T) {
	ext := new(MockExtender)
	job := NewJob(ext, time.Hour, zerolog.Nop(), nil)

	series := []domain.RecurringReservation{{ID: 1}, {ID: 2}, {ID: 3}}
	ext.On("ActiveSeries", mock.Anything).Return(series, nil)
	ext.On("ExtendSeries", mock.Anything, mock.Anything).Return(recurring.ExtendResult{Inserted: 2}, nil)

	processed, err := job.RunOnce(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 3, processed)
	ext.AssertNumberOfCalls(t, "ExtendSeries", 3)
}

func TestRunOnce_OneFailureDoesNotAbortTheRun(t *testing.T) {
	ext := new(MockExtender)
	job := NewJob(ext, time.Hour, zerolog.Nop(), nil)

	series := []domain.RecurringReservation{{ID: 1}, {ID: 2}, {ID: 3}}
	ext.On("ActiveSeries", mock.Anything).Return(series, nil)
	ext.On("ExtendSeries", mock.Anything, mock.MatchedBy(func(rr *domain.RecurringReservation) bool {
		return rr.ID == 2
	})).Return(recurring.ExtendResult{}, errors.New("boom"))
	ext.On("ExtendSeries", mock.Anything, mock.Anything).Return(recurring.ExtendResult{Inserted: 1}, nil)

	processed, err := job.RunOnce(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 2, processed)
	ext.AssertNumberOfCalls(t, "ExtendSeries", 3)
}

func TestRunOnce_ListFailure(t *testing.T) {
	ext := new(MockExtender)
	job := NewJob(ext, time.Hour, zerolog.Nop(), nil)

	ext.On("ActiveSeries", mock.Anything).Return(nil, errors.New("db down"))

	_, err := job.RunOnce(context.Background())
	assert.Error(t, err)
}

func TestStart_StopsOnContextCancel(t *testing.T) {
	ext := new(MockExtender)
	job := NewJob(ext, 10*time.Millisecond, zerolog.Nop(), nil)

	ext.On("ActiveSeries", mock.Anything).Return([]domain.RecurringReservation{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		job.Start(ctx)
		close(done)
	}()

	time.Sleep(35 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop after cancel")
	}
	// Immediate first run plus at least one tick.
	assert.GreaterOrEqual(t, len(ext.Calls), 2)
}

// Stateful in-memory ports so RunOnce can drive the real recurring service
// end to end instead of a canned extender.

type staticSeriesRepo struct {
	series []domain.RecurringReservation
}

func (r *staticSeriesRepo) Create(ctx context.Context, rr *domain.RecurringReservation, occurrences []domain.Reservation) error {
	return errors.New("unused")
}

func (r *staticSeriesRepo) GetByID(ctx context.Context, id int64) (*domain.RecurringReservation, error) {
	return nil, errors.New("unused")
}

func (r *staticSeriesRepo) FindActiveSeries(ctx context.Context) ([]domain.RecurringReservation, error) {
	return r.series, nil
}

func (r *staticSeriesRepo) CancelSeries(ctx context.Context, id int64, at time.Time) error {
	return errors.New("unused")
}

type memoryOccurrenceStore struct {
	rows []domain.Reservation
}

func (s *memoryOccurrenceStore) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	return nil, errors.New("unused")
}

func (s *memoryOccurrenceStore) LatestOccurrenceStart(ctx context.Context, seriesID int64) (*time.Time, error) {
	var latest *time.Time
	for i := range s.rows {
		r := &s.rows[i]
		if r.RecurringReservationID == nil || *r.RecurringReservationID != seriesID {
			continue
		}
		if r.Status == domain.ReservationCancelled {
			continue
		}
		if latest == nil || r.StartTime.After(*latest) {
			start := r.StartTime
			latest = &start
		}
	}
	return latest, nil
}

func (s *memoryOccurrenceStore) OccurrenceStartsSince(ctx context.Context, seriesID int64, from time.Time) ([]time.Time, error) {
	var starts []time.Time
	for _, r := range s.rows {
		if r.RecurringReservationID != nil && *r.RecurringReservationID == seriesID && !r.StartTime.Before(from) {
			starts = append(starts, r.StartTime)
		}
	}
	return starts, nil
}

func (s *memoryOccurrenceStore) BulkInsert(ctx context.Context, reservations []domain.Reservation) error {
	s.rows = append(s.rows, reservations...)
	return nil
}

func (s *memoryOccurrenceStore) Update(ctx context.Context, r *domain.Reservation) error {
	return errors.New("unused")
}

func (s *memoryOccurrenceStore) CancelOccurrence(ctx context.Context, id int64, at time.Time) error {
	return errors.New("unused")
}

type noConflicts struct{}

func (noConflicts) FindConflicts(ctx context.Context, spaceID int64, ranges []domain.TimeRange, excludeID int64) ([]domain.TimeRange, error) {
	return nil, nil
}

type openGate struct{}

func (openGate) AllowsRecurringReservations(ctx context.Context, organizationID int64) (bool, error) {
	return true, nil
}

func TestRunOnce_RerunInsertsNothingNew(t *testing.T) {
	start := time.Now().UTC().Truncate(time.Minute).AddDate(0, 0, 1)
	store := &memoryOccurrenceStore{}
	svc := recurring.NewService(
		&staticSeriesRepo{series: []domain.RecurringReservation{{
			ID:          1,
			SpaceID:     7,
			CreatedByID: 1,
			StartTime:   start,
			EndTime:     start.Add(time.Hour),
			Frequency:   domain.FrequencyWeekly,
			Interval:    1,
			Status:      domain.RecurringActive,
		}}},
		store,
		noConflicts{},
		openGate{},
		nil,
	)
	job := NewJob(svc, time.Hour, zerolog.Nop(), nil)

	processed, err := job.RunOnce(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 1, processed)
	inserted := len(store.rows)
	assert.True(t, inserted > 0)

	// A second run in the same window finds the series fully populated and
	// must not create duplicate occurrences.
	processed, err = job.RunOnce(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 1, processed)
	assert.Equal(t, inserted, len(store.rows))
}
