package recurring

import (
	"context"
	"testing"
	"time"

	"venuebook/internal/domain"
	"venuebook/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

type MockRecurringRepository struct {
	mock.Mock
}

func (m *MockRecurringRepository) Create(ctx context.Context, rr *domain.RecurringReservation, occurrences []domain.Reservation) error {
	args := m.Called(ctx, rr, occurrences)
	if rr != nil {
		rr.ID = 42 // simulate DB insert
	}
	return args.Error(0)
}

func (m *MockRecurringRepository) GetByID(ctx context.Context, id int64) (*domain.RecurringReservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecurringReservation), args.Error(1)
}

func (m *MockRecurringRepository) FindActiveSeries(ctx context.Context) ([]domain.RecurringReservation, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RecurringReservation), args.Error(1)
}

func (m *MockRecurringRepository) CancelSeries(ctx context.Context, id int64, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

type MockOccurrenceRepository struct {
	mock.Mock
}

func (m *MockOccurrenceRepository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockOccurrenceRepository) LatestOccurrenceStart(ctx context.Context, seriesID int64) (*time.Time, error) {
	args := m.Called(ctx, seriesID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*time.Time), args.Error(1)
}

func (m *MockOccurrenceRepository) OccurrenceStartsSince(ctx context.Context, seriesID int64, from time.Time) ([]time.Time, error) {
	args := m.Called(ctx, seriesID, from)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]time.Time), args.Error(1)
}

func (m *MockOccurrenceRepository) BulkInsert(ctx context.Context, reservations []domain.Reservation) error {
	args := m.Called(ctx, reservations)
	return args.Error(0)
}

func (m *MockOccurrenceRepository) Update(ctx context.Context, r *domain.Reservation) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockOccurrenceRepository) CancelOccurrence(ctx context.Context, id int64, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

type MockConflictFinder struct {
	mock.Mock
}

func (m *MockConflictFinder) FindConflicts(ctx context.Context, spaceID int64, ranges []domain.TimeRange, excludeID int64) ([]domain.TimeRange, error) {
	args := m.Called(ctx, spaceID, ranges, excludeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TimeRange), args.Error(1)
}

type MockOrganizationGate struct {
	mock.Mock
}

func (m *MockOrganizationGate) AllowsRecurringReservations(ctx context.Context, organizationID int64) (bool, error) {
	args := m.Called(ctx, organizationID)
	return args.Bool(0), args.Error(1)
}

type fixture struct {
	series      *MockRecurringRepository
	occurrences *MockOccurrenceRepository
	conflicts   *MockConflictFinder
	orgs        *MockOrganizationGate
	svc         *Service
}

func newFixture(now time.Time) *fixture {
	f := &fixture{
		series:      new(MockRecurringRepository),
		occurrences: new(MockOccurrenceRepository),
		conflicts:   new(MockConflictFinder),
		orgs:        new(MockOrganizationGate),
	}
	f.svc = NewService(f.series, f.occurrences, f.conflicts, f.orgs, nil)
	f.svc.now = func() time.Time { return now }
	return f
}

var testNow = time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

func weeklyRequest() CreateRequest {
	start := time.Date(2026, 6, 8, 10, 0, 0, 0, time.UTC)
	endsOn := start.AddDate(0, 0, 14)
	return CreateRequest{
		SpaceID:        7,
		OrganizationID: 3,
		StartTime:      start,
		EndTime:        start.Add(2 * time.Hour),
		Frequency:      domain.FrequencyWeekly,
		Interval:       1,
		EndsOn:         &endsOn,
		CreatedByID:    1,
	}
}

func TestCreate_ExpandsAndPersistsAtomically(t *testing.T) {
	f := newFixture(testNow)
	req := weeklyRequest()

	f.orgs.On("AllowsRecurringReservations", mock.Anything, int64(3)).Return(true, nil)
	f.conflicts.On("FindConflicts", mock.Anything, int64(7), mock.Anything, int64(0)).Return(nil, nil)
	f.series.On("Create", mock.Anything, mock.Anything, mock.MatchedBy(func(occ []domain.Reservation) bool {
		return len(occ) == 3
	})).Return(nil)

	rr, err := f.svc.Create(context.Background(), req)
	assert.NoError(t, err)
	assert.Equal(t, domain.RecurringActive, rr.Status)
	f.series.AssertExpectations(t)
}

func TestCreate_SingleConflictRejectsWholeSeries(t *testing.T) {
	f := newFixture(testNow)
	req := weeklyRequest()

	f.orgs.On("AllowsRecurringReservations", mock.Anything, int64(3)).Return(true, nil)
	f.conflicts.On("FindConflicts", mock.Anything, int64(7), mock.Anything, int64(0)).
		Return([]domain.TimeRange{{Start: req.StartTime, End: req.EndTime}}, nil)

	_, err := f.svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, ErrConflict)
	f.series.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreate_OrganizationNotAllowed(t *testing.T) {
	f := newFixture(testNow)

	f.orgs.On("AllowsRecurringReservations", mock.Anything, int64(3)).Return(false, nil)

	_, err := f.svc.Create(context.Background(), weeklyRequest())
	assert.ErrorIs(t, err, ErrNotAllowed)
}

func TestCreate_Validation(t *testing.T) {
	f := newFixture(testNow)

	req := weeklyRequest()
	req.EndTime = req.StartTime
	_, err := f.svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, ErrValidation)

	req = weeklyRequest()
	req.Interval = 0
	_, err = f.svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, ErrValidation)

	req = weeklyRequest()
	req.Frequency = "hourly"
	_, err = f.svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreate_RaceLostAtInsertMapsToConflict(t *testing.T) {
	f := newFixture(testNow)

	f.orgs.On("AllowsRecurringReservations", mock.Anything, int64(3)).Return(true, nil)
	f.conflicts.On("FindConflicts", mock.Anything, int64(7), mock.Anything, int64(0)).Return(nil, nil)
	f.series.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(repository.ErrOverlap)

	_, err := f.svc.Create(context.Background(), weeklyRequest())
	assert.ErrorIs(t, err, ErrConflict)
}

func TestCancelSeries(t *testing.T) {
	f := newFixture(testNow)

	active := &domain.RecurringReservation{ID: 42, CreatedByID: 1, Status: domain.RecurringActive}
	cancelled := &domain.RecurringReservation{ID: 42, CreatedByID: 1, Status: domain.RecurringCancelled}

	f.series.On("GetByID", mock.Anything, int64(42)).Return(active, nil).Once()
	f.series.On("CancelSeries", mock.Anything, int64(42), testNow).Return(nil)
	f.series.On("GetByID", mock.Anything, int64(42)).Return(cancelled, nil).Once()

	rr, err := f.svc.CancelSeries(context.Background(), 42, 1)
	assert.NoError(t, err)
	assert.Equal(t, domain.RecurringCancelled, rr.Status)
}

func TestCancelSeries_NotOwner(t *testing.T) {
	f := newFixture(testNow)

	f.series.On("GetByID", mock.Anything, int64(42)).
		Return(&domain.RecurringReservation{ID: 42, CreatedByID: 1, Status: domain.RecurringActive}, nil)

	_, err := f.svc.CancelSeries(context.Background(), 42, 99)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestCancelSeries_AlreadyCancelled(t *testing.T) {
	f := newFixture(testNow)

	f.series.On("GetByID", mock.Anything, int64(42)).
		Return(&domain.RecurringReservation{ID: 42, CreatedByID: 1, Status: domain.RecurringCancelled}, nil)

	_, err := f.svc.CancelSeries(context.Background(), 42, 1)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestCancelOccurrence_PastOccurrence(t *testing.T) {
	f := newFixture(testNow)
	seriesID := int64(42)

	f.series.On("GetByID", mock.Anything, seriesID).
		Return(&domain.RecurringReservation{ID: seriesID, CreatedByID: 1, Status: domain.RecurringActive}, nil)
	f.occurrences.On("GetByID", mock.Anything, int64(5)).Return(&domain.Reservation{
		ID:                     5,
		RecurringReservationID: &seriesID,
		StartTime:              testNow.AddDate(0, 0, -1),
		Status:                 domain.ReservationConfirmed,
	}, nil)

	_, err := f.svc.CancelOccurrence(context.Background(), seriesID, 5, 1)
	assert.ErrorIs(t, err, ErrInvalidState)
	f.occurrences.AssertNotCalled(t, "CancelOccurrence", mock.Anything, mock.Anything, mock.Anything)
}

func TestCancelOccurrence_FutureOccurrence(t *testing.T) {
	f := newFixture(testNow)
	seriesID := int64(42)

	future := &domain.Reservation{
		ID:                     5,
		RecurringReservationID: &seriesID,
		StartTime:              testNow.AddDate(0, 0, 7),
		Status:                 domain.ReservationConfirmed,
	}
	after := *future
	after.Status = domain.ReservationCancelled
	after.IsException = true

	f.series.On("GetByID", mock.Anything, seriesID).
		Return(&domain.RecurringReservation{ID: seriesID, CreatedByID: 1, Status: domain.RecurringActive}, nil)
	f.occurrences.On("GetByID", mock.Anything, int64(5)).Return(future, nil).Once()
	f.occurrences.On("CancelOccurrence", mock.Anything, int64(5), testNow).Return(nil)
	f.occurrences.On("GetByID", mock.Anything, int64(5)).Return(&after, nil).Once()

	occ, err := f.svc.CancelOccurrence(context.Background(), seriesID, 5, 1)
	assert.NoError(t, err)
	assert.Equal(t, domain.ReservationCancelled, occ.Status)
	assert.True(t, occ.IsException)
}

func TestCancelOccurrence_WrongSeries(t *testing.T) {
	f := newFixture(testNow)
	otherSeries := int64(77)

	f.series.On("GetByID", mock.Anything, int64(42)).
		Return(&domain.RecurringReservation{ID: 42, CreatedByID: 1, Status: domain.RecurringActive}, nil)
	f.occurrences.On("GetByID", mock.Anything, int64(5)).Return(&domain.Reservation{
		ID:                     5,
		RecurringReservationID: &otherSeries,
		StartTime:              testNow.AddDate(0, 0, 7),
		Status:                 domain.ReservationConfirmed,
	}, nil)

	_, err := f.svc.CancelOccurrence(context.Background(), 42, 5, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestModifyOccurrence_TimeChangeConflict(t *testing.T) {
	f := newFixture(testNow)
	seriesID := int64(42)

	occ := &domain.Reservation{
		ID:                     5,
		SpaceID:                7,
		RecurringReservationID: &seriesID,
		StartTime:              testNow.AddDate(0, 0, 7),
		EndTime:                testNow.AddDate(0, 0, 7).Add(time.Hour),
		Status:                 domain.ReservationConfirmed,
		CreatedByID:            1,
	}
	newStart := occ.StartTime.Add(2 * time.Hour)
	newEnd := newStart.Add(time.Hour)

	f.occurrences.On("GetByID", mock.Anything, int64(5)).Return(occ, nil)
	f.conflicts.On("FindConflicts", mock.Anything, int64(7), mock.Anything, int64(5)).
		Return([]domain.TimeRange{{Start: newStart, End: newEnd}}, nil)

	_, err := f.svc.ModifyOccurrence(context.Background(), ModifyOccurrenceRequest{
		ReservationID: 5,
		StartTime:     &newStart,
		EndTime:       &newEnd,
		ActorID:       1,
	})
	assert.ErrorIs(t, err, ErrConflict)
	f.occurrences.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestModifyOccurrence_MarksException(t *testing.T) {
	f := newFixture(testNow)
	seriesID := int64(42)

	occ := &domain.Reservation{
		ID:                     5,
		SpaceID:                7,
		RecurringReservationID: &seriesID,
		StartTime:              testNow.AddDate(0, 0, 7),
		EndTime:                testNow.AddDate(0, 0, 7).Add(time.Hour),
		Status:                 domain.ReservationConfirmed,
		CreatedByID:            1,
	}
	desc := "moved by request"

	f.occurrences.On("GetByID", mock.Anything, int64(5)).Return(occ, nil)
	f.occurrences.On("Update", mock.Anything, mock.MatchedBy(func(r *domain.Reservation) bool {
		return r.IsException && r.Description == desc
	})).Return(nil)

	got, err := f.svc.ModifyOccurrence(context.Background(), ModifyOccurrenceRequest{
		ReservationID: 5,
		Description:   &desc,
		ActorID:       1,
	})
	assert.NoError(t, err)
	assert.True(t, got.IsException)
	f.occurrences.AssertExpectations(t)
}

func activeSeries(endsOn *time.Time) *domain.RecurringReservation {
	start := time.Date(2026, 6, 8, 10, 0, 0, 0, time.UTC)
	return &domain.RecurringReservation{
		ID:          42,
		SpaceID:     7,
		CreatedByID: 1,
		StartTime:   start,
		EndTime:     start.Add(time.Hour),
		Frequency:   domain.FrequencyWeekly,
		Interval:    1,
		EndsOn:      endsOn,
		Status:      domain.RecurringActive,
	}
}

func TestExtendSeries_TopsUpThinWindow(t *testing.T) {
	f := newFixture(testNow)
	rr := activeSeries(nil)

	latest := time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC) // two weeks out
	f.occurrences.On("LatestOccurrenceStart", mock.Anything, int64(42)).Return(&latest, nil)
	f.occurrences.On("OccurrenceStartsSince", mock.Anything, int64(42), mock.Anything).Return(nil, nil)
	f.conflicts.On("FindConflicts", mock.Anything, int64(7), mock.Anything, int64(0)).Return(nil, nil)
	f.occurrences.On("BulkInsert", mock.Anything, mock.MatchedBy(func(batch []domain.Reservation) bool {
		if len(batch) == 0 {
			return false
		}
		// Nothing on or before the latest existing occurrence.
		for _, r := range batch {
			if !r.StartTime.After(latest) {
				return false
			}
			if r.RecurringReservationID == nil || *r.RecurringReservationID != 42 {
				return false
			}
		}
		return true
	})).Return(nil)

	res, err := f.svc.ExtendSeries(context.Background(), rr)
	assert.NoError(t, err)
	assert.True(t, res.Inserted > 0)
	assert.Equal(t, 0, res.Dropped)
	f.occurrences.AssertExpectations(t)
}

func TestExtendSeries_AlreadyPopulatedIsNoOp(t *testing.T) {
	f := newFixture(testNow)
	rr := activeSeries(nil)

	latest := testNow.Add(ExtendLookahead + 24*time.Hour)
	f.occurrences.On("LatestOccurrenceStart", mock.Anything, int64(42)).Return(&latest, nil)

	res, err := f.svc.ExtendSeries(context.Background(), rr)
	assert.NoError(t, err)
	assert.Equal(t, 0, res.Inserted)
	f.occurrences.AssertNotCalled(t, "BulkInsert", mock.Anything, mock.Anything)
}

func TestExtendSeries_DropsConflictingOccurrences(t *testing.T) {
	f := newFixture(testNow)
	rr := activeSeries(nil)

	latest := time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC)
	conflictAt := time.Date(2026, 6, 22, 10, 0, 0, 0, time.UTC)

	f.occurrences.On("LatestOccurrenceStart", mock.Anything, int64(42)).Return(&latest, nil)
	f.occurrences.On("OccurrenceStartsSince", mock.Anything, int64(42), mock.Anything).Return(nil, nil)
	f.conflicts.On("FindConflicts", mock.Anything, int64(7), mock.MatchedBy(func(ranges []domain.TimeRange) bool {
		return len(ranges) == 1 && ranges[0].Start.Equal(conflictAt)
	}), int64(0)).Return([]domain.TimeRange{{Start: conflictAt, End: conflictAt.Add(time.Hour)}}, nil)
	f.conflicts.On("FindConflicts", mock.Anything, int64(7), mock.Anything, int64(0)).Return(nil, nil)
	f.occurrences.On("BulkInsert", mock.Anything, mock.MatchedBy(func(batch []domain.Reservation) bool {
		for _, r := range batch {
			if r.StartTime.Equal(conflictAt) {
				return false
			}
		}
		return true
	})).Return(nil)

	res, err := f.svc.ExtendSeries(context.Background(), rr)
	assert.NoError(t, err)
	assert.Equal(t, 1, res.Dropped)
	assert.True(t, res.Inserted > 0)
}

func TestExtendSeries_CancelledSeriesUntouched(t *testing.T) {
	f := newFixture(testNow)
	rr := activeSeries(nil)
	rr.Status = domain.RecurringCancelled

	res, err := f.svc.ExtendSeries(context.Background(), rr)
	assert.NoError(t, err)
	assert.Equal(t, ExtendResult{SeriesID: 42}, res)
	f.occurrences.AssertNotCalled(t, "LatestOccurrenceStart", mock.Anything, mock.Anything)
}

func TestExtendSeries_RaceLostAtBulkInsert(t *testing.T) {
	f := newFixture(testNow)
	rr := activeSeries(nil)

	latest := time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC)
	f.occurrences.On("LatestOccurrenceStart", mock.Anything, int64(42)).Return(&latest, nil)
	f.occurrences.On("OccurrenceStartsSince", mock.Anything, int64(42), mock.Anything).Return(nil, nil)
	f.conflicts.On("FindConflicts", mock.Anything, int64(7), mock.Anything, int64(0)).Return(nil, nil)
	f.occurrences.On("BulkInsert", mock.Anything, mock.Anything).Return(repository.ErrOverlap)

	res, err := f.svc.ExtendSeries(context.Background(), rr)
	// A lost race drops the batch and leaves it for the next run.
	assert.NoError(t, err)
	assert.Equal(t, 0, res.Inserted)
	assert.True(t, res.Dropped > 0)
}

func TestExtendSeries_NeverResurrectsCancelledOccurrence(t *testing.T) {
	f := newFixture(testNow)
	rr := activeSeries(nil)

	// The June 22 occurrence was cancelled individually, so the latest
	// non-cancelled occurrence is June 15 and the cancelled row sits inside
	// the expansion window as an exception.
	latest := time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC)
	cancelledAt := time.Date(2026, 6, 22, 10, 0, 0, 0, time.UTC)

	f.occurrences.On("LatestOccurrenceStart", mock.Anything, int64(42)).Return(&latest, nil)
	f.occurrences.On("OccurrenceStartsSince", mock.Anything, int64(42), mock.Anything).
		Return([]time.Time{cancelledAt}, nil)
	f.conflicts.On("FindConflicts", mock.Anything, int64(7), mock.Anything, int64(0)).Return(nil, nil)
	f.occurrences.On("BulkInsert", mock.Anything, mock.MatchedBy(func(batch []domain.Reservation) bool {
		for _, r := range batch {
			if r.StartTime.Equal(cancelledAt) {
				return false
			}
		}
		return len(batch) > 0
	})).Return(nil)

	res, err := f.svc.ExtendSeries(context.Background(), rr)
	assert.NoError(t, err)
	assert.True(t, res.Inserted > 0)
	f.occurrences.AssertExpectations(t)

	// The cancelled slot was not even offered to the conflict detector.
	for _, call := range f.conflicts.Calls {
		ranges := call.Arguments.Get(2).([]domain.TimeRange)
		for _, rg := range ranges {
			assert.False(t, rg.Start.Equal(cancelledAt))
		}
	}
}

func TestGetSeries_NotFound(t *testing.T) {
	f := newFixture(testNow)

	f.series.On("GetByID", mock.Anything, int64(42)).Return(nil, gorm.ErrRecordNotFound)

	_, err := f.svc.CancelSeries(context.Background(), 42, 1)
	assert.ErrorIs(t, err, ErrNotFound)
}
