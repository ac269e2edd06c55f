package repository

import (
	"context"
	"time"

	"venuebook/internal/domain"

	"gorm.io/gorm"
)

type ReservationRepository struct {
	db *gorm.DB
}

func NewReservationRepository(db *gorm.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

type reservationModel struct {
	ID                     int64      `gorm:"column:id;primaryKey"`
	SpaceID                int64      `gorm:"column:space_id;index"`
	StartTime              time.Time  `gorm:"column:start_time"`
	EndTime                time.Time  `gorm:"column:end_time"`
	Status                 string     `gorm:"column:status;index"`
	RecurringReservationID *int64     `gorm:"column:recurring_reservation_id;index"`
	IsException            bool       `gorm:"column:is_exception"`
	Description            *string    `gorm:"column:description"`
	CreatedByID            int64      `gorm:"column:created_by_id"`
	UserID                 int64      `gorm:"column:user_id"`
	CreatedAt              time.Time  `gorm:"column:created_at"`
	UpdatedAt              time.Time  `gorm:"column:updated_at"`
	CancelledAt            *time.Time `gorm:"column:cancelled_at"`
}

func (reservationModel) TableName() string { return "reservations" }

func toDomainReservation(m reservationModel) *domain.Reservation {
	var desc string
	if m.Description != nil {
		desc = *m.Description
	}
	return &domain.Reservation{
		ID:                     m.ID,
		SpaceID:                m.SpaceID,
		StartTime:              m.StartTime.UTC(),
		EndTime:                m.EndTime.UTC(),
		Status:                 domain.ReservationStatus(m.Status),
		RecurringReservationID: m.RecurringReservationID,
		IsException:            m.IsException,
		Description:            desc,
		CreatedByID:            m.CreatedByID,
		UserID:                 m.UserID,
		CreatedAt:              m.CreatedAt,
		UpdatedAt:              m.UpdatedAt,
		CancelledAt:            m.CancelledAt,
	}
}

func toReservationModel(r *domain.Reservation) reservationModel {
	var desc *string
	if r.Description != "" {
		v := r.Description
		desc = &v
	}
	return reservationModel{
		ID:                     r.ID,
		SpaceID:                r.SpaceID,
		StartTime:              r.StartTime,
		EndTime:                r.EndTime,
		Status:                 string(r.Status),
		RecurringReservationID: r.RecurringReservationID,
		IsException:            r.IsException,
		Description:            desc,
		CreatedByID:            r.CreatedByID,
		UserID:                 r.UserID,
		CreatedAt:              r.CreatedAt,
		UpdatedAt:              r.UpdatedAt,
		CancelledAt:            r.CancelledAt,
	}
}

// FindOverlapping returns the non-cancelled reservations of a space whose
// half-open [start_time, end_time) range intersects rg. A zero excludeID
// excludes nothing.
func (r *ReservationRepository) FindOverlapping(ctx context.Context, spaceID int64, rg domain.TimeRange, excludeID int64) ([]domain.Reservation, error) {
	var rows []reservationModel
	q := r.db.WithContext(ctx).
		Where("space_id = ?", spaceID).
		Where("status <> ?", string(domain.ReservationCancelled)).
		Where("start_time < ? AND ? < end_time", rg.End, rg.Start)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Order("start_time asc").Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]domain.Reservation, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainReservation(m))
	}
	return out, nil
}

// checkOverlap counts non-cancelled reservations of the space intersecting
// the half-open [start, end) range and returns ErrOverlap when any exist. It
// runs on the caller's transaction so the check-then-insert pair is atomic on
// backends without the exclusion index.
func checkOverlap(tx *gorm.DB, spaceID int64, start, end time.Time) error {
	var cnt int64
	if err := tx.Model(&reservationModel{}).
		Where("space_id = ?", spaceID).
		Where("status <> ?", string(domain.ReservationCancelled)).
		Where("start_time < ? AND ? < end_time", end, start).
		Count(&cnt).Error; err != nil {
		return err
	}
	if cnt > 0 {
		return ErrOverlap
	}
	return nil
}

// CreateChecked re-runs the overlap check and inserts inside one transaction.
// On Postgres the exclusion index idx_no_overbooking backs this up; losing a
// race between the check and the insert still surfaces as ErrOverlap.
func (r *ReservationRepository) CreateChecked(ctx context.Context, res *domain.Reservation) error {
	m := toReservationModel(res)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkOverlap(tx, m.SpaceID, m.StartTime, m.EndTime); err != nil {
			return err
		}
		return tx.Create(&m).Error
	})
	if err != nil {
		if isOverlapViolation(err) {
			return ErrOverlap
		}
		return err
	}
	*res = *toDomainReservation(m)
	return nil
}

func (r *ReservationRepository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	var m reservationModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}
	return toDomainReservation(m), nil
}

func (r *ReservationRepository) Update(ctx context.Context, res *domain.Reservation) error {
	m := toReservationModel(res)
	if err := r.db.WithContext(ctx).Save(&m).Error; err != nil {
		if isOverlapViolation(err) {
			return ErrOverlap
		}
		return err
	}
	*res = *toDomainReservation(m)
	return nil
}

// CancelOccurrence soft-cancels and flags the row as an exception so series
// regeneration never re-creates the slot.
func (r *ReservationRepository) CancelOccurrence(ctx context.Context, id int64, at time.Time) error {
	return r.db.WithContext(ctx).Model(&reservationModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       string(domain.ReservationCancelled),
			"is_exception": true,
			"cancelled_at": at,
		}).Error
}

// LatestOccurrenceStart returns the start of the latest non-cancelled
// occurrence of a series, or nil when it has none.
func (r *ReservationRepository) LatestOccurrenceStart(ctx context.Context, seriesID int64) (*time.Time, error) {
	var m reservationModel
	err := r.db.WithContext(ctx).
		Where("recurring_reservation_id = ?", seriesID).
		Where("status <> ?", string(domain.ReservationCancelled)).
		Order("start_time desc").
		First(&m).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	t := m.StartTime.UTC()
	return &t, nil
}

// OccurrenceStartsSince returns the start of every occurrence of a series at
// or after from. Cancelled rows are included on purpose: a cancelled slot is
// a hole the extension job must not fill again.
func (r *ReservationRepository) OccurrenceStartsSince(ctx context.Context, seriesID int64, from time.Time) ([]time.Time, error) {
	var starts []time.Time
	err := r.db.WithContext(ctx).Model(&reservationModel{}).
		Where("recurring_reservation_id = ?", seriesID).
		Where("start_time >= ?", from).
		Order("start_time asc").
		Pluck("start_time", &starts).Error
	if err != nil {
		return nil, err
	}
	for i := range starts {
		starts[i] = starts[i].UTC()
	}
	return starts, nil
}

// BulkInsert writes an occurrence batch in one transaction, re-checking each
// row for overlap inside it. Any overlap aborts the whole batch.
func (r *ReservationRepository) BulkInsert(ctx context.Context, reservations []domain.Reservation) error {
	if len(reservations) == 0 {
		return nil
	}
	models := make([]reservationModel, 0, len(reservations))
	for i := range reservations {
		models = append(models, toReservationModel(&reservations[i]))
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range models {
			if err := checkOverlap(tx, m.SpaceID, m.StartTime, m.EndTime); err != nil {
				return err
			}
		}
		return tx.Create(&models).Error
	})
	if err != nil {
		if isOverlapViolation(err) {
			return ErrOverlap
		}
		return err
	}
	for i := range models {
		reservations[i] = *toDomainReservation(models[i])
	}
	return nil
}
