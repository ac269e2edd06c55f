package repository

import (
	"context"
	"time"

	"venuebook/internal/domain"

	"gorm.io/gorm"
)

type RecurringReservationRepository struct {
	db *gorm.DB
}

func NewRecurringReservationRepository(db *gorm.DB) *RecurringReservationRepository {
	return &RecurringReservationRepository{db: db}
}

type recurringModel struct {
	ID             int64      `gorm:"column:id;primaryKey"`
	SpaceID        int64      `gorm:"column:space_id;index"`
	OrganizationID int64      `gorm:"column:organization_id;index"`
	CreatedByID    int64      `gorm:"column:created_by_id"`
	StartTime      time.Time  `gorm:"column:start_time"`
	EndTime        time.Time  `gorm:"column:end_time"`
	Frequency      string     `gorm:"column:frequency"`
	Interval       int        `gorm:"column:interval"`
	EndsOn         *time.Time `gorm:"column:ends_on"`
	Description    *string    `gorm:"column:description"`
	Status         string     `gorm:"column:status;index"`
	CreatedAt      time.Time  `gorm:"column:created_at"`
	UpdatedAt      time.Time  `gorm:"column:updated_at"`
	CancelledAt    *time.Time `gorm:"column:cancelled_at"`
}

func (recurringModel) TableName() string { return "recurring_reservations" }

func toDomainRecurring(m recurringModel) *domain.RecurringReservation {
	var desc string
	if m.Description != nil {
		desc = *m.Description
	}
	return &domain.RecurringReservation{
		ID:             m.ID,
		SpaceID:        m.SpaceID,
		OrganizationID: m.OrganizationID,
		CreatedByID:    m.CreatedByID,
		StartTime:      m.StartTime.UTC(),
		EndTime:        m.EndTime.UTC(),
		Frequency:      domain.Frequency(m.Frequency),
		Interval:       m.Interval,
		EndsOn:         m.EndsOn,
		Description:    desc,
		Status:         domain.RecurringStatus(m.Status),
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
		CancelledAt:    m.CancelledAt,
	}
}

func toRecurringModel(rr *domain.RecurringReservation) recurringModel {
	var desc *string
	if rr.Description != "" {
		v := rr.Description
		desc = &v
	}
	return recurringModel{
		ID:             rr.ID,
		SpaceID:        rr.SpaceID,
		OrganizationID: rr.OrganizationID,
		CreatedByID:    rr.CreatedByID,
		StartTime:      rr.StartTime,
		EndTime:        rr.EndTime,
		Frequency:      string(rr.Frequency),
		Interval:       rr.Interval,
		EndsOn:         rr.EndsOn,
		Description:    desc,
		Status:         string(rr.Status),
		CreatedAt:      rr.CreatedAt,
		UpdatedAt:      rr.UpdatedAt,
		CancelledAt:    rr.CancelledAt,
	}
}

// Create persists the series and its full occurrence batch in a single
// transaction. Any failure, including an overlap constraint violation, rolls
// everything back; the series is never created partially.
func (r *RecurringReservationRepository) Create(ctx context.Context, rr *domain.RecurringReservation, occurrences []domain.Reservation) error {
	m := toRecurringModel(rr)
	var occModels []reservationModel

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&m).Error; err != nil {
			return err
		}
		occModels = make([]reservationModel, 0, len(occurrences))
		for i := range occurrences {
			om := toReservationModel(&occurrences[i])
			om.RecurringReservationID = &m.ID
			occModels = append(occModels, om)
		}
		if len(occModels) == 0 {
			return nil
		}
		// Re-check every occurrence inside the transaction; the service's
		// conflict pass ran outside it and a booking may have landed since.
		for _, om := range occModels {
			if err := checkOverlap(tx, om.SpaceID, om.StartTime, om.EndTime); err != nil {
				return err
			}
		}
		return tx.Create(&occModels).Error
	})
	if err != nil {
		if isOverlapViolation(err) {
			return ErrOverlap
		}
		return err
	}

	*rr = *toDomainRecurring(m)
	rr.Occurrences = make([]domain.Reservation, 0, len(occModels))
	for _, om := range occModels {
		rr.Occurrences = append(rr.Occurrences, *toDomainReservation(om))
	}
	return nil
}

func (r *RecurringReservationRepository) GetByID(ctx context.Context, id int64) (*domain.RecurringReservation, error) {
	var m recurringModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}
	return toDomainRecurring(m), nil
}

func (r *RecurringReservationRepository) FindActiveSeries(ctx context.Context) ([]domain.RecurringReservation, error) {
	var rows []recurringModel
	err := r.db.WithContext(ctx).
		Where("status = ?", string(domain.RecurringActive)).
		Order("id asc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]domain.RecurringReservation, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainRecurring(m))
	}
	return out, nil
}

// CancelSeries marks the series cancelled and bulk-cancels its non-cancelled
// occurrences in the same transaction. Rows keep their history; nothing is
// deleted.
func (r *RecurringReservationRepository) CancelSeries(ctx context.Context, id int64, at time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&recurringModel{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"status":       string(domain.RecurringCancelled),
				"cancelled_at": at,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Model(&reservationModel{}).
			Where("recurring_reservation_id = ?", id).
			Where("status <> ?", string(domain.ReservationCancelled)).
			Updates(map[string]interface{}{
				"status":       string(domain.ReservationCancelled),
				"cancelled_at": at,
			}).Error
	})
}
