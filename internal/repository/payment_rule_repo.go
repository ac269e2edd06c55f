package repository

import (
	"context"
	"encoding/json"

	"venuebook/internal/domain"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PaymentRuleRepository struct {
	db *gorm.DB
}

func NewPaymentRuleRepository(db *gorm.DB) *PaymentRuleRepository {
	return &PaymentRuleRepository{db: db}
}

type paymentRuleModel struct {
	ID             int64           `gorm:"column:id;primaryKey"`
	VenueID        int64           `gorm:"column:venue_id;index"`
	SpaceIDs       json.RawMessage `gorm:"column:space_ids;type:json"`
	Priority       int             `gorm:"column:priority"`
	RuleType       string          `gorm:"column:rule_type"`
	Name           string          `gorm:"column:name"`
	PricePerPeriod decimal.Decimal `gorm:"column:price_per_period;type:decimal(12,4)"`
	PeriodMinutes  int             `gorm:"column:period_minutes"`
	Multiplier     decimal.Decimal `gorm:"column:multiplier;type:decimal(8,4)"`
	DiscountRate   decimal.Decimal `gorm:"column:discount_rate;type:decimal(5,4)"`
	StartMinute    *int            `gorm:"column:start_minute"`
	EndMinute      *int            `gorm:"column:end_minute"`
	DaysOfWeek     json.RawMessage `gorm:"column:days_of_week;type:json"`

	Conditions []priceConditionModel `gorm:"foreignKey:PaymentRuleID"`
}

func (paymentRuleModel) TableName() string { return "payment_rules" }

type priceConditionModel struct {
	ID                 int64           `gorm:"column:id;primaryKey"`
	PaymentRuleID      int64           `gorm:"column:payment_rule_id;index"`
	MinDurationMinutes *int            `gorm:"column:min_duration_minutes"`
	MaxDurationMinutes *int            `gorm:"column:max_duration_minutes"`
	RequiredTags       json.RawMessage `gorm:"column:required_tags;type:json"`
}

func (priceConditionModel) TableName() string { return "price_conditions" }

func toDomainPaymentRule(m paymentRuleModel) (domain.PaymentRule, error) {
	rule := domain.PaymentRule{
		ID:             m.ID,
		VenueID:        m.VenueID,
		Priority:       m.Priority,
		RuleType:       domain.RuleType(m.RuleType),
		Name:           m.Name,
		PricePerPeriod: m.PricePerPeriod,
		PeriodMinutes:  m.PeriodMinutes,
		Multiplier:     m.Multiplier,
		DiscountRate:   m.DiscountRate,
		StartMinute:    m.StartMinute,
		EndMinute:      m.EndMinute,
	}
	if len(m.SpaceIDs) > 0 {
		if err := json.Unmarshal(m.SpaceIDs, &rule.SpaceIDs); err != nil {
			return rule, err
		}
	}
	if len(m.DaysOfWeek) > 0 {
		if err := json.Unmarshal(m.DaysOfWeek, &rule.DaysOfWeek); err != nil {
			return rule, err
		}
	}
	for _, cm := range m.Conditions {
		cond := domain.PriceCondition{
			ID:                 cm.ID,
			PaymentRuleID:      cm.PaymentRuleID,
			MinDurationMinutes: cm.MinDurationMinutes,
			MaxDurationMinutes: cm.MaxDurationMinutes,
		}
		if len(cm.RequiredTags) > 0 {
			if err := json.Unmarshal(cm.RequiredTags, &cond.RequiredTags); err != nil {
				return rule, err
			}
		}
		rule.Conditions = append(rule.Conditions, cond)
	}
	return rule, nil
}

// GetByVenueID loads the venue's full rule set with conditions attached,
// ordered by priority. The pricing engine receives a consistent snapshot.
func (r *PaymentRuleRepository) GetByVenueID(ctx context.Context, venueID int64) ([]domain.PaymentRule, error) {
	var rows []paymentRuleModel
	err := r.db.WithContext(ctx).
		Preload("Conditions").
		Where("venue_id = ?", venueID).
		Order("priority asc").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]domain.PaymentRule, 0, len(rows))
	for _, m := range rows {
		rule, err := toDomainPaymentRule(m)
		if err != nil {
			return nil, err
		}
		out = append(out, rule)
	}
	return out, nil
}

func toPaymentRuleModel(rule domain.PaymentRule) (paymentRuleModel, error) {
	m := paymentRuleModel{
		ID:             rule.ID,
		VenueID:        rule.VenueID,
		Priority:       rule.Priority,
		RuleType:       string(rule.RuleType),
		Name:           rule.Name,
		PricePerPeriod: rule.PricePerPeriod,
		PeriodMinutes:  rule.PeriodMinutes,
		Multiplier:     rule.Multiplier,
		DiscountRate:   rule.DiscountRate,
		StartMinute:    rule.StartMinute,
		EndMinute:      rule.EndMinute,
	}
	if len(rule.SpaceIDs) > 0 {
		b, err := json.Marshal(rule.SpaceIDs)
		if err != nil {
			return m, err
		}
		m.SpaceIDs = b
	}
	if len(rule.DaysOfWeek) > 0 {
		b, err := json.Marshal(rule.DaysOfWeek)
		if err != nil {
			return m, err
		}
		m.DaysOfWeek = b
	}
	for _, cond := range rule.Conditions {
		cm := priceConditionModel{
			ID:                 cond.ID,
			PaymentRuleID:      cond.PaymentRuleID,
			MinDurationMinutes: cond.MinDurationMinutes,
			MaxDurationMinutes: cond.MaxDurationMinutes,
		}
		if len(cond.RequiredTags) > 0 {
			b, err := json.Marshal(cond.RequiredTags)
			if err != nil {
				return m, err
			}
			cm.RequiredTags = b
		}
		m.Conditions = append(m.Conditions, cm)
	}
	return m, nil
}

func (r *PaymentRuleRepository) Create(ctx context.Context, rule *domain.PaymentRule) error {
	m, err := toPaymentRuleModel(*rule)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	rule.ID = m.ID
	return nil
}
