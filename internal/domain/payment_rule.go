package domain

import "github.com/shopspring/decimal"

type RuleType string

const (
	RuleBaseRate   RuleType = "base_rate"
	RuleFlatFee    RuleType = "flat_fee"
	RuleMultiplier RuleType = "multiplier"
	RuleDiscount   RuleType = "discount"
)

// PaymentRule is one entry of a venue's ordered pricing rule set. Lower
// Priority evaluates first; priorities are unique within a venue's rule set.
// An empty SpaceIDs list applies the rule to every space in the venue, an
// empty DaysOfWeek list to every day.
type PaymentRule struct {
	ID       int64    `json:"id"`
	VenueID  int64    `json:"venue_id" validate:"required"`
	SpaceIDs []int64  `json:"space_ids,omitempty"`
	Priority int      `json:"priority"`
	RuleType RuleType `json:"rule_type" validate:"required"`
	Name     string   `json:"name,omitempty"`

	// PricePerPeriod is required for base_rate and flat_fee rules.
	PricePerPeriod decimal.Decimal `json:"price_per_period"`
	// PeriodMinutes is the billing granularity of a base_rate rule.
	PeriodMinutes int `json:"period_minutes,omitempty"`
	// Multiplier is required for multiplier rules.
	Multiplier decimal.Decimal `json:"multiplier"`
	// DiscountRate is required for discount rules and lies in (0,1).
	DiscountRate decimal.Decimal `json:"discount_rate"`

	// StartMinute/EndMinute bound the minute-of-day applicability window.
	// Nil means unconstrained on that side.
	StartMinute *int  `json:"start_minute,omitempty"`
	EndMinute   *int  `json:"end_minute,omitempty"`
	DaysOfWeek  []int `json:"days_of_week,omitempty"`

	Conditions []PriceCondition `json:"conditions,omitempty"`
}

// AppliesToSpace reports whether the rule covers the given space.
func (r PaymentRule) AppliesToSpace(spaceID int64) bool {
	if len(r.SpaceIDs) == 0 {
		return true
	}
	for _, id := range r.SpaceIDs {
		if id == spaceID {
			return true
		}
	}
	return false
}

// PriceCondition gates a PaymentRule. A rule with conditions applies when at
// least one condition matches; within a condition every set clause must hold.
type PriceCondition struct {
	ID            int64 `json:"id"`
	PaymentRuleID int64 `json:"payment_rule_id"`
	// MinDurationMinutes/MaxDurationMinutes bound the booking length.
	MinDurationMinutes *int `json:"min_duration_minutes,omitempty"`
	MaxDurationMinutes *int `json:"max_duration_minutes,omitempty"`
	// RequiredTags matches when the booking user carries at least one of them.
	RequiredTags []string `json:"required_tags,omitempty"`
}
