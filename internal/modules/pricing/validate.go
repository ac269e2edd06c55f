package pricing

import (
	"fmt"

	"venuebook/internal/domain"

	"github.com/shopspring/decimal"
)

var one = decimal.NewFromInt(1)

// ValidateRules checks a venue's rule set before it is saved or evaluated:
// priorities must be unique and each rule must carry the fields its type
// requires.
func ValidateRules(rules []domain.PaymentRule) error {
	seen := make(map[int]int64, len(rules))
	for _, r := range rules {
		if prev, ok := seen[r.Priority]; ok {
			return fmt.Errorf("%w: rules %d and %d share priority %d", ErrInvalidRule, prev, r.ID, r.Priority)
		}
		seen[r.Priority] = r.ID

		switch r.RuleType {
		case domain.RuleBaseRate:
			if r.PeriodMinutes <= 0 {
				return fmt.Errorf("%w: base rate rule %d requires period_minutes > 0", ErrInvalidRule, r.ID)
			}
			if r.PricePerPeriod.IsNegative() {
				return fmt.Errorf("%w: base rate rule %d has negative price", ErrInvalidRule, r.ID)
			}
		case domain.RuleFlatFee:
			if r.PricePerPeriod.IsNegative() {
				return fmt.Errorf("%w: flat fee rule %d has negative price", ErrInvalidRule, r.ID)
			}
		case domain.RuleMultiplier:
			if !r.Multiplier.IsPositive() {
				return fmt.Errorf("%w: multiplier rule %d requires multiplier > 0", ErrInvalidRule, r.ID)
			}
		case domain.RuleDiscount:
			if !r.DiscountRate.IsPositive() || r.DiscountRate.GreaterThanOrEqual(one) {
				return fmt.Errorf("%w: discount rule %d requires rate in (0,1)", ErrInvalidRule, r.ID)
			}
		default:
			return fmt.Errorf("%w: rule %d has unknown type %q", ErrInvalidRule, r.ID, r.RuleType)
		}

		if r.StartMinute != nil && (*r.StartMinute < 0 || *r.StartMinute >= domain.MinutesPerDay) {
			return fmt.Errorf("%w: rule %d start_minute out of range", ErrInvalidRule, r.ID)
		}
		if r.EndMinute != nil && (*r.EndMinute <= 0 || *r.EndMinute > domain.MinutesPerDay) {
			return fmt.Errorf("%w: rule %d end_minute out of range", ErrInvalidRule, r.ID)
		}
		for _, d := range r.DaysOfWeek {
			if d < 0 || d > 6 {
				return fmt.Errorf("%w: rule %d has day of week %d outside 0-6", ErrInvalidRule, r.ID, d)
			}
		}
	}
	return nil
}
