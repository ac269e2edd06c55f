package pricing

import (
	"fmt"
	"sort"
	"time"

	"venuebook/internal/domain"
	"venuebook/internal/pkg/timeutil"

	"github.com/shopspring/decimal"
)

// BreakdownLine is one itemized effect on the total, with the human-readable
// reason the rule matched. Kept for user-facing transparency and support
// debugging.
type BreakdownLine struct {
	RuleID   int64           `json:"rule_id"`
	RuleName string          `json:"rule_name,omitempty"`
	RuleType domain.RuleType `json:"rule_type"`
	Amount   decimal.Decimal `json:"amount"`
	Reason   string          `json:"reason"`
}

// SkippedRule records why an evaluated rule did not affect the total.
type SkippedRule struct {
	RuleID int64  `json:"rule_id"`
	Reason string `json:"reason"`
}

type Quote struct {
	RequiresPayment bool            `json:"requires_payment"`
	TotalCost       decimal.Decimal `json:"total_cost"`
	Breakdown       []BreakdownLine `json:"breakdown,omitempty"`
	Skipped         []SkippedRule   `json:"skipped,omitempty"`
}

// Evaluate runs the venue's ordered rule set against a candidate booking and
// returns a deterministic cost breakdown. Rules are evaluated in ascending
// priority order; every applicable rule applies except base_rate, of which
// only the first applicable one charges. Multipliers scale whatever total has
// accumulated so far, so a multiplier ordered before the base rate it should
// scale multiplies zero and is a no-op.
//
// All arithmetic stays in decimal; the total is rounded to 2 places only at
// the very end (half away from zero).
func Evaluate(rules []domain.PaymentRule, start, end time.Time, spaceID int64, userTags []string, loc *time.Location) Quote {
	if end.Before(start) || len(rules) == 0 {
		return Quote{RequiresPayment: false, TotalCost: decimal.Zero}
	}
	if loc == nil {
		loc = time.UTC
	}

	applicable := make([]domain.PaymentRule, 0, len(rules))
	for _, r := range rules {
		if r.AppliesToSpace(spaceID) {
			applicable = append(applicable, r)
		}
	}
	sortByPriority(applicable)

	durationMinutes := int(end.Sub(start).Minutes())
	weekday := timeutil.Weekday(start, loc)
	startMinute := timeutil.MinuteOfDay(start, loc)

	total := decimal.Zero
	var breakdown []BreakdownLine
	var skipped []SkippedRule
	baseRateApplied := false

	for _, r := range applicable {
		if reason, ok := matches(r, weekday, startMinute, durationMinutes, userTags); !ok {
			skipped = append(skipped, SkippedRule{RuleID: r.ID, Reason: reason})
			continue
		}

		switch r.RuleType {
		case domain.RuleBaseRate:
			if baseRateApplied {
				skipped = append(skipped, SkippedRule{RuleID: r.ID, Reason: "base rate already applied by a higher-priority rule"})
				continue
			}
			if r.PeriodMinutes <= 0 {
				skipped = append(skipped, SkippedRule{RuleID: r.ID, Reason: "base rate has no billing period"})
				continue
			}
			periods := (durationMinutes + r.PeriodMinutes - 1) / r.PeriodMinutes
			cost := r.PricePerPeriod.Mul(decimal.NewFromInt(int64(periods)))
			if cost.IsZero() {
				skipped = append(skipped, SkippedRule{RuleID: r.ID, Reason: "base rate resolved to zero"})
				continue
			}
			// Only a base rate that actually charges consumes the exclusive
			// slot; a skipped one leaves it for the next base rate in order.
			baseRateApplied = true
			total = total.Add(cost)
			breakdown = append(breakdown, BreakdownLine{
				RuleID:   r.ID,
				RuleName: r.Name,
				RuleType: r.RuleType,
				Amount:   cost,
				Reason:   fmt.Sprintf("base rate: %d period(s) of %d min at %s", periods, r.PeriodMinutes, r.PricePerPeriod),
			})

		case domain.RuleFlatFee:
			if r.PricePerPeriod.IsZero() {
				skipped = append(skipped, SkippedRule{RuleID: r.ID, Reason: "flat fee is zero"})
				continue
			}
			total = total.Add(r.PricePerPeriod)
			breakdown = append(breakdown, BreakdownLine{
				RuleID:   r.ID,
				RuleName: r.Name,
				RuleType: r.RuleType,
				Amount:   r.PricePerPeriod,
				Reason:   fmt.Sprintf("flat fee of %s", r.PricePerPeriod),
			})

		case domain.RuleMultiplier:
			before := total
			total = total.Mul(r.Multiplier)
			breakdown = append(breakdown, BreakdownLine{
				RuleID:   r.ID,
				RuleName: r.Name,
				RuleType: r.RuleType,
				Amount:   total.Sub(before),
				Reason:   fmt.Sprintf("multiplier x%s on running total %s", r.Multiplier, before),
			})

		case domain.RuleDiscount:
			off := total.Mul(r.DiscountRate)
			total = total.Sub(off)
			breakdown = append(breakdown, BreakdownLine{
				RuleID:   r.ID,
				RuleName: r.Name,
				RuleType: r.RuleType,
				Amount:   off.Neg(),
				Reason:   fmt.Sprintf("discount of %s%%", r.DiscountRate.Mul(decimal.NewFromInt(100))),
			})

		default:
			skipped = append(skipped, SkippedRule{RuleID: r.ID, Reason: fmt.Sprintf("unknown rule type %q", r.RuleType)})
		}
	}

	total = total.Round(2)

	return Quote{
		RequiresPayment: !total.IsZero(),
		TotalCost:       total,
		Breakdown:       breakdown,
		Skipped:         skipped,
	}
}

// matches tests a rule's own day/window constraints and, if conditions exist,
// that at least one condition holds. The returned reason describes the first
// failing check.
func matches(r domain.PaymentRule, weekday, startMinute, durationMinutes int, userTags []string) (string, bool) {
	if len(r.DaysOfWeek) > 0 && !containsInt(r.DaysOfWeek, weekday) {
		return "rule does not apply on this day of week", false
	}
	if r.StartMinute != nil && startMinute < *r.StartMinute {
		return "booking starts before the rule's time window", false
	}
	if r.EndMinute != nil && startMinute >= *r.EndMinute {
		return "booking starts after the rule's time window", false
	}
	if len(r.Conditions) == 0 {
		return "", true
	}
	for _, c := range r.Conditions {
		if conditionMatches(c, durationMinutes, userTags) {
			return "", true
		}
	}
	return "no price condition matched", false
}

// conditionMatches requires every set clause of the condition to hold; unset
// clauses are vacuously true.
func conditionMatches(c domain.PriceCondition, durationMinutes int, userTags []string) bool {
	if c.MinDurationMinutes != nil && durationMinutes < *c.MinDurationMinutes {
		return false
	}
	if c.MaxDurationMinutes != nil && durationMinutes > *c.MaxDurationMinutes {
		return false
	}
	if len(c.RequiredTags) > 0 {
		if !tagsIntersect(c.RequiredTags, userTags) {
			return false
		}
	}
	return true
}

func sortByPriority(rules []domain.PaymentRule) {
	sort.SliceStable(rules, func(i, j int) bool { return rules[i].Priority < rules[j].Priority })
}

func containsInt(xs []int, v int) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}

func tagsIntersect(required, have []string) bool {
	for _, r := range required {
		for _, h := range have {
			if r == h {
				return true
			}
		}
	}
	return false
}
