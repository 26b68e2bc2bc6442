// Package shipping resolves freight cost and delivery window for a branch and
// destination from the branch's configured shipping rules.
package shipping

import (
	"marketplace-geo/internal/domain"
	"marketplace-geo/internal/geo"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DefaultFallbackCost is used when no default cost is configured
var DefaultFallbackCost = decimal.NewFromInt(15)

// Resolver selects a shipping rule and prices a delivery
type Resolver struct {
	defaultCost decimal.Decimal
	logger      *zap.Logger
}

// NewResolver creates a resolver charging defaultCost when no rule applies
func NewResolver(defaultCost decimal.Decimal, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	if defaultCost.IsNegative() {
		defaultCost = DefaultFallbackCost
	}
	return &Resolver{
		defaultCost: defaultCost,
		logger:      logger.Named("shipping"),
	}
}

// Resolve computes the freight quote for delivering from branch to destination.
//
// Rules are first gated by area coverage, then decided in priority order:
//
//  1. a free-above-threshold rule whose minimum is met (free shipping)
//  2. the cheapest fixed rule, first one wins on ties
//  3. the first surviving rule's value
//
// When no rule covers the distance the configured default cost applies.
// Resolve never fails.
func (r *Resolver) Resolve(branch domain.Branch, destination domain.Coordinate, subtotal decimal.Decimal, rules []domain.ShippingRule) domain.FreightQuote {
	distanceKm := geo.Distance(branch.Location, destination)
	window := DeliveryWindowFor(distanceKm)

	quote := domain.FreightQuote{
		BranchID:       branch.ID,
		DistanceKm:     distanceKm,
		DeliveryWindow: window,
		EstimatedDays:  window.EstimatedDays(),
	}

	survivors := r.coveringRules(branch, distanceKm, rules)
	if len(survivors) == 0 {
		quote.Cost = r.defaultCost
		quote.RuleReference = domain.DefaultRuleReference
		return quote
	}

	rule, free := decide(survivors, subtotal)

	quote.RuleReference = rule.ID.String()
	quote.IsFree = free
	if free {
		quote.Cost = decimal.Zero
	} else {
		quote.Cost = rule.Value
	}

	return quote
}

// coveringRules keeps well-formed rules whose area reaches distanceKm, in input order
func (r *Resolver) coveringRules(branch domain.Branch, distanceKm float64, rules []domain.ShippingRule) []domain.ShippingRule {
	survivors := make([]domain.ShippingRule, 0, len(rules))
	for _, rule := range rules {
		if reason := malformed(rule); reason != "" {
			r.logger.Warn("Ignoring malformed shipping rule",
				zap.String("rule_id", rule.ID.String()),
				zap.String("branch_id", branch.ID.String()),
				zap.String("reason", reason),
			)
			continue
		}
		if distanceKm <= AreaRadiusKm(rule.Area) {
			survivors = append(survivors, rule)
		}
	}
	return survivors
}

func malformed(rule domain.ShippingRule) string {
	switch {
	case rule.Kind != domain.ShippingRuleFixed && rule.Kind != domain.ShippingRuleFreeAboveThreshold:
		return "unknown rule kind"
	case rule.Value.IsNegative():
		return "negative value"
	case rule.MinimumOrder != nil && rule.MinimumOrder.IsNegative():
		return "negative minimum order value"
	default:
		return ""
	}
}

// decide applies the priority table to rules that already passed area gating
func decide(rules []domain.ShippingRule, subtotal decimal.Decimal) (domain.ShippingRule, bool) {
	for _, rule := range rules {
		if rule.Kind == domain.ShippingRuleFreeAboveThreshold && thresholdMet(rule, subtotal) {
			return rule, true
		}
	}

	var cheapest *domain.ShippingRule
	for i := range rules {
		if rules[i].Kind != domain.ShippingRuleFixed {
			continue
		}
		if cheapest == nil || rules[i].Value.LessThan(cheapest.Value) {
			cheapest = &rules[i]
		}
	}
	if cheapest != nil {
		return *cheapest, false
	}

	return rules[0], false
}

func thresholdMet(rule domain.ShippingRule, subtotal decimal.Decimal) bool {
	if rule.MinimumOrder == nil {
		return true
	}
	return rule.MinimumOrder.LessThanOrEqual(subtotal)
}
