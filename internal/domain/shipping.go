package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ShippingRuleKind enumerates how a rule prices delivery
type ShippingRuleKind string

const (
	ShippingRuleFixed              ShippingRuleKind = "fixed"
	ShippingRuleFreeAboveThreshold ShippingRuleKind = "free_above_threshold"
)

// DefaultRuleReference identifies the synthetic fallback rule on a quote
const DefaultRuleReference = "default"

// ShippingRule is a branch-configured freight rule (regra de frete).
// For free-above-threshold rules, Value is charged when the minimum is not met.
type ShippingRule struct {
	ID           uuid.UUID        `json:"id" db:"id"`
	BranchID     uuid.UUID        `json:"branch_id" db:"branch_id"`
	Kind         ShippingRuleKind `json:"kind" db:"kind"`
	Value        decimal.Decimal  `json:"value" db:"value"`
	MinimumOrder *decimal.Decimal `json:"minimum_order_value,omitempty" db:"minimum_order_value"`
	Area         string           `json:"area" db:"area"`
}

// DeliveryWindow is a coarse delivery-time bucket derived from distance
type DeliveryWindow string

const (
	DeliverySameDay  DeliveryWindow = "same_day"
	DeliveryNextDay  DeliveryWindow = "next_day"
	DeliveryTwoDays  DeliveryWindow = "two_days"
	DeliveryExtended DeliveryWindow = "extended"
)

// EstimatedDays returns the upper bound of business days for the window
func (w DeliveryWindow) EstimatedDays() int {
	switch w {
	case DeliverySameDay:
		return 0
	case DeliveryNextDay:
		return 1
	case DeliveryTwoDays:
		return 2
	default:
		return 5
	}
}

// FreightQuote is the resolved shipping cost and window for a branch/destination pair
type FreightQuote struct {
	BranchID       uuid.UUID       `json:"branch_id"`
	Cost           decimal.Decimal `json:"cost"`
	DistanceKm     float64         `json:"distance_km"`
	RuleReference  string          `json:"rule_reference"`
	DeliveryWindow DeliveryWindow  `json:"delivery_window"`
	EstimatedDays  int             `json:"estimated_days"`
	IsFree         bool            `json:"is_free"`
}

// IsFallback reports whether the quote came from the default rule
func (q FreightQuote) IsFallback() bool {
	return q.RuleReference == DefaultRuleReference
}
