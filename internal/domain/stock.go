package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockRecord is the per-branch inventory row for a product (estoque).
// Quantity already accounts for active reservations.
type StockRecord struct {
	ID                    uuid.UUID       `json:"id" db:"id"`
	ProductID             uuid.UUID       `json:"product_id" db:"product_id"`
	BranchID              uuid.UUID       `json:"branch_id" db:"branch_id"`
	Quantity              int             `json:"quantity" db:"quantity"`
	UnitPrice             decimal.Decimal `json:"unit_price" db:"unit_price"`
	Reservable            bool            `json:"reservable" db:"reservable"`
	MaxReservationMinutes int             `json:"max_reservation_minutes" db:"max_reservation_minutes"`
	MinDiscountPercent    decimal.Decimal `json:"min_discount_percent" db:"min_discount_percent"`
	MaxDiscountPercent    decimal.Decimal `json:"max_discount_percent" db:"max_discount_percent"`
	ShelfLocation         string          `json:"shelf_location,omitempty" db:"shelf_location"`
	UpdatedAt             time.Time       `json:"updated_at" db:"updated_at"`
}

// Purchasable reports whether the record can be offered to consumers
func (s StockRecord) Purchasable() bool {
	return s.Quantity > 0
}

// Offer is a purchasable (product, branch) combination built per query and never persisted.
type Offer struct {
	Product    Product         `json:"product"`
	Branch     Branch          `json:"branch"`
	Stock      StockRecord     `json:"stock"`
	UnitPrice  decimal.Decimal `json:"price"`
	DistanceKm *float64        `json:"distance_km,omitempty"`
}

// HasDistance reports whether the offer carries a distance from the search origin
func (o Offer) HasDistance() bool {
	return o.DistanceKm != nil
}
