package transport

import (
	"math"

	"marketplace-geo/internal/domain"

	"github.com/shopspring/decimal"
)

// OfferResponse is one purchasable product at one branch
type OfferResponse struct {
	ProductID             string            `json:"product_id"`
	ProductName           string            `json:"product_name"`
	Description           string            `json:"description,omitempty"`
	CategoryID            string            `json:"category_id"`
	ImageURLs             []string          `json:"image_urls"`
	BranchID              string            `json:"branch_id"`
	BranchName            string            `json:"branch_name"`
	BranchAddress         string            `json:"branch_address"`
	Location              domain.Coordinate `json:"location"`
	DistanceKm            *float64          `json:"distance_km,omitempty"`
	Price                 decimal.Decimal   `json:"price"`
	QuantityAvailable     int               `json:"quantity_available"`
	Reservable            bool              `json:"reservable"`
	MaxReservationMinutes int               `json:"max_reservation_minutes,omitempty"`
	ShelfLocation         string            `json:"shelf_location,omitempty"`
}

// QuoteResponse is the freight quote for a branch
type QuoteResponse struct {
	BranchID       string          `json:"branch_id"`
	Cost           decimal.Decimal `json:"cost"`
	IsFree         bool            `json:"is_free"`
	DistanceKm     float64         `json:"distance_km"`
	DeliveryWindow string          `json:"delivery_window"`
	EstimatedDays  int             `json:"estimated_days"`
	RuleID         string          `json:"rule_id"`
}

// DiscoveryResponse is the payload of GET /api/discovery/offers
type DiscoveryResponse struct {
	RadiusKm float64                  `json:"radius_km"`
	Count    int                      `json:"count"`
	Offers   []OfferResponse          `json:"offers"`
	Shipping map[string]QuoteResponse `json:"shipping,omitempty"`
}

// BranchResponse is a branch pin for map display
type BranchResponse struct {
	ID         string            `json:"id"`
	MerchantID string            `json:"merchant_id"`
	Name       string            `json:"name"`
	Address    string            `json:"address"`
	Location   domain.Coordinate `json:"location"`
	Phone      string            `json:"phone,omitempty"`
	DistanceKm float64           `json:"distance_km"`
}

// ShippingRuleResponse is a configured rule as shown to its merchant
type ShippingRuleResponse struct {
	ID           string           `json:"id"`
	Kind         string           `json:"kind"`
	Value        decimal.Decimal  `json:"value"`
	MinimumOrder *decimal.Decimal `json:"minimum_order_value,omitempty"`
	Area         string           `json:"area"`
	AreaRadiusKm float64          `json:"area_radius_km"`
}

// roundKm keeps distances readable; ranking happens before rounding.
func roundKm(km float64) float64 {
	return math.Round(km*100) / 100
}

func toOfferResponse(o domain.Offer) OfferResponse {
	images := o.Product.ImageURLs
	if images == nil {
		images = []string{}
	}

	resp := OfferResponse{
		ProductID:         o.Product.ID.String(),
		ProductName:       o.Product.Name,
		Description:       o.Product.Description,
		CategoryID:        o.Product.CategoryID.String(),
		ImageURLs:         images,
		BranchID:          o.Branch.ID.String(),
		BranchName:        o.Branch.Name,
		BranchAddress:     o.Branch.Address,
		Location:          o.Branch.Location,
		Price:             o.UnitPrice,
		QuantityAvailable: o.Stock.Quantity,
		Reservable:        o.Stock.Reservable,
		ShelfLocation:     o.Stock.ShelfLocation,
	}
	if o.Stock.Reservable {
		resp.MaxReservationMinutes = o.Stock.MaxReservationMinutes
	}
	if o.HasDistance() {
		km := roundKm(*o.DistanceKm)
		resp.DistanceKm = &km
	}
	return resp
}

func toQuoteResponse(q domain.FreightQuote) QuoteResponse {
	return QuoteResponse{
		BranchID:       q.BranchID.String(),
		Cost:           q.Cost,
		IsFree:         q.IsFree,
		DistanceKm:     roundKm(q.DistanceKm),
		DeliveryWindow: string(q.DeliveryWindow),
		EstimatedDays:  q.EstimatedDays,
		RuleID:         q.RuleReference,
	}
}

func toBranchResponse(bd domain.BranchDistance) BranchResponse {
	return BranchResponse{
		ID:         bd.Branch.ID.String(),
		MerchantID: bd.Branch.MerchantID.String(),
		Name:       bd.Branch.Name,
		Address:    bd.Branch.Address,
		Location:   bd.Branch.Location,
		Phone:      bd.Branch.Phone,
		DistanceKm: roundKm(bd.DistanceKm),
	}
}
