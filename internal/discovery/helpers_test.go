package discovery

import (
	"marketplace-geo/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	se        = domain.Coordinate{Lat: -23.5505, Lng: -46.6333}
	pinheiros = domain.Coordinate{Lat: -23.5440, Lng: -46.6920}
	campinas  = domain.Coordinate{Lat: -22.9099, Lng: -47.0626}
)

func newBranch(name string, at domain.Coordinate) domain.Branch {
	return domain.Branch{ID: uuid.New(), Name: name, Location: at}
}

func newProduct(name string, category uuid.UUID) domain.Product {
	return domain.Product{ID: uuid.New(), Name: name, CategoryID: category, Active: true}
}

func newStock(p domain.Product, b domain.Branch, qty int, price string) domain.StockRecord {
	return domain.StockRecord{
		ID:                    uuid.New(),
		ProductID:             p.ID,
		BranchID:              b.ID,
		Quantity:              qty,
		UnitPrice:             decimal.RequireFromString(price),
		MaxReservationMinutes: 30,
	}
}

func distancePtr(d float64) *float64 {
	return &d
}
