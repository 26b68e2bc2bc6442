package discovery

import (
	"marketplace-geo/internal/domain"
	"marketplace-geo/internal/geo"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Catalog is a point-in-time snapshot fetched by the caller for one discovery call
type Catalog struct {
	Branches []domain.Branch
	Products []domain.Product
	Stock    []domain.StockRecord
}

// Filter narrows the products considered by Discover
type Filter struct {
	CategoryID *uuid.UUID
}

func (f Filter) matches(p domain.Product) bool {
	return f.CategoryID == nil || p.CategoryID == *f.CategoryID
}

// Discover returns the purchasable offers within radiusKm of origin, nearest first.
// An empty slice means nothing is available nearby.
func (e *Engine) Discover(origin domain.Coordinate, radiusKm float64, catalog Catalog, filter Filter) []domain.Offer {
	nearby := geo.NearbyBranches(origin, radiusKm, catalog.Branches)
	if len(nearby) == 0 {
		return []domain.Offer{}
	}

	candidates := make([]domain.Branch, 0, len(nearby))
	distances := make(map[uuid.UUID]float64, len(nearby))
	for _, bd := range nearby {
		candidates = append(candidates, bd.Branch)
		distances[bd.Branch.ID] = bd.DistanceKm
	}

	products := make([]domain.Product, 0, len(catalog.Products))
	filtered := make(map[uuid.UUID]bool)
	for _, p := range catalog.Products {
		if filter.matches(p) {
			products = append(products, p)
		} else {
			filtered[p.ID] = true
		}
	}

	inRange := make([]domain.StockRecord, 0, len(catalog.Stock))
	for _, s := range catalog.Stock {
		// stock outside the radius or outside the category is expected, not a bad reference
		if _, ok := distances[s.BranchID]; !ok || filtered[s.ProductID] {
			continue
		}
		inRange = append(inRange, s)
	}

	offers := RankByDistance(e.BuildOffers(candidates, products, inRange, distances))

	e.logger.Debug("Discovery completed",
		zap.Float64("radius_km", radiusKm),
		zap.Int("branches", len(candidates)),
		zap.Int("offers", len(offers)),
	)

	return offers
}
