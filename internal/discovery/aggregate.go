package discovery

import (
	"marketplace-geo/internal/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BuildOffers joins stock records with their product and branch.
//
// Only records with a positive quantity, an active product and a branch in the
// candidate set produce an offer. Records pointing at unknown or inactive data
// are skipped and logged so one bad row never aborts the batch. The unit price
// comes from the stock record since pricing is per branch.
func (e *Engine) BuildOffers(
	branches []domain.Branch,
	products []domain.Product,
	stock []domain.StockRecord,
	originDistance map[uuid.UUID]float64,
) []domain.Offer {
	branchByID := make(map[uuid.UUID]domain.Branch, len(branches))
	for _, b := range branches {
		branchByID[b.ID] = b
	}

	productByID := make(map[uuid.UUID]domain.Product, len(products))
	for _, p := range products {
		productByID[p.ID] = p
	}

	offers := make([]domain.Offer, 0, len(stock))
	for _, s := range stock {
		if !s.Purchasable() {
			continue
		}

		branch, ok := branchByID[s.BranchID]
		if !ok {
			e.skip(s, "branch not in candidate set")
			continue
		}

		product, ok := productByID[s.ProductID]
		if !ok {
			e.skip(s, "product not found")
			continue
		}
		if !product.Active {
			e.skip(s, "product inactive")
			continue
		}

		offer := domain.Offer{
			Product:   product,
			Branch:    branch,
			Stock:     s,
			UnitPrice: s.UnitPrice,
		}
		if d, ok := originDistance[branch.ID]; ok {
			offer.DistanceKm = &d
		}

		offers = append(offers, offer)
	}

	return offers
}

func (e *Engine) skip(s domain.StockRecord, reason string) {
	e.logger.Warn("Skipping stock record",
		zap.String("stock_id", s.ID.String()),
		zap.String("product_id", s.ProductID.String()),
		zap.String("branch_id", s.BranchID.String()),
		zap.String("reason", reason),
	)
}
