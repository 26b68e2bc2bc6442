package transport

import (
	"net/http"

	"marketplace-geo/internal/domain"
	"marketplace-geo/internal/middleware"
	"marketplace-geo/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// DiscoveryHandler serves the consumer-facing search endpoints
type DiscoveryHandler struct {
	discoveryService service.DiscoveryService
	logger           *zap.Logger
}

// NewDiscoveryHandler creates a new DiscoveryHandler
func NewDiscoveryHandler(discoveryService service.DiscoveryService, logger *zap.Logger) *DiscoveryHandler {
	return &DiscoveryHandler{
		discoveryService: discoveryService,
		logger:           logger,
	}
}

// RegisterRoutes registers all discovery routes
func (h *DiscoveryHandler) RegisterRoutes(r chi.Router) {
	r.Get("/api/categories", h.ListCategories)
	r.Route("/api/discovery", func(r chi.Router) {
		r.Get("/offers", h.Offers)
		r.Get("/branches", h.Branches)
	})
}

// Offers handles GET /api/discovery/offers
func (h *DiscoveryHandler) Offers(w http.ResponseWriter, r *http.Request) {
	p := newQueryParser(r)
	params := offersParams{
		proximityParams: parseProximity(p),
		CategoryID:      p.uuid("category_id"),
		Subtotal:        p.decimal("subtotal"),
	}
	if errs := p.validate(params); len(errs) > 0 {
		h.logger.Debug("Discovery query validation failed", zap.Any("errors", errs))
		middleware.RespondWithValidationErrors(w, errs)
		return
	}

	result, err := h.discoveryService.Discover(r.Context(), service.DiscoverQuery{
		Origin:     domain.Coordinate{Lat: *params.Lat, Lng: *params.Lng},
		RadiusKm:   params.RadiusKm,
		CategoryID: params.CategoryID,
		Subtotal:   params.Subtotal,
	})
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to discover offers")
		return
	}

	resp := DiscoveryResponse{
		RadiusKm: result.RadiusKm,
		Count:    len(result.Offers),
		Offers:   make([]OfferResponse, len(result.Offers)),
	}
	for i, o := range result.Offers {
		resp.Offers[i] = toOfferResponse(o)
	}
	if params.Subtotal != nil {
		resp.Shipping = make(map[string]QuoteResponse, len(result.Shipping))
		for branchID, q := range result.Shipping {
			resp.Shipping[branchID.String()] = toQuoteResponse(q)
		}
	}

	middleware.RespondWithJSON(w, http.StatusOK, resp)
}

// Branches handles GET /api/discovery/branches
func (h *DiscoveryHandler) Branches(w http.ResponseWriter, r *http.Request) {
	p := newQueryParser(r)
	params := parseProximity(p)
	if errs := p.validate(params); len(errs) > 0 {
		middleware.RespondWithValidationErrors(w, errs)
		return
	}

	nearby, err := h.discoveryService.NearbyBranches(r.Context(), domain.Coordinate{Lat: *params.Lat, Lng: *params.Lng}, params.RadiusKm)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to list nearby branches")
		return
	}

	branches := make([]BranchResponse, len(nearby))
	for i, bd := range nearby {
		branches[i] = toBranchResponse(bd)
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"branches": branches,
		"count":    len(branches),
	})
}

// ListCategories handles GET /api/categories
func (h *DiscoveryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.discoveryService.Categories(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to list categories")
		return
	}
	if categories == nil {
		categories = []domain.Category{}
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"categories": categories,
	})
}
