package transport

import (
	"net/http"

	"marketplace-geo/internal/domain"
	"marketplace-geo/internal/middleware"
	"marketplace-geo/internal/service"
	"marketplace-geo/internal/shipping"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// QuoteRequest represents the freight quote request payload
type QuoteRequest struct {
	BranchID       string          `json:"branch_id" validate:"required,uuid"`
	DestinationLat *float64        `json:"destination_lat" validate:"required,latitude"`
	DestinationLng *float64        `json:"destination_lng" validate:"required,longitude"`
	Subtotal       decimal.Decimal `json:"subtotal" validate:"gte=0"`
}

// ShippingHandler handles freight quotes and merchant rule inspection
type ShippingHandler struct {
	shippingService service.ShippingService
	logger          *zap.Logger
}

// NewShippingHandler creates a new ShippingHandler
func NewShippingHandler(shippingService service.ShippingService, logger *zap.Logger) *ShippingHandler {
	return &ShippingHandler{
		shippingService: shippingService,
		logger:          logger,
	}
}

// RegisterRoutes registers shipping routes. Merchant routes sit behind
// authMiddleware followed by merchantMiddleware.
func (h *ShippingHandler) RegisterRoutes(r chi.Router, authMiddleware, merchantMiddleware func(http.Handler) http.Handler) {
	r.Post("/api/shipping/quote", h.Quote)

	r.Route("/api/merchant", func(r chi.Router) {
		r.Use(authMiddleware, merchantMiddleware)
		r.Get("/branches/{branchID}/shipping-rules", h.BranchRules)
	})
}

// Quote handles POST /api/shipping/quote
func (h *ShippingHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req QuoteRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Quote validation failed", zap.Error(err))
		respondDecodeError(w, err)
		return
	}

	branchID, err := uuid.Parse(req.BranchID)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid branch ID")
		return
	}
	destination := domain.Coordinate{Lat: *req.DestinationLat, Lng: *req.DestinationLng}

	quote, err := h.shippingService.Quote(r.Context(), branchID, destination, req.Subtotal)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to quote shipping")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, toQuoteResponse(*quote))
}

// BranchRules handles GET /api/merchant/branches/{branchID}/shipping-rules
func (h *ShippingHandler) BranchRules(w http.ResponseWriter, r *http.Request) {
	branchID, err := uuid.Parse(chi.URLParam(r, "branchID"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid branch ID")
		return
	}

	merchantID, ok := middleware.GetMerchantID(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusForbidden, "insufficient permissions")
		return
	}

	rules, err := h.shippingService.BranchRules(r.Context(), merchantID, branchID)
	if err != nil {
		respondServiceError(w, h.logger, err, "failed to list shipping rules")
		return
	}

	resp := make([]ShippingRuleResponse, len(rules))
	for i, rule := range rules {
		resp[i] = ShippingRuleResponse{
			ID:           rule.ID.String(),
			Kind:         string(rule.Kind),
			Value:        rule.Value,
			MinimumOrder: rule.MinimumOrder,
			Area:         rule.Area,
			AreaRadiusKm: shipping.AreaRadiusKm(rule.Area),
		}
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"branch_id": branchID.String(),
		"rules":     resp,
	})
}
