package service

import (
	"cmp"
	"context"
	"fmt"
	"math"
	"slices"

	"marketplace-geo/internal/discovery"
	"marketplace-geo/internal/domain"
	"marketplace-geo/internal/geo"
	"marketplace-geo/internal/repository"
	"marketplace-geo/internal/shipping"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DiscoverQuery describes a consumer's search
type DiscoverQuery struct {
	Origin     domain.Coordinate
	RadiusKm   *float64 // nil uses the configured default
	CategoryID *uuid.UUID
	// Subtotal, when set, asks for a freight quote per candidate branch
	// delivering back to Origin.
	Subtotal *decimal.Decimal
}

// DiscoveryResult holds ranked offers and, optionally, a quote per branch
type DiscoveryResult struct {
	Offers   []domain.Offer
	Shipping map[uuid.UUID]domain.FreightQuote
	RadiusKm float64
}

// RadiusLimits bounds the search radius accepted from consumers
type RadiusLimits struct {
	DefaultKm float64
	MaxKm     float64
}

// DiscoveryService defines the interface for nearby product discovery
type DiscoveryService interface {
	Discover(ctx context.Context, query DiscoverQuery) (*DiscoveryResult, error)
	NearbyBranches(ctx context.Context, center domain.Coordinate, radiusKm *float64) ([]domain.BranchDistance, error)
	Categories(ctx context.Context) ([]domain.Category, error)
}

type discoveryService struct {
	branchRepo   repository.BranchRepository
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	stockRepo    repository.StockRepository
	ruleRepo     repository.ShippingRuleRepository
	engine       *discovery.Engine
	resolver     *shipping.Resolver
	limits       RadiusLimits
	logger       *zap.Logger
}

// NewDiscoveryService creates a new instance of DiscoveryService
func NewDiscoveryService(
	branchRepo repository.BranchRepository,
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	stockRepo repository.StockRepository,
	ruleRepo repository.ShippingRuleRepository,
	engine *discovery.Engine,
	resolver *shipping.Resolver,
	limits RadiusLimits,
	logger *zap.Logger,
) DiscoveryService {
	return &discoveryService{
		branchRepo:   branchRepo,
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		stockRepo:    stockRepo,
		ruleRepo:     ruleRepo,
		engine:       engine,
		resolver:     resolver,
		limits:       limits,
		logger:       logger,
	}
}

// Discover fetches a fresh snapshot around the origin and runs the discovery pipeline
func (s *discoveryService) Discover(ctx context.Context, query DiscoverQuery) (*DiscoveryResult, error) {
	radius, err := s.resolveRadius(query.Origin, query.RadiusKm)
	if err != nil {
		return nil, err
	}
	if query.Subtotal != nil && query.Subtotal.IsNegative() {
		return nil, ErrInvalidSubtotal
	}

	result := &DiscoveryResult{
		Offers:   []domain.Offer{},
		Shipping: map[uuid.UUID]domain.FreightQuote{},
		RadiusKm: radius,
	}

	if query.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *query.CategoryID); err != nil {
			return nil, err
		}
	}

	candidates, err := s.candidateBranches(ctx, query.Origin, radius)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return result, nil
	}

	branchIDs := make([]uuid.UUID, len(candidates))
	for i, b := range candidates {
		branchIDs[i] = b.ID
	}

	var (
		stock []domain.StockRecord
		rules map[uuid.UUID][]domain.ShippingRule
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stock, err = s.stockRepo.ListByBranches(gctx, branchIDs)
		if err != nil {
			return fmt.Errorf("failed to fetch stock: %w", err)
		}
		return nil
	})
	if query.Subtotal != nil {
		g.Go(func() error {
			var err error
			rules, err = s.ruleRepo.ListByBranches(gctx, branchIDs)
			if err != nil {
				return fmt.Errorf("failed to fetch shipping rules: %w", err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	products, err := s.productRepo.ListByIDs(ctx, productIDs(stock))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result.Offers = s.engine.Discover(query.Origin, radius, discovery.Catalog{
		Branches: candidates,
		Products: products,
		Stock:    stock,
	}, discovery.Filter{CategoryID: query.CategoryID})

	if query.Subtotal != nil {
		for _, b := range offerBranches(result.Offers) {
			result.Shipping[b.ID] = s.resolver.Resolve(b, query.Origin, *query.Subtotal, rules[b.ID])
		}
	}

	return result, nil
}

// NearbyBranches returns the branches within the radius, nearest first, for map display
func (s *discoveryService) NearbyBranches(ctx context.Context, center domain.Coordinate, radiusKm *float64) ([]domain.BranchDistance, error) {
	radius, err := s.resolveRadius(center, radiusKm)
	if err != nil {
		return nil, err
	}

	branches, err := s.branchRepo.ListWithinBounds(ctx, geo.BoundsAround(center, radius))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch branches: %w", err)
	}

	nearby := geo.NearbyBranches(center, radius, branches)
	slices.SortStableFunc(nearby, func(a, b domain.BranchDistance) int {
		return cmp.Compare(a.DistanceKm, b.DistanceKm)
	})

	return nearby, nil
}

// Categories lists the categories available as discovery filters
func (s *discoveryService) Categories(ctx context.Context) ([]domain.Category, error) {
	return s.categoryRepo.List(ctx)
}

func (s *discoveryService) resolveRadius(origin domain.Coordinate, radiusKm *float64) (float64, error) {
	if err := origin.Validate(); err != nil {
		return 0, err
	}

	radius := s.limits.DefaultKm
	if radiusKm != nil {
		radius = *radiusKm
	}

	if math.IsNaN(radius) || math.IsInf(radius, 0) {
		return 0, ErrInvalidRadius
	}
	if s.limits.MaxKm > 0 && radius > s.limits.MaxKm {
		return 0, fmt.Errorf("%w: %.1f km > %.1f km", ErrRadiusTooLarge, radius, s.limits.MaxKm)
	}

	return radius, nil
}

// candidateBranches loads the branches inside the radius; the bounding box
// narrows the query and the haversine check removes the corners.
func (s *discoveryService) candidateBranches(ctx context.Context, origin domain.Coordinate, radius float64) ([]domain.Branch, error) {
	if radius <= 0 {
		return nil, nil
	}

	boxed, err := s.branchRepo.ListWithinBounds(ctx, geo.BoundsAround(origin, radius))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch branches: %w", err)
	}

	nearby := geo.NearbyBranches(origin, radius, boxed)
	candidates := make([]domain.Branch, len(nearby))
	for i, bd := range nearby {
		candidates[i] = bd.Branch
	}

	s.logger.Debug("Candidate branches loaded",
		zap.Int("in_bounds", len(boxed)),
		zap.Int("in_radius", len(candidates)),
	)

	return candidates, nil
}

func productIDs(stock []domain.StockRecord) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(stock))
	ids := make([]uuid.UUID, 0, len(stock))
	for _, s := range stock {
		if !s.Purchasable() {
			continue
		}
		if _, ok := seen[s.ProductID]; ok {
			continue
		}
		seen[s.ProductID] = struct{}{}
		ids = append(ids, s.ProductID)
	}
	return ids
}

// offerBranches returns the distinct branches of offers in ranking order
func offerBranches(offers []domain.Offer) []domain.Branch {
	seen := make(map[uuid.UUID]struct{})
	var branches []domain.Branch
	for _, o := range offers {
		if _, ok := seen[o.Branch.ID]; ok {
			continue
		}
		seen[o.Branch.ID] = struct{}{}
		branches = append(branches, o.Branch)
	}
	return branches
}
