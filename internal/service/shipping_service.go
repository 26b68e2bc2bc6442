package service

import (
	"context"
	"fmt"

	"marketplace-geo/internal/domain"
	"marketplace-geo/internal/repository"
	"marketplace-geo/internal/shipping"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ShippingService defines the interface for freight quoting
type ShippingService interface {
	Quote(ctx context.Context, branchID uuid.UUID, destination domain.Coordinate, subtotal decimal.Decimal) (*domain.FreightQuote, error)
	BranchRules(ctx context.Context, merchantID, branchID uuid.UUID) ([]domain.ShippingRule, error)
}

type shippingService struct {
	branchRepo repository.BranchRepository
	ruleRepo   repository.ShippingRuleRepository
	resolver   *shipping.Resolver
	logger     *zap.Logger
}

// NewShippingService creates a new instance of ShippingService
func NewShippingService(
	branchRepo repository.BranchRepository,
	ruleRepo repository.ShippingRuleRepository,
	resolver *shipping.Resolver,
	logger *zap.Logger,
) ShippingService {
	return &shippingService{
		branchRepo: branchRepo,
		ruleRepo:   ruleRepo,
		resolver:   resolver,
		logger:     logger,
	}
}

// Quote prices delivery of an order from a branch to the destination
func (s *shippingService) Quote(ctx context.Context, branchID uuid.UUID, destination domain.Coordinate, subtotal decimal.Decimal) (*domain.FreightQuote, error) {
	if err := destination.Validate(); err != nil {
		return nil, err
	}
	if subtotal.IsNegative() {
		return nil, ErrInvalidSubtotal
	}

	branch, err := s.branchRepo.FindByID(ctx, branchID)
	if err != nil {
		return nil, err
	}

	rules, err := s.ruleRepo.ListByBranch(ctx, branchID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch shipping rules: %w", err)
	}

	quote := s.resolver.Resolve(*branch, destination, subtotal, rules)
	if quote.IsFallback() && len(rules) > 0 {
		s.logger.Info("No shipping rule covers destination, using default",
			zap.String("branch_id", branchID.String()),
			zap.Float64("distance_km", quote.DistanceKm),
			zap.Int("configured_rules", len(rules)),
		)
	}

	return &quote, nil
}

// BranchRules returns the rules configured for a branch owned by merchantID
func (s *shippingService) BranchRules(ctx context.Context, merchantID, branchID uuid.UUID) ([]domain.ShippingRule, error) {
	branch, err := s.branchRepo.FindByID(ctx, branchID)
	if err != nil {
		return nil, err
	}
	if branch.MerchantID != merchantID {
		return nil, ErrBranchNotOwned
	}

	rules, err := s.ruleRepo.ListByBranch(ctx, branchID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch shipping rules: %w", err)
	}
	return rules, nil
}
