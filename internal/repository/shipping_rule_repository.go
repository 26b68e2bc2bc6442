package repository

import (
	"context"
	"database/sql"
	"fmt"

	"marketplace-geo/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ShippingRuleRepository reads the shipping rules configured per branch.
// Rules are returned in their configured position order, which the resolver
// relies on for tie-breaking.
type ShippingRuleRepository interface {
	Create(ctx context.Context, rule *domain.ShippingRule, position int) error
	ListByBranch(ctx context.Context, branchID uuid.UUID) ([]domain.ShippingRule, error)
	ListByBranches(ctx context.Context, branchIDs []uuid.UUID) (map[uuid.UUID][]domain.ShippingRule, error)
}

type shippingRuleRepository struct {
	db *sql.DB
}

// NewShippingRuleRepository creates a new instance of ShippingRuleRepository
func NewShippingRuleRepository(db *sql.DB) ShippingRuleRepository {
	return &shippingRuleRepository{db: db}
}

// Create inserts a rule at the given position within its branch
func (r *shippingRuleRepository) Create(ctx context.Context, rule *domain.ShippingRule, position int) error {
	query := `
		INSERT INTO shipping_rules (id, branch_id, kind, value, minimum_order_value, area, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	minimum := decimal.NullDecimal{}
	if rule.MinimumOrder != nil {
		minimum = decimal.NewNullDecimal(*rule.MinimumOrder)
	}

	_, err := r.db.ExecContext(ctx, query, rule.ID, rule.BranchID, string(rule.Kind), rule.Value, minimum, rule.Area, position)
	if err != nil {
		return fmt.Errorf("failed to create shipping rule: %w", err)
	}

	return nil
}

// ListByBranch retrieves the rules of a single branch
func (r *shippingRuleRepository) ListByBranch(ctx context.Context, branchID uuid.UUID) ([]domain.ShippingRule, error) {
	byBranch, err := r.ListByBranches(ctx, []uuid.UUID{branchID})
	if err != nil {
		return nil, err
	}

	rules := byBranch[branchID]
	if rules == nil {
		rules = []domain.ShippingRule{}
	}
	return rules, nil
}

// ListByBranches retrieves rules for several branches grouped by branch ID
func (r *shippingRuleRepository) ListByBranches(ctx context.Context, branchIDs []uuid.UUID) (map[uuid.UUID][]domain.ShippingRule, error) {
	byBranch := make(map[uuid.UUID][]domain.ShippingRule, len(branchIDs))
	if len(branchIDs) == 0 {
		return byBranch, nil
	}

	query := `
		SELECT id, branch_id, kind, value, minimum_order_value, area
		FROM shipping_rules
		WHERE branch_id = ANY($1::uuid[])
		ORDER BY branch_id, position ASC, created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, uuidStrings(branchIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to list shipping rules: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			rule    domain.ShippingRule
			kind    string
			minimum decimal.NullDecimal
		)
		if err := rows.Scan(&rule.ID, &rule.BranchID, &kind, &rule.Value, &minimum, &rule.Area); err != nil {
			return nil, fmt.Errorf("failed to scan shipping rule: %w", err)
		}

		rule.Kind = domain.ShippingRuleKind(kind)
		if minimum.Valid {
			m := minimum.Decimal
			rule.MinimumOrder = &m
		}

		byBranch[rule.BranchID] = append(byBranch[rule.BranchID], rule)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating shipping rules: %w", err)
	}

	return byBranch, nil
}
