package service

import (
	"context"
	"sync"

	"marketplace-geo/internal/domain"
	"marketplace-geo/internal/geo"
	"marketplace-geo/internal/repository"

	"github.com/google/uuid"
)

// Mock repositories for testing
type mockBranchRepository struct {
	branches []domain.Branch
	err      error
}

func (m *mockBranchRepository) Create(ctx context.Context, branch *domain.Branch) error {
	m.branches = append(m.branches, *branch)
	return nil
}

func (m *mockBranchRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Branch, error) {
	for _, b := range m.branches {
		if b.ID == id {
			return &b, nil
		}
	}
	return nil, repository.ErrBranchNotFound
}

func (m *mockBranchRepository) ListWithinBounds(ctx context.Context, bounds geo.Bounds) ([]domain.Branch, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []domain.Branch
	for _, b := range m.branches {
		if bounds.Contains(b.Location) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *mockBranchRepository) ListByMerchant(ctx context.Context, merchantID uuid.UUID) ([]domain.Branch, error) {
	var out []domain.Branch
	for _, b := range m.branches {
		if b.MerchantID == merchantID {
			out = append(out, b)
		}
	}
	return out, nil
}

type mockProductRepository struct {
	products map[uuid.UUID]domain.Product
}

func (m *mockProductRepository) Create(ctx context.Context, product *domain.Product) error {
	m.products[product.ID] = *product
	return nil
}

func (m *mockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, repository.ErrProductNotFound
	}
	return &p, nil
}

func (m *mockProductRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Product, error) {
	var out []domain.Product
	for _, id := range ids {
		if p, ok := m.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

type mockCategoryRepository struct {
	categories []domain.Category
}

func (m *mockCategoryRepository) Create(ctx context.Context, category *domain.Category) error {
	m.categories = append(m.categories, *category)
	return nil
}

func (m *mockCategoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	return m.categories, nil
}

func (m *mockCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	for _, c := range m.categories {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, repository.ErrCategoryNotFound
}

type mockStockRepository struct {
	mu        sync.Mutex
	records   []domain.StockRecord
	requested []uuid.UUID
	err       error
}

func (m *mockStockRepository) Create(ctx context.Context, stock *domain.StockRecord) error {
	m.records = append(m.records, *stock)
	return nil
}

func (m *mockStockRepository) ListByBranches(ctx context.Context, branchIDs []uuid.UUID) ([]domain.StockRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requested = append(m.requested, branchIDs...)
	if m.err != nil {
		return nil, m.err
	}
	wanted := make(map[uuid.UUID]bool, len(branchIDs))
	for _, id := range branchIDs {
		wanted[id] = true
	}
	var out []domain.StockRecord
	for _, s := range m.records {
		if wanted[s.BranchID] {
			out = append(out, s)
		}
	}
	return out, nil
}

type mockShippingRuleRepository struct {
	rules map[uuid.UUID][]domain.ShippingRule
	calls int
	mu    sync.Mutex
}

func newMockShippingRuleRepository() *mockShippingRuleRepository {
	return &mockShippingRuleRepository{rules: make(map[uuid.UUID][]domain.ShippingRule)}
}

func (m *mockShippingRuleRepository) Create(ctx context.Context, rule *domain.ShippingRule, position int) error {
	m.rules[rule.BranchID] = append(m.rules[rule.BranchID], *rule)
	return nil
}

func (m *mockShippingRuleRepository) ListByBranch(ctx context.Context, branchID uuid.UUID) ([]domain.ShippingRule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return m.rules[branchID], nil
}

func (m *mockShippingRuleRepository) ListByBranches(ctx context.Context, branchIDs []uuid.UUID) (map[uuid.UUID][]domain.ShippingRule, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	out := make(map[uuid.UUID][]domain.ShippingRule, len(branchIDs))
	for _, id := range branchIDs {
		out[id] = m.rules[id]
	}
	return out, nil
}
