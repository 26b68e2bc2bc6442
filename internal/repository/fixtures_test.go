package repository

import (
	"context"
	"testing"
	"time"

	"marketplace-geo/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func seedCategory(t *testing.T) domain.Category {
	t.Helper()

	c := domain.Category{
		ID:          uuid.New(),
		Name:        "Categoria " + uuid.NewString(),
		Description: "Padaria",
		CreatedAt:   time.Now().UTC().Truncate(time.Microsecond),
	}
	require.NoError(t, NewCategoryRepository(testDB).Create(context.Background(), &c))
	return c
}

func seedBranch(t *testing.T, merchantID uuid.UUID, name string, at domain.Coordinate) domain.Branch {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Microsecond)
	b := domain.Branch{
		ID:         uuid.New(),
		MerchantID: merchantID,
		Name:       name,
		Address:    "Rua Teodoro Sampaio, 1000",
		Location:   at,
		Phone:      "+55 11 3000-0000",
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	require.NoError(t, NewBranchRepository(testDB).Create(context.Background(), &b))
	return b
}

func seedProduct(t *testing.T, category domain.Category, active bool) domain.Product {
	t.Helper()

	now := time.Now().UTC().Truncate(time.Microsecond)
	p := domain.Product{
		ID:          uuid.New(),
		MerchantID:  uuid.New(),
		Name:        "Pão de queijo",
		Description: "Congelado, 1kg",
		CategoryID:  category.ID,
		ImageURLs:   []string{"https://cdn.example.com/a.jpg", "https://cdn.example.com/b.jpg"},
		Active:      active,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, NewProductRepository(testDB).Create(context.Background(), &p))
	return p
}

func seedStock(t *testing.T, p domain.Product, b domain.Branch, qty int, price string) domain.StockRecord {
	t.Helper()

	s := domain.StockRecord{
		ID:                    uuid.New(),
		ProductID:             p.ID,
		BranchID:              b.ID,
		Quantity:              qty,
		UnitPrice:             decimal.RequireFromString(price),
		Reservable:            true,
		MaxReservationMinutes: 45,
		MinDiscountPercent:    decimal.NewFromInt(0),
		MaxDiscountPercent:    decimal.NewFromInt(10),
		ShelfLocation:         "Corredor 3",
		UpdatedAt:             time.Now().UTC().Truncate(time.Microsecond),
	}
	require.NoError(t, NewStockRepository(testDB).Create(context.Background(), &s))
	return s
}
