package service

import (
	"context"
	"errors"
	"testing"

	"marketplace-geo/internal/discovery"
	"marketplace-geo/internal/domain"
	"marketplace-geo/internal/repository"
	"marketplace-geo/internal/shipping"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const kmPerDegreeLat = 111.19492664455873

var se = domain.Coordinate{Lat: -23.5505, Lng: -46.6333}

func northOf(c domain.Coordinate, km float64) domain.Coordinate {
	return domain.Coordinate{Lat: c.Lat + km/kmPerDegreeLat, Lng: c.Lng}
}

func ptr[T any](v T) *T { return &v }

type fixture struct {
	branches   *mockBranchRepository
	products   *mockProductRepository
	categories *mockCategoryRepository
	stock      *mockStockRepository
	rules      *mockShippingRuleRepository

	merchant uuid.UUID
	food     domain.Category
	near     domain.Branch // 1 km
	mid      domain.Branch // 6 km
	far      domain.Branch // 50 km
	bread    domain.Product
	soap     domain.Product
}

func newFixture() *fixture {
	f := &fixture{
		products:   &mockProductRepository{products: make(map[uuid.UUID]domain.Product)},
		categories: &mockCategoryRepository{},
		stock:      &mockStockRepository{},
		rules:      newMockShippingRuleRepository(),
		merchant:   uuid.New(),
	}

	f.food = domain.Category{ID: uuid.New(), Name: "Alimentos"}
	cleaning := domain.Category{ID: uuid.New(), Name: "Limpeza"}
	f.categories.categories = []domain.Category{f.food, cleaning}

	branch := func(name string, km float64) domain.Branch {
		return domain.Branch{ID: uuid.New(), MerchantID: f.merchant, Name: name, Location: northOf(se, km)}
	}
	f.near = branch("Perto", 1)
	f.mid = branch("Meio", 6)
	f.far = branch("Longe", 50)
	f.branches = &mockBranchRepository{branches: []domain.Branch{f.far, f.mid, f.near}}

	f.bread = domain.Product{ID: uuid.New(), Name: "Pão", CategoryID: f.food.ID, Active: true}
	f.soap = domain.Product{ID: uuid.New(), Name: "Sabão", CategoryID: cleaning.ID, Active: true}
	f.products.products[f.bread.ID] = f.bread
	f.products.products[f.soap.ID] = f.soap

	stock := func(p domain.Product, b domain.Branch, qty int, price string) domain.StockRecord {
		return domain.StockRecord{
			ID:        uuid.New(),
			ProductID: p.ID,
			BranchID:  b.ID,
			Quantity:  qty,
			UnitPrice: decimal.RequireFromString(price),
		}
	}
	f.stock.records = []domain.StockRecord{
		stock(f.bread, f.mid, 5, "8.50"),
		stock(f.bread, f.near, 2, "9.00"),
		stock(f.soap, f.near, 3, "4.00"),
		stock(f.bread, f.far, 10, "7.00"),
	}

	return f
}

func (f *fixture) service(limits RadiusLimits) DiscoveryService {
	logger := zap.NewNop()
	return NewDiscoveryService(
		f.branches, f.products, f.categories, f.stock, f.rules,
		discovery.NewEngine(logger),
		shipping.NewResolver(decimal.NewFromInt(15), logger),
		limits,
		logger,
	)
}

var testLimits = RadiusLimits{DefaultKm: 10, MaxKm: 100}

func TestDiscover_RanksNearestFirst(t *testing.T) {
	f := newFixture()

	result, err := f.service(testLimits).Discover(context.Background(), DiscoverQuery{
		Origin:   se,
		RadiusKm: ptr(10.0),
	})
	require.NoError(t, err)

	require.Len(t, result.Offers, 3)
	assert.Equal(t, f.near.ID, result.Offers[0].Branch.ID)
	assert.Equal(t, f.near.ID, result.Offers[1].Branch.ID)
	assert.Equal(t, f.mid.ID, result.Offers[2].Branch.ID)
	assert.InDelta(t, 6.0, *result.Offers[2].DistanceKm, 0.01)
	assert.True(t, result.Offers[2].UnitPrice.Equal(decimal.RequireFromString("8.50")))
	assert.Empty(t, result.Shipping)
	assert.Equal(t, 10.0, result.RadiusKm)
}

func TestDiscover_OnlyRequestsStockForBranchesInRadius(t *testing.T) {
	f := newFixture()

	_, err := f.service(testLimits).Discover(context.Background(), DiscoverQuery{Origin: se, RadiusKm: ptr(10.0)})
	require.NoError(t, err)

	assert.ElementsMatch(t, []uuid.UUID{f.near.ID, f.mid.ID}, f.stock.requested)
}

func TestDiscover_UsesDefaultRadius(t *testing.T) {
	f := newFixture()

	result, err := f.service(RadiusLimits{DefaultKm: 2, MaxKm: 100}).Discover(context.Background(), DiscoverQuery{Origin: se})
	require.NoError(t, err)

	assert.Equal(t, 2.0, result.RadiusKm)
	require.Len(t, result.Offers, 2)
	for _, o := range result.Offers {
		assert.Equal(t, f.near.ID, o.Branch.ID)
	}
}

func TestDiscover_NonPositiveRadiusIsEmpty(t *testing.T) {
	for _, radius := range []float64{0, -5} {
		f := newFixture()

		result, err := f.service(testLimits).Discover(context.Background(), DiscoverQuery{Origin: se, RadiusKm: ptr(radius)})
		require.NoError(t, err)

		assert.NotNil(t, result.Offers)
		assert.Empty(t, result.Offers)
		assert.Empty(t, f.stock.requested)
	}
}

func TestDiscover_RejectsInvalidInput(t *testing.T) {
	f := newFixture()
	svc := f.service(testLimits)
	ctx := context.Background()

	_, err := svc.Discover(ctx, DiscoverQuery{Origin: domain.Coordinate{Lat: 91, Lng: 0}})
	assert.ErrorIs(t, err, domain.ErrInvalidCoordinate)

	_, err = svc.Discover(ctx, DiscoverQuery{Origin: se, RadiusKm: ptr(101.0)})
	assert.ErrorIs(t, err, ErrRadiusTooLarge)

	_, err = svc.Discover(ctx, DiscoverQuery{Origin: se, Subtotal: ptr(decimal.NewFromInt(-1))})
	assert.ErrorIs(t, err, ErrInvalidSubtotal)

	_, err = svc.Discover(ctx, DiscoverQuery{Origin: se, CategoryID: ptr(uuid.New())})
	assert.ErrorIs(t, err, repository.ErrCategoryNotFound)
}

func TestDiscover_CategoryFilter(t *testing.T) {
	f := newFixture()

	result, err := f.service(testLimits).Discover(context.Background(), DiscoverQuery{
		Origin:     se,
		RadiusKm:   ptr(10.0),
		CategoryID: &f.food.ID,
	})
	require.NoError(t, err)

	require.Len(t, result.Offers, 2)
	for _, o := range result.Offers {
		assert.Equal(t, f.bread.ID, o.Product.ID)
	}
}

func TestDiscover_QuotesShippingPerBranch(t *testing.T) {
	f := newFixture()
	f.rules.rules[f.mid.ID] = []domain.ShippingRule{
		{ID: uuid.New(), BranchID: f.mid.ID, Kind: domain.ShippingRuleFixed, Value: decimal.NewFromInt(9), Area: "geral"},
	}

	result, err := f.service(testLimits).Discover(context.Background(), DiscoverQuery{
		Origin:   se,
		RadiusKm: ptr(10.0),
		Subtotal: ptr(decimal.NewFromInt(40)),
	})
	require.NoError(t, err)

	require.Len(t, result.Shipping, 2)

	mid := result.Shipping[f.mid.ID]
	assert.True(t, mid.Cost.Equal(decimal.NewFromInt(9)))
	assert.Equal(t, domain.DeliveryNextDay, mid.DeliveryWindow)

	near := result.Shipping[f.near.ID]
	assert.True(t, near.IsFallback())
	assert.True(t, near.Cost.Equal(decimal.NewFromInt(15)))
	assert.Equal(t, 1, f.rules.calls)
}

func TestDiscover_PropagatesRepositoryErrors(t *testing.T) {
	boom := errors.New("connection reset")

	f := newFixture()
	f.stock.err = boom
	_, err := f.service(testLimits).Discover(context.Background(), DiscoverQuery{Origin: se, RadiusKm: ptr(10.0)})
	assert.ErrorIs(t, err, boom)

	f = newFixture()
	f.branches.err = boom
	_, err = f.service(testLimits).Discover(context.Background(), DiscoverQuery{Origin: se, RadiusKm: ptr(10.0)})
	assert.ErrorIs(t, err, boom)
}

func TestDiscover_StopsOnCancelledContext(t *testing.T) {
	f := newFixture()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.service(testLimits).Discover(ctx, DiscoverQuery{Origin: se, RadiusKm: ptr(10.0)})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNearbyBranches_SortedByDistance(t *testing.T) {
	f := newFixture()

	nearby, err := f.service(testLimits).NearbyBranches(context.Background(), se, ptr(60.0))
	require.NoError(t, err)

	require.Len(t, nearby, 3)
	assert.Equal(t, f.near.ID, nearby[0].Branch.ID)
	assert.Equal(t, f.mid.ID, nearby[1].Branch.ID)
	assert.Equal(t, f.far.ID, nearby[2].Branch.ID)
	assert.InDelta(t, 50.0, nearby[2].DistanceKm, 0.01)
}

func TestCategories(t *testing.T) {
	f := newFixture()

	categories, err := f.service(testLimits).Categories(context.Background())
	require.NoError(t, err)
	assert.Len(t, categories, 2)
}

// Feature: geo-discovery, Property 9: Widening the radius never loses offers
func TestProperty_WiderRadiusIsSuperset(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	f := newFixture()
	svc := f.service(testLimits)

	properties.Property("offers within r1 are contained in offers within r2 >= r1", prop.ForAll(
		func(r1, extra float64) bool {
			ctx := context.Background()
			small, err := svc.Discover(ctx, DiscoverQuery{Origin: se, RadiusKm: ptr(r1)})
			if err != nil {
				return false
			}
			large, err := svc.Discover(ctx, DiscoverQuery{Origin: se, RadiusKm: ptr(r1 + extra)})
			if err != nil {
				return false
			}

			ids := make(map[uuid.UUID]bool, len(large.Offers))
			for _, o := range large.Offers {
				ids[o.Stock.ID] = true
			}
			for _, o := range small.Offers {
				if !ids[o.Stock.ID] {
					return false
				}
			}
			return true
		},
		gen.Float64Range(0, 60),
		gen.Float64Range(0, 40),
	))

	properties.TestingRun(t)
}
