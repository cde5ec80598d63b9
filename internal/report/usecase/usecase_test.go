package usecase

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/fekuna/omnipos-retail-service/internal/apperror"
	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/fekuna/omnipos-retail-service/internal/store/memory"
	"github.com/fekuna/omnipos-retail-service/pkg/cache"
	"github.com/fekuna/omnipos-retail-service/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockCache struct {
	mock.Mock
}

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	b, _ := args.Get(0).([]byte)
	return b, args.Error(1)
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *mockCache) Delete(ctx context.Context, keys ...string) error {
	args := m.Called(ctx, keys)
	return args.Error(0)
}

type seed struct {
	store      *memory.Store
	sales      *memory.SaleRepository
	alice, bob int64
	north      int64
	south      int64
	apple      int64
	pear       int64
	plum       int64
}

func newSeed(t *testing.T) *seed {
	t.Helper()
	ctx := context.Background()
	s := memory.NewStore()
	cat := memory.NewCatalogRepository(s)

	alice := &model.User{Username: "alice", FullName: "Alice", Email: "alice@example.com", IsActive: true}
	bob := &model.User{Username: "bob", FullName: "Bob", Email: "bob@example.com", IsActive: true}
	require.NoError(t, cat.CreateUser(ctx, alice))
	require.NoError(t, cat.CreateUser(ctx, bob))
	north := &model.Warehouse{Name: "North", Location: "Medan", IsActive: true}
	south := &model.Warehouse{Name: "South", Location: "Surabaya", IsActive: true}
	require.NoError(t, cat.CreateWarehouse(ctx, north))
	require.NoError(t, cat.CreateWarehouse(ctx, south))
	apple := &model.Product{Name: "Apple", SKU: "APL", Unit: "pcs", IsActive: true}
	pear := &model.Product{Name: "Pear", SKU: "PER", Unit: "pcs", IsActive: true}
	plum := &model.Product{Name: "Plum", SKU: "PLM", Unit: "pcs", IsActive: true}
	require.NoError(t, cat.CreateProduct(ctx, apple))
	require.NoError(t, cat.CreateProduct(ctx, pear))
	require.NoError(t, cat.CreateProduct(ctx, plum))

	return &seed{
		store: s, sales: memory.NewSaleRepository(s),
		alice: alice.ID, bob: bob.ID,
		north: north.ID, south: south.ID,
		apple: apple.ID, pear: pear.ID, plum: plum.ID,
	}
}

func (s *seed) sale(t *testing.T, number string, userID int64, at time.Time, total string, items ...model.SaleItem) {
	t.Helper()
	require.NoError(t, s.sales.Create(context.Background(), &model.Sale{
		TransactionNumber: number,
		CustomerID:        1,
		UserID:            userID,
		SaleDate:          at,
		TotalAmount:       decimal.RequireFromString(total),
		Items:             items,
	}))
}

func line(productID, warehouseID int64, q int, total string) model.SaleItem {
	return model.SaleItem{ProductID: productID, WarehouseID: warehouseID, Quantity: q, TotalAmount: decimal.RequireFromString(total)}
}

func TestMonthlyReportEmptyMonth(t *testing.T) {
	s := newSeed(t)
	uc := NewReportUseCase(memory.NewReportRepository(s.store), nil, 0, 0, logger.NewNop())

	r, err := uc.MonthlyReport(context.Background(), 2, 2026)
	require.NoError(t, err)
	assert.Equal(t, 2, r.Month)
	assert.Equal(t, 2026, r.Year)
	assert.True(t, r.TotalSales.IsZero())
	assert.Zero(t, r.TotalTransactions)
	assert.NotNil(t, r.TopSellingItems)
	assert.Empty(t, r.TopSellingItems)
	assert.NotNil(t, r.SalesByWarehouse)
	assert.Empty(t, r.SalesByWarehouse)
	assert.NotNil(t, r.SalesByEmployee)
	assert.Empty(t, r.SalesByEmployee)

	b, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"top_selling_items":[]`)
}

func TestMonthlyReportRejectsBadPeriod(t *testing.T) {
	uc := NewReportUseCase(memory.NewReportRepository(memory.NewStore()), nil, 0, 0, logger.NewNop())

	for _, tc := range []struct{ month, year int }{{0, 2026}, {13, 2026}, {6, 0}, {6, -1}} {
		_, err := uc.MonthlyReport(context.Background(), tc.month, tc.year)
		assert.ErrorIs(t, err, apperror.ErrInvalidInput, "month %d year %d", tc.month, tc.year)
	}
}

func TestMonthlyReportAggregates(t *testing.T) {
	s := newSeed(t)
	march := func(day, hour int) time.Time { return time.Date(2026, time.March, day, hour, 0, 0, 0, time.UTC) }

	s.sale(t, "TRX1", s.alice, march(1, 0), "110.00",
		line(s.apple, s.north, 5, "50.00"),
		line(s.pear, s.south, 2, "60.00"),
	)
	s.sale(t, "TRX2", s.bob, march(31, 23), "45.50",
		line(s.apple, s.north, 1, "10.00"),
		line(s.plum, s.north, 6, "35.50"),
	)
	s.sale(t, "TRX3", s.alice, march(15, 12), "20.00",
		line(s.pear, s.north, 2, "20.00"),
	)
	// Outside the period on both sides.
	s.sale(t, "TRX4", s.bob, time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC), "999.00",
		line(s.apple, s.north, 100, "999.00"),
	)
	s.sale(t, "TRX5", s.bob, time.Date(2026, time.February, 28, 23, 59, 59, 0, time.UTC), "999.00",
		line(s.apple, s.north, 100, "999.00"),
	)

	uc := NewReportUseCase(memory.NewReportRepository(s.store), nil, 2, 0, logger.NewNop())
	r, err := uc.MonthlyReport(context.Background(), 3, 2026)
	require.NoError(t, err)

	assert.Equal(t, "175.50", r.TotalSales.StringFixed(2))
	assert.Equal(t, 3, r.TotalTransactions)

	// apple 6 / 60.00, plum 6 / 35.50, pear 4 / 80.00; limited to two.
	require.Len(t, r.TopSellingItems, 2)
	assert.Equal(t, s.apple, r.TopSellingItems[0].ProductID)
	assert.Equal(t, "Apple", r.TopSellingItems[0].ProductName)
	assert.Equal(t, 6, r.TopSellingItems[0].TotalQuantity)
	assert.Equal(t, s.plum, r.TopSellingItems[1].ProductID)

	require.Len(t, r.SalesByWarehouse, 2)
	assert.Equal(t, s.north, r.SalesByWarehouse[0].WarehouseID)
	assert.Equal(t, "115.50", r.SalesByWarehouse[0].TotalSales.StringFixed(2))
	assert.Equal(t, 3, r.SalesByWarehouse[0].TransactionCount)
	assert.Equal(t, "South", r.SalesByWarehouse[1].WarehouseName)
	assert.Equal(t, 1, r.SalesByWarehouse[1].TransactionCount)

	require.Len(t, r.SalesByEmployee, 2)
	assert.Equal(t, "Alice", r.SalesByEmployee[0].EmployeeName)
	assert.Equal(t, "130.00", r.SalesByEmployee[0].TotalSales.StringFixed(2))
	assert.Equal(t, 2, r.SalesByEmployee[0].TransactionCount)
	assert.Equal(t, "Bob", r.SalesByEmployee[1].EmployeeName)
}

func TestMonthlyReportCachesResult(t *testing.T) {
	s := newSeed(t)
	s.sale(t, "TRX1", s.alice, time.Date(2026, time.March, 3, 9, 0, 0, 0, time.UTC), "12.00",
		line(s.apple, s.north, 1, "12.00"),
	)
	c := &mockCache{}
	c.On("Get", mock.Anything, "reports:monthly:2026-03").Return(nil, cache.ErrMiss).Once()
	c.On("Set", mock.Anything, "reports:monthly:2026-03", mock.Anything, 5*time.Minute).Return(nil).Once()

	uc := NewReportUseCase(memory.NewReportRepository(s.store), c, 0, 5*time.Minute, logger.NewNop())
	r, err := uc.MonthlyReport(context.Background(), 3, 2026)
	require.NoError(t, err)
	assert.Equal(t, 1, r.TotalTransactions)
	c.AssertExpectations(t)

	stored, ok := c.Calls[1].Arguments.Get(2).([]byte)
	require.True(t, ok)
	var decoded model.MonthlySalesReport
	require.NoError(t, json.Unmarshal(stored, &decoded))
	assert.Equal(t, "12", decoded.TotalSales.String())
}

func TestMonthlyReportServesCacheHit(t *testing.T) {
	cached, err := json.Marshal(model.MonthlySalesReport{
		Month: 3, Year: 2026, TotalSales: decimal.RequireFromString("99.90"), TotalTransactions: 7,
		TopSellingItems: []model.TopSellingItem{}, SalesByWarehouse: []model.SalesByWarehouse{}, SalesByEmployee: []model.SalesByEmployee{},
	})
	require.NoError(t, err)

	c := &mockCache{}
	c.On("Get", mock.Anything, "reports:monthly:2026-03").Return(cached, nil)

	// The store is empty, so only the cached copy can report seven sales.
	uc := NewReportUseCase(memory.NewReportRepository(memory.NewStore()), c, 0, 0, logger.NewNop())
	r, err := uc.MonthlyReport(context.Background(), 3, 2026)
	require.NoError(t, err)
	assert.Equal(t, 7, r.TotalTransactions)
	assert.Equal(t, "99.90", r.TotalSales.StringFixed(2))
	c.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
