package handler

import (
	"context"
	"testing"
	"time"

	"github.com/fekuna/omnipos-retail-service/internal/apperror"
	"github.com/fekuna/omnipos-retail-service/internal/auth"
	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/fekuna/omnipos-retail-service/internal/rpc/rpctest"
	"github.com/fekuna/omnipos-retail-service/internal/sale"
	"github.com/fekuna/omnipos-retail-service/internal/sale/dto"
	"github.com/fekuna/omnipos-retail-service/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const secret = "sale-handler-secret"

type mockSaleUseCase struct {
	mock.Mock
}

func (m *mockSaleUseCase) PostSale(ctx context.Context, input *dto.PostSaleInput) (*model.Sale, error) {
	args := m.Called(ctx, input)
	s, _ := args.Get(0).(*model.Sale)
	return s, args.Error(1)
}

func (m *mockSaleUseCase) GetSale(ctx context.Context, id int64) (*model.Sale, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*model.Sale)
	return s, args.Error(1)
}

func (m *mockSaleUseCase) ListSales(ctx context.Context, filters *dto.SaleFilters) ([]model.Sale, int, error) {
	args := m.Called(ctx, filters)
	s, _ := args.Get(0).([]model.Sale)
	return s, args.Int(1), args.Error(2)
}

var _ sale.UseCase = (*mockSaleUseCase)(nil)

func start(t *testing.T, uc sale.UseCase) (*rpctest.Client, context.Context) {
	t.Helper()
	h := NewSaleHandler(uc, logger.NewNop())
	client := rpctest.Start(t, ServiceName, func(s *grpc.Server) { Register(s, h) },
		grpc.UnaryInterceptor(auth.UnaryInterceptor(secret, logger.NewNop())),
	)
	token, err := auth.GenerateToken(secret, 9, "cashier", time.Hour)
	require.NoError(t, err)
	return client, rpctest.WithBearer(context.Background(), token)
}

func TestPostSalePassesActingUserAndAmounts(t *testing.T) {
	uc := &mockSaleUseCase{}
	client, ctx := start(t, uc)

	uc.On("PostSale", mock.Anything, mock.MatchedBy(func(in *dto.PostSaleInput) bool {
		return in.UserID == 9 && in.CustomerID == 3 && len(in.Items) == 1 &&
			in.Items[0].UnitPrice.Equal(decimal.RequireFromString("100.00")) &&
			in.DiscountPercentage.Equal(decimal.NewFromInt(10)) &&
			in.TaxPercentage.Equal(decimal.NewFromInt(5))
	})).Return(&model.Sale{
		ID:                1,
		TransactionNumber: "TRX20260315-0A1B2C",
		TotalAmount:       decimal.RequireFromString("283.50"),
		Items:             []model.SaleItem{{ProductID: 1, Quantity: 3}},
	}, nil)

	var got model.Sale
	err := client.Call(ctx, "PostSale", &PostSaleRequest{
		CustomerID:         3,
		Items:              []SaleItemRequest{{ProductID: 1, WarehouseID: 1, Quantity: 3, UnitPrice: decimal.RequireFromString("100.00")}},
		DiscountPercentage: decimal.NewFromInt(10),
		TaxPercentage:      decimal.NewFromInt(5),
	}, &got)
	require.NoError(t, err)
	assert.Equal(t, "TRX20260315-0A1B2C", got.TransactionNumber)
	assert.Equal(t, "283.50", got.TotalAmount.StringFixed(2))
	require.Len(t, got.Items, 1)
	uc.AssertExpectations(t)
}

func TestPostSaleStatusCodes(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code codes.Code
	}{
		{"insufficient stock", &apperror.ItemError{Index: 0, Err: &apperror.StockError{Available: 10, Requested: 15}}, codes.FailedPrecondition},
		{"unknown customer", apperror.NotFound("customer", 3), codes.NotFound},
		{"bad price", &apperror.ItemError{Index: 1, Err: apperror.ErrInvalidPrice}, codes.InvalidArgument},
		{"number exhausted", apperror.Conflict(sale.ConstraintTransactionNumber), codes.Aborted},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			uc := &mockSaleUseCase{}
			client, ctx := start(t, uc)
			uc.On("PostSale", mock.Anything, mock.Anything).Return(nil, tc.err)

			var got model.Sale
			err := client.Call(ctx, "PostSale", &PostSaleRequest{CustomerID: 3}, &got)
			assert.Equal(t, tc.code, status.Code(err))
		})
	}
}

func TestPostSaleRequiresToken(t *testing.T) {
	uc := &mockSaleUseCase{}
	client, _ := start(t, uc)

	var got model.Sale
	err := client.Call(context.Background(), "PostSale", &PostSaleRequest{CustomerID: 3}, &got)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
	uc.AssertNotCalled(t, "PostSale", mock.Anything, mock.Anything)
}

func TestListSales(t *testing.T) {
	uc := &mockSaleUseCase{}
	client, ctx := start(t, uc)

	customer := int64(3)
	uc.On("ListSales", mock.Anything, mock.MatchedBy(func(f *dto.SaleFilters) bool {
		return f.CustomerID != nil && *f.CustomerID == 3 && f.PageSize == 20
	})).Return([]model.Sale{{ID: 1}, {ID: 2}}, 2, nil)

	var got ListSalesResponse
	require.NoError(t, client.Call(ctx, "ListSales", &ListSalesRequest{CustomerID: &customer, PageSize: 20}, &got))
	assert.Equal(t, 2, got.Total)
	assert.Len(t, got.Sales, 2)
}
