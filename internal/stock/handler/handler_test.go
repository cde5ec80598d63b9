package handler

import (
	"context"
	"testing"
	"time"

	"github.com/fekuna/omnipos-retail-service/internal/auth"
	"github.com/fekuna/omnipos-retail-service/internal/event"
	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/fekuna/omnipos-retail-service/internal/rpc/rpctest"
	"github.com/fekuna/omnipos-retail-service/internal/stock/usecase"
	"github.com/fekuna/omnipos-retail-service/internal/store/memory"
	"github.com/fekuna/omnipos-retail-service/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const secret = "stock-handler-secret"

type env struct {
	client    *rpctest.Client
	ctx       context.Context
	userID    int64
	product   int64
	warehouse int64
}

func setup(t *testing.T) *env {
	t.Helper()
	s := memory.NewStore()
	catalogRepo := memory.NewCatalogRepository(s)
	ctx := context.Background()

	u := &model.User{Username: "gudang", FullName: "Staf Gudang", Email: "gudang@example.com", IsActive: true}
	require.NoError(t, catalogRepo.CreateUser(ctx, u))
	p := &model.Product{Name: "Rice 5kg", SKU: "RICE-5", Unit: "bag", IsActive: true}
	require.NoError(t, catalogRepo.CreateProduct(ctx, p))
	w := &model.Warehouse{Name: "Main", Location: "Jakarta", IsActive: true}
	require.NoError(t, catalogRepo.CreateWarehouse(ctx, w))

	uc := usecase.NewStockUseCase(memory.NewStockRepository(s), catalogRepo, memory.NewTxManager(s), event.Nop{}, logger.NewNop())
	h := NewStockHandler(uc, logger.NewNop())
	client := rpctest.Start(t, ServiceName, func(srv *grpc.Server) { Register(srv, h) },
		grpc.UnaryInterceptor(auth.UnaryInterceptor(secret, logger.NewNop())),
	)

	token, err := auth.GenerateToken(secret, u.ID, "staff", time.Hour)
	require.NoError(t, err)
	return &env{client: client, ctx: rpctest.WithBearer(ctx, token), userID: u.ID, product: p.ID, warehouse: w.ID}
}

func TestAdjustStockRecordsActingUser(t *testing.T) {
	e := setup(t)

	var created AdjustStockResponse
	require.NoError(t, e.client.Call(e.ctx, "CreateStock", &CreateStockRequest{ProductID: e.product, WarehouseID: e.warehouse, Quantity: 10}, &created))
	require.NotNil(t, created.Stock)
	assert.Equal(t, 10, created.Stock.Quantity)

	var adjusted AdjustStockResponse
	require.NoError(t, e.client.Call(e.ctx, "AdjustStock", &AdjustStockRequest{
		StockID: created.Stock.ID, QuantityChange: -4, AdjustmentType: "decrease", Reason: "damaged",
	}, &adjusted))
	assert.Equal(t, 6, adjusted.Stock.Quantity)
	require.NotNil(t, adjusted.Adjustment)
	assert.Equal(t, 10, adjusted.Adjustment.PreviousQuantity)
	assert.Equal(t, 6, adjusted.Adjustment.NewQuantity)
	assert.Equal(t, e.userID, adjusted.Adjustment.UserID)

	var history ListAdjustmentsResponse
	require.NoError(t, e.client.Call(e.ctx, "ListAdjustments", &ListAdjustmentsRequest{StockID: &created.Stock.ID}, &history))
	assert.Equal(t, 2, history.Total)
}

func TestAdjustStockErrors(t *testing.T) {
	e := setup(t)

	var created AdjustStockResponse
	require.NoError(t, e.client.Call(e.ctx, "CreateStock", &CreateStockRequest{ProductID: e.product, WarehouseID: e.warehouse, Quantity: 3}, &created))

	var resp AdjustStockResponse
	err := e.client.Call(e.ctx, "AdjustStock", &AdjustStockRequest{StockID: created.Stock.ID, QuantityChange: -5, AdjustmentType: "decrease", Reason: "sold"}, &resp)
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))

	err = e.client.Call(e.ctx, "AdjustStock", &AdjustStockRequest{StockID: created.Stock.ID, QuantityChange: 5, AdjustmentType: "decrease", Reason: "sold"}, &resp)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	err = e.client.Call(e.ctx, "AdjustStock", &AdjustStockRequest{StockID: 999, QuantityChange: 1, AdjustmentType: "increase", Reason: "found"}, &resp)
	assert.Equal(t, codes.NotFound, status.Code(err))

	err = e.client.Call(context.Background(), "AdjustStock", &AdjustStockRequest{StockID: created.Stock.ID, QuantityChange: 1, AdjustmentType: "increase", Reason: "found"}, &resp)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	var st model.Stock
	require.NoError(t, e.client.Call(e.ctx, "GetStock", &GetStockRequest{ID: created.Stock.ID}, &st))
	assert.Equal(t, 3, st.Quantity)
}

func TestLowStockListing(t *testing.T) {
	e := setup(t)

	var created AdjustStockResponse
	require.NoError(t, e.client.Call(e.ctx, "CreateStock", &CreateStockRequest{ProductID: e.product, WarehouseID: e.warehouse, Quantity: 4}, &created))

	var low ListStocksResponse
	require.NoError(t, e.client.Call(e.ctx, "ListLowStock", &ListStocksRequest{}, &low))
	assert.Zero(t, low.Total)

	var st model.Stock
	require.NoError(t, e.client.Call(e.ctx, "SetMinimumStock", &SetMinimumStockRequest{StockID: created.Stock.ID, MinimumStock: 5}, &st))
	assert.Equal(t, 5, st.MinimumStock)

	require.NoError(t, e.client.Call(e.ctx, "ListLowStock", &ListStocksRequest{WarehouseID: &e.warehouse}, &low))
	assert.Equal(t, 1, low.Total)
	require.Len(t, low.Stocks, 1)
	assert.Equal(t, created.Stock.ID, low.Stocks[0].ID)

	var corrected AdjustStockResponse
	require.NoError(t, e.client.Call(e.ctx, "CorrectStock", &CorrectStockRequest{StockID: created.Stock.ID, NewQuantity: 12, Reason: "recount"}, &corrected))
	assert.Equal(t, 12, corrected.Stock.Quantity)
	assert.Equal(t, model.AdjustmentCorrection, corrected.Adjustment.AdjustmentType)
}
