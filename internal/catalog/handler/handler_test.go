package handler

import (
	"context"
	"testing"

	"github.com/fekuna/omnipos-retail-service/internal/catalog/usecase"
	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/fekuna/omnipos-retail-service/internal/rpc/rpctest"
	"github.com/fekuna/omnipos-retail-service/internal/store/memory"
	"github.com/fekuna/omnipos-retail-service/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func startCatalog(t *testing.T) *rpctest.Client {
	t.Helper()
	uc := usecase.NewCatalogUseCase(memory.NewCatalogRepository(memory.NewStore()), nil, logger.NewNop())
	h := NewCatalogHandler(uc, logger.NewNop())
	return rpctest.Start(t, ServiceName, func(s *grpc.Server) { Register(s, h) })
}

func ptr[T any](v T) *T { return &v }

func TestCatalogProductLifecycle(t *testing.T) {
	c := startCatalog(t)
	ctx := context.Background()

	var cat model.Category
	require.NoError(t, c.Call(ctx, "CreateCategory", &CategoryRequest{Name: ptr("Drinks")}, &cat))
	assert.NotZero(t, cat.ID)

	var p model.Product
	require.NoError(t, c.Call(ctx, "CreateProduct", &CreateProductRequest{
		Name:          "Coffee",
		SKU:           "COF-1",
		CategoryID:    &cat.ID,
		PurchasePrice: decimal.RequireFromString("7.50"),
		SellingPrice:  decimal.RequireFromString("12.00"),
	}, &p))
	assert.Equal(t, "pcs", p.Unit)
	assert.True(t, p.IsActive)
	assert.Equal(t, "12.00", p.SellingPrice.StringFixed(2))

	var updated model.Product
	require.NoError(t, c.Call(ctx, "UpdateProduct", &UpdateProductRequest{ID: p.ID, IsActive: ptr(false)}, &updated))
	assert.False(t, updated.IsActive)
	assert.Equal(t, "Coffee", updated.Name)

	var list ListProductsResponse
	require.NoError(t, c.Call(ctx, "ListProducts", &ListProductsRequest{CategoryID: &cat.ID}, &list))
	assert.Equal(t, 1, list.Total)
	require.Len(t, list.Products, 1)
	assert.Equal(t, p.ID, list.Products[0].ID)
}

func TestCatalogErrorsMapToStatusCodes(t *testing.T) {
	c := startCatalog(t)
	ctx := context.Background()

	var p model.Product
	err := c.Call(ctx, "GetProduct", &GetRequest{ID: 404}, &p)
	assert.Equal(t, codes.NotFound, status.Code(err))

	err = c.Call(ctx, "CreateProduct", &CreateProductRequest{Name: "Bad", SKU: "B-1", SellingPrice: decimal.RequireFromString("-1")}, &p)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	var cust model.Customer
	req := &CustomerRequest{Name: ptr("Budi"), Address: ptr("Jl. Sudirman"), KTPNumber: ptr("3171")}
	require.NoError(t, c.Call(ctx, "CreateCustomer", req, &cust))
	err = c.Call(ctx, "CreateCustomer", req, &cust)
	assert.Equal(t, codes.AlreadyExists, status.Code(err))
}

func TestCatalogWarehousesAndUsers(t *testing.T) {
	c := startCatalog(t)
	ctx := context.Background()

	var w model.Warehouse
	require.NoError(t, c.Call(ctx, "CreateWarehouse", &WarehouseRequest{Name: ptr("Main"), Location: ptr("Jakarta")}, &w))
	var closed model.Warehouse
	require.NoError(t, c.Call(ctx, "CreateWarehouse", &WarehouseRequest{Name: ptr("Old"), Location: ptr("Bandung")}, &closed))
	require.NoError(t, c.Call(ctx, "UpdateWarehouse", &WarehouseRequest{ID: closed.ID, IsActive: ptr(false)}, &closed))

	var active ListWarehousesResponse
	require.NoError(t, c.Call(ctx, "ListWarehouses", &ListWarehousesRequest{ActiveOnly: true}, &active))
	require.Len(t, active.Warehouses, 1)
	assert.Equal(t, w.ID, active.Warehouses[0].ID)

	var u model.User
	require.NoError(t, c.Call(ctx, "CreateUser", &UserRequest{Username: ptr("kasir"), FullName: ptr("Kasir Satu"), Email: ptr("kasir@example.com")}, &u))
	var got model.User
	require.NoError(t, c.Call(ctx, "GetUser", &GetRequest{ID: u.ID}, &got))
	assert.Equal(t, "kasir", got.Username)
	assert.True(t, got.IsActive)
}
