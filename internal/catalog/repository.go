package catalog

import (
	"context"

	"github.com/fekuna/omnipos-retail-service/internal/catalog/dto"
	"github.com/fekuna/omnipos-retail-service/internal/model"
)

// Unique constraint names shared by every backend.
const (
	ConstraintProductSKU  = "products_sku_key"
	ConstraintCustomerKTP = "customers_ktp_number_key"
	ConstraintUsername    = "users_username_key"
	ConstraintUserEmail   = "users_email_key"
)

// Repository stores master data. Find* methods return nil, nil when the row
// does not exist.
type Repository interface {
	// Categories
	CreateCategory(ctx context.Context, c *model.Category) error
	UpdateCategory(ctx context.Context, c *model.Category) error
	FindCategoryByID(ctx context.Context, id int64) (*model.Category, error)
	ListCategories(ctx context.Context) ([]model.Category, error)

	// Products
	CreateProduct(ctx context.Context, p *model.Product) error
	UpdateProduct(ctx context.Context, p *model.Product) error
	FindProductByID(ctx context.Context, id int64) (*model.Product, error)
	// FindProductByIDForShare reads inside the open transaction and keeps the
	// row from being updated until it ends.
	FindProductByIDForShare(ctx context.Context, id int64) (*model.Product, error)
	FindProductsByIDs(ctx context.Context, ids []int64) ([]model.Product, error)
	ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error)

	// Warehouses
	CreateWarehouse(ctx context.Context, w *model.Warehouse) error
	UpdateWarehouse(ctx context.Context, w *model.Warehouse) error
	FindWarehouseByID(ctx context.Context, id int64) (*model.Warehouse, error)
	FindWarehouseByIDForShare(ctx context.Context, id int64) (*model.Warehouse, error)
	ListWarehouses(ctx context.Context, activeOnly bool) ([]model.Warehouse, error)

	// Customers
	CreateCustomer(ctx context.Context, c *model.Customer) error
	UpdateCustomer(ctx context.Context, c *model.Customer) error
	FindCustomerByID(ctx context.Context, id int64) (*model.Customer, error)

	// Users
	CreateUser(ctx context.Context, u *model.User) error
	UpdateUser(ctx context.Context, u *model.User) error
	FindUserByID(ctx context.Context, id int64) (*model.User, error)
}

// SearchRepository is the full-text product index.
type SearchRepository interface {
	IndexProduct(ctx context.Context, p *model.Product) error
	SearchProducts(ctx context.Context, filters *dto.ProductFilters) ([]int64, int, error)
}
