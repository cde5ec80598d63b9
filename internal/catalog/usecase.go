package catalog

import (
	"context"

	"github.com/fekuna/omnipos-retail-service/internal/catalog/dto"
	"github.com/fekuna/omnipos-retail-service/internal/model"
)

type UseCase interface {
	CreateCategory(ctx context.Context, input *dto.CreateCategoryInput) (*model.Category, error)
	UpdateCategory(ctx context.Context, input *dto.UpdateCategoryInput) (*model.Category, error)
	GetCategory(ctx context.Context, id int64) (*model.Category, error)
	ListCategories(ctx context.Context) ([]model.Category, error)

	CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error)
	UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, error)
	GetProduct(ctx context.Context, id int64) (*model.Product, error)
	ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error)
	SearchProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error)

	CreateWarehouse(ctx context.Context, input *dto.CreateWarehouseInput) (*model.Warehouse, error)
	UpdateWarehouse(ctx context.Context, input *dto.UpdateWarehouseInput) (*model.Warehouse, error)
	GetWarehouse(ctx context.Context, id int64) (*model.Warehouse, error)
	ListWarehouses(ctx context.Context, activeOnly bool) ([]model.Warehouse, error)

	CreateCustomer(ctx context.Context, input *dto.CreateCustomerInput) (*model.Customer, error)
	UpdateCustomer(ctx context.Context, input *dto.UpdateCustomerInput) (*model.Customer, error)
	GetCustomer(ctx context.Context, id int64) (*model.Customer, error)

	CreateUser(ctx context.Context, input *dto.CreateUserInput) (*model.User, error)
	UpdateUser(ctx context.Context, input *dto.UpdateUserInput) (*model.User, error)
	GetUser(ctx context.Context, id int64) (*model.User, error)
}
