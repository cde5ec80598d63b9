package usecase

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-retail-service/internal/apperror"
	"github.com/fekuna/omnipos-retail-service/internal/catalog"
	"github.com/fekuna/omnipos-retail-service/internal/catalog/dto"
	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/fekuna/omnipos-retail-service/pkg/logger"
	"go.uber.org/zap"
)

type catalogUseCase struct {
	repo   catalog.Repository
	search catalog.SearchRepository
	logger logger.ZapLogger
	now    func() time.Time
}

// NewCatalogUseCase wires the master data use case. search may be nil, in
// which case product search is served by the database alone.
func NewCatalogUseCase(repo catalog.Repository, search catalog.SearchRepository, log logger.ZapLogger) catalog.UseCase {
	return &catalogUseCase{
		repo:   repo,
		search: search,
		logger: log,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// ---- categories ----

func (uc *catalogUseCase) CreateCategory(ctx context.Context, input *dto.CreateCategoryInput) (*model.Category, error) {
	if err := requireText("name", &input.Name, 100); err != nil {
		return nil, err
	}
	if err := optionalText("description", input.Description, 500); err != nil {
		return nil, err
	}

	c := &model.Category{
		Name:        input.Name,
		Description: input.Description,
		CreatedAt:   uc.now(),
	}
	if err := uc.repo.CreateCategory(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (uc *catalogUseCase) UpdateCategory(ctx context.Context, input *dto.UpdateCategoryInput) (*model.Category, error) {
	c, err := uc.GetCategory(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		if err := requireText("name", input.Name, 100); err != nil {
			return nil, err
		}
		c.Name = *input.Name
	}
	if input.Description != nil {
		if err := optionalText("description", input.Description, 500); err != nil {
			return nil, err
		}
		c.Description = input.Description
	}

	if err := uc.repo.UpdateCategory(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (uc *catalogUseCase) GetCategory(ctx context.Context, id int64) (*model.Category, error) {
	c, err := uc.repo.FindCategoryByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperror.NotFound("category", id)
	}
	return c, nil
}

func (uc *catalogUseCase) ListCategories(ctx context.Context) ([]model.Category, error) {
	return uc.repo.ListCategories(ctx)
}

// ---- products ----

func (uc *catalogUseCase) CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error) {
	if err := requireText("name", &input.Name, 200); err != nil {
		return nil, err
	}
	if err := requireText("sku", &input.SKU, 50); err != nil {
		return nil, err
	}
	if err := optionalText("description", input.Description, 1000); err != nil {
		return nil, err
	}
	if err := validPrice("purchase_price", input.PurchasePrice); err != nil {
		return nil, err
	}
	if err := validPrice("selling_price", input.SellingPrice); err != nil {
		return nil, err
	}
	if input.Unit == "" {
		input.Unit = model.DefaultUnit
	}
	if err := requireText("unit", &input.Unit, 20); err != nil {
		return nil, err
	}
	if input.CategoryID != nil {
		if _, err := uc.GetCategory(ctx, *input.CategoryID); err != nil {
			return nil, err
		}
	}

	p := &model.Product{
		Name:          input.Name,
		Description:   input.Description,
		SKU:           input.SKU,
		CategoryID:    input.CategoryID,
		PurchasePrice: input.PurchasePrice,
		SellingPrice:  input.SellingPrice,
		Unit:          input.Unit,
		IsActive:      true,
		CreatedAt:     uc.now(),
	}
	if err := uc.repo.CreateProduct(ctx, p); err != nil {
		return nil, err
	}

	// Sync to Elastic
	go uc.syncProduct(context.Background(), *p)

	return p, nil
}

func (uc *catalogUseCase) UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, error) {
	p, err := uc.GetProduct(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if err := requireText("name", input.Name, 200); err != nil {
			return nil, err
		}
		p.Name = *input.Name
	}
	if input.SKU != nil {
		if err := requireText("sku", input.SKU, 50); err != nil {
			return nil, err
		}
		p.SKU = *input.SKU
	}
	if input.Description != nil {
		if err := optionalText("description", input.Description, 1000); err != nil {
			return nil, err
		}
		p.Description = input.Description
	}
	if input.CategoryID != nil {
		if _, err := uc.GetCategory(ctx, *input.CategoryID); err != nil {
			return nil, err
		}
		p.CategoryID = input.CategoryID
	}
	if input.PurchasePrice != nil {
		if err := validPrice("purchase_price", *input.PurchasePrice); err != nil {
			return nil, err
		}
		p.PurchasePrice = *input.PurchasePrice
	}
	if input.SellingPrice != nil {
		if err := validPrice("selling_price", *input.SellingPrice); err != nil {
			return nil, err
		}
		p.SellingPrice = *input.SellingPrice
	}
	if input.Unit != nil {
		if err := requireText("unit", input.Unit, 20); err != nil {
			return nil, err
		}
		p.Unit = *input.Unit
	}
	if input.IsActive != nil {
		p.IsActive = *input.IsActive
	}

	if err := uc.repo.UpdateProduct(ctx, p); err != nil {
		return nil, err
	}

	go uc.syncProduct(context.Background(), *p)

	return p, nil
}

func (uc *catalogUseCase) syncProduct(ctx context.Context, p model.Product) {
	if uc.search == nil {
		return
	}
	if err := uc.search.IndexProduct(ctx, &p); err != nil {
		uc.logger.Error("failed to index product", zap.Int64("product_id", p.ID), zap.Error(err))
	}
}

func (uc *catalogUseCase) GetProduct(ctx context.Context, id int64) (*model.Product, error) {
	p, err := uc.repo.FindProductByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperror.NotFound("product", id)
	}
	return p, nil
}

func (uc *catalogUseCase) ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error) {
	return uc.repo.ListProducts(ctx, filters)
}

// SearchProducts queries the search index first and loads the hits from the
// database in relevance order. Any index failure falls back to a database
// substring match.
func (uc *catalogUseCase) SearchProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error) {
	if filters.SearchQuery == "" || uc.search == nil {
		return uc.repo.ListProducts(ctx, filters)
	}

	ids, total, err := uc.search.SearchProducts(ctx, filters)
	if err != nil {
		uc.logger.Error("search index failed, falling back to DB", zap.Error(err))
		return uc.repo.ListProducts(ctx, filters)
	}

	found, err := uc.repo.FindProductsByIDs(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	byID := make(map[int64]model.Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}
	products := make([]model.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			products = append(products, p)
		}
	}
	return products, total, nil
}

// ---- warehouses ----

func (uc *catalogUseCase) CreateWarehouse(ctx context.Context, input *dto.CreateWarehouseInput) (*model.Warehouse, error) {
	if err := requireText("name", &input.Name, 100); err != nil {
		return nil, err
	}
	if err := requireText("location", &input.Location, 200); err != nil {
		return nil, err
	}
	if err := optionalText("description", input.Description, 500); err != nil {
		return nil, err
	}

	w := &model.Warehouse{
		Name:        input.Name,
		Location:    input.Location,
		Description: input.Description,
		IsActive:    true,
		CreatedAt:   uc.now(),
	}
	if err := uc.repo.CreateWarehouse(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

func (uc *catalogUseCase) UpdateWarehouse(ctx context.Context, input *dto.UpdateWarehouseInput) (*model.Warehouse, error) {
	w, err := uc.GetWarehouse(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		if err := requireText("name", input.Name, 100); err != nil {
			return nil, err
		}
		w.Name = *input.Name
	}
	if input.Location != nil {
		if err := requireText("location", input.Location, 200); err != nil {
			return nil, err
		}
		w.Location = *input.Location
	}
	if input.Description != nil {
		if err := optionalText("description", input.Description, 500); err != nil {
			return nil, err
		}
		w.Description = input.Description
	}
	if input.IsActive != nil {
		w.IsActive = *input.IsActive
	}

	if err := uc.repo.UpdateWarehouse(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

func (uc *catalogUseCase) GetWarehouse(ctx context.Context, id int64) (*model.Warehouse, error) {
	w, err := uc.repo.FindWarehouseByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if w == nil {
		return nil, apperror.NotFound("warehouse", id)
	}
	return w, nil
}

func (uc *catalogUseCase) ListWarehouses(ctx context.Context, activeOnly bool) ([]model.Warehouse, error) {
	return uc.repo.ListWarehouses(ctx, activeOnly)
}

// ---- customers ----

func (uc *catalogUseCase) CreateCustomer(ctx context.Context, input *dto.CreateCustomerInput) (*model.Customer, error) {
	if err := requireText("name", &input.Name, 100); err != nil {
		return nil, err
	}
	if err := requireText("address", &input.Address, 500); err != nil {
		return nil, err
	}
	if err := requireText("ktp_number", &input.KTPNumber, 20); err != nil {
		return nil, err
	}
	if err := optionalText("phone", input.Phone, 20); err != nil {
		return nil, err
	}

	c := &model.Customer{
		Name:      input.Name,
		Address:   input.Address,
		KTPNumber: input.KTPNumber,
		Phone:     input.Phone,
		CreatedAt: uc.now(),
	}
	if err := uc.repo.CreateCustomer(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (uc *catalogUseCase) UpdateCustomer(ctx context.Context, input *dto.UpdateCustomerInput) (*model.Customer, error) {
	c, err := uc.GetCustomer(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		if err := requireText("name", input.Name, 100); err != nil {
			return nil, err
		}
		c.Name = *input.Name
	}
	if input.Address != nil {
		if err := requireText("address", input.Address, 500); err != nil {
			return nil, err
		}
		c.Address = *input.Address
	}
	if input.KTPNumber != nil {
		if err := requireText("ktp_number", input.KTPNumber, 20); err != nil {
			return nil, err
		}
		c.KTPNumber = *input.KTPNumber
	}
	if input.Phone != nil {
		if err := optionalText("phone", input.Phone, 20); err != nil {
			return nil, err
		}
		c.Phone = input.Phone
	}

	if err := uc.repo.UpdateCustomer(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (uc *catalogUseCase) GetCustomer(ctx context.Context, id int64) (*model.Customer, error) {
	c, err := uc.repo.FindCustomerByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, apperror.NotFound("customer", id)
	}
	return c, nil
}

// ---- users ----

func (uc *catalogUseCase) CreateUser(ctx context.Context, input *dto.CreateUserInput) (*model.User, error) {
	if err := requireText("username", &input.Username, 50); err != nil {
		return nil, err
	}
	if err := requireText("full_name", &input.FullName, 100); err != nil {
		return nil, err
	}
	if err := requireText("email", &input.Email, 255); err != nil {
		return nil, err
	}

	u := &model.User{
		Username:  input.Username,
		FullName:  input.FullName,
		Email:     input.Email,
		IsActive:  true,
		CreatedAt: uc.now(),
	}
	if err := uc.repo.CreateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (uc *catalogUseCase) UpdateUser(ctx context.Context, input *dto.UpdateUserInput) (*model.User, error) {
	u, err := uc.GetUser(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if input.Username != nil {
		if err := requireText("username", input.Username, 50); err != nil {
			return nil, err
		}
		u.Username = *input.Username
	}
	if input.FullName != nil {
		if err := requireText("full_name", input.FullName, 100); err != nil {
			return nil, err
		}
		u.FullName = *input.FullName
	}
	if input.Email != nil {
		if err := requireText("email", input.Email, 255); err != nil {
			return nil, err
		}
		u.Email = *input.Email
	}
	if input.IsActive != nil {
		u.IsActive = *input.IsActive
	}

	if err := uc.repo.UpdateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (uc *catalogUseCase) GetUser(ctx context.Context, id int64) (*model.User, error) {
	u, err := uc.repo.FindUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, apperror.NotFound("user", id)
	}
	return u, nil
}
