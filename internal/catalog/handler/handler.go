package handler

import (
	"context"

	"github.com/fekuna/omnipos-retail-service/internal/catalog"
	"github.com/fekuna/omnipos-retail-service/internal/catalog/dto"
	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/fekuna/omnipos-retail-service/internal/rpc"
	"github.com/fekuna/omnipos-retail-service/pkg/logger"
	"google.golang.org/grpc"
)

const ServiceName = "retail.v1.CatalogService"

type CatalogServer interface {
	CreateCategory(ctx context.Context, req *CategoryRequest) (*model.Category, error)
	UpdateCategory(ctx context.Context, req *CategoryRequest) (*model.Category, error)
	GetCategory(ctx context.Context, req *GetRequest) (*model.Category, error)
	ListCategories(ctx context.Context, req *ListCategoriesRequest) (*ListCategoriesResponse, error)

	CreateProduct(ctx context.Context, req *CreateProductRequest) (*model.Product, error)
	UpdateProduct(ctx context.Context, req *UpdateProductRequest) (*model.Product, error)
	GetProduct(ctx context.Context, req *GetRequest) (*model.Product, error)
	ListProducts(ctx context.Context, req *ListProductsRequest) (*ListProductsResponse, error)
	SearchProducts(ctx context.Context, req *ListProductsRequest) (*ListProductsResponse, error)

	CreateWarehouse(ctx context.Context, req *WarehouseRequest) (*model.Warehouse, error)
	UpdateWarehouse(ctx context.Context, req *WarehouseRequest) (*model.Warehouse, error)
	GetWarehouse(ctx context.Context, req *GetRequest) (*model.Warehouse, error)
	ListWarehouses(ctx context.Context, req *ListWarehousesRequest) (*ListWarehousesResponse, error)

	CreateCustomer(ctx context.Context, req *CustomerRequest) (*model.Customer, error)
	UpdateCustomer(ctx context.Context, req *CustomerRequest) (*model.Customer, error)
	GetCustomer(ctx context.Context, req *GetRequest) (*model.Customer, error)

	CreateUser(ctx context.Context, req *UserRequest) (*model.User, error)
	UpdateUser(ctx context.Context, req *UserRequest) (*model.User, error)
	GetUser(ctx context.Context, req *GetRequest) (*model.User, error)
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CatalogServer)(nil),
	Methods: []grpc.MethodDesc{
		rpc.Unary(ServiceName, "CreateCategory", CatalogServer.CreateCategory),
		rpc.Unary(ServiceName, "UpdateCategory", CatalogServer.UpdateCategory),
		rpc.Unary(ServiceName, "GetCategory", CatalogServer.GetCategory),
		rpc.Unary(ServiceName, "ListCategories", CatalogServer.ListCategories),
		rpc.Unary(ServiceName, "CreateProduct", CatalogServer.CreateProduct),
		rpc.Unary(ServiceName, "UpdateProduct", CatalogServer.UpdateProduct),
		rpc.Unary(ServiceName, "GetProduct", CatalogServer.GetProduct),
		rpc.Unary(ServiceName, "ListProducts", CatalogServer.ListProducts),
		rpc.Unary(ServiceName, "SearchProducts", CatalogServer.SearchProducts),
		rpc.Unary(ServiceName, "CreateWarehouse", CatalogServer.CreateWarehouse),
		rpc.Unary(ServiceName, "UpdateWarehouse", CatalogServer.UpdateWarehouse),
		rpc.Unary(ServiceName, "GetWarehouse", CatalogServer.GetWarehouse),
		rpc.Unary(ServiceName, "ListWarehouses", CatalogServer.ListWarehouses),
		rpc.Unary(ServiceName, "CreateCustomer", CatalogServer.CreateCustomer),
		rpc.Unary(ServiceName, "UpdateCustomer", CatalogServer.UpdateCustomer),
		rpc.Unary(ServiceName, "GetCustomer", CatalogServer.GetCustomer),
		rpc.Unary(ServiceName, "CreateUser", CatalogServer.CreateUser),
		rpc.Unary(ServiceName, "UpdateUser", CatalogServer.UpdateUser),
		rpc.Unary(ServiceName, "GetUser", CatalogServer.GetUser),
	},
}

func Register(s grpc.ServiceRegistrar, srv CatalogServer) {
	s.RegisterService(&ServiceDesc, srv)
}

type CatalogHandler struct {
	uc     catalog.UseCase
	logger logger.ZapLogger
}

func NewCatalogHandler(uc catalog.UseCase, log logger.ZapLogger) *CatalogHandler {
	return &CatalogHandler{
		uc:     uc,
		logger: log,
	}
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func (h *CatalogHandler) CreateCategory(ctx context.Context, req *CategoryRequest) (*model.Category, error) {
	c, err := h.uc.CreateCategory(ctx, &dto.CreateCategoryInput{
		Name:        deref(req.Name),
		Description: req.Description,
	})
	if err != nil {
		return nil, rpc.Fail(h.logger, "CreateCategory", err)
	}
	return c, nil
}

func (h *CatalogHandler) UpdateCategory(ctx context.Context, req *CategoryRequest) (*model.Category, error) {
	c, err := h.uc.UpdateCategory(ctx, &dto.UpdateCategoryInput{
		ID:          req.ID,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return nil, rpc.Fail(h.logger, "UpdateCategory", err)
	}
	return c, nil
}

func (h *CatalogHandler) GetCategory(ctx context.Context, req *GetRequest) (*model.Category, error) {
	c, err := h.uc.GetCategory(ctx, req.ID)
	if err != nil {
		return nil, rpc.Fail(h.logger, "GetCategory", err)
	}
	return c, nil
}

func (h *CatalogHandler) ListCategories(ctx context.Context, _ *ListCategoriesRequest) (*ListCategoriesResponse, error) {
	items, err := h.uc.ListCategories(ctx)
	if err != nil {
		return nil, rpc.Fail(h.logger, "ListCategories", err)
	}
	return &ListCategoriesResponse{Categories: items}, nil
}

func (h *CatalogHandler) CreateProduct(ctx context.Context, req *CreateProductRequest) (*model.Product, error) {
	p, err := h.uc.CreateProduct(ctx, &dto.CreateProductInput{
		Name:          req.Name,
		Description:   req.Description,
		SKU:           req.SKU,
		CategoryID:    req.CategoryID,
		PurchasePrice: req.PurchasePrice,
		SellingPrice:  req.SellingPrice,
		Unit:          req.Unit,
	})
	if err != nil {
		return nil, rpc.Fail(h.logger, "CreateProduct", err)
	}
	return p, nil
}

func (h *CatalogHandler) UpdateProduct(ctx context.Context, req *UpdateProductRequest) (*model.Product, error) {
	p, err := h.uc.UpdateProduct(ctx, &dto.UpdateProductInput{
		ID:            req.ID,
		Name:          req.Name,
		Description:   req.Description,
		SKU:           req.SKU,
		CategoryID:    req.CategoryID,
		PurchasePrice: req.PurchasePrice,
		SellingPrice:  req.SellingPrice,
		Unit:          req.Unit,
		IsActive:      req.IsActive,
	})
	if err != nil {
		return nil, rpc.Fail(h.logger, "UpdateProduct", err)
	}
	return p, nil
}

func (h *CatalogHandler) GetProduct(ctx context.Context, req *GetRequest) (*model.Product, error) {
	p, err := h.uc.GetProduct(ctx, req.ID)
	if err != nil {
		return nil, rpc.Fail(h.logger, "GetProduct", err)
	}
	return p, nil
}

func productFilters(req *ListProductsRequest) *dto.ProductFilters {
	return &dto.ProductFilters{
		CategoryID:  req.CategoryID,
		IsActive:    req.IsActive,
		SearchQuery: req.Search,
		Page:        req.Page,
		PageSize:    req.PageSize,
	}
}

func (h *CatalogHandler) ListProducts(ctx context.Context, req *ListProductsRequest) (*ListProductsResponse, error) {
	items, total, err := h.uc.ListProducts(ctx, productFilters(req))
	if err != nil {
		return nil, rpc.Fail(h.logger, "ListProducts", err)
	}
	return &ListProductsResponse{Products: items, Total: total}, nil
}

func (h *CatalogHandler) SearchProducts(ctx context.Context, req *ListProductsRequest) (*ListProductsResponse, error) {
	items, total, err := h.uc.SearchProducts(ctx, productFilters(req))
	if err != nil {
		return nil, rpc.Fail(h.logger, "SearchProducts", err)
	}
	return &ListProductsResponse{Products: items, Total: total}, nil
}

func (h *CatalogHandler) CreateWarehouse(ctx context.Context, req *WarehouseRequest) (*model.Warehouse, error) {
	w, err := h.uc.CreateWarehouse(ctx, &dto.CreateWarehouseInput{
		Name:        deref(req.Name),
		Location:    deref(req.Location),
		Description: req.Description,
	})
	if err != nil {
		return nil, rpc.Fail(h.logger, "CreateWarehouse", err)
	}
	return w, nil
}

func (h *CatalogHandler) UpdateWarehouse(ctx context.Context, req *WarehouseRequest) (*model.Warehouse, error) {
	w, err := h.uc.UpdateWarehouse(ctx, &dto.UpdateWarehouseInput{
		ID:          req.ID,
		Name:        req.Name,
		Location:    req.Location,
		Description: req.Description,
		IsActive:    req.IsActive,
	})
	if err != nil {
		return nil, rpc.Fail(h.logger, "UpdateWarehouse", err)
	}
	return w, nil
}

func (h *CatalogHandler) GetWarehouse(ctx context.Context, req *GetRequest) (*model.Warehouse, error) {
	w, err := h.uc.GetWarehouse(ctx, req.ID)
	if err != nil {
		return nil, rpc.Fail(h.logger, "GetWarehouse", err)
	}
	return w, nil
}

func (h *CatalogHandler) ListWarehouses(ctx context.Context, req *ListWarehousesRequest) (*ListWarehousesResponse, error) {
	items, err := h.uc.ListWarehouses(ctx, req.ActiveOnly)
	if err != nil {
		return nil, rpc.Fail(h.logger, "ListWarehouses", err)
	}
	return &ListWarehousesResponse{Warehouses: items}, nil
}

func (h *CatalogHandler) CreateCustomer(ctx context.Context, req *CustomerRequest) (*model.Customer, error) {
	c, err := h.uc.CreateCustomer(ctx, &dto.CreateCustomerInput{
		Name:      deref(req.Name),
		Address:   deref(req.Address),
		KTPNumber: deref(req.KTPNumber),
		Phone:     req.Phone,
	})
	if err != nil {
		return nil, rpc.Fail(h.logger, "CreateCustomer", err)
	}
	return c, nil
}

func (h *CatalogHandler) UpdateCustomer(ctx context.Context, req *CustomerRequest) (*model.Customer, error) {
	c, err := h.uc.UpdateCustomer(ctx, &dto.UpdateCustomerInput{
		ID:        req.ID,
		Name:      req.Name,
		Address:   req.Address,
		KTPNumber: req.KTPNumber,
		Phone:     req.Phone,
	})
	if err != nil {
		return nil, rpc.Fail(h.logger, "UpdateCustomer", err)
	}
	return c, nil
}

func (h *CatalogHandler) GetCustomer(ctx context.Context, req *GetRequest) (*model.Customer, error) {
	c, err := h.uc.GetCustomer(ctx, req.ID)
	if err != nil {
		return nil, rpc.Fail(h.logger, "GetCustomer", err)
	}
	return c, nil
}

func (h *CatalogHandler) CreateUser(ctx context.Context, req *UserRequest) (*model.User, error) {
	u, err := h.uc.CreateUser(ctx, &dto.CreateUserInput{
		Username: deref(req.Username),
		FullName: deref(req.FullName),
		Email:    deref(req.Email),
	})
	if err != nil {
		return nil, rpc.Fail(h.logger, "CreateUser", err)
	}
	return u, nil
}

func (h *CatalogHandler) UpdateUser(ctx context.Context, req *UserRequest) (*model.User, error) {
	u, err := h.uc.UpdateUser(ctx, &dto.UpdateUserInput{
		ID:       req.ID,
		Username: req.Username,
		FullName: req.FullName,
		Email:    req.Email,
		IsActive: req.IsActive,
	})
	if err != nil {
		return nil, rpc.Fail(h.logger, "UpdateUser", err)
	}
	return u, nil
}

func (h *CatalogHandler) GetUser(ctx context.Context, req *GetRequest) (*model.User, error) {
	u, err := h.uc.GetUser(ctx, req.ID)
	if err != nil {
		return nil, rpc.Fail(h.logger, "GetUser", err)
	}
	return u, nil
}
