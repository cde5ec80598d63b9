package handler

import (
	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/shopspring/decimal"
)

type GetRequest struct {
	ID int64 `json:"id"`
}

type CategoryRequest struct {
	ID          int64   `json:"id,omitempty"`
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type ListCategoriesRequest struct{}

type ListCategoriesResponse struct {
	Categories []model.Category `json:"categories"`
}

type CreateProductRequest struct {
	Name          string          `json:"name"`
	Description   *string         `json:"description"`
	SKU           string          `json:"sku"`
	CategoryID    *int64          `json:"category_id"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	Unit          string          `json:"unit"`
}

type UpdateProductRequest struct {
	ID            int64            `json:"id"`
	Name          *string          `json:"name"`
	Description   *string          `json:"description"`
	SKU           *string          `json:"sku"`
	CategoryID    *int64           `json:"category_id"`
	PurchasePrice *decimal.Decimal `json:"purchase_price"`
	SellingPrice  *decimal.Decimal `json:"selling_price"`
	Unit          *string          `json:"unit"`
	IsActive      *bool            `json:"is_active"`
}

type ListProductsRequest struct {
	CategoryID *int64 `json:"category_id"`
	IsActive   *bool  `json:"is_active"`
	Search     string `json:"search"`
	Page       int    `json:"page"`
	PageSize   int    `json:"page_size"`
}

type ListProductsResponse struct {
	Products []model.Product `json:"products"`
	Total    int             `json:"total"`
}

type WarehouseRequest struct {
	ID          int64   `json:"id,omitempty"`
	Name        *string `json:"name"`
	Location    *string `json:"location"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"is_active"`
}

type ListWarehousesRequest struct {
	ActiveOnly bool `json:"active_only"`
}

type ListWarehousesResponse struct {
	Warehouses []model.Warehouse `json:"warehouses"`
}

type CustomerRequest struct {
	ID        int64   `json:"id,omitempty"`
	Name      *string `json:"name"`
	Address   *string `json:"address"`
	KTPNumber *string `json:"ktp_number"`
	Phone     *string `json:"phone"`
}

type UserRequest struct {
	ID       int64   `json:"id,omitempty"`
	Username *string `json:"username"`
	FullName *string `json:"full_name"`
	Email    *string `json:"email"`
	IsActive *bool   `json:"is_active"`
}
