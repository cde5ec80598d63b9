package dto

import "github.com/shopspring/decimal"

type CreateCategoryInput struct {
	Name        string
	Description *string
}

type UpdateCategoryInput struct {
	ID          int64
	Name        *string
	Description *string
}

type CreateProductInput struct {
	Name          string
	Description   *string
	SKU           string
	CategoryID    *int64
	PurchasePrice decimal.Decimal
	SellingPrice  decimal.Decimal
	Unit          string
}

// UpdateProductInput applies only the non-nil fields.
type UpdateProductInput struct {
	ID            int64
	Name          *string
	Description   *string
	SKU           *string
	CategoryID    *int64
	PurchasePrice *decimal.Decimal
	SellingPrice  *decimal.Decimal
	Unit          *string
	IsActive      *bool
}

type CreateWarehouseInput struct {
	Name        string
	Location    string
	Description *string
}

type UpdateWarehouseInput struct {
	ID          int64
	Name        *string
	Location    *string
	Description *string
	IsActive    *bool
}

type CreateCustomerInput struct {
	Name      string
	Address   string
	KTPNumber string
	Phone     *string
}

type UpdateCustomerInput struct {
	ID        int64
	Name      *string
	Address   *string
	KTPNumber *string
	Phone     *string
}

type CreateUserInput struct {
	Username string
	FullName string
	Email    string
}

type UpdateUserInput struct {
	ID       int64
	Username *string
	FullName *string
	Email    *string
	IsActive *bool
}
