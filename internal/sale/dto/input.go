package dto

import "github.com/shopspring/decimal"

type SaleItemInput struct {
	ProductID          int64
	WarehouseID        int64
	Quantity           int
	UnitPrice          decimal.Decimal
	DiscountPercentage decimal.Decimal
}

type PostSaleInput struct {
	CustomerID         int64
	Items              []SaleItemInput
	DiscountPercentage decimal.Decimal
	TaxPercentage      decimal.Decimal
	PaymentMethod      string
	PaymentStatus      string
	Notes              *string
	UserID             int64 // acting user
}
