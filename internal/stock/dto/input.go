package dto

import "github.com/fekuna/omnipos-retail-service/internal/model"

// AdjustStockInput carries a signed change: positive for increase, negative
// for decrease, any non-zero amount for correction.
type AdjustStockInput struct {
	StockID        int64
	QuantityChange int
	AdjustmentType model.AdjustmentType
	Reason         string
	Notes          *string
	UserID         int64
}

// CorrectStockInput sets an absolute counted quantity.
type CorrectStockInput struct {
	StockID     int64
	NewQuantity int
	Reason      string
	Notes       *string
	UserID      int64
}

type CreateStockInput struct {
	ProductID    int64
	WarehouseID  int64
	Quantity     int
	MinimumStock int
	UserID       int64
}
