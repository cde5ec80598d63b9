package dto

import (
	"time"

	"github.com/fekuna/omnipos-retail-service/internal/model"
)

type StockFilters struct {
	ProductID   *int64
	WarehouseID *int64
	LowStock    bool // quantity <= minimum_stock AND minimum_stock > 0
	Page        int
	PageSize    int
}

type AdjustmentFilters struct {
	StockID        *int64
	UserID         *int64
	AdjustmentType model.AdjustmentType
	StartDate      *time.Time
	EndDate        *time.Time
	Page           int
	PageSize       int
}

type AdjustResult struct {
	Stock      *model.Stock
	Adjustment *model.StockAdjustment // nil when nothing changed
}
