package stock

import (
	"context"

	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/fekuna/omnipos-retail-service/internal/stock/dto"
)

// UseCase is the stock ledger. Every quantity change goes through Adjust (or
// Correct, which resolves to Adjust) so that each one leaves an audit row.
type UseCase interface {
	GetOrCreate(ctx context.Context, productID, warehouseID int64) (*model.Stock, error)
	CreateStock(ctx context.Context, input *dto.CreateStockInput) (*dto.AdjustResult, error)
	Adjust(ctx context.Context, input *dto.AdjustStockInput) (*dto.AdjustResult, error)
	Correct(ctx context.Context, input *dto.CorrectStockInput) (*dto.AdjustResult, error)
	SetMinimumStock(ctx context.Context, stockID int64, minimum int) (*model.Stock, error)
	GetStock(ctx context.Context, id int64) (*model.Stock, error)
	ListStocks(ctx context.Context, filters *dto.StockFilters) ([]model.Stock, int, error)
	ListLowStock(ctx context.Context, warehouseID *int64, page, pageSize int) ([]model.Stock, int, error)
	ListAdjustments(ctx context.Context, filters *dto.AdjustmentFilters) ([]model.StockAdjustment, int, error)
}
