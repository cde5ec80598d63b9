package stock

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/fekuna/omnipos-retail-service/internal/stock/dto"
)

const ConstraintProductWarehouse = "stocks_product_warehouse_key"

// Repository persists stock rows and their adjustment history. Adjustments
// are append-only: there is no update or delete path for them.
type Repository interface {
	// GetOrCreate returns the row for the pair, inserting an empty one if
	// none exists yet.
	GetOrCreate(ctx context.Context, productID, warehouseID int64, at time.Time) (*model.Stock, error)
	FindByID(ctx context.Context, id int64) (*model.Stock, error)
	// FindByIDForUpdate reads the row and holds it locked until the
	// surrounding transaction ends.
	FindByIDForUpdate(ctx context.Context, id int64) (*model.Stock, error)
	UpdateQuantity(ctx context.Context, id int64, quantity int, at time.Time) error
	UpdateMinimum(ctx context.Context, id int64, minimum int) error
	List(ctx context.Context, filters *dto.StockFilters) ([]model.Stock, int, error)

	CreateAdjustment(ctx context.Context, adj *model.StockAdjustment) error
	ListAdjustments(ctx context.Context, filters *dto.AdjustmentFilters) ([]model.StockAdjustment, int, error)
}
