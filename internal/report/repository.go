package report

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/shopspring/decimal"
)

// Repository runs read-only aggregations over sales with sale_date in
// [from, to).
type Repository interface {
	SalesTotals(ctx context.Context, from, to time.Time) (decimal.Decimal, int, error)
	TopSellingItems(ctx context.Context, from, to time.Time, limit int) ([]model.TopSellingItem, error)
	SalesByWarehouse(ctx context.Context, from, to time.Time) ([]model.SalesByWarehouse, error)
	SalesByEmployee(ctx context.Context, from, to time.Time) ([]model.SalesByEmployee, error)
}
