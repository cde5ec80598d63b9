package sale

import (
	"context"

	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/fekuna/omnipos-retail-service/internal/sale/dto"
)

const ConstraintTransactionNumber = "sales_transaction_number_key"

// Repository stores posted sales. Sales are immutable: there is no update or
// delete path.
type Repository interface {
	ExistsTransactionNumber(ctx context.Context, number string) (bool, error)
	// Create inserts the header and every item, filling in the generated ids.
	Create(ctx context.Context, sale *model.Sale) error
	FindByID(ctx context.Context, id int64) (*model.Sale, error)
	ListItems(ctx context.Context, saleID int64) ([]model.SaleItem, error)
	List(ctx context.Context, filters *dto.SaleFilters) ([]model.Sale, int, error)
}
