package sale

import (
	"context"

	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/fekuna/omnipos-retail-service/internal/sale/dto"
)

type UseCase interface {
	PostSale(ctx context.Context, input *dto.PostSaleInput) (*model.Sale, error)
	GetSale(ctx context.Context, id int64) (*model.Sale, error)
	ListSales(ctx context.Context, filters *dto.SaleFilters) ([]model.Sale, int, error)
}
