package memory

import (
	"cmp"
	"context"
	"slices"

	"github.com/fekuna/omnipos-retail-service/internal/apperror"
	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/fekuna/omnipos-retail-service/internal/sale"
	"github.com/fekuna/omnipos-retail-service/internal/sale/dto"
)

type SaleRepository struct {
	store *Store
}

func NewSaleRepository(s *Store) *SaleRepository {
	return &SaleRepository{store: s}
}

var _ sale.Repository = (*SaleRepository)(nil)

func (r *SaleRepository) numberTaken(number string) bool {
	for _, s := range r.store.data.sales {
		if s.TransactionNumber == number {
			return true
		}
	}
	return false
}

func (r *SaleRepository) ExistsTransactionNumber(ctx context.Context, number string) (bool, error) {
	defer r.store.rlock(ctx)()
	return r.numberTaken(number), nil
}

func (r *SaleRepository) Create(ctx context.Context, s *model.Sale) error {
	defer r.store.wlock(ctx)()
	if r.numberTaken(s.TransactionNumber) {
		return apperror.Conflict(sale.ConstraintTransactionNumber)
	}

	d := r.store.data
	s.ID = d.nextID("sales")
	for i := range s.Items {
		s.Items[i].ID = d.nextID("sale_items")
		s.Items[i].SaleID = s.ID
		d.saleItems = append(d.saleItems, s.Items[i])
	}

	header := *s
	header.Items = nil
	d.sales[s.ID] = header
	return nil
}

func (r *SaleRepository) FindByID(ctx context.Context, id int64) (*model.Sale, error) {
	defer r.store.rlock(ctx)()
	s, ok := r.store.data.sales[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *SaleRepository) ListItems(ctx context.Context, saleID int64) ([]model.SaleItem, error) {
	defer r.store.rlock(ctx)()
	items := []model.SaleItem{}
	for _, it := range r.store.data.saleItems {
		if it.SaleID == saleID {
			items = append(items, it)
		}
	}
	return items, nil
}

func (r *SaleRepository) List(ctx context.Context, f *dto.SaleFilters) ([]model.Sale, int, error) {
	defer r.store.rlock(ctx)()
	items := []model.Sale{}
	for _, s := range r.store.data.sales {
		if f.CustomerID != nil && s.CustomerID != *f.CustomerID {
			continue
		}
		if f.UserID != nil && s.UserID != *f.UserID {
			continue
		}
		if f.StartDate != nil && s.SaleDate.Before(*f.StartDate) {
			continue
		}
		if f.EndDate != nil && !s.SaleDate.Before(*f.EndDate) {
			continue
		}
		items = append(items, s)
	}
	slices.SortFunc(items, func(a, b model.Sale) int {
		return cmp.Or(b.SaleDate.Compare(a.SaleDate), cmp.Compare(b.ID, a.ID))
	})
	return paginate(items, f.Page, f.PageSize), len(items), nil
}
