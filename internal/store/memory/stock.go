package memory

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/fekuna/omnipos-retail-service/internal/apperror"
	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/fekuna/omnipos-retail-service/internal/stock"
	"github.com/fekuna/omnipos-retail-service/internal/stock/dto"
)

type StockRepository struct {
	store *Store
}

func NewStockRepository(s *Store) *StockRepository {
	return &StockRepository{store: s}
}

var _ stock.Repository = (*StockRepository)(nil)

func (r *StockRepository) GetOrCreate(ctx context.Context, productID, warehouseID int64, at time.Time) (*model.Stock, error) {
	defer r.store.wlock(ctx)()
	d := r.store.data
	for _, st := range d.stocks {
		if st.ProductID == productID && st.WarehouseID == warehouseID {
			return &st, nil
		}
	}
	st := model.Stock{
		ID:          d.nextID("stocks"),
		ProductID:   productID,
		WarehouseID: warehouseID,
		LastUpdated: at,
	}
	d.stocks[st.ID] = st
	return &st, nil
}

func (r *StockRepository) FindByID(ctx context.Context, id int64) (*model.Stock, error) {
	defer r.store.rlock(ctx)()
	st, ok := r.store.data.stocks[id]
	if !ok {
		return nil, nil
	}
	return &st, nil
}

// FindByIDForUpdate relies on the transaction's write lock for exclusion.
func (r *StockRepository) FindByIDForUpdate(ctx context.Context, id int64) (*model.Stock, error) {
	return r.FindByID(ctx, id)
}

func (r *StockRepository) UpdateQuantity(ctx context.Context, id int64, quantity int, at time.Time) error {
	defer r.store.wlock(ctx)()
	d := r.store.data
	st, ok := d.stocks[id]
	if !ok {
		return apperror.NotFound("stock", id)
	}
	if quantity < 0 {
		return &apperror.StockError{StockID: id, ProductID: st.ProductID, WarehouseID: st.WarehouseID, Available: st.Quantity, Requested: st.Quantity - quantity}
	}
	st.Quantity = quantity
	st.LastUpdated = at
	d.stocks[id] = st
	return nil
}

func (r *StockRepository) UpdateMinimum(ctx context.Context, id int64, minimum int) error {
	defer r.store.wlock(ctx)()
	d := r.store.data
	st, ok := d.stocks[id]
	if !ok {
		return apperror.NotFound("stock", id)
	}
	st.MinimumStock = minimum
	d.stocks[id] = st
	return nil
}

func (r *StockRepository) List(ctx context.Context, f *dto.StockFilters) ([]model.Stock, int, error) {
	defer r.store.rlock(ctx)()
	items := []model.Stock{}
	for _, st := range r.store.data.stocks {
		if f.ProductID != nil && st.ProductID != *f.ProductID {
			continue
		}
		if f.WarehouseID != nil && st.WarehouseID != *f.WarehouseID {
			continue
		}
		if f.LowStock && !st.IsLow() {
			continue
		}
		items = append(items, st)
	}
	slices.SortFunc(items, func(a, b model.Stock) int {
		return cmp.Or(
			cmp.Compare(a.ProductID, b.ProductID),
			cmp.Compare(a.WarehouseID, b.WarehouseID),
		)
	})
	return paginate(items, f.Page, f.PageSize), len(items), nil
}

func (r *StockRepository) CreateAdjustment(ctx context.Context, adj *model.StockAdjustment) error {
	defer r.store.wlock(ctx)()
	d := r.store.data
	if _, ok := d.stocks[adj.StockID]; !ok {
		return apperror.NotFound("stock", adj.StockID)
	}
	adj.ID = d.nextID("stock_adjustments")
	d.adjustments = append(d.adjustments, *adj)
	return nil
}

func (r *StockRepository) ListAdjustments(ctx context.Context, f *dto.AdjustmentFilters) ([]model.StockAdjustment, int, error) {
	defer r.store.rlock(ctx)()
	items := []model.StockAdjustment{}
	for _, a := range r.store.data.adjustments {
		if f.StockID != nil && a.StockID != *f.StockID {
			continue
		}
		if f.UserID != nil && a.UserID != *f.UserID {
			continue
		}
		if f.AdjustmentType != "" && a.AdjustmentType != f.AdjustmentType {
			continue
		}
		if f.StartDate != nil && a.AdjustmentDate.Before(*f.StartDate) {
			continue
		}
		if f.EndDate != nil && !a.AdjustmentDate.Before(*f.EndDate) {
			continue
		}
		items = append(items, a)
	}
	// newest first
	slices.SortFunc(items, func(a, b model.StockAdjustment) int {
		return cmp.Or(b.AdjustmentDate.Compare(a.AdjustmentDate), cmp.Compare(b.ID, a.ID))
	})
	return paginate(items, f.Page, f.PageSize), len(items), nil
}
