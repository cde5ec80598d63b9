package memory

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/fekuna/omnipos-retail-service/internal/report"
	"github.com/shopspring/decimal"
)

type ReportRepository struct {
	store *Store
}

func NewReportRepository(s *Store) *ReportRepository {
	return &ReportRepository{store: s}
}

var _ report.Repository = (*ReportRepository)(nil)

func (r *ReportRepository) salesIn(from, to time.Time) map[int64]model.Sale {
	out := make(map[int64]model.Sale)
	for id, s := range r.store.data.sales {
		if !s.SaleDate.Before(from) && s.SaleDate.Before(to) {
			out[id] = s
		}
	}
	return out
}

func (r *ReportRepository) SalesTotals(ctx context.Context, from, to time.Time) (decimal.Decimal, int, error) {
	defer r.store.rlock(ctx)()
	total := decimal.Zero
	sales := r.salesIn(from, to)
	for _, s := range sales {
		total = total.Add(s.TotalAmount)
	}
	return total, len(sales), nil
}

func (r *ReportRepository) TopSellingItems(ctx context.Context, from, to time.Time, limit int) ([]model.TopSellingItem, error) {
	defer r.store.rlock(ctx)()
	d := r.store.data
	sales := r.salesIn(from, to)

	byProduct := map[int64]*model.TopSellingItem{}
	for _, it := range d.saleItems {
		if _, ok := sales[it.SaleID]; !ok {
			continue
		}
		agg, ok := byProduct[it.ProductID]
		if !ok {
			agg = &model.TopSellingItem{
				ProductID:    it.ProductID,
				ProductName:  d.products[it.ProductID].Name,
				TotalRevenue: decimal.Zero,
			}
			byProduct[it.ProductID] = agg
		}
		agg.TotalQuantity += it.Quantity
		agg.TotalRevenue = agg.TotalRevenue.Add(it.TotalAmount)
	}

	items := make([]model.TopSellingItem, 0, len(byProduct))
	for _, agg := range byProduct {
		items = append(items, *agg)
	}
	slices.SortFunc(items, func(a, b model.TopSellingItem) int {
		return cmp.Or(
			cmp.Compare(b.TotalQuantity, a.TotalQuantity),
			b.TotalRevenue.Cmp(a.TotalRevenue),
			cmp.Compare(a.ProductID, b.ProductID),
		)
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (r *ReportRepository) SalesByWarehouse(ctx context.Context, from, to time.Time) ([]model.SalesByWarehouse, error) {
	defer r.store.rlock(ctx)()
	d := r.store.data
	sales := r.salesIn(from, to)

	byWarehouse := map[int64]*model.SalesByWarehouse{}
	seen := map[int64]map[int64]bool{}
	for _, it := range d.saleItems {
		if _, ok := sales[it.SaleID]; !ok {
			continue
		}
		agg, ok := byWarehouse[it.WarehouseID]
		if !ok {
			agg = &model.SalesByWarehouse{
				WarehouseID:   it.WarehouseID,
				WarehouseName: d.warehouses[it.WarehouseID].Name,
				TotalSales:    decimal.Zero,
			}
			byWarehouse[it.WarehouseID] = agg
			seen[it.WarehouseID] = map[int64]bool{}
		}
		agg.TotalSales = agg.TotalSales.Add(it.TotalAmount)
		if !seen[it.WarehouseID][it.SaleID] {
			seen[it.WarehouseID][it.SaleID] = true
			agg.TransactionCount++
		}
	}

	items := make([]model.SalesByWarehouse, 0, len(byWarehouse))
	for _, agg := range byWarehouse {
		items = append(items, *agg)
	}
	slices.SortFunc(items, func(a, b model.SalesByWarehouse) int {
		return cmp.Or(b.TotalSales.Cmp(a.TotalSales), cmp.Compare(a.WarehouseID, b.WarehouseID))
	})
	return items, nil
}

func (r *ReportRepository) SalesByEmployee(ctx context.Context, from, to time.Time) ([]model.SalesByEmployee, error) {
	defer r.store.rlock(ctx)()
	d := r.store.data

	byUser := map[int64]*model.SalesByEmployee{}
	for _, s := range r.salesIn(from, to) {
		agg, ok := byUser[s.UserID]
		if !ok {
			agg = &model.SalesByEmployee{
				UserID:       s.UserID,
				EmployeeName: d.users[s.UserID].FullName,
				TotalSales:   decimal.Zero,
			}
			byUser[s.UserID] = agg
		}
		agg.TotalSales = agg.TotalSales.Add(s.TotalAmount)
		agg.TransactionCount++
	}

	items := make([]model.SalesByEmployee, 0, len(byUser))
	for _, agg := range byUser {
		items = append(items, *agg)
	}
	slices.SortFunc(items, func(a, b model.SalesByEmployee) int {
		return cmp.Or(b.TotalSales.Cmp(a.TotalSales), cmp.Compare(a.UserID, b.UserID))
	})
	return items, nil
}
