package repository

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/fekuna/omnipos-retail-service/internal/store/postgres"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) SalesTotals(ctx context.Context, from, to time.Time) (decimal.Decimal, int, error) {
	var row struct {
		Total decimal.Decimal `db:"total"`
		Count int             `db:"count"`
	}
	query := `
        SELECT COALESCE(SUM(total_amount), 0) AS total, COUNT(*) AS count
        FROM sales
        WHERE sale_date >= $1 AND sale_date < $2
    `
	if err := sqlx.GetContext(ctx, postgres.Executor(ctx, r.DB), &row, query, from, to); err != nil {
		return decimal.Zero, 0, postgres.MapError("sum sales", err)
	}
	return row.Total, row.Count, nil
}

func (r *PGRepository) TopSellingItems(ctx context.Context, from, to time.Time, limit int) ([]model.TopSellingItem, error) {
	query := `
        SELECT p.id AS product_id, p.name AS product_name,
               SUM(si.quantity) AS total_quantity, SUM(si.total_amount) AS total_revenue
        FROM sale_items si
        JOIN sales s ON s.id = si.sale_id
        JOIN products p ON p.id = si.product_id
        WHERE s.sale_date >= $1 AND s.sale_date < $2
        GROUP BY p.id, p.name
        ORDER BY total_quantity DESC, total_revenue DESC, p.id
        LIMIT $3
    `
	items := []model.TopSellingItem{}
	if err := sqlx.SelectContext(ctx, postgres.Executor(ctx, r.DB), &items, query, from, to, limit); err != nil {
		return nil, postgres.MapError("top selling items", err)
	}
	return items, nil
}

func (r *PGRepository) SalesByWarehouse(ctx context.Context, from, to time.Time) ([]model.SalesByWarehouse, error) {
	query := `
        SELECT w.id AS warehouse_id, w.name AS warehouse_name,
               SUM(si.total_amount) AS total_sales, COUNT(DISTINCT s.id) AS transaction_count
        FROM sale_items si
        JOIN sales s ON s.id = si.sale_id
        JOIN warehouses w ON w.id = si.warehouse_id
        WHERE s.sale_date >= $1 AND s.sale_date < $2
        GROUP BY w.id, w.name
        ORDER BY total_sales DESC, w.id
    `
	items := []model.SalesByWarehouse{}
	if err := sqlx.SelectContext(ctx, postgres.Executor(ctx, r.DB), &items, query, from, to); err != nil {
		return nil, postgres.MapError("sales by warehouse", err)
	}
	return items, nil
}

func (r *PGRepository) SalesByEmployee(ctx context.Context, from, to time.Time) ([]model.SalesByEmployee, error) {
	query := `
        SELECT u.id AS user_id, u.full_name AS employee_name,
               SUM(s.total_amount) AS total_sales, COUNT(s.id) AS transaction_count
        FROM sales s
        JOIN users u ON u.id = s.user_id
        WHERE s.sale_date >= $1 AND s.sale_date < $2
        GROUP BY u.id, u.full_name
        ORDER BY total_sales DESC, u.id
    `
	items := []model.SalesByEmployee{}
	if err := sqlx.SelectContext(ctx, postgres.Executor(ctx, r.DB), &items, query, from, to); err != nil {
		return nil, postgres.MapError("sales by employee", err)
	}
	return items, nil
}
