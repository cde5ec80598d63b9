package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/fekuna/omnipos-retail-service/internal/stock/dto"
	"github.com/fekuna/omnipos-retail-service/internal/store/postgres"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) GetOrCreate(ctx context.Context, productID, warehouseID int64, at time.Time) (*model.Stock, error) {
	e := postgres.Executor(ctx, r.DB)

	_, err := e.ExecContext(ctx, `
        INSERT INTO stocks (product_id, warehouse_id, quantity, minimum_stock, last_updated)
        VALUES ($1, $2, 0, 0, $3)
        ON CONFLICT (product_id, warehouse_id) DO NOTHING
    `, productID, warehouseID, at)
	if err != nil {
		return nil, postgres.MapError("insert stock", err)
	}

	var st model.Stock
	err = sqlx.GetContext(ctx, e, &st, `SELECT * FROM stocks WHERE product_id = $1 AND warehouse_id = $2`, productID, warehouseID)
	if err != nil {
		return nil, postgres.MapError("select stock", err)
	}
	return &st, nil
}

func (r *PGRepository) find(ctx context.Context, query string, id int64) (*model.Stock, error) {
	var st model.Stock
	err := sqlx.GetContext(ctx, postgres.Executor(ctx, r.DB), &st, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, postgres.MapError("select stock", err)
	}
	return &st, nil
}

func (r *PGRepository) FindByID(ctx context.Context, id int64) (*model.Stock, error) {
	return r.find(ctx, `SELECT * FROM stocks WHERE id = $1`, id)
}

func (r *PGRepository) FindByIDForUpdate(ctx context.Context, id int64) (*model.Stock, error) {
	return r.find(ctx, `SELECT * FROM stocks WHERE id = $1 FOR UPDATE`, id)
}

func (r *PGRepository) UpdateQuantity(ctx context.Context, id int64, quantity int, at time.Time) error {
	_, err := postgres.Executor(ctx, r.DB).ExecContext(ctx,
		`UPDATE stocks SET quantity = $1, last_updated = $2 WHERE id = $3`, quantity, at, id)
	return postgres.MapError("update stock quantity", err)
}

func (r *PGRepository) UpdateMinimum(ctx context.Context, id int64, minimum int) error {
	_, err := postgres.Executor(ctx, r.DB).ExecContext(ctx,
		`UPDATE stocks SET minimum_stock = $1 WHERE id = $2`, minimum, id)
	return postgres.MapError("update minimum stock", err)
}

func (r *PGRepository) List(ctx context.Context, f *dto.StockFilters) ([]model.Stock, int, error) {
	conditions := []string{}
	args := map[string]interface{}{}

	if f.ProductID != nil {
		conditions = append(conditions, "product_id = :product_id")
		args["product_id"] = *f.ProductID
	}
	if f.WarehouseID != nil {
		conditions = append(conditions, "warehouse_id = :warehouse_id")
		args["warehouse_id"] = *f.WarehouseID
	}
	if f.LowStock {
		conditions = append(conditions, "quantity <= minimum_stock AND minimum_stock > 0")
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	e := postgres.Executor(ctx, r.DB)

	var count int
	if err := postgres.NamedGet(ctx, e, &count, "SELECT count(*) FROM stocks"+whereClause, args); err != nil {
		return nil, 0, postgres.MapError("count stocks", err)
	}

	query := "SELECT * FROM stocks" + whereClause + " ORDER BY product_id, warehouse_id"
	if f.PageSize > 0 {
		offset := (max(f.Page, 1) - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	q, qargs, err := e.BindNamed(query, args)
	if err != nil {
		return nil, 0, err
	}
	items := []model.Stock{}
	if err := sqlx.SelectContext(ctx, e, &items, q, qargs...); err != nil {
		return nil, 0, postgres.MapError("list stocks", err)
	}
	return items, count, nil
}

func (r *PGRepository) CreateAdjustment(ctx context.Context, adj *model.StockAdjustment) error {
	query := `
        INSERT INTO stock_adjustments (
            stock_id, user_id, adjustment_type, quantity_change, previous_quantity,
            new_quantity, reason, notes, adjustment_date, created_at
        )
        VALUES (
            :stock_id, :user_id, :adjustment_type, :quantity_change, :previous_quantity,
            :new_quantity, :reason, :notes, :adjustment_date, :created_at
        )
        RETURNING id
    `
	if err := postgres.NamedGet(ctx, postgres.Executor(ctx, r.DB), &adj.ID, query, adj); err != nil {
		return postgres.MapError("insert stock adjustment", err)
	}
	return nil
}

func (r *PGRepository) ListAdjustments(ctx context.Context, f *dto.AdjustmentFilters) ([]model.StockAdjustment, int, error) {
	conditions := []string{}
	args := map[string]interface{}{}

	if f.StockID != nil {
		conditions = append(conditions, "stock_id = :stock_id")
		args["stock_id"] = *f.StockID
	}
	if f.UserID != nil {
		conditions = append(conditions, "user_id = :user_id")
		args["user_id"] = *f.UserID
	}
	if f.AdjustmentType != "" {
		conditions = append(conditions, "adjustment_type = :adjustment_type")
		args["adjustment_type"] = string(f.AdjustmentType)
	}
	if f.StartDate != nil {
		conditions = append(conditions, "adjustment_date >= :start_date")
		args["start_date"] = *f.StartDate
	}
	if f.EndDate != nil {
		conditions = append(conditions, "adjustment_date < :end_date")
		args["end_date"] = *f.EndDate
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	e := postgres.Executor(ctx, r.DB)

	var count int
	if err := postgres.NamedGet(ctx, e, &count, "SELECT count(*) FROM stock_adjustments"+whereClause, args); err != nil {
		return nil, 0, postgres.MapError("count stock adjustments", err)
	}

	query := "SELECT * FROM stock_adjustments" + whereClause + " ORDER BY adjustment_date DESC, id DESC"
	if f.PageSize > 0 {
		offset := (max(f.Page, 1) - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	q, qargs, err := e.BindNamed(query, args)
	if err != nil {
		return nil, 0, err
	}
	items := []model.StockAdjustment{}
	if err := sqlx.SelectContext(ctx, e, &items, q, qargs...); err != nil {
		return nil, 0, postgres.MapError("list stock adjustments", err)
	}
	return items, count, nil
}
