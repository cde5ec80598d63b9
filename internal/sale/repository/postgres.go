package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/fekuna/omnipos-retail-service/internal/sale/dto"
	"github.com/fekuna/omnipos-retail-service/internal/store/postgres"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

func (r *PGRepository) ExistsTransactionNumber(ctx context.Context, number string) (bool, error) {
	var exists bool
	err := sqlx.GetContext(ctx, postgres.Executor(ctx, r.DB), &exists,
		`SELECT EXISTS (SELECT 1 FROM sales WHERE transaction_number = $1)`, number)
	if err != nil {
		return false, postgres.MapError("check transaction number", err)
	}
	return exists, nil
}

// Create must run inside a transaction so header and items land together.
func (r *PGRepository) Create(ctx context.Context, s *model.Sale) error {
	e := postgres.Executor(ctx, r.DB)

	headerQuery := `
        INSERT INTO sales (
            transaction_number, customer_id, user_id, sale_date, subtotal,
            discount_percentage, discount_amount, tax_percentage, tax_amount, total_amount,
            payment_method, payment_status, notes, created_at
        )
        VALUES (
            :transaction_number, :customer_id, :user_id, :sale_date, :subtotal,
            :discount_percentage, :discount_amount, :tax_percentage, :tax_amount, :total_amount,
            :payment_method, :payment_status, :notes, :created_at
        )
        RETURNING id
    `
	if err := postgres.NamedGet(ctx, e, &s.ID, headerQuery, s); err != nil {
		return postgres.MapError("insert sale", err)
	}

	itemQuery := `
        INSERT INTO sale_items (
            sale_id, product_id, warehouse_id, quantity, unit_price,
            discount_percentage, discount_amount, total_amount, created_at
        )
        VALUES (
            :sale_id, :product_id, :warehouse_id, :quantity, :unit_price,
            :discount_percentage, :discount_amount, :total_amount, :created_at
        )
        RETURNING id
    `
	for i := range s.Items {
		item := &s.Items[i]
		item.SaleID = s.ID
		if err := postgres.NamedGet(ctx, e, &item.ID, itemQuery, item); err != nil {
			return postgres.MapError("insert sale item", err)
		}
	}
	return nil
}

func (r *PGRepository) FindByID(ctx context.Context, id int64) (*model.Sale, error) {
	var s model.Sale
	err := sqlx.GetContext(ctx, postgres.Executor(ctx, r.DB), &s, `SELECT * FROM sales WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, postgres.MapError("select sale", err)
	}
	return &s, nil
}

func (r *PGRepository) ListItems(ctx context.Context, saleID int64) ([]model.SaleItem, error) {
	items := []model.SaleItem{}
	err := sqlx.SelectContext(ctx, postgres.Executor(ctx, r.DB), &items,
		`SELECT * FROM sale_items WHERE sale_id = $1 ORDER BY id`, saleID)
	if err != nil {
		return nil, postgres.MapError("select sale items", err)
	}
	return items, nil
}

func (r *PGRepository) List(ctx context.Context, f *dto.SaleFilters) ([]model.Sale, int, error) {
	conditions := []string{}
	args := map[string]interface{}{}

	if f.CustomerID != nil {
		conditions = append(conditions, "customer_id = :customer_id")
		args["customer_id"] = *f.CustomerID
	}
	if f.UserID != nil {
		conditions = append(conditions, "user_id = :user_id")
		args["user_id"] = *f.UserID
	}
	if f.StartDate != nil {
		conditions = append(conditions, "sale_date >= :start_date")
		args["start_date"] = *f.StartDate
	}
	if f.EndDate != nil {
		conditions = append(conditions, "sale_date < :end_date")
		args["end_date"] = *f.EndDate
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	e := postgres.Executor(ctx, r.DB)

	var count int
	if err := postgres.NamedGet(ctx, e, &count, "SELECT count(*) FROM sales"+whereClause, args); err != nil {
		return nil, 0, postgres.MapError("count sales", err)
	}

	query := "SELECT * FROM sales" + whereClause + " ORDER BY sale_date DESC, id DESC"
	if f.PageSize > 0 {
		offset := (max(f.Page, 1) - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	q, qargs, err := e.BindNamed(query, args)
	if err != nil {
		return nil, 0, err
	}
	items := []model.Sale{}
	if err := sqlx.SelectContext(ctx, e, &items, q, qargs...); err != nil {
		return nil, 0, postgres.MapError("list sales", err)
	}
	return items, count, nil
}
