package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-retail-service/internal/catalog/dto"
	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/fekuna/omnipos-retail-service/internal/store/postgres"
	"github.com/jmoiron/sqlx"
)

type PGRepository struct {
	DB *sqlx.DB
}

func NewPGRepository(db *sqlx.DB) *PGRepository {
	return &PGRepository{DB: db}
}

// findOne scans a single row, mapping "no rows" to found=false.
func (r *PGRepository) findOne(ctx context.Context, dest any, op, query string, args ...any) (bool, error) {
	err := sqlx.GetContext(ctx, postgres.Executor(ctx, r.DB), dest, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, postgres.MapError(op, err)
	}
	return true, nil
}

func (r *PGRepository) exec(ctx context.Context, op, query string, arg any) error {
	res, err := sqlx.NamedExecContext(ctx, postgres.Executor(ctx, r.DB), query, arg)
	if err != nil {
		return postgres.MapError(op, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return postgres.MapError(op, sql.ErrNoRows)
	}
	return nil
}

// ---- categories ----

func (r *PGRepository) CreateCategory(ctx context.Context, c *model.Category) error {
	query := `
        INSERT INTO categories (name, description, created_at)
        VALUES (:name, :description, :created_at)
        RETURNING id
    `
	if err := postgres.NamedGet(ctx, postgres.Executor(ctx, r.DB), &c.ID, query, c); err != nil {
		return postgres.MapError("insert category", err)
	}
	return nil
}

func (r *PGRepository) UpdateCategory(ctx context.Context, c *model.Category) error {
	return r.exec(ctx, "update category", `UPDATE categories SET name = :name, description = :description WHERE id = :id`, c)
}

func (r *PGRepository) FindCategoryByID(ctx context.Context, id int64) (*model.Category, error) {
	var c model.Category
	found, err := r.findOne(ctx, &c, "select category", `SELECT * FROM categories WHERE id = $1`, id)
	if !found {
		return nil, err
	}
	return &c, nil
}

func (r *PGRepository) ListCategories(ctx context.Context) ([]model.Category, error) {
	items := []model.Category{}
	err := sqlx.SelectContext(ctx, postgres.Executor(ctx, r.DB), &items, `SELECT * FROM categories ORDER BY name`)
	if err != nil {
		return nil, postgres.MapError("list categories", err)
	}
	return items, nil
}

// ---- products ----

func (r *PGRepository) CreateProduct(ctx context.Context, p *model.Product) error {
	query := `
        INSERT INTO products (
            name, description, sku, category_id, purchase_price, selling_price,
            unit, is_active, created_at
        )
        VALUES (
            :name, :description, :sku, :category_id, :purchase_price, :selling_price,
            :unit, :is_active, :created_at
        )
        RETURNING id
    `
	if err := postgres.NamedGet(ctx, postgres.Executor(ctx, r.DB), &p.ID, query, p); err != nil {
		return postgres.MapError("insert product", err)
	}
	return nil
}

func (r *PGRepository) UpdateProduct(ctx context.Context, p *model.Product) error {
	query := `
        UPDATE products SET
            name = :name,
            description = :description,
            sku = :sku,
            category_id = :category_id,
            purchase_price = :purchase_price,
            selling_price = :selling_price,
            unit = :unit,
            is_active = :is_active
        WHERE id = :id
    `
	return r.exec(ctx, "update product", query, p)
}

func (r *PGRepository) FindProductByID(ctx context.Context, id int64) (*model.Product, error) {
	var p model.Product
	found, err := r.findOne(ctx, &p, "select product", `SELECT * FROM products WHERE id = $1`, id)
	if !found {
		return nil, err
	}
	return &p, nil
}

func (r *PGRepository) FindProductByIDForShare(ctx context.Context, id int64) (*model.Product, error) {
	var p model.Product
	found, err := r.findOne(ctx, &p, "select product for share", `SELECT * FROM products WHERE id = $1 FOR SHARE`, id)
	if !found {
		return nil, err
	}
	return &p, nil
}

func (r *PGRepository) FindProductsByIDs(ctx context.Context, ids []int64) ([]model.Product, error) {
	if len(ids) == 0 {
		return []model.Product{}, nil
	}

	e := postgres.Executor(ctx, r.DB)
	query, args, err := sqlx.In(`SELECT * FROM products WHERE id IN (?)`, ids)
	if err != nil {
		return nil, err
	}
	query = e.Rebind(query)

	var items []model.Product
	if err := sqlx.SelectContext(ctx, e, &items, query, args...); err != nil {
		return nil, postgres.MapError("select products", err)
	}
	return items, nil
}

func (r *PGRepository) ListProducts(ctx context.Context, f *dto.ProductFilters) ([]model.Product, int, error) {
	conditions := []string{}
	args := map[string]interface{}{}

	if f.CategoryID != nil {
		conditions = append(conditions, "category_id = :category_id")
		args["category_id"] = *f.CategoryID
	}
	if f.IsActive != nil {
		conditions = append(conditions, "is_active = :is_active")
		args["is_active"] = *f.IsActive
	}
	if f.SearchQuery != "" {
		conditions = append(conditions, "(name ILIKE :search OR sku ILIKE :search)")
		args["search"] = "%" + f.SearchQuery + "%"
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	e := postgres.Executor(ctx, r.DB)

	var count int
	if err := postgres.NamedGet(ctx, e, &count, "SELECT count(*) FROM products"+whereClause, args); err != nil {
		return nil, 0, postgres.MapError("count products", err)
	}

	query := "SELECT * FROM products" + whereClause + " ORDER BY name, id"
	if f.PageSize > 0 {
		offset := (max(f.Page, 1) - 1) * f.PageSize
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", f.PageSize, offset)
	}

	q, qargs, err := e.BindNamed(query, args)
	if err != nil {
		return nil, 0, err
	}
	items := []model.Product{}
	if err := sqlx.SelectContext(ctx, e, &items, q, qargs...); err != nil {
		return nil, 0, postgres.MapError("list products", err)
	}
	return items, count, nil
}

// ---- warehouses ----

func (r *PGRepository) CreateWarehouse(ctx context.Context, w *model.Warehouse) error {
	query := `
        INSERT INTO warehouses (name, location, description, is_active, created_at)
        VALUES (:name, :location, :description, :is_active, :created_at)
        RETURNING id
    `
	if err := postgres.NamedGet(ctx, postgres.Executor(ctx, r.DB), &w.ID, query, w); err != nil {
		return postgres.MapError("insert warehouse", err)
	}
	return nil
}

func (r *PGRepository) UpdateWarehouse(ctx context.Context, w *model.Warehouse) error {
	query := `
        UPDATE warehouses SET
            name = :name, location = :location, description = :description, is_active = :is_active
        WHERE id = :id
    `
	return r.exec(ctx, "update warehouse", query, w)
}

func (r *PGRepository) FindWarehouseByID(ctx context.Context, id int64) (*model.Warehouse, error) {
	var w model.Warehouse
	found, err := r.findOne(ctx, &w, "select warehouse", `SELECT * FROM warehouses WHERE id = $1`, id)
	if !found {
		return nil, err
	}
	return &w, nil
}

func (r *PGRepository) FindWarehouseByIDForShare(ctx context.Context, id int64) (*model.Warehouse, error) {
	var w model.Warehouse
	found, err := r.findOne(ctx, &w, "select warehouse for share", `SELECT * FROM warehouses WHERE id = $1 FOR SHARE`, id)
	if !found {
		return nil, err
	}
	return &w, nil
}

func (r *PGRepository) ListWarehouses(ctx context.Context, activeOnly bool) ([]model.Warehouse, error) {
	query := `SELECT * FROM warehouses`
	if activeOnly {
		query += ` WHERE is_active`
	}
	query += ` ORDER BY name`

	items := []model.Warehouse{}
	if err := sqlx.SelectContext(ctx, postgres.Executor(ctx, r.DB), &items, query); err != nil {
		return nil, postgres.MapError("list warehouses", err)
	}
	return items, nil
}

// ---- customers ----

func (r *PGRepository) CreateCustomer(ctx context.Context, c *model.Customer) error {
	query := `
        INSERT INTO customers (name, address, ktp_number, phone, created_at)
        VALUES (:name, :address, :ktp_number, :phone, :created_at)
        RETURNING id
    `
	if err := postgres.NamedGet(ctx, postgres.Executor(ctx, r.DB), &c.ID, query, c); err != nil {
		return postgres.MapError("insert customer", err)
	}
	return nil
}

func (r *PGRepository) UpdateCustomer(ctx context.Context, c *model.Customer) error {
	query := `
        UPDATE customers SET
            name = :name, address = :address, ktp_number = :ktp_number, phone = :phone
        WHERE id = :id
    `
	return r.exec(ctx, "update customer", query, c)
}

func (r *PGRepository) FindCustomerByID(ctx context.Context, id int64) (*model.Customer, error) {
	var c model.Customer
	found, err := r.findOne(ctx, &c, "select customer", `SELECT * FROM customers WHERE id = $1`, id)
	if !found {
		return nil, err
	}
	return &c, nil
}

// ---- users ----

func (r *PGRepository) CreateUser(ctx context.Context, u *model.User) error {
	query := `
        INSERT INTO users (username, full_name, email, is_active, created_at)
        VALUES (:username, :full_name, :email, :is_active, :created_at)
        RETURNING id
    `
	if err := postgres.NamedGet(ctx, postgres.Executor(ctx, r.DB), &u.ID, query, u); err != nil {
		return postgres.MapError("insert user", err)
	}
	return nil
}

func (r *PGRepository) UpdateUser(ctx context.Context, u *model.User) error {
	query := `
        UPDATE users SET
            username = :username, full_name = :full_name, email = :email, is_active = :is_active
        WHERE id = :id
    `
	return r.exec(ctx, "update user", query, u)
}

func (r *PGRepository) FindUserByID(ctx context.Context, id int64) (*model.User, error) {
	var u model.User
	found, err := r.findOne(ctx, &u, "select user", `SELECT * FROM users WHERE id = $1`, id)
	if !found {
		return nil, err
	}
	return &u, nil
}
