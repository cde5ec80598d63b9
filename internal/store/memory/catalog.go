package memory

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"strings"

	"github.com/fekuna/omnipos-retail-service/internal/apperror"
	"github.com/fekuna/omnipos-retail-service/internal/catalog"
	"github.com/fekuna/omnipos-retail-service/internal/catalog/dto"
	"github.com/fekuna/omnipos-retail-service/internal/model"
)

type CatalogRepository struct {
	store *Store
}

func NewCatalogRepository(s *Store) *CatalogRepository {
	return &CatalogRepository{store: s}
}

var _ catalog.Repository = (*CatalogRepository)(nil)

// ---- categories ----

func (r *CatalogRepository) CreateCategory(ctx context.Context, c *model.Category) error {
	defer r.store.wlock(ctx)()
	d := r.store.data
	c.ID = d.nextID("categories")
	d.categories[c.ID] = *c
	return nil
}

func (r *CatalogRepository) UpdateCategory(ctx context.Context, c *model.Category) error {
	defer r.store.wlock(ctx)()
	d := r.store.data
	if _, ok := d.categories[c.ID]; !ok {
		return apperror.NotFound("category", c.ID)
	}
	d.categories[c.ID] = *c
	return nil
}

func (r *CatalogRepository) FindCategoryByID(ctx context.Context, id int64) (*model.Category, error) {
	defer r.store.rlock(ctx)()
	c, ok := r.store.data.categories[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *CatalogRepository) ListCategories(ctx context.Context) ([]model.Category, error) {
	defer r.store.rlock(ctx)()
	items := slices.Collect(maps.Values(r.store.data.categories))
	slices.SortFunc(items, func(a, b model.Category) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.ID, b.ID))
	})
	return items, nil
}

// ---- products ----

func (r *CatalogRepository) skuTaken(sku string, exceptID int64) bool {
	for _, p := range r.store.data.products {
		if p.SKU == sku && p.ID != exceptID {
			return true
		}
	}
	return false
}

func (r *CatalogRepository) CreateProduct(ctx context.Context, p *model.Product) error {
	defer r.store.wlock(ctx)()
	if r.skuTaken(p.SKU, 0) {
		return apperror.Conflict(catalog.ConstraintProductSKU)
	}
	d := r.store.data
	p.ID = d.nextID("products")
	d.products[p.ID] = *p
	return nil
}

func (r *CatalogRepository) UpdateProduct(ctx context.Context, p *model.Product) error {
	defer r.store.wlock(ctx)()
	d := r.store.data
	if _, ok := d.products[p.ID]; !ok {
		return apperror.NotFound("product", p.ID)
	}
	if r.skuTaken(p.SKU, p.ID) {
		return apperror.Conflict(catalog.ConstraintProductSKU)
	}
	d.products[p.ID] = *p
	return nil
}

func (r *CatalogRepository) FindProductByID(ctx context.Context, id int64) (*model.Product, error) {
	defer r.store.rlock(ctx)()
	p, ok := r.store.data.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// FindProductByIDForShare needs no extra locking: a transaction already holds
// the store's write lock.
func (r *CatalogRepository) FindProductByIDForShare(ctx context.Context, id int64) (*model.Product, error) {
	return r.FindProductByID(ctx, id)
}

func (r *CatalogRepository) FindProductsByIDs(ctx context.Context, ids []int64) ([]model.Product, error) {
	defer r.store.rlock(ctx)()
	items := []model.Product{}
	for _, id := range ids {
		if p, ok := r.store.data.products[id]; ok {
			items = append(items, p)
		}
	}
	return items, nil
}

func (r *CatalogRepository) ListProducts(ctx context.Context, f *dto.ProductFilters) ([]model.Product, int, error) {
	defer r.store.rlock(ctx)()

	q := strings.ToLower(f.SearchQuery)
	items := []model.Product{}
	for _, p := range r.store.data.products {
		if f.CategoryID != nil && (p.CategoryID == nil || *p.CategoryID != *f.CategoryID) {
			continue
		}
		if f.IsActive != nil && p.IsActive != *f.IsActive {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(p.Name), q) && !strings.Contains(strings.ToLower(p.SKU), q) {
			continue
		}
		items = append(items, p)
	}
	slices.SortFunc(items, func(a, b model.Product) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.ID, b.ID))
	})
	return paginate(items, f.Page, f.PageSize), len(items), nil
}

// ---- warehouses ----

func (r *CatalogRepository) CreateWarehouse(ctx context.Context, w *model.Warehouse) error {
	defer r.store.wlock(ctx)()
	d := r.store.data
	w.ID = d.nextID("warehouses")
	d.warehouses[w.ID] = *w
	return nil
}

func (r *CatalogRepository) UpdateWarehouse(ctx context.Context, w *model.Warehouse) error {
	defer r.store.wlock(ctx)()
	d := r.store.data
	if _, ok := d.warehouses[w.ID]; !ok {
		return apperror.NotFound("warehouse", w.ID)
	}
	d.warehouses[w.ID] = *w
	return nil
}

func (r *CatalogRepository) FindWarehouseByID(ctx context.Context, id int64) (*model.Warehouse, error) {
	defer r.store.rlock(ctx)()
	w, ok := r.store.data.warehouses[id]
	if !ok {
		return nil, nil
	}
	return &w, nil
}

func (r *CatalogRepository) FindWarehouseByIDForShare(ctx context.Context, id int64) (*model.Warehouse, error) {
	return r.FindWarehouseByID(ctx, id)
}

func (r *CatalogRepository) ListWarehouses(ctx context.Context, activeOnly bool) ([]model.Warehouse, error) {
	defer r.store.rlock(ctx)()
	items := []model.Warehouse{}
	for _, w := range r.store.data.warehouses {
		if activeOnly && !w.IsActive {
			continue
		}
		items = append(items, w)
	}
	slices.SortFunc(items, func(a, b model.Warehouse) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.ID, b.ID))
	})
	return items, nil
}

// ---- customers ----

func (r *CatalogRepository) ktpTaken(ktp string, exceptID int64) bool {
	for _, c := range r.store.data.customers {
		if c.KTPNumber == ktp && c.ID != exceptID {
			return true
		}
	}
	return false
}

func (r *CatalogRepository) CreateCustomer(ctx context.Context, c *model.Customer) error {
	defer r.store.wlock(ctx)()
	if r.ktpTaken(c.KTPNumber, 0) {
		return apperror.Conflict(catalog.ConstraintCustomerKTP)
	}
	d := r.store.data
	c.ID = d.nextID("customers")
	d.customers[c.ID] = *c
	return nil
}

func (r *CatalogRepository) UpdateCustomer(ctx context.Context, c *model.Customer) error {
	defer r.store.wlock(ctx)()
	d := r.store.data
	if _, ok := d.customers[c.ID]; !ok {
		return apperror.NotFound("customer", c.ID)
	}
	if r.ktpTaken(c.KTPNumber, c.ID) {
		return apperror.Conflict(catalog.ConstraintCustomerKTP)
	}
	d.customers[c.ID] = *c
	return nil
}

func (r *CatalogRepository) FindCustomerByID(ctx context.Context, id int64) (*model.Customer, error) {
	defer r.store.rlock(ctx)()
	c, ok := r.store.data.customers[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

// ---- users ----

func (r *CatalogRepository) userConflict(u *model.User) error {
	for _, other := range r.store.data.users {
		if other.ID == u.ID {
			continue
		}
		if other.Username == u.Username {
			return apperror.Conflict(catalog.ConstraintUsername)
		}
		if other.Email == u.Email {
			return apperror.Conflict(catalog.ConstraintUserEmail)
		}
	}
	return nil
}

func (r *CatalogRepository) CreateUser(ctx context.Context, u *model.User) error {
	defer r.store.wlock(ctx)()
	if err := r.userConflict(u); err != nil {
		return err
	}
	d := r.store.data
	u.ID = d.nextID("users")
	d.users[u.ID] = *u
	return nil
}

func (r *CatalogRepository) UpdateUser(ctx context.Context, u *model.User) error {
	defer r.store.wlock(ctx)()
	d := r.store.data
	if _, ok := d.users[u.ID]; !ok {
		return apperror.NotFound("user", u.ID)
	}
	if err := r.userConflict(u); err != nil {
		return err
	}
	d.users[u.ID] = *u
	return nil
}

func (r *CatalogRepository) FindUserByID(ctx context.Context, id int64) (*model.User, error) {
	defer r.store.rlock(ctx)()
	u, ok := r.store.data.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}
