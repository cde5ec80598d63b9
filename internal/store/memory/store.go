// Package memory is an in-process backend used for development and tests.
// A transaction holds the store's write lock for its whole duration and
// restores a snapshot on failure.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/fekuna/omnipos-retail-service/internal/store"
)

type dataset struct {
	categories  map[int64]model.Category
	products    map[int64]model.Product
	warehouses  map[int64]model.Warehouse
	customers   map[int64]model.Customer
	users       map[int64]model.User
	stocks      map[int64]model.Stock
	adjustments []model.StockAdjustment
	sales       map[int64]model.Sale
	saleItems   []model.SaleItem
	seq         map[string]int64
}

func newDataset() *dataset {
	return &dataset{
		categories: make(map[int64]model.Category),
		products:   make(map[int64]model.Product),
		warehouses: make(map[int64]model.Warehouse),
		customers:  make(map[int64]model.Customer),
		users:      make(map[int64]model.User),
		stocks:     make(map[int64]model.Stock),
		sales:      make(map[int64]model.Sale),
		seq:        make(map[string]int64),
	}
}

// clone copies every table. Rows are values, so a shallow copy per map is
// enough.
func (d *dataset) clone() *dataset {
	return &dataset{
		categories:  maps.Clone(d.categories),
		products:    maps.Clone(d.products),
		warehouses:  maps.Clone(d.warehouses),
		customers:   maps.Clone(d.customers),
		users:       maps.Clone(d.users),
		stocks:      maps.Clone(d.stocks),
		adjustments: slices.Clone(d.adjustments),
		sales:       maps.Clone(d.sales),
		saleItems:   slices.Clone(d.saleItems),
		seq:         maps.Clone(d.seq),
	}
}

func (d *dataset) nextID(table string) int64 {
	d.seq[table]++
	return d.seq[table]
}

type Store struct {
	mu   sync.RWMutex
	data *dataset
}

func NewStore() *Store {
	return &Store{data: newDataset()}
}

type txKey struct{}

func (s *Store) inTx(ctx context.Context) bool {
	owner, ok := ctx.Value(txKey{}).(*Store)
	return ok && owner == s
}

// transaction-aware locking helpers
func (s *Store) rlock(ctx context.Context) func() {
	if s.inTx(ctx) {
		return func() {}
	}
	s.mu.RLock()
	return s.mu.RUnlock
}

func (s *Store) wlock(ctx context.Context) func() {
	if s.inTx(ctx) {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// TxManager serializes transactions on the store's write lock.
type TxManager struct {
	store *Store
}

func NewTxManager(s *Store) *TxManager {
	return &TxManager{store: s}
}

func (m *TxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	s := m.store
	if s.inTx(ctx) {
		return fn(ctx)
	}

	s.mu.Lock()
	snapshot := s.data.clone()
	txCtx, hooks := store.WithHooks(context.WithValue(ctx, txKey{}, s))

	err := func() (err error) {
		defer func() {
			if p := recover(); p != nil {
				s.data = snapshot
				s.mu.Unlock()
				panic(p)
			}
		}()
		return fn(txCtx)
	}()
	if err != nil {
		s.data = snapshot
	}
	s.mu.Unlock()

	if err != nil {
		return err
	}
	hooks.Run(ctx)
	return nil
}

func paginate[T any](items []T, page, pageSize int) []T {
	if pageSize <= 0 {
		return items
	}
	start := (max(page, 1) - 1) * pageSize
	if start >= len(items) {
		return []T{}
	}
	end := min(start+pageSize, len(items))
	return items[start:end]
}
