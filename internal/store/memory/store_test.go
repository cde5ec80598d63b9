package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fekuna/omnipos-retail-service/internal/apperror"
	"github.com/fekuna/omnipos-retail-service/internal/catalog"
	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/fekuna/omnipos-retail-service/internal/stock/dto"
	"github.com/fekuna/omnipos-retail-service/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionRollbackRestoresSnapshot(t *testing.T) {
	s := NewStore()
	tx := NewTxManager(s)
	stocks := NewStockRepository(s)
	ctx := context.Background()
	now := time.Now()

	st, err := stocks.GetOrCreate(ctx, 1, 1, now)
	require.NoError(t, err)
	require.NoError(t, stocks.UpdateQuantity(ctx, st.ID, 10, now))

	boom := errors.New("boom")
	hookRan := false
	err = tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := stocks.UpdateQuantity(ctx, st.ID, 4, now); err != nil {
			return err
		}
		if _, err := stocks.GetOrCreate(ctx, 2, 1, now); err != nil {
			return err
		}
		store.AfterCommit(ctx, func(context.Context) { hookRan = true })
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.False(t, hookRan)

	got, err := stocks.FindByID(ctx, st.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, got.Quantity)

	_, total, err := stocks.List(ctx, &dto.StockFilters{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}

func TestNestedTransactionJoinsOuter(t *testing.T) {
	s := NewStore()
	tx := NewTxManager(s)
	repo := NewCatalogRepository(s)
	ctx := context.Background()

	var order []string
	err := tx.WithTransaction(ctx, func(ctx context.Context) error {
		return tx.WithTransaction(ctx, func(ctx context.Context) error {
			store.AfterCommit(ctx, func(context.Context) { order = append(order, "hook") })
			order = append(order, "body")
			return repo.CreateCategory(ctx, &model.Category{Name: "Drinks"})
		})
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"body", "hook"}, order)

	items, err := repo.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestCatalogUniqueConstraints(t *testing.T) {
	s := NewStore()
	repo := NewCatalogRepository(s)
	ctx := context.Background()

	require.NoError(t, repo.CreateProduct(ctx, &model.Product{Name: "Tea", SKU: "TEA-1"}))
	err := repo.CreateProduct(ctx, &model.Product{Name: "Tea 2", SKU: "TEA-1"})
	assert.True(t, apperror.IsConflictOn(err, catalog.ConstraintProductSKU))

	require.NoError(t, repo.CreateUser(ctx, &model.User{Username: "ana", Email: "ana@example.com"}))
	err = repo.CreateUser(ctx, &model.User{Username: "ana", Email: "other@example.com"})
	assert.True(t, apperror.IsConflictOn(err, catalog.ConstraintUsername))
	err = repo.CreateUser(ctx, &model.User{Username: "bob", Email: "ana@example.com"})
	assert.True(t, apperror.IsConflictOn(err, catalog.ConstraintUserEmail))

	require.NoError(t, repo.CreateCustomer(ctx, &model.Customer{Name: "C", KTPNumber: "3171"}))
	err = repo.CreateCustomer(ctx, &model.Customer{Name: "D", KTPNumber: "3171"})
	assert.True(t, apperror.IsConflictOn(err, catalog.ConstraintCustomerKTP))
}

func TestGetOrCreateIsIdempotent(t *testing.T) {
	s := NewStore()
	stocks := NewStockRepository(s)
	ctx := context.Background()

	a, err := stocks.GetOrCreate(ctx, 7, 3, time.Now())
	require.NoError(t, err)
	b, err := stocks.GetOrCreate(ctx, 7, 3, time.Now())
	require.NoError(t, err)
	assert.Equal(t, a.ID, b.ID)
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	assert.Equal(t, []int{1, 2}, paginate(items, 1, 2))
	assert.Equal(t, []int{5}, paginate(items, 3, 2))
	assert.Empty(t, paginate(items, 4, 2))
	assert.Equal(t, items, paginate(items, 0, 0))
}
