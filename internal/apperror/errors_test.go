package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvalidQuantityAndPriceAreInvalidInput(t *testing.T) {
	assert.ErrorIs(t, ErrInvalidQuantity, ErrInvalidInput)
	assert.ErrorIs(t, ErrInvalidPrice, ErrInvalidInput)
	assert.ErrorIs(t, Invalid("bad %s", "percentage"), ErrInvalidInput)
}

func TestItemErrorUnwrapsToCause(t *testing.T) {
	cause := &StockError{ProductID: 1, WarehouseID: 2, Available: 3, Requested: 5}
	err := fmt.Errorf("post sale: %w", &ItemError{Index: 1, ProductID: 1, WarehouseID: 2, Err: cause})

	assert.ErrorIs(t, err, ErrInsufficientStock)

	var item *ItemError
	require.True(t, errors.As(err, &item))
	assert.Equal(t, 1, item.Index)

	var stockErr *StockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, 3, stockErr.Available)
}

func TestConflictOn(t *testing.T) {
	err := fmt.Errorf("insert: %w", Conflict("sales_transaction_number_key"))

	assert.ErrorIs(t, err, ErrConflict)
	assert.True(t, IsConflictOn(err, "sales_transaction_number_key"))
	assert.False(t, IsConflictOn(err, "products_sku_key"))
	assert.False(t, IsRetryable(err))
}

func TestRetryableConflict(t *testing.T) {
	err := fmt.Errorf("update stock: %w", Retryable("deadlock detected"))

	assert.ErrorIs(t, err, ErrConflict)
	assert.True(t, IsRetryable(err))
	assert.Equal(t, "conflict", Kind(err))
}

func TestPersistenceKeepsDriverError(t *testing.T) {
	driverErr := errors.New("connection reset")
	err := Persistence("insert sale", driverErr)

	assert.ErrorIs(t, err, ErrPersistence)
	assert.ErrorIs(t, err, driverErr)
	assert.Nil(t, Persistence("noop", nil))
}

func TestNotFound(t *testing.T) {
	err := NotFound("customer", 42)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "customer 42 not found", err.Error())
}

func TestKind(t *testing.T) {
	assert.Equal(t, "not_found", Kind(NotFound("product", 1)))
	assert.Equal(t, "invalid_input", Kind(ErrInvalidPrice))
	assert.Equal(t, "insufficient_stock", Kind(&ItemError{Err: &StockError{}}))
	assert.Equal(t, "conflict", Kind(Conflict("x")))
	assert.Equal(t, "persistence", Kind(Persistence("op", errors.New("io"))))
	assert.Equal(t, "internal", Kind(errors.New("other")))
	assert.Equal(t, "", Kind(nil))
}
