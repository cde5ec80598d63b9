// Package apperror defines the failure taxonomy shared by every use case.
// Callers match on the sentinels with errors.Is and pull details out of the
// structured types with errors.As.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrConflict          = errors.New("conflict")
	ErrPersistence       = errors.New("persistence failure")

	ErrInvalidQuantity = fmt.Errorf("%w: quantity out of range", ErrInvalidInput)
	ErrInvalidPrice    = fmt.Errorf("%w: price must be positive with at most 2 decimal places", ErrInvalidInput)
)

// Invalid builds an ErrInvalidInput with a message.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

type NotFoundError struct {
	Entity string
	ID     int64
}

func NotFound(entity string, id int64) error {
	return &NotFoundError{Entity: entity, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// ConflictError reports a unique-key collision or a concurrent update.
// Retryable marks conflicts where the whole transaction may simply be run
// again, such as serialization failures and deadlocks.
type ConflictError struct {
	Constraint string
	Retryable  bool
}

func Conflict(constraint string) error {
	return &ConflictError{Constraint: constraint}
}

// Retryable builds a conflict the caller may resolve by retrying.
func Retryable(reason string) error {
	return &ConflictError{Constraint: reason, Retryable: true}
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict on %s", e.Constraint)
}

func (e *ConflictError) Unwrap() error { return ErrConflict }

// IsConflictOn reports whether err is a conflict on the named constraint.
func IsConflictOn(err error, constraint string) bool {
	var ce *ConflictError
	return errors.As(err, &ce) && ce.Constraint == constraint
}

// IsRetryable reports whether err is a conflict worth retrying as a whole.
func IsRetryable(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce) && ce.Retryable
}

// StockError reports that a change would drive a stock row negative.
type StockError struct {
	StockID     int64
	ProductID   int64
	WarehouseID int64
	Available   int
	Requested   int
}

func (e *StockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d in warehouse %d: available %d, requested %d",
		e.ProductID, e.WarehouseID, e.Available, e.Requested)
}

func (e *StockError) Unwrap() error { return ErrInsufficientStock }

// ItemError pins a failure to one line of a sale request.
type ItemError struct {
	Index       int
	ProductID   int64
	WarehouseID int64
	Err         error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("item %d (product %d, warehouse %d): %v", e.Index, e.ProductID, e.WarehouseID, e.Err)
}

func (e *ItemError) Unwrap() error { return e.Err }

// Persistence wraps a backend failure so it matches ErrPersistence while
// keeping the driver error reachable.
func Persistence(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", op, ErrPersistence, err)
}

// Kind names the taxonomy bucket of err, for logs and rejection events.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrPersistence):
		return "persistence"
	}
	return "internal"
}
