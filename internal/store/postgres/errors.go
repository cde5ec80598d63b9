package postgres

import (
	"errors"

	"github.com/fekuna/omnipos-retail-service/internal/apperror"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	codeUniqueViolation      = "23505"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
)

// MapError translates driver errors into the application taxonomy. Unique
// violations keep the constraint name so callers can tell collisions apart.
func MapError(op string, err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return apperror.Conflict(pgErr.ConstraintName)
		case codeSerializationFailure:
			return apperror.Retryable("serialization failure")
		case codeDeadlockDetected:
			return apperror.Retryable("deadlock detected")
		}
	}
	return apperror.Persistence(op, err)
}
