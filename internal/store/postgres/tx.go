package postgres

import (
	"context"
	"fmt"

	"github.com/fekuna/omnipos-retail-service/internal/apperror"
	"github.com/fekuna/omnipos-retail-service/internal/store"
	"github.com/jmoiron/sqlx"
)

type txKey struct{}

type TxManager struct {
	DB *sqlx.DB
}

func NewTxManager(db *sqlx.DB) *TxManager {
	return &TxManager{DB: db}
}

func (m *TxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return fn(ctx)
	}

	tx, err := m.DB.BeginTxx(ctx, nil)
	if err != nil {
		return apperror.Persistence("begin transaction", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	txCtx, hooks := store.WithHooks(context.WithValue(ctx, txKey{}, tx))
	if err := fn(txCtx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return MapError("commit transaction", err)
	}

	hooks.Run(ctx)
	return nil
}

// Executor returns the transaction open on ctx, or db when there is none.
func Executor(ctx context.Context, db *sqlx.DB) sqlx.ExtContext {
	if tx, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return tx
	}
	return db
}

// NamedGet binds a named query and scans the single resulting row into dest.
func NamedGet(ctx context.Context, e sqlx.ExtContext, dest any, query string, arg any) error {
	q, args, err := e.BindNamed(query, arg)
	if err != nil {
		return err
	}
	return sqlx.GetContext(ctx, e, dest, q, args...)
}
