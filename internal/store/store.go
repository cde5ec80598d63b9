// Package store holds the transaction boundary shared by every repository
// backend.
package store

import (
	"context"
	"sync"
)

// TxManager runs fn inside a single all-or-nothing unit of work. A call made
// while a transaction is already open on ctx joins it instead of starting a
// new one, so only the outermost call commits.
type TxManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type hooksKey struct{}

// Hooks collects callbacks registered with AfterCommit during a transaction.
type Hooks struct {
	mu  sync.Mutex
	fns []func(ctx context.Context)
}

// WithHooks attaches a fresh hook list to ctx. TxManager implementations call
// it when they open the outermost transaction.
func WithHooks(ctx context.Context) (context.Context, *Hooks) {
	h := &Hooks{}
	return context.WithValue(ctx, hooksKey{}, h), h
}

// Run invokes the collected callbacks in registration order. It is called once
// after a successful commit and never after a rollback.
func (h *Hooks) Run(ctx context.Context) {
	h.mu.Lock()
	fns := h.fns
	h.fns = nil
	h.mu.Unlock()

	for _, fn := range fns {
		fn(ctx)
	}
}

// AfterCommit defers fn until the surrounding transaction commits. Outside a
// transaction fn runs immediately.
func AfterCommit(ctx context.Context, fn func(ctx context.Context)) {
	h, ok := ctx.Value(hooksKey{}).(*Hooks)
	if !ok {
		fn(ctx)
		return
	}
	h.mu.Lock()
	h.fns = append(h.fns, fn)
	h.mu.Unlock()
}
