package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAfterCommitWithoutTransactionRunsImmediately(t *testing.T) {
	ran := false
	AfterCommit(context.Background(), func(context.Context) { ran = true })
	assert.True(t, ran)
}

func TestAfterCommitDefersUntilRun(t *testing.T) {
	ctx, hooks := WithHooks(context.Background())

	var order []int
	AfterCommit(ctx, func(context.Context) { order = append(order, 1) })
	AfterCommit(ctx, func(context.Context) { order = append(order, 2) })
	assert.Empty(t, order)

	hooks.Run(context.Background())
	assert.Equal(t, []int{1, 2}, order)

	// a second run is a no-op
	hooks.Run(context.Background())
	assert.Equal(t, []int{1, 2}, order)
}
