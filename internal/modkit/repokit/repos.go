// Package repokit holds the types and helpers SQL repos are written against
package repokit

import (
	"context"

	"github.com/TanvirAuntu75/snapverse/internal/platform/store"
)

// Queryer is the read and write surface a repo binds to
type Queryer = store.RowQuerier

// TxRunner can run a function inside a transaction
type TxRunner = store.TxRunner

type (
	// Rows is a result set
	Rows = store.Rows

	// Row is a single-row result
	Row = store.Row

	// CommandTag is the outcome of a write
	CommandTag = store.CommandTag
)

// Binder binds a domain repo to a Queryer, either the pool or a tx
type Binder[T any] interface {
	Bind(Queryer) T
}

// BindFunc adapts a constructor to Binder
type BindFunc[T any] func(Queryer) T

// Bind calls f
func (f BindFunc[T]) Bind(q Queryer) T { return f(q) }

// Bound is a repo attached to a runner. Reads go through the pool; writes
// rebind the repo to each transaction attempt.
type Bound[T any] struct {
	db   TxRunner
	b    Binder[T]
	pool T
}

// NewBound binds b to db. A nil db or binder is a wiring bug and panics.
func NewBound[T any](db TxRunner, b Binder[T]) *Bound[T] {
	if db == nil || b == nil {
		panic("repokit: NewBound needs a TxRunner and a Binder")
	}
	return &Bound[T]{db: db, b: b, pool: b.Bind(db)}
}

// Read returns the repo bound to the pool
func (x *Bound[T]) Read() T { return x.pool }

// WriteTx runs fn against a tx-bound repo, retrying serialization failures
// up to attempts times
func (x *Bound[T]) WriteTx(ctx context.Context, attempts int, fn func(T) error) error {
	return store.RetryTx(ctx, x.db, attempts, func(q store.RowQuerier) error {
		return fn(x.b.Bind(q))
	})
}
