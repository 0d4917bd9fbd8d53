package repokit

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/TanvirAuntu75/snapverse/internal/platform/store"
	kit "github.com/TanvirAuntu75/snapverse/internal/platform/testkit"
)

type tag int64

func (t tag) String() string      { return fmt.Sprintf("OK %d", int64(t)) }
func (t tag) RowsAffected() int64 { return int64(t) }

type recQ struct {
	execs []string
	err   error
}

func (r *recQ) Exec(_ context.Context, sql string, _ ...any) (store.CommandTag, error) {
	r.execs = append(r.execs, sql)
	return tag(0), r.err
}
func (r *recQ) Query(context.Context, string, ...any) (store.Rows, error) { return nil, nil }
func (r *recQ) QueryRow(context.Context, string, ...any) store.Row        { return nil }

type recTx struct {
	recQ
	txs int
}

func (r *recTx) Tx(_ context.Context, fn func(q store.RowQuerier) error) error {
	r.txs++
	return fn(&r.recQ)
}

// stamp records which Queryer it was bound to
type stamp struct{ q Queryer }

func TestBound(t *testing.T) {
	db := &recTx{}
	b := NewBound[stamp](db, BindFunc[stamp](func(q Queryer) stamp { return stamp{q: q} }))
	if b.Read().q != Queryer(db) {
		t.Fatalf("Read not bound to the pool")
	}

	var inTx Queryer
	err := b.WriteTx(context.Background(), 3, func(s stamp) error {
		inTx = s.q
		_, err := s.q.Exec(context.Background(), "UPDATE posts SET annotation = $1")
		return err
	})
	if err != nil || db.txs != 1 {
		t.Fatalf("WriteTx err=%v txs=%d", err, db.txs)
	}
	if inTx != Queryer(&db.recQ) {
		t.Fatalf("write not rebound to the tx")
	}

	boom := errors.New("constraint")
	if err := b.WriteTx(context.Background(), 3, func(stamp) error { return boom }); !errors.Is(err, boom) || db.txs != 2 {
		t.Fatalf("non retryable err=%v txs=%d", err, db.txs)
	}

	kit.MustPanic(t, func() { NewBound[stamp](nil, BindFunc[stamp](func(Queryer) stamp { return stamp{} })) })
	kit.MustPanic(t, func() { NewBound[stamp](db, nil) })
}

func TestBeginHooks(t *testing.T) {
	inner := &recTx{}
	if WithBeginHooks(inner) != TxRunner(inner) {
		t.Fatalf("no hooks should return inner")
	}

	tx := WithBeginHooks(inner, StatementTimeout(2*time.Second), StatementTimeout(0))
	var ran bool
	err := tx.Tx(context.Background(), func(q Queryer) error {
		ran = true
		_, err := q.Exec(context.Background(), "UPDATE posts SET annotation = $1")
		return err
	})
	if err != nil || !ran || inner.txs != 1 {
		t.Fatalf("tx err=%v ran=%v txs=%d", err, ran, inner.txs)
	}
	want := []string{"SET LOCAL statement_timeout = 2000", "UPDATE posts SET annotation = $1"}
	if fmt.Sprint(inner.execs) != fmt.Sprint(want) {
		t.Fatalf("execs = %q", inner.execs)
	}
}

func TestBeginHookErrorStopsTx(t *testing.T) {
	inner := &recTx{recQ: recQ{err: errors.New("denied")}}
	called := false
	err := WithBeginHooks(inner, StatementTimeout(time.Second)).Tx(context.Background(), func(Queryer) error {
		called = true
		return nil
	})
	if err == nil || called {
		t.Fatalf("err=%v called=%v", err, called)
	}
}

type guard struct{ err error }

func (g guard) Guard(context.Context) error { return g.err }

func TestMustGuard(t *testing.T) {
	MustGuard(context.Background(), guard{})
	kit.MustPanic(t, func() { MustGuard(context.Background(), guard{err: errors.New("down")}) })
}
