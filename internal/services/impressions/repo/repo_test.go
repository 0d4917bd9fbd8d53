package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	perr "github.com/TanvirAuntu75/snapverse/internal/platform/errors"
	"github.com/TanvirAuntu75/snapverse/internal/platform/store"
	"github.com/TanvirAuntu75/snapverse/internal/platform/testkit"
	"github.com/TanvirAuntu75/snapverse/internal/services/impressions/domain"
)

type fakeCH struct {
	table string
	cols  []string
	rows  [][]any
	calls int
	err   error
}

func (f *fakeCH) Insert(_ context.Context, table string, cols []string, rows [][]any) error {
	f.calls++
	f.table, f.cols, f.rows = table, cols, rows
	return f.err
}
func (f *fakeCH) Query(context.Context, string, ...any) (store.Rows, error) { return nil, nil }
func (f *fakeCH) Close() error                                             { return nil }

func TestNewCHPanicsOnNil(t *testing.T) {
	testkit.MustPanic(t, func() { NewCH(nil) })
}

func TestWriteBatch(t *testing.T) {
	ch := &fakeCH{}
	r := NewCH(ch)
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	if err := r.WriteBatch(context.Background(), nil); err != nil || ch.calls != 0 {
		t.Fatalf("empty batch: err=%v calls=%d", err, ch.calls)
	}

	xs := []domain.Impression{
		{BatchID: "b", ViewerID: "v", PostID: "p1", AuthorID: "a", Position: 1, Score: 0.9, ServedAt: at},
		{BatchID: "b", ViewerID: "v", PostID: "p2", AuthorID: "c", Position: 2, Score: 0.7, ServedAt: at},
	}
	if err := r.WriteBatch(context.Background(), xs); err != nil {
		t.Fatal(err)
	}
	if ch.table != Table || len(ch.cols) != 7 || len(ch.rows) != 2 {
		t.Fatalf("insert = %s %v %d rows", ch.table, ch.cols, len(ch.rows))
	}
	if ch.rows[1][2] != "p2" || ch.rows[1][4] != uint16(2) {
		t.Fatalf("row = %v", ch.rows[1])
	}

	ch.err = errors.New("conn reset")
	err := r.WriteBatch(context.Background(), xs)
	if !perr.IsCode(err, perr.ErrorCodeUnavailable) {
		t.Fatalf("err = %v", err)
	}
}
