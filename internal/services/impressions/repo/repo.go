// Package repo writes impressions to ClickHouse
package repo

import (
	"context"

	perr "github.com/TanvirAuntu75/snapverse/internal/platform/errors"
	"github.com/TanvirAuntu75/snapverse/internal/platform/store"
	"github.com/TanvirAuntu75/snapverse/internal/services/impressions/domain"
)

// Table is the impressions table
const Table = "feed_impressions"

// Schema creates Table
const Schema = `
CREATE TABLE IF NOT EXISTS feed_impressions (
	batch_id  UUID,
	viewer_id String,
	post_id   String,
	author_id String,
	position  UInt16,
	score     Float64,
	served_at DateTime64(3, 'UTC')
) ENGINE = MergeTree
PARTITION BY toYYYYMM(served_at)
ORDER BY (viewer_id, served_at, position)
`

var columns = []string{"batch_id", "viewer_id", "post_id", "author_id", "position", "score", "served_at"}

// CH implements domain.Storage
type CH struct{ ch store.Clickhouse }

// NewCH wraps a ClickHouse seam. It panics on nil.
func NewCH(c store.Clickhouse) *CH {
	if c == nil {
		panic("impressions repo requires a non nil Clickhouse")
	}
	return &CH{ch: c}
}

// WriteBatch inserts xs in one batch
func (r *CH) WriteBatch(ctx context.Context, xs []domain.Impression) error {
	if len(xs) == 0 {
		return nil
	}
	rows := make([][]any, 0, len(xs))
	for _, x := range xs {
		rows = append(rows, []any{x.BatchID, x.ViewerID, x.PostID, x.AuthorID, x.Position, x.Score, x.ServedAt})
	}
	if err := r.ch.Insert(ctx, Table, columns, rows); err != nil {
		return perr.Wrap(err, perr.ErrorCodeUnavailable, "impressions: insert")
	}
	return nil
}
