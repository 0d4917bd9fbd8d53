// Package service turns curated feeds into impression rows
package service

import (
	"context"
	"math"
	"time"

	"github.com/TanvirAuntu75/snapverse/internal/core/rank"
	"github.com/TanvirAuntu75/snapverse/internal/platform/metrics"
	"github.com/TanvirAuntu75/snapverse/internal/services/impressions/domain"

	"github.com/google/uuid"
)

// Service implements the feed's ImpressionWriter
type Service struct {
	storage domain.Storage
	now     func() time.Time
	newID   func() string
}

// New constructs the service over storage
func New(storage domain.Storage) *Service {
	if storage == nil {
		panic("impressions.Service requires non nil storage")
	}
	return &Service{storage: storage, now: time.Now, newID: uuid.NewString}
}

// Record writes one row per served item under a fresh batch id. Positions
// start at 1.
func (s *Service) Record(ctx context.Context, viewerID string, items []rank.Scored) error {
	if len(items) == 0 {
		return nil
	}
	batch, at := s.newID(), s.now().UTC()
	xs := make([]domain.Impression, 0, len(items))
	for i, it := range items {
		xs = append(xs, domain.Impression{
			BatchID:  batch,
			ViewerID: viewerID,
			PostID:   it.Post.ID,
			AuthorID: it.Post.AuthorID,
			Position: uint16(min(i+1, math.MaxUint16)),
			Score:    it.Score,
			ServedAt: at,
		})
	}
	if err := s.storage.WriteBatch(ctx, xs); err != nil {
		return err
	}
	metrics.ImpressionsWritten.Add(float64(len(xs)))
	return nil
}
