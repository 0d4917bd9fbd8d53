package service

import (
	"context"
	"reflect"

	"github.com/TanvirAuntu75/snapverse/internal/core/annotation"
	perr "github.com/TanvirAuntu75/snapverse/internal/platform/errors"
	"github.com/TanvirAuntu75/snapverse/internal/platform/logger"
	"github.com/TanvirAuntu75/snapverse/internal/services/feed/domain"
)

const defaultBackfillPage = 100

// Backfill annotates stored posts that have no annotation yet, page by page,
// until Limit posts were scanned or a page persists nothing
func (s *Svc) Backfill(ctx context.Context, in domain.BackfillInput) (domain.BackfillResult, error) {
	var res domain.BackfillResult
	if s.src == nil {
		return res, perr.Validationf("backfill requires a post store")
	}
	if in.Limit <= 0 {
		return res, perr.WithField(perr.Validationf("limit must be positive"), "limit")
	}
	page := in.PageSize
	if page <= 0 {
		page = defaultBackfillPage
	}
	log := logger.C(ctx).With().Str("op", "backfill").Bool("dry_run", in.DryRun).Logger()

	for res.Scanned < in.Limit {
		n := min(page, in.Limit-res.Scanned)
		posts, err := s.src.Unannotated(ctx, n)
		if err != nil {
			return res, err
		}
		if len(posts) == 0 {
			break
		}
		texts := make([]string, len(posts))
		for i, p := range posts {
			texts[i] = p.Content
		}
		anns, err := s.ann.AnnotateAll(ctx, texts)
		if err != nil {
			return res, err
		}
		res.Scanned += len(posts)

		writes := make([]domain.PostAnnotation, 0, len(posts))
		for i, a := range anns {
			if isFallback(a) {
				res.Skipped++
				continue
			}
			writes = append(writes, domain.PostAnnotation{PostID: posts[i].ID, Annotation: a})
		}
		log.Info().Int("page", len(posts)).Int("annotated", len(writes)).Msg("backfill page")

		if in.DryRun {
			// nothing is persisted, so the next read would return the same rows
			break
		}
		if len(writes) == 0 {
			break
		}
		if err := s.save(ctx, writes); err != nil {
			return res, err
		}
		res.Saved += len(writes)
		if len(posts) < n {
			break
		}
	}
	return res, nil
}

// isFallback reports whether a is the annotator's safe default
func isFallback(a annotation.Annotation) bool {
	return reflect.DeepEqual(a, annotation.Default())
}
