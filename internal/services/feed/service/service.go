// Package service contains the feed workflows: curate, score, trending,
// filter, recommendations and annotation backfill
package service

import (
	"context"
	"time"

	"github.com/TanvirAuntu75/snapverse/internal/core/filter"
	"github.com/TanvirAuntu75/snapverse/internal/core/rank"
	"github.com/TanvirAuntu75/snapverse/internal/core/trend"
	"github.com/TanvirAuntu75/snapverse/internal/modkit/repokit"
	perr "github.com/TanvirAuntu75/snapverse/internal/platform/errors"
	"github.com/TanvirAuntu75/snapverse/internal/platform/logger"
	"github.com/TanvirAuntu75/snapverse/internal/platform/metrics"
	anndomain "github.com/TanvirAuntu75/snapverse/internal/services/annotator/domain"
	"github.com/TanvirAuntu75/snapverse/internal/services/feed/domain"
)

// Svc implements domain.ServicePort
type Svc struct {
	db     repokit.TxRunner
	binder repokit.Binder[domain.PostSource]
	posts  *repokit.Bound[domain.PostSource]
	src    domain.PostSource

	ann    anndomain.AnnotatorPort
	imp    domain.ImpressionWriter
	scorer *rank.Scorer
	cfg    Config
	now    func() time.Time
}

var _ domain.ServicePort = (*Svc)(nil)

// Option configures Svc
type Option func(*Svc)

// WithStore attaches the post store. Without it every request must carry its posts.
func WithStore(db repokit.TxRunner, binder repokit.Binder[domain.PostSource]) Option {
	return func(s *Svc) {
		if db == nil || binder == nil {
			return
		}
		s.db = db
		s.binder = binder
	}
}

// WithImpressions records curated feeds
func WithImpressions(w domain.ImpressionWriter) Option {
	return func(s *Svc) { s.imp = w }
}

// WithClock replaces time.Now for scoring and windows
func WithClock(now func() time.Time) Option {
	return func(s *Svc) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs the feed service
func New(ann anndomain.AnnotatorPort, cfg Config, opts ...Option) *Svc {
	if ann == nil {
		panic("feed.Service requires a non nil AnnotatorPort")
	}
	s := &Svc{ann: ann, cfg: cfg, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	if s.db != nil {
		s.db = repokit.WithBeginHooks(s.db, repokit.StatementTimeout(cfg.StatementTimeout))
		s.posts = repokit.NewBound(s.db, s.binder)
		s.src = s.posts.Read()
	}
	s.scorer = rank.NewScorer(cfg.Weights, rank.WithClock(s.now))
	return s
}

// HasStore reports whether a post store is attached
func (s *Svc) HasStore() bool { return s.src != nil }

// Curate ranks posts for a viewer and diversifies the result. Posts without an
// annotation are annotated first.
func (s *Svc) Curate(ctx context.Context, in domain.CurateInput) (domain.CurateOutput, error) {
	defer metrics.ObserveStage("curate", time.Now())

	viewer := in.Viewer.Viewer()
	posts := in.Posts
	stored := false
	if len(posts) == 0 {
		loaded, following, err := s.candidates(ctx, viewer)
		if err != nil {
			return domain.CurateOutput{}, err
		}
		posts, stored = loaded, true
		if len(viewer.Following) == 0 {
			viewer.Following = rank.FollowSet(following)
		}
	}

	posts, err := s.annotate(ctx, posts, stored)
	if err != nil {
		return domain.CurateOutput{}, err
	}

	opts := s.cfg.Diversity
	if in.Limit > 0 {
		opts.Limit = min(in.Limit, rank.MaxFeedSize)
	}
	items := s.scorer.Curate(posts, viewer, opts)
	s.record(ctx, viewer.ID, items)
	return domain.CurateOutput{Items: items, Count: len(items)}, nil
}

// Score returns the relevance of one post for a viewer. The post is scored as
// given; no annotation is fetched.
func (s *Svc) Score(_ context.Context, in domain.ScoreInput) (domain.ScoreOutput, error) {
	return domain.ScoreOutput{PostID: in.Post.ID, Score: s.scorer.Score(in.Post, in.Viewer.Viewer())}, nil
}

// Trending returns the most frequent topics among posts inside the window
func (s *Svc) Trending(ctx context.Context, in domain.TrendingInput) (domain.TrendingOutput, error) {
	defer metrics.ObserveStage("trending", time.Now())

	window := trend.DefaultWindow
	if in.WindowHours != nil {
		window = trend.WindowHours(*in.WindowHours)
	}
	if window < 0 {
		return domain.TrendingOutput{}, perr.WithField(perr.Validationf("window_hours must not be negative"), "window_hours")
	}
	now := s.now()
	posts := in.Posts
	if len(posts) == 0 && s.src != nil {
		var err error
		if posts, err = s.src.Corpus(ctx, now.Add(-window), s.cfg.TrendingLimit); err != nil {
			return domain.TrendingOutput{}, err
		}
		if posts, err = s.annotate(ctx, posts, true); err != nil {
			return domain.TrendingOutput{}, err
		}
	}
	counts, err := trend.DetectCounts(posts, window, now)
	if err != nil {
		return domain.TrendingOutput{}, err
	}
	return domain.TrendingOutput{Topics: counts}, nil
}

// Filter keeps posts matching every predicate of the filter. With a viewer the
// survivors are curated; without one they keep their input order and a score of 0.
func (s *Svc) Filter(ctx context.Context, in domain.FilterInput) (domain.CurateOutput, error) {
	defer metrics.ObserveStage("filter", time.Now())

	kept, err := filter.Apply(in.Posts, in.Filter)
	if err != nil {
		return domain.CurateOutput{}, err
	}
	if in.Viewer != nil {
		items := s.scorer.Curate(kept, in.Viewer.Viewer(), s.cfg.Diversity)
		return domain.CurateOutput{Items: items, Count: len(items)}, nil
	}
	items := make([]rank.Scored, 0, len(kept))
	for _, p := range kept {
		items = append(items, rank.Scored{Post: p})
	}
	return domain.CurateOutput{Items: items, Count: len(items)}, nil
}

// Recommendations suggests topics for a viewer. Provider failures yield an
// empty list.
func (s *Svc) Recommendations(ctx context.Context, in domain.RecommendInput) (domain.RecommendOutput, error) {
	v := in.Viewer
	following := len(v.Following)
	if following == 0 && s.src != nil && v.ID != "" {
		ids, err := s.src.Following(ctx, v.ID)
		if err != nil {
			logger.C(ctx).Warn().Err(err).Msg("feed: following lookup failed")
		}
		following = len(ids)
	}
	topics := s.ann.Recommend(ctx, anndomain.RecommendContext{
		ViewerID:       v.ID,
		Interests:      v.Interests,
		RecentActivity: v.RecentActivity,
		FollowingCount: following,
		Location:       v.Location,
		TimeOfDay:      v.TimeOfDay,
	}, in.Limit)
	return domain.RecommendOutput{Topics: topics}, nil
}

func (s *Svc) candidates(ctx context.Context, v rank.Viewer) ([]rank.Post, []string, error) {
	if s.src == nil {
		return nil, nil, perr.WithField(perr.Validationf("posts are required when no post store is configured"), "posts")
	}
	if v.ID == "" {
		return nil, nil, perr.WithField(perr.Validationf("viewer.id is required to load candidates"), "viewer.id")
	}
	posts, err := s.src.Candidates(ctx, v.ID, s.now().Add(-s.cfg.CandidateWindow), s.cfg.CandidateLimit)
	if err != nil {
		return nil, nil, err
	}
	var following []string
	if len(v.Following) == 0 {
		if following, err = s.src.Following(ctx, v.ID); err != nil {
			return nil, nil, err
		}
	}
	return posts, following, nil
}

// annotate fills missing annotations through the annotator batch path. The
// input slice is not modified. Stored posts are written back when enabled;
// fallback annotations are served but never written, so Backfill can retry them.
func (s *Svc) annotate(ctx context.Context, posts []rank.Post, stored bool) ([]rank.Post, error) {
	var (
		idx   []int
		texts []string
	)
	for i, p := range posts {
		if p.Annotation == nil {
			idx = append(idx, i)
			texts = append(texts, p.Content)
		}
	}
	if len(idx) == 0 {
		return posts, nil
	}

	anns, err := s.ann.AnnotateAll(ctx, texts)
	if err != nil {
		return nil, err
	}
	out := make([]rank.Post, len(posts))
	copy(out, posts)
	writes := make([]domain.PostAnnotation, 0, len(idx))
	for j, i := range idx {
		out[i] = posts[i].WithAnnotation(anns[j])
		if !isFallback(anns[j]) {
			writes = append(writes, domain.PostAnnotation{PostID: posts[i].ID, Annotation: anns[j]})
		}
	}

	if stored && s.cfg.WriteBack && s.posts != nil && len(writes) > 0 {
		if err := s.save(ctx, writes); err != nil {
			logger.C(ctx).Warn().Err(err).Int("posts", len(writes)).Msg("feed: annotation write-back failed")
		}
	}
	return out, nil
}

func (s *Svc) save(ctx context.Context, xs []domain.PostAnnotation) error {
	return s.posts.WriteTx(ctx, s.cfg.TxRetries, func(src domain.PostSource) error {
		return src.SaveAnnotations(ctx, xs)
	})
}

func (s *Svc) record(ctx context.Context, viewerID string, items []rank.Scored) {
	if s.imp == nil || viewerID == "" || len(items) == 0 {
		return
	}
	if err := s.imp.Record(ctx, viewerID, items); err != nil {
		logger.C(ctx).Warn().Err(err).Msg("feed: impressions not recorded")
	}
}
