// Package service is the content annotator: every provider call goes through
// here and comes back as a usable answer, never an error
package service

import (
	"context"
	"time"

	"github.com/TanvirAuntu75/snapverse/internal/core/annotation"
	"github.com/TanvirAuntu75/snapverse/internal/core/batch"
	"github.com/TanvirAuntu75/snapverse/internal/core/textnorm"
	"github.com/TanvirAuntu75/snapverse/internal/platform/config"
	"github.com/TanvirAuntu75/snapverse/internal/platform/logger"
	"github.com/TanvirAuntu75/snapverse/internal/platform/metrics"
	pstrings "github.com/TanvirAuntu75/snapverse/internal/platform/strings"
	"github.com/TanvirAuntu75/snapverse/internal/services/annotator/domain"
)

// Output caps
const (
	MaxHashtags      = 10
	MaxContentTags   = 20
	MaxTaggedImages  = 3
	DefaultRecommend = 10
)

// Config for the annotator service
type Config struct {
	BatchSize  int
	BatchDelay time.Duration
}

// ConfigFromEnv reads CORE_ANNOTATOR_BATCH_SIZE and CORE_ANNOTATOR_BATCH_DELAY
func ConfigFromEnv(root config.Conf) Config {
	c := root.Prefix("CORE_ANNOTATOR_")
	return Config{
		BatchSize:  c.MayInt("BATCH_SIZE", batch.DefaultSize),
		BatchDelay: c.MayDuration("BATCH_DELAY", batch.DefaultDelay),
	}
}

// Service implements domain.AnnotatorPort
type Service struct {
	provider domain.Provider
	cache    domain.Cache
	cfg      Config
}

var _ domain.AnnotatorPort = (*Service)(nil)

// New builds the service. cache may be nil.
func New(p domain.Provider, cache domain.Cache, cfg Config) *Service {
	if p == nil {
		panic("annotator: nil provider")
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = batch.DefaultSize
	}
	if cfg.BatchDelay < 0 {
		cfg.BatchDelay = 0
	}
	return &Service{provider: p, cache: cache, cfg: cfg}
}

func (s *Service) fallback(ctx context.Context, op string, err error) {
	metrics.RecordFallback(op)
	logger.C(ctx).Warn().Err(err).Str("op", op).Msg("annotator: provider failed, using default")
}

// Analyze returns the annotation for text. Provider failures yield Default().
func (s *Service) Analyze(ctx context.Context, text string) annotation.Annotation {
	key := annotation.ContentHash(text)
	if s.cache != nil {
		a, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			logger.C(ctx).Debug().Err(err).Msg("annotator: cache get")
		}
		if ok {
			return a
		}
	}

	a, err := s.provider.AnalyzeContent(ctx, text)
	if err != nil {
		s.fallback(ctx, "analyze", err)
		return annotation.Default()
	}
	a = a.Normalize()
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, a); err != nil {
			logger.C(ctx).Debug().Err(err).Msg("annotator: cache set")
		}
	}
	return a
}

// AnalyzeImage returns descriptive tags for an image, empty on failure
func (s *Service) AnalyzeImage(ctx context.Context, url string) []string {
	tags, err := s.provider.AnalyzeImage(ctx, url)
	if err != nil {
		s.fallback(ctx, "image", err)
		return []string{}
	}
	return pstrings.Unique(tags, textnorm.TagKey)
}

// Moderate fails open: a provider failure is reported as safe
func (s *Service) Moderate(ctx context.Context, text string) annotation.Verdict {
	v, err := s.provider.Moderate(ctx, text)
	if err != nil {
		s.fallback(ctx, "moderate", err)
		return annotation.SafeVerdict()
	}
	return v.Normalize()
}

// SuggestHashtags returns at most MaxHashtags tags without leading '#'
func (s *Service) SuggestHashtags(ctx context.Context, text string, imageTags []string) []string {
	tags, err := s.provider.SuggestHashtags(ctx, text, imageTags)
	if err != nil {
		s.fallback(ctx, "hashtags", err)
		return []string{}
	}
	return pstrings.Limit(cleanTags(tags), MaxHashtags)
}

// GenerateContentTags merges the topics and hashtags of text with the tags of
// the first MaxTaggedImages media urls. The images are tagged concurrently; an
// image that fails contributes no tags.
func (s *Service) GenerateContentTags(ctx context.Context, text string, mediaURLs []string) []string {
	a := s.Analyze(ctx, text)
	tags := make([]string, 0, len(a.Topics)+len(a.Hashtags))
	tags = append(tags, a.Topics...)
	tags = append(tags, a.Hashtags...)

	urls := pstrings.Limit(mediaURLs, MaxTaggedImages)
	results, err := batch.Settle[string, []string](ctx, urls, s.provider.AnalyzeImage, batch.Options{Size: MaxTaggedImages})
	if err != nil {
		s.fallback(ctx, "image", err)
	}
	for _, r := range results {
		if r.Err != nil {
			s.fallback(ctx, "image", r.Err)
			continue
		}
		tags = append(tags, r.Value...)
	}
	return pstrings.Limit(cleanTags(tags), MaxContentTags)
}

// Recommend returns up to limit suggested topics for a viewer, empty on failure
func (s *Service) Recommend(ctx context.Context, rc domain.RecommendContext, limit int) []string {
	if limit <= 0 {
		limit = DefaultRecommend
	}
	topics, err := s.provider.RecommendTopics(ctx, rc, limit)
	if err != nil {
		s.fallback(ctx, "recommend", err)
		return []string{}
	}
	return pstrings.Limit(pstrings.Unique(topics, textnorm.Fold), limit)
}

// AnnotateAll analyzes texts in rate-limited chunks. Results are in input
// order. Individual failures fall back to Default(); only ctx ending is an error.
func (s *Service) AnnotateAll(ctx context.Context, texts []string) ([]annotation.Annotation, error) {
	opts := batch.Options{
		Size:  s.cfg.BatchSize,
		Delay: s.cfg.BatchDelay,
		OnChunk: func(index, size int) {
			metrics.BatchChunks.Inc()
			logger.C(ctx).Debug().Int("chunk", index).Int("size", size).Msg("annotator: chunk done")
		},
	}
	return batch.Process(ctx, texts, func(ctx context.Context, text string) (annotation.Annotation, error) {
		return s.Analyze(ctx, text), nil
	}, opts)
}

func cleanTags(in []string) []string {
	out := make([]string, 0, len(in))
	for _, t := range in {
		out = append(out, textnorm.Tag(t))
	}
	return pstrings.Unique(out, textnorm.TagKey)
}
