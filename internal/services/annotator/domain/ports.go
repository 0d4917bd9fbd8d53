// Package domain holds the annotator's ports and request types
package domain

import (
	"context"

	"github.com/TanvirAuntu75/snapverse/internal/core/annotation"
)

// Provider is the content intelligence backend. Implementations return errors;
// the annotator service turns them into safe defaults.
type Provider interface {
	AnalyzeContent(ctx context.Context, text string) (annotation.Annotation, error)
	AnalyzeImage(ctx context.Context, url string) ([]string, error)
	Moderate(ctx context.Context, text string) (annotation.Verdict, error)
	SuggestHashtags(ctx context.Context, text string, imageTags []string) ([]string, error)
	RecommendTopics(ctx context.Context, rc RecommendContext, limit int) ([]string, error)
}

// RecommendContext is what a provider sees of a viewer when suggesting topics
type RecommendContext struct {
	ViewerID       string
	Interests      []string
	RecentActivity []string
	FollowingCount int
	Location       string
	TimeOfDay      string
}

// Cache stores annotations by content hash. Misses return ok=false with a nil
// error; errors are reported but never fail an analysis.
type Cache interface {
	Get(ctx context.Context, key string) (annotation.Annotation, bool, error)
	Set(ctx context.Context, key string, a annotation.Annotation) error
}

// AnnotatorPort is what other modules consume
type AnnotatorPort interface {
	Analyze(ctx context.Context, text string) annotation.Annotation
	AnnotateAll(ctx context.Context, texts []string) ([]annotation.Annotation, error)
	Moderate(ctx context.Context, text string) annotation.Verdict
	Recommend(ctx context.Context, rc RecommendContext, limit int) []string
}
