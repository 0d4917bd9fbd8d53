// Package domain holds the feed's ports and request types
package domain

import (
	"context"
	"time"

	"github.com/TanvirAuntu75/snapverse/internal/core/annotation"
	"github.com/TanvirAuntu75/snapverse/internal/core/rank"
)

// PostSource is the persisted post corpus and follow graph
type PostSource interface {
	// Candidates returns recent posts a viewer may be shown, newest first
	Candidates(ctx context.Context, viewerID string, since time.Time, limit int) ([]rank.Post, error)
	// Corpus returns recent posts from everyone, newest first
	Corpus(ctx context.Context, since time.Time, limit int) ([]rank.Post, error)
	// Following returns the author ids the viewer follows
	Following(ctx context.Context, viewerID string) ([]string, error)
	SaveAnnotations(ctx context.Context, xs []PostAnnotation) error
	// Unannotated returns posts without an annotation, oldest first
	Unannotated(ctx context.Context, limit int) ([]rank.Post, error)
}

// PostAnnotation pairs a post id with its computed annotation
type PostAnnotation struct {
	PostID     string
	Annotation annotation.Annotation
}

// ImpressionWriter records what a viewer was served
type ImpressionWriter interface {
	Record(ctx context.Context, viewerID string, items []rank.Scored) error
}

// ServicePort is what the http layer and other modules consume
type ServicePort interface {
	Curate(ctx context.Context, in CurateInput) (CurateOutput, error)
	Score(ctx context.Context, in ScoreInput) (ScoreOutput, error)
	Trending(ctx context.Context, in TrendingInput) (TrendingOutput, error)
	Filter(ctx context.Context, in FilterInput) (CurateOutput, error)
	Recommendations(ctx context.Context, in RecommendInput) (RecommendOutput, error)
}
