package domain

import (
	"github.com/TanvirAuntu75/snapverse/internal/core/filter"
	"github.com/TanvirAuntu75/snapverse/internal/core/rank"
	"github.com/TanvirAuntu75/snapverse/internal/core/trend"
)

// ViewerInput is the wire form of a viewer; following is a list of author ids
type ViewerInput struct {
	ID             string   `json:"id"                        validate:"max=128"`
	Interests      []string `json:"interests,omitempty"       validate:"max=100"`
	RecentActivity []string `json:"recent_activity,omitempty" validate:"max=100"`
	Following      []string `json:"following,omitempty"       validate:"max=10000"`
	Location       string   `json:"location,omitempty"`
	TimeOfDay      string   `json:"time_of_day,omitempty"`
}

// Viewer converts to the ranking type
func (v ViewerInput) Viewer() rank.Viewer {
	return rank.Viewer{
		ID:             v.ID,
		Interests:      v.Interests,
		RecentActivity: v.RecentActivity,
		Following:      rank.FollowSet(v.Following),
		Location:       v.Location,
		TimeOfDay:      v.TimeOfDay,
	}
}

// CurateInput asks for a personalized feed. When Posts is empty the
// candidates are loaded from storage for Viewer.ID.
type CurateInput struct {
	Viewer ViewerInput `json:"viewer"`
	Posts  []rank.Post `json:"posts,omitempty" validate:"max=5000"`
	Limit  int         `json:"limit,omitempty" validate:"min=0,max=50"`
}

// CurateOutput is a ranked feed
type CurateOutput struct {
	Items []rank.Scored `json:"items"`
	Count int           `json:"count"`
}

// ScoreInput scores a single post for a viewer
type ScoreInput struct {
	Viewer ViewerInput `json:"viewer"`
	Post   rank.Post   `json:"post"`
}

// ScoreOutput is one relevance score
type ScoreOutput struct {
	PostID string  `json:"post_id"`
	Score  float64 `json:"score"`
}

// TrendingInput asks for trending topics. When Posts is empty the recent
// corpus is loaded from storage. A nil WindowHours means the default window;
// an explicit 0 is a zero-width window.
type TrendingInput struct {
	Posts       []rank.Post `json:"posts,omitempty"        validate:"max=5000"`
	WindowHours *float64    `json:"window_hours,omitempty"`
}

// TrendingOutput lists topics with their post counts, most frequent first
type TrendingOutput struct {
	Topics []trend.Count `json:"topics"`
}

// FilterInput narrows posts by annotation; with a viewer the survivors are
// also ranked
type FilterInput struct {
	Posts  []rank.Post  `json:"posts"            validate:"max=5000"`
	Filter filter.Spec  `json:"filter"`
	Viewer *ViewerInput `json:"viewer,omitempty"`
}

// RecommendInput asks for topic suggestions
type RecommendInput struct {
	Viewer ViewerInput `json:"viewer"`
	Limit  int         `json:"limit,omitempty" validate:"min=0,max=50"`
}

// RecommendOutput is a list of suggested topics
type RecommendOutput struct {
	Topics []string `json:"topics"`
}

// BackfillInput bounds an annotation backfill run
type BackfillInput struct {
	Limit    int  // total posts to scan
	PageSize int  // posts per read, defaults to 100
	DryRun   bool // annotate but do not persist
}

// BackfillResult counts what a backfill run did
type BackfillResult struct {
	Scanned int `json:"scanned"`
	Saved   int `json:"saved"`
	// Skipped posts got only the fallback annotation and stay unannotated
	Skipped int `json:"skipped"`
}
