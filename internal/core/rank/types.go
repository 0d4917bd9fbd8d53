// Package rank scores posts for a viewer and selects a diverse feed from the
// scored posts. Nothing here mutates its inputs; every stage returns a new slice.
package rank

import (
	"time"

	"github.com/TanvirAuntu75/snapverse/internal/core/annotation"
)

// Post is a candidate for a feed. Annotation is nil until the post is analysed.
type Post struct {
	ID         string                 `json:"id"`
	AuthorID   string                 `json:"author_id"`
	Content    string                 `json:"content"`
	MediaURLs  []string               `json:"media_urls,omitempty"`
	Location   string                 `json:"location,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
	Annotation *annotation.Annotation `json:"annotation,omitempty"`
}

// Topics returns the annotated topics, nil when unannotated
func (p Post) Topics() []string {
	if p.Annotation == nil {
		return nil
	}
	return p.Annotation.Topics
}

// WithAnnotation returns a copy of p carrying a
func (p Post) WithAnnotation(a annotation.Annotation) Post {
	p.Annotation = &a
	return p
}

// Viewer is the per-request context a feed is ranked for
type Viewer struct {
	ID             string
	Interests      []string
	RecentActivity []string
	Following      map[string]struct{}
	Location       string
	TimeOfDay      string
}

// Follows reports whether the viewer follows authorID
func (v Viewer) Follows(authorID string) bool {
	_, ok := v.Following[authorID]
	return ok
}

// FollowSet builds a Following set from ids
func FollowSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id != "" {
			set[id] = struct{}{}
		}
	}
	return set
}

// Scored is a post with its relevance score for one viewer
type Scored struct {
	Post  Post    `json:"post"`
	Score float64 `json:"score"`
}
