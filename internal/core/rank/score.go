package rank

import (
	"strings"
	"time"

	pstrings "github.com/TanvirAuntu75/snapverse/internal/platform/strings"
)

// Weights are the additive terms of the relevance score
type Weights struct {
	Base          float64 // starting score
	Interest      float64 // per viewer interest found in the post topics
	Follow        float64 // viewer follows the author
	Engagement    float64 // multiplied by the predicted engagement
	Recency       float64 // maximum freshness bonus, decaying linearly
	RecencyWindow time.Duration
	Location      float64 // post location contains the viewer location
	Max           float64 // upper clamp
}

// DefaultWeights are the production scoring constants
func DefaultWeights() Weights {
	return Weights{
		Base:          0.5,
		Interest:      0.2,
		Follow:        0.3,
		Engagement:    0.2,
		Recency:       0.1,
		RecencyWindow: 24 * time.Hour,
		Location:      0.15,
		Max:           1.0,
	}
}

// Scorer computes relevance scores. Safe for concurrent use.
type Scorer struct {
	w   Weights
	now func() time.Time
}

// ScorerOption configures a Scorer
type ScorerOption func(*Scorer)

// WithClock replaces time.Now
func WithClock(now func() time.Time) ScorerOption {
	return func(s *Scorer) {
		if now != nil {
			s.now = now
		}
	}
}

// NewScorer builds a Scorer over w
func NewScorer(w Weights, opts ...ScorerOption) *Scorer {
	s := &Scorer{w: w, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Weights returns the weights in use
func (s *Scorer) Weights() Weights { return s.w }

// Score returns the relevance of p for v. Scores are clamped above at
// Weights.Max and have no lower clamp.
func (s *Scorer) Score(p Post, v Viewer) float64 {
	return s.score(p, v, s.now())
}

func (s *Scorer) score(p Post, v Viewer, now time.Time) float64 {
	w := s.w
	score := w.Base

	topics := p.Topics()
	for _, interest := range v.Interests {
		for _, t := range topics {
			if pstrings.ContainsFold(t, interest) {
				score += w.Interest
				break
			}
		}
	}

	if v.Follows(p.AuthorID) {
		score += w.Follow
	}

	if p.Annotation != nil {
		score += p.Annotation.EngagementPrediction * w.Engagement
	}

	if w.RecencyWindow > 0 && !p.CreatedAt.IsZero() {
		age := now.Sub(p.CreatedAt)
		if age < w.RecencyWindow {
			score += w.Recency * (1 - age.Hours()/w.RecencyWindow.Hours())
		}
	}

	if v.Location != "" && p.Location != "" && strings.Contains(p.Location, v.Location) {
		score += w.Location
	}

	return min(score, w.Max)
}

// ScoreAll scores every post against one clock reading, in input order
func (s *Scorer) ScoreAll(posts []Post, v Viewer) []Scored {
	now := s.now()
	out := make([]Scored, len(posts))
	for i, p := range posts {
		out[i] = Scored{Post: p, Score: s.score(p, v, now)}
	}
	return out
}
