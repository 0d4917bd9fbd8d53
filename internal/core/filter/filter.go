// Package filter applies declarative inclusion predicates to a post set
package filter

import (
	"math"
	"strings"

	"github.com/TanvirAuntu75/snapverse/internal/core/annotation"
	"github.com/TanvirAuntu75/snapverse/internal/core/langcode"
	"github.com/TanvirAuntu75/snapverse/internal/core/rank"
	perr "github.com/TanvirAuntu75/snapverse/internal/platform/errors"
)

// Spec lists the optional predicates. A nil pointer or empty list imposes
// nothing; a present value applies even when it is the zero value.
type Spec struct {
	MinQuality  *float64              `json:"min_quality,omitempty" validate:"omitempty,unit"`
	Sentiment   *annotation.Sentiment `json:"sentiment,omitempty" validate:"omitempty,oneof=positive negative neutral"`
	Topics      []string              `json:"topics,omitempty" validate:"omitempty,dive,required"`
	MaxToxicity *float64              `json:"max_toxicity,omitempty" validate:"omitempty,unit"`
	Languages   []string              `json:"languages,omitempty" validate:"omitempty,dive,required"`
}

// Empty reports whether s imposes no predicate
func (s Spec) Empty() bool {
	return s.MinQuality == nil && s.Sentiment == nil && len(s.Topics) == 0 &&
		s.MaxToxicity == nil && len(s.Languages) == 0
}

// Validate rejects out-of-range scores and unknown sentiments. Values are
// never coerced.
func (s Spec) Validate() error {
	if err := unit("min_quality", s.MinQuality); err != nil {
		return err
	}
	if err := unit("max_toxicity", s.MaxToxicity); err != nil {
		return err
	}
	if s.Sentiment != nil && !s.Sentiment.Valid() {
		return perr.WithField(perr.Validationf("sentiment must be one of positive, negative, neutral, got %q", string(*s.Sentiment)), "sentiment")
	}
	return nil
}

func unit(field string, v *float64) error {
	if v == nil {
		return nil
	}
	if math.IsNaN(*v) || *v < 0 || *v > 1 {
		return perr.WithField(perr.Validationf("%s must be within [0,1], got %v", field, *v), field)
	}
	return nil
}

// Apply returns the posts matching every present predicate, in input order.
// Unannotated posts are judged as engagement 0.5, toxicity 0, language "en"
// and no sentiment or topics. An empty spec returns posts itself.
//
// Languages match on canonical BCP 47 form rather than the literal string, so
// "EN", "en" and "fr_fr"/"fr-FR" are each the same language. Exact membership
// is the special case where callers already send canonical codes.
func Apply(posts []rank.Post, s Spec) ([]rank.Post, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if s.Empty() {
		return posts, nil
	}

	topics := make([]string, 0, len(s.Topics))
	for _, t := range s.Topics {
		topics = append(topics, strings.ToLower(t))
	}
	langs := make(map[string]struct{}, len(s.Languages))
	for _, l := range s.Languages {
		langs[langcode.Canonical(l)] = struct{}{}
	}

	out := make([]rank.Post, 0, len(posts))
	for _, p := range posts {
		if match(p, s, topics, langs) {
			out = append(out, p)
		}
	}
	return out, nil
}

func match(p rank.Post, s Spec, topics []string, langs map[string]struct{}) bool {
	a := p.Annotation

	if s.MinQuality != nil {
		engagement := annotation.DefaultEngagement
		if a != nil {
			engagement = a.EngagementPrediction
		}
		if engagement < *s.MinQuality {
			return false
		}
	}

	if s.Sentiment != nil && (a == nil || a.Sentiment != *s.Sentiment) {
		return false
	}

	if len(topics) > 0 && !anyTopic(p.Topics(), topics) {
		return false
	}

	if s.MaxToxicity != nil {
		toxicity := 0.0
		if a != nil {
			toxicity = a.Toxicity
		}
		if toxicity > *s.MaxToxicity {
			return false
		}
	}

	if len(langs) > 0 {
		lang := langcode.Default
		if a != nil && a.Language != "" {
			lang = a.Language
		}
		if _, ok := langs[langcode.Canonical(lang)]; !ok {
			return false
		}
	}
	return true
}

func anyTopic(postTopics, wanted []string) bool {
	for _, t := range postTopics {
		lt := strings.ToLower(t)
		for _, w := range wanted {
			if strings.Contains(lt, w) {
				return true
			}
		}
	}
	return false
}
