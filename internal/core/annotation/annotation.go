// Package annotation defines the structured metadata derived from post content
// and its safe default. Every Annotation leaving this package through Normalize
// or Default has toxicity and engagement inside [0,1].
package annotation

import (
	"crypto/sha256"
	"encoding/hex"
	"math"
	"strings"

	"github.com/TanvirAuntu75/snapverse/internal/core/langcode"
	"github.com/TanvirAuntu75/snapverse/internal/core/textnorm"
	pstrings "github.com/TanvirAuntu75/snapverse/internal/platform/strings"
)

// Sentiment is the overall tone of a post
type Sentiment string

// Sentiments
const (
	Positive Sentiment = "positive"
	Negative Sentiment = "negative"
	Neutral  Sentiment = "neutral"
)

// Valid reports whether s is one of the three known sentiments
func (s Sentiment) Valid() bool {
	switch s {
	case Positive, Negative, Neutral:
		return true
	}
	return false
}

// ParseSentiment accepts any casing and surrounding space
func ParseSentiment(s string) (Sentiment, bool) {
	v := Sentiment(strings.ToLower(strings.TrimSpace(s)))
	return v, v.Valid()
}

// DefaultEngagement is the engagement prediction assumed when none is known
const DefaultEngagement = 0.5

// Annotation is the derived metadata of one piece of content
type Annotation struct {
	Sentiment            Sentiment `json:"sentiment"`
	Topics               []string  `json:"topics"`
	Hashtags             []string  `json:"hashtags"`
	Mentions             []string  `json:"mentions"`
	Language             string    `json:"language"`
	Toxicity             float64   `json:"toxicity"`
	EngagementPrediction float64   `json:"engagement_prediction"`
}

// Default is the annotation used whenever analysis fails
func Default() Annotation {
	return Annotation{
		Sentiment:            Neutral,
		Topics:               []string{},
		Hashtags:             []string{},
		Mentions:             []string{},
		Language:             langcode.Default,
		Toxicity:             0,
		EngagementPrediction: DefaultEngagement,
	}
}

// Normalize returns a copy with scores clamped to [0,1], unknown sentiment
// mapped to neutral, tag sets cleaned and de-duplicated in first-seen order,
// and the language canonicalised (empty becomes "en"). NaN scores take the
// default value.
func (a Annotation) Normalize() Annotation {
	out := Annotation{
		Sentiment:            a.Sentiment,
		Topics:               cleanSet(a.Topics),
		Hashtags:             cleanSet(a.Hashtags),
		Mentions:             cleanSet(a.Mentions),
		Language:             langcode.Canonical(a.Language),
		Toxicity:             clampUnit(a.Toxicity, 0),
		EngagementPrediction: clampUnit(a.EngagementPrediction, DefaultEngagement),
	}
	if s, ok := ParseSentiment(string(a.Sentiment)); ok {
		out.Sentiment = s
	} else {
		out.Sentiment = Neutral
	}
	if out.Language == "" {
		out.Language = langcode.Default
	}
	return out
}

func cleanSet(in []string) []string {
	cleaned := make([]string, 0, len(in))
	for _, s := range in {
		cleaned = append(cleaned, textnorm.Tag(s))
	}
	return pstrings.Unique(cleaned, textnorm.TagKey)
}

func clampUnit(v, nan float64) float64 {
	switch {
	case math.IsNaN(v):
		return nan
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

// ContentHash is the cache key for the annotation of text. Texts that fold to
// the same form share a key.
func ContentHash(text string) string {
	sum := sha256.Sum256([]byte(textnorm.Fold(text)))
	return hex.EncodeToString(sum[:])
}

// Verdict is the outcome of moderation
type Verdict struct {
	Safe    bool     `json:"safe"`
	Reasons []string `json:"reasons"`
}

// SafeVerdict is returned when moderation cannot complete
func SafeVerdict() Verdict { return Verdict{Safe: true, Reasons: []string{}} }

// Normalize returns a copy with a non-nil, cleaned reasons list
func (v Verdict) Normalize() Verdict {
	reasons := make([]string, 0, len(v.Reasons))
	for _, r := range v.Reasons {
		if r = strings.TrimSpace(r); r != "" {
			reasons = append(reasons, r)
		}
	}
	return Verdict{Safe: v.Safe, Reasons: reasons}
}
