// Package fake is a deterministic content intelligence provider for tests and
// offline development. Results depend only on the input text.
package fake

import (
	"context"
	"fmt"
	"path"
	"regexp"
	"strings"
	"sync"

	"github.com/TanvirAuntu75/snapverse/internal/core/annotation"
	"github.com/TanvirAuntu75/snapverse/internal/core/langcode"
	"github.com/TanvirAuntu75/snapverse/internal/services/annotator/domain"
)

var (
	hashtagRe = regexp.MustCompile(`#([\p{L}\p{N}_]+)`)
	mentionRe = regexp.MustCompile(`@([\p{L}\p{N}_.]+)`)
	wordRe    = regexp.MustCompile(`[\p{L}\p{N}']+`)
)

var positiveWords = map[string]struct{}{
	"love": {}, "great": {}, "amazing": {}, "happy": {}, "beautiful": {}, "awesome": {}, "best": {}, "fun": {},
}

var negativeWords = map[string]struct{}{
	"hate": {}, "awful": {}, "terrible": {}, "sad": {}, "worst": {}, "angry": {}, "broken": {}, "boring": {},
}

var toxicWords = map[string]struct{}{
	"idiot": {}, "stupid": {}, "kill": {}, "trash": {}, "loser": {},
}

// topicWords maps keywords to the topic they indicate
var topicWords = map[string]string{
	"food": "food", "pizza": "food", "coffee": "food", "recipe": "food",
	"beach": "travel", "trip": "travel", "flight": "travel", "travel": "travel",
	"music": "music", "concert": "music", "song": "music",
	"code": "tech", "golang": "tech", "startup": "tech", "ai": "tech",
	"game": "sports", "match": "sports", "goal": "sports", "run": "fitness", "gym": "fitness",
	"art": "art", "painting": "art", "photo": "photography", "sunset": "photography",
}

// Provider is the fake. Set Err to make every call fail, or FailOps to fail
// selected operations ("analyze", "image", "moderate", "hashtags", "recommend").
type Provider struct {
	Err     error
	FailOps map[string]bool

	mu    sync.Mutex
	calls map[string]int
}

var _ domain.Provider = (*Provider)(nil)

// New returns a fake that never fails
func New() *Provider { return &Provider{} }

// Calls returns how many times op was invoked
func (p *Provider) Calls(op string) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls[op]
}

func (p *Provider) enter(ctx context.Context, op string) error {
	p.mu.Lock()
	if p.calls == nil {
		p.calls = map[string]int{}
	}
	p.calls[op]++
	p.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	if p.Err != nil {
		return p.Err
	}
	if p.FailOps[op] {
		return fmt.Errorf("fake: %s failed", op)
	}
	return nil
}

func words(text string) []string {
	return wordRe.FindAllString(strings.ToLower(text), -1)
}

// AnalyzeContent derives an annotation from keywords, hashtags and mentions
func (p *Provider) AnalyzeContent(ctx context.Context, text string) (annotation.Annotation, error) {
	if err := p.enter(ctx, "analyze"); err != nil {
		return annotation.Annotation{}, err
	}
	a := annotation.Default()
	score, toxic := 0, 0
	seen := map[string]struct{}{}
	for _, w := range words(text) {
		if _, ok := positiveWords[w]; ok {
			score++
		}
		if _, ok := negativeWords[w]; ok {
			score--
		}
		if _, ok := toxicWords[w]; ok {
			toxic++
		}
		if t, ok := topicWords[w]; ok {
			if _, dup := seen[t]; !dup {
				seen[t] = struct{}{}
				a.Topics = append(a.Topics, t)
			}
		}
	}
	switch {
	case score > 0:
		a.Sentiment = annotation.Positive
	case score < 0:
		a.Sentiment = annotation.Negative
	}
	for _, m := range hashtagRe.FindAllStringSubmatch(text, -1) {
		a.Hashtags = append(a.Hashtags, m[1])
	}
	for _, m := range mentionRe.FindAllStringSubmatch(text, -1) {
		a.Mentions = append(a.Mentions, m[1])
	}
	if lang := langcode.Guess(text); lang != "" {
		a.Language = lang
	}
	a.Toxicity = min(float64(toxic)*0.4, 1)
	a.EngagementPrediction = min(0.5+0.1*float64(len(a.Hashtags))+0.05*float64(len(a.Topics)), 1)
	return a, nil
}

// AnalyzeImage tags an image by the words of its file name
func (p *Provider) AnalyzeImage(ctx context.Context, url string) ([]string, error) {
	if err := p.enter(ctx, "image"); err != nil {
		return nil, err
	}
	base := strings.TrimSuffix(path.Base(url), path.Ext(url))
	return append([]string{}, words(strings.NewReplacer("-", " ", "_", " ").Replace(base))...), nil
}

// Moderate flags text containing toxic words
func (p *Provider) Moderate(ctx context.Context, text string) (annotation.Verdict, error) {
	if err := p.enter(ctx, "moderate"); err != nil {
		return annotation.Verdict{}, err
	}
	v := annotation.SafeVerdict()
	for _, w := range words(text) {
		if _, ok := toxicWords[w]; ok {
			v.Safe = false
			v.Reasons = append(v.Reasons, "harassment: "+w)
		}
	}
	return v, nil
}

// SuggestHashtags returns topics, existing hashtags and image tags, up to 12
// so callers can exercise their own limit
func (p *Provider) SuggestHashtags(ctx context.Context, text string, imageTags []string) ([]string, error) {
	if err := p.enter(ctx, "hashtags"); err != nil {
		return nil, err
	}
	var out []string
	for _, w := range words(text) {
		if t, ok := topicWords[w]; ok {
			out = append(out, t)
		}
	}
	for _, m := range hashtagRe.FindAllStringSubmatch(text, -1) {
		out = append(out, m[1])
	}
	out = append(out, imageTags...)
	if len(out) > 12 {
		out = out[:12]
	}
	return out, nil
}

// RecommendTopics echoes interests and recent activity, then pads with
// "<interest> ideas" suggestions
func (p *Provider) RecommendTopics(ctx context.Context, rc domain.RecommendContext, limit int) ([]string, error) {
	if err := p.enter(ctx, "recommend"); err != nil {
		return nil, err
	}
	var out []string
	out = append(out, rc.Interests...)
	out = append(out, rc.RecentActivity...)
	for _, i := range rc.Interests {
		out = append(out, i+" ideas")
	}
	if rc.Location != "" {
		out = append(out, "things to do in "+rc.Location)
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
