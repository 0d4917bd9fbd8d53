package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/TanvirAuntu75/snapverse/internal/core/annotation"
	perr "github.com/TanvirAuntu75/snapverse/internal/platform/errors"
	"github.com/TanvirAuntu75/snapverse/internal/services/annotator/domain"
)

const (
	analyzePrompt = `Analyze the following social media content and return a JSON object with:
- sentiment: positive, negative or neutral
- topics: array of main topics or themes
- hashtags: array of relevant hashtags without #
- mentions: array of potential mentions without @
- language: detected language code
- toxicity: score 0-1 (0 = safe, 1 = toxic)
- engagement_prediction: score 0-1 (likelihood of high engagement)`

	hashtagPrompt = "Generate 5-10 relevant hashtags for this social media content. Return only the hashtag words without # symbol, separated by commas."

	imagePrompt = "Analyze this image and return a comma-separated list of objects, people, activities, and themes you can identify. Be concise and relevant for social media tagging."

	moderatePrompt = `Analyze this content for safety violations. Return a JSON object with:
- safe: boolean (true if content is safe)
- reasons: array of strings explaining any violations
Check for: hate speech, harassment, violence, spam, misinformation, adult content`

	recommendSystem = "You are a social media recommendation engine. Generate engaging, relevant content suggestions."
)

var _ domain.Provider = (*Client)(nil)

type analysisWire struct {
	Sentiment            string   `json:"sentiment"`
	Topics               []string `json:"topics"`
	Hashtags             []string `json:"hashtags"`
	Mentions             []string `json:"mentions"`
	Language             string   `json:"language"`
	Toxicity             *float64 `json:"toxicity"`
	EngagementPrediction *float64 `json:"engagement_prediction"`
}

// AnalyzeContent annotates text. The result is not normalized.
func (c *Client) AnalyzeContent(ctx context.Context, text string) (annotation.Annotation, error) {
	out, err := c.complete(ctx, "analyze", chatRequest{
		Model: c.cfg.Model,
		Messages: []message{
			{Role: "system", Content: analyzePrompt},
			{Role: "user", Content: text},
		},
		Temperature:    temp(0.3),
		MaxTokens:      500,
		ResponseFormat: &responseFormat{Type: "json_object"},
	})
	if err != nil {
		return annotation.Annotation{}, err
	}
	var w analysisWire
	if err := decodeJSON(out, &w); err != nil {
		return annotation.Annotation{}, perr.WithOp(err, "analyze")
	}
	a := annotation.Default()
	a.Sentiment = annotation.Sentiment(w.Sentiment)
	a.Topics = w.Topics
	a.Hashtags = w.Hashtags
	a.Mentions = w.Mentions
	a.Language = w.Language
	if w.Toxicity != nil {
		a.Toxicity = *w.Toxicity
	}
	if w.EngagementPrediction != nil {
		a.EngagementPrediction = *w.EngagementPrediction
	}
	return a, nil
}

// AnalyzeImage tags the image at url
func (c *Client) AnalyzeImage(ctx context.Context, url string) ([]string, error) {
	out, err := c.complete(ctx, "image", chatRequest{
		Model: c.cfg.VisionModel,
		Messages: []message{{
			Role: "user",
			Content: []contentPart{
				{Type: "text", Text: imagePrompt},
				{Type: "image_url", ImageURL: &imageURL{URL: url, Detail: "low"}},
			},
		}},
		MaxTokens: 200,
	})
	if err != nil {
		return nil, err
	}
	return splitList(out, ","), nil
}

// Moderate checks text for safety violations. An empty reply counts as safe.
func (c *Client) Moderate(ctx context.Context, text string) (annotation.Verdict, error) {
	out, err := c.complete(ctx, "moderate", chatRequest{
		Model: c.cfg.Model,
		Messages: []message{
			{Role: "system", Content: moderatePrompt},
			{Role: "user", Content: text},
		},
		Temperature:    temp(0.1),
		MaxTokens:      200,
		ResponseFormat: &responseFormat{Type: "json_object"},
	})
	if err != nil {
		return annotation.Verdict{}, err
	}
	if strings.TrimSpace(out) == "" {
		return annotation.SafeVerdict(), nil
	}
	var v struct {
		Safe    *bool    `json:"safe"`
		Reasons []string `json:"reasons"`
	}
	if err := decodeJSON(out, &v); err != nil {
		return annotation.Verdict{}, perr.WithOp(err, "moderate")
	}
	if v.Safe == nil {
		return annotation.Verdict{}, perr.Providerf("openai: moderation reply has no safe field")
	}
	return annotation.Verdict{Safe: *v.Safe, Reasons: v.Reasons}, nil
}

// SuggestHashtags suggests hashtags for text, using image tags as extra context
func (c *Client) SuggestHashtags(ctx context.Context, text string, imageTags []string) ([]string, error) {
	prompt := text
	if len(imageTags) > 0 {
		prompt = fmt.Sprintf("Content: %s\nImage contains: %s", text, strings.Join(imageTags, ", "))
	}
	out, err := c.complete(ctx, "hashtags", chatRequest{
		Model: c.cfg.Model,
		Messages: []message{
			{Role: "system", Content: hashtagPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: temp(0.7),
		MaxTokens:   100,
	})
	if err != nil {
		return nil, err
	}
	return splitList(out, ","), nil
}

var listNumber = regexp.MustCompile(`^(\d+[.)]|[-*•])\s*`)

// RecommendTopics suggests up to limit topics for the viewer
func (c *Client) RecommendTopics(ctx context.Context, rc domain.RecommendContext, limit int) ([]string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate %d personalized content recommendations for a social media user with:\n", limit)
	fmt.Fprintf(&b, "- Interests: %s\n", strings.Join(rc.Interests, ", "))
	fmt.Fprintf(&b, "- Recent activity: %s\n", strings.Join(rc.RecentActivity, ", "))
	fmt.Fprintf(&b, "- Follows: %d users\n", rc.FollowingCount)
	if rc.Location != "" {
		fmt.Fprintf(&b, "- Location: %s\n", rc.Location)
	}
	if rc.TimeOfDay != "" {
		fmt.Fprintf(&b, "- Time: %s\n", rc.TimeOfDay)
	}
	b.WriteString("\nReturn content topics/themes that would interest this user, one per line.")

	out, err := c.complete(ctx, "recommend", chatRequest{
		Model: c.cfg.Model,
		Messages: []message{
			{Role: "system", Content: recommendSystem},
			{Role: "user", Content: b.String()},
		},
		Temperature: temp(0.8),
		MaxTokens:   500,
	})
	if err != nil {
		return nil, err
	}
	var topics []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(listNumber.ReplaceAllString(strings.TrimSpace(line), ""))
		if line != "" {
			topics = append(topics, line)
		}
	}
	if limit > 0 && len(topics) > limit {
		topics = topics[:limit]
	}
	return topics, nil
}

// decodeJSON parses a model reply, tolerating a surrounding markdown fence
func decodeJSON(s string, v any) error {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	if err := json.Unmarshal([]byte(s), v); err != nil {
		return perr.Wrap(err, perr.ErrorCodeProvider, "openai: reply is not valid JSON")
	}
	return nil
}

func splitList(s, sep string) []string {
	var out []string
	for _, part := range strings.Split(s, sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
