package service

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/TanvirAuntu75/snapverse/internal/adapters/intelligence/fake"
	"github.com/TanvirAuntu75/snapverse/internal/core/annotation"
	perr "github.com/TanvirAuntu75/snapverse/internal/platform/errors"
	"github.com/TanvirAuntu75/snapverse/internal/platform/testkit"
	"github.com/TanvirAuntu75/snapverse/internal/services/annotator/domain"
)

type mapCache struct {
	m    map[string]annotation.Annotation
	gets int
}

func (c *mapCache) Get(_ context.Context, k string) (annotation.Annotation, bool, error) {
	c.gets++
	a, ok := c.m[k]
	return a, ok, nil
}

func (c *mapCache) Set(_ context.Context, k string, a annotation.Annotation) error {
	if c.m == nil {
		c.m = map[string]annotation.Annotation{}
	}
	c.m[k] = a
	return nil
}

func newSvc(p domain.Provider, c domain.Cache) *Service {
	return New(p, c, Config{BatchSize: 2})
}

func TestNewPanicsOnNilProvider(t *testing.T) {
	testkit.MustPanic(t, func() { New(nil, nil, Config{}) })
}

func TestAnalyzeCachesNormalized(t *testing.T) {
	p := fake.New()
	c := &mapCache{}
	s := newSvc(p, c)

	a := s.Analyze(context.Background(), "I love pizza #Food #food @ann")
	if a.Sentiment != annotation.Positive {
		t.Fatalf("sentiment = %q", a.Sentiment)
	}
	if !reflect.DeepEqual(a.Hashtags, []string{"Food"}) {
		t.Fatalf("hashtags not normalized: %v", a.Hashtags)
	}
	b := s.Analyze(context.Background(), "I love pizza #Food #food @ann")
	if p.Calls("analyze") != 1 {
		t.Fatalf("provider called %d times, want 1", p.Calls("analyze"))
	}
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("cached result differs")
	}
}

func TestAnalyzeFallsBack(t *testing.T) {
	p := &fake.Provider{Err: errors.New("down")}
	c := &mapCache{}
	s := newSvc(p, c)
	got := s.Analyze(context.Background(), "anything")
	if !reflect.DeepEqual(got, annotation.Default()) {
		t.Fatalf("got %+v", got)
	}
	if len(c.m) != 0 {
		t.Fatalf("fallback should not be cached")
	}
}

func TestModerateFailsOpen(t *testing.T) {
	p := &fake.Provider{FailOps: map[string]bool{"moderate": true}}
	v := newSvc(p, nil).Moderate(context.Background(), "you idiot")
	if !v.Safe || v.Reasons == nil || len(v.Reasons) != 0 {
		t.Fatalf("verdict = %+v", v)
	}

	v = newSvc(fake.New(), nil).Moderate(context.Background(), "you idiot")
	if v.Safe || len(v.Reasons) == 0 {
		t.Fatalf("healthy provider should flag: %+v", v)
	}
}

func TestEmptyOnFailure(t *testing.T) {
	s := newSvc(&fake.Provider{Err: perr.Unavailablef("down")}, nil)
	ctx := context.Background()
	if got := s.AnalyzeImage(ctx, "https://x/y.jpg"); got == nil || len(got) != 0 {
		t.Fatalf("image = %#v", got)
	}
	if got := s.SuggestHashtags(ctx, "text", nil); got == nil || len(got) != 0 {
		t.Fatalf("hashtags = %#v", got)
	}
	if got := s.Recommend(ctx, domain.RecommendContext{Interests: []string{"art"}}, 5); got == nil || len(got) != 0 {
		t.Fatalf("recommend = %#v", got)
	}
	if got := s.GenerateContentTags(ctx, "text", []string{"https://x/beach.jpg"}); len(got) != 0 {
		t.Fatalf("tags = %#v", got)
	}
}

func TestSuggestHashtagsCapped(t *testing.T) {
	var words []string
	for i := 0; i < 30; i++ {
		words = append(words, "#tag"+string(rune('a'+i%26))+strings.Repeat("x", i/26))
	}
	got := newSvc(fake.New(), nil).SuggestHashtags(context.Background(), strings.Join(words, " "), nil)
	if len(got) > MaxHashtags {
		t.Fatalf("len = %d", len(got))
	}
	for _, h := range got {
		if strings.HasPrefix(h, "#") {
			t.Fatalf("tag kept '#': %q", h)
		}
	}
}

func TestGenerateContentTagsUsesFirstThreeImages(t *testing.T) {
	p := fake.New()
	urls := []string{
		"https://cdn/a/sunset.jpg", "https://cdn/b/beach.jpg", "https://cdn/c/dog.jpg", "https://cdn/d/cat.jpg",
	}
	got := newSvc(p, nil).GenerateContentTags(context.Background(), "great coffee #morning", urls)
	if p.Calls("image") != 3 {
		t.Fatalf("image calls = %d", p.Calls("image"))
	}
	joined := strings.Join(got, ",")
	for _, want := range []string{"food", "morning", "sunset", "dog"} {
		testkit.MustContain(t, joined, want)
	}
	if strings.Contains(joined, "cat") {
		t.Fatalf("fourth image tagged: %v", got)
	}
	if len(got) > MaxContentTags {
		t.Fatalf("len = %d", len(got))
	}
}

// brokenImages fails AnalyzeImage for urls containing "broken"
type brokenImages struct{ *fake.Provider }

func (b brokenImages) AnalyzeImage(ctx context.Context, url string) ([]string, error) {
	if strings.Contains(url, "broken") {
		return nil, errors.New("image fetch failed")
	}
	return b.Provider.AnalyzeImage(ctx, url)
}

func TestGenerateContentTagsSkipsFailedImages(t *testing.T) {
	urls := []string{"https://cdn/a/sunset.jpg", "https://cdn/b/broken.jpg", "https://cdn/c/dog.jpg"}
	got := newSvc(brokenImages{fake.New()}, nil).GenerateContentTags(context.Background(), "great coffee", urls)
	joined := strings.Join(got, ",")
	for _, want := range []string{"food", "sunset", "dog"} {
		testkit.MustContain(t, joined, want)
	}
	if strings.Contains(joined, "broken") {
		t.Fatalf("failed image tagged: %v", got)
	}
}

func TestRecommendLimit(t *testing.T) {
	rc := domain.RecommendContext{
		Interests:      []string{"art", "music", "travel"},
		RecentActivity: []string{"hiking"},
		Location:       "Lisbon",
	}
	got := newSvc(fake.New(), nil).Recommend(context.Background(), rc, 2)
	if len(got) != 2 {
		t.Fatalf("got %v", got)
	}
}

func TestAnnotateAll(t *testing.T) {
	p := &fake.Provider{FailOps: map[string]bool{}}
	s := New(p, nil, Config{BatchSize: 2, BatchDelay: time.Millisecond})
	texts := []string{"love it", "hate it", "coffee", "meh", "gym day"}
	got, err := s.AnnotateAll(context.Background(), texts)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(texts) {
		t.Fatalf("len = %d", len(got))
	}
	if got[0].Sentiment != annotation.Positive || got[1].Sentiment != annotation.Negative {
		t.Fatalf("order broken: %+v", got[:2])
	}

	p.FailOps["analyze"] = true
	got, err = s.AnnotateAll(context.Background(), texts)
	if err != nil {
		t.Fatalf("provider failure must not fail the batch: %v", err)
	}
	for _, a := range got {
		if !reflect.DeepEqual(a, annotation.Default()) {
			t.Fatalf("want default, got %+v", a)
		}
	}
}

func TestAnnotateAllCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newSvc(fake.New(), nil).AnnotateAll(ctx, []string{"a", "b", "c"})
	if !perr.IsCode(err, perr.ErrorCodeCanceled) {
		t.Fatalf("err = %v", err)
	}
}
