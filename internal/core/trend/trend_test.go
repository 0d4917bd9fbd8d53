package trend

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/TanvirAuntu75/snapverse/internal/core/annotation"
	"github.com/TanvirAuntu75/snapverse/internal/core/rank"
	perr "github.com/TanvirAuntu75/snapverse/internal/platform/errors"
)

var now = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

func post(age time.Duration, topics ...string) rank.Post {
	p := rank.Post{CreatedAt: now.Add(-age)}
	if topics != nil {
		a := annotation.Default()
		a.Topics = topics
		p.Annotation = &a
	}
	return p
}

func TestDetect(t *testing.T) {
	cases := []struct {
		name   string
		posts  []rank.Post
		window time.Duration
		want   []string
	}{
		{
			name:   "window excludes old posts and duplicates count once",
			posts:  []rank.Post{post(time.Hour, "a"), post(25*time.Hour, "a", "a")},
			window: 24 * time.Hour,
			want:   []string{"a"},
		},
		{
			name:   "boundary is strict",
			posts:  []rank.Post{post(24*time.Hour, "edge"), post(24*time.Hour-time.Nanosecond, "inside")},
			window: 24 * time.Hour,
			want:   []string{"inside"},
		},
		{
			name:   "descending count, ties by first appearance",
			posts:  []rank.Post{post(time.Hour, "b", "a"), post(time.Hour, "c"), post(time.Hour, "a"), post(time.Hour, "c")},
			window: 24 * time.Hour,
			want:   []string{"a", "c", "b"},
		},
		{
			name:   "duplicate topics inside the window count once",
			posts:  []rank.Post{post(time.Hour, "a", "a"), post(time.Hour, "b"), post(2*time.Hour, "b")},
			window: 24 * time.Hour,
			want:   []string{"b", "a"},
		},
		{
			name:   "zero window keeps nothing from the past",
			posts:  []rank.Post{post(time.Minute, "x"), post(0, "y")},
			window: 0,
			want:   []string{},
		},
		{
			name:   "unannotated posts contribute nothing",
			posts:  []rank.Post{post(time.Hour), post(time.Hour, "z")},
			window: time.Hour * 2,
			want:   []string{"z"},
		},
		{
			name:  "empty corpus",
			posts: nil,
			want:  []string{},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Detect(tc.posts, tc.window, now)
			if err != nil {
				t.Fatalf("err: %v", err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("Detect = %v want %v", got, tc.want)
			}
		})
	}
}

func TestDetectTopTen(t *testing.T) {
	var posts []rank.Post
	for i := 0; i < 15; i++ {
		for j := 0; j <= i; j++ {
			posts = append(posts, post(time.Minute, fmt.Sprintf("t%02d", i)))
		}
	}
	counts, err := DetectCounts(posts, time.Hour, now)
	if err != nil {
		t.Fatal(err)
	}
	if len(counts) != TopN || counts[0].Topic != "t14" || counts[0].Count != 15 || counts[9].Topic != "t05" {
		t.Fatalf("counts = %+v", counts)
	}
}

func TestDetectCountsDuplicatesOncePerPost(t *testing.T) {
	counts, err := DetectCounts([]rank.Post{post(time.Hour, "a", "a")}, DefaultWindow, now)
	if err != nil {
		t.Fatal(err)
	}
	if len(counts) != 1 || counts[0] != (Count{Topic: "a", Count: 1}) {
		t.Fatalf("counts = %+v", counts)
	}
}

func TestDetectNegativeWindow(t *testing.T) {
	_, err := Detect(nil, -time.Hour, now)
	if !perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("err = %v", err)
	}
}

func TestWindowHours(t *testing.T) {
	if WindowHours(1.5) != 90*time.Minute {
		t.Fatalf("WindowHours(1.5) = %v", WindowHours(1.5))
	}
}
