package annotation

import (
	"math"
	"reflect"
	"testing"
)

func TestDefault(t *testing.T) {
	d := Default()
	if d.Sentiment != Neutral || d.Language != "en" || d.Toxicity != 0 || d.EngagementPrediction != 0.5 {
		t.Fatalf("Default = %+v", d)
	}
	if d.Topics == nil || d.Hashtags == nil || d.Mentions == nil {
		t.Fatalf("Default sets must be empty, not nil")
	}
	if !reflect.DeepEqual(d.Normalize(), d) {
		t.Fatalf("Default should already be normalized")
	}
}

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   Annotation
		want Annotation
	}{
		{
			name: "clamps scores",
			in:   Annotation{Sentiment: Positive, Language: "en", Toxicity: 1.7, EngagementPrediction: -0.2},
			want: Annotation{Sentiment: Positive, Topics: []string{}, Hashtags: []string{}, Mentions: []string{}, Language: "en", Toxicity: 1, EngagementPrediction: 0},
		},
		{
			name: "nan takes defaults",
			in:   Annotation{Sentiment: Negative, Toxicity: math.NaN(), EngagementPrediction: math.NaN()},
			want: Annotation{Sentiment: Negative, Topics: []string{}, Hashtags: []string{}, Mentions: []string{}, Language: "en", Toxicity: 0, EngagementPrediction: 0.5},
		},
		{
			name: "unknown sentiment and casing",
			in:   Annotation{Sentiment: "ecstatic", Language: "FR", EngagementPrediction: 0.9},
			want: Annotation{Sentiment: Neutral, Topics: []string{}, Hashtags: []string{}, Mentions: []string{}, Language: "fr", EngagementPrediction: 0.9},
		},
		{
			name: "sentiment casing",
			in:   Annotation{Sentiment: " Positive ", Language: "en"},
			want: Annotation{Sentiment: Positive, Topics: []string{}, Hashtags: []string{}, Mentions: []string{}, Language: "en"},
		},
		{
			name: "tag sets cleaned",
			in: Annotation{
				Sentiment: Neutral,
				Topics:    []string{"Travel", "travel", " food ", ""},
				Hashtags:  []string{"#Sunset", "sunset", "#beach"},
				Mentions:  []string{"@alice", "alice", "@bob"},
				Language:  "en-us",
			},
			want: Annotation{
				Sentiment: Neutral,
				Topics:    []string{"Travel", "food"},
				Hashtags:  []string{"Sunset", "beach"},
				Mentions:  []string{"alice", "bob"},
				Language:  "en-US",
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.in.Normalize()
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("Normalize =\n %+v\nwant\n %+v", got, tc.want)
			}
		})
	}
}

func TestNormalizeDoesNotMutate(t *testing.T) {
	in := Annotation{Topics: []string{"#a", "a"}}
	_ = in.Normalize()
	if in.Topics[0] != "#a" || len(in.Topics) != 2 {
		t.Fatalf("input mutated: %v", in.Topics)
	}
}

func TestParseSentiment(t *testing.T) {
	for _, s := range []string{"positive", "NEGATIVE", " neutral"} {
		if _, ok := ParseSentiment(s); !ok {
			t.Errorf("ParseSentiment(%q) rejected", s)
		}
	}
	if _, ok := ParseSentiment("mixed"); ok {
		t.Fatalf("mixed should be rejected")
	}
}

func TestContentHash(t *testing.T) {
	a := ContentHash("Sunset at the  BEACH")
	if a != ContentHash("sunset at the beach") {
		t.Fatalf("folded texts should share a hash")
	}
	if a == ContentHash("sunrise at the beach") {
		t.Fatalf("different texts share a hash")
	}
	if len(a) != 64 {
		t.Fatalf("hash len = %d", len(a))
	}
}

func TestVerdict(t *testing.T) {
	v := SafeVerdict()
	if !v.Safe || v.Reasons == nil || len(v.Reasons) != 0 {
		t.Fatalf("SafeVerdict = %+v", v)
	}
	n := Verdict{Safe: false, Reasons: []string{" spam ", ""}}.Normalize()
	if n.Safe || !reflect.DeepEqual(n.Reasons, []string{"spam"}) {
		t.Fatalf("Normalize = %+v", n)
	}
	if (Verdict{Safe: true}).Normalize().Reasons == nil {
		t.Fatalf("reasons must be non-nil")
	}
}
