package modkit

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/TanvirAuntu75/snapverse/internal/platform/config"
	phttp "github.com/TanvirAuntu75/snapverse/internal/platform/net/http"
	"github.com/TanvirAuntu75/snapverse/internal/platform/store"
	kit "github.com/TanvirAuntu75/snapverse/internal/platform/testkit"

	"github.com/go-chi/chi/v5"
)

type scorer interface{ Score() float64 }

type fixedScorer float64

func (f fixedScorer) Score() float64 { return float64(f) }

type portSet struct {
	Scorer scorer
	hidden scorer
}

func TestBuildDefaultsAndOverrides(t *testing.T) {
	b := Build("feed", "/feed")
	if b.Name != "feed" || b.Prefix != "/feed" || len(b.Mw) != 0 {
		t.Fatalf("defaults = %+v", b)
	}
	mw := func(h http.Handler) http.Handler { return h }
	b = Build("feed", "/feed", WithName("feed2"), WithPrefix("/f"), WithMiddlewares(mw), nil, WithPorts(1, "x"))
	if b.Name != "feed2" || b.Prefix != "/f" || len(b.Mw) != 1 || len(b.Ports) != 2 {
		t.Fatalf("overrides = %+v", b)
	}
}

func TestBuiltMount(t *testing.T) {
	hit := 0
	mw := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hit++
			next.ServeHTTP(w, r)
		})
	}
	cases := []struct {
		prefix string
		path   string
	}{
		{"/feed", "/feed/ping"},
		{"content/", "/content/ping"},
		{"", "/ping"},
	}
	for _, tc := range cases {
		mux := chi.NewRouter()
		Build("m", tc.prefix, WithMiddlewares(mw)).Mount(phttp.AdaptChi(mux), func(r Router) {
			r.Get("/ping", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })
		})
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.path, nil))
		if rec.Code != http.StatusNoContent {
			t.Fatalf("%s: code = %d", tc.path, rec.Code)
		}
	}
	if hit != 3 {
		t.Fatalf("middleware hits = %d", hit)
	}
}

func TestPortOf(t *testing.T) {
	if _, ok := PortOf[scorer](nil); ok {
		t.Fatalf("empty ports should miss")
	}
	if v, ok := PortOf[scorer]([]any{nil, fixedScorer(0.4)}); !ok || v.Score() != 0.4 {
		t.Fatalf("direct lookup failed")
	}
	if v, ok := PortOf[scorer]([]any{portSet{Scorer: fixedScorer(0.7)}}); !ok || v.Score() != 0.7 {
		t.Fatalf("struct field lookup failed")
	}
	if v, ok := PortOf[scorer]([]any{&portSet{Scorer: fixedScorer(0.9)}}); !ok || v.Score() != 0.9 {
		t.Fatalf("pointer struct lookup failed")
	}
	var nilSet *portSet
	if _, ok := PortOf[scorer]([]any{nilSet, portSet{hidden: fixedScorer(1)}}); ok {
		t.Fatalf("nil pointer and unexported fields must be skipped")
	}
	kit.MustPanic(t, func() { _ = MustPortOf[scorer]("feed", nil) })
}

func TestFromStore(t *testing.T) {
	cfg := config.New()
	d := FromStore(nil, cfg)
	if d.PG != nil || d.CH != nil || d.RDS != nil {
		t.Fatalf("nil store should give empty seams: %+v", d)
	}
	d = FromStore(&store.Store{}, cfg)
	if d.PG != nil {
		t.Fatalf("zero store PG = %v", d.PG)
	}
}
