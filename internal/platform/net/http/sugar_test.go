package http_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	perr "github.com/TanvirAuntu75/snapverse/internal/platform/errors"
	phttp "github.com/TanvirAuntu75/snapverse/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
)

type curateIn struct {
	ViewerID string `json:"viewer_id" validate:"required"`
}

func TestJSONEndpoints(t *testing.T) {
	mux := chi.NewRouter()
	r := phttp.AdaptChi(mux)

	calls := 0
	phttp.PostJSON(r, "/curate", func(_ *http.Request, in curateIn) (any, error) {
		calls++
		if in.ViewerID == "ghost" {
			return nil, perr.NotFoundf("viewer %s", in.ViewerID)
		}
		return map[string]string{"viewer": in.ViewerID}, nil
	})
	phttp.GetJSON(r, "/stats", func(*http.Request) (any, error) { return 3, nil })

	tests := []struct {
		name      string
		method    string
		path      string
		body      string
		wantCode  int
		wantCalls int
		wantBody  string
	}{
		{"decoded", http.MethodPost, "/curate", `{"viewer_id":"u1"}`, http.StatusOK, 1, `"viewer":"u1"`},
		{"bind failure skips handler", http.MethodPost, "/curate", `{}`, http.StatusBadRequest, 0, `"status_code":400`},
		{"malformed body skips handler", http.MethodPost, "/curate", `{`, http.StatusBadRequest, 0, `"status_code":400`},
		{"handler error", http.MethodPost, "/curate", `{"viewer_id":"ghost"}`, http.StatusNotFound, 1, `viewer ghost`},
		{"get", http.MethodGet, "/stats", "", http.StatusOK, 0, `"data":3`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			calls = 0
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body)))
			if rec.Code != tc.wantCode {
				t.Fatalf("code = %d, want %d: %s", rec.Code, tc.wantCode, rec.Body.String())
			}
			if calls != tc.wantCalls {
				t.Fatalf("handler calls = %d, want %d", calls, tc.wantCalls)
			}
			if !strings.Contains(rec.Body.String(), tc.wantBody) {
				t.Fatalf("body %s missing %s", rec.Body.String(), tc.wantBody)
			}
		})
	}
}
