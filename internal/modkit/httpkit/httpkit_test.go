package httpkit

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/TanvirAuntu75/snapverse/internal/platform/config"
	perr "github.com/TanvirAuntu75/snapverse/internal/platform/errors"
	phttp "github.com/TanvirAuntu75/snapverse/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
)

type echoIn struct {
	Text string `json:"text" validate:"required"`
}

func newAPI(t *testing.T) *chi.Mux {
	t.Helper()
	mux := chi.NewRouter()
	MountAPIV1(phttp.AdaptChi(mux), CommonStack(config.New()), func(api Router) {
		Get(api, "/meta/ping", func(*http.Request) (any, error) { return "pong", nil })
		PostJSON(api, "/echo", func(_ *http.Request, in echoIn) (any, error) {
			if in.Text == "fail" {
				return nil, perr.Unavailablef("provider down")
			}
			return map[string]string{"text": in.Text}, nil
		})
	})
	return mux
}

func TestMountAPIV1(t *testing.T) {
	cases := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"get", http.MethodGet, "/api/v1/meta/ping", "", http.StatusOK},
		{"post ok", http.MethodPost, "/api/v1/echo", `{"text":"hi"}`, http.StatusOK},
		{"post invalid", http.MethodPost, "/api/v1/echo", `{}`, http.StatusBadRequest},
		{"post error", http.MethodPost, "/api/v1/echo", `{"text":"fail"}`, http.StatusServiceUnavailable},
		{"unversioned", http.MethodGet, "/meta/ping", "", http.StatusNotFound},
	}
	mux := newAPI(t)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)
			if rec.Code != tc.status {
				t.Fatalf("status = %d want %d body=%s", rec.Code, tc.status, rec.Body.String())
			}
			if tc.status == http.StatusNotFound {
				return
			}
			var env Envelope
			if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if env.RequestID == "" {
				t.Fatalf("request id missing from envelope")
			}
		})
	}
}

func TestResponseHelpers(t *testing.T) {
	cases := []struct {
		resp   Response
		status int
	}{
		{OK(1), http.StatusOK},
		{Created(1), http.StatusCreated},
		{NoContent(), http.StatusNoContent},
		{Error(perr.NotFoundf("nope")), http.StatusNotFound},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		Handle(func(*http.Request) Response { return tc.resp })(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != tc.status {
			t.Fatalf("status = %d want %d", rec.Code, tc.status)
		}
	}
}
