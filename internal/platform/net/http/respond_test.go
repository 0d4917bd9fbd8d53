package http_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	perr "github.com/TanvirAuntu75/snapverse/internal/platform/errors"
	pnet "github.com/TanvirAuntu75/snapverse/internal/platform/net"
	phttp "github.com/TanvirAuntu75/snapverse/internal/platform/net/http"
)

func reqWithID(method, path, rid string) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	return req.WithContext(pnet.WithRequestID(req.Context(), rid))
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) phttp.Envelope {
	t.Helper()
	var env phttp.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (%s)", err, rec.Body.String())
	}
	return env
}

func TestRespondOK(t *testing.T) {
	rec := httptest.NewRecorder()
	phttp.RespondOK(rec, reqWithID(http.MethodGet, "/x", "rid-1"), map[string]string{"a": "b"})
	if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") == "" {
		t.Fatalf("code=%d ct=%q", rec.Code, rec.Header().Get("Content-Type"))
	}
	env := decode(t, rec)
	if env.StatusCode != 200 || env.RequestID != "rid-1" || env.Data == nil {
		t.Fatalf("envelope = %+v", env)
	}
}

func TestRespondError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"validation", perr.WithField(perr.Validationf("max_toxicity must be within [0,1]"), "max_toxicity"), http.StatusBadRequest},
		{"provider", perr.Providerf("upstream down"), http.StatusBadGateway},
		{"foreign", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			phttp.RespondError(rec, reqWithID(http.MethodPost, "/feed/filter", "rid-2"), c.err)
			if rec.Code != c.code {
				t.Fatalf("code = %d, want %d", rec.Code, c.code)
			}
			env := decode(t, rec)
			if env.Error == "" || env.RequestID != "rid-2" {
				t.Fatalf("envelope = %+v", env)
			}
			if c.name == "validation" && env.Field != "max_toxicity" {
				t.Fatalf("field = %q", env.Field)
			}
		})
	}
}

func TestHandle(t *testing.T) {
	h := phttp.Handle(func(*http.Request) phttp.Response {
		return phttp.Response{Status: http.StatusAccepted, Body: "queued", Header: http.Header{"X-Batch": {"b1"}}}
	})
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	if rec.Code != http.StatusAccepted || rec.Header().Get("X-Batch") != "b1" {
		t.Fatalf("code=%d header=%v", rec.Code, rec.Header())
	}

	rec = httptest.NewRecorder()
	phttp.Handle(func(*http.Request) phttp.Response { return phttp.NoContent() })(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusNoContent || rec.Body.Len() != 0 {
		t.Fatalf("no content: code=%d body=%q", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	phttp.Handle(func(*http.Request) phttp.Response { return phttp.Error(perr.NotFoundf("post")) })(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("error: code=%d", rec.Code)
	}

	rec = httptest.NewRecorder()
	phttp.Handle(func(*http.Request) phttp.Response { return phttp.Response{Body: 1} })(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("zero status should default to 200, got %d", rec.Code)
	}
}
