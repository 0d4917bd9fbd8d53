// Package middleware adapts chi and cors middleware and adds the request-scope
// and access-log middleware the API uses. chi types never leak to callers.
package middleware

import (
	"compress/flate"
	"net/http"
	"time"

	"github.com/TanvirAuntu75/snapverse/internal/platform/logger"
	pnet "github.com/TanvirAuntu75/snapverse/internal/platform/net"

	chimw "github.com/go-chi/chi/v5/middleware"
	chicors "github.com/go-chi/cors"
)

// Middleware is the stdlib middleware shape
type Middleware = func(http.Handler) http.Handler

// RequestID propagates X-Request-Id or generates one
func RequestID() Middleware { return chimw.RequestID }

// RealIP sets RemoteAddr from X-Forwarded-For / X-Real-IP
func RealIP() Middleware { return chimw.RealIP }

// Timeout cancels the request context after d
func Timeout(d time.Duration) Middleware { return chimw.Timeout(d) }

// NoCache disables client and proxy caching
func NoCache() Middleware { return chimw.NoCache }

// Compress gzips/deflates responses at level
func Compress(level int) Middleware { return chimw.NewCompressor(level).Handler }

// Throttle caps in-flight requests, queueing up to backlog for at most wait
func Throttle(limit, backlog int, wait time.Duration) Middleware {
	return chimw.ThrottleBacklog(limit, backlog, wait)
}

// Heartbeat answers GET path with 200 before any other middleware runs
func Heartbeat(path string) Middleware { return chimw.Heartbeat(path) }

// RequestScope copies the request id and the X-Viewer-ID header into the logger
// context so every log line of the request carries them. Install after RequestID.
func RequestScope() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			reqID := pnet.RequestID(ctx)
			if reqID != "" {
				w.Header().Set("X-Request-Id", reqID)
			}
			ctx = logger.WithRequest(ctx, reqID, pnet.CleanViewerID(r.Header.Get(pnet.ViewerHeader)))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CORSOptions is the narrow surface over go-chi/cors
type CORSOptions struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

// CORS wraps go-chi/cors, filling in the API's methods and headers when unset
func CORS(o CORSOptions) Middleware {
	if len(o.AllowedMethods) == 0 {
		o.AllowedMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	}
	if len(o.AllowedHeaders) == 0 {
		o.AllowedHeaders = []string{"Accept", "Content-Type", "X-Request-Id", pnet.ViewerHeader}
	}
	return chicors.Handler(chicors.Options{
		AllowedOrigins:   o.AllowedOrigins,
		AllowedMethods:   o.AllowedMethods,
		AllowedHeaders:   o.AllowedHeaders,
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: o.AllowCredentials,
		MaxAge:           o.MaxAge,
	})
}

// Defaults is the stack every API router starts with
func Defaults(timeout time.Duration) []Middleware {
	return []Middleware{
		RealIP(),
		RequestID(),
		RequestScope(),
		RecoverJSON,
		Timeout(timeout),
		Compress(flate.DefaultCompression),
		NoCache(),
	}
}
