// Package net holds transport-neutral request context helpers
package net

import (
	"context"
	"strings"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// ViewerHeader carries the id of the viewer a feed request is served for
const ViewerHeader = "X-Viewer-ID"

// WithRequestID stores id where chi's RequestID middleware would
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, chimw.RequestIDKey, id)
}

// RequestID returns the request id set by the RequestID middleware
func RequestID(ctx context.Context) string { return chimw.GetReqID(ctx) }

// CleanViewerID trims a header-supplied viewer id and caps its length so it is
// safe to log
func CleanViewerID(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 128 {
		s = s[:128]
	}
	return s
}
