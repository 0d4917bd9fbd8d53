// Package http provides http transport for the feed
package http

import (
	stdhttp "net/http"

	"github.com/TanvirAuntu75/snapverse/internal/modkit/httpkit"
	"github.com/TanvirAuntu75/snapverse/internal/services/feed/domain"
)

// Register mounts feed endpoints on the given router
func Register(r httpkit.Router, s domain.ServicePort) {
	h := &handlers{svc: s}

	// ranked, diversified feed
	httpkit.PostJSON[domain.CurateInput](r, "/curate", h.curate)
	httpkit.PostJSON[domain.ScoreInput](r, "/score", h.score)
	httpkit.PostJSON[domain.TrendingInput](r, "/trending", h.trending)
	httpkit.PostJSON[domain.FilterInput](r, "/filter", h.filter)
	httpkit.PostJSON[domain.RecommendInput](r, "/recommendations", h.recommendations)
}

type handlers struct{ svc domain.ServicePort }

func (h *handlers) curate(r *stdhttp.Request, in domain.CurateInput) (any, error) {
	return h.svc.Curate(r.Context(), in)
}

func (h *handlers) score(r *stdhttp.Request, in domain.ScoreInput) (any, error) {
	return h.svc.Score(r.Context(), in)
}

func (h *handlers) trending(r *stdhttp.Request, in domain.TrendingInput) (any, error) {
	return h.svc.Trending(r.Context(), in)
}

func (h *handlers) filter(r *stdhttp.Request, in domain.FilterInput) (any, error) {
	return h.svc.Filter(r.Context(), in)
}

func (h *handlers) recommendations(r *stdhttp.Request, in domain.RecommendInput) (any, error) {
	return h.svc.Recommendations(r.Context(), in)
}
