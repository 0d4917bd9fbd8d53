// Package http provides http transport for the content annotator
package http

import (
	stdhttp "net/http"

	"github.com/TanvirAuntu75/snapverse/internal/modkit/httpkit"
	"github.com/TanvirAuntu75/snapverse/internal/services/annotator/domain"
	svc "github.com/TanvirAuntu75/snapverse/internal/services/annotator/service"
)

// Register mounts content endpoints on the given router
func Register(r httpkit.Router, s *svc.Service) {
	h := &handlers{svc: s}

	httpkit.PostJSON[domain.TextInput](r, "/analyze", h.analyze)
	httpkit.PostJSON[domain.TextInput](r, "/moderate", h.moderate)
	httpkit.PostJSON[domain.HashtagInput](r, "/hashtags", h.hashtags)
	httpkit.PostJSON[domain.ImageInput](r, "/image", h.image)

	// topics + hashtags + image tags
	httpkit.PostJSON[domain.ContentTagsInput](r, "/tags", h.tags)
}

type handlers struct{ svc *svc.Service }

// POST /content/analyze
func (h *handlers) analyze(r *stdhttp.Request, in domain.TextInput) (any, error) {
	return h.svc.Analyze(r.Context(), in.Text), nil
}

// POST /content/moderate. Always 200; provider failure reads as safe.
func (h *handlers) moderate(r *stdhttp.Request, in domain.TextInput) (any, error) {
	return h.svc.Moderate(r.Context(), in.Text), nil
}

func (h *handlers) hashtags(r *stdhttp.Request, in domain.HashtagInput) (any, error) {
	return domain.TagsOutput{Tags: h.svc.SuggestHashtags(r.Context(), in.Text, in.ImageTags)}, nil
}

func (h *handlers) image(r *stdhttp.Request, in domain.ImageInput) (any, error) {
	return domain.TagsOutput{Tags: h.svc.AnalyzeImage(r.Context(), in.URL)}, nil
}

func (h *handlers) tags(r *stdhttp.Request, in domain.ContentTagsInput) (any, error) {
	return domain.TagsOutput{Tags: h.svc.GenerateContentTags(r.Context(), in.Text, in.MediaURLs)}, nil
}
