// Package module wires the feed into the API using modkit
package module

import (
	"github.com/TanvirAuntu75/snapverse/internal/modkit"
	"github.com/TanvirAuntu75/snapverse/internal/modkit/httpkit"
	anndomain "github.com/TanvirAuntu75/snapverse/internal/services/annotator/domain"
	"github.com/TanvirAuntu75/snapverse/internal/services/feed/domain"
	feedhttp "github.com/TanvirAuntu75/snapverse/internal/services/feed/http"
	"github.com/TanvirAuntu75/snapverse/internal/services/feed/repo"
	feedsvc "github.com/TanvirAuntu75/snapverse/internal/services/feed/service"
)

// Ports exposed by the feed module
type Ports struct {
	Feed domain.ServicePort
}

// Module implements the feed module
type Module struct {
	b   modkit.Built
	svc *feedsvc.Svc
}

// New constructs the feed module. It needs an annotator port; an impression
// writer port and deps.PG are optional.
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build("feed", "/feed", opts...)

	ann := modkit.MustPortOf[anndomain.AnnotatorPort]("feed", b.Ports)
	svcOpts := []feedsvc.Option{feedsvc.WithStore(deps.PG, repo.NewPG())}
	if w, ok := modkit.PortOf[domain.ImpressionWriter](b.Ports); ok {
		svcOpts = append(svcOpts, feedsvc.WithImpressions(w))
	}
	svc := feedsvc.New(ann, feedsvc.ConfigFromEnv(deps.Cfg), svcOpts...)

	deps.Log.Info().
		Bool("store", svc.HasStore()).
		Bool("impressions", len(svcOpts) > 1).
		Msg("feed module ready")
	return &Module{b: b, svc: svc}
}

// Service returns the feed service
func (m *Module) Service() *feedsvc.Svc { return m.svc }

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(rr httpkit.Router) { feedhttp.Register(rr, m.svc) })
}

// Ports returns the module ports
func (m *Module) Ports() any { return Ports{Feed: m.svc} }

// Name returns the module name
func (m *Module) Name() string { return m.b.Name }

var _ modkit.Module = (*Module)(nil)
