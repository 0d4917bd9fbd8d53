// Package module wires meta endpoints into the API using a tiny module
package module

import (
	"context"
	"time"

	"github.com/TanvirAuntu75/snapverse/internal/modkit"
	"github.com/TanvirAuntu75/snapverse/internal/modkit/httpkit"
	"github.com/TanvirAuntu75/snapverse/internal/platform/store"
	metahttp "github.com/TanvirAuntu75/snapverse/internal/services/api/meta/http"
)

// ServiceName is reported by /meta/health and /meta/version
const ServiceName = "snapverse-api"

// Module implements the modkit.Module interface
type Module struct {
	b    modkit.Built
	deps metahttp.Deps
}

// New constructs a meta module with the provided dependencies and options
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build("meta", "/meta", opts...)
	return &Module{
		b: b,
		deps: metahttp.Deps{
			ServiceName: ServiceName,
			StartedAt:   time.Now(),
			Checks:      Checks(deps),
		},
	}
}

// Checks builds the readiness checks for the configured stores
func Checks(deps modkit.Deps) []metahttp.Check {
	out := []metahttp.Check{{Name: "pg"}, {Name: "clickhouse"}, {Name: "redis"}}
	if p, ok := deps.PG.(store.Pinger); ok {
		out[0].Ping = p.Ping
	}
	if p, ok := deps.CH.(store.Pinger); ok {
		out[1].Ping = p.Ping
	}
	if deps.RDS != nil {
		rds := deps.RDS
		out[2].Ping = func(ctx context.Context) error { return rds.Ping(ctx).Err() }
	}
	return out
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(rr httpkit.Router) { metahttp.Register(rr, m.deps) })
}

// Name implements the modkit.Module interface
func (m *Module) Name() string { return m.b.Name }

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return nil }

var _ modkit.Module = (*Module)(nil)
