// Package module wires impression recording. It has no routes.
package module

import (
	"github.com/TanvirAuntu75/snapverse/internal/modkit"
	"github.com/TanvirAuntu75/snapverse/internal/modkit/httpkit"
	"github.com/TanvirAuntu75/snapverse/internal/services/impressions/repo"
	"github.com/TanvirAuntu75/snapverse/internal/services/impressions/service"
)

// Ports exposed by the impressions module
type Ports struct {
	Writer *service.Service
}

// Module implements the impressions module
type Module struct {
	ports Ports
}

// New constructs the module. A nil deps.CH disables recording.
func New(deps modkit.Deps) *Module {
	m := &Module{}
	if deps.CH != nil {
		m.ports.Writer = service.New(repo.NewCH(deps.CH))
	}
	return m
}

// Enabled reports whether impressions are recorded
func (m *Module) Enabled() bool { return m.ports.Writer != nil }

// Name satisfies modkit.Module
func (m *Module) Name() string { return "impressions" }

// Ports satisfies modkit.Module. It is nil when recording is disabled so
// consumers never pick up a nil writer.
func (m *Module) Ports() any {
	if !m.Enabled() {
		return nil
	}
	return m.ports
}

// MountRoutes satisfies modkit.Module
func (m *Module) MountRoutes(httpkit.Router) {}
