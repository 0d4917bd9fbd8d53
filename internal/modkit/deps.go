// Package modkit provides module wiring and the shared deps modules are built from
package modkit

import (
	"github.com/TanvirAuntu75/snapverse/internal/platform/config"
	"github.com/TanvirAuntu75/snapverse/internal/platform/logger"
	"github.com/TanvirAuntu75/snapverse/internal/platform/store"

	goredis "github.com/redis/go-redis/v9"
)

// Deps holds the shared dependencies passed to modules. Every store seam is
// optional; modules nil-check the ones they can live without.
type Deps struct {
	Log logger.Logger
	Cfg config.Conf
	PG  store.TxRunner
	CH  store.Clickhouse
	RDS goredis.UniversalClient
}

// FromStore copies the opened seams of st into Deps
func FromStore(st *store.Store, cfg config.Conf) Deps {
	if st == nil {
		return Deps{Log: *logger.Get(), Cfg: cfg}
	}
	return Deps{Log: st.Log, Cfg: cfg, PG: st.PG, CH: st.CH, RDS: st.RDS}
}

// Module is the surface every service module exposes to the composition root
type Module interface {
	// MountRoutes registers the module's HTTP routes on r
	MountRoutes(r Router)
	// Ports returns the module's port set for cross wiring, or nil
	Ports() any
	Name() string
}
