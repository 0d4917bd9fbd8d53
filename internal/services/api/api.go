// Package api composes the Snapverse HTTP API from its modules
package api

import (
	"github.com/TanvirAuntu75/snapverse/internal/modkit"
	"github.com/TanvirAuntu75/snapverse/internal/modkit/httpkit"
	"github.com/TanvirAuntu75/snapverse/internal/modkit/swaggerkit"
	"github.com/TanvirAuntu75/snapverse/internal/platform/config"
	"github.com/TanvirAuntu75/snapverse/internal/platform/logger"
	"github.com/TanvirAuntu75/snapverse/internal/platform/metrics"
	phttp "github.com/TanvirAuntu75/snapverse/internal/platform/net/http"
	"github.com/TanvirAuntu75/snapverse/internal/platform/store"
	annmod "github.com/TanvirAuntu75/snapverse/internal/services/annotator/module"
	metamod "github.com/TanvirAuntu75/snapverse/internal/services/api/meta/module"
	feedmod "github.com/TanvirAuntu75/snapverse/internal/services/feed/module"
	impmod "github.com/TanvirAuntu75/snapverse/internal/services/impressions/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	EnableSwagger  bool
	EnableProfiler bool

	// Ports are extra ports (for example a fixed annotator provider) for the
	// annotator module
	Ports []any
}

// Mount builds every module and mounts them under /api/v1. It returns the
// mounted modules in mount order.
func Mount(r phttp.Router, opt Options) []modkit.Module {
	deps := modkit.FromStore(opt.Store, opt.Config)
	if opt.Logger != nil {
		deps.Log = *opt.Logger
	}

	// annotator and impressions own the ports feed consumes
	ann := annmod.New(deps, modkit.WithPorts(opt.Ports...))
	imp := impmod.New(deps)
	feed := feedmod.New(deps, modkit.WithPorts(ann.Ports(), imp.Ports()))

	mods := []modkit.Module{
		metamod.New(deps),
		ann,
		feed,
		imp,
	}

	r.Handle("/metrics", metrics.Handler())
	swaggerkit.Mount(r, opt.EnableSwagger)
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

	httpkit.MountAPIV1(r, httpkit.CommonStack(opt.Config), func(api httpkit.Router) {
		for _, m := range mods {
			m.MountRoutes(api)
		}
	})

	deps.Log.Info().Int("modules", len(mods)).Msg("api mounted")
	return mods
}
