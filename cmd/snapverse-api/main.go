// @title         Snapverse API
// @version       0.1.0
// @description   Feed ranking and content moderation endpoints

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/TanvirAuntu75/snapverse/internal/modkit/repokit"
	"github.com/TanvirAuntu75/snapverse/internal/platform/config"
	"github.com/TanvirAuntu75/snapverse/internal/platform/logger"
	phttp "github.com/TanvirAuntu75/snapverse/internal/platform/net/http"
	"github.com/TanvirAuntu75/snapverse/internal/platform/store"
	"github.com/TanvirAuntu75/snapverse/internal/services/api"
)

func main() {
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")

	opt := logger.FromEnv()
	opt.Service = "snapverse-api"
	logger.Init(opt)
	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// postgres, clickhouse and redis are all optional for the API
	st, err := store.Open(ctx, store.ConfigFromEnv(root, "api", false), store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()
	repokit.MustGuard(ctx, st)

	// http server (reads CORE_API_PORT and the timeouts)
	srv := phttp.NewServer(apiCfg)

	api.Mount(
		srv.Router(),
		api.Options{
			Config:         root,
			Store:          st,
			Logger:         l,
			EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
			EnableProfiler: apiCfg.MayBool("PROFILER", false),
		},
	)

	if err := srv.Run(ctx); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}
