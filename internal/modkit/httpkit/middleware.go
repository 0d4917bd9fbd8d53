package httpkit

import (
	"net/http"
	"time"

	"github.com/TanvirAuntu75/snapverse/internal/platform/config"
	"github.com/TanvirAuntu75/snapverse/internal/platform/net/middleware"
)

// CommonStack is the API-wide middleware slice, configured from CORE_API_*
func CommonStack(cfg config.Conf) []func(http.Handler) http.Handler {
	api := cfg.Prefix("CORE_API_")
	stack := middleware.Defaults(api.MayDuration("REQUEST_TIMEOUT", 30*time.Second))
	stack = append(stack,
		middleware.AccessLog(middleware.AccessLogOptions{
			Slow: api.MayDuration("SLOW_REQUEST", time.Second),
			Skip: []string{"/metrics", "/api/v1/meta/health"},
		}),
		middleware.CORS(middleware.CORSOptions{
			AllowedOrigins: api.MayCSV("CORS_ORIGINS", []string{"*"}),
			MaxAge:         300,
		}),
	)
	if n := api.MayInt("MAX_INFLIGHT", 0); n > 0 {
		stack = append(stack, middleware.Throttle(n, n*2, 5*time.Second))
	}
	return stack
}
