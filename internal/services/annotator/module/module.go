// Package module wires the content annotator into the API using modkit
package module

import (
	"strings"

	"github.com/TanvirAuntu75/snapverse/internal/adapters/intelligence/fake"
	"github.com/TanvirAuntu75/snapverse/internal/adapters/intelligence/openai"
	"github.com/TanvirAuntu75/snapverse/internal/modkit"
	"github.com/TanvirAuntu75/snapverse/internal/modkit/httpkit"
	"github.com/TanvirAuntu75/snapverse/internal/platform/logger"
	"github.com/TanvirAuntu75/snapverse/internal/services/annotator/cache"
	"github.com/TanvirAuntu75/snapverse/internal/services/annotator/domain"
	annhttp "github.com/TanvirAuntu75/snapverse/internal/services/annotator/http"
	annsvc "github.com/TanvirAuntu75/snapverse/internal/services/annotator/service"
)

// Provider names accepted in SERVICE_LLM_PROVIDER
const (
	ProviderOpenAI = "openai"
	ProviderFake   = "fake"
)

// Ports is what the annotator exports to other modules
type Ports struct {
	Annotator domain.AnnotatorPort
}

// Module implements the annotator module
type Module struct {
	b   modkit.Built
	svc *annsvc.Service
}

// New constructs the annotator module. An injected domain.Provider port wins
// over SERVICE_LLM_PROVIDER.
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build("annotator", "/content", opts...)

	p, ok := modkit.PortOf[domain.Provider](b.Ports)
	if !ok {
		p = ProviderFromEnv(deps)
	}
	c := cache.New(cache.OptionsFromEnv(deps.Cfg), deps.RDS)
	svc := annsvc.New(p, c, annsvc.ConfigFromEnv(deps.Cfg))
	return &Module{b: b, svc: svc}
}

// ProviderFromEnv builds the provider named by SERVICE_LLM_PROVIDER (default openai)
func ProviderFromEnv(deps modkit.Deps) domain.Provider {
	name := deps.Cfg.Prefix("SERVICE_LLM_").MayEnum("PROVIDER", ProviderOpenAI, ProviderOpenAI, ProviderFake)
	if strings.EqualFold(name, ProviderFake) {
		logger.Named("annotator").Warn().Msg("using the deterministic fake content provider")
		return fake.New()
	}
	cfg := openai.ConfigFromEnv(deps.Cfg)
	if cfg.APIKey == "" {
		logger.Named("annotator").Warn().Msg("SERVICE_LLM_API_KEY is empty; provider calls will fall back to defaults")
	}
	return openai.New(cfg)
}

// Service returns the annotator service
func (m *Module) Service() *annsvc.Service { return m.svc }

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(rr httpkit.Router) { annhttp.Register(rr, m.svc) })
}

// Ports returns the module ports
func (m *Module) Ports() any { return Ports{Annotator: m.svc} }

// Name returns the module name
func (m *Module) Name() string { return m.b.Name }

var _ modkit.Module = (*Module)(nil)
