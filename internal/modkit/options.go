package modkit

import (
	"net/http"

	phttp "github.com/TanvirAuntu75/snapverse/internal/platform/net/http"
)

// Router is the platform router seam
type Router = phttp.Router

// Option mutates the build configuration of a module
type Option func(*buildCfg)

type buildCfg struct {
	name   string
	prefix string
	mw     []func(http.Handler) http.Handler
	ports  []any
}

// WithName sets the module name used in logs
func WithName(name string) Option {
	return func(c *buildCfg) { c.name = name }
}

// WithPrefix mounts the module under a path prefix
func WithPrefix(prefix string) Option {
	return func(c *buildCfg) { c.prefix = prefix }
}

// WithMiddlewares attaches per-module middleware in order
func WithMiddlewares(mw ...func(http.Handler) http.Handler) Option {
	return func(c *buildCfg) { c.mw = append(c.mw, mw...) }
}

// WithPorts injects ports exported by other modules; the consumer picks them
// out by type with PortOf
func WithPorts(p ...any) Option {
	return func(c *buildCfg) { c.ports = append(c.ports, p...) }
}
