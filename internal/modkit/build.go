package modkit

import (
	"net/http"
	"reflect"

	pstrings "github.com/TanvirAuntu75/snapverse/internal/platform/strings"
)

// Built is the resolved option set a module reads at construction
type Built struct {
	Name   string
	Prefix string
	Mw     []func(http.Handler) http.Handler
	Ports  []any
}

// Build applies opts over the given defaults. A non-root prefix is
// normalized to one leading slash and no trailing slash.
func Build(defName, defPrefix string, opts ...Option) Built {
	c := buildCfg{name: defName, prefix: defPrefix}
	for _, o := range opts {
		if o != nil {
			o(&c)
		}
	}
	if c.prefix != "" && c.prefix != "/" {
		c.prefix = pstrings.MustPrefix(c.prefix)
	}
	return Built{
		Name:   c.name,
		Prefix: c.prefix,
		Mw:     append([]func(http.Handler) http.Handler(nil), c.mw...),
		Ports:  append([]any(nil), c.ports...),
	}
}

// Mount registers fn under the module prefix with the module middleware applied
func (b Built) Mount(r Router, fn func(Router)) {
	if b.Prefix == "" || b.Prefix == "/" {
		r.Group(func(g Router) {
			if len(b.Mw) > 0 {
				g.Use(b.Mw...)
			}
			fn(g)
		})
		return
	}
	r.Route(b.Prefix, func(sub Router) {
		if len(b.Mw) > 0 {
			sub.Use(b.Mw...)
		}
		fn(sub)
	})
}

// PortOf returns the first injected port implementing T. Struct port sets are
// searched one level deep through their exported fields.
func PortOf[T any](ports []any) (T, bool) {
	var zero T
	for _, p := range ports {
		if p == nil {
			continue
		}
		if v, ok := p.(T); ok {
			return v, true
		}
		rv := reflect.ValueOf(p)
		if rv.Kind() == reflect.Pointer {
			if rv.IsNil() {
				continue
			}
			rv = rv.Elem()
		}
		if rv.Kind() != reflect.Struct {
			continue
		}
		for i := 0; i < rv.NumField(); i++ {
			f := rv.Field(i)
			if !f.CanInterface() {
				continue
			}
			if v, ok := f.Interface().(T); ok {
				return v, true
			}
		}
	}
	return zero, false
}

// MustPortOf is PortOf that panics naming the consumer
func MustPortOf[T any](consumer string, ports []any) T {
	v, ok := PortOf[T](ports)
	if !ok {
		panic(consumer + ": required port " + reflect.TypeFor[T]().String() + " not provided")
	}
	return v
}
