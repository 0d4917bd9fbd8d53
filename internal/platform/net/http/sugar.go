package http

import (
	"net/http"

	"github.com/TanvirAuntu75/snapverse/internal/platform/net/http/bind"
)

// GetJSON mounts a body-less JSON endpoint for GET
func GetJSON(r Router, path string, h func(*http.Request) (any, error)) {
	r.Get(path, Handle(func(req *http.Request) Response {
		return reply(h(req))
	}))
}

// PostJSON mounts a JSON endpoint for POST. The body is decoded and validated
// as T before h runs; a bind failure never reaches h.
func PostJSON[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	r.Post(path, Handle(func(req *http.Request) Response {
		in, err := bind.ParseJSON[T](req)
		if err != nil {
			return Error(err)
		}
		return reply(h(req, in))
	}))
}

// reply wraps a handler result in the envelope
func reply(out any, err error) Response {
	if err != nil {
		return Error(err)
	}
	return OK(out)
}
