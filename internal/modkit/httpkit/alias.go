// Package httpkit re-exports the platform http helpers modules use so service
// http packages do not import internal/platform/net/http directly
package httpkit

import (
	"net/http"

	phttp "github.com/TanvirAuntu75/snapverse/internal/platform/net/http"
)

type (
	// Envelope is the response envelope
	Envelope = phttp.Envelope

	// Response is a return-style handler result
	Response = phttp.Response

	// Handler is the platform handler type
	Handler = phttp.Handler

	// Router is the platform router seam
	Router = phttp.Router
)

// OK returns a 200 response
func OK(data any) Response { return phttp.OK(data) }

// Created returns a 201 response
func Created(data any) Response { return phttp.Created(data) }

// NoContent returns a 204 response
func NoContent() Response { return phttp.NoContent() }

// Error maps err to its status and envelope
func Error(err error) Response { return phttp.Error(err) }

// Handle adapts a Response-returning function
func Handle(fn func(*http.Request) Response) Handler { return phttp.Handle(fn) }
