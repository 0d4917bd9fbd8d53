// Package swaggerkit serves the embedded OpenAPI document and a Swagger UI
// for it
package swaggerkit

import (
	"net/http"

	phttp "github.com/TanvirAuntu75/snapverse/internal/platform/net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

const (
	docsRoot = "/api/docs"
	docPath  = docsRoot + "/doc.json"
)

// Mount serves the UI under /api/docs/ when enabled. The UI always loads
// docPath, so it shows the running build's version and mutators.
func Mount(r phttp.Router, enabled bool) {
	if !enabled {
		return
	}
	ui := httpSwagger.Handler(
		httpSwagger.InstanceName("snapverse"),
		httpSwagger.URL(docPath),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DeepLinking(true),
	)
	r.Get(docsRoot, http.RedirectHandler(docsRoot+"/", http.StatusPermanentRedirect).ServeHTTP)
	r.Get(docPath, serveDocJSON())
	r.Handle(docsRoot+"/*", ui)
}
