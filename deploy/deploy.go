// Package deploy turns an assembled application into the handler a
// serverless host invokes for a group.
package deploy

import (
	"net/http"

	"github.com/drblury/fnweaver/router"
)

// Host registers an application with the serverless runtime and returns the
// entry point stored under a group's reserved key.
type Host interface {
	OnRequest(app http.Handler) http.Handler
}

// HostFunc adapts a function to Host.
type HostFunc func(app http.Handler) http.Handler

// OnRequest implements Host.
func (f HostFunc) OnRequest(app http.Handler) http.Handler {
	return f(app)
}

// HTTPSHost wraps applications in the router middleware chain.
type HTTPSHost struct {
	opts []router.Option
}

// NewHost returns an HTTPSHost that applies opts to every entry point.
func NewHost(opts ...router.Option) *HTTPSHost {
	return &HTTPSHost{opts: append([]router.Option(nil), opts...)}
}

// OnRequest implements Host. The application is captured by reference, so
// routes added to it later are served by the returned entry point.
func (h *HTTPSHost) OnRequest(app http.Handler) http.Handler {
	return &HTTPFunction{
		app:     app,
		handler: router.New(app, h.opts...),
	}
}

// HTTPFunction is an HTTPS-triggered function entry point.
type HTTPFunction struct {
	app     http.Handler
	handler http.Handler
}

// App returns the application the entry point serves.
func (f *HTTPFunction) App() http.Handler {
	return f.app
}

// ServeHTTP implements http.Handler.
func (f *HTTPFunction) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.handler.ServeHTTP(w, r)
}
