package router

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/drblury/fnweaver/responder"
)

type mount struct {
	prefix string
	router *Router
}

// App mounts group routers in order and serves a request with the first
// router that has a matching route. It plays the role of the application
// that a serverless host deploys.
type App struct {
	mounts    []mount
	responder *responder.Responder
}

// AppOption configures an App.
type AppOption func(*App)

// WithResponder sets the responder used for 404 and 405 problem responses.
func WithResponder(r *responder.Responder) AppOption {
	return func(a *App) {
		if r != nil {
			a.responder = r
		}
	}
}

// NewApp returns an App with no mounted routers.
func NewApp(opts ...AppOption) *App {
	a := &App{responder: responder.NewResponder()}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	return a
}

// Use mounts r under prefix. Mounting the same router at the same prefix
// again is a no-op.
func (a *App) Use(prefix string, r *Router) {
	prefix = normalizePrefix(prefix)
	for _, m := range a.mounts {
		if m.prefix == prefix && m.router == r {
			return
		}
	}
	a.mounts = append(a.mounts, mount{prefix: prefix, router: r})
}

// Routers returns the number of mounted routers.
func (a *App) Routers() int {
	return len(a.mounts)
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	methodMismatch := false
	for _, m := range a.mounts {
		sub, ok := stripPrefix(req, m.prefix)
		if !ok {
			continue
		}
		matched, mismatch := m.router.match(sub)
		if matched {
			m.router.ServeHTTP(w, sub)
			return
		}
		methodMismatch = methodMismatch || mismatch
	}

	if methodMismatch {
		a.responder.HandleMethodNotAllowedError(w, req,
			fmt.Errorf("method %s is not allowed on %s", req.Method, req.URL.Path))
		return
	}
	a.responder.HandleNotFoundError(w, req, fmt.Errorf("no endpoint registered for %s", req.URL.Path))
}

func normalizePrefix(prefix string) string {
	prefix = "/" + strings.Trim(prefix, "/")
	return prefix
}

func stripPrefix(req *http.Request, prefix string) (*http.Request, bool) {
	if prefix == "/" {
		return req, true
	}

	path := req.URL.Path
	if path != prefix && !strings.HasPrefix(path, prefix+"/") {
		return nil, false
	}

	sub := req.Clone(req.Context())
	sub.URL.Path = strings.TrimPrefix(path, prefix)
	if sub.URL.Path == "" {
		sub.URL.Path = "/"
	}
	sub.URL.RawPath = ""
	return sub, true
}
