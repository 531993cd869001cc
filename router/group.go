package router

import (
	"errors"
	"fmt"
	"net/http"
	"slices"

	"github.com/gorilla/mux"
)

// Route is a method and path registered on a Router.
type Route struct {
	Method string
	Path   string
}

// Router holds the routes of one group. It is backed by a gorilla/mux router
// and is only mutated during assembly.
type Router struct {
	mux    *mux.Router
	routes []Route
}

// NewRouter returns an empty group router.
func NewRouter() *Router {
	return &Router{mux: mux.NewRouter()}
}

// Handle registers h for method and path. A path gorilla/mux cannot compile
// is reported and never served.
func (r *Router) Handle(method, path string, h http.Handler) error {
	route := r.mux.NewRoute().Path(path).Methods(method)
	if err := route.GetError(); err != nil {
		return fmt.Errorf("router: %s %s: %w", method, path, err)
	}
	route.Handler(h)
	r.routes = append(r.routes, Route{Method: method, Path: path})
	return nil
}

// Get registers h for GET requests on path.
func (r *Router) Get(path string, h http.Handler) error { return r.Handle(http.MethodGet, path, h) }

// Post registers h for POST requests on path.
func (r *Router) Post(path string, h http.Handler) error { return r.Handle(http.MethodPost, path, h) }

// Put registers h for PUT requests on path.
func (r *Router) Put(path string, h http.Handler) error { return r.Handle(http.MethodPut, path, h) }

// Delete registers h for DELETE requests on path.
func (r *Router) Delete(path string, h http.Handler) error {
	return r.Handle(http.MethodDelete, path, h)
}

// Patch registers h for PATCH requests on path.
func (r *Router) Patch(path string, h http.Handler) error {
	return r.Handle(http.MethodPatch, path, h)
}

// Options registers h for OPTIONS requests on path.
func (r *Router) Options(path string, h http.Handler) error {
	return r.Handle(http.MethodOptions, path, h)
}

// Routes returns the registered routes in registration order.
func (r *Router) Routes() []Route {
	return slices.Clone(r.routes)
}

// match reports whether a route serves req and, if not, whether some route
// matched the path with a different method.
func (r *Router) match(req *http.Request) (matched, methodMismatch bool) {
	var m mux.RouteMatch
	if r.mux.Match(req, &m) {
		return true, false
	}
	return false, errors.Is(m.MatchErr, mux.ErrMethodMismatch)
}

// ServeHTTP dispatches req to the matching route.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}
