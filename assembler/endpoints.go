package assembler

import (
	"fmt"
	"net/http"
	"slices"

	"github.com/drblury/fnweaver/discovery"
	"github.com/drblury/fnweaver/endpoint"
	"github.com/drblury/fnweaver/router"
)

// Registrar accepts verb registrations. *router.Router implements it.
type Registrar interface {
	Get(path string, h http.Handler) error
	Post(path string, h http.Handler) error
	Put(path string, h http.Handler) error
	Delete(path string, h http.Handler) error
	Patch(path string, h http.Handler) error
	Options(path string, h http.Handler) error
}

// BuildEndpoints registers every endpoint module on its group's router and
// stores the entry point of the shared application under each group's
// reserved key. The first failing module aborts the pass with an
// *EndpointError; registrations made before it are kept.
func (a *Assembler) BuildEndpoints() error {
	a.logger.Info("Restful endpoints - building", "root", a.root)

	files, err := a.source.List(discovery.Pattern(a.endpointSuffix))
	if err != nil {
		return err
	}

	app := router.NewApp(router.WithResponder(a.responder))
	routers := make(map[string]*router.Router)
	preflights := make(map[string]preflights)
	routes := make([]endpoint.Route, 0, len(files))

	for _, file := range files {
		group := discovery.ResolveGroup(file, a.groupByFolder)

		r, ok := routers[group]
		if !ok {
			r = router.NewRouter()
			routers[group] = r
			preflights[group] = make(preflights)
		}

		route, err := a.register(file, group, r, preflights[group])
		if err != nil {
			return &EndpointError{File: file, Group: group, Err: err}
		}
		routes = append(routes, route)
		a.logger.Info("Restful endpoints - added", "group", group, "method", route.Method, "path", route.Path, "file", file)

		app.Use("/", r)
		a.exports.SetEntryPoint(group, a.host.OnRequest(app))
	}

	a.routes = routes
	a.logger.Info("Restful endpoints - built", "routes", len(routes), "groups", len(routers))
	return nil
}

// register decodes the endpoint module at file and adds its route to r.
// Nothing is registered unless the descriptor is valid. CORS preflights are
// shared per path through pf.
func (a *Assembler) register(file, group string, r Registrar, pf preflights) (endpoint.Route, error) {
	exports, err := a.source.Load(file)
	if err != nil {
		return endpoint.Route{}, err
	}

	d, err := endpoint.FromExports(exports)
	if err != nil {
		return endpoint.Route{}, err
	}
	if err := d.Validate(); err != nil {
		return endpoint.Route{}, err
	}

	name := d.RouteName(discovery.TrimSuffix(file, a.endpointSuffix))
	path := "/" + name
	h := wrapHandler(d)

	switch d.Method {
	case endpoint.MethodGet:
		err = r.Get(path, h)
	case endpoint.MethodPost:
		err = r.Post(path, h)
	case endpoint.MethodPut:
		err = r.Put(path, h)
	case endpoint.MethodDelete:
		err = r.Delete(path, h)
	case endpoint.MethodPatch:
		err = r.Patch(path, h)
	default:
		err = fmt.Errorf("%w %q", endpoint.ErrUnsupportedMethod, string(d.Method))
	}
	if err != nil {
		return endpoint.Route{}, err
	}

	if d.Options.CORS {
		if err := pf.allow(r, path, d.Method); err != nil {
			return endpoint.Route{}, err
		}
	}

	return endpoint.Route{
		Group:  group,
		Name:   name,
		Method: d.Method,
		Path:   path,
		File:   file,
	}, nil
}

// wrapHandler applies the descriptor's middlewares, then upload parsing,
// then CORS as the outermost layer.
func wrapHandler(d *endpoint.Descriptor) http.Handler {
	h := router.Chain(d.Handler, d.Options.Middlewares...)
	if d.Options.FileUpload {
		h = router.FileUpload(router.DefaultUploadMemory)(h)
	}
	if d.Options.CORS {
		h = router.CORS(corsFor(d.Method))(h)
	}
	return h
}

func corsFor(methods ...endpoint.Method) router.CORSConfig {
	allowed := make([]string, 0, len(methods)+1)
	for _, m := range methods {
		allowed = append(allowed, string(m))
	}
	return router.PermissiveCORS(append(allowed, http.MethodOptions)...)
}

func noContent(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

// preflights maps a path to the OPTIONS handler answering for every CORS
// endpoint registered on it.
type preflights map[string]*preflight

type preflight struct {
	methods []endpoint.Method
	handler http.Handler
}

// allow adds method to the preflight of path, registering the OPTIONS route
// on first use.
func (pf preflights) allow(r Registrar, path string, method endpoint.Method) error {
	p, ok := pf[path]
	if !ok {
		p = &preflight{}
		if err := r.Options(path, p); err != nil {
			return err
		}
		pf[path] = p
	}
	if !slices.Contains(p.methods, method) {
		p.methods = append(p.methods, method)
		p.handler = router.CORS(corsFor(p.methods...))(http.HandlerFunc(noContent))
	}
	return nil
}

func (p *preflight) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.handler.ServeHTTP(w, r)
}
