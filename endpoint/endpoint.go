package endpoint

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/drblury/fnweaver/router"
)

// Method is the HTTP verb an endpoint answers.
type Method string

// Supported methods.
const (
	MethodGet    Method = http.MethodGet
	MethodPost   Method = http.MethodPost
	MethodPut    Method = http.MethodPut
	MethodDelete Method = http.MethodDelete
	MethodPatch  Method = http.MethodPatch
)

var (
	// ErrMissingHandler is returned for a descriptor without a handler.
	ErrMissingHandler = errors.New("endpoint: handler is required")
	// ErrUnsupportedMethod is returned for a method outside GET, POST, PUT,
	// DELETE and PATCH.
	ErrUnsupportedMethod = errors.New("endpoint: unsupported method")
)

// Valid reports whether m is one of the supported methods.
func (m Method) Valid() bool {
	switch m {
	case MethodGet, MethodPost, MethodPut, MethodDelete, MethodPatch:
		return true
	default:
		return false
	}
}

// Options are forwarded to the HTTP layer unchanged.
type Options struct {
	CORS        bool
	FileUpload  bool
	Middlewares []router.Middleware
}

// Descriptor is the value an endpoint module exports.
type Descriptor struct {
	Name    string
	Method  Method
	Handler http.Handler
	Options Options
}

// Option configures a Descriptor.
type Option func(*Descriptor)

// WithName overrides the route name derived from the file name.
func WithName(name string) Option {
	return func(d *Descriptor) {
		d.Name = name
	}
}

// WithCORS enables permissive cross-origin access for the route.
func WithCORS() Option {
	return func(d *Descriptor) {
		d.Options.CORS = true
	}
}

// WithFileUpload parses multipart bodies before the handler runs.
func WithFileUpload() Option {
	return func(d *Descriptor) {
		d.Options.FileUpload = true
	}
}

// WithMiddlewares appends middlewares wrapped around the handler, outermost
// first.
func WithMiddlewares(middlewares ...router.Middleware) Option {
	return func(d *Descriptor) {
		d.Options.Middlewares = append(d.Options.Middlewares, middlewares...)
	}
}

// New builds a descriptor and validates it.
func New(method Method, handler http.Handler, opts ...Option) (*Descriptor, error) {
	d := &Descriptor{Method: method, Handler: handler}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}

func must(method Method, handler http.Handler, opts []Option) *Descriptor {
	d, err := New(method, handler, opts...)
	if err != nil {
		panic(err)
	}
	return d
}

// Get returns a GET descriptor. It panics if handler is nil.
func Get(handler http.Handler, opts ...Option) *Descriptor { return must(MethodGet, handler, opts) }

// Post returns a POST descriptor. It panics if handler is nil.
func Post(handler http.Handler, opts ...Option) *Descriptor { return must(MethodPost, handler, opts) }

// Put returns a PUT descriptor. It panics if handler is nil.
func Put(handler http.Handler, opts ...Option) *Descriptor { return must(MethodPut, handler, opts) }

// Delete returns a DELETE descriptor. It panics if handler is nil.
func Delete(handler http.Handler, opts ...Option) *Descriptor {
	return must(MethodDelete, handler, opts)
}

// Patch returns a PATCH descriptor. It panics if handler is nil.
func Patch(handler http.Handler, opts ...Option) *Descriptor { return must(MethodPatch, handler, opts) }

// Validate checks the handler and method.
func (d *Descriptor) Validate() error {
	if d == nil || d.Handler == nil {
		return ErrMissingHandler
	}
	if !d.Method.Valid() {
		return fmt.Errorf("%w %q: use GET, POST, PUT, DELETE or PATCH", ErrUnsupportedMethod, string(d.Method))
	}
	return nil
}

// RouteName returns the descriptor's name as given, or fallback when it is
// empty.
func (d *Descriptor) RouteName(fallback string) string {
	if d.Name != "" {
		return d.Name
	}
	return fallback
}

// Route describes a registered endpoint.
type Route struct {
	Group  string `json:"group"`
	Name   string `json:"name"`
	Method Method `json:"method"`
	Path   string `json:"path"`
	File   string `json:"file"`
}
