package endpoint

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// DefaultExport is the export name that holds an endpoint module's
// descriptor.
const DefaultExport = "Endpoint"

// ErrNoDescriptor is returned when a module exports neither a descriptor nor
// the Method and Handler bindings.
var ErrNoDescriptor = errors.New("endpoint: module does not export an Endpoint descriptor")

// FromExports extracts the descriptor of an endpoint module. The
// DefaultExport entry is used when present. Otherwise the descriptor is
// assembled from the Method, Handler and optional Name bindings, which lets
// modules that only import the standard library declare endpoints. The
// returned descriptor is not validated.
func FromExports(exports map[string]any) (*Descriptor, error) {
	if v, ok := exports[DefaultExport]; ok {
		switch d := v.(type) {
		case *Descriptor:
			if d == nil {
				return nil, fmt.Errorf("%w: %s is nil", ErrNoDescriptor, DefaultExport)
			}
			return d, nil
		case Descriptor:
			return &d, nil
		default:
			return nil, fmt.Errorf("%w: %s has type %T", ErrNoDescriptor, DefaultExport, v)
		}
	}

	method, hasMethod := exports["Method"]
	handler, hasHandler := exports["Handler"]
	if !hasMethod && !hasHandler {
		return nil, ErrNoDescriptor
	}

	d := &Descriptor{}
	switch m := method.(type) {
	case Method:
		d.Method = m
	case string:
		d.Method = Method(strings.ToUpper(strings.TrimSpace(m)))
	case nil:
	default:
		return nil, fmt.Errorf("%w: Method has type %T", ErrUnsupportedMethod, method)
	}

	switch h := handler.(type) {
	case http.Handler:
		d.Handler = h
	case func(http.ResponseWriter, *http.Request):
		d.Handler = http.HandlerFunc(h)
	case nil:
	default:
		return nil, fmt.Errorf("%w: Handler has type %T", ErrMissingHandler, handler)
	}

	if name, ok := exports["Name"].(string); ok {
		d.Name = name
	}
	return d, nil
}
