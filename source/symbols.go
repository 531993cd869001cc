package source

import (
	"reflect"

	"github.com/traefik/yaegi/interp"

	"github.com/drblury/fnweaver/endpoint"
	"github.com/drblury/fnweaver/router"
)

// Symbols exposes the endpoint and router packages to interpreted modules.
var Symbols = interp.Exports{
	"github.com/drblury/fnweaver/endpoint/endpoint": {
		"Delete":               reflect.ValueOf(endpoint.Delete),
		"Descriptor":           reflect.ValueOf((*endpoint.Descriptor)(nil)),
		"ErrMissingHandler":    reflect.ValueOf(&endpoint.ErrMissingHandler).Elem(),
		"ErrUnsupportedMethod": reflect.ValueOf(&endpoint.ErrUnsupportedMethod).Elem(),
		"Get":                  reflect.ValueOf(endpoint.Get),
		"Method":               reflect.ValueOf((*endpoint.Method)(nil)),
		"MethodDelete":         reflect.ValueOf(endpoint.MethodDelete),
		"MethodGet":            reflect.ValueOf(endpoint.MethodGet),
		"MethodPatch":          reflect.ValueOf(endpoint.MethodPatch),
		"MethodPost":           reflect.ValueOf(endpoint.MethodPost),
		"MethodPut":            reflect.ValueOf(endpoint.MethodPut),
		"New":                  reflect.ValueOf(endpoint.New),
		"Option":               reflect.ValueOf((*endpoint.Option)(nil)),
		"Options":              reflect.ValueOf((*endpoint.Options)(nil)),
		"Patch":                reflect.ValueOf(endpoint.Patch),
		"Post":                 reflect.ValueOf(endpoint.Post),
		"Put":                  reflect.ValueOf(endpoint.Put),
		"WithCORS":             reflect.ValueOf(endpoint.WithCORS),
		"WithFileUpload":       reflect.ValueOf(endpoint.WithFileUpload),
		"WithMiddlewares":      reflect.ValueOf(endpoint.WithMiddlewares),
		"WithName":             reflect.ValueOf(endpoint.WithName),
	},
	"github.com/drblury/fnweaver/router/router": {
		"CORS":           reflect.ValueOf(router.CORS),
		"CORSConfig":     reflect.ValueOf((*router.CORSConfig)(nil)),
		"Chain":          reflect.ValueOf(router.Chain),
		"FileUpload":     reflect.ValueOf(router.FileUpload),
		"Middleware":     reflect.ValueOf((*router.Middleware)(nil)),
		"PermissiveCORS": reflect.ValueOf(router.PermissiveCORS),
	},
}
