// Package endpoint describes an HTTP endpoint module: the method it answers,
// its handler, an optional route name, and pass-through options for the HTTP
// layer. Endpoint modules export a Descriptor under the name "Endpoint",
// usually built with one of the per-verb constructors:
//
//	var Endpoint = endpoint.Get(http.HandlerFunc(list), endpoint.WithCORS())
package endpoint
