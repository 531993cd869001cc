// Package router composes the HTTP side of an assembled tree: per-group
// gorilla/mux routers holding the endpoint routes, an App that mounts them in
// order, and New, which wraps an App with OpenAPI validation, CORS, timeouts,
// and logging defaults before it is deployed.
package router
