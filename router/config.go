package router

import "time"

// Config controls the default middleware chain installed by New.
type Config struct {
	// Timeout bounds each request; zero disables the timeout middleware.
	Timeout time.Duration
	// CORS applies to every route of the wrapped application.
	CORS CORSConfig
	// QuietdownRoutes are paths the logging middleware does not record.
	QuietdownRoutes []string
	// HideHeaders are redacted in request logs.
	HideHeaders []string
}

// CORSConfig describes the cross-origin policy of a handler.
type CORSConfig struct {
	Origins          []string
	Methods          []string
	Headers          []string
	AllowCredentials bool
}

// PermissiveCORS allows any origin to call the given methods.
func PermissiveCORS(methods ...string) CORSConfig {
	return CORSConfig{
		Origins: []string{"*"},
		Methods: cloneStrings(methods),
		Headers: []string{"Content-Type", "Authorization"},
	}
}
