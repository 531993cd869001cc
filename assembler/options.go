package assembler

import (
	"log/slog"

	"github.com/drblury/fnweaver/deploy"
	"github.com/drblury/fnweaver/responder"
	"github.com/drblury/fnweaver/source"
)

// Option configures an Assembler.
type Option func(*Assembler)

// WithLogger sets the logger used for assembly progress.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Assembler) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithSource replaces the default on-disk module source.
func WithSource(src source.Source) Option {
	return func(a *Assembler) {
		a.source = src
	}
}

// WithHost replaces the host that turns the application into entry points.
func WithHost(host deploy.Host) Option {
	return func(a *Assembler) {
		a.host = host
	}
}

// WithGroupByFolder selects whether the group is the parent of a module's
// directory (true) or the directory itself (false).
func WithGroupByFolder(enabled bool) Option {
	return func(a *Assembler) {
		a.groupByFolder = enabled
	}
}

// WithoutReactive skips the reactive pass.
func WithoutReactive() Option {
	return func(a *Assembler) {
		a.buildReactive = false
	}
}

// WithoutEndpoints skips the endpoint pass.
func WithoutEndpoints() Option {
	return func(a *Assembler) {
		a.buildEndpoints = false
	}
}

// WithFunctionFilter restricts the reactive pass to the function called
// name. An empty name disables filtering, overriding FunctionNameEnv.
func WithFunctionFilter(name string) Option {
	return func(a *Assembler) {
		a.filter = name
	}
}

// WithSuffixes overrides the module file suffixes. Empty values keep the
// defaults.
func WithSuffixes(function, endpoint string) Option {
	return func(a *Assembler) {
		if function != "" {
			a.functionSuffix = function
		}
		if endpoint != "" {
			a.endpointSuffix = endpoint
		}
	}
}

// WithExcludes replaces the directory names skipped by the default source.
func WithExcludes(excludes ...string) Option {
	return func(a *Assembler) {
		a.excludes = append([]string(nil), excludes...)
	}
}

// WithResponder sets the responder rendering 404 and 405 responses of the
// assembled application.
func WithResponder(r *responder.Responder) Option {
	return func(a *Assembler) {
		if r != nil {
			a.responder = r
		}
	}
}
