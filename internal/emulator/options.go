package emulator

import (
	"log/slog"

	"github.com/drblury/fnweaver/assembler"
	"github.com/drblury/fnweaver/probe"
	"github.com/drblury/fnweaver/source"
)

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger for the server and every rebuild.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSourceFactory makes every rebuild load modules from a source
// returned by fn. By default each rebuild scans root with a fresh
// source.Dir so edited files are interpreted again.
func WithSourceFactory(fn func() source.Source) Option {
	return func(s *Server) {
		s.newSource = fn
	}
}

// WithAssemblerOptions appends options passed to assembler.New on every
// rebuild.
func WithAssemblerOptions(opts ...assembler.Option) Option {
	return func(s *Server) {
		s.assemblerOpts = append(s.assemblerOpts, opts...)
	}
}

// WithInfo sets the title and version reported by /version and used for the
// generated OpenAPI document.
func WithInfo(title, version string) Option {
	return func(s *Server) {
		if title != "" {
			s.title = title
		}
		if version != "" {
			s.version = version
		}
	}
}

// WithReadinessChecks adds probes consulted by /readyz next to the
// assembly check.
func WithReadinessChecks(checks ...probe.Func) Option {
	return func(s *Server) {
		s.readiness = append(s.readiness, checks...)
	}
}

// WithMaxPayload limits the body accepted by the trigger route.
func WithMaxPayload(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxPayload = n
		}
	}
}
