package assembler

import (
	"log/slog"
	"os"
	"slices"

	"github.com/drblury/fnweaver/deploy"
	"github.com/drblury/fnweaver/discovery"
	"github.com/drblury/fnweaver/endpoint"
	"github.com/drblury/fnweaver/export"
	"github.com/drblury/fnweaver/responder"
	"github.com/drblury/fnweaver/router"
	"github.com/drblury/fnweaver/source"
)

// FunctionNameEnv names the environment variable that, when set, limits the
// reactive pass to a single function.
const FunctionNameEnv = "FUNCTION_NAME"

// Assembler populates an export map from the modules below a root.
type Assembler struct {
	root    string
	exports export.Map
	source  source.Source
	host    deploy.Host
	logger  *slog.Logger

	responder      *responder.Responder
	groupByFolder  bool
	buildReactive  bool
	buildEndpoints bool
	filter         string
	functionSuffix string
	endpointSuffix string
	excludes       []string

	routes []endpoint.Route
}

// New validates root, then runs the reactive and endpoint passes against
// exports, which is mutated in place. A nil map is replaced by a fresh one
// available through Exports.
func New(root string, exports export.Map, opts ...Option) (*Assembler, error) {
	if root == "" {
		return nil, ErrRootRequired
	}
	if exports == nil {
		exports = export.Map{}
	}

	a := &Assembler{
		root:           root,
		exports:        exports,
		logger:         slog.Default(),
		groupByFolder:  true,
		buildReactive:  true,
		buildEndpoints: true,
		filter:         os.Getenv(FunctionNameEnv),
		functionSuffix: discovery.FunctionSuffix,
		endpointSuffix: discovery.EndpointSuffix,
		excludes:       slices.Clone(discovery.DefaultExcludes),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}

	if a.source == nil {
		a.source = source.NewDir(root, source.WithExcludes(a.excludes...), source.WithLogger(a.logger))
	}
	if a.responder == nil {
		a.responder = responder.NewResponder(responder.WithLogger(a.logger))
	}
	if a.host == nil {
		a.host = deploy.NewHost(router.WithLogger(a.logger), router.WithRecoveryResponder(a.responder))
	}

	if a.buildReactive {
		if err := a.BuildReactive(); err != nil {
			return nil, err
		}
	}
	if a.buildEndpoints {
		if err := a.BuildEndpoints(); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// Root returns the directory the assembler scans.
func (a *Assembler) Root() string {
	return a.root
}

// Exports returns the export map being populated.
func (a *Assembler) Exports() export.Map {
	return a.exports
}

// Routes returns the routes registered by the latest endpoint pass in
// registration order.
func (a *Assembler) Routes() []endpoint.Route {
	return slices.Clone(a.routes)
}
