// Package emulator serves an assembled module tree locally. Every group's
// entry point is reachable under /{group}, background functions can be
// triggered over HTTP and the tree can be rebuilt while serving.
package emulator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/gorilla/mux"

	"github.com/drblury/fnweaver/assembler"
	"github.com/drblury/fnweaver/endpoint"
	"github.com/drblury/fnweaver/export"
	"github.com/drblury/fnweaver/info"
	"github.com/drblury/fnweaver/manifest"
	"github.com/drblury/fnweaver/probe"
	"github.com/drblury/fnweaver/responder"
	"github.com/drblury/fnweaver/router"
	"github.com/drblury/fnweaver/source"
)

const defaultMaxPayload = 10 << 20

var (
	// ErrNotReady is returned while no assembly has succeeded.
	ErrNotReady = errors.New("emulator: no assembly available")
	// ErrFunctionNotFound is returned when a trigger names an unknown function.
	ErrFunctionNotFound = errors.New("emulator: function not found")
	// ErrUnsupportedSignature is returned when a function cannot be triggered.
	ErrUnsupportedSignature = errors.New("emulator: unsupported function signature")
)

// Snapshot is one immutable assembly of the tree.
type Snapshot struct {
	Exports  export.Map
	Routes   []endpoint.Route
	Document *openapi3.T
	BuiltAt  time.Time
}

// Server serves the latest successful Snapshot.
type Server struct {
	root          string
	logger        *slog.Logger
	responder     *responder.Responder
	newSource     func() source.Source
	assemblerOpts []assembler.Option
	title         string
	version       string
	readiness     []probe.Func
	maxPayload    int64

	reloadMu sync.Mutex
	snapshot atomic.Pointer[Snapshot]
	lastErr  atomic.Pointer[error]
	handler  http.Handler
}

// New assembles root once and returns a server for it. A failed first
// assembly is returned as an error.
func New(root string, opts ...Option) (*Server, error) {
	s := &Server{
		root:       root,
		logger:     slog.Default(),
		title:      "fnweaver",
		version:    "dev",
		maxPayload: defaultMaxPayload,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	s.responder = responder.NewResponder(
		responder.WithLogger(s.logger),
		responder.WithErrorClassifier(classify),
	)

	if err := s.Reload(); err != nil {
		return nil, err
	}
	s.handler = s.routes()
	return s, nil
}

// Reload assembles the tree again and swaps the served snapshot. On failure
// the previous snapshot keeps serving and readiness reports the error.
// Modules read from disk below the root are evaluated again.
func (s *Server) Reload() error {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	start := time.Now()
	snap, err := s.build()
	if err != nil {
		s.lastErr.Store(&err)
		s.logger.Error("Assembly failed", "root", s.root, "error", err)
		return err
	}
	s.snapshot.Store(snap)
	s.lastErr.Store(nil)
	s.logger.Info("Assembly ready",
		"root", s.root,
		"groups", len(snap.Exports),
		"routes", len(snap.Routes),
		"duration", time.Since(start),
	)
	return nil
}

func (s *Server) build() (*Snapshot, error) {
	opts := []assembler.Option{assembler.WithLogger(s.logger)}
	if s.newSource != nil {
		opts = append(opts, assembler.WithSource(s.newSource()))
	} else {
		source.Invalidate(s.root)
	}
	opts = append(opts, s.assemblerOpts...)

	a, err := assembler.New(s.root, export.Map{}, opts...)
	if err != nil {
		return nil, fmt.Errorf("emulator: assemble %s: %w", s.root, err)
	}
	routes := a.Routes()
	return &Snapshot{
		Exports:  a.Exports(),
		Routes:   routes,
		Document: manifest.OpenAPI(s.title, s.version, routes),
		BuiltAt:  time.Now().UTC(),
	}, nil
}

// Snapshot returns the snapshot currently served.
func (s *Server) Snapshot() *Snapshot {
	return s.snapshot.Load()
}

// Err returns the error of the latest reload, if it failed.
func (s *Server) Err() error {
	if p := s.lastErr.Load(); p != nil {
		return *p
	}
	return nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) routes() http.Handler {
	r := mux.NewRouter()
	r.Use(mux.MiddlewareFunc(router.Recover(s.responder)))

	ready := probe.NewPingProbe("assembly", func(context.Context) error {
		if s.snapshot.Load() == nil {
			return ErrNotReady
		}
		return s.Err()
	})
	ih := info.NewInfoHandler(
		info.WithInfoResponder(s.responder),
		info.WithInfoProvider(s.versionInfo),
		info.WithDocumentProvider(func() (*openapi3.T, error) {
			snap := s.snapshot.Load()
			if snap == nil {
				return nil, nil
			}
			return snap.Document, nil
		}),
		info.WithReadinessChecks(append([]probe.Func{ready}, s.readiness...)...),
	)
	ih.Register(r)

	r.HandleFunc("/_manifest", s.getManifest).Methods(http.MethodGet)
	r.HandleFunc("/_functions/{name}", s.postTrigger).Methods(http.MethodPost)
	r.HandleFunc("/_functions/{group}/{name}", s.postTrigger).Methods(http.MethodPost)
	r.PathPrefix("/").Handler(http.HandlerFunc(s.proxy))
	return r
}

func (s *Server) versionInfo() any {
	payload := map[string]any{
		"name":    s.title,
		"version": s.version,
		"root":    s.root,
	}
	if snap := s.snapshot.Load(); snap != nil {
		payload["builtAt"] = snap.BuiltAt.Format(time.RFC3339)
		payload["groups"] = snap.Exports.Groups()
	}
	return payload
}

func (s *Server) getManifest(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot.Load()
	if snap == nil {
		s.responder.HandleErrors(w, r, ErrNotReady)
		return
	}
	s.responder.RespondWithJSON(w, r, http.StatusOK, manifest.Build(snap.Exports, snap.Routes))
}

func classify(err error) (int, bool) {
	switch {
	case errors.Is(err, ErrNotReady):
		return http.StatusServiceUnavailable, true
	case errors.Is(err, ErrFunctionNotFound):
		return http.StatusNotFound, true
	case errors.Is(err, ErrUnsupportedSignature):
		return http.StatusNotImplemented, true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return http.StatusRequestEntityTooLarge, true
	}
	return 0, false
}
