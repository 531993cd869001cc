package main

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/drblury/fnweaver/internal/config"
	"github.com/drblury/fnweaver/internal/emulator"
	"github.com/drblury/fnweaver/internal/watch"
	"github.com/drblury/fnweaver/probe"
	"github.com/drblury/fnweaver/router"
)

const shutdownTimeout = 10 * time.Second

func newServeCommand(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the assembled tree locally",
		Long: `Serve assembles the tree and serves every group's entry point under
/{group}. Background functions are triggered with POST /_functions/{group}/{name}.
Probes, the manifest and the generated OpenAPI document are served next to them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.serve(cmd.Context())
		},
	}

	defaults := config.Default()
	flags := cmd.Flags()
	flags.String("addr", defaults.Server.Addr, "listen address")
	flags.String("title", defaults.Server.Title, "name reported by /version")
	flags.String("api-version", defaults.Server.Version, "version reported by /version")
	flags.Duration("timeout", defaults.Server.Timeout, "per-request timeout of entry points")
	flags.StringSlice("cors-origin", nil, "origins allowed by every entry point")
	flags.String("openapi", "", "OpenAPI document used to validate requests")
	flags.StringSlice("readiness-url", nil, "URLs or local paths checked by /readyz")
	flags.Bool("watch", defaults.Server.Watch, "rebuild when module files change")
	flags.Duration("debounce", defaults.Server.Debounce, "quiet period before a rebuild")
	return cmd
}

func (c *cli) serve(ctx context.Context) error {
	cfg := c.cfg

	var extra []router.Option
	if cfg.Server.OpenAPI != "" {
		doc, err := loadDocument(ctx, cfg.Server.OpenAPI)
		if err != nil {
			return err
		}
		extra = append(extra, router.WithSwagger(doc))
	}

	// Local readiness paths are served by the emulator itself, which only
	// exists once New returns.
	var srv *emulator.Server
	self := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		srv.ServeHTTP(w, r)
	})

	srv, err := emulator.New(cfg.Root,
		emulator.WithLogger(c.logger),
		emulator.WithInfo(cfg.Server.Title, cfg.Server.Version),
		emulator.WithAssemblerOptions(c.assemblerOptions(extra...)...),
		emulator.WithReadinessChecks(readinessProbes(cfg.Server.ReadinessURLs, self)...),
	)
	if err != nil {
		return err
	}

	w, err := c.newWatcher(srv)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c.logger.Info("Serving", "addr", cfg.Server.Addr, "root", cfg.Root)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})
	if w != nil {
		g.Go(func() error {
			if err := w.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	return g.Wait()
}

// newWatcher returns the file watcher rebuilding srv, or nil when watching
// is disabled.
func (c *cli) newWatcher(srv *emulator.Server) (*watch.Watcher, error) {
	cfg := c.cfg
	if !cfg.Server.Watch {
		return nil, nil
	}
	return watch.New(watch.Config{
		Root:     cfg.Root,
		Patterns: watchPatterns(),
		Ignore:   excludeIgnores(cfg.Excludes),
		Debounce: cfg.Server.Debounce,
		Logger:   c.logger,
		OnChange: func(_ context.Context, changed []string) error {
			c.logger.Info("Rebuilding", "changed", changed)
			if err := srv.Reload(); err != nil {
				c.logger.Warn("Rebuild failed, serving the previous assembly", "error", err)
			}
			return nil
		},
	})
}

// readinessProbes turns each target into a probe. Targets starting with a
// slash are requested from self in-process, anything else over HTTP.
func readinessProbes(targets []string, self http.Handler) []probe.Func {
	probes := make([]probe.Func, 0, len(targets))
	for _, target := range targets {
		if strings.HasPrefix(target, "/") {
			probes = append(probes, probe.NewHandlerProbe(target, self, target))
			continue
		}
		probes = append(probes, probe.NewURLProbe(target, target))
	}
	return probes
}

func excludeIgnores(excludes []string) []string {
	ignores := make([]string, 0, len(excludes))
	for _, name := range excludes {
		ignores = append(ignores, "**/"+name+"/**")
	}
	return ignores
}
