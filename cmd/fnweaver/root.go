package main

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/drblury/fnweaver/assembler"
	"github.com/drblury/fnweaver/deploy"
	"github.com/drblury/fnweaver/discovery"
	"github.com/drblury/fnweaver/export"
	"github.com/drblury/fnweaver/internal/config"
	"github.com/drblury/fnweaver/responder"
	"github.com/drblury/fnweaver/router"
)

var (
	// Version is set with -ldflags at build time.
	Version = "dev"
	// Commit is set with -ldflags at build time.
	Commit = "unknown"
)

// cli carries the state resolved before a subcommand runs.
type cli struct {
	configFile string
	cfg        *config.Config
	logger     *slog.Logger
}

func newRootCommand() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:   "fnweaver",
		Short: "Assemble and serve convention-based function modules",
		Long: `fnweaver scans a directory for *.function.go and *.endpoint.go modules,
groups them by folder and assembles the exports a serverless host deploys.

Settings are read from defaults, an optional --config file, FNWEAVER_*
environment variables and flags, in increasing precedence. FUNCTION_NAME
limits the background functions that are assembled.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(config.LoadOptions{ConfigFile: c.configFile, Flags: cmd.Flags()})
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			c.cfg = cfg
			c.logger = logger
			return nil
		},
	}

	defaults := config.Default()
	flags := root.PersistentFlags()
	flags.StringVar(&c.configFile, "config", "", "config file (toml, yaml or json)")
	flags.String("root", defaults.Root, "directory to scan for modules")
	flags.Bool("group-by-folder", defaults.GroupByFolder, "group modules by the parent of their directory")
	flags.Bool("reactive", defaults.Reactive, "assemble background functions")
	flags.Bool("endpoints", defaults.Endpoints, "assemble HTTP endpoints")
	flags.String("function-name", defaults.FunctionName, "only assemble the background function with this name")
	flags.StringSlice("exclude", defaults.Excludes, "directory names to skip")
	flags.String("log-level", defaults.Log.Level, "log level (debug, info, warn, error)")
	flags.String("log-format", defaults.Log.Format, "log format (text or json)")

	root.AddCommand(
		newListCommand(c),
		newOpenAPICommand(c),
		newServeCommand(c),
		newVersionCommand(),
	)
	return root
}

// newLogger builds the process logger. Text output goes through the
// charmbracelet handler, JSON through slog's own.
func newLogger(cfg *config.Config, w io.Writer) (*slog.Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}
	switch cfg.Log.Format {
	case "json":
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})), nil
	case "text":
		handler := log.NewWithOptions(w, log.Options{
			Prefix:          "fnweaver",
			Level:           log.Level(level),
			ReportTimestamp: true,
		})
		return slog.New(handler), nil
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Log.Format)
	}
}

// assemblerOptions maps the configuration onto assembler options. Extra
// router options apply to every entry point.
func (c *cli) assemblerOptions(extra ...router.Option) []assembler.Option {
	cfg := c.cfg
	resp := responder.NewResponder(responder.WithLogger(c.logger))
	routerOpts := []router.Option{
		router.WithLogger(c.logger),
		router.WithRecoveryResponder(resp),
		router.WithConfigMutator(func(rc *router.Config) {
			rc.Timeout = cfg.Server.Timeout
			if len(cfg.Server.CORSOrigins) > 0 {
				rc.CORS = router.PermissiveCORS(
					http.MethodGet, http.MethodPost, http.MethodPut,
					http.MethodDelete, http.MethodPatch, http.MethodOptions,
				)
				rc.CORS.Origins = cfg.Server.CORSOrigins
			}
		}),
	}
	routerOpts = append(routerOpts, extra...)

	opts := []assembler.Option{
		assembler.WithLogger(c.logger),
		assembler.WithHost(deploy.NewHost(routerOpts...)),
		assembler.WithResponder(resp),
		assembler.WithGroupByFolder(cfg.GroupByFolder),
		assembler.WithFunctionFilter(cfg.FunctionName),
		assembler.WithExcludes(cfg.Excludes...),
	}
	if !cfg.Reactive {
		opts = append(opts, assembler.WithoutReactive())
	}
	if !cfg.Endpoints {
		opts = append(opts, assembler.WithoutEndpoints())
	}
	return opts
}

func (c *cli) assemble() (*assembler.Assembler, error) {
	return assembler.New(c.cfg.Root, export.Map{}, c.assemblerOptions()...)
}

// watchPatterns selects the module files a rebuild depends on.
func watchPatterns() []string {
	return []string{
		discovery.Pattern(discovery.FunctionSuffix),
		discovery.Pattern(discovery.EndpointSuffix),
	}
}
