// Package config loads the fnweaver command configuration. Values are
// layered as defaults, then an optional config file, then FNWEAVER_*
// environment variables, then command-line flags.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/drblury/fnweaver/discovery"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "FNWEAVER"

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config is the resolved command configuration.
type Config struct {
	Root          string       `mapstructure:"root"`
	GroupByFolder bool         `mapstructure:"group_by_folder"`
	Reactive      bool         `mapstructure:"reactive"`
	Endpoints     bool         `mapstructure:"endpoints"`
	FunctionName  string       `mapstructure:"function_name"`
	Excludes      []string     `mapstructure:"excludes"`
	Log           LogConfig    `mapstructure:"log"`
	Server        ServerConfig `mapstructure:"server"`
}

// LogConfig selects the log handler.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ServerConfig configures the local emulator.
type ServerConfig struct {
	Addr          string        `mapstructure:"addr"`
	Title         string        `mapstructure:"title"`
	Version       string        `mapstructure:"version"`
	Timeout       time.Duration `mapstructure:"timeout"`
	CORSOrigins   []string      `mapstructure:"cors_origins"`
	OpenAPI       string        `mapstructure:"openapi"`
	ReadinessURLs []string      `mapstructure:"readiness_urls"`
	Watch         bool          `mapstructure:"watch"`
	Debounce      time.Duration `mapstructure:"debounce"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		Root:          ".",
		GroupByFolder: true,
		Reactive:      true,
		Endpoints:     true,
		Excludes:      append([]string(nil), discovery.DefaultExcludes...),
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Server: ServerConfig{
			Addr:     ":8080",
			Title:    "fnweaver",
			Version:  "dev",
			Timeout:  30 * time.Second,
			Debounce: 300 * time.Millisecond,
		},
	}
}

// LoadOptions controls Load.
type LoadOptions struct {
	// ConfigFile is read when set. Its format follows the extension.
	ConfigFile string
	// Flags are bound through FlagKeys. Only flags the user changed
	// override the lower layers.
	Flags *pflag.FlagSet
}

// Load resolves the configuration and validates it.
func Load(opts LoadOptions) (*Config, error) {
	v := viper.New()

	defaults := Default()
	v.SetDefault("root", defaults.Root)
	v.SetDefault("group_by_folder", defaults.GroupByFolder)
	v.SetDefault("reactive", defaults.Reactive)
	v.SetDefault("endpoints", defaults.Endpoints)
	v.SetDefault("function_name", defaults.FunctionName)
	v.SetDefault("excludes", defaults.Excludes)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.format", defaults.Log.Format)
	v.SetDefault("server.addr", defaults.Server.Addr)
	v.SetDefault("server.title", defaults.Server.Title)
	v.SetDefault("server.version", defaults.Server.Version)
	v.SetDefault("server.timeout", defaults.Server.Timeout)
	v.SetDefault("server.cors_origins", defaults.Server.CORSOrigins)
	v.SetDefault("server.openapi", defaults.Server.OpenAPI)
	v.SetDefault("server.readiness_urls", defaults.Server.ReadinessURLs)
	v.SetDefault("server.watch", defaults.Server.Watch)
	v.SetDefault("server.debounce", defaults.Server.Debounce)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// The bare variable is what serverless hosts set for a targeted build.
	if err := v.BindEnv("function_name", EnvPrefix+"_FUNCTION_NAME", "FUNCTION_NAME"); err != nil {
		return nil, fmt.Errorf("config: bind function name: %w", err)
	}

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", opts.ConfigFile, err)
		}
	}

	if opts.Flags != nil {
		for name, key := range FlagKeys {
			f := opts.Flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("config: bind flag %s: %w", name, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// FlagKeys maps command-line flag names to configuration keys. Flags
// missing from the set passed to Load are ignored.
var FlagKeys = map[string]string{
	"root":            "root",
	"group-by-folder": "group_by_folder",
	"reactive":        "reactive",
	"endpoints":       "endpoints",
	"function-name":   "function_name",
	"exclude":         "excludes",
	"log-level":       "log.level",
	"log-format":      "log.format",
	"addr":            "server.addr",
	"title":           "server.title",
	"api-version":     "server.version",
	"timeout":         "server.timeout",
	"cors-origin":     "server.cors_origins",
	"openapi":         "server.openapi",
	"readiness-url":   "server.readiness_urls",
	"watch":           "server.watch",
	"debounce":        "server.debounce",
}

// Validate reports every invalid field.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Root) == "" {
		errs = append(errs, errors.New("root must not be empty"))
	}
	if _, err := c.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log format %q must be text or json", c.Log.Format))
	}
	if c.Server.Timeout < 0 {
		errs = append(errs, fmt.Errorf("server timeout %s must not be negative", c.Server.Timeout))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}

// SlogLevel parses the configured log level.
func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log level %q: %w", c.Log.Level, err)
	}
	return level, nil
}
