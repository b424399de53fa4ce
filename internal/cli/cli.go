package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/flowviz/pkg/buildinfo"
	"github.com/matzehuels/flowviz/pkg/cache"
	"github.com/matzehuels/flowviz/pkg/httputil"
	"github.com/matzehuels/flowviz/pkg/pipeline"
	"github.com/matzehuels/flowviz/pkg/source"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "flowviz"

	// redisAddrEnv overrides the configured Redis address.
	redisAddrEnv = "FLOWVIZ_REDIS_ADDR"

	// httpCacheTTL bounds how long raw HTTP responses are reused. Shorter
	// than the graph TTL so upstream edits show up within the hour.
	httpCacheTTL = time.Hour
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config Config
}

// New creates a new CLI instance with a default logger. The config file
// is loaded eagerly; a broken config is reported but never fatal.
func New(w io.Writer, level log.Level) *CLI {
	c := &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
	cfg, err := loadConfig()
	if err != nil {
		c.Logger.Warn("ignoring config file", "err", err)
	}
	c.Config = cfg
	return c
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "flowviz",
		Short:        "Flowviz draws task flows as entity-grouped diagrams",
		Long:         `Flowviz is a CLI tool for turning task flow graphs into styled diagrams, grouping each entity's tasks into a color-coded cluster so data and model lineage stay readable.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.showCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.paletteCommand())
	root.AddCommand(c.exampleCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner and Loader Factories
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	store, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, c.newKeyer(), c.Logger), nil
}

// newLoader creates a graph loader that shares the runner's cache, so
// runner.Close releases the backend for both. Remote refs additionally
// get an on-disk HTTP response cache.
func (c *CLI) newLoader(runner *pipeline.Runner, noCache bool) *source.Loader {
	loader := source.NewLoader(runner.Cache, runner.Keyer, c.Logger)
	loader.HTTPCache = c.newHTTPCache(noCache)
	return loader
}

// newHTTPCache builds the response cache under the cache directory.
// Any failure just disables response caching; graph and artifact
// caching still work.
func (c *CLI) newHTTPCache(noCache bool) *httputil.Cache {
	if noCache || c.Config.Cache.Disabled {
		return nil
	}
	dir, err := c.cacheLocation()
	if err != nil {
		return nil
	}
	hc, err := httputil.NewCache(filepath.Join(dir, "http"), httpCacheTTL)
	if err != nil {
		return nil
	}
	return hc
}

// newKeyer picks the cache key scheme. A Redis backend is shared
// infrastructure, so its keys carry an app prefix to keep flowviz
// entries partitioned from other tenants. The file backend owns its
// directory and needs no prefix.
func (c *CLI) newKeyer() cache.Keyer {
	if c.redisAddr() != "" {
		return cache.NewScopedKeyer(nil, appName+":")
	}
	return nil
}

// newCache selects the cache backend. Redis wins when an address is
// configured, otherwise entries land in the local cache directory. A
// failure to resolve the directory degrades to no caching rather than
// aborting the command.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache || c.Config.Cache.Disabled {
		return cache.NewNullCache(), nil
	}
	if addr := c.redisAddr(); addr != "" {
		return cache.NewRedisCache(ctx, addr)
	}
	dir, err := c.cacheLocation()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// redisAddr returns the Redis address to use, if any. The environment
// variable overrides the config file.
func (c *CLI) redisAddr() string {
	if addr := os.Getenv(redisAddrEnv); addr != "" {
		return addr
	}
	return c.Config.Cache.RedisAddr
}

// cacheLocation returns the directory for the file cache, honoring a
// config override.
func (c *CLI) cacheLocation() (string, error) {
	if c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir, nil
	}
	return cacheDir()
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/flowviz/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// configDir returns the config directory using XDG standard (~/.config/flowviz/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// renderDefaults seeds pipeline options from the config file. Flags
// layer on top, so the config only sets the defaults shown in --help.
func (c *CLI) renderDefaults() pipeline.Options {
	return pipeline.Options{
		Vertical: c.Config.Render.Vertical,
		Curvy:    c.Config.Render.Curvy,
	}
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return strings.Split(s, ",")
}
