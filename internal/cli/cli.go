// Package cli implements the footprint command-line interface.
//
// # Commands
//
//   - build: compute a building, render artifacts and optionally realize it
//   - render: render a saved model file
//   - levels: list the configured levels or resolve one by name
//   - catalog: list or browse the family types placed by a build
//   - cache: manage the artifact cache
//   - serve: run the HTTP API
//
// All commands read ~/.config/footprint/config.toml (or --config) and
// support --verbose (-v) for debug-level logging.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/footprint/pkg/buildinfo"
	"github.com/matzehuels/footprint/pkg/cache"
	"github.com/matzehuels/footprint/pkg/config"
	"github.com/matzehuels/footprint/pkg/pipeline"
	"github.com/matzehuels/footprint/pkg/store"
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

	configPath string
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          config.AppName,
		Short:        "Footprint lays out a simple building between two levels",
		Long:         `Footprint computes a rectangular building (four walls, a door, three windows and a gable roof) between two named levels, renders it, and realizes it in a host document.`,
		Version:      buildinfo.Get().Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/footprint/config.toml)")

	root.AddCommand(c.buildCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.levelsCommand())
	root.AddCommand(c.catalogCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.versionCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config
// =============================================================================

// config loads the configuration once per process.
func (c *CLI) config() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	c.cfg = cfg
	return cfg, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, cfg *config.Config, noCache bool) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx, cfg, noCache)
	if err != nil {
		return nil, err
	}
	runner := pipeline.NewRunner(ch, nil, c.Logger)
	runner.TTL = cfg.CacheTTL()
	return runner, nil
}

func (c *CLI) newCache(ctx context.Context, cfg *config.Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.Cache.Backend {
	case config.CacheNone:
		return cache.NewNullCache(), nil
	case config.CacheRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
		if err != nil {
			return nil, fmt.Errorf("connect redis cache: %w", err)
		}
		c.Logger.Debug("using redis cache", "addr", cfg.Cache.RedisAddr)
		return rc, nil
	default:
		dir, err := cfg.CacheDir()
		if err != nil {
			c.Logger.Warn("cache disabled", "err", err)
			return cache.NewNullCache(), nil
		}
		c.Logger.Debug("using file cache", "dir", dir)
		return cache.NewFileCache(dir)
	}
}

// newStore opens the configured record store.
func (c *CLI) newStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	if cfg.Store.Backend != config.StoreMongo {
		return store.NewMemory(), nil
	}
	st, err := store.NewMongo(ctx, cfg.Store.MongoURI, cfg.Store.Database)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("using mongo store", "database", cfg.Store.Database)
	return st, nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
