package cli

import (
	"context"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/cophylo/phylotime/pkg/buildinfo"
	"github.com/cophylo/phylotime/pkg/cache"
	"github.com/cophylo/phylotime/pkg/pipeline"
)

// rootOpts holds the persistent flags shared by all commands.
type rootOpts struct {
	verbose    bool
	configFile string
}

// Execute runs the phylotime CLI and returns an error if any command fails.
// This is the main entry point for the CLI application.
//
// Logging:
//   - Default: info level (logs to stderr)
//   - With --verbose (-v): debug level
//
// The logger is attached to the context and accessible to all commands via
// loggerFromContext.
func Execute(ctx context.Context) error {
	var opts rootOpts

	root := &cobra.Command{
		Use:   appName,
		Short: "Phylotime checks the temporal feasibility of reconciliations",
		Long: `Phylotime checks whether a host/parasite reconciliation is temporally
feasible: it builds the constraint graph the reconciliation implies and
searches for a cycle-free total order of the internal tree nodes.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if opts.verbose {
				level = charmlog.DebugLevel
			}
			ctx := withLogger(cmd.Context(), newLogger(os.Stderr, level))
			cmd.SetContext(ctx)
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file (default ~/.config/phylotime/config.toml)")

	root.AddCommand(newCheckCmd(&opts))
	root.AddCommand(newGraphCmd(&opts))
	root.AddCommand(newServeCmd(&opts))
	root.AddCommand(newCacheCmd())

	return root.ExecuteContext(ctx)
}

// newRunner creates a pipeline runner backed by the configured cache.
func newRunner(ctx context.Context, cfg Config, noCache bool) (*pipeline.Runner, error) {
	c, err := newCache(ctx, cfg.Cache, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(c, loggerFromContext(ctx)), nil
}

// newCache resolves the cache backend from config.
// Backend failures fall back to NullCache so a dead Redis never blocks a
// local check.
func newCache(ctx context.Context, cfg CacheConfig, noCache bool) (cache.Cache, error) {
	if noCache || cfg.Backend == "none" {
		return cache.NewNullCache(), nil
	}
	if cfg.Backend == "redis" {
		c, err := cache.NewRedisCache(ctx, cfg.RedisAddr)
		if err != nil {
			loggerFromContext(ctx).Warn("redis cache unavailable, caching disabled", "err", err)
			return cache.NewNullCache(), nil
		}
		return c, nil
	}
	dir := cfg.Dir
	if dir == "" {
		d, err := cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		dir = d
	}
	return cache.NewFileCache(dir)
}
