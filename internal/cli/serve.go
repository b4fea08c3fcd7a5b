package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cophylo/phylotime/pkg/api"
	"github.com/cophylo/phylotime/pkg/store"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr      string // listen address (overrides config)
	noArchive bool   // disable the Mongo check archive
	noCache   bool
}

// newServeCmd creates the serve command.
func newServeCmd(root *rootOpts) *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the feasibility-check HTTP API",
		Long: `Run the HTTP API server.

The server shares the result cache with the CLI, so identical inputs are
answered from cache regardless of entry point. When the check archive is
enabled, every computed check is stored in MongoDB and retrievable via
GET /api/v1/checks/{id}.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, root, opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config, \":8080\")")
	cmd.Flags().BoolVar(&opts.noArchive, "no-archive", false, "disable the check archive")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

func runServe(cmd *cobra.Command, root *rootOpts, opts serveOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, err := loadConfig(root.configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	addr := cfg.Serve.Addr
	if opts.addr != "" {
		addr = opts.addr
	}

	runner, err := newRunner(ctx, cfg, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	var st store.Store
	if !opts.noArchive {
		mongo, err := store.OpenMongo(ctx, cfg.Store.MongoURI, cfg.Store.Database)
		if err != nil {
			logger.Warn("check archive unavailable", "err", err)
		} else {
			st = mongo
			defer mongo.Close(ctx)
		}
	}

	server := api.NewServer(runner, st, logger)
	return server.ListenAndServe(addr)
}
