package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cophylo/phylotime/pkg/graph"
	"github.com/cophylo/phylotime/pkg/pipeline"
	"github.com/cophylo/phylotime/pkg/store"
)

// checkOpts holds the command-line flags for the check command.
type checkOpts struct {
	output  string // result JSON file path (stdout summary only if empty)
	refresh bool   // bypass the result cache
	noCache bool   // disable caching entirely
	archive bool   // save the check to the configured archive store
}

// newCheckCmd creates the check command.
func newCheckCmd(root *rootOpts) *cobra.Command {
	var opts checkOpts

	cmd := &cobra.Command{
		Use:   "check <input.json>",
		Short: "Check the temporal feasibility of a reconciliation",
		Long: `Check whether a reconciliation is temporally feasible.

The input file carries the host tree, the parasite tree, and the
reconciliation as JSON. The command builds the temporal constraint graph
and searches for a cycle-free total order of the internal nodes.

An infeasible reconciliation is a normal verdict, not a failure: the
command prints the verdict and exits 0 either way.

Examples:
  phylotime check recon.json
  phylotime check recon.json -o result.json
  phylotime check recon.json --refresh --archive`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, root, opts, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write the full result JSON to this file")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass the result cache")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.archive, "archive", false, "archive the check in the configured store")

	return cmd
}

func runCheck(cmd *cobra.Command, root *rootOpts, opts checkOpts, inputPath string) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	cfg, err := loadConfig(root.configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	runner, err := newRunner(ctx, cfg, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	spin := newSpinnerWithContext(ctx, "Checking feasibility...")
	spin.Start()

	prog := newProgress(logger)
	res, err := runner.Execute(ctx, pipeline.Options{
		InputPath: inputPath,
		Refresh:   opts.refresh,
	})
	spin.Stop()
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Checked %d mappings", res.Stats.MappingCount))

	printVerdict(res)

	if opts.archive {
		if err := archiveCheck(cmd, cfg, res); err != nil {
			printWarning("Archive failed: %v", err)
		}
	}

	if opts.output != "" {
		if err := graph.WriteResultFile(res.Check, opts.output); err != nil {
			return err
		}
		printFile(opts.output)
	}

	return nil
}

// printVerdict prints the verdict, the total order when feasible, and the
// graph statistics.
func printVerdict(res *pipeline.Result) {
	if res.Check.Feasible {
		printSuccess("Reconciliation is temporally feasible")
		for _, on := range res.Check.Order {
			printOrderEntry(on.Position, on.Name, on.Origin)
		}
	} else {
		printError("Reconciliation is temporally infeasible")
		printDetail("%s", res.Check.Reason)
	}
	printStats(len(res.Check.Graph.Nodes), len(res.Check.Graph.Edges), res.CacheInfo.Hit)
}

// archiveCheck stores the completed check in the configured Mongo archive.
func archiveCheck(cmd *cobra.Command, cfg Config, res *pipeline.Result) error {
	ctx := cmd.Context()
	st, err := store.OpenMongo(ctx, cfg.Store.MongoURI, cfg.Store.Database)
	if err != nil {
		return err
	}
	defer st.Close(ctx)

	rec := store.NewRecord(res.Input, res.Check)
	if err := st.Save(ctx, rec); err != nil {
		return err
	}
	printDetail("Archived as %s", rec.ID)
	return nil
}
