package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cophylo/phylotime/pkg/graph"
	"github.com/cophylo/phylotime/pkg/pipeline"
	"github.com/cophylo/phylotime/pkg/render"
	"github.com/cophylo/phylotime/pkg/tree"
)

// graphOpts holds the command-line flags for the graph command.
type graphOpts struct {
	format   string // "dot" or "svg"
	output   string // output file path (stdout if empty, dot only)
	detailed bool   // include node origins in labels
	noCache  bool
}

// newGraphCmd creates the graph export command.
func newGraphCmd(root *rootOpts) *cobra.Command {
	var opts graphOpts

	cmd := &cobra.Command{
		Use:   "graph <input.json>",
		Short: "Export the temporal constraint graph as DOT or SVG",
		Long: `Export the temporal constraint graph implied by a reconciliation.

Structural edges (from tree adjacency) are drawn dashed; edges derived
from reconciliation events are drawn solid.

Examples:
  phylotime graph recon.json                     # DOT to stdout
  phylotime graph recon.json -f svg -o graph.svg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGraph(cmd, root, opts, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "dot", "output format: dot or svg")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include node origins in labels")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

func runGraph(cmd *cobra.Command, root *rootOpts, opts graphOpts, inputPath string) error {
	if opts.format != "dot" && opts.format != "svg" {
		return fmt.Errorf("invalid format: %q (must be dot or svg)", opts.format)
	}
	if opts.format == "svg" && opts.output == "" {
		return fmt.Errorf("svg output requires --output")
	}

	ctx := cmd.Context()
	cfg, err := loadConfig(root.configFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	runner, err := newRunner(ctx, cfg, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	res, err := runner.Execute(ctx, pipeline.Options{InputPath: inputPath})
	if err != nil {
		return err
	}

	dot := render.ToDOT(res.Check.Graph, render.Options{
		Detailed:   opts.detailed,
		Structural: structuralEdges(res.Input),
	})

	if opts.format == "svg" {
		svg, err := render.RenderSVG(dot)
		if err != nil {
			return err
		}
		if err := os.WriteFile(opts.output, svg, 0644); err != nil {
			return err
		}
		printSuccess("Rendered constraint graph")
		printFile(opts.output)
		return nil
	}

	if opts.output != "" {
		if err := os.WriteFile(opts.output, []byte(dot), 0644); err != nil {
			return err
		}
		printSuccess("Exported constraint graph")
		printFile(opts.output)
		return nil
	}
	fmt.Print(dot)
	return nil
}

// structuralEdges marks the constraint edges that come from tree adjacency
// rather than reconciliation events.
func structuralEdges(in graph.Input) map[graph.ConstraintEdge]bool {
	host, parasite, err := in.Trees()
	if err != nil {
		return nil
	}

	marked := make(map[graph.ConstraintEdge]bool)
	for _, adj := range []map[tree.Node][]tree.Node{tree.Adjacency(host), tree.Adjacency(parasite)} {
		for from, succs := range adj {
			for _, to := range succs {
				marked[graph.ConstraintEdge{From: wireNode(from), To: wireNode(to)}] = true
			}
		}
	}
	return marked
}

func wireNode(n tree.Node) graph.Node {
	origin := graph.OriginHost
	if n.Origin == tree.Parasite {
		origin = graph.OriginParasite
	}
	return graph.Node{Name: n.Name, Origin: origin}
}
