// Package pkg provides the core libraries for phylotime feasibility checking.
//
// # Overview
//
// Phylotime decides whether a host/parasite reconciliation is temporally
// feasible: the events it postulates must admit a consistent ordering of
// speciation times. The pkg directory is organized into three main areas:
//
//  1. Core domain logic (trees, reconciliations, the constraint graph)
//  2. Infrastructure (caching, archival, errors, observability)
//  3. Surfaces (pipeline, HTTP API, diagnostic rendering)
//
// # Architecture
//
// The typical data flow through phylotime:
//
//	Input bundle (JSON)
//	         ↓
//	    [graph] package (decode trees + reconciliation)
//	         ↓
//	    [temporal] package (build constraint graph)
//	         ↓
//	    [temporal] package (cycle-checking topological order)
//	         ↓
//	    Verdict + ordering (JSON / DOT / SVG)
//
// # Main Packages
//
// ## Core Domain Logic
//
// [tree] - Edge-table tree model shared by both phylogenies. Trees are
// keyed maps of edges with sentinel root records; nodes are tagged with
// their tree of origin so same-named host and parasite vertices never
// collide.
//
// [recon] - Reconciliation model: node mappings, event records
// (cospeciation, duplication, transfer, loss), and the first-record-wins
// selection of each mapping's primary event.
//
// [temporal] - The feasibility core. Build derives the temporal constraint
// graph from the trees and the reconciliation; Order searches for a valid
// total order of the internal nodes and reports a cycle as infeasibility.
//
// ## Infrastructure
//
// [cache] - Result memoization keyed by the canonical input hash. File,
// Redis, and null backends.
//
// [store] - Optional archive of completed checks. Memory and MongoDB
// backends.
//
// [errors] - Structured error codes shared by CLI and API. Infeasibility
// is a verdict, not an error.
//
// [observability] - Hook interfaces for pipeline and cache instrumentation
// with no-op defaults.
//
// [buildinfo] - ldflags-injected version information.
//
// ## Surfaces
//
// [graph] - Wire format: JSON (and BSON for the archive) serialization of
// input bundles, constraint graphs, orderings, and verdicts.
//
// [pipeline] - The load → build → order pipeline with caching, used by
// both CLI and API.
//
// [api] - chi-based HTTP API around the pipeline.
//
// [render] - Constraint graph diagnostics as Graphviz DOT and SVG.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...           # All tests
//	go test ./pkg/temporal/...  # Specific package
//
// [tree]: https://pkg.go.dev/github.com/cophylo/phylotime/pkg/tree
// [recon]: https://pkg.go.dev/github.com/cophylo/phylotime/pkg/recon
// [temporal]: https://pkg.go.dev/github.com/cophylo/phylotime/pkg/temporal
// [cache]: https://pkg.go.dev/github.com/cophylo/phylotime/pkg/cache
// [store]: https://pkg.go.dev/github.com/cophylo/phylotime/pkg/store
// [errors]: https://pkg.go.dev/github.com/cophylo/phylotime/pkg/errors
// [observability]: https://pkg.go.dev/github.com/cophylo/phylotime/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/cophylo/phylotime/pkg/buildinfo
// [graph]: https://pkg.go.dev/github.com/cophylo/phylotime/pkg/graph
// [pipeline]: https://pkg.go.dev/github.com/cophylo/phylotime/pkg/pipeline
// [api]: https://pkg.go.dev/github.com/cophylo/phylotime/pkg/api
// [render]: https://pkg.go.dev/github.com/cophylo/phylotime/pkg/render
package pkg
