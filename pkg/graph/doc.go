// Package graph provides serialization types for feasibility-check inputs
// and outputs.
//
// This package defines the canonical wire format for phylotime's data, used
// for JSON files, API requests and responses, caching, and the check archive.
//
// # Architecture
//
// The package sits at the serialization boundary between internal
// representations and external formats:
//
//   - [Input], [Result]: Serialization types (this package)
//   - pkg/tree.Tree, pkg/recon.Reconciliation: Internal input models
//   - pkg/temporal.Graph: Internal constraint graph
//
// Use [Input.Trees], [Input.Reconciliation], [FromConstraints] and
// [FromOrdering] to convert between them.
//
// # Input Format
//
// Inputs bundle both trees, the reconciliation, and optional frequency
// annotations:
//
//	{
//	  "host_tree":     {"hTop": {"top": "Top", "bottom": "m0", ...}, ...},
//	  "parasite_tree": {"pTop": {"top": "Top", "bottom": "n0", ...}, ...},
//	  "reconciliation": [
//	    {"parasite": "n0", "host": "m4",
//	     "events": [{"kind": "D", "left": {...}, "right": {...}}]}
//	  ],
//	  "frequencies": [{"event": {...}, "value": 0.5}]
//	}
//
// Tree tables are keyed by edge ("top:bottom"), with the root record under
// its sentinel key ("hTop" or "pTop"). Frequencies are carried through
// untouched; the feasibility core never reads them.
//
// # Determinism
//
// [Input.Canonical] produces byte-identical JSON for semantically identical
// inputs (sorted reconciliation entries, sorted frequency records), which is
// what cache keys are computed from. [FromConstraints] sorts nodes and edges
// for stable output.
//
// # Concurrency
//
// All functions are safe for concurrent reads but not concurrent writes.
package graph
