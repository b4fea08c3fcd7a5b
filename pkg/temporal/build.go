package temporal

import (
	"errors"
	"fmt"

	"github.com/cophylo/phylotime/pkg/recon"
	"github.com/cophylo/phylotime/pkg/tree"
)

var (
	// ErrNoEvents is returned by [Build] when a node mapping carries an empty
	// event sequence. Every mapping must have at least one record.
	ErrNoEvents = errors.New("node mapping has no event records")

	// ErrUnknownNode is returned by [Build] when a reconciliation references a
	// node that has no entry in the parent index of the supplied trees. This
	// signals a malformed reconciliation, not infeasibility.
	ErrUnknownNode = errors.New("node missing from parent index")

	// ErrNotInternal is returned by [Build] when an event rule targets a node
	// that is not an internal vertex of its tree. Constraint edges can only
	// originate at internal nodes.
	ErrNotInternal = errors.New("node is not an internal tree node")
)

// Graph is the temporal constraint graph: each internal tagged node maps to
// the set of nodes it must precede. Leaf nodes never appear as keys.
// Successor sets are deduplicated by [Build]; order within a set carries no
// meaning.
type Graph map[tree.Node][]tree.Node

// Build constructs the constraint graph for a reconciliation between host and
// parasite.
//
// The graph starts as the union of both trees' internal ancestor→children
// adjacency (origin is part of the key, so the union cannot collide). Each
// node mapping then overlays edges according to its primary event:
//
//   - Loss: the parasite is absent at this host node; no edges.
//   - Any event other than a contemporaneous leaf mapping: parasite → host.
//   - Mapping below the host root: hostParent → parasite.
//   - Transfer: parentOf(recipientHost) → parasite always, and
//     transferredParasite → host unless the transferred child is itself a
//     contemporaneous leaf mapping.
//
// Build validates nothing beyond the lookups it needs: a reconciliation
// referencing nodes absent from the trees fails with [ErrUnknownNode] or
// [ErrNotInternal], which callers should treat as a bug in the producer.
func Build(host, parasite tree.Tree, rec recon.Reconciliation) (Graph, error) {
	parent := tree.ParentIndex(host, parasite)

	g := make(Graph)
	for node, children := range tree.Adjacency(host) {
		g[node] = children
	}
	for node, children := range tree.Adjacency(parasite) {
		g[node] = children
	}

	for m := range rec {
		ev, ok := rec.Primary(m)
		if !ok {
			return nil, fmt.Errorf("%w: (%s, %s)", ErrNoEvents, m.Parasite, m.Host)
		}

		// A loss means the parasite is not actually present at this host
		// node in the realized history.
		if ev.Kind == recon.Loss {
			continue
		}

		hostParent, ok := parent[m.Host]
		if !ok {
			return nil, fmt.Errorf("%w: host %q", ErrUnknownNode, m.Host)
		}

		pNode := tree.Node{Name: m.Parasite, Origin: tree.Parasite}
		hNode := tree.Node{Name: m.Host, Origin: tree.Host}

		if !ev.IsLeafMapping() {
			if err := g.addEdge(pNode, hNode); err != nil {
				return nil, err
			}
		}

		if hostParent != tree.TopVertex {
			if err := g.addEdge(tree.Node{Name: hostParent, Origin: tree.Host}, pNode); err != nil {
				return nil, err
			}
		}

		// A transfer is horizontal: donor and recipient lineages co-exist.
		if ev.Kind == recon.Transfer {
			recipient := ev.Right
			recipientParent, ok := parent[recipient.Host]
			if !ok {
				return nil, fmt.Errorf("%w: host %q", ErrUnknownNode, recipient.Host)
			}
			if err := g.addEdge(tree.Node{Name: recipientParent, Origin: tree.Host}, pNode); err != nil {
				return nil, err
			}
			if !rec.IsLeafMapping(recipient) {
				if err := g.addEdge(tree.Node{Name: recipient.Parasite, Origin: tree.Parasite}, hNode); err != nil {
					return nil, err
				}
			}
		}
	}

	for node, succs := range g {
		g[node] = dedupe(succs)
	}
	return g, nil
}

// addEdge appends to to from's successor set. from must already be a key of
// the graph, i.e. an internal node; anything else is a malformed
// reconciliation and fails loudly.
func (g Graph) addEdge(from, to tree.Node) error {
	succs, ok := g[from]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotInternal, from)
	}
	g[from] = append(succs, to)
	return nil
}

// dedupe removes repeated successors, keeping first occurrences.
func dedupe(nodes []tree.Node) []tree.Node {
	seen := make(map[tree.Node]struct{}, len(nodes))
	out := nodes[:0]
	for _, n := range nodes {
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
