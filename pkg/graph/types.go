package graph

import (
	"slices"
	"strings"

	"github.com/cophylo/phylotime/pkg/errors"
	"github.com/cophylo/phylotime/pkg/recon"
	"github.com/cophylo/phylotime/pkg/temporal"
	"github.com/cophylo/phylotime/pkg/tree"
)

// Origin strings used on the wire.
const (
	OriginHost     = "host"
	OriginParasite = "parasite"
)

// =============================================================================
// Input - Trees, Reconciliation, Frequencies
// =============================================================================

// TreeEdge is one edge record of a serialized tree table.
type TreeEdge struct {
	Top    string `json:"top" bson:"top"`
	Bottom string `json:"bottom" bson:"bottom"`
	Left   string `json:"left,omitempty" bson:"left,omitempty"`
	Right  string `json:"right,omitempty" bson:"right,omitempty"`
}

// TreeTable is a serialized tree: edge key → edge record, root under its
// sentinel key.
type TreeTable map[string]TreeEdge

// Pair is a (parasite node, host node) association on the wire.
// A nil *Pair in an event record stands for a null child slot.
type Pair struct {
	Parasite string `json:"parasite" bson:"parasite"`
	Host     string `json:"host" bson:"host"`
}

// Event is a serialized event record.
type Event struct {
	Kind  string `json:"kind" bson:"kind"`
	Left  *Pair  `json:"left,omitempty" bson:"left,omitempty"`
	Right *Pair  `json:"right,omitempty" bson:"right,omitempty"`
}

// MappingEvents carries the ordered candidate events of one node mapping.
type MappingEvents struct {
	Parasite string  `json:"parasite" bson:"parasite"`
	Host     string  `json:"host" bson:"host"`
	Events   []Event `json:"events" bson:"events"`
}

// Frequency annotates one event record with a weight. Inert for the
// feasibility core; preserved for downstream scoring.
type Frequency struct {
	Event Event   `json:"event" bson:"event"`
	Value float64 `json:"value" bson:"value"`
}

// Input is the complete feasibility-check input bundle.
type Input struct {
	HostTree       TreeTable       `json:"host_tree" bson:"host_tree"`
	ParasiteTree   TreeTable       `json:"parasite_tree" bson:"parasite_tree"`
	Reconciliation []MappingEvents `json:"reconciliation" bson:"reconciliation"`
	Frequencies    []Frequency     `json:"frequencies,omitempty" bson:"frequencies,omitempty"`
}

// validKinds is the set of event kind codes accepted on the wire.
var validKinds = map[string]recon.EventKind{
	"C": recon.Cospeciation,
	"D": recon.Duplication,
	"T": recon.Transfer,
	"L": recon.Loss,
}

// Trees decodes the two tree tables. A host table without its "hTop" root
// sentinel, or a parasite table without "pTop", is rejected.
func (in Input) Trees() (host, parasite tree.Tree, err error) {
	host, err = toTree(in.HostTree, tree.HostRootKey)
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeInvalidTree, err, "host tree")
	}
	parasite, err = toTree(in.ParasiteTree, tree.ParasiteRootKey)
	if err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeInvalidTree, err, "parasite tree")
	}
	return host, parasite, nil
}

func toTree(table TreeTable, rootKey tree.EdgeKey) (tree.Tree, error) {
	if _, ok := table[string(rootKey)]; !ok {
		return nil, errors.New(errors.ErrCodeInvalidTree, "missing root sentinel %q", rootKey)
	}
	t := make(tree.Tree, len(table))
	for key, e := range table {
		t[tree.EdgeKey(key)] = tree.Edge{
			Top:    e.Top,
			Bottom: e.Bottom,
			Left:   tree.EdgeKey(e.Left),
			Right:  tree.EdgeKey(e.Right),
		}
	}
	return t, nil
}

// DecodeReconciliation decodes the reconciliation entries. Unknown event
// kinds and duplicate (parasite, host) mappings are rejected.
func (in Input) DecodeReconciliation() (recon.Reconciliation, error) {
	r := make(recon.Reconciliation, len(in.Reconciliation))
	for _, me := range in.Reconciliation {
		m := recon.Mapping{Parasite: me.Parasite, Host: me.Host}
		if _, dup := r[m]; dup {
			return nil, errors.New(errors.ErrCodeInvalidReconciliation,
				"duplicate mapping (%s, %s)", m.Parasite, m.Host)
		}
		events := make([]recon.Event, len(me.Events))
		for i, ev := range me.Events {
			kind, ok := validKinds[ev.Kind]
			if !ok {
				return nil, errors.New(errors.ErrCodeInvalidReconciliation,
					"mapping (%s, %s): unknown event kind %q", m.Parasite, m.Host, ev.Kind)
			}
			events[i] = recon.Event{
				Kind:  kind,
				Left:  toMapping(ev.Left),
				Right: toMapping(ev.Right),
			}
		}
		r[m] = events
	}
	return r, nil
}

// DecodeFrequencies decodes the frequency annotations. Event kinds are
// validated; values pass through untouched.
func (in Input) DecodeFrequencies() (recon.Frequencies, error) {
	if len(in.Frequencies) == 0 {
		return nil, nil
	}
	f := make(recon.Frequencies, len(in.Frequencies))
	for _, fr := range in.Frequencies {
		kind, ok := validKinds[fr.Event.Kind]
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidInput, "frequency: unknown event kind %q", fr.Event.Kind)
		}
		f[recon.Event{
			Kind:  kind,
			Left:  toMapping(fr.Event.Left),
			Right: toMapping(fr.Event.Right),
		}] = fr.Value
	}
	return f, nil
}

func toMapping(p *Pair) recon.Mapping {
	if p == nil {
		return recon.Mapping{}
	}
	return recon.Mapping{Parasite: p.Parasite, Host: p.Host}
}

// =============================================================================
// Output - Constraint Graph and Ordering
// =============================================================================

// Node is a tagged node on the wire.
type Node struct {
	Name   string `json:"name" bson:"name"`
	Origin string `json:"origin" bson:"origin"`
}

// ConstraintEdge is one directed temporal constraint.
type ConstraintEdge struct {
	From Node `json:"from" bson:"from"`
	To   Node `json:"to" bson:"to"`
}

// Constraints is the serialized constraint graph. Nodes lists only the
// graph's keys (internal nodes); edge targets may also name leaves.
type Constraints struct {
	Nodes []Node           `json:"nodes" bson:"nodes"`
	Edges []ConstraintEdge `json:"edges" bson:"edges"`
}

// OrderedNode is one entry of a feasible total order.
type OrderedNode struct {
	Node     `bson:",inline"`
	Position int `json:"position" bson:"position"`
}

// Result is the outcome of one feasibility check.
type Result struct {
	Feasible bool          `json:"feasible" bson:"feasible"`
	Order    []OrderedNode `json:"order,omitempty" bson:"order,omitempty"`
	Reason   string        `json:"reason,omitempty" bson:"reason,omitempty"`
	Graph    Constraints   `json:"graph" bson:"graph"`
}

// FromConstraints converts a constraint graph to its serialization format.
// Nodes and edges are sorted for deterministic output.
func FromConstraints(g temporal.Graph) Constraints {
	out := Constraints{Nodes: make([]Node, 0, len(g))}
	for node, succs := range g {
		wn := fromNode(node)
		out.Nodes = append(out.Nodes, wn)
		for _, succ := range succs {
			out.Edges = append(out.Edges, ConstraintEdge{From: wn, To: fromNode(succ)})
		}
	}
	slices.SortFunc(out.Nodes, compareNodes)
	slices.SortFunc(out.Edges, func(a, b ConstraintEdge) int {
		if c := compareNodes(a.From, b.From); c != 0 {
			return c
		}
		return compareNodes(a.To, b.To)
	})
	return out
}

// FromOrdering converts an order map to a position-sorted wire slice.
func FromOrdering(order map[tree.Node]int) []OrderedNode {
	out := make([]OrderedNode, 0, len(order))
	for node, pos := range order {
		out = append(out, OrderedNode{Node: fromNode(node), Position: pos})
	}
	slices.SortFunc(out, func(a, b OrderedNode) int { return a.Position - b.Position })
	return out
}

func fromNode(n tree.Node) Node {
	origin := OriginHost
	if n.Origin == tree.Parasite {
		origin = OriginParasite
	}
	return Node{Name: n.Name, Origin: origin}
}

func compareNodes(a, b Node) int {
	if c := strings.Compare(a.Origin, b.Origin); c != 0 {
		return c
	}
	return strings.Compare(a.Name, b.Name)
}
