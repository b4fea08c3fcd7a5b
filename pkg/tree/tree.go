// Package tree models host and parasite phylogenies as edge tables.
//
// A tree is a map from an edge key to an edge record. Every record names the
// vertex above it (Top) and the vertex below it (Bottom), plus the keys of its
// two child edges. A record whose child slots are empty terminates at a leaf.
// Exactly one record sits at the top of the table, keyed by a root sentinel
// ([HostRootKey] or [ParasiteRootKey]); its Top vertex is the synthetic
// [TopVertex] marker, not a real node.
//
// The package derives three read-only structures from a tree:
//
//   - the set of internal node names ([Tree.InternalNodes])
//   - internal-node adjacency over tagged nodes ([Adjacency])
//   - a child→parent name index merged across both trees ([ParentIndex])
//
// Leaves never appear as adjacency keys; downstream temporal analysis only
// orders internal nodes.
package tree

// Origin tags a node with the tree it belongs to. Host and parasite trees may
// reuse names, so origin is part of node identity everywhere.
type Origin int

const (
	// Host marks nodes of the host phylogeny.
	Host Origin = iota
	// Parasite marks nodes of the parasite (symbiont) phylogeny.
	Parasite
)

// String returns "host" or "parasite".
func (o Origin) String() string {
	if o == Parasite {
		return "parasite"
	}
	return "host"
}

// Node is a tagged tree vertex: a name qualified by the tree it came from.
// Two nodes are equal only if both name and origin match, which makes Node
// safe as a map key even when names collide across the two trees.
type Node struct {
	Name   string
	Origin Origin
}

// String formats the node as "name/origin", e.g. "m2/host".
func (n Node) String() string { return n.Name + "/" + n.Origin.String() }

// EdgeKey identifies an edge record within a tree table. Internal edges are
// keyed by their endpoints via [KeyFor]; the root record uses a sentinel key.
type EdgeKey string

const (
	// HostRootKey is the sentinel key of the host tree's root record.
	HostRootKey EdgeKey = "hTop"
	// ParasiteRootKey is the sentinel key of the parasite tree's root record.
	ParasiteRootKey EdgeKey = "pTop"

	// TopVertex is the synthetic Top name of a root record. It marks "above
	// the root" in the parent index and is never a real node.
	TopVertex = "Top"
)

// KeyFor builds the edge key for the edge from top down to bottom.
func KeyFor(top, bottom string) EdgeKey { return EdgeKey(top + ":" + bottom) }

// Edge is one record of a tree table. Left and Right hold the keys of the two
// child edges, or are empty when the edge terminates at a leaf.
type Edge struct {
	Top    string
	Bottom string
	Left   EdgeKey
	Right  EdgeKey
}

// IsLeaf reports whether the edge terminates at a leaf. Only the right slot is
// examined; an edge with exactly one empty slot is malformed input and its
// classification here is undefined.
func (e Edge) IsLeaf() bool { return e.Right == "" }

// Tree is an edge table. The zero value is an empty tree; build tables
// directly with composite literals or decode them from the wire format.
type Tree map[EdgeKey]Edge

// Origin reports which phylogeny the tree holds, inferred from its root
// sentinel. A table without a parasite root sentinel is a host tree.
func (t Tree) Origin() Origin {
	if _, ok := t[ParasiteRootKey]; ok {
		return Parasite
	}
	return Host
}

// Root returns the tree's root record and true, or false if the table has no
// root sentinel.
func (t Tree) Root() (Edge, bool) {
	if e, ok := t[ParasiteRootKey]; ok {
		return e, true
	}
	e, ok := t[HostRootKey]
	return e, ok
}

// RootName returns the name of the root node (the Bottom of the root record),
// or "" for a table without a root sentinel.
func (t Tree) RootName() string {
	e, ok := t.Root()
	if !ok {
		return ""
	}
	return e.Bottom
}

// InternalNodes returns the names of all internal nodes: the Bottom vertex of
// every non-leaf record, root included. Order is not specified.
func (t Tree) InternalNodes() []string {
	var names []string
	for _, e := range t {
		if !e.IsLeaf() {
			names = append(names, e.Bottom)
		}
	}
	return names
}

// Adjacency extracts the internal ancestor→children structure of t as tagged
// nodes. Each internal node maps to its two tree children (same origin);
// records terminating at leaves contribute nothing. This is the structural
// half of the temporal constraint graph.
func Adjacency(t Tree) map[Node][]Node {
	origin := t.Origin()
	adj := make(map[Node][]Node, len(t))
	for _, e := range t {
		if e.IsLeaf() {
			continue
		}
		left, right := t[e.Left], t[e.Right]
		adj[Node{e.Bottom, origin}] = []Node{
			{left.Bottom, origin},
			{right.Bottom, origin},
		}
	}
	return adj
}

// ParentIndex maps every node name appearing as a Bottom vertex, in either
// tree, to its Top vertex name. Root nodes map to [TopVertex]. Host and
// parasite entries share one index; name collisions across trees are a
// precondition violation of the input format.
func ParentIndex(host, parasite Tree) map[string]string {
	parent := make(map[string]string, len(host)+len(parasite))
	for _, e := range host {
		parent[e.Bottom] = e.Top
	}
	for _, e := range parasite {
		parent[e.Bottom] = e.Top
	}
	return parent
}
