package graph

import (
	"bytes"
	"strings"
	"testing"

	"github.com/cophylo/phylotime/pkg/errors"
	"github.com/cophylo/phylotime/pkg/recon"
	"github.com/cophylo/phylotime/pkg/temporal"
	"github.com/cophylo/phylotime/pkg/tree"
)

func sampleInput() Input {
	return Input{
		HostTree: TreeTable{
			"hTop":  {Top: "Top", Bottom: "m0", Left: "m0:m1", Right: "m0:m2"},
			"m0:m1": {Top: "m0", Bottom: "m1"},
			"m0:m2": {Top: "m0", Bottom: "m2", Left: "m2:m3", Right: "m2:m4"},
			"m2:m3": {Top: "m2", Bottom: "m3"},
			"m2:m4": {Top: "m2", Bottom: "m4"},
		},
		ParasiteTree: TreeTable{
			"pTop":  {Top: "Top", Bottom: "n0", Left: "n0:n1", Right: "n0:n2"},
			"n0:n1": {Top: "n0", Bottom: "n1"},
			"n0:n2": {Top: "n0", Bottom: "n2", Left: "n2:n3", Right: "n2:n4"},
			"n2:n3": {Top: "n2", Bottom: "n3"},
			"n2:n4": {Top: "n2", Bottom: "n4"},
		},
		Reconciliation: []MappingEvents{
			{Parasite: "n0", Host: "m4", Events: []Event{
				{Kind: "D", Left: &Pair{Parasite: "n1", Host: "m4"}, Right: &Pair{Parasite: "n2", Host: "m4"}},
			}},
			{Parasite: "n1", Host: "m4", Events: []Event{{Kind: "C"}}},
		},
		Frequencies: []Frequency{
			{Event: Event{Kind: "D", Left: &Pair{Parasite: "n1", Host: "m4"}, Right: &Pair{Parasite: "n2", Host: "m4"}}, Value: 0.5},
		},
	}
}

func TestTreesDecode(t *testing.T) {
	host, parasite, err := sampleInput().Trees()
	if err != nil {
		t.Fatalf("Trees() error: %v", err)
	}
	if host.Origin() != tree.Host || parasite.Origin() != tree.Parasite {
		t.Error("decoded trees have wrong origins")
	}
	if host.RootName() != "m0" || parasite.RootName() != "n0" {
		t.Errorf("root names = %q, %q", host.RootName(), parasite.RootName())
	}
	if !host[tree.KeyFor("m0", "m1")].IsLeaf() {
		t.Error("m0:m1 must decode as a leaf edge")
	}
}

func TestTreesMissingSentinel(t *testing.T) {
	in := sampleInput()
	delete(in.HostTree, "hTop")

	_, _, err := in.Trees()
	if err == nil {
		t.Fatal("Trees() with missing root sentinel must fail")
	}
	if !errors.Is(err, errors.ErrCodeInvalidTree) {
		t.Errorf("error code = %v, want INVALID_TREE", errors.GetCode(err))
	}
}

func TestDecodeReconciliation(t *testing.T) {
	r, err := sampleInput().DecodeReconciliation()
	if err != nil {
		t.Fatalf("DecodeReconciliation() error: %v", err)
	}

	ev, ok := r.Primary(recon.Mapping{Parasite: "n0", Host: "m4"})
	if !ok {
		t.Fatal("mapping (n0, m4) missing")
	}
	if ev.Kind != recon.Duplication {
		t.Errorf("Kind = %v, want Duplication", ev.Kind)
	}
	if ev.Right != (recon.Mapping{Parasite: "n2", Host: "m4"}) {
		t.Errorf("Right = %v", ev.Right)
	}

	leaf, _ := r.Primary(recon.Mapping{Parasite: "n1", Host: "m4"})
	if !leaf.IsLeafMapping() {
		t.Error("C event with nil children must decode as leaf mapping")
	}
}

func TestDecodeReconciliationUnknownKind(t *testing.T) {
	in := sampleInput()
	in.Reconciliation[0].Events[0].Kind = "X"

	_, err := in.DecodeReconciliation()
	if !errors.Is(err, errors.ErrCodeInvalidReconciliation) {
		t.Errorf("error = %v, want INVALID_RECONCILIATION", err)
	}
}

func TestDecodeReconciliationDuplicateMapping(t *testing.T) {
	in := sampleInput()
	in.Reconciliation = append(in.Reconciliation, in.Reconciliation[0])

	_, err := in.DecodeReconciliation()
	if !errors.Is(err, errors.ErrCodeInvalidReconciliation) {
		t.Errorf("error = %v, want INVALID_RECONCILIATION", err)
	}
}

func TestDecodeFrequencies(t *testing.T) {
	f, err := sampleInput().DecodeFrequencies()
	if err != nil {
		t.Fatalf("DecodeFrequencies() error: %v", err)
	}
	ev := recon.Event{
		Kind:  recon.Duplication,
		Left:  recon.Mapping{Parasite: "n1", Host: "m4"},
		Right: recon.Mapping{Parasite: "n2", Host: "m4"},
	}
	if f[ev] != 0.5 {
		t.Errorf("frequency = %v, want 0.5", f[ev])
	}
}

func TestReadInputRejectsUnknownFields(t *testing.T) {
	_, err := ReadInput(strings.NewReader(`{"host_tree": {}, "bogus": 1}`))
	if err == nil {
		t.Fatal("ReadInput() must reject unknown fields")
	}
}

func TestFromConstraintsDeterministic(t *testing.T) {
	g := temporal.Graph{
		{Name: "m0", Origin: tree.Host}:     {{Name: "m1", Origin: tree.Host}, {Name: "m2", Origin: tree.Host}},
		{Name: "n0", Origin: tree.Parasite}: {{Name: "m0", Origin: tree.Host}},
	}

	c := FromConstraints(g)
	if len(c.Nodes) != 2 || len(c.Edges) != 3 {
		t.Fatalf("nodes=%d edges=%d, want 2 and 3", len(c.Nodes), len(c.Edges))
	}
	// host sorts before parasite, names ascending within origin
	if c.Nodes[0] != (Node{Name: "m0", Origin: OriginHost}) {
		t.Errorf("Nodes[0] = %v", c.Nodes[0])
	}
	if c.Nodes[1] != (Node{Name: "n0", Origin: OriginParasite}) {
		t.Errorf("Nodes[1] = %v", c.Nodes[1])
	}
	if c.Edges[0].To != (Node{Name: "m1", Origin: OriginHost}) {
		t.Errorf("Edges[0] = %v", c.Edges[0])
	}
}

func TestFromOrderingSortsByPosition(t *testing.T) {
	order := map[tree.Node]int{
		{Name: "n0", Origin: tree.Parasite}: 3,
		{Name: "m0", Origin: tree.Host}:     1,
		{Name: "m2", Origin: tree.Host}:     2,
	}
	out := FromOrdering(order)
	if len(out) != 3 {
		t.Fatalf("len = %d, want 3", len(out))
	}
	for i, want := range []string{"m0", "m2", "n0"} {
		if out[i].Name != want || out[i].Position != i+1 {
			t.Errorf("out[%d] = %+v, want %s at %d", i, out[i], want, i+1)
		}
	}
}

func TestCanonicalIsOrderInsensitive(t *testing.T) {
	a := sampleInput()
	b := sampleInput()
	// Reverse the reconciliation entry order.
	b.Reconciliation[0], b.Reconciliation[1] = b.Reconciliation[1], b.Reconciliation[0]

	da, err := a.Canonical()
	if err != nil {
		t.Fatal(err)
	}
	db, err := b.Canonical()
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(da, db) {
		t.Error("Canonical() must not depend on reconciliation entry order")
	}
}

func TestResultRoundTrip(t *testing.T) {
	res := Result{
		Feasible: true,
		Order: []OrderedNode{
			{Node: Node{Name: "m0", Origin: OriginHost}, Position: 1},
		},
		Graph: Constraints{
			Nodes: []Node{{Name: "m0", Origin: OriginHost}},
			Edges: []ConstraintEdge{{From: Node{Name: "m0", Origin: OriginHost}, To: Node{Name: "m1", Origin: OriginHost}}},
		},
	}

	data, err := MarshalResult(res)
	if err != nil {
		t.Fatal(err)
	}
	got, err := UnmarshalResult(data)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Feasible || len(got.Order) != 1 || got.Order[0].Position != 1 {
		t.Errorf("round trip = %+v", got)
	}
}
