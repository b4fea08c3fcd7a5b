package render

import (
	"strings"
	"testing"

	"github.com/cophylo/phylotime/pkg/graph"
)

func sampleConstraints() graph.Constraints {
	m0 := graph.Node{Name: "m0", Origin: graph.OriginHost}
	m1 := graph.Node{Name: "m1", Origin: graph.OriginHost}
	n0 := graph.Node{Name: "n0", Origin: graph.OriginParasite}
	return graph.Constraints{
		Nodes: []graph.Node{m0, n0},
		Edges: []graph.ConstraintEdge{
			{From: m0, To: m1},
			{From: m0, To: n0},
		},
	}
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(sampleConstraints(), Options{})

	if !strings.HasPrefix(dot, "digraph constraints {") {
		t.Errorf("DOT should open a digraph, got %q", dot[:40])
	}
	for _, want := range []string{
		`"m0/host" -> "m1/host";`,
		`"m0/host" -> "n0/parasite";`,
		`shape=ellipse`,
		`shape=box`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
}

func TestToDOTLeafTargetsDeclared(t *testing.T) {
	// m1 appears only as an edge target but still needs a node statement.
	dot := ToDOT(sampleConstraints(), Options{})
	if !strings.Contains(dot, `"m1/host" [label="m1"`) {
		t.Errorf("leaf target m1 not declared:\n%s", dot)
	}
}

func TestToDOTDetailedLabels(t *testing.T) {
	dot := ToDOT(sampleConstraints(), Options{Detailed: true})
	if !strings.Contains(dot, `label="m0\nhost"`) {
		t.Errorf("detailed label missing origin:\n%s", dot)
	}
}

func TestToDOTStructuralEdgesDashed(t *testing.T) {
	c := sampleConstraints()
	dot := ToDOT(c, Options{Structural: map[graph.ConstraintEdge]bool{
		c.Edges[0]: true,
	}})
	if !strings.Contains(dot, `"m0/host" -> "m1/host" [style=dashed, color=grey];`) {
		t.Errorf("structural edge not dashed:\n%s", dot)
	}
	if !strings.Contains(dot, `"m0/host" -> "n0/parasite";`) {
		t.Errorf("event edge should stay solid:\n%s", dot)
	}
}

func TestToDOTDeterministic(t *testing.T) {
	a := ToDOT(sampleConstraints(), Options{})
	b := ToDOT(sampleConstraints(), Options{})
	if a != b {
		t.Error("ToDOT should be deterministic for identical input")
	}
}
