package temporal

import (
	"errors"
	"fmt"

	"github.com/cophylo/phylotime/pkg/tree"
)

// ErrCycle is reported by [Graph.Order] when the constraint graph contains a
// cycle, i.e. the reconciliation is temporally infeasible. This is an
// expected verdict: test for it with errors.Is and treat it as "reject the
// reconciliation", not as a malfunction.
var ErrCycle = errors.New("constraint graph contains a cycle")

// node visit states for the depth-first traversal.
const (
	unvisited = iota
	inProgress
	finished
)

// Order computes a total order of the constraint graph's keys.
//
// On success every key is assigned a unique position in [1, N] such that for
// every edge u → v, order[u] < order[v]: ancestors and other predecessors
// come first. On a cycle, Order returns nil and an error wrapping [ErrCycle]
// that names the closing edge; no partial order is ever returned.
//
// Nodes that are not keys of the graph (the trees' leaves) receive no
// position. The traversal uses an explicit stack, so recursion depth is not
// bounded by the call stack.
func (g Graph) Order() (map[tree.Node]int, error) {
	state := make(map[tree.Node]int, len(g))
	order := make(map[tree.Node]int, len(g))
	next := 1

	// frame tracks how far into a node's successor set the walk has gone.
	type frame struct {
		node tree.Node
		idx  int
	}

	for start := range g {
		if state[start] != unvisited {
			continue
		}
		state[start] = inProgress
		stack := []frame{{node: start}}

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			succs := g[top.node]

			if top.idx == len(succs) {
				// All successors labeled: assign the next postorder label.
				order[top.node] = next
				next++
				state[top.node] = finished
				stack = stack[:len(stack)-1]
				continue
			}

			child := succs[top.idx]
			top.idx++

			if _, internal := g[child]; !internal {
				// Leaves have no outgoing constraints and receive no label.
				continue
			}
			switch state[child] {
			case finished:
				continue
			case inProgress:
				return nil, fmt.Errorf("%w: %s -> %s", ErrCycle, top.node, child)
			default:
				state[child] = inProgress
				stack = append(stack, frame{node: child})
			}
		}
	}

	// Postorder labels run leaves-first; flip them so predecessors sort first.
	for node, label := range order {
		order[node] = next - label
	}
	return order, nil
}

// Feasible reports whether the graph admits a total order, discarding the
// order itself.
func (g Graph) Feasible() bool {
	_, err := g.Order()
	return err == nil
}
