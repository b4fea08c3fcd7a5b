// Package temporal decides whether a reconciliation between a parasite and a
// host phylogeny is feasible in time.
//
// Tree structure already implies "before/after": an ancestor divergence
// happens before its descendants'. A reconciliation adds more implications:
// every mapped parasite node must be ordered against its host, and a transfer
// connects two host lineages that must co-exist at that moment. [Build]
// encodes all of these as a directed constraint graph over the internal nodes
// of both trees, where an edge u → v reads "u diverges before v".
//
// [Graph.Order] then looks for a total order consistent with every edge. If
// one exists the reconciliation is temporally feasible and the order is
// returned; if the constraints close a cycle — a node forced to be both
// before and after another — the reconciliation is infeasible and Order
// reports [ErrCycle]. Infeasibility is a normal verdict, not a malfunction:
// callers are expected to test for it with errors.Is and reject the
// reconciliation.
//
// The computation is a pure function of its inputs: single-threaded, no I/O,
// linear in the size of the constraint graph, and always terminating. The
// sorter walks the graph with an explicit stack, so deep trees cannot exhaust
// the call stack.
package temporal
