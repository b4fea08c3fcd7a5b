// Package recon models reconciliations between a parasite and a host
// phylogeny.
//
// A reconciliation maps each (parasite node, host node) pair to the ordered
// event records proposed for it. Only the first record of a pair is
// authoritative; later records are carried for downstream consumers but never
// consulted by the temporal analysis.
package recon

// EventKind classifies the evolutionary event of a node mapping.
type EventKind byte

const (
	// Cospeciation: parasite and host speciate together. With both child
	// mappings null it marks a contemporaneous leaf mapping.
	Cospeciation EventKind = 'C'
	// Duplication: the parasite speciates independently on the same host.
	Duplication EventKind = 'D'
	// Transfer: one parasite child switches to another host lineage.
	Transfer EventKind = 'T'
	// Loss: the parasite lineage is absent at this host node in the realized
	// history.
	Loss EventKind = 'L'
)

// String returns the single-letter code of the kind.
func (k EventKind) String() string { return string(rune(k)) }

// Mapping associates a parasite node with the host node it is placed on.
// The zero Mapping stands for a null child slot in an event record.
type Mapping struct {
	Parasite string
	Host     string
}

// IsZero reports whether the mapping is a null child slot.
func (m Mapping) IsZero() bool { return m == Mapping{} }

// Event is one event record: the event kind plus the mappings of the two
// parasite children. Child mappings are zero for events without children.
// For a Transfer, Right is the transferred (recipient-side) child.
type Event struct {
	Kind  EventKind
	Left  Mapping
	Right Mapping
}

// IsLeafMapping reports whether the event is a contemporaneous leaf mapping:
// a Cospeciation with both child slots null.
func (e Event) IsLeafMapping() bool {
	return e.Kind == Cospeciation && e.Left.IsZero() && e.Right.IsZero()
}

// Reconciliation maps each node mapping to its candidate event records.
// Every present mapping must carry at least one record.
type Reconciliation map[Mapping][]Event

// Primary returns the authoritative (first) event record for m, and whether
// m is part of the reconciliation at all.
func (r Reconciliation) Primary(m Mapping) (Event, bool) {
	events, ok := r[m]
	if !ok || len(events) == 0 {
		return Event{}, false
	}
	return events[0], true
}

// IsLeafMapping reports whether m is present and its primary event is a
// contemporaneous leaf mapping. Mappings absent from the reconciliation are
// not leaf mappings.
func (r Reconciliation) IsLeafMapping(m Mapping) bool {
	e, ok := r.Primary(m)
	return ok && e.IsLeafMapping()
}

// Frequencies annotates non-contemporaneous event records with weights.
// The temporal core never consumes these; they ride along for downstream
// cost scoring.
type Frequencies map[Event]float64
