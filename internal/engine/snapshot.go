package engine

// Snapshot is an immutable description of the active graph topology. It is
// built entirely on the message thread and never mutated after
// publication; the real-time thread holds one Snapshot pointer for the
// duration of a block.
type Snapshot struct {
	// Generation increases by one on every publish; exposed for tests and
	// diagnostics. Removed nodes need no generation bookkeeping: the
	// garbage collector reclaims them once no snapshot references them
	// (see Authority).
	Generation uint64

	ProcessingOrder []Node
	Connections     []Connection
	OutputNodeID    string
	InputNodeIDs    map[int]string // bus index -> node id
	NodeLookup      map[string]Node

	// OmittedNodeIDs lists nodes the scheduler could not place (part of a
	// cycle, or otherwise unreachable) for this generation — exposed for
	// diagnostics and tests, never consulted by the block processor.
	OmittedNodeIDs []string
}

func newSnapshot() *Snapshot {
	return &Snapshot{
		InputNodeIDs: make(map[int]string),
		NodeLookup:   make(map[string]Node),
	}
}
