package engine

import (
	"sync/atomic"

	"github.com/google/uuid"
)

// ParamUpdate is one record carried across the SPSC Ring from the message
// thread's queued parameter path to the real-time thread's block-start
// drain.
type ParamUpdate struct {
	NodeID string
	Params map[string]float32
}

// Authority is the message-thread-owned source of truth for graph topology.
// Every method on Authority must be called from a single serialized
// caller — the message thread — never concurrently with itself; the
// real-time thread only ever observes Authority's state through the
// published Snapshot returned by Active.
//
// Node removal needs no explicit epoch bookkeeping here: a removed node is
// deleted from nodes immediately, so the only remaining reference is the
// old Snapshot the real-time thread may still be holding for the block in
// flight. Once that block returns and a newer Snapshot has been published,
// the old one becomes unreachable and the garbage collector reclaims it
// and every node it referenced — the deferred-destruction hand-off the
// original engine implements by hand falls out of Go's memory model for
// free.
type Authority struct {
	catalogue   *Catalogue
	diagnostics *Diagnostics
	metrics     *Metrics

	sampleRate   float64
	maxBlockSize int

	nodeOrder    []string
	nodes        map[string]Node
	connections  []Connection
	outputNodeID string
	inputNodeIDs map[int]string

	generation uint64
	active     atomic.Pointer[Snapshot]
}

// NewAuthority builds an authority with an empty, already-published
// snapshot at generation 0.
func NewAuthority(cat *Catalogue, diag *Diagnostics, metrics *Metrics, sampleRate float64, maxBlockSize int) *Authority {
	a := &Authority{
		catalogue:    cat,
		diagnostics:  diag,
		metrics:      metrics,
		sampleRate:   sampleRate,
		maxBlockSize: maxBlockSize,
		nodes:        make(map[string]Node),
		inputNodeIDs: make(map[int]string),
	}
	a.active.Store(newSnapshot())
	return a
}

// Active returns the currently published snapshot. Safe to call from the
// real-time thread; this is the acquire load described in SPEC_FULL.md §4.3.
func (a *Authority) Active() *Snapshot {
	return a.active.Load()
}

// Generation reports the most recently published snapshot's generation
// number, for tests and diagnostics.
func (a *Authority) Generation() uint64 {
	return a.generation
}

// ApplyBatch applies every op in order, then rebuilds and publishes exactly
// one snapshot if any op in the batch touched topology. Op application and
// publication both happen synchronously before ApplyBatch returns.
func (a *Authority) ApplyBatch(ops []Op) {
	batchID := uuid.New()
	dirty := false
	for _, op := range ops {
		if a.applyOp(op, batchID) {
			dirty = true
		}
	}
	if dirty {
		a.rebuildAndPublish()
	}
}

// applyOp applies a single op and reports whether it changed topology and
// therefore requires a snapshot rebuild.
func (a *Authority) applyOp(op Op, batchID uuid.UUID) bool {
	switch op.Kind {
	case OpAddNode:
		a.addNode(op, batchID)
		return true
	case OpRemoveNode:
		a.removeNode(op.NodeID)
		return true
	case OpConnect:
		a.connect(op.FromNodeID, op.FromOutlet, op.ToNodeID, op.ToInlet)
		return true
	case OpDisconnect:
		a.disconnect(op.FromNodeID, op.FromOutlet, op.ToNodeID, op.ToInlet)
		return true
	case OpSetOutput:
		a.outputNodeID = op.NodeID
		return true
	case OpUpdateParams:
		a.SetNodeParams(op.NodeID, op.Params)
		return false
	default:
		return false
	}
}

func (a *Authority) addNode(op Op, batchID uuid.UUID) {
	if op.Type == inputTypeTag {
		bus := 0
		if ch, ok := op.Params["channel"]; ok {
			bus = int(ch)
		}
		a.inputNodeIDs[bus] = op.NodeID
		return
	}

	node, ok := a.catalogue.Build(op.NodeID, op.Type)
	if !ok {
		if a.diagnostics != nil {
			a.diagnostics.UnknownNodeType(op.NodeID, op.Type, batchID)
		}
		return
	}
	for name, v := range op.Params {
		node.SetParam(name, v)
	}
	node.Prepare(a.sampleRate, a.maxBlockSize)

	if _, exists := a.nodes[op.NodeID]; !exists {
		a.nodeOrder = append(a.nodeOrder, op.NodeID)
	}
	a.nodes[op.NodeID] = node
}

func (a *Authority) removeNode(id string) {
	if _, ok := a.nodes[id]; ok {
		delete(a.nodes, id)
		for i, existing := range a.nodeOrder {
			if existing == id {
				a.nodeOrder = append(a.nodeOrder[:i], a.nodeOrder[i+1:]...)
				break
			}
		}
	}

	kept := a.connections[:0]
	for _, c := range a.connections {
		if c.FromNodeID != id && c.ToNodeID != id {
			kept = append(kept, c)
		}
	}
	a.connections = kept

	if a.outputNodeID == id {
		a.outputNodeID = ""
	}
	for bus, nodeID := range a.inputNodeIDs {
		if nodeID == id {
			delete(a.inputNodeIDs, bus)
		}
	}
}

func (a *Authority) connect(fromID string, fromOutlet int, toID string, toInlet int) {
	for i, c := range a.connections {
		if c.ToNodeID == toID && c.ToInlet == toInlet {
			a.connections[i] = Connection{FromNodeID: fromID, FromOutlet: fromOutlet, ToNodeID: toID, ToInlet: toInlet}
			return
		}
	}
	a.connections = append(a.connections, Connection{FromNodeID: fromID, FromOutlet: fromOutlet, ToNodeID: toID, ToInlet: toInlet})
}

func (a *Authority) disconnect(fromID string, fromOutlet int, toID string, toInlet int) {
	for i, c := range a.connections {
		if c.FromNodeID == fromID && c.FromOutlet == fromOutlet && c.ToNodeID == toID && c.ToInlet == toInlet {
			a.connections = append(a.connections[:i], a.connections[i+1:]...)
			return
		}
	}
}

// SetNodeParam is the fast path: a direct, unbatched write to a node's
// atomic parameter cell. No snapshot rebuild follows — parameters never
// affect topology.
func (a *Authority) SetNodeParam(id, name string, value float32) {
	if n, ok := a.nodes[id]; ok {
		n.SetParam(name, value)
	}
}

// SetNodeParams applies a batch of parameter writes to one node.
func (a *Authority) SetNodeParams(id string, params map[string]float32) {
	n, ok := a.nodes[id]
	if !ok {
		return
	}
	for name, v := range params {
		n.SetParam(name, v)
	}
}

// Prepare re-prepares every owned node for a new sample rate or block size
// and republishes a snapshot; called when the host changes either.
func (a *Authority) Prepare(sampleRate float64, maxBlockSize int) {
	a.sampleRate = sampleRate
	a.maxBlockSize = maxBlockSize
	for _, id := range a.nodeOrder {
		a.nodes[id].Prepare(sampleRate, maxBlockSize)
	}
	a.rebuildAndPublish()
}

func (a *Authority) rebuildAndPublish() {
	order, omitted := buildProcessingOrder(a.nodeOrder, a.nodes, a.connections)

	for _, c := range a.connections {
		_, fromOK := a.nodes[c.FromNodeID]
		_, toOK := a.nodes[c.ToNodeID]
		if !fromOK || !toOK {
			if a.diagnostics != nil {
				a.diagnostics.DanglingConnection(c)
			}
		}
	}

	if len(omitted) > 0 {
		if a.diagnostics != nil {
			a.diagnostics.CycleDetected(omitted, a.generation+1)
		}
		if a.metrics != nil {
			a.metrics.CycleDetectedTotal.Inc()
		}
	}

	snap := newSnapshot()
	a.generation++
	snap.Generation = a.generation
	snap.ProcessingOrder = order
	snap.Connections = append([]Connection(nil), a.connections...)
	snap.OutputNodeID = a.outputNodeID
	snap.OmittedNodeIDs = omitted
	for bus, id := range a.inputNodeIDs {
		snap.InputNodeIDs[bus] = id
	}
	for id, n := range a.nodes {
		snap.NodeLookup[id] = n
	}

	if a.metrics != nil {
		a.metrics.ActiveNodeCount.Set(float64(len(a.nodes)))
	}

	a.active.Store(snap)
}
