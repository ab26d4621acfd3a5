package engine

import "time"

// Processor is the real-time entry point: one ProcessBlock call turns one
// host callback into one pass of the graph. Every field it touches during
// ProcessBlock is either lock-free (the ring, the snapshot pointer) or
// owned exclusively by the real-time thread for the duration of the call
// (the buffer pool and the two scratch maps below).
type Processor struct {
	authority *Authority
	pool      *BufferPool
	ring      *Ring[ParamUpdate]
	metrics   *Metrics

	channels     int
	maxBlockSize int

	// nodeOutputs and inletScratch are reused block to block; clear() empties
	// a map's entries without releasing its backing storage, so after the
	// topology has been stable for one block neither map grows again.
	nodeOutputs  map[string]BufferRef
	inletScratch map[string][]BufferRef

	silence BufferRef
}

// NewProcessor wires a Processor to its authority, pool and parameter ring.
func NewProcessor(authority *Authority, pool *BufferPool, ring *Ring[ParamUpdate], metrics *Metrics, channels, maxBlockSize int) *Processor {
	return &Processor{
		authority:    authority,
		pool:         pool,
		ring:         ring,
		metrics:      metrics,
		channels:     channels,
		maxBlockSize: maxBlockSize,
		nodeOutputs:  make(map[string]BufferRef, defaultPoolSize),
		inletScratch: make(map[string][]BufferRef, defaultPoolSize),
		silence:      silenceRef(channels, maxBlockSize),
	}
}

// ProcessBlock implements the seven-step algorithm: drain parameter
// updates, acquire-load the snapshot, reset the pool, seed host inputs,
// walk the processing order wiring and invoking each node, copy the output
// node's buffer to the host, and drop the pool's reference to the host
// input by clearing nodeOutputs for the next call.
//
// hostInputs maps input-bus index to the host's buffer for that bus;
// hostOutput is the host's main output buffer, channel count possibly
// smaller than the graph's internal channel count.
func (p *Processor) ProcessBlock(hostInputs map[int][][]float32, hostOutput [][]float32, numSamples int) {
	if p.metrics != nil {
		start := time.Now()
		defer func() { p.metrics.BlockDuration.Observe(time.Since(start).Seconds()) }()
	}

	snap := p.authority.Active()

	var upd ParamUpdate
	for p.ring.Pop(&upd) {
		if n, ok := snap.NodeLookup[upd.NodeID]; ok {
			for name, v := range upd.Params {
				n.SetParam(name, v)
			}
		}
	}

	if snap == nil {
		clearChannels(hostOutput, numSamples)
		return
	}

	p.pool.ResetAll()
	clear(p.nodeOutputs)

	for bus, nodeID := range snap.InputNodeIDs {
		if buf, ok := hostInputs[bus]; ok {
			p.nodeOutputs[nodeID] = BufferRef{Buffer: buf, Index: -1}
		}
	}

	for _, node := range snap.ProcessingOrder {
		idx := p.pool.Acquire()
		node.SetOutput(BufferRef{Buffer: p.pool.Slot(idx), Index: idx})
		p.wireInputs(node, snap.Connections, numSamples)

		if node.Bypassed() {
			node.ProcessBypass(numSamples)
		} else {
			node.Process(numSamples)
		}

		p.nodeOutputs[node.ID()] = node.Output()
	}

	if snap.OutputNodeID != "" {
		if ref, ok := p.nodeOutputs[snap.OutputNodeID]; ok && ref.Valid() {
			copyChannelsClamped(hostOutput, ref.Buffer, numSamples)
			return
		}
	}
	clearChannels(hostOutput, numSamples)
}

// wireInputs collects every connection targeting node, sorted by inlet,
// into a scratch slice reused across blocks, and assigns it via
// SetInputs. Inlets with no connection, or whose source has not produced
// an output yet this block (omitted by a cycle, or a forward reference),
// read as silence.
func (p *Processor) wireInputs(node Node, conns []Connection, numSamples int) {
	maxInlet := -1
	for _, c := range conns {
		if c.ToNodeID == node.ID() && c.ToInlet > maxInlet {
			maxInlet = c.ToInlet
		}
	}
	if maxInlet < 0 {
		node.SetInputs(nil)
		return
	}

	scratch := p.inletScratch[node.ID()]
	if cap(scratch) < maxInlet+1 {
		scratch = make([]BufferRef, maxInlet+1)
	} else {
		scratch = scratch[:maxInlet+1]
	}
	for i := range scratch {
		scratch[i] = p.silence
	}
	for _, c := range conns {
		if c.ToNodeID != node.ID() {
			continue
		}
		if ref, ok := p.nodeOutputs[c.FromNodeID]; ok {
			scratch[c.ToInlet] = ref
		}
	}
	p.inletScratch[node.ID()] = scratch
	node.SetInputs(scratch)
}

func clearChannels(buf [][]float32, numSamples int) {
	for ch := range buf {
		clear(buf[ch][:numSamples])
	}
}

func copyChannelsClamped(dst, src [][]float32, numSamples int) {
	n := len(dst)
	if len(src) < n {
		n = len(src)
	}
	for ch := 0; ch < n; ch++ {
		copy(dst[ch][:numSamples], src[ch][:numSamples])
	}
	for ch := n; ch < len(dst); ch++ {
		clear(dst[ch][:numSamples])
	}
}
