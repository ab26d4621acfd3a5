package engine

const defaultRingCapacity = 256

// Engine combines a Graph Authority, a Block Processor, a shared parameter
// Ring and a BufferPool into the one object a host shell needs to embed.
// Construction wires them together; everything else is delegated.
type Engine struct {
	authority *Authority
	processor *Processor
	ring      *Ring[ParamUpdate]
	pool      *BufferPool

	diagnostics *Diagnostics
	metrics     *Metrics
}

// Config gathers the fixed parameters a host decides at load time.
type Config struct {
	SampleRate   float64
	MaxBlockSize int
	Channels     int
	RingCapacity int // must be a power of two; 0 selects defaultRingCapacity
	PoolSlots    int // 0 selects defaultPoolSize
}

// NewEngine builds an Engine around cat. metrics may be nil to disable
// Prometheus instrumentation entirely (tests commonly pass nil to avoid
// colliding with the default registry across parallel packages).
func NewEngine(cat *Catalogue, diag *Diagnostics, metrics *Metrics, cfg Config) *Engine {
	if diag == nil {
		diag = NewDiagnostics()
	}
	ringCap := cfg.RingCapacity
	if ringCap == 0 {
		ringCap = defaultRingCapacity
	}

	authority := NewAuthority(cat, diag, metrics, cfg.SampleRate, cfg.MaxBlockSize)
	pool := NewBufferPool(cfg.Channels, cfg.MaxBlockSize, cfg.PoolSlots, diag, metrics)
	ring := NewRing[ParamUpdate](ringCap)
	processor := NewProcessor(authority, pool, ring, metrics, cfg.Channels, cfg.MaxBlockSize)

	return &Engine{
		authority:   authority,
		processor:   processor,
		ring:        ring,
		pool:        pool,
		diagnostics: diag,
		metrics:     metrics,
	}
}

// SubmitOps applies a batch of graph operations on the message thread and
// republishes a snapshot if any op touched topology.
func (e *Engine) SubmitOps(ops ...Op) {
	e.authority.ApplyBatch(ops)
}

// SetNodeParam is the message thread's fast parameter path.
func (e *Engine) SetNodeParam(nodeID, name string, value float32) {
	e.authority.SetNodeParam(nodeID, name, value)
}

// QueueParamUpdate is the message thread's queued parameter path: it
// pushes onto the SPSC Ring for the real-time thread to drain at the start
// of its next block. Returns false if the ring is full.
func (e *Engine) QueueParamUpdate(nodeID string, params map[string]float32) bool {
	ok := e.ring.Push(ParamUpdate{NodeID: nodeID, Params: params})
	if !ok && e.diagnostics != nil {
		e.diagnostics.RingFull(nodeID)
	}
	if !ok && e.metrics != nil {
		e.metrics.RingFullTotal.Inc()
	}
	return ok
}

// Reprepare re-prepares every node for a changed sample rate or block size.
func (e *Engine) Reprepare(sampleRate float64, maxBlockSize int) {
	e.authority.Prepare(sampleRate, maxBlockSize)
}

// ProcessBlock is the real-time entry point; see Processor.ProcessBlock.
func (e *Engine) ProcessBlock(hostInputs map[int][][]float32, hostOutput [][]float32, numSamples int) {
	e.processor.ProcessBlock(hostInputs, hostOutput, numSamples)
}

// Generation exposes the authority's current snapshot generation, for
// tests and diagnostics readouts.
func (e *Engine) Generation() uint64 {
	return e.authority.Generation()
}

// ActiveSnapshot exposes the currently published snapshot, for tests.
func (e *Engine) ActiveSnapshot() *Snapshot {
	return e.authority.Active()
}
