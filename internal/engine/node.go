package engine

// BufferRef is a non-owning reference to a slot in a BufferPool, or to a
// host-supplied buffer (Index < 0) for input nodes. It is copied by value
// through the per-block wiring step; the underlying storage is only valid
// for the duration of the block it was acquired in.
type BufferRef struct {
	Buffer [][]float32
	Index  int
}

// Valid reports whether the reference points at real storage.
func (r BufferRef) Valid() bool {
	return r.Buffer != nil
}

// silence is shared, read-only zero storage handed to unwired inlets. It is
// never written to; every node contract in this package treats an inlet's
// buffer as read-only input.
var silenceChannel = make([]float32, 0, 8192)

func silenceRef(channels, numSamples int) BufferRef {
	if cap(silenceChannel) < numSamples {
		silenceChannel = make([]float32, numSamples)
	}
	buf := make([][]float32, channels)
	z := silenceChannel[:numSamples]
	for ch := range buf {
		buf[ch] = z
	}
	return BufferRef{Buffer: buf, Index: -1}
}

// Node is the DSP contract every graph participant implements. Prepare is
// called on the message thread; Process, ProcessBypass, SetParam and
// GetParam are called on the real-time thread and must not allocate, lock,
// or block.
type Node interface {
	ID() string
	Type() string

	// Prepare is called before the node is first published in a Snapshot,
	// and again whenever the sample rate changes. May allocate.
	Prepare(sampleRate float64, maxBlockSize int)

	// Process reads Inputs() and writes Output(). Called at most once per
	// block on the real-time thread.
	Process(numSamples int)

	// ProcessBypass copies inlet 0 to the output; called instead of
	// Process when the bypass parameter exceeds 0.5.
	ProcessBypass(numSamples int)

	SetParam(name string, value float32)
	GetParam(name string) float32
	Bypassed() bool

	// Inputs/SetInputs and Output/SetOutput are the per-block wiring
	// surface the Processor uses; nodes read Inputs() and write into the
	// buffer returned by Output() during Process/ProcessBypass.
	Inputs() []BufferRef
	SetInputs(refs []BufferRef)
	Output() BufferRef
	SetOutput(ref BufferRef)
}

// Base implements the bookkeeping shared by every concrete Node: identity,
// the atomic parameter set, and per-block wiring storage. Concrete node
// types embed Base and implement Prepare/Process themselves.
type Base struct {
	id       string
	nodeType string
	params   *ParamSet

	inputs []BufferRef
	output BufferRef
}

// NewBase constructs the shared node state. defaults must include every
// parameter the concrete node type will ever reference.
func NewBase(id, nodeType string, defaults map[string]float32) Base {
	return Base{
		id:       id,
		nodeType: nodeType,
		params:   NewParamSet(defaults),
	}
}

func (b *Base) ID() string   { return b.id }
func (b *Base) Type() string { return b.nodeType }

func (b *Base) SetParam(name string, value float32) { b.params.Set(name, value) }
func (b *Base) GetParam(name string) float32        { return b.params.Get(name) }
func (b *Base) Bypassed() bool                      { return b.params.Bypassed() }

func (b *Base) Inputs() []BufferRef       { return b.inputs }
func (b *Base) SetInputs(refs []BufferRef) { b.inputs = refs }
func (b *Base) Output() BufferRef          { return b.output }
func (b *Base) SetOutput(ref BufferRef)    { b.output = ref }

// ProcessBypass provides the default inlet-0-to-output passthrough; node
// types that need different bypass behavior (there are none in this
// catalogue) can override it by shadowing the method.
func (b *Base) ProcessBypass(numSamples int) {
	if !b.output.Valid() {
		return
	}
	out := b.output.Buffer
	if len(b.inputs) == 0 || !b.inputs[0].Valid() {
		for ch := range out {
			clear(out[ch][:numSamples])
		}
		return
	}
	in := b.inputs[0].Buffer
	for ch := range out {
		if ch < len(in) {
			copy(out[ch][:numSamples], in[ch][:numSamples])
		} else {
			clear(out[ch][:numSamples])
		}
	}
}
