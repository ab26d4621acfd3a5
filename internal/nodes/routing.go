package nodes

import "github.com/basswave/raudio/internal/engine"

// Merge implements the catalogue's "merge" node: sums every wired inlet
// into the single output, channel by channel.
type Merge struct {
	engine.Base
}

// NewMerge constructs a merge node. It carries no parameters beyond bypass.
func NewMerge(id string) engine.Node {
	return &Merge{Base: engine.NewBase(id, "merge", map[string]float32{})}
}

func (m *Merge) Prepare(sampleRate float64, maxBlockSize int) {}

func (m *Merge) Process(numSamples int) {
	out := m.Output()
	if !out.Valid() {
		return
	}
	for ch := range out.Buffer {
		clear(out.Buffer[ch][:numSamples])
	}
	for _, in := range m.Inputs() {
		if !in.Valid() {
			continue
		}
		for ch := range out.Buffer {
			if ch >= len(in.Buffer) {
				continue
			}
			o := out.Buffer[ch]
			src := in.Buffer[ch]
			for i := 0; i < numSamples; i++ {
				o[i] += src[i]
			}
		}
	}
}

// Split implements the catalogue's "split" node: copies inlet 0 to the
// output channel by channel; output channels that inlet 0 does not have
// are left silent. Downstream fan-out to multiple nodes
// is a property of the connection list, not of this node, so Split is
// simply a passthrough with a distinct type tag for readability.
type Split struct {
	engine.Base
}

// NewSplit constructs a split node. It carries no parameters beyond bypass.
func NewSplit(id string) engine.Node {
	return &Split{Base: engine.NewBase(id, "split", map[string]float32{})}
}

func (s *Split) Prepare(sampleRate float64, maxBlockSize int) {}

func (s *Split) Process(numSamples int) {
	s.ProcessBypass(numSamples)
}
