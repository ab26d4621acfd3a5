package nodes

import (
	"github.com/basswave/raudio/internal/engine"
	"github.com/basswave/raudio/pkg/dsp/utility"
)

// DCBlocker implements the catalogue's "dc_blocker" node: a first-order
// high-pass stage that removes DC offset, grounded on
// pkg/dsp/utility.DCBlocker. Useful ahead of a convolver or waveshaper,
// both of which can otherwise accumulate offset into an asymmetric curve.
type DCBlocker struct {
	engine.Base
	blocker    *utility.DCBlocker
	channels   int
	sampleRate float64
}

// NewDCBlocker constructs a DC-blocker node. Params: cutoffHz.
func NewDCBlocker(id string) engine.Node {
	return &DCBlocker{Base: engine.NewBase(id, "dc_blocker", map[string]float32{
		"cutoffHz": 10,
	})}
}

func (d *DCBlocker) Prepare(sampleRate float64, maxBlockSize int) {
	d.sampleRate = sampleRate
	if d.channels == 0 {
		d.channels = 2
	}
	d.blocker = utility.NewDCBlocker(d.channels, d.GetParam("cutoffHz"), sampleRate)
}

func (d *DCBlocker) Process(numSamples int) {
	out := d.Output()
	if !out.Valid() {
		return
	}
	inputs := d.Inputs()
	carrierValid := len(inputs) > 0 && inputs[0].Valid()

	if d.blocker == nil || d.channels != len(out.Buffer) {
		d.channels = len(out.Buffer)
		d.blocker = utility.NewDCBlocker(d.channels, d.GetParam("cutoffHz"), d.sampleRate)
	}

	if !carrierValid {
		for ch := range out.Buffer {
			clear(out.Buffer[ch][:numSamples])
		}
		return
	}

	in := inputs[0].Buffer
	for ch := range out.Buffer {
		if ch >= len(in) {
			clear(out.Buffer[ch][:numSamples])
			continue
		}
		copy(out.Buffer[ch][:numSamples], in[ch][:numSamples])
		d.blocker.ProcessBuffer(out.Buffer[ch][:numSamples], ch)
	}
}
