package nodes

import (
	"github.com/basswave/raudio/internal/engine"
	"github.com/basswave/raudio/pkg/dsp/gain"
)

// Gain implements the catalogue's "gain" node: a scalar amplitude stage
// that also supports amplitude modulation when inlet 1 is wired, ground
// in pkg/dsp/gain's buffer helpers.
type Gain struct {
	engine.Base
}

// NewGain constructs a gain node with "gain" (linear) and "gainDb" params;
// gainDb, when non-zero, takes precedence over the linear gain parameter.
func NewGain(id string) engine.Node {
	return &Gain{Base: engine.NewBase(id, "gain", map[string]float32{
		"gain":   1.0,
		"gainDb": 0.0,
	})}
}

func (g *Gain) Prepare(sampleRate float64, maxBlockSize int) {}

func (g *Gain) Process(numSamples int) {
	out := g.Output()
	if !out.Valid() {
		return
	}
	inputs := g.Inputs()

	amount := g.GetParam("gain")
	if db := g.GetParam("gainDb"); db != 0 {
		amount = gain.DbToLinear32(db)
	}

	var modulator []float32
	if len(inputs) > 1 && inputs[1].Valid() && len(inputs[1].Buffer) > 0 {
		modulator = inputs[1].Buffer[0]
	}

	for ch := range out.Buffer {
		o := out.Buffer[ch]
		if len(inputs) == 0 || !inputs[0].Valid() || ch >= len(inputs[0].Buffer) {
			clear(o[:numSamples])
			continue
		}
		in := inputs[0].Buffer[ch]
		if modulator != nil {
			for i := 0; i < numSamples; i++ {
				o[i] = in[i] * amount * modulator[i]
			}
		} else {
			gain.ApplyBufferTo(in[:numSamples], amount, o[:numSamples])
		}
	}
}
