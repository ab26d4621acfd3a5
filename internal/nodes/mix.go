package nodes

import (
	"github.com/basswave/raudio/internal/engine"
	"github.com/basswave/raudio/pkg/dsp/mix"
)

// Mix implements the catalogue's "mix" node: a two-input crossfader with a
// smoothed mix coefficient, grounded on pkg/dsp/mix's crossfade helpers.
type Mix struct {
	engine.Base
	smoothed float32
	primed   bool
}

// NewMix constructs a mix node. Params: position (0=100% inlet 0, 1=100%
// inlet 1), smoothingMs, equalPower (0/1).
func NewMix(id string) engine.Node {
	return &Mix{Base: engine.NewBase(id, "mix", map[string]float32{
		"position":    0.5,
		"smoothingMs": 10,
		"equalPower":  1,
	})}
}

func (m *Mix) Prepare(sampleRate float64, maxBlockSize int) {}

func (m *Mix) Process(numSamples int) {
	out := m.Output()
	if !out.Valid() {
		return
	}
	inputs := m.Inputs()
	target := m.GetParam("position")
	equalPower := m.GetParam("equalPower") > 0.5

	if !m.primed {
		m.smoothed = target
		m.primed = true
	}
	// The per-sample smoothing factor is a fixed constant; the smoothingMs
	// parameter is not read.
	const smoothingFactor = 0.1

	for ch := range out.Buffer {
		o := out.Buffer[ch]
		var a, b []float32
		if len(inputs) > 0 && inputs[0].Valid() && ch < len(inputs[0].Buffer) {
			a = inputs[0].Buffer[ch]
		}
		if len(inputs) > 1 && inputs[1].Valid() && ch < len(inputs[1].Buffer) {
			b = inputs[1].Buffer[ch]
		}
		pos := m.smoothed
		for i := 0; i < numSamples; i++ {
			pos += (target - pos) * smoothingFactor
			var av, bv float32
			if a != nil {
				av = a[i]
			}
			if b != nil {
				bv = b[i]
			}
			o[i] = mix.CrossfadeLinear(av, bv, pos)
			if equalPower {
				o[i] = mix.CrossfadeCosine(av, bv, pos)
			}
		}
		m.smoothed = pos
	}
}
