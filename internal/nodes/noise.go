package nodes

import (
	"github.com/basswave/raudio/internal/engine"
	"github.com/basswave/raudio/pkg/dsp/utility"
)

// Noise colors, encoded as the "color" param's float value.
const (
	NoiseWhite = iota
	NoisePink
	NoiseBrown
	NoiseBlue
	NoiseViolet
)

// Noise implements the catalogue's "noise" node: a colored-noise source,
// grounded on pkg/dsp/utility.NoiseGenerator. One generator per output
// channel, so stereo output is decorrelated rather than dual-mono.
type Noise struct {
	engine.Base
	gens []*utility.NoiseGenerator
}

// NewNoise constructs a noise node. Params: color (0-4, see the Noise*
// constants), gain (linear).
func NewNoise(id string) engine.Node {
	return &Noise{Base: engine.NewBase(id, "noise", map[string]float32{
		"color": NoiseWhite,
		"gain":  1.0,
	})}
}

func (n *Noise) Prepare(sampleRate float64, maxBlockSize int) {
	if len(n.gens) == 0 {
		n.gens = make([]*utility.NoiseGenerator, 2)
		for ch := range n.gens {
			n.gens[ch] = utility.NewNoiseGenerator(utility.NoiseType(n.GetParam("color")))
		}
	}
}

func (n *Noise) Process(numSamples int) {
	out := n.Output()
	if !out.Valid() {
		return
	}
	if len(n.gens) < len(out.Buffer) {
		n.Prepare(0, numSamples)
	}

	color := utility.NoiseType(n.GetParam("color"))
	gain := n.GetParam("gain")

	for ch := range out.Buffer {
		gen := n.gens[ch%len(n.gens)]
		gen.SetType(color)
		gen.Generate(out.Buffer[ch][:numSamples])
		if gain != 1 {
			for i := range out.Buffer[ch][:numSamples] {
				out.Buffer[ch][i] *= gain
			}
		}
	}
}
