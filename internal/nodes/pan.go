package nodes

import (
	"github.com/basswave/raudio/internal/engine"
	"github.com/basswave/raudio/pkg/dsp/pan"
)

// Pan implements the catalogue's "pan" node: mono-to-stereo and
// stereo-to-stereo panning with linear or equal-power law, grounded on
// pkg/dsp/pan.
type Pan struct {
	engine.Base
}

// NewPan constructs a pan node. Params: pan (-1..1), law (0=linear,
// 1=constant-power, 2=balanced).
func NewPan(id string) engine.Node {
	return &Pan{Base: engine.NewBase(id, "pan", map[string]float32{
		"pan": 0,
		"law": float32(pan.ConstantPower),
	})}
}

func (p *Pan) Prepare(sampleRate float64, maxBlockSize int) {}

func (p *Pan) Process(numSamples int) {
	out := p.Output()
	if !out.Valid() || len(out.Buffer) < 2 {
		return
	}
	inputs := p.Inputs()
	law := pan.Law(int(p.GetParam("law")))
	amount := p.GetParam("pan")

	if len(inputs) == 0 || !inputs[0].Valid() {
		clear(out.Buffer[0][:numSamples])
		clear(out.Buffer[1][:numSamples])
		return
	}
	in := inputs[0].Buffer
	if len(in) >= 2 {
		pan.ProcessStereo(in[0][:numSamples], in[1][:numSamples], amount, law, out.Buffer[0][:numSamples], out.Buffer[1][:numSamples])
		return
	}
	pan.Process(in[0][:numSamples], amount, law, out.Buffer[0][:numSamples], out.Buffer[1][:numSamples])
}
