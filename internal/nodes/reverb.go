package nodes

import (
	"github.com/basswave/raudio/internal/engine"
	"github.com/basswave/raudio/pkg/dsp/delay"
	"github.com/basswave/raudio/pkg/dsp/reverb"
)

const maxPreDelaySeconds = 0.2

// Reverb implements the catalogue's "reverb" node: Schroeder-style
// comb/allpass reverb preceded by a pre-delay line, grounded on teacher
// pkg/dsp/reverb.Schroeder plus the same pkg/dsp/delay.Line used by the
// delay node for the pre-delay stage.
type Reverb struct {
	engine.Base
	schroeder *reverb.Schroeder
	preDelay  []*delay.Line
}

// NewReverb constructs a reverb node. Params: roomSize (0.5), damping
// (0.5), wetLevel (0.3), dryLevel (0.7), width (1), preDelayMs (20).
func NewReverb(id string) engine.Node {
	return &Reverb{Base: engine.NewBase(id, "reverb", map[string]float32{
		"roomSize":   0.5,
		"damping":    0.5,
		"wetLevel":   0.3,
		"dryLevel":   0.7,
		"width":      1,
		"preDelayMs": 20,
	})}
}

func (r *Reverb) Prepare(sampleRate float64, maxBlockSize int) {
	r.schroeder = reverb.NewSchroeder(sampleRate)
	channels := 2
	if out := r.Output(); out.Valid() {
		channels = len(out.Buffer)
	}
	r.preDelay = make([]*delay.Line, channels)
	for ch := range r.preDelay {
		r.preDelay[ch] = delay.New(maxPreDelaySeconds, sampleRate)
	}
}

func (r *Reverb) Process(numSamples int) {
	out := r.Output()
	if !out.Valid() {
		return
	}
	if r.schroeder == nil || len(r.preDelay) != len(out.Buffer) {
		r.Prepare(48000, numSamples)
	}

	r.schroeder.SetRoomSize(float64(r.GetParam("roomSize")))
	r.schroeder.SetDamping(float64(r.GetParam("damping")))
	r.schroeder.SetWetLevel(float64(r.GetParam("wetLevel")))
	r.schroeder.SetDryLevel(float64(r.GetParam("dryLevel")))
	r.schroeder.SetWidth(float64(r.GetParam("width")))
	preDelayMs := float64(r.GetParam("preDelayMs"))

	inputs := r.Inputs()
	carrierValid := len(inputs) > 0 && inputs[0].Valid()
	if !carrierValid {
		for ch := range out.Buffer {
			clear(out.Buffer[ch][:numSamples])
		}
		return
	}
	in := inputs[0].Buffer

	if len(out.Buffer) >= 2 && len(in) >= 2 {
		left, right := out.Buffer[0][:numSamples], out.Buffer[1][:numSamples]
		for i := 0; i < numSamples; i++ {
			r.preDelay[0].Write(in[0][i])
			r.preDelay[1].Write(in[1][i])
			dl, dr := in[0][i], in[1][i]
			if preDelayMs > 0 {
				dl = r.preDelay[0].ReadMs(preDelayMs)
				dr = r.preDelay[1].ReadMs(preDelayMs)
			}
			left[i], right[i] = r.schroeder.ProcessStereo(dl, dr)
		}
		return
	}

	for ch := range out.Buffer {
		o := out.Buffer[ch][:numSamples]
		var src []float32
		if ch < len(in) {
			src = in[ch][:numSamples]
		} else {
			src = in[0][:numSamples]
		}
		for i := 0; i < numSamples; i++ {
			r.preDelay[ch].Write(src[i])
			d := src[i]
			if preDelayMs > 0 {
				d = r.preDelay[ch].ReadMs(preDelayMs)
			}
			o[i] = r.schroeder.Process(d)
		}
	}
}

// Freeverb implements the catalogue's supplemental "freeverb" node,
// grounded on teacher pkg/dsp/reverb.Freeverb.
type Freeverb struct {
	engine.Base
	fv *reverb.Freeverb
}

// NewFreeverb constructs a freeverb node. Params: roomSize (0.5),
// damping (0.5), wetLevel (0.3), dryLevel (0.7), width (1), frozen (0/1).
func NewFreeverb(id string) engine.Node {
	return &Freeverb{Base: engine.NewBase(id, "freeverb", map[string]float32{
		"roomSize": 0.5,
		"damping":  0.5,
		"wetLevel": 0.3,
		"dryLevel": 0.7,
		"width":    1,
		"frozen":   0,
	})}
}

func (f *Freeverb) Prepare(sampleRate float64, maxBlockSize int) {
	f.fv = reverb.NewFreeverb(sampleRate)
}

func (f *Freeverb) Process(numSamples int) {
	out := f.Output()
	if !out.Valid() {
		return
	}
	if f.fv == nil {
		f.Prepare(48000, numSamples)
	}

	f.fv.SetRoomSize(float64(f.GetParam("roomSize")))
	f.fv.SetDamping(float64(f.GetParam("damping")))
	f.fv.SetWetLevel(float64(f.GetParam("wetLevel")))
	f.fv.SetDryLevel(float64(f.GetParam("dryLevel")))
	f.fv.SetWidth(float64(f.GetParam("width")))
	mode := float64(0)
	if f.GetParam("frozen") > 0.5 {
		mode = 1
	}
	f.fv.SetMode(mode)

	inputs := f.Inputs()
	carrierValid := len(inputs) > 0 && inputs[0].Valid()
	if !carrierValid {
		for ch := range out.Buffer {
			clear(out.Buffer[ch][:numSamples])
		}
		return
	}
	in := inputs[0].Buffer

	if len(out.Buffer) >= 2 && len(in) >= 2 {
		left, right := out.Buffer[0][:numSamples], out.Buffer[1][:numSamples]
		for i := 0; i < numSamples; i++ {
			left[i], right[i] = f.fv.ProcessStereo(in[0][i], in[1][i])
		}
		return
	}
	for ch := range out.Buffer {
		o := out.Buffer[ch][:numSamples]
		src := in[0][:numSamples]
		if ch < len(in) {
			src = in[ch][:numSamples]
		}
		for i := range o {
			o[i] = f.fv.Process(src[i])
		}
	}
}

// FDNReverb implements the catalogue's supplemental "fdn_reverb" node: a
// feedback delay network reverb with preset-style decay/damping/diffusion
// controls, grounded on teacher pkg/dsp/reverb.FDN.
type FDNReverb struct {
	engine.Base
	fdn *reverb.FDN
}

const fdnDelayLines = 8

// NewFDNReverb constructs an fdn_reverb node. Params: decay (0.85),
// damping (0.3), diffusion (0.7), modulation (0.1), wetLevel (0.3),
// dryLevel (0.7).
func NewFDNReverb(id string) engine.Node {
	return &FDNReverb{Base: engine.NewBase(id, "fdn_reverb", map[string]float32{
		"decay":      0.85,
		"damping":    0.3,
		"diffusion":  0.7,
		"modulation": 0.1,
		"wetLevel":   0.3,
		"dryLevel":   0.7,
	})}
}

func (f *FDNReverb) Prepare(sampleRate float64, maxBlockSize int) {
	f.fdn = reverb.NewFDN(fdnDelayLines, sampleRate)
}

func (f *FDNReverb) Process(numSamples int) {
	out := f.Output()
	if !out.Valid() {
		return
	}
	if f.fdn == nil {
		f.Prepare(48000, numSamples)
	}

	f.fdn.SetDecay(float64(f.GetParam("decay")))
	f.fdn.SetDamping(float64(f.GetParam("damping")))
	f.fdn.SetDiffusion(float64(f.GetParam("diffusion")))
	f.fdn.SetModulation(float64(f.GetParam("modulation")))
	f.fdn.SetWetLevel(float64(f.GetParam("wetLevel")))
	f.fdn.SetDryLevel(float64(f.GetParam("dryLevel")))

	inputs := f.Inputs()
	carrierValid := len(inputs) > 0 && inputs[0].Valid()
	if !carrierValid {
		for ch := range out.Buffer {
			clear(out.Buffer[ch][:numSamples])
		}
		return
	}
	in := inputs[0].Buffer

	if len(out.Buffer) >= 2 && len(in) >= 2 {
		left, right := out.Buffer[0][:numSamples], out.Buffer[1][:numSamples]
		for i := 0; i < numSamples; i++ {
			left[i], right[i] = f.fdn.ProcessStereo(in[0][i], in[1][i])
		}
		return
	}
	for ch := range out.Buffer {
		o := out.Buffer[ch][:numSamples]
		src := in[0][:numSamples]
		if ch < len(in) {
			src = in[ch][:numSamples]
		}
		for i := range o {
			o[i] = f.fdn.Process(src[i])
		}
	}
}
