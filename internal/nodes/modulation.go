package nodes

import (
	"github.com/basswave/raudio/internal/engine"
	"github.com/basswave/raudio/pkg/dsp/modulation"
)

func stereoInOut(in, out [][]float32, numSamples int) (inL, inR, outL, outR []float32, ok bool) {
	if len(in) < 2 || len(out) < 2 {
		return nil, nil, nil, nil, false
	}
	return in[0][:numSamples], in[1][:numSamples], out[0][:numSamples], out[1][:numSamples], true
}

// Chorus implements the catalogue's supplemental "chorus" node, grounded
// on teacher pkg/dsp/modulation.Chorus.
type Chorus struct {
	engine.Base
	chorus   *modulation.Chorus
	monoR    []float32
}

// NewChorus constructs a chorus node. Params: rateHz (1), depthMs (3),
// delayMs (15), mix (0.5), feedback (0), spread (0.5), voices (2).
func NewChorus(id string) engine.Node {
	return &Chorus{Base: engine.NewBase(id, "chorus", map[string]float32{
		"rateHz":   1,
		"depthMs":  3,
		"delayMs":  15,
		"mix":      0.5,
		"feedback": 0,
		"spread":   0.5,
		"voices":   2,
	})}
}

func (c *Chorus) Prepare(sampleRate float64, maxBlockSize int) {
	c.chorus = modulation.NewChorus(sampleRate)
	if cap(c.monoR) < maxBlockSize {
		c.monoR = make([]float32, maxBlockSize)
	}
}

func (c *Chorus) Process(numSamples int) {
	out := c.Output()
	if !out.Valid() {
		return
	}
	if c.chorus == nil {
		c.Prepare(48000, numSamples)
	}
	c.chorus.SetRate(float64(c.GetParam("rateHz")))
	c.chorus.SetDepth(float64(c.GetParam("depthMs")))
	c.chorus.SetDelay(float64(c.GetParam("delayMs")))
	c.chorus.SetMix(float64(c.GetParam("mix")))
	c.chorus.SetFeedback(float64(c.GetParam("feedback")))
	c.chorus.SetSpread(float64(c.GetParam("spread")))
	c.chorus.SetVoices(int(c.GetParam("voices")))

	inputs := c.Inputs()
	if len(inputs) == 0 || !inputs[0].Valid() {
		for ch := range out.Buffer {
			clear(out.Buffer[ch][:numSamples])
		}
		return
	}
	if inL, inR, outL, outR, ok := stereoInOut(inputs[0].Buffer, out.Buffer, numSamples); ok {
		c.chorus.ProcessStereoBuffer(inL, inR, outL, outR)
		return
	}
	if cap(c.monoR) < numSamples {
		c.monoR = make([]float32, numSamples)
	}
	mono := inputs[0].Buffer[0][:numSamples]
	left := out.Buffer[0][:numSamples]
	c.chorus.ProcessBuffer(mono, left, c.monoR[:numSamples])
}

// Flanger implements the catalogue's supplemental "flanger" node,
// grounded on teacher pkg/dsp/modulation.Flanger.
type Flanger struct {
	engine.Base
	flanger *modulation.Flanger
}

// NewFlanger constructs a flanger node. Params: rateHz (0.5), depthMs
// (2), delayMs (1), feedback (0.5), mix (0.5).
func NewFlanger(id string) engine.Node {
	return &Flanger{Base: engine.NewBase(id, "flanger", map[string]float32{
		"rateHz":   0.5,
		"depthMs":  2,
		"delayMs":  1,
		"feedback": 0.5,
		"mix":      0.5,
	})}
}

func (f *Flanger) Prepare(sampleRate float64, maxBlockSize int) {
	f.flanger = modulation.NewFlanger(sampleRate)
}

func (f *Flanger) Process(numSamples int) {
	out := f.Output()
	if !out.Valid() {
		return
	}
	if f.flanger == nil {
		f.Prepare(48000, numSamples)
	}
	f.flanger.SetRate(float64(f.GetParam("rateHz")))
	f.flanger.SetDepth(float64(f.GetParam("depthMs")))
	f.flanger.SetDelay(float64(f.GetParam("delayMs")))
	f.flanger.SetFeedback(float64(f.GetParam("feedback")))
	f.flanger.SetMix(float64(f.GetParam("mix")))

	inputs := f.Inputs()
	carrierValid := len(inputs) > 0 && inputs[0].Valid()
	for ch := range out.Buffer {
		o := out.Buffer[ch][:numSamples]
		if !carrierValid || ch >= len(inputs[0].Buffer) {
			clear(o)
			continue
		}
		f.flanger.ProcessBuffer(inputs[0].Buffer[ch][:numSamples], o)
	}
}

// Phaser implements the catalogue's supplemental "phaser" node, grounded
// on teacher pkg/dsp/modulation.Phaser.
type Phaser struct {
	engine.Base
	phaser *modulation.Phaser
}

// NewPhaser constructs a phaser node. Params: rateHz (0.5), depth (0.7),
// centerFrequencyHz (1000), feedback (0.5), mix (0.5), stages (4).
func NewPhaser(id string) engine.Node {
	return &Phaser{Base: engine.NewBase(id, "phaser", map[string]float32{
		"rateHz":            0.5,
		"depth":             0.7,
		"centerFrequencyHz": 1000,
		"feedback":          0.5,
		"mix":               0.5,
		"stages":            4,
	})}
}

func (p *Phaser) Prepare(sampleRate float64, maxBlockSize int) {
	p.phaser = modulation.NewPhaser(sampleRate)
}

func (p *Phaser) Process(numSamples int) {
	out := p.Output()
	if !out.Valid() {
		return
	}
	if p.phaser == nil {
		p.Prepare(48000, numSamples)
	}
	p.phaser.SetRate(float64(p.GetParam("rateHz")))
	p.phaser.SetDepth(float64(p.GetParam("depth")))
	p.phaser.SetCenterFrequency(float64(p.GetParam("centerFrequencyHz")))
	p.phaser.SetFeedback(float64(p.GetParam("feedback")))
	p.phaser.SetMix(float64(p.GetParam("mix")))
	p.phaser.SetStages(int(p.GetParam("stages")))

	inputs := p.Inputs()
	carrierValid := len(inputs) > 0 && inputs[0].Valid()
	for ch := range out.Buffer {
		o := out.Buffer[ch][:numSamples]
		if !carrierValid || ch >= len(inputs[0].Buffer) {
			clear(o)
			continue
		}
		p.phaser.ProcessBuffer(inputs[0].Buffer[ch][:numSamples], o)
	}
}

// RingMod implements the catalogue's supplemental "ring_mod" node,
// grounded on teacher pkg/dsp/modulation.RingModulator.
type RingMod struct {
	engine.Base
	ring *modulation.RingModulator
}

// NewRingMod constructs a ring_mod node. Params: carrierHz (440), mix
// (1), waveform (0=sine), lfoEnabled (0), lfoRateHz (0.5), lfoDepth (0.5).
func NewRingMod(id string) engine.Node {
	return &RingMod{Base: engine.NewBase(id, "ring_mod", map[string]float32{
		"carrierHz":  440,
		"mix":        1,
		"waveform":   float32(modulation.WaveformSine),
		"lfoEnabled": 0,
		"lfoRateHz":  0.5,
		"lfoDepth":   0.5,
	})}
}

func (r *RingMod) Prepare(sampleRate float64, maxBlockSize int) {
	r.ring = modulation.NewRingModulator(sampleRate)
}

func (r *RingMod) Process(numSamples int) {
	out := r.Output()
	if !out.Valid() {
		return
	}
	if r.ring == nil {
		r.Prepare(48000, numSamples)
	}
	r.ring.SetFrequency(float64(r.GetParam("carrierHz")))
	r.ring.SetMix(float64(r.GetParam("mix")))
	r.ring.SetWaveform(modulation.Waveform(int(r.GetParam("waveform"))))
	r.ring.EnableLFO(r.GetParam("lfoEnabled") > 0.5)
	r.ring.SetLFORate(float64(r.GetParam("lfoRateHz")))
	r.ring.SetLFODepth(float64(r.GetParam("lfoDepth")))

	inputs := r.Inputs()
	carrierValid := len(inputs) > 0 && inputs[0].Valid()
	for ch := range out.Buffer {
		o := out.Buffer[ch][:numSamples]
		if !carrierValid || ch >= len(inputs[0].Buffer) {
			clear(o)
			continue
		}
		r.ring.ProcessBuffer(inputs[0].Buffer[ch][:numSamples], o)
	}
}

// TremoloMod implements the catalogue's supplemental "tremolo" node,
// grounded on teacher pkg/dsp/modulation.Tremolo.
type TremoloMod struct {
	engine.Base
	tremolo *modulation.Tremolo
}

// NewTremoloMod constructs a tremolo node. Params: rateHz (5), depth
// (0.5), waveform (0=sine), mode (0), stereoPhaseOffset (0).
func NewTremoloMod(id string) engine.Node {
	return &TremoloMod{Base: engine.NewBase(id, "tremolo", map[string]float32{
		"rateHz":            5,
		"depth":             0.5,
		"waveform":          float32(modulation.WaveformSine),
		"mode":              0,
		"stereoPhaseOffset": 0,
	})}
}

func (t *TremoloMod) Prepare(sampleRate float64, maxBlockSize int) {
	t.tremolo = modulation.NewTremolo(sampleRate)
}

func (t *TremoloMod) Process(numSamples int) {
	out := t.Output()
	if !out.Valid() {
		return
	}
	if t.tremolo == nil {
		t.Prepare(48000, numSamples)
	}
	t.tremolo.SetRate(float64(t.GetParam("rateHz")))
	t.tremolo.SetDepth(float64(t.GetParam("depth")))
	t.tremolo.SetWaveform(modulation.Waveform(int(t.GetParam("waveform"))))
	t.tremolo.SetMode(modulation.TremoloMode(int(t.GetParam("mode"))))
	t.tremolo.SetStereoPhase(float64(t.GetParam("stereoPhaseOffset")))

	inputs := t.Inputs()
	if len(inputs) == 0 || !inputs[0].Valid() {
		for ch := range out.Buffer {
			clear(out.Buffer[ch][:numSamples])
		}
		return
	}
	if inL, inR, outL, outR, ok := stereoInOut(inputs[0].Buffer, out.Buffer, numSamples); ok {
		t.tremolo.SetStereo(true)
		t.tremolo.ProcessStereoBuffer(inL, inR, outL, outR)
		return
	}
	t.tremolo.SetStereo(false)
	t.tremolo.ProcessBuffer(inputs[0].Buffer[0][:numSamples], out.Buffer[0][:numSamples])
}
