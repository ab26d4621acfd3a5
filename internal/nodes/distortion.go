package nodes

import (
	"github.com/basswave/raudio/internal/engine"
	"github.com/basswave/raudio/pkg/dsp/distortion"
)

// Distortion implements the catalogue's "distortion" node: a waveshaper
// with seven selectable transfer curves, grounded on teacher
// pkg/dsp/distortion.Waveshaper.
type Distortion struct {
	engine.Base
	shaper *distortion.Waveshaper
}

// NewDistortion constructs a distortion node. Params: curve (0-6, see
// distortion.CurveType), drive (1), mix (1), dcOffset (0), asymmetry (0).
func NewDistortion(id string) engine.Node {
	return &Distortion{Base: engine.NewBase(id, "distortion", map[string]float32{
		"curve":     float32(distortion.CurveSoftClip),
		"drive":     1,
		"mix":       1,
		"dcOffset":  0,
		"asymmetry": 0,
	})}
}

func (d *Distortion) Prepare(sampleRate float64, maxBlockSize int) {
	d.shaper = distortion.NewWaveshaper(distortion.CurveType(int(d.GetParam("curve"))))
}

func (d *Distortion) Process(numSamples int) {
	out := d.Output()
	if !out.Valid() {
		return
	}
	if d.shaper == nil {
		d.Prepare(48000, numSamples)
	}

	d.shaper.SetCurveType(distortion.CurveType(int(d.GetParam("curve"))))
	d.shaper.SetDrive(float64(d.GetParam("drive")))
	d.shaper.SetMix(float64(d.GetParam("mix")))
	d.shaper.SetDCOffset(float64(d.GetParam("dcOffset")))
	d.shaper.SetAsymmetry(float64(d.GetParam("asymmetry")))

	inputs := d.Inputs()
	carrierValid := len(inputs) > 0 && inputs[0].Valid()
	for ch := range out.Buffer {
		o := out.Buffer[ch][:numSamples]
		if !carrierValid || ch >= len(inputs[0].Buffer) {
			clear(o)
			continue
		}
		in := inputs[0].Buffer[ch][:numSamples]
		for i, v := range in {
			o[i] = float32(d.shaper.Process(float64(v)))
		}
	}
}

// Bitcrusher implements the catalogue's supplemental "bitcrusher" node,
// grounded on teacher pkg/dsp/distortion.Bitcrusher (whose dither
// generator was reseated onto a per-instance xorshift32 generator, the
// same treatment as the lfo node's sample-and-hold).
type Bitcrusher struct {
	engine.Base
	crusher []*distortion.Bitcrusher
}

// NewBitcrusher constructs a bitcrusher node. Params: bitDepth (16),
// sampleRateReduction (1), antiAlias (1), dither (0=none, 1=white,
// 2=triangular), mix (1), output (1).
func NewBitcrusher(id string) engine.Node {
	return &Bitcrusher{Base: engine.NewBase(id, "bitcrusher", map[string]float32{
		"bitDepth":            16,
		"sampleRateReduction": 1,
		"antiAlias":           1,
		"dither":              0,
		"mix":                 1,
		"output":              1,
	})}
}

func (b *Bitcrusher) Prepare(sampleRate float64, maxBlockSize int) {
	channels := 2
	if out := b.Output(); out.Valid() {
		channels = len(out.Buffer)
	}
	b.crusher = make([]*distortion.Bitcrusher, channels)
	for ch := range b.crusher {
		b.crusher[ch] = distortion.NewBitcrusher(sampleRate)
	}
}

func (b *Bitcrusher) Process(numSamples int) {
	out := b.Output()
	if !out.Valid() {
		return
	}
	if len(b.crusher) != len(out.Buffer) {
		b.Prepare(48000, numSamples)
	}
	for _, c := range b.crusher {
		c.SetBitDepth(float64(b.GetParam("bitDepth")))
		c.SetSampleRateReduction(float64(b.GetParam("sampleRateReduction")))
		c.SetAntiAlias(b.GetParam("antiAlias") > 0.5)
		c.SetDither(distortion.DitherType(int(b.GetParam("dither"))))
		c.SetMix(float64(b.GetParam("mix")))
		c.SetOutput(float64(b.GetParam("output")))
	}

	inputs := b.Inputs()
	carrierValid := len(inputs) > 0 && inputs[0].Valid()
	for ch := range out.Buffer {
		o := out.Buffer[ch][:numSamples]
		if !carrierValid || ch >= len(inputs[0].Buffer) {
			clear(o)
			continue
		}
		in := inputs[0].Buffer[ch][:numSamples]
		for i, v := range in {
			o[i] = float32(b.crusher[ch].Process(float64(v)))
		}
	}
}

// TapeSaturation implements the catalogue's supplemental
// "tape_saturator" node, grounded on teacher
// pkg/dsp/distortion.TapeSaturator.
type TapeSaturation struct {
	engine.Base
	tape []*distortion.TapeSaturator
}

// NewTapeSaturation constructs a tape_saturator node. Params: drive (1),
// saturation (0.5), bias (0.15), compression (0.3), warmth (0.3),
// flutter (0.1), mix (1).
func NewTapeSaturation(id string) engine.Node {
	return &TapeSaturation{Base: engine.NewBase(id, "tape_saturator", map[string]float32{
		"drive":       1,
		"saturation":  0.5,
		"bias":        0.15,
		"compression": 0.3,
		"warmth":      0.3,
		"flutter":     0.1,
		"mix":         1,
	})}
}

func (t *TapeSaturation) Prepare(sampleRate float64, maxBlockSize int) {
	channels := 2
	if out := t.Output(); out.Valid() {
		channels = len(out.Buffer)
	}
	t.tape = make([]*distortion.TapeSaturator, channels)
	for ch := range t.tape {
		t.tape[ch] = distortion.NewTapeSaturator(sampleRate)
	}
}

func (t *TapeSaturation) Process(numSamples int) {
	out := t.Output()
	if !out.Valid() {
		return
	}
	if len(t.tape) != len(out.Buffer) {
		t.Prepare(48000, numSamples)
	}
	for _, tt := range t.tape {
		tt.SetDrive(float64(t.GetParam("drive")))
		tt.SetSaturation(float64(t.GetParam("saturation")))
		tt.SetBias(float64(t.GetParam("bias")))
		tt.SetCompression(float64(t.GetParam("compression")))
		tt.SetWarmth(float64(t.GetParam("warmth")))
		tt.SetFlutter(float64(t.GetParam("flutter")))
		tt.SetMix(float64(t.GetParam("mix")))
	}

	inputs := t.Inputs()
	carrierValid := len(inputs) > 0 && inputs[0].Valid()
	for ch := range out.Buffer {
		o := out.Buffer[ch][:numSamples]
		if !carrierValid || ch >= len(inputs[0].Buffer) {
			clear(o)
			continue
		}
		in := inputs[0].Buffer[ch][:numSamples]
		for i, v := range in {
			o[i] = float32(t.tape[ch].Process(float64(v)))
		}
	}
}

// TubeSaturation implements the catalogue's supplemental
// "tube_saturator" node, grounded on teacher
// pkg/dsp/distortion.TubeSaturator.
type TubeSaturation struct {
	engine.Base
	tube []*distortion.TubeSaturator
}

// NewTubeSaturation constructs a tube_saturator node. Params: drive (1),
// bias (0), warmth (0.5), harmonicBalance (0.5), hysteresis (0), mix (1).
func NewTubeSaturation(id string) engine.Node {
	return &TubeSaturation{Base: engine.NewBase(id, "tube_saturator", map[string]float32{
		"drive":           1,
		"bias":            0,
		"warmth":          0.5,
		"harmonicBalance": 0.5,
		"hysteresis":      0,
		"mix":             1,
	})}
}

func (t *TubeSaturation) Prepare(sampleRate float64, maxBlockSize int) {
	channels := 2
	if out := t.Output(); out.Valid() {
		channels = len(out.Buffer)
	}
	t.tube = make([]*distortion.TubeSaturator, channels)
	for ch := range t.tube {
		t.tube[ch] = distortion.NewTubeSaturator(sampleRate)
	}
}

func (t *TubeSaturation) Process(numSamples int) {
	out := t.Output()
	if !out.Valid() {
		return
	}
	if len(t.tube) != len(out.Buffer) {
		t.Prepare(48000, numSamples)
	}
	for _, tt := range t.tube {
		tt.SetDrive(float64(t.GetParam("drive")))
		tt.SetBias(float64(t.GetParam("bias")))
		tt.SetWarmth(float64(t.GetParam("warmth")))
		tt.SetHarmonicBalance(float64(t.GetParam("harmonicBalance")))
		tt.SetHysteresis(float64(t.GetParam("hysteresis")))
		tt.SetMix(float64(t.GetParam("mix")))
	}

	inputs := t.Inputs()
	carrierValid := len(inputs) > 0 && inputs[0].Valid()
	for ch := range out.Buffer {
		o := out.Buffer[ch][:numSamples]
		if !carrierValid || ch >= len(inputs[0].Buffer) {
			clear(o)
			continue
		}
		in := inputs[0].Buffer[ch][:numSamples]
		for i, v := range in {
			o[i] = float32(t.tube[ch].Process(float64(v)))
		}
	}
}
