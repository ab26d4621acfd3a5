package nodes

import (
	"math"

	"github.com/basswave/raudio/internal/engine"
	"github.com/basswave/raudio/pkg/dsp/oscillator"
)

const (
	waveSine = iota
	waveSaw
	waveSquare
	waveTriangle
)

// Oscillator implements the catalogue's "oscillator" node: sine/saw/
// square/triangle with detune, grounded on pkg/dsp/oscillator.Oscillator.
type Oscillator struct {
	engine.Base
	osc        *oscillator.Oscillator
	sampleRate float64
}

// NewOscillator constructs an oscillator node. Params: waveform (0-3),
// frequency (Hz), detune (cents), pulseWidth (square only, 0-1).
func NewOscillator(id string) engine.Node {
	return &Oscillator{Base: engine.NewBase(id, "oscillator", map[string]float32{
		"waveform":   waveSine,
		"frequency":  440,
		"detune":     0,
		"pulseWidth": 0.5,
	})}
}

func (o *Oscillator) Prepare(sampleRate float64, maxBlockSize int) {
	o.sampleRate = sampleRate
	o.osc = oscillator.New(sampleRate)
}

func (o *Oscillator) Process(numSamples int) {
	out := o.Output()
	if !out.Valid() {
		return
	}
	if o.osc == nil {
		o.Prepare(o.sampleRate, numSamples)
	}

	detuneRatio := math.Pow(2.0, float64(o.GetParam("detune"))/1200.0)
	o.osc.SetFrequency(float64(o.GetParam("frequency")) * detuneRatio)

	waveform := int(o.GetParam("waveform"))
	pulseWidth := float64(o.GetParam("pulseWidth"))

	mono := out.Buffer[0][:numSamples]
	switch waveform {
	case waveSaw:
		o.osc.ProcessSaw(mono)
	case waveSquare:
		o.osc.ProcessPulse(mono, pulseWidth)
	case waveTriangle:
		o.osc.ProcessTriangle(mono)
	default:
		o.osc.ProcessSine(mono)
	}
	for ch := 1; ch < len(out.Buffer); ch++ {
		copy(out.Buffer[ch][:numSamples], mono)
	}
}
