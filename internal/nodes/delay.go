package nodes

import (
	"github.com/basswave/raudio/internal/engine"
	"github.com/basswave/raudio/pkg/dsp/delay"
)

const maxDelaySeconds = 2.0

// Delay implements the catalogue's "delay" node: a feedback delay line
// with fractional-sample read, one delay.Line per channel.
type Delay struct {
	engine.Base
	lines      []*delay.Line
	sampleRate float64
}

// NewDelay constructs a delay node. Params: timeMs, feedback (0-1), mix
// (0=dry, 1=wet).
func NewDelay(id string) engine.Node {
	return &Delay{Base: engine.NewBase(id, "delay", map[string]float32{
		"timeMs":   250,
		"feedback": 0.3,
		"mix":      0.5,
	})}
}

func (d *Delay) Prepare(sampleRate float64, maxBlockSize int) {
	d.sampleRate = sampleRate
	channels := len(d.lines)
	if channels == 0 {
		channels = 2
	}
	d.lines = make([]*delay.Line, channels)
	for ch := range d.lines {
		d.lines[ch] = delay.New(maxDelaySeconds, sampleRate)
	}
}

func (d *Delay) Process(numSamples int) {
	out := d.Output()
	if !out.Valid() {
		return
	}
	inputs := d.Inputs()

	if len(d.lines) < len(out.Buffer) {
		d.Prepare(d.sampleRate, numSamples)
	}

	delayMs := float64(d.GetParam("timeMs"))
	feedback := d.GetParam("feedback")
	mix := d.GetParam("mix")
	delaySamples := delayMs * d.sampleRate / 1000.0

	for ch := range out.Buffer {
		o := out.Buffer[ch]
		line := d.lines[ch]
		var in []float32
		if len(inputs) > 0 && inputs[0].Valid() && ch < len(inputs[0].Buffer) {
			in = inputs[0].Buffer[ch]
		}
		for i := 0; i < numSamples; i++ {
			var dry float32
			if in != nil {
				dry = in[i]
			}
			wet := line.Read(delaySamples)
			line.Write(dry + wet*feedback)
			o[i] = dry*(1-mix) + wet*mix
		}
	}
}
