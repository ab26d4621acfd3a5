package nodes

import (
	"github.com/basswave/raudio/internal/engine"
	"github.com/basswave/raudio/pkg/dsp/modulation"
)

// LFO implements the catalogue's "lfo" node, including a sample-and-hold
// waveform driven by the per-instance xorshift32 generator pkg/dsp/
// modulation.LFO now carries instead of a shared platform RNG.
type LFO struct {
	engine.Base
	lfo *modulation.LFO
}

// NewLFO constructs an LFO node. Params: frequency (Hz), waveform (0=sine,
// 1=triangle, 2=square, 3=sawtooth, 4=sample-and-hold), depth, offset.
func NewLFO(id string) engine.Node {
	return &LFO{Base: engine.NewBase(id, "lfo", map[string]float32{
		"frequency": 1,
		"waveform":  float32(modulation.WaveformSine),
		"depth":     1,
		"offset":    0,
	})}
}

func (l *LFO) Prepare(sampleRate float64, maxBlockSize int) {
	l.lfo = modulation.NewLFO(sampleRate)
}

func (l *LFO) Process(numSamples int) {
	out := l.Output()
	if !out.Valid() {
		return
	}
	if l.lfo == nil {
		l.Prepare(48000, numSamples)
	}

	l.lfo.SetFrequency(float64(l.GetParam("frequency")))
	l.lfo.SetWaveform(modulation.Waveform(int(l.GetParam("waveform"))))
	l.lfo.SetDepth(float64(l.GetParam("depth")))
	l.lfo.SetOffset(float64(l.GetParam("offset")))

	mono := out.Buffer[0]
	for i := 0; i < numSamples; i++ {
		mono[i] = float32(l.lfo.Process())
	}
	for ch := 1; ch < len(out.Buffer); ch++ {
		copy(out.Buffer[ch][:numSamples], mono[:numSamples])
	}
}
