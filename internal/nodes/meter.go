package nodes

import (
	"math"
	"sync/atomic"

	"github.com/basswave/raudio/internal/engine"
)

// Meter implements the catalogue's "meter" node: a passthrough peak+RMS
// level meter. The decay/hold behavior is grounded on teacher
// pkg/dsp/analysis.PeakMeter, but the read-out is republished through
// atomic.Uint32 cells rather than a mutex so a message-thread reader never
// contends with the audio thread, per this node's atomic-readout
// requirement.
type Meter struct {
	engine.Base
	peakBits atomic.Uint32
	rmsBits  atomic.Uint32
	holdBits atomic.Uint32
	peak     float32
	hold     float32
	decayPerSample float32
	sampleRate     float64
}

// NewMeter constructs a meter node. Params: holdSeconds, decayDbPerSecond.
func NewMeter(id string) engine.Node {
	return &Meter{Base: engine.NewBase(id, "meter", map[string]float32{
		"holdSeconds":      3,
		"decayDbPerSecond": 20,
	})}
}

func (m *Meter) Prepare(sampleRate float64, maxBlockSize int) {
	m.sampleRate = sampleRate
	m.recomputeDecay()
}

func (m *Meter) recomputeDecay() {
	decayDb := float64(m.GetParam("decayDbPerSecond"))
	m.decayPerSample = float32(decayDb / m.sampleRate / 20.0 * math.Log(10))
}

func (m *Meter) Process(numSamples int) {
	out := m.Output()
	inputs := m.Inputs()

	carrierValid := len(inputs) > 0 && inputs[0].Valid()
	if !carrierValid {
		if out.Valid() {
			for ch := range out.Buffer {
				clear(out.Buffer[ch][:numSamples])
			}
		}
		m.publish(0, 0)
		return
	}

	m.recomputeDecay()

	in := inputs[0].Buffer
	var sumSquares float64
	blockPeak := float32(0)
	sampleCount := 0
	for ch := range in {
		for i := 0; i < numSamples; i++ {
			v := in[ch][i]
			a := v
			if a < 0 {
				a = -a
			}
			if a > blockPeak {
				blockPeak = a
			}
			sumSquares += float64(v) * float64(v)
			sampleCount++
		}
		if out.Valid() && ch < len(out.Buffer) {
			copy(out.Buffer[ch][:numSamples], in[ch][:numSamples])
		}
	}

	decay := m.decayPerSample * float32(numSamples)
	m.peak *= float32(math.Exp(-float64(decay)))
	if blockPeak > m.peak {
		m.peak = blockPeak
	}
	if m.peak > m.hold {
		m.hold = m.peak
	}

	rms := float32(0)
	if sampleCount > 0 {
		rms = float32(math.Sqrt(sumSquares / float64(sampleCount)))
	}

	m.publish(m.peak, rms)
	m.holdBits.Store(math.Float32bits(m.hold))
}

func (m *Meter) publish(peak, rms float32) {
	m.peakBits.Store(math.Float32bits(peak))
	m.rmsBits.Store(math.Float32bits(rms))
}

// GetPeak returns the most recently published peak level (linear). Safe to
// call from the message thread while the audio thread is processing.
func (m *Meter) GetPeak() float32 {
	return math.Float32frombits(m.peakBits.Load())
}

// GetRMS returns the most recently published RMS level (linear).
func (m *Meter) GetRMS() float32 {
	return math.Float32frombits(m.rmsBits.Load())
}

// GetHold returns the current peak-hold level (linear).
func (m *Meter) GetHold() float32 {
	return math.Float32frombits(m.holdBits.Load())
}
