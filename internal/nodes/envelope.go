package nodes

import (
	"github.com/basswave/raudio/internal/engine"
	"github.com/basswave/raudio/pkg/dsp/envelope"
)

// Envelope implements the catalogue's "envelope" node: an ADSR generator
// gated by the "gate" parameter, driven by pkg/dsp/envelope.ADSR's Stage
// state machine. If inlet 0 is wired, its signal is multiplied by the
// envelope per channel; otherwise the node emits the envelope value
// directly, broadcast to every output channel.
type Envelope struct {
	engine.Base
	adsr      *envelope.ADSR
	gateState bool
	envBuf    []float32
}

// NewEnvelope constructs an envelope node. Params: attackMs, decayMs,
// sustain (0-1), releaseMs, gate (0/1, edge-triggered).
func NewEnvelope(id string) engine.Node {
	return &Envelope{Base: engine.NewBase(id, "envelope", map[string]float32{
		"attackMs":  10,
		"decayMs":   100,
		"sustain":   0.7,
		"releaseMs": 300,
		"gate":      0,
	})}
}

func (e *Envelope) Prepare(sampleRate float64, maxBlockSize int) {
	e.adsr = envelope.New(sampleRate)
	if cap(e.envBuf) < maxBlockSize {
		e.envBuf = make([]float32, maxBlockSize)
	}
}

func (e *Envelope) Process(numSamples int) {
	out := e.Output()
	if !out.Valid() {
		return
	}
	if e.adsr == nil || cap(e.envBuf) < numSamples {
		e.Prepare(48000, numSamples)
	}

	e.adsr.SetADSR(
		float64(e.GetParam("attackMs"))/1000.0,
		float64(e.GetParam("decayMs"))/1000.0,
		float64(e.GetParam("sustain")),
		float64(e.GetParam("releaseMs"))/1000.0,
	)

	gateOn := e.GetParam("gate") > 0.5
	if gateOn && !e.gateState {
		e.adsr.Trigger()
	} else if !gateOn && e.gateState {
		e.adsr.Release()
	}
	e.gateState = gateOn

	env := e.envBuf[:numSamples]
	for i := range env {
		env[i] = e.adsr.Next()
	}

	inputs := e.Inputs()
	carrierValid := len(inputs) > 0 && inputs[0].Valid()

	for ch := range out.Buffer {
		o := out.Buffer[ch]
		if !carrierValid || ch >= len(inputs[0].Buffer) {
			copy(o[:numSamples], env)
			continue
		}
		in := inputs[0].Buffer[ch]
		for i := 0; i < numSamples; i++ {
			o[i] = in[i] * env[i]
		}
	}
}
