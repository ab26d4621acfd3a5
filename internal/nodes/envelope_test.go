package nodes

import (
	"math"
	"testing"

	"github.com/basswave/raudio/internal/engine"
)

// TestEnvelopeADSRShapeMatchesGatedTimeline drives the envelope node through
// a full gate-on/gate-off cycle and checks its attack/decay/sustain/release
// timing against the engineering tolerances a host would actually rely on.
func TestEnvelopeADSRShapeMatchesGatedTimeline(t *testing.T) {
	const sampleRate = 48000.0
	const blockSize = 64
	const gateHighSamples = 4800  // 100ms
	const totalSamples = 4800 + 9600 // 100ms high, 200ms low

	e := NewEnvelope("e1").(*Envelope)
	out := [][]float32{make([]float32, blockSize)}
	e.SetOutput(engine.BufferRef{Buffer: out, Index: 0})
	e.Prepare(sampleRate, blockSize)
	e.SetParam("attackMs", 10)
	e.SetParam("decayMs", 20)
	e.SetParam("sustain", 0.5)
	e.SetParam("releaseMs", 50)

	trace := make([]float32, 0, totalSamples)
	for sample := 0; sample < totalSamples; {
		if sample < gateHighSamples {
			e.SetParam("gate", 1)
		} else {
			e.SetParam("gate", 0)
		}
		n := blockSize
		if sample+n > totalSamples {
			n = totalSamples - sample
		}
		e.Process(n)
		trace = append(trace, out[0][:n]...)
		sample += n
	}

	// Attack: rise to 1.0 within 480 samples +/- 10%.
	attackDeadline := int(480 * 1.1)
	reachedPeak := -1
	for i, v := range trace[:attackDeadline+1] {
		if v >= 1.0-1e-3 {
			reachedPeak = i
			break
		}
	}
	if reachedPeak < 0 {
		t.Fatalf("envelope did not reach 1.0 within %d samples of gate-on", attackDeadline)
	}

	// Decay: fall to sustain (0.5) within the next 960 samples.
	decayDeadline := reachedPeak + int(960*1.1)
	reachedSustain := -1
	for i := reachedPeak; i < decayDeadline && i < len(trace); i++ {
		if trace[i] <= 0.5+1e-3 {
			reachedSustain = i
			break
		}
	}
	if reachedSustain < 0 {
		t.Fatalf("envelope did not decay to sustain 0.5 within %d samples of reaching peak", decayDeadline-reachedPeak)
	}

	// Sustain: holds at 0.5 within 1e-3 until gate release.
	for i := reachedSustain; i < gateHighSamples; i++ {
		if math.Abs(float64(trace[i]-0.5)) > 1e-3 {
			t.Fatalf("sustain drifted from 0.5 at sample %d: got %v", i, trace[i])
		}
	}

	// Release: decays below 1e-3 within 2400 samples of gate-off.
	releaseDeadline := gateHighSamples + 2400
	if releaseDeadline > len(trace) {
		releaseDeadline = len(trace)
	}
	below := false
	for i := gateHighSamples; i < releaseDeadline; i++ {
		if trace[i] < 1e-3 {
			below = true
			break
		}
	}
	if !below {
		t.Fatal("envelope did not decay below 1e-3 within 2400 samples of gate-off")
	}
}

func TestEnvelopeBroadcastsDirectlyWhenInletUnwired(t *testing.T) {
	e := NewEnvelope("e1").(*Envelope)
	out := [][]float32{make([]float32, 32), make([]float32, 32)}
	e.SetOutput(engine.BufferRef{Buffer: out, Index: 0})
	e.Prepare(48000, 32)
	e.SetParam("gate", 1)

	e.Process(32)

	for ch := range out {
		for i, v := range out[ch] {
			if v != out[0][i] {
				t.Fatalf("expected both channels to carry the same envelope value, ch=%d i=%d", ch, i)
			}
		}
	}
}

func TestEnvelopeModulatesCarrierWhenInletWired(t *testing.T) {
	e := NewEnvelope("e1").(*Envelope)
	out := [][]float32{make([]float32, 16)}
	e.SetOutput(engine.BufferRef{Buffer: out, Index: 0})
	e.Prepare(48000, 16)
	e.SetParam("gate", 0)

	carrier := mkMonoBuf(16, func(i int) float32 { return 2.0 })
	e.SetInputs([]engine.BufferRef{{Buffer: carrier, Index: 0}})

	e.Process(16)

	for _, v := range out[0] {
		if v != 0 {
			t.Fatalf("expected an un-gated envelope to mute the carrier, got %v", v)
		}
	}
}
