package nodes

import (
	"math"
	"testing"

	"github.com/basswave/raudio/internal/engine"
)

func TestFilterLowpassAttenuatesAboveCutoffOnceSettled(t *testing.T) {
	const sampleRate = 48000.0
	const blockSize = 512

	f := NewFilter("f1").(*Filter)
	out := [][]float32{make([]float32, blockSize)}
	f.SetOutput(engine.BufferRef{Buffer: out, Index: 0})
	f.Prepare(sampleRate, blockSize)
	f.SetParam("filterType", FilterLowpass)
	f.SetParam("cutoff", 500)
	f.SetParam("resonance", 0.707)

	highFreq := mkMonoBuf(blockSize, func(i int) float32 {
		return float32(math.Sin(2 * math.Pi * 8000 * float64(i) / sampleRate))
	})
	f.SetInputs([]engine.BufferRef{{Buffer: highFreq, Index: 0}})

	// Run enough blocks for the cutoff smoother to settle and the biquad's
	// own transient to die out.
	for i := 0; i < 40; i++ {
		f.Process(blockSize)
	}

	var outEnergy, inEnergy float32
	for i := 0; i < blockSize; i++ {
		outEnergy += abs32(out[0][i])
		inEnergy += abs32(highFreq[0][i])
	}
	if outEnergy >= inEnergy*0.5 {
		t.Fatalf("expected an 8kHz tone to be heavily attenuated by a 500Hz lowpass, out=%v in=%v", outEnergy, inEnergy)
	}
}

func TestFilterConvergesToDCInput(t *testing.T) {
	const sampleRate = 48000.0
	const numSamples = 4096

	f := NewFilter("f1").(*Filter)
	out := [][]float32{make([]float32, numSamples)}
	f.SetOutput(engine.BufferRef{Buffer: out, Index: 0})
	f.Prepare(sampleRate, numSamples)
	f.SetParam("filterType", FilterLowpass)
	f.SetParam("cutoff", 20)
	f.SetParam("resonance", 0.707)

	dc := mkMonoBuf(numSamples, func(i int) float32 { return 1.0 })
	f.SetInputs([]engine.BufferRef{{Buffer: dc, Index: 0}})

	// Let the smoother settle onto cutoff=20 before reading steady state.
	for i := 0; i < 20; i++ {
		f.Process(numSamples)
	}

	steady := out[0][numSamples-1]
	if diff := steady - 1.0; diff > 1e-3 || diff < -1e-3 {
		t.Fatalf("expected a constant 1.0 input through a lowpass to converge to 1.0 +/- 1e-3, got %v", steady)
	}
}

func TestFilterHandlesUnwiredInletAsSilence(t *testing.T) {
	f := NewFilter("f1").(*Filter)
	out := [][]float32{make([]float32, 64), make([]float32, 64)}
	f.SetOutput(engine.BufferRef{Buffer: out, Index: 0})
	f.Prepare(48000, 64)

	f.Process(64)

	for ch := range out {
		for _, v := range out[ch] {
			if v != 0 {
				t.Fatalf("expected silence on an unwired filter, got %v", v)
			}
		}
	}
}

func TestFilterCutoffSweepDoesNotPanicAcrossChannelCountChange(t *testing.T) {
	f := NewFilter("f1").(*Filter)
	out := [][]float32{make([]float32, 128)}
	f.SetOutput(engine.BufferRef{Buffer: out, Index: 0})
	f.Prepare(48000, 128)

	in := mkMonoBuf(128, func(i int) float32 { return float32(i%5) / 5 })
	f.SetInputs([]engine.BufferRef{{Buffer: in, Index: 0}})

	for i := 0; i < 20; i++ {
		f.SetParam("cutoff", float32(200+i*300))
		f.Process(128)
	}

	stereoOut := [][]float32{make([]float32, 128), make([]float32, 128)}
	f.SetOutput(engine.BufferRef{Buffer: stereoOut, Index: 0})
	stereoIn := [][]float32{in[0], in[0]}
	f.SetInputs([]engine.BufferRef{{Buffer: stereoIn, Index: 0}})
	f.Process(128)
}
