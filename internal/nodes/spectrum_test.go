package nodes

import (
	"math"
	"testing"

	"github.com/basswave/raudio/internal/engine"
)

func TestSpectrumIsPassthrough(t *testing.T) {
	s := NewSpectrum("s1").(*Spectrum)
	s.Prepare(48000, 512)

	in := mkMonoBuf(512, func(i int) float32 { return float32(math.Sin(2 * math.Pi * 440 * float64(i) / 48000)) })
	out := [][]float32{make([]float32, 512)}
	s.SetInputs([]engine.BufferRef{{Buffer: in, Index: 0}})
	s.SetOutput(engine.BufferRef{Buffer: out, Index: 0})

	s.Process(512)

	for i, v := range out[0] {
		if v != in[0][i] {
			t.Fatalf("spectrum altered sample %d: got %v, want %v", i, v, in[0][i])
		}
	}
}

func TestSpectrumPublishesMagnitudesAfterRingFills(t *testing.T) {
	s := NewSpectrum("s1").(*Spectrum)
	s.Prepare(48000, 512)

	freq := 2000.0
	in := mkMonoBuf(512, func(i int) float32 { return float32(math.Sin(2 * math.Pi * freq * float64(i) / 48000)) })
	out := [][]float32{make([]float32, 512)}
	s.SetInputs([]engine.BufferRef{{Buffer: in, Index: 0}})
	s.SetOutput(engine.BufferRef{Buffer: out, Index: 0})

	for block := 0; block < spectrumFFTSize/512+2; block++ {
		s.Process(512)
	}

	mags := s.Magnitudes(nil)
	if len(mags) != spectrumBandCount {
		t.Fatalf("magnitude vector length = %d, want %d", len(mags), spectrumBandCount)
	}

	peakBin := 0
	for i, v := range mags {
		if v > mags[peakBin] {
			peakBin = i
		}
	}
	binHz := freq * float64(spectrumBandCount) / (48000.0 / 2.0)
	if math.Abs(float64(peakBin)-binHz) > 4 {
		t.Fatalf("peak magnitude bin = %d, want close to %v (2kHz)", peakBin, binHz)
	}
	if mags[peakBin] < 0.99 {
		t.Fatalf("peak bin magnitude %v, want ~1.0 (max-normalized)", mags[peakBin])
	}
}

func TestSpectrumUnwiredInletLeavesOutputSilent(t *testing.T) {
	s := NewSpectrum("s1").(*Spectrum)
	s.Prepare(48000, 64)
	out := [][]float32{make([]float32, 64)}
	for i := range out[0] {
		out[0][i] = 1
	}
	s.SetOutput(engine.BufferRef{Buffer: out, Index: 0})
	s.Process(64)
	for i, v := range out[0] {
		if v != 0 {
			t.Fatalf("sample %d = %v, want 0 with no input wired", i, v)
		}
	}
}
