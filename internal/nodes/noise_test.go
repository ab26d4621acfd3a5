package nodes

import (
	"testing"

	"github.com/basswave/raudio/internal/engine"
)

func TestNoiseProducesBoundedNonSilentOutput(t *testing.T) {
	n := NewNoise("n1").(*Noise)
	out := [][]float32{make([]float32, 512), make([]float32, 512)}
	n.SetOutput(engine.BufferRef{Buffer: out, Index: 0})
	n.Prepare(48000, 512)
	n.SetParam("color", NoiseWhite)

	n.Process(512)

	var energy float32
	for ch := range out {
		for _, v := range out[ch] {
			if v > 1.01 || v < -1.01 {
				t.Fatalf("noise sample out of [-1, 1] bounds: %v", v)
			}
			energy += abs32(v)
		}
	}
	if energy == 0 {
		t.Fatal("white noise produced silence")
	}
}

func TestNoiseChannelsAreDecorrelated(t *testing.T) {
	n := NewNoise("n1").(*Noise)
	out := [][]float32{make([]float32, 512), make([]float32, 512)}
	n.SetOutput(engine.BufferRef{Buffer: out, Index: 0})
	n.Prepare(48000, 512)

	n.Process(512)

	identical := true
	for i := range out[0] {
		if out[0][i] != out[1][i] {
			identical = false
			break
		}
	}
	if identical {
		t.Fatal("expected independent noise generators per channel, got dual-mono output")
	}
}

func TestNoiseGainScalesOutput(t *testing.T) {
	n := NewNoise("n1").(*Noise)
	out := [][]float32{make([]float32, 256)}
	n.SetOutput(engine.BufferRef{Buffer: out, Index: 0})
	n.Prepare(48000, 256)
	n.SetParam("gain", 0)

	n.Process(256)

	for _, v := range out[0] {
		if v != 0 {
			t.Fatalf("gain=0 should silence the output, got %v", v)
		}
	}
}
