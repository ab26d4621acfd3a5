package nodes

import (
	"testing"

	"github.com/basswave/raudio/internal/engine"
)

func TestReverbProducesStereoTailAfterImpulse(t *testing.T) {
	r := NewReverb("r1").(*Reverb)
	out := [][]float32{make([]float32, 4096), make([]float32, 4096)}
	r.SetOutput(engine.BufferRef{Buffer: out, Index: 0})
	r.Prepare(48000, 4096)

	r.SetParam("preDelayMs", 0)
	r.SetParam("wetLevel", 1)
	r.SetParam("dryLevel", 0)

	inL := make([]float32, 4096)
	inR := make([]float32, 4096)
	inL[0], inR[0] = 1, 1
	in := [][]float32{inL, inR}
	r.SetInputs([]engine.BufferRef{{Buffer: in, Index: 0}})

	r.Process(4096)

	var tailEnergy float32
	for i := 500; i < 4096; i++ {
		tailEnergy += abs32(out[0][i]) + abs32(out[1][i])
	}
	if tailEnergy == 0 {
		t.Fatal("reverb tail has no energy after an impulse, want a decaying tail")
	}
}

func TestFreeverbFrozenModeSustainsEnergy(t *testing.T) {
	f := NewFreeverb("f1").(*Freeverb)
	out := [][]float32{make([]float32, 2048), make([]float32, 2048)}
	f.SetOutput(engine.BufferRef{Buffer: out, Index: 0})
	f.Prepare(48000, 2048)

	f.SetParam("frozen", 1)
	f.SetParam("wetLevel", 1)
	f.SetParam("dryLevel", 0)

	inL := make([]float32, 2048)
	inR := make([]float32, 2048)
	inL[0], inR[0] = 1, 1
	in := [][]float32{inL, inR}
	f.SetInputs([]engine.BufferRef{{Buffer: in, Index: 0}})

	f.Process(2048)

	var tailEnergy float32
	for i := 1000; i < 2048; i++ {
		tailEnergy += abs32(out[0][i])
	}
	if tailEnergy == 0 {
		t.Fatal("frozen freeverb produced no sustained tail")
	}
}

func TestFDNReverbMonoFallbackWhenSingleChannel(t *testing.T) {
	f := NewFDNReverb("fdn1").(*FDNReverb)
	out := [][]float32{make([]float32, 512)}
	f.SetOutput(engine.BufferRef{Buffer: out, Index: 0})
	f.Prepare(48000, 512)

	f.SetParam("wetLevel", 1)
	f.SetParam("dryLevel", 0)

	in := mkMonoBuf(512, func(i int) float32 {
		if i == 0 {
			return 1
		}
		return 0
	})
	f.SetInputs([]engine.BufferRef{{Buffer: in, Index: 0}})

	f.Process(512)

	var energy float32
	for _, v := range out[0] {
		energy += abs32(v)
	}
	if energy == 0 {
		t.Fatal("fdn_reverb mono path produced no output")
	}
}
