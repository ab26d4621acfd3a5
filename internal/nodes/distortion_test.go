package nodes

import (
	"testing"

	"github.com/basswave/raudio/internal/engine"
)

func TestDistortionSoftClipsPeaksTowardUnity(t *testing.T) {
	d := NewDistortion("d1").(*Distortion)
	out := [][]float32{make([]float32, 256)}
	d.SetOutput(engine.BufferRef{Buffer: out, Index: 0})
	d.Prepare(48000, 256)

	d.SetParam("drive", 8)
	d.SetParam("mix", 1)

	in := mkMonoBuf(256, func(i int) float32 { return 1.0 })
	d.SetInputs([]engine.BufferRef{{Buffer: in, Index: 0}})

	d.Process(256)

	for i, v := range out[0] {
		if abs32(v) > 1.0001 {
			t.Fatalf("sample %d = %v, soft clip must not exceed unity", i, v)
		}
	}
}

func TestBitcrusherQuantizesToDiscreteLevels(t *testing.T) {
	b := NewBitcrusher("b1").(*Bitcrusher)
	out := [][]float32{make([]float32, 8)}
	b.SetOutput(engine.BufferRef{Buffer: out, Index: 0})
	b.Prepare(48000, 8)

	b.SetParam("bitDepth", 2)
	b.SetParam("dither", 0)
	b.SetParam("mix", 1)
	b.SetParam("antiAlias", 0)

	in := mkMonoBuf(8, func(i int) float32 { return float32(i) / 8.0 })
	b.SetInputs([]engine.BufferRef{{Buffer: in, Index: 0}})

	b.Process(8)

	levels := map[float32]bool{}
	for _, v := range out[0] {
		levels[v] = true
	}
	if len(levels) > 4 {
		t.Fatalf("2-bit crush produced %d distinct levels, want at most 4", len(levels))
	}
}

func TestBitcrusherDitherStaysInRange(t *testing.T) {
	b := NewBitcrusher("b1").(*Bitcrusher)
	out := [][]float32{make([]float32, 512)}
	b.SetOutput(engine.BufferRef{Buffer: out, Index: 0})
	b.Prepare(48000, 512)

	b.SetParam("bitDepth", 4)
	b.SetParam("dither", 2) // triangular
	b.SetParam("mix", 1)

	in := mkMonoBuf(512, func(i int) float32 { return 0.3 })
	b.SetInputs([]engine.BufferRef{{Buffer: in, Index: 0}})

	b.Process(512)

	for i, v := range out[0] {
		if v < -1.5 || v > 1.5 {
			t.Fatalf("sample %d = %v, dithered+quantized output escaped a sane range", i, v)
		}
	}
}

func TestTapeSaturationIsBounded(t *testing.T) {
	tp := NewTapeSaturation("t1").(*TapeSaturation)
	out := [][]float32{make([]float32, 256)}
	tp.SetOutput(engine.BufferRef{Buffer: out, Index: 0})
	tp.Prepare(48000, 256)

	in := mkMonoBuf(256, func(i int) float32 { return 2.0 })
	tp.SetInputs([]engine.BufferRef{{Buffer: in, Index: 0}})

	tp.Process(256)

	for i, v := range out[0] {
		if abs32(v) > 2.5 {
			t.Fatalf("sample %d = %v, tape saturation let an overdriven input through unbounded", i, v)
		}
	}
}

func TestTubeSaturationIsBounded(t *testing.T) {
	tb := NewTubeSaturation("tb1").(*TubeSaturation)
	out := [][]float32{make([]float32, 256)}
	tb.SetOutput(engine.BufferRef{Buffer: out, Index: 0})
	tb.Prepare(48000, 256)

	in := mkMonoBuf(256, func(i int) float32 { return 2.0 })
	tb.SetInputs([]engine.BufferRef{{Buffer: in, Index: 0}})

	tb.Process(256)

	for i, v := range out[0] {
		if abs32(v) > 2.5 {
			t.Fatalf("sample %d = %v, tube saturation let an overdriven input through unbounded", i, v)
		}
	}
}
