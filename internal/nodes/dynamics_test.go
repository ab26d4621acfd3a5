package nodes

import (
	"math"
	"testing"

	"github.com/basswave/raudio/internal/engine"
)

func TestCompressorReducesGainAboveThreshold(t *testing.T) {
	c := NewCompressor("c1").(*Compressor)
	out := [][]float32{make([]float32, 1024)}
	c.SetOutput(engine.BufferRef{Buffer: out, Index: 0})
	c.Prepare(48000, 1024)

	c.SetParam("thresholdDb", -20)
	c.SetParam("ratio", 8)
	c.SetParam("attackMs", 1)
	c.SetParam("releaseMs", 50)

	in := mkMonoBuf(1024, func(i int) float32 { return float32(math.Sin(2 * math.Pi * 200 * float64(i) / 48000)) })
	c.SetInputs([]engine.BufferRef{{Buffer: in, Index: 0}})

	for i := 0; i < 40; i++ {
		c.Process(1024)
	}

	var peakIn, peakOut float32
	for i, v := range in[0] {
		if a := abs32(v); a > peakIn {
			peakIn = a
		}
		if a := abs32(out[0][i]); a > peakOut {
			peakOut = a
		}
	}
	if peakOut >= peakIn {
		t.Fatalf("compressed peak %v not below input peak %v after settling", peakOut, peakIn)
	}
}

func TestGateSilencesBelowThreshold(t *testing.T) {
	g := NewGate("g1").(*Gate)
	out := [][]float32{make([]float32, 2048)}
	g.SetOutput(engine.BufferRef{Buffer: out, Index: 0})
	g.Prepare(48000, 2048)

	g.SetParam("thresholdDb", -20)
	g.SetParam("rangeDb", 80)
	g.SetParam("releaseMs", 5)
	g.SetParam("holdMs", 0)

	in := mkMonoBuf(2048, func(i int) float32 { return 0.0001 })
	g.SetInputs([]engine.BufferRef{{Buffer: in, Index: 0}})

	for i := 0; i < 10; i++ {
		g.Process(2048)
	}

	var peak float32
	for _, v := range out[0] {
		if a := abs32(v); a > peak {
			peak = a
		}
	}
	if peak > 0.0001 {
		t.Fatalf("gated output peak %v, want it attenuated below the quiet input", peak)
	}
}

func TestLimiterClampsOutputAtThreshold(t *testing.T) {
	l := NewLimiter("l1").(*Limiter)
	out := [][]float32{make([]float32, 1024)}
	l.SetOutput(engine.BufferRef{Buffer: out, Index: 0})
	l.Prepare(48000, 1024)

	l.SetParam("thresholdDb", -6)
	l.SetParam("lookaheadMs", 2)
	l.SetParam("releaseMs", 20)

	in := mkMonoBuf(1024, func(i int) float32 { return 1.0 })
	l.SetInputs([]engine.BufferRef{{Buffer: in, Index: 0}})

	for i := 0; i < 20; i++ {
		l.Process(1024)
	}

	thresholdLinear := float32(math.Pow(10, -6.0/20.0))
	for i, v := range out[0] {
		if abs32(v) > thresholdLinear*1.2 {
			t.Fatalf("sample %d = %v, exceeds threshold-ish bound %v", i, v, thresholdLinear)
		}
	}
}
