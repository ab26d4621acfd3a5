package nodes

import (
	"math"
	"testing"

	"github.com/basswave/raudio/internal/engine"
)

func mkMonoBuf(numSamples int, fill func(i int) float32) [][]float32 {
	buf := make([]float32, numSamples)
	for i := range buf {
		buf[i] = fill(i)
	}
	return [][]float32{buf}
}

func TestMeterTracksPeakAndRMS(t *testing.T) {
	m := NewMeter("m1").(*Meter)
	m.Prepare(48000, 512)

	in := mkMonoBuf(512, func(i int) float32 { return 0.5 })
	out := [][]float32{make([]float32, 512)}
	m.SetInputs([]engine.BufferRef{{Buffer: in, Index: 0}})
	m.SetOutput(engine.BufferRef{Buffer: out, Index: 0})

	m.Process(512)

	if got := m.GetPeak(); got < 0.49 || got > 0.51 {
		t.Fatalf("peak = %v, want ~0.5", got)
	}
	if got := m.GetRMS(); got < 0.49 || got > 0.51 {
		t.Fatalf("rms = %v, want ~0.5", got)
	}
	for i, v := range out[0] {
		if v != in[0][i] {
			t.Fatalf("meter is not a passthrough at sample %d: got %v, want %v", i, v, in[0][i])
		}
	}
}

func TestMeterHoldNeverDropsBelowPastPeak(t *testing.T) {
	m := NewMeter("m1").(*Meter)
	m.Prepare(48000, 256)
	out := [][]float32{make([]float32, 256)}
	m.SetOutput(engine.BufferRef{Buffer: out, Index: 0})

	loud := mkMonoBuf(256, func(i int) float32 { return 1.0 })
	m.SetInputs([]engine.BufferRef{{Buffer: loud, Index: 0}})
	m.Process(256)
	hold := m.GetHold()
	if hold < 0.99 {
		t.Fatalf("hold = %v after loud block, want ~1.0", hold)
	}

	quiet := mkMonoBuf(256, func(i int) float32 { return 0.01 })
	m.SetInputs([]engine.BufferRef{{Buffer: quiet, Index: 0}})
	m.Process(256)
	if m.GetHold() < hold {
		t.Fatalf("hold dropped from %v to %v after a quiet block", hold, m.GetHold())
	}
}

func TestMeterUnwiredInletPublishesZero(t *testing.T) {
	m := NewMeter("m1").(*Meter)
	m.Prepare(48000, 64)
	m.Process(64)
	if m.GetPeak() != 0 {
		t.Fatalf("peak = %v with no input, want 0", m.GetPeak())
	}
	if math.IsNaN(float64(m.GetRMS())) {
		t.Fatal("rms is NaN with no input")
	}
}
