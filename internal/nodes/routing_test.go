package nodes

import (
	"testing"

	"github.com/basswave/raudio/internal/engine"
)

func TestMergeSumsAllWiredInlets(t *testing.T) {
	m := NewMerge("merge1").(*Merge)
	m.Prepare(48000, 4)

	a := [][]float32{{0.1, 0.2, 0.3, 0.4}}
	b := [][]float32{{0.5, 0.5, 0.5, 0.5}}
	out := [][]float32{make([]float32, 4)}
	m.SetInputs([]engine.BufferRef{{Buffer: a, Index: 0}, {Buffer: b, Index: 1}})
	m.SetOutput(engine.BufferRef{Buffer: out, Index: 0})

	m.Process(4)

	want := []float32{0.6, 0.7, 0.8, 0.9}
	for i, v := range out[0] {
		if diff := v - want[i]; diff > 1e-6 || diff < -1e-6 {
			t.Fatalf("sample %d = %v, want %v", i, v, want[i])
		}
	}
}

func TestMergeSkipsUnwiredInlets(t *testing.T) {
	m := NewMerge("merge1").(*Merge)
	m.Prepare(48000, 4)

	a := [][]float32{{1, 1, 1, 1}}
	out := [][]float32{make([]float32, 4)}
	m.SetInputs([]engine.BufferRef{{Buffer: a, Index: 0}, {}})
	m.SetOutput(engine.BufferRef{Buffer: out, Index: 0})

	m.Process(4)

	for i, v := range out[0] {
		if v != 1 {
			t.Fatalf("sample %d = %v, want 1", i, v)
		}
	}
}

func TestSplitCopiesInletChannelByChannel(t *testing.T) {
	s := NewSplit("split1").(*Split)
	s.Prepare(48000, 4)

	in := [][]float32{{1, 2, 3, 4}}
	out := [][]float32{make([]float32, 4), make([]float32, 4)}
	s.SetInputs([]engine.BufferRef{{Buffer: in, Index: 0}})
	s.SetOutput(engine.BufferRef{Buffer: out, Index: 0})

	s.Process(4)

	for ch := range out {
		for i, v := range out[ch] {
			if ch == 0 && v != in[0][i] {
				t.Fatalf("channel 0 sample %d = %v, want %v", i, v, in[0][i])
			}
			if ch == 1 && v != 0 {
				t.Fatalf("channel 1 sample %d = %v, want 0 (no inlet-0 channel 1 to copy)", i, v)
			}
		}
	}
}
