package nodes

import (
	"testing"

	"github.com/basswave/raudio/internal/engine"
	"github.com/basswave/raudio/pkg/midi"
)

func TestMidiInputNoteOnRaisesGateAndSetsFrequency(t *testing.T) {
	n := NewMidiInput("midi1").(*MidiInput)
	n.Prepare(48000, 128)

	out := [][]float32{make([]float32, 128), make([]float32, 128)}
	n.SetOutput(engine.BufferRef{Buffer: out, Index: 0})

	n.Enqueue(midi.NoteOnEvent{
		BaseEvent:  midi.BaseEvent{Offset: 0},
		NoteNumber: 69, // A4
		Velocity:   100,
	})

	n.Process(128)

	if out[0][0] != 1 {
		t.Fatalf("gate = %v after note-on, want 1", out[0][0])
	}
	if got := out[1][0]; got < 439 || got > 441 {
		t.Fatalf("frequency = %v, want ~440 (A4)", got)
	}
}

func TestMidiInputNoteOffLowersGate(t *testing.T) {
	n := NewMidiInput("midi1").(*MidiInput)
	n.Prepare(48000, 128)
	out := [][]float32{make([]float32, 128), make([]float32, 128)}
	n.SetOutput(engine.BufferRef{Buffer: out, Index: 0})

	n.Enqueue(midi.NoteOnEvent{BaseEvent: midi.BaseEvent{Offset: 0}, NoteNumber: 60, Velocity: 100})
	n.Process(128)
	if out[0][0] != 1 {
		t.Fatalf("gate = %v after note-on, want 1", out[0][0])
	}

	n.Enqueue(midi.NoteOffEvent{BaseEvent: midi.BaseEvent{Offset: 0}, NoteNumber: 60, Velocity: 0})
	n.Process(128)
	if out[0][0] != 0 {
		t.Fatalf("gate = %v after note-off, want 0", out[0][0])
	}
}

func TestMidiInputNoteOffForDifferentNoteIsIgnored(t *testing.T) {
	n := NewMidiInput("midi1").(*MidiInput)
	n.Prepare(48000, 64)
	out := [][]float32{make([]float32, 64), make([]float32, 64)}
	n.SetOutput(engine.BufferRef{Buffer: out, Index: 0})

	n.Enqueue(midi.NoteOnEvent{BaseEvent: midi.BaseEvent{Offset: 0}, NoteNumber: 60, Velocity: 100})
	n.Process(64)

	n.Enqueue(midi.NoteOffEvent{BaseEvent: midi.BaseEvent{Offset: 0}, NoteNumber: 61, Velocity: 0})
	n.Process(64)

	if out[0][0] != 1 {
		t.Fatalf("gate = %v after unrelated note-off, want it to stay 1", out[0][0])
	}
}
