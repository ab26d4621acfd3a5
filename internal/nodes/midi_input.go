package nodes

import (
	"github.com/basswave/raudio/internal/engine"
	"github.com/basswave/raudio/pkg/midi"
)

// MidiInput implements the catalogue's "midi_input" node: converts queued
// MIDI note events into an audio-rate gate (channel 0) and frequency in Hz
// (channel 1). Grounded on teacher pkg/midi's Event model and
// EventQueue, whose internal sync.RWMutex is the one acknowledged
// cross-thread hand-off on this path: the message thread calls Enqueue
// while the audio thread drains GetEventsInRange once per block.
type MidiInput struct {
	engine.Base
	queue       *midi.EventQueue
	activeNote  int
	gate        float32
	frequencyHz float32
}

// NewMidiInput constructs a midi_input node. Params: tuningA4 (Hz,
// concert pitch reference for note-to-frequency conversion).
func NewMidiInput(id string) engine.Node {
	return &MidiInput{
		Base:       engine.NewBase(id, "midi_input", map[string]float32{"tuningA4": 440}),
		queue:      midi.NewEventQueue(),
		activeNote: -1,
	}
}

func (m *MidiInput) Prepare(sampleRate float64, maxBlockSize int) {}

// Enqueue adds a MIDI event to be consumed on a future block. Safe to call
// from the message thread.
func (m *MidiInput) Enqueue(event midi.Event) {
	m.queue.Add(event)
}

func (m *MidiInput) Process(numSamples int) {
	out := m.Output()
	if !out.Valid() {
		return
	}

	events := m.queue.GetEventsInRange(0, int32(numSamples))
	tuningA4 := float64(m.GetParam("tuningA4"))

	for _, event := range events {
		switch e := event.(type) {
		case midi.NoteOnEvent:
			m.activeNote = int(e.NoteNumber)
			m.frequencyHz = float32(midi.NoteToFrequency(e.NoteNumber, tuningA4))
			m.gate = 1
		case midi.NoteOffEvent:
			if int(e.NoteNumber) == m.activeNote {
				m.gate = 0
				m.activeNote = -1
			}
		}
	}

	m.queue.RemoveProcessedEvents(int32(numSamples))
	m.queue.OffsetEvents(-int32(numSamples))

	if len(out.Buffer) > 0 {
		gate := out.Buffer[0][:numSamples]
		for i := range gate {
			gate[i] = m.gate
		}
	}
	if len(out.Buffer) > 1 {
		freq := out.Buffer[1][:numSamples]
		for i := range freq {
			freq[i] = m.frequencyHz
		}
	}
}
