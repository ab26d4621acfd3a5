package main

import (
	"github.com/basswave/raudio/internal/engine"
	"github.com/basswave/raudio/pkg/dsp/chain"
)

// demoNodeMeter and demoNodeSpectrum are the ids the TUI looks up in the
// active snapshot to fetch live readouts after the graph is submitted.
const (
	demoNodeOscillator = "osc1"
	demoNodeMeter      = "meter1"
	demoNodeSpectrum   = "spectrum1"
)

// buildDemoGraph assembles a small oscillator -> filter -> chorus -> gain
// -> meter -> spectrum chain, standing in for a host's patch. The chain
// has no wired inlet, so it runs as a self-contained signal generator;
// ProcessBlock can be driven with an empty hostInputs map.
func buildDemoGraph() ([]engine.Op, error) {
	b := chain.NewBuilder()
	b.Add(demoNodeOscillator, "oscillator", map[string]float32{
		"frequency": 220,
		"detune":    0,
	})
	b.Add("filt1", "filter", map[string]float32{
		"filterType": 0,
		"cutoff":     1400,
		"resonance":  1.1,
	})
	b.Add("chorus1", "chorus", map[string]float32{
		"rateHz":  0.8,
		"depthMs": 4,
		"mix":     0.35,
	})
	b.Add("gain1", "gain", map[string]float32{
		"gainDb": -6,
	})
	b.Add(demoNodeMeter, "meter", nil)
	b.Add(demoNodeSpectrum, "spectrum", nil)
	return b.Build()
}
