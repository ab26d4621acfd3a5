package nodes

import "github.com/basswave/raudio/internal/engine"

// RegisterAll binds every node type this package implements into cat,
// keyed by its type tag. Callers assemble a Catalogue once at startup and
// pass it to engine.NewAuthority.
func RegisterAll(cat *engine.Catalogue) {
	cat.Register("gain", NewGain)
	cat.Register("pan", NewPan)
	cat.Register("mix", NewMix)
	cat.Register("delay", NewDelay)
	cat.Register("filter", NewFilter)
	cat.Register("oscillator", NewOscillator)
	cat.Register("lfo", NewLFO)
	cat.Register("envelope", NewEnvelope)
	cat.Register("meter", NewMeter)
	cat.Register("spectrum", NewSpectrum)
	cat.Register("midi_input", NewMidiInput)
	cat.Register("merge", NewMerge)
	cat.Register("split", NewSplit)

	cat.Register("compressor", NewCompressor)
	cat.Register("gate", NewGate)
	cat.Register("expander", NewExpander)
	cat.Register("limiter", NewLimiter)

	cat.Register("reverb", NewReverb)
	cat.Register("freeverb", NewFreeverb)
	cat.Register("fdn_reverb", NewFDNReverb)

	cat.Register("distortion", NewDistortion)
	cat.Register("bitcrusher", NewBitcrusher)
	cat.Register("tape_saturator", NewTapeSaturation)
	cat.Register("tube_saturator", NewTubeSaturation)

	cat.Register("chorus", NewChorus)
	cat.Register("flanger", NewFlanger)
	cat.Register("phaser", NewPhaser)
	cat.Register("ring_mod", NewRingMod)
	cat.Register("tremolo", NewTremoloMod)

	cat.Register("convolver", NewConvolver)

	cat.Register("dc_blocker", NewDCBlocker)
	cat.Register("noise", NewNoise)
}
