package nodes

import (
	"github.com/basswave/raudio/internal/engine"
	"github.com/basswave/raudio/pkg/dsp/filter"
	"github.com/basswave/raudio/pkg/dsp/smoothing"
)

// Filter types, encoded as the "filterType" param's float value.
const (
	FilterLowpass = iota
	FilterHighpass
	FilterBandpass
	FilterNotch
	FilterAllpass
	FilterLowShelf
	FilterHighShelf
	FilterPeaking
)

// Filter implements the catalogue's representative "filter" node: a
// biquad whose coefficients are recomputed at block granularity whenever
// filterType, cutoff, resonance or gainDb changes beyond a small epsilon,
// per the RBJ cookbook formulas pkg/dsp/filter.Biquad already implements.
type Filter struct {
	engine.Base
	biquad     *filter.Biquad
	sampleRate float64
	channels   int

	cachedType     float32
	cachedCutoff   float32
	cachedRes      float32
	cachedGainDb   float32
	coeffsComputed bool

	// cutoffSmoother ramps an automated cutoff change over ~20ms instead of
	// snapping the biquad coefficients instantly, which would otherwise
	// click on a fast sweep.
	cutoffSmoother *smoothing.Smoother
}

const coeffEpsilon = 1e-6

// NewFilter constructs a biquad filter node. Params: filterType (0-7, see
// the Filter* constants), cutoff (Hz), resonance (Q), gainDb (shelf and
// peaking only).
func NewFilter(id string) engine.Node {
	return &Filter{Base: engine.NewBase(id, "filter", map[string]float32{
		"filterType": FilterLowpass,
		"cutoff":     1000,
		"resonance":  0.707,
		"gainDb":     0,
	})}
}

func (f *Filter) Prepare(sampleRate float64, maxBlockSize int) {
	f.sampleRate = sampleRate
	if f.channels == 0 {
		f.channels = 2
	}
	f.biquad = filter.NewBiquad(f.channels)
	f.coeffsComputed = false
	if f.cutoffSmoother == nil {
		f.cutoffSmoother = smoothing.NewWithTimeConstant(smoothing.Logarithmic, sampleRate, 20)
		f.cutoffSmoother.Reset(clampCutoff(f.GetParam("cutoff"), sampleRate))
	}
}

func (f *Filter) Process(numSamples int) {
	out := f.Output()
	if !out.Valid() {
		return
	}
	if f.biquad == nil || f.channels < len(out.Buffer) {
		f.channels = len(out.Buffer)
		f.Prepare(f.sampleRate, numSamples)
	}

	f.maybeRecomputeCoefficients()

	inputs := f.Inputs()
	for ch := range out.Buffer {
		o := out.Buffer[ch]
		if len(inputs) == 0 || !inputs[0].Valid() || ch >= len(inputs[0].Buffer) {
			clear(o[:numSamples])
			continue
		}
		copy(o[:numSamples], inputs[0].Buffer[ch][:numSamples])
		f.biquad.Process(o[:numSamples], ch)
	}
}

func (f *Filter) maybeRecomputeCoefficients() {
	filterType := f.GetParam("filterType")
	f.cutoffSmoother.SetTarget(clampCutoff(f.GetParam("cutoff"), f.sampleRate))
	cutoff := f.cutoffSmoother.Next()
	resonance := clampResonance(f.GetParam("resonance"))
	gainDb := f.GetParam("gainDb")

	if f.coeffsComputed &&
		abs32(filterType-f.cachedType) < coeffEpsilon &&
		abs32(cutoff-f.cachedCutoff) < coeffEpsilon &&
		abs32(resonance-f.cachedRes) < coeffEpsilon &&
		abs32(gainDb-f.cachedGainDb) < coeffEpsilon {
		return
	}

	sr := f.sampleRate
	c, r, g := float64(cutoff), float64(resonance), float64(gainDb)
	switch int(filterType) {
	case FilterHighpass:
		f.biquad.SetHighpass(sr, c, r)
	case FilterBandpass:
		f.biquad.SetBandpass(sr, c, r)
	case FilterNotch:
		f.biquad.SetNotch(sr, c, r)
	case FilterAllpass:
		f.biquad.SetAllpass(sr, c, r)
	case FilterLowShelf:
		f.biquad.SetLowShelf(sr, c, r, g)
	case FilterHighShelf:
		f.biquad.SetHighShelf(sr, c, r, g)
	case FilterPeaking:
		f.biquad.SetPeakingEQ(sr, c, r, g)
	default:
		f.biquad.SetLowpass(sr, c, r)
	}

	f.cachedType, f.cachedCutoff, f.cachedRes, f.cachedGainDb = filterType, cutoff, resonance, gainDb
	f.coeffsComputed = true
}

func clampCutoff(hz float32, sampleRate float64) float32 {
	nyquistCeiling := float32(sampleRate * 0.499)
	if hz < 20 {
		return 20
	}
	if hz > nyquistCeiling {
		return nyquistCeiling
	}
	return hz
}

func clampResonance(q float32) float32 {
	if q < 0.1 {
		return 0.1
	}
	return q
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
