// Package smoothing ramps a parameter toward a target value over several
// samples instead of jumping instantly, so an automated change to a node's
// parameter (a filter sweep, a gain ride) doesn't produce an audible click.
package smoothing

import "math"

// Type selects the smoother's interpolation curve.
type Type int

const (
	// Exponential uses a one-pole filter; good for most linear-scale
	// parameters (gain, mix amounts).
	Exponential Type = iota
	// Logarithmic interpolates in log space; better for frequency
	// parameters, where equal perceptual steps are not equal linear steps.
	Logarithmic
)

// Smoother ramps a float32 value toward a target across successive Next
// calls, one call per sample.
type Smoother struct {
	kind      Type
	current   float64
	target    float64
	rate      float64 // one-pole coefficient, in (0, 1)
	threshold float64
	smoothing bool

	logCurrent float64
	logTarget  float64
}

// New builds a smoother with the given coefficient. rate closer to 1
// smooths more slowly; NewWithTimeConstant below derives it from a time
// constant instead of a raw coefficient.
func New(kind Type, rate float64) *Smoother {
	return &Smoother{kind: kind, rate: rate, threshold: 1e-5}
}

// NewWithTimeConstant builds a smoother whose one-pole coefficient reaches
// roughly 63% of the way to a new target within timeMs milliseconds, at
// the given sample rate.
func NewWithTimeConstant(kind Type, sampleRate float64, timeMs float64) *Smoother {
	rate := math.Exp(-1.0 / (sampleRate * timeMs / 1000.0))
	return New(kind, rate)
}

// Reset snaps the smoother to value with no ramp in progress.
func (s *Smoother) Reset(value float32) {
	s.current = float64(value)
	s.target = float64(value)
	s.smoothing = false
}

// SetTarget begins ramping toward target. A target within threshold of the
// current value is treated as a no-op to avoid restarting a ramp on noise.
func (s *Smoother) SetTarget(target float32) {
	t := float64(target)
	if math.Abs(t-s.target) < s.threshold {
		return
	}
	s.target = t
	s.smoothing = true

	if s.kind == Logarithmic {
		const floor = 1e-3
		cur := math.Max(s.current, floor)
		tgt := math.Max(t, floor)
		s.logCurrent = math.Log(cur)
		s.logTarget = math.Log(tgt)
	}
}

// Next advances the ramp by one sample and returns the new current value.
func (s *Smoother) Next() float32 {
	if !s.smoothing {
		return float32(s.current)
	}

	switch s.kind {
	case Logarithmic:
		s.logCurrent += (s.logTarget - s.logCurrent) * (1.0 - s.rate)
		s.current = math.Exp(s.logCurrent)
		if math.Abs(s.logCurrent-s.logTarget) < s.threshold {
			s.current = s.target
			s.smoothing = false
		}
	default:
		s.current += (s.target - s.current) * (1.0 - s.rate)
		if math.Abs(s.current-s.target) < s.threshold {
			s.current = s.target
			s.smoothing = false
		}
	}
	return float32(s.current)
}

// IsSmoothing reports whether a ramp is still in progress.
func (s *Smoother) IsSmoothing() bool {
	return s.smoothing
}
