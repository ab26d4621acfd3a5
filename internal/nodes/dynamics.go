package nodes

import (
	"github.com/basswave/raudio/internal/engine"
	"github.com/basswave/raudio/pkg/dsp/dynamics"
)

// Compressor implements the catalogue's "compressor" node: soft/hard knee
// feed-forward compression with an attack/release envelope and an
// optional sidechain on inlet 1, grounded on teacher
// pkg/dsp/dynamics.Compressor.
type Compressor struct {
	engine.Base
	comp []*dynamics.Compressor
}

// NewCompressor constructs a compressor node. Params: thresholdDb (-20),
// ratio (4), attackMs (5), releaseMs (50), kneeDb (2), softKnee (1),
// makeupGainDb (0), sidechain (0/1, read inlet 1 as the detector input).
func NewCompressor(id string) engine.Node {
	return &Compressor{Base: engine.NewBase(id, "compressor", map[string]float32{
		"thresholdDb":  -20,
		"ratio":        4,
		"attackMs":     5,
		"releaseMs":    50,
		"kneeDb":       2,
		"softKnee":     1,
		"makeupGainDb": 0,
		"sidechain":    0,
	})}
}

func (c *Compressor) Prepare(sampleRate float64, maxBlockSize int) {
	channels := 2
	if out := c.Output(); out.Valid() {
		channels = len(out.Buffer)
	}
	c.comp = make([]*dynamics.Compressor, channels)
	for ch := range c.comp {
		c.comp[ch] = dynamics.NewCompressor(sampleRate)
	}
}

func (c *Compressor) Process(numSamples int) {
	out := c.Output()
	if !out.Valid() {
		return
	}
	if len(c.comp) != len(out.Buffer) {
		c.Prepare(48000, numSamples)
	}

	knee := dynamics.KneeHard
	if c.GetParam("softKnee") > 0.5 {
		knee = dynamics.KneeSoft
	}
	for _, cc := range c.comp {
		cc.SetThreshold(float64(c.GetParam("thresholdDb")))
		cc.SetRatio(float64(c.GetParam("ratio")))
		cc.SetAttack(float64(c.GetParam("attackMs")) / 1000.0)
		cc.SetRelease(float64(c.GetParam("releaseMs")) / 1000.0)
		cc.SetKnee(knee, float64(c.GetParam("kneeDb")))
		cc.SetMakeupGain(float64(c.GetParam("makeupGainDb")))
	}

	inputs := c.Inputs()
	carrierValid := len(inputs) > 0 && inputs[0].Valid()
	sidechainOn := c.GetParam("sidechain") > 0.5 && len(inputs) > 1 && inputs[1].Valid()

	for ch := range out.Buffer {
		o := out.Buffer[ch][:numSamples]
		if !carrierValid || ch >= len(inputs[0].Buffer) {
			clear(o)
			continue
		}
		in := inputs[0].Buffer[ch][:numSamples]
		if sidechainOn {
			sc := in
			if ch < len(inputs[1].Buffer) {
				sc = inputs[1].Buffer[ch][:numSamples]
			}
			c.comp[ch].ProcessSidechain(in, sc, o)
			continue
		}
		c.comp[ch].ProcessBuffer(in, o)
	}
}

// Gate implements the catalogue's supplemental "gate" node: a noise gate
// with hysteresis and hold time, grounded on teacher
// pkg/dsp/dynamics.Gate.
type Gate struct {
	engine.Base
	gate []*dynamics.Gate
}

// NewGate constructs a gate node. Params: thresholdDb (-40),
// hysteresisDb (3), attackMs (1), holdMs (50), releaseMs (100),
// rangeDb (60).
func NewGate(id string) engine.Node {
	return &Gate{Base: engine.NewBase(id, "gate", map[string]float32{
		"thresholdDb":  -40,
		"hysteresisDb": 3,
		"attackMs":     1,
		"holdMs":       50,
		"releaseMs":    100,
		"rangeDb":      60,
	})}
}

func (g *Gate) Prepare(sampleRate float64, maxBlockSize int) {
	channels := 2
	if out := g.Output(); out.Valid() {
		channels = len(out.Buffer)
	}
	g.gate = make([]*dynamics.Gate, channels)
	for ch := range g.gate {
		g.gate[ch] = dynamics.NewGate(sampleRate)
	}
}

func (g *Gate) Process(numSamples int) {
	out := g.Output()
	if !out.Valid() {
		return
	}
	if len(g.gate) != len(out.Buffer) {
		g.Prepare(48000, numSamples)
	}
	for _, gg := range g.gate {
		gg.SetThreshold(float64(g.GetParam("thresholdDb")))
		gg.SetHysteresis(float64(g.GetParam("hysteresisDb")))
		gg.SetAttack(float64(g.GetParam("attackMs")) / 1000.0)
		gg.SetHold(float64(g.GetParam("holdMs")) / 1000.0)
		gg.SetRelease(float64(g.GetParam("releaseMs")) / 1000.0)
		gg.SetRange(float64(g.GetParam("rangeDb")))
	}

	inputs := g.Inputs()
	carrierValid := len(inputs) > 0 && inputs[0].Valid()
	for ch := range out.Buffer {
		o := out.Buffer[ch][:numSamples]
		if !carrierValid || ch >= len(inputs[0].Buffer) {
			clear(o)
			continue
		}
		g.gate[ch].ProcessBuffer(inputs[0].Buffer[ch][:numSamples], o)
	}
}

// Expander implements the catalogue's supplemental "expander" node,
// grounded on teacher pkg/dsp/dynamics.Expander.
type Expander struct {
	engine.Base
	exp []*dynamics.Expander
}

// NewExpander constructs an expander node. Params: thresholdDb (-30),
// ratio (2), attackMs (5), releaseMs (100), kneeDb (3).
func NewExpander(id string) engine.Node {
	return &Expander{Base: engine.NewBase(id, "expander", map[string]float32{
		"thresholdDb": -30,
		"ratio":       2,
		"attackMs":    5,
		"releaseMs":   100,
		"kneeDb":      3,
	})}
}

func (e *Expander) Prepare(sampleRate float64, maxBlockSize int) {
	channels := 2
	if out := e.Output(); out.Valid() {
		channels = len(out.Buffer)
	}
	e.exp = make([]*dynamics.Expander, channels)
	for ch := range e.exp {
		e.exp[ch] = dynamics.NewExpander(sampleRate)
	}
}

func (e *Expander) Process(numSamples int) {
	out := e.Output()
	if !out.Valid() {
		return
	}
	if len(e.exp) != len(out.Buffer) {
		e.Prepare(48000, numSamples)
	}
	for _, ee := range e.exp {
		ee.SetThreshold(float64(e.GetParam("thresholdDb")))
		ee.SetRatio(float64(e.GetParam("ratio")))
		ee.SetAttack(float64(e.GetParam("attackMs")) / 1000.0)
		ee.SetRelease(float64(e.GetParam("releaseMs")) / 1000.0)
		ee.SetKnee(float64(e.GetParam("kneeDb")))
	}

	inputs := e.Inputs()
	carrierValid := len(inputs) > 0 && inputs[0].Valid()
	for ch := range out.Buffer {
		o := out.Buffer[ch][:numSamples]
		if !carrierValid || ch >= len(inputs[0].Buffer) {
			clear(o)
			continue
		}
		e.exp[ch].ProcessBuffer(inputs[0].Buffer[ch][:numSamples], o)
	}
}

// Limiter implements the catalogue's supplemental "limiter" node: a
// brick-wall lookahead limiter, grounded on teacher
// pkg/dsp/dynamics.Limiter.
type Limiter struct {
	engine.Base
	lim []*dynamics.Limiter
}

// NewLimiter constructs a limiter node. Params: thresholdDb (-0.3),
// releaseMs (50), lookaheadMs (5), truePeak (0/1).
func NewLimiter(id string) engine.Node {
	return &Limiter{Base: engine.NewBase(id, "limiter", map[string]float32{
		"thresholdDb": -0.3,
		"releaseMs":   50,
		"lookaheadMs": 5,
		"truePeak":    0,
	})}
}

func (l *Limiter) Prepare(sampleRate float64, maxBlockSize int) {
	channels := 2
	if out := l.Output(); out.Valid() {
		channels = len(out.Buffer)
	}
	l.lim = make([]*dynamics.Limiter, channels)
	for ch := range l.lim {
		l.lim[ch] = dynamics.NewLimiter(sampleRate)
	}
}

func (l *Limiter) Process(numSamples int) {
	out := l.Output()
	if !out.Valid() {
		return
	}
	if len(l.lim) != len(out.Buffer) {
		l.Prepare(48000, numSamples)
	}
	for _, ll := range l.lim {
		ll.SetThreshold(float64(l.GetParam("thresholdDb")))
		ll.SetRelease(float64(l.GetParam("releaseMs")) / 1000.0)
		ll.SetLookahead(float64(l.GetParam("lookaheadMs")) / 1000.0)
		ll.SetTruePeak(l.GetParam("truePeak") > 0.5)
	}

	inputs := l.Inputs()
	carrierValid := len(inputs) > 0 && inputs[0].Valid()
	for ch := range out.Buffer {
		o := out.Buffer[ch][:numSamples]
		if !carrierValid || ch >= len(inputs[0].Buffer) {
			clear(o)
			continue
		}
		l.lim[ch].ProcessBuffer(inputs[0].Buffer[ch][:numSamples], o)
	}
}
