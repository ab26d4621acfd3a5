package nodes

import (
	"github.com/basswave/raudio/internal/engine"
	"github.com/basswave/raudio/pkg/dsp/conv"
)

// convolverBlockSize is the partition size the frequency-domain delay
// line operates on. Host block sizes rarely line up with this, so each
// channel carries its own input/output accumulator to decouple the two.
const convolverBlockSize = 256

// Convolver implements the catalogue's "convolver" node: uniformly
// partitioned frequency-domain convolution against a loaded impulse
// response, grounded on pkg/dsp/conv (itself built from
// pkg/dsp/analysis.FFT's complex forward/inverse transform).
type Convolver struct {
	engine.Base
	conv []*conv.Convolver

	inAcc    [][]float32
	inLen    []int
	outAcc   [][]float32
	outStart []int
	outLen   []int

	impulse [][]float32
}

// NewConvolver constructs a convolver node. Params: mix (1), the dry/wet
// blend applied after convolution. The impulse response is loaded per
// channel via LoadImpulseResponse, not through a parameter cell.
func NewConvolver(id string) engine.Node {
	return &Convolver{Base: engine.NewBase(id, "convolver", map[string]float32{
		"mix": 1,
	})}
}

// LoadImpulseResponse installs a (possibly per-channel) impulse response.
// ir[0] is reused for every channel if fewer impulse responses than
// channels are supplied. Safe to call only from the message thread.
func (c *Convolver) LoadImpulseResponse(ir [][]float32) {
	c.impulse = ir
	for ch, cv := range c.conv {
		src := ir[0]
		if ch < len(ir) {
			src = ir[ch]
		}
		cv.SetImpulseResponse(src)
	}
}

func (c *Convolver) Prepare(sampleRate float64, maxBlockSize int) {
	channels := 2
	if out := c.Output(); out.Valid() {
		channels = len(out.Buffer)
	}
	c.conv = make([]*conv.Convolver, channels)
	c.inAcc = make([][]float32, channels)
	c.inLen = make([]int, channels)
	c.outAcc = make([][]float32, channels)
	c.outStart = make([]int, channels)
	c.outLen = make([]int, channels)
	for ch := range c.conv {
		c.conv[ch] = conv.NewConvolver(convolverBlockSize)
		var src []float32
		if len(c.impulse) > 0 {
			src = c.impulse[0]
			if ch < len(c.impulse) {
				src = c.impulse[ch]
			}
		}
		c.conv[ch].SetImpulseResponse(src)
		c.inAcc[ch] = make([]float32, convolverBlockSize)
		// outAcc must hold at least one pending partition plus up to a
		// full host block of backlog if the host ever calls with a block
		// larger than convolverBlockSize.
		outCap := convolverBlockSize
		if maxBlockSize > outCap {
			outCap = maxBlockSize
		}
		c.outAcc[ch] = make([]float32, outCap+convolverBlockSize)
	}
}

func (c *Convolver) Process(numSamples int) {
	out := c.Output()
	if !out.Valid() {
		return
	}
	if len(c.conv) != len(out.Buffer) {
		c.Prepare(48000, numSamples)
	}

	mix := c.GetParam("mix")
	inputs := c.Inputs()
	carrierValid := len(inputs) > 0 && inputs[0].Valid()
	if !carrierValid {
		for ch := range out.Buffer {
			clear(out.Buffer[ch][:numSamples])
		}
		return
	}
	in := inputs[0].Buffer

	for ch := range out.Buffer {
		var src []float32
		if ch < len(in) {
			src = in[ch][:numSamples]
		} else {
			src = in[0][:numSamples]
		}
		dst := out.Buffer[ch][:numSamples]
		c.processChannel(ch, src, dst, mix)
	}
}

// processChannel feeds src through the channel's convolver in
// convolverBlockSize partitions, buffering both the unconsumed tail of
// src and any convolved output not yet drained, then blends the wet
// result into dst against the dry src at the node's mix parameter.
func (c *Convolver) processChannel(ch int, src, dst []float32, mix float32) {
	if cap(c.outAcc[ch]) < c.outLen[ch]+len(src)+convolverBlockSize {
		grown := make([]float32, c.outLen[ch]+len(src)+convolverBlockSize)
		copy(grown, c.outAcc[ch][c.outStart[ch]:c.outStart[ch]+c.outLen[ch]])
		c.outAcc[ch] = grown
		c.outStart[ch] = 0
	}

	read := 0
	for read < len(src) {
		n := copy(c.inAcc[ch][c.inLen[ch]:convolverBlockSize], src[read:])
		c.inLen[ch] += n
		read += n

		if c.inLen[ch] < convolverBlockSize {
			break
		}
		block := c.conv[ch].PushBlock(c.inAcc[ch])
		c.inLen[ch] = 0

		end := c.outStart[ch] + c.outLen[ch]
		if end+len(block) > len(c.outAcc[ch]) {
			copy(c.outAcc[ch], c.outAcc[ch][c.outStart[ch]:end])
			end -= c.outStart[ch]
			c.outStart[ch] = 0
		}
		copy(c.outAcc[ch][end:], block)
		c.outLen[ch] += len(block)
	}

	avail := c.outLen[ch]
	if avail > len(dst) {
		avail = len(dst)
	}
	wet := c.outAcc[ch][c.outStart[ch] : c.outStart[ch]+avail]
	for i := 0; i < avail; i++ {
		dst[i] = wet[i]*mix + src[i]*(1-mix)
	}
	for i := avail; i < len(dst); i++ {
		dst[i] = src[i] * (1 - mix)
	}
	c.outStart[ch] += avail
	c.outLen[ch] -= avail
}
