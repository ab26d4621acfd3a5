// Package conv implements uniformly-partitioned frequency-domain
// convolution, built on pkg/dsp/analysis's FFT primitive.
package conv

import "github.com/basswave/raudio/pkg/dsp/analysis"

// Convolver performs overlap-add convolution against an arbitrarily long
// impulse response by partitioning it into equal-sized blocks, each held
// as its own frequency-domain spectrum, and multiply-accumulating against
// a frequency-domain delay line of recent input spectra (uniformly
// partitioned overlap-add convolution).
type Convolver struct {
	blockSize int
	fftSize   int
	fft       *analysis.FFT

	irSpectra [][]complex128
	fdl       [][]complex128
	fdlPos    int

	overlapTail []float64

	// Scratch reused across PushBlock calls to avoid an allocation per
	// partition-sized block; allocated once in NewConvolver and not
	// reallocated by SetImpulseResponse.
	padded    []complex128
	acc       []complex128
	accReal   []float64
	accImag   []float64
	out       []float32
}

// NewConvolver constructs a convolver with the given partition size. Call
// SetImpulseResponse before PushBlock.
func NewConvolver(blockSize int) *Convolver {
	fftSize := blockSize * 2
	c := &Convolver{
		blockSize:   blockSize,
		fftSize:     fftSize,
		fft:         analysis.NewFFT(fftSize, analysis.RectangularWindow),
		overlapTail: make([]float64, blockSize),
		padded:      make([]complex128, fftSize),
		acc:         make([]complex128, fftSize),
		accReal:     make([]float64, fftSize),
		accImag:     make([]float64, fftSize),
		out:         make([]float32, blockSize),
	}
	c.SetImpulseResponse(nil)
	return c
}

// BlockSize returns the partition size PushBlock expects.
func (c *Convolver) BlockSize() int { return c.blockSize }

// SetImpulseResponse partitions ir into blockSize-sized segments and
// precomputes each segment's frequency-domain spectrum. Resets the
// frequency-domain delay line and overlap tail, so any in-flight tail
// from a prior impulse response is discarded.
func (c *Convolver) SetImpulseResponse(ir []float32) {
	numPartitions := (len(ir) + c.blockSize - 1) / c.blockSize
	if numPartitions == 0 {
		numPartitions = 1
	}
	c.irSpectra = make([][]complex128, numPartitions)
	c.fdl = make([][]complex128, numPartitions)
	for p := 0; p < numPartitions; p++ {
		block := make([]complex128, c.fftSize)
		start := p * c.blockSize
		for i := 0; i < c.blockSize && start+i < len(ir); i++ {
			block[i] = complex(float64(ir[start+i]), 0)
		}
		c.irSpectra[p] = c.fft.ForwardComplex(block)
		c.fdl[p] = make([]complex128, c.fftSize)
	}
	c.fdlPos = 0
	for i := range c.overlapTail {
		c.overlapTail[i] = 0
	}
}

// PushBlock convolves exactly one blockSize-length chunk of input and
// returns the corresponding blockSize-length chunk of output. The
// returned slice is owned by the Convolver and is only valid until the
// next PushBlock call.
func (c *Convolver) PushBlock(input []float32) []float32 {
	for i := range c.padded {
		c.padded[i] = 0
	}
	for i := 0; i < c.blockSize && i < len(input); i++ {
		c.padded[i] = complex(float64(input[i]), 0)
	}
	spectrum := c.fft.ForwardComplex(c.padded)
	c.fdl[c.fdlPos] = spectrum

	n := len(c.irSpectra)
	for i := range c.acc {
		c.acc[i] = 0
	}
	for k := 0; k < n; k++ {
		fdlIdx := (c.fdlPos - k + n) % n
		ir := c.irSpectra[k]
		in := c.fdl[fdlIdx]
		for i := 0; i < c.fftSize; i++ {
			c.acc[i] += ir[i] * in[i]
		}
	}
	c.fdlPos = (c.fdlPos + 1) % n

	for i, v := range c.acc {
		c.accReal[i] = real(v)
		c.accImag[i] = imag(v)
	}
	timeDomain := c.fft.Inverse(c.accReal, c.accImag)

	for i := 0; i < c.blockSize; i++ {
		c.out[i] = float32(timeDomain[i]) + float32(c.overlapTail[i])
	}
	for i := 0; i < c.blockSize; i++ {
		c.overlapTail[i] = timeDomain[c.blockSize+i]
	}
	return c.out
}
