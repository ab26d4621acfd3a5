package nodes

import (
	"sync"

	"github.com/basswave/raudio/internal/engine"
	"github.com/basswave/raudio/pkg/dsp/analysis"
)

const (
	spectrumFFTSize   = 2048
	spectrumBandCount = spectrumFFTSize / 2
	spectrumFloor     = 1e-10
)

// Spectrum implements the catalogue's "spectrum" node: a passthrough
// analyzer that streams channel 0 into a ring, and each time the ring
// fills, runs a windowed forward FFT and republishes the normalized
// magnitude vector for message-thread readout. The FFT core is teacher
// pkg/dsp/analysis.FFT (iterative radix-2 Cooley-Tukey); the ring-fill
// and mutex hand-off policy is this node's own, since the audio path
// only ever needs the passthrough plus a periodic snapshot.
type Spectrum struct {
	engine.Base
	fft       *analysis.FFT
	ring      [spectrumFFTSize]float64
	writePos  int

	mu        sync.Mutex
	magnitude [spectrumBandCount]float64
}

// NewSpectrum constructs a spectrum node. It has no adjustable parameters
// beyond bypass; window and FFT size are fixed by the node contract.
func NewSpectrum(id string) engine.Node {
	return &Spectrum{Base: engine.NewBase(id, "spectrum", map[string]float32{})}
}

func (s *Spectrum) Prepare(sampleRate float64, maxBlockSize int) {
	if s.fft == nil {
		s.fft = analysis.NewFFT(spectrumFFTSize, analysis.HannWindow)
	}
}

func (s *Spectrum) Process(numSamples int) {
	out := s.Output()
	inputs := s.Inputs()
	carrierValid := len(inputs) > 0 && inputs[0].Valid()

	if out.Valid() {
		if carrierValid {
			for ch := range out.Buffer {
				if ch < len(inputs[0].Buffer) {
					copy(out.Buffer[ch][:numSamples], inputs[0].Buffer[ch][:numSamples])
				} else {
					clear(out.Buffer[ch][:numSamples])
				}
			}
		} else {
			for ch := range out.Buffer {
				clear(out.Buffer[ch][:numSamples])
			}
		}
	}
	if !carrierValid {
		return
	}

	if s.fft == nil {
		s.fft = analysis.NewFFT(spectrumFFTSize, analysis.HannWindow)
	}

	mono := inputs[0].Buffer[0]
	for i := 0; i < numSamples; i++ {
		s.ring[s.writePos] = float64(mono[i])
		s.writePos++
		if s.writePos == spectrumFFTSize {
			s.writePos = 0
			s.analyzeRing()
		}
	}
}

func (s *Spectrum) analyzeRing() {
	magnitude, _ := s.fft.Forward(s.ring[:])

	maxBin := spectrumFloor
	for _, v := range magnitude[:spectrumBandCount] {
		if v > maxBin {
			maxBin = v
		}
	}

	s.mu.Lock()
	for i := 0; i < spectrumBandCount; i++ {
		s.magnitude[i] = magnitude[i] / maxBin
	}
	s.mu.Unlock()
}

// Magnitudes copies the most recently published normalized magnitude
// vector (length 1024) into dst, growing it if necessary, and returns it.
// Safe to call from the message thread at any cadence; the lock is held
// only for the duration of the copy.
func (s *Spectrum) Magnitudes(dst []float64) []float64 {
	if cap(dst) < spectrumBandCount {
		dst = make([]float64, spectrumBandCount)
	}
	dst = dst[:spectrumBandCount]
	s.mu.Lock()
	copy(dst, s.magnitude[:])
	s.mu.Unlock()
	return dst
}
