package engine

import (
	"strconv"

	"github.com/basswave/raudio/pkg/dsp/debug"
)

// defaultPoolSize is the number of pre-allocated buffer-pool slots. It is
// smaller than the theoretical maximum node count on purpose (see design
// note in SPEC_FULL.md §9): exceeding it is a diagnosed soft fallback, not
// a hard error.
const defaultPoolSize = 32

// BufferPool lends multi-channel audio scratch space to nodes for the
// duration of one block, without allocating on the real-time thread in the
// common case. Only the real-time thread calls Acquire/Release/ResetAll;
// it owns the pool exclusively for the block it is processing.
type BufferPool struct {
	channels int
	capacity int

	storage [][][]float32
	inUse   []bool

	diagnostics *Diagnostics
	metrics     *Metrics
}

// NewBufferPool pre-allocates poolSlots slots sized channels x capacity. A
// poolSlots of 0 selects defaultPoolSize.
func NewBufferPool(channels, capacity, poolSlots int, diag *Diagnostics, metrics *Metrics) *BufferPool {
	if poolSlots <= 0 {
		poolSlots = defaultPoolSize
	}
	p := &BufferPool{
		channels:    channels,
		capacity:    capacity,
		diagnostics: diag,
		metrics:     metrics,
	}
	p.growTo(poolSlots)
	return p
}

func (p *BufferPool) growTo(n int) {
	for len(p.storage) < n {
		p.storage = append(p.storage, allocBuffer(p.channels, p.capacity))
		p.inUse = append(p.inUse, false)
	}
}

func allocBuffer(channels, capacity int) [][]float32 {
	buf := make([][]float32, channels)
	for ch := range buf {
		buf[ch] = make([]float32, capacity)
	}
	return buf
}

// Acquire returns the index of a free slot and marks it in-use. If every
// slot is in use, the pool grows once — off the real-time contract — logs
// a diagnostic and increments the pool_exhaustion metric, rather than
// failing the block.
func (p *BufferPool) Acquire() int {
	for i, busy := range p.inUse {
		if !busy {
			p.inUse[i] = true
			clearBuffer(p.storage[i])
			// No-op unless built with -tags debug; asserts the common path
			// never hands out a nil or unallocated slot.
			for ch, buf := range p.storage[i] {
				debug.CheckAllocation(buf, "bufferpool.slot."+strconv.Itoa(ch))
			}
			return i
		}
	}

	idx := len(p.storage)
	p.storage = append(p.storage, allocBuffer(p.channels, p.capacity))
	p.inUse = append(p.inUse, true)
	if p.diagnostics != nil {
		p.diagnostics.PoolExhausted(idx)
	}
	if p.metrics != nil {
		p.metrics.PoolExhaustionTotal.Inc()
	}
	return idx
}

// Release marks a slot free again.
func (p *BufferPool) Release(index int) {
	if index >= 0 && index < len(p.inUse) {
		p.inUse[index] = false
	}
}

// ResetAll marks every slot free. Called once at the start of each block.
func (p *BufferPool) ResetAll() {
	for i := range p.inUse {
		p.inUse[i] = false
	}
}

// Slot returns the storage for a previously acquired slot.
func (p *BufferPool) Slot(index int) [][]float32 {
	return p.storage[index]
}

func clearBuffer(buf [][]float32) {
	for ch := range buf {
		clear(buf[ch])
	}
}
