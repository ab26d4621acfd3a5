package engine

import "testing"

func TestBufferPoolAcquireReleaseReset(t *testing.T) {
	p := NewBufferPool(2, 16, 0, NewDiagnostics(), nil)

	first := p.Acquire()
	second := p.Acquire()
	if first == second {
		t.Fatal("acquire returned the same slot twice while both in use")
	}

	p.Release(first)
	third := p.Acquire()
	if third != first {
		t.Fatalf("released slot not reused: got %d, want %d", third, first)
	}

	p.ResetAll()
	// every slot should be free again; acquiring defaultPoolSize times must
	// never repeat an index.
	seen := make(map[int]bool)
	for i := 0; i < defaultPoolSize; i++ {
		idx := p.Acquire()
		if seen[idx] {
			t.Fatalf("acquire returned duplicate index %d after reset", idx)
		}
		seen[idx] = true
	}
}

func TestBufferPoolGrowsPastCapacityInsteadOfFailing(t *testing.T) {
	p := NewBufferPool(1, 4, 0, NewDiagnostics(), nil)
	indices := make(map[int]bool)
	for i := 0; i < defaultPoolSize+5; i++ {
		idx := p.Acquire()
		if indices[idx] {
			t.Fatalf("acquire returned duplicate index %d while exhausted", idx)
		}
		indices[idx] = true
	}
	if len(indices) != defaultPoolSize+5 {
		t.Fatalf("expected %d distinct slots, got %d", defaultPoolSize+5, len(indices))
	}
}

func TestBufferPoolSlotsAreZeroedOnAcquire(t *testing.T) {
	p := NewBufferPool(1, 4, 0, NewDiagnostics(), nil)
	idx := p.Acquire()
	buf := p.Slot(idx)
	buf[0][0] = 1
	buf[0][1] = 1
	p.Release(idx)
	p.ResetAll()

	idx2 := p.Acquire()
	buf2 := p.Slot(idx2)
	if idx2 == idx {
		for _, v := range buf2[0] {
			if v != 0 {
				t.Fatalf("reacquired slot not cleared: %v", buf2[0])
			}
		}
	}
}
