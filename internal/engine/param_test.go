package engine

import (
	"sync"
	"testing"
)

func TestParamSetNeverObservesATornFloat(t *testing.T) {
	ps := NewParamSet(map[string]float32{"cutoff": 1000})

	var wg sync.WaitGroup
	wg.Add(2)

	values := []float32{20, 8000, 440, 19999, 0.1, -5}
	go func() {
		defer wg.Done()
		for i := 0; i < 5000; i++ {
			ps.Set("cutoff", values[i%len(values)])
		}
	}()

	validSet := make(map[float32]bool, len(values)+1)
	validSet[1000] = true
	for _, v := range values {
		validSet[v] = true
	}

	go func() {
		defer wg.Done()
		for i := 0; i < 5000; i++ {
			v := ps.Get("cutoff")
			if !validSet[v] {
				t.Errorf("observed torn or invalid value: %v", v)
				return
			}
		}
	}()

	wg.Wait()
}

func TestParamSetUnknownNameIgnoredOnWriteZeroOnRead(t *testing.T) {
	ps := NewParamSet(map[string]float32{"gain": 1})
	ps.Set("does-not-exist", 42)
	if got := ps.Get("does-not-exist"); got != 0 {
		t.Fatalf("unknown param read: got %v, want 0", got)
	}
}

func TestParamSetAlwaysHasBypass(t *testing.T) {
	ps := NewParamSet(nil)
	if ps.Bypassed() {
		t.Fatal("bypass should default to false")
	}
	ps.Set("bypass", 1)
	if !ps.Bypassed() {
		t.Fatal("bypass should read back true after being set to 1")
	}
}
