package smoothing

import "testing"

func TestSmootherRampsTowardTargetWithoutOvershoot(t *testing.T) {
	s := New(Exponential, 0.9)
	s.Reset(0)
	s.SetTarget(1)

	prev := float32(0)
	for i := 0; i < 200; i++ {
		v := s.Next()
		if v < prev {
			t.Fatalf("sample %d: value decreased (%v -> %v) during a monotonic ramp", i, prev, v)
		}
		if v > 1.0001 {
			t.Fatalf("sample %d: overshot target, got %v", i, v)
		}
		prev = v
	}
	if !closeEnough(prev, 1) {
		t.Fatalf("ramp did not converge to target, got %v", prev)
	}
	if s.IsSmoothing() {
		t.Fatal("expected smoothing to have settled")
	}
}

func TestSmootherNoOpOnInsignificantTargetChange(t *testing.T) {
	s := New(Exponential, 0.9)
	s.Reset(5)
	s.SetTarget(5 + 1e-7)
	if s.IsSmoothing() {
		t.Fatal("an insignificant target change should not start a ramp")
	}
}

func TestLogarithmicSmootherConvergesForFrequencySweep(t *testing.T) {
	s := New(Logarithmic, 0.95)
	s.Reset(200)
	s.SetTarget(4000)

	var last float32
	for i := 0; i < 2000; i++ {
		last = s.Next()
	}
	if !closeEnough(last, 4000) {
		t.Fatalf("logarithmic ramp did not converge, got %v", last)
	}
}

func closeEnough(got, want float32) bool {
	diff := got - want
	if diff < 0 {
		diff = -diff
	}
	return diff < 0.01*want || diff < 0.01
}
