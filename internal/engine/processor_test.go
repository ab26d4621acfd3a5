package engine

import "testing"

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	return NewEngine(testCatalogue(), NewDiagnostics(), nil, Config{
		SampleRate:   48000,
		MaxBlockSize: 64,
		Channels:     2,
	})
}

func monoBuffer(samples []float32) [][]float32 {
	return [][]float32{samples}
}

func TestProcessBlockPurePassthrough(t *testing.T) {
	e := newTestEngine(t)
	e.SubmitOps(
		AddNode("in", inputTypeTag, nil),
		SetOutput("in"),
	)

	in := []float32{0.25, -0.25, 0.5, -0.5}
	out := []float32{0, 0, 0, 0}
	e.ProcessBlock(map[int][][]float32{0: monoBuffer(in)}, monoBuffer(out), 4)

	for i, v := range in {
		if out[i] != v {
			t.Fatalf("sample %d: got %v, want %v", i, out[i], v)
		}
	}
}

func TestProcessBlockUnityGain(t *testing.T) {
	e := newTestEngine(t)
	e.SubmitOps(
		AddNode("in", inputTypeTag, nil),
		AddNode("g", "test-gain", map[string]float32{"gain": 1.0}),
		Connect("in", 0, "g", 0),
		SetOutput("g"),
	)

	in := []float32{1, 1, 1, 1}
	out := make([]float32, 4)
	e.ProcessBlock(map[int][][]float32{0: monoBuffer(in)}, monoBuffer(out), 4)

	for i, v := range out {
		if v != 1 {
			t.Fatalf("sample %d: got %v, want 1", i, v)
		}
	}
}

func TestProcessBlockBypassEqualsPassthrough(t *testing.T) {
	e := newTestEngine(t)
	e.SubmitOps(
		AddNode("in", inputTypeTag, nil),
		AddNode("g", "test-gain", map[string]float32{"gain": 4.0, "bypass": 1}),
		Connect("in", 0, "g", 0),
		SetOutput("g"),
	)

	in := []float32{0.1, 0.2, 0.3, 0.4}
	out := make([]float32, 4)
	e.ProcessBlock(map[int][][]float32{0: monoBuffer(in)}, monoBuffer(out), 4)

	for i, v := range in {
		if out[i] != v {
			t.Fatalf("bypass sample %d: got %v, want %v (inlet 0 passthrough)", i, out[i], v)
		}
	}
}

func TestProcessBlockZeroInputIsIdempotent(t *testing.T) {
	e := newTestEngine(t)
	// Output node wired only to a disconnected gain: silent by construction.
	e.SubmitOps(
		AddNode("g", "test-gain", map[string]float32{"gain": 1}),
		SetOutput("g"),
	)

	out := make([]float32, 8)
	for i := range out {
		out[i] = 99 // poison, must be overwritten with silence
	}
	e.ProcessBlock(nil, monoBuffer(out), 8)

	for i, v := range out {
		if v != 0 {
			t.Fatalf("sample %d: got %v, want 0", i, v)
		}
	}
}

func TestProcessBlockNoOutputNodeClearsHostBuffer(t *testing.T) {
	e := newTestEngine(t)
	e.SubmitOps(AddNode("g", "test-gain", nil))

	out := []float32{7, 7, 7, 7}
	e.ProcessBlock(nil, monoBuffer(out), 4)
	for _, v := range out {
		if v != 0 {
			t.Fatalf("expected cleared output with no designated output node, got %v", out)
		}
	}
}

func TestProcessBlockSnapshotAtomicity(t *testing.T) {
	e := newTestEngine(t)
	e.SubmitOps(AddNode("in", inputTypeTag, nil))

	before := e.Generation()
	e.SubmitOps(
		AddNode("a", "test-gain", map[string]float32{"gain": 2}),
		AddNode("b", "test-gain", map[string]float32{"gain": 3}),
		Connect("a", 0, "b", 0),
		SetOutput("b"),
	)
	after := e.Generation()

	if after != before+1 {
		t.Fatalf("batched ops should publish exactly one new snapshot: %d -> %d", before, after)
	}

	snap := e.ActiveSnapshot()
	if snap.OutputNodeID != "b" {
		t.Fatalf("post-batch snapshot incomplete: output node %q", snap.OutputNodeID)
	}
}

func TestQueueParamUpdateAppliedAtBlockStart(t *testing.T) {
	e := newTestEngine(t)
	e.SubmitOps(
		AddNode("in", inputTypeTag, nil),
		AddNode("g", "test-gain", map[string]float32{"gain": 1}),
		Connect("in", 0, "g", 0),
		SetOutput("g"),
	)

	if !e.QueueParamUpdate("g", map[string]float32{"gain": 2}) {
		t.Fatal("queue push unexpectedly failed")
	}

	in := []float32{1, 1}
	out := make([]float32, 2)
	e.ProcessBlock(map[int][][]float32{0: monoBuffer(in)}, monoBuffer(out), 2)

	for _, v := range out {
		if v != 2 {
			t.Fatalf("queued parameter update not applied before process: got %v, want 2", v)
		}
	}
}
