package engine

import "testing"

func testCatalogue() *Catalogue {
	cat := NewCatalogue()
	cat.Register("test-gain", func(id string) Node { return newPassthroughGain(id) })
	return cat
}

func TestAuthorityAddConnectSetOutput(t *testing.T) {
	a := NewAuthority(testCatalogue(), NewDiagnostics(), nil, 48000, 512)

	a.ApplyBatch([]Op{
		AddNode("in", inputTypeTag, nil),
		AddNode("g", "test-gain", map[string]float32{"gain": 1}),
		Connect("in", 0, "g", 0),
		SetOutput("g"),
	})

	snap := a.Active()
	if snap.OutputNodeID != "g" {
		t.Fatalf("output node id: got %q", snap.OutputNodeID)
	}
	if len(snap.ProcessingOrder) != 1 || snap.ProcessingOrder[0].ID() != "g" {
		t.Fatalf("processing order: got %v", snap.ProcessingOrder)
	}
	if snap.InputNodeIDs[0] != "in" {
		t.Fatalf("input binding: got %v", snap.InputNodeIDs)
	}
}

func TestAuthorityBatchPublishesExactlyOneSnapshot(t *testing.T) {
	a := NewAuthority(testCatalogue(), NewDiagnostics(), nil, 48000, 512)
	before := a.Generation()

	a.ApplyBatch([]Op{
		AddNode("a", "test-gain", nil),
		AddNode("b", "test-gain", nil),
		Connect("a", 0, "b", 0),
		SetOutput("b"),
	})

	if got := a.Generation(); got != before+1 {
		t.Fatalf("batch of 4 topology ops should publish exactly once: generation went from %d to %d", before, got)
	}
}

func TestAuthorityUnknownNodeTypeIgnored(t *testing.T) {
	a := NewAuthority(testCatalogue(), NewDiagnostics(), nil, 48000, 512)
	a.ApplyBatch([]Op{AddNode("x", "does-not-exist", nil)})

	snap := a.Active()
	if _, ok := snap.NodeLookup["x"]; ok {
		t.Fatal("unknown node type should not be instantiated")
	}
}

func TestAuthorityCycleOmitsNodesNotTheWholeGraph(t *testing.T) {
	a := NewAuthority(testCatalogue(), NewDiagnostics(), nil, 48000, 512)
	a.ApplyBatch([]Op{
		AddNode("a", "test-gain", nil),
		AddNode("b", "test-gain", nil),
		Connect("a", 0, "b", 0),
		Connect("b", 0, "a", 0),
		SetOutput("a"),
	})

	snap := a.Active()
	if len(snap.ProcessingOrder) != 0 {
		t.Fatalf("2-cycle should omit both nodes: %v", snap.ProcessingOrder)
	}
	if len(snap.OmittedNodeIDs) != 2 {
		t.Fatalf("expected 2 omitted node ids, got %v", snap.OmittedNodeIDs)
	}

	// Breaking the cycle restores normal rendering (E6).
	a.ApplyBatch([]Op{Disconnect("b", 0, "a", 0)})
	snap = a.Active()
	if len(snap.ProcessingOrder) != 2 {
		t.Fatalf("removing one edge of the cycle should restore both nodes: %v", snap.ProcessingOrder)
	}
}

func TestAuthorityRemoveNodeClearsConnectionsAndBindings(t *testing.T) {
	a := NewAuthority(testCatalogue(), NewDiagnostics(), nil, 48000, 512)
	a.ApplyBatch([]Op{
		AddNode("a", "test-gain", nil),
		AddNode("b", "test-gain", nil),
		Connect("a", 0, "b", 0),
		SetOutput("b"),
	})
	a.ApplyBatch([]Op{RemoveNode("b")})

	snap := a.Active()
	if _, ok := snap.NodeLookup["b"]; ok {
		t.Fatal("removed node still present in snapshot")
	}
	if snap.OutputNodeID != "" {
		t.Fatalf("output binding to a removed node should clear, got %q", snap.OutputNodeID)
	}
	for _, c := range snap.Connections {
		if c.ToNodeID == "b" || c.FromNodeID == "b" {
			t.Fatalf("connection referencing removed node survived: %v", c)
		}
	}
}

func TestAuthorityFastPathParamWrite(t *testing.T) {
	a := NewAuthority(testCatalogue(), NewDiagnostics(), nil, 48000, 512)
	a.ApplyBatch([]Op{AddNode("g", "test-gain", map[string]float32{"gain": 1})})

	a.SetNodeParam("g", "gain", 0.5)

	node := a.Active().NodeLookup["g"]
	if got := node.GetParam("gain"); got != 0.5 {
		t.Fatalf("fast-path write not visible: got %v", got)
	}
}

func TestAuthoritySetOutputToEmptySilencesGraph(t *testing.T) {
	a := NewAuthority(testCatalogue(), NewDiagnostics(), nil, 48000, 512)
	a.ApplyBatch([]Op{
		AddNode("g", "test-gain", nil),
		SetOutput("g"),
	})
	a.ApplyBatch([]Op{SetOutput("")})

	if got := a.Active().OutputNodeID; got != "" {
		t.Fatalf("expected empty output id, got %q", got)
	}
}
