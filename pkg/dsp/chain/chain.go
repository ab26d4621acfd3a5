// Package chain provides a fluent builder for assembling a linear run of
// graph nodes into the Op batch internal/engine.Authority expects, instead
// of hand-writing every AddNode/Connect/SetOutput call.
package chain

import (
	"fmt"

	"github.com/basswave/raudio/internal/engine"
)

// stage is one node in a chain-in-progress.
type stage struct {
	id     string
	typ    string
	params map[string]float32
}

// Builder assembles a linear chain of nodes, each outlet 0 feeding the next
// inlet 0, and designates the final stage as the graph output.
type Builder struct {
	stages []stage
	errs   []error
}

// NewBuilder returns an empty chain builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Add appends a node to the end of the chain.
func (b *Builder) Add(id, nodeType string, params map[string]float32) *Builder {
	if id == "" {
		b.errs = append(b.errs, fmt.Errorf("chain: node id cannot be empty"))
		return b
	}
	b.stages = append(b.stages, stage{id: id, typ: nodeType, params: params})
	return b
}

// IsEmpty reports whether any stage has been added.
func (b *Builder) IsEmpty() bool {
	return len(b.stages) == 0
}

// Count returns the number of stages added so far.
func (b *Builder) Count() int {
	return len(b.stages)
}

// Build returns the Op batch that instantiates every stage, connects them
// in series, and sets the last stage as the graph's output. Submit the
// result to Engine.SubmitOps in one call so a partially-applied chain is
// never published.
func (b *Builder) Build() ([]engine.Op, error) {
	if len(b.errs) > 0 {
		return nil, fmt.Errorf("chain build errors: %v", b.errs)
	}
	if len(b.stages) == 0 {
		return nil, fmt.Errorf("chain: cannot build an empty chain")
	}

	ops := make([]engine.Op, 0, len(b.stages)*2)
	for _, s := range b.stages {
		ops = append(ops, engine.AddNode(s.id, s.typ, s.params))
	}
	for i := 1; i < len(b.stages); i++ {
		ops = append(ops, engine.Connect(b.stages[i-1].id, 0, b.stages[i].id, 0))
	}
	ops = append(ops, engine.SetOutput(b.stages[len(b.stages)-1].id))
	return ops, nil
}

// mergeTypeTag is the catalogue type tag for a summing node; kept as a
// string rather than an internal/nodes import to avoid a package cycle
// (internal/nodes already imports internal/engine).
const mergeTypeTag = "merge"

// Parallel builds a pair of independent chains, each running from the
// same source, and sums their outputs into a single merge node. It returns
// the combined Op batch and the merge node's id for further chaining.
func Parallel(mergeID string, left, right *Builder) ([]engine.Op, string, error) {
	if left.IsEmpty() || right.IsEmpty() {
		return nil, "", fmt.Errorf("chain: parallel branches cannot be empty")
	}
	leftOps, err := left.Build()
	if err != nil {
		return nil, "", fmt.Errorf("chain: left branch: %w", err)
	}
	rightOps, err := right.Build()
	if err != nil {
		return nil, "", fmt.Errorf("chain: right branch: %w", err)
	}

	// Build() sets an output on each branch; drop those SetOutput ops here
	// since only the merge node's output should survive in a parallel join.
	leftOps = dropSetOutput(leftOps)
	rightOps = dropSetOutput(rightOps)

	ops := make([]engine.Op, 0, len(leftOps)+len(rightOps)+3)
	ops = append(ops, leftOps...)
	ops = append(ops, rightOps...)
	ops = append(ops, engine.AddNode(mergeID, mergeTypeTag, nil))
	ops = append(ops, engine.Connect(left.stages[len(left.stages)-1].id, 0, mergeID, 0))
	ops = append(ops, engine.Connect(right.stages[len(right.stages)-1].id, 0, mergeID, 1))
	ops = append(ops, engine.SetOutput(mergeID))
	return ops, mergeID, nil
}

func dropSetOutput(ops []engine.Op) []engine.Op {
	kept := ops[:0:0]
	for _, op := range ops {
		if op.Kind == engine.OpSetOutput {
			continue
		}
		kept = append(kept, op)
	}
	return kept
}
