package engine

import (
	"io"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Diagnostics records every recoverable error class from SPEC_FULL.md §7
// as a structured log line. It is only ever called from the message
// thread (topology diagnostics) or, for pool exhaustion, from the
// real-time thread's fallback path — logrus itself is not real-time safe,
// but the fallback path is already documented as leaving the real-time
// contract, so the log call is part of that acknowledged exception.
type Diagnostics struct {
	log *logrus.Logger
}

// NewDiagnostics builds a Diagnostics sink around a fresh logrus logger.
func NewDiagnostics() *Diagnostics {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return &Diagnostics{log: log}
}

// NewDiagnosticsWithOutput builds a Diagnostics sink that writes to w
// instead of the default stderr, for callers that want to capture or
// redirect the log stream (the host harness tails it into a TUI pane).
func NewDiagnosticsWithOutput(w io.Writer) *Diagnostics {
	d := NewDiagnostics()
	d.log.SetOutput(w)
	return d
}

// UnknownNodeType logs an add-node op naming a type the Catalogue does not
// know. The op is otherwise silently ignored.
func (d *Diagnostics) UnknownNodeType(nodeID, nodeType string, batch uuid.UUID) {
	d.log.WithFields(logrus.Fields{
		"node_id": nodeID,
		"type":    nodeType,
		"batch":   batch,
	}).Warn("add-node: unknown node type, ignored")
}

// CycleDetected logs that a set of nodes was omitted from the processing
// order because they participate in a cycle.
func (d *Diagnostics) CycleDetected(nodeIDs []string, generation uint64) {
	d.log.WithFields(logrus.Fields{
		"node_ids":   nodeIDs,
		"generation": generation,
	}).Warn("scheduler: cycle detected, nodes omitted from processing order")
}

// PoolExhausted logs that the buffer pool grew past its pre-allocated
// capacity — a configuration bug, not a fatal condition.
func (d *Diagnostics) PoolExhausted(newSize int) {
	d.log.WithField("new_size", newSize).
		Warn("buffer pool exhausted, grew off the real-time contract")
}

// RingFull logs a dropped SPSC push of a parameter update.
func (d *Diagnostics) RingFull(nodeID string) {
	d.log.WithField("node_id", nodeID).Warn("parameter ring full, update dropped")
}

// DanglingConnection logs a connect op whose endpoints do not both exist.
func (d *Diagnostics) DanglingConnection(c Connection) {
	d.log.WithFields(logrus.Fields{
		"from": c.FromNodeID, "to": c.ToNodeID,
	}).Info("connection references a missing node, omitted from processing order")
}
