// Package engine implements the real-time audio graph: node lifecycle,
// lock-free cross-thread coordination, atomic topology publication,
// buffer-pool allocation, topological scheduling, and the per-block
// processing loop.
//
// Two logical threads touch this package: the message thread (Authority,
// SubmitOps, SetNodeParam) and the real-time audio thread (Processor.ProcessBlock).
// Every exported type documents which thread it is safe to call from.
package engine
