// Package nodes implements the concrete DSP node catalogue: thin
// real-time-safe adapters over the algorithms in pkg/dsp, wired to the
// engine.Node contract. Every constructor here has the shape
// func(id string) engine.Node so it can be registered into an
// engine.Catalogue by RegisterAll.
package nodes
