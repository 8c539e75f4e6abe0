// Package transport defines the tagged message-passing contract the graph
// loader builds on, and provides Mesh, an in-process implementation for
// tests, demos, and single-machine multi-host runs.
//
// The contract is deliberately thin: per-peer FIFO delivery of opaque byte
// buffers under a (phase, peer) tag, plus a per-host monotonically
// increasing phase counter. The phase counter namespaces the loader's two
// all-to-all exchanges so traffic from one phase can never be mistaken for
// the other on a transport that knows nothing about protocol structure.
package transport
