// Package bitset provides a fixed-capacity bit vector safe for concurrent
// single-bit writes.
//
// Architecture:
//   - Flat word array sized at construction (capacity in bits is fixed)
//   - Word-granularity atomic OR for Set; atomic word loads elsewhere
//   - Dense (raw words) and sparse (offset list) views for serialization
//
// Used internally for:
//   - Per-peer incoming-mirror tracking during edge inspection
//   - Host-has-outgoing tracking across peers
package bitset
