// Package wire defines the binary message formats exchanged between hosts
// during graph partitioning.
//
// Two message families exist, one per protocol phase:
//
//   - Inspection messages carry an outgoing-count vector and an
//     incoming-mirror bitset, each behind a small tag byte. The bitset is
//     serialized raw (dense) when 4*popcount exceeds its bit length and as
//     an offset list (sparse) otherwise.
//   - Edge messages carry back-to-back records of (source GID, destination
//     GIDs, optional edge data) for the receiving host's owned edges.
//
// All integers are little-endian. Every message is wrapped in a compression
// envelope (a codec byte for none, LZ4, or S2, then the raw body length) so
// receivers can validate and decode without out-of-band configuration.
package wire
