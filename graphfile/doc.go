// Package graphfile reads and writes the on-disk global graph consumed by
// the partitioner.
//
// The container is a little-endian CSR:
//
//	header  magic u32 | edgeDataSize u32 (0 or 4) | numNodes u64 | numEdges u64
//	outIdx  [numNodes]u64  — exclusive end of each node's edge range
//	dests   [numEdges]u32
//	edata   [numEdges]u32  — present iff edgeDataSize == 4
//
// OfflineGraph gives random access over the whole file (memory-mapped on
// unix); Buffered slurps one contiguous node range into memory so a host
// touches only the slice it reads during partitioning.
package graphfile
