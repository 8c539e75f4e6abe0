// Package par provides the intra-host parallelism primitives used during
// graph construction: a fixed worker pool, contiguous block ranges, and the
// two-pass count/place pattern that makes parallel appends deterministic.
package par
