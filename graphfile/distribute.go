package graphfile

import "sort"

// Range is a half-open GID interval [First, Last).
type Range struct {
	First uint64
	Last  uint64
}

// Len returns the number of nodes in the range.
func (r Range) Len() uint64 { return r.Last - r.First }

// DistributeNodes computes the reader-assignment table: one contiguous GID
// block per host, balanced on nodes plus edges so hosts with dense blocks
// read fewer of them. The result is a pure function of the graph header and
// prefix sums, so every host computes the same table.
func DistributeNodes(g *OfflineGraph, numHosts uint32) []Range {
	ranges := make([]Range, numHosts)
	numNodes := g.Size()
	if numNodes == 0 {
		return ranges
	}

	// weight of the prefix [0, i]: one unit per node plus one per edge
	weightThrough := func(i uint64) uint64 {
		return (i + 1) + g.EdgeEnd(i)
	}
	totalWeight := weightThrough(numNodes - 1)

	var first uint64
	for h := uint32(0); h < numHosts; h++ {
		target := totalWeight * uint64(h+1) / uint64(numHosts)
		// smallest node index whose prefix weight reaches the target
		last := first + uint64(sort.Search(int(numNodes-first), func(k int) bool {
			return weightThrough(first+uint64(k)) >= target
		}))
		if last < numNodes {
			last++
		}
		if h == numHosts-1 {
			last = numNodes
		}
		ranges[h] = Range{First: first, Last: last}
		first = last
	}
	return ranges
}
