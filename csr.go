package distgraph

// allocateTopology sizes the CSR arrays once the prefix sum is final.
func (g *Graph) allocateTopology() {
	g.edgeDst = make([]uint32, g.numEdges)
	if g.hasEdgeData {
		g.edgeData = make([]uint32, g.numEdges)
	}
}

// transposeInPlace replaces the local CSR with its transpose: every edge
// (u, v) becomes (v, u). Placement walks sources in LID order, so each
// vertex's in-edges come out sorted by source LID and the result is
// deterministic. Edge count and the prefix-sum tail invariant survive.
func (g *Graph) transposeInPlace() {
	n := uint64(g.numNodes)

	inDegree := make([]uint64, n)
	for _, v := range g.edgeDst {
		inDegree[v]++
	}

	newPrefix := make([]uint64, n)
	var run uint64
	for i := uint64(0); i < n; i++ {
		run += inDegree[i]
		newPrefix[i] = run
	}

	// cursor[v] is the next free slot in v's new edge range
	cursor := make([]uint64, n)
	for i := uint64(1); i < n; i++ {
		cursor[i] = newPrefix[i-1]
	}

	newDst := make([]uint32, g.numEdges)
	var newData []uint32
	if g.hasEdgeData {
		newData = make([]uint32, g.numEdges)
	}

	for u := uint32(0); u < g.numNodes; u++ {
		for e, end := g.EdgeBegin(u), g.EdgeEnd(u); e < end; e++ {
			v := g.edgeDst[e]
			slot := cursor[v]
			cursor[v]++
			newDst[slot] = u
			if g.hasEdgeData {
				newData[slot] = g.edgeData[e]
			}
		}
	}

	g.prefixSum = newPrefix
	g.edgeDst = newDst
	g.edgeData = newData
}
