package graphfile

import "sync/atomic"

// Buffered holds one contiguous node range of a graph in memory. It is the
// view a host works from while partitioning: only the nodes it reads, plus
// their edges, ever leave disk.
//
// Accessors take global node and edge indices, exactly like OfflineGraph,
// so the two types satisfy the same iteration contract.
type Buffered struct {
	firstNode uint64
	lastNode  uint64
	firstEdge uint64

	outIdx []uint64 // exclusive ends, still global edge indices
	dests  []uint32
	edata  []uint32

	hasData   bool
	bytesRead atomic.Uint64
}

// LoadPartial copies the node range [first, last) and its edges out of g.
func LoadPartial(g *OfflineGraph, first, last uint64) *Buffered {
	b := &Buffered{
		firstNode: first,
		lastNode:  last,
		hasData:   g.HasEdgeData(),
	}
	if first >= last {
		return b
	}

	b.firstEdge = g.EdgeBegin(first)
	lastEdge := g.EdgeEnd(last - 1)

	b.outIdx = make([]uint64, last-first)
	for i := range b.outIdx {
		b.outIdx[i] = g.EdgeEnd(first + uint64(i))
	}
	b.bytesRead.Add(8 * uint64(len(b.outIdx)))

	b.dests = make([]uint32, lastEdge-b.firstEdge)
	for i := range b.dests {
		b.dests[i] = uint32(g.EdgeDestination(b.firstEdge + uint64(i)))
	}
	b.bytesRead.Add(4 * uint64(len(b.dests)))

	if b.hasData {
		b.edata = make([]uint32, lastEdge-b.firstEdge)
		for i := range b.edata {
			b.edata[i] = g.EdgeData(b.firstEdge + uint64(i))
		}
		b.bytesRead.Add(4 * uint64(len(b.edata)))
	}

	return b
}

// Range returns the loaded node range.
func (b *Buffered) Range() (first, last uint64) {
	return b.firstNode, b.lastNode
}

// HasEdgeData reports whether edges carry a data word.
func (b *Buffered) HasEdgeData() bool { return b.hasData }

// EdgeBegin returns the global index of gid's first out-edge. gid must lie
// in the loaded range.
func (b *Buffered) EdgeBegin(gid uint64) uint64 {
	if gid == b.firstNode {
		return b.firstEdge
	}
	return b.outIdx[gid-b.firstNode-1]
}

// EdgeEnd returns the global index one past gid's last out-edge.
func (b *Buffered) EdgeEnd(gid uint64) uint64 {
	return b.outIdx[gid-b.firstNode]
}

// Degree returns gid's out-degree.
func (b *Buffered) Degree(gid uint64) uint64 {
	return b.EdgeEnd(gid) - b.EdgeBegin(gid)
}

// EdgeDestination returns the destination GID of global edge e.
func (b *Buffered) EdgeDestination(e uint64) uint64 {
	return uint64(b.dests[e-b.firstEdge])
}

// EdgeData returns the data word of global edge e; zero when the graph
// carries no edge data.
func (b *Buffered) EdgeData(e uint64) uint32 {
	if !b.hasData {
		return 0
	}
	return b.edata[e-b.firstEdge]
}

// BytesRead returns how many payload bytes this view pulled from the
// underlying graph.
func (b *Buffered) BytesRead() uint64 { return b.bytesRead.Load() }

// Release drops the buffered slices.
func (b *Buffered) Release() {
	b.outIdx = nil
	b.dests = nil
	b.edata = nil
}
