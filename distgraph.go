package distgraph

import (
	"iter"

	"github.com/hupe1980/distgraph/graphfile"
	"github.com/hupe1980/distgraph/partition"
	"github.com/hupe1980/distgraph/transport"
)

// SyncType tells ResetBitset which side of a bulk-synchronous exchange is
// about to run.
type SyncType int

const (
	// SyncReduce gathers mirror contributions onto masters.
	SyncReduce SyncType = iota
	// SyncBroadcast pushes master values back out to mirrors.
	SyncBroadcast
)

// LIDRange is a half-open local-id interval [Begin, End).
type LIDRange struct {
	Begin uint32
	End   uint32
}

// Stats summarizes a completed load.
type Stats struct {
	NumOwned          uint32
	NumNodesWithEdges uint32
	NumNodes          uint32
	NumEdges          uint64
	BytesSent         uint64
	BytesReceived     uint64
}

// Graph is one host's share of a partitioned global graph.
//
// Local ids are dense in [0, NumNodes()) and laid out in three classes:
// masters in [0, NumOwned()), outgoing mirrors in [NumOwned(),
// NumNodesWithEdges()), and incoming-only mirrors in the tail. The layout
// is frozen at load time; ResetBitset and MirrorRanges lean on it.
type Graph struct {
	tp     transport.Transport
	policy partition.Policy
	log    *Logger
	opts   options

	numGlobalNodes uint64
	numGlobalEdges uint64
	hasEdgeData    bool

	gid2host []graphfile.Range

	numOwned          uint32
	numNodesWithEdges uint32
	numNodes          uint32
	numEdges          uint64
	nodesToReceive    uint32

	localToGlobal []uint64
	globalToLocal map[uint64]uint32

	// prefixSum[i] is the exclusive end of LID i's out-edge range; the
	// last entry equals numEdges.
	prefixSum []uint64
	edgeDst   []uint32
	edgeData  []uint32

	mirrors [][]uint64

	transposed bool
}

// NumOwned returns the number of master vertices on this host.
func (g *Graph) NumOwned() uint32 { return g.numOwned }

// NumNodesWithEdges returns the count of masters plus outgoing mirrors.
func (g *Graph) NumNodesWithEdges() uint32 { return g.numNodesWithEdges }

// NumNodes returns the number of local vertices.
func (g *Graph) NumNodes() uint32 { return g.numNodes }

// NumEdges returns the number of local edges.
func (g *Graph) NumEdges() uint64 { return g.numEdges }

// NumGlobalNodes returns the global vertex count.
func (g *Graph) NumGlobalNodes() uint64 { return g.numGlobalNodes }

// NumGlobalEdges returns the global edge count.
func (g *Graph) NumGlobalEdges() uint64 { return g.numGlobalEdges }

// HasEdgeData reports whether edges carry a data word.
func (g *Graph) HasEdgeData() bool { return g.hasEdgeData }

// Transposed reports whether the local topology was transposed at load.
func (g *Graph) Transposed() bool { return g.transposed }

// L2G returns the GID for a local id.
func (g *Graph) L2G(lid uint32) uint64 { return g.localToGlobal[lid] }

// G2L returns the local id for a GID, if resident.
func (g *Graph) G2L(gid uint64) (uint32, bool) {
	lid, ok := g.globalToLocal[gid]
	return lid, ok
}

// MustG2L returns the local id for a GID that the caller knows is
// resident. Panics otherwise; check IsLocal first when in doubt.
func (g *Graph) MustG2L(gid uint64) uint32 {
	lid, ok := g.globalToLocal[gid]
	if !ok {
		panic("distgraph: G2L on non-resident gid")
	}
	return lid
}

// IsLocal reports whether gid is resident on this host.
func (g *Graph) IsLocal(gid uint64) bool {
	_, ok := g.globalToLocal[gid]
	return ok
}

// IsOwned reports whether this host masters gid.
func (g *Graph) IsOwned(gid uint64) bool {
	return g.policy.Master(gid) == g.tp.ID()
}

// HostID returns the master host of gid.
func (g *Graph) HostID(gid uint64) uint32 {
	return g.policy.Master(gid)
}

// ReaderRange returns the GID block host h read during inspection. This is
// the reader assignment, distinct from mastership.
func (g *Graph) ReaderRange(h uint32) graphfile.Range {
	return g.gid2host[h]
}

// MirrorNodes returns, per peer host, the GIDs this host mirrors whose
// master is that peer.
func (g *Graph) MirrorNodes() [][]uint64 { return g.mirrors }

// MirrorRanges returns the LID ranges holding mirrors: a single range from
// NumOwned to NumNodes, by layout.
func (g *Graph) MirrorRanges() []LIDRange {
	return []LIDRange{{Begin: g.numOwned, End: g.numNodes}}
}

// IsVertexCut reports the partitioning family; always true here.
func (g *Graph) IsVertexCut() bool { return true }

// ResetBitset clears the dirty-tracking range the runtime is about to
// rebuild: masters before a broadcast, mirrors before a reduce. reset is
// called with an inclusive range on both ends.
func (g *Graph) ResetBitset(syncType SyncType, reset func(lo, hi uint32)) {
	// layout: masters, then outgoing mirrors, then incoming mirrors
	if g.numOwned > 0 {
		if syncType == SyncBroadcast {
			reset(0, g.numOwned-1)
		} else if g.numOwned < g.numNodes {
			reset(g.numOwned, g.numNodes-1)
		}
	} else if syncType == SyncReduce && g.numNodes > 0 {
		reset(0, g.numNodes-1)
	}
}

// EdgeBegin returns the index of lid's first out-edge.
func (g *Graph) EdgeBegin(lid uint32) uint64 {
	if lid == 0 {
		return 0
	}
	return g.prefixSum[lid-1]
}

// EdgeEnd returns the index one past lid's last out-edge.
func (g *Graph) EdgeEnd(lid uint32) uint64 {
	return g.prefixSum[lid]
}

// Degree returns lid's local out-degree.
func (g *Graph) Degree(lid uint32) uint64 {
	return g.EdgeEnd(lid) - g.EdgeBegin(lid)
}

// EdgeDst returns the destination LID of local edge e.
func (g *Graph) EdgeDst(e uint64) uint32 { return g.edgeDst[e] }

// EdgeData returns the data word of local edge e; zero when the graph
// carries no edge data.
func (g *Graph) EdgeData(e uint64) uint32 {
	if !g.hasEdgeData {
		return 0
	}
	return g.edgeData[e]
}

// Edges iterates lid's out-edges as (destination LID, data word) pairs.
//
//	for dst, w := range g.Edges(lid) { ... }
func (g *Graph) Edges(lid uint32) iter.Seq2[uint32, uint32] {
	return func(yield func(uint32, uint32) bool) {
		for e, end := g.EdgeBegin(lid), g.EdgeEnd(lid); e < end; e++ {
			if !yield(g.edgeDst[e], g.EdgeData(e)) {
				return
			}
		}
	}
}

// Stats returns load statistics. Traffic counters are present when the
// transport implements transport.Meter.
func (g *Graph) Stats() Stats {
	s := Stats{
		NumOwned:          g.numOwned,
		NumNodesWithEdges: g.numNodesWithEdges,
		NumNodes:          g.numNodes,
		NumEdges:          g.numEdges,
	}
	if m, ok := g.tp.(transport.Meter); ok {
		s.BytesSent = m.BytesSent()
		s.BytesReceived = m.BytesReceived()
	}
	return s
}

func (g *Graph) logSummary() {
	s := g.Stats()
	mirrorTotal := 0
	for _, m := range g.mirrors {
		mirrorTotal += len(m)
	}
	g.log.Info("partition ready",
		"owned", s.NumOwned,
		"withEdges", s.NumNodesWithEdges,
		"nodes", s.NumNodes,
		"edges", s.NumEdges,
		"mirrors", mirrorTotal,
		"bytesSent", s.BytesSent,
		"bytesReceived", s.BytesReceived,
	)
}
