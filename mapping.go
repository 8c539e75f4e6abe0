package distgraph

import (
	"sync/atomic"

	"github.com/hupe1980/distgraph/internal/bitset"
	"github.com/hupe1980/distgraph/internal/par"
)

// mapNodes assigns local ids and builds the edge prefix sum in four
// strictly ordered sub-passes: masters, outgoing mirrors, the
// global-to-local map plus running sums for both, then incoming-only
// mirrors. Each sub-pass appends via the deterministic two-pass
// count/place pattern, so the layout is a pure function of the reader
// table, the policy, and the incoming bitset - every host can predict
// every other host's local ids.
func (g *Graph) mapNodes(pool *par.Pool, outCounts [][]uint64, incoming *bitset.BitSet) {
	reserve := g.numGlobalNodes / uint64(g.tp.Num())
	g.localToGlobal = make([]uint64, 0, reserve+reserve/8)
	g.prefixSum = make([]uint64, 0, reserve+reserve/8)

	var toReceive atomic.Uint32
	g.inspectMasterNodes(pool, outCounts, &toReceive)
	g.numOwned = uint32(len(g.localToGlobal))

	g.inspectOutgoingNodes(pool, outCounts, &toReceive)
	g.numNodesWithEdges = uint32(len(g.localToGlobal))
	g.nodesToReceive = toReceive.Load()

	g.createIntermediateMetadata(incoming.Count())
	g.inspectIncomingNodes(pool, incoming)
	g.finalizeMapping()
}

func (g *Graph) grow(total uint64) {
	g.localToGlobal = append(g.localToGlobal, make([]uint64, total)...)
	g.prefixSum = append(g.prefixSum, make([]uint64, total)...)
}

// inspectMasterNodes appends one LID per mastered GID, walking every
// host's read block in ascending host order. Each master's degree comes
// from that reader's count vector, which is zeroed so the outgoing-mirror
// pass cannot append the GID again.
func (g *Graph) inspectMasterNodes(pool *par.Pool, outCounts [][]uint64, toReceive *atomic.Uint32) {
	self := g.tp.ID()

	for h := range g.gid2host {
		h := uint32(h)
		r := g.gid2host[h]
		counts := outCounts[h]
		base := uint64(len(g.localToGlobal))

		par.Place(pool, r.Len(),
			func(lo, hi uint64) uint64 {
				var c uint64
				for i := lo; i < hi; i++ {
					if g.policy.Master(r.First+i) == self {
						c++
					}
				}
				return c
			},
			g.grow,
			func(lo, hi, offset uint64) {
				idx := base + offset
				for i := lo; i < hi; i++ {
					gid := r.First + i
					if g.policy.Master(gid) != self {
						continue
					}
					var degree uint64
					if counts != nil {
						degree = counts[i]
						counts[i] = 0 // claimed; not an outgoing mirror
						if degree > 0 && h != self {
							toReceive.Add(1)
						}
					}
					g.localToGlobal[idx] = gid
					g.prefixSum[idx] = degree
					idx++
				}
			})
	}
}

// inspectOutgoingNodes appends one LID per GID that still has a non-zero
// count: a vertex mastered elsewhere whose edges this host owns.
func (g *Graph) inspectOutgoingNodes(pool *par.Pool, outCounts [][]uint64, toReceive *atomic.Uint32) {
	self := g.tp.ID()

	for h := range g.gid2host {
		h := uint32(h)
		counts := outCounts[h]
		if counts == nil {
			continue
		}
		r := g.gid2host[h]
		base := uint64(len(g.localToGlobal))

		par.Place(pool, uint64(len(counts)),
			func(lo, hi uint64) uint64 {
				var c uint64
				for i := lo; i < hi; i++ {
					if counts[i] > 0 {
						c++
					}
				}
				return c
			},
			g.grow,
			func(lo, hi, offset uint64) {
				idx := base + offset
				for i := lo; i < hi; i++ {
					degree := counts[i]
					if degree == 0 {
						continue
					}
					g.localToGlobal[idx] = r.First + i
					g.prefixSum[idx] = degree
					idx++
					if h != self {
						toReceive.Add(1)
					}
				}
			})

		outCounts[h] = nil
	}
}

// createIntermediateMetadata turns per-LID degrees into running sums over
// the nodes-with-edges span and fills the global-to-local map for them.
// The incoming pass needs the map to skip GIDs that already exist.
func (g *Graph) createIntermediateMetadata(incomingEstimate uint64) {
	g.globalToLocal = make(map[uint64]uint32, uint64(g.numNodesWithEdges)+incomingEstimate)
	if g.numNodesWithEdges == 0 {
		return
	}
	g.globalToLocal[g.localToGlobal[0]] = 0
	for i := uint32(1); i < g.numNodesWithEdges; i++ {
		g.prefixSum[i] += g.prefixSum[i-1]
		g.globalToLocal[g.localToGlobal[i]] = i
	}
}

// inspectIncomingNodes appends a zero-degree LID for every GID that is a
// destination of a locally owned edge but exists in neither earlier class.
func (g *Graph) inspectIncomingNodes(pool *par.Pool, incoming *bitset.BitSet) {
	base := uint64(len(g.localToGlobal))

	par.Place(pool, g.numGlobalNodes,
		func(lo, hi uint64) uint64 {
			var c uint64
			for i := lo; i < hi; i++ {
				if incoming.Test(i) {
					if _, ok := g.globalToLocal[i]; !ok {
						c++
					}
				}
			}
			return c
		},
		g.grow,
		func(lo, hi, offset uint64) {
			idx := base + offset
			for i := lo; i < hi; i++ {
				if !incoming.Test(i) {
					continue
				}
				if _, ok := g.globalToLocal[i]; ok {
					continue
				}
				g.localToGlobal[idx] = i
				g.prefixSum[idx] = 0
				idx++
			}
		})
}

// finalizeMapping extends the running sums over the zero-degree tail,
// registers the tail in the global-to-local map, and pins the totals.
func (g *Graph) finalizeMapping() {
	g.numNodes = uint32(len(g.localToGlobal))

	for i := g.numNodesWithEdges; i < g.numNodes; i++ {
		if i > 0 {
			g.prefixSum[i] += g.prefixSum[i-1]
		}
		g.globalToLocal[g.localToGlobal[i]] = i
	}

	if len(g.prefixSum) > 0 {
		g.numEdges = g.prefixSum[len(g.prefixSum)-1]
	} else {
		g.numEdges = 0
	}
}
