package partition

import "github.com/hupe1980/distgraph/graphfile"

// HashCut masters vertices round-robin by GID and keeps every edge with
// its source's master.
type HashCut struct {
	numHosts uint32
}

// NewHashCut creates a HashCut policy.
func NewHashCut() *HashCut { return &HashCut{} }

// Init records the host count.
func (p *HashCut) Init(numHosts uint32, _ uint64) { p.numHosts = numHosts }

// Master returns gid % numHosts.
func (p *HashCut) Master(gid uint64) uint32 {
	return uint32(gid % uint64(p.numHosts))
}

// Edge keeps the edge with src's master.
func (p *HashCut) Edge(src, dst uint64, _ uint64) (uint32, bool) {
	host := p.Master(src)
	return host, p.Master(dst) == host
}

// BlockCut masters vertices by contiguous GID blocks (typically the
// reader-assignment table) and keeps every edge with its source's master.
type BlockCut struct {
	ranges []graphfile.Range
}

// NewBlockCut creates a BlockCut over the given per-host blocks.
func NewBlockCut(ranges []graphfile.Range) *BlockCut {
	return &BlockCut{ranges: ranges}
}

// Init is a no-op; the blocks arrive at construction.
func (p *BlockCut) Init(_ uint32, _ uint64) {}

// Master returns the host whose block contains gid.
func (p *BlockCut) Master(gid uint64) uint32 {
	// blocks are few; linear scan beats binary search at realistic sizes
	for h, r := range p.ranges {
		if gid >= r.First && gid < r.Last {
			return uint32(h)
		}
	}
	return uint32(len(p.ranges) - 1)
}

// Edge keeps the edge with src's master.
func (p *BlockCut) Edge(src, dst uint64, _ uint64) (uint32, bool) {
	host := p.Master(src)
	return host, p.Master(dst) == host
}

// HybridCut masters vertices round-robin by GID. Edges of low-degree
// sources stay with the source's master; once a source's degree crosses
// the threshold its edges move to each destination's master, which bounds
// the mirror fan-out of heavy hitters.
type HybridCut struct {
	numHosts  uint32
	threshold uint64
}

// NewHybridCut creates a HybridCut with the given degree threshold.
func NewHybridCut(threshold uint64) *HybridCut {
	return &HybridCut{threshold: threshold}
}

// Init records the host count.
func (p *HybridCut) Init(numHosts uint32, _ uint64) { p.numHosts = numHosts }

// Master returns gid % numHosts.
func (p *HybridCut) Master(gid uint64) uint32 {
	return uint32(gid % uint64(p.numHosts))
}

// Edge routes by source master below the threshold and by destination
// master at or above it.
func (p *HybridCut) Edge(src, dst uint64, srcDegree uint64) (uint32, bool) {
	if srcDegree >= p.threshold && p.threshold > 0 {
		return p.Master(dst), true
	}
	host := p.Master(src)
	return host, p.Master(dst) == host
}
