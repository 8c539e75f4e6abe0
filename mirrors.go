package distgraph

import "github.com/RoaringBitmap/roaring/v2/roaring64"

// fillMirrors buckets every mirror LID by its master host. The per-host
// sets are accumulated as compressed bitmaps and materialized into the
// sorted GID lists the synchronization runtime consumes.
func (g *Graph) fillMirrors() {
	numHosts := g.tp.Num()
	g.mirrors = make([][]uint64, numHosts)

	sets := make([]*roaring64.Bitmap, numHosts)
	for i := g.numOwned; i < g.numNodes; i++ {
		gid := g.localToGlobal[i]
		master := g.policy.Master(gid)
		if sets[master] == nil {
			sets[master] = roaring64.New()
		}
		sets[master].Add(gid)
	}

	for h := range g.mirrors {
		if sets[h] != nil {
			g.mirrors[h] = sets[h].ToArray()
		} else {
			g.mirrors[h] = []uint64{}
		}
	}
}
