package distgraph

import (
	"fmt"
	"runtime"
	"sync/atomic"

	"github.com/hupe1980/distgraph/graphfile"
	"github.com/hupe1980/distgraph/internal/bitset"
	"github.com/hupe1980/distgraph/internal/par"
	"github.com/hupe1980/distgraph/wire"
)

// Tri-state indicator guarding lazy allocation of a per-peer incoming
// bitset. Exactly one worker wins the empty->allocating CAS and
// allocates; everyone else spins until ready.
const (
	peerBitsetEmpty uint32 = iota
	peerBitsetAllocating
	peerBitsetReady
)

// inspectEdges classifies every edge this host read and runs the
// inspection exchange.
//
// On return, outCounts[h][i] is the number of edges owned by this host
// whose source is the i-th GID in host h's read block (nil when h reported
// none), and incoming has a bit set for every GID that needs an incoming
// mirror here.
func (g *Graph) inspectEdges(pool *par.Pool, buf *graphfile.Buffered) ([][]uint64, *bitset.BitSet, error) {
	numHosts := g.tp.Num()
	self := g.tp.ID()
	own := g.gid2host[self]
	numRead := own.Len()

	outCounts := make([][]uint64, numHosts)
	for h := range outCounts {
		outCounts[h] = make([]uint64, numRead)
	}

	perPeerIncoming := make([]*bitset.BitSet, numHosts)
	indicators := make([]atomic.Uint32, numHosts)
	hostHasOutgoing := bitset.New(uint64(numHosts))

	g.assignEdges(pool, buf, outCounts, perPeerIncoming, indicators, hostHasOutgoing)

	if err := g.sendInspectionData(outCounts, perPeerIncoming, hostHasOutgoing); err != nil {
		return nil, nil, err
	}

	incoming := perPeerIncoming[self]
	if incoming == nil {
		incoming = bitset.New(g.numGlobalNodes)
	}

	if err := g.recvInspectionData(outCounts, incoming); err != nil {
		return nil, nil, err
	}
	g.tp.IncrementPhase()

	return outCounts, incoming, nil
}

// assignEdges walks this host's read block in parallel, queries the policy
// once per edge, and accumulates where everything will live.
func (g *Graph) assignEdges(pool *par.Pool, buf *graphfile.Buffered,
	outCounts [][]uint64, perPeerIncoming []*bitset.BitSet,
	indicators []atomic.Uint32, hostHasOutgoing *bitset.BitSet,
) {
	own := g.gid2host[g.tp.ID()]
	numRead := own.Len()

	pool.OnEach(func(tid, nthreads int) {
		lo, hi := par.BlockRange(numRead, tid, nthreads)
		for i := lo; i < hi; i++ {
			src := own.First + i
			degree := buf.Degree(src)
			for e, end := buf.EdgeBegin(src), buf.EdgeEnd(src); e < end; e++ {
				dst := buf.EdgeDestination(e)
				host, dstMaster := g.policy.Edge(src, dst, degree)

				// i belongs to exactly one worker; no lock needed
				outCounts[host][i]++
				hostHasOutgoing.Set(uint64(host))

				// a mirror must be created for dst on the owning host
				if !dstMaster {
					g.peerBitset(perPeerIncoming, indicators, host).Set(dst)
				}
			}
		}
	})
}

// peerBitset returns the incoming bitset for peer h, allocating it on
// first use. The winner of the CAS allocates and publishes ready; losers
// spin until the store lands.
func (g *Graph) peerBitset(perPeerIncoming []*bitset.BitSet, indicators []atomic.Uint32, h uint32) *bitset.BitSet {
	ind := &indicators[h]
	if ind.Load() != peerBitsetReady {
		if ind.CompareAndSwap(peerBitsetEmpty, peerBitsetAllocating) {
			perPeerIncoming[h] = bitset.New(g.numGlobalNodes)
			ind.Store(peerBitsetReady)
		} else {
			for ind.Load() != peerBitsetReady {
				runtime.Gosched()
			}
		}
	}
	return perPeerIncoming[h]
}

// sendInspectionData ships one message per peer: the outgoing-count vector
// (when any count is non-zero) and the per-peer incoming bitset, as raw
// words when 4*popcount exceeds its bit length and as offsets otherwise.
func (g *Graph) sendInspectionData(outCounts [][]uint64, perPeerIncoming []*bitset.BitSet, hostHasOutgoing *bitset.BitSet) error {
	numHosts := g.tp.Num()
	self := g.tp.ID()
	phase := g.tp.Phase()

	for h := uint32(0); h < numHosts; h++ {
		if h == self {
			continue
		}

		w := wire.NewBuffer(64)
		var counts []uint64
		if hostHasOutgoing.Test(uint64(h)) {
			counts = outCounts[h]
		}
		wire.EncodeInspection(w, counts, perPeerIncoming[h])

		// give the metadata memory back before the next peer's buffer
		outCounts[h] = nil
		perPeerIncoming[h] = nil

		if err := g.tp.SendTagged(h, phase, wire.Seal(g.opts.compression, w.Bytes())); err != nil {
			return fmt.Errorf("%w: inspection send to host %d: %w", ErrTransport, h, err)
		}
	}
	return g.tp.Flush()
}

// recvInspectionData reads one inspection message from every peer,
// installing their outgoing counts and OR-merging their incoming bits.
func (g *Graph) recvInspectionData(outCounts [][]uint64, incoming *bitset.BitSet) error {
	numHosts := g.tp.Num()
	phase := g.tp.Phase()

	for pending := numHosts - 1; pending > 0; pending-- {
		var (
			src uint32
			msg []byte
		)
		for {
			s, b, ok, err := g.tp.RecvTagged(phase)
			if err != nil {
				return fmt.Errorf("%w: inspection recv: %w", ErrTransport, err)
			}
			if ok {
				src, msg = s, b
				break
			}
			runtime.Gosched()
		}

		body, err := wire.Open(msg)
		if err != nil {
			return fmt.Errorf("%w: inspection from host %d: %w", ErrProtocol, src, err)
		}
		counts, err := wire.DecodeInspection(wire.NewReader(body), incoming)
		if err != nil {
			return fmt.Errorf("%w: inspection from host %d: %w", ErrProtocol, src, err)
		}
		if counts != nil && uint64(len(counts)) != g.gid2host[src].Len() {
			return fmt.Errorf("%w: inspection from host %d: %d counts for a block of %d reads",
				ErrProtocol, src, len(counts), g.gid2host[src].Len())
		}
		outCounts[src] = counts
	}
	return nil
}
