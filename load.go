package distgraph

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/distgraph/graphfile"
	"github.com/hupe1980/distgraph/internal/par"
	"github.com/hupe1980/distgraph/wire"
)

// loadEdges runs the edge-payload exchange: every host walks the edges it
// read, keeps the ones it owns, and ships the rest to their owners.
// Senders and the receiver run concurrently; the receiver stops once it
// has integrated a record for every remote-read source it expects.
func (g *Graph) loadEdges(ctx context.Context, pool *par.Pool, buf *graphfile.Buffered) error {
	phase := g.tp.Phase()

	var received atomic.Uint32
	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		return g.receiveEdges(ctx, phase, &received)
	})

	workers := pool.Workers()
	own := g.gid2host[g.tp.ID()]
	for tid := 0; tid < workers; tid++ {
		tid := tid
		eg.Go(func() error {
			lo, hi := par.BlockRange(own.Len(), tid, workers)
			return g.sendEdges(ctx, buf, phase, own.First+lo, own.First+hi)
		})
	}

	if err := eg.Wait(); err != nil {
		return err
	}
	g.tp.IncrementPhase()
	return nil
}

// sendEdges processes the read sources in [first, last): locally owned
// edges go straight into the CSR, everything else accumulates in per-peer
// staging buffers that flush once they outgrow the configured threshold.
// A source's record is always appended whole, so records never straddle
// messages and the receiver can count records against nodesToReceive.
func (g *Graph) sendEdges(ctx context.Context, buf *graphfile.Buffered, phase uint32, first, last uint64) error {
	numHosts := g.tp.Num()
	self := g.tp.ID()

	staging := make([]*wire.Buffer, numHosts)
	dstScratch := make([][]uint64, numHosts)
	dataScratch := make([][]uint32, numHosts)
	for h := range staging {
		staging[h] = wire.NewBuffer(0)
	}

	flush := func(h uint32) error {
		if err := g.tp.SendTagged(h, phase, wire.Seal(g.opts.compression, staging[h].Bytes())); err != nil {
			return fmt.Errorf("%w: edge send to host %d: %w", ErrTransport, h, err)
		}
		staging[h].Reset()
		return nil
	}

	for src := first; src < last; src++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		var cursor uint64
		lsrc, local := g.globalToLocal[src]
		if local {
			cursor = g.EdgeBegin(lsrc)
		}

		for h := range dstScratch {
			dstScratch[h] = dstScratch[h][:0]
			dataScratch[h] = dataScratch[h][:0]
		}

		degree := buf.Degree(src)
		for e, end := buf.EdgeBegin(src), buf.EdgeEnd(src); e < end; e++ {
			dst := buf.EdgeDestination(e)
			host, _ := g.policy.Edge(src, dst, degree)

			if host == self {
				// the partition contract guarantees both endpoints exist here
				ldst, ok := g.globalToLocal[dst]
				if !ok {
					return fmt.Errorf("%w: host %d owns edge %d->%d but %d is not resident",
						ErrInvariant, self, src, dst, dst)
				}
				g.edgeDst[cursor] = ldst
				if g.hasEdgeData {
					g.edgeData[cursor] = buf.EdgeData(e)
				}
				cursor++
				continue
			}

			dstScratch[host] = append(dstScratch[host], dst)
			if g.hasEdgeData {
				dataScratch[host] = append(dataScratch[host], buf.EdgeData(e))
			}
		}

		if local && cursor != g.EdgeEnd(lsrc) {
			return fmt.Errorf("%w: host %d filled %d local edges for source %d, slot holds %d",
				ErrInvariant, self, cursor-g.EdgeBegin(lsrc), src, g.Degree(lsrc))
		}

		for h := uint32(0); h < numHosts; h++ {
			if h == self || len(dstScratch[h]) == 0 {
				continue
			}
			var data []uint32
			if g.hasEdgeData {
				data = dataScratch[h]
			}
			wire.AppendEdgeRecord(staging[h], src, dstScratch[h], data)
			if staging[h].Len() > g.opts.sendBufSize {
				if err := flush(h); err != nil {
					return err
				}
			}
		}
	}

	// drain partially filled buffers
	for h := uint32(0); h < numHosts; h++ {
		if h == self || staging[h].Len() == 0 {
			continue
		}
		if err := flush(h); err != nil {
			return err
		}
	}
	return g.tp.Flush()
}

// receiveEdges polls the transport until records for nodesToReceive
// distinct remote sources have been integrated. Records are counted, not
// messages: one message may carry several records.
func (g *Graph) receiveEdges(ctx context.Context, phase uint32, received *atomic.Uint32) error {
	for received.Load() < g.nodesToReceive {
		if err := ctx.Err(); err != nil {
			return err
		}

		src, msg, ok, err := g.tp.RecvTagged(phase)
		if err != nil {
			return fmt.Errorf("%w: edge recv: %w", ErrTransport, err)
		}
		if !ok {
			runtime.Gosched()
			continue
		}

		body, err := wire.Open(msg)
		if err != nil {
			return fmt.Errorf("%w: edge payload from host %d: %w", ErrProtocol, src, err)
		}
		r := wire.NewReader(body)
		for r.Remaining() > 0 {
			rec, err := wire.DecodeEdgeRecord(r, g.hasEdgeData)
			if err != nil {
				return fmt.Errorf("%w: edge payload from host %d: %w", ErrProtocol, src, err)
			}
			if err := g.placeRecord(rec); err != nil {
				return err
			}
			received.Add(1)
		}
	}
	return nil
}

// placeRecord writes one received record into its source's CSR slot.
func (g *Graph) placeRecord(rec wire.EdgeRecord) error {
	lsrc, ok := g.globalToLocal[rec.Src]
	if !ok {
		return fmt.Errorf("%w: received edges for non-resident source %d", ErrInvariant, rec.Src)
	}

	cur := g.EdgeBegin(lsrc)
	end := g.EdgeEnd(lsrc)
	if end-cur != uint64(len(rec.Dsts)) {
		return &ErrEdgeCountMismatch{Src: rec.Src, Want: end - cur, Got: uint64(len(rec.Dsts))}
	}
	if g.hasEdgeData && len(rec.Data) != len(rec.Dsts) {
		return fmt.Errorf("%w: record for source %d carries %d destinations but %d data words",
			ErrProtocol, rec.Src, len(rec.Dsts), len(rec.Data))
	}

	for k, dst := range rec.Dsts {
		ldst, ok := g.globalToLocal[dst]
		if !ok {
			return fmt.Errorf("%w: received edge %d->%d but %d is not resident", ErrInvariant, rec.Src, dst, dst)
		}
		g.edgeDst[cur+uint64(k)] = ldst
		if g.hasEdgeData {
			g.edgeData[cur+uint64(k)] = rec.Data[k]
		}
	}
	return nil
}
