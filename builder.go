// This file implements the fluent builder API for loading a partitioned
// graph. The builder is immutable - each method returns a copy with the
// updated configuration.
package distgraph

import (
	"context"
	"fmt"
	"time"

	"github.com/hupe1980/distgraph/blobstore"
	"github.com/hupe1980/distgraph/graphfile"
	"github.com/hupe1980/distgraph/internal/par"
	"github.com/hupe1980/distgraph/partition"
	"github.com/hupe1980/distgraph/transport"
	"github.com/hupe1980/distgraph/wire"
)

// Builder configures and runs one distributed graph load.
//
// Example:
//
//	g, err := distgraph.New(tp, partition.NewHashCut()).
//	    File("graph.gr").
//	    Transpose(true).
//	    SendBufferSize(8 << 20).
//	    Load(ctx)
type Builder struct {
	tp     transport.Transport
	policy partition.Policy
	opts   options
}

// New creates a Builder over the given transport and partitioning policy.
func New(tp transport.Transport, policy partition.Policy) Builder {
	return Builder{
		tp:     tp,
		policy: policy,
		opts:   defaultOptions(),
	}
}

// File sets the local path of the global graph container.
func (b Builder) File(path string) Builder {
	b.opts.filename = path
	return b
}

// Store sets a blob store and key to fetch the global graph from, instead
// of a local file.
func (b Builder) Store(store blobstore.Store, key string) Builder {
	b.opts.store = store
	b.opts.storeKey = key
	return b
}

// Transpose replaces the local graph with its transpose after loading, so
// in-edges become out-edges. Push-style algorithms want the graph as
// stored; pull-style algorithms want the transpose.
func (b Builder) Transpose(enabled bool) Builder {
	b.opts.transpose = enabled
	return b
}

// SendBufferSize sets the flush threshold in bytes for per-peer edge
// staging buffers. Default: 4 MiB.
func (b Builder) SendBufferSize(n int) Builder {
	b.opts.sendBufSize = n
	return b
}

// Compression selects the wire compression codec for exchange messages.
// Default: none.
func (b Builder) Compression(c wire.Compression) Builder {
	b.opts.compression = c
	return b
}

// Workers sets the number of worker goroutines used by construction
// passes. Default: runtime.GOMAXPROCS(0).
func (b Builder) Workers(n int) Builder {
	b.opts.workers = n
	return b
}

// Logger configures structured logging. Default: no logging.
func (b Builder) Logger(l *Logger) Builder {
	if l == nil {
		l = NoopLogger()
	}
	b.opts.logger = l
	return b
}

// ExtraStats enables additional timing and traffic log fields. No
// behavioral effect.
func (b Builder) ExtraStats(enabled bool) Builder {
	b.opts.extraStats = enabled
	return b
}

// ReaderRanges overrides the reader-assignment table, one contiguous GID
// block per host. Every host must pass the same table. By default the
// table is computed from the graph header, balanced on nodes plus edges.
func (b Builder) ReaderRanges(ranges []graphfile.Range) Builder {
	b.opts.readerRanges = ranges
	return b
}

// Load runs the full partitioning protocol and returns this host's local
// graph. Every host must call Load with an identically configured builder;
// the protocol performs two all-to-all exchanges and cannot complete
// unilaterally.
func (b Builder) Load(ctx context.Context) (*Graph, error) {
	if b.tp == nil {
		return nil, fmt.Errorf("%w: transport is required", ErrConfig)
	}
	if b.policy == nil {
		return nil, fmt.Errorf("%w: partition policy is required", ErrConfig)
	}
	if b.opts.filename == "" && b.opts.store == nil {
		return nil, fmt.Errorf("%w: graph filename is required", ErrConfig)
	}

	numHosts := b.tp.Num()
	self := b.tp.ID()
	if numHosts == 0 || self >= numHosts {
		return nil, fmt.Errorf("%w: host id %d outside host count %d", ErrConfig, self, numHosts)
	}

	log := b.opts.logger.WithHost(self)

	var (
		off *graphfile.OfflineGraph
		err error
	)
	if b.opts.store != nil {
		off, err = graphfile.OpenStore(ctx, b.opts.store, b.opts.storeKey)
	} else {
		off, err = graphfile.Open(b.opts.filename)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	defer off.Close()

	g := &Graph{
		tp:             b.tp,
		policy:         b.policy,
		log:            log,
		opts:           b.opts,
		numGlobalNodes: off.Size(),
		numGlobalEdges: off.SizeEdges(),
		hasEdgeData:    off.HasEdgeData(),
	}

	g.gid2host = b.opts.readerRanges
	if g.gid2host == nil {
		g.gid2host = graphfile.DistributeNodes(off, numHosts)
	}
	if uint32(len(g.gid2host)) != numHosts {
		return nil, fmt.Errorf("%w: reader table covers %d hosts, transport has %d", ErrConfig, len(g.gid2host), numHosts)
	}

	b.policy.Init(numHosts, g.numGlobalNodes)

	start := time.Now()
	own := g.gid2host[self]
	buf := graphfile.LoadPartial(off, own.First, own.Last)
	log.LogPhase("read", time.Since(start), "nodes", own.Len(), "bytes", buf.BytesRead())

	pool := par.NewPool(b.opts.workers)
	defer pool.Close()

	start = time.Now()
	outCounts, incoming, err := g.inspectEdges(pool, buf)
	if err != nil {
		return nil, err
	}
	log.LogPhase("inspection", time.Since(start))

	start = time.Now()
	g.mapNodes(pool, outCounts, incoming)
	g.allocateTopology()
	g.fillMirrors()
	log.LogPhase("mapping", time.Since(start),
		"owned", g.numOwned, "withEdges", g.numNodesWithEdges,
		"nodes", g.numNodes, "edges", g.numEdges)

	start = time.Now()
	if err := g.loadEdges(ctx, pool, buf); err != nil {
		return nil, err
	}
	elapsed := time.Since(start)
	if g.opts.extraStats {
		log.LogPhase("edge-load", elapsed,
			"bytesRead", buf.BytesRead(),
			"mbps", float64(buf.BytesRead())/1e6/elapsed.Seconds())
	} else {
		log.LogPhase("edge-load", elapsed)
	}
	buf.Release()

	if b.opts.transpose && g.numNodes > 0 {
		start = time.Now()
		g.transposeInPlace()
		g.transposed = true
		log.LogPhase("transpose", time.Since(start))
	}

	g.logSummary()
	return g, nil
}
