package graphfile

import (
	"context"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/hupe1980/distgraph/blobstore"
)

// OfflineGraph is a random-access view over a whole on-disk graph. Opening
// a local path memory-maps the file; graphs fetched from a blob store are
// held in memory. The view is read-only and safe for concurrent use.
type OfflineGraph struct {
	data     []byte
	unmap    func() error
	numNodes uint64
	numEdges uint64
	dataSize uint32

	outIdxOff uint64
	destsOff  uint64
	edataOff  uint64
}

// Open memory-maps the graph file at path.
func Open(path string) (*OfflineGraph, error) {
	data, unmap, err := mapFile(path)
	if err != nil {
		return nil, fmt.Errorf("graphfile: open %s: %w", path, err)
	}
	g, err := fromBytes(data)
	if err != nil {
		unmap()
		return nil, fmt.Errorf("graphfile: open %s: %w", path, err)
	}
	g.unmap = unmap
	return g, nil
}

// OpenStore fetches the named blob from store and opens it in memory.
func OpenStore(ctx context.Context, store blobstore.Store, name string) (*OfflineGraph, error) {
	var data []byte
	if f, ok := store.(blobstore.Fetcher); ok {
		fetched, err := f.Fetch(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("graphfile: fetch blob %s: %w", name, err)
		}
		data = fetched
	} else {
		blob, err := store.Open(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("graphfile: open blob %s: %w", name, err)
		}
		read, err := io.ReadAll(io.NewSectionReader(blob, 0, blob.Size()))
		blob.Close()
		if err != nil {
			return nil, fmt.Errorf("graphfile: read blob %s: %w", name, err)
		}
		data = read
	}
	g, err := fromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("graphfile: open blob %s: %w", name, err)
	}
	return g, nil
}

func fromBytes(data []byte) (*OfflineGraph, error) {
	if len(data) < headerSize {
		return nil, io.ErrUnexpectedEOF
	}
	if binary.LittleEndian.Uint32(data[0:]) != Magic {
		return nil, ErrBadMagic
	}

	g := &OfflineGraph{
		data:     data,
		dataSize: binary.LittleEndian.Uint32(data[4:]),
		numNodes: binary.LittleEndian.Uint64(data[8:]),
		numEdges: binary.LittleEndian.Uint64(data[16:]),
	}
	if g.dataSize != 0 && g.dataSize != 4 {
		return nil, fmt.Errorf("graphfile: unsupported edge data size %d", g.dataSize)
	}

	g.outIdxOff = headerSize
	g.destsOff = g.outIdxOff + 8*g.numNodes
	g.edataOff = g.destsOff + 4*g.numEdges

	want := g.edataOff
	if g.dataSize == 4 {
		want += 4 * g.numEdges
	}
	if uint64(len(data)) < want {
		return nil, io.ErrUnexpectedEOF
	}
	return g, nil
}

// Close releases the underlying mapping, if any.
func (g *OfflineGraph) Close() error {
	g.data = nil
	if g.unmap != nil {
		unmap := g.unmap
		g.unmap = nil
		return unmap()
	}
	return nil
}

// Size returns the number of nodes in the global graph.
func (g *OfflineGraph) Size() uint64 { return g.numNodes }

// SizeEdges returns the number of edges in the global graph.
func (g *OfflineGraph) SizeEdges() uint64 { return g.numEdges }

// HasEdgeData reports whether edges carry a data word.
func (g *OfflineGraph) HasEdgeData() bool { return g.dataSize == 4 }

// EdgeBegin returns the index of gid's first out-edge.
func (g *OfflineGraph) EdgeBegin(gid uint64) uint64 {
	if gid == 0 {
		return 0
	}
	return binary.LittleEndian.Uint64(g.data[g.outIdxOff+8*(gid-1):])
}

// EdgeEnd returns the index one past gid's last out-edge.
func (g *OfflineGraph) EdgeEnd(gid uint64) uint64 {
	return binary.LittleEndian.Uint64(g.data[g.outIdxOff+8*gid:])
}

// EdgeDestination returns the destination GID of edge e.
func (g *OfflineGraph) EdgeDestination(e uint64) uint64 {
	return uint64(binary.LittleEndian.Uint32(g.data[g.destsOff+4*e:]))
}

// EdgeData returns the data word of edge e; zero when the graph carries no
// edge data.
func (g *OfflineGraph) EdgeData(e uint64) uint32 {
	if g.dataSize == 0 {
		return 0
	}
	return binary.LittleEndian.Uint32(g.data[g.edataOff+4*e:])
}
