package graphfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hupe1980/distgraph/blobstore"
)

func testAdj() [][]Edge {
	return [][]Edge{
		{{Dst: 1, Data: 5}, {Dst: 2, Data: 7}},
		{{Dst: 2, Data: 3}},
		{{Dst: 0, Data: 2}},
		{}, // sink node
	}
}

func writeTemp(t *testing.T, adj [][]Edge, withData bool) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "graph.gr")
	require.NoError(t, WriteFile(path, adj, withData))
	return path
}

func TestOfflineGraph_RoundTrip(t *testing.T) {
	adj := testAdj()
	g, err := Open(writeTemp(t, adj, true))
	require.NoError(t, err)
	defer g.Close()

	require.Equal(t, uint64(4), g.Size())
	require.Equal(t, uint64(4), g.SizeEdges())
	require.True(t, g.HasEdgeData())

	var e uint64
	for u, edges := range adj {
		require.Equal(t, e, g.EdgeBegin(uint64(u)))
		for _, want := range edges {
			require.Equal(t, want.Dst, g.EdgeDestination(e))
			require.Equal(t, want.Data, g.EdgeData(e))
			e++
		}
		require.Equal(t, e, g.EdgeEnd(uint64(u)))
	}
}

func TestOfflineGraph_NoEdgeData(t *testing.T) {
	g, err := Open(writeTemp(t, testAdj(), false))
	require.NoError(t, err)
	defer g.Close()

	require.False(t, g.HasEdgeData())
	require.Equal(t, uint32(0), g.EdgeData(0))
}

func TestOfflineGraph_Empty(t *testing.T) {
	g, err := Open(writeTemp(t, nil, false))
	require.NoError(t, err)
	defer g.Close()

	require.Equal(t, uint64(0), g.Size())
	require.Equal(t, uint64(0), g.SizeEdges())
}

func TestOpen_BadMagic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.gr")
	store := blobstore.NewLocalStore(filepath.Dir(path))
	require.NoError(t, store.Put(context.Background(), filepath.Base(path), make([]byte, 64)))

	_, err := Open(path)
	require.ErrorIs(t, err, ErrBadMagic)
}

func TestOpenStore(t *testing.T) {
	adj := testAdj()
	path := writeTemp(t, adj, true)

	local, err := Open(path)
	require.NoError(t, err)
	defer local.Close()

	store := blobstore.NewMemoryStore()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, store.Put(context.Background(), "g.gr", data))

	remote, err := OpenStore(context.Background(), store, "g.gr")
	require.NoError(t, err)
	require.Equal(t, local.Size(), remote.Size())
	require.Equal(t, local.SizeEdges(), remote.SizeEdges())
	for e := uint64(0); e < remote.SizeEdges(); e++ {
		require.Equal(t, local.EdgeDestination(e), remote.EdgeDestination(e))
		require.Equal(t, local.EdgeData(e), remote.EdgeData(e))
	}

	_, err = OpenStore(context.Background(), store, "missing.gr")
	require.Error(t, err)
}

func TestBuffered_MatchesOffline(t *testing.T) {
	adj := testAdj()
	g, err := Open(writeTemp(t, adj, true))
	require.NoError(t, err)
	defer g.Close()

	b := LoadPartial(g, 1, 3)
	require.True(t, b.HasEdgeData())

	first, last := b.Range()
	require.Equal(t, uint64(1), first)
	require.Equal(t, uint64(3), last)

	for gid := first; gid < last; gid++ {
		require.Equal(t, g.EdgeBegin(gid), b.EdgeBegin(gid))
		require.Equal(t, g.EdgeEnd(gid), b.EdgeEnd(gid))
		for e := b.EdgeBegin(gid); e < b.EdgeEnd(gid); e++ {
			require.Equal(t, g.EdgeDestination(e), b.EdgeDestination(e))
			require.Equal(t, g.EdgeData(e), b.EdgeData(e))
		}
	}

	require.Positive(t, b.BytesRead())
	b.Release()
}

func TestBuffered_EmptyRange(t *testing.T) {
	g, err := Open(writeTemp(t, testAdj(), false))
	require.NoError(t, err)
	defer g.Close()

	b := LoadPartial(g, 2, 2)
	first, last := b.Range()
	require.Equal(t, first, last)
	require.Equal(t, uint64(0), b.BytesRead())
}

func TestDistributeNodes(t *testing.T) {
	adj := [][]Edge{
		{{Dst: 1}, {Dst: 2}, {Dst: 3}, {Dst: 4}}, // heavy node
		{{Dst: 2}},
		{},
		{{Dst: 0}},
		{},
	}
	g, err := Open(writeTemp(t, adj, false))
	require.NoError(t, err)
	defer g.Close()

	for _, numHosts := range []uint32{1, 2, 3, 5, 8} {
		ranges := DistributeNodes(g, numHosts)
		require.Len(t, ranges, int(numHosts))

		// contiguous cover of [0, numNodes)
		var next uint64
		for _, r := range ranges {
			require.Equal(t, next, r.First)
			require.LessOrEqual(t, r.First, r.Last)
			next = r.Last
		}
		require.Equal(t, g.Size(), next)

		// pure function of the input
		require.Equal(t, ranges, DistributeNodes(g, numHosts))
	}
}

func TestDistributeNodes_EmptyGraph(t *testing.T) {
	g, err := Open(writeTemp(t, nil, false))
	require.NoError(t, err)
	defer g.Close()

	ranges := DistributeNodes(g, 3)
	for _, r := range ranges {
		require.Equal(t, uint64(0), r.Len())
	}
}
