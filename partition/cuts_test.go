package partition

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hupe1980/distgraph/graphfile"
)

// every policy must report dstMaster consistently with Master
func checkEdgeContract(t *testing.T, p Policy, numNodes uint64) {
	t.Helper()
	for src := uint64(0); src < numNodes; src++ {
		for dst := uint64(0); dst < numNodes; dst++ {
			for _, deg := range []uint64{0, 1, 100} {
				host, dstMaster := p.Edge(src, dst, deg)
				require.Equal(t, p.Master(dst) == host, dstMaster,
					"edge (%d,%d) deg %d", src, dst, deg)
			}
		}
	}
}

func TestHashCut(t *testing.T) {
	p := NewHashCut()
	p.Init(3, 100)

	require.Equal(t, uint32(0), p.Master(0))
	require.Equal(t, uint32(1), p.Master(7))
	require.Equal(t, uint32(2), p.Master(11))

	// edges live with the source's master
	host, _ := p.Edge(7, 11, 4)
	require.Equal(t, uint32(1), host)

	checkEdgeContract(t, p, 12)
}

func TestBlockCut(t *testing.T) {
	p := NewBlockCut([]graphfile.Range{
		{First: 0, Last: 4},
		{First: 4, Last: 4}, // empty block
		{First: 4, Last: 10},
	})
	p.Init(3, 10)

	require.Equal(t, uint32(0), p.Master(0))
	require.Equal(t, uint32(0), p.Master(3))
	require.Equal(t, uint32(2), p.Master(4))
	require.Equal(t, uint32(2), p.Master(9))

	host, _ := p.Edge(2, 9, 1)
	require.Equal(t, uint32(0), host)

	checkEdgeContract(t, p, 10)
}

func TestHybridCut(t *testing.T) {
	p := NewHybridCut(10)
	p.Init(2, 100)

	// below threshold: source master owns
	host, _ := p.Edge(2, 3, 5)
	require.Equal(t, uint32(0), host)

	// at or above threshold: destination master owns
	host, dstMaster := p.Edge(2, 3, 10)
	require.Equal(t, uint32(1), host)
	require.True(t, dstMaster)

	checkEdgeContract(t, p, 8)
}

func TestHybridCut_ZeroThresholdNeverFlips(t *testing.T) {
	p := NewHybridCut(0)
	p.Init(2, 100)

	host, _ := p.Edge(2, 3, 1000)
	require.Equal(t, uint32(0), host)
}
