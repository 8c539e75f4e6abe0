package transport

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func recvBlocking(t *testing.T, ep *Endpoint, phase uint32) (uint32, []byte) {
	t.Helper()
	for i := 0; i < 1_000_000; i++ {
		src, b, ok, err := ep.RecvTagged(phase)
		require.NoError(t, err)
		if ok {
			return src, b
		}
	}
	t.Fatal("no message arrived")
	return 0, nil
}

func TestMesh_FIFOPerPeerAndPhase(t *testing.T) {
	mesh := NewMesh(2)
	a, b := mesh.Host(0), mesh.Host(1)

	phase := a.Phase()
	require.Equal(t, uint32(1), phase)

	require.NoError(t, a.SendTagged(1, phase, []byte{1}))
	require.NoError(t, a.SendTagged(1, phase, []byte{2}))
	require.NoError(t, a.SendTagged(1, phase, []byte{3}))

	for want := byte(1); want <= 3; want++ {
		src, msg := recvBlocking(t, b, phase)
		require.Equal(t, uint32(0), src)
		require.Equal(t, []byte{want}, msg)
	}

	_, _, ok, err := b.RecvTagged(phase)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMesh_PhasesDoNotMix(t *testing.T) {
	mesh := NewMesh(2)
	a, b := mesh.Host(0), mesh.Host(1)

	require.NoError(t, a.SendTagged(1, 1, []byte("phase1")))
	require.NoError(t, a.SendTagged(1, 2, []byte("phase2")))

	// phase 2 is visible without draining phase 1
	src, msg := recvBlocking(t, b, 2)
	require.Equal(t, uint32(0), src)
	require.Equal(t, []byte("phase2"), msg)

	_, msg = recvBlocking(t, b, 1)
	require.Equal(t, []byte("phase1"), msg)
}

func TestMesh_IncrementPhaseIsPerHost(t *testing.T) {
	mesh := NewMesh(2)
	a, b := mesh.Host(0), mesh.Host(1)

	a.IncrementPhase()
	require.Equal(t, uint32(2), a.Phase())
	require.Equal(t, uint32(1), b.Phase())
}

func TestMesh_MultipleSenders(t *testing.T) {
	const n = 4
	mesh := NewMesh(n)

	var wg sync.WaitGroup
	for src := uint32(1); src < n; src++ {
		src := src
		wg.Add(1)
		go func() {
			defer wg.Done()
			require.NoError(t, mesh.Host(src).SendTagged(0, 1, []byte{byte(src)}))
		}()
	}
	wg.Wait()

	got := map[byte]bool{}
	sink := mesh.Host(0)
	for i := 0; i < n-1; i++ {
		src, msg := recvBlocking(t, sink, 1)
		require.Equal(t, byte(src), msg[0])
		got[msg[0]] = true
	}
	require.Len(t, got, n-1)
}

func TestMesh_Meter(t *testing.T) {
	mesh := NewMesh(2)
	a, b := mesh.Host(0), mesh.Host(1)

	require.NoError(t, a.SendTagged(1, 1, make([]byte, 100)))
	require.Equal(t, uint64(100), a.BytesSent())
	require.Equal(t, uint64(0), b.BytesReceived())

	recvBlocking(t, b, 1)
	require.Equal(t, uint64(100), b.BytesReceived())
}

func TestMesh_RateLimitDelivers(t *testing.T) {
	mesh := NewMesh(2, WithRateLimit(1<<20, 1<<20))
	a, b := mesh.Host(0), mesh.Host(1)

	require.NoError(t, a.SendTagged(1, 1, make([]byte, 1024)))
	_, msg := recvBlocking(t, b, 1)
	require.Len(t, msg, 1024)
}
