package transport

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/time/rate"
)

// Mesh is an in-process Transport fabric connecting n hosts. Each host gets
// an Endpoint via Host; endpoints may be driven from separate goroutines.
//
// Delivery is immediate and unbounded: SendTagged never blocks on the
// receiver (only, optionally, on the egress rate limiter), so the loader's
// send passes cannot deadlock against its receive loops.
type Mesh struct {
	n         uint32
	inboxes   []inbox
	endpoints []*Endpoint
	limit     rate.Limit
	burst     int
}

type inbox struct {
	mu     sync.Mutex
	queues map[uint64][]message // keyed by src<<32 | phase
}

type message struct {
	src  uint32
	data []byte
}

// MeshOption configures a Mesh.
type MeshOption func(*Mesh)

// WithRateLimit throttles each endpoint's sends to bytesPerSec with the
// given burst. Zero disables throttling.
func WithRateLimit(bytesPerSec float64, burst int) MeshOption {
	return func(m *Mesh) {
		m.limit = rate.Limit(bytesPerSec)
		m.burst = burst
	}
}

// NewMesh creates a fabric for n hosts.
func NewMesh(n uint32, optFns ...MeshOption) *Mesh {
	m := &Mesh{
		n:         n,
		inboxes:   make([]inbox, n),
		endpoints: make([]*Endpoint, n),
	}
	for i := range m.inboxes {
		m.inboxes[i].queues = make(map[uint64][]message)
	}
	for _, fn := range optFns {
		fn(m)
	}
	for i := uint32(0); i < n; i++ {
		ep := &Endpoint{mesh: m, id: i}
		ep.phase.Store(1)
		if m.limit > 0 {
			ep.limiter = rate.NewLimiter(m.limit, m.burst)
		}
		m.endpoints[i] = ep
	}
	return m
}

// Host returns the Endpoint for host id.
func (m *Mesh) Host(id uint32) *Endpoint {
	return m.endpoints[id]
}

// Endpoint is one host's view of a Mesh. It implements Transport and Meter.
type Endpoint struct {
	mesh     *Mesh
	id       uint32
	phase    atomic.Uint32
	rrCursor uint32
	sent     atomic.Uint64
	received atomic.Uint64
	limiter  *rate.Limiter
}

var _ Transport = (*Endpoint)(nil)
var _ Meter = (*Endpoint)(nil)

// ID returns this host's id.
func (e *Endpoint) ID() uint32 { return e.id }

// Num returns the number of hosts in the mesh.
func (e *Endpoint) Num() uint32 { return e.mesh.n }

// Phase returns the current phase counter.
func (e *Endpoint) Phase() uint32 { return e.phase.Load() }

// IncrementPhase advances the phase counter.
func (e *Endpoint) IncrementPhase() { e.phase.Add(1) }

func queueKey(src, phase uint32) uint64 {
	return uint64(src)<<32 | uint64(phase)
}

// SendTagged delivers b into dst's inbox under the phase tag.
func (e *Endpoint) SendTagged(dst uint32, phase uint32, b []byte) error {
	if e.limiter != nil {
		if err := e.limiter.WaitN(context.Background(), len(b)); err != nil {
			return err
		}
	}

	in := &e.mesh.inboxes[dst]
	key := queueKey(e.id, phase)
	in.mu.Lock()
	in.queues[key] = append(in.queues[key], message{src: e.id, data: b})
	in.mu.Unlock()

	e.sent.Add(uint64(len(b)))
	return nil
}

// RecvTagged pops the next pending buffer for phase from any peer,
// scanning peers round-robin for fairness. FIFO order holds per peer.
func (e *Endpoint) RecvTagged(phase uint32) (uint32, []byte, bool, error) {
	in := &e.mesh.inboxes[e.id]
	n := e.mesh.n

	in.mu.Lock()
	defer in.mu.Unlock()

	start := e.rrCursor
	for i := uint32(0); i < n; i++ {
		src := (start + i) % n
		key := queueKey(src, phase)
		q := in.queues[key]
		if len(q) == 0 {
			continue
		}
		msg := q[0]
		if len(q) == 1 {
			delete(in.queues, key)
		} else {
			in.queues[key] = q[1:]
		}
		e.rrCursor = (src + 1) % n
		e.received.Add(uint64(len(msg.data)))
		return msg.src, msg.data, true, nil
	}
	return 0, nil, false, nil
}

// Flush is a no-op: delivery is immediate.
func (e *Endpoint) Flush() error { return nil }

// BytesSent returns the total payload bytes sent by this endpoint.
func (e *Endpoint) BytesSent() uint64 { return e.sent.Load() }

// BytesReceived returns the total payload bytes received by this endpoint.
func (e *Endpoint) BytesReceived() uint64 { return e.received.Load() }
