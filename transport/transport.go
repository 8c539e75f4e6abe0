package transport

// Transport is the message-passing surface consumed by the graph loader.
//
// Implementations must deliver buffers FIFO per (sender, receiver, phase)
// triple. No ordering is required across phases or across peers.
type Transport interface {
	// ID returns this host's id in [0, Num).
	ID() uint32

	// Num returns the number of hosts.
	Num() uint32

	// SendTagged enqueues b for delivery to dst under the given phase tag.
	// The buffer is owned by the transport after the call returns.
	SendTagged(dst uint32, phase uint32, b []byte) error

	// RecvTagged returns the next pending buffer tagged with phase, from
	// any peer. ok is false when nothing is ready; callers poll.
	RecvTagged(phase uint32) (src uint32, b []byte, ok bool, err error)

	// Flush pushes out any buffered sends.
	Flush() error

	// Phase returns the current phase counter value.
	Phase() uint32

	// IncrementPhase advances the phase counter. Called once per host after
	// each receive phase completes; all hosts advance in lockstep because
	// every phase ends with a full exchange.
	IncrementPhase()
}

// Meter is an optional interface for transports that count traffic.
type Meter interface {
	BytesSent() uint64
	BytesReceived() uint64
}
