package distgraph

import (
	"errors"
	"fmt"
)

var (
	// ErrConfig indicates an invalid or incomplete builder configuration.
	ErrConfig = errors.New("distgraph: invalid configuration")

	// ErrProtocol indicates a malformed message during an exchange. The
	// partition cannot be trusted afterwards; abort the job.
	ErrProtocol = errors.New("distgraph: protocol violation")

	// ErrInvariant indicates a broken partition invariant, such as a
	// received source that is not resident locally.
	ErrInvariant = errors.New("distgraph: partition invariant violated")

	// ErrTransport indicates a failure surfaced by the transport.
	ErrTransport = errors.New("distgraph: transport failure")
)

// ErrEdgeCountMismatch indicates that a received edge record does not fill
// its source's CSR slot exactly.
//
// Satisfies errors.Is(err, ErrInvariant).
type ErrEdgeCountMismatch struct {
	Src  uint64
	Want uint64
	Got  uint64
}

func (e *ErrEdgeCountMismatch) Error() string {
	return fmt.Sprintf("edge count mismatch for source %d: slot holds %d, record carries %d", e.Src, e.Want, e.Got)
}

func (e *ErrEdgeCountMismatch) Unwrap() error { return ErrInvariant }
