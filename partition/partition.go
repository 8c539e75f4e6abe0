package partition

// Policy decides vertex mastership and edge ownership.
type Policy interface {
	// Init performs one-time setup before any other call.
	Init(numHosts uint32, numGlobalNodes uint64)

	// Master returns the host holding the authoritative state for gid.
	// Total, deterministic, identical on every host.
	Master(gid uint64) uint32

	// Edge returns the host owning edge (src, dst) and whether that host
	// is also dst's master. The flag spares callers a second Master call
	// and decides whether the owner must grow an incoming mirror for dst.
	Edge(src, dst uint64, srcDegree uint64) (host uint32, dstMaster bool)
}
