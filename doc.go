// Package distgraph builds per-host in-memory subgraphs of a large on-disk
// directed graph for bulk-synchronous vertex programs.
//
// Each host reads a disjoint block of source vertices from the global
// graph, asks a pluggable partitioning policy which host owns every edge,
// exchanges inspection metadata with its peers to learn which mirror
// vertices it must create, assigns dense local ids in a fixed layout
// (masters, then outgoing mirrors, then incoming-only mirrors), builds a
// compressed sparse row topology, and finally ships every edge payload to
// its owning host.
//
// The partitioning family is a vertex cut: an edge lives on exactly one
// host, and a vertex is materialized on every host that touches it. The
// resulting Graph is immutable; hand it to a vertex-program runtime and
// drive synchronization with MirrorNodes, MirrorRanges, and ResetBitset.
//
// Example:
//
//	mesh := transport.NewMesh(4)
//	g, err := distgraph.New(mesh.Host(id), partition.NewHashCut()).
//	    File("twitter.gr").
//	    Transpose(true).
//	    Load(ctx)
package distgraph
