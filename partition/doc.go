// Package partition defines the pluggable partitioning policy: which host
// masters each vertex and which host owns each edge.
//
// Policies must be pure and identical on every host; the loader calls them
// from many goroutines and relies on every host predicting every other
// host's answers. The partitioning family implemented here is a vertex
// cut: edges are assigned to exactly one owning host, and vertices grow
// mirrors wherever their incident edges land.
package partition
