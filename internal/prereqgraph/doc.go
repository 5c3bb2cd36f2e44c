// Package prereqgraph indexes a set of course records as a prerequisite
// dependency graph and answers the queries that drive the cascade highlight:
// direct prerequisites, direct dependents and the transitive set of courses
// that become unreachable when a course is not passed.
//
// # Storage
//
// Every id seen during a build, whether it belongs to a built course or is
// only referenced as a prerequisite, gets a dense handle into a flat slice of
// nodes. Each node keeps its course (nil for a dangling reference) and two
// adjacency slices of handles:
//
//	before: the direct prerequisites of the node
//	after:  the nodes that list this node as a direct prerequisite
//
// For every handle p in before[x], x is present in after[p], and the other way
// round. The adjacency slices are owned by the graph and never shared with a
// course record or a caller.
//
// # Lifecycle
//
// A Graph is either Empty (after New or Clear) or Built (after Build). Build
// always replaces the whole index; there is no incremental update. All queries
// are valid in both states and unknown ids simply yield nothing.
//
// # Concurrency
//
// A Graph is not safe for concurrent mutation. Build a new Graph and swap a
// reference to it when readers run on other goroutines; a built graph that is
// no longer mutated may be queried concurrently.
package prereqgraph
