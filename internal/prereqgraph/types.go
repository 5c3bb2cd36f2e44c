package prereqgraph

import "github.com/vk/coursegrid/internal/course"

// Graph is the prerequisite dependency graph of one curriculum.
type Graph struct {
	// nodes is the arena; a node's handle is its index.
	nodes []node
	// handles maps a course id to its handle in nodes.
	handles map[int]int
	// order holds the handles of built courses in input order.
	order []int
	built bool
}

// node is one vertex of the graph. It is un-exported so that callers work
// with course ids only.
type node struct {
	id int
	// course is nil when the id was only ever referenced as a prerequisite.
	course *course.Course
	// before holds the handles of the direct prerequisites.
	before []int
	// after holds the handles of the direct dependents.
	after []int
}
