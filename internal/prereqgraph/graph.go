package prereqgraph

import (
	"github.com/vk/coursegrid/internal/course"
)

// New creates and returns an empty Graph.
func New() *Graph {
	return &Graph{
		handles: make(map[int]int),
	}
}

// Clear discards every course and edge, returning the graph to Empty.
func (g *Graph) Clear() {
	g.nodes = nil
	g.handles = make(map[int]int)
	g.order = nil
	g.built = false
}

// Build replaces the graph contents with the given courses.
//
// When two courses share an id the later one wins. A prerequisite id that
// does not belong to any of the courses is kept as a dangling node: it
// reports its dependents but has no course and no prerequisites.
func (g *Graph) Build(courses []*course.Course) {
	g.Clear()

	// First pass registers the courses so that edges can refer to them.
	for _, c := range courses {
		if c == nil {
			continue
		}
		h := g.handle(c.ID())
		if g.nodes[h].course == nil {
			g.order = append(g.order, h)
		}
		g.nodes[h].course = c
	}

	// Second pass links each course to its prerequisites in both directions.
	for _, h := range g.order {
		for _, prereq := range g.nodes[h].course.Prerequisites() {
			p := g.handle(prereq)
			g.nodes[h].before = append(g.nodes[h].before, p)
			g.nodes[p].after = appendUnique(g.nodes[p].after, h)
		}
	}

	g.built = true
}

// handle returns the handle for id, allocating a node if the id is new.
func (g *Graph) handle(id int) int {
	if h, ok := g.handles[id]; ok {
		return h
	}
	h := len(g.nodes)
	g.nodes = append(g.nodes, node{id: id})
	g.handles[id] = h
	return h
}

// lookup returns the handle for id without allocating.
func (g *Graph) lookup(id int) (int, bool) {
	h, ok := g.handles[id]
	return h, ok
}

func appendUnique(hs []int, h int) []int {
	for _, existing := range hs {
		if existing == h {
			return hs
		}
	}
	return append(hs, h)
}

// Built reports whether Build has completed since the last Clear.
func (g *Graph) Built() bool {
	return g.built
}

// Len returns the number of built courses.
func (g *Graph) Len() int {
	return len(g.order)
}
