package prereqgraph

import (
	"slices"

	"github.com/vk/coursegrid/internal/course"
)

// Course returns the course with the given id, or nil and false if no such
// course was built. Dangling prerequisite ids are not courses.
func (g *Graph) Course(id int) (*course.Course, bool) {
	h, ok := g.lookup(id)
	if !ok || g.nodes[h].course == nil {
		return nil, false
	}
	return g.nodes[h].course, true
}

// Courses returns the built courses in input order.
func (g *Graph) Courses() []*course.Course {
	out := make([]*course.Course, 0, len(g.order))
	for _, h := range g.order {
		out = append(out, g.nodes[h].course)
	}
	return out
}

// Prerequisites returns the direct prerequisite ids of a course in the order
// the course lists them. The slice is a fresh copy; it is empty for unknown
// ids.
func (g *Graph) Prerequisites(id int) []int {
	h, ok := g.lookup(id)
	if !ok {
		return []int{}
	}
	return g.ids(g.nodes[h].before)
}

// NextCourses returns the ids of the courses that depend on id, sorted
// ascending. With recursive false only direct dependents are returned; with
// recursive true the result is the transitive closure of the dependents
// relation, which contains id itself only when the data has a cycle through
// it. The recursive result always includes the direct one.
func (g *Graph) NextCourses(id int, recursive bool) []int {
	h, ok := g.lookup(id)
	if !ok {
		return []int{}
	}
	if !recursive {
		return sorted(g.ids(g.nodes[h].after))
	}

	var out []int
	for _, level := range g.levels(h) {
		out = append(out, level...)
	}
	return sorted(out)
}

// Cascade groups the transitive dependents of id by their distance from it.
// Level 0 holds the direct dependents, level 1 the courses first reached
// through them, and so on. Each id appears once, at its shortest distance,
// and every level is sorted ascending.
func (g *Graph) Cascade(id int) [][]int {
	h, ok := g.lookup(id)
	if !ok {
		return [][]int{}
	}
	levels := g.levels(h)
	for _, level := range levels {
		slices.Sort(level)
	}
	return levels
}

// levels walks the dependents of start breadth first, with a visited set so
// that cyclic data terminates. start is only marked when a cycle reaches it.
func (g *Graph) levels(start int) [][]int {
	visited := map[int]bool{}
	frontier := []int{start}
	levels := [][]int{}

	for len(frontier) > 0 {
		var next []int
		for _, h := range frontier {
			for _, dep := range g.nodes[h].after {
				if visited[dep] {
					continue
				}
				visited[dep] = true
				next = append(next, dep)
			}
		}
		if len(next) == 0 {
			break
		}
		levels = append(levels, g.ids(next))
		frontier = next
	}
	return levels
}

// Dangling returns, sorted, the ids referenced as prerequisites that do not
// belong to any built course.
func (g *Graph) Dangling() []int {
	var out []int
	for _, n := range g.nodes {
		if n.course == nil {
			out = append(out, n.id)
		}
	}
	return sorted(out)
}

// Semesters groups the built courses by semester, excluding free electives.
// Within a semester courses keep their input order.
func (g *Graph) Semesters() map[int][]*course.Course {
	out := make(map[int][]*course.Course)
	for _, c := range g.Courses() {
		if c.IsFreeElective() {
			continue
		}
		out[c.Semester()] = append(out[c.Semester()], c)
	}
	return out
}

// SemesterNumbers returns the semesters present in the grid, ascending.
func (g *Graph) SemesterNumbers() []int {
	semesters := g.Semesters()
	out := make([]int, 0, len(semesters))
	for s := range semesters {
		out = append(out, s)
	}
	return sorted(out)
}

// FreeElectives returns the courses with no fixed semester, in input order.
func (g *Graph) FreeElectives() []*course.Course {
	var out []*course.Course
	for _, c := range g.Courses() {
		if c.IsFreeElective() {
			out = append(out, c)
		}
	}
	return out
}

// ids converts handles to course ids in a new slice.
func (g *Graph) ids(hs []int) []int {
	out := make([]int, len(hs))
	for i, h := range hs {
		out[i] = g.nodes[h].id
	}
	return out
}

func sorted(ids []int) []int {
	if ids == nil {
		return []int{}
	}
	slices.Sort(ids)
	return ids
}
