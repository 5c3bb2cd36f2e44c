package prereqgraph

import (
	"fmt"
	"strings"
)

// CycleError reports a prerequisite chain that loops back on itself. Path
// lists the ids along the loop, starting and ending with the same id.
type CycleError struct {
	Path []int
}

func (e *CycleError) Error() string {
	parts := make([]string, len(e.Path))
	for i, id := range e.Path {
		parts[i] = fmt.Sprint(id)
	}
	return fmt.Sprintf("prerequisite cycle detected: %s", strings.Join(parts, " -> "))
}

// DetectCycles checks the graph for prerequisite cycles. It returns a
// *CycleError describing the first cycle found, or nil. Build never calls it;
// queries stay safe on cyclic data either way.
func (g *Graph) DetectCycles() error {
	// Classic depth-first search with three colours:
	// done: fully explored and not part of a cycle.
	// onStack: on the current traversal path.
	done := make([]bool, len(g.nodes))
	onStack := make([]bool, len(g.nodes))
	var path []int

	var visit func(h int) error
	visit = func(h int) error {
		if done[h] {
			return nil
		}
		if onStack[h] {
			start := 0
			for i, p := range path {
				if p == h {
					start = i
					break
				}
			}
			loop := append(g.ids(path[start:]), g.nodes[h].id)
			return &CycleError{Path: loop}
		}

		onStack[h] = true
		path = append(path, h)
		for _, dep := range g.nodes[h].after {
			if err := visit(dep); err != nil {
				return err
			}
		}
		path = path[:len(path)-1]
		onStack[h] = false
		done[h] = true
		return nil
	}

	for h := range g.nodes {
		if err := visit(h); err != nil {
			return err
		}
	}
	return nil
}
