// Package render prints a curriculum and its cascade highlights to a
// terminal.
package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/vk/coursegrid/internal/course"
	"github.com/vk/coursegrid/internal/prereqgraph"
)

// Disable turns colour output off globally, e.g. for tests or when stdout is
// not a terminal.
func Disable() {
	color.NoColor = true
}

var (
	heading   = color.New(color.FgCyan, color.Bold)
	selected  = color.New(color.FgYellow, color.Bold)
	warning   = color.New(color.FgRed)
	levelInks = []*color.Color{
		color.New(color.FgRed),
		color.New(color.FgMagenta),
		color.New(color.FgBlue),
	}
)

var tableHeader = []string{"Semester", "Id", "Course", "Hours", "Category", "Prerequisites"}

// SemesterTable prints the semester grid of g followed by the free electives.
func SemesterTable(w io.Writer, g *prereqgraph.Graph, title string) {
	if title != "" {
		heading.Fprintf(w, "\n=== %s ===\n", title)
	}

	table := newTable(w)
	semesters := g.Semesters()
	for _, s := range g.SemesterNumbers() {
		for _, c := range semesters[s] {
			table.Append(row(strconv.Itoa(s), c))
		}
	}
	table.Render()

	if free := g.FreeElectives(); len(free) > 0 {
		heading.Fprintln(w, "\nFree electives")
		table := newTable(w)
		for _, c := range free {
			table.Append(row("-", c))
		}
		table.Render()
	}

	if dangling := g.Dangling(); len(dangling) > 0 {
		warning.Fprintf(w, "\nPrerequisites outside this curriculum: %s\n", joinIDs(dangling))
	}
}

func newTable(w io.Writer) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(tableHeader)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	return table
}

func row(semester string, c *course.Course) []string {
	return []string{
		semester,
		strconv.Itoa(c.ID()),
		c.Name(),
		strconv.FormatFloat(c.CreditHours(), 'f', -1, 64),
		c.Category().String(),
		joinIDs(c.Prerequisites()),
	}
}

// Cascade prints the courses that depend on id, level by level, as the
// highlight would reveal them.
func Cascade(w io.Writer, g *prereqgraph.Graph, id int) error {
	c, ok := g.Course(id)
	if !ok {
		return fmt.Errorf("course %d not found", id)
	}

	selected.Fprintf(w, "%s (%d)\n", c.Name(), c.ID())
	if prereqs := g.Prerequisites(id); len(prereqs) > 0 {
		fmt.Fprintf(w, "  requires: %s\n", describe(g, prereqs))
	}

	levels := g.Cascade(id)
	if len(levels) == 0 {
		fmt.Fprintln(w, "  no course depends on it")
		return nil
	}
	for i, level := range levels {
		ink := levelInks[min(i, len(levelInks)-1)]
		ink.Fprintf(w, "  %d. %s\n", i+1, describe(g, level))
	}
	fmt.Fprintf(w, "  blocked if not passed: %d course(s)\n", len(g.NextCourses(id, true)))
	return nil
}

// describe renders ids with their course names where known.
func describe(g *prereqgraph.Graph, ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		if c, ok := g.Course(id); ok {
			parts[i] = fmt.Sprintf("%s (%d)", c.Name(), id)
		} else {
			parts[i] = fmt.Sprintf("? (%d)", id)
		}
	}
	return strings.Join(parts, ", ")
}

func joinIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ", ")
}
