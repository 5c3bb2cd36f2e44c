package course

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

const (
	// FreeElectiveSemester marks a course with no fixed semester slot.
	FreeElectiveSemester = 99

	// MaxRandomID is the upper bound (inclusive) of generated ids.
	MaxRandomID = 1_000_000
)

// Options carries the raw attributes of a course. ID and Category are
// pointers so that "not supplied" can be told apart from a zero value.
type Options struct {
	Name          string
	CreditHours   float64
	ID            *int
	Category      *Category
	Semester      int
	Prerequisites []int
}

// Course is one curriculum entry. It is immutable after New returns.
type Course struct {
	id            int
	name          string
	creditHours   float64
	category      Category
	semester      int
	prerequisites []int
}

// New builds a Course from opts, filling in defaults for omitted fields.
//
// The name is lower-cased. A nil or zero ID is replaced by a random id in
// [1, MaxRandomID]; collisions are not checked. A nil Category means
// Mandatory. Prerequisite ids are copied and deduplicated, keeping the first
// occurrence. No range checks are made on credit hours or semester.
func New(opts Options) *Course {
	c := &Course{
		name:          strings.ToLower(opts.Name),
		creditHours:   opts.CreditHours,
		category:      Mandatory,
		semester:      opts.Semester,
		prerequisites: dedupe(opts.Prerequisites),
	}
	if opts.ID != nil && *opts.ID != 0 {
		c.id = *opts.ID
	} else {
		c.id = randomID()
	}
	if opts.Category != nil {
		c.category = *opts.Category
	}
	return c
}

func randomID() int {
	return rand.IntN(MaxRandomID) + 1
}

func dedupe(ids []int) []int {
	out := make([]int, 0, len(ids))
	seen := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// ID returns the course identifier.
func (c *Course) ID() int { return c.id }

// Name returns the normalized (lower-case) course name.
func (c *Course) Name() string { return c.name }

// CreditHours returns the workload of the course.
func (c *Course) CreditHours() float64 { return c.creditHours }

// Category returns whether the course is mandatory or elective.
func (c *Course) Category() Category { return c.category }

// Semester returns the normal semester, or FreeElectiveSemester.
func (c *Course) Semester() int { return c.semester }

// IsFreeElective reports whether the course has no fixed semester.
func (c *Course) IsFreeElective() bool { return c.semester == FreeElectiveSemester }

// Prerequisites returns a copy of the prerequisite ids, in input order.
func (c *Course) Prerequisites() []int {
	out := make([]int, len(c.prerequisites))
	copy(out, c.prerequisites)
	return out
}

func (c *Course) String() string {
	return fmt.Sprintf("%d:%s", c.id, c.name)
}
