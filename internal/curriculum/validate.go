package curriculum

import (
	"fmt"
	"strings"

	"github.com/vk/coursegrid/internal/course"
)

// ValidationError collects every problem found in a curriculum file.
type ValidationError struct {
	Source   string
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid curriculum %s: %s", e.Source, strings.Join(e.Problems, "; "))
}

// rawCourse is the format-agnostic form shared by the loaders before a
// course.Course is built.
type rawCourse struct {
	// Position is a human label for error messages (index or block range).
	Position      string
	Name          string
	CreditHours   float64
	ID            *int
	Category      *string
	Semester      int
	Prerequisites []int
}

// validate checks the raw records and reports all problems at once.
func validate(source string, raws []rawCourse) error {
	var problems []string
	seen := make(map[int]string)

	for _, r := range raws {
		if strings.TrimSpace(r.Name) == "" {
			problems = append(problems, fmt.Sprintf("%s: name is required", r.Position))
		}
		if r.CreditHours < 0 {
			problems = append(problems, fmt.Sprintf("%s: credit hours must not be negative, got %v", r.Position, r.CreditHours))
		}
		if r.Semester < 1 {
			problems = append(problems, fmt.Sprintf("%s: semester must be at least 1, got %d", r.Position, r.Semester))
		}
		if r.ID != nil && *r.ID != 0 {
			if prev, dup := seen[*r.ID]; dup {
				problems = append(problems, fmt.Sprintf("%s: duplicate id %d (first used at %s)", r.Position, *r.ID, prev))
			} else {
				seen[*r.ID] = r.Position
			}
		}
		if r.Category != nil {
			if _, err := course.ParseCategory(*r.Category); err != nil {
				problems = append(problems, fmt.Sprintf("%s: %v", r.Position, err))
			}
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Source: source, Problems: problems}
	}
	return nil
}

// toCourses builds course records from raw records that passed validate.
func toCourses(raws []rawCourse) []*course.Course {
	courses := make([]*course.Course, 0, len(raws))
	for _, r := range raws {
		opts := course.Options{
			Name:          r.Name,
			CreditHours:   r.CreditHours,
			ID:            r.ID,
			Semester:      r.Semester,
			Prerequisites: r.Prerequisites,
		}
		if r.Category != nil {
			cat, _ := course.ParseCategory(*r.Category)
			opts.Category = &cat
		}
		courses = append(courses, course.New(opts))
	}
	return courses
}
