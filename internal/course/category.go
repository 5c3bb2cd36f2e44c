package course

import (
	"fmt"
	"strings"
)

// Category classifies a course as part of the fixed track or as a choice.
type Category int

const (
	// Mandatory is the zero value on purpose: a record built without a
	// category is mandatory.
	Mandatory Category = iota
	Elective
)

// String returns the lower-case name of the category.
func (c Category) String() string {
	switch c {
	case Mandatory:
		return "mandatory"
	case Elective:
		return "elective"
	default:
		return fmt.Sprintf("category(%d)", int(c))
	}
}

// Ptr returns a pointer to c, for use in Options literals.
func (c Category) Ptr() *Category {
	return &c
}

// ParseCategory maps a textual category to a Category. Both the English names
// and the Portuguese labels used by the source curricula are accepted, case
// insensitively.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mandatory", "obrigatoria", "obrigatória":
		return Mandatory, nil
	case "elective", "optativa":
		return Elective, nil
	default:
		return Mandatory, fmt.Errorf("unknown course category %q", s)
	}
}
