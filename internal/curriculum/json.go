package curriculum

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/vk/coursegrid/internal/ctxlog"
)

// JSONLoader reads curricula stored as a JSON array of course objects.
type JSONLoader struct{}

// jsonCourse is one element of the array. Optional fields are pointers so
// that omitted and zero values can be told apart.
type jsonCourse struct {
	ID            *int    `json:"id"`
	Name          string  `json:"name"`
	CreditHours   float64 `json:"credit_hours"`
	Category      *string `json:"category"`
	Semester      int     `json:"semester"`
	Prerequisites []int   `json:"prerequisites"`
}

// Load implements Loader.
func (l *JSONLoader) Load(ctx context.Context, path string) (*Curriculum, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read curriculum file %s: %w", path, err)
	}
	cur, err := l.Decode(ctx, CodeFromPath(path), bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	cur.Source = path
	return cur, nil
}

// Decode parses a JSON course array from r for the program identified by code.
func (l *JSONLoader) Decode(ctx context.Context, code string, r io.Reader) (*Curriculum, error) {
	logger := ctxlog.FromContext(ctx)

	var records []jsonCourse
	dec := json.NewDecoder(r)
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode curriculum %s: %w", code, err)
	}
	logger.Debug("Decoded JSON curriculum.", "code", code, "records", len(records))

	raws := make([]rawCourse, len(records))
	for i, rec := range records {
		raws[i] = rawCourse{
			Position:      fmt.Sprintf("course[%d]", i),
			Name:          rec.Name,
			CreditHours:   rec.CreditHours,
			ID:            rec.ID,
			Category:      rec.Category,
			Semester:      rec.Semester,
			Prerequisites: rec.Prerequisites,
		}
	}
	if err := validate(code, raws); err != nil {
		return nil, err
	}

	return &Curriculum{Code: code, Courses: toCourses(raws)}, nil
}
