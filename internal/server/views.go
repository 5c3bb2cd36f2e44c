package server

import (
	"github.com/vk/coursegrid/internal/course"
)

// courseView is the JSON form of a course.
type courseView struct {
	ID            int     `json:"id"`
	Name          string  `json:"name"`
	CreditHours   float64 `json:"credit_hours"`
	Category      string  `json:"category"`
	Semester      int     `json:"semester"`
	FreeElective  bool    `json:"free_elective"`
	Prerequisites []int   `json:"prerequisites"`
}

func viewOf(c *course.Course) courseView {
	return courseView{
		ID:            c.ID(),
		Name:          c.Name(),
		CreditHours:   c.CreditHours(),
		Category:      c.Category().String(),
		Semester:      c.Semester(),
		FreeElective:  c.IsFreeElective(),
		Prerequisites: c.Prerequisites(),
	}
}

// curriculumView summarises the current curriculum.
type curriculumView struct {
	Code    string       `json:"code"`
	Title   string       `json:"title,omitempty"`
	Courses []courseView `json:"courses"`
}

func (s *Snapshot) view() curriculumView {
	courses := s.Graph.Courses()
	v := curriculumView{Code: s.Code, Title: s.Title, Courses: make([]courseView, len(courses))}
	for i, c := range courses {
		v.Courses[i] = viewOf(c)
	}
	return v
}

// cascadeView is the payload of a cascade highlight.
type cascadeView struct {
	ID     int     `json:"id"`
	Levels [][]int `json:"levels"`
}

func (s *Snapshot) cascade(id int) cascadeView {
	return cascadeView{ID: id, Levels: s.Graph.Cascade(id)}
}
