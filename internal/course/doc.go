// Package course defines the Course record, the value object describing one
// curriculum entry: its name, workload, category, target semester and the ids
// of the courses that must be completed before it can be taken.
//
// # Construction
//
// Records are built once by the ingestion layer through New and an Options
// value. Optional fields are nil-able so an omitted value and a zero value
// stay distinct:
//
//	c := course.New(course.Options{
//	    Name:          "ALGORITMOS I",
//	    CreditHours:   68,
//	    Semester:      1,
//	    Prerequisites: []int{12},
//	})
//	c.Name()     // "algoritmos i"
//	c.Category() // Mandatory (omitted)
//	c.ID()       // random id in [1, MaxRandomID] (omitted)
//
// # Immutability
//
// A Course exposes read-only accessors. Prerequisites returns a copy, so no
// caller can change the record (or a graph built from it) through the slice
// it receives.
package course
