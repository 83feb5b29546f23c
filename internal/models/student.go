package models

import (
	"time"

	"github.com/lib/pq"
)

// Student represents a learner registered in the institution. ElectiveChoices
// keeps insertion order: demand forecasting replaces the last chosen elective.
type Student struct {
	ID              string         `db:"id" json:"id"`
	Name            string         `db:"name" json:"name"`
	Program         string         `db:"program" json:"program"`
	Year            int            `db:"year" json:"year"`
	EnrolledCredits int            `db:"enrolled_credits" json:"enrolledCredits"`
	ElectiveChoices pq.StringArray `db:"elective_choices" json:"electiveChoices"`
	CreatedAt       time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at" json:"updated_at"`
}

// StudentFilter encapsulates allowed search parameters for listing students.
type StudentFilter struct {
	Search    string
	Program   string
	Year      *int
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// Clone returns a deep copy, detaching the elective slice from the original.
func (s Student) Clone() Student {
	copied := s
	copied.ElectiveChoices = append(pq.StringArray(nil), s.ElectiveChoices...)
	return copied
}
