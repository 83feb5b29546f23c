package models

import "time"

// CourseType distinguishes compulsory offerings from electives.
type CourseType string

const (
	CourseTypeCore     CourseType = "CORE"
	CourseTypeElective CourseType = "ELECTIVE"
	CourseTypeLab      CourseType = "LAB"
)

// Course represents an academic offering. Code is the stable external
// identifier used inside student elective choices and timetable entries.
type Course struct {
	ID        string     `db:"id" json:"id"`
	Code      string     `db:"code" json:"code"`
	Name      string     `db:"name" json:"name"`
	Credits   int        `db:"credits" json:"credits"`
	Type      CourseType `db:"type" json:"type"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}

// CourseFilter encapsulates search parameters for listing courses.
type CourseFilter struct {
	Search    string
	Type      *CourseType
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
