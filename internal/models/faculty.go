package models

import (
	"encoding/json"
	"time"
)

// Faculty represents a teaching staff member. Workload is the weekly teaching
// hour target; Availability holds an opaque availability rule document.
type Faculty struct {
	ID           string          `db:"id" json:"id"`
	Name         string          `db:"name" json:"name"`
	Department   string          `db:"department" json:"department"`
	Workload     int             `db:"workload" json:"workload"`
	Availability json.RawMessage `db:"availability" json:"availability,omitempty"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`
}

// FacultyFilter encapsulates search parameters for listing faculty.
type FacultyFilter struct {
	Search     string
	Department string
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}
