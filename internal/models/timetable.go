package models

import "time"

// TimetableEntry is one scheduled class slot in the weekly grid.
type TimetableEntry struct {
	Day        string `json:"day"`
	TimeSlot   string `json:"timeSlot"`
	CourseCode string `json:"courseCode"`
	CourseName string `json:"courseName"`
	Faculty    string `json:"faculty"`
	Room       string `json:"room"`
	Program    string `json:"program,omitempty"`
}

// Conflict records a class the engine could not place without a clash.
type Conflict struct {
	Day         string `json:"day"`
	TimeSlot    string `json:"timeSlot"`
	CourseCode  string `json:"courseCode"`
	Description string `json:"description"`
}

// GenerationResult is the durable outcome of a successful generation run.
// Entry and conflict order is preserved exactly as returned by the engine.
type GenerationResult struct {
	ID          string           `json:"id"`
	Timetable   []TimetableEntry `json:"timetable"`
	Conflicts   []Conflict       `json:"conflicts"`
	Report      string           `json:"report"`
	Simulated   bool             `json:"simulated"`
	GeneratedBy string           `json:"generated_by"`
	CreatedAt   time.Time        `json:"created_at"`
}

// Dataset bundles the canonical collections fed into a generation run.
type Dataset struct {
	Students []Student `json:"students"`
	Faculty  []Faculty `json:"faculty"`
	Courses  []Course  `json:"courses"`
	Rooms    []Room    `json:"rooms"`
}
