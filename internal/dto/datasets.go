package dto

import "encoding/json"

// CreateStudentRequest adds a student record.
type CreateStudentRequest struct {
	Name            string   `json:"name" validate:"required"`
	Program         string   `json:"program" validate:"required"`
	Year            int      `json:"year" validate:"required,min=1,max=8"`
	EnrolledCredits int      `json:"enrolledCredits" validate:"omitempty,min=0"`
	ElectiveChoices []string `json:"electiveChoices"`
}

// UpdateStudentRequest modifies a student record.
type UpdateStudentRequest struct {
	Name            string   `json:"name" validate:"required"`
	Program         string   `json:"program" validate:"required"`
	Year            int      `json:"year" validate:"required,min=1,max=8"`
	EnrolledCredits int      `json:"enrolledCredits" validate:"omitempty,min=0"`
	ElectiveChoices []string `json:"electiveChoices"`
}

// CreateFacultyRequest adds a faculty record.
type CreateFacultyRequest struct {
	Name         string          `json:"name" validate:"required"`
	Department   string          `json:"department" validate:"required"`
	Workload     int             `json:"workload" validate:"required,min=1,max=40"`
	Availability json.RawMessage `json:"availability"`
}

// UpdateFacultyRequest modifies a faculty record.
type UpdateFacultyRequest struct {
	Name         string          `json:"name" validate:"required"`
	Department   string          `json:"department" validate:"required"`
	Workload     int             `json:"workload" validate:"required,min=1,max=40"`
	Availability json.RawMessage `json:"availability"`
}

// CreateCourseRequest adds a course record.
type CreateCourseRequest struct {
	Code    string `json:"code" validate:"required"`
	Name    string `json:"name" validate:"required"`
	Credits int    `json:"credits" validate:"required,min=1,max=10"`
	Type    string `json:"type" validate:"required,oneof=CORE ELECTIVE LAB"`
}

// UpdateCourseRequest modifies a course record.
type UpdateCourseRequest struct {
	Code    string `json:"code" validate:"required"`
	Name    string `json:"name" validate:"required"`
	Credits int    `json:"credits" validate:"required,min=1,max=10"`
	Type    string `json:"type" validate:"required,oneof=CORE ELECTIVE LAB"`
}

// CreateRoomRequest adds a room record.
type CreateRoomRequest struct {
	Name     string `json:"name" validate:"required"`
	Capacity int    `json:"capacity" validate:"required,min=1"`
	Type     string `json:"type" validate:"required"`
}

// UpdateRoomRequest modifies a room record.
type UpdateRoomRequest struct {
	Name     string `json:"name" validate:"required"`
	Capacity int    `json:"capacity" validate:"required,min=1"`
	Type     string `json:"type" validate:"required"`
}
