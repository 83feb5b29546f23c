package dto

import "github.com/smarttimetable/timetable-ace-api/internal/models"

// GenerateTimetableRequest triggers a generation run. The scenario is optional
// and applies only to this run.
type GenerateTimetableRequest struct {
	Scenario *models.Scenario `json:"scenario,omitempty"`
}

// GenerateTimetableResponse returns the stored result plus a human message
// describing the run.
type GenerateTimetableResponse struct {
	Result  *models.GenerationResult `json:"result"`
	Message string                   `json:"message"`
}

// LatestTimetableResponse wraps the persisted latest result. Result is nil
// when no timetable is visible to the caller.
type LatestTimetableResponse struct {
	Result *models.GenerationResult `json:"result"`
}

// EnginePayload carries the five serialized collections sent to the engine.
// Each field is an independently parseable JSON document.
type EnginePayload struct {
	StudentData string `json:"studentData"`
	FacultyData string `json:"facultyData"`
	CourseData  string `json:"courseData"`
	RoomData    string `json:"roomData"`
	Constraints string `json:"constraints"`
}
