package dto

import "time"

// ExportTimetableRequest selects the output format for the latest timetable.
type ExportTimetableRequest struct {
	Format string `json:"format" validate:"required,oneof=csv pdf"`
}

// ExportTimetableResponse returns the signed download link for the rendered
// file.
type ExportTimetableResponse struct {
	Format    string    `json:"format"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}
