package dto

// DashboardSummaryResponse backs the overview cards on the dashboard.
type DashboardSummaryResponse struct {
	Students                int  `json:"students"`
	Faculty                 int  `json:"faculty"`
	Courses                 int  `json:"courses"`
	Rooms                   int  `json:"rooms"`
	ProgramConstraintActive bool `json:"programConstraintActive"`
	HasStoredTimetable      bool `json:"hasStoredTimetable"`
}
