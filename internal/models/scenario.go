package models

// ElectiveDemand forecasts a demand increase for one elective course.
type ElectiveDemand struct {
	CourseID    string `json:"courseId"`
	IncreasePct int    `json:"increasePct"`
}

// WorkloadForecast overrides the workload of faculty matched by name.
type WorkloadForecast struct {
	FacultyName string `json:"facultyName"`
	NewWorkload int    `json:"newWorkload"`
}

// Scenario captures transient what-if settings for a single generation run.
// It is never persisted; each request carries its own scenario.
type Scenario struct {
	FacultyOnLeave   []string         `json:"facultyOnLeave"`
	UnavailableRooms []string         `json:"unavailableRooms"`
	ElectiveDemand   ElectiveDemand   `json:"electiveDemand"`
	WorkloadForecast WorkloadForecast `json:"workloadForecast"`
}

// IsActive reports whether any of the four simulation knobs is set.
func (s Scenario) IsActive() bool {
	return len(s.FacultyOnLeave) > 0 ||
		len(s.UnavailableRooms) > 0 ||
		s.ElectiveDemand.CourseID != "" ||
		s.WorkloadForecast.FacultyName != ""
}
