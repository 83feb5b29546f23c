package service

import (
	"go.uber.org/zap"

	"github.com/smarttimetable/timetable-ace-api/internal/models"
)

// SimulationService derives the what-if snapshot fed into a generation run.
// The canonical collections are never mutated: every transformation works on
// deep copies and the output lives only for the duration of one run.
type SimulationService struct {
	logger *zap.Logger
}

// NewSimulationService constructs the simulation service.
func NewSimulationService(logger *zap.Logger) *SimulationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SimulationService{logger: logger}
}

// ApplyScenario applies the four scenario knobs in order: faculty leave
// filter, room availability filter, workload override, elective demand boost.
// Each step is independent and optional; an empty scenario returns a copy
// equal to the input.
func (s *SimulationService) ApplyScenario(dataset models.Dataset, scenario models.Scenario) models.Dataset {
	simulated := models.Dataset{
		Students: copyStudents(dataset.Students),
		Faculty:  copyFaculty(dataset.Faculty),
		Courses:  copyCourses(dataset.Courses),
		Rooms:    copyRooms(dataset.Rooms),
	}

	if len(scenario.FacultyOnLeave) > 0 {
		onLeave := toSet(scenario.FacultyOnLeave)
		kept := simulated.Faculty[:0]
		for _, f := range simulated.Faculty {
			if !onLeave[f.ID] {
				kept = append(kept, f)
			}
		}
		simulated.Faculty = kept
	}

	if len(scenario.UnavailableRooms) > 0 {
		unavailable := toSet(scenario.UnavailableRooms)
		kept := simulated.Rooms[:0]
		for _, r := range simulated.Rooms {
			if !unavailable[r.ID] {
				kept = append(kept, r)
			}
		}
		simulated.Rooms = kept
	}

	// The override key is the faculty name. Every record with that name gets
	// the forecast workload; an unknown name is a no-op.
	if scenario.WorkloadForecast.FacultyName != "" {
		for i := range simulated.Faculty {
			if simulated.Faculty[i].Name == scenario.WorkloadForecast.FacultyName {
				simulated.Faculty[i].Workload = scenario.WorkloadForecast.NewWorkload
			}
		}
	}

	if scenario.ElectiveDemand.CourseID != "" && scenario.ElectiveDemand.IncreasePct > 0 {
		s.boostElectiveDemand(simulated, dataset, scenario.ElectiveDemand)
	}

	return simulated
}

// boostElectiveDemand converts students towards the boosted course. The
// conversion count is a floor percentage of the canonical student total, not
// of the remaining eligible pool; a shrunken pool converts only what it has.
func (s *SimulationService) boostElectiveDemand(simulated, canonical models.Dataset, demand models.ElectiveDemand) {
	var target *models.Course
	for i := range canonical.Courses {
		if canonical.Courses[i].ID == demand.CourseID {
			target = &canonical.Courses[i]
			break
		}
	}
	if target == nil {
		return
	}

	count := len(canonical.Students) * demand.IncreasePct / 100
	if count <= 0 {
		return
	}

	converted := 0
	for i := range simulated.Students {
		if converted >= count {
			break
		}
		if containsCode(simulated.Students[i].ElectiveChoices, target.Code) {
			continue
		}
		choices := simulated.Students[i].ElectiveChoices
		if len(choices) > 0 {
			choices = choices[:len(choices)-1]
		}
		simulated.Students[i].ElectiveChoices = append(choices, target.Code)
		converted++
	}

	s.logger.Debug("elective_demand_boost",
		zap.String("course_code", target.Code),
		zap.Int("requested", count),
		zap.Int("converted", converted),
	)
}

func copyStudents(in []models.Student) []models.Student {
	out := make([]models.Student, len(in))
	for i, st := range in {
		out[i] = st.Clone()
	}
	return out
}

func copyFaculty(in []models.Faculty) []models.Faculty {
	out := make([]models.Faculty, len(in))
	for i, f := range in {
		out[i] = f
		out[i].Availability = append([]byte(nil), f.Availability...)
	}
	return out
}

func copyCourses(in []models.Course) []models.Course {
	out := make([]models.Course, len(in))
	copy(out, in)
	return out
}

func copyRooms(in []models.Room) []models.Room {
	out := make([]models.Room, len(in))
	copy(out, in)
	return out
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func containsCode(choices []string, code string) bool {
	for _, c := range choices {
		if c == code {
			return true
		}
	}
	return false
}
