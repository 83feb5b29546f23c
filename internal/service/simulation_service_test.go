package service

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smarttimetable/timetable-ace-api/internal/models"
)

func sampleDataset() models.Dataset {
	return models.Dataset{
		Students: []models.Student{
			{ID: "s1", Name: "Asha", Program: "B.Sc. Computer Science", Year: 3, ElectiveChoices: []string{"MU102", "PH201"}},
			{ID: "s2", Name: "Bilal", Program: "B.Sc. Computer Science", Year: 3, ElectiveChoices: []string{"CS301"}},
			{ID: "s3", Name: "Chitra", Program: "B.A. Economics", Year: 2, ElectiveChoices: []string{"EC210", "MU102"}},
		},
		Faculty: []models.Faculty{
			{ID: "f1", Name: "Dr. Iyer", Department: "Computer Science", Workload: 16},
			{ID: "f2", Name: "Prof. Rao", Department: "Economics", Workload: 12},
			{ID: "f3", Name: "Dr. Iyer", Department: "Mathematics", Workload: 10},
		},
		Courses: []models.Course{
			{ID: "c1", Code: "CS301", Name: "Algorithms", Credits: 4, Type: models.CourseTypeCore},
			{ID: "c2", Code: "MU102", Name: "Music Appreciation", Credits: 2, Type: models.CourseTypeElective},
		},
		Rooms: []models.Room{
			{ID: "r1", Name: "Room 101", Capacity: 60, Type: "Lecture Hall"},
			{ID: "r2", Name: "Lab 1", Capacity: 30, Type: "Lab"},
		},
	}
}

func TestApplyScenarioEmptyScenarioReturnsEqualCopy(t *testing.T) {
	svc := NewSimulationService(nil)
	dataset := sampleDataset()

	out := svc.ApplyScenario(dataset, models.Scenario{})

	assert.Equal(t, dataset, out)

	// Mutating the copy must not touch the canonical data.
	out.Students[0].ElectiveChoices[0] = "XX999"
	out.Faculty[0].Workload = 99
	assert.Equal(t, "MU102", dataset.Students[0].ElectiveChoices[0])
	assert.Equal(t, 16, dataset.Faculty[0].Workload)
}

func TestApplyScenarioFacultyLeavePreservesOrder(t *testing.T) {
	svc := NewSimulationService(nil)
	dataset := sampleDataset()

	out := svc.ApplyScenario(dataset, models.Scenario{FacultyOnLeave: []string{"f2"}})

	require.Len(t, out.Faculty, 2)
	assert.Equal(t, "f1", out.Faculty[0].ID)
	assert.Equal(t, "f3", out.Faculty[1].ID)
	assert.Len(t, dataset.Faculty, 3)
}

func TestApplyScenarioRoomFilter(t *testing.T) {
	svc := NewSimulationService(nil)
	out := svc.ApplyScenario(sampleDataset(), models.Scenario{UnavailableRooms: []string{"r1"}})

	require.Len(t, out.Rooms, 1)
	assert.Equal(t, "Lab 1", out.Rooms[0].Name)
}

func TestApplyScenarioWorkloadOverrideMatchesEveryName(t *testing.T) {
	svc := NewSimulationService(nil)
	out := svc.ApplyScenario(sampleDataset(), models.Scenario{
		WorkloadForecast: models.WorkloadForecast{FacultyName: "Dr. Iyer", NewWorkload: 20},
	})

	assert.Equal(t, 20, out.Faculty[0].Workload)
	assert.Equal(t, 12, out.Faculty[1].Workload)
	assert.Equal(t, 20, out.Faculty[2].Workload)
}

func TestApplyScenarioWorkloadOverrideUnknownNameIsNoop(t *testing.T) {
	svc := NewSimulationService(nil)
	dataset := sampleDataset()
	out := svc.ApplyScenario(dataset, models.Scenario{
		WorkloadForecast: models.WorkloadForecast{FacultyName: "Dr. Nobody", NewWorkload: 40},
	})
	assert.Equal(t, dataset.Faculty, out.Faculty)
}

func TestApplyScenarioWorkloadOverrideAfterLeaveFilter(t *testing.T) {
	svc := NewSimulationService(nil)
	out := svc.ApplyScenario(sampleDataset(), models.Scenario{
		FacultyOnLeave:   []string{"f1"},
		WorkloadForecast: models.WorkloadForecast{FacultyName: "Dr. Iyer", NewWorkload: 20},
	})

	require.Len(t, out.Faculty, 2)
	assert.Equal(t, "f2", out.Faculty[0].ID)
	assert.Equal(t, 20, out.Faculty[1].Workload)
}

func TestApplyScenarioElectiveBoostFloorOfCanonicalTotal(t *testing.T) {
	dataset := models.Dataset{
		Courses: []models.Course{{ID: "c1", Code: "MU102", Name: "Music Appreciation", Type: models.CourseTypeElective}},
	}
	for i := 0; i < 100; i++ {
		dataset.Students = append(dataset.Students, models.Student{
			ID:              fmt.Sprintf("s%d", i),
			Name:            fmt.Sprintf("Student %d", i),
			ElectiveChoices: []string{"PH201", "EC210"},
		})
	}

	svc := NewSimulationService(nil)
	out := svc.ApplyScenario(dataset, models.Scenario{
		ElectiveDemand: models.ElectiveDemand{CourseID: "c1", IncreasePct: 20},
	})

	converted := 0
	for _, st := range out.Students {
		if containsCode(st.ElectiveChoices, "MU102") {
			converted++
			// The last elective is replaced, not appended.
			assert.Equal(t, []string{"PH201", "MU102"}, []string(st.ElectiveChoices))
		}
	}
	assert.Equal(t, 20, converted)
}

func TestApplyScenarioElectiveBoostSmallPool(t *testing.T) {
	dataset := models.Dataset{
		Students: []models.Student{
			{ID: "s1", ElectiveChoices: []string{"MU102"}},
			{ID: "s2", ElectiveChoices: []string{"MU102"}},
			{ID: "s3", ElectiveChoices: []string{"PH201"}},
			{ID: "s4", ElectiveChoices: []string{"MU102"}},
		},
		Courses: []models.Course{{ID: "c1", Code: "MU102", Type: models.CourseTypeElective}},
	}

	svc := NewSimulationService(nil)
	out := svc.ApplyScenario(dataset, models.Scenario{
		ElectiveDemand: models.ElectiveDemand{CourseID: "c1", IncreasePct: 50},
	})

	// Two conversions requested but only one student lacks the course.
	converted := 0
	for _, st := range out.Students {
		if containsCode(st.ElectiveChoices, "MU102") {
			converted++
		}
	}
	assert.Equal(t, 4, converted)
}

func TestApplyScenarioElectiveBoostUnknownCourse(t *testing.T) {
	dataset := sampleDataset()
	svc := NewSimulationService(nil)
	out := svc.ApplyScenario(dataset, models.Scenario{
		ElectiveDemand: models.ElectiveDemand{CourseID: "missing", IncreasePct: 50},
	})
	assert.Equal(t, dataset.Students, out.Students)
}

func TestApplyScenarioElectiveBoostHandlesEmptyChoices(t *testing.T) {
	dataset := models.Dataset{
		Students: []models.Student{{ID: "s1", ElectiveChoices: []string{}}},
		Courses:  []models.Course{{ID: "c1", Code: "MU102", Type: models.CourseTypeElective}},
	}
	svc := NewSimulationService(nil)
	out := svc.ApplyScenario(dataset, models.Scenario{
		ElectiveDemand: models.ElectiveDemand{CourseID: "c1", IncreasePct: 100},
	})
	assert.Equal(t, []string{"MU102"}, []string(out.Students[0].ElectiveChoices))
}

func TestScenarioIsActive(t *testing.T) {
	assert.False(t, models.Scenario{}.IsActive())
	assert.True(t, models.Scenario{FacultyOnLeave: []string{"f1"}}.IsActive())
	assert.True(t, models.Scenario{UnavailableRooms: []string{"r1"}}.IsActive())
	assert.True(t, models.Scenario{ElectiveDemand: models.ElectiveDemand{CourseID: "c1", IncreasePct: 10}}.IsActive())
	assert.True(t, models.Scenario{WorkloadForecast: models.WorkloadForecast{FacultyName: "Dr. Iyer", NewWorkload: 18}}.IsActive())
}
