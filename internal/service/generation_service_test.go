package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smarttimetable/timetable-ace-api/internal/dto"
	"github.com/smarttimetable/timetable-ace-api/internal/models"
	"github.com/smarttimetable/timetable-ace-api/internal/scheduler"
	appErrors "github.com/smarttimetable/timetable-ace-api/pkg/errors"
)

type fakeStudentSource struct{ students []models.Student }

func (f *fakeStudentSource) ListAll(context.Context) ([]models.Student, error) {
	return f.students, nil
}

type fakeFacultySource struct{ faculty []models.Faculty }

func (f *fakeFacultySource) ListAll(context.Context) ([]models.Faculty, error) {
	return f.faculty, nil
}

type fakeCourseSource struct{ courses []models.Course }

func (f *fakeCourseSource) ListAll(context.Context) ([]models.Course, error) {
	return f.courses, nil
}

type fakeRoomSource struct{ rooms []models.Room }

func (f *fakeRoomSource) ListAll(context.Context) ([]models.Room, error) {
	return f.rooms, nil
}

type fakeConstraintsSource struct{ constraints models.Constraints }

func (f *fakeConstraintsSource) Get(context.Context) (models.Constraints, error) {
	return f.constraints, nil
}

type fakeResultStore struct {
	inserted  *models.GenerationResult
	latest    *models.GenerationResult
	latestErr error
	cleared   bool
}

func (f *fakeResultStore) Insert(_ context.Context, result *models.GenerationResult) error {
	if result.ID == "" {
		result.ID = "result-1"
	}
	f.inserted = result
	return nil
}

func (f *fakeResultStore) Latest(context.Context) (*models.GenerationResult, error) {
	if f.latestErr != nil {
		return nil, f.latestErr
	}
	return f.latest, nil
}

func (f *fakeResultStore) Clear(context.Context) error {
	f.cleared = true
	return nil
}

func successOutcome() *scheduler.GenerationOutcome {
	return &scheduler.GenerationOutcome{
		Timetable: []models.TimetableEntry{{
			Day: "Monday", TimeSlot: "09:00 - 10:00",
			CourseCode: "CS301", CourseName: "Algorithms",
			Faculty: "Dr. Iyer", Room: "Room 101",
		}},
		Conflicts: []models.Conflict{},
		Report:    "dense schedule",
	}
}

func newGenerationService(engine scheduler.Engine, store *fakeResultStore) *GenerationService {
	svc := NewGenerationService(
		&fakeStudentSource{students: sampleDataset().Students},
		&fakeFacultySource{faculty: sampleDataset().Faculty},
		&fakeCourseSource{courses: sampleDataset().Courses},
		&fakeRoomSource{rooms: sampleDataset().Rooms},
		&fakeConstraintsSource{constraints: models.DefaultConstraints()},
		store,
		NewSimulationService(nil),
		engine,
		nil,
		nil,
		nil,
		nil,
	)
	svc.now = func() time.Time { return time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC) }
	return svc
}

func TestGenerateSuccessPersistsResult(t *testing.T) {
	engine := &scheduler.StaticEngine{Outcome: successOutcome()}
	store := &fakeResultStore{}
	svc := newGenerationService(engine, store)

	resp, err := svc.Generate(context.Background(), "user-1", dto.GenerateTimetableRequest{})
	require.NoError(t, err)

	assert.Equal(t, "The system has created a new timetable schedule.", resp.Message)
	require.NotNil(t, store.inserted)
	assert.False(t, store.inserted.Simulated)
	assert.Equal(t, "user-1", store.inserted.GeneratedBy)
	assert.Equal(t, 1, engine.Calls)
}

func TestGenerateSimulatedMessageAndFlag(t *testing.T) {
	engine := &scheduler.StaticEngine{Outcome: successOutcome()}
	store := &fakeResultStore{}
	svc := newGenerationService(engine, store)

	resp, err := svc.Generate(context.Background(), "user-1", dto.GenerateTimetableRequest{
		Scenario: &models.Scenario{FacultyOnLeave: []string{"f2"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "Generated with temporary simulation settings.", resp.Message)
	assert.True(t, store.inserted.Simulated)
	assert.NotContains(t, engine.LastPayload.FacultyData, "Prof. Rao")
	assert.Contains(t, engine.LastPayload.FacultyData, "Dr. Iyer")
}

func TestGeneratePayloadCarriesCurrentDate(t *testing.T) {
	engine := &scheduler.StaticEngine{Outcome: successOutcome()}
	svc := newGenerationService(engine, &fakeResultStore{})

	_, err := svc.Generate(context.Background(), "user-1", dto.GenerateTimetableRequest{})
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(engine.LastPayload.Constraints), &doc))
	assert.Equal(t, "2026-03-02T09:00:00Z", doc["currentDate"])
	// The document is pretty-printed for the model.
	assert.Contains(t, engine.LastPayload.Constraints, "\n  \"currentDate\"")
}

func TestGenerateEmptyTimetableUsesReportAsMessage(t *testing.T) {
	engine := &scheduler.StaticEngine{Outcome: &scheduler.GenerationOutcome{
		Timetable: []models.TimetableEntry{},
		Conflicts: []models.Conflict{},
		Report:    "Faculty availability contradicts every room assignment.",
	}}
	store := &fakeResultStore{}
	svc := newGenerationService(engine, store)

	_, err := svc.Generate(context.Background(), "user-1", dto.GenerateTimetableRequest{})
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrEmptySchedule.Code, appErr.Code)
	assert.Equal(t, "Faculty availability contradicts every room assignment.", appErr.Message)
	assert.Nil(t, store.inserted)
}

func TestGenerateEmptyTimetableWithoutReport(t *testing.T) {
	engine := &scheduler.StaticEngine{Outcome: &scheduler.GenerationOutcome{
		Timetable: []models.TimetableEntry{},
		Conflicts: []models.Conflict{},
	}}
	svc := newGenerationService(engine, &fakeResultStore{})

	_, err := svc.Generate(context.Background(), "user-1", dto.GenerateTimetableRequest{})
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "AI failed to generate a schedule. The returned timetable was empty and no report was provided.", appErr.Message)
}

func TestGenerateEngineFailure(t *testing.T) {
	engine := &scheduler.StaticEngine{Err: fmt.Errorf("engine request failed with status 500")}
	store := &fakeResultStore{}
	svc := newGenerationService(engine, store)

	_, err := svc.Generate(context.Background(), "user-1", dto.GenerateTimetableRequest{})
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrUpstream.Code, appErr.Code)
	assert.True(t, strings.HasPrefix(appErr.Message, "AI Generation Failed: "))
	assert.Nil(t, store.inserted)
}

func TestGenerateRejectsConcurrentRun(t *testing.T) {
	svc := newGenerationService(&scheduler.StaticEngine{Outcome: successOutcome()}, &fakeResultStore{})
	svc.inFlight.Store(true)

	_, err := svc.Generate(context.Background(), "user-1", dto.GenerateTimetableRequest{})
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)

	// The slot is released after a finished run, not by a rejected one.
	svc.inFlight.Store(false)
	_, err = svc.Generate(context.Background(), "user-1", dto.GenerateTimetableRequest{})
	require.NoError(t, err)
	assert.False(t, svc.inFlight.Load())
}

func TestLatestAdminSeesCleanSlate(t *testing.T) {
	store := &fakeResultStore{latest: &models.GenerationResult{ID: "result-1"}}
	svc := newGenerationService(&scheduler.StaticEngine{}, store)

	resp, err := svc.Latest(context.Background(), models.RoleAdmin)
	require.NoError(t, err)
	assert.Nil(t, resp.Result)
}

func TestLatestFacultySeesStoredResult(t *testing.T) {
	stored := &models.GenerationResult{
		ID:        "result-1",
		Timetable: successOutcome().Timetable,
		Report:    "dense schedule",
	}
	store := &fakeResultStore{latest: stored}
	svc := newGenerationService(&scheduler.StaticEngine{}, store)

	resp, err := svc.Latest(context.Background(), models.RoleFaculty)
	require.NoError(t, err)
	require.NotNil(t, resp.Result)
	assert.Equal(t, "result-1", resp.Result.ID)
}

func TestLatestWithoutStoredResult(t *testing.T) {
	store := &fakeResultStore{latestErr: sql.ErrNoRows}
	svc := newGenerationService(&scheduler.StaticEngine{}, store)

	resp, err := svc.Latest(context.Background(), models.RoleStudent)
	require.NoError(t, err)
	assert.Nil(t, resp.Result)
}

func TestClearSupersedesStoredResult(t *testing.T) {
	store := &fakeResultStore{}
	svc := newGenerationService(&scheduler.StaticEngine{}, store)

	require.NoError(t, svc.Clear(context.Background(), "user-1"))
	assert.True(t, store.cleared)
}
