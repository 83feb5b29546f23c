package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/smarttimetable/timetable-ace-api/internal/dto"
	"github.com/smarttimetable/timetable-ace-api/internal/models"
	"github.com/smarttimetable/timetable-ace-api/internal/scheduler"
	appErrors "github.com/smarttimetable/timetable-ace-api/pkg/errors"
)

const (
	latestTimetableCacheKey = "timetable:latest"
	dashboardCachePattern   = "dashboard:*"

	msgGenerated          = "The system has created a new timetable schedule."
	msgGeneratedSimulated = "Generated with temporary simulation settings."
	msgEmptyNoReport      = "AI failed to generate a schedule. The returned timetable was empty and no report was provided."
	msgEngineNilOutcome   = "AI model failed to return a valid response object."
)

type generationStudentSource interface {
	ListAll(ctx context.Context) ([]models.Student, error)
}

type generationFacultySource interface {
	ListAll(ctx context.Context) ([]models.Faculty, error)
}

type generationCourseSource interface {
	ListAll(ctx context.Context) ([]models.Course, error)
}

type generationRoomSource interface {
	ListAll(ctx context.Context) ([]models.Room, error)
}

type generationConstraintsSource interface {
	Get(ctx context.Context) (models.Constraints, error)
}

type generationResultStore interface {
	Insert(ctx context.Context, result *models.GenerationResult) error
	Latest(ctx context.Context) (*models.GenerationResult, error)
	Clear(ctx context.Context) error
}

// GenerationService orchestrates timetable generation: it assembles the
// institution snapshot, applies the transient scenario, calls the engine and
// persists the outcome. At most one run is in flight at a time.
type GenerationService struct {
	students    generationStudentSource
	faculty     generationFacultySource
	courses     generationCourseSource
	rooms       generationRoomSource
	constraints generationConstraintsSource
	results     generationResultStore
	simulation  *SimulationService
	engine      scheduler.Engine
	cache       *CacheService
	audit       *AuditService
	metrics     *MetricsService
	logger      *zap.Logger

	inFlight atomic.Bool
	now      func() time.Time
}

// NewGenerationService wires generation dependencies.
func NewGenerationService(
	students generationStudentSource,
	faculty generationFacultySource,
	courses generationCourseSource,
	rooms generationRoomSource,
	constraints generationConstraintsSource,
	results generationResultStore,
	simulation *SimulationService,
	engine scheduler.Engine,
	cache *CacheService,
	audit *AuditService,
	metrics *MetricsService,
	logger *zap.Logger,
) *GenerationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if simulation == nil {
		simulation = NewSimulationService(logger)
	}
	return &GenerationService{
		students:    students,
		faculty:     faculty,
		courses:     courses,
		rooms:       rooms,
		constraints: constraints,
		results:     results,
		simulation:  simulation,
		engine:      engine,
		cache:       cache,
		audit:       audit,
		metrics:     metrics,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Generate runs one generation attempt for the calling admin. An active
// scenario reshapes the dataset for this run only; the canonical records are
// untouched. A run whose timetable comes back empty is not persisted.
func (s *GenerationService) Generate(ctx context.Context, userID string, req dto.GenerateTimetableRequest) (*dto.GenerateTimetableResponse, error) {
	if !s.inFlight.CompareAndSwap(false, true) {
		return nil, appErrors.Clone(appErrors.ErrConflict, "a timetable generation is already in progress")
	}
	defer s.inFlight.Store(false)

	start := s.now()

	dataset, err := s.loadDataset(ctx)
	if err != nil {
		return nil, err
	}

	scenario := models.Scenario{}
	if req.Scenario != nil {
		scenario = *req.Scenario
	}
	simulated := scenario.IsActive()
	if simulated {
		*dataset = s.simulation.ApplyScenario(*dataset, scenario)
	}

	constraints, err := s.constraints.Get(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load scheduling constraints")
	}

	payload, err := buildEnginePayload(*dataset, constraints, start)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to serialize generation payload")
	}

	outcome, err := s.engine.Generate(ctx, payload)
	if err != nil {
		s.observeGeneration(GenerationOutcomeError, start)
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "AI Generation Failed: "+err.Error())
	}
	if outcome == nil {
		s.observeGeneration(GenerationOutcomeError, start)
		return nil, appErrors.Clone(appErrors.ErrUpstream, msgEngineNilOutcome)
	}

	if len(outcome.Timetable) == 0 {
		s.observeGeneration(GenerationOutcomeEmpty, start)
		message := strings.TrimSpace(outcome.Report)
		if message == "" {
			message = msgEmptyNoReport
		}
		return nil, appErrors.Clone(appErrors.ErrEmptySchedule, message)
	}

	result := &models.GenerationResult{
		Timetable:   outcome.Timetable,
		Conflicts:   outcome.Conflicts,
		Report:      outcome.Report,
		Simulated:   simulated,
		GeneratedBy: userID,
		CreatedAt:   start,
	}
	if err := s.results.Insert(ctx, result); err != nil {
		s.observeGeneration(GenerationOutcomeError, start)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store generation result")
	}

	if s.cache.Enabled() {
		_ = s.cache.Set(ctx, latestTimetableCacheKey, result, 0)
		_ = s.cache.Invalidate(ctx, dashboardCachePattern)
	}

	s.audit.Record(models.AuditLog{
		UserID:     &userID,
		Action:     models.AuditActionGenerate,
		Resource:   "timetable",
		ResourceID: &result.ID,
		Details:    fmt.Sprintf(`{"entries":%d,"conflicts":%d,"simulated":%t}`, len(result.Timetable), len(result.Conflicts), simulated),
	})

	s.observeGeneration(GenerationOutcomeSuccess, start)
	s.logger.Info("timetable_generated",
		zap.String("result_id", result.ID),
		zap.Int("entries", len(result.Timetable)),
		zap.Int("conflicts", len(result.Conflicts)),
		zap.Bool("simulated", simulated),
		zap.Duration("duration", s.now().Sub(start)),
	)

	message := msgGenerated
	if simulated {
		message = msgGeneratedSimulated
	}
	return &dto.GenerateTimetableResponse{Result: result, Message: message}, nil
}

// Latest returns the stored timetable visible to the caller. Admins work from
// a clean slate each session and see no previous result; other roles read the
// persisted latest, cache first.
func (s *GenerationService) Latest(ctx context.Context, role models.UserRole) (*dto.LatestTimetableResponse, error) {
	if role == models.RoleAdmin {
		return &dto.LatestTimetableResponse{}, nil
	}

	var cached models.GenerationResult
	if hit, err := s.cache.Get(ctx, latestTimetableCacheKey, &cached); err == nil && hit && len(cached.Timetable) > 0 {
		return &dto.LatestTimetableResponse{Result: &cached}, nil
	}

	result, err := s.results.Latest(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &dto.LatestTimetableResponse{}, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load latest timetable")
	}

	if s.cache.Enabled() {
		_ = s.cache.Set(ctx, latestTimetableCacheKey, result, 0)
	}
	return &dto.LatestTimetableResponse{Result: result}, nil
}

// Clear supersedes the stored timetable for every role.
func (s *GenerationService) Clear(ctx context.Context, userID string) error {
	if err := s.results.Clear(ctx); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear timetable")
	}
	if s.cache.Enabled() {
		_ = s.cache.Invalidate(ctx, latestTimetableCacheKey)
		_ = s.cache.Invalidate(ctx, dashboardCachePattern)
	}
	s.audit.Record(models.AuditLog{
		UserID:   &userID,
		Action:   models.AuditActionClearResult,
		Resource: "timetable",
	})
	return nil
}

func (s *GenerationService) loadDataset(ctx context.Context) (*models.Dataset, error) {
	students, err := s.students.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load students")
	}
	faculty, err := s.faculty.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load faculty")
	}
	courses, err := s.courses.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load courses")
	}
	rooms, err := s.rooms.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load rooms")
	}
	return &models.Dataset{Students: students, Faculty: faculty, Courses: courses, Rooms: rooms}, nil
}

func (s *GenerationService) observeGeneration(outcome string, start time.Time) {
	s.metrics.RecordGeneration(outcome, s.now().Sub(start))
}

// buildEnginePayload serializes the dataset into independent JSON documents.
// The current date is injected into the constraints document so date-bound
// blocks like field work can be evaluated relative to the run.
func buildEnginePayload(dataset models.Dataset, constraints models.Constraints, now time.Time) (dto.EnginePayload, error) {
	studentData, err := marshalCollection(dataset.Students)
	if err != nil {
		return dto.EnginePayload{}, fmt.Errorf("encode students: %w", err)
	}
	facultyData, err := marshalCollection(dataset.Faculty)
	if err != nil {
		return dto.EnginePayload{}, fmt.Errorf("encode faculty: %w", err)
	}
	courseData, err := marshalCollection(dataset.Courses)
	if err != nil {
		return dto.EnginePayload{}, fmt.Errorf("encode courses: %w", err)
	}
	roomData, err := marshalCollection(dataset.Rooms)
	if err != nil {
		return dto.EnginePayload{}, fmt.Errorf("encode rooms: %w", err)
	}
	constraintDoc, err := marshalConstraints(constraints, now)
	if err != nil {
		return dto.EnginePayload{}, fmt.Errorf("encode constraints: %w", err)
	}
	return dto.EnginePayload{
		StudentData: studentData,
		FacultyData: facultyData,
		CourseData:  courseData,
		RoomData:    roomData,
		Constraints: constraintDoc,
	}, nil
}

func marshalCollection(v interface{}) (string, error) {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	doc := string(raw)
	if doc == "null" {
		doc = "[]"
	}
	return doc, nil
}

func marshalConstraints(constraints models.Constraints, now time.Time) (string, error) {
	raw, err := json.Marshal(constraints)
	if err != nil {
		return "", err
	}
	var doc map[string]interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return "", err
	}
	doc["currentDate"] = now.Format(time.RFC3339)
	pretty, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", err
	}
	return string(pretty), nil
}
