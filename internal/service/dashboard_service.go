package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/smarttimetable/timetable-ace-api/internal/dto"
	"github.com/smarttimetable/timetable-ace-api/internal/models"
	appErrors "github.com/smarttimetable/timetable-ace-api/pkg/errors"
)

const dashboardSummaryCacheKey = "dashboard:summary"

type entityCounter interface {
	Count(ctx context.Context) (int, error)
}

type constraintsProvider interface {
	Get(ctx context.Context) (models.Constraints, error)
}

type storedResultChecker interface {
	HasLatest(ctx context.Context) (bool, error)
}

// DashboardServiceConfig tunes dashboard behaviour.
type DashboardServiceConfig struct {
	CacheTTL time.Duration
}

// DashboardService composes the landing page summary: dataset counts, the
// program constraint indicator and whether a stored timetable exists.
type DashboardService struct {
	students    entityCounter
	faculty     entityCounter
	courses     entityCounter
	rooms       entityCounter
	constraints constraintsProvider
	results     storedResultChecker
	cache       *CacheService
	logger      *zap.Logger
	cfg         DashboardServiceConfig
}

// DashboardServiceParams groups constructor dependencies.
type DashboardServiceParams struct {
	Students    entityCounter
	Faculty     entityCounter
	Courses     entityCounter
	Rooms       entityCounter
	Constraints constraintsProvider
	Results     storedResultChecker
	Cache       *CacheService
	Logger      *zap.Logger
	Config      DashboardServiceConfig
}

// NewDashboardService constructs a DashboardService with sane defaults.
func NewDashboardService(params DashboardServiceParams) *DashboardService {
	cfg := params.Config
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		students:    params.Students,
		faculty:     params.Faculty,
		courses:     params.Courses,
		rooms:       params.Rooms,
		constraints: params.Constraints,
		results:     params.Results,
		cache:       params.Cache,
		logger:      logger,
		cfg:         cfg,
	}
}

// Summary returns the dashboard payload and indicates cache utilisation.
func (s *DashboardService) Summary(ctx context.Context) (*dto.DashboardSummaryResponse, bool, error) {
	if s.cache.Enabled() {
		var cached dto.DashboardSummaryResponse
		hit, err := s.cache.Get(ctx, dashboardSummaryCacheKey, &cached)
		if err == nil && hit {
			return &cached, true, nil
		}
	}

	summary, err := s.compose(ctx)
	if err != nil {
		return nil, false, err
	}

	if s.cache.Enabled() {
		if err := s.cache.Set(ctx, dashboardSummaryCacheKey, summary, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("dashboard cache write failed", zap.Error(err))
		}
	}
	return summary, false, nil
}

func (s *DashboardService) compose(ctx context.Context) (*dto.DashboardSummaryResponse, error) {
	students, err := s.students.Count(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count students")
	}
	faculty, err := s.faculty.Count(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count faculty")
	}
	courses, err := s.courses.Count(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count courses")
	}
	rooms, err := s.rooms.Count(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count rooms")
	}
	constraints, err := s.constraints.Get(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load constraints")
	}
	hasTimetable, err := s.results.HasLatest(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check stored timetable")
	}

	return &dto.DashboardSummaryResponse{
		Students:                students,
		Faculty:                 faculty,
		Courses:                 courses,
		Rooms:                   rooms,
		ProgramConstraintActive: constraints.HasActiveProgramBlock(),
		HasStoredTimetable:      hasTimetable,
	}, nil
}
