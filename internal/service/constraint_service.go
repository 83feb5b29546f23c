package service

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/smarttimetable/timetable-ace-api/internal/models"
	appErrors "github.com/smarttimetable/timetable-ace-api/pkg/errors"
)

type constraintsRepository interface {
	Get(ctx context.Context) (models.Constraints, error)
	Save(ctx context.Context, constraints models.Constraints) error
}

// ConstraintService manages the single persisted scheduling configuration.
type ConstraintService struct {
	repo   constraintsRepository
	cache  *CacheService
	audit  *AuditService
	logger *zap.Logger
}

// NewConstraintService constructs the constraint service.
func NewConstraintService(repo constraintsRepository, cache *CacheService, audit *AuditService, logger *zap.Logger) *ConstraintService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConstraintService{repo: repo, cache: cache, audit: audit, logger: logger}
}

// Get returns the stored configuration, or the defaults when nothing has been
// saved yet.
func (s *ConstraintService) Get(ctx context.Context) (models.Constraints, error) {
	constraints, err := s.repo.Get(ctx)
	if err != nil {
		return models.Constraints{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load constraints")
	}
	return constraints, nil
}

// Update replaces the stored configuration after validating it.
func (s *ConstraintService) Update(ctx context.Context, userID string, constraints models.Constraints) (models.Constraints, error) {
	if err := validateConstraints(&constraints); err != nil {
		return models.Constraints{}, err
	}
	if err := s.repo.Save(ctx, constraints); err != nil {
		return models.Constraints{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save constraints")
	}
	if s.cache.Enabled() {
		_ = s.cache.Invalidate(ctx, dashboardCachePattern)
	}
	s.audit.Record(models.AuditLog{
		UserID:   &userID,
		Action:   models.AuditActionConstraintsUpdate,
		Resource: "constraints",
	})
	return constraints, nil
}

// validateConstraints normalizes the opaque buckets and checks the
// program-specific blocks for internal consistency.
func validateConstraints(c *models.Constraints) error {
	c.Faculty = normalizeBucket(c.Faculty)
	c.Room = normalizeBucket(c.Room)
	c.Course = normalizeBucket(c.Course)
	if !json.Valid(c.Faculty) || !json.Valid(c.Room) || !json.Valid(c.Course) {
		return appErrors.Clone(appErrors.ErrValidation, "constraint rules must be valid JSON documents")
	}

	tp := c.ProgramSpecific.TeachingPractice
	if tp.StartTime != "" && tp.EndTime != "" && tp.StartTime >= tp.EndTime {
		return appErrors.Clone(appErrors.ErrValidation, "teaching practice start time must be before end time")
	}

	fw := c.ProgramSpecific.FieldWork
	if fw.StartDate != nil && fw.EndDate != nil && fw.EndDate.Before(*fw.StartDate) {
		return appErrors.Clone(appErrors.ErrValidation, "field work end date must not be before start date")
	}
	if c.ProgramSpecific.FieldWork.ActivityType == "" {
		c.ProgramSpecific.FieldWork.ActivityType = "Internship"
	}
	return nil
}

func normalizeBucket(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return json.RawMessage("{}")
	}
	return raw
}
