package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smarttimetable/timetable-ace-api/internal/models"
	appErrors "github.com/smarttimetable/timetable-ace-api/pkg/errors"
)

type fakeConstraintsRepo struct {
	stored models.Constraints
	saved  bool
}

func (f *fakeConstraintsRepo) Get(context.Context) (models.Constraints, error) {
	return f.stored, nil
}

func (f *fakeConstraintsRepo) Save(_ context.Context, constraints models.Constraints) error {
	f.stored = constraints
	f.saved = true
	return nil
}

func TestConstraintServiceUpdateRoundTrip(t *testing.T) {
	repo := &fakeConstraintsRepo{stored: models.DefaultConstraints()}
	svc := NewConstraintService(repo, nil, nil, nil)

	next := models.DefaultConstraints()
	next.ProgramSpecific.TeachingPractice = models.TeachingPracticeBlock{
		Program: "B.Ed.", Day: "Wednesday", StartTime: "09:00", EndTime: "12:00",
	}

	saved, err := svc.Update(context.Background(), "user-1", next)
	require.NoError(t, err)
	assert.True(t, repo.saved)
	assert.True(t, saved.HasActiveProgramBlock())

	got, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "B.Ed.", got.ProgramSpecific.TeachingPractice.Program)
}

func TestConstraintServiceRejectsInvertedTimes(t *testing.T) {
	repo := &fakeConstraintsRepo{}
	svc := NewConstraintService(repo, nil, nil, nil)

	bad := models.DefaultConstraints()
	bad.ProgramSpecific.TeachingPractice = models.TeachingPracticeBlock{
		Program: "B.Ed.", Day: "Monday", StartTime: "14:00", EndTime: "09:00",
	}

	_, err := svc.Update(context.Background(), "user-1", bad)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	assert.False(t, repo.saved)
}

func TestConstraintServiceRejectsInvertedDates(t *testing.T) {
	repo := &fakeConstraintsRepo{}
	svc := NewConstraintService(repo, nil, nil, nil)

	start := time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, -7)
	bad := models.DefaultConstraints()
	bad.ProgramSpecific.FieldWork = models.FieldWorkBlock{
		ActivityType: "Internship", Program: "BBA", StartDate: &start, EndDate: &end,
	}

	_, err := svc.Update(context.Background(), "user-1", bad)
	require.Error(t, err)
	assert.False(t, repo.saved)
}

func TestConstraintServiceNormalizesEmptyBuckets(t *testing.T) {
	repo := &fakeConstraintsRepo{}
	svc := NewConstraintService(repo, nil, nil, nil)

	saved, err := svc.Update(context.Background(), "user-1", models.Constraints{})
	require.NoError(t, err)
	assert.Equal(t, "{}", string(saved.Faculty))
	assert.Equal(t, "{}", string(saved.Room))
	assert.Equal(t, "{}", string(saved.Course))
	assert.Equal(t, "Internship", saved.ProgramSpecific.FieldWork.ActivityType)
}
