package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smarttimetable/timetable-ace-api/internal/models"
)

type countStub struct {
	count int
	err   error
	calls int
}

func (c *countStub) Count(context.Context) (int, error) {
	c.calls++
	return c.count, c.err
}

type constraintsStub struct{ constraints models.Constraints }

func (c constraintsStub) Get(context.Context) (models.Constraints, error) {
	return c.constraints, nil
}

type hasLatestStub struct{ has bool }

func (h hasLatestStub) HasLatest(context.Context) (bool, error) {
	return h.has, nil
}

func TestDashboardSummary(t *testing.T) {
	activeConstraints := models.DefaultConstraints()
	activeConstraints.ProgramSpecific.TeachingPractice = models.TeachingPracticeBlock{
		Program: "B.Ed.", Day: "Wednesday", StartTime: "09:00", EndTime: "12:00",
	}

	svc := NewDashboardService(DashboardServiceParams{
		Students:    &countStub{count: 120},
		Faculty:     &countStub{count: 18},
		Courses:     &countStub{count: 32},
		Rooms:       &countStub{count: 9},
		Constraints: constraintsStub{constraints: activeConstraints},
		Results:     hasLatestStub{has: true},
	})

	summary, cacheHit, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.False(t, cacheHit)
	assert.Equal(t, 120, summary.Students)
	assert.Equal(t, 18, summary.Faculty)
	assert.Equal(t, 32, summary.Courses)
	assert.Equal(t, 9, summary.Rooms)
	assert.True(t, summary.ProgramConstraintActive)
	assert.True(t, summary.HasStoredTimetable)
}

func TestDashboardSummaryInactiveConstraint(t *testing.T) {
	svc := NewDashboardService(DashboardServiceParams{
		Students:    &countStub{},
		Faculty:     &countStub{},
		Courses:     &countStub{},
		Rooms:       &countStub{},
		Constraints: constraintsStub{constraints: models.DefaultConstraints()},
		Results:     hasLatestStub{},
	})

	summary, _, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.False(t, summary.ProgramConstraintActive)
	assert.False(t, summary.HasStoredTimetable)
}
