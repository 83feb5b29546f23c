package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smarttimetable/timetable-ace-api/internal/dto"
	"github.com/smarttimetable/timetable-ace-api/internal/models"
	appErrors "github.com/smarttimetable/timetable-ace-api/pkg/errors"
)

type fakeFacultyRepo struct {
	members []models.Faculty
	total   int
	created *models.Faculty
	updated *models.Faculty
}

func (f *fakeFacultyRepo) List(_ context.Context, filter models.FacultyFilter) ([]models.Faculty, int, error) {
	return f.members, f.total, nil
}

func (f *fakeFacultyRepo) FindByID(_ context.Context, id string) (*models.Faculty, error) {
	for i := range f.members {
		if f.members[i].ID == id {
			member := f.members[i]
			return &member, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeFacultyRepo) Create(_ context.Context, member *models.Faculty) error {
	member.ID = "fac-new"
	f.created = member
	return nil
}

func (f *fakeFacultyRepo) Update(_ context.Context, member *models.Faculty) error {
	f.updated = member
	return nil
}

func (f *fakeFacultyRepo) Delete(_ context.Context, id string) error { return nil }

func TestFacultyServiceCreateDefaultsAvailability(t *testing.T) {
	repo := &fakeFacultyRepo{}
	svc := NewFacultyService(repo, nil, nil, nil, nil)

	member, err := svc.Create(context.Background(), "user-1", dto.CreateFacultyRequest{
		Name: "Dr. Iyer", Department: "Computer Science", Workload: 16,
	})
	require.NoError(t, err)
	assert.Equal(t, "fac-new", member.ID)
	assert.Equal(t, "{}", string(repo.created.Availability))
}

func TestFacultyServiceCreateRejectsInvalidAvailability(t *testing.T) {
	svc := NewFacultyService(&fakeFacultyRepo{}, nil, nil, nil, nil)

	_, err := svc.Create(context.Background(), "user-1", dto.CreateFacultyRequest{
		Name: "Dr. Iyer", Department: "Computer Science", Workload: 16,
		Availability: json.RawMessage(`{"Monday": [`),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestFacultyServiceUpdateKeepsAvailability(t *testing.T) {
	repo := &fakeFacultyRepo{members: []models.Faculty{{
		ID: "fac-1", Name: "Dr. Iyer", Department: "Computer Science", Workload: 16,
		Availability: json.RawMessage(`{"Monday":["09:00-12:00"]}`),
	}}}
	svc := NewFacultyService(repo, nil, nil, nil, nil)

	member, err := svc.Update(context.Background(), "user-1", "fac-1", dto.UpdateFacultyRequest{
		Name: "Dr. Iyer", Department: "Computer Science", Workload: 12,
		Availability: json.RawMessage(`{"Friday":["14:00-16:00"]}`),
	})
	require.NoError(t, err)
	assert.Equal(t, 12, member.Workload)
	assert.JSONEq(t, `{"Friday":["14:00-16:00"]}`, string(repo.updated.Availability))
}

func TestFacultyServiceGetNotFound(t *testing.T) {
	svc := NewFacultyService(&fakeFacultyRepo{}, nil, nil, nil, nil)

	_, err := svc.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
