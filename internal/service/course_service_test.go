package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smarttimetable/timetable-ace-api/internal/dto"
	"github.com/smarttimetable/timetable-ace-api/internal/models"
	appErrors "github.com/smarttimetable/timetable-ace-api/pkg/errors"
)

type fakeCourseRepo struct {
	courses []models.Course
	created *models.Course
	updated *models.Course
}

func (f *fakeCourseRepo) List(_ context.Context, filter models.CourseFilter) ([]models.Course, int, error) {
	return f.courses, len(f.courses), nil
}

func (f *fakeCourseRepo) FindByID(_ context.Context, id string) (*models.Course, error) {
	for i := range f.courses {
		if f.courses[i].ID == id {
			course := f.courses[i]
			return &course, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeCourseRepo) ExistsByCode(_ context.Context, code, excludeID string) (bool, error) {
	for _, course := range f.courses {
		if course.Code == code && course.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeCourseRepo) Create(_ context.Context, course *models.Course) error {
	course.ID = "crs-new"
	f.created = course
	return nil
}

func (f *fakeCourseRepo) Update(_ context.Context, course *models.Course) error {
	f.updated = course
	return nil
}

func (f *fakeCourseRepo) Delete(_ context.Context, id string) error { return nil }

func TestCourseServiceCreate(t *testing.T) {
	repo := &fakeCourseRepo{}
	svc := NewCourseService(repo, nil, nil, nil, nil)

	course, err := svc.Create(context.Background(), "user-1", dto.CreateCourseRequest{
		Code: "CS301", Name: "Algorithms", Credits: 4, Type: "CORE",
	})
	require.NoError(t, err)
	assert.Equal(t, "crs-new", course.ID)
	assert.Equal(t, models.CourseTypeCore, course.Type)
}

func TestCourseServiceCreateDuplicateCode(t *testing.T) {
	repo := &fakeCourseRepo{courses: []models.Course{{ID: "crs-1", Code: "CS301", Name: "Algorithms", Credits: 4, Type: models.CourseTypeCore}}}
	svc := NewCourseService(repo, nil, nil, nil, nil)

	_, err := svc.Create(context.Background(), "user-1", dto.CreateCourseRequest{
		Code: "CS301", Name: "Algorithms II", Credits: 4, Type: "CORE",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Equal(t, "course code already used", appErr.Message)
}

func TestCourseServiceUpdateAllowsOwnCode(t *testing.T) {
	repo := &fakeCourseRepo{courses: []models.Course{{ID: "crs-1", Code: "CS301", Name: "Algorithms", Credits: 4, Type: models.CourseTypeCore}}}
	svc := NewCourseService(repo, nil, nil, nil, nil)

	course, err := svc.Update(context.Background(), "user-1", "crs-1", dto.UpdateCourseRequest{
		Code: "CS301", Name: "Advanced Algorithms", Credits: 5, Type: "CORE",
	})
	require.NoError(t, err)
	assert.Equal(t, "Advanced Algorithms", course.Name)
	assert.Equal(t, 5, repo.updated.Credits)
}

func TestCourseServiceCreateRejectsUnknownType(t *testing.T) {
	svc := NewCourseService(&fakeCourseRepo{}, nil, nil, nil, nil)

	_, err := svc.Create(context.Background(), "user-1", dto.CreateCourseRequest{
		Code: "XX100", Name: "Mystery", Credits: 2, Type: "SEMINAR",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
