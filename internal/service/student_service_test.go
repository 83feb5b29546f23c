package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smarttimetable/timetable-ace-api/internal/dto"
	"github.com/smarttimetable/timetable-ace-api/internal/models"
	appErrors "github.com/smarttimetable/timetable-ace-api/pkg/errors"
)

type fakeStudentRepo struct {
	students   []models.Student
	total      int
	listFilter models.StudentFilter
	created    *models.Student
	updated    *models.Student
	deletedID  string
}

func (f *fakeStudentRepo) List(_ context.Context, filter models.StudentFilter) ([]models.Student, int, error) {
	f.listFilter = filter
	return f.students, f.total, nil
}

func (f *fakeStudentRepo) FindByID(_ context.Context, id string) (*models.Student, error) {
	for i := range f.students {
		if f.students[i].ID == id {
			st := f.students[i].Clone()
			return &st, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeStudentRepo) Create(_ context.Context, student *models.Student) error {
	student.ID = "st-new"
	f.created = student
	return nil
}

func (f *fakeStudentRepo) Update(_ context.Context, student *models.Student) error {
	f.updated = student
	return nil
}

func (f *fakeStudentRepo) Delete(_ context.Context, id string) error {
	f.deletedID = id
	return nil
}

func TestStudentServiceListPaginationDefaults(t *testing.T) {
	repo := &fakeStudentRepo{
		students: []models.Student{{ID: "st-1", Name: "Asha Verma", Program: "B.Sc. CS", Year: 3}},
		total:    41,
	}
	svc := NewStudentService(repo, nil, nil, nil, nil)

	students, pagination, err := svc.List(context.Background(), models.StudentFilter{})
	require.NoError(t, err)
	assert.Len(t, students, 1)
	assert.Equal(t, 1, pagination.Page)
	assert.Equal(t, 20, pagination.PageSize)
	assert.Equal(t, 41, pagination.TotalCount)
}

func TestStudentServiceGetNotFound(t *testing.T) {
	svc := NewStudentService(&fakeStudentRepo{}, nil, nil, nil, nil)

	_, err := svc.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestStudentServiceCreate(t *testing.T) {
	repo := &fakeStudentRepo{}
	svc := NewStudentService(repo, nil, nil, nil, nil)

	student, err := svc.Create(context.Background(), "user-1", dto.CreateStudentRequest{
		Name: "Asha Verma", Program: "B.Sc. CS", Year: 3, EnrolledCredits: 18,
		ElectiveChoices: []string{"MU102"},
	})
	require.NoError(t, err)
	assert.Equal(t, "st-new", student.ID)
	assert.Equal(t, pq.StringArray{"MU102"}, repo.created.ElectiveChoices)
}

func TestStudentServiceCreateNilElectivesStoredEmpty(t *testing.T) {
	repo := &fakeStudentRepo{}
	svc := NewStudentService(repo, nil, nil, nil, nil)

	_, err := svc.Create(context.Background(), "user-1", dto.CreateStudentRequest{
		Name: "Ravi Nair", Program: "BBA", Year: 1,
	})
	require.NoError(t, err)
	require.NotNil(t, repo.created.ElectiveChoices)
	assert.Empty(t, repo.created.ElectiveChoices)
}

func TestStudentServiceCreateValidation(t *testing.T) {
	svc := NewStudentService(&fakeStudentRepo{}, nil, nil, nil, nil)

	_, err := svc.Create(context.Background(), "user-1", dto.CreateStudentRequest{Name: "No Program"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestStudentServiceUpdate(t *testing.T) {
	repo := &fakeStudentRepo{
		students: []models.Student{{ID: "st-1", Name: "Asha Verma", Program: "B.Sc. CS", Year: 3, ElectiveChoices: pq.StringArray{"MU102"}}},
	}
	svc := NewStudentService(repo, nil, nil, nil, nil)

	student, err := svc.Update(context.Background(), "user-1", "st-1", dto.UpdateStudentRequest{
		Name: "Asha Verma", Program: "B.Sc. CS", Year: 4, ElectiveChoices: []string{"PH201"},
	})
	require.NoError(t, err)
	assert.Equal(t, 4, student.Year)
	assert.Equal(t, pq.StringArray{"PH201"}, repo.updated.ElectiveChoices)
}

func TestStudentServiceUpdateNotFound(t *testing.T) {
	svc := NewStudentService(&fakeStudentRepo{}, nil, nil, nil, nil)

	_, err := svc.Update(context.Background(), "user-1", "missing", dto.UpdateStudentRequest{
		Name: "Ghost", Program: "BBA", Year: 2,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestStudentServiceDelete(t *testing.T) {
	repo := &fakeStudentRepo{
		students: []models.Student{{ID: "st-1", Name: "Asha Verma", Program: "B.Sc. CS", Year: 3}},
	}
	svc := NewStudentService(repo, nil, nil, nil, nil)

	require.NoError(t, svc.Delete(context.Background(), "user-1", "st-1"))
	assert.Equal(t, "st-1", repo.deletedID)

	err := svc.Delete(context.Background(), "user-1", "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
