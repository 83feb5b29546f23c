package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smarttimetable/timetable-ace-api/internal/models"
)

func newResultMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestResultRepositoryInsertSupersedesPrevious(t *testing.T) {
	db, mock, cleanup := newResultMock(t)
	defer cleanup()
	repo := NewResultRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE generation_results SET superseded = TRUE WHERE superseded = FALSE")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO generation_results").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), "dense schedule", true, "user-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	result := &models.GenerationResult{
		Timetable: []models.TimetableEntry{{
			Day: "Monday", TimeSlot: "09:00 - 10:00", CourseCode: "CS301", Faculty: "Dr. Iyer", Room: "Lab 1",
		}},
		Conflicts:   []models.Conflict{},
		Report:      "dense schedule",
		Simulated:   true,
		GeneratedBy: "user-1",
	}
	err := repo.Insert(context.Background(), result)
	require.NoError(t, err)
	assert.NotEmpty(t, result.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResultRepositoryLatest(t *testing.T) {
	db, mock, cleanup := newResultMock(t)
	defer cleanup()
	repo := NewResultRepository(db)

	rows := sqlmock.NewRows([]string{"id", "timetable", "conflicts", "report", "simulated", "generated_by", "created_at"}).
		AddRow("res-1", `[{"day":"Monday","timeSlot":"09:00 - 10:00","courseCode":"CS301","courseName":"Algorithms","faculty":"Dr. Iyer","room":"Lab 1"}]`, `[]`, "ok", false, "user-1", time.Now())
	mock.ExpectQuery("SELECT id, timetable, conflicts, report, simulated, generated_by, created_at").
		WillReturnRows(rows)

	result, err := repo.Latest(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Timetable, 1)
	assert.Equal(t, "CS301", result.Timetable[0].CourseCode)
	assert.Empty(t, result.Conflicts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResultRepositoryLatestNoRows(t *testing.T) {
	db, mock, cleanup := newResultMock(t)
	defer cleanup()
	repo := NewResultRepository(db)

	mock.ExpectQuery("SELECT id, timetable, conflicts, report, simulated, generated_by, created_at").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Latest(context.Background())
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResultRepositoryClear(t *testing.T) {
	db, mock, cleanup := newResultMock(t)
	defer cleanup()
	repo := NewResultRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE generation_results SET superseded = TRUE WHERE superseded = FALSE")).
		WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, repo.Clear(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
