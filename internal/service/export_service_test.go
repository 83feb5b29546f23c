package service

import (
	"context"
	"database/sql"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/smarttimetable/timetable-ace-api/internal/dto"
	"github.com/smarttimetable/timetable-ace-api/internal/models"
	appErrors "github.com/smarttimetable/timetable-ace-api/pkg/errors"
	"github.com/smarttimetable/timetable-ace-api/pkg/storage"
)

type latestStub struct {
	result *models.GenerationResult
	err    error
}

func (s latestStub) Latest(context.Context) (*models.GenerationResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func storedResult() *models.GenerationResult {
	return &models.GenerationResult{
		ID: "result-1",
		Timetable: []models.TimetableEntry{
			{Day: "Tuesday", TimeSlot: "10:00 - 11:00", CourseCode: "EC210", CourseName: "Microeconomics", Faculty: "Prof. Rao", Room: "Room 101"},
			{Day: "Monday", TimeSlot: "09:00 - 10:00", CourseCode: "CS301", CourseName: "Algorithms", Faculty: "Dr. Iyer", Room: "Lab 1"},
		},
		Report: "dense schedule",
	}
}

func newExportServiceForTest(t *testing.T, latest latestStub) (*ExportService, *storage.LocalStorage) {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("secret", time.Hour)
	cfg := ExportConfig{APIPrefix: "/api/v1", ResultTTL: time.Hour}
	svc := NewExportService(latest, store, signer, nil, cfg, nil, zap.NewNop())
	return svc, store
}

func TestExportServiceCSV(t *testing.T) {
	svc, store := newExportServiceForTest(t, latestStub{result: storedResult()})

	resp, err := svc.Export(context.Background(), "user-1", dto.ExportTimetableRequest{Format: "csv"})
	require.NoError(t, err)
	assert.Equal(t, "csv", resp.Format)
	require.Contains(t, resp.URL, "/api/v1/export/")

	token := resp.URL[strings.LastIndex(resp.URL, "/")+1:]
	resultID, relPath, _, err := svc.ParseToken(token, false)
	require.NoError(t, err)
	assert.Equal(t, "result-1", resultID)

	raw, err := os.ReadFile(store.Path(relPath))
	require.NoError(t, err)
	content := string(raw)
	assert.Contains(t, content, "Day,Time Slot,Course Code")
	// Monday sorts before Tuesday regardless of stored order.
	assert.Less(t, strings.Index(content, "CS301"), strings.Index(content, "EC210"))
}

func TestExportServicePDF(t *testing.T) {
	svc, store := newExportServiceForTest(t, latestStub{result: storedResult()})

	resp, err := svc.Export(context.Background(), "user-1", dto.ExportTimetableRequest{Format: "pdf"})
	require.NoError(t, err)
	assert.Equal(t, "pdf", resp.Format)

	token := resp.URL[strings.LastIndex(resp.URL, "/")+1:]
	_, relPath, _, err := svc.ParseToken(token, false)
	require.NoError(t, err)

	info, err := os.Stat(store.Path(relPath))
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestExportServiceRejectsUnknownFormat(t *testing.T) {
	svc, _ := newExportServiceForTest(t, latestStub{result: storedResult()})

	_, err := svc.Export(context.Background(), "user-1", dto.ExportTimetableRequest{Format: "xlsx"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestExportServiceNoTimetable(t *testing.T) {
	svc, _ := newExportServiceForTest(t, latestStub{err: sql.ErrNoRows})

	_, err := svc.Export(context.Background(), "user-1", dto.ExportTimetableRequest{Format: "csv"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
