package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/smarttimetable/timetable-ace-api/internal/dto"
	"github.com/smarttimetable/timetable-ace-api/internal/models"
	appErrors "github.com/smarttimetable/timetable-ace-api/pkg/errors"
	"github.com/smarttimetable/timetable-ace-api/pkg/export"
	"github.com/smarttimetable/timetable-ace-api/pkg/storage"
)

type latestResultProvider interface {
	Latest(ctx context.Context) (*models.GenerationResult, error)
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportService renders the stored timetable into downloadable files served
// through short-lived signed URLs.
type ExportService struct {
	results   latestResultProvider
	storage   fileStorage
	csv       csvRenderer
	pdf       pdfRenderer
	signer    *storage.SignedURLSigner
	audit     *AuditService
	validator *validator.Validate
	logger    *zap.Logger
	cfg       ExportConfig
}

// NewExportService constructs an ExportService.
func NewExportService(results latestResultProvider, fileStore fileStorage, signer *storage.SignedURLSigner, audit *AuditService, cfg ExportConfig, validate *validator.Validate, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	return &ExportService{
		results:   results,
		storage:   fileStore,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		signer:    signer,
		audit:     audit,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
	}
}

// Export renders the latest timetable in the requested format and returns a
// signed download URL.
func (s *ExportService) Export(ctx context.Context, userID string, req dto.ExportTimetableRequest) (*dto.ExportTimetableResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid export payload")
	}

	result, err := s.results.Latest(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no timetable available to export")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load latest timetable")
	}

	dataset := timetableDataset(result.Timetable)
	var payload []byte
	switch req.Format {
	case "csv":
		payload, err = s.csv.Render(dataset)
	case "pdf":
		payload, err = s.pdf.Render(dataset, "Weekly Timetable")
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported format %s", req.Format))
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	filename := fmt.Sprintf("timetable_%s.%s", time.Now().UTC().Format("20060102_150405"), req.Format)
	relPath, err := s.storage.Save(filename, payload)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store export file")
	}

	token, expiresAt, err := s.signer.Generate(result.ID, relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download url")
	}

	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}

	s.audit.Record(models.AuditLog{
		UserID:     &userID,
		Action:     models.AuditActionExport,
		Resource:   "timetable",
		ResourceID: &result.ID,
		Details:    fmt.Sprintf(`{"format":%q}`, req.Format),
	})

	return &dto.ExportTimetableResponse{
		Format:    req.Format,
		URL:       fmt.Sprintf("%s/export/%s", prefix, token),
		ExpiresAt: expiresAt,
	}, nil
}

// ParseToken validates download token metadata.
func (s *ExportService) ParseToken(token string, allowExpired bool) (resultID, relPath string, expiresAt time.Time, err error) {
	return s.signer.Parse(token, allowExpired)
}

// Open returns a handle to the stored file.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	return s.storage.Open(relPath)
}

// Cleanup removes files older than ttl (defaults to configured ResultTTL when ttl <= 0).
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl)
}

// dayOrder fixes the week layout used in export files.
var dayOrder = map[string]int{
	"Monday":    1,
	"Tuesday":   2,
	"Wednesday": 3,
	"Thursday":  4,
	"Friday":    5,
	"Saturday":  6,
	"Sunday":    7,
}

func timetableDataset(entries []models.TimetableEntry) export.Dataset {
	sorted := make([]models.TimetableEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		if dayOrder[sorted[i].Day] != dayOrder[sorted[j].Day] {
			return dayOrder[sorted[i].Day] < dayOrder[sorted[j].Day]
		}
		return sorted[i].TimeSlot < sorted[j].TimeSlot
	})

	rows := make([]map[string]string, 0, len(sorted))
	for _, entry := range sorted {
		rows = append(rows, map[string]string{
			"Day":         entry.Day,
			"Time Slot":   entry.TimeSlot,
			"Course Code": entry.CourseCode,
			"Course Name": entry.CourseName,
			"Faculty":     entry.Faculty,
			"Room":        entry.Room,
			"Program":     entry.Program,
		})
	}
	return export.Dataset{
		Headers: []string{"Day", "Time Slot", "Course Code", "Course Name", "Faculty", "Room", "Program"},
		Rows:    rows,
	}
}
