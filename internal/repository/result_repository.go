package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/smarttimetable/timetable-ace-api/internal/models"
)

// ResultRepository stores generation results. The latest non-superseded row
// is the timetable visible to faculty and students.
type ResultRepository struct {
	db *sqlx.DB
}

// NewResultRepository constructs a ResultRepository.
func NewResultRepository(db *sqlx.DB) *ResultRepository {
	return &ResultRepository{db: db}
}

type resultRow struct {
	ID          string    `db:"id"`
	Timetable   []byte    `db:"timetable"`
	Conflicts   []byte    `db:"conflicts"`
	Report      string    `db:"report"`
	Simulated   bool      `db:"simulated"`
	GeneratedBy string    `db:"generated_by"`
	CreatedAt   time.Time `db:"created_at"`
}

func (row resultRow) toModel() (*models.GenerationResult, error) {
	result := &models.GenerationResult{
		ID:          row.ID,
		Report:      row.Report,
		Simulated:   row.Simulated,
		GeneratedBy: row.GeneratedBy,
		CreatedAt:   row.CreatedAt,
	}
	if err := json.Unmarshal(row.Timetable, &result.Timetable); err != nil {
		return nil, fmt.Errorf("decode timetable: %w", err)
	}
	if err := json.Unmarshal(row.Conflicts, &result.Conflicts); err != nil {
		return nil, fmt.Errorf("decode conflicts: %w", err)
	}
	return result, nil
}

// Insert stores a new generation result and supersedes earlier rows so the
// table always has a single visible latest entry.
func (r *ResultRepository) Insert(ctx context.Context, result *models.GenerationResult) error {
	if result.ID == "" {
		result.ID = uuid.NewString()
	}
	if result.CreatedAt.IsZero() {
		result.CreatedAt = time.Now().UTC()
	}

	timetable, err := json.Marshal(result.Timetable)
	if err != nil {
		return fmt.Errorf("encode timetable: %w", err)
	}
	conflicts, err := json.Marshal(result.Conflicts)
	if err != nil {
		return fmt.Errorf("encode conflicts: %w", err)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin result insert: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `UPDATE generation_results SET superseded = TRUE WHERE superseded = FALSE`); err != nil {
		return fmt.Errorf("supersede results: %w", err)
	}

	const query = `INSERT INTO generation_results (id, timetable, conflicts, report, simulated, generated_by, superseded, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, FALSE, $7)`
	if _, err := tx.ExecContext(ctx, query, result.ID, timetable, conflicts, result.Report, result.Simulated, result.GeneratedBy, result.CreatedAt); err != nil {
		return fmt.Errorf("insert result: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit result insert: %w", err)
	}
	return nil
}

// Latest returns the most recent non-superseded result, or sql.ErrNoRows.
func (r *ResultRepository) Latest(ctx context.Context) (*models.GenerationResult, error) {
	const query = `SELECT id, timetable, conflicts, report, simulated, generated_by, created_at
        FROM generation_results WHERE superseded = FALSE ORDER BY created_at DESC LIMIT 1`
	var row resultRow
	if err := r.db.GetContext(ctx, &row, query); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("latest result: %w", err)
	}
	return row.toModel()
}

// Clear supersedes every stored result.
func (r *ResultRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE generation_results SET superseded = TRUE WHERE superseded = FALSE`); err != nil {
		return fmt.Errorf("clear results: %w", err)
	}
	return nil
}

// HasLatest reports whether a visible result exists.
func (r *ResultRepository) HasLatest(ctx context.Context) (bool, error) {
	var exists int
	err := r.db.GetContext(ctx, &exists, `SELECT 1 FROM generation_results WHERE superseded = FALSE LIMIT 1`)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check latest result: %w", err)
	}
	return true, nil
}
