package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/smarttimetable/timetable-ace-api/internal/models"
)

// constraintsRowID pins the single persisted configuration row.
const constraintsRowID = 1

// ConstraintsRepository persists the scheduling constraints configuration as
// a single JSON document row.
type ConstraintsRepository struct {
	db *sqlx.DB
}

// NewConstraintsRepository constructs a ConstraintsRepository.
func NewConstraintsRepository(db *sqlx.DB) *ConstraintsRepository {
	return &ConstraintsRepository{db: db}
}

// Get returns the stored constraints, or the default configuration when no
// row has been saved yet.
func (r *ConstraintsRepository) Get(ctx context.Context) (models.Constraints, error) {
	var payload []byte
	err := r.db.GetContext(ctx, &payload, `SELECT payload FROM scheduling_constraints WHERE id = $1`, constraintsRowID)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.DefaultConstraints(), nil
		}
		return models.Constraints{}, fmt.Errorf("get constraints: %w", err)
	}

	var constraints models.Constraints
	if err := json.Unmarshal(payload, &constraints); err != nil {
		return models.Constraints{}, fmt.Errorf("decode constraints: %w", err)
	}
	return constraints, nil
}

// Save upserts the constraints configuration.
func (r *ConstraintsRepository) Save(ctx context.Context, constraints models.Constraints) error {
	payload, err := json.Marshal(constraints)
	if err != nil {
		return fmt.Errorf("encode constraints: %w", err)
	}
	const query = `INSERT INTO scheduling_constraints (id, payload, updated_at) VALUES ($1, $2, $3)
        ON CONFLICT (id) DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.ExecContext(ctx, query, constraintsRowID, payload, time.Now().UTC()); err != nil {
		return fmt.Errorf("save constraints: %w", err)
	}
	return nil
}
