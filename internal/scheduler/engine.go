package scheduler

import (
	"context"

	"github.com/smarttimetable/timetable-ace-api/internal/dto"
	"github.com/smarttimetable/timetable-ace-api/internal/models"
)

// GenerationOutcome is the structured answer of a generation engine. The
// fallback protocol allows an empty timetable together with a report that
// explains why scheduling was impossible.
type GenerationOutcome struct {
	Timetable []models.TimetableEntry `json:"timetable"`
	Conflicts []models.Conflict       `json:"conflicts"`
	Report    string                  `json:"report"`
}

// Engine produces a timetable from the serialized institution snapshot.
// One call per generation attempt; retry policy is the caller's concern and
// currently there is none.
type Engine interface {
	Generate(ctx context.Context, payload dto.EnginePayload) (*GenerationOutcome, error)
}

// StaticEngine returns a canned outcome. Used in tests.
type StaticEngine struct {
	Outcome     *GenerationOutcome
	Err         error
	Calls       int
	LastPayload dto.EnginePayload
}

// Generate records the payload and returns the configured outcome.
func (e *StaticEngine) Generate(_ context.Context, payload dto.EnginePayload) (*GenerationOutcome, error) {
	e.Calls++
	e.LastPayload = payload
	if e.Err != nil {
		return nil, e.Err
	}
	return e.Outcome, nil
}
