package models

import (
	"encoding/json"
	"time"
)

// TeachingPracticeBlock reserves a weekly time window for a program.
type TeachingPracticeBlock struct {
	Program   string `json:"program"`
	Day       string `json:"day"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// FieldWorkBlock reserves a date range for an off-campus activity.
type FieldWorkBlock struct {
	ActivityType string     `json:"activityType"`
	Program      string     `json:"program"`
	StartDate    *time.Time `json:"startDate,omitempty"`
	EndDate      *time.Time `json:"endDate,omitempty"`
}

// ProgramSpecificConstraints groups program-level scheduling blocks.
type ProgramSpecificConstraints struct {
	TeachingPractice TeachingPracticeBlock `json:"teachingPractice"`
	FieldWork        FieldWorkBlock        `json:"fieldWork"`
}

// Constraints is the single persisted scheduling configuration. The faculty,
// room and course buckets are opaque rule documents forwarded verbatim to the
// generation engine.
type Constraints struct {
	Faculty         json.RawMessage            `json:"faculty"`
	Room            json.RawMessage            `json:"room"`
	Course          json.RawMessage            `json:"course"`
	ProgramSpecific ProgramSpecificConstraints `json:"programSpecific"`
}

// DefaultConstraints returns the empty configuration used before any admin
// edits have been saved.
func DefaultConstraints() Constraints {
	return Constraints{
		Faculty: json.RawMessage("{}"),
		Room:    json.RawMessage("{}"),
		Course:  json.RawMessage("{}"),
		ProgramSpecific: ProgramSpecificConstraints{
			FieldWork: FieldWorkBlock{ActivityType: "Internship"},
		},
	}
}

// HasActiveProgramBlock reports whether a program-specific constraint is in
// effect: a teaching practice block needs a program and day, a field work
// block needs a program plus both dates.
func (c Constraints) HasActiveProgramBlock() bool {
	tp := c.ProgramSpecific.TeachingPractice
	if tp.Program != "" && tp.Day != "" {
		return true
	}
	fw := c.ProgramSpecific.FieldWork
	return fw.Program != "" && fw.StartDate != nil && fw.EndDate != nil
}
