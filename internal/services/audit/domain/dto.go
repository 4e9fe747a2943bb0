// Package domain holds DTOs for draw audit events and their rollups
package domain

import "time"

// Draw outcomes recorded per event
const (
	OutcomeOK         = "ok"
	OutcomeInvalid    = "invalid"
	OutcomeConflict   = "conflict"
	OutcomeInfeasible = "infeasible"
	OutcomeError      = "error"
)

// DrawEvent is one draw attempt against a drawing
type DrawEvent struct {
	DrawingID    string
	Participants int
	Restrictions int
	Fixations    int
	Attempts     int
	Strategy     string
	Outcome      string
	Duration     time.Duration
	At           time.Time
}

// SummaryInput scopes the summary window
type SummaryInput struct {
	Days int `json:"days,omitempty" validate:"omitempty,min=1,max=365" example:"30"`
}

// OutcomeCount aggregates draws sharing an outcome
type OutcomeCount struct {
	Outcome       string  `json:"outcome" example:"ok"`
	Draws         uint64  `json:"draws" example:"42"`
	AvgAttempts   float64 `json:"avg_attempts" example:"1.7"`
	AvgDurationMS float64 `json:"avg_duration_ms" example:"0.4"`
}

// Summary is the audit rollup returned to callers
type Summary struct {
	Enabled  bool           `json:"enabled"`
	Days     int            `json:"days"`
	Outcomes []OutcomeCount `json:"outcomes"`
}
