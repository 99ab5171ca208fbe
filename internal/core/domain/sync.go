package domain

import "time"

// RunError is one item-level failure captured during a sync run. Failures
// are operational signals for whoever schedules the job; they never abort
// the run.
type RunError struct {
	SourceID string `json:"source_id,omitempty"`
	Stage    string `json:"stage"`
	Message  string `json:"message"`
}

// RunSummary is the outcome of one municipality's sync run.
type RunSummary struct {
	Municipality   Municipality `json:"municipality"`
	Success        bool         `json:"success"`
	ItemsListed    int          `json:"items_listed"`
	ItemsSkipped   int          `json:"items_skipped"`
	ItemsProcessed int          `json:"items_processed"`
	FlipsDetected  int          `json:"flips_detected"`
	Errors         []RunError   `json:"errors,omitempty"`
	Duration       float64      `json:"duration_seconds"`
	StartedAt      time.Time    `json:"started_at"`
}

// AddError appends an item-level failure to the summary.
func (s *RunSummary) AddError(sourceID, stage string, err error) {
	s.Errors = append(s.Errors, RunError{
		SourceID: sourceID,
		Stage:    stage,
		Message:  err.Error(),
	})
}
