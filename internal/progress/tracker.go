// Package progress records the state of asynchronous reconciliation jobs so
// that polling clients can observe liveness and fetch the final summary.
//
// Update, Complete and Fail on an unknown job are silent no-ops. Once a job is
// complete or failed, further Update calls are ignored so a late progress
// report cannot move a finished job backwards.
package progress

import (
	"context"
	"time"

	"idrecon/internal/reconcile/models"
)

const (
	StatusStarted   = "Started"
	StatusCompleted = "Completed"
	StatusFailed    = "Failed"
)

// Job is a snapshot of one job's progress.
type Job struct {
	JobID      string                    `json:"job_id"`
	Processed  int                       `json:"processed"`
	Total      int                       `json:"total"`
	Status     string                    `json:"status"`
	IsComplete bool                      `json:"is_complete"`
	Failed     bool                      `json:"failed"`
	Error      string                    `json:"error,omitempty"`
	Result     *models.ValidationSummary `json:"result,omitempty"`
	StartedAt  time.Time                 `json:"started_at"`
	UpdatedAt  time.Time                 `json:"updated_at"`
}

// Percentage is processed/total*100, or 0 when total is 0.
func (j *Job) Percentage() float64 {
	if j.Total == 0 {
		return 0
	}
	return float64(j.Processed) * 100 / float64(j.Total)
}

// Finished reports whether the job reached a terminal state.
func (j *Job) Finished() bool {
	return j.IsComplete || j.Failed
}

// Tracker is the job registry injected into the reconciliation service.
type Tracker interface {
	// Start initializes (or resets) the job state.
	Start(ctx context.Context, jobID string) error
	Update(ctx context.Context, jobID string, processed, total int, status string) error
	// Complete forces processed to total and attaches the summary.
	// Repeated calls overwrite.
	Complete(ctx context.Context, jobID string, result *models.ValidationSummary) error
	Fail(ctx context.Context, jobID string, message string) error
	// Get returns sentinel.ErrNotFound for unknown jobs.
	Get(ctx context.Context, jobID string) (*Job, error)
}

func applyUpdate(j *Job, processed, total int, status string, now time.Time) bool {
	if j.Finished() {
		return false
	}
	j.Processed = processed
	j.Total = total
	j.Status = status
	j.UpdatedAt = now
	return true
}

// applyComplete may overwrite an earlier completion but never a failure.
func applyComplete(j *Job, result *models.ValidationSummary, now time.Time) bool {
	if j.Failed {
		return false
	}
	j.Processed = j.Total
	j.IsComplete = true
	j.Failed = false
	j.Error = ""
	j.Status = StatusCompleted
	j.Result = result
	j.UpdatedAt = now
	return true
}

func applyFail(j *Job, message string, now time.Time) bool {
	if j.Finished() {
		return false
	}
	j.Failed = true
	j.Status = StatusFailed
	j.Error = message
	j.UpdatedAt = now
	return true
}
