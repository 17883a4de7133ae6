package handler

import (
	"idrecon/internal/progress"
	"idrecon/internal/reconcile/models"
)

type StartResponse struct {
	JobID string `json:"job_id"`
}

// StatusResponse is the polling view of a job.
type StatusResponse struct {
	JobID      string                    `json:"job_id"`
	Processed  int                       `json:"processed"`
	Total      int                       `json:"total"`
	Percentage float64                   `json:"percentage"`
	Status     string                    `json:"status"`
	IsComplete bool                      `json:"is_complete"`
	Failed     bool                      `json:"failed"`
	Error      string                    `json:"error,omitempty"`
	Result     *models.ValidationSummary `json:"result,omitempty"`
}

func toStatusResponse(job *progress.Job) *StatusResponse {
	return &StatusResponse{
		JobID:      job.JobID,
		Processed:  job.Processed,
		Total:      job.Total,
		Percentage: job.Percentage(),
		Status:     job.Status,
		IsComplete: job.IsComplete,
		Failed:     job.Failed,
		Error:      job.Error,
		Result:     job.Result,
	}
}
