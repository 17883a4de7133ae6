// Package events publishes reconciliation job lifecycle events to Kafka.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"idrecon/internal/platform/kafka/producer"
	"idrecon/internal/reconcile/models"
)

const (
	TypeCompleted = "reconciliation.completed"
	TypeFailed    = "reconciliation.failed"
)

// Producer sends one message synchronously.
type Producer interface {
	Produce(ctx context.Context, msg *producer.Message) error
}

// JobEvent is the payload published when a job reaches a terminal state.
type JobEvent struct {
	Type                 string    `json:"type"`
	JobID                string    `json:"job_id"`
	TotalRecords         int       `json:"total_records"`
	ValidCount           int       `json:"valid_count"`
	DeceasedCount        int       `json:"deceased_count"`
	NotFoundCount        int       `json:"not_found_count"`
	SurnameMismatchCount int       `json:"surname_mismatch_count"`
	InvalidFormatCount   int       `json:"invalid_format_count"`
	ReportFileName       string    `json:"report_file_name,omitempty"`
	Error                string    `json:"error,omitempty"`
	OccurredAt           time.Time `json:"occurred_at"`
}

// Completed builds the event for a finished job.
func Completed(jobID string, s *models.ValidationSummary, at time.Time) JobEvent {
	return JobEvent{
		Type:                 TypeCompleted,
		JobID:                jobID,
		TotalRecords:         s.TotalRecords,
		ValidCount:           s.ValidCount,
		DeceasedCount:        s.DeceasedCount,
		NotFoundCount:        s.NotFoundCount,
		SurnameMismatchCount: s.SurnameMismatchCount,
		InvalidFormatCount:   s.InvalidFormatCount,
		ReportFileName:       s.ReportFileName,
		OccurredAt:           at,
	}
}

// Failed builds the event for a job that ended in error.
func Failed(jobID, message string, at time.Time) JobEvent {
	return JobEvent{Type: TypeFailed, JobID: jobID, Error: message, OccurredAt: at}
}

// Publisher writes job events to a single topic.
type Publisher struct {
	producer Producer
	topic    string
}

func NewPublisher(p Producer, topic string) *Publisher {
	return &Publisher{producer: p, topic: topic}
}

// Publish sends the event keyed by job ID.
func (p *Publisher) Publish(ctx context.Context, ev JobEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal job event: %w", err)
	}
	msg := &producer.Message{
		Topic: p.topic,
		Key:   []byte(ev.JobID),
		Value: payload,
		Headers: map[string]string{
			"event_type": ev.Type,
			"job_id":     ev.JobID,
		},
	}
	if err := p.producer.Produce(ctx, msg); err != nil {
		return fmt.Errorf("publish %s: %w", ev.Type, err)
	}
	return nil
}
