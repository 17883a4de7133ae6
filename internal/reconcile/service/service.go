// Package service runs reconciliation passes as background jobs and tracks
// their progress for polling clients.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"idrecon/internal/platform/metrics"
	"idrecon/internal/progress"
	"idrecon/internal/reconcile/engine"
	"idrecon/internal/reconcile/events"
	"idrecon/internal/reconcile/models"
	"idrecon/internal/reconcile/report"
	dErrors "idrecon/pkg/domain-errors"
	"idrecon/pkg/platform/sentinel"
)

// previewLimit bounds the details kept on a tracked job.
const previewLimit = 100

// Runner executes one reconciliation pass.
type Runner interface {
	Run(ctx context.Context, progress engine.ProgressFunc) (*models.ValidationSummary, error)
}

// ReportWriter persists the full report of a pass.
type ReportWriter interface {
	Save(ctx context.Context, prefix string, header []string, rows [][]string) (string, error)
}

// EventPublisher announces finished jobs.
type EventPublisher interface {
	Publish(ctx context.Context, ev events.JobEvent) error
}

// Service starts, cancels and reports on reconciliation jobs.
type Service struct {
	runner  Runner
	tracker progress.Tracker
	reports ReportWriter
	events  EventPublisher
	logger  *slog.Logger
	metrics *metrics.Metrics
	clock   func() time.Time

	base       context.Context
	cancelBase context.CancelFunc

	mu      sync.Mutex
	running map[string]context.CancelFunc
	closed  bool
	wg      sync.WaitGroup
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithEvents publishes a lifecycle event when each job finishes.
func WithEvents(p EventPublisher) Option {
	return func(s *Service) {
		s.events = p
	}
}

func New(runner Runner, tracker progress.Tracker, reports ReportWriter, opts ...Option) *Service {
	base, cancel := context.WithCancel(context.Background())
	s := &Service{
		runner:     runner,
		tracker:    tracker,
		reports:    reports,
		logger:     slog.Default(),
		clock:      time.Now,
		base:       base,
		cancelBase: cancel,
		running:    make(map[string]context.CancelFunc),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start registers a job and runs it in the background. It returns as soon as
// the job is tracked.
func (s *Service) Start(ctx context.Context) (string, error) {
	jobID := uuid.NewString()

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return "", dErrors.New(dErrors.CodeUnavailable, "service is shutting down")
	}
	jobCtx, cancel := context.WithCancel(s.base)
	s.running[jobID] = cancel
	s.wg.Add(1)
	s.mu.Unlock()

	if err := s.tracker.Start(ctx, jobID); err != nil {
		s.finish(jobID)
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to register reconciliation job")
	}

	s.logger.InfoContext(ctx, "reconciliation job started", "job_id", jobID)
	go s.run(jobCtx, jobID)
	return jobID, nil
}

func (s *Service) run(ctx context.Context, jobID string) {
	// Tracker writes must land even after the job context is cancelled.
	trackCtx := context.WithoutCancel(ctx)
	start := s.clock()
	s.metrics.JobStarted()

	defer s.finish(jobID)
	defer func() {
		if r := recover(); r != nil {
			s.logger.ErrorContext(trackCtx, "reconciliation job panicked", "job_id", jobID, "panic", r)
			s.fail(trackCtx, jobID, fmt.Sprintf("Reconciliation failed: internal error (%v)", r), start)
		}
	}()

	summary, err := s.runner.Run(ctx, func(processed, total int, status string) {
		if err := s.tracker.Update(trackCtx, jobID, processed, total, status); err != nil {
			s.logger.WarnContext(trackCtx, "failed to record progress", "job_id", jobID, "error", err)
		}
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			s.fail(trackCtx, jobID, "Reconciliation cancelled.", start)
			return
		}
		s.logger.ErrorContext(trackCtx, "reconciliation job failed", "job_id", jobID, "error", err)
		s.fail(trackCtx, jobID, "Reconciliation failed: "+err.Error(), start)
		return
	}

	name, err := s.reports.Save(ctx, report.ValidationPrefix, report.ValidationHeader, report.ValidationRows(summary))
	if err != nil {
		s.logger.ErrorContext(trackCtx, "failed to write reconciliation report", "job_id", jobID, "error", err)
		s.fail(trackCtx, jobID, "Failed to write validation report: "+err.Error(), start)
		return
	}
	summary.ReportFileName = name

	if err := s.tracker.Complete(trackCtx, jobID, summary.Preview(previewLimit)); err != nil {
		s.logger.ErrorContext(trackCtx, "failed to record job completion", "job_id", jobID, "error", err)
	}
	s.metrics.JobFinished("completed", s.clock().Sub(start))
	s.publish(trackCtx, events.Completed(jobID, summary, s.clock()))
	s.logger.InfoContext(trackCtx, "reconciliation job completed",
		"job_id", jobID,
		"total", summary.TotalRecords,
		"report", name,
	)
}

func (s *Service) fail(ctx context.Context, jobID, message string, start time.Time) {
	if err := s.tracker.Fail(ctx, jobID, message); err != nil {
		s.logger.ErrorContext(ctx, "failed to record job failure", "job_id", jobID, "error", err)
	}
	s.metrics.JobFinished("failed", s.clock().Sub(start))
	s.publish(ctx, events.Failed(jobID, message, s.clock()))
}

func (s *Service) publish(ctx context.Context, ev events.JobEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, ev); err != nil {
		s.logger.WarnContext(ctx, "failed to publish job event", "job_id", ev.JobID, "error", err)
	}
}

func (s *Service) finish(jobID string) {
	s.mu.Lock()
	if cancel, ok := s.running[jobID]; ok {
		cancel()
		delete(s.running, jobID)
	}
	s.mu.Unlock()
	s.wg.Done()
}

// Status returns the tracked state of a job.
func (s *Service) Status(ctx context.Context, jobID string) (*progress.Job, error) {
	job, err := s.tracker.Get(ctx, jobID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "job not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load job")
	}
	return job, nil
}

// Cancel stops a running job. The job records a failure once the engine
// observes the cancellation between batches.
func (s *Service) Cancel(ctx context.Context, jobID string) error {
	s.mu.Lock()
	cancel, ok := s.running[jobID]
	s.mu.Unlock()
	if ok {
		cancel()
		s.logger.InfoContext(ctx, "reconciliation job cancelled", "job_id", jobID)
		return nil
	}

	if _, err := s.Status(ctx, jobID); err != nil {
		return err
	}
	return dErrors.New(dErrors.CodeConflict, "job is not running")
}

// Shutdown cancels all running jobs and waits for them to record their final state.
func (s *Service) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.cancelBase()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
