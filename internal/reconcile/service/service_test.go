package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"idrecon/internal/progress"
	"idrecon/internal/reconcile/engine"
	"idrecon/internal/reconcile/events"
	"idrecon/internal/reconcile/models"
	"idrecon/internal/reconcile/report"
	dErrors "idrecon/pkg/domain-errors"
)

type runnerFunc func(ctx context.Context, p engine.ProgressFunc) (*models.ValidationSummary, error)

func (f runnerFunc) Run(ctx context.Context, p engine.ProgressFunc) (*models.ValidationSummary, error) {
	return f(ctx, p)
}

type capturePublisher struct {
	mu     sync.Mutex
	events []events.JobEvent
}

func (c *capturePublisher) Publish(_ context.Context, ev events.JobEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, ev)
	return nil
}

func (c *capturePublisher) all() []events.JobEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]events.JobEvent(nil), c.events...)
}

type ServiceSuite struct {
	suite.Suite
	ctx       context.Context
	tracker   *progress.InMemoryTracker
	reports   *report.FileStore
	publisher *capturePublisher
	logger    *slog.Logger
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.tracker = progress.NewInMemory()
	reports, err := report.NewFileStore(s.T().TempDir())
	s.Require().NoError(err)
	s.reports = reports
	s.publisher = &capturePublisher{}
	s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (s *ServiceSuite) newService(r Runner) *Service {
	svc := New(r, s.tracker, s.reports, WithLogger(s.logger), WithEvents(s.publisher))
	s.T().Cleanup(func() { _ = svc.Shutdown(context.Background()) })
	return svc
}

func (s *ServiceSuite) waitFinished(svc *Service, jobID string) *progress.Job {
	var job *progress.Job
	s.Require().Eventually(func() bool {
		j, err := svc.Status(s.ctx, jobID)
		if err != nil {
			return false
		}
		job = j
		return j.Finished()
	}, 2*time.Second, 5*time.Millisecond)
	return job
}

func summaryWith(n int) *models.ValidationSummary {
	details := make([]models.ValidationDetail, n)
	for i := range details {
		details[i] = models.ValidationDetail{NationalID: "8001015009087", LastName: "Smith", Status: models.StatusNotFound, Message: models.MessageNotFound}
	}
	return &models.ValidationSummary{TotalRecords: n, NotFoundCount: n, Details: details}
}

func (s *ServiceSuite) TestJobCompletes() {
	svc := s.newService(runnerFunc(func(_ context.Context, p engine.ProgressFunc) (*models.ValidationSummary, error) {
		p(0, 0, engine.StatusFetching)
		p(0, 150, engine.StatusValidating)
		p(75, 150, "Processing 75/150")
		return summaryWith(150), nil
	}))

	jobID, err := svc.Start(s.ctx)
	s.Require().NoError(err)
	s.NotEmpty(jobID)

	job := s.waitFinished(svc, jobID)
	s.True(job.IsComplete)
	s.False(job.Failed)
	s.Equal(progress.StatusCompleted, job.Status)
	s.Equal(150, job.Processed)
	s.Equal(100.0, job.Percentage())
	s.Require().NotNil(job.Result)
	s.Equal(150, job.Result.TotalRecords)
	s.Len(job.Result.Details, previewLimit)
	s.NotEmpty(job.Result.ReportFileName)

	f, err := s.reports.Open(job.Result.ReportFileName)
	s.Require().NoError(err)
	_ = f.Close()

	s.Require().Eventually(func() bool { return len(s.publisher.all()) == 1 }, time.Second, 5*time.Millisecond)
	ev := s.publisher.all()[0]
	s.Equal(events.TypeCompleted, ev.Type)
	s.Equal(jobID, ev.JobID)
	s.Equal(job.Result.ReportFileName, ev.ReportFileName)
}

func (s *ServiceSuite) TestJobFailure() {
	svc := s.newService(runnerFunc(func(context.Context, engine.ProgressFunc) (*models.ValidationSummary, error) {
		return nil, errors.New("list learners: connection refused")
	}))

	jobID, err := svc.Start(s.ctx)
	s.Require().NoError(err)

	job := s.waitFinished(svc, jobID)
	s.True(job.Failed)
	s.False(job.IsComplete)
	s.Contains(job.Error, "connection refused")
	s.Nil(job.Result)
}

func (s *ServiceSuite) TestJobPanicIsRecorded() {
	svc := s.newService(runnerFunc(func(context.Context, engine.ProgressFunc) (*models.ValidationSummary, error) {
		panic("nil snapshot")
	}))

	jobID, err := svc.Start(s.ctx)
	s.Require().NoError(err)

	job := s.waitFinished(svc, jobID)
	s.True(job.Failed)
	s.Contains(job.Error, "nil snapshot")
}

func (s *ServiceSuite) TestCancelRunningJob() {
	started := make(chan struct{})
	svc := s.newService(runnerFunc(func(ctx context.Context, p engine.ProgressFunc) (*models.ValidationSummary, error) {
		p(0, 10, engine.StatusValidating)
		close(started)
		<-ctx.Done()
		return nil, ctx.Err()
	}))

	jobID, err := svc.Start(s.ctx)
	s.Require().NoError(err)
	<-started

	s.Require().NoError(svc.Cancel(s.ctx, jobID))
	job := s.waitFinished(svc, jobID)
	s.True(job.Failed)
	s.Equal("Reconciliation cancelled.", job.Error)

	err = svc.Cancel(s.ctx, jobID)
	s.True(dErrors.HasCode(err, dErrors.CodeConflict))
}

func (s *ServiceSuite) TestUnknownJob() {
	svc := s.newService(runnerFunc(func(context.Context, engine.ProgressFunc) (*models.ValidationSummary, error) {
		return summaryWith(0), nil
	}))

	_, err := svc.Status(s.ctx, "missing")
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

	err = svc.Cancel(s.ctx, "missing")
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestEmptyRunCompletesAtZeroPercent() {
	svc := s.newService(runnerFunc(func(_ context.Context, p engine.ProgressFunc) (*models.ValidationSummary, error) {
		p(0, 0, engine.StatusValidating)
		return summaryWith(0), nil
	}))

	jobID, err := svc.Start(s.ctx)
	s.Require().NoError(err)

	job := s.waitFinished(svc, jobID)
	s.True(job.IsComplete)
	s.Zero(job.Percentage())
}

func (s *ServiceSuite) TestShutdownCancelsJobsAndRejectsNewOnes() {
	svc := New(runnerFunc(func(ctx context.Context, _ engine.ProgressFunc) (*models.ValidationSummary, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}), s.tracker, s.reports, WithLogger(s.logger))

	jobID, err := svc.Start(s.ctx)
	s.Require().NoError(err)

	ctx, cancel := context.WithTimeout(s.ctx, 2*time.Second)
	defer cancel()
	s.Require().NoError(svc.Shutdown(ctx))

	job, err := svc.Status(s.ctx, jobID)
	s.Require().NoError(err)
	s.True(job.Failed)

	_, err = svc.Start(s.ctx)
	s.True(dErrors.HasCode(err, dErrors.CodeUnavailable))
}
