package service

import (
	"context"
	"errors"
	"log/slog"

	"idrecon/internal/learner/models"
	"idrecon/internal/platform/metrics"
	dErrors "idrecon/pkg/domain-errors"
	"idrecon/pkg/nationalid"
	"idrecon/pkg/platform/sentinel"
)

// Store is the learner persistence collaborator.
type Store interface {
	// InsertBatch stores candidates and returns per-row rejections keyed by
	// the candidate row number. An error means the whole batch failed.
	InsertBatch(ctx context.Context, candidates []models.Candidate) ([]models.ErrorDetail, error)
	Create(ctx context.Context, learner *models.Learner) error
	FindByNationalID(ctx context.Context, nationalID string) (*models.Learner, error)
	MarkVerified(ctx context.Context, nationalID string) error
}

// ErrorReportWriter persists the itemized error report of a bulk import.
type ErrorReportWriter interface {
	Save(ctx context.Context, prefix string, header []string, rows [][]string) (string, error)
}

// Service handles learner registration, verification and bulk import.
type Service struct {
	store   Store
	reports ErrorReportWriter
	logger  *slog.Logger
	metrics *metrics.Metrics
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

// WithErrorReports enables writing a CSV error report for imports with failed rows.
func WithErrorReports(w ErrorReportWriter) Option {
	return func(s *Service) {
		s.reports = w
	}
}

// New constructs a Service.
func New(store Store, opts ...Option) *Service {
	s := &Service{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register stores a single learner. Duplicate IDs are conflicts.
func (s *Service) Register(ctx context.Context, learner *models.Learner) (*models.Learner, error) {
	validated, err := models.NewLearner(learner.NationalID, learner.FirstName, learner.LastName)
	if err != nil {
		return nil, err
	}
	validated.DateOfBirth = learner.DateOfBirth
	validated.Gender = learner.Gender
	validated.Email = learner.Email
	validated.Phone = learner.Phone
	validated.SetaName = learner.SetaName
	validated.SourceBatch = learner.SourceBatch

	if err := s.store.Create(ctx, validated); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "learner with this national ID already exists")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to register learner")
	}

	s.metrics.IncrementLearnersRegistered()
	s.logger.InfoContext(ctx, "learner registered", "national_id", nationalid.Redact(validated.NationalID))
	return validated, nil
}

// Find returns the learner with the given national ID.
func (s *Service) Find(ctx context.Context, nationalID string) (*models.Learner, error) {
	if !nationalid.Valid(nationalID) {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "Invalid ID Number: "+nationalID)
	}
	l, err := s.store.FindByNationalID(ctx, nationalID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "learner not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load learner")
	}
	return l, nil
}

// MarkVerified records a successful identity verification for the learner.
func (s *Service) MarkVerified(ctx context.Context, nationalID string) (*models.Learner, error) {
	if !nationalid.Valid(nationalID) {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "Invalid ID Number: "+nationalID)
	}
	if err := s.store.MarkVerified(ctx, nationalID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "learner not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to mark learner verified")
	}
	s.logger.InfoContext(ctx, "learner verified", "national_id", nationalid.Redact(nationalID))
	return s.Find(ctx, nationalID)
}
