package service

import (
	"context"
	"errors"
	"log/slog"

	"idrecon/internal/reference/models"
	dErrors "idrecon/pkg/domain-errors"
	"idrecon/pkg/nationalid"
	"idrecon/pkg/platform/sentinel"
)

// Store is the read side of the reference store.
type Store interface {
	FindByNationalID(ctx context.Context, nationalID string) (*models.Citizen, error)
	Count(ctx context.Context) (int, error)
}

// Importer loads reference data from a URL or raw CSV.
type Importer interface {
	Import(ctx context.Context, source string) *models.ImportResult
}

// Service answers verification lookups and triggers reference imports.
type Service struct {
	store         Store
	importer      Importer
	defaultSource string
	logger        *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithDefaultSource sets the source used when an import request names none.
func WithDefaultSource(source string) Option {
	return func(s *Service) {
		s.defaultSource = source
	}
}

func New(store Store, importer Importer, opts ...Option) *Service {
	s := &Service{store: store, importer: importer, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Import runs the importer on source, or on the configured default when source is empty.
func (s *Service) Import(ctx context.Context, source string) (*models.ImportResult, error) {
	if source == "" {
		source = s.defaultSource
	}
	if source == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "no reference source given and none configured")
	}
	result := s.importer.Import(ctx, source)
	total, err := s.store.Count(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to count reference records", "error", err)
		return result, nil
	}
	result.ReferenceTotal = total
	return result, nil
}

// Verify looks up nationalID and compares the claimed surname when one is given.
// Precedence: NOT_FOUND, DECEASED, MISMATCH, VERIFIED.
func (s *Service) Verify(ctx context.Context, nationalID, surname string) (*models.Verification, error) {
	if !nationalid.Valid(nationalID) {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "Invalid ID Number: "+nationalID)
	}

	citizen, err := s.store.FindByNationalID(ctx, nationalID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return &models.Verification{Status: models.StatusNotFound}, nil
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up reference record")
	}

	v := &models.Verification{Citizen: citizen}
	switch {
	case citizen.IsDeceased:
		v.Status = models.StatusDeceased
	case surname != "" && !models.SurnameMatches(surname, citizen.Surname):
		v.Status = models.StatusMismatch
	default:
		v.Status = models.StatusVerified
	}
	s.logger.DebugContext(ctx, "reference verification", "national_id", nationalid.Redact(nationalID), "status", v.Status)
	return v, nil
}
