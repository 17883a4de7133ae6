package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	"idrecon/internal/reference/models"
	"idrecon/internal/reference/store"
	dErrors "idrecon/pkg/domain-errors"
)

type stubImporter struct {
	source string
}

func (i *stubImporter) Import(_ context.Context, source string) *models.ImportResult {
	i.source = source
	return &models.ImportResult{Success: true}
}

type brokenStore struct{}

func (brokenStore) FindByNationalID(context.Context, string) (*models.Citizen, error) {
	return nil, errors.New("pool exhausted")
}

func (brokenStore) Count(context.Context) (int, error) {
	return 0, errors.New("pool exhausted")
}

type ServiceSuite struct {
	suite.Suite
	ctx      context.Context
	store    *store.InMemoryStore
	importer *stubImporter
	service  *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = store.NewInMemory()
	s.importer = &stubImporter{}
	s.service = New(s.store, s.importer, WithDefaultSource("https://example.com/ref.csv"))

	_, err := s.store.UpsertBatch(s.ctx, []models.Citizen{
		{NationalID: "0002080806082", FirstName: "Sichumile", Surname: "Makaula"},
		{NationalID: "0004140927080", FirstName: "Aphile", Surname: "Kweyama", IsDeceased: true},
	})
	s.Require().NoError(err)
}

func (s *ServiceSuite) TestVerifyPrecedence() {
	tests := []struct {
		name    string
		id      string
		surname string
		want    models.VerificationStatus
	}{
		{"matching surname", "0002080806082", " makaula ", models.StatusVerified},
		{"no surname claimed", "0002080806082", "", models.StatusVerified},
		{"mismatch", "0002080806082", "Smith", models.StatusMismatch},
		{"deceased wins over mismatch", "0004140927080", "Smith", models.StatusDeceased},
		{"not found", "8001015009087", "Smith", models.StatusNotFound},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			got, err := s.service.Verify(s.ctx, tt.id, tt.surname)
			s.Require().NoError(err)
			s.Equal(tt.want, got.Status)
			if tt.want == models.StatusNotFound {
				s.Nil(got.Citizen)
			} else {
				s.NotNil(got.Citizen)
			}
		})
	}
}

func (s *ServiceSuite) TestVerifyRejectsBadFormat() {
	_, err := s.service.Verify(s.ctx, "12345", "")
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func (s *ServiceSuite) TestVerifyStoreFailure() {
	svc := New(brokenStore{}, s.importer)
	_, err := svc.Verify(s.ctx, "0002080806082", "")
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}

func (s *ServiceSuite) TestImportUsesDefaultSource() {
	_, err := s.service.Import(s.ctx, "")
	s.Require().NoError(err)
	s.Equal("https://example.com/ref.csv", s.importer.source)

	_, err = s.service.Import(s.ctx, "h\nA,B,,0002080806082")
	s.Require().NoError(err)
	s.Equal("h\nA,B,,0002080806082", s.importer.source)
}

func (s *ServiceSuite) TestImportReportsReferenceTotal() {
	result, err := s.service.Import(s.ctx, "")
	s.Require().NoError(err)
	s.True(result.Success)
	s.Equal(2, result.ReferenceTotal)

	result, err = New(brokenStore{}, s.importer, WithDefaultSource("x")).Import(s.ctx, "")
	s.Require().NoError(err)
	s.True(result.Success)
	s.Zero(result.ReferenceTotal)
}

func (s *ServiceSuite) TestImportWithoutAnySource() {
	_, err := New(s.store, s.importer).Import(s.ctx, "")
	s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
}

