//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"idrecon/internal/reference/models"
	"idrecon/internal/reference/store"
	"idrecon/pkg/testutil/containers"
)

type PostgresIntegrationSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
}

func TestPostgresIntegrationSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresIntegrationSuite))
}

func (s *PostgresIntegrationSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
}

func (s *PostgresIntegrationSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "reference_citizens"))
}

func (s *PostgresIntegrationSuite) TestUpsertAndSnapshot() {
	ctx := context.Background()
	dob := time.Date(2000, 2, 8, 0, 0, 0, 0, time.UTC)
	_, err := s.store.UpsertBatch(ctx, []models.Citizen{
		{NationalID: "0002080806082", FirstName: "Sichumile", Surname: "Makaula", DateOfBirth: dob, VerificationSource: models.SourceImport},
	})
	s.Require().NoError(err)

	_, err = s.store.UpsertBatch(ctx, []models.Citizen{
		{NationalID: "0002080806082", FirstName: "Sichumile", Surname: "Makaula", DateOfBirth: dob, IsDeceased: true, VerificationSource: models.SourceImport},
		{NationalID: "0004140927080", FirstName: "Aphile", Surname: "Kweyama", DateOfBirth: dob, VerificationSource: models.SourceImport},
	})
	s.Require().NoError(err)

	snapshot, err := s.store.FindByNationalIDs(ctx, []string{"0002080806082", "0004140927080", "8001015009087"})
	s.Require().NoError(err)
	s.Len(snapshot, 2)
	s.True(snapshot["0002080806082"].IsDeceased)
	s.Equal(dob, snapshot["0004140927080"].DateOfBirth)

	n, err := s.store.Count(ctx)
	s.Require().NoError(err)
	s.Equal(2, n)
}
