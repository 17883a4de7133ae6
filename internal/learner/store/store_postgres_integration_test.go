//go:build integration

package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"idrecon/internal/learner/models"
	"idrecon/internal/learner/store"
	"idrecon/pkg/platform/sentinel"
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
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "learners"))
}

func (s *PostgresIntegrationSuite) TestInsertBatchAndDuplicates() {
	ctx := context.Background()
	rejected, err := s.store.InsertBatch(ctx, []models.Candidate{
		{RowNumber: 2, Learner: &models.Learner{NationalID: "0002080806082", FirstName: "Sichumile", LastName: "Makaula"}},
		{RowNumber: 3, Learner: &models.Learner{NationalID: "0004140927080", FirstName: "Aphile", LastName: "Kweyama"}},
	})
	s.Require().NoError(err)
	s.Empty(rejected)

	rejected, err = s.store.InsertBatch(ctx, []models.Candidate{
		{RowNumber: 2, Learner: &models.Learner{NationalID: "0002080806082", FirstName: "Sichumile", LastName: "Makaula"}},
		{RowNumber: 3, Learner: &models.Learner{NationalID: "0004180737084", FirstName: "Gugulethu", LastName: "Sibiya"}},
	})
	s.Require().NoError(err)
	s.Require().Len(rejected, 1)
	s.Equal(models.KindDuplicateExisting, rejected[0].Kind)

	all, err := s.store.ListAll(ctx)
	s.Require().NoError(err)
	s.Len(all, 3)
}

func (s *PostgresIntegrationSuite) TestCreateAndVerify() {
	ctx := context.Background()
	l := &models.Learner{NationalID: "0002080806082", FirstName: "Sichumile", LastName: "Makaula"}
	s.Require().NoError(s.store.Create(ctx, l))
	s.ErrorIs(s.store.Create(ctx, l), sentinel.ErrConflict)

	s.Require().NoError(s.store.MarkVerified(ctx, l.NationalID))
	got, err := s.store.FindByNationalID(ctx, l.NationalID)
	s.Require().NoError(err)
	s.True(got.IsVerified)
}
