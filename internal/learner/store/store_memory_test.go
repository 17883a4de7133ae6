package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"idrecon/internal/learner/models"
	"idrecon/pkg/platform/sentinel"
)

type InMemoryStoreSuite struct {
	suite.Suite
	store *InMemoryStore
	ctx   context.Context
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func candidate(row int, id, last string) models.Candidate {
	return models.Candidate{RowNumber: row, Learner: &models.Learner{NationalID: id, FirstName: "Test", LastName: last}}
}

func (s *InMemoryStoreSuite) TestInsertBatchRejectsExisting() {
	s.Require().NoError(s.store.Create(s.ctx, &models.Learner{NationalID: "0002080806082", FirstName: "S", LastName: "Makaula"}))

	rejected, err := s.store.InsertBatch(s.ctx, []models.Candidate{
		candidate(2, "0002080806082", "Makaula"),
		candidate(3, "8001015009087", "Smith"),
	})
	s.Require().NoError(err)
	s.Require().Len(rejected, 1)
	s.Equal(2, rejected[0].RowNumber)
	s.Equal(models.KindDuplicateExisting, rejected[0].Kind)
	s.Equal("Learner with ID 0002080806082 already exists.", rejected[0].Message)

	l, err := s.store.FindByNationalID(s.ctx, "8001015009087")
	s.Require().NoError(err)
	s.Equal("Smith", l.LastName)
	s.False(l.CreatedAt.IsZero())
}

func (s *InMemoryStoreSuite) TestCreateConflict() {
	l := &models.Learner{NationalID: "0002080806082", FirstName: "S", LastName: "Makaula"}
	s.Require().NoError(s.store.Create(s.ctx, l))
	s.ErrorIs(s.store.Create(s.ctx, l), sentinel.ErrConflict)
}

func (s *InMemoryStoreSuite) TestFindUnknown() {
	_, err := s.store.FindByNationalID(s.ctx, "0002080806082")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *InMemoryStoreSuite) TestMarkVerified() {
	s.ErrorIs(s.store.MarkVerified(s.ctx, "0002080806082"), sentinel.ErrNotFound)

	s.Require().NoError(s.store.Create(s.ctx, &models.Learner{NationalID: "0002080806082", FirstName: "S", LastName: "Makaula"}))
	s.Require().NoError(s.store.MarkVerified(s.ctx, "0002080806082"))

	l, err := s.store.FindByNationalID(s.ctx, "0002080806082")
	s.Require().NoError(err)
	s.True(l.IsVerified)
}

func (s *InMemoryStoreSuite) TestReturnedLearnersAreCopies() {
	s.Require().NoError(s.store.Create(s.ctx, &models.Learner{NationalID: "0002080806082", FirstName: "S", LastName: "Makaula"}))
	l, err := s.store.FindByNationalID(s.ctx, "0002080806082")
	s.Require().NoError(err)
	l.LastName = "Changed"

	again, err := s.store.FindByNationalID(s.ctx, "0002080806082")
	s.Require().NoError(err)
	s.Equal("Makaula", again.LastName)
}

func (s *InMemoryStoreSuite) TestListAllSorted() {
	_, err := s.store.InsertBatch(s.ctx, []models.Candidate{
		candidate(2, "8001015009087", "B"),
		candidate(3, "0002080806082", "A"),
	})
	s.Require().NoError(err)

	all, err := s.store.ListAll(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 2)
	s.Equal("0002080806082", all[0].NationalID)
	s.Equal("8001015009087", all[1].NationalID)
}
