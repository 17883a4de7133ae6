package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/suite"

	"idrecon/internal/learner/models"
	"idrecon/pkg/platform/sentinel"
)

type PostgresStoreSuite struct {
	suite.Suite
	db    *sql.DB
	mock  sqlmock.Sqlmock
	store *PostgresStore
	ctx   context.Context
}

func TestPostgresStoreSuite(t *testing.T) {
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupTest() {
	db, mock, err := sqlmock.New()
	s.Require().NoError(err)
	s.db = db
	s.mock = mock
	s.store = NewPostgres(db)
	s.ctx = context.Background()
}

func (s *PostgresStoreSuite) TearDownTest() {
	s.Require().NoError(s.mock.ExpectationsWereMet())
	_ = s.db.Close()
}

func (s *PostgresStoreSuite) TestInsertBatchMergesRejections() {
	now := time.Now()
	s.mock.ExpectBegin()
	s.mock.ExpectQuery("SELECT national_id FROM learners WHERE national_id = ANY").
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"national_id"}).AddRow("0002080806082"))

	// row 3 inserts
	s.mock.ExpectExec("^SAVEPOINT learner_row$").WillReturnResult(sqlmock.NewResult(0, 0))
	s.mock.ExpectQuery("INSERT INTO learners").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))
	s.mock.ExpectExec("^RELEASE SAVEPOINT learner_row$").WillReturnResult(sqlmock.NewResult(0, 0))

	// row 4 races with a concurrent insert
	s.mock.ExpectExec("^SAVEPOINT learner_row$").WillReturnResult(sqlmock.NewResult(0, 0))
	s.mock.ExpectQuery("INSERT INTO learners").WillReturnError(&pgconn.PgError{Code: "23505"})
	s.mock.ExpectExec("^ROLLBACK TO SAVEPOINT learner_row$").WillReturnResult(sqlmock.NewResult(0, 0))

	// row 5 fails for another reason
	s.mock.ExpectExec("^SAVEPOINT learner_row$").WillReturnResult(sqlmock.NewResult(0, 0))
	s.mock.ExpectQuery("INSERT INTO learners").WillReturnError(errors.New("value too long"))
	s.mock.ExpectExec("^ROLLBACK TO SAVEPOINT learner_row$").WillReturnResult(sqlmock.NewResult(0, 0))
	s.mock.ExpectCommit()

	rejected, err := s.store.InsertBatch(s.ctx, []models.Candidate{
		candidate(2, "0002080806082", "Makaula"),
		candidate(3, "8001015009087", "Smith"),
		candidate(4, "0004140927080", "Kweyama"),
		candidate(5, "0004180737084", "Sibiya"),
	})
	s.Require().NoError(err)
	s.Require().Len(rejected, 3)
	s.Equal(2, rejected[0].RowNumber)
	s.Equal(models.KindDuplicateExisting, rejected[0].Kind)
	s.Equal(4, rejected[1].RowNumber)
	s.Equal(models.KindDuplicateExisting, rejected[1].Kind)
	s.Equal(5, rejected[2].RowNumber)
	s.Equal(models.KindPersistence, rejected[2].Kind)
	s.Contains(rejected[2].Message, "value too long")
}

func (s *PostgresStoreSuite) TestInsertBatchBatchLevelFailureRollsBack() {
	s.mock.ExpectBegin()
	s.mock.ExpectQuery("SELECT national_id FROM learners").WillReturnError(errors.New("connection reset"))
	s.mock.ExpectRollback()

	_, err := s.store.InsertBatch(s.ctx, []models.Candidate{candidate(2, "0002080806082", "Makaula")})
	s.Require().Error(err)
	s.Contains(err.Error(), "connection reset")
}

func (s *PostgresStoreSuite) TestInsertBatchEmptyIsNoop() {
	rejected, err := s.store.InsertBatch(s.ctx, nil)
	s.NoError(err)
	s.Nil(rejected)
}

func (s *PostgresStoreSuite) TestCreateConflict() {
	s.mock.ExpectQuery("INSERT INTO learners").WillReturnError(&pgconn.PgError{Code: "23505"})

	err := s.store.Create(s.ctx, &models.Learner{NationalID: "0002080806082", FirstName: "S", LastName: "M"})
	s.ErrorIs(err, sentinel.ErrConflict)
}

func (s *PostgresStoreSuite) TestFindByNationalID() {
	dob := time.Date(2000, 2, 8, 0, 0, 0, 0, time.UTC)
	s.mock.ExpectQuery("FROM learners WHERE national_id = \\$1").
		WithArgs("0002080806082").
		WillReturnRows(sqlmock.NewRows([]string{
			"national_id", "first_name", "last_name", "date_of_birth", "gender", "email", "phone",
			"seta_name", "is_verified", "source_batch", "created_at",
		}).AddRow("0002080806082", "Sichumile", "Makaula", dob, "F", "", "", "W&RSETA", true, "batch-1", time.Now()))

	l, err := s.store.FindByNationalID(s.ctx, "0002080806082")
	s.Require().NoError(err)
	s.Equal("Makaula", l.LastName)
	s.Require().NotNil(l.DateOfBirth)
	s.Equal(dob, *l.DateOfBirth)
	s.True(l.IsVerified)
}

func (s *PostgresStoreSuite) TestFindByNationalIDNotFound() {
	s.mock.ExpectQuery("FROM learners WHERE national_id").WillReturnError(sql.ErrNoRows)

	_, err := s.store.FindByNationalID(s.ctx, "0002080806082")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestMarkVerifiedNotFound() {
	s.mock.ExpectExec("UPDATE learners SET is_verified = TRUE").
		WithArgs("0002080806082").
		WillReturnResult(sqlmock.NewResult(0, 0))

	s.ErrorIs(s.store.MarkVerified(s.ctx, "0002080806082"), sentinel.ErrNotFound)
}
