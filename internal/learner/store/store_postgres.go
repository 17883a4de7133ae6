package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"idrecon/internal/learner/models"
	"idrecon/pkg/platform/sentinel"
	txcontext "idrecon/pkg/platform/tx"
)

const uniqueViolation = "23505"

// PostgresStore persists learners in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed learner store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

const insertLearnerSQL = `
	INSERT INTO learners (national_id, first_name, last_name, date_of_birth, gender, email, phone, seta_name, is_verified, source_batch)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	RETURNING created_at
`

// InsertBatch stores candidates in one transaction. IDs already present are
// rejected as duplicates up front; the remaining rows are inserted one by one
// under savepoints so a failing row is rejected without losing the others.
// A returned error means nothing was stored.
func (s *PostgresStore) InsertBatch(ctx context.Context, candidates []models.Candidate) ([]models.ErrorDetail, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	var rejected []models.ErrorDetail
	err := txcontext.RunInTx(ctx, s.db, func(ctx context.Context) error {
		rejected = nil
		existing, err := s.existingIDs(ctx, candidates)
		if err != nil {
			return err
		}

		q := s.execer(ctx)
		for _, c := range candidates {
			if _, ok := existing[c.Learner.NationalID]; ok {
				rejected = append(rejected, duplicateExisting(c))
				continue
			}
			if _, err := q.ExecContext(ctx, "SAVEPOINT learner_row"); err != nil {
				return fmt.Errorf("savepoint: %w", err)
			}
			var createdAt time.Time
			rowErr := q.QueryRowContext(ctx, insertLearnerSQL, learnerArgs(c.Learner)...).Scan(&createdAt)
			if rowErr != nil {
				if _, err := q.ExecContext(ctx, "ROLLBACK TO SAVEPOINT learner_row"); err != nil {
					return fmt.Errorf("rollback to savepoint: %w", err)
				}
				rejected = append(rejected, rowRejection(c, rowErr))
				continue
			}
			if _, err := q.ExecContext(ctx, "RELEASE SAVEPOINT learner_row"); err != nil {
				return fmt.Errorf("release savepoint: %w", err)
			}
			c.Learner.CreatedAt = createdAt
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("insert learner batch: %w", err)
	}
	return rejected, nil
}

func (s *PostgresStore) existingIDs(ctx context.Context, candidates []models.Candidate) (map[string]struct{}, error) {
	ids := make([]string, 0, len(candidates))
	for _, c := range candidates {
		ids = append(ids, c.Learner.NationalID)
	}
	rows, err := s.execer(ctx).QueryContext(ctx, `SELECT national_id FROM learners WHERE national_id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("find existing learners: %w", err)
	}
	defer rows.Close()

	existing := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan existing learner: %w", err)
		}
		existing[id] = struct{}{}
	}
	return existing, rows.Err()
}

func rowRejection(c models.Candidate, err error) models.ErrorDetail {
	if isUniqueViolation(err) {
		return duplicateExisting(c)
	}
	return models.ErrorDetail{
		RowNumber:  c.RowNumber,
		NationalID: c.Learner.NationalID,
		Message:    "Could not save learner: " + err.Error(),
		Kind:       models.KindPersistence,
	}
}

func (s *PostgresStore) Create(ctx context.Context, learner *models.Learner) error {
	err := s.execer(ctx).QueryRowContext(ctx, insertLearnerSQL, learnerArgs(learner)...).Scan(&learner.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create learner: %w", err)
	}
	return nil
}

const selectLearnerColumns = `national_id, first_name, last_name, date_of_birth, gender, email, phone, seta_name, is_verified, source_batch, created_at`

func (s *PostgresStore) FindByNationalID(ctx context.Context, nationalID string) (*models.Learner, error) {
	row := s.execer(ctx).QueryRowContext(ctx, `SELECT `+selectLearnerColumns+` FROM learners WHERE national_id = $1`, nationalID)
	l, err := scanLearner(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find learner: %w", err)
	}
	return l, nil
}

func (s *PostgresStore) MarkVerified(ctx context.Context, nationalID string) error {
	res, err := s.execer(ctx).ExecContext(ctx, `UPDATE learners SET is_verified = TRUE WHERE national_id = $1`, nationalID)
	if err != nil {
		return fmt.Errorf("mark learner verified: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark learner verified: %w", err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) ListAll(ctx context.Context) ([]*models.Learner, error) {
	rows, err := s.execer(ctx).QueryContext(ctx, `SELECT `+selectLearnerColumns+` FROM learners ORDER BY national_id`)
	if err != nil {
		return nil, fmt.Errorf("list learners: %w", err)
	}
	defer rows.Close()

	var out []*models.Learner
	for rows.Next() {
		l, err := scanLearner(rows)
		if err != nil {
			return nil, fmt.Errorf("scan learner: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanLearner(row scanner) (*models.Learner, error) {
	var (
		l   models.Learner
		dob sql.NullTime
	)
	err := row.Scan(&l.NationalID, &l.FirstName, &l.LastName, &dob, &l.Gender, &l.Email, &l.Phone,
		&l.SetaName, &l.IsVerified, &l.SourceBatch, &l.CreatedAt)
	if err != nil {
		return nil, err
	}
	if dob.Valid {
		t := dob.Time
		l.DateOfBirth = &t
	}
	return &l, nil
}

func learnerArgs(l *models.Learner) []any {
	var dob sql.NullTime
	if l.DateOfBirth != nil {
		dob = sql.NullTime{Time: *l.DateOfBirth, Valid: true}
	}
	return []any{l.NationalID, l.FirstName, l.LastName, dob, l.Gender, l.Email, l.Phone, l.SetaName, l.IsVerified, l.SourceBatch}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
