package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"idrecon/internal/reference/models"
	"idrecon/pkg/platform/sentinel"
	txcontext "idrecon/pkg/platform/tx"
)

// PostgresStore persists reference citizens in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

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

const upsertCitizensSQL = `
	INSERT INTO reference_citizens (national_id, first_name, surname, date_of_birth, is_deceased, verification_source, last_updated)
	SELECT id, first_name, surname, dob, deceased, source, NOW()
	FROM unnest($1::text[], $2::text[], $3::text[], $4::date[], $5::bool[], $6::text[])
		AS t(id, first_name, surname, dob, deceased, source)
	ON CONFLICT (national_id) DO UPDATE SET
		first_name = EXCLUDED.first_name,
		surname = EXCLUDED.surname,
		date_of_birth = EXCLUDED.date_of_birth,
		is_deceased = EXCLUDED.is_deceased,
		verification_source = EXCLUDED.verification_source,
		last_updated = EXCLUDED.last_updated
`

// UpsertBatch merges citizens by ID in one transaction.
func (s *PostgresStore) UpsertBatch(ctx context.Context, citizens []models.Citizen) (int, error) {
	citizens = models.DedupeLastWins(citizens)
	if len(citizens) == 0 {
		return 0, nil
	}

	n := len(citizens)
	ids := make([]string, n)
	firstNames := make([]string, n)
	surnames := make([]string, n)
	dobs := make([]string, n)
	deceased := make([]bool, n)
	sources := make([]string, n)
	for i, c := range citizens {
		ids[i] = c.NationalID
		firstNames[i] = c.FirstName
		surnames[i] = c.Surname
		dobs[i] = c.DateOfBirth.Format("2006-01-02")
		deceased[i] = c.IsDeceased
		sources[i] = c.VerificationSource
	}

	err := txcontext.RunInTx(ctx, s.db, func(ctx context.Context) error {
		_, err := s.execer(ctx).ExecContext(ctx, upsertCitizensSQL,
			pq.Array(ids), pq.Array(firstNames), pq.Array(surnames),
			pq.Array(dobs), pq.Array(deceased), pq.Array(sources))
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("upsert reference citizens: %w", err)
	}
	return n, nil
}

const selectCitizenColumns = `national_id, first_name, surname, date_of_birth, is_deceased, verification_source, last_updated`

// FindByNationalIDs reads all requested records in a single statement.
func (s *PostgresStore) FindByNationalIDs(ctx context.Context, ids []string) (map[string]models.Citizen, error) {
	out := make(map[string]models.Citizen, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := s.execer(ctx).QueryContext(ctx,
		`SELECT `+selectCitizenColumns+` FROM reference_citizens WHERE national_id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("find reference citizens: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		c, err := scanCitizen(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reference citizen: %w", err)
		}
		out[c.NationalID] = *c
	}
	return out, rows.Err()
}

func (s *PostgresStore) FindByNationalID(ctx context.Context, nationalID string) (*models.Citizen, error) {
	row := s.execer(ctx).QueryRowContext(ctx,
		`SELECT `+selectCitizenColumns+` FROM reference_citizens WHERE national_id = $1`, nationalID)
	c, err := scanCitizen(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find reference citizen: %w", err)
	}
	return c, nil
}

func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.execer(ctx).QueryRowContext(ctx, `SELECT COUNT(*) FROM reference_citizens`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count reference citizens: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCitizen(row scanner) (*models.Citizen, error) {
	var c models.Citizen
	err := row.Scan(&c.NationalID, &c.FirstName, &c.Surname, &c.DateOfBirth, &c.IsDeceased, &c.VerificationSource, &c.LastUpdated)
	if err != nil {
		return nil, err
	}
	c.DateOfBirth = c.DateOfBirth.UTC()
	return &c, nil
}
