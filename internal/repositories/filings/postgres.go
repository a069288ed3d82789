package filings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"veritax.org/internal/dbx"
	"veritax.org/internal/faults"
	"veritax.org/internal/ids"
	"veritax.org/internal/models"
)

// PostgresRepository implements Repository over a dbx.DBTX, so it works both
// on a bare connection and inside a transaction.
type PostgresRepository struct {
	db dbx.DBTX
}

var _ Repository = (*PostgresRepository)(nil)

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const filingColumns = `id, user_id, financial_year, itr_determination_id, filing_mode, current_state, created_at, updated_at, submitted_at`

func (r *PostgresRepository) Create(ctx context.Context, c *models.FilingCase) error {
	if c.ID == "" {
		c.ID = ids.New()
	}
	_, err := r.db.ExecContext(ctx, `
		insert into filing_cases(id, user_id, financial_year, itr_determination_id, filing_mode, current_state, created_at, updated_at)
		values ($1,$2,$3,$4,$5,$6,$7,$8)
	`, c.ID, c.UserID, c.FinancialYear, c.ITRDeterminationID, c.FilingMode, c.CurrentState, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert filing case: %w", err)
	}
	return nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*models.FilingCase, error) {
	row := r.db.QueryRowContext(ctx,
		`select `+filingColumns+` from filing_cases where id=$1`, id)
	return scanFiling(row)
}

func (r *PostgresRepository) FindByIDForUpdate(ctx context.Context, id string) (*models.FilingCase, error) {
	row := r.db.QueryRowContext(ctx,
		`select `+filingColumns+` from filing_cases where id=$1 for update`, id)
	return scanFiling(row)
}

func (r *PostgresRepository) FindByUserAndYear(ctx context.Context, userID, financialYear string) (*models.FilingCase, error) {
	row := r.db.QueryRowContext(ctx,
		`select `+filingColumns+` from filing_cases where user_id=$1 and financial_year=$2`,
		userID, financialYear)
	return scanFiling(row)
}

func (r *PostgresRepository) UpdateState(ctx context.Context, c *models.FilingCase) error {
	res, err := r.db.ExecContext(ctx, `
		update filing_cases set current_state=$2, updated_at=$3, submitted_at=$4 where id=$1
	`, c.ID, c.CurrentState, c.UpdatedAt, c.SubmittedAt)
	if err != nil {
		return fmt.Errorf("update filing case: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: filing case %s", faults.ErrNotFound, c.ID)
	}
	return nil
}

func scanFiling(row *sql.Row) (*models.FilingCase, error) {
	var (
		c         models.FilingCase
		submitted sql.NullTime
	)
	err := row.Scan(&c.ID, &c.UserID, &c.FinancialYear, &c.ITRDeterminationID,
		&c.FilingMode, &c.CurrentState, &c.CreatedAt, &c.UpdatedAt, &submitted)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: filing case", faults.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if submitted.Valid {
		t := submitted.Time
		c.SubmittedAt = &t
	}
	return &c, nil
}
