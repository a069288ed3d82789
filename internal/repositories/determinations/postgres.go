package determinations

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

type PostgresRepository struct {
	db dbx.DBTX
}

var _ Repository = (*PostgresRepository)(nil)

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const determinationColumns = `id, user_id, financial_year, itr_type, reason, is_locked, determined_at, created_at`

func (r *PostgresRepository) Create(ctx context.Context, d *models.ITRDetermination) error {
	if d.ID == "" {
		d.ID = ids.New()
	}
	_, err := r.db.ExecContext(ctx, `
		insert into itr_determinations(id, user_id, financial_year, itr_type, reason, is_locked, determined_at, created_at)
		values ($1,$2,$3,$4,$5,$6,$7,$8)
	`, d.ID, d.UserID, d.FinancialYear, d.ITRType, d.Reason, d.IsLocked, d.DeterminedAt, d.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert determination: %w", err)
	}
	return nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*models.ITRDetermination, error) {
	row := r.db.QueryRowContext(ctx,
		`select `+determinationColumns+` from itr_determinations where id=$1`, id)
	return scanDetermination(row)
}

func (r *PostgresRepository) FindByUserAndYear(ctx context.Context, userID, financialYear string) (*models.ITRDetermination, error) {
	row := r.db.QueryRowContext(ctx,
		`select `+determinationColumns+` from itr_determinations where user_id=$1 and financial_year=$2`,
		userID, financialYear)
	return scanDetermination(row)
}

func (r *PostgresRepository) Lock(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`update itr_determinations set is_locked=true where id=$1`, id)
	if err != nil {
		return fmt.Errorf("lock determination: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: determination %s", faults.ErrNotFound, id)
	}
	return nil
}

func scanDetermination(row *sql.Row) (*models.ITRDetermination, error) {
	var d models.ITRDetermination
	err := row.Scan(&d.ID, &d.UserID, &d.FinancialYear, &d.ITRType, &d.Reason,
		&d.IsLocked, &d.DeterminedAt, &d.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: determination", faults.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}
