package assignments

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

func (r *PostgresRepository) Create(ctx context.Context, a *models.CAAssignment) error {
	if a.ID == "" {
		a.ID = ids.New()
	}
	_, err := r.db.ExecContext(ctx, `
		insert into ca_assignments(id, filing_id, ca_user_id, consent_id, assigned_at, status)
		values ($1,$2,$3,$4,$5,$6)
	`, a.ID, a.FilingID, a.CAUserID, a.ConsentID, a.AssignedAt, a.Status)
	if err != nil {
		return fmt.Errorf("insert assignment: %w", err)
	}
	return nil
}

func (r *PostgresRepository) LatestByFiling(ctx context.Context, filingID string) (*models.CAAssignment, error) {
	row := r.db.QueryRowContext(ctx, `
		select id, filing_id, ca_user_id, consent_id, assigned_at, status
		from ca_assignments
		where filing_id=$1
		order by assigned_at desc
		limit 1
	`, filingID)
	var a models.CAAssignment
	err := row.Scan(&a.ID, &a.FilingID, &a.CAUserID, &a.ConsentID, &a.AssignedAt, &a.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: assignment", faults.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}
