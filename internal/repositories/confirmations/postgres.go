package confirmations

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

func (r *PostgresRepository) Create(ctx context.Context, c *models.UserConfirmation) error {
	if c.ID == "" {
		c.ID = ids.New()
	}
	_, err := r.db.ExecContext(ctx, `
		insert into user_confirmations(id, filing_id, confirmation_type, confirmed_by, origin_address, confirmed_at)
		values ($1,$2,$3,$4,$5,$6)
	`, c.ID, c.FilingID, c.ConfirmationType, c.ConfirmedBy, c.OriginAddress, c.ConfirmedAt)
	if err != nil {
		return fmt.Errorf("insert confirmation: %w", err)
	}
	return nil
}

func (r *PostgresRepository) LatestByFiling(ctx context.Context, filingID string) (*models.UserConfirmation, error) {
	row := r.db.QueryRowContext(ctx, `
		select id, filing_id, confirmation_type, confirmed_by, origin_address, confirmed_at
		from user_confirmations
		where filing_id=$1
		order by confirmed_at desc
		limit 1
	`, filingID)
	var c models.UserConfirmation
	err := row.Scan(&c.ID, &c.FilingID, &c.ConfirmationType, &c.ConfirmedBy, &c.OriginAddress, &c.ConfirmedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: confirmation", faults.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}
