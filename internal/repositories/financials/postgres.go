package financials

import (
	"context"
	"fmt"

	"veritax.org/internal/dbx"
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

func (r *PostgresRepository) Create(ctx context.Context, e *models.FinancialEntry) error {
	if e.ID == "" {
		e.ID = ids.New()
	}
	_, err := r.db.ExecContext(ctx, `
		insert into financial_entries(id, user_id, financial_year, entry_type, category, amount, created_at)
		values ($1,$2,$3,$4,$5,$6,$7)
	`, e.ID, e.UserID, e.FinancialYear, e.EntryType, e.Category, e.Amount, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert financial entry: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListByUserAndYear(ctx context.Context, userID, financialYear string) ([]*models.FinancialEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		select id, user_id, financial_year, entry_type, category, amount, created_at
		from financial_entries
		where user_id=$1 and financial_year=$2
		order by created_at asc
	`, userID, financialYear)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*models.FinancialEntry
	for rows.Next() {
		var e models.FinancialEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.FinancialYear, &e.EntryType, &e.Category, &e.Amount, &e.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, &e)
	}
	return res, rows.Err()
}
