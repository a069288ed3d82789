package users

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

func (r *PostgresRepository) Create(ctx context.Context, u *models.User) error {
	if u.ID == "" {
		u.ID = ids.New()
	}
	_, err := r.db.ExecContext(ctx, `
		insert into users(id, email, primary_role, status, created_at)
		values ($1,$2,$3,$4,$5)
	`, u.ID, u.Email, u.Role, u.Status, u.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	row := r.db.QueryRowContext(ctx,
		`select id, email, primary_role, status, created_at from users where id=$1`, id)
	var u models.User
	err := row.Scan(&u.ID, &u.Email, &u.Role, &u.Status, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: user", faults.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
