package consents

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

const consentColumns = `id, user_id, purpose, scope, granted_at, expiry_at, status`

func (r *PostgresRepository) Create(ctx context.Context, c *models.ConsentArtifact) error {
	if c.ID == "" {
		c.ID = ids.New()
	}
	_, err := r.db.ExecContext(ctx, `
		insert into consent_artifacts(id, user_id, purpose, scope, granted_at, expiry_at, status)
		values ($1,$2,$3,$4,$5,$6,$7)
	`, c.ID, c.UserID, c.Purpose, c.Scope, c.GrantedAt, c.ExpiryAt, c.Status)
	if err != nil {
		return fmt.Errorf("insert consent: %w", err)
	}
	return nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*models.ConsentArtifact, error) {
	row := r.db.QueryRowContext(ctx,
		`select `+consentColumns+` from consent_artifacts where id=$1`, id)
	return scanConsent(row)
}

func (r *PostgresRepository) FindByIDForUpdate(ctx context.Context, id string) (*models.ConsentArtifact, error) {
	row := r.db.QueryRowContext(ctx,
		`select `+consentColumns+` from consent_artifacts where id=$1 for update`, id)
	return scanConsent(row)
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id, status string) error {
	res, err := r.db.ExecContext(ctx,
		`update consent_artifacts set status=$2 where id=$1`, id, status)
	if err != nil {
		return fmt.Errorf("update consent status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: consent %s", faults.ErrNotFound, id)
	}
	return nil
}

func scanConsent(row *sql.Row) (*models.ConsentArtifact, error) {
	var c models.ConsentArtifact
	err := row.Scan(&c.ID, &c.UserID, &c.Purpose, &c.Scope, &c.GrantedAt, &c.ExpiryAt, &c.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: consent", faults.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// PostgresAuditRepository appends consent audit rows.
type PostgresAuditRepository struct {
	db dbx.DBTX
}

var _ AuditRepository = (*PostgresAuditRepository)(nil)

func NewPostgresAuditRepository(db dbx.DBTX) *PostgresAuditRepository {
	return &PostgresAuditRepository{db: db}
}

func (r *PostgresAuditRepository) Append(ctx context.Context, e *models.ConsentAuditLog) error {
	if e.ID == "" {
		e.ID = ids.New()
	}
	_, err := r.db.ExecContext(ctx, `
		insert into consent_audit_logs(id, consent_id, action, actor_id, reason, created_at)
		values ($1,$2,$3,$4,$5,$6)
	`, e.ID, e.ConsentID, e.Action, e.ActorID, e.Reason, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert consent audit log: %w", err)
	}
	return nil
}

func (r *PostgresAuditRepository) ListByConsent(ctx context.Context, consentID string) ([]*models.ConsentAuditLog, error) {
	rows, err := r.db.QueryContext(ctx, `
		select id, consent_id, action, actor_id, reason, created_at
		from consent_audit_logs
		where consent_id=$1
		order by created_at asc
	`, consentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*models.ConsentAuditLog
	for rows.Next() {
		var e models.ConsentAuditLog
		if err := rows.Scan(&e.ID, &e.ConsentID, &e.Action, &e.ActorID, &e.Reason, &e.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, &e)
	}
	return res, rows.Err()
}
