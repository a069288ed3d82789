package audit

import (
	"context"
	"database/sql"
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

func (r *PostgresRepository) Append(ctx context.Context, e *models.AuditLogEntry) error {
	if e.ID == "" {
		e.ID = ids.New()
	}
	_, err := r.db.ExecContext(ctx, `
		insert into audit_logs(id, actor_id, actor_role, action, before_value, after_value, ip_address, device_id, created_at)
		values ($1,$2,$3,$4,$5,$6,nullif($7,''),nullif($8,''),$9)
	`, e.ID, e.ActorID, e.ActorRole, e.Action, nullBytes(e.BeforeValue), nullBytes(e.AfterValue),
		e.IPAddress, e.DeviceID, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListByActor(ctx context.Context, actorID string, limit int) ([]*models.AuditLogEntry, error) {
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	rows, err := r.db.QueryContext(ctx, `
		select id, actor_id, actor_role, action, coalesce(before_value,'null'), coalesce(after_value,'null'),
		       coalesce(ip_address::text,''), coalesce(device_id,''), created_at
		from audit_logs
		where actor_id=$1
		order by created_at desc
		limit $2
	`, actorID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*models.AuditLogEntry
	for rows.Next() {
		var e models.AuditLogEntry
		if err := rows.Scan(&e.ID, &e.ActorID, &e.ActorRole, &e.Action, &e.BeforeValue, &e.AfterValue,
			&e.IPAddress, &e.DeviceID, &e.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, &e)
	}
	return res, rows.Err()
}

func nullBytes(b []byte) any {
	if len(b) == 0 {
		return sql.NullString{}
	}
	return b
}
