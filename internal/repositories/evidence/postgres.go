package evidence

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

func (r *PostgresRepository) Create(ctx context.Context, rec *models.EvidenceRecord) error {
	if rec.ID == "" {
		rec.ID = ids.New()
	}
	_, err := r.db.ExecContext(ctx, `
		insert into evidence_records(id, related_action, hash, storage_location, retention_expiry, created_at)
		values ($1,$2,$3,$4,$5,$6)
	`, rec.ID, rec.RelatedAction, rec.Hash, rec.StorageLocation, rec.RetentionExpiry, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert evidence record: %w", err)
	}
	return nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*models.EvidenceRecord, error) {
	row := r.db.QueryRowContext(ctx, `
		select id, related_action, hash, storage_location, retention_expiry, created_at
		from evidence_records where id=$1
	`, id)
	var rec models.EvidenceRecord
	err := row.Scan(&rec.ID, &rec.RelatedAction, &rec.Hash, &rec.StorageLocation, &rec.RetentionExpiry, &rec.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: evidence record", faults.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *PostgresRepository) ListByAction(ctx context.Context, actionURN string) ([]*models.EvidenceRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		select id, related_action, hash, storage_location, retention_expiry, created_at
		from evidence_records
		where related_action=$1
		order by created_at asc
	`, actionURN)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*models.EvidenceRecord
	for rows.Next() {
		var rec models.EvidenceRecord
		if err := rows.Scan(&rec.ID, &rec.RelatedAction, &rec.Hash, &rec.StorageLocation, &rec.RetentionExpiry, &rec.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, &rec)
	}
	return res, rows.Err()
}
