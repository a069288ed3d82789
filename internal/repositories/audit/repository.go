// Package audit persists the append-only system audit ledger.
package audit

import (
	"context"

	"veritax.org/internal/models"
)

type Repository interface {
	Append(ctx context.Context, e *models.AuditLogEntry) error
	ListByActor(ctx context.Context, actorID string, limit int) ([]*models.AuditLogEntry, error)
}
