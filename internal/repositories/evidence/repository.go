// Package evidence persists evidence metadata records. The canonical bytes
// themselves live in blob storage.
package evidence

import (
	"context"

	"veritax.org/internal/models"
)

type Repository interface {
	Create(ctx context.Context, rec *models.EvidenceRecord) error
	FindByID(ctx context.Context, id string) (*models.EvidenceRecord, error)
	ListByAction(ctx context.Context, actionURN string) ([]*models.EvidenceRecord, error)
}
