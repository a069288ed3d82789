// Package consents persists consent artifacts and their lifecycle audit log.
package consents

import (
	"context"

	"veritax.org/internal/models"
)

// Repository stores consent artifacts. Artifacts are never hard-deleted;
// revocation is a status update and expiry is evaluated by callers at read
// time.
type Repository interface {
	Create(ctx context.Context, c *models.ConsentArtifact) error
	FindByID(ctx context.Context, id string) (*models.ConsentArtifact, error)
	// FindByIDForUpdate locks the artifact row for the enclosing
	// transaction.
	FindByIDForUpdate(ctx context.Context, id string) (*models.ConsentArtifact, error)
	UpdateStatus(ctx context.Context, id, status string) error
}

// AuditRepository appends consent lifecycle events.
type AuditRepository interface {
	Append(ctx context.Context, e *models.ConsentAuditLog) error
	ListByConsent(ctx context.Context, consentID string) ([]*models.ConsentAuditLog, error)
}
