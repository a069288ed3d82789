// Package determinations persists ITR form-type determinations. The filing
// workflow reads them; only the determination engine writes them.
package determinations

import (
	"context"

	"veritax.org/internal/models"
)

type Repository interface {
	Create(ctx context.Context, d *models.ITRDetermination) error
	FindByID(ctx context.Context, id string) (*models.ITRDetermination, error)
	FindByUserAndYear(ctx context.Context, userID, financialYear string) (*models.ITRDetermination, error)
	// Lock marks a determination immutable. A filing case can only be
	// opened against a locked determination.
	Lock(ctx context.Context, id string) error
}
