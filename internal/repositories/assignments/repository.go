// Package assignments persists CA assignments: the binding of a preparer to
// a filing case under a consent.
package assignments

import (
	"context"

	"veritax.org/internal/models"
)

type Repository interface {
	Create(ctx context.Context, a *models.CAAssignment) error
	// LatestByFiling returns the most recent assignment for a filing,
	// whatever its status. faults.ErrNotFound when none exists.
	LatestByFiling(ctx context.Context, filingID string) (*models.CAAssignment, error)
}
