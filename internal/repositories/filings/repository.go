// Package filings persists filing cases.
package filings

import (
	"context"

	"veritax.org/internal/models"
)

// Repository is the storage contract for filing cases. Implementations
// return faults.ErrNotFound when a lookup misses.
type Repository interface {
	Create(ctx context.Context, c *models.FilingCase) error
	FindByID(ctx context.Context, id string) (*models.FilingCase, error)
	// FindByIDForUpdate locks the row for the remainder of the enclosing
	// transaction so concurrent transitions serialize against each other.
	FindByIDForUpdate(ctx context.Context, id string) (*models.FilingCase, error)
	FindByUserAndYear(ctx context.Context, userID, financialYear string) (*models.FilingCase, error)
	// UpdateState writes the new state and timestamps of a case that was
	// previously read in the same transaction.
	UpdateState(ctx context.Context, c *models.FilingCase) error
}
