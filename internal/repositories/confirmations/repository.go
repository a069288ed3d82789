// Package confirmations persists taxpayer approval artifacts.
package confirmations

import (
	"context"

	"veritax.org/internal/models"
)

// Repository stores user confirmations. Rows are append-only; the latest one
// per filing is authoritative.
type Repository interface {
	Create(ctx context.Context, c *models.UserConfirmation) error
	LatestByFiling(ctx context.Context, filingID string) (*models.UserConfirmation, error)
}
