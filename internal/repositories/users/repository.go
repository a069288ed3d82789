// Package users exposes the read side of the user directory the trust
// subsystem needs for role checks. Account management lives in the external
// auth component.
package users

import (
	"context"

	"veritax.org/internal/models"
)

type Repository interface {
	Create(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
}
