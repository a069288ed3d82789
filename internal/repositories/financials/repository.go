// Package financials persists income and expense entries, the inputs to the
// ITR determination and compliance engines.
package financials

import (
	"context"

	"veritax.org/internal/models"
)

type Repository interface {
	Create(ctx context.Context, e *models.FinancialEntry) error
	ListByUserAndYear(ctx context.Context, userID, financialYear string) ([]*models.FinancialEntry, error)
}
