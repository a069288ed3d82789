package financials

import (
	"context"
	"sync"

	"veritax.org/internal/ids"
	"veritax.org/internal/models"
)

type MemoryRepository struct {
	mu   sync.RWMutex
	rows []*models.FinancialEntry
}

var _ Repository = (*MemoryRepository)(nil)

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) Create(ctx context.Context, e *models.FinancialEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e.ID == "" {
		e.ID = ids.New()
	}
	cp := *e
	r.rows = append(r.rows, &cp)
	return nil
}

func (r *MemoryRepository) ListByUserAndYear(ctx context.Context, userID, financialYear string) ([]*models.FinancialEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var res []*models.FinancialEntry
	for _, e := range r.rows {
		if e.UserID == userID && e.FinancialYear == financialYear {
			cp := *e
			res = append(res, &cp)
		}
	}
	return res, nil
}
