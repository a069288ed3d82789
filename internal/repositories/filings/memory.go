package filings

import (
	"context"
	"fmt"
	"sync"

	"veritax.org/internal/faults"
	"veritax.org/internal/ids"
	"veritax.org/internal/models"
)

// MemoryRepository is an in-process Repository used by service tests and the
// development server. A single mutex stands in for row-level locking.
type MemoryRepository struct {
	mu    sync.RWMutex
	cases map[string]*models.FilingCase
}

var _ Repository = (*MemoryRepository)(nil)

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{cases: make(map[string]*models.FilingCase)}
}

func (r *MemoryRepository) Create(ctx context.Context, c *models.FilingCase) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID == "" {
		c.ID = ids.New()
	}
	cp := *c
	r.cases[c.ID] = &cp
	return nil
}

func (r *MemoryRepository) FindByID(ctx context.Context, id string) (*models.FilingCase, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.cases[id]
	if !ok {
		return nil, fmt.Errorf("%w: filing case", faults.ErrNotFound)
	}
	cp := *c
	return &cp, nil
}

func (r *MemoryRepository) FindByIDForUpdate(ctx context.Context, id string) (*models.FilingCase, error) {
	return r.FindByID(ctx, id)
}

func (r *MemoryRepository) FindByUserAndYear(ctx context.Context, userID, financialYear string) (*models.FilingCase, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.cases {
		if c.UserID == userID && c.FinancialYear == financialYear {
			cp := *c
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("%w: filing case", faults.ErrNotFound)
}

func (r *MemoryRepository) UpdateState(ctx context.Context, c *models.FilingCase) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.cases[c.ID]; !ok {
		return fmt.Errorf("%w: filing case %s", faults.ErrNotFound, c.ID)
	}
	cp := *c
	r.cases[c.ID] = &cp
	return nil
}
