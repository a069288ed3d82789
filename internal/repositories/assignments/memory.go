package assignments

import (
	"context"
	"fmt"
	"sync"

	"veritax.org/internal/faults"
	"veritax.org/internal/ids"
	"veritax.org/internal/models"
)

type MemoryRepository struct {
	mu   sync.RWMutex
	rows []*models.CAAssignment
}

var _ Repository = (*MemoryRepository)(nil)

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) Create(ctx context.Context, a *models.CAAssignment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if a.ID == "" {
		a.ID = ids.New()
	}
	cp := *a
	r.rows = append(r.rows, &cp)
	return nil
}

func (r *MemoryRepository) LatestByFiling(ctx context.Context, filingID string) (*models.CAAssignment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var latest *models.CAAssignment
	for _, a := range r.rows {
		if a.FilingID != filingID {
			continue
		}
		if latest == nil || a.AssignedAt.After(latest.AssignedAt) {
			latest = a
		}
	}
	if latest == nil {
		return nil, fmt.Errorf("%w: assignment", faults.ErrNotFound)
	}
	cp := *latest
	return &cp, nil
}
