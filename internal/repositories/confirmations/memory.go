package confirmations

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
	rows []*models.UserConfirmation
}

var _ Repository = (*MemoryRepository)(nil)

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) Create(ctx context.Context, c *models.UserConfirmation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID == "" {
		c.ID = ids.New()
	}
	cp := *c
	r.rows = append(r.rows, &cp)
	return nil
}

func (r *MemoryRepository) LatestByFiling(ctx context.Context, filingID string) (*models.UserConfirmation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var latest *models.UserConfirmation
	for _, c := range r.rows {
		if c.FilingID != filingID {
			continue
		}
		if latest == nil || c.ConfirmedAt.After(latest.ConfirmedAt) {
			latest = c
		}
	}
	if latest == nil {
		return nil, fmt.Errorf("%w: confirmation", faults.ErrNotFound)
	}
	cp := *latest
	return &cp, nil
}
