package determinations

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
	rows map[string]*models.ITRDetermination
}

var _ Repository = (*MemoryRepository)(nil)

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{rows: make(map[string]*models.ITRDetermination)}
}

func (r *MemoryRepository) Create(ctx context.Context, d *models.ITRDetermination) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d.ID == "" {
		d.ID = ids.New()
	}
	cp := *d
	r.rows[d.ID] = &cp
	return nil
}

func (r *MemoryRepository) FindByID(ctx context.Context, id string) (*models.ITRDetermination, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.rows[id]
	if !ok {
		return nil, fmt.Errorf("%w: determination", faults.ErrNotFound)
	}
	cp := *d
	return &cp, nil
}

func (r *MemoryRepository) FindByUserAndYear(ctx context.Context, userID, financialYear string) (*models.ITRDetermination, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, d := range r.rows {
		if d.UserID == userID && d.FinancialYear == financialYear {
			cp := *d
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("%w: determination", faults.ErrNotFound)
}

func (r *MemoryRepository) Lock(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.rows[id]
	if !ok {
		return fmt.Errorf("%w: determination %s", faults.ErrNotFound, id)
	}
	d.IsLocked = true
	return nil
}
