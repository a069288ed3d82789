package evidence

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
	rows []*models.EvidenceRecord
}

var _ Repository = (*MemoryRepository)(nil)

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) Create(ctx context.Context, rec *models.EvidenceRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec.ID == "" {
		rec.ID = ids.New()
	}
	cp := *rec
	r.rows = append(r.rows, &cp)
	return nil
}

func (r *MemoryRepository) FindByID(ctx context.Context, id string) (*models.EvidenceRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, rec := range r.rows {
		if rec.ID == id {
			cp := *rec
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("%w: evidence record", faults.ErrNotFound)
}

func (r *MemoryRepository) ListByAction(ctx context.Context, actionURN string) ([]*models.EvidenceRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var res []*models.EvidenceRecord
	for _, rec := range r.rows {
		if rec.RelatedAction == actionURN {
			cp := *rec
			res = append(res, &cp)
		}
	}
	return res, nil
}
