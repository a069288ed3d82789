package consents

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
	rows map[string]*models.ConsentArtifact
}

var _ Repository = (*MemoryRepository)(nil)

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{rows: make(map[string]*models.ConsentArtifact)}
}

func (r *MemoryRepository) Create(ctx context.Context, c *models.ConsentArtifact) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID == "" {
		c.ID = ids.New()
	}
	cp := *c
	r.rows[c.ID] = &cp
	return nil
}

func (r *MemoryRepository) FindByID(ctx context.Context, id string) (*models.ConsentArtifact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.rows[id]
	if !ok {
		return nil, fmt.Errorf("%w: consent", faults.ErrNotFound)
	}
	cp := *c
	return &cp, nil
}

func (r *MemoryRepository) FindByIDForUpdate(ctx context.Context, id string) (*models.ConsentArtifact, error) {
	return r.FindByID(ctx, id)
}

func (r *MemoryRepository) UpdateStatus(ctx context.Context, id, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.rows[id]
	if !ok {
		return fmt.Errorf("%w: consent %s", faults.ErrNotFound, id)
	}
	c.Status = status
	return nil
}

// MemoryAuditRepository keeps consent audit rows in process.
type MemoryAuditRepository struct {
	mu   sync.RWMutex
	rows []*models.ConsentAuditLog
}

var _ AuditRepository = (*MemoryAuditRepository)(nil)

func NewMemoryAuditRepository() *MemoryAuditRepository {
	return &MemoryAuditRepository{}
}

func (r *MemoryAuditRepository) Append(ctx context.Context, e *models.ConsentAuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e.ID == "" {
		e.ID = ids.New()
	}
	cp := *e
	r.rows = append(r.rows, &cp)
	return nil
}

func (r *MemoryAuditRepository) ListByConsent(ctx context.Context, consentID string) ([]*models.ConsentAuditLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var res []*models.ConsentAuditLog
	for _, e := range r.rows {
		if e.ConsentID == consentID {
			cp := *e
			res = append(res, &cp)
		}
	}
	return res, nil
}
