package audit

import (
	"context"
	"sync"

	"veritax.org/internal/ids"
	"veritax.org/internal/models"
)

type MemoryRepository struct {
	mu   sync.RWMutex
	rows []*models.AuditLogEntry
}

var _ Repository = (*MemoryRepository)(nil)

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) Append(ctx context.Context, e *models.AuditLogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e.ID == "" {
		e.ID = ids.New()
	}
	cp := *e
	r.rows = append(r.rows, &cp)
	return nil
}

func (r *MemoryRepository) ListByActor(ctx context.Context, actorID string, limit int) ([]*models.AuditLogEntry, error) {
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var res []*models.AuditLogEntry
	// newest first, mirroring the SQL ordering
	for i := len(r.rows) - 1; i >= 0 && len(res) < limit; i-- {
		if r.rows[i].ActorID == actorID {
			cp := *r.rows[i]
			res = append(res, &cp)
		}
	}
	return res, nil
}
