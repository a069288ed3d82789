// Package audit records immutable before/after snapshots of state-changing
// actions. Rows are appended inside the same transaction as the mutation
// they describe; a structured JSON line is additionally emitted for log
// shipping.
package audit

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"veritax.org/internal/dbx"
	"veritax.org/internal/models"
	"veritax.org/internal/obs"
	"veritax.org/internal/repositories/repomanager"
)

type ctxKey string

const requestIDKey ctxKey = "audit_request_id"

// WithRequestID attaches the request identifier to the context so audit
// events can be correlated with HTTP access logs.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	requestID = strings.TrimSpace(requestID)
	if requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, requestID)
}

func requestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

// Action describes one state-changing action to record.
type Action struct {
	ActorID   string
	ActorRole string
	Name      string
	Before    any // snapshot before the mutation, nil when creating
	After     any // snapshot after the mutation
	IPAddress string
	DeviceID  string
}

// Service appends audit entries through repositories bound to the caller's
// transaction handle.
type Service struct {
	repos repomanager.Manager
	now   func() time.Time
}

// Option configures Service behavior.
type Option func(*Service)

// WithClock overrides the time source (useful for tests).
func WithClock(fn func() time.Time) Option {
	return func(s *Service) {
		if fn != nil {
			s.now = fn
		}
	}
}

func NewService(repos repomanager.Manager, opts ...Option) *Service {
	s := &Service{repos: repos, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LogAction appends one entry to the system ledger. Before/after snapshots
// are stored as JSON documents.
func (s *Service) LogAction(ctx context.Context, db dbx.DBTX, a Action) (*models.AuditLogEntry, error) {
	entry := &models.AuditLogEntry{
		ActorID:   a.ActorID,
		ActorRole: a.ActorRole,
		Action:    a.Name,
		IPAddress: a.IPAddress,
		DeviceID:  a.DeviceID,
		CreatedAt: s.now().UTC(),
	}
	var err error
	if a.Before != nil {
		if entry.BeforeValue, err = json.Marshal(a.Before); err != nil {
			return nil, err
		}
	}
	if a.After != nil {
		if entry.AfterValue, err = json.Marshal(a.After); err != nil {
			return nil, err
		}
	}
	if err := s.repos.Audit(db).Append(ctx, entry); err != nil {
		return nil, err
	}
	emit(ctx, a.Name, map[string]any{
		"actor_id":   a.ActorID,
		"actor_role": a.ActorRole,
	})
	return entry, nil
}

// UserLogs returns the newest entries recorded against an actor.
func (s *Service) UserLogs(ctx context.Context, db dbx.DBTX, actorID string, limit int) ([]*models.AuditLogEntry, error) {
	return s.repos.Audit(db).ListByActor(ctx, actorID, limit)
}

// emit writes the structured audit event line.
func emit(ctx context.Context, event string, fields map[string]any) {
	entry := map[string]any{
		"ts":     time.Now().UTC().Format(time.RFC3339Nano),
		"type":   "audit",
		"event":  event,
		"fields": fields,
	}
	if rid := requestIDFromContext(ctx); rid != "" {
		entry["request_id"] = rid
	}
	obs.Emit(entry)
}
