// Package consent manages the lifecycle of consent artifacts: grant, revoke
// and lazy expiry. Every mutation captures evidence and appends a consent
// audit entry inside one transaction.
package consent

import (
	"context"
	"fmt"
	"time"

	"veritax.org/internal/dbx"
	"veritax.org/internal/evidence"
	"veritax.org/internal/faults"
	"veritax.org/internal/models"
	"veritax.org/internal/obs"
	"veritax.org/internal/repositories/repomanager"
)

// Service implements the consent lifecycle manager.
type Service struct {
	runner   dbx.Runner
	repos    repomanager.Manager
	evidence *evidence.Service
	now      func() time.Time
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

func NewService(runner dbx.Runner, repos repomanager.Manager, ev *evidence.Service, opts ...Option) *Service {
	s := &Service{runner: runner, repos: repos, evidence: ev, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Grant creates an ACTIVE consent artifact. The expiry must lie strictly in
// the future.
func (s *Service) Grant(ctx context.Context, userID, purpose, scope string, expiryAt time.Time) (*models.ConsentArtifact, error) {
	now := s.now().UTC()
	if !expiryAt.After(now) {
		return nil, fmt.Errorf("%w: consent expiry must be in the future", faults.ErrValidation)
	}

	artifact := &models.ConsentArtifact{
		UserID:    userID,
		Purpose:   purpose,
		Scope:     scope,
		GrantedAt: now,
		ExpiryAt:  expiryAt.UTC(),
		Status:    models.ConsentActive,
	}
	err := s.runner.InTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repos.Consents(tx).Create(ctx, artifact); err != nil {
			return err
		}
		urn := fmt.Sprintf("urn:consent:%s:grant", artifact.ID)
		if _, err := s.evidence.Capture(ctx, tx, artifact, urn, evidence.DefaultRetentionYears); err != nil {
			return err
		}
		return s.repos.ConsentAudit(tx).Append(ctx, &models.ConsentAuditLog{
			ConsentID: artifact.ID,
			Action:    models.ConsentActionGranted,
			ActorID:   userID,
			Reason:    "Purpose: " + purpose,
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}
	return artifact, nil
}

// Revoke flips an ACTIVE consent to REVOKED. Ownership is enforced; a
// non-ACTIVE consent cannot be revoked again.
func (s *Service) Revoke(ctx context.Context, consentID, userID, reason string) error {
	now := s.now().UTC()
	err := s.runner.InTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		artifact, err := s.repos.Consents(tx).FindByIDForUpdate(ctx, consentID)
		if err != nil {
			return err
		}
		if artifact.UserID != userID {
			return fmt.Errorf("%w: consent %s is not owned by caller", faults.ErrUnauthorized, consentID)
		}
		if artifact.Status != models.ConsentActive {
			return fmt.Errorf("%w: consent is not active", faults.ErrValidation)
		}

		if err := s.repos.Consents(tx).UpdateStatus(ctx, consentID, models.ConsentRevoked); err != nil {
			return err
		}
		urn := fmt.Sprintf("urn:consent:%s:revocation", consentID)
		payload := map[string]any{
			"consent_id": consentID,
			"actor_id":   userID,
			"reason":     reason,
			"revoked_at": now.Format(time.RFC3339Nano),
		}
		if _, err := s.evidence.Capture(ctx, tx, payload, urn, evidence.DefaultRetentionYears); err != nil {
			return err
		}
		return s.repos.ConsentAudit(tx).Append(ctx, &models.ConsentAuditLog{
			ConsentID: consentID,
			Action:    models.ConsentActionRevoked,
			ActorID:   userID,
			Reason:    reason,
			CreatedAt: now,
		})
	})
	if err != nil {
		return err
	}
	obs.ConsentRevocations.Inc()
	return nil
}

// Get returns a caller-owned consent with its effective status resolved:
// an ACTIVE artifact past expiry reads as EXPIRED without a storage write.
func (s *Service) Get(ctx context.Context, consentID, userID string) (*models.ConsentArtifact, error) {
	var artifact *models.ConsentArtifact
	err := s.runner.InTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		found, err := s.repos.Consents(tx).FindByID(ctx, consentID)
		if err != nil {
			return err
		}
		if found.UserID != userID {
			return fmt.Errorf("%w: consent %s is not owned by caller", faults.ErrUnauthorized, consentID)
		}
		artifact = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	artifact.Status = artifact.EffectiveStatus(s.now().UTC())
	return artifact, nil
}
