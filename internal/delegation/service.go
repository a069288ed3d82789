// Package delegation binds licensed preparers to filing cases under a
// consent and answers whether a preparer's access is currently legitimate.
package delegation

import (
	"context"
	"fmt"
	"time"

	"veritax.org/internal/dbx"
	"veritax.org/internal/evidence"
	"veritax.org/internal/faults"
	"veritax.org/internal/models"
	"veritax.org/internal/repositories/repomanager"
)

// Service implements CA assignment and access validation.
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

// AssignCA binds a preparer to a filing under a consent. Checks run in a
// fixed order: filing ownership and mode, target role, consent validity,
// then the single-active-assignment rule.
func (s *Service) AssignCA(ctx context.Context, filingID, taxpayerID, caUserID, consentID string) (*models.CAAssignment, error) {
	now := s.now().UTC()
	assignment := &models.CAAssignment{
		FilingID:   filingID,
		CAUserID:   caUserID,
		ConsentID:  consentID,
		AssignedAt: now,
		Status:     models.AssignmentActive,
	}
	err := s.runner.InTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		filing, err := s.repos.Filings(tx).FindByID(ctx, filingID)
		if err != nil {
			return err
		}
		if filing.UserID != taxpayerID {
			return fmt.Errorf("%w: filing %s is not owned by caller", faults.ErrUnauthorized, filingID)
		}
		if filing.FilingMode != models.ModeCA {
			return fmt.Errorf("%w: filing mode must be CA to assign a preparer", faults.ErrValidation)
		}
		if filing.CurrentState != models.StateDraft && filing.CurrentState != models.StateReadyForReview {
			return fmt.Errorf("%w: cannot assign CA in state %s", faults.ErrValidation, filing.CurrentState)
		}

		caUser, err := s.repos.Users(tx).FindByID(ctx, caUserID)
		if err != nil {
			return err
		}
		if caUser.Role != models.RoleCA {
			return fmt.Errorf("%w: assigned user is not a chartered accountant", faults.ErrValidation)
		}

		artifact, err := s.repos.Consents(tx).FindByID(ctx, consentID)
		if err != nil {
			return err
		}
		if artifact.UserID != taxpayerID {
			return fmt.Errorf("%w: consent does not belong to taxpayer", faults.ErrUnauthorized)
		}
		if artifact.Status != models.ConsentActive {
			return fmt.Errorf("%w: consent is not active", faults.ErrValidation)
		}
		if !artifact.ExpiryAt.After(now) {
			return fmt.Errorf("%w: consent has expired", faults.ErrValidation)
		}

		existing, err := s.repos.Assignments(tx).LatestByFiling(ctx, filingID)
		if err == nil && existing.Status == models.AssignmentActive {
			return fmt.Errorf("%w: an active CA assignment already exists for this filing", faults.ErrValidation)
		}

		if err := s.repos.Assignments(tx).Create(ctx, assignment); err != nil {
			return err
		}
		urn := fmt.Sprintf("urn:filing:%s:delegation", filingID)
		if _, err := s.evidence.Capture(ctx, tx, assignment, urn, evidence.DefaultRetentionYears); err != nil {
			return err
		}
		return s.repos.ConsentAudit(tx).Append(ctx, &models.ConsentAuditLog{
			ConsentID: consentID,
			Action:    models.ConsentActionAssigned,
			ActorID:   taxpayerID,
			Reason:    fmt.Sprintf("Assigned to CA %s for Filing %s", caUserID, filingID),
			CreatedAt: now,
		})
	})
	if err != nil {
		return nil, err
	}
	return assignment, nil
}

// ValidateCAAccess confirms a preparer's standing access to a filing.
func (s *Service) ValidateCAAccess(ctx context.Context, filingID, caUserID string) (*models.CAAssignment, error) {
	var assignment *models.CAAssignment
	err := s.runner.InTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		found, err := s.ValidateAccess(ctx, tx, filingID, caUserID)
		if err != nil {
			return err
		}
		assignment = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return assignment, nil
}

// ValidateAccess is the transaction-scoped form of ValidateCAAccess, used by
// operations that already hold a handle. It is evaluated from storage on
// every call, never cached, so a consent revocation takes effect
// immediately. Every failure is ErrUnauthorized.
func (s *Service) ValidateAccess(ctx context.Context, tx dbx.DBTX, filingID, caUserID string) (*models.CAAssignment, error) {
	assignment, err := s.repos.Assignments(tx).LatestByFiling(ctx, filingID)
	if err != nil {
		return nil, fmt.Errorf("%w: no CA assignment for filing %s", faults.ErrUnauthorized, filingID)
	}
	if assignment.CAUserID != caUserID {
		return nil, fmt.Errorf("%w: filing %s is not assigned to caller", faults.ErrUnauthorized, filingID)
	}
	if assignment.Status != models.AssignmentActive {
		return nil, fmt.Errorf("%w: assignment is not active", faults.ErrUnauthorized)
	}
	artifact, err := s.repos.Consents(tx).FindByID(ctx, assignment.ConsentID)
	if err != nil {
		return nil, fmt.Errorf("%w: backing consent is missing", faults.ErrUnauthorized)
	}
	if !artifact.Usable(s.now().UTC()) {
		return nil, fmt.Errorf("%w: backing consent is %s", faults.ErrUnauthorized, artifact.EffectiveStatus(s.now().UTC()))
	}
	return assignment, nil
}
