// Package filing implements the tax return filing workflow: case creation
// against a locked determination, the forward-only state machine, taxpayer
// approval and submission. Every mutation runs in one transaction with its
// evidence capture and audit entry.
package filing

import (
	"context"
	"fmt"
	"time"

	"veritax.org/internal/audit"
	"veritax.org/internal/dbx"
	"veritax.org/internal/delegation"
	"veritax.org/internal/evidence"
	"veritax.org/internal/faults"
	"veritax.org/internal/models"
	"veritax.org/internal/obs"
	"veritax.org/internal/repositories/repomanager"
)

// SubmissionRetentionYears is the retention policy for submission evidence.
// Longer than the default because submitted returns carry statutory
// record-keeping obligations.
const SubmissionRetentionYears = 7

// Origin carries the request provenance recorded with audit entries.
type Origin struct {
	IPAddress string
	DeviceID  string
}

// Service implements the filing workflow.
type Service struct {
	runner     dbx.Runner
	repos      repomanager.Manager
	evidence   *evidence.Service
	audit      *audit.Service
	delegation *delegation.Service
	now        func() time.Time
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

func NewService(runner dbx.Runner, repos repomanager.Manager, ev *evidence.Service, au *audit.Service, del *delegation.Service, opts ...Option) *Service {
	s := &Service{runner: runner, repos: repos, evidence: ev, audit: au, delegation: del, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateCase opens a filing case for a taxpayer and financial year. The
// referenced determination must exist, belong to the same taxpayer and year,
// and be locked. One case per (taxpayer, year); one case per determination.
func (s *Service) CreateCase(ctx context.Context, userID, financialYear, determinationID, mode string, origin Origin) (*models.FilingCase, error) {
	if !models.ValidMode(mode) {
		return nil, fmt.Errorf("%w: unknown filing mode %q", faults.ErrValidation, mode)
	}
	now := s.now().UTC()
	filing := &models.FilingCase{
		UserID:             userID,
		FinancialYear:      financialYear,
		ITRDeterminationID: determinationID,
		FilingMode:         mode,
		CurrentState:       models.StateDraft,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	err := s.runner.InTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		owner, err := s.repos.Users(tx).FindByID(ctx, userID)
		if err != nil {
			return err
		}
		if !owner.IsTaxpayer() {
			return fmt.Errorf("%w: only taxpayers may open filing cases", faults.ErrUnauthorized)
		}
		det, err := s.repos.Determinations(tx).FindByID(ctx, determinationID)
		if err != nil {
			return err
		}
		if det.UserID != userID {
			return fmt.Errorf("%w: determination belongs to another taxpayer", faults.ErrValidation)
		}
		if det.FinancialYear != financialYear {
			return fmt.Errorf("%w: determination is for year %s, not %s", faults.ErrValidation, det.FinancialYear, financialYear)
		}
		if !det.IsLocked {
			return fmt.Errorf("%w: determination is not locked", faults.ErrValidation)
		}
		if _, err := s.repos.Filings(tx).FindByUserAndYear(ctx, userID, financialYear); err == nil {
			return fmt.Errorf("%w: a filing case already exists for %s", faults.ErrValidation, financialYear)
		}
		if err := s.repos.Filings(tx).Create(ctx, filing); err != nil {
			return err
		}
		_, err = s.audit.LogAction(ctx, tx, audit.Action{
			ActorID:   userID,
			ActorRole: owner.Role,
			Name:      models.AuditFilingCaseCreated,
			After:     filing,
			IPAddress: origin.IPAddress,
			DeviceID:  origin.DeviceID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return filing, nil
}

// GetCase returns the caller's filing case for a financial year.
func (s *Service) GetCase(ctx context.Context, userID, financialYear string) (*models.FilingCase, error) {
	var filing *models.FilingCase
	err := s.runner.InTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		found, err := s.repos.Filings(tx).FindByUserAndYear(ctx, userID, financialYear)
		if err != nil {
			return err
		}
		filing = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return filing, nil
}

// TransitionState moves a filing one step forward. The edge is validated
// before any authorization check, and each edge names its actor: in CA mode
// the READY_FOR_REVIEW and SUBMITTED edges belong to the assigned CA, never
// the owner; the LOCKED edge belongs to the owning taxpayer in either mode.
// Reaching SUBMITTED in CA mode requires a recorded taxpayer approval;
// submission stamps submitted_at and captures long-retention evidence.
func (s *Service) TransitionState(ctx context.Context, filingID, actorID, actorRole, nextState string, origin Origin) (*models.FilingCase, error) {
	now := s.now().UTC()
	var filing *models.FilingCase
	err := s.runner.InTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		current, err := s.repos.Filings(tx).FindByIDForUpdate(ctx, filingID)
		if err != nil {
			return err
		}
		if !models.ValidState(nextState) {
			return fmt.Errorf("%w: unknown state %q", faults.ErrValidation, nextState)
		}
		if !models.CanTransition(current.CurrentState, nextState) {
			return fmt.Errorf("%w: invalid transition from %s to %s", faults.ErrValidation, current.CurrentState, nextState)
		}

		if err := s.authorizeTransition(ctx, tx, current, actorID, actorRole, nextState); err != nil {
			return err
		}

		var confirmation *models.UserConfirmation
		if nextState == models.StateSubmitted && current.FilingMode == models.ModeCA {
			confirmation, err = s.repos.Confirmations(tx).LatestByFiling(ctx, filingID)
			if err != nil || confirmation.ConfirmationType != models.ConfirmationFilingApproval {
				return fmt.Errorf("%w: submission requires a recorded taxpayer approval", faults.ErrValidation)
			}
		}

		before := *current
		current.CurrentState = nextState
		current.UpdatedAt = now
		if nextState == models.StateSubmitted {
			submittedAt := now
			current.SubmittedAt = &submittedAt
		}
		if err := s.repos.Filings(tx).UpdateState(ctx, current); err != nil {
			return err
		}

		if nextState == models.StateSubmitted {
			det, err := s.repos.Determinations(tx).FindByID(ctx, current.ITRDeterminationID)
			if err != nil {
				return err
			}
			payload := map[string]any{
				"filing":       current,
				"itr_type":     det.ITRType,
				"actor_id":     actorID,
				"actor_role":   actorRole,
				"submitted_at": now.Format(time.RFC3339Nano),
			}
			if confirmation != nil {
				payload["confirmation_id"] = confirmation.ID
			}
			urn := fmt.Sprintf("urn:filing:%s:submission", filingID)
			if _, err := s.evidence.Capture(ctx, tx, payload, urn, SubmissionRetentionYears); err != nil {
				return err
			}
		}

		if _, err := s.audit.LogAction(ctx, tx, audit.Action{
			ActorID:   actorID,
			ActorRole: actorRole,
			Name:      models.AuditFilingStateTransition,
			Before:    &before,
			After:     current,
			IPAddress: origin.IPAddress,
			DeviceID:  origin.DeviceID,
		}); err != nil {
			return err
		}
		obs.FilingTransitions.WithLabelValues(before.CurrentState, nextState).Inc()
		filing = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return filing, nil
}

// authorizeTransition enforces the per-edge actor rules. Since transitions
// are forward-only, nextState alone identifies the edge being taken. The
// LOCKED edge is the taxpayer-approval step and stays owner-only even in CA
// mode; the other two edges belong to the validated assigned CA when the
// filing is delegated, and to the owner otherwise.
func (s *Service) authorizeTransition(ctx context.Context, tx dbx.DBTX, current *models.FilingCase, actorID, actorRole, nextState string) error {
	if nextState == models.StateLocked || current.FilingMode != models.ModeCA {
		if current.UserID != actorID {
			return fmt.Errorf("%w: actor may not operate on this filing", faults.ErrUnauthorized)
		}
		return nil
	}
	if actorRole != models.RoleCA {
		return fmt.Errorf("%w: only the assigned CA may drive a delegated filing", faults.ErrUnauthorized)
	}
	_, err := s.delegation.ValidateAccess(ctx, tx, current.ID, actorID)
	return err
}

// ApproveFiling records the taxpayer's explicit approval of a case in
// READY_FOR_REVIEW and locks it. Only the owning taxpayer may approve.
func (s *Service) ApproveFiling(ctx context.Context, filingID, userID string, origin Origin) (*models.FilingCase, error) {
	now := s.now().UTC()
	var filing *models.FilingCase
	err := s.runner.InTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		current, err := s.repos.Filings(tx).FindByIDForUpdate(ctx, filingID)
		if err != nil {
			return err
		}
		if current.UserID != userID {
			return fmt.Errorf("%w: only the owning taxpayer may approve", faults.ErrUnauthorized)
		}
		owner, err := s.repos.Users(tx).FindByID(ctx, userID)
		if err != nil {
			return err
		}
		if current.CurrentState != models.StateReadyForReview {
			return fmt.Errorf("%w: approval requires state %s, case is %s", faults.ErrValidation, models.StateReadyForReview, current.CurrentState)
		}

		confirmation := &models.UserConfirmation{
			FilingID:         filingID,
			ConfirmationType: models.ConfirmationFilingApproval,
			ConfirmedBy:      userID,
			OriginAddress:    origin.IPAddress,
			ConfirmedAt:      now,
		}
		if err := s.repos.Confirmations(tx).Create(ctx, confirmation); err != nil {
			return err
		}

		before := *current
		current.CurrentState = models.StateLocked
		current.UpdatedAt = now
		if err := s.repos.Filings(tx).UpdateState(ctx, current); err != nil {
			return err
		}

		payload := map[string]any{
			"filing":          current,
			"confirmation_id": confirmation.ID,
			"approved_by":     userID,
			"approved_at":     now.Format(time.RFC3339Nano),
		}
		urn := fmt.Sprintf("urn:filing:%s:approval", filingID)
		if _, err := s.evidence.Capture(ctx, tx, payload, urn, evidence.DefaultRetentionYears); err != nil {
			return err
		}

		if _, err := s.audit.LogAction(ctx, tx, audit.Action{
			ActorID:   userID,
			ActorRole: owner.Role,
			Name:      models.AuditFilingApproved,
			Before:    &before,
			After:     current,
			IPAddress: origin.IPAddress,
			DeviceID:  origin.DeviceID,
		}); err != nil {
			return err
		}
		obs.FilingTransitions.WithLabelValues(before.CurrentState, models.StateLocked).Inc()
		filing = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return filing, nil
}
