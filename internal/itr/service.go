package itr

import (
	"context"
	"fmt"
	"time"

	"veritax.org/internal/dbx"
	"veritax.org/internal/faults"
	"veritax.org/internal/models"
	"veritax.org/internal/repositories/repomanager"
)

// Service records financial entries and persists determinations.
type Service struct {
	runner dbx.Runner
	repos  repomanager.Manager
	now    func() time.Time
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

func NewService(runner dbx.Runner, repos repomanager.Manager, opts ...Option) *Service {
	s := &Service{runner: runner, repos: repos, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RecordEntry stores one income or expense line. Amounts are minor currency
// units and must be positive.
func (s *Service) RecordEntry(ctx context.Context, userID, financialYear, entryType, category string, amount int64) (*models.FinancialEntry, error) {
	if entryType != models.EntryIncome && entryType != models.EntryExpense {
		return nil, fmt.Errorf("%w: unknown entry type %q", faults.ErrValidation, entryType)
	}
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", faults.ErrValidation)
	}
	if category == "" {
		return nil, fmt.Errorf("%w: category is required", faults.ErrValidation)
	}
	entry := &models.FinancialEntry{
		UserID:        userID,
		FinancialYear: financialYear,
		EntryType:     entryType,
		Category:      category,
		Amount:        amount,
		CreatedAt:     s.now().UTC(),
	}
	err := s.runner.InTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		return s.repos.Financials(tx).Create(ctx, entry)
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Determine classifies the taxpayer's entries for a year and persists the
// result. One determination per (taxpayer, year); re-running against an
// existing one fails rather than silently replacing it.
func (s *Service) Determine(ctx context.Context, userID, financialYear string) (*models.ITRDetermination, error) {
	now := s.now().UTC()
	var det *models.ITRDetermination
	err := s.runner.InTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repos.Determinations(tx).FindByUserAndYear(ctx, userID, financialYear); err == nil {
			return fmt.Errorf("%w: a determination already exists for %s", faults.ErrValidation, financialYear)
		}
		entries, err := s.repos.Financials(tx).ListByUserAndYear(ctx, userID, financialYear)
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			return fmt.Errorf("%w: no financial entries recorded for %s", faults.ErrValidation, financialYear)
		}
		itrType, reason := Classify(entries)
		det = &models.ITRDetermination{
			UserID:        userID,
			FinancialYear: financialYear,
			ITRType:       itrType,
			Reason:        reason,
			DeterminedAt:  now,
			CreatedAt:     now,
		}
		return s.repos.Determinations(tx).Create(ctx, det)
	})
	if err != nil {
		return nil, err
	}
	return det, nil
}

// Lock makes a determination immutable so a filing case can open against
// it. Owner-only; locking an already locked determination is a no-op.
func (s *Service) Lock(ctx context.Context, determinationID, userID string) (*models.ITRDetermination, error) {
	var det *models.ITRDetermination
	err := s.runner.InTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		found, err := s.repos.Determinations(tx).FindByID(ctx, determinationID)
		if err != nil {
			return err
		}
		if found.UserID != userID {
			return fmt.Errorf("%w: determination %s is not owned by caller", faults.ErrUnauthorized, determinationID)
		}
		if !found.IsLocked {
			if err := s.repos.Determinations(tx).Lock(ctx, determinationID); err != nil {
				return err
			}
			found.IsLocked = true
		}
		det = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return det, nil
}
