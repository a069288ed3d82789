package compliance

import (
	"context"

	"veritax.org/internal/dbx"
	"veritax.org/internal/repositories/repomanager"
)

// Service runs the rule set over a taxpayer's entries for a year.
type Service struct {
	runner dbx.Runner
	repos  repomanager.Manager
	rules  []Rule
}

func NewService(runner dbx.Runner, repos repomanager.Manager, rules []Rule) *Service {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Service{runner: runner, repos: repos, rules: rules}
}

// Check evaluates every rule in order and collects violations. An empty
// slice means a clean year.
func (s *Service) Check(ctx context.Context, userID, financialYear string) ([]Violation, error) {
	violations := []Violation{}
	err := s.runner.InTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		entries, err := s.repos.Financials(tx).ListByUserAndYear(ctx, userID, financialYear)
		if err != nil {
			return err
		}
		for _, rule := range s.rules {
			if v, bad := rule.Evaluate(entries); bad {
				violations = append(violations, *v)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return violations, nil
}
