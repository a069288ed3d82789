// Package compliance evaluates a taxpayer's financial entries against a
// fixed, ordered set of plausibility rules and reports violations. Rules are
// advisory; they never block the filing workflow.
package compliance

import (
	"fmt"

	"veritax.org/internal/models"
)

// Violation is one rule breach for a taxpayer and year.
type Violation struct {
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// Rule inspects a year's entries and reports at most one violation.
type Rule interface {
	Name() string
	Evaluate(entries []*models.FinancialEntry) (*Violation, bool)
}

// HighExpenseThreshold is the total-expense ceiling in minor currency
// units (paise) above which spending must be explained.
const HighExpenseThreshold int64 = 500_000_000

// HighTotalExpense flags a year whose summed expenses exceed the threshold.
type HighTotalExpense struct {
	Threshold int64
}

func (r HighTotalExpense) Name() string { return "HIGH_TOTAL_EXPENSE" }

func (r HighTotalExpense) Evaluate(entries []*models.FinancialEntry) (*Violation, bool) {
	threshold := r.Threshold
	if threshold <= 0 {
		threshold = HighExpenseThreshold
	}
	var total int64
	for _, e := range entries {
		if e.EntryType == models.EntryExpense {
			total += e.Amount
		}
	}
	if total <= threshold {
		return nil, false
	}
	return &Violation{
		Rule:    r.Name(),
		Message: fmt.Sprintf("total expenses %d exceed threshold %d", total, threshold),
	}, true
}

// ExpenseWithoutIncome flags a year that records expenses but no income at
// all.
type ExpenseWithoutIncome struct{}

func (r ExpenseWithoutIncome) Name() string { return "EXPENSE_WITHOUT_INCOME" }

func (r ExpenseWithoutIncome) Evaluate(entries []*models.FinancialEntry) (*Violation, bool) {
	hasExpense := false
	for _, e := range entries {
		switch e.EntryType {
		case models.EntryIncome:
			return nil, false
		case models.EntryExpense:
			hasExpense = true
		}
	}
	if !hasExpense {
		return nil, false
	}
	return &Violation{
		Rule:    r.Name(),
		Message: "expenses recorded without any income",
	}, true
}

// DefaultRules returns the standard rule set in evaluation order.
func DefaultRules() []Rule {
	return []Rule{
		HighTotalExpense{},
		ExpenseWithoutIncome{},
	}
}
