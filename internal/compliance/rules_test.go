package compliance

import (
	"context"
	"testing"

	"veritax.org/internal/dbx"
	"veritax.org/internal/models"
	"veritax.org/internal/repositories/repomanager"
)

func entry(entryType, category string, amount int64) *models.FinancialEntry {
	return &models.FinancialEntry{
		UserID:        "user-1",
		FinancialYear: "2025-26",
		EntryType:     entryType,
		Category:      category,
		Amount:        amount,
	}
}

func TestHighTotalExpense(t *testing.T) {
	rule := HighTotalExpense{}

	if _, bad := rule.Evaluate([]*models.FinancialEntry{
		entry(models.EntryExpense, "RENT", HighExpenseThreshold),
	}); bad {
		t.Fatal("total at threshold should pass")
	}

	v, bad := rule.Evaluate([]*models.FinancialEntry{
		entry(models.EntryExpense, "RENT", HighExpenseThreshold),
		entry(models.EntryExpense, "TRAVEL", 1),
		entry(models.EntryIncome, "SALARY", 1), // income does not offset
	})
	if !bad {
		t.Fatal("total above threshold should flag")
	}
	if v.Rule != "HIGH_TOTAL_EXPENSE" {
		t.Fatalf("unexpected rule name %q", v.Rule)
	}
}

func TestExpenseWithoutIncome(t *testing.T) {
	rule := ExpenseWithoutIncome{}

	if _, bad := rule.Evaluate(nil); bad {
		t.Fatal("empty year should pass")
	}
	if _, bad := rule.Evaluate([]*models.FinancialEntry{
		entry(models.EntryExpense, "RENT", 100),
		entry(models.EntryIncome, "SALARY", 100),
	}); bad {
		t.Fatal("expenses with income should pass")
	}
	if _, bad := rule.Evaluate([]*models.FinancialEntry{
		entry(models.EntryExpense, "RENT", 100),
	}); !bad {
		t.Fatal("expenses without income should flag")
	}
}

func TestServiceCheckCollectsInOrder(t *testing.T) {
	repos := repomanager.NewMemoryManager()
	ctx := context.Background()
	seed := []*models.FinancialEntry{
		entry(models.EntryExpense, "RENT", HighExpenseThreshold+1),
	}
	for _, e := range seed {
		if err := repos.Financials(nil).Create(ctx, e); err != nil {
			t.Fatalf("seed entry: %v", err)
		}
	}

	svc := NewService(dbx.Passthrough{}, repos, nil)
	violations, err := svc.Check(ctx, "user-1", "2025-26")
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if len(violations) != 2 {
		t.Fatalf("expected 2 violations, got %d: %+v", len(violations), violations)
	}
	if violations[0].Rule != "HIGH_TOTAL_EXPENSE" || violations[1].Rule != "EXPENSE_WITHOUT_INCOME" {
		t.Fatalf("unexpected order %+v", violations)
	}

	clean, err := svc.Check(ctx, "user-1", "2019-20")
	if err != nil {
		t.Fatalf("check clean year: %v", err)
	}
	if len(clean) != 0 {
		t.Fatalf("expected no violations, got %+v", clean)
	}
}
