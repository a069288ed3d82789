package models

import "time"

// Financial entry types.
const (
	EntryIncome  = "INCOME"
	EntryExpense = "EXPENSE"
)

// FinancialEntry is one income or expense line for a financial year.
// Amounts are in minor currency units (paise); no floats.
type FinancialEntry struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	FinancialYear string    `json:"financial_year"`
	EntryType     string    `json:"entry_type"`
	Category      string    `json:"category"`
	Amount        int64     `json:"amount"` // minor units
	CreatedAt     time.Time `json:"created_at"`
}
