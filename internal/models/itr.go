package models

import "time"

// ITR form types.
const (
	ITRType1 = "ITR-1"
	ITRType2 = "ITR-2"
	ITRType3 = "ITR-3"
)

// ITRDetermination is the locked output of the form-type determination
// engine. The filing workflow only ever reads it: a case can be opened
// against a determination once it is locked, and the determination is
// immutable from then on.
type ITRDetermination struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	FinancialYear string    `json:"financial_year"`
	ITRType       string    `json:"itr_type"`
	Reason        string    `json:"reason"`
	IsLocked      bool      `json:"is_locked"`
	DeterminedAt  time.Time `json:"determined_at"`
	CreatedAt     time.Time `json:"created_at"`
}
