package models

import "time"

// Filing case lifecycle states. Transitions are strictly forward-only; no
// state is skipped and nothing moves backwards.
const (
	StateDraft          = "DRAFT"
	StateReadyForReview = "READY_FOR_REVIEW"
	StateLocked         = "LOCKED"
	StateSubmitted      = "SUBMITTED" // terminal
)

// Filing modes. SELF: the taxpayer drives every transition. CA: an assigned
// preparer drives preparation and submission while approval stays with the
// taxpayer.
const (
	ModeSelf = "SELF"
	ModeCA   = "CA"
)

// transitions is the allowed-successor set per state.
var transitions = map[string][]string{
	StateDraft:          {StateReadyForReview},
	StateReadyForReview: {StateLocked},
	StateLocked:         {StateSubmitted},
	StateSubmitted:      {},
}

// ValidState reports whether s is a member of the lifecycle.
func ValidState(s string) bool {
	_, ok := transitions[s]
	return ok
}

// ValidMode reports whether m is a known filing mode.
func ValidMode(m string) bool {
	return m == ModeSelf || m == ModeCA
}

// CanTransition reports whether next is a legal successor of current.
func CanTransition(current, next string) bool {
	for _, s := range transitions[current] {
		if s == next {
			return true
		}
	}
	return false
}

// FilingCase is one tax return for one taxpayer and financial year. It is
// created only against a locked ITR determination, mutated only through
// state transitions and never deleted. Unique per (user, year) and per
// determination.
type FilingCase struct {
	ID                 string     `json:"id"`
	UserID             string     `json:"user_id"`
	FinancialYear      string     `json:"financial_year"`
	ITRDeterminationID string     `json:"itr_determination_id"`
	FilingMode         string     `json:"filing_mode"`
	CurrentState       string     `json:"current_state"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
	SubmittedAt        *time.Time `json:"submitted_at,omitempty"`
}

// Confirmation types.
const (
	ConfirmationFilingApproval = "FILING_APPROVAL"
)

// UserConfirmation is the taxpayer's explicit approval artifact for a filing
// action. Append-only; the latest row per filing is the authoritative record
// of approval.
type UserConfirmation struct {
	ID               string    `json:"id"`
	FilingID         string    `json:"filing_id"`
	ConfirmationType string    `json:"confirmation_type"`
	ConfirmedBy      string    `json:"confirmed_by"`
	OriginAddress    string    `json:"origin_address"`
	ConfirmedAt      time.Time `json:"confirmed_at"`
}
