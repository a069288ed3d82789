package models

import "time"

// System audit actions recorded by the filing workflow.
const (
	AuditFilingCaseCreated     = "FILING_CASE_CREATED"
	AuditFilingStateTransition = "FILING_STATE_TRANSITION"
	AuditFilingApproved        = "FILING_APPROVED"
)

// AuditLogEntry is one row of the append-only system ledger. Before and
// after values are opaque JSON documents captured inside the same
// transaction as the mutation they describe.
type AuditLogEntry struct {
	ID          string    `json:"id"`
	ActorID     string    `json:"actor_id"`
	ActorRole   string    `json:"actor_role"`
	Action      string    `json:"action"`
	BeforeValue []byte    `json:"before_value,omitempty"`
	AfterValue  []byte    `json:"after_value,omitempty"`
	IPAddress   string    `json:"ip_address,omitempty"`
	DeviceID    string    `json:"device_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
