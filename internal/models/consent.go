package models

import "time"

// Consent statuses as persisted. EXPIRED is never written to storage: expiry
// is evaluated lazily against the clock at the point of use.
const (
	ConsentActive  = "ACTIVE"
	ConsentRevoked = "REVOKED"
	ConsentExpired = "EXPIRED"
)

// ConsentArtifact is a taxpayer's time-bounded authorization for a purpose
// and scope. Never hard-deleted; immutable once revoked.
type ConsentArtifact struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Purpose   string    `json:"purpose"`
	Scope     string    `json:"scope"`
	GrantedAt time.Time `json:"granted_at"`
	ExpiryAt  time.Time `json:"expiry_at"`
	Status    string    `json:"status"`
}

// EffectiveStatus resolves the lazy-expiry rule: an ACTIVE artifact past its
// expiry reads as EXPIRED without being rewritten in storage.
func (c *ConsentArtifact) EffectiveStatus(now time.Time) string {
	if c.Status == ConsentActive && !c.ExpiryAt.After(now) {
		return ConsentExpired
	}
	return c.Status
}

// Usable reports whether the consent may back a delegation right now:
// ACTIVE and expiry strictly in the future.
func (c *ConsentArtifact) Usable(now time.Time) bool {
	return c.Status == ConsentActive && c.ExpiryAt.After(now)
}

// Consent audit actions.
const (
	ConsentActionGranted  = "GRANTED"
	ConsentActionRevoked  = "REVOKED"
	ConsentActionAssigned = "ASSIGNED"
)

// ConsentAuditLog records a lifecycle event of a consent artifact.
// Append-only.
type ConsentAuditLog struct {
	ID        string    `json:"id"`
	ConsentID string    `json:"consent_id"`
	Action    string    `json:"action"`
	ActorID   string    `json:"actor_id"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}

// Assignment statuses.
const (
	AssignmentActive   = "ACTIVE"
	AssignmentRevoked  = "REVOKED"
	AssignmentReplaced = "REPLACED"
)

// CAAssignment binds one preparer to one filing case under one consent. At
// most one ACTIVE assignment exists per filing at a time.
type CAAssignment struct {
	ID         string    `json:"id"`
	FilingID   string    `json:"filing_id"`
	CAUserID   string    `json:"ca_user_id"`
	ConsentID  string    `json:"consent_id"`
	AssignedAt time.Time `json:"assigned_at"`
	Status     string    `json:"status"`
}
