package models

import "time"

// EvidenceRecord is a hash-addressed pointer to a retained snapshot of a
// legally significant action. The canonical bytes live in blob storage at
// StorageLocation; the hash is a deterministic function of the canonicalized
// payload. Created once per action, never mutated.
type EvidenceRecord struct {
	ID              string    `json:"id"`
	RelatedAction   string    `json:"related_action"` // URN, e.g. urn:filing:<id>:submission
	Hash            string    `json:"hash"`           // SHA-256 hex of the canonical payload
	StorageLocation string    `json:"storage_location"`
	RetentionExpiry time.Time `json:"retention_expiry"`
	CreatedAt       time.Time `json:"created_at"`
}
