// Package evidence implements the evidence capture subsystem: deterministic
// canonicalization, content hashing, blob persistence and the metadata
// record that ties them together.
package evidence

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"veritax.org/internal/blob"
	"veritax.org/internal/dbx"
	"veritax.org/internal/models"
	"veritax.org/internal/obs"
	"veritax.org/internal/repositories/repomanager"
)

// DefaultRetentionYears applies when the caller does not name a policy.
const DefaultRetentionYears = 5

// Service captures evidence records. The blob write is synchronous on the
// caller's transaction path: if it fails, the surrounding operation aborts
// and no metadata row survives.
type Service struct {
	repos repomanager.Manager
	blobs blob.Store
	now   func() time.Time
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

func NewService(repos repomanager.Manager, blobs blob.Store, opts ...Option) *Service {
	s := &Service{repos: repos, blobs: blobs, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Hash returns the SHA-256 hex digest of the canonical encoding of payload.
func Hash(payload any) (string, error) {
	canonical, err := Canonicalize(payload)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

// Capture canonicalizes payload, hashes it, writes the canonical bytes to
// the blob store under evidence/<YYYY>/<MM>/<hash>.json and persists the
// metadata record through the given handle. Identical payloads always
// produce the same hash and path; the metadata row is inserted fresh on
// every call, so callers must not invoke Capture twice for one logical
// event.
func (s *Service) Capture(ctx context.Context, db dbx.DBTX, payload any, actionURN string, retentionYears int) (*models.EvidenceRecord, error) {
	if retentionYears <= 0 {
		retentionYears = DefaultRetentionYears
	}

	canonical, err := Canonicalize(payload)
	if err != nil {
		return nil, err
	}
	sum := sha256.Sum256(canonical)
	hash := hex.EncodeToString(sum[:])

	now := s.now().UTC()
	path := fmt.Sprintf("evidence/%04d/%02d/%s.json", now.Year(), int(now.Month()), hash)

	location, err := s.blobs.Write(ctx, path, canonical)
	if err != nil {
		return nil, fmt.Errorf("evidence blob write: %w", err)
	}

	rec := &models.EvidenceRecord{
		RelatedAction:   actionURN,
		Hash:            hash,
		StorageLocation: location,
		RetentionExpiry: now.AddDate(0, 0, 365*retentionYears),
		CreatedAt:       now,
	}
	if err := s.repos.Evidence(db).Create(ctx, rec); err != nil {
		return nil, err
	}
	obs.EvidenceCaptures.Inc()
	return rec, nil
}

// Verify recomputes the content hash of payload and compares it with the
// hash stored on the record.
func Verify(rec *models.EvidenceRecord, payload any) (bool, error) {
	hash, err := Hash(payload)
	if err != nil {
		return false, err
	}
	return hash == rec.Hash, nil
}
