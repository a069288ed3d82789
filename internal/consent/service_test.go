package consent

import (
	"context"
	"errors"
	"testing"
	"time"

	"veritax.org/internal/blob"
	"veritax.org/internal/dbx"
	"veritax.org/internal/evidence"
	"veritax.org/internal/faults"
	"veritax.org/internal/models"
	"veritax.org/internal/repositories/repomanager"
)

var fixedNow = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, *repomanager.MemoryManager, *blob.MemoryStore) {
	t.Helper()
	repos := repomanager.NewMemoryManager()
	blobs := blob.NewMemoryStore()
	clock := func() time.Time { return fixedNow }
	ev := evidence.NewService(repos, blobs, evidence.WithClock(clock))
	svc := NewService(dbx.Passthrough{}, repos, ev, WithClock(clock))
	return svc, repos, blobs
}

func TestGrantRejectsPastExpiry(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.Grant(context.Background(), "user-1", "tax filing", "filing:read", fixedNow.Add(-time.Hour))
	if !errors.Is(err, faults.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestGrantCreatesArtifactEvidenceAndAudit(t *testing.T) {
	svc, repos, blobs := newTestService(t)
	ctx := context.Background()

	artifact, err := svc.Grant(ctx, "user-1", "tax filing", "filing:read", fixedNow.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("grant: %v", err)
	}
	if artifact.ID == "" {
		t.Fatal("expected artifact id to be assigned")
	}
	if artifact.Status != models.ConsentActive {
		t.Fatalf("expected ACTIVE, got %s", artifact.Status)
	}

	recs, err := repos.Evidence(nil).ListByAction(ctx, "urn:consent:"+artifact.ID+":grant")
	if err != nil {
		t.Fatalf("list evidence: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 evidence record, got %d", len(recs))
	}
	if blobs.Len() != 1 {
		t.Fatalf("expected 1 blob, got %d", blobs.Len())
	}

	entries, err := repos.ConsentAudit(nil).ListByConsent(ctx, artifact.ID)
	if err != nil {
		t.Fatalf("list audit: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 audit entry, got %d", len(entries))
	}
	if entries[0].Action != models.ConsentActionGranted {
		t.Fatalf("expected GRANTED, got %s", entries[0].Action)
	}
}

func TestRevokeMissingConsent(t *testing.T) {
	svc, _, _ := newTestService(t)
	err := svc.Revoke(context.Background(), "no-such-id", "user-1", "changed my mind")
	if !errors.Is(err, faults.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRevokeByNonOwner(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	artifact, err := svc.Grant(ctx, "user-1", "tax filing", "filing:read", fixedNow.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("grant: %v", err)
	}
	err = svc.Revoke(ctx, artifact.ID, "user-2", "not mine")
	if !errors.Is(err, faults.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestRevokeTwice(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	artifact, err := svc.Grant(ctx, "user-1", "tax filing", "filing:read", fixedNow.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("grant: %v", err)
	}
	if err := svc.Revoke(ctx, artifact.ID, "user-1", "done"); err != nil {
		t.Fatalf("first revoke: %v", err)
	}
	err = svc.Revoke(ctx, artifact.ID, "user-1", "again")
	if !errors.Is(err, faults.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestRevokeWritesEvidenceAndAudit(t *testing.T) {
	svc, repos, _ := newTestService(t)
	ctx := context.Background()
	artifact, err := svc.Grant(ctx, "user-1", "tax filing", "filing:read", fixedNow.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("grant: %v", err)
	}
	if err := svc.Revoke(ctx, artifact.ID, "user-1", "no longer needed"); err != nil {
		t.Fatalf("revoke: %v", err)
	}

	stored, err := repos.Consents(nil).FindByID(ctx, artifact.ID)
	if err != nil {
		t.Fatalf("find consent: %v", err)
	}
	if stored.Status != models.ConsentRevoked {
		t.Fatalf("expected REVOKED, got %s", stored.Status)
	}

	recs, err := repos.Evidence(nil).ListByAction(ctx, "urn:consent:"+artifact.ID+":revocation")
	if err != nil {
		t.Fatalf("list evidence: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 revocation evidence record, got %d", len(recs))
	}

	entries, err := repos.ConsentAudit(nil).ListByConsent(ctx, artifact.ID)
	if err != nil {
		t.Fatalf("list audit: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 audit entries, got %d", len(entries))
	}
	last := entries[len(entries)-1]
	if last.Action != models.ConsentActionRevoked {
		t.Fatalf("expected REVOKED action, got %s", last.Action)
	}
	if last.Reason != "no longer needed" {
		t.Fatalf("unexpected reason %q", last.Reason)
	}
}

func TestGetResolvesLazyExpiry(t *testing.T) {
	svc, repos, _ := newTestService(t)
	ctx := context.Background()

	// Stored as ACTIVE but already past expiry.
	lapsed := &models.ConsentArtifact{
		UserID:    "user-1",
		Purpose:   "tax filing",
		Scope:     "filing:read",
		GrantedAt: fixedNow.Add(-48 * time.Hour),
		ExpiryAt:  fixedNow.Add(-time.Hour),
		Status:    models.ConsentActive,
	}
	if err := repos.Consents(nil).Create(ctx, lapsed); err != nil {
		t.Fatalf("seed consent: %v", err)
	}

	got, err := svc.Get(ctx, lapsed.ID, "user-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != models.ConsentExpired {
		t.Fatalf("expected EXPIRED effective status, got %s", got.Status)
	}

	stored, err := repos.Consents(nil).FindByID(ctx, lapsed.ID)
	if err != nil {
		t.Fatalf("find consent: %v", err)
	}
	if stored.Status != models.ConsentActive {
		t.Fatalf("stored status should be untouched, got %s", stored.Status)
	}

	if _, err := svc.Get(ctx, lapsed.ID, "user-2"); !errors.Is(err, faults.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for non-owner, got %v", err)
	}
}
