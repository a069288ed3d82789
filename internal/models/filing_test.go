package models

import (
	"testing"
	"time"
)

func TestCanTransitionForwardOnly(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{StateDraft, StateReadyForReview, true},
		{StateReadyForReview, StateLocked, true},
		{StateLocked, StateSubmitted, true},
		// no skips
		{StateDraft, StateLocked, false},
		{StateDraft, StateSubmitted, false},
		{StateReadyForReview, StateSubmitted, false},
		// no backward edges
		{StateReadyForReview, StateDraft, false},
		{StateLocked, StateReadyForReview, false},
		{StateSubmitted, StateLocked, false},
		// terminal
		{StateSubmitted, StateDraft, false},
		// unknown states
		{"UNKNOWN", StateDraft, false},
		{StateDraft, "UNKNOWN", false},
	}
	for _, c := range cases {
		if got := CanTransition(c.from, c.to); got != c.want {
			t.Fatalf("CanTransition(%s, %s) = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestConsentEffectiveStatus(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	active := &ConsentArtifact{Status: ConsentActive, ExpiryAt: now.Add(time.Hour)}
	if got := active.EffectiveStatus(now); got != ConsentActive {
		t.Fatalf("unexpired active consent reads %s", got)
	}
	if !active.Usable(now) {
		t.Fatal("unexpired active consent should be usable")
	}

	lapsed := &ConsentArtifact{Status: ConsentActive, ExpiryAt: now.Add(-time.Minute)}
	if got := lapsed.EffectiveStatus(now); got != ConsentExpired {
		t.Fatalf("lapsed consent reads %s, want EXPIRED", got)
	}
	if lapsed.Usable(now) {
		t.Fatal("lapsed consent must not be usable")
	}

	// expiry exactly now is not strictly in the future
	edge := &ConsentArtifact{Status: ConsentActive, ExpiryAt: now}
	if edge.Usable(now) {
		t.Fatal("consent expiring exactly now must not be usable")
	}

	revoked := &ConsentArtifact{Status: ConsentRevoked, ExpiryAt: now.Add(time.Hour)}
	if got := revoked.EffectiveStatus(now); got != ConsentRevoked {
		t.Fatalf("revoked consent reads %s", got)
	}
}
