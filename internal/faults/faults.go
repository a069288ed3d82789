// Package faults defines the three error kinds shared by every operation in
// the filing, consent and delegation services. Callers classify failures with
// errors.Is; operations add context with fmt.Errorf and the %w verb:
//
//	return fmt.Errorf("%w: consent %s", faults.ErrNotFound, id)
//
// The HTTP boundary is the only place these are translated to status codes.
package faults

import "errors"

var (
	// ErrNotFound: the referenced entity (filing, consent, determination,
	// CA user, assignment) does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized: the caller is not the legitimate party for the
	// action (ownership mismatch, wrong role, inactive or expired consent
	// or assignment).
	ErrUnauthorized = errors.New("unauthorized")

	// ErrValidation: the request is well-formed but violates a business
	// invariant (illegal state transition, mode mismatch, duplicate case
	// or assignment, expiry in the past).
	ErrValidation = errors.New("validation failed")
)
