// Package httpapi is the HTTP boundary of the filing service. It
// authenticates bearer tokens, decodes requests, dispatches to the domain
// services and maps their typed failures to status codes.
package httpapi

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"veritax.org/internal/audit"
	"veritax.org/internal/compliance"
	"veritax.org/internal/consent"
	"veritax.org/internal/dbx"
	"veritax.org/internal/delegation"
	"veritax.org/internal/faults"
	"veritax.org/internal/filing"
	"veritax.org/internal/identity"
	"veritax.org/internal/itr"
	"veritax.org/internal/obs"
	"veritax.org/internal/repositories/repomanager"
)

// ReadyProbe checks readiness (for example a DB ping).
type ReadyProbe struct {
	DB *sql.DB
}

func (rp ReadyProbe) Check(ctx context.Context) error {
	if rp.DB == nil {
		return nil
	}
	return rp.DB.PingContext(ctx)
}

// Deps collects everything the HTTP layer dispatches to.
type Deps struct {
	Runner         dbx.Runner
	Repos          repomanager.Manager
	Tokens         *identity.Tokens
	Filings        *filing.Service
	Consents       *consent.Service
	Delegations    *delegation.Service
	Determinations *itr.Service
	Compliance     *compliance.Service
	Audits         *audit.Service
}

// API is the HTTP layer.
type API struct {
	mux        *http.ServeMux
	readyProbe ReadyProbe
	version    string

	runner         dbx.Runner
	repos          repomanager.Manager
	tokens         *identity.Tokens
	filings        *filing.Service
	consents       *consent.Service
	delegations    *delegation.Service
	determinations *itr.Service
	compliance     *compliance.Service
	audits         *audit.Service

	rateBurst     int
	ratePerSecond float64
	stopRateLimit func()
}

// Option configures the API.
type Option func(*API)

// WithRateLimit sets the per-client token bucket. Zero disables throttling.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(a *API) {
		a.ratePerSecond = perSecond
		a.rateBurst = burst
	}
}

func New(rp ReadyProbe, d Deps, version string, opts ...Option) *API {
	a := &API{
		mux:            http.NewServeMux(),
		readyProbe:     rp,
		version:        version,
		runner:         d.Runner,
		repos:          d.Repos,
		tokens:         d.Tokens,
		filings:        d.Filings,
		consents:       d.Consents,
		delegations:    d.Delegations,
		determinations: d.Determinations,
		compliance:     d.Compliance,
		audits:         d.Audits,
	}
	for _, opt := range opts {
		opt(a)
	}

	// health/ready/info
	a.mux.HandleFunc("/healthz", a.Healthz)
	a.mux.HandleFunc("/readyz", a.Ready)
	a.mux.HandleFunc("/v1/info", a.Info)

	// Prometheus metrics
	a.mux.Handle("/metrics", obs.Handler())

	// identity
	a.mux.HandleFunc("/v1/users", a.handleUsers)
	a.mux.HandleFunc("/v1/auth/token", a.handleToken)

	// financial profile and determination
	a.mux.HandleFunc("/v1/entries", a.handleEntries)
	a.mux.HandleFunc("/v1/determinations", a.handleDeterminations)
	a.mux.HandleFunc("/v1/determinations/", a.handleDeterminationResource)
	a.mux.HandleFunc("/v1/compliance", a.handleCompliance)

	// filing workflow
	a.mux.HandleFunc("/v1/filings", a.handleFilings)
	a.mux.HandleFunc("/v1/filings/", a.handleFilingResource)

	// trust subsystem
	a.mux.HandleFunc("/v1/consents", a.handleConsents)
	a.mux.HandleFunc("/v1/consents/", a.handleConsentResource)
	a.mux.HandleFunc("/v1/audit/logs", a.handleAuditLogs)

	a.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	return a
}

// Handler returns the fully wrapped http.Handler for the server.
func (a *API) Handler() http.Handler {
	h := obs.Instrument(a.mux)
	h = a.withAuth(h)
	if a.ratePerSecond > 0 {
		h, a.stopRateLimit = RateLimit(h, a.rateBurst, a.ratePerSecond)
	}
	h = RequestID(h)
	h = Logging(h)
	h = SecurityHeaders(h)
	return h
}

// Close stops background work started by the middleware chain. Safe to call
// more than once.
func (a *API) Close() {
	if a.stopRateLimit != nil {
		a.stopRateLimit()
	}
}

// --- Handlers ---

func (a *API) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "veritax-api",
		"version": a.version,
	})
}

func (a *API) Ready(w http.ResponseWriter, r *http.Request) {
	if err := a.readyProbe.Check(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not_ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ready",
	})
}

func (a *API) Info(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    "veritax-api",
		"time":    time.Now().UTC().Format(time.RFC3339),
		"version": a.version,
	})
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, code int, msg string) {
	payload := map[string]any{
		"error": msg,
	}
	if rid := RequestIDFromContext(r.Context()); rid != "" {
		payload["request_id"] = rid
	}
	writeJSON(w, code, payload)
}

// handleServiceError maps the shared typed failures to status codes.
func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, faults.ErrNotFound):
		writeError(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, faults.ErrUnauthorized):
		writeError(w, r, http.StatusForbidden, err.Error())
	case errors.Is(err, faults.ErrValidation):
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
	default:
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request, allowed string) {
	w.Header().Set("Allow", allowed)
	writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	reader := http.MaxBytesReader(w, r.Body, 1<<20)
	defer reader.Close()
	dec := json.NewDecoder(reader)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is required")
		}
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err == nil {
			return errors.New("unexpected data after JSON body")
		}
		return err
	}
	return nil
}
