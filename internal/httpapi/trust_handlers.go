package httpapi

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"veritax.org/internal/dbx"
	"veritax.org/internal/models"
)

type grantConsentRequest struct {
	Purpose  string    `json:"purpose"`
	Scope    string    `json:"scope"`
	ExpiryAt time.Time `json:"expiry_at"`
}

type revokeConsentRequest struct {
	Reason string `json:"reason"`
}

func (a *API) handleConsents(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		a.grantConsent(w, r)
	default:
		methodNotAllowed(w, r, "POST")
	}
}

func (a *API) handleConsentResource(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/v1/consents/")
	parts := strings.Split(strings.Trim(path, "/"), "/")
	switch {
	case len(parts) == 1 && parts[0] != "":
		if r.Method != http.MethodGet {
			methodNotAllowed(w, r, "GET")
			return
		}
		a.getConsent(w, r, parts[0])
	case len(parts) == 2 && parts[1] == "revoke":
		if r.Method != http.MethodPost {
			methodNotAllowed(w, r, "POST")
			return
		}
		a.revokeConsent(w, r, parts[0])
	default:
		writeError(w, r, http.StatusNotFound, "resource not found")
	}
}

func (a *API) grantConsent(w http.ResponseWriter, r *http.Request) {
	p, ok := a.principal(w, r)
	if !ok {
		return
	}
	var req grantConsentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Purpose) == "" || strings.TrimSpace(req.Scope) == "" {
		writeError(w, r, http.StatusBadRequest, "purpose and scope are required")
		return
	}
	artifact, err := a.consents.Grant(r.Context(), p.UserID, req.Purpose, req.Scope, req.ExpiryAt)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	w.Header().Set("Location", "/v1/consents/"+artifact.ID)
	writeJSON(w, http.StatusCreated, artifact)
}

func (a *API) getConsent(w http.ResponseWriter, r *http.Request, id string) {
	p, ok := a.principal(w, r)
	if !ok {
		return
	}
	artifact, err := a.consents.Get(r.Context(), id, p.UserID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, artifact)
}

func (a *API) revokeConsent(w http.ResponseWriter, r *http.Request, id string) {
	p, ok := a.principal(w, r)
	if !ok {
		return
	}
	var req revokeConsentRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := a.consents.Revoke(r.Context(), id, p.UserID, req.Reason); err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":     id,
		"status": models.ConsentRevoked,
	})
}

func (a *API) handleAuditLogs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, "GET")
		return
	}
	p, ok := a.principal(w, r)
	if !ok {
		return
	}
	limit := 100
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > 1000 {
			writeError(w, r, http.StatusBadRequest, "limit must be between 1 and 1000")
			return
		}
		limit = v
	}

	var logs []*models.AuditLogEntry
	err := a.runner.InTx(r.Context(), func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		logs, err = a.audits.UserLogs(ctx, tx, p.UserID, limit)
		return err
	})
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items": logs,
		"as_of": time.Now().UTC(),
	})
}
