package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"veritax.org/internal/dbx"
	"veritax.org/internal/models"
)

type registerUserRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

type tokenRequest struct {
	UserID string `json:"user_id"`
}

type recordEntryRequest struct {
	FinancialYear string `json:"financial_year"`
	EntryType     string `json:"entry_type"`
	Category      string `json:"category"`
	Amount        int64  `json:"amount"`
}

type determineRequest struct {
	FinancialYear string `json:"financial_year"`
}

func (a *API) handleUsers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, "POST")
		return
	}
	var req registerUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	email := strings.TrimSpace(req.Email)
	if email == "" {
		writeError(w, r, http.StatusBadRequest, "email is required")
		return
	}
	switch req.Role {
	case models.RoleIndividual, models.RoleBusiness, models.RoleCA, models.RoleAdmin:
	default:
		writeError(w, r, http.StatusBadRequest, "unknown role")
		return
	}

	user := &models.User{
		Email:     email,
		Role:      req.Role,
		Status:    "ACTIVE",
		CreatedAt: time.Now().UTC(),
	}
	err := a.runner.InTx(r.Context(), func(ctx context.Context, tx dbx.DBTX) error {
		return a.repos.Users(tx).Create(ctx, user)
	})
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (a *API) handleToken(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, "POST")
		return
	}
	var req tokenRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.UserID) == "" {
		writeError(w, r, http.StatusBadRequest, "user_id is required")
		return
	}

	var user *models.User
	err := a.runner.InTx(r.Context(), func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		user, err = a.repos.Users(tx).FindByID(ctx, req.UserID)
		return err
	})
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	signed, err := a.tokens.Issue(user.ID, user.Role)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"access_token": signed,
		"token_type":   "Bearer",
	})
}

func (a *API) handleEntries(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, "POST")
		return
	}
	p, ok := a.principal(w, r)
	if !ok {
		return
	}
	var req recordEntryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.FinancialYear) == "" {
		writeError(w, r, http.StatusBadRequest, "financial_year is required")
		return
	}
	entry, err := a.determinations.RecordEntry(r.Context(), p.UserID, req.FinancialYear, req.EntryType, req.Category, req.Amount)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (a *API) handleDeterminations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, "POST")
		return
	}
	p, ok := a.principal(w, r)
	if !ok {
		return
	}
	var req determineRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.FinancialYear) == "" {
		writeError(w, r, http.StatusBadRequest, "financial_year is required")
		return
	}
	det, err := a.determinations.Determine(r.Context(), p.UserID, req.FinancialYear)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	w.Header().Set("Location", "/v1/determinations/"+det.ID)
	writeJSON(w, http.StatusCreated, det)
}

func (a *API) handleDeterminationResource(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/v1/determinations/")
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] != "lock" {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, "POST")
		return
	}
	p, ok := a.principal(w, r)
	if !ok {
		return
	}
	det, err := a.determinations.Lock(r.Context(), parts[0], p.UserID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, det)
}

func (a *API) handleCompliance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r, "GET")
		return
	}
	p, ok := a.principal(w, r)
	if !ok {
		return
	}
	year := strings.TrimSpace(r.URL.Query().Get("year"))
	if year == "" {
		writeError(w, r, http.StatusBadRequest, "year query parameter is required")
		return
	}
	violations, err := a.compliance.Check(r.Context(), p.UserID, year)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"financial_year": year,
		"violations":     violations,
	})
}
