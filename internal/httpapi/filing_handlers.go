package httpapi

import (
	"net/http"
	"strings"

	"veritax.org/internal/filing"
)

type createFilingRequest struct {
	FinancialYear      string `json:"financial_year"`
	ITRDeterminationID string `json:"itr_determination_id"`
	FilingMode         string `json:"filing_mode"`
}

type transitionRequest struct {
	NextState string `json:"next_state"`
}

type assignCARequest struct {
	CAUserID  string `json:"ca_user_id"`
	ConsentID string `json:"consent_id"`
}

func (a *API) origin(r *http.Request) filing.Origin {
	return filing.Origin{
		IPAddress: clientIP(r),
		DeviceID:  strings.TrimSpace(r.Header.Get("X-Device-ID")),
	}
}

func (a *API) handleFilings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		a.createFiling(w, r)
	case http.MethodGet:
		a.getFiling(w, r)
	default:
		methodNotAllowed(w, r, "GET, POST")
	}
}

func (a *API) handleFilingResource(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/v1/filings/")
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 2 || parts[0] == "" {
		writeError(w, r, http.StatusNotFound, "resource not found")
		return
	}
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, "POST")
		return
	}
	id := parts[0]
	switch parts[1] {
	case "transitions":
		a.transitionFiling(w, r, id)
	case "approve":
		a.approveFiling(w, r, id)
	case "assign-ca":
		a.assignCA(w, r, id)
	default:
		writeError(w, r, http.StatusNotFound, "resource not found")
	}
}

func (a *API) createFiling(w http.ResponseWriter, r *http.Request) {
	p, ok := a.principal(w, r)
	if !ok {
		return
	}
	var req createFilingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.FinancialYear) == "" || strings.TrimSpace(req.ITRDeterminationID) == "" {
		writeError(w, r, http.StatusBadRequest, "financial_year and itr_determination_id are required")
		return
	}

	c, err := a.filings.CreateCase(r.Context(), p.UserID, req.FinancialYear, req.ITRDeterminationID, req.FilingMode, a.origin(r))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	w.Header().Set("Location", "/v1/filings/"+c.ID)
	writeJSON(w, http.StatusCreated, c)
}

func (a *API) getFiling(w http.ResponseWriter, r *http.Request) {
	p, ok := a.principal(w, r)
	if !ok {
		return
	}
	year := strings.TrimSpace(r.URL.Query().Get("year"))
	if year == "" {
		writeError(w, r, http.StatusBadRequest, "year query parameter is required")
		return
	}
	c, err := a.filings.GetCase(r.Context(), p.UserID, year)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (a *API) transitionFiling(w http.ResponseWriter, r *http.Request, id string) {
	p, ok := a.principal(w, r)
	if !ok {
		return
	}
	var req transitionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.NextState) == "" {
		writeError(w, r, http.StatusBadRequest, "next_state is required")
		return
	}
	c, err := a.filings.TransitionState(r.Context(), id, p.UserID, p.Role, req.NextState, a.origin(r))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (a *API) approveFiling(w http.ResponseWriter, r *http.Request, id string) {
	p, ok := a.principal(w, r)
	if !ok {
		return
	}
	c, err := a.filings.ApproveFiling(r.Context(), id, p.UserID, a.origin(r))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (a *API) assignCA(w http.ResponseWriter, r *http.Request, id string) {
	p, ok := a.principal(w, r)
	if !ok {
		return
	}
	var req assignCARequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.CAUserID) == "" || strings.TrimSpace(req.ConsentID) == "" {
		writeError(w, r, http.StatusBadRequest, "ca_user_id and consent_id are required")
		return
	}
	assignment, err := a.delegations.AssignCA(r.Context(), id, p.UserID, req.CAUserID, req.ConsentID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, assignment)
}
