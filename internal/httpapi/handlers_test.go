package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"veritax.org/internal/audit"
	"veritax.org/internal/blob"
	"veritax.org/internal/compliance"
	"veritax.org/internal/consent"
	"veritax.org/internal/dbx"
	"veritax.org/internal/delegation"
	"veritax.org/internal/evidence"
	"veritax.org/internal/filing"
	"veritax.org/internal/identity"
	"veritax.org/internal/itr"
	"veritax.org/internal/models"
	"veritax.org/internal/repositories/repomanager"
)

type apiClient struct {
	baseURL string
	client  *http.Client
	t       *testing.T
}

func newTestAPI(t *testing.T) *apiClient {
	t.Helper()

	runner := dbx.Passthrough{}
	repos := repomanager.NewMemoryManager()
	ev := evidence.NewService(repos, blob.NewMemoryStore())
	au := audit.NewService(repos)
	del := delegation.NewService(runner, repos, ev)
	tokens := identity.NewTokens([]byte("test-secret"), time.Hour)

	api := New(ReadyProbe{}, Deps{
		Runner:         runner,
		Repos:          repos,
		Tokens:         tokens,
		Filings:        filing.NewService(runner, repos, ev, au, del),
		Consents:       consent.NewService(runner, repos, ev),
		Delegations:    del,
		Determinations: itr.NewService(runner, repos),
		Compliance:     compliance.NewService(runner, repos, nil),
		Audits:         au,
	}, "test")

	srv := httptest.NewServer(api.Handler())
	t.Cleanup(srv.Close)

	return &apiClient{
		baseURL: srv.URL,
		client:  srv.Client(),
		t:       t,
	}
}

func (c *apiClient) post(path string, body any, headers map[string]string) *http.Response {
	c.t.Helper()
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			c.t.Fatalf("marshal body: %v", err)
		}
	}
	req, err := http.NewRequest(http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		c.t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		c.t.Fatalf("do request: %v", err)
	}
	return resp
}

func (c *apiClient) get(path string, params url.Values, headers map[string]string) *http.Response {
	c.t.Helper()
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		c.t.Fatalf("parse url: %v", err)
	}
	if params != nil {
		u.RawQuery = params.Encode()
	}
	req, err := http.NewRequest(http.MethodGet, u.String(), nil)
	if err != nil {
		c.t.Fatalf("new request: %v", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		c.t.Fatalf("get request: %v", err)
	}
	return resp
}

func (c *apiClient) decode(resp *http.Response, dst any) {
	c.t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		c.t.Fatalf("decode response: %v", err)
	}
}

// register creates a user and returns its id plus auth headers for it.
func (c *apiClient) register(email, role string) (string, map[string]string) {
	c.t.Helper()
	resp := c.post("/v1/users", map[string]any{"email": email, "role": role}, nil)
	if resp.StatusCode != http.StatusCreated {
		c.t.Fatalf("register: expected 201, got %d", resp.StatusCode)
	}
	var user models.User
	c.decode(resp, &user)

	resp = c.post("/v1/auth/token", map[string]any{"user_id": user.ID}, nil)
	if resp.StatusCode != http.StatusOK {
		c.t.Fatalf("token: expected 200, got %d", resp.StatusCode)
	}
	var tok struct {
		AccessToken string `json:"access_token"`
	}
	c.decode(resp, &tok)
	return user.ID, map[string]string{"Authorization": "Bearer " + tok.AccessToken}
}

// prepareFiling walks a taxpayer through entries, determination, lock and
// case creation, returning the filing id.
func (c *apiClient) prepareFiling(headers map[string]string, mode string) string {
	c.t.Helper()
	resp := c.post("/v1/entries", map[string]any{
		"financial_year": "2025-26",
		"entry_type":     models.EntryIncome,
		"category":       "SALARY",
		"amount":         120000000,
	}, headers)
	if resp.StatusCode != http.StatusCreated {
		c.t.Fatalf("record entry: expected 201, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = c.post("/v1/determinations", map[string]any{"financial_year": "2025-26"}, headers)
	if resp.StatusCode != http.StatusCreated {
		c.t.Fatalf("determine: expected 201, got %d", resp.StatusCode)
	}
	var det models.ITRDetermination
	c.decode(resp, &det)

	resp = c.post("/v1/determinations/"+det.ID+"/lock", nil, headers)
	if resp.StatusCode != http.StatusOK {
		c.t.Fatalf("lock: expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = c.post("/v1/filings", map[string]any{
		"financial_year":       "2025-26",
		"itr_determination_id": det.ID,
		"filing_mode":          mode,
	}, headers)
	if resp.StatusCode != http.StatusCreated {
		c.t.Fatalf("create filing: expected 201, got %d", resp.StatusCode)
	}
	var fc models.FilingCase
	c.decode(resp, &fc)
	return fc.ID
}

func TestHealthz(t *testing.T) {
	c := newTestAPI(t)
	resp := c.get("/healthz", nil, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var body map[string]any
	c.decode(resp, &body)
	if body["status"] != "ok" {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestAuthRequired(t *testing.T) {
	c := newTestAPI(t)

	resp := c.get("/v1/filings", url.Values{"year": {"2025-26"}}, nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = c.get("/v1/filings", url.Values{"year": {"2025-26"}}, map[string]string{"Authorization": "Bearer garbage"})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 with bad token, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestSelfFilingFlow(t *testing.T) {
	c := newTestAPI(t)
	_, headers := c.register("payer@example.com", models.RoleIndividual)
	filingID := c.prepareFiling(headers, models.ModeSelf)

	resp := c.post("/v1/filings/"+filingID+"/transitions", map[string]any{"next_state": models.StateReadyForReview}, headers)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("transition: expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = c.post("/v1/filings/"+filingID+"/approve", nil, headers)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("approve: expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = c.post("/v1/filings/"+filingID+"/transitions", map[string]any{"next_state": models.StateSubmitted}, headers)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("submit: expected 200, got %d", resp.StatusCode)
	}
	var submitted models.FilingCase
	c.decode(resp, &submitted)
	if submitted.CurrentState != models.StateSubmitted || submitted.SubmittedAt == nil {
		t.Fatalf("unexpected filing %+v", submitted)
	}

	resp = c.get("/v1/filings", url.Values{"year": {"2025-26"}}, headers)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get filing: expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// The flow left an audit trail.
	resp = c.get("/v1/audit/logs", nil, headers)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("audit logs: expected 200, got %d", resp.StatusCode)
	}
	var logs struct {
		Items []models.AuditLogEntry `json:"items"`
	}
	c.decode(resp, &logs)
	if len(logs.Items) < 3 {
		t.Fatalf("expected at least 3 audit entries, got %d", len(logs.Items))
	}
}

func TestErrorStatusMapping(t *testing.T) {
	c := newTestAPI(t)
	_, headers := c.register("payer@example.com", models.RoleIndividual)
	filingID := c.prepareFiling(headers, models.ModeSelf)

	// Unknown resource: 404.
	resp := c.get("/v1/filings", url.Values{"year": {"2019-20"}}, headers)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Illegal edge: 422.
	resp = c.post("/v1/filings/"+filingID+"/transitions", map[string]any{"next_state": models.StateSubmitted}, headers)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Foreign actor on a legal edge: 403.
	_, otherHeaders := c.register("intruder@example.com", models.RoleIndividual)
	resp = c.post("/v1/filings/"+filingID+"/transitions", map[string]any{"next_state": models.StateReadyForReview}, otherHeaders)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Malformed body: 400.
	resp = c.post("/v1/filings", map[string]any{"bogus": true}, headers)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestConsentAndDelegationFlow(t *testing.T) {
	c := newTestAPI(t)
	_, headers := c.register("payer@example.com", models.RoleIndividual)
	caID, caHeaders := c.register("ca@example.com", models.RoleCA)
	filingID := c.prepareFiling(headers, models.ModeCA)

	resp := c.post("/v1/consents", map[string]any{
		"purpose":   "delegated filing",
		"scope":     "filing:manage",
		"expiry_at": time.Now().UTC().Add(30 * 24 * time.Hour),
	}, headers)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("grant consent: expected 201, got %d", resp.StatusCode)
	}
	var artifact models.ConsentArtifact
	c.decode(resp, &artifact)

	resp = c.post("/v1/filings/"+filingID+"/assign-ca", map[string]any{
		"ca_user_id": caID,
		"consent_id": artifact.ID,
	}, headers)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("assign ca: expected 201, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// The CA can now drive preparation.
	resp = c.post("/v1/filings/"+filingID+"/transitions", map[string]any{"next_state": models.StateReadyForReview}, caHeaders)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("ca transition: expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Revocation cuts the CA off.
	resp = c.post("/v1/consents/"+artifact.ID+"/revoke", map[string]any{"reason": "changed accountant"}, headers)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("revoke: expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = c.get("/v1/consents/"+artifact.ID, nil, headers)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get consent: expected 200, got %d", resp.StatusCode)
	}
	var got models.ConsentArtifact
	c.decode(resp, &got)
	if got.Status != models.ConsentRevoked {
		t.Fatalf("expected REVOKED, got %s", got.Status)
	}

	resp = c.post("/v1/filings/"+filingID+"/approve", nil, headers)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("approve: expected 200, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = c.post("/v1/filings/"+filingID+"/transitions", map[string]any{"next_state": models.StateSubmitted}, caHeaders)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 after revocation, got %d", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestComplianceEndpoint(t *testing.T) {
	c := newTestAPI(t)
	_, headers := c.register("payer@example.com", models.RoleIndividual)

	resp := c.post("/v1/entries", map[string]any{
		"financial_year": "2025-26",
		"entry_type":     models.EntryExpense,
		"category":       "RENT",
		"amount":         compliance.HighExpenseThreshold + 1,
	}, headers)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("record entry: expected 201, got %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = c.get("/v1/compliance", url.Values{"year": {"2025-26"}}, headers)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("compliance: expected 200, got %d", resp.StatusCode)
	}
	var body struct {
		Violations []compliance.Violation `json:"violations"`
	}
	c.decode(resp, &body)
	if len(body.Violations) != 2 {
		t.Fatalf("expected 2 violations, got %+v", body.Violations)
	}
}
