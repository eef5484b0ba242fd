package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"bizledger/internal/config"
	"bizledger/internal/models"
	"bizledger/internal/services"
	"bizledger/internal/testutil"
	"bizledger/internal/validator"
)

func init() {
	gin.SetMode(gin.TestMode)
	validator.Register()
	config.Set(&config.Config{
		Env:              "test",
		JWTSecret:        "router-test-secret",
		JWTExpirationDur: time.Hour,
	})
}

type apiClient struct {
	t      *testing.T
	router *gin.Engine
}

func (a apiClient) do(method, path, token, body string) *httptest.ResponseRecorder {
	a.t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func (a apiClient) expect(rec *httptest.ResponseRecorder, status int) map[string]interface{} {
	a.t.Helper()
	if rec.Code != status {
		a.t.Fatalf("expected %d, got %d: %s", status, rec.Code, rec.Body.String())
	}
	var out map[string]interface{}
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			a.t.Fatalf("failed to parse JSON response: %v", err)
		}
	}
	return out
}

func (a apiClient) login(email string) string {
	a.t.Helper()
	rec := a.do("POST", "/api/v1/auth/login", "", `{"email":"`+email+`","password":"`+testutil.TestPassword+`"}`)
	return a.expect(rec, http.StatusOK)["token"].(string)
}

func (a apiClient) balance(token, id string) string {
	a.t.Helper()
	out := a.expect(a.do("GET", "/api/v1/bank-accounts/"+id, token, ""), http.StatusOK)
	return out["bank_account"].(map[string]interface{})["current_balance"].(string)
}

func newClient(t *testing.T) (apiClient, *gorm.DB) {
	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })
	return apiClient{t: t, router: New(db)}, db
}

func TestHealthAndAuthGate(t *testing.T) {
	api, _ := newClient(t)

	out := api.expect(api.do("GET", "/api/health", "", ""), http.StatusOK)
	if out["status"] != "ok" {
		t.Errorf("unexpected health body %v", out)
	}

	rec := api.do("GET", "/api/v1/transactions", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestApprovalFlow(t *testing.T) {
	api, db := newClient(t)
	admin := testutil.CreateTestAdmin(t, db)
	adminToken := api.login(admin.Email)

	reg := api.expect(api.do("POST", "/api/v1/auth/register", "",
		`{"name":"Team Member","email":"Team@Example.com","password":"password123"}`), http.StatusCreated)
	teamToken := reg["token"].(string)
	if role := reg["user"].(map[string]interface{})["role"]; role != "team" {
		t.Fatalf("registered user should be team, got %v", role)
	}

	// reference data: companies are admin-only, accounts are open to everyone
	rec := api.do("POST", "/api/v1/companies", teamToken, `{"name":"Acme"}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("team member created a company: %d", rec.Code)
	}
	company := api.expect(api.do("POST", "/api/v1/companies", adminToken, `{"name":"Acme"}`), http.StatusCreated)
	companyID := company["company"].(map[string]interface{})["id"].(string)

	acctX := api.expect(api.do("POST", "/api/v1/bank-accounts", teamToken,
		`{"account_name":"Operating","initial_balance":"1000"}`), http.StatusCreated)
	xID := acctX["bank_account"].(map[string]interface{})["id"].(string)
	acctY := api.expect(api.do("POST", "/api/v1/bank-accounts", adminToken,
		`{"account_name":"Reserve","initial_balance":"500"}`), http.StatusCreated)
	yID := acctY["bank_account"].(map[string]interface{})["id"].(string)

	// team submission stays pending and leaves balances alone
	created := api.expect(api.do("POST", "/api/v1/transactions", teamToken,
		`{"type":"income","amount":"250","company_id":"`+companyID+`","from_bank_account_id":"`+xID+`","description":"Invoice 7"}`),
		http.StatusCreated)
	tx := created["transaction"].(map[string]interface{})
	txID := tx["id"].(string)
	if tx["status"] != string(models.TransactionStatusPending) {
		t.Fatalf("expected pending, got %v", tx["status"])
	}
	if got := api.balance(teamToken, xID); got != "1000.00" {
		t.Fatalf("pending transaction moved balance to %s", got)
	}

	// only admins decide
	rec = api.do("POST", "/api/v1/transactions/"+txID+"/approve", teamToken, "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for team approve, got %d", rec.Code)
	}

	approved := api.expect(api.do("POST", "/api/v1/transactions/"+txID+"/approve", adminToken, ""), http.StatusOK)
	if approved["transaction"].(map[string]interface{})["status"] != "approved" {
		t.Fatalf("expected approved, got %v", approved)
	}
	if got := api.balance(adminToken, xID); got != "1250.00" {
		t.Fatalf("expected 1250.00 after income, got %s", got)
	}

	rec = api.do("POST", "/api/v1/transactions/"+txID+"/approve", adminToken, "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 on second approval, got %d", rec.Code)
	}
	if got := api.balance(adminToken, xID); got != "1250.00" {
		t.Fatalf("second approval moved balance to %s", got)
	}

	// approved transactions are frozen
	rec = api.do("PUT", "/api/v1/transactions/"+txID, teamToken, `{"amount":"1"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 when editing approved transaction, got %d", rec.Code)
	}

	// admin transfer posts immediately
	transfer := api.expect(api.do("POST", "/api/v1/transactions", adminToken,
		`{"type":"transfer","amount":"300","company_id":"`+companyID+`","from_bank_account_id":"`+xID+`","to_bank_account_id":"`+yID+`"}`),
		http.StatusCreated)
	if transfer["transaction"].(map[string]interface{})["status"] != "approved" {
		t.Fatalf("admin transfer should be auto-approved, got %v", transfer)
	}
	if x, y := api.balance(adminToken, xID), api.balance(adminToken, yID); x != "950.00" || y != "800.00" {
		t.Fatalf("expected 950.00/800.00 after transfer, got %s/%s", x, y)
	}

	// team member only sees their own submissions
	list := api.expect(api.do("GET", "/api/v1/transactions", teamToken, ""), http.StatusOK)
	if total := list["total_items"].(float64); total != 1 {
		t.Errorf("team member should see 1 transaction, got %v", total)
	}
	list = api.expect(api.do("GET", "/api/v1/transactions", adminToken, ""), http.StatusOK)
	if total := list["total_items"].(float64); total != 2 {
		t.Errorf("admin should see 2 transactions, got %v", total)
	}

	// reports
	pl := api.expect(api.do("GET", "/api/v1/reports/profit-loss", teamToken, ""), http.StatusOK)
	if pl["income"] != "250.00" || pl["expense"] != "0.00" || pl["net_profit"] != "250.00" {
		t.Errorf("unexpected profit and loss %v", pl)
	}

	csv := api.do("GET", "/api/v1/reports/export-csv", adminToken, "")
	if csv.Code != http.StatusOK {
		t.Fatalf("expected 200 from CSV export, got %d", csv.Code)
	}
	lines := strings.Split(strings.TrimSpace(csv.Body.String()), "\n")
	if lines[0] != services.CSVHeader {
		t.Errorf("unexpected CSV header %q", lines[0])
	}
	if len(lines) != 3 {
		t.Errorf("expected header plus 2 rows, got %d lines", len(lines))
	}

	// the audit trail records every decision
	var count int64
	db.Model(&models.AuditLog{}).Where("action = ?", services.AuditApproveTransaction).Count(&count)
	if count != 1 {
		t.Errorf("expected 1 approval audit entry, got %d", count)
	}
}

func TestDeactivatedUserIsLockedOut(t *testing.T) {
	api, db := newClient(t)
	admin := testutil.CreateTestAdmin(t, db)
	member := testutil.CreateTestUser(t, db)
	adminToken := api.login(admin.Email)
	memberToken := api.login(member.Email)

	api.expect(api.do("PUT", "/api/v1/users/"+member.ID+"/status", adminToken, `{"is_active":false}`), http.StatusOK)

	rec := api.do("GET", "/api/v1/auth/me", memberToken, "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for deactivated token, got %d", rec.Code)
	}
	rec = api.do("POST", "/api/v1/auth/login", "", `{"email":"`+member.Email+`","password":"`+testutil.TestPassword+`"}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 on login, got %d", rec.Code)
	}
}

func TestCookieAuthentication(t *testing.T) {
	api, db := newClient(t)
	member := testutil.CreateTestUser(t, db)

	login := api.do("POST", "/api/v1/auth/login", "", `{"email":"`+member.Email+`","password":"`+testutil.TestPassword+`"}`)
	api.expect(login, http.StatusOK)

	req := httptest.NewRequest("GET", "/api/v1/auth/me", nil)
	for _, c := range login.Result().Cookies() {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)

	out := api.expect(rec, http.StatusOK)
	if out["user"].(map[string]interface{})["id"] != member.ID {
		t.Errorf("cookie resolved to the wrong user: %v", out)
	}
}
