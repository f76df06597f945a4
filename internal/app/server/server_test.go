package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schooloffice/internal/domain/audit"
	"schooloffice/internal/domain/auth"
	"schooloffice/internal/domain/ledger"
	"schooloffice/internal/domain/payroll"
	"schooloffice/internal/domain/staff"
	"schooloffice/internal/platform/config"
	"schooloffice/internal/platform/metrics"
	"schooloffice/internal/transport/http/handlers/handlertest"
)

type memUsers struct {
	user auth.User
}

func (m memUsers) FindActiveUserByEmail(ctx context.Context, email string) (auth.User, error) {
	if !strings.EqualFold(email, m.user.Email) {
		return auth.User{}, auth.ErrUserNotFound
	}
	return m.user, nil
}

func (memUsers) UpdateLastLogin(context.Context, string) error { return nil }

type memAudit struct {
	handlertest.AuditLog
}

func (m *memAudit) Count(context.Context, audit.Filter) (int, error) {
	return len(m.Entries), nil
}

func (m *memAudit) List(ctx context.Context, filter audit.Filter, includeDetails bool, limit, offset int) ([]audit.Event, error) {
	var out []audit.Event
	for _, e := range m.Entries {
		out = append(out, audit.Event{ActorID: e.ActorID, Action: e.Action, EntityType: e.EntityType, EntityID: e.EntityID})
	}
	return out, nil
}

func newTestRouter(t *testing.T, ready func(context.Context) error) (http.Handler, *memAudit) {
	t.Helper()
	cfg := config.Config{
		JWTSecret:          handlertest.Secret,
		Environment:        "test",
		FrontendOrigins:    []string{"http://localhost:5173"},
		MaxBodyBytes:       4096,
		RateLimitPerMinute: 1000,
		MetricsEnabled:     true,
	}
	hash, err := auth.HashPassword("pw-123456")
	require.NoError(t, err)

	staffStore := handlertest.NewStaffStore(staff.Employee{
		ID:          "e1",
		FirstName:   "Carla",
		LastName:    "Reyes",
		GrossSalary: decimal.NewFromInt(20000),
		HireDate:    time.Date(2021, time.March, 1, 0, 0, 0, 0, time.UTC),
		Status:      staff.StatusActive,
	})
	ledgerStore := handlertest.NewLedgerStore()
	auditLog := &memAudit{}

	router := NewRouter(Deps{
		Config:  cfg,
		Login:   auth.NewService(memUsers{user: auth.User{ID: "u1", Email: "admin@school.test", Role: auth.RoleAdmin, PasswordHash: hash}}, cfg.JWTSecret),
		Staff:   staff.NewService(staffStore),
		Ledger:  ledger.NewService(ledgerStore),
		Payroll: payroll.NewService(handlertest.NewPayrollStore(staffStore, ledgerStore), "NIO"),
		Audit:   auditLog,
		Metrics: metrics.New(),
		Ready:   ready,
	})
	return router, auditLog
}

func TestHealthAndReadiness(t *testing.T) {
	router, _ := newTestRouter(t, func(context.Context) error { return errors.New("down") })

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestLoginThenRecordPayroll(t *testing.T) {
	router, auditLog := newTestRouter(t, nil)

	rec := handlertest.Do(t, router, "", http.MethodPost, "/api/v1/auth/login", `{"email":"admin@school.test","password":"pw-123456"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var session auth.Session
	handlertest.Data(t, rec, &session)
	require.NotEmpty(t, session.Token)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/payroll/records", strings.NewReader(`{"employeeId":"e1","month":1,"year":2025}`))
	req.Header.Set("Authorization", "Bearer "+session.Token)
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = handlertest.Do(t, router, auth.RoleAdmin, http.MethodGet, "/api/v1/audit/events", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, auditLog.Entries, 1)
	assert.Equal(t, "u1", auditLog.Entries[0].ActorID)
}

func TestMetricsEndpointCountsRequests(t *testing.T) {
	router, _ := newTestRouter(t, nil)
	handlertest.Do(t, router, auth.RoleViewer, http.MethodPost, "/api/v1/payroll/calculate", `{"grossSalary":"1000"}`)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"requestsTotal":1`)
	assert.Contains(t, rec.Body.String(), `"withholding":1`)
}

func TestBodyLimit(t *testing.T) {
	router, _ := newTestRouter(t, nil)
	body := `{"grossSalary":"` + strings.Repeat("1", 5000) + `"}`
	rec := handlertest.Do(t, router, auth.RoleViewer, http.MethodPost, "/api/v1/payroll/calculate", body)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	router, _ := newTestRouter(t, nil)
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/payroll/calculate", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}
