package authhandler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schooloffice/internal/domain/auth"
	"schooloffice/internal/transport/http/middleware"
)

type stubLogin struct {
	session auth.Session
	err     error
}

func (s stubLogin) Login(context.Context, string, string, string) (auth.Session, error) {
	return s.session, s.err
}

func newRouter(svc LoginService) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Auth("test-secret"))
	NewHandler(svc, 100).RegisterRoutes(r)
	return r
}

func postLogin(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error.Code
}

func TestLoginSuccess(t *testing.T) {
	h := newRouter(stubLogin{session: auth.Session{Token: "tok", User: auth.UserContext{UserID: "u1", Role: auth.RoleAdmin}}})
	rec := postLogin(t, h, `{"email":"admin@school.test","password":"pw"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data auth.Session `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "tok", body.Data.Token)
}

func TestLoginErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		body string
		want int
		code string
	}{
		{"bad credentials", auth.ErrInvalidCredentials, `{"email":"a@b.test","password":"x"}`, http.StatusUnauthorized, "invalid_credentials"},
		{"mfa required", auth.ErrMFARequired, `{"email":"a@b.test","password":"x"}`, http.StatusUnauthorized, "mfa_required"},
		{"mfa invalid", auth.ErrMFAInvalid, `{"email":"a@b.test","password":"x","mfaCode":"1"}`, http.StatusUnauthorized, "mfa_invalid"},
		{"missing email", nil, `{"password":"x"}`, http.StatusBadRequest, "validation_error"},
		{"malformed", nil, `{`, http.StatusBadRequest, "invalid_payload"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := postLogin(t, newRouter(stubLogin{err: tc.err}), tc.body)
			assert.Equal(t, tc.want, rec.Code)
			assert.Equal(t, tc.code, errorCode(t, rec))
		})
	}
}

func TestMeRequiresToken(t *testing.T) {
	h := newRouter(stubLogin{})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token, err := auth.GenerateToken("test-secret", auth.Claims{UserID: "u1", Role: auth.RoleViewer}, time.Minute)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), auth.PermPayrollRead)
	assert.NotContains(t, rec.Body.String(), auth.PermPayrollWrite)
}
