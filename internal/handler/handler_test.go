package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quiz-backend/internal/auth"
	"quiz-backend/internal/model"
	"quiz-backend/pkg/apierror"
)

type stubAuthService struct {
	lastLogin model.LoginRequest
}

func (s *stubAuthService) Login(_ context.Context, req model.LoginRequest) (model.Tokens, error) {
	s.lastLogin = req
	if req.Password != "hunter2222" {
		return model.Tokens{}, model.ErrWrongCredentials
	}
	return model.Tokens{AccessToken: "a", RefreshToken: "r", TokenType: "Bearer", ExpiresIn: 3600}, nil
}

func (s *stubAuthService) Refresh(_ context.Context, req model.RefreshRequest) (model.Tokens, error) {
	if req.RefreshToken == "expired" {
		return model.Tokens{}, apierror.Token("token expired", errors.New("exp"))
	}
	return model.Tokens{AccessToken: "a2", TokenType: "Bearer", ExpiresIn: 3600}, nil
}

func (s *stubAuthService) Signup(_ context.Context, in model.NewUser) (model.SafeUser, error) {
	if in.Username == "taken" {
		return model.SafeUser{}, model.ErrUserAlreadyExists
	}
	return model.SafeUser{ID: 3, Username: in.Username, Nickname: in.Nickname}, nil
}

func (s *stubAuthService) Me(ctx context.Context) (model.SafeUser, error) {
	return auth.RequireIdentity(ctx)
}

func do(t *testing.T, h http.HandlerFunc, req *http.Request) (*httptest.ResponseRecorder, model.APIResponse) {
	t.Helper()

	rec := httptest.NewRecorder()
	h(rec, req)

	var body model.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return rec, body
}

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestAuthHandlerLogin(t *testing.T) {
	t.Parallel()

	svc := &stubAuthService{}
	h := NewAuthHandler(svc)

	rec, body := do(t, h.Login, jsonRequest(http.MethodPost, "/api/v1/auth/login", `{"username":"alice","password":"hunter2222"}`))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, body.Success)
	assert.Equal(t, "alice", svc.lastLogin.Username)

	rec, body = do(t, h.Login, jsonRequest(http.MethodPost, "/api/v1/auth/login", `{"username":"alice","password":"nope"}`))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "WRONG_CREDENTIALS", body.Error.Code)
	assert.Equal(t, "wrong username or password", body.Error.Message)

	rec, body = do(t, h.Login, jsonRequest(http.MethodPost, "/api/v1/auth/login", `{"username":`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "BAD_REQUEST", body.Error.Code)

	rec, _ = do(t, h.Login, jsonRequest(http.MethodPost, "/api/v1/auth/login", `{"username":"a","password":"b","role":"admin"}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthHandlerSignupAndRefresh(t *testing.T) {
	t.Parallel()

	h := NewAuthHandler(&stubAuthService{})

	rec, body := do(t, h.Signup, jsonRequest(http.MethodPost, "/api/v1/auth/signup", `{"username":"bob","password":"password1","nickname":"B"}`))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, body.Success)

	rec, body = do(t, h.Signup, jsonRequest(http.MethodPost, "/api/v1/auth/signup", `{"username":"taken","password":"password1","nickname":"B"}`))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "ALREADY_EXISTS", body.Error.Code)

	rec, body = do(t, h.Refresh, jsonRequest(http.MethodPost, "/api/v1/auth/refresh", `{"refresh_token":"expired"}`))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "TOKEN_ERROR", body.Error.Code)

	rec, body = do(t, h.Refresh, jsonRequest(http.MethodPost, "/api/v1/auth/refresh", `{"refresh_token":"ok"}`))
	assert.Equal(t, http.StatusOK, rec.Code)
	data, ok := body.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "", data["refresh_token"])
}

func TestAuthHandlerMe(t *testing.T) {
	t.Parallel()

	h := NewAuthHandler(&stubAuthService{})

	rec, body := do(t, h.Me, httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "NOT_AUTHORIZED", body.Error.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req = req.WithContext(auth.ContextWithIdentity(req.Context(), model.SafeUser{ID: 1, Username: "alice"}))
	rec, body = do(t, h.Me, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestWriteErrorMasksServerErrors(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	writeError(rec, apierror.Database("find user", errors.New("dial tcp 10.0.0.5:5432: connection refused")))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "10.0.0.5")
	assert.Contains(t, rec.Body.String(), "DATABASE_ERROR")
}

type fakePinger struct{ err error }

func (f fakePinger) Health(context.Context) error { return f.err }

func TestHealthHandler(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	NewHealthHandler(fakePinger{}).Check(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	NewHealthHandler(fakePinger{err: errors.New("down")}).Check(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
