//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"quiz-backend/internal/auth"
	"quiz-backend/internal/config"
	"quiz-backend/internal/database"
	"quiz-backend/internal/graph"
	"quiz-backend/internal/handler"
	"quiz-backend/internal/metrics"
	"quiz-backend/internal/middleware"
	"quiz-backend/internal/model"
	"quiz-backend/internal/repository"
	"quiz-backend/internal/router"
	"quiz-backend/internal/service"
)

const (
	adminUsername = "admin"
	adminPassword = "admin-password"
)

type serverOptions struct {
	authRateLimitRPM int
}

// newServer runs the full stack against the database named by
// QUIZ_TEST_DATABASE_URL. Every call starts from empty tables.
func newServer(t *testing.T, opts serverOptions) *httptest.Server {
	t.Helper()

	databaseURL := os.Getenv("QUIZ_TEST_DATABASE_URL")
	if databaseURL == "" {
		t.Skip("QUIZ_TEST_DATABASE_URL is not set")
	}

	ctx := context.Background()
	db, err := database.New(ctx, databaseURL, 4, 1)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	require.NoError(t, db.EnsureSchema(ctx))
	_, err = db.Pool.Exec(ctx, `TRUNCATE comment_user, comments, question_category, questions, category, users RESTART IDENTITY CASCADE`)
	require.NoError(t, err)

	hasher, err := auth.NewHasher(bcrypt.MinCost)
	require.NoError(t, err)
	// Refresh tokens are normally held back for an hour; the suite exercises
	// them straight away.
	signing, err := auth.NewSigningConfig("integration-secret", auth.WithNotBefore(false))
	require.NoError(t, err)

	users := repository.NewUserRepository(db.SQL())
	authService := service.NewAuthService(users, hasher, signing)
	commentService := service.NewCommentService(repository.NewCommentRepository(db.SQL()))
	questionService := service.NewQuestionService(
		repository.NewQuestionRepository(db.SQL()),
		repository.NewCategoryRepository(db.SQL()),
	)

	created, err := authService.EnsureAdmin(ctx, model.NewUser{Username: adminUsername, Password: adminPassword})
	require.NoError(t, err)
	require.True(t, created)

	authRPM := opts.authRateLimitRPM
	if authRPM == 0 {
		authRPM = -1
	}
	cfg := &config.Config{
		RequestTimeout:   5 * time.Second,
		CORSOrigins:      []string{"*"},
		RateLimitRPM:     -1,
		AuthRateLimitRPM: authRPM,
	}

	m := metrics.New()
	schema := graph.NewSchema(graph.NewResolver(authService, commentService, questionService))
	server := httptest.NewServer(router.New(cfg, middleware.NewAuthMiddleware(auth.NewGuard(signing, users), m), m, router.Handlers{
		Auth:    handler.NewAuthHandler(authService),
		Health:  handler.NewHealthHandler(db),
		GraphQL: graph.NewHandler(schema, m),
	}))
	t.Cleanup(server.Close)

	return server
}

type gqlError struct {
	Message    string `json:"message"`
	Extensions struct {
		Code string `json:"code"`
	} `json:"extensions"`
}

type gqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []gqlError      `json:"errors"`
}

func (r gqlResponse) code() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0].Extensions.Code
}

func doGraphQL(t *testing.T, server *httptest.Server, token string, query string, variables map[string]any) gqlResponse {
	t.Helper()

	body, err := json.Marshal(map[string]any{"query": query, "variables": variables})
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, server.URL+"/graphql", bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp := doRequest(t, req)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var parsed gqlResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	return parsed
}

// decodeData unmarshals the data member of a response that must not carry errors.
func decodeData(t *testing.T, resp gqlResponse, dst any) {
	t.Helper()

	require.Empty(t, resp.Errors)
	require.NoError(t, json.Unmarshal(resp.Data, dst))
}

func login(t *testing.T, server *httptest.Server, username string, password string) (string, string) {
	t.Helper()

	resp := doGraphQL(t, server, "", `mutation($u: String!, $p: String!) {
		login(username: $u, password: $p) { accessToken refreshToken }
	}`, map[string]any{"u": username, "p": password})

	var data struct {
		Login struct {
			AccessToken  string `json:"accessToken"`
			RefreshToken string `json:"refreshToken"`
		} `json:"login"`
	}
	decodeData(t, resp, &data)
	require.NotEmpty(t, data.Login.AccessToken)
	require.NotEmpty(t, data.Login.RefreshToken)
	return data.Login.AccessToken, data.Login.RefreshToken
}

func signupAndLogin(t *testing.T, server *httptest.Server, username string) string {
	t.Helper()

	resp := doGraphQL(t, server, "", `mutation($in: SignupInput!) { signup(input: $in) { id } }`, map[string]any{
		"in": map[string]any{"username": username, "password": username + "-password", "nickname": username},
	})
	require.Empty(t, resp.Errors)

	access, _ := login(t, server, username, username+"-password")
	return access
}

func newRequest(t *testing.T, method string, url string, body []byte, accessToken string) *http.Request {
	t.Helper()

	req, err := http.NewRequest(method, url, bytes.NewReader(body))
	require.NoError(t, err)
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func doRequest(t *testing.T, req *http.Request) *http.Response {
	t.Helper()

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}
