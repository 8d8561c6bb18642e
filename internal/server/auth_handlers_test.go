package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hikari/internal/config"
	"hikari/internal/database"
)

func newTestApp(t *testing.T, flags string) (*fiber.App, *Server) {
	t.Helper()
	t.Setenv("APP_ENV", "test")

	db, err := database.ConnectTest()
	require.NoError(t, err)

	cfg := &config.Config{
		JWTSecret:           strings.Repeat("k", 32),
		Port:                "0",
		Env:                 "test",
		AllowedOrigins:      "*",
		PageSize:            20,
		ViewThrottleMinutes: 30,
		SnapshotTTLHours:    24,
		NotifReadSetCap:     200,
		DeleteChunkSize:     400,
		FeatureFlags:        flags,
	}

	srv, err := NewServerWithDeps(cfg, db, nil)
	require.NoError(t, err)

	app := fiber.New()
	srv.SetupRoutes(app)
	return app, srv
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var decoded map[string]any
	if resp.Body != nil {
		_ = json.NewDecoder(resp.Body).Decode(&decoded)
		resp.Body.Close()
	}
	return resp, decoded
}

func TestAuthRoundTrip(t *testing.T) {
	app, _ := newTestApp(t, "")

	resp, body := doJSON(t, app, http.MethodPost, "/api/auth/signup", "", fiber.Map{
		"username": "night_owl",
		"email":    "owl@example.com",
		"password": "Sup3rSecret!",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)

	// Duplicate email is rejected.
	resp, _ = doJSON(t, app, http.MethodPost, "/api/auth/signup", "", fiber.Map{
		"username": "night_owl2",
		"email":    "owl@example.com",
		"password": "Sup3rSecret!",
	})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp, body = doJSON(t, app, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"email":    "owl@example.com",
		"password": "Sup3rSecret!",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	token, _ = body["token"].(string)
	require.NotEmpty(t, token)

	resp, body = doJSON(t, app, http.MethodGet, "/api/users/me", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "night_owl", body["username"])
	assert.NotContains(t, body, "password_hash")

	// Wrong password is indistinguishable from an unknown account.
	resp, _ = doJSON(t, app, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"email":    "owl@example.com",
		"password": "wrong",
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAuthRequiredRejectsAnonymous(t *testing.T) {
	app, _ := newTestApp(t, "")

	resp, _ := doJSON(t, app, http.MethodGet, "/api/users/me", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodGet, "/api/users/me", "not-a-jwt", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAdminRoutesForbiddenForViewers(t *testing.T) {
	app, _ := newTestApp(t, "")

	_, body := doJSON(t, app, http.MethodPost, "/api/auth/signup", "", fiber.Map{
		"username": "plain_viewer",
		"email":    "viewer@example.com",
		"password": "Sup3rSecret!",
	})
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)

	resp, _ := doJSON(t, app, http.MethodGet, "/api/admin/dashboard", token, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPost, "/api/admin/shows", token, fiber.Map{"title": "Nope"})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestSignupKillSwitch(t *testing.T) {
	app, _ := newTestApp(t, "disable_signup=on")

	resp, _ := doJSON(t, app, http.MethodPost, "/api/auth/signup", "", fiber.Map{
		"username": "blocked_user",
		"email":    "blocked@example.com",
		"password": "Sup3rSecret!",
	})
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
}
