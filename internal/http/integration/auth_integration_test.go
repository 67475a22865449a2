package integration_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/geocoder89/admindash/internal/auth"
	apphttp "github.com/geocoder89/admindash/internal/http"
	"github.com/geocoder89/admindash/internal/http/handlers"
	"github.com/geocoder89/admindash/internal/repo/memory"
	"github.com/gin-gonic/gin"
)

func setupAuthApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := testConfig()
	cfg.JWTSecret = "test-secret-key"

	hash, err := auth.HashPassword("s3cret")
	if err != nil {
		t.Fatal(err)
	}

	stores := memory.NewStores()
	router := apphttp.NewRouter(cfg, apphttp.Deps{
		Stores: stores,
		Tokens: auth.NewManager(cfg.JWTSecret, time.Hour),
		Admin:  handlers.Admin{Email: "admin@example.com", PasswordHash: hash},
	})

	return &testApp{router: router, stores: stores}
}

type loginData struct {
	AccessToken string `json:"accessToken"`
}

func TestAuthRequiredWhenEnabled(t *testing.T) {
	app := setupAuthApp(t)

	w, env := app.do(t, http.MethodGet, "/api/users", nil)
	mustStatus(t, w, http.StatusUnauthorized)
	if env.Success || env.Code != "unauthorized" {
		t.Fatalf("unexpected envelope %+v", env)
	}

	w, _ = app.do(t, http.MethodPost, "/api/auth/login", map[string]any{"email": "admin@example.com", "password": "nope"})
	mustStatus(t, w, http.StatusUnauthorized)

	w, env = app.do(t, http.MethodPost, "/api/auth/login", map[string]any{"email": "Admin@Example.com", "password": "s3cret"})
	mustStatus(t, w, http.StatusOK)

	tok := decodeData[loginData](t, env).AccessToken
	if tok == "" {
		t.Fatal("missing access token")
	}

	w, _ = app.do(t, http.MethodGet, "/api/users", nil, "Authorization", "Bearer "+tok)
	mustStatus(t, w, http.StatusOK)
}

func TestAuthRejectsNonAdminRole(t *testing.T) {
	app := setupAuthApp(t)

	tok, err := auth.NewManager("test-secret-key", time.Hour).GenerateAccessToken("u1", "u@example.com", "User")
	if err != nil {
		t.Fatal(err)
	}

	w, env := app.do(t, http.MethodGet, "/api/plans", nil, "Authorization", "Bearer "+tok)
	mustStatus(t, w, http.StatusForbidden)
	if env.Code != "forbidden" {
		t.Fatalf("unexpected code %q", env.Code)
	}
}

func TestAuthDisabledWithoutSecret(t *testing.T) {
	app := setupTestApp(t)

	w, _ := app.do(t, http.MethodPost, "/api/auth/login", map[string]any{"email": "admin@example.com", "password": "x"})
	mustStatus(t, w, http.StatusNotFound)

}
