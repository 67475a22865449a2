package integration_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	apphttp "github.com/geocoder89/admindash/internal/http"
	"github.com/geocoder89/admindash/internal/repo/memory"
	"github.com/gin-gonic/gin"
)

func TestHealthz(t *testing.T) {
	app := setupTestApp(t)

	w, _ := app.do(t, http.MethodGet, "/healthz", nil)
	mustStatus(t, w, http.StatusOK)

	w, _ = app.do(t, http.MethodGet, "/readyz", nil)
	mustStatus(t, w, http.StatusOK)
}

func TestReadyzReportsUnreachableStore(t *testing.T) {
	gin.SetMode(gin.TestMode)

	stores := memory.NewStores()
	router := apphttp.NewRouter(testConfig(), apphttp.Deps{
		Stores: stores,
		Ping: func(ctx context.Context) error {
			return errors.New("connection refused")
		},
	})
	app := &testApp{router: router, stores: stores}

	w, _ := app.do(t, http.MethodGet, "/readyz", nil)
	mustStatus(t, w, http.StatusServiceUnavailable)
}

func TestUnknownRoute(t *testing.T) {
	app := setupTestApp(t)

	w, env := app.do(t, http.MethodGet, "/api/unknown", nil)
	mustStatus(t, w, http.StatusNotFound)
	if env.Error != "Route not found" {
		t.Fatalf("unexpected error %q", env.Error)
	}
}

func TestReadyzWhileShuttingDown(t *testing.T) {
	gin.SetMode(gin.TestMode)

	stores := memory.NewStores()
	router := apphttp.NewRouter(testConfig(), apphttp.Deps{
		Stores:       stores,
		ShuttingDown: func() bool { return true },
	})
	app := &testApp{router: router, stores: stores}

	w, _ := app.do(t, http.MethodGet, "/readyz", nil)
	mustStatus(t, w, http.StatusServiceUnavailable)

	w, _ = app.do(t, http.MethodGet, "/healthz", nil)
	mustStatus(t, w, http.StatusOK)
}
