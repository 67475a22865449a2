package integration_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/geocoder89/admindash/internal/cache"
	"github.com/geocoder89/admindash/internal/config"
	apphttp "github.com/geocoder89/admindash/internal/http"
	"github.com/geocoder89/admindash/internal/repo"
	"github.com/geocoder89/admindash/internal/repo/memory"
	"github.com/gin-gonic/gin"
)

func testConfig() config.Config {
	return config.Config{
		Env:          "test",
		StoreTimeout: 2 * time.Second,
		CacheTTL:     time.Minute,
		MaxBodyBytes: 1 << 20,
		CORSOrigins:  []string{"http://localhost:3000"},
	}
}

type testApp struct {
	router *gin.Engine
	stores repo.Stores
	cache  *cache.Memory
}

func setupTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	stores := memory.NewStores()
	c := cache.New(time.Minute)

	router := apphttp.NewRouter(testConfig(), apphttp.Deps{
		Stores: stores,
		Cache:  c,
	})

	return &testApp{router: router, stores: stores, cache: c}
}

type envelope struct {
	Success   bool            `json:"success"`
	Data      json.RawMessage `json:"data"`
	Count     *int            `json:"count"`
	Message   string          `json:"message"`
	Error     string          `json:"error"`
	Code      string          `json:"code"`
	Details   json.RawMessage `json:"details"`
	RequestID string          `json:"requestId"`
}

func (a *testApp) do(t *testing.T, method, path string, body any, headers ...string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			if err := json.NewEncoder(&buf).Encode(b); err != nil {
				t.Fatalf("encode body: %v", err)
			}
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var env envelope
	if w.Code != http.StatusNotModified && w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode response: %v body=%s", err, w.Body.String())
		}
	}
	return w, env
}

func mustStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("status = %d, want %d, body=%s", w.Code, want, w.Body.String())
	}
}

func decodeData[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(env.Data, &out); err != nil {
		t.Fatalf("decode data: %v data=%s", err, string(env.Data))
	}
	return out
}
