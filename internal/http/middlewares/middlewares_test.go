package middlewares

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/geocoder89/admindash/internal/auth"
	"github.com/gin-gonic/gin"
)

type fakeVerifier struct {
	claims *auth.Claims
	err    error
}

func (f fakeVerifier) VerifyAccessToken(string) (*auth.Claims, error) {
	return f.claims, f.err
}

func setupRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID())
	chain := append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	r.Any("/x", chain...)
	return r
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v (%s)", err, w.Body.String())
	}
	return body
}

func TestRequireAuthAndRole(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		verifier   fakeVerifier
		wantStatus int
		wantCode   string
	}{
		{
			name:       "missing header",
			wantStatus: http.StatusUnauthorized,
			wantCode:   "unauthorized",
		},
		{
			name:       "invalid token",
			header:     "Bearer nope",
			verifier:   fakeVerifier{err: errors.New("bad")},
			wantStatus: http.StatusUnauthorized,
			wantCode:   "unauthorized",
		},
		{
			name:       "wrong role",
			header:     "Bearer tok",
			verifier:   fakeVerifier{claims: &auth.Claims{UserID: "u1", Role: "User"}},
			wantStatus: http.StatusForbidden,
			wantCode:   "forbidden",
		},
		{
			name:       "admin",
			header:     "Bearer tok",
			verifier:   fakeVerifier{claims: &auth.Claims{UserID: "u1", Role: "Admin"}},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewAuthMiddleware(tt.verifier)
			r := setupRouter(m.RequireAuth(), m.RequireRole("Admin"))

			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.wantCode == "" {
				return
			}

			body := decodeBody(t, w)
			if body["success"] != false || body["code"] != tt.wantCode {
				t.Fatalf("unexpected body %v", body)
			}
			if body["requestId"] == "" || body["requestId"] == nil {
				t.Fatalf("missing requestId in %v", body)
			}
		})
	}
}

func TestRequireJSON(t *testing.T) {
	r := setupRouter(RequireJSON())

	req := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader("name=a"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("status = %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/x", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	// reads need no body
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	r := setupRouter(rl.RateLimiterMiddleware(KeyByIP))

	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		last = httptest.NewRecorder()
		r.ServeHTTP(last, httptest.NewRequest(http.MethodGet, "/x", nil))
	}

	if last.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d", last.Code)
	}
	if last.Header().Get("Retry-After") != "60" {
		t.Fatalf("Retry-After = %q", last.Header().Get("Retry-After"))
	}
	if last.Header().Get("X-RateLimit-Remaining") != "0" || last.Header().Get("X-RateLimit-Limit") != "2" {
		t.Fatalf("unexpected rate limit headers %v", last.Header())
	}
}

func TestRateLimiterWindowResetsAndSweeps(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(1, time.Minute)
	rl.now = func() time.Time { return now }

	if ok, remaining, _ := rl.take("a"); !ok || remaining != 0 {
		t.Fatalf("first take = %v, %d", ok, remaining)
	}
	if ok, _, _ := rl.take("a"); ok {
		t.Fatal("second take in the same window should be refused")
	}

	for i := 0; i < sweepAfter; i++ {
		rl.take("k" + strconv.Itoa(i))
	}
	if rl.Tracked() < sweepAfter {
		t.Fatalf("tracked = %d", rl.Tracked())
	}

	now = now.Add(time.Minute)
	if ok, _, _ := rl.take("a"); !ok {
		t.Fatal("expired window should admit again")
	}
	if got := rl.Tracked(); got != 1 {
		t.Fatalf("expired windows not swept, tracked = %d", got)
	}
}

func TestRequireRoleAcceptsAnyListed(t *testing.T) {
	m := NewAuthMiddleware(fakeVerifier{claims: &auth.Claims{UserID: "u1", Role: "Manager"}})

	for _, tt := range []struct {
		roles []string
		want  int
	}{
		{roles: []string{"Admin", "Manager"}, want: http.StatusOK},
		{roles: []string{"Admin"}, want: http.StatusForbidden},
	} {
		r := setupRouter(m.RequireAuth(), m.RequireRole(tt.roles...))
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set("Authorization", "Bearer tok")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != tt.want {
			t.Fatalf("roles %v: status = %d, want %d", tt.roles, w.Code, tt.want)
		}
	}
}

func TestSecurityHeaders(t *testing.T) {
	r := setupRouter(SecurityHeaders())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	if w.Header().Get("Cache-Control") != "no-store" || w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatalf("missing base headers %v", w.Header())
	}
	if got := w.Header().Get("Strict-Transport-Security"); got != "" {
		t.Fatalf("HSTS on plain http: %q", got)
	}

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Header().Get("Strict-Transport-Security") == "" {
		t.Fatal("expected HSTS behind a TLS proxy")
	}
}

func TestRequestIDEchoesHeader(t *testing.T) {
	r := setupRouter()

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-Id", "abc")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if got := w.Header().Get("X-Request-Id"); got != "abc" {
		t.Fatalf("X-Request-Id = %q", got)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	if w.Header().Get("X-Request-Id") == "" {
		t.Fatal("expected generated request id")
	}
}

func TestCORS(t *testing.T) {
	r := setupRouter(CORSMiddleware([]string{"http://localhost:3000"}))

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("allow origin = %q", got)
	}
	if got := w.Header().Get("Access-Control-Max-Age"); got != preflightMaxAge {
		t.Fatalf("max age = %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "http://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("unexpected allow origin %q", got)
	}
}

func TestMaxBodyBytes(t *testing.T) {
	r := setupRouter(MaxBodyBytes(4))

	req := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(`{"a":"too long"}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d", w.Code)
	}
}
