package stubserver

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func testConfig() *Config {
	return &Config{
		Environment:    "test",
		Host:           "127.0.0.1",
		Port:           3000,
		LogLevel:       "error",
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   15 * time.Second,
		IdleTimeout:    60 * time.Second,
		RateLimitRPS:   0, // disabled unless a test needs it
		RateLimitBurst: 0,
		MaxRequestSize: 65536,
		AllowedOrigins: []string{"*"},
		SecretKey:      "test-secret",
		DevEmail:       "dev@example.com",
		DevPassword:    "password",
	}
}

func newTestServer(t *testing.T, mutate func(*Config)) *Server {
	t.Helper()

	cfg := testConfig()
	if mutate != nil {
		mutate(cfg)
	}

	server, err := NewServer(cfg, slog.New(slog.DiscardHandler))
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	return server
}

func doRequest(t *testing.T, server *Server, method, path string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	server := newTestServer(t, nil)

	rec := doRequest(t, server, http.MethodGet, "/api/health", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %q, want ok", body["status"])
	}
	if body["environment"] != "test" {
		t.Errorf("environment field = %q, want test", body["environment"])
	}
}

func TestSecurityHeaders(t *testing.T) {
	server := newTestServer(t, nil)

	rec := doRequest(t, server, http.MethodGet, "/api/health", nil)

	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
	}
	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q, want DENY", got)
	}
}

func login(t *testing.T, server *Server, email, password string) *httptest.ResponseRecorder {
	t.Helper()

	body, _ := json.Marshal(LoginRequest{Email: email, Password: password})
	return doRequest(t, server, http.MethodPost, "/api/auth/login", bytes.NewReader(body))
}

func TestLogin(t *testing.T) {
	server := newTestServer(t, nil)

	t.Run("valid credential issues a usable token", func(t *testing.T) {
		rec := login(t, server, "dev@example.com", "password")
		if rec.Code != http.StatusOK {
			t.Fatalf("login status = %d, want 200: %s", rec.Code, rec.Body.String())
		}

		var tokenResponse AccessTokenResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &tokenResponse); err != nil {
			t.Fatalf("invalid JSON response: %v", err)
		}
		if tokenResponse.AccessToken == "" || tokenResponse.TokenType != "Bearer" {
			t.Fatalf("unexpected token response: %+v", tokenResponse)
		}

		req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		req.Header.Set("Authorization", "Bearer "+tokenResponse.AccessToken)
		rec2 := httptest.NewRecorder()
		server.Router().ServeHTTP(rec2, req)

		if rec2.Code != http.StatusOK {
			t.Fatalf("/api/me status = %d, want 200: %s", rec2.Code, rec2.Body.String())
		}

		var me map[string]any
		if err := json.Unmarshal(rec2.Body.Bytes(), &me); err != nil {
			t.Fatal(err)
		}
		if me["email"] != "dev@example.com" {
			t.Errorf("me.email = %v, want dev@example.com", me["email"])
		}
	})

	t.Run("wrong password is rejected", func(t *testing.T) {
		rec := login(t, server, "dev@example.com", "nope")
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "authentication_error") {
			t.Errorf("body = %s, want authentication_error code", rec.Body.String())
		}
	})

	t.Run("unknown email is rejected", func(t *testing.T) {
		rec := login(t, server, "other@example.com", "password")
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("malformed body is a 400", func(t *testing.T) {
		rec := doRequest(t, server, http.MethodPost, "/api/auth/login", strings.NewReader("{not json"))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestMeRequiresToken(t *testing.T) {
	server := newTestServer(t, nil)

	tests := []struct {
		name       string
		authHeader string
	}{
		{name: "no header", authHeader: ""},
		{name: "not a bearer", authHeader: "Basic abc"},
		{name: "garbage token", authHeader: "Bearer not-a-jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()
			server.Router().ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", rec.Code)
			}
		})
	}
}

func TestEcho(t *testing.T) {
	server := newTestServer(t, nil)

	t.Run("echoes the body unchanged", func(t *testing.T) {
		body := `{"id":1,"nested":{"a":[1,2,3]}}`
		rec := doRequest(t, server, http.MethodPost, "/api/echo", strings.NewReader(body))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if rec.Body.String() != body {
			t.Errorf("body = %s, want %s", rec.Body.String(), body)
		}
	})

	t.Run("rejects invalid JSON", func(t *testing.T) {
		rec := doRequest(t, server, http.MethodPost, "/api/echo", strings.NewReader("{oops"))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestEchoSchemaValidation(t *testing.T) {
	schema := `{
		"type": "object",
		"required": ["id"],
		"properties": {"id": {"type": "integer"}}
	}`
	schemaPath := filepath.Join(t.TempDir(), "schema.json")
	if err := os.WriteFile(schemaPath, []byte(schema), 0o600); err != nil {
		t.Fatal(err)
	}

	server := newTestServer(t, func(cfg *Config) { cfg.SchemaPath = schemaPath })

	t.Run("conforming body passes", func(t *testing.T) {
		rec := doRequest(t, server, http.MethodPost, "/api/echo", strings.NewReader(`{"id":1}`))
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("non-conforming body fails", func(t *testing.T) {
		rec := doRequest(t, server, http.MethodPost, "/api/echo", strings.NewReader(`{"id":"one"}`))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "validation_failed") {
			t.Errorf("body = %s, want validation_failed code", rec.Body.String())
		}
	})
}

func TestFailRoutes(t *testing.T) {
	server := newTestServer(t, nil)

	t.Run("401 route", func(t *testing.T) {
		rec := doRequest(t, server, http.MethodGet, "/api/fail/401", nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("500 route", func(t *testing.T) {
		rec := doRequest(t, server, http.MethodGet, "/api/fail/500", nil)
		if rec.Code != http.StatusInternalServerError {
			t.Errorf("status = %d, want 500", rec.Code)
		}
	})

	t.Run("timeout route with short duration responds eventually", func(t *testing.T) {
		rec := doRequest(t, server, http.MethodGet, "/api/fail/timeout?duration=10ms", nil)
		if rec.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rec.Code)
		}
	})

	t.Run("timeout route rejects a bad duration", func(t *testing.T) {
		rec := doRequest(t, server, http.MethodGet, "/api/fail/timeout?duration=banana", nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestRequestSizeLimit(t *testing.T) {
	server := newTestServer(t, func(cfg *Config) { cfg.MaxRequestSize = 32 })

	big := `{"data":"` + strings.Repeat("x", 100) + `"}`
	rec := doRequest(t, server, http.MethodPost, "/api/echo", strings.NewReader(big))

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", rec.Code)
	}
	if got := rec.Header().Get("Apikit-Max-Request-Size"); got != "32" {
		t.Errorf("Apikit-Max-Request-Size = %q, want 32", got)
	}
}

func TestRateLimit(t *testing.T) {
	server := newTestServer(t, func(cfg *Config) {
		cfg.RateLimitRPS = 1
		cfg.RateLimitBurst = 1
	})

	first := doRequest(t, server, http.MethodGet, "/api/health", nil)
	if first.Code != http.StatusOK {
		t.Fatalf("first request status = %d, want 200", first.Code)
	}

	second := doRequest(t, server, http.MethodGet, "/api/health", nil)
	if second.Code != http.StatusTooManyRequests {
		t.Errorf("second request status = %d, want 429", second.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	server := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/echo", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "authorization,content-type")
	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, req)

	if rec.Code >= 400 {
		t.Fatalf("preflight status = %d: %s", rec.Code, rec.Body.String())
	}
	if rec.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("preflight response is missing Access-Control-Allow-Origin")
	}
}
