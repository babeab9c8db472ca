package auth

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"

	"upperroom/pkg/config"
	apperrors "upperroom/pkg/errors"
	"upperroom/pkg/logger"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:     "test-secret",
		AdminUsername: "admin",
		AdminPassword: "hunter2",
		TokenTTL:      24 * time.Hour,
	}
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Output: io.Discard})
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	svc := NewService(testConfig())

	token, err := svc.Login("admin", "hunter2")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if token == "" {
		t.Fatal("expected a non-empty token")
	}

	if err := svc.VerifyAdmin("Bearer " + token); err != nil {
		t.Fatalf("VerifyAdmin rejected freshly issued token: %v", err)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := NewService(testConfig())

	cases := []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", "admin", "wrong"},
		{"wrong username", "root", "hunter2"},
		{"empty password", "admin", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Login(tc.username, tc.password)
			appErr := apperrors.AsAppError(err)
			if appErr.HTTPStatus != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", appErr.HTTPStatus)
			}
		})
	}
}

func TestVerifyAdminRejectsMalformedHeaders(t *testing.T) {
	svc := NewService(testConfig())

	for _, header := range []string{"", "Bearer", "Basic abc", "Bearer not.a.jwt"} {
		if err := svc.VerifyAdmin(header); err == nil {
			t.Fatalf("expected error for header %q", header)
		}
	}
}

func TestVerifyAdminRejectsExpiredToken(t *testing.T) {
	cfg := testConfig()
	cfg.TokenTTL = -time.Hour

	issuer := NewService(cfg)
	token, err := issuer.Login("admin", "hunter2")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	err = NewService(testConfig()).VerifyAdmin("Bearer " + token)
	if err == nil {
		t.Fatal("expected expired token to be rejected")
	}
	appErr := apperrors.AsAppError(err)
	if appErr.HTTPStatus != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", appErr.HTTPStatus)
	}
}

func TestVerifyAdminRejectsForgedSecret(t *testing.T) {
	forger := NewService(&config.Config{
		JWTSecret:     "other-secret",
		AdminUsername: "admin",
		AdminPassword: "hunter2",
		TokenTTL:      24 * time.Hour,
	})
	token, err := forger.Login("admin", "hunter2")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	svc := NewService(testConfig())
	if err := svc.VerifyAdmin("Bearer " + token); err == nil {
		t.Fatal("expected token signed with another secret to be rejected")
	}
}

func TestRequireAdminMiddleware(t *testing.T) {
	svc := NewService(testConfig())

	called := false
	protected := RequireAdmin(svc, func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		called = true
		w.WriteHeader(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/admin/bookings", nil)
	protected(rec, req, nil)

	if called {
		t.Fatal("handler must not run without a token")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	token, err := svc.Login("admin", "hunter2")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/admin/bookings", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	protected(rec, req, nil)

	if !called {
		t.Fatal("handler should run with a valid token")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestLoginHandler(t *testing.T) {
	svc := NewService(testConfig())
	handler := NewHandler(svc, testLogger())

	router := httprouter.New()
	handler.RegisterRoutes(router)

	body := `{"username":"admin","password":"hunter2"}`
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/admin/login", strings.NewReader(body))
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Data LoginResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Data.Token == "" {
		t.Fatal("expected token in response")
	}

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/admin/login", strings.NewReader(`{"username":"admin","password":"nope"}`))
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
