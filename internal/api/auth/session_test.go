package auth

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/leaguedesk/leaguedesk/internal/api/authz"
	"github.com/leaguedesk/leaguedesk/internal/config"
)

func TestParseAuthCookieAdminRole(t *testing.T) {
	prevConfig := appConfig
	appConfig = &config.Config{}
	appConfig.App.SecretKey = "test-secret"
	t.Cleanup(func() {
		appConfig = prevConfig
	})

	sessionPayload := authSession{
		UserID:    42,
		LeagueID:  1,
		Role:      authz.RoleAdmin,
		ExpiresAt: time.Now().Add(time.Hour).Unix(),
	}

	payloadBytes, err := json.Marshal(sessionPayload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}

	req := makeAuthRequest(t, payloadBytes)

	session, err := parseAuthCookie(req)
	if err != nil {
		t.Fatalf("parse auth cookie: %v", err)
	}
	if session == nil {
		t.Fatal("expected session, got nil")
	}
	if session.Role != authz.RoleAdmin {
		t.Fatalf("expected role %q, got %q", authz.RoleAdmin, session.Role)
	}
	if session.LeagueID != 1 {
		t.Fatalf("expected league id 1, got %d", session.LeagueID)
	}
}

func TestParseAuthCookieExpired(t *testing.T) {
	prevConfig := appConfig
	appConfig = &config.Config{}
	appConfig.App.SecretKey = "test-secret"
	t.Cleanup(func() {
		appConfig = prevConfig
	})

	sessionPayload := authSession{
		UserID:    42,
		LeagueID:  1,
		Role:      authz.RoleCoach,
		ExpiresAt: time.Now().Add(-time.Minute).Unix(),
	}

	payloadBytes, err := json.Marshal(sessionPayload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}

	req := makeAuthRequest(t, payloadBytes)

	if _, err := parseAuthCookie(req); err == nil {
		t.Fatal("expected expired session error")
	}
}

func TestParseAuthCookieTamperedSignature(t *testing.T) {
	prevConfig := appConfig
	appConfig = &config.Config{}
	appConfig.App.SecretKey = "test-secret"
	t.Cleanup(func() {
		appConfig = prevConfig
	})

	payloadBytes, err := json.Marshal(authSession{
		UserID:    42,
		LeagueID:  1,
		Role:      authz.RoleAdmin,
		ExpiresAt: time.Now().Add(time.Hour).Unix(),
	})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}

	encodedPayload := base64.RawURLEncoding.EncodeToString(payloadBytes)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{
		Name:  authCookieName,
		Value: encodedPayload + ".bogus-signature",
	})

	if _, err := parseAuthCookie(req); err == nil {
		t.Fatal("expected signature mismatch error")
	}
}

func TestNormalizeRoleUnknownDefaultsToCoach(t *testing.T) {
	if normalized := normalizeRole("referee"); normalized != authz.RoleCoach {
		t.Fatalf("expected role %q, got %q", authz.RoleCoach, normalized)
	}
}

func makeAuthRequest(t *testing.T, payload []byte) *http.Request {
	t.Helper()

	encodedPayload := base64.RawURLEncoding.EncodeToString(payload)
	signature, err := signPayload(encodedPayload)
	if err != nil {
		t.Fatalf("sign payload: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{
		Name:  authCookieName,
		Value: encodedPayload + "." + signature,
	})

	return req
}
