package auth

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/leaguedesk/leaguedesk/internal/api/authz"
	"github.com/leaguedesk/leaguedesk/internal/config"
	"github.com/leaguedesk/leaguedesk/internal/db"
	"github.com/leaguedesk/leaguedesk/internal/testutil"
)

// NOTE: Tests cannot use t.Parallel() due to shared package state.

func setupLoginTest(t *testing.T) (*db.DB, testutil.Fixture) {
	t.Helper()

	database := testutil.NewTestDB(t)
	fx := testutil.SeedLeague(t, database)

	cfg := &config.Config{}
	cfg.App.Environment = "development"
	cfg.App.SecretKey = "test-secret"
	InitHandlers(database, cfg)
	t.Cleanup(func() {
		limiter.Close()
		queries = nil
		appConfig = nil
		limiter = nil
	})

	hash, err := HashPassword("sideline-pass")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if _, err := database.ExecContext(t.Context(),
		"UPDATE users SET password_hash = ? WHERE id = ?", hash, fx.CoachID); err != nil {
		t.Fatalf("set password: %v", err)
	}

	return database, fx
}

func loginForm(t *testing.T, fx testutil.Fixture, email, password string) *httptest.ResponseRecorder {
	t.Helper()

	form := url.Values{}
	form.Set("email", email)
	form.Set("password", password)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req = req.WithContext(authz.ContextWithLeague(req.Context(), &authz.League{
		ID:   fx.LeagueID,
		Slug: "metro",
	}))

	recorder := httptest.NewRecorder()
	HandleLogin(recorder, req)
	return recorder
}

func TestHandleLoginSuccess(t *testing.T) {
	_, fx := setupLoginTest(t)

	recorder := loginForm(t, fx, "coach@metro.test", "sideline-pass")
	if recorder.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want %d", recorder.Code, http.StatusSeeOther)
	}

	cookies := recorder.Result().Cookies()
	var haveSession, haveAuth bool
	for _, cookie := range cookies {
		switch cookie.Name {
		case sessionCookieName:
			haveSession = cookie.Value != ""
		case authCookieName:
			haveAuth = cookie.Value != ""
		}
	}
	if !haveSession || !haveAuth {
		t.Errorf("cookies session=%v auth=%v, want both set", haveSession, haveAuth)
	}
}

func TestHandleLoginWrongPassword(t *testing.T) {
	_, fx := setupLoginTest(t)

	recorder := loginForm(t, fx, "coach@metro.test", "wrong")
	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", recorder.Code, http.StatusUnauthorized)
	}
}

func TestHandleLoginUnknownUser(t *testing.T) {
	_, fx := setupLoginTest(t)

	recorder := loginForm(t, fx, "nobody@metro.test", "whatever")
	if recorder.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", recorder.Code, http.StatusUnauthorized)
	}
}

func TestHandleLoginLockoutAfterRepeatedFailures(t *testing.T) {
	_, fx := setupLoginTest(t)

	var last *httptest.ResponseRecorder
	for i := 0; i < 6; i++ {
		last = loginForm(t, fx, "coach@metro.test", "wrong")
	}
	if last.Code != http.StatusTooManyRequests {
		t.Fatalf("status after lockout = %d, want %d", last.Code, http.StatusTooManyRequests)
	}
	if last.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header on lockout")
	}
}

func TestHandleLoginMissingLeague(t *testing.T) {
	setupLoginTest(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader("email=a@b.c&password=x"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	recorder := httptest.NewRecorder()
	HandleLogin(recorder, req)
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", recorder.Code, http.StatusNotFound)
	}
}
