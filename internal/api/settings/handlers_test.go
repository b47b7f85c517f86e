package settings

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/leaguedesk/leaguedesk/internal/api/authz"
	"github.com/leaguedesk/leaguedesk/internal/db"
	"github.com/leaguedesk/leaguedesk/internal/testutil"
)

// NOTE: Tests cannot use t.Parallel() due to shared package state.

func setupSettingsTest(t *testing.T) (*db.DB, testutil.Fixture) {
	t.Helper()

	database := testutil.NewTestDB(t)
	fx := testutil.SeedLeague(t, database)

	InitHandlers(database)
	t.Cleanup(func() { queries = nil })

	return database, fx
}

func adminRequest(method, url string, body string, fx testutil.Fixture) *http.Request {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, url, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}
	ctx := authz.ContextWithLeague(req.Context(), &authz.League{ID: fx.LeagueID, Slug: "metro"})
	ctx = authz.ContextWithUser(ctx, &authz.AuthUser{
		ID:       fx.AdminID,
		LeagueID: fx.LeagueID,
		Role:     authz.RoleAdmin,
	})
	return req.WithContext(ctx)
}

func TestHandleNotificationSettingsDefaults(t *testing.T) {
	_, fx := setupSettingsTest(t)

	req := adminRequest(http.MethodGet, "/api/v1/settings/notifications", "", fx)
	recorder := httptest.NewRecorder()
	HandleNotificationSettings(recorder, req)
	if recorder.Code != http.StatusOK {
		t.Fatalf("get status = %d", recorder.Code)
	}

	var settings db.NotificationSettings
	if err := json.Unmarshal(recorder.Body.Bytes(), &settings); err != nil {
		t.Fatalf("decode settings: %v", err)
	}
	if !settings.Enabled {
		t.Error("expected notifications enabled when no settings row exists")
	}
	if settings.LeagueID != fx.LeagueID {
		t.Errorf("league id = %d, want %d", settings.LeagueID, fx.LeagueID)
	}
}

func TestHandleNotificationSettingsUpdateRoundTrip(t *testing.T) {
	_, fx := setupSettingsTest(t)

	req := adminRequest(http.MethodPut, "/api/v1/settings/notifications",
		`{"fromAddress":"league@metro.test","adminAddress":"admin@metro.test","enabled":true}`, fx)
	recorder := httptest.NewRecorder()
	HandleNotificationSettingsUpdate(recorder, req)
	if recorder.Code != http.StatusOK {
		t.Fatalf("update status = %d, body %s", recorder.Code, recorder.Body.String())
	}

	getReq := adminRequest(http.MethodGet, "/api/v1/settings/notifications", "", fx)
	getRecorder := httptest.NewRecorder()
	HandleNotificationSettings(getRecorder, getReq)

	var settings db.NotificationSettings
	if err := json.Unmarshal(getRecorder.Body.Bytes(), &settings); err != nil {
		t.Fatalf("decode settings: %v", err)
	}
	if settings.FromAddress != "league@metro.test" || settings.AdminAddress != "admin@metro.test" {
		t.Errorf("settings = %+v, want stored addresses", settings)
	}
	if !settings.Enabled {
		t.Error("expected enabled after update")
	}
}

func TestHandleNotificationSettingsUpdateRejectsBadAddress(t *testing.T) {
	_, fx := setupSettingsTest(t)

	req := adminRequest(http.MethodPut, "/api/v1/settings/notifications",
		`{"fromAddress":"not-an-address","enabled":true}`, fx)
	recorder := httptest.NewRecorder()
	HandleNotificationSettingsUpdate(recorder, req)
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("update status = %d, want 400", recorder.Code)
	}
}

func TestHandleActivityListRejectsBadLimit(t *testing.T) {
	_, fx := setupSettingsTest(t)

	req := adminRequest(http.MethodGet, "/api/v1/activity?limit=0", "", fx)
	recorder := httptest.NewRecorder()
	HandleActivityList(recorder, req)
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("activity status = %d, want 400", recorder.Code)
	}
}

func TestHandleActivityListEmpty(t *testing.T) {
	_, fx := setupSettingsTest(t)

	req := adminRequest(http.MethodGet, "/api/v1/activity", "", fx)
	recorder := httptest.NewRecorder()
	HandleActivityList(recorder, req)
	if recorder.Code != http.StatusOK {
		t.Fatalf("activity status = %d", recorder.Code)
	}

	var resp struct {
		Activity []db.ActivityEntry `json:"activity"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode activity: %v", err)
	}
	if len(resp.Activity) != 0 {
		t.Errorf("activity = %d entries, want 0", len(resp.Activity))
	}
}
