package teams

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/leaguedesk/leaguedesk/internal/api/authz"
	"github.com/leaguedesk/leaguedesk/internal/db"
	"github.com/leaguedesk/leaguedesk/internal/testutil"
)

// NOTE: Tests cannot use t.Parallel() due to shared package state.

func setupTeamsTest(t *testing.T) (*db.DB, testutil.Fixture) {
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

func TestHandleTeamCreateAndList(t *testing.T) {
	_, fx := setupTeamsTest(t)

	req := adminRequest(http.MethodPost, "/api/v1/teams",
		fmt.Sprintf(`{"name":"United","coachUserId":%d}`, fx.CoachID), fx)
	recorder := httptest.NewRecorder()
	HandleTeamCreate(recorder, req)
	if recorder.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", recorder.Code, recorder.Body.String())
	}

	var team db.Team
	if err := json.Unmarshal(recorder.Body.Bytes(), &team); err != nil {
		t.Fatalf("decode team: %v", err)
	}
	if team.Name != "United" || team.Status != "active" {
		t.Errorf("team = %s/%s, want United/active", team.Name, team.Status)
	}

	listReq := adminRequest(http.MethodGet, "/api/v1/teams", "", fx)
	listRecorder := httptest.NewRecorder()
	HandleTeamsList(listRecorder, listReq)
	if listRecorder.Code != http.StatusOK {
		t.Fatalf("list status = %d", listRecorder.Code)
	}
	var resp struct {
		Teams []db.Team `json:"teams"`
	}
	if err := json.Unmarshal(listRecorder.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(resp.Teams) != 3 {
		t.Errorf("teams = %d, want 3", len(resp.Teams))
	}
}

func TestHandleTeamCreateDuplicateName(t *testing.T) {
	_, fx := setupTeamsTest(t)

	req := adminRequest(http.MethodPost, "/api/v1/teams", `{"name":"Rapids"}`, fx)
	recorder := httptest.NewRecorder()
	HandleTeamCreate(recorder, req)
	if recorder.Code != http.StatusConflict {
		t.Fatalf("status = %d, want %d", recorder.Code, http.StatusConflict)
	}
}

func TestHandleTeamUpdate(t *testing.T) {
	_, fx := setupTeamsTest(t)

	req := adminRequest(http.MethodPut, fmt.Sprintf("/api/v1/teams/%d", fx.AwayID),
		fmt.Sprintf(`{"name":"Thunderbolts","coachUserId":%d,"status":"active"}`, fx.CoachID), fx)
	req.SetPathValue("id", fmt.Sprint(fx.AwayID))
	recorder := httptest.NewRecorder()
	HandleTeamUpdate(recorder, req)
	if recorder.Code != http.StatusOK {
		t.Fatalf("update status = %d, body %s", recorder.Code, recorder.Body.String())
	}

	var team db.Team
	if err := json.Unmarshal(recorder.Body.Bytes(), &team); err != nil {
		t.Fatalf("decode team: %v", err)
	}
	if team.Name != "Thunderbolts" {
		t.Errorf("name = %q, want Thunderbolts", team.Name)
	}
	if !team.CoachUserID.Valid || team.CoachUserID.Int64 != fx.CoachID {
		t.Errorf("coach = %+v, want %d", team.CoachUserID, fx.CoachID)
	}
}

func TestHandleTeamDeleteUnknown(t *testing.T) {
	_, fx := setupTeamsTest(t)

	req := adminRequest(http.MethodDelete, "/api/v1/teams/999", "", fx)
	req.SetPathValue("id", "999")
	recorder := httptest.NewRecorder()
	HandleTeamDelete(recorder, req)
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", recorder.Code, http.StatusNotFound)
	}
}
