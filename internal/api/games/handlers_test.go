package games

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/leaguedesk/leaguedesk/internal/api/authz"
	"github.com/leaguedesk/leaguedesk/internal/db"
	"github.com/leaguedesk/leaguedesk/internal/schedule"
	"github.com/leaguedesk/leaguedesk/internal/testutil"
)

// NOTE: Tests cannot use t.Parallel() due to shared package state.

func setupGamesTest(t *testing.T) (*db.DB, testutil.Fixture) {
	t.Helper()

	database := testutil.NewTestDB(t)
	fx := testutil.SeedLeague(t, database)

	InitHandlers(database, schedule.New(database, nil))
	t.Cleanup(func() {
		queries = nil
		workflow = nil
	})

	return database, fx
}

func asAdmin(req *http.Request, fx testutil.Fixture) *http.Request {
	ctx := authz.ContextWithLeague(req.Context(), &authz.League{ID: fx.LeagueID, Slug: "metro"})
	ctx = authz.ContextWithUser(ctx, &authz.AuthUser{
		ID:       fx.AdminID,
		LeagueID: fx.LeagueID,
		Role:     authz.RoleAdmin,
	})
	return req.WithContext(ctx)
}

func asCoach(req *http.Request, fx testutil.Fixture) *http.Request {
	teamID := fx.HomeID
	ctx := authz.ContextWithLeague(req.Context(), &authz.League{ID: fx.LeagueID, Slug: "metro"})
	ctx = authz.ContextWithUser(ctx, &authz.AuthUser{
		ID:       fx.CoachID,
		LeagueID: fx.LeagueID,
		Role:     authz.RoleCoach,
		TeamID:   &teamID,
	})
	return req.WithContext(ctx)
}

func createGameRequest(t *testing.T, fx testutil.Fixture) int64 {
	t.Helper()

	body := fmt.Sprintf(`{"seasonId":%d,"homeTeamId":%d,"awayTeamId":%d,"gameDate":"2026-09-12","gameTime":"10:00","location":"Field 1"}`,
		fx.SeasonID, fx.HomeID, fx.AwayID)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/games", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req = asAdmin(req, fx)

	recorder := httptest.NewRecorder()
	HandleGameCreate(recorder, req)
	if recorder.Code != http.StatusCreated {
		t.Fatalf("create game status = %d, body %s", recorder.Code, recorder.Body.String())
	}

	var detail gameDetailResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &detail); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	return detail.GameID
}

func TestHandleGameCreateAndDetail(t *testing.T) {
	_, fx := setupGamesTest(t)

	gameID := createGameRequest(t, fx)

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/games/%d", gameID), nil)
	req.SetPathValue("id", fmt.Sprint(gameID))
	req = asAdmin(req, fx)

	recorder := httptest.NewRecorder()
	HandleGameDetail(recorder, req)
	if recorder.Code != http.StatusOK {
		t.Fatalf("detail status = %d, body %s", recorder.Code, recorder.Body.String())
	}

	var detail gameDetailResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &detail); err != nil {
		t.Fatalf("decode detail: %v", err)
	}
	if detail.HomeTeamName != "Rapids" || detail.AwayTeamName != "Thunder" {
		t.Errorf("matchup = %s vs %s, want Rapids vs Thunder", detail.HomeTeamName, detail.AwayTeamName)
	}
	if detail.Status != schedule.StatusScheduled {
		t.Errorf("status = %q, want %q", detail.Status, schedule.StatusScheduled)
	}
	if detail.GameDate != "2026-09-12" || detail.Location != "Field 1" {
		t.Errorf("schedule = %s at %s, want 2026-09-12 at Field 1", detail.GameDate, detail.Location)
	}
}

func TestHandleGameCreateRejectsSameTeam(t *testing.T) {
	_, fx := setupGamesTest(t)

	body := fmt.Sprintf(`{"seasonId":%d,"homeTeamId":%d,"awayTeamId":%d,"gameDate":"2026-09-12","gameTime":"10:00","location":"Field 1"}`,
		fx.SeasonID, fx.HomeID, fx.HomeID)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/games", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req = asAdmin(req, fx)

	recorder := httptest.NewRecorder()
	HandleGameCreate(recorder, req)
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", recorder.Code, http.StatusBadRequest)
	}
}

func TestHandleGameCreateForbiddenForCoach(t *testing.T) {
	_, fx := setupGamesTest(t)

	body := fmt.Sprintf(`{"seasonId":%d,"homeTeamId":%d,"awayTeamId":%d,"gameDate":"2026-09-12","gameTime":"10:00","location":"Field 1"}`,
		fx.SeasonID, fx.HomeID, fx.AwayID)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/games", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req = asCoach(req, fx)

	recorder := httptest.NewRecorder()
	HandleGameCreate(recorder, req)
	if recorder.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", recorder.Code, http.StatusForbidden)
	}
}

func TestHandleGameCancelThenConflict(t *testing.T) {
	_, fx := setupGamesTest(t)
	gameID := createGameRequest(t, fx)

	cancel := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/v1/games/%d/cancel", gameID),
			strings.NewReader(`{"reason":"rainout"}`))
		req.Header.Set("Content-Type", "application/json")
		req.SetPathValue("id", fmt.Sprint(gameID))
		req = asAdmin(req, fx)

		recorder := httptest.NewRecorder()
		HandleGameCancel(recorder, req)
		return recorder
	}

	first := cancel()
	if first.Code != http.StatusOK {
		t.Fatalf("cancel status = %d, body %s", first.Code, first.Body.String())
	}
	var resp struct {
		Version int64 `json:"version"`
	}
	if err := json.Unmarshal(first.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode cancel response: %v", err)
	}
	if resp.Version != 2 {
		t.Errorf("version = %d, want 2", resp.Version)
	}

	second := cancel()
	if second.Code != http.StatusConflict {
		t.Fatalf("second cancel status = %d, want %d", second.Code, http.StatusConflict)
	}
}

func TestHandleGameScoreByCoach(t *testing.T) {
	database, fx := setupGamesTest(t)
	gameID := createGameRequest(t, fx)

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/v1/games/%d/score", gameID),
		strings.NewReader(`{"homeScore":3,"awayScore":1}`))
	req.Header.Set("Content-Type", "application/json")
	req.SetPathValue("id", fmt.Sprint(gameID))
	req = asCoach(req, fx)

	recorder := httptest.NewRecorder()
	HandleGameScore(recorder, req)
	if recorder.Code != http.StatusOK {
		t.Fatalf("score status = %d, body %s", recorder.Code, recorder.Body.String())
	}

	game, err := database.Queries.GetGame(t.Context(), gameID)
	if err != nil {
		t.Fatalf("get game: %v", err)
	}
	if game.Status != schedule.StatusCompleted {
		t.Errorf("status = %q, want %q", game.Status, schedule.StatusCompleted)
	}
	if !game.HomeScore.Valid || game.HomeScore.Int64 != 3 {
		t.Errorf("home score = %+v, want 3", game.HomeScore)
	}
}

func TestHandleGameScoreConflictOnCancelledGame(t *testing.T) {
	database, fx := setupGamesTest(t)
	gameID := createGameRequest(t, fx)

	cancelReq := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/v1/games/%d/cancel", gameID),
		strings.NewReader(`{"reason":"rainout"}`))
	cancelReq.Header.Set("Content-Type", "application/json")
	cancelReq.SetPathValue("id", fmt.Sprint(gameID))
	cancelReq = asAdmin(cancelReq, fx)

	recorder := httptest.NewRecorder()
	HandleGameCancel(recorder, cancelReq)
	if recorder.Code != http.StatusOK {
		t.Fatalf("cancel status = %d, body %s", recorder.Code, recorder.Body.String())
	}

	scoreReq := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/v1/games/%d/score", gameID),
		strings.NewReader(`{"homeScore":3,"awayScore":1}`))
	scoreReq.Header.Set("Content-Type", "application/json")
	scoreReq.SetPathValue("id", fmt.Sprint(gameID))
	scoreReq = asCoach(scoreReq, fx)

	recorder = httptest.NewRecorder()
	HandleGameScore(recorder, scoreReq)
	if recorder.Code != http.StatusConflict {
		t.Fatalf("score status = %d, want %d", recorder.Code, http.StatusConflict)
	}

	game, err := database.Queries.GetGame(t.Context(), gameID)
	if err != nil {
		t.Fatalf("get game: %v", err)
	}
	if game.Status != schedule.StatusCancelled {
		t.Errorf("status = %q, want %q", game.Status, schedule.StatusCancelled)
	}
}

func TestHandleGameScoreForbiddenForOutsideCoach(t *testing.T) {
	database, fx := setupGamesTest(t)
	gameID := createGameRequest(t, fx)

	outsider, err := database.Queries.CreateUser(t.Context(), db.CreateUserParams{
		LeagueID:     fx.LeagueID,
		Email:        "other@metro.test",
		Name:         "Robin Rival",
		Role:         "coach",
		PasswordHash: "x",
	})
	if err != nil {
		t.Fatalf("create outsider: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/v1/games/%d/score", gameID),
		strings.NewReader(`{"homeScore":1,"awayScore":0}`))
	req.Header.Set("Content-Type", "application/json")
	req.SetPathValue("id", fmt.Sprint(gameID))
	ctx := authz.ContextWithLeague(req.Context(), &authz.League{ID: fx.LeagueID, Slug: "metro"})
	ctx = authz.ContextWithUser(ctx, &authz.AuthUser{
		ID:       outsider.ID,
		LeagueID: fx.LeagueID,
		Role:     authz.RoleCoach,
	})
	req = req.WithContext(ctx)

	recorder := httptest.NewRecorder()
	HandleGameScore(recorder, req)
	if recorder.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want %d", recorder.Code, http.StatusForbidden)
	}
}

func TestHandleGameHistory(t *testing.T) {
	_, fx := setupGamesTest(t)
	gameID := createGameRequest(t, fx)

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/games/%d/history", gameID), nil)
	req.SetPathValue("id", fmt.Sprint(gameID))
	req = asAdmin(req, fx)

	recorder := httptest.NewRecorder()
	HandleGameHistory(recorder, req)
	if recorder.Code != http.StatusOK {
		t.Fatalf("history status = %d, body %s", recorder.Code, recorder.Body.String())
	}

	var resp struct {
		History []db.ScheduleHistoryEntry `json:"history"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if len(resp.History) != 1 {
		t.Fatalf("history length = %d, want 1", len(resp.History))
	}
	if resp.History[0].VersionNumber != 1 || !resp.History[0].IsCurrent {
		t.Errorf("first entry = v%d current=%v, want v1 current", resp.History[0].VersionNumber, resp.History[0].IsCurrent)
	}
}

func TestHandleGameDetailUnknownGame(t *testing.T) {
	_, fx := setupGamesTest(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/games/999", nil)
	req.SetPathValue("id", "999")
	req = asAdmin(req, fx)

	recorder := httptest.NewRecorder()
	HandleGameDetail(recorder, req)
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", recorder.Code, http.StatusNotFound)
	}
}
