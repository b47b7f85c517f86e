// internal/api/teams/handlers.go
package teams

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/leaguedesk/leaguedesk/internal/api/apiutil"
	"github.com/leaguedesk/leaguedesk/internal/api/authz"
	appdb "github.com/leaguedesk/leaguedesk/internal/db"
)

const (
	teamIDPathKey     = "id"
	defaultTeamStatus = "active"
)

var queries *appdb.Queries

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(database *appdb.DB) {
	if database == nil {
		return
	}
	queries = database.Queries
}

type teamRequest struct {
	Name        string `json:"name"`
	CoachUserID *int64 `json:"coachUserId"`
	Status      string `json:"status"`
}

// GET /api/v1/teams
func HandleTeamsList(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if queries == nil {
		logger.Error().Msg("Database queries not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if !apiutil.RequireRole(w, r, authz.RoleAdmin) {
		return
	}

	league := authz.LeagueFromContext(r.Context())
	if league == nil {
		http.Error(w, "League not specified", http.StatusNotFound)
		return
	}

	ctx, cancel := apiutil.QueryTimeout(r)
	defer cancel()

	teams, err := queries.ListTeamsByLeague(ctx, league.ID)
	if err != nil {
		logger.Error().Err(err).Int64("league_id", league.ID).Msg("Failed to list teams")
		http.Error(w, "Failed to list teams", http.StatusInternalServerError)
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, map[string]any{"teams": teams}); err != nil {
		logger.Error().Err(err).Int64("league_id", league.ID).Msg("Failed to write teams response")
	}
}

// POST /api/v1/teams
func HandleTeamCreate(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if queries == nil {
		logger.Error().Msg("Database queries not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if !apiutil.RequireRole(w, r, authz.RoleAdmin) {
		return
	}

	league := authz.LeagueFromContext(r.Context())
	if league == nil {
		http.Error(w, "League not specified", http.StatusNotFound)
		return
	}

	req, err := decodeTeamRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	name, status, err := parseTeamRequest(req, defaultTeamStatus)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := apiutil.QueryTimeout(r)
	defer cancel()

	if req.CoachUserID != nil && !coachInLeague(w, r, league.ID, *req.CoachUserID) {
		return
	}

	team, err := queries.CreateTeam(ctx, appdb.CreateTeamParams{
		LeagueID:    league.ID,
		Name:        name,
		CoachUserID: apiutil.ToNullInt64(req.CoachUserID),
		Status:      status,
	})
	if err != nil {
		if apiutil.IsSQLiteUniqueViolation(err) {
			http.Error(w, "Team name already exists", http.StatusConflict)
			return
		}
		if apiutil.IsSQLiteForeignKeyViolation(err) {
			http.Error(w, "Coach not found", http.StatusNotFound)
			return
		}
		logger.Error().Err(err).Int64("league_id", league.ID).Msg("Failed to create team")
		http.Error(w, "Failed to create team", http.StatusInternalServerError)
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusCreated, team); err != nil {
		logger.Error().Err(err).Int64("team_id", team.ID).Msg("Failed to write team response")
	}
}

// GET /api/v1/teams/{id}
func HandleTeamDetail(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if queries == nil {
		logger.Error().Msg("Database queries not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if !apiutil.RequireRole(w, r, authz.RoleAdmin) {
		return
	}

	team, ok := teamInLeague(w, r)
	if !ok {
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, team); err != nil {
		logger.Error().Err(err).Int64("team_id", team.ID).Msg("Failed to write team response")
	}
}

// PUT /api/v1/teams/{id}
func HandleTeamUpdate(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if queries == nil {
		logger.Error().Msg("Database queries not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if !apiutil.RequireRole(w, r, authz.RoleAdmin) {
		return
	}

	req, err := decodeTeamRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	name, status, err := parseTeamRequest(req, "")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	team, ok := teamInLeague(w, r)
	if !ok {
		return
	}

	ctx, cancel := apiutil.QueryTimeout(r)
	defer cancel()

	if req.CoachUserID != nil && !coachInLeague(w, r, team.LeagueID, *req.CoachUserID) {
		return
	}

	updated, err := queries.UpdateTeam(ctx, appdb.UpdateTeamParams{
		ID:          team.ID,
		Name:        name,
		CoachUserID: apiutil.ToNullInt64(req.CoachUserID),
		Status:      status,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Team not found", http.StatusNotFound)
			return
		}
		if apiutil.IsSQLiteUniqueViolation(err) {
			http.Error(w, "Team name already exists", http.StatusConflict)
			return
		}
		logger.Error().Err(err).Int64("team_id", team.ID).Msg("Failed to update team")
		http.Error(w, "Failed to update team", http.StatusInternalServerError)
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, updated); err != nil {
		logger.Error().Err(err).Int64("team_id", team.ID).Msg("Failed to write team response")
	}
}

// DELETE /api/v1/teams/{id}
func HandleTeamDelete(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if queries == nil {
		logger.Error().Msg("Database queries not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if !apiutil.RequireRole(w, r, authz.RoleAdmin) {
		return
	}

	team, ok := teamInLeague(w, r)
	if !ok {
		return
	}

	ctx, cancel := apiutil.QueryTimeout(r)
	defer cancel()

	affected, err := queries.DeleteTeam(ctx, team.ID)
	if err != nil {
		if apiutil.IsSQLiteForeignKeyViolation(err) {
			http.Error(w, "Team has games and cannot be deleted", http.StatusConflict)
			return
		}
		logger.Error().Err(err).Int64("team_id", team.ID).Msg("Failed to delete team")
		http.Error(w, "Failed to delete team", http.StatusInternalServerError)
		return
	}
	if affected == 0 {
		http.Error(w, "Team not found", http.StatusNotFound)
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, map[string]any{"deleted": team.ID}); err != nil {
		logger.Error().Err(err).Int64("team_id", team.ID).Msg("Failed to write team delete response")
	}
}

func teamInLeague(w http.ResponseWriter, r *http.Request) (appdb.Team, bool) {
	logger := log.Ctx(r.Context())

	teamID, err := teamIDFromRequest(r)
	if err != nil {
		http.Error(w, "Invalid team ID", http.StatusBadRequest)
		return appdb.Team{}, false
	}

	ctx, cancel := apiutil.QueryTimeout(r)
	defer cancel()

	team, err := queries.GetTeam(ctx, teamID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Team not found", http.StatusNotFound)
			return appdb.Team{}, false
		}
		logger.Error().Err(err).Int64("team_id", teamID).Msg("Failed to fetch team")
		http.Error(w, "Failed to fetch team", http.StatusInternalServerError)
		return appdb.Team{}, false
	}

	if league := authz.LeagueFromContext(r.Context()); league != nil && league.ID != team.LeagueID {
		http.Error(w, "Team not found", http.StatusNotFound)
		return appdb.Team{}, false
	}
	return team, true
}

// coachInLeague verifies that a coach assignment stays inside the league.
func coachInLeague(w http.ResponseWriter, r *http.Request, leagueID, coachUserID int64) bool {
	logger := log.Ctx(r.Context())

	ctx, cancel := apiutil.QueryTimeout(r)
	defer cancel()

	user, err := queries.GetUserByID(ctx, coachUserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Coach not found", http.StatusNotFound)
			return false
		}
		logger.Error().Err(err).Int64("coach_user_id", coachUserID).Msg("Failed to fetch coach")
		http.Error(w, "Failed to fetch coach", http.StatusInternalServerError)
		return false
	}
	if user.LeagueID != leagueID {
		http.Error(w, "Coach not found", http.StatusNotFound)
		return false
	}
	return true
}

func parseTeamRequest(req teamRequest, defaultStatus string) (string, string, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return "", "", fmt.Errorf("name is required")
	}

	status := strings.ToLower(strings.TrimSpace(req.Status))
	if status == "" {
		if defaultStatus == "" {
			return "", "", fmt.Errorf("status is required")
		}
		status = defaultStatus
	}
	switch status {
	case "active", "inactive":
	default:
		return "", "", fmt.Errorf("status must be active or inactive")
	}

	return name, status, nil
}

func decodeTeamRequest(r *http.Request) (teamRequest, error) {
	if apiutil.IsJSONRequest(r) {
		var req teamRequest
		return req, apiutil.DecodeJSON(r, &req)
	}

	if err := r.ParseForm(); err != nil {
		return teamRequest{}, err
	}

	req := teamRequest{
		Name:   apiutil.FirstNonEmpty(r.FormValue("name")),
		Status: apiutil.FirstNonEmpty(r.FormValue("status")),
	}
	if raw := apiutil.FirstNonEmpty(r.FormValue("coach_user_id"), r.FormValue("coachUserId")); raw != "" {
		coachUserID, err := apiutil.ParsePositiveInt64Field(raw, "coach_user_id")
		if err != nil {
			return teamRequest{}, err
		}
		req.CoachUserID = &coachUserID
	}
	return req, nil
}

func teamIDFromRequest(r *http.Request) (int64, error) {
	raw := strings.TrimSpace(r.PathValue(teamIDPathKey))
	if raw == "" {
		return 0, fmt.Errorf("invalid team ID")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid team ID")
	}
	return id, nil
}
