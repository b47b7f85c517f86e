// internal/api/seasons/handlers.go
package seasons

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/leaguedesk/leaguedesk/internal/api/apiutil"
	"github.com/leaguedesk/leaguedesk/internal/api/authz"
	appdb "github.com/leaguedesk/leaguedesk/internal/db"
)

const (
	seasonIDPathKey     = "id"
	seasonDateLayout    = "2006-01-02"
	defaultSeasonStatus = "draft"
)

var queries *appdb.Queries

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(database *appdb.DB) {
	if database == nil {
		return
	}
	queries = database.Queries
}

type seasonRequest struct {
	Name     string `json:"name"`
	StartsOn string `json:"startsOn"`
	EndsOn   string `json:"endsOn"`
	Status   string `json:"status"`
}

type divisionRequest struct {
	Name string `json:"name"`
}

// GET /api/v1/seasons
func HandleSeasonsList(w http.ResponseWriter, r *http.Request) {
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

	seasons, err := queries.ListSeasonsByLeague(ctx, league.ID)
	if err != nil {
		logger.Error().Err(err).Int64("league_id", league.ID).Msg("Failed to list seasons")
		http.Error(w, "Failed to list seasons", http.StatusInternalServerError)
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, map[string]any{"seasons": seasons}); err != nil {
		logger.Error().Err(err).Int64("league_id", league.ID).Msg("Failed to write seasons response")
	}
}

// POST /api/v1/seasons
func HandleSeasonCreate(w http.ResponseWriter, r *http.Request) {
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

	req, err := decodeSeasonRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	input, err := parseSeasonRequest(req, defaultSeasonStatus)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := apiutil.QueryTimeout(r)
	defer cancel()

	season, err := queries.CreateSeason(ctx, appdb.CreateSeasonParams{
		LeagueID: league.ID,
		Name:     input.Name,
		StartsOn: input.StartsOn,
		EndsOn:   input.EndsOn,
		Status:   input.Status,
	})
	if err != nil {
		logger.Error().Err(err).Int64("league_id", league.ID).Msg("Failed to create season")
		http.Error(w, "Failed to create season", http.StatusInternalServerError)
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusCreated, season); err != nil {
		logger.Error().Err(err).Int64("season_id", season.ID).Msg("Failed to write season response")
	}
}

// GET /api/v1/seasons/{id}
func HandleSeasonDetail(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if queries == nil {
		logger.Error().Msg("Database queries not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if !apiutil.RequireRole(w, r, authz.RoleAdmin) {
		return
	}

	season, ok := seasonInLeague(w, r)
	if !ok {
		return
	}

	ctx, cancel := apiutil.QueryTimeout(r)
	defer cancel()

	divisions, err := queries.ListDivisionsBySeason(ctx, season.ID)
	if err != nil {
		logger.Error().Err(err).Int64("season_id", season.ID).Msg("Failed to list divisions")
		http.Error(w, "Failed to fetch season", http.StatusInternalServerError)
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, map[string]any{
		"season":    season,
		"divisions": divisions,
	}); err != nil {
		logger.Error().Err(err).Int64("season_id", season.ID).Msg("Failed to write season response")
	}
}

// PUT /api/v1/seasons/{id}
func HandleSeasonUpdate(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if queries == nil {
		logger.Error().Msg("Database queries not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if !apiutil.RequireRole(w, r, authz.RoleAdmin) {
		return
	}

	req, err := decodeSeasonRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	input, err := parseSeasonRequest(req, "")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	season, ok := seasonInLeague(w, r)
	if !ok {
		return
	}

	ctx, cancel := apiutil.QueryTimeout(r)
	defer cancel()

	updated, err := queries.UpdateSeason(ctx, appdb.UpdateSeasonParams{
		ID:       season.ID,
		Name:     input.Name,
		StartsOn: input.StartsOn,
		EndsOn:   input.EndsOn,
		Status:   input.Status,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Season not found", http.StatusNotFound)
			return
		}
		logger.Error().Err(err).Int64("season_id", season.ID).Msg("Failed to update season")
		http.Error(w, "Failed to update season", http.StatusInternalServerError)
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, updated); err != nil {
		logger.Error().Err(err).Int64("season_id", season.ID).Msg("Failed to write season response")
	}
}

// POST /api/v1/seasons/{id}/divisions
func HandleDivisionCreate(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if queries == nil {
		logger.Error().Msg("Database queries not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if !apiutil.RequireRole(w, r, authz.RoleAdmin) {
		return
	}

	req, err := decodeDivisionRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	name, err := apiutil.RequireField(req.Name, "name")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	season, ok := seasonInLeague(w, r)
	if !ok {
		return
	}

	ctx, cancel := apiutil.QueryTimeout(r)
	defer cancel()

	division, err := queries.CreateDivision(ctx, appdb.CreateDivisionParams{
		SeasonID: season.ID,
		Name:     name,
	})
	if err != nil {
		if apiutil.IsSQLiteUniqueViolation(err) {
			http.Error(w, "Division already exists", http.StatusConflict)
			return
		}
		logger.Error().Err(err).Int64("season_id", season.ID).Msg("Failed to create division")
		http.Error(w, "Failed to create division", http.StatusInternalServerError)
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusCreated, division); err != nil {
		logger.Error().Err(err).Int64("division_id", division.ID).Msg("Failed to write division response")
	}
}

func seasonInLeague(w http.ResponseWriter, r *http.Request) (appdb.Season, bool) {
	logger := log.Ctx(r.Context())

	seasonID, err := seasonIDFromRequest(r)
	if err != nil {
		http.Error(w, "Invalid season ID", http.StatusBadRequest)
		return appdb.Season{}, false
	}

	ctx, cancel := apiutil.QueryTimeout(r)
	defer cancel()

	season, err := queries.GetSeason(ctx, seasonID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Season not found", http.StatusNotFound)
			return appdb.Season{}, false
		}
		logger.Error().Err(err).Int64("season_id", seasonID).Msg("Failed to fetch season")
		http.Error(w, "Failed to fetch season", http.StatusInternalServerError)
		return appdb.Season{}, false
	}

	if league := authz.LeagueFromContext(r.Context()); league != nil && league.ID != season.LeagueID {
		http.Error(w, "Season not found", http.StatusNotFound)
		return appdb.Season{}, false
	}
	return season, true
}

type seasonInput struct {
	Name     string
	StartsOn string
	EndsOn   string
	Status   string
}

func parseSeasonRequest(req seasonRequest, defaultStatus string) (seasonInput, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return seasonInput{}, fmt.Errorf("name is required")
	}

	startsOn, err := apiutil.ParseDateField(req.StartsOn, "starts_on")
	if err != nil {
		return seasonInput{}, err
	}
	endsOn, err := apiutil.ParseDateField(req.EndsOn, "ends_on")
	if err != nil {
		return seasonInput{}, err
	}

	start, _ := time.Parse(seasonDateLayout, startsOn)
	end, _ := time.Parse(seasonDateLayout, endsOn)
	if start.After(end) {
		return seasonInput{}, fmt.Errorf("starts_on must be on or before ends_on")
	}

	status := strings.ToLower(strings.TrimSpace(req.Status))
	if status == "" {
		if defaultStatus == "" {
			return seasonInput{}, fmt.Errorf("status is required")
		}
		status = defaultStatus
	}
	switch status {
	case "draft", "active", "completed":
	default:
		return seasonInput{}, fmt.Errorf("status must be draft, active, or completed")
	}

	return seasonInput{
		Name:     name,
		StartsOn: startsOn,
		EndsOn:   endsOn,
		Status:   status,
	}, nil
}

func decodeSeasonRequest(r *http.Request) (seasonRequest, error) {
	if apiutil.IsJSONRequest(r) {
		var req seasonRequest
		return req, apiutil.DecodeJSON(r, &req)
	}

	if err := r.ParseForm(); err != nil {
		return seasonRequest{}, err
	}

	return seasonRequest{
		Name:     apiutil.FirstNonEmpty(r.FormValue("name")),
		StartsOn: apiutil.FirstNonEmpty(r.FormValue("starts_on"), r.FormValue("startsOn")),
		EndsOn:   apiutil.FirstNonEmpty(r.FormValue("ends_on"), r.FormValue("endsOn")),
		Status:   apiutil.FirstNonEmpty(r.FormValue("status")),
	}, nil
}

func decodeDivisionRequest(r *http.Request) (divisionRequest, error) {
	if apiutil.IsJSONRequest(r) {
		var req divisionRequest
		return req, apiutil.DecodeJSON(r, &req)
	}

	if err := r.ParseForm(); err != nil {
		return divisionRequest{}, err
	}
	return divisionRequest{Name: apiutil.FirstNonEmpty(r.FormValue("name"))}, nil
}

func seasonIDFromRequest(r *http.Request) (int64, error) {
	raw := strings.TrimSpace(r.PathValue(seasonIDPathKey))
	if raw == "" {
		return 0, fmt.Errorf("invalid season ID")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid season ID")
	}
	return id, nil
}
