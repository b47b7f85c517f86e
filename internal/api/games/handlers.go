// internal/api/games/handlers.go
package games

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
	"github.com/leaguedesk/leaguedesk/internal/api/htmx"
	appdb "github.com/leaguedesk/leaguedesk/internal/db"
	"github.com/leaguedesk/leaguedesk/internal/schedule"
)

const gameIDPathKey = "id"

var (
	queries  *appdb.Queries
	workflow *schedule.Workflow
)

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(database *appdb.DB, wf *schedule.Workflow) {
	if database == nil {
		return
	}
	queries = database.Queries
	workflow = wf
}

type gameRequest struct {
	SeasonID   int64  `json:"seasonId"`
	DivisionID *int64 `json:"divisionId"`
	HomeTeamID int64  `json:"homeTeamId"`
	AwayTeamID int64  `json:"awayTeamId"`
	GameDate   string `json:"gameDate"`
	GameTime   string `json:"gameTime"`
	Location   string `json:"location"`
}

type reasonRequest struct {
	Reason string `json:"reason"`
}

type scoreRequest struct {
	HomeScore int64 `json:"homeScore"`
	AwayScore int64 `json:"awayScore"`
}

type gameDetailResponse struct {
	GameID       int64  `json:"gameId"`
	SeasonID     int64  `json:"seasonId"`
	Status       string `json:"status"`
	HomeTeamID   int64  `json:"homeTeamId"`
	HomeTeamName string `json:"homeTeamName"`
	AwayTeamID   int64  `json:"awayTeamId"`
	AwayTeamName string `json:"awayTeamName"`
	HomeScore    *int64 `json:"homeScore"`
	AwayScore    *int64 `json:"awayScore"`
	GameDate     string `json:"gameDate"`
	GameTime     string `json:"gameTime"`
	Location     string `json:"location"`
}

// GET /api/v1/games
func HandleGamesList(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if queries == nil {
		logger.Error().Msg("Database queries not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if !apiutil.RequireRole(w, r, authz.RoleAdmin) {
		return
	}

	seasonID, err := apiutil.ParsePositiveInt64Field(r.URL.Query().Get("season_id"), "season_id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := apiutil.QueryTimeout(r)
	defer cancel()

	if !seasonInLeague(w, r, seasonID) {
		return
	}

	games, err := queries.ListGamesBySeason(ctx, seasonID)
	if err != nil {
		logger.Error().Err(err).Int64("season_id", seasonID).Msg("Failed to list games")
		http.Error(w, "Failed to list games", http.StatusInternalServerError)
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, map[string]any{"games": games}); err != nil {
		logger.Error().Err(err).Int64("season_id", seasonID).Msg("Failed to write games response")
	}
}

// POST /api/v1/games
func HandleGameCreate(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if workflow == nil {
		logger.Error().Msg("Schedule workflow not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if !apiutil.RequireRole(w, r, authz.RoleAdmin) {
		return
	}

	req, err := decodeGameRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.SeasonID <= 0 {
		http.Error(w, "season_id must be greater than 0", http.StatusBadRequest)
		return
	}
	if req.HomeTeamID <= 0 || req.AwayTeamID <= 0 {
		http.Error(w, "home_team_id and away_team_id are required", http.StatusBadRequest)
		return
	}
	if req.HomeTeamID == req.AwayTeamID {
		http.Error(w, "A team cannot play itself", http.StatusBadRequest)
		return
	}

	gameDate, err := apiutil.ParseDateField(req.GameDate, "game_date")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	gameTime, err := apiutil.ParseTimeField(req.GameTime, "game_time")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	location, err := apiutil.RequireField(req.Location, "location")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := apiutil.QueryTimeout(r)
	defer cancel()

	if !seasonInLeague(w, r, req.SeasonID) {
		return
	}

	gameID, err := workflow.CreateGame(ctx, schedule.CreateGameParams{
		SeasonID:   req.SeasonID,
		DivisionID: apiutil.ToNullInt64(req.DivisionID),
		HomeTeamID: req.HomeTeamID,
		AwayTeamID: req.AwayTeamID,
		GameDate:   gameDate,
		GameTime:   gameTime,
		Location:   location,
	})
	if err != nil {
		if apiutil.IsSQLiteForeignKeyViolation(err) {
			http.Error(w, "Season or team not found", http.StatusNotFound)
			return
		}
		logger.Error().Err(err).Int64("season_id", req.SeasonID).Msg("Failed to create game")
		http.Error(w, "Failed to create game", http.StatusInternalServerError)
		return
	}

	writeGameDetail(w, r, gameID, http.StatusCreated)
}

// GET /api/v1/games/{id}
func HandleGameDetail(w http.ResponseWriter, r *http.Request) {
	if queries == nil {
		log.Ctx(r.Context()).Error().Msg("Database queries not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if !apiutil.RequireRole(w, r, authz.RoleAdmin) {
		return
	}

	gameID, err := gameIDFromRequest(r)
	if err != nil {
		http.Error(w, "Invalid game ID", http.StatusBadRequest)
		return
	}

	if _, ok := gameInLeague(w, r, gameID); !ok {
		return
	}

	writeGameDetail(w, r, gameID, http.StatusOK)
}

// PUT /api/v1/games/{id}
func HandleGameUpdate(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if queries == nil {
		logger.Error().Msg("Database queries not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if !apiutil.RequireRole(w, r, authz.RoleAdmin) {
		return
	}

	gameID, err := gameIDFromRequest(r)
	if err != nil {
		http.Error(w, "Invalid game ID", http.StatusBadRequest)
		return
	}

	req, err := decodeGameRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.HomeTeamID <= 0 || req.AwayTeamID <= 0 {
		http.Error(w, "home_team_id and away_team_id are required", http.StatusBadRequest)
		return
	}
	if req.HomeTeamID == req.AwayTeamID {
		http.Error(w, "A team cannot play itself", http.StatusBadRequest)
		return
	}

	ctx, cancel := apiutil.QueryTimeout(r)
	defer cancel()

	game, ok := gameInLeague(w, r, gameID)
	if !ok {
		return
	}

	// Team and division assignment only. Schedule values move through the
	// change workflow, never through this endpoint.
	updated, err := queries.UpdateGame(ctx, appdb.UpdateGameParams{
		ID:         gameID,
		DivisionID: apiutil.ToNullInt64(req.DivisionID),
		HomeTeamID: req.HomeTeamID,
		AwayTeamID: req.AwayTeamID,
		Status:     game.Status,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Game not found", http.StatusNotFound)
			return
		}
		if apiutil.IsSQLiteForeignKeyViolation(err) {
			http.Error(w, "Team not found", http.StatusNotFound)
			return
		}
		logger.Error().Err(err).Int64("game_id", gameID).Msg("Failed to update game")
		http.Error(w, "Failed to update game", http.StatusInternalServerError)
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, updated); err != nil {
		logger.Error().Err(err).Int64("game_id", gameID).Msg("Failed to write game response")
	}
}

// GET /api/v1/games/{id}/history
func HandleGameHistory(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if queries == nil {
		logger.Error().Msg("Database queries not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if !apiutil.RequireRole(w, r, authz.RoleAdmin) {
		return
	}

	gameID, err := gameIDFromRequest(r)
	if err != nil {
		http.Error(w, "Invalid game ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := apiutil.QueryTimeout(r)
	defer cancel()

	if _, ok := gameInLeague(w, r, gameID); !ok {
		return
	}

	history, err := queries.ListScheduleHistory(ctx, gameID)
	if err != nil {
		logger.Error().Err(err).Int64("game_id", gameID).Msg("Failed to list schedule history")
		http.Error(w, "Failed to load schedule history", http.StatusInternalServerError)
		return
	}

	if htmx.IsRequest(r) {
		apiutil.RenderHTMLComponent(w, r, historyListComponent(history))
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, map[string]any{"history": history}); err != nil {
		logger.Error().Err(err).Int64("game_id", gameID).Msg("Failed to write history response")
	}
}

// POST /api/v1/games/{id}/cancel
func HandleGameCancel(w http.ResponseWriter, r *http.Request) {
	finalizeGame(w, r, "cancel")
}

// POST /api/v1/games/{id}/postpone
func HandleGamePostpone(w http.ResponseWriter, r *http.Request) {
	finalizeGame(w, r, "postpone")
}

func finalizeGame(w http.ResponseWriter, r *http.Request, action string) {
	logger := log.Ctx(r.Context())

	if workflow == nil {
		logger.Error().Msg("Schedule workflow not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if !apiutil.RequireRole(w, r, authz.RoleAdmin) {
		return
	}

	gameID, err := gameIDFromRequest(r)
	if err != nil {
		http.Error(w, "Invalid game ID", http.StatusBadRequest)
		return
	}

	req, err := decodeReasonRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	reason, err := apiutil.RequireField(req.Reason, "reason")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := apiutil.QueryTimeout(r)
	defer cancel()

	if _, ok := gameInLeague(w, r, gameID); !ok {
		return
	}

	var version int64
	switch action {
	case "cancel":
		version, err = workflow.CancelGame(ctx, gameID, reason)
	default:
		version, err = workflow.PostponeGame(ctx, gameID, reason)
	}
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrGameNotFound):
			http.Error(w, "Game not found", http.StatusNotFound)
		case errors.Is(err, schedule.ErrGameFinalized):
			http.Error(w, "Game is already finalized", http.StatusConflict)
		default:
			logger.Error().Err(err).Int64("game_id", gameID).Str("action", action).Msg("Failed to finalize game")
			http.Error(w, "Failed to update game", http.StatusInternalServerError)
		}
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, map[string]any{
		"gameId":  gameID,
		"version": version,
	}); err != nil {
		logger.Error().Err(err).Int64("game_id", gameID).Msg("Failed to write finalize response")
	}
}

// POST /api/v1/games/{id}/score
func HandleGameScore(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if workflow == nil {
		logger.Error().Msg("Schedule workflow not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if !apiutil.RequireRole(w, r, authz.RoleCoach) {
		return
	}

	gameID, err := gameIDFromRequest(r)
	if err != nil {
		http.Error(w, "Invalid game ID", http.StatusBadRequest)
		return
	}

	req, err := decodeScoreRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.HomeScore < 0 || req.AwayScore < 0 {
		http.Error(w, "Scores must be 0 or greater", http.StatusBadRequest)
		return
	}

	ctx, cancel := apiutil.QueryTimeout(r)
	defer cancel()

	game, ok := gameInLeague(w, r, gameID)
	if !ok {
		return
	}

	user := authz.UserFromContext(r.Context())
	if user != nil && !authz.IsAdmin(user) {
		if !coachOfGame(user, game) {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
	}

	if err := workflow.RecordScore(ctx, gameID, req.HomeScore, req.AwayScore); err != nil {
		if errors.Is(err, schedule.ErrGameNotFound) {
			http.Error(w, "Game not found", http.StatusNotFound)
			return
		}
		if errors.Is(err, schedule.ErrGameFinalized) {
			http.Error(w, "Game is already finalized", http.StatusConflict)
			return
		}
		logger.Error().Err(err).Int64("game_id", gameID).Msg("Failed to record score")
		http.Error(w, "Failed to record score", http.StatusInternalServerError)
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, map[string]any{
		"gameId":    gameID,
		"homeScore": req.HomeScore,
		"awayScore": req.AwayScore,
		"status":    schedule.StatusCompleted,
	}); err != nil {
		logger.Error().Err(err).Int64("game_id", gameID).Msg("Failed to write score response")
	}
}

func coachOfGame(user *authz.AuthUser, game appdb.GameContextRow) bool {
	if game.HomeCoachID.Valid && game.HomeCoachID.Int64 == user.ID {
		return true
	}
	if game.AwayCoachID.Valid && game.AwayCoachID.Int64 == user.ID {
		return true
	}
	return false
}

// gameInLeague loads the game context and hides games outside the request's
// league behind a 404. Writes the response itself on failure.
func gameInLeague(w http.ResponseWriter, r *http.Request, gameID int64) (appdb.GameContextRow, bool) {
	logger := log.Ctx(r.Context())

	ctx, cancel := apiutil.QueryTimeout(r)
	defer cancel()

	game, err := queries.GetGameContext(ctx, gameID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Game not found", http.StatusNotFound)
			return appdb.GameContextRow{}, false
		}
		logger.Error().Err(err).Int64("game_id", gameID).Msg("Failed to fetch game")
		http.Error(w, "Failed to fetch game", http.StatusInternalServerError)
		return appdb.GameContextRow{}, false
	}

	if league := authz.LeagueFromContext(r.Context()); league != nil && league.ID != game.LeagueID {
		http.Error(w, "Game not found", http.StatusNotFound)
		return appdb.GameContextRow{}, false
	}
	return game, true
}

func seasonInLeague(w http.ResponseWriter, r *http.Request, seasonID int64) bool {
	logger := log.Ctx(r.Context())

	ctx, cancel := apiutil.QueryTimeout(r)
	defer cancel()

	season, err := queries.GetSeason(ctx, seasonID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Season not found", http.StatusNotFound)
			return false
		}
		logger.Error().Err(err).Int64("season_id", seasonID).Msg("Failed to fetch season")
		http.Error(w, "Failed to fetch season", http.StatusInternalServerError)
		return false
	}

	if league := authz.LeagueFromContext(r.Context()); league != nil && league.ID != season.LeagueID {
		http.Error(w, "Season not found", http.StatusNotFound)
		return false
	}
	return true
}

func writeGameDetail(w http.ResponseWriter, r *http.Request, gameID int64, status int) {
	logger := log.Ctx(r.Context())

	ctx, cancel := apiutil.QueryTimeout(r)
	defer cancel()

	game, err := queries.GetGameContext(ctx, gameID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Game not found", http.StatusNotFound)
			return
		}
		logger.Error().Err(err).Int64("game_id", gameID).Msg("Failed to fetch game")
		http.Error(w, "Failed to fetch game", http.StatusInternalServerError)
		return
	}

	detail := gameDetailResponse{
		GameID:       game.GameID,
		SeasonID:     game.SeasonID,
		Status:       game.Status,
		HomeTeamID:   game.HomeTeamID,
		HomeTeamName: game.HomeTeamName,
		AwayTeamID:   game.AwayTeamID,
		AwayTeamName: game.AwayTeamName,
		HomeScore:    fromNullInt64(game.HomeScore),
		AwayScore:    fromNullInt64(game.AwayScore),
		GameDate:     game.GameDate,
		GameTime:     game.GameTime,
		Location:     game.Location,
	}

	if htmx.IsRequest(r) {
		if status != http.StatusOK {
			w.Header().Set("HX-Trigger", "refreshGamesList")
		}
		apiutil.RenderHTMLComponent(w, r, gameCardComponent(detail))
		return
	}

	if err := apiutil.WriteJSON(w, status, detail); err != nil {
		logger.Error().Err(err).Int64("game_id", gameID).Msg("Failed to write game response")
	}
}

func decodeGameRequest(r *http.Request) (gameRequest, error) {
	if apiutil.IsJSONRequest(r) {
		var req gameRequest
		return req, apiutil.DecodeJSON(r, &req)
	}

	if err := r.ParseForm(); err != nil {
		return gameRequest{}, err
	}

	var req gameRequest
	var err error

	if raw := apiutil.FirstNonEmpty(r.FormValue("season_id"), r.FormValue("seasonId")); raw != "" {
		if req.SeasonID, err = apiutil.ParsePositiveInt64Field(raw, "season_id"); err != nil {
			return gameRequest{}, err
		}
	}
	if raw := apiutil.FirstNonEmpty(r.FormValue("division_id"), r.FormValue("divisionId")); raw != "" {
		divisionID, err := apiutil.ParsePositiveInt64Field(raw, "division_id")
		if err != nil {
			return gameRequest{}, err
		}
		req.DivisionID = &divisionID
	}
	if req.HomeTeamID, err = apiutil.ParsePositiveInt64Field(apiutil.FirstNonEmpty(r.FormValue("home_team_id"), r.FormValue("homeTeamId")), "home_team_id"); err != nil {
		return gameRequest{}, err
	}
	if req.AwayTeamID, err = apiutil.ParsePositiveInt64Field(apiutil.FirstNonEmpty(r.FormValue("away_team_id"), r.FormValue("awayTeamId")), "away_team_id"); err != nil {
		return gameRequest{}, err
	}
	req.GameDate = apiutil.FirstNonEmpty(r.FormValue("game_date"), r.FormValue("gameDate"))
	req.GameTime = apiutil.FirstNonEmpty(r.FormValue("game_time"), r.FormValue("gameTime"))
	req.Location = apiutil.FirstNonEmpty(r.FormValue("location"))
	return req, nil
}

func decodeReasonRequest(r *http.Request) (reasonRequest, error) {
	if apiutil.IsJSONRequest(r) {
		var req reasonRequest
		return req, apiutil.DecodeJSON(r, &req)
	}

	if err := r.ParseForm(); err != nil {
		return reasonRequest{}, err
	}
	return reasonRequest{Reason: apiutil.FirstNonEmpty(r.FormValue("reason"))}, nil
}

func decodeScoreRequest(r *http.Request) (scoreRequest, error) {
	if apiutil.IsJSONRequest(r) {
		var req scoreRequest
		return req, apiutil.DecodeJSON(r, &req)
	}

	if err := r.ParseForm(); err != nil {
		return scoreRequest{}, err
	}

	homeScore, err := apiutil.ParseNonNegativeInt64Field(apiutil.FirstNonEmpty(r.FormValue("home_score"), r.FormValue("homeScore")), "home_score")
	if err != nil {
		return scoreRequest{}, err
	}
	awayScore, err := apiutil.ParseNonNegativeInt64Field(apiutil.FirstNonEmpty(r.FormValue("away_score"), r.FormValue("awayScore")), "away_score")
	if err != nil {
		return scoreRequest{}, err
	}
	return scoreRequest{HomeScore: homeScore, AwayScore: awayScore}, nil
}

func gameIDFromRequest(r *http.Request) (int64, error) {
	raw := strings.TrimSpace(r.PathValue(gameIDPathKey))
	if raw == "" {
		return 0, fmt.Errorf("invalid game ID")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid game ID")
	}
	return id, nil
}

func fromNullInt64(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	value := v.Int64
	return &value
}
