// internal/api/schedules/handlers.go
package schedules

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

const (
	gameIDPathKey    = "id"
	requestIDPathKey = "id"
)

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

type changeRequestRequest struct {
	RequestedDate     string `json:"requestedDate"`
	RequestedTime     string `json:"requestedTime"`
	RequestedLocation string `json:"requestedLocation"`
	Reason            string `json:"reason"`
	RequesterContact  string `json:"requesterContact"`
}

type reviewRequest struct {
	ReviewNotes string `json:"reviewNotes"`
}

// GET /api/v1/schedule?season_id=
func HandleScheduleList(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if queries == nil {
		logger.Error().Msg("Database queries not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ctx, cancel := apiutil.QueryTimeout(r)
	defer cancel()

	var (
		rows []appdb.ScheduleRow
		err  error
	)

	switch {
	case strings.TrimSpace(r.URL.Query().Get("team_id")) != "":
		teamID, parseErr := apiutil.ParsePositiveInt64Field(r.URL.Query().Get("team_id"), "team_id")
		if parseErr != nil {
			http.Error(w, parseErr.Error(), http.StatusBadRequest)
			return
		}
		rows, err = queries.ListScheduleByTeam(ctx, teamID)
	default:
		seasonID, parseErr := apiutil.ParsePositiveInt64Field(r.URL.Query().Get("season_id"), "season_id")
		if parseErr != nil {
			http.Error(w, parseErr.Error(), http.StatusBadRequest)
			return
		}
		rows, err = queries.ListScheduleBySeason(ctx, seasonID)
	}
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list schedule")
		http.Error(w, "Failed to load schedule", http.StatusInternalServerError)
		return
	}

	if htmx.IsRequest(r) {
		apiutil.RenderHTMLComponent(w, r, scheduleTableComponent(rows))
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, map[string]any{"schedule": rows}); err != nil {
		logger.Error().Err(err).Msg("Failed to write schedule response")
	}
}

// POST /api/v1/games/{id}/change-requests
func HandleChangeRequestSubmit(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if workflow == nil {
		logger.Error().Msg("Schedule workflow not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if !apiutil.RequireRole(w, r, authz.RoleCoach) {
		return
	}

	gameID, err := pathID(r, gameIDPathKey)
	if err != nil {
		http.Error(w, "Invalid game ID", http.StatusBadRequest)
		return
	}

	req, err := decodeChangeRequestRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	requestedDate, err := apiutil.ParseDateField(req.RequestedDate, "requested_date")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	requestedTime, err := apiutil.ParseTimeField(req.RequestedTime, "requested_time")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	requestedLocation, err := apiutil.RequireField(req.RequestedLocation, "requested_location")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	reason, err := apiutil.RequireField(req.Reason, "reason")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	user := authz.UserFromContext(r.Context())

	contact := strings.TrimSpace(req.RequesterContact)
	if contact == "" && user != nil {
		contact = user.Email
	}
	contact, err = apiutil.ParseContactField(contact, "requester_contact")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := apiutil.QueryTimeout(r)
	defer cancel()

	game, ok := gameInLeague(w, r, gameID)
	if !ok {
		return
	}

	if user != nil && !authz.IsAdmin(user) && !coachOfGame(user, game) {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	requestID, err := workflow.SubmitChangeRequest(ctx, schedule.SubmitChangeRequestParams{
		GameID:            gameID,
		RequestedDate:     requestedDate,
		RequestedTime:     requestedTime,
		RequestedLocation: requestedLocation,
		Reason:            reason,
		RequesterContact:  contact,
	})
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrGameNotFound):
			http.Error(w, "Game not found", http.StatusNotFound)
		case errors.Is(err, schedule.ErrGameFinalized):
			http.Error(w, "Game is already finalized", http.StatusConflict)
		default:
			logger.Error().Err(err).Int64("game_id", gameID).Msg("Failed to submit change request")
			http.Error(w, "Failed to submit change request", http.StatusInternalServerError)
		}
		return
	}

	writeChangeRequest(w, r, requestID, http.StatusCreated)
}

// GET /api/v1/my/change-requests
func HandleMyChangeRequests(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if queries == nil {
		logger.Error().Msg("Database queries not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if !apiutil.RequireRole(w, r, authz.RoleCoach) {
		return
	}

	user := authz.UserFromContext(r.Context())
	if user == nil || user.TeamID == nil {
		if err := apiutil.WriteJSON(w, http.StatusOK, map[string]any{"requests": []appdb.ScheduleChangeRequest{}}); err != nil {
			logger.Error().Err(err).Msg("Failed to write change requests response")
		}
		return
	}

	ctx, cancel := apiutil.QueryTimeout(r)
	defer cancel()

	requests, err := queries.ListChangeRequestsByTeam(ctx, *user.TeamID)
	if err != nil {
		logger.Error().Err(err).Int64("team_id", *user.TeamID).Msg("Failed to list change requests")
		http.Error(w, "Failed to list change requests", http.StatusInternalServerError)
		return
	}

	if htmx.IsRequest(r) {
		apiutil.RenderHTMLComponent(w, r, requestListComponent(requests))
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, map[string]any{"requests": requests}); err != nil {
		logger.Error().Err(err).Msg("Failed to write change requests response")
	}
}

// GET /api/v1/change-requests?status=
func HandleChangeRequestsList(w http.ResponseWriter, r *http.Request) {
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

	status := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("status")))
	switch status {
	case "", schedule.RequestPending, schedule.RequestApproved, schedule.RequestDenied:
	default:
		http.Error(w, "status must be pending, approved, or denied", http.StatusBadRequest)
		return
	}

	ctx, cancel := apiutil.QueryTimeout(r)
	defer cancel()

	requests, err := queries.ListChangeRequestsByLeague(ctx, appdb.ListChangeRequestsByLeagueParams{
		LeagueID: league.ID,
		Status:   status,
	})
	if err != nil {
		logger.Error().Err(err).Int64("league_id", league.ID).Msg("Failed to list change requests")
		http.Error(w, "Failed to list change requests", http.StatusInternalServerError)
		return
	}

	if htmx.IsRequest(r) {
		apiutil.RenderHTMLComponent(w, r, requestListComponent(requests))
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, map[string]any{"requests": requests}); err != nil {
		logger.Error().Err(err).Int64("league_id", league.ID).Msg("Failed to write change requests response")
	}
}

// POST /api/v1/change-requests/{id}/approve
func HandleChangeRequestApprove(w http.ResponseWriter, r *http.Request) {
	reviewChangeRequest(w, r, true)
}

// POST /api/v1/change-requests/{id}/deny
func HandleChangeRequestDeny(w http.ResponseWriter, r *http.Request) {
	reviewChangeRequest(w, r, false)
}

func reviewChangeRequest(w http.ResponseWriter, r *http.Request, approve bool) {
	logger := log.Ctx(r.Context())

	if workflow == nil {
		logger.Error().Msg("Schedule workflow not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if !apiutil.RequireRole(w, r, authz.RoleAdmin) {
		return
	}

	requestID, err := pathID(r, requestIDPathKey)
	if err != nil {
		http.Error(w, "Invalid request ID", http.StatusBadRequest)
		return
	}

	req, err := decodeReviewRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	user := authz.UserFromContext(r.Context())
	if user == nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := apiutil.QueryTimeout(r)
	defer cancel()

	if !requestInLeague(w, r, requestID) {
		return
	}

	if approve {
		version, err := workflow.ApproveChangeRequest(ctx, requestID, user.ID, req.ReviewNotes)
		if err != nil {
			writeReviewError(w, r, requestID, err)
			return
		}
		if err := apiutil.WriteJSON(w, http.StatusOK, map[string]any{
			"requestId": requestID,
			"status":    schedule.RequestApproved,
			"version":   version,
		}); err != nil {
			logger.Error().Err(err).Int64("request_id", requestID).Msg("Failed to write review response")
		}
		return
	}

	if err := workflow.DenyChangeRequest(ctx, requestID, user.ID, req.ReviewNotes); err != nil {
		writeReviewError(w, r, requestID, err)
		return
	}
	if err := apiutil.WriteJSON(w, http.StatusOK, map[string]any{
		"requestId": requestID,
		"status":    schedule.RequestDenied,
	}); err != nil {
		logger.Error().Err(err).Int64("request_id", requestID).Msg("Failed to write review response")
	}
}

func writeReviewError(w http.ResponseWriter, r *http.Request, requestID int64, err error) {
	switch {
	case errors.Is(err, schedule.ErrRequestNotFound):
		http.Error(w, "Change request not found", http.StatusNotFound)
	case errors.Is(err, schedule.ErrRequestNotPending):
		http.Error(w, "Change request already reviewed", http.StatusConflict)
	default:
		log.Ctx(r.Context()).Error().Err(err).Int64("request_id", requestID).Msg("Failed to review change request")
		http.Error(w, "Failed to review change request", http.StatusInternalServerError)
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

func requestInLeague(w http.ResponseWriter, r *http.Request, requestID int64) bool {
	logger := log.Ctx(r.Context())

	ctx, cancel := apiutil.QueryTimeout(r)
	defer cancel()

	request, err := queries.GetChangeRequest(ctx, requestID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "Change request not found", http.StatusNotFound)
			return false
		}
		logger.Error().Err(err).Int64("request_id", requestID).Msg("Failed to fetch change request")
		http.Error(w, "Failed to fetch change request", http.StatusInternalServerError)
		return false
	}

	_, ok := gameInLeague(w, r, request.GameID)
	return ok
}

func writeChangeRequest(w http.ResponseWriter, r *http.Request, requestID int64, status int) {
	logger := log.Ctx(r.Context())

	ctx, cancel := apiutil.QueryTimeout(r)
	defer cancel()

	request, err := queries.GetChangeRequest(ctx, requestID)
	if err != nil {
		logger.Error().Err(err).Int64("request_id", requestID).Msg("Failed to fetch change request")
		http.Error(w, "Failed to fetch change request", http.StatusInternalServerError)
		return
	}

	if htmx.IsRequest(r) {
		apiutil.RenderHTMLComponent(w, r, requestCardComponent(request))
		return
	}

	if err := apiutil.WriteJSON(w, status, request); err != nil {
		logger.Error().Err(err).Int64("request_id", requestID).Msg("Failed to write change request response")
	}
}

func decodeChangeRequestRequest(r *http.Request) (changeRequestRequest, error) {
	if apiutil.IsJSONRequest(r) {
		var req changeRequestRequest
		return req, apiutil.DecodeJSON(r, &req)
	}

	if err := r.ParseForm(); err != nil {
		return changeRequestRequest{}, err
	}

	return changeRequestRequest{
		RequestedDate:     apiutil.FirstNonEmpty(r.FormValue("requested_date"), r.FormValue("requestedDate")),
		RequestedTime:     apiutil.FirstNonEmpty(r.FormValue("requested_time"), r.FormValue("requestedTime")),
		RequestedLocation: apiutil.FirstNonEmpty(r.FormValue("requested_location"), r.FormValue("requestedLocation")),
		Reason:            apiutil.FirstNonEmpty(r.FormValue("reason")),
		RequesterContact:  apiutil.FirstNonEmpty(r.FormValue("requester_contact"), r.FormValue("requesterContact")),
	}, nil
}

func decodeReviewRequest(r *http.Request) (reviewRequest, error) {
	if apiutil.IsJSONRequest(r) {
		var req reviewRequest
		return req, apiutil.DecodeJSON(r, &req)
	}

	if err := r.ParseForm(); err != nil {
		return reviewRequest{}, err
	}
	return reviewRequest{
		ReviewNotes: apiutil.FirstNonEmpty(r.FormValue("review_notes"), r.FormValue("reviewNotes")),
	}, nil
}

func pathID(r *http.Request, key string) (int64, error) {
	raw := strings.TrimSpace(r.PathValue(key))
	if raw == "" {
		return 0, fmt.Errorf("invalid ID")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid ID")
	}
	return id, nil
}
