// internal/api/settings/handlers.go
package settings

import (
	"database/sql"
	"errors"
	"net/http"
	"net/mail"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/leaguedesk/leaguedesk/internal/api/apiutil"
	"github.com/leaguedesk/leaguedesk/internal/api/authz"
	appdb "github.com/leaguedesk/leaguedesk/internal/db"
)

const defaultActivityLimit = 50

var queries *appdb.Queries

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(database *appdb.DB) {
	if database == nil {
		return
	}
	queries = database.Queries
}

type notificationSettingsRequest struct {
	FromAddress  string `json:"fromAddress"`
	AdminAddress string `json:"adminAddress"`
	Enabled      bool   `json:"enabled"`
}

// GET /api/v1/settings/notifications
func HandleNotificationSettings(w http.ResponseWriter, r *http.Request) {
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

	settings, err := queries.GetNotificationSettings(ctx, league.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// No row yet means notifications run with defaults.
			settings = appdb.NotificationSettings{LeagueID: league.ID, Enabled: true}
		} else {
			logger.Error().Err(err).Int64("league_id", league.ID).Msg("Failed to fetch notification settings")
			http.Error(w, "Failed to fetch settings", http.StatusInternalServerError)
			return
		}
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, settings); err != nil {
		logger.Error().Err(err).Int64("league_id", league.ID).Msg("Failed to write settings response")
	}
}

// PUT /api/v1/settings/notifications
func HandleNotificationSettingsUpdate(w http.ResponseWriter, r *http.Request) {
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

	req, err := decodeSettingsRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	fromAddress := strings.TrimSpace(req.FromAddress)
	if fromAddress != "" {
		if _, err := mail.ParseAddress(fromAddress); err != nil {
			http.Error(w, "from_address must be a valid email address", http.StatusBadRequest)
			return
		}
	}
	adminAddress := strings.TrimSpace(req.AdminAddress)
	if adminAddress != "" {
		if _, err := mail.ParseAddress(adminAddress); err != nil {
			http.Error(w, "admin_address must be a valid email address", http.StatusBadRequest)
			return
		}
	}

	ctx, cancel := apiutil.QueryTimeout(r)
	defer cancel()

	settings, err := queries.UpsertNotificationSettings(ctx, appdb.UpsertNotificationSettingsParams{
		LeagueID:     league.ID,
		FromAddress:  fromAddress,
		AdminAddress: adminAddress,
		Enabled:      req.Enabled,
	})
	if err != nil {
		logger.Error().Err(err).Int64("league_id", league.ID).Msg("Failed to update notification settings")
		http.Error(w, "Failed to update settings", http.StatusInternalServerError)
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, settings); err != nil {
		logger.Error().Err(err).Int64("league_id", league.ID).Msg("Failed to write settings response")
	}
}

// GET /api/v1/activity
func HandleActivityList(w http.ResponseWriter, r *http.Request) {
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

	limit := int64(defaultActivityLimit)
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		parsed, err := apiutil.ParsePositiveInt64Field(raw, "limit")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	ctx, cancel := apiutil.QueryTimeout(r)
	defer cancel()

	entries, err := queries.ListActivityByLeague(ctx, appdb.ListActivityByLeagueParams{
		LeagueID: league.ID,
		Limit:    limit,
	})
	if err != nil {
		logger.Error().Err(err).Int64("league_id", league.ID).Msg("Failed to list activity")
		http.Error(w, "Failed to list activity", http.StatusInternalServerError)
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, map[string]any{"activity": entries}); err != nil {
		logger.Error().Err(err).Int64("league_id", league.ID).Msg("Failed to write activity response")
	}
}

func decodeSettingsRequest(r *http.Request) (notificationSettingsRequest, error) {
	if apiutil.IsJSONRequest(r) {
		var req notificationSettingsRequest
		return req, apiutil.DecodeJSON(r, &req)
	}

	if err := r.ParseForm(); err != nil {
		return notificationSettingsRequest{}, err
	}

	return notificationSettingsRequest{
		FromAddress:  apiutil.FirstNonEmpty(r.FormValue("from_address"), r.FormValue("fromAddress")),
		AdminAddress: apiutil.FirstNonEmpty(r.FormValue("admin_address"), r.FormValue("adminAddress")),
		Enabled:      apiutil.ParseBool(apiutil.FirstNonEmpty(r.FormValue("enabled"))),
	}, nil
}
