package auth

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/leaguedesk/leaguedesk/internal/api/apiutil"
	"github.com/leaguedesk/leaguedesk/internal/api/authz"
	"github.com/leaguedesk/leaguedesk/internal/api/htmx"
	"github.com/leaguedesk/leaguedesk/internal/config"
	"github.com/leaguedesk/leaguedesk/internal/db"
	"github.com/leaguedesk/leaguedesk/internal/ratelimit"
)

var (
	queries   *db.Queries
	appConfig *config.Config
	limiter   *ratelimit.Limiter
)

func InitHandlers(database *db.DB, cfg *config.Config) {
	queries = database.Queries
	appConfig = cfg
	limiter = ratelimit.New(nil)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	TeamID *int64 `json:"teamId,omitempty"`
}

// HandleLogin authenticates a league user with email and password and
// establishes both the server session and the signed auth cookie.
func HandleLogin(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if queries == nil || limiter == nil {
		logger.Error().Msg("Auth handlers not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	league := authz.LeagueFromContext(r.Context())
	if league == nil {
		http.Error(w, "Unknown league", http.StatusNotFound)
		return
	}

	var req loginRequest
	if apiutil.IsJSONRequest(r) {
		if err := apiutil.DecodeJSON(r, &req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
	} else {
		req.Email = r.FormValue("email")
		req.Password = r.FormValue("password")
	}

	if req.Email == "" || req.Password == "" {
		http.Error(w, "Email and password are required", http.StatusBadRequest)
		return
	}

	ip := ratelimit.GetClientIP(r, appConfig != nil && appConfig.App.Environment != "development")
	if result := limiter.CheckLogin(req.Email, ip); !result.Allowed {
		ratelimit.LogRateLimitExceeded(req.Email, ip, result.Reason)
		w.Header().Set("Retry-After", result.RetryAfter.Round(time.Second).String())
		http.Error(w, "Too many login attempts", http.StatusTooManyRequests)
		return
	}

	user, err := queries.GetUserByEmail(r.Context(), db.GetUserByEmailParams{
		LeagueID: league.ID,
		Email:    req.Email,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			limiter.RecordFailure(req.Email, ip)
			http.Error(w, "Invalid email or password", http.StatusUnauthorized)
			return
		}
		logger.Error().Err(err).Msg("Failed to look up user for login")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if !VerifyPassword(user.PasswordHash, req.Password) {
		if lockedOut := limiter.RecordFailure(req.Email, ip); lockedOut {
			logger.Warn().
				Str("identifier", ratelimit.SanitizeIdentifier(req.Email)).
				Msg("Login lockout triggered")
		}
		http.Error(w, "Invalid email or password", http.StatusUnauthorized)
		return
	}

	limiter.ResetAttempts(req.Email)

	var teamID *int64
	if user.TeamID.Valid {
		id := user.TeamID.Int64
		teamID = &id
	}
	authUser := &authz.AuthUser{
		ID:       user.ID,
		LeagueID: user.LeagueID,
		Name:     user.Name,
		Email:    user.Email,
		Role:     user.Role,
		TeamID:   teamID,
	}

	if err := CreateSession(w, user.ID); err != nil {
		logger.Error().Err(err).Msg("Failed to create session")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if err := SetAuthCookie(w, r, authUser); err != nil {
		logger.Error().Err(err).Msg("Failed to set auth cookie")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	logger.Info().Int64("user_id", user.ID).Str("role", user.Role).Msg("User logged in")

	if apiutil.IsJSONRequest(r) {
		_ = apiutil.WriteJSON(w, http.StatusOK, loginResponse{
			ID:     user.ID,
			Name:   user.Name,
			Email:  user.Email,
			Role:   user.Role,
			TeamID: teamID,
		})
		return
	}
	htmx.Redirect(w, r, "/")
}

// HandleLogout drops the server session and expires both cookies.
func HandleLogout(w http.ResponseWriter, r *http.Request) {
	ClearSession(w, r)
	ClearAuthCookie(w)

	if user := authz.UserFromContext(r.Context()); user != nil {
		log.Ctx(r.Context()).Info().Int64("user_id", user.ID).Msg("User logged out")
	}

	if apiutil.IsJSONRequest(r) {
		_ = apiutil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}
	htmx.Redirect(w, r, "/login")
}
