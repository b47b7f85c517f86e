// cmd/server/server.go
package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/leaguedesk/leaguedesk/internal/api"
	"github.com/leaguedesk/leaguedesk/internal/api/auth"
	"github.com/leaguedesk/leaguedesk/internal/api/games"
	"github.com/leaguedesk/leaguedesk/internal/api/pages"
	"github.com/leaguedesk/leaguedesk/internal/api/schedules"
	"github.com/leaguedesk/leaguedesk/internal/api/seasons"
	"github.com/leaguedesk/leaguedesk/internal/api/settings"
	"github.com/leaguedesk/leaguedesk/internal/api/standingsapi"
	"github.com/leaguedesk/leaguedesk/internal/api/teams"
	"github.com/leaguedesk/leaguedesk/internal/config"
	"github.com/leaguedesk/leaguedesk/internal/db"
	"github.com/leaguedesk/leaguedesk/internal/email"
	"github.com/leaguedesk/leaguedesk/internal/notify"
	"github.com/leaguedesk/leaguedesk/internal/schedule"
)

func newServer(cfg *config.Config, database *db.DB, sender email.EmailSender) *http.Server {
	notifier := notify.New(database, sender)
	workflow := schedule.New(database, notifier)

	auth.InitHandlers(database, cfg)
	games.InitHandlers(database, workflow)
	schedules.InitHandlers(database, workflow)
	teams.InitHandlers(database)
	seasons.InitHandlers(database)
	standingsapi.InitHandlers(database)
	settings.InitHandlers(database)
	pages.InitHandlers(database)

	router := http.NewServeMux()
	registerRoutes(router)

	// Middleware apply inner to outer: requests pass through content type,
	// request ID, recovery, logging, league resolution, then auth.
	handler := api.ChainMiddleware(
		router,
		api.WithAuth,
		api.WithLeague(database.Queries, cfg.App.BaseDomain),
		api.WithLogging,
		api.WithRecovery,
		api.WithRequestID,
		api.WithContentType,
	)

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func registerRoutes(mux *http.ServeMux) {
	// Public pages
	mux.HandleFunc("GET /{$}", pages.HandleHome)
	mux.HandleFunc("GET /schedule", pages.HandleSchedulePage)
	mux.HandleFunc("GET /standings", pages.HandleStandingsPage)
	mux.HandleFunc("GET /login", pages.HandleLoginPage)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Auth
	mux.HandleFunc("POST /api/v1/auth/login", auth.HandleLogin)
	mux.HandleFunc("POST /api/v1/auth/logout", auth.HandleLogout)

	// Public read endpoints
	mux.HandleFunc("GET /api/v1/schedule", schedules.HandleScheduleList)
	mux.HandleFunc("GET /api/v1/standings", standingsapi.HandleStandings)

	// Games
	mux.HandleFunc("GET /api/v1/games", games.HandleGamesList)
	mux.HandleFunc("POST /api/v1/games", games.HandleGameCreate)
	mux.HandleFunc("GET /api/v1/games/{id}", games.HandleGameDetail)
	mux.HandleFunc("PUT /api/v1/games/{id}", games.HandleGameUpdate)
	mux.HandleFunc("GET /api/v1/games/{id}/history", games.HandleGameHistory)
	mux.HandleFunc("POST /api/v1/games/{id}/cancel", games.HandleGameCancel)
	mux.HandleFunc("POST /api/v1/games/{id}/postpone", games.HandleGamePostpone)
	mux.HandleFunc("POST /api/v1/games/{id}/score", games.HandleGameScore)

	// Schedule change workflow
	mux.HandleFunc("POST /api/v1/games/{id}/change-requests", schedules.HandleChangeRequestSubmit)
	mux.HandleFunc("GET /api/v1/my/change-requests", schedules.HandleMyChangeRequests)
	mux.HandleFunc("GET /api/v1/change-requests", schedules.HandleChangeRequestsList)
	mux.HandleFunc("POST /api/v1/change-requests/{id}/approve", schedules.HandleChangeRequestApprove)
	mux.HandleFunc("POST /api/v1/change-requests/{id}/deny", schedules.HandleChangeRequestDeny)

	// Teams
	mux.HandleFunc("GET /api/v1/teams", teams.HandleTeamsList)
	mux.HandleFunc("POST /api/v1/teams", teams.HandleTeamCreate)
	mux.HandleFunc("GET /api/v1/teams/{id}", teams.HandleTeamDetail)
	mux.HandleFunc("PUT /api/v1/teams/{id}", teams.HandleTeamUpdate)
	mux.HandleFunc("DELETE /api/v1/teams/{id}", teams.HandleTeamDelete)

	// Seasons
	mux.HandleFunc("GET /api/v1/seasons", seasons.HandleSeasonsList)
	mux.HandleFunc("POST /api/v1/seasons", seasons.HandleSeasonCreate)
	mux.HandleFunc("GET /api/v1/seasons/{id}", seasons.HandleSeasonDetail)
	mux.HandleFunc("PUT /api/v1/seasons/{id}", seasons.HandleSeasonUpdate)
	mux.HandleFunc("POST /api/v1/seasons/{id}/divisions", seasons.HandleDivisionCreate)

	// Settings and activity
	mux.HandleFunc("GET /api/v1/settings/notifications", settings.HandleNotificationSettings)
	mux.HandleFunc("PUT /api/v1/settings/notifications", settings.HandleNotificationSettingsUpdate)
	mux.HandleFunc("GET /api/v1/activity", settings.HandleActivityList)

	// Static assets
	staticDir := os.Getenv("STATIC_DIR")
	if staticDir == "" {
		staticDir = "build/bin/static"
	}
	fs := http.FileServer(http.Dir(staticDir))
	mux.Handle("/static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Debug().
			Str("path", r.URL.Path).
			Str("static_dir", staticDir).
			Msg("Static file request")
		http.StripPrefix("/static/", fs).ServeHTTP(w, r)
	}))
}
