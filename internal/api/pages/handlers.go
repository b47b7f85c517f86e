// internal/api/pages/handlers.go
package pages

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/leaguedesk/leaguedesk/internal/api/apiutil"
	"github.com/leaguedesk/leaguedesk/internal/api/authz"
	appdb "github.com/leaguedesk/leaguedesk/internal/db"
	"github.com/leaguedesk/leaguedesk/internal/templates/layouts"
)

var queries *appdb.Queries

func InitHandlers(database *appdb.DB) {
	queries = database.Queries
}

// HandleHome renders the league landing page with the current seasons.
func HandleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	page := basePage(r, "Home")
	page.Content = homeComponent(leagueSeasons(r))
	renderPage(w, r, page)
}

// HandleSchedulePage renders the public schedule browser. The table body
// loads over HTMX from /api/v1/schedule.
func HandleSchedulePage(w http.ResponseWriter, r *http.Request) {
	page := basePage(r, "Schedule")
	page.Content = schedulePageComponent(leagueSeasons(r))
	renderPage(w, r, page)
}

// HandleStandingsPage renders the public standings browser.
func HandleStandingsPage(w http.ResponseWriter, r *http.Request) {
	page := basePage(r, "Standings")
	page.Content = standingsPageComponent(leagueSeasons(r))
	renderPage(w, r, page)
}

// HandleLoginPage renders the sign-in form.
func HandleLoginPage(w http.ResponseWriter, r *http.Request) {
	if user := authz.UserFromContext(r.Context()); user != nil {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	page := basePage(r, "Sign in")
	page.Content = loginFormComponent()
	renderPage(w, r, page)
}

func basePage(r *http.Request, title string) layouts.Page {
	page := layouts.Page{Title: title}
	if league := authz.LeagueFromContext(r.Context()); league != nil {
		page.LeagueName = league.Name
	}
	if user := authz.UserFromContext(r.Context()); user != nil {
		page.UserName = user.Name
		page.UserRole = user.Role
	}
	return page
}

func leagueSeasons(r *http.Request) []appdb.Season {
	logger := log.Ctx(r.Context())

	league := authz.LeagueFromContext(r.Context())
	if queries == nil || league == nil {
		return nil
	}

	ctx, cancel := apiutil.QueryTimeout(r)
	defer cancel()

	seasons, err := queries.ListSeasonsByLeague(ctx, league.ID)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list seasons for page")
		return nil
	}
	return seasons
}

func renderPage(w http.ResponseWriter, r *http.Request, page layouts.Page) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := layouts.Base(page).Render(r.Context(), w); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("Failed to render page")
	}
}
