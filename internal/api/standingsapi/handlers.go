// internal/api/standingsapi/handlers.go
package standingsapi

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/rs/zerolog/log"

	"github.com/leaguedesk/leaguedesk/internal/api/apiutil"
	"github.com/leaguedesk/leaguedesk/internal/api/htmx"
	appdb "github.com/leaguedesk/leaguedesk/internal/db"
	"github.com/leaguedesk/leaguedesk/internal/standings"
)

var queries *appdb.Queries

// InitHandlers must be called during server startup before handling requests.
func InitHandlers(database *appdb.DB) {
	if database == nil {
		return
	}
	queries = database.Queries
}

// GET /api/v1/standings?season_id=
func HandleStandings(w http.ResponseWriter, r *http.Request) {
	logger := log.Ctx(r.Context())

	if queries == nil {
		logger.Error().Msg("Database queries not initialized")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	seasonID, err := apiutil.ParsePositiveInt64Field(r.URL.Query().Get("season_id"), "season_id")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := apiutil.QueryTimeout(r)
	defer cancel()

	table, err := standings.Calculate(ctx, queries, seasonID)
	if err != nil {
		logger.Error().Err(err).Int64("season_id", seasonID).Msg("Failed to calculate standings")
		http.Error(w, "Failed to load standings", http.StatusInternalServerError)
		return
	}

	if htmx.IsRequest(r) {
		apiutil.RenderHTMLComponent(w, r, standingsTableComponent(table))
		return
	}

	if err := apiutil.WriteJSON(w, http.StatusOK, map[string]any{"standings": table}); err != nil {
		logger.Error().Err(err).Int64("season_id", seasonID).Msg("Failed to write standings response")
	}
}

func standingsTableComponent(table []standings.TeamStanding) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, buildStandingsTableHTML(table))
		return err
	})
}

func buildStandingsTableHTML(table []standings.TeamStanding) string {
	if len(table) == 0 {
		return `<div class="rounded border border-dashed p-6 text-center text-sm text-gray-500">No standings yet.</div>`
	}

	var builder strings.Builder
	builder.WriteString(`<table class="min-w-full divide-y divide-gray-200 text-sm">`)
	builder.WriteString(`<thead><tr class="text-left text-xs font-medium uppercase text-gray-500">`)
	builder.WriteString(`<th class="px-3 py-2">#</th><th class="px-3 py-2">Team</th><th class="px-3 py-2">GP</th><th class="px-3 py-2">W</th><th class="px-3 py-2">D</th><th class="px-3 py-2">L</th><th class="px-3 py-2">GF</th><th class="px-3 py-2">GA</th><th class="px-3 py-2">GD</th><th class="px-3 py-2">Pts</th>`)
	builder.WriteString(`</tr></thead><tbody class="divide-y divide-gray-100">`)
	for i, row := range table {
		builder.WriteString(fmt.Sprintf(
			`<tr data-team-id="%d"><td class="px-3 py-2">%d</td><td class="px-3 py-2 font-medium">%s</td><td class="px-3 py-2">%d</td><td class="px-3 py-2">%d</td><td class="px-3 py-2">%d</td><td class="px-3 py-2">%d</td><td class="px-3 py-2">%d</td><td class="px-3 py-2">%d</td><td class="px-3 py-2">%d</td><td class="px-3 py-2 font-semibold">%d</td></tr>`,
			row.TeamID,
			i+1,
			html.EscapeString(row.TeamName),
			row.GamesPlayed,
			row.Wins,
			row.Draws,
			row.Losses,
			row.GoalsFor,
			row.GoalsAgainst,
			row.GoalDifference,
			row.Points,
		))
	}
	builder.WriteString(`</tbody></table>`)
	return builder.String()
}
