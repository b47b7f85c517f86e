// internal/api/schedules/fragments.go
package schedules

import (
	"context"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/a-h/templ"

	appdb "github.com/leaguedesk/leaguedesk/internal/db"
)

func scheduleTableComponent(rows []appdb.ScheduleRow) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, buildScheduleTableHTML(rows))
		return err
	})
}

func requestListComponent(requests []appdb.ScheduleChangeRequest) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if len(requests) == 0 {
			_, err := io.WriteString(w, `<div class="rounded border border-dashed p-6 text-center text-sm text-gray-500">No change requests.</div>`)
			return err
		}
		var builder strings.Builder
		builder.WriteString(`<div class="space-y-3">`)
		for _, request := range requests {
			builder.WriteString(buildRequestCardHTML(request))
		}
		builder.WriteString(`</div>`)
		_, err := io.WriteString(w, builder.String())
		return err
	})
}

func requestCardComponent(request appdb.ScheduleChangeRequest) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, buildRequestCardHTML(request))
		return err
	})
}

func buildScheduleTableHTML(rows []appdb.ScheduleRow) string {
	if len(rows) == 0 {
		return `<div class="rounded border border-dashed p-6 text-center text-sm text-gray-500">No games scheduled.</div>`
	}

	var builder strings.Builder
	builder.WriteString(`<table class="min-w-full divide-y divide-gray-200 text-sm">`)
	builder.WriteString(`<thead><tr class="text-left text-xs font-medium uppercase text-gray-500">`)
	builder.WriteString(`<th class="px-3 py-2">Date</th><th class="px-3 py-2">Time</th><th class="px-3 py-2">Matchup</th><th class="px-3 py-2">Location</th><th class="px-3 py-2">Status</th><th class="px-3 py-2">Score</th>`)
	builder.WriteString(`</tr></thead><tbody class="divide-y divide-gray-100">`)
	for _, row := range rows {
		score := "&mdash;"
		if row.HomeScore.Valid && row.AwayScore.Valid {
			score = fmt.Sprintf("%d&ndash;%d", row.HomeScore.Int64, row.AwayScore.Int64)
		}
		builder.WriteString(fmt.Sprintf(
			`<tr data-game-id="%d"><td class="px-3 py-2">%s</td><td class="px-3 py-2">%s</td><td class="px-3 py-2">%s vs %s</td><td class="px-3 py-2">%s</td><td class="px-3 py-2">%s</td><td class="px-3 py-2">%s</td></tr>`,
			row.GameID,
			html.EscapeString(row.GameDate),
			html.EscapeString(row.GameTime),
			html.EscapeString(row.HomeTeamName),
			html.EscapeString(row.AwayTeamName),
			html.EscapeString(row.Location),
			html.EscapeString(row.Status),
			score,
		))
	}
	builder.WriteString(`</tbody></table>`)
	return builder.String()
}

func buildRequestCardHTML(request appdb.ScheduleChangeRequest) string {
	return fmt.Sprintf(
		`<div class="rounded border bg-white p-4 shadow-sm" data-request-id="%d">
			<div class="flex items-center justify-between">
				<span class="font-medium text-gray-900">Game #%d</span>
				<span class="rounded bg-gray-100 px-2 py-0.5 text-xs text-gray-600">%s</span>
			</div>
			<div class="mt-2 grid grid-cols-2 gap-2 text-sm text-gray-700">
				<div>
					<div class="text-xs font-medium text-gray-500">Current</div>
					<div>%s %s &middot; %s</div>
				</div>
				<div>
					<div class="text-xs font-medium text-gray-500">Requested</div>
					<div>%s %s &middot; %s</div>
				</div>
			</div>
			<p class="mt-2 text-sm text-gray-600">%s</p>
		</div>`,
		request.ID,
		request.GameID,
		html.EscapeString(request.Status),
		html.EscapeString(request.OriginalDate),
		html.EscapeString(request.OriginalTime),
		html.EscapeString(request.OriginalLocation),
		html.EscapeString(request.RequestedDate),
		html.EscapeString(request.RequestedTime),
		html.EscapeString(request.RequestedLocation),
		html.EscapeString(request.Reason),
	)
}
