// internal/api/games/fragments.go
package games

import (
	"context"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/a-h/templ"

	appdb "github.com/leaguedesk/leaguedesk/internal/db"
)

func gameCardComponent(detail gameDetailResponse) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, buildGameCardHTML(detail))
		return err
	})
}

func historyListComponent(history []appdb.ScheduleHistoryEntry) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, buildHistoryListHTML(history))
		return err
	})
}

func buildGameCardHTML(detail gameDetailResponse) string {
	matchup := fmt.Sprintf("%s vs %s",
		html.EscapeString(detail.HomeTeamName), html.EscapeString(detail.AwayTeamName))

	score := "&mdash;"
	if detail.HomeScore != nil && detail.AwayScore != nil {
		score = fmt.Sprintf("%d&ndash;%d", *detail.HomeScore, *detail.AwayScore)
	}

	return fmt.Sprintf(
		`<div class="rounded border bg-white p-4 shadow-sm" data-game-id="%d">
			<div class="flex flex-wrap items-center justify-between gap-2">
				<div class="text-lg font-semibold text-gray-900">%s</div>
				<span class="rounded bg-gray-100 px-2 py-0.5 text-xs text-gray-600">%s</span>
			</div>
			<dl class="mt-3 grid grid-cols-1 gap-2 text-sm text-gray-700 sm:grid-cols-2">
				<div class="flex items-center justify-between gap-4">
					<dt class="font-medium text-gray-600">Date</dt>
					<dd>%s %s</dd>
				</div>
				<div class="flex items-center justify-between gap-4">
					<dt class="font-medium text-gray-600">Location</dt>
					<dd>%s</dd>
				</div>
				<div class="flex items-center justify-between gap-4">
					<dt class="font-medium text-gray-600">Score</dt>
					<dd>%s</dd>
				</div>
			</dl>
		</div>`,
		detail.GameID,
		matchup,
		html.EscapeString(detail.Status),
		html.EscapeString(detail.GameDate),
		html.EscapeString(detail.GameTime),
		html.EscapeString(detail.Location),
		score,
	)
}

func buildHistoryListHTML(history []appdb.ScheduleHistoryEntry) string {
	if len(history) == 0 {
		return `<div class="rounded border border-dashed p-6 text-center text-sm text-gray-500">No schedule history.</div>`
	}

	var builder strings.Builder
	builder.WriteString(`<ol class="space-y-2">`)
	for _, entry := range history {
		current := ""
		if entry.IsCurrent {
			current = ` <span class="rounded bg-green-100 px-2 py-0.5 text-xs text-green-700">current</span>`
		}
		builder.WriteString(fmt.Sprintf(
			`<li class="rounded border bg-white p-3 text-sm" data-version="%d">
				<div class="flex items-center justify-between">
					<span class="font-medium text-gray-900">v%d &middot; %s%s</span>
					<span class="text-xs text-gray-500">%s %s &middot; %s</span>
				</div>
				<p class="mt-1 text-xs text-gray-600">%s</p>
			</li>`,
			entry.VersionNumber,
			entry.VersionNumber,
			html.EscapeString(entry.EntryType),
			current,
			html.EscapeString(entry.GameDate),
			html.EscapeString(entry.GameTime),
			html.EscapeString(entry.Location),
			html.EscapeString(entry.Notes),
		))
	}
	builder.WriteString(`</ol>`)
	return builder.String()
}
