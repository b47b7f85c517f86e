// internal/api/pages/fragments.go
package pages

import (
	"context"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/a-h/templ"

	appdb "github.com/leaguedesk/leaguedesk/internal/db"
)

func homeComponent(seasons []appdb.Season) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, buildHomeHTML(seasons))
		return err
	})
}

func schedulePageComponent(seasons []appdb.Season) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, buildSeasonBrowserHTML("Schedule", "/api/v1/schedule", seasons))
		return err
	})
}

func standingsPageComponent(seasons []appdb.Season) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, buildSeasonBrowserHTML("Standings", "/api/v1/standings", seasons))
		return err
	})
}

func loginFormComponent() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, loginFormHTML)
		return err
	})
}

func buildHomeHTML(seasons []appdb.Season) string {
	var builder strings.Builder
	builder.WriteString(`<section class="space-y-6">
	<div>
		<h1 class="text-2xl font-semibold">Welcome</h1>
		<p class="mt-1 text-sm text-gray-600">Browse the schedule and standings, or sign in to manage your team's games.</p>
	</div>`)

	if len(seasons) > 0 {
		builder.WriteString(`<div>
		<h2 class="text-lg font-medium">Seasons</h2>
		<ul class="mt-2 space-y-2">`)
		for _, season := range seasons {
			builder.WriteString(fmt.Sprintf(
				`<li class="rounded border bg-white p-3 text-sm" data-season-id="%d">
				<a href="/schedule?season_id=%d" class="font-medium text-blue-700 hover:underline">%s</a>
				<span class="ml-2 text-xs text-gray-500">%s &ndash; %s &middot; %s</span>
			</li>`,
				season.ID,
				season.ID,
				html.EscapeString(season.Name),
				html.EscapeString(season.StartsOn),
				html.EscapeString(season.EndsOn),
				html.EscapeString(season.Status),
			))
		}
		builder.WriteString(`</ul>
	</div>`)
	}

	builder.WriteString(`</section>`)
	return builder.String()
}

// buildSeasonBrowserHTML renders a season picker whose selection swaps the
// table below via HTMX against the given fragment endpoint.
func buildSeasonBrowserHTML(heading, endpoint string, seasons []appdb.Season) string {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf(`<section class="space-y-4">
	<h1 class="text-2xl font-semibold">%s</h1>`, html.EscapeString(heading)))

	if len(seasons) == 0 {
		builder.WriteString(`<div class="rounded border border-dashed p-6 text-center text-sm text-gray-500">No seasons yet.</div>
</section>`)
		return builder.String()
	}

	builder.WriteString(fmt.Sprintf(
		`<select name="season_id" class="rounded border px-3 py-2 text-sm"
		hx-get="%s" hx-target="#season-results" hx-trigger="change, load">`, endpoint))
	for _, season := range seasons {
		builder.WriteString(fmt.Sprintf(`<option value="%d">%s</option>`,
			season.ID, html.EscapeString(season.Name)))
	}
	builder.WriteString(`</select>
	<div id="season-results"></div>
</section>`)
	return builder.String()
}

const loginFormHTML = `<section class="mx-auto max-w-sm space-y-4">
	<h1 class="text-2xl font-semibold">Sign in</h1>
	<form method="post" action="/api/v1/auth/login" class="space-y-3 rounded border bg-white p-4">
		<label class="block text-sm">
			<span class="text-gray-700">Email</span>
			<input type="email" name="email" required class="mt-1 w-full rounded border px-3 py-2"/>
		</label>
		<label class="block text-sm">
			<span class="text-gray-700">Password</span>
			<input type="password" name="password" required class="mt-1 w-full rounded border px-3 py-2"/>
		</label>
		<button type="submit" class="w-full rounded bg-blue-600 px-3 py-2 text-white hover:bg-blue-700">Sign in</button>
	</form>
</section>`
