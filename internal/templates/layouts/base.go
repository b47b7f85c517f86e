// internal/templates/layouts/base.go
package layouts

import (
	"context"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// Page carries everything the shared HTML shell needs. Handlers fill it
// from the request context so the layout stays free of auth concerns.
type Page struct {
	Title      string
	LeagueName string
	UserName   string
	UserRole   string
	Content    templ.Component
}

// Base renders the full page shell: head, top navigation, content, footer.
func Base(p Page) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, buildHeaderHTML(p)); err != nil {
			return err
		}
		if p.Content != nil {
			if err := p.Content.Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, buildFooterHTML())
		return err
	})
}

func buildHeaderHTML(p Page) string {
	title := p.Title
	if title == "" {
		title = "LeagueDesk"
	}
	if p.LeagueName != "" {
		title = fmt.Sprintf("%s &middot; %s", html.EscapeString(p.LeagueName), html.EscapeString(title))
	} else {
		title = html.EscapeString(title)
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf(
		`<!DOCTYPE html>
<html lang="en">
<head>
	<meta charset="utf-8"/>
	<meta name="viewport" content="width=device-width, initial-scale=1"/>
	<title>%s</title>
	<script src="/static/js/htmx.min.js"></script>
	<link rel="stylesheet" href="/static/css/main.css"/>
</head>
<body class="min-h-screen bg-gray-50 text-gray-900">`,
		title,
	))

	brand := "LeagueDesk"
	if p.LeagueName != "" {
		brand = html.EscapeString(p.LeagueName)
	}

	builder.WriteString(fmt.Sprintf(
		`<header class="border-b bg-white">
	<nav class="mx-auto flex max-w-5xl items-center justify-between px-4 py-3">
		<a href="/" class="text-lg font-semibold">%s</a>
		<div class="flex items-center gap-4 text-sm">
			<a href="/schedule" class="text-gray-600 hover:text-gray-900">Schedule</a>
			<a href="/standings" class="text-gray-600 hover:text-gray-900">Standings</a>
			%s
		</div>
	</nav>
</header>
<main class="mx-auto max-w-5xl px-4 py-6">`,
		brand,
		buildUserNavHTML(p),
	))
	return builder.String()
}

func buildUserNavHTML(p Page) string {
	if p.UserName == "" {
		return `<a href="/login" class="rounded bg-blue-600 px-3 py-1.5 text-white hover:bg-blue-700">Sign in</a>`
	}
	return fmt.Sprintf(
		`<span class="text-gray-500">%s (%s)</span>
			<button hx-post="/api/v1/auth/logout" class="text-gray-600 hover:text-gray-900">Sign out</button>`,
		html.EscapeString(p.UserName),
		html.EscapeString(p.UserRole),
	)
}

func buildFooterHTML() string {
	return `</main>
<footer class="mx-auto max-w-5xl px-4 py-6 text-center text-xs text-gray-400">LeagueDesk</footer>
</body>
</html>`
}
