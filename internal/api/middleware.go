// internal/api/middleware.go
package api

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/leaguedesk/leaguedesk/internal/api/auth"
	"github.com/leaguedesk/leaguedesk/internal/api/authz"
	"github.com/leaguedesk/leaguedesk/internal/db"
)

type Middleware func(http.Handler) http.Handler

func ChainMiddleware(h http.Handler, middleware ...Middleware) http.Handler {
	for _, m := range middleware {
		h = m(h)
	}
	return h
}

func WithLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Create response wrapper to capture status code
		wrapped := wrapResponseWriter(w)

		next.ServeHTTP(wrapped, r)
		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", wrapped.status).
			Dur("duration", time.Since(start)).
			Str("request_id", r.Context().Value("request_id").(string)).
			Msg("Request completed")
	})
}

func WithRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				logger := log.Ctx(r.Context())
				// Log the full stack trace
				stack := debug.Stack()
				logger.Error().
					Interface("error", err).
					Str("stack", string(stack)).
					Msg("Panic recovered")

				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func WithRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.New().String()

		// Create a logger with the request ID
		logger := log.With().Str("request_id", requestID).Logger()

		// Add both the request ID and logger to context
		ctx := context.WithValue(r.Context(), "request_id", requestID)
		ctx = logger.WithContext(ctx)

		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func WithContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Set default content type if not set
		if r.Header.Get("Accept") == "" {
			r.Header.Set("Accept", "text/html")
		}
		next.ServeHTTP(w, r)
	})
}

func WithAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := auth.UserFromRequest(w, r)
		if err != nil {
			log.Ctx(r.Context()).Warn().Err(err).Msg("Failed to load auth session")
			next.ServeHTTP(w, r)
			return
		}

		if user != nil {
			ctx := authz.ContextWithUser(r.Context(), user)
			r = r.WithContext(ctx)
		}

		next.ServeHTTP(w, r)
	})
}

// responseWriter wrapper to capture status code
type responseWriter struct {
	http.ResponseWriter
	status int
}

func wrapResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{ResponseWriter: w}
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

// WithLeague extracts the league from the subdomain and adds it to context.
// Subdomain format: {league-slug}.{base_domain} (e.g., metro.localhost)
func WithLeague(queries *db.Queries, baseDomain string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Skip league lookup for static assets and health checks
			path := r.URL.Path
			if strings.HasPrefix(path, "/static/") || path == "/health" || path == "/favicon.ico" {
				next.ServeHTTP(w, r)
				return
			}

			logger := log.Ctx(r.Context())

			host := r.Host
			// Strip port if present
			if idx := strings.LastIndex(host, ":"); idx != -1 {
				host = host[:idx]
			}

			// Check if host ends with base domain
			if !strings.HasSuffix(host, baseDomain) {
				// Not a subdomain request - could be direct IP or different domain
				// Allow through for health checks, static assets, etc.
				next.ServeHTTP(w, r)
				return
			}

			// Extract subdomain: "metro.localhost" -> "metro"
			subdomain := strings.TrimSuffix(host, "."+baseDomain)
			if subdomain == "" || subdomain == host {
				// No subdomain - show league picker or error
				logger.Debug().Str("host", r.Host).Msg("No league subdomain")
				http.Error(w, "League not specified. Use {league-slug}."+baseDomain, http.StatusNotFound)
				return
			}

			// Look up league by slug (timeout only applies to this DB query)
			queryCtx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
			defer cancel()

			league, err := queries.GetLeagueBySlug(queryCtx, subdomain)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					logger.Warn().Str("slug", subdomain).Msg("League not found")
					http.Error(w, "League not found", http.StatusNotFound)
					return
				}
				logger.Error().Err(err).Str("slug", subdomain).Msg("Failed to look up league")
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}

			// Add league to context (no timeout for downstream handlers)
			authzLeague := &authz.League{
				ID:   league.ID,
				Name: league.Name,
				Slug: league.Slug,
			}
			ctx := authz.ContextWithLeague(r.Context(), authzLeague)
			r = r.WithContext(ctx)

			logger.Debug().Int64("league_id", league.ID).Str("league_slug", league.Slug).Msg("League resolved from subdomain")
			next.ServeHTTP(w, r)
		})
	}
}
