package scheduler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/leaguedesk/leaguedesk/internal/config"
	"github.com/leaguedesk/leaguedesk/internal/db"
	"github.com/leaguedesk/leaguedesk/internal/email"
)

const (
	defaultReminderDaysBefore = 1
	jobTimeout                = 2 * time.Minute
)

// RegisterGameReminderJob emails coaches ahead of their scheduled games.
func RegisterGameReminderJob(database *db.DB, emailClient email.EmailSender, cfg config.JobsConfig) error {
	if database == nil {
		return fmt.Errorf("game reminder job requires database")
	}

	jobName := "game_reminders"
	cronExpr := cfg.GameReminderCron
	daysBefore := cfg.ReminderDaysBefore
	if daysBefore <= 0 {
		daysBefore = defaultReminderDaysBefore
	}

	jobLogger := log.With().
		Str("component", "game_reminders_job").
		Str("job_name", jobName).
		Str("cron", cronExpr).
		Logger()

	_, err := AddJob(jobName, cronExpr, func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		ctx = jobLogger.WithContext(ctx)

		if emailClient == nil {
			jobLogger.Debug().Msg("Reminder job skipped: email client not configured")
			return
		}

		targetDate := time.Now().UTC().AddDate(0, 0, daysBefore).Format("2006-01-02")
		games, err := database.Queries.ListScheduledGamesByDate(ctx, targetDate)
		if err != nil {
			jobLogger.Error().Err(err).Str("date", targetDate).Msg("Failed to load games for reminder job")
			return
		}

		for _, game := range games {
			gameLogger := jobLogger.With().Int64("game_id", game.GameID).Logger()

			settings := leagueSettings(ctx, database.Queries, game.LeagueID, &gameLogger)
			if settings != nil && !settings.Enabled {
				continue
			}
			var fromAddress string
			if settings != nil {
				fromAddress = settings.FromAddress
			}

			message := email.BuildGameReminderEmail(email.GameDetails{
				HomeTeam: game.HomeTeamName,
				AwayTeam: game.AwayTeamName,
				Date:     game.GameDate,
				Time:     game.GameTime,
				Location: game.Location,
			})

			for _, coachEmail := range []sql.NullString{game.HomeCoachEmail, game.AwayCoachEmail} {
				if coachEmail.Valid {
					email.SendToAddress(ctx, emailClient, coachEmail.String, message, fromAddress, &gameLogger)
				}
			}
		}
	}, gocron.WithSingletonMode(gocron.LimitModeWait))
	if err != nil {
		return fmt.Errorf("add game reminder job: %w", err)
	}

	jobLogger.Info().Msg("Game reminder job registered")
	return nil
}

// RegisterPendingDigestJob emails league admins a summary of change requests
// still waiting for review.
func RegisterPendingDigestJob(database *db.DB, emailClient email.EmailSender, cfg config.JobsConfig) error {
	if database == nil {
		return fmt.Errorf("pending digest job requires database")
	}

	jobName := "pending_change_digest"
	cronExpr := cfg.PendingDigestCron
	jobLogger := log.With().
		Str("component", "pending_digest_job").
		Str("job_name", jobName).
		Str("cron", cronExpr).
		Logger()

	_, err := AddJob(jobName, cronExpr, func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()
		ctx = jobLogger.WithContext(ctx)

		if emailClient == nil {
			jobLogger.Debug().Msg("Digest job skipped: email client not configured")
			return
		}

		leagues, err := database.Queries.ListLeagues(ctx)
		if err != nil {
			jobLogger.Error().Err(err).Msg("Failed to load leagues for digest job")
			return
		}

		for _, league := range leagues {
			leagueLogger := jobLogger.With().Int64("league_id", league.ID).Logger()

			pending, err := database.Queries.CountPendingChangeRequestsByLeague(ctx, league.ID)
			if err != nil {
				leagueLogger.Error().Err(err).Msg("Failed to count pending requests")
				continue
			}
			if pending == 0 {
				continue
			}

			settings := leagueSettings(ctx, database.Queries, league.ID, &leagueLogger)
			if settings != nil && !settings.Enabled {
				continue
			}
			var fromAddress, adminAddress string
			if settings != nil {
				fromAddress = settings.FromAddress
				adminAddress = settings.AdminAddress
			}

			message := email.BuildPendingDigestEmail(league.Name, pending)

			if adminAddress != "" {
				email.SendToAddress(ctx, emailClient, adminAddress, message, fromAddress, &leagueLogger)
				continue
			}

			admins, err := database.Queries.ListAdminsByLeague(ctx, league.ID)
			if err != nil {
				leagueLogger.Error().Err(err).Msg("Failed to list admins for digest")
				continue
			}
			for _, admin := range admins {
				email.SendToAddress(ctx, emailClient, admin.Email, message, fromAddress, &leagueLogger)
			}
		}
	}, gocron.WithSingletonMode(gocron.LimitModeWait))
	if err != nil {
		return fmt.Errorf("add pending digest job: %w", err)
	}

	jobLogger.Info().Msg("Pending digest job registered")
	return nil
}

func leagueSettings(ctx context.Context, q *db.Queries, leagueID int64, logger *zerolog.Logger) *db.NotificationSettings {
	settings, err := q.GetNotificationSettings(ctx, leagueID)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) && logger != nil {
			logger.Error().Err(err).Msg("Failed to load notification settings")
		}
		return nil
	}
	return &settings
}
