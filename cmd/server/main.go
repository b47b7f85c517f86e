// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/leaguedesk/leaguedesk/internal/config"
	"github.com/leaguedesk/leaguedesk/internal/db"
	"github.com/leaguedesk/leaguedesk/internal/email"
	"github.com/leaguedesk/leaguedesk/internal/scheduler"
)

const shutdownTimeout = 30 * time.Second

func setupLogger(environment string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

func configPath() string {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path
	}
	return "config/config.yaml"
}

// newEmailSender builds the SES client when credentials are configured.
// Without credentials the server runs with email delivery disabled.
func newEmailSender(cfg *config.Config) email.EmailSender {
	if cfg.Email.AccessKeyID == "" || cfg.Email.SecretAccessKey == "" {
		log.Warn().Msg("AWS credentials not configured, email delivery disabled")
		return nil
	}
	client, err := email.NewSESClient(
		cfg.Email.AccessKeyID,
		cfg.Email.SecretAccessKey,
		cfg.Email.Region,
		cfg.Email.Sender,
	)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create SES client, email delivery disabled")
		return nil
	}
	return client
}

func startJobs(database *db.DB, sender email.EmailSender, cfg *config.Config) error {
	if err := scheduler.Init(); err != nil {
		return fmt.Errorf("init scheduler: %w", err)
	}
	if err := scheduler.RegisterGameReminderJob(database, sender, cfg.Jobs); err != nil {
		return fmt.Errorf("register game reminder job: %w", err)
	}
	if err := scheduler.RegisterPendingDigestJob(database, sender, cfg.Jobs); err != nil {
		return fmt.Errorf("register pending digest job: %w", err)
	}
	return scheduler.Start()
}

func main() {
	cfg, err := config.Load(configPath())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	setupLogger(cfg.App.Environment)

	database, err := db.NewFromConfig(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer database.Close()

	sender := newEmailSender(cfg)

	if err := startJobs(database, sender, cfg); err != nil {
		log.Fatal().Err(err).Msg("Failed to start background jobs")
	}

	server := newServer(cfg, database, sender)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Int("port", cfg.App.Port).Str("base_domain", cfg.App.BaseDomain).Msg("Starting server")
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		log.Info().Msg("Shutting down server")
		if err := scheduler.Stop(); err != nil {
			log.Error().Err(err).Msg("Failed to stop scheduler")
		}
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Server terminated with error")
		os.Exit(1)
	}
}
