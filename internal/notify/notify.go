// Package notify fans schedule workflow events out to email and the
// league activity log. Delivery failures are logged, never propagated:
// the workflow has already committed by the time an event arrives.
package notify

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/leaguedesk/leaguedesk/internal/db"
	"github.com/leaguedesk/leaguedesk/internal/email"
	"github.com/leaguedesk/leaguedesk/internal/schedule"
)

type Service struct {
	db     *db.DB
	sender email.EmailSender
}

// New creates the notification service. sender may be nil, in which case
// only the activity log is written.
func New(database *db.DB, sender email.EmailSender) *Service {
	return &Service{db: database, sender: sender}
}

// Notify implements the workflow's notifier contract.
func (s *Service) Notify(ctx context.Context, event schedule.Event) {
	logger := log.Ctx(ctx).With().Str("event", event.Name).Int64("game_id", event.GameID).Logger()

	game, err := s.db.Queries.GetGameContext(ctx, event.GameID)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load game for notification")
		return
	}

	s.recordActivity(ctx, &logger, game, event)

	settings, err := s.db.Queries.GetNotificationSettings(ctx, game.LeagueID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		logger.Error().Err(err).Msg("Failed to load notification settings")
		return
	}
	// Absent settings default to enabled with the global sender address.
	if err == nil && !settings.Enabled {
		return
	}
	if s.sender == nil {
		return
	}

	details := email.GameDetails{
		LeagueName: game.LeagueName,
		HomeTeam:   game.HomeTeamName,
		AwayTeam:   game.AwayTeamName,
		Date:       game.GameDate,
		Time:       game.GameTime,
		Location:   game.Location,
	}

	switch event.Name {
	case schedule.EventChangeRequest:
		s.notifyChangeRequest(ctx, &logger, game, event.RequestID, details, settings)
	case schedule.EventChangeApprove:
		s.notifyReviewed(ctx, &logger, game, event.RequestID, details, settings, true)
	case schedule.EventChangeDeny:
		s.notifyReviewed(ctx, &logger, game, event.RequestID, details, settings, false)
	case schedule.EventGameCancel:
		s.notifyGameNotice(ctx, &logger, game, details, settings, "cancelled")
	case schedule.EventGamePostpone:
		s.notifyGameNotice(ctx, &logger, game, details, settings, "postponed")
	case schedule.EventScoreUpdate:
		message := email.BuildScoreEmail(email.ScoreDetails{
			Game:      details,
			HomeScore: game.HomeScore.Int64,
			AwayScore: game.AwayScore.Int64,
		})
		s.emailCoaches(ctx, &logger, game, message, settings)
	default:
		logger.Warn().Msg("Unknown notification event")
	}
}

func (s *Service) notifyChangeRequest(ctx context.Context, logger *zerolog.Logger, game db.GameContextRow, requestID int64, details email.GameDetails, settings db.NotificationSettings) {
	request, err := s.db.Queries.GetChangeRequest(ctx, requestID)
	if err != nil {
		logger.Error().Err(err).Int64("request_id", requestID).Msg("Failed to load change request for notification")
		return
	}

	message := email.BuildChangeRequestEmail(email.ChangeRequestDetails{
		Game:              details,
		RequestedDate:     request.RequestedDate,
		RequestedTime:     request.RequestedTime,
		RequestedLocation: request.RequestedLocation,
		Reason:            request.Reason,
		RequesterName:     request.RequesterContact,
	})

	s.emailAdmins(ctx, logger, game, message, settings)
}

func (s *Service) notifyReviewed(ctx context.Context, logger *zerolog.Logger, game db.GameContextRow, requestID int64, details email.GameDetails, settings db.NotificationSettings, approved bool) {
	request, err := s.db.Queries.GetChangeRequest(ctx, requestID)
	if err != nil {
		logger.Error().Err(err).Int64("request_id", requestID).Msg("Failed to load change request for notification")
		return
	}

	message := email.BuildChangeReviewedEmail(email.ReviewDetails{
		Game:        details,
		Approved:    approved,
		ReviewNotes: request.ReviewNotes,
	})

	// The requester's contact gets the outcome directly when it is an email.
	if contact := strings.TrimSpace(request.RequesterContact); strings.Contains(contact, "@") {
		email.SendToAddress(ctx, s.sender, contact, message, settings.FromAddress, logger)
	}
	s.emailCoaches(ctx, logger, game, message, settings)
}

func (s *Service) notifyGameNotice(ctx context.Context, logger *zerolog.Logger, game db.GameContextRow, details email.GameDetails, settings db.NotificationSettings, action string) {
	var reason string
	if entry, err := s.db.Queries.GetCurrentScheduleHistory(ctx, game.GameID); err == nil {
		reason = entry.Notes
	}

	message := email.BuildGameNoticeEmail(email.GameNoticeDetails{
		Game:   details,
		Action: action,
		Reason: reason,
	})
	s.emailCoaches(ctx, logger, game, message, settings)
}

func (s *Service) emailCoaches(ctx context.Context, logger *zerolog.Logger, game db.GameContextRow, message email.Message, settings db.NotificationSettings) {
	for _, coachID := range []sql.NullInt64{game.HomeCoachID, game.AwayCoachID} {
		if coachID.Valid {
			email.SendToUser(ctx, s.db.Queries, s.sender, coachID.Int64, message, settings.FromAddress, logger)
		}
	}
}

func (s *Service) emailAdmins(ctx context.Context, logger *zerolog.Logger, game db.GameContextRow, message email.Message, settings db.NotificationSettings) {
	if addr := strings.TrimSpace(settings.AdminAddress); addr != "" {
		email.SendToAddress(ctx, s.sender, addr, message, settings.FromAddress, logger)
		return
	}

	admins, err := s.db.Queries.ListAdminsByLeague(ctx, game.LeagueID)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to list admins for notification")
		return
	}
	for _, admin := range admins {
		email.SendToUser(ctx, s.db.Queries, s.sender, admin.ID, message, settings.FromAddress, logger)
	}
}

func (s *Service) recordActivity(ctx context.Context, logger *zerolog.Logger, game db.GameContextRow, event schedule.Event) {
	details := fmt.Sprintf("%s vs %s on %s", game.HomeTeamName, game.AwayTeamName, game.GameDate)
	if event.RequestID != 0 {
		details = fmt.Sprintf("%s (request #%d)", details, event.RequestID)
	}

	err := s.db.Queries.InsertActivity(ctx, db.InsertActivityParams{
		LeagueID: game.LeagueID,
		Action:   event.Name,
		Details:  details,
	})
	if err != nil {
		logger.Error().Err(err).Msg("Failed to record activity")
	}
}
