package email

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/leaguedesk/leaguedesk/internal/db"
)

const sendTimeout = 5 * time.Second

// SendToUser delivers a message to a league user asynchronously. The caller's
// context is detached so request completion never cancels the send.
func SendToUser(ctx context.Context, q *db.Queries, client EmailSender, userID int64, message Message, sender string, logger *zerolog.Logger) {
	if client == nil || q == nil {
		return
	}
	if userID <= 0 {
		if logger != nil {
			logger.Warn().Int64("user_id", userID).Msg("Skipping email with invalid user ID")
		}
		return
	}
	if message.Subject == "" || message.Body == "" {
		return
	}

	user, err := q.GetUserByID(ctx, userID)
	if err != nil {
		if logger != nil {
			logger.Error().Err(err).Int64("user_id", userID).Msg("Failed to load user for email")
		}
		return
	}
	recipient := strings.TrimSpace(user.Email)
	if recipient == "" {
		return
	}

	sendAsync(ctx, client, recipient, message, sender, logger)
}

// SendToAddress delivers a message to a raw address asynchronously.
func SendToAddress(ctx context.Context, client EmailSender, recipient string, message Message, sender string, logger *zerolog.Logger) {
	if client == nil {
		return
	}
	recipient = strings.TrimSpace(recipient)
	if recipient == "" || message.Subject == "" || message.Body == "" {
		return
	}

	sendAsync(ctx, client, recipient, message, sender, logger)
}

func sendAsync(ctx context.Context, client EmailSender, recipient string, message Message, sender string, logger *zerolog.Logger) {
	go func() {
		sendCtx, cancel := newEmailContext(ctx, sendTimeout)
		defer cancel()
		if sendCtx.Err() != nil {
			return
		}
		if err := client.SendFrom(sendCtx, recipient, message.Subject, message.Body, sender); err != nil && logger != nil {
			logger.Error().Err(err).Str("recipient", recipient).Msg("Failed to send email")
		}
	}()
}
