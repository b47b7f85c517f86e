// internal/schedule/workflow.go

// Package schedule implements the schedule change workflow: the authoritative
// current schedule for each game, an append-only versioned history of every
// change, and the approval gate between a coach's requested change and its
// application.
package schedule

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	appdb "github.com/leaguedesk/leaguedesk/internal/db"
)

// Game statuses.
const (
	StatusCreated       = "created"
	StatusActive        = "active"
	StatusScheduled     = "scheduled"
	StatusCompleted     = "completed"
	StatusCancelled     = "cancelled"
	StatusPostponed     = "postponed"
	StatusPendingChange = "pending_change"
)

// Change request statuses.
const (
	RequestPending  = "pending"
	RequestApproved = "approved"
	RequestDenied   = "denied"
)

// Schedule history entry types.
const (
	EntryTypeOriginal = "original"
	EntryTypeChanged  = "changed"
)

// Workflow event names, delivered to the notifier after a successful commit.
const (
	EventChangeRequest = "onScheduleChangeRequest"
	EventChangeApprove = "onScheduleChangeApprove"
	EventChangeDeny    = "onScheduleChangeDeny"
	EventScoreUpdate   = "onGameScoreUpdate"
	EventGameCancel    = "onGameCancel"
	EventGamePostpone  = "onGamePostpone"
)

var (
	ErrGameNotFound      = errors.New("game not found")
	ErrScheduleNotFound  = errors.New("game has no current schedule")
	ErrRequestNotFound   = errors.New("change request not found")
	ErrRequestNotPending = errors.New("change request is not pending")
	ErrGameFinalized     = errors.New("game is completed, cancelled, or postponed")
)

// Event carries the identifiers of a committed workflow transition.
// RequestID is zero when no change request was involved.
type Event struct {
	Name      string
	GameID    int64
	RequestID int64
}

// Notifier receives workflow events. Delivery is fire-and-forget: the
// workflow never waits on it and never fails because of it.
type Notifier interface {
	Notify(ctx context.Context, event Event)
}

type Workflow struct {
	db       *appdb.DB
	notifier Notifier
}

// New creates a workflow over the given database. notifier may be nil.
func New(database *appdb.DB, notifier Notifier) *Workflow {
	return &Workflow{db: database, notifier: notifier}
}

func (w *Workflow) emit(ctx context.Context, event Event) {
	if w.notifier == nil {
		return
	}
	w.notifier.Notify(ctx, event)
}

// isTerminal reports whether a game status is a sink the workflow must never
// downgrade.
func isTerminal(status string) bool {
	switch status {
	case StatusCompleted, StatusCancelled, StatusPostponed:
		return true
	default:
		return false
	}
}

type CreateGameParams struct {
	SeasonID   int64
	DivisionID sql.NullInt64
	HomeTeamID int64
	AwayTeamID int64
	GameDate   string
	GameTime   string
	Location   string
}

// CreateGame inserts a game with its initial schedule projection and seeds
// schedule history at version 1 with an "original" entry, atomically.
func (w *Workflow) CreateGame(ctx context.Context, p CreateGameParams) (int64, error) {
	var gameID int64
	err := w.db.RunInTx(ctx, func(txdb *appdb.DB) error {
		game, err := txdb.Queries.CreateGame(ctx, appdb.CreateGameParams{
			SeasonID:   p.SeasonID,
			DivisionID: p.DivisionID,
			HomeTeamID: p.HomeTeamID,
			AwayTeamID: p.AwayTeamID,
			Status:     StatusScheduled,
		})
		if err != nil {
			return fmt.Errorf("create game: %w", err)
		}

		if err := txdb.Queries.CreateGameSchedule(ctx, appdb.CreateGameScheduleParams{
			GameID:   game.ID,
			GameDate: p.GameDate,
			GameTime: p.GameTime,
			Location: p.Location,
		}); err != nil {
			return fmt.Errorf("create game schedule: %w", err)
		}

		if _, err := txdb.Queries.CreateScheduleHistoryEntry(ctx, appdb.CreateScheduleHistoryEntryParams{
			GameID:        game.ID,
			VersionNumber: 1,
			EntryType:     EntryTypeOriginal,
			GameDate:      p.GameDate,
			GameTime:      p.GameTime,
			Location:      p.Location,
			IsCurrent:     true,
			Notes:         "Initial schedule",
		}); err != nil {
			return fmt.Errorf("create schedule history: %w", err)
		}

		gameID = game.ID
		return nil
	})
	if err != nil {
		return 0, err
	}
	return gameID, nil
}

type SubmitChangeRequestParams struct {
	GameID            int64
	RequestedDate     string
	RequestedTime     string
	RequestedLocation string
	Reason            string
	RequesterContact  string
}

// SubmitChangeRequest records a coach's proposal to move a game. The current
// schedule is snapshotted as the request's original values so later edits
// cannot race the review. The proposal is advisory: history and the schedule
// projection are untouched until approval.
func (w *Workflow) SubmitChangeRequest(ctx context.Context, p SubmitChangeRequestParams) (int64, error) {
	var requestID int64
	err := w.db.RunInTx(ctx, func(txdb *appdb.DB) error {
		game, err := txdb.Queries.GetGame(ctx, p.GameID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrGameNotFound
			}
			return fmt.Errorf("fetch game: %w", err)
		}
		if isTerminal(game.Status) {
			return ErrGameFinalized
		}

		current, err := txdb.Queries.GetGameSchedule(ctx, p.GameID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrScheduleNotFound
			}
			return fmt.Errorf("fetch schedule: %w", err)
		}

		request, err := txdb.Queries.CreateChangeRequest(ctx, appdb.CreateChangeRequestParams{
			GameID:            p.GameID,
			OriginalDate:      current.GameDate,
			OriginalTime:      current.GameTime,
			OriginalLocation:  current.Location,
			RequestedDate:     p.RequestedDate,
			RequestedTime:     p.RequestedTime,
			RequestedLocation: p.RequestedLocation,
			Reason:            p.Reason,
			RequesterContact:  p.RequesterContact,
		})
		if err != nil {
			return fmt.Errorf("create change request: %w", err)
		}

		if game.Status != StatusPendingChange {
			if _, err := txdb.Queries.UpdateGameStatus(ctx, appdb.UpdateGameStatusParams{
				ID:     p.GameID,
				Status: StatusPendingChange,
			}); err != nil {
				return fmt.Errorf("update game status: %w", err)
			}
		}

		requestID = request.ID
		return nil
	})
	if err != nil {
		return 0, err
	}

	w.emit(ctx, Event{Name: EventChangeRequest, GameID: p.GameID, RequestID: requestID})
	return requestID, nil
}

// ApproveChangeRequest applies a pending request: the current history entry
// is superseded, a new version is appended with the requested values, the
// schedule projection is overwritten, and the request is marked approved.
// All of it happens in one transaction; any failure leaves the prior state.
// Returns the new version number.
func (w *Workflow) ApproveChangeRequest(ctx context.Context, requestID, reviewerID int64, reviewNotes string) (int64, error) {
	var (
		newVersion int64
		gameID     int64
	)
	err := w.db.RunInTx(ctx, func(txdb *appdb.DB) error {
		request, err := txdb.Queries.GetChangeRequest(ctx, requestID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrRequestNotFound
			}
			return fmt.Errorf("fetch change request: %w", err)
		}
		if request.Status != RequestPending {
			return ErrRequestNotPending
		}
		gameID = request.GameID

		game, err := txdb.Queries.GetGame(ctx, request.GameID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrGameNotFound
			}
			return fmt.Errorf("fetch game: %w", err)
		}

		// Supersede the current history entry.
		if _, err := txdb.Queries.ClearCurrentScheduleHistory(ctx, request.GameID); err != nil {
			return fmt.Errorf("clear current history: %w", err)
		}

		next, err := txdb.Queries.NextScheduleVersion(ctx, request.GameID)
		if err != nil {
			return fmt.Errorf("compute next version: %w", err)
		}

		notes := fmt.Sprintf("Schedule change request #%d approved", request.ID)
		if reviewNotes != "" {
			notes = fmt.Sprintf("%s: %s", notes, reviewNotes)
		}
		if _, err := txdb.Queries.CreateScheduleHistoryEntry(ctx, appdb.CreateScheduleHistoryEntryParams{
			GameID:          request.GameID,
			VersionNumber:   next,
			EntryType:       EntryTypeChanged,
			GameDate:        request.RequestedDate,
			GameTime:        request.RequestedTime,
			Location:        request.RequestedLocation,
			IsCurrent:       true,
			ChangeRequestID: sql.NullInt64{Int64: request.ID, Valid: true},
			Notes:           notes,
		}); err != nil {
			return fmt.Errorf("append history: %w", err)
		}

		// The only place the current read path is mutated.
		affected, err := txdb.Queries.UpdateGameSchedule(ctx, appdb.UpdateGameScheduleParams{
			GameID:   request.GameID,
			GameDate: request.RequestedDate,
			GameTime: request.RequestedTime,
			Location: request.RequestedLocation,
		})
		if err != nil {
			return fmt.Errorf("update schedule projection: %w", err)
		}
		if affected == 0 {
			return ErrScheduleNotFound
		}

		reviewed, err := txdb.Queries.ReviewChangeRequest(ctx, appdb.ReviewChangeRequestParams{
			ID:          request.ID,
			Status:      RequestApproved,
			ReviewedBy:  reviewerID,
			ReviewNotes: reviewNotes,
		})
		if err != nil {
			return fmt.Errorf("mark request approved: %w", err)
		}
		if reviewed == 0 {
			return ErrRequestNotPending
		}

		// Never downgrade a terminal status.
		if game.Status == StatusPendingChange {
			if _, err := txdb.Queries.UpdateGameStatus(ctx, appdb.UpdateGameStatusParams{
				ID:     request.GameID,
				Status: StatusScheduled,
			}); err != nil {
				return fmt.Errorf("update game status: %w", err)
			}
		}

		newVersion = next
		return nil
	})
	if err != nil {
		return 0, err
	}

	w.emit(ctx, Event{Name: EventChangeApprove, GameID: gameID, RequestID: requestID})
	return newVersion, nil
}

// DenyChangeRequest marks a pending request denied without touching the
// schedule or its history. If no other pending request remains for the game
// and its status is still pending_change, the game reverts to scheduled.
func (w *Workflow) DenyChangeRequest(ctx context.Context, requestID, reviewerID int64, reviewNotes string) error {
	var gameID int64
	err := w.db.RunInTx(ctx, func(txdb *appdb.DB) error {
		request, err := txdb.Queries.GetChangeRequest(ctx, requestID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrRequestNotFound
			}
			return fmt.Errorf("fetch change request: %w", err)
		}
		if request.Status != RequestPending {
			return ErrRequestNotPending
		}
		gameID = request.GameID

		reviewed, err := txdb.Queries.ReviewChangeRequest(ctx, appdb.ReviewChangeRequestParams{
			ID:          request.ID,
			Status:      RequestDenied,
			ReviewedBy:  reviewerID,
			ReviewNotes: reviewNotes,
		})
		if err != nil {
			return fmt.Errorf("mark request denied: %w", err)
		}
		if reviewed == 0 {
			return ErrRequestNotPending
		}

		// Status must reflect "does at least one open request exist", not
		// "was the most recent one resolved".
		pending, err := txdb.Queries.CountPendingChangeRequestsByGame(ctx, request.GameID)
		if err != nil {
			return fmt.Errorf("count pending requests: %w", err)
		}
		if pending == 0 {
			game, err := txdb.Queries.GetGame(ctx, request.GameID)
			if err != nil {
				return fmt.Errorf("fetch game: %w", err)
			}
			if game.Status == StatusPendingChange {
				if _, err := txdb.Queries.UpdateGameStatus(ctx, appdb.UpdateGameStatusParams{
					ID:     request.GameID,
					Status: StatusScheduled,
				}); err != nil {
					return fmt.Errorf("update game status: %w", err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	w.emit(ctx, Event{Name: EventChangeDeny, GameID: gameID, RequestID: requestID})
	return nil
}

// CancelGame marks the game cancelled and appends a history version carrying
// the existing date, time, and location unchanged. The new version exists to
// attach the cancellation reason to the immutable audit trail.
func (w *Workflow) CancelGame(ctx context.Context, gameID int64, reason string) (int64, error) {
	version, err := w.finalizeGame(ctx, gameID, StatusCancelled, "Cancelled", reason)
	if err != nil {
		return 0, err
	}
	w.emit(ctx, Event{Name: EventGameCancel, GameID: gameID})
	return version, nil
}

// PostponeGame marks the game postponed; history advances the same way as
// CancelGame.
func (w *Workflow) PostponeGame(ctx context.Context, gameID int64, reason string) (int64, error) {
	version, err := w.finalizeGame(ctx, gameID, StatusPostponed, "Postponed", reason)
	if err != nil {
		return 0, err
	}
	w.emit(ctx, Event{Name: EventGamePostpone, GameID: gameID})
	return version, nil
}

func (w *Workflow) finalizeGame(ctx context.Context, gameID int64, status, label, reason string) (int64, error) {
	var newVersion int64
	err := w.db.RunInTx(ctx, func(txdb *appdb.DB) error {
		game, err := txdb.Queries.GetGame(ctx, gameID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrGameNotFound
			}
			return fmt.Errorf("fetch game: %w", err)
		}
		if isTerminal(game.Status) {
			return ErrGameFinalized
		}

		current, err := txdb.Queries.GetGameSchedule(ctx, gameID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrScheduleNotFound
			}
			return fmt.Errorf("fetch schedule: %w", err)
		}

		if _, err := txdb.Queries.ClearCurrentScheduleHistory(ctx, gameID); err != nil {
			return fmt.Errorf("clear current history: %w", err)
		}

		next, err := txdb.Queries.NextScheduleVersion(ctx, gameID)
		if err != nil {
			return fmt.Errorf("compute next version: %w", err)
		}

		notes := label
		if reason != "" {
			notes = fmt.Sprintf("%s: %s", label, reason)
		}
		if _, err := txdb.Queries.CreateScheduleHistoryEntry(ctx, appdb.CreateScheduleHistoryEntryParams{
			GameID:        gameID,
			VersionNumber: next,
			EntryType:     EntryTypeChanged,
			GameDate:      current.GameDate,
			GameTime:      current.GameTime,
			Location:      current.Location,
			IsCurrent:     true,
			Notes:         notes,
		}); err != nil {
			return fmt.Errorf("append history: %w", err)
		}

		if _, err := txdb.Queries.UpdateGameStatus(ctx, appdb.UpdateGameStatusParams{
			ID:     gameID,
			Status: status,
		}); err != nil {
			return fmt.Errorf("update game status: %w", err)
		}

		newVersion = next
		return nil
	})
	if err != nil {
		return 0, err
	}
	return newVersion, nil
}

// RecordScore sets final scores and completes the game. Scores live outside
// the history subsystem: no ScheduleHistoryEntry is created.
func (w *Workflow) RecordScore(ctx context.Context, gameID, homeScore, awayScore int64) error {
	err := w.db.RunInTx(ctx, func(txdb *appdb.DB) error {
		game, err := txdb.Queries.GetGame(ctx, gameID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrGameNotFound
			}
			return fmt.Errorf("fetch game: %w", err)
		}
		if isTerminal(game.Status) {
			return ErrGameFinalized
		}

		if _, err := txdb.Queries.UpdateGameScore(ctx, appdb.UpdateGameScoreParams{
			ID:        gameID,
			HomeScore: homeScore,
			AwayScore: awayScore,
			Status:    StatusCompleted,
		}); err != nil {
			return fmt.Errorf("update score: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	w.emit(ctx, Event{Name: EventScoreUpdate, GameID: gameID})
	return nil
}
