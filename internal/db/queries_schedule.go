// internal/db/queries_schedule.go
package db

import (
	"context"
	"database/sql"
)

const historyColumns = "id, game_id, version_number, entry_type, game_date, game_time, location, is_current, change_request_id, notes, created_at"

func scanHistoryEntry(row *sql.Row) (ScheduleHistoryEntry, error) {
	var e ScheduleHistoryEntry
	err := row.Scan(&e.ID, &e.GameID, &e.VersionNumber, &e.EntryType, &e.GameDate, &e.GameTime,
		&e.Location, &e.IsCurrent, &e.ChangeRequestID, &e.Notes, &e.CreatedAt)
	return e, err
}

type CreateScheduleHistoryEntryParams struct {
	GameID          int64
	VersionNumber   int64
	EntryType       string
	GameDate        string
	GameTime        string
	Location        string
	IsCurrent       bool
	ChangeRequestID sql.NullInt64
	Notes           string
}

func (q *Queries) CreateScheduleHistoryEntry(ctx context.Context, arg CreateScheduleHistoryEntryParams) (ScheduleHistoryEntry, error) {
	row := q.db.QueryRowContext(ctx,
		"INSERT INTO schedule_history (game_id, version_number, entry_type, game_date, game_time, location, is_current, change_request_id, notes) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING "+historyColumns,
		arg.GameID, arg.VersionNumber, arg.EntryType, arg.GameDate, arg.GameTime, arg.Location,
		arg.IsCurrent, arg.ChangeRequestID, arg.Notes,
	)
	return scanHistoryEntry(row)
}

func (q *Queries) GetCurrentScheduleHistory(ctx context.Context, gameID int64) (ScheduleHistoryEntry, error) {
	row := q.db.QueryRowContext(ctx,
		"SELECT "+historyColumns+" FROM schedule_history WHERE game_id = ? AND is_current = 1", gameID)
	return scanHistoryEntry(row)
}

// ClearCurrentScheduleHistory flips the game's current history entry to
// non-current. Returns the number of rows flipped (0 if no history exists).
func (q *Queries) ClearCurrentScheduleHistory(ctx context.Context, gameID int64) (int64, error) {
	result, err := q.db.ExecContext(ctx,
		"UPDATE schedule_history SET is_current = 0 WHERE game_id = ? AND is_current = 1", gameID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// NextScheduleVersion computes max(version_number)+1 for the game, 1 when the
// game has no history yet.
func (q *Queries) NextScheduleVersion(ctx context.Context, gameID int64) (int64, error) {
	var next int64
	row := q.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(version_number), 0) + 1 FROM schedule_history WHERE game_id = ?", gameID)
	err := row.Scan(&next)
	return next, err
}

func (q *Queries) ListScheduleHistory(ctx context.Context, gameID int64) ([]ScheduleHistoryEntry, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT "+historyColumns+" FROM schedule_history WHERE game_id = ? ORDER BY version_number", gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []ScheduleHistoryEntry
	for rows.Next() {
		var e ScheduleHistoryEntry
		if err := rows.Scan(&e.ID, &e.GameID, &e.VersionNumber, &e.EntryType, &e.GameDate, &e.GameTime,
			&e.Location, &e.IsCurrent, &e.ChangeRequestID, &e.Notes, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

const changeRequestColumns = "id, game_id, original_date, original_time, original_location, requested_date, requested_time, requested_location, reason, requester_contact, status, reviewed_by, reviewed_at, review_notes, created_at"

func scanChangeRequest(row *sql.Row) (ScheduleChangeRequest, error) {
	var r ScheduleChangeRequest
	err := row.Scan(&r.ID, &r.GameID, &r.OriginalDate, &r.OriginalTime, &r.OriginalLocation,
		&r.RequestedDate, &r.RequestedTime, &r.RequestedLocation, &r.Reason, &r.RequesterContact,
		&r.Status, &r.ReviewedBy, &r.ReviewedAt, &r.ReviewNotes, &r.CreatedAt)
	return r, err
}

type CreateChangeRequestParams struct {
	GameID            int64
	OriginalDate      string
	OriginalTime      string
	OriginalLocation  string
	RequestedDate     string
	RequestedTime     string
	RequestedLocation string
	Reason            string
	RequesterContact  string
}

func (q *Queries) CreateChangeRequest(ctx context.Context, arg CreateChangeRequestParams) (ScheduleChangeRequest, error) {
	row := q.db.QueryRowContext(ctx,
		"INSERT INTO schedule_change_requests (game_id, original_date, original_time, original_location, requested_date, requested_time, requested_location, reason, requester_contact, status) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 'pending') RETURNING "+changeRequestColumns,
		arg.GameID, arg.OriginalDate, arg.OriginalTime, arg.OriginalLocation,
		arg.RequestedDate, arg.RequestedTime, arg.RequestedLocation, arg.Reason, arg.RequesterContact,
	)
	return scanChangeRequest(row)
}

func (q *Queries) GetChangeRequest(ctx context.Context, id int64) (ScheduleChangeRequest, error) {
	row := q.db.QueryRowContext(ctx,
		"SELECT "+changeRequestColumns+" FROM schedule_change_requests WHERE id = ?", id)
	return scanChangeRequest(row)
}

type ReviewChangeRequestParams struct {
	ID          int64
	Status      string
	ReviewedBy  int64
	ReviewNotes string
}

// ReviewChangeRequest transitions a pending request to its terminal status.
// The WHERE guard makes a second review of the same request affect 0 rows.
func (q *Queries) ReviewChangeRequest(ctx context.Context, arg ReviewChangeRequestParams) (int64, error) {
	result, err := q.db.ExecContext(ctx,
		"UPDATE schedule_change_requests SET status = ?, reviewed_by = ?, reviewed_at = CURRENT_TIMESTAMP, review_notes = ? WHERE id = ? AND status = 'pending'",
		arg.Status, arg.ReviewedBy, arg.ReviewNotes, arg.ID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (q *Queries) CountPendingChangeRequestsByGame(ctx context.Context, gameID int64) (int64, error) {
	var count int64
	row := q.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM schedule_change_requests WHERE game_id = ? AND status = 'pending'", gameID)
	err := row.Scan(&count)
	return count, err
}

type ListChangeRequestsByLeagueParams struct {
	LeagueID int64
	Status   string
}

func (q *Queries) ListChangeRequestsByLeague(ctx context.Context, arg ListChangeRequestsByLeagueParams) ([]ScheduleChangeRequest, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT r.id, r.game_id, r.original_date, r.original_time, r.original_location,
		       r.requested_date, r.requested_time, r.requested_location, r.reason,
		       r.requester_contact, r.status, r.reviewed_by, r.reviewed_at, r.review_notes, r.created_at
		FROM schedule_change_requests r
		JOIN games g ON g.id = r.game_id
		JOIN seasons se ON se.id = g.season_id
		WHERE se.league_id = ? AND (? = '' OR r.status = ?)
		ORDER BY r.created_at DESC, r.id DESC`,
		arg.LeagueID, arg.Status, arg.Status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectChangeRequests(rows)
}

func (q *Queries) ListChangeRequestsByTeam(ctx context.Context, teamID int64) ([]ScheduleChangeRequest, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT r.id, r.game_id, r.original_date, r.original_time, r.original_location,
		       r.requested_date, r.requested_time, r.requested_location, r.reason,
		       r.requester_contact, r.status, r.reviewed_by, r.reviewed_at, r.review_notes, r.created_at
		FROM schedule_change_requests r
		JOIN games g ON g.id = r.game_id
		WHERE g.home_team_id = ? OR g.away_team_id = ?
		ORDER BY r.created_at DESC, r.id DESC`, teamID, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectChangeRequests(rows)
}

func (q *Queries) CountPendingChangeRequestsByLeague(ctx context.Context, leagueID int64) (int64, error) {
	var count int64
	row := q.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM schedule_change_requests r
		JOIN games g ON g.id = r.game_id
		JOIN seasons se ON se.id = g.season_id
		WHERE se.league_id = ? AND r.status = 'pending'`, leagueID)
	err := row.Scan(&count)
	return count, err
}

func collectChangeRequests(rows *sql.Rows) ([]ScheduleChangeRequest, error) {
	var requests []ScheduleChangeRequest
	for rows.Next() {
		var r ScheduleChangeRequest
		if err := rows.Scan(&r.ID, &r.GameID, &r.OriginalDate, &r.OriginalTime, &r.OriginalLocation,
			&r.RequestedDate, &r.RequestedTime, &r.RequestedLocation, &r.Reason, &r.RequesterContact,
			&r.Status, &r.ReviewedBy, &r.ReviewedAt, &r.ReviewNotes, &r.CreatedAt); err != nil {
			return nil, err
		}
		requests = append(requests, r)
	}
	return requests, rows.Err()
}
