// internal/db/queries_settings.go
package db

import (
	"context"
	"database/sql"
)

func (q *Queries) GetNotificationSettings(ctx context.Context, leagueID int64) (NotificationSettings, error) {
	var s NotificationSettings
	row := q.db.QueryRowContext(ctx,
		"SELECT league_id, from_address, admin_address, enabled FROM notification_settings WHERE league_id = ?",
		leagueID)
	err := row.Scan(&s.LeagueID, &s.FromAddress, &s.AdminAddress, &s.Enabled)
	return s, err
}

type UpsertNotificationSettingsParams struct {
	LeagueID     int64
	FromAddress  string
	AdminAddress string
	Enabled      bool
}

func (q *Queries) UpsertNotificationSettings(ctx context.Context, arg UpsertNotificationSettingsParams) (NotificationSettings, error) {
	var s NotificationSettings
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO notification_settings (league_id, from_address, admin_address, enabled)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(league_id) DO UPDATE SET
			from_address = excluded.from_address,
			admin_address = excluded.admin_address,
			enabled = excluded.enabled
		RETURNING league_id, from_address, admin_address, enabled`,
		arg.LeagueID, arg.FromAddress, arg.AdminAddress, arg.Enabled)
	err := row.Scan(&s.LeagueID, &s.FromAddress, &s.AdminAddress, &s.Enabled)
	return s, err
}

type InsertActivityParams struct {
	LeagueID int64
	UserID   sql.NullInt64
	Action   string
	Details  string
}

func (q *Queries) InsertActivity(ctx context.Context, arg InsertActivityParams) error {
	_, err := q.db.ExecContext(ctx,
		"INSERT INTO activity_log (league_id, user_id, action, details) VALUES (?, ?, ?, ?)",
		arg.LeagueID, arg.UserID, arg.Action, arg.Details)
	return err
}

type ListActivityByLeagueParams struct {
	LeagueID int64
	Limit    int64
}

func (q *Queries) ListActivityByLeague(ctx context.Context, arg ListActivityByLeagueParams) ([]ActivityEntry, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT id, league_id, user_id, action, details, created_at FROM activity_log WHERE league_id = ? ORDER BY id DESC LIMIT ?",
		arg.LeagueID, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []ActivityEntry
	for rows.Next() {
		var e ActivityEntry
		if err := rows.Scan(&e.ID, &e.LeagueID, &e.UserID, &e.Action, &e.Details, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
