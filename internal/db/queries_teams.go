// internal/db/queries_teams.go
package db

import (
	"context"
	"database/sql"
)

const teamColumns = "id, league_id, name, coach_user_id, status, created_at"

func scanTeam(row *sql.Row) (Team, error) {
	var t Team
	err := row.Scan(&t.ID, &t.LeagueID, &t.Name, &t.CoachUserID, &t.Status, &t.CreatedAt)
	return t, err
}

type CreateTeamParams struct {
	LeagueID    int64
	Name        string
	CoachUserID sql.NullInt64
	Status      string
}

func (q *Queries) CreateTeam(ctx context.Context, arg CreateTeamParams) (Team, error) {
	row := q.db.QueryRowContext(ctx,
		"INSERT INTO teams (league_id, name, coach_user_id, status) VALUES (?, ?, ?, ?) RETURNING "+teamColumns,
		arg.LeagueID, arg.Name, arg.CoachUserID, arg.Status,
	)
	return scanTeam(row)
}

func (q *Queries) GetTeam(ctx context.Context, id int64) (Team, error) {
	row := q.db.QueryRowContext(ctx,
		"SELECT "+teamColumns+" FROM teams WHERE id = ?", id)
	return scanTeam(row)
}

func (q *Queries) ListTeamsByLeague(ctx context.Context, leagueID int64) ([]Team, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT "+teamColumns+" FROM teams WHERE league_id = ? ORDER BY name", leagueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var teams []Team
	for rows.Next() {
		var t Team
		if err := rows.Scan(&t.ID, &t.LeagueID, &t.Name, &t.CoachUserID, &t.Status, &t.CreatedAt); err != nil {
			return nil, err
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

type UpdateTeamParams struct {
	ID          int64
	Name        string
	CoachUserID sql.NullInt64
	Status      string
}

func (q *Queries) UpdateTeam(ctx context.Context, arg UpdateTeamParams) (Team, error) {
	row := q.db.QueryRowContext(ctx,
		"UPDATE teams SET name = ?, coach_user_id = ?, status = ? WHERE id = ? RETURNING "+teamColumns,
		arg.Name, arg.CoachUserID, arg.Status, arg.ID,
	)
	return scanTeam(row)
}

func (q *Queries) DeleteTeam(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, "DELETE FROM teams WHERE id = ?", id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
