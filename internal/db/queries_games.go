// internal/db/queries_games.go
package db

import (
	"context"
	"database/sql"
)

const gameColumns = "id, season_id, division_id, home_team_id, away_team_id, status, home_score, away_score, created_at"

func scanGame(row *sql.Row) (Game, error) {
	var g Game
	err := row.Scan(&g.ID, &g.SeasonID, &g.DivisionID, &g.HomeTeamID, &g.AwayTeamID, &g.Status, &g.HomeScore, &g.AwayScore, &g.CreatedAt)
	return g, err
}

type CreateGameParams struct {
	SeasonID   int64
	DivisionID sql.NullInt64
	HomeTeamID int64
	AwayTeamID int64
	Status     string
}

func (q *Queries) CreateGame(ctx context.Context, arg CreateGameParams) (Game, error) {
	row := q.db.QueryRowContext(ctx,
		"INSERT INTO games (season_id, division_id, home_team_id, away_team_id, status) VALUES (?, ?, ?, ?, ?) RETURNING "+gameColumns,
		arg.SeasonID, arg.DivisionID, arg.HomeTeamID, arg.AwayTeamID, arg.Status,
	)
	return scanGame(row)
}

func (q *Queries) GetGame(ctx context.Context, id int64) (Game, error) {
	row := q.db.QueryRowContext(ctx,
		"SELECT "+gameColumns+" FROM games WHERE id = ?", id)
	return scanGame(row)
}

type UpdateGameParams struct {
	ID         int64
	DivisionID sql.NullInt64
	HomeTeamID int64
	AwayTeamID int64
	Status     string
}

func (q *Queries) UpdateGame(ctx context.Context, arg UpdateGameParams) (Game, error) {
	row := q.db.QueryRowContext(ctx,
		"UPDATE games SET division_id = ?, home_team_id = ?, away_team_id = ?, status = ? WHERE id = ? RETURNING "+gameColumns,
		arg.DivisionID, arg.HomeTeamID, arg.AwayTeamID, arg.Status, arg.ID,
	)
	return scanGame(row)
}

type UpdateGameStatusParams struct {
	ID     int64
	Status string
}

func (q *Queries) UpdateGameStatus(ctx context.Context, arg UpdateGameStatusParams) (int64, error) {
	result, err := q.db.ExecContext(ctx,
		"UPDATE games SET status = ? WHERE id = ?", arg.Status, arg.ID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

type UpdateGameScoreParams struct {
	ID        int64
	HomeScore int64
	AwayScore int64
	Status    string
}

func (q *Queries) UpdateGameScore(ctx context.Context, arg UpdateGameScoreParams) (Game, error) {
	row := q.db.QueryRowContext(ctx,
		"UPDATE games SET home_score = ?, away_score = ?, status = ? WHERE id = ? RETURNING "+gameColumns,
		arg.HomeScore, arg.AwayScore, arg.Status, arg.ID,
	)
	return scanGame(row)
}

func (q *Queries) ListGamesBySeason(ctx context.Context, seasonID int64) ([]Game, error) {
	rows, err := q.db.QueryContext(ctx,
		"SELECT "+gameColumns+" FROM games WHERE season_id = ? ORDER BY id", seasonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var games []Game
	for rows.Next() {
		var g Game
		if err := rows.Scan(&g.ID, &g.SeasonID, &g.DivisionID, &g.HomeTeamID, &g.AwayTeamID, &g.Status, &g.HomeScore, &g.AwayScore, &g.CreatedAt); err != nil {
			return nil, err
		}
		games = append(games, g)
	}
	return games, rows.Err()
}

type CreateGameScheduleParams struct {
	GameID   int64
	GameDate string
	GameTime string
	Location string
}

func (q *Queries) CreateGameSchedule(ctx context.Context, arg CreateGameScheduleParams) error {
	_, err := q.db.ExecContext(ctx,
		"INSERT INTO game_schedules (game_id, game_date, game_time, location) VALUES (?, ?, ?, ?)",
		arg.GameID, arg.GameDate, arg.GameTime, arg.Location)
	return err
}

func (q *Queries) GetGameSchedule(ctx context.Context, gameID int64) (GameSchedule, error) {
	var s GameSchedule
	row := q.db.QueryRowContext(ctx,
		"SELECT game_id, game_date, game_time, location, updated_at FROM game_schedules WHERE game_id = ?",
		gameID)
	err := row.Scan(&s.GameID, &s.GameDate, &s.GameTime, &s.Location, &s.UpdatedAt)
	return s, err
}

type UpdateGameScheduleParams struct {
	GameID   int64
	GameDate string
	GameTime string
	Location string
}

func (q *Queries) UpdateGameSchedule(ctx context.Context, arg UpdateGameScheduleParams) (int64, error) {
	result, err := q.db.ExecContext(ctx,
		"UPDATE game_schedules SET game_date = ?, game_time = ?, location = ?, updated_at = CURRENT_TIMESTAMP WHERE game_id = ?",
		arg.GameDate, arg.GameTime, arg.Location, arg.GameID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// ScheduleRow is one line of the public schedule view: a game joined with its
// current schedule projection and team names.
type ScheduleRow struct {
	GameID       int64         `json:"gameId"`
	SeasonID     int64         `json:"seasonId"`
	GameDate     string        `json:"gameDate"`
	GameTime     string        `json:"gameTime"`
	Location     string        `json:"location"`
	HomeTeamName string        `json:"homeTeamName"`
	AwayTeamName string        `json:"awayTeamName"`
	Status       string        `json:"status"`
	HomeScore    sql.NullInt64 `json:"homeScore"`
	AwayScore    sql.NullInt64 `json:"awayScore"`
}

func (q *Queries) ListScheduleBySeason(ctx context.Context, seasonID int64) ([]ScheduleRow, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT g.id, g.season_id, s.game_date, s.game_time, s.location,
		       ht.name, at.name, g.status, g.home_score, g.away_score
		FROM games g
		JOIN game_schedules s ON s.game_id = g.id
		JOIN teams ht ON ht.id = g.home_team_id
		JOIN teams at ON at.id = g.away_team_id
		WHERE g.season_id = ?
		ORDER BY s.game_date, s.game_time, g.id`, seasonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var schedule []ScheduleRow
	for rows.Next() {
		var r ScheduleRow
		if err := rows.Scan(&r.GameID, &r.SeasonID, &r.GameDate, &r.GameTime, &r.Location,
			&r.HomeTeamName, &r.AwayTeamName, &r.Status, &r.HomeScore, &r.AwayScore); err != nil {
			return nil, err
		}
		schedule = append(schedule, r)
	}
	return schedule, rows.Err()
}

func (q *Queries) ListScheduleByTeam(ctx context.Context, teamID int64) ([]ScheduleRow, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT g.id, g.season_id, s.game_date, s.game_time, s.location,
		       ht.name, at.name, g.status, g.home_score, g.away_score
		FROM games g
		JOIN game_schedules s ON s.game_id = g.id
		JOIN teams ht ON ht.id = g.home_team_id
		JOIN teams at ON at.id = g.away_team_id
		WHERE g.home_team_id = ? OR g.away_team_id = ?
		ORDER BY s.game_date, s.game_time, g.id`, teamID, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var schedule []ScheduleRow
	for rows.Next() {
		var r ScheduleRow
		if err := rows.Scan(&r.GameID, &r.SeasonID, &r.GameDate, &r.GameTime, &r.Location,
			&r.HomeTeamName, &r.AwayTeamName, &r.Status, &r.HomeScore, &r.AwayScore); err != nil {
			return nil, err
		}
		schedule = append(schedule, r)
	}
	return schedule, rows.Err()
}

// GameReminderRow joins a scheduled game with the coach emails needed by the
// reminder job.
type GameReminderRow struct {
	GameID         int64
	LeagueID       int64
	GameDate       string
	GameTime       string
	Location       string
	HomeTeamName   string
	AwayTeamName   string
	HomeCoachEmail sql.NullString
	AwayCoachEmail sql.NullString
}

func (q *Queries) ListScheduledGamesByDate(ctx context.Context, gameDate string) ([]GameReminderRow, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT g.id, se.league_id, s.game_date, s.game_time, s.location,
		       ht.name, at.name, hu.email, au.email
		FROM games g
		JOIN game_schedules s ON s.game_id = g.id
		JOIN seasons se ON se.id = g.season_id
		JOIN teams ht ON ht.id = g.home_team_id
		JOIN teams at ON at.id = g.away_team_id
		LEFT JOIN users hu ON hu.id = ht.coach_user_id
		LEFT JOIN users au ON au.id = at.coach_user_id
		WHERE s.game_date = ? AND g.status IN ('scheduled', 'pending_change')
		ORDER BY s.game_time, g.id`, gameDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reminders []GameReminderRow
	for rows.Next() {
		var r GameReminderRow
		if err := rows.Scan(&r.GameID, &r.LeagueID, &r.GameDate, &r.GameTime, &r.Location,
			&r.HomeTeamName, &r.AwayTeamName, &r.HomeCoachEmail, &r.AwayCoachEmail); err != nil {
			return nil, err
		}
		reminders = append(reminders, r)
	}
	return reminders, rows.Err()
}

// StandingsDataRow is one game of a season with team names, used by the
// standings calculator. Scores are null until the game completes.
type StandingsDataRow struct {
	GameID       int64
	Status       string
	HomeTeamID   int64
	HomeTeamName string
	AwayTeamID   int64
	AwayTeamName string
	HomeScore    sql.NullInt64
	AwayScore    sql.NullInt64
}

func (q *Queries) GetSeasonStandingsData(ctx context.Context, seasonID int64) ([]StandingsDataRow, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT g.id, g.status, g.home_team_id, ht.name, g.away_team_id, at.name,
		       g.home_score, g.away_score
		FROM games g
		JOIN teams ht ON ht.id = g.home_team_id
		JOIN teams at ON at.id = g.away_team_id
		WHERE g.season_id = ?
		ORDER BY g.id`, seasonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var data []StandingsDataRow
	for rows.Next() {
		var r StandingsDataRow
		if err := rows.Scan(&r.GameID, &r.Status, &r.HomeTeamID, &r.HomeTeamName,
			&r.AwayTeamID, &r.AwayTeamName, &r.HomeScore, &r.AwayScore); err != nil {
			return nil, err
		}
		data = append(data, r)
	}
	return data, rows.Err()
}

// GameContextRow bundles everything a notification needs about one game.
type GameContextRow struct {
	GameID       int64
	Status       string
	LeagueID     int64
	LeagueName   string
	SeasonID     int64
	HomeTeamID   int64
	HomeTeamName string
	HomeCoachID  sql.NullInt64
	AwayTeamID   int64
	AwayTeamName string
	AwayCoachID  sql.NullInt64
	HomeScore    sql.NullInt64
	AwayScore    sql.NullInt64
	GameDate     string
	GameTime     string
	Location     string
}

func (q *Queries) GetGameContext(ctx context.Context, gameID int64) (GameContextRow, error) {
	var r GameContextRow
	err := q.db.QueryRowContext(ctx, `
		SELECT g.id, g.status, l.id, l.name, g.season_id,
		       g.home_team_id, ht.name, ht.coach_user_id,
		       g.away_team_id, at.name, at.coach_user_id,
		       g.home_score, g.away_score,
		       gs.game_date, gs.game_time, gs.location
		FROM games g
		JOIN seasons se ON se.id = g.season_id
		JOIN leagues l ON l.id = se.league_id
		JOIN teams ht ON ht.id = g.home_team_id
		JOIN teams at ON at.id = g.away_team_id
		JOIN game_schedules gs ON gs.game_id = g.id
		WHERE g.id = ?`, gameID).Scan(
		&r.GameID, &r.Status, &r.LeagueID, &r.LeagueName, &r.SeasonID,
		&r.HomeTeamID, &r.HomeTeamName, &r.HomeCoachID,
		&r.AwayTeamID, &r.AwayTeamName, &r.AwayCoachID,
		&r.HomeScore, &r.AwayScore,
		&r.GameDate, &r.GameTime, &r.Location)
	return r, err
}
